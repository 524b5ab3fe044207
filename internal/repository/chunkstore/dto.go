package chunkstore

import (
	"strconv"

	"github.com/meridian-clinic/deepsearch/internal/domain"
)

// Hash field names used by the ingestion pipeline.
const (
	fieldID         = "id"
	fieldContent    = "content"
	fieldQuestion   = "question"
	fieldAnswer     = "answer"
	fieldChunkIndex = "chunk_index"
	fieldDocumentID = "document_id"
	fieldLabel      = "collection_label"
	fieldCategory   = "category"
)

// chunkFromHash maps a chunk hash to the domain type. A malformed
// chunk_index degrades to 0 rather than failing the whole query.
func chunkFromHash(fields map[string]string) domain.KnowledgeChunk {
	idx, _ := strconv.Atoi(fields[fieldChunkIndex])
	return domain.KnowledgeChunk{
		ID:              fields[fieldID],
		Content:         fields[fieldContent],
		Question:        fields[fieldQuestion],
		Answer:          fields[fieldAnswer],
		ChunkIndex:      idx,
		DocumentID:      fields[fieldDocumentID],
		CollectionLabel: fields[fieldLabel],
		Category:        fields[fieldCategory],
	}
}
