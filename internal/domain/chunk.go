package domain

// KnowledgeChunk is a stored unit of knowledge-base text, optionally shaped
// as a question/answer pair. Chunks are owned by the ingestion pipeline and
// read-only to this service.
type KnowledgeChunk struct {
	ID              string `json:"id"`
	Content         string `json:"content"`
	Question        string `json:"question,omitempty"`
	Answer          string `json:"answer,omitempty"`
	ChunkIndex      int    `json:"chunk_index"`
	DocumentID      string `json:"document_id"`
	CollectionLabel string `json:"collection_label"`
	Category        string `json:"category,omitempty"`
}
