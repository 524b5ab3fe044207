package retrieval

import (
	"context"

	"github.com/meridian-clinic/deepsearch/internal/domain"
)

// ChunkFinder is the knowledge-store query contract: case-insensitive
// substring match on the collection label, OR-match of keywords in content.
type ChunkFinder interface {
	FindChunks(ctx context.Context, labelPattern string, keywords []string, limit int) ([]domain.KnowledgeChunk, error)
}
