package chunkstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/meridian-clinic/deepsearch/internal/domain"
)

const defaultKeyPrefix = "clinic:chunk:"

// fetchBatchSize caps how many hashes one DoMulti round-trip fetches.
const fetchBatchSize = 100

// store is the consumer interface for chunk reads (ISP).
type store interface {
	Scan(ctx context.Context, pattern string) ([]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// Repo reads knowledge chunks written by the ingestion pipeline. Matching is
// deliberately plain substring containment, not semantic search: the report
// shape downstream is tuned against these semantics.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a chunk repository.
func New(s store) *Repo {
	return &Repo{store: s, keyPrefix: defaultKeyPrefix}
}

// WithKeyPrefix overrides the chunk key prefix.
func (r *Repo) WithKeyPrefix(prefix string) *Repo {
	if prefix != "" {
		r.keyPrefix = prefix
	}
	return r
}

// FindChunks returns up to limit chunks whose collection label contains
// labelPattern (case-insensitive) and whose content contains at least one of
// the keywords (case-insensitive, logical OR). Keys are walked in sorted
// order so results are stable across calls.
func (r *Repo) FindChunks(
	ctx context.Context, labelPattern string, keywords []string, limit int,
) ([]domain.KnowledgeChunk, error) {
	if labelPattern == "" || len(keywords) == 0 || limit <= 0 {
		return nil, nil
	}

	keys, err := r.store.Scan(ctx, r.keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan chunks: %w", err)
	}
	sort.Strings(keys)

	pattern := strings.ToLower(labelPattern)
	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}

	var out []domain.KnowledgeChunk
	for start := 0; start < len(keys) && len(out) < limit; start += fetchBatchSize {
		end := start + fetchBatchSize
		if end > len(keys) {
			end = len(keys)
		}

		hashes, err := r.store.HGetAllMulti(ctx, keys[start:end])
		if err != nil {
			return nil, fmt.Errorf("fetch chunks: %w", err)
		}

		for _, fields := range hashes {
			if len(fields) == 0 {
				continue
			}
			chunk := chunkFromHash(fields)
			if !matches(chunk, pattern, lowered) {
				continue
			}
			out = append(out, chunk)
			if len(out) == limit {
				break
			}
		}
	}

	return out, nil
}

func matches(chunk domain.KnowledgeChunk, labelPattern string, loweredKeywords []string) bool {
	if !strings.Contains(strings.ToLower(chunk.CollectionLabel), labelPattern) {
		return false
	}
	content := strings.ToLower(chunk.Content)
	for _, kw := range loweredKeywords {
		if strings.Contains(content, kw) {
			return true
		}
	}
	return false
}
