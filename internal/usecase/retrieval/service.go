package retrieval

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/meridian-clinic/deepsearch/internal/domain"
	"github.com/meridian-clinic/deepsearch/internal/logger"
	"github.com/meridian-clinic/deepsearch/internal/metrics"
)

const (
	primaryChunkLimit  = 20
	crossRefChunkLimit = 8
	crossRefKeywordCap = 3
)

// Result is one retrieval run: the primary degrade-chain output plus the
// three cross-reference sweeps, with the collection labels that actually
// produced each accepted set.
type Result struct {
	PrimaryChunks []domain.KnowledgeChunk
	PrimarySource string // label that produced the primary set, "" when empty

	CrossRefChunks  map[domain.CrossRefKey][]domain.KnowledgeChunk
	CrossRefSources map[domain.CrossRefKey]string

	// LabelsQueried lists every collection label queried, primary chain
	// first, then sweeps in definition order. Returned in response metadata.
	LabelsQueried []string
}

// Service orchestrates knowledge-base retrieval for one request.
type Service struct {
	finder       ChunkFinder
	catalog      *domain.TopicCatalog
	queryTimeout time.Duration
}

// New creates a retrieval orchestrator.
func New(finder ChunkFinder, catalog *domain.TopicCatalog) *Service {
	return &Service{finder: finder, catalog: catalog}
}

// WithQueryTimeout bounds every individual store query. Exceeding it is a
// query error, absorbed like any other store failure.
func (s *Service) WithQueryTimeout(d time.Duration) *Service {
	s.queryTimeout = d
	return s
}

// Retrieve runs the primary degrade chain and the three cross-reference
// sweeps for the given module. The primary chain is strictly sequential:
// fallback and default labels are only queried when the previous step
// returned nothing. The sweeps run concurrently with each other and all
// complete (or fail soft to empty) before Retrieve returns.
//
// A query with no usable keywords skips the store entirely; that is not an
// error.
func (s *Service) Retrieve(ctx context.Context, moduleID int, retrievalQuery string) (Result, error) {
	topic, err := s.catalog.Topic(moduleID)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		CrossRefChunks:  make(map[domain.CrossRefKey][]domain.KnowledgeChunk),
		CrossRefSources: make(map[domain.CrossRefKey]string),
	}

	keywords := Keywords(retrievalQuery)
	if len(keywords) == 0 {
		return result, nil
	}

	crossKeywords := keywords
	if len(crossKeywords) > crossRefKeywordCap {
		crossKeywords = crossKeywords[:crossRefKeywordCap]
	}

	// Cross-reference sweeps run concurrently; the primary chain does not
	// wait for them to start its own work.
	type sweepOutcome struct {
		key     domain.CrossRefKey
		chunks  []domain.KnowledgeChunk
		source  string
		queried []string
	}

	crossRefs := s.catalog.CrossRefs()
	outcomes := make([]sweepOutcome, len(crossRefs))

	var wg sync.WaitGroup
	for i, cr := range crossRefs {
		if cr.Topic.ModuleID == topic.ModuleID {
			continue
		}
		wg.Add(1)
		go func(i int, cr domain.CrossReferenceTopic) {
			defer wg.Done()
			chunks, source, queried := s.runChain(
				ctx, string(cr.Key), crossKeywords, crossRefChunkLimit,
				chainLabels(cr.Topic, false),
			)
			outcomes[i] = sweepOutcome{key: cr.Key, chunks: chunks, source: source, queried: queried}
		}(i, cr)
	}

	primaryChunks, primarySource, primaryQueried := s.runChain(
		ctx, "primary", keywords, primaryChunkLimit,
		chainLabels(topic, true),
	)
	result.PrimaryChunks = primaryChunks
	result.PrimarySource = primarySource
	result.LabelsQueried = append(result.LabelsQueried, primaryQueried...)

	wg.Wait()

	for _, out := range outcomes {
		if out.key == "" {
			continue
		}
		result.CrossRefChunks[out.key] = out.chunks
		if out.source != "" {
			result.CrossRefSources[out.key] = out.source
		}
		result.LabelsQueried = append(result.LabelsQueried, out.queried...)
	}

	return result, nil
}

// chainStep is one label in a degrade chain.
type chainStep struct {
	stage string
	label string
}

// chainLabels builds the degrade chain for a topic: primary, then fallback
// when configured, then (for the primary chain only) the shared default
// collection.
func chainLabels(topic domain.ModuleTopic, withDefault bool) []chainStep {
	steps := []chainStep{{stage: "primary", label: topic.PrimaryLabel}}
	if topic.FallbackLabel != "" {
		steps = append(steps, chainStep{stage: "fallback", label: topic.FallbackLabel})
	}
	if withDefault {
		steps = append(steps, chainStep{stage: "default", label: domain.DefaultCollectionLabel})
	}
	return steps
}

// runChain walks a degrade chain: each step is attempted only when the
// previous one produced nothing. A store error is logged and treated as zero
// chunks so an outage degrades quality instead of aborting the request.
func (s *Service) runChain(
	ctx context.Context, stage string, keywords []string, limit int, steps []chainStep,
) (chunks []domain.KnowledgeChunk, source string, queried []string) {
	log := logger.FromContext(ctx)

	for _, step := range steps {
		queried = append(queried, step.label)

		found, err := s.findChunks(ctx, step.label, keywords, limit)
		if err != nil {
			metrics.RetrievalStoreErrorsTotal.WithLabelValues(stage).Inc()
			log.Warn("knowledge store query failed, continuing degrade chain",
				zap.String("stage", stage),
				zap.String("step", step.stage),
				zap.String("label", step.label),
				zap.Error(err),
			)
			continue
		}
		if len(found) == 0 {
			continue
		}

		metrics.RetrievalChunksFound.WithLabelValues(stage).Add(float64(len(found)))
		return found, step.label, queried
	}

	return nil, "", queried
}

func (s *Service) findChunks(
	ctx context.Context, label string, keywords []string, limit int,
) ([]domain.KnowledgeChunk, error) {
	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}

	chunks, err := s.finder.FindChunks(ctx, label, keywords, limit)
	if err != nil {
		return nil, fmt.Errorf("find chunks in %q: %w", label, err)
	}
	return chunks, nil
}
