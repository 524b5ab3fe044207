package deepsearch

import (
	"context"

	"github.com/meridian-clinic/deepsearch/internal/domain"
	"github.com/meridian-clinic/deepsearch/internal/usecase/report"
	"github.com/meridian-clinic/deepsearch/internal/usecase/retrieval"
)

// QueryBuilder converts a questionnaire into a retrieval query.
type QueryBuilder interface {
	Build(req domain.DeepSearchRequest) string
}

// Translator is the cross-lingual query bridge.
type Translator interface {
	Translate(ctx context.Context, lang domain.Language, text, topicName string) (string, error)
}

// Retriever runs the degrade chain and cross-reference sweeps.
type Retriever interface {
	Retrieve(ctx context.Context, moduleID int, retrievalQuery string) (retrieval.Result, error)
}

// Synthesizer turns assembled context into one raw report.
type Synthesizer interface {
	Synthesize(ctx context.Context, in report.SynthesisInput) (string, error)
}

// Extractor parses the raw report into structured fields.
type Extractor interface {
	Extract(raw string, sources report.SourceAttribution) domain.StructuredReport
}
