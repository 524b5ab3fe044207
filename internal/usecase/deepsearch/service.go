package deepsearch

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meridian-clinic/deepsearch/internal/domain"
	"github.com/meridian-clinic/deepsearch/internal/logger"
	"github.com/meridian-clinic/deepsearch/internal/usecase/report"
	"github.com/meridian-clinic/deepsearch/internal/usecase/retrieval"
)

// Metadata describes what one deep-search run actually did.
type Metadata struct {
	ReportID        string         `json:"report_id"`
	ModuleName      string         `json:"module_name"`
	LabelsQueried   []string       `json:"labels_queried"`
	PrimaryChunks   int            `json:"primary_chunk_count"`
	CrossRefChunks  map[string]int `json:"cross_ref_chunk_counts"`
	OriginalQuery   string         `json:"original_query,omitempty"`
	TranslatedQuery string         `json:"translated_query,omitempty"`
}

// Response is the deep-search output: the structured report plus run
// metadata. Reports are never persisted; each request recomputes everything.
type Response struct {
	Report domain.StructuredReport `json:"report"`
	Meta   Metadata                `json:"meta"`
}

// Service runs the deep-search pipeline: build → translate? → retrieve →
// synthesize → extract. Stateless; one request, one report.
type Service struct {
	catalog     *domain.TopicCatalog
	builder     QueryBuilder
	translator  Translator
	retriever   Retriever
	synthesizer Synthesizer
	extractor   Extractor
}

// New creates the pipeline service.
func New(
	catalog *domain.TopicCatalog,
	builder QueryBuilder,
	translator Translator,
	retriever Retriever,
	synthesizer Synthesizer,
	extractor Extractor,
) *Service {
	return &Service{
		catalog:     catalog,
		builder:     builder,
		translator:  translator,
		retriever:   retriever,
		synthesizer: synthesizer,
		extractor:   extractor,
	}
}

// Run executes one deep-search request.
//
// An unknown module fails before any I/O. An empty built query skips
// translation and retrieval but still synthesizes a report stating nothing
// was found. Translation and synthesis failures abort the request with their
// error kind intact; store failures have already been absorbed by the
// orchestrator.
func (s *Service) Run(ctx context.Context, req domain.DeepSearchRequest) (Response, error) {
	log := logger.FromContext(ctx)

	topic, err := s.catalog.Topic(req.ModuleID)
	if err != nil {
		return Response{}, err
	}

	originalQuery := s.builder.Build(req)

	retrievalQuery := originalQuery
	translated := ""
	if originalQuery != "" && req.Language != domain.LanguageEN {
		translated, err = s.translator.Translate(ctx, req.Language, originalQuery, topic.Name)
		if err != nil {
			return Response{}, fmt.Errorf("translation bridge: %w", err)
		}
		retrievalQuery = translated
	}

	var res retrieval.Result
	if retrievalQuery != "" {
		res, err = s.retriever.Retrieve(ctx, req.ModuleID, retrievalQuery)
		if err != nil {
			return Response{}, fmt.Errorf("retrieve: %w", err)
		}
	}

	log.Info("deep search retrieval complete",
		zap.String("module", topic.Name),
		zap.Int("primary_chunks", len(res.PrimaryChunks)),
		zap.Strings("labels_queried", res.LabelsQueried),
	)

	raw, err := s.synthesizer.Synthesize(ctx, report.SynthesisInput{
		TopicName:        topic.Name,
		Language:         req.Language,
		Query:            retrievalQuery,
		PrimaryContext:   report.ContextFromChunks(res.PrimaryChunks),
		PrimarySource:    res.PrimarySource,
		NutritionContext: report.ContextFromChunks(res.CrossRefChunks[domain.CrossRefNutrition]),
		NutritionSource:  res.CrossRefSources[domain.CrossRefNutrition],
		LifestyleContext: report.ContextFromChunks(res.CrossRefChunks[domain.CrossRefLifestyle]),
		LifestyleSource:  res.CrossRefSources[domain.CrossRefLifestyle],
		MindsetContext:   report.ContextFromChunks(res.CrossRefChunks[domain.CrossRefMindset]),
		MindsetSource:    res.CrossRefSources[domain.CrossRefMindset],
	})
	if err != nil {
		return Response{}, err
	}

	structured := s.extractor.Extract(raw, report.SourceAttribution{
		Primary:   res.PrimarySource,
		Nutrition: res.CrossRefSources[domain.CrossRefNutrition],
		Lifestyle: res.CrossRefSources[domain.CrossRefLifestyle],
		Mindset:   res.CrossRefSources[domain.CrossRefMindset],
	})

	crossCounts := make(map[string]int, len(res.CrossRefChunks))
	for key, chunks := range res.CrossRefChunks {
		crossCounts[string(key)] = len(chunks)
	}

	return Response{
		Report: structured,
		Meta: Metadata{
			ReportID:        uuid.NewString(),
			ModuleName:      topic.Name,
			LabelsQueried:   res.LabelsQueried,
			PrimaryChunks:   len(res.PrimaryChunks),
			CrossRefChunks:  crossCounts,
			OriginalQuery:   originalQuery,
			TranslatedQuery: translated,
		},
	}, nil
}
