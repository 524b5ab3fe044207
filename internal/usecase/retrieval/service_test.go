package retrieval

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/meridian-clinic/deepsearch/internal/domain"
)

// mockFinder records every FindChunks call and serves canned responses per
// label. Safe for concurrent use: the cross-reference sweeps call it from
// their own goroutines.
type mockFinder struct {
	mu sync.Mutex

	chunksByLabel map[string][]domain.KnowledgeChunk
	errByLabel    map[string]error

	calls []finderCall
}

type finderCall struct {
	label    string
	keywords []string
	limit    int
}

func (m *mockFinder) FindChunks(_ context.Context, label string, keywords []string, limit int) ([]domain.KnowledgeChunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, finderCall{label: label, keywords: keywords, limit: limit})
	if err, ok := m.errByLabel[label]; ok {
		return nil, err
	}
	return m.chunksByLabel[label], nil
}

func (m *mockFinder) callsForLabel(label string) []finderCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []finderCall
	for _, c := range m.calls {
		if c.label == label {
			out = append(out, c)
		}
	}
	return out
}

func chunksOf(ids ...string) []domain.KnowledgeChunk {
	out := make([]domain.KnowledgeChunk, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.KnowledgeChunk{ID: id, Content: "content for " + id})
	}
	return out
}

const (
	pulsePrimaryLabel  = "Pulse Diagnosis Q&A"
	pulseFallbackLabel = "clinic_pulse_diagnosis"
	nutritionLabel     = "Nutrition Therapy Q&A"
	lifestyleLabel     = "Lifestyle Medicine Q&A"
	mindsetLabel       = "Mindset & Emotions Q&A"
)

func newService(finder *mockFinder) *Service {
	return New(finder, domain.NewTopicCatalog())
}

func TestRetrieve_PrimaryHitStopsChain(t *testing.T) {
	finder := &mockFinder{chunksByLabel: map[string][]domain.KnowledgeChunk{
		pulsePrimaryLabel: chunksOf("c1", "c2"),
	}}
	svc := newService(finder)

	res, err := svc.Retrieve(context.Background(), 4, "thin rapid pulse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.PrimaryChunks) != 2 {
		t.Errorf("expected 2 primary chunks, got %d", len(res.PrimaryChunks))
	}
	if res.PrimarySource != pulsePrimaryLabel {
		t.Errorf("expected primary source %q, got %q", pulsePrimaryLabel, res.PrimarySource)
	}
	if n := len(finder.callsForLabel(pulseFallbackLabel)); n != 0 {
		t.Errorf("fallback label queried %d times after primary hit", n)
	}
	if n := len(finder.callsForLabel(domain.DefaultCollectionLabel)); n != 0 {
		t.Errorf("default label queried %d times after primary hit", n)
	}
}

func TestRetrieve_FallbackOnlyWhenPrimaryEmpty(t *testing.T) {
	finder := &mockFinder{chunksByLabel: map[string][]domain.KnowledgeChunk{
		pulseFallbackLabel: chunksOf("f1"),
	}}
	svc := newService(finder)

	res, err := svc.Retrieve(context.Background(), 4, "thin rapid pulse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.PrimarySource != pulseFallbackLabel {
		t.Errorf("expected fallback source, got %q", res.PrimarySource)
	}
	if n := len(finder.callsForLabel(pulsePrimaryLabel)); n != 1 {
		t.Errorf("primary label queried %d times, want 1", n)
	}
	if n := len(finder.callsForLabel(domain.DefaultCollectionLabel)); n != 0 {
		t.Errorf("default label queried after fallback hit")
	}
}

func TestRetrieve_DefaultAsLastResort(t *testing.T) {
	finder := &mockFinder{chunksByLabel: map[string][]domain.KnowledgeChunk{
		domain.DefaultCollectionLabel: chunksOf("d1"),
	}}
	svc := newService(finder)

	res, err := svc.Retrieve(context.Background(), 4, "thin rapid pulse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.PrimarySource != domain.DefaultCollectionLabel {
		t.Errorf("expected default source, got %q", res.PrimarySource)
	}
	for _, label := range []string{pulsePrimaryLabel, pulseFallbackLabel, domain.DefaultCollectionLabel} {
		if n := len(finder.callsForLabel(label)); n != 1 {
			t.Errorf("label %q queried %d times, want 1", label, n)
		}
	}
}

func TestRetrieve_AllEmptyYieldsEmptyResult(t *testing.T) {
	finder := &mockFinder{}
	svc := newService(finder)

	res, err := svc.Retrieve(context.Background(), 4, "thin rapid pulse")
	if err != nil {
		t.Fatalf("exhausted chain must not error: %v", err)
	}
	if len(res.PrimaryChunks) != 0 || res.PrimarySource != "" {
		t.Errorf("expected empty primary result, got %d chunks from %q", len(res.PrimaryChunks), res.PrimarySource)
	}
}

func TestRetrieve_StoreErrorIsSoft(t *testing.T) {
	finder := &mockFinder{
		errByLabel: map[string]error{
			pulsePrimaryLabel: errors.New("connection refused"),
		},
		chunksByLabel: map[string][]domain.KnowledgeChunk{
			pulseFallbackLabel: chunksOf("f1"),
		},
	}
	svc := newService(finder)

	res, err := svc.Retrieve(context.Background(), 4, "thin rapid pulse")
	if err != nil {
		t.Fatalf("store error must not abort retrieval: %v", err)
	}
	if res.PrimarySource != pulseFallbackLabel {
		t.Errorf("expected degrade to fallback after error, got source %q", res.PrimarySource)
	}
}

func TestRetrieve_NoKeywordsSkipsStore(t *testing.T) {
	finder := &mockFinder{}
	svc := newService(finder)

	res, err := svc.Retrieve(context.Background(), 4, "a of it")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(finder.calls) != 0 {
		t.Errorf("store queried %d times for keyword-less query", len(finder.calls))
	}
	if len(res.LabelsQueried) != 0 {
		t.Errorf("unexpected labels queried: %v", res.LabelsQueried)
	}
}

func TestRetrieve_UnknownModule(t *testing.T) {
	svc := newService(&mockFinder{})

	_, err := svc.Retrieve(context.Background(), 999, "thin rapid pulse")
	if !errors.Is(err, domain.ErrUnknownModule) {
		t.Fatalf("expected ErrUnknownModule, got %v", err)
	}
}

func TestRetrieve_CrossRefSweepsAllComplete(t *testing.T) {
	finder := &mockFinder{chunksByLabel: map[string][]domain.KnowledgeChunk{
		pulsePrimaryLabel: chunksOf("p1"),
		nutritionLabel:    chunksOf("n1"),
		lifestyleLabel:    chunksOf("l1"),
		mindsetLabel:      chunksOf("m1"),
	}}
	svc := newService(finder)

	res, err := svc.Retrieve(context.Background(), 4, "thin rapid pulse night sweats dizziness")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for key, wantSource := range map[domain.CrossRefKey]string{
		domain.CrossRefNutrition: nutritionLabel,
		domain.CrossRefLifestyle: lifestyleLabel,
		domain.CrossRefMindset:   mindsetLabel,
	} {
		if len(res.CrossRefChunks[key]) != 1 {
			t.Errorf("sweep %s: expected 1 chunk, got %d", key, len(res.CrossRefChunks[key]))
		}
		if res.CrossRefSources[key] != wantSource {
			t.Errorf("sweep %s: expected source %q, got %q", key, wantSource, res.CrossRefSources[key])
		}
	}

	// Sweeps use a tighter limit and capped keywords.
	calls := finder.callsForLabel(nutritionLabel)
	if len(calls) != 1 {
		t.Fatalf("nutrition label queried %d times, want 1", len(calls))
	}
	if calls[0].limit != crossRefChunkLimit {
		t.Errorf("sweep limit = %d, want %d", calls[0].limit, crossRefChunkLimit)
	}
	if len(calls[0].keywords) > crossRefKeywordCap {
		t.Errorf("sweep keywords = %d, want at most %d", len(calls[0].keywords), crossRefKeywordCap)
	}
}

func TestRetrieve_CrossRefModuleSkipsOwnSweep(t *testing.T) {
	finder := &mockFinder{chunksByLabel: map[string][]domain.KnowledgeChunk{
		nutritionLabel: chunksOf("n1"),
	}}
	svc := newService(finder)

	// Module 30 is the nutrition module itself; its own sweep is redundant.
	res, err := svc.Retrieve(context.Background(), 30, "warming foods congee")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := res.CrossRefChunks[domain.CrossRefNutrition]; ok {
		t.Error("nutrition sweep ran for the nutrition module itself")
	}
	if n := len(finder.callsForLabel(nutritionLabel)); n != 1 {
		t.Errorf("nutrition label queried %d times, want 1 (primary chain only)", n)
	}
	if res.PrimarySource != nutritionLabel {
		t.Errorf("expected primary source %q, got %q", nutritionLabel, res.PrimarySource)
	}
}

func TestRetrieve_LabelsQueriedPrimaryChainFirst(t *testing.T) {
	finder := &mockFinder{chunksByLabel: map[string][]domain.KnowledgeChunk{
		domain.DefaultCollectionLabel: chunksOf("d1"),
	}}
	svc := newService(finder)

	res, err := svc.Retrieve(context.Background(), 4, "thin rapid pulse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{pulsePrimaryLabel, pulseFallbackLabel, domain.DefaultCollectionLabel}
	if len(res.LabelsQueried) < len(want) {
		t.Fatalf("LabelsQueried too short: %v", res.LabelsQueried)
	}
	for i, label := range want {
		if res.LabelsQueried[i] != label {
			t.Errorf("LabelsQueried[%d] = %q, want %q", i, res.LabelsQueried[i], label)
		}
	}
}
