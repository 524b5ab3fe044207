package chunkstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type mockStore struct {
	keys  map[string]map[string]string
	errOn string // "scan" or "hgetallmulti"
	calls []string
}

func (m *mockStore) Scan(_ context.Context, pattern string) ([]string, error) {
	m.calls = append(m.calls, "scan:"+pattern)
	if m.errOn == "scan" {
		return nil, errors.New("scan failed")
	}
	keys := make([]string, 0, len(m.keys))
	for k := range m.keys {
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *mockStore) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	m.calls = append(m.calls, fmt.Sprintf("hgetallmulti:%d", len(keys)))
	if m.errOn == "hgetallmulti" {
		return nil, errors.New("fetch failed")
	}
	out := make([]map[string]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, m.keys[k])
	}
	return out, nil
}

func chunkHash(id, label, content string) map[string]string {
	return map[string]string{
		"id":               id,
		"content":          content,
		"collection_label": label,
		"chunk_index":      "1",
		"document_id":      "doc-" + id,
	}
}

func TestFindChunks_LabelAndKeywordFiltering(t *testing.T) {
	s := &mockStore{keys: map[string]map[string]string{
		"clinic:chunk:1": chunkHash("1", "Pulse Diagnosis Q&A", "A thin rapid pulse signals yin deficiency."),
		"clinic:chunk:2": chunkHash("2", "Pulse Diagnosis Q&A", "Wiry pulse points to liver qi stagnation."),
		"clinic:chunk:3": chunkHash("3", "clinic_nutrition_therapy", "A thin rapid pulse calls for cooling foods."),
	}}
	repo := New(s)

	chunks, err := repo.FindChunks(context.Background(), "pulse diagnosis", []string{"rapid"}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("chunks = %d, want 1", len(chunks))
	}
	if chunks[0].ID != "1" {
		t.Errorf("chunk id = %q, want 1", chunks[0].ID)
	}
	if chunks[0].CollectionLabel != "Pulse Diagnosis Q&A" {
		t.Errorf("label = %q", chunks[0].CollectionLabel)
	}
}

func TestFindChunks_KeywordsAreOR(t *testing.T) {
	s := &mockStore{keys: map[string]map[string]string{
		"clinic:chunk:1": chunkHash("1", "Pulse Diagnosis Q&A", "rapid pulse only"),
		"clinic:chunk:2": chunkHash("2", "Pulse Diagnosis Q&A", "wiry pulse only"),
		"clinic:chunk:3": chunkHash("3", "Pulse Diagnosis Q&A", "nothing relevant"),
	}}
	repo := New(s)

	chunks, err := repo.FindChunks(context.Background(), "pulse", []string{"rapid", "wiry"}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Errorf("chunks = %d, want 2 (keyword match is OR)", len(chunks))
	}
}

func TestFindChunks_CaseInsensitive(t *testing.T) {
	s := &mockStore{keys: map[string]map[string]string{
		"clinic:chunk:1": chunkHash("1", "PULSE DIAGNOSIS Q&A", "Night SWEATS and insomnia."),
	}}
	repo := New(s)

	chunks, err := repo.FindChunks(context.Background(), "Pulse Diagnosis", []string{"sweats"}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Errorf("chunks = %d, want 1 (matching is case-insensitive)", len(chunks))
	}
}

func TestFindChunks_LimitAndStableOrder(t *testing.T) {
	keys := make(map[string]map[string]string)
	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("%d", i)
		keys["clinic:chunk:"+id] = chunkHash(id, "Pulse Diagnosis Q&A", "rapid pulse")
	}
	s := &mockStore{keys: keys}
	repo := New(s)

	chunks, err := repo.FindChunks(context.Background(), "pulse", []string{"rapid"}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("chunks = %d, want limit 3", len(chunks))
	}
	// Keys are sorted before fetching, so the lowest keys win.
	for i, want := range []string{"1", "2", "3"} {
		if chunks[i].ID != want {
			t.Errorf("chunk %d id = %q, want %q", i, chunks[i].ID, want)
		}
	}
}

func TestFindChunks_EmptyInputsShortCircuit(t *testing.T) {
	s := &mockStore{}
	repo := New(s)

	for _, tc := range []struct {
		name     string
		label    string
		keywords []string
		limit    int
	}{
		{"empty label", "", []string{"rapid"}, 10},
		{"no keywords", "pulse", nil, 10},
		{"zero limit", "pulse", []string{"rapid"}, 0},
	} {
		chunks, err := repo.FindChunks(context.Background(), tc.label, tc.keywords, tc.limit)
		if err != nil || chunks != nil {
			t.Errorf("%s: got %v, %v; want nil, nil", tc.name, chunks, err)
		}
	}
	if len(s.calls) != 0 {
		t.Errorf("store touched for degenerate inputs: %v", s.calls)
	}
}

func TestFindChunks_ScanErrorPropagates(t *testing.T) {
	repo := New(&mockStore{errOn: "scan"})

	_, err := repo.FindChunks(context.Background(), "pulse", []string{"rapid"}, 10)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestFindChunks_CustomKeyPrefix(t *testing.T) {
	s := &mockStore{}
	repo := New(s).WithKeyPrefix("other:prefix:")

	if _, err := repo.FindChunks(context.Background(), "pulse", []string{"rapid"}, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.calls) == 0 || s.calls[0] != "scan:other:prefix:*" {
		t.Errorf("scan calls = %v, want scan with custom prefix", s.calls)
	}
}

func TestChunkFromHash_MalformedIndexDegradesToZero(t *testing.T) {
	chunk := chunkFromHash(map[string]string{
		"id":          "c1",
		"chunk_index": "not-a-number",
		"question":    "Q?",
		"answer":      "A.",
		"category":    "diagnosis",
	})
	if chunk.ChunkIndex != 0 {
		t.Errorf("chunk index = %d, want 0", chunk.ChunkIndex)
	}
	if chunk.Question != "Q?" || chunk.Answer != "A." || chunk.Category != "diagnosis" {
		t.Errorf("fields not mapped: %+v", chunk)
	}
}
