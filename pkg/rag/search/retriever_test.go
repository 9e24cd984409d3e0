package search

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"travel-assistant-be/pkg/embedding"
	"travel-assistant-be/pkg/vectorindex"
	"travel-assistant-be/pkg/vectorindex/memory"
)

type stubEmbedder struct {
	values []float32
	err    error
}

func (s *stubEmbedder) Generate(ctx context.Context, text, taskType string) (*embedding.EmbeddingResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: s.values},
	}, nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestEmbedQueryZeroPads(t *testing.T) {
	index := memory.New(4)
	retriever := NewRetriever(&stubEmbedder{values: []float32{0.5, 0.5}}, index, testLogger())

	vector, err := retriever.EmbedQuery(context.Background(), "free museums")
	if err != nil {
		t.Fatalf("EmbedQuery: %v", err)
	}
	if len(vector) != 4 {
		t.Fatalf("padded length = %d, want 4", len(vector))
	}
	if vector[0] != 0.5 || vector[1] != 0.5 || vector[2] != 0 || vector[3] != 0 {
		t.Errorf("padded vector = %v, want trailing zeros", vector)
	}
}

func TestEmbedQueryRejectsOversizedVector(t *testing.T) {
	index := memory.New(2)
	retriever := NewRetriever(&stubEmbedder{values: []float32{1, 2, 3}}, index, testLogger())

	if _, err := retriever.EmbedQuery(context.Background(), "anything"); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestEmbedQueryPropagatesProviderError(t *testing.T) {
	index := memory.New(2)
	retriever := NewRetriever(&stubEmbedder{err: errors.New("provider down")}, index, testLogger())

	if _, err := retriever.EmbedQuery(context.Background(), "anything"); err == nil {
		t.Fatal("expected error from embedding provider")
	}
}

func TestSearchDeduplicates(t *testing.T) {
	index := memory.New(2)
	mustUpsert(t, index, "a", []float32{1, 0}, map[string]any{"description": "Jazz night at the park"})
	mustUpsert(t, index, "b", []float32{0.99, 0.05}, map[string]any{"description": "  Jazz night at the park  "})
	mustUpsert(t, index, "c", []float32{0.9, 0.1}, map[string]any{"description": "Free museum Sunday"})
	mustUpsert(t, index, "d", []float32{0.8, 0.2}, map[string]any{"other": "no usable content"})

	retriever := NewRetriever(&stubEmbedder{values: []float32{1, 0}}, index, testLogger())
	docs, err := retriever.Search(context.Background(), []float32{1, 0}, vectorindex.MatchAll(), 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2 (content dup and empty content dropped)", len(docs))
	}
	if docs[0].ID != "a" || docs[1].ID != "c" {
		t.Errorf("kept ids = %s, %s; want a, c", docs[0].ID, docs[1].ID)
	}
	if docs[0].Content != "Jazz night at the park" {
		t.Errorf("content not trimmed: %q", docs[0].Content)
	}
}

func TestSearchRespectsTopK(t *testing.T) {
	index := memory.New(2)
	contents := []string{"one", "two", "three", "four", "five"}
	for i, content := range contents {
		mustUpsert(t, index, content, []float32{1, float32(i) * 0.01}, map[string]any{"description": content})
	}

	retriever := NewRetriever(&stubEmbedder{values: []float32{1, 0}}, index, testLogger())
	docs, err := retriever.Search(context.Background(), []float32{1, 0}, vectorindex.MatchAll(), 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(docs) != 3 {
		t.Errorf("got %d documents, want topK=3", len(docs))
	}
}

func TestSearchOrdersByScore(t *testing.T) {
	index := memory.New(2)
	mustUpsert(t, index, "far", []float32{0, 1}, map[string]any{"description": "far away"})
	mustUpsert(t, index, "near", []float32{1, 0}, map[string]any{"description": "spot on"})

	retriever := NewRetriever(&stubEmbedder{values: []float32{1, 0}}, index, testLogger())
	docs, err := retriever.Search(context.Background(), []float32{1, 0}, vectorindex.MatchAll(), 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(docs) < 2 || docs[0].ID != "near" {
		t.Errorf("expected best match first, got %+v", docs)
	}
	if docs[0].Score < docs[1].Score {
		t.Errorf("scores out of order: %v then %v", docs[0].Score, docs[1].Score)
	}
}

func TestRetrieveComposite(t *testing.T) {
	index := memory.New(3)
	mustUpsert(t, index, "x", []float32{1, 0, 0}, map[string]any{"description": "Golden Gate walk"})

	// Embedder yields 2 dims, index wants 3; Retrieve must pad then search.
	retriever := NewRetriever(&stubEmbedder{values: []float32{1, 0}}, index, testLogger())
	docs, err := retriever.Retrieve(context.Background(), "walks", vectorindex.MatchAll(), 5)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "x" {
		t.Errorf("Retrieve = %+v, want single doc x", docs)
	}
}

func TestEmbedQueryForwardsContext(t *testing.T) {
	index := memory.New(2)
	retriever := NewRetriever(&stubEmbedder{values: []float32{1, 0}}, index, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := retriever.EmbedQuery(ctx, "free museums")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("EmbedQuery with cancelled context = %v, want context.Canceled", err)
	}
}

func mustUpsert(t *testing.T, index *memory.Index, id string, vector []float32, metadata map[string]any) {
	t.Helper()
	if err := index.Upsert(id, vector, metadata); err != nil {
		t.Fatalf("Upsert %s: %v", id, err)
	}
}
