package memory

import (
	"context"
	"testing"

	"travel-assistant-be/pkg/vectorindex"
)

func seeded(t *testing.T) *Index {
	t.Helper()
	index := New(2)
	seeds := []struct {
		id       string
		vector   []float32
		metadata map[string]any
	}{
		{"free-music", []float32{1, 0}, map[string]any{"cost": "FREE", "category": "music", "eventDate": "2026-08-29T19:00:00Z"}},
		{"paid-museum", []float32{0.9, 0.1}, map[string]any{"cost": "25", "category": "museum", "eventDate": "2026-09-02T10:00:00Z"}},
		{"free-market", []float32{0, 1}, map[string]any{"cost": "FREE", "category": "market"}},
	}
	for _, seed := range seeds {
		if err := index.Upsert(seed.id, seed.vector, seed.metadata); err != nil {
			t.Fatalf("seed %s: %v", seed.id, err)
		}
	}
	return index
}

func TestUpsertRejectsWrongDimension(t *testing.T) {
	index := New(3)
	if err := index.Upsert("x", []float32{1, 2}, nil); err == nil {
		t.Fatal("expected dimension error")
	}
}

func TestQueryMatchAllReturnsEverything(t *testing.T) {
	index := seeded(t)
	matches, err := index.Query(context.Background(), []float32{1, 0}, 10, vectorindex.MatchAll())
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 3 {
		t.Errorf("got %d matches, want 3", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i-1].Score < matches[i].Score {
			t.Errorf("matches not sorted by score: %v", matches)
		}
	}
}

func TestQueryEqFilter(t *testing.T) {
	index := seeded(t)
	filter := vectorindex.Filter{"cost": {Op: vectorindex.OpEq, Value: "FREE"}}

	matches, err := index.Query(context.Background(), []float32{1, 0}, 10, filter)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2 free events", len(matches))
	}
	for _, match := range matches {
		if match.Metadata["cost"] != "FREE" {
			t.Errorf("non-free match leaked: %v", match)
		}
	}
}

func TestQueryInFilter(t *testing.T) {
	index := seeded(t)
	filter := vectorindex.Filter{"category": {Op: vectorindex.OpIn, Values: []any{"music", "market"}}}

	matches, err := index.Query(context.Background(), []float32{1, 0}, 10, filter)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("got %d matches, want 2", len(matches))
	}
}

func TestQueryBetweenFilter(t *testing.T) {
	index := seeded(t)
	filter := vectorindex.Filter{"eventDate": {Op: vectorindex.OpBetween, Values: []any{
		"2026-08-29T00:00:00Z", "2026-08-30T23:59:59Z",
	}}}

	matches, err := index.Query(context.Background(), []float32{1, 0}, 10, filter)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != "free-music" {
		t.Errorf("got %v, want only the weekend event", matches)
	}
}

func TestQueryBetweenExcludesMissingField(t *testing.T) {
	index := seeded(t)
	filter := vectorindex.Filter{"eventDate": {Op: vectorindex.OpBetween, Values: []any{
		"2000-01-01T00:00:00Z", "2100-01-01T00:00:00Z",
	}}}

	matches, err := index.Query(context.Background(), []float32{1, 0}, 10, filter)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	for _, match := range matches {
		if match.ID == "free-market" {
			t.Error("event without eventDate matched a date range filter")
		}
	}
}

func TestQueryTopK(t *testing.T) {
	index := seeded(t)
	matches, err := index.Query(context.Background(), []float32{1, 0}, 2, vectorindex.MatchAll())
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("got %d matches, want topK=2", len(matches))
	}
}

func TestQueryCancelledContext(t *testing.T) {
	index := seeded(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := index.Query(ctx, []float32{1, 0}, 10, vectorindex.MatchAll()); err == nil {
		t.Fatal("expected context error")
	}
}

func TestUpsertReplacesExisting(t *testing.T) {
	index := New(2)
	if err := index.Upsert("x", []float32{1, 0}, map[string]any{"v": "old"}); err != nil {
		t.Fatal(err)
	}
	if err := index.Upsert("x", []float32{0, 1}, map[string]any{"v": "new"}); err != nil {
		t.Fatal(err)
	}

	matches, err := index.Query(context.Background(), []float32{0, 1}, 10, vectorindex.MatchAll())
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 1 || matches[0].Metadata["v"] != "new" {
		t.Errorf("got %v, want single replaced point", matches)
	}
}
