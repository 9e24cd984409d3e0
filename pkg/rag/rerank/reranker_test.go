package rerank

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"travel-assistant-be/pkg/llm"
	"travel-assistant-be/pkg/store"
)

type stubProvider struct {
	reply string
	err   error
	calls int
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func candidates(ids ...string) []store.Document {
	docs := make([]store.Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, store.Document{ID: id, Content: "event " + id})
	}
	return docs
}

func ids(docs []store.Document) []string {
	out := make([]string, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.ID)
	}
	return out
}

func assertOrder(t *testing.T, docs []store.Document, want ...string) {
	t.Helper()
	got := ids(docs)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRerankReordersByScore(t *testing.T) {
	provider := &stubProvider{reply: "1) 3\n2) 9\n3) 6"}
	reranker := NewReranker(provider, testLogger())

	result := reranker.Rerank(context.Background(), "query", candidates("a", "b", "c"), 3)
	assertOrder(t, result, "b", "c", "a")
}

func TestRerankDecimalScores(t *testing.T) {
	provider := &stubProvider{reply: " 1) 7.5 \n 2) 7.25 "}
	reranker := NewReranker(provider, testLogger())

	result := reranker.Rerank(context.Background(), "query", candidates("a", "b"), 2)
	assertOrder(t, result, "a", "b")
}

func TestRerankTruncatesToTopM(t *testing.T) {
	provider := &stubProvider{reply: "1) 1\n2) 2"}
	reranker := NewReranker(provider, testLogger())

	result := reranker.Rerank(context.Background(), "query", candidates("a", "b", "c", "d"), 2)
	assertOrder(t, result, "b", "a")
}

func TestRerankKeepsOrderOnCallFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("model offline")}
	reranker := NewReranker(provider, testLogger())

	result := reranker.Rerank(context.Background(), "query", candidates("a", "b", "c"), 3)
	assertOrder(t, result, "a", "b", "c")
}

func TestRerankKeepsOrderOnMalformedReply(t *testing.T) {
	malformedReplies := []string{
		"the best one is clearly number 2",
		"1) 8\nsecond gets a 5",
		"1) 8\n1) 5",     // duplicate index
		"1) 8\n5) 2",     // index out of range
		"0) 8\n1) 2",     // one-based indexing violated
		"",               // nothing to parse
		"1) ten\n2) two", // non-numeric scores
	}

	for _, reply := range malformedReplies {
		provider := &stubProvider{reply: reply}
		reranker := NewReranker(provider, testLogger())

		result := reranker.Rerank(context.Background(), "query", candidates("a", "b"), 2)
		assertOrder(t, result, "a", "b")
	}
}

func TestRerankStableForEqualScores(t *testing.T) {
	provider := &stubProvider{reply: "1) 5\n2) 5\n3) 5"}
	reranker := NewReranker(provider, testLogger())

	result := reranker.Rerank(context.Background(), "query", candidates("a", "b", "c"), 3)
	assertOrder(t, result, "a", "b", "c")
}

func TestRerankEmptyCandidatesSkipsModel(t *testing.T) {
	provider := &stubProvider{reply: "1) 5"}
	reranker := NewReranker(provider, testLogger())

	result := reranker.Rerank(context.Background(), "query", nil, 5)
	if len(result) != 0 {
		t.Errorf("got %v, want empty", result)
	}
	if provider.calls != 0 {
		t.Errorf("model called %d times for empty input", provider.calls)
	}
}
