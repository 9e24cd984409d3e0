package summary

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"travel-assistant-be/pkg/llm"
	"travel-assistant-be/pkg/store"
)

type stubProvider struct {
	reply    string
	err      error
	lastUser string
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	for _, message := range history {
		if message.Role == "user" {
			s.lastUser = message.Content
		}
	}
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

func TestSummarizeLabelsCandidates(t *testing.T) {
	provider := &stubProvider{reply: "## Morning\n- Jazz brunch"}
	summarizer := NewSummarizer(provider, testLogger())

	docs := []store.Document{
		{Content: "Jazz brunch at the Ferry Building", Score: 0.91},
		{Content: "Night market in Chinatown", Score: 0.84},
	}
	got := summarizer.Summarize(context.Background(), docs)

	if got != "## Morning\n- Jazz brunch" {
		t.Errorf("Summarize = %q, want model reply", got)
	}
	if !strings.Contains(provider.lastUser, "[Event 1 - Relevance: 0.91]") {
		t.Errorf("prompt missing first event label: %q", provider.lastUser)
	}
	if !strings.Contains(provider.lastUser, "[Event 2 - Relevance: 0.84]") {
		t.Errorf("prompt missing second event label: %q", provider.lastUser)
	}
}

func TestSummarizeFallsBackToBullets(t *testing.T) {
	provider := &stubProvider{err: errors.New("model offline")}
	summarizer := NewSummarizer(provider, testLogger())

	docs := []store.Document{
		{Content: "Jazz brunch", Score: 0.9},
		{Content: "Night market", Score: 0.8},
	}
	got := summarizer.Summarize(context.Background(), docs)

	want := "- Jazz brunch\n- Night market"
	if got != want {
		t.Errorf("fallback = %q, want %q", got, want)
	}
}
