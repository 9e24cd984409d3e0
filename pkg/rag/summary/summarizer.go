package summary

import (
	"context"
	"fmt"
	"log"
	"strings"

	"travel-assistant-be/pkg/llm"
	"travel-assistant-be/pkg/store"
)

const systemInstruction = `You are a travel and event planning assistant. Your task is to:
1. Extract and organize all events, activities, and locations from the provided text
2. Group them by time of day (Morning, Afternoon, Evening) where times are known
3. Include all relevant details like times, locations, prices, and descriptions
4. Format the response in clear markdown with appropriate headers and sections
5. Add any relevant context or suggestions that would be helpful for a visitor`

// Summarizer condenses the reranked candidates into structured itinerary
// material for the final answer. It never fails: if the model call does,
// a plain bullet list of the candidate contents stands in.
type Summarizer struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewSummarizer(llmProvider llm.LLMProvider, logger *log.Logger) *Summarizer {
	return &Summarizer{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

func (s *Summarizer) Summarize(ctx context.Context, candidates []store.Document) string {
	var combined strings.Builder
	for i, candidate := range candidates {
		fmt.Fprintf(&combined, "[Event %d - Relevance: %.2f]\n%s\n-------------------\n\n", i+1, candidate.Score, candidate.Content)
	}

	response, err := s.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: systemInstruction},
		{Role: "user", Content: "Here are the event descriptions. Create a comprehensive itinerary by extracting and organizing all the relevant information:\n\n" + combined.String()},
	})
	if err != nil {
		s.logger.Printf("[WARN] Summarization failed, falling back to bullet list: %v", err)
		return bulletFallback(candidates)
	}
	return response
}

func bulletFallback(candidates []store.Document) string {
	lines := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		lines = append(lines, "- "+candidate.Content)
	}
	return strings.Join(lines, "\n")
}
