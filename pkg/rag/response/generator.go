package response

import (
	"context"
	"fmt"
	"log"

	"travel-assistant-be/pkg/llm"
)

// Generator produces the final user-facing itinerary answer. Unlike the
// other model stages it has no fallback: without an answer there is
// nothing to return, so its error propagates.
type Generator struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewGenerator(llmProvider llm.LLMProvider, logger *log.Logger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

const promptTemplate = `You are an expert San Francisco itinerary assistant. The user asked: %q

Here is the extracted information about events and activities:
%s

Based on this information, create a personalized itinerary that:
1. Is organized by time of day
2. Includes all relevant details from the text
3. Uses clear markdown formatting
4. Provides practical suggestions and context
5. Focuses on the user's specific interests`

func (g *Generator) Generate(ctx context.Context, originalQuery, summary string) (string, error) {
	answer, err := g.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: "You are a helpful assistant that creates detailed, well-formatted travel itineraries in markdown."},
		{Role: "user", Content: fmt.Sprintf(promptTemplate, originalQuery, summary)},
	}, llm.WithTopP(0.95))
	if err != nil {
		g.logger.Printf("[ERROR] Answer generation failed: %v", err)
		return "", fmt.Errorf("answer generation failed: %w", err)
	}
	return answer, nil
}
