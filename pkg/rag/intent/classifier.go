package intent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"travel-assistant-be/pkg/llm"
)

// Intent is a coarse classification of a query's retrieval strategy.
type Intent string

// Recognized intent tags. Anything else degrades to General downstream.
const (
	FindFree      Intent = "find-free"
	FindCategory  Intent = "find-category"
	FindDateRange Intent = "find-date-range"
	General       Intent = "general"
)

// Known reports whether the tag is one of the recognized intents.
func (i Intent) Known() bool {
	switch i {
	case FindFree, FindCategory, FindDateRange, General:
		return true
	}
	return false
}

const systemInstruction = `You are an intent classifier for San Francisco travel and event queries.
Classify the query into exactly one of: find-free, find-category, find-date-range, general.

Examples:
Query: "free things to do downtown" -> find-free
Query: "any good comedy shows" -> find-category
Query: "what is happening this weekend" -> find-date-range
Query: "plan me a fun day" -> general

Return ONLY the intent tag, nothing else.`

// Classifier assigns an intent tag to a normalized query via the LLM.
type Classifier struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewClassifier(llmProvider llm.LLMProvider, logger *log.Logger) *Classifier {
	return &Classifier{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Classify returns the model's trimmed intent tag. A completion failure
// degrades to General so the request can continue unfiltered; unknown
// tags are passed through because the filter builder treats them as
// General anyway.
func (c *Classifier) Classify(ctx context.Context, normalizedQuery string) Intent {
	response, err := c.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: systemInstruction},
		{Role: "user", Content: fmt.Sprintf("Query: %q\nIntent:", normalizedQuery)},
	}, llm.WithTemperature(0.0), llm.WithMaxTokens(10))
	if err != nil {
		c.logger.Printf("[WARN] Intent classification failed, falling back to %s: %v", General, err)
		return General
	}

	tag := Intent(strings.TrimSpace(response))
	if !tag.Known() {
		c.logger.Printf("[WARN] Classifier returned unrecognized tag %q", tag)
	} else {
		c.logger.Printf("[INTENT] Resolved: %s", tag)
	}
	return tag
}
