package executor

import (
	"context"
	"fmt"
	"log"
	"time"

	"travel-assistant-be/pkg/embedding"
	"travel-assistant-be/pkg/llm"
	"travel-assistant-be/pkg/rag"
	"travel-assistant-be/pkg/rag/intent"
	"travel-assistant-be/pkg/rag/rerank"
	"travel-assistant-be/pkg/rag/response"
	"travel-assistant-be/pkg/rag/search"
	"travel-assistant-be/pkg/rag/summary"
	"travel-assistant-be/pkg/vectorindex"
)

// State names the pipeline stage a query has last completed.
type State string

const (
	StateReceived   State = "RECEIVED"
	StateNormalized State = "NORMALIZED"
	StateClassified State = "CLASSIFIED"
	StateFiltered   State = "FILTERED"
	StateEmbedded   State = "EMBEDDED"
	StateRetrieved  State = "RETRIEVED"
	StateReranked   State = "RERANKED"
	StateSummarized State = "SUMMARIZED"
	StateAnswered   State = "ANSWERED"
	StateFailed     State = "FAILED"
)

// NoMatchesReply is returned verbatim when retrieval finds nothing.
const NoMatchesReply = "Sorry—I can't find any events matching that. Could you try a different date, category, or filter?"

// Config tunes one pipeline instance. Zero values are replaced by the
// defaults from DefaultConfig.
type Config struct {
	TopK          int
	RerankTopM    int
	RerankEnabled bool
	CallTimeout   time.Duration
}

func DefaultConfig() Config {
	return Config{
		TopK:          10,
		RerankTopM:    5,
		RerankEnabled: true,
		CallTimeout:   60 * time.Second,
	}
}

// Pipeline drives a user query through normalize, classify, filter,
// retrieve, rerank, summarize and generate. Advisory stages absorb
// their own failures; embedding, retrieval and generation abort the
// query.
type Pipeline struct {
	classifier *intent.Classifier
	retriever  *search.Retriever
	reranker   *rerank.Reranker
	summarizer *summary.Summarizer
	generator  *response.Generator
	logger     *log.Logger
	config     Config
	now        func() time.Time
}

func NewPipeline(llmProvider llm.LLMProvider, embeddingProvider embedding.EmbeddingProvider, index vectorindex.Index, logger *log.Logger, config Config) *Pipeline {
	defaults := DefaultConfig()
	if config.TopK <= 0 {
		config.TopK = defaults.TopK
	}
	if config.RerankTopM <= 0 {
		config.RerankTopM = defaults.RerankTopM
	}
	if config.CallTimeout <= 0 {
		config.CallTimeout = defaults.CallTimeout
	}

	return &Pipeline{
		classifier: intent.NewClassifier(llmProvider, logger),
		retriever:  search.NewRetriever(embeddingProvider, index, logger),
		reranker:   rerank.NewReranker(llmProvider, logger),
		summarizer: summary.NewSummarizer(llmProvider, logger),
		generator:  response.NewGenerator(llmProvider, logger),
		logger:     logger,
		config:     config,
		now:        time.Now,
	}
}

// AnswerQuery runs one query to completion. Each external call gets its
// own timeout derived from ctx so a hung provider cannot stall the
// whole request beyond CallTimeout per stage.
func (p *Pipeline) AnswerQuery(ctx context.Context, userQuery string) (string, error) {
	state := StateReceived
	p.logger.Printf("[PHASE 1] %s query: %q", state, truncate(userQuery, 120))

	normalized := rag.Normalize(userQuery)
	state = StateNormalized
	p.logger.Printf("[PHASE 2] %s: %q", state, normalized)

	callCtx, cancel := context.WithTimeout(ctx, p.config.CallTimeout)
	resolvedIntent := p.classifier.Classify(callCtx, normalized)
	cancel()
	state = StateClassified
	p.logger.Printf("[PHASE 3] %s intent=%s", state, resolvedIntent)

	filter := rag.BuildFilter(resolvedIntent, userQuery, p.now())
	state = StateFiltered
	p.logger.Printf("[PHASE 4] %s permissive=%t", state, filter.Permissive())

	callCtx, cancel = context.WithTimeout(ctx, p.config.CallTimeout)
	vector, err := p.retriever.EmbedQuery(callCtx, normalized)
	cancel()
	if err != nil {
		p.logger.Printf("[PHASE 5] %s: %v", StateFailed, err)
		return "", fmt.Errorf("embed query: %w", err)
	}
	state = StateEmbedded
	p.logger.Printf("[PHASE 5] %s dims=%d", state, len(vector))

	callCtx, cancel = context.WithTimeout(ctx, p.config.CallTimeout)
	candidates, err := p.retriever.Search(callCtx, vector, filter, p.config.TopK)
	cancel()
	if err != nil {
		p.logger.Printf("[PHASE 6] %s: %v", StateFailed, err)
		return "", fmt.Errorf("vector search: %w", err)
	}
	state = StateRetrieved
	p.logger.Printf("[PHASE 6] %s candidates=%d", state, len(candidates))

	if len(candidates) == 0 {
		p.logger.Printf("[PHASE 6] Empty candidate set, returning fixed reply")
		return NoMatchesReply, nil
	}

	if p.config.RerankEnabled {
		callCtx, cancel = context.WithTimeout(ctx, p.config.CallTimeout)
		candidates = p.reranker.Rerank(callCtx, normalized, candidates, p.config.RerankTopM)
		cancel()
		state = StateReranked
		p.logger.Printf("[PHASE 7] %s candidates=%d", state, len(candidates))
	}

	callCtx, cancel = context.WithTimeout(ctx, p.config.CallTimeout)
	summaryText := p.summarizer.Summarize(callCtx, candidates)
	cancel()
	state = StateSummarized
	p.logger.Printf("[PHASE 8] %s chars=%d", state, len(summaryText))

	callCtx, cancel = context.WithTimeout(ctx, p.config.CallTimeout)
	answer, err := p.generator.Generate(callCtx, userQuery, summaryText)
	cancel()
	if err != nil {
		p.logger.Printf("[PHASE 9] %s: %v", StateFailed, err)
		return "", err
	}
	state = StateAnswered
	p.logger.Printf("[PHASE 9] %s chars=%d", state, len(answer))

	return answer, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
