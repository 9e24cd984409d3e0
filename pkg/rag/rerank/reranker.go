package rerank

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"travel-assistant-be/pkg/llm"
	"travel-assistant-be/pkg/store"
)

// scoreLinePattern matches one "N) score" line of the model's reply.
var scoreLinePattern = regexp.MustCompile(`^\s*(\d+)\)\s*(\d+(?:\.\d+)?)\s*$`)

// Reranker reorders retrieval candidates by LLM-judged relevance. It is
// advisory only: any failure keeps the original retrieval order.
type Reranker struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewReranker(llmProvider llm.LLMProvider, logger *log.Logger) *Reranker {
	return &Reranker{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

const systemInstruction = `You are a search result reranker. Score each snippet from 1 to 10 for how relevant it is to the query. Respond with one line per snippet, in the format:
1) score
2) score
Return ONLY the score lines, nothing else.`

// Rerank asks the model to score the first topM candidates and returns
// them sorted by score, best first. Candidates beyond topM are dropped.
// On any completion or parse failure the first topM candidates come
// back in their original order.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []store.Document, topM int) []store.Document {
	if len(candidates) == 0 {
		return candidates
	}
	if topM <= 0 || topM > len(candidates) {
		topM = len(candidates)
	}
	head := candidates[:topM]

	var snippets strings.Builder
	for i, candidate := range head {
		fmt.Fprintf(&snippets, "(%d) %s\n\n", i+1, candidate.Content)
	}

	response, err := r.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: systemInstruction},
		{Role: "user", Content: fmt.Sprintf("Query: %s\n\nSnippets:\n%s", query, snippets.String())},
	}, llm.WithTemperature(0.0))
	if err != nil {
		r.logger.Printf("[WARN] Rerank call failed, keeping retrieval order: %v", err)
		return head
	}

	scored, ok := parseScores(response, topM)
	if !ok {
		r.logger.Printf("[WARN] Rerank reply unparseable, keeping retrieval order")
		return head
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	reranked := make([]store.Document, 0, len(scored))
	for _, entry := range scored {
		reranked = append(reranked, head[entry.index])
	}
	return reranked
}

type scoredIndex struct {
	index int
	score float64
}

// parseScores validates the whole reply before any of it is trusted: a
// single malformed, duplicate or out-of-range line rejects the parse.
func parseScores(response string, count int) ([]scoredIndex, bool) {
	seen := make(map[int]bool, count)
	var scored []scoredIndex

	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		groups := scoreLinePattern.FindStringSubmatch(line)
		if groups == nil {
			return nil, false
		}
		position, err := strconv.Atoi(groups[1])
		if err != nil || position < 1 || position > count || seen[position] {
			return nil, false
		}
		score, err := strconv.ParseFloat(groups[2], 64)
		if err != nil {
			return nil, false
		}
		seen[position] = true
		scored = append(scored, scoredIndex{index: position - 1, score: score})
	}

	if len(scored) == 0 {
		return nil, false
	}
	return scored, true
}
