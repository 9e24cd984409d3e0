package search

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"travel-assistant-be/pkg/embedding"
	"travel-assistant-be/pkg/store"
	"travel-assistant-be/pkg/vectorindex"
)

// overFetchMultiplier widens the index query so deduplication still
// yields close to topK distinct results.
const overFetchMultiplier = 2

// Retriever turns a query into an embedding and fetches matching
// documents from the vector index.
type Retriever struct {
	embeddingProvider embedding.EmbeddingProvider
	index             vectorindex.Index
	logger            *log.Logger
}

func NewRetriever(embeddingProvider embedding.EmbeddingProvider, index vectorindex.Index, logger *log.Logger) *Retriever {
	return &Retriever{
		embeddingProvider: embeddingProvider,
		index:             index,
		logger:            logger,
	}
}

// EmbedQuery generates the query embedding and fits it to the index
// dimension. Shorter vectors are zero-padded; a longer vector means the
// provider and index disagree on the model and is an error.
func (r *Retriever) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	result, err := r.embeddingProvider.Generate(ctx, query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	values := result.Embedding.Values
	dimension := r.index.Dimension()
	if len(values) > dimension {
		return nil, fmt.Errorf("embedding has %d dimensions, index expects %d", len(values), dimension)
	}
	if len(values) < dimension {
		r.logger.Printf("[DEBUG] Zero-padding embedding from %d to %d dimensions", len(values), dimension)
		padded := make([]float32, dimension)
		copy(padded, values)
		values = padded
	}
	return values, nil
}

// Search runs a single over-fetched index query and deduplicates the
// matches down to at most topK documents.
func (r *Retriever) Search(ctx context.Context, vector []float32, filter vectorindex.Filter, topK int) ([]store.Document, error) {
	matches, err := r.index.Query(ctx, vector, topK*overFetchMultiplier, filter)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	// Indexes return matches ordered by score, but the dedup walk
	// depends on it, so enforce the order here.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	documents := deduplicate(matches, topK)
	r.logger.Printf("[SEARCH] %d raw matches, %d after dedup (topK=%d)", len(matches), len(documents), topK)
	return documents, nil
}

// Retrieve is the embed-then-search composite used when the caller does
// not need the intermediate vector.
func (r *Retriever) Retrieve(ctx context.Context, query string, filter vectorindex.Filter, topK int) ([]store.Document, error) {
	vector, err := r.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.Search(ctx, vector, filter, topK)
}

// deduplicate walks matches in descending score order and keeps the
// first occurrence of each id and of each distinct trimmed content.
// Matches with empty content are dropped entirely.
func deduplicate(matches []vectorindex.Match, topK int) []store.Document {
	seenIds := make(map[string]bool, len(matches))
	seenContent := make(map[string]bool, len(matches))

	var documents []store.Document
	for _, match := range matches {
		if seenIds[match.ID] {
			continue
		}
		seenIds[match.ID] = true

		content := strings.TrimSpace(contentOf(match.Metadata))
		if content == "" || seenContent[content] {
			continue
		}
		seenContent[content] = true

		documents = append(documents, store.Document{
			ID:       match.ID,
			Title:    titleOf(match.Metadata),
			Content:  content,
			Score:    match.Score,
			Metadata: match.Metadata,
		})
		if len(documents) >= topK {
			break
		}
	}
	return documents
}

func contentOf(metadata map[string]any) string {
	if description, ok := metadata["description"].(string); ok && description != "" {
		return description
	}
	if text, ok := metadata["text"].(string); ok {
		return text
	}
	return ""
}

func titleOf(metadata map[string]any) string {
	if title, ok := metadata["title"].(string); ok && title != "" {
		return title
	}
	if name, ok := metadata["name"].(string); ok {
		return name
	}
	return ""
}
