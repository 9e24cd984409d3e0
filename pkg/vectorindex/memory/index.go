package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"travel-assistant-be/pkg/vectorindex"
)

// Index is an in-process vector index. It exists for tests and local
// development; production deployments use the Qdrant or pgvector
// backends.
type Index struct {
	mu        sync.RWMutex
	dimension int
	points    []point
}

type point struct {
	id       string
	vector   []float32
	metadata map[string]any
}

var _ vectorindex.Index = &Index{}

func New(dimension int) *Index {
	return &Index{dimension: dimension}
}

// Upsert adds or replaces a point. Vectors must match the index dimension.
func (i *Index) Upsert(id string, vector []float32, metadata map[string]any) error {
	if len(vector) != i.dimension {
		return fmt.Errorf("vector dimension %d does not match index dimension %d", len(vector), i.dimension)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	for idx := range i.points {
		if i.points[idx].id == id {
			i.points[idx] = point{id: id, vector: vector, metadata: metadata}
			return nil
		}
	}
	i.points = append(i.points, point{id: id, vector: vector, metadata: metadata})
	return nil
}

// Query implements vectorindex.Index.
func (i *Index) Query(ctx context.Context, vector []float32, topK int, filter vectorindex.Filter) ([]vectorindex.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(vector) != i.dimension {
		return nil, fmt.Errorf("vector dimension %d does not match index dimension %d", len(vector), i.dimension)
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	matches := make([]vectorindex.Match, 0, len(i.points))
	for _, p := range i.points {
		if !matchesFilter(p.metadata, filter) {
			continue
		}
		matches = append(matches, vectorindex.Match{
			ID:       p.id,
			Score:    cosineSimilarity(vector, p.vector),
			Metadata: p.metadata,
		})
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score > matches[b].Score
	})

	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Dimension implements vectorindex.Index.
func (i *Index) Dimension() int {
	return i.dimension
}

// Close implements vectorindex.Index.
func (i *Index) Close() error {
	return nil
}

func matchesFilter(metadata map[string]any, filter vectorindex.Filter) bool {
	if filter.Permissive() {
		return true
	}

	for field, pred := range filter {
		switch pred.Op {
		case vectorindex.OpExists:
			// Carries no constraint
		case vectorindex.OpEq:
			v, ok := metadata[field]
			if !ok || fmt.Sprintf("%v", v) != fmt.Sprintf("%v", pred.Value) {
				return false
			}
		case vectorindex.OpIn:
			v, ok := metadata[field]
			if !ok {
				return false
			}
			found := false
			for _, candidate := range pred.Values {
				if fmt.Sprintf("%v", v) == fmt.Sprintf("%v", candidate) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case vectorindex.OpBetween:
			if len(pred.Values) != 2 {
				return false
			}
			v, ok := metadata[field]
			if !ok {
				return false
			}
			// RFC3339 strings compare correctly lexicographically
			val := fmt.Sprintf("%v", v)
			lo := fmt.Sprintf("%v", pred.Values[0])
			hi := fmt.Sprintf("%v", pred.Values[1])
			if val < lo || val > hi {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func cosineSimilarity(a, b []float32) float32 {
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(magA) * math.Sqrt(magB)))
}
