package vectorindex

import "context"

// Op enumerates the predicate operators understood by index backends.
type Op string

const (
	OpEq      Op = "eq"      // field equals Value
	OpIn      Op = "in"      // field is one of Values
	OpBetween Op = "between" // field is within [Values[0], Values[1]]
	OpExists  Op = "exists"  // field is present (used for the match-all filter)
)

// Predicate is a single metadata constraint.
type Predicate struct {
	Op     Op
	Value  any   // OpEq
	Values []any // OpIn members, or OpBetween [low, high]
}

// Filter maps metadata field names to predicates. Backends translate it
// into their native filter language. A filter built by this system is
// never empty: "match everything" is expressed with an explicit Exists
// predicate so no backend can misread it as "match nothing".
type Filter map[string]Predicate

// MatchAll returns the maximally permissive filter.
func MatchAll() Filter {
	return Filter{"type": {Op: OpExists}}
}

// Permissive reports whether the filter constrains nothing. Backends may
// translate a permissive filter into "no filter at all".
func (f Filter) Permissive() bool {
	for _, p := range f {
		if p.Op != OpExists {
			return false
		}
	}
	return true
}

// Match is a single nearest-neighbor result.
type Match struct {
	ID       string
	Score    float32 // higher = more similar
	Metadata map[string]any
}

// Index is a nearest-neighbor search service over embedding vectors
// with optional metadata filtering. Implementations: Qdrant, pgvector,
// in-memory.
type Index interface {
	// Query returns up to topK matches ordered by descending score.
	Query(ctx context.Context, vector []float32, topK int, filter Filter) ([]Match, error)

	// Dimension returns the configured vector dimensionality.
	Dimension() int

	// Close releases any resources held by the index.
	Close() error
}
