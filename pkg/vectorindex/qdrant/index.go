package qdrant

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/protobuf/types/known/timestamppb"

	"travel-assistant-be/pkg/vectorindex"
)

// Config holds Qdrant connection configuration.
type Config struct {
	// URL is the Qdrant server address (e.g., "https://example.qdrant.io:6334").
	URL string

	// CollectionName is the name of the collection to search.
	CollectionName string

	// APIKey is optional API key for authentication.
	APIKey string

	// Dimension is the vector dimensionality the collection was created with.
	Dimension int
}

// Index implements vectorindex.Index for Qdrant.
type Index struct {
	client         *qdrant.Client
	collectionName string
	dimension      int
}

var _ vectorindex.Index = &Index{}

// New creates a new Qdrant-backed index.
func New(cfg Config) (*Index, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant url is required")
	}

	parsedURL := cfg.URL
	if !strings.HasPrefix(parsedURL, "http://") && !strings.HasPrefix(parsedURL, "https://") {
		parsedURL = "https://" + parsedURL
	}

	u, err := url.Parse(parsedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse qdrant url: %w", err)
	}

	host := u.Hostname()
	port := 6334 // default gRPC port
	if u.Port() != "" {
		p, err := strconv.Atoi(u.Port())
		if err != nil {
			return nil, fmt.Errorf("invalid port: %w", err)
		}
		port = p
	}

	useTLS := u.Scheme == "https"

	qdrantClient, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &Index{
		client:         qdrantClient,
		collectionName: cfg.CollectionName,
		dimension:      cfg.Dimension,
	}, nil
}

// Query implements vectorindex.Index.
func (i *Index) Query(ctx context.Context, vector []float32, topK int, filter vectorindex.Filter) ([]vectorindex.Match, error) {
	qdrantFilter := buildQdrantFilter(filter)

	limit := uint64(topK)
	points, err := i.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: i.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		Filter:         qdrantFilter,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant query failed: %w", err)
	}

	matches := make([]vectorindex.Match, 0, len(points))
	for _, point := range points {
		match := vectorindex.Match{
			Score:    point.Score,
			Metadata: make(map[string]any),
		}

		match.ID = pointIdString(point.Id)

		for k, v := range point.Payload {
			match.Metadata[k] = extractValue(v)
		}

		matches = append(matches, match)
	}

	return matches, nil
}

// Dimension implements vectorindex.Index.
func (i *Index) Dimension() int {
	return i.dimension
}

// Close implements vectorindex.Index.
func (i *Index) Close() error {
	return i.client.Close()
}

// pointIdString renders a point id regardless of its kind. Switching on
// the oneof keeps a numeric id of 0 distinct from "no id".
func pointIdString(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	switch kind := id.PointIdOptions.(type) {
	case *qdrant.PointId_Uuid:
		return kind.Uuid
	case *qdrant.PointId_Num:
		return strconv.FormatUint(kind.Num, 10)
	default:
		return ""
	}
}

// buildQdrantFilter converts a vectorindex.Filter into a Qdrant Filter.
// A permissive filter maps to nil (Qdrant treats nil as "no filter").
func buildQdrantFilter(filter vectorindex.Filter) *qdrant.Filter {
	if filter.Permissive() {
		return nil
	}

	var conditions []*qdrant.Condition
	for field, pred := range filter {
		switch pred.Op {
		case vectorindex.OpEq:
			conditions = append(conditions, buildMatchCondition(field, pred.Value))
		case vectorindex.OpIn:
			keywords := make([]string, 0, len(pred.Values))
			for _, v := range pred.Values {
				keywords = append(keywords, fmt.Sprintf("%v", v))
			}
			conditions = append(conditions, &qdrant.Condition{
				ConditionOneOf: &qdrant.Condition_Field{
					Field: &qdrant.FieldCondition{
						Key: field,
						Match: &qdrant.Match{
							MatchValue: &qdrant.Match_Keywords{
								Keywords: &qdrant.RepeatedStrings{Strings: keywords},
							},
						},
					},
				},
			})
		case vectorindex.OpBetween:
			if cond := buildRangeCondition(field, pred.Values); cond != nil {
				conditions = append(conditions, cond)
			}
		case vectorindex.OpExists:
			// Carries no constraint
		}
	}

	if len(conditions) == 0 {
		return nil
	}

	return &qdrant.Filter{Must: conditions}
}

// buildMatchCondition creates a match condition for a key-value pair.
func buildMatchCondition(key string, value any) *qdrant.Condition {
	var match *qdrant.Match

	switch v := value.(type) {
	case string:
		match = &qdrant.Match{MatchValue: &qdrant.Match_Keyword{Keyword: v}}
	case int:
		match = &qdrant.Match{MatchValue: &qdrant.Match_Integer{Integer: int64(v)}}
	case int64:
		match = &qdrant.Match{MatchValue: &qdrant.Match_Integer{Integer: v}}
	case bool:
		match = &qdrant.Match{MatchValue: &qdrant.Match_Boolean{Boolean: v}}
	default:
		match = &qdrant.Match{MatchValue: &qdrant.Match_Keyword{Keyword: fmt.Sprintf("%v", v)}}
	}

	return &qdrant.Condition{
		ConditionOneOf: &qdrant.Condition_Field{
			Field: &qdrant.FieldCondition{
				Key:   key,
				Match: match,
			},
		},
	}
}

// buildRangeCondition creates a between-range condition. String bounds
// are treated as RFC3339 datetimes, numeric bounds as a numeric range.
func buildRangeCondition(key string, bounds []any) *qdrant.Condition {
	if len(bounds) != 2 {
		return nil
	}

	if lo, ok := bounds[0].(string); ok {
		hi, _ := bounds[1].(string)
		loTime, errLo := time.Parse(time.RFC3339, lo)
		hiTime, errHi := time.Parse(time.RFC3339, hi)
		if errLo != nil || errHi != nil {
			return nil
		}
		return &qdrant.Condition{
			ConditionOneOf: &qdrant.Condition_Field{
				Field: &qdrant.FieldCondition{
					Key: key,
					DatetimeRange: &qdrant.DatetimeRange{
						Gte: timestamppb.New(loTime),
						Lte: timestamppb.New(hiTime),
					},
				},
			},
		}
	}

	lo, okLo := toFloat(bounds[0])
	hi, okHi := toFloat(bounds[1])
	if !okLo || !okHi {
		return nil
	}
	return &qdrant.Condition{
		ConditionOneOf: &qdrant.Condition_Field{
			Field: &qdrant.FieldCondition{
				Key: key,
				Range: &qdrant.Range{
					Gte: &lo,
					Lte: &hi,
				},
			},
		},
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// extractValue converts a Qdrant payload value to a plain Go value.
func extractValue(v *qdrant.Value) any {
	switch kind := v.Kind.(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_ListValue:
		items := make([]any, 0, len(kind.ListValue.Values))
		for _, item := range kind.ListValue.Values {
			items = append(items, extractValue(item))
		}
		return items
	case *qdrant.Value_StructValue:
		fields := make(map[string]any, len(kind.StructValue.Fields))
		for k, item := range kind.StructValue.Fields {
			fields[k] = extractValue(item)
		}
		return fields
	default:
		return nil
	}
}
