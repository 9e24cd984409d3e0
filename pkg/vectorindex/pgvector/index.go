package pgvector

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"travel-assistant-be/pkg/vectorindex"
)

// Index implements vectorindex.Index on Postgres with the pgvector
// extension. Documents live in the event_documents table; well-known
// metadata fields are real columns so filters stay indexable, the rest
// goes into a jsonb column.
type Index struct {
	db        *gorm.DB
	dimension int
}

var _ vectorindex.Index = &Index{}

// New creates a pgvector-backed index over an existing gorm connection.
func New(db *gorm.DB, dimension int) *Index {
	return &Index{
		db:        db,
		dimension: dimension,
	}
}

type eventDocument struct {
	Id        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Content   string          `gorm:"type:text"`
	Category  string          `gorm:"type:varchar(64);index"`
	Cost      string          `gorm:"type:varchar(32);index"`
	EventDate *time.Time      `gorm:"index"`
	Metadata  datatypes.JSON  `gorm:"type:jsonb"`
	// The vector width is fixed by the migration that creates the
	// table; the index validates against Dimension() at query time.
	Embedding pgvector.Vector `gorm:"type:vector"`
}

func (eventDocument) TableName() string {
	return "event_documents"
}

type scoredEventDocument struct {
	eventDocument
	Similarity float64 `gorm:"column:similarity"`
}

// Query implements vectorindex.Index.
func (i *Index) Query(ctx context.Context, vector []float32, topK int, filter vectorindex.Filter) ([]vectorindex.Match, error) {
	if topK <= 0 {
		topK = 5
	}

	vec := pgvector.NewVector(vector)

	// pgvector cosine distance: embedding <=> vector (0 = identical).
	// Similarity = 1 - distance so that higher means more similar.
	query := i.db.WithContext(ctx).
		Model(&eventDocument{}).
		Select("*, 1 - (embedding <=> ?) AS similarity", vec)

	query, err := applyFilter(query, filter)
	if err != nil {
		return nil, err
	}

	var rows []scoredEventDocument
	err = query.
		Order(gorm.Expr("embedding <=> ?", vec)).
		Limit(topK).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("pgvector query failed: %w", err)
	}

	matches := make([]vectorindex.Match, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, vectorindex.Match{
			ID:       row.Id.String(),
			Score:    float32(row.Similarity),
			Metadata: buildMetadata(row.eventDocument),
		})
	}
	return matches, nil
}

// Dimension implements vectorindex.Index.
func (i *Index) Dimension() int {
	return i.dimension
}

// Close implements vectorindex.Index. The gorm connection is owned by
// the caller, so there is nothing to release here.
func (i *Index) Close() error {
	return nil
}

func applyFilter(query *gorm.DB, filter vectorindex.Filter) (*gorm.DB, error) {
	if filter.Permissive() {
		return query, nil
	}

	for field, pred := range filter {
		switch field {
		case "cost":
			if pred.Op == vectorindex.OpEq {
				query = query.Where("cost = ?", fmt.Sprintf("%v", pred.Value))
			}
		case "category":
			switch pred.Op {
			case vectorindex.OpEq:
				query = query.Where("category = ?", fmt.Sprintf("%v", pred.Value))
			case vectorindex.OpIn:
				query = query.Where("category IN ?", pred.Values)
			}
		case "eventDate":
			if pred.Op == vectorindex.OpBetween && len(pred.Values) == 2 {
				lo, errLo := parseTimeBound(pred.Values[0])
				hi, errHi := parseTimeBound(pred.Values[1])
				if errLo != nil || errHi != nil {
					return nil, fmt.Errorf("invalid eventDate range bounds: %v", pred.Values)
				}
				query = query.Where("event_date BETWEEN ? AND ?", lo, hi)
			}
		default:
			if pred.Op == vectorindex.OpEq {
				query = query.Where("metadata ->> ? = ?", field, fmt.Sprintf("%v", pred.Value))
			}
		}
	}
	return query, nil
}

func parseTimeBound(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return time.Parse(time.RFC3339, t)
	default:
		return time.Time{}, fmt.Errorf("unsupported time bound type %T", v)
	}
}

func buildMetadata(doc eventDocument) map[string]any {
	metadata := make(map[string]any)
	if len(doc.Metadata) > 0 {
		// Extra fields first so the typed columns win on conflict
		_ = json.Unmarshal(doc.Metadata, &metadata)
	}
	metadata["description"] = doc.Content
	if doc.Category != "" {
		metadata["category"] = doc.Category
	}
	if doc.Cost != "" {
		metadata["cost"] = doc.Cost
	}
	if doc.EventDate != nil {
		metadata["eventDate"] = doc.EventDate.Format(time.RFC3339)
	}
	return metadata
}
