package entity

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is a user rating of one generated answer.
type Feedback struct {
	Id         uuid.UUID
	ResponseId uuid.UUID
	Rating     int
	Comment    string
	Context    map[string]interface{}
	CreatedAt  time.Time
}

// FeedbackStats aggregates ratings across all feedback rows.
type FeedbackStats struct {
	Count         int64
	AverageRating float64
}
