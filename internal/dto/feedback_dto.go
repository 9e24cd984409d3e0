package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubmitFeedbackRequest struct {
	ResponseId uuid.UUID `json:"response_id" validate:"required"`
	Rating     int       `json:"rating" validate:"required,min=1,max=5"`
	Comment    string    `json:"comment" validate:"max=1000"`
	Query      string    `json:"query" validate:"max=2000"`
}

type SubmitFeedbackResponse struct {
	Id        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type FeedbackStatsResponse struct {
	Count         int64   `json:"count"`
	AverageRating float64 `json:"average_rating"`
}
