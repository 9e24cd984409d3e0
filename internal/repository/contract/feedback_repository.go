package contract

import (
	"context"

	"travel-assistant-be/internal/entity"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entity.Feedback) error
	Stats(ctx context.Context) (*entity.FeedbackStats, error)
}
