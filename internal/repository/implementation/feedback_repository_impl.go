package implementation

import (
	"context"

	"travel-assistant-be/internal/entity"
	"travel-assistant-be/internal/mapper"
	"travel-assistant-be/internal/model"
	"travel-assistant-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeedbackRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FeedbackMapper
}

func NewFeedbackRepository(db *gorm.DB) contract.FeedbackRepository {
	return &FeedbackRepositoryImpl{
		db:     db,
		mapper: mapper.NewFeedbackMapper(),
	}
}

func (r *FeedbackRepositoryImpl) Create(ctx context.Context, feedback *entity.Feedback) error {
	if feedback.Id == uuid.Nil {
		feedback.Id = uuid.New()
	}
	m := r.mapper.ToModel(feedback)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*feedback = *r.mapper.ToEntity(m)
	return nil
}

func (r *FeedbackRepositoryImpl) Stats(ctx context.Context) (*entity.FeedbackStats, error) {
	var result struct {
		Count         int64
		AverageRating float64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Feedback{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average_rating").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}
	return &entity.FeedbackStats{
		Count:         result.Count,
		AverageRating: result.AverageRating,
	}, nil
}
