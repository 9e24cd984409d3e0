package service

import (
	"context"
	"fmt"
	"time"

	"travel-assistant-be/internal/dto"
	"travel-assistant-be/internal/entity"
	"travel-assistant-be/internal/pkg/logger"
	"travel-assistant-be/internal/repository/contract"
	"travel-assistant-be/pkg/events"
	pktNats "travel-assistant-be/pkg/nats"
)

type IFeedbackService interface {
	Submit(ctx context.Context, request *dto.SubmitFeedbackRequest) (*dto.SubmitFeedbackResponse, error)
	Stats(ctx context.Context) (*dto.FeedbackStatsResponse, error)
}

type feedbackService struct {
	feedbackRepo contract.FeedbackRepository
	natsPub      *pktNats.Publisher
	sysLogger    logger.ILogger
}

func NewFeedbackService(feedbackRepo contract.FeedbackRepository, natsPub *pktNats.Publisher, sysLogger logger.ILogger) IFeedbackService {
	return &feedbackService{
		feedbackRepo: feedbackRepo,
		natsPub:      natsPub,
		sysLogger:    sysLogger,
	}
}

func (fs *feedbackService) Submit(ctx context.Context, request *dto.SubmitFeedbackRequest) (*dto.SubmitFeedbackResponse, error) {
	feedback := &entity.Feedback{
		ResponseId: request.ResponseId,
		Rating:     request.Rating,
		Comment:    request.Comment,
		CreatedAt:  time.Now(),
	}
	if request.Query != "" {
		feedback.Context = map[string]interface{}{"query": request.Query}
	}

	if err := fs.feedbackRepo.Create(ctx, feedback); err != nil {
		return nil, fmt.Errorf("store feedback: %w", err)
	}

	// Event publication is best effort; feedback is already durable.
	if fs.natsPub != nil {
		event := events.NewFeedbackSubmitted(feedback.ResponseId.String(), feedback.Rating, feedback.Comment)
		if err := fs.natsPub.Publish(ctx, event); err != nil {
			fs.sysLogger.Warn("feedback", "Failed to publish feedback event", map[string]interface{}{
				"error":       err.Error(),
				"feedback_id": feedback.Id.String(),
			})
		}
	}

	fs.sysLogger.Info("feedback", "Feedback submitted", map[string]interface{}{
		"feedback_id": feedback.Id.String(),
		"rating":      feedback.Rating,
	})

	return &dto.SubmitFeedbackResponse{
		Id:        feedback.Id,
		CreatedAt: feedback.CreatedAt,
	}, nil
}

func (fs *feedbackService) Stats(ctx context.Context) (*dto.FeedbackStatsResponse, error) {
	stats, err := fs.feedbackRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("load feedback stats: %w", err)
	}
	return &dto.FeedbackStatsResponse{
		Count:         stats.Count,
		AverageRating: stats.AverageRating,
	}, nil
}
