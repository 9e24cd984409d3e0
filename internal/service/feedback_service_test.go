package service

import (
	"context"
	"testing"

	"travel-assistant-be/internal/dto"
	"travel-assistant-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

func TestSubmitFeedbackWithoutEventBus(t *testing.T) {
	ctx := context.Background()
	feedbackService := NewFeedbackService(memory.NewFeedbackRepository(), nil, noopLogger{})

	res, err := feedbackService.Submit(ctx, &dto.SubmitFeedbackRequest{
		ResponseId: uuid.New(),
		Rating:     4,
		Comment:    "Good itinerary, missed the night market though",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, res.Id)
	assert.False(t, res.CreatedAt.IsZero())
}

func TestFeedbackStats(t *testing.T) {
	ctx := context.Background()
	feedbackService := NewFeedbackService(memory.NewFeedbackRepository(), nil, noopLogger{})

	empty, err := feedbackService.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.Count)
	assert.Equal(t, 0.0, empty.AverageRating)

	for _, rating := range []int{5, 3} {
		_, err := feedbackService.Submit(ctx, &dto.SubmitFeedbackRequest{
			ResponseId: uuid.New(),
			Rating:     rating,
		})
		require.NoError(t, err)
	}

	stats, err := feedbackService.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Count)
	assert.InDelta(t, 4.0, stats.AverageRating, 0.001)
}
