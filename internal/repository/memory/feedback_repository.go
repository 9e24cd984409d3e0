package memory

import (
	"context"
	"sync"
	"time"

	"travel-assistant-be/internal/entity"
	"travel-assistant-be/internal/repository/contract"

	"github.com/google/uuid"
)

// FeedbackRepository is an in-memory fallback used when no database is
// configured, and in tests.
type FeedbackRepository struct {
	mu      sync.RWMutex
	entries []*entity.Feedback
}

func NewFeedbackRepository() contract.FeedbackRepository {
	return &FeedbackRepository{}
}

func (r *FeedbackRepository) Create(ctx context.Context, feedback *entity.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if feedback.Id == uuid.Nil {
		feedback.Id = uuid.New()
	}
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now()
	}
	stored := *feedback
	r.entries = append(r.entries, &stored)
	return nil
}

func (r *FeedbackRepository) Stats(ctx context.Context) (*entity.FeedbackStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &entity.FeedbackStats{Count: int64(len(r.entries))}
	if stats.Count == 0 {
		return stats, nil
	}
	var total int
	for _, entry := range r.entries {
		total += entry.Rating
	}
	stats.AverageRating = float64(total) / float64(stats.Count)
	return stats, nil
}
