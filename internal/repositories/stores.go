package repositories

import (
	"context"
	"time"

	"github.com/AbhiRanjan33/mock-interview-platform/internal/models"
)

// InterviewStore is the persistence boundary for interview definitions.
// Lookups return (nil, nil) when no document matches.
type InterviewStore interface {
	Create(ctx context.Context, interview *models.Interview) error
	GetByID(ctx context.Context, id string) (*models.Interview, error)
	// SetFinalized marks an interview as durable. Retake clones start
	// unfinalized and are flipped once their conduct call produces feedback.
	SetFinalized(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]models.Interview, error)
	ListLatest(ctx context.Context, excludingUserID string, limit int64) ([]models.Interview, error)
	DeleteUnfinalizedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// FeedbackStore is the persistence boundary for feedback records.
type FeedbackStore interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	GetByInterviewAndUser(ctx context.Context, interviewID, userID string) (*models.Feedback, error)
}
