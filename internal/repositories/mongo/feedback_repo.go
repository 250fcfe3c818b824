package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AbhiRanjan33/mock-interview-platform/internal/models"
)

// FeedbackRepo wraps the feedback collection.
type FeedbackRepo struct{ col *mongo.Collection }

// NewFeedbackRepo connects to Mongo and ensures a unique compound index on
// (interviewId, userId). The index backs the at-most-one-feedback invariant
// at the store level; the orchestrator still checks before writing.
func NewFeedbackRepo(c *Client) (*FeedbackRepo, error) {
	db, err := c.DB()
	if err != nil {
		return nil, err
	}

	col := db.Collection("feedback")
	r := &FeedbackRepo{col: col}

	_, _ = r.col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "interviewId", Value: 1}, {Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return r, nil
}

// Create inserts a new feedback record.
func (r *FeedbackRepo) Create(ctx context.Context, fb *models.Feedback) error {
	if fb.ID == "" {
		return errors.New("feedback id required")
	}
	if fb.InterviewID == "" || fb.UserID == "" {
		return errors.New("feedback interviewId and userId required")
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, fb)
	return err
}

// GetByInterviewAndUser retrieves feedback for the pair, or (nil, nil) when
// none exists.
func (r *FeedbackRepo) GetByInterviewAndUser(ctx context.Context, interviewID, userID string) (*models.Feedback, error) {
	var fb models.Feedback
	err := r.col.FindOne(ctx, bson.M{"interviewId": interviewID, "userId": userID}).Decode(&fb)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &fb, nil
}
