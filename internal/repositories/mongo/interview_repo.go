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

// InterviewRepo wraps the interviews collection.
type InterviewRepo struct{ col *mongo.Collection }

// NewInterviewRepo connects to Mongo and ensures an index on userId.
func NewInterviewRepo(c *Client) (*InterviewRepo, error) {
	db, err := c.DB()
	if err != nil {
		return nil, err
	}

	col := db.Collection("interviews")
	r := &InterviewRepo{col: col}

	_, _ = r.col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})

	return r, nil
}

// Create inserts a new interview.
func (r *InterviewRepo) Create(ctx context.Context, iv *models.Interview) error {
	if iv.ID == "" {
		return errors.New("interview id required")
	}
	if iv.UserID == "" {
		return errors.New("interview userId required")
	}
	if iv.CreatedAt.IsZero() {
		iv.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, iv)
	return err
}

// GetByID retrieves an interview, or (nil, nil) when none exists.
func (r *InterviewRepo) GetByID(ctx context.Context, id string) (*models.Interview, error) {
	var iv models.Interview
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&iv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &iv, nil
}

// SetFinalized marks an interview finalized so it shows up in the latest
// listing and is no longer subject to reaping.
func (r *InterviewRepo) SetFinalized(ctx context.Context, id string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"finalized": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("interview not found")
	}
	return nil
}

// ListByUser retrieves a user's interviews, newest first.
func (r *InterviewRepo) ListByUser(ctx context.Context, userID string) ([]models.Interview, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Interview
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListLatest retrieves finalized interviews from other users, newest first.
func (r *InterviewRepo) ListLatest(ctx context.Context, excludingUserID string, limit int64) ([]models.Interview, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	filter := bson.M{
		"finalized": true,
		"userId":    bson.M{"$ne": excludingUserID},
	}
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Interview
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteUnfinalizedBefore removes stale unfinalized interviews, returning the
// number deleted.
func (r *InterviewRepo) DeleteUnfinalizedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{
		"finalized": false,
		"createdAt": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
