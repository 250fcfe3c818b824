// Package feedback turns a finished interview transcript into a scored,
// persisted feedback record, exactly once per (interview, user).
package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AbhiRanjan33/mock-interview-platform/internal/llm"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/models"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/prompts"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/repositories"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/utils"
)

var (
	ErrEmptyTranscript      = errors.New("transcript must not be empty")
	ErrInterviewNotFound    = errors.New("interview not found")
	ErrForbidden            = errors.New("interview is owned by another user")
	ErrMalformedEvaluation  = errors.New("evaluator returned a malformed evaluation")
	ErrGenerationInProgress = errors.New("feedback generation already in progress")
)

const lockTTL = 60 * time.Second

type Generator struct {
	interviews repositories.InterviewStore
	store      repositories.FeedbackStore
	provider   llm.Provider
	prompts    *prompts.PromptManager
	rdb        *redis.Client
	logger     *zap.Logger
}

// NewGenerator builds a feedback generator. rdb may be nil, in which case
// the cross-instance lock is skipped and only the read-before-write check
// plus the store's unique index guard against duplicates.
func NewGenerator(interviews repositories.InterviewStore, store repositories.FeedbackStore, provider llm.Provider, pm *prompts.PromptManager, rdb *redis.Client, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		interviews: interviews,
		store:      store,
		provider:   provider,
		prompts:    pm,
		rdb:        rdb,
		logger:     logger,
	}
}

// evaluation is the shape the evaluator must return.
type evaluation struct {
	TotalScore          int                    `json:"totalScore"`
	CategoryScores      []models.CategoryScore `json:"categoryScores"`
	Strengths           []string               `json:"strengths"`
	AreasForImprovement []string               `json:"areasForImprovement"`
	FinalAssessment     string                 `json:"finalAssessment"`
}

// Generate scores the transcript and persists a single feedback record for
// (interviewID, userID). If feedback already exists, the existing id is
// returned; duplicates are never created.
func (g *Generator) Generate(ctx context.Context, interviewID, userID string, transcript []models.TranscriptMessage) (string, error) {
	if len(transcript) == 0 {
		return "", ErrEmptyTranscript
	}

	interview, err := g.interviews.GetByID(ctx, interviewID)
	if err != nil {
		return "", fmt.Errorf("failed to load interview: %w", err)
	}
	if interview == nil {
		return "", ErrInterviewNotFound
	}
	if interview.UserID != userID {
		return "", ErrForbidden
	}

	if existing, err := g.store.GetByInterviewAndUser(ctx, interviewID, userID); err != nil {
		return "", fmt.Errorf("failed to check existing feedback: %w", err)
	} else if existing != nil {
		g.logger.Info("feedback already exists, returning existing record",
			zap.String("interviewId", interviewID), zap.String("feedbackId", existing.ID))
		return existing.ID, nil
	}

	unlock, err := g.acquireLock(ctx, interviewID, userID)
	if err != nil {
		return "", err
	}
	defer unlock()

	// Re-check under the lock: a concurrent trigger may have won the race.
	if existing, err := g.store.GetByInterviewAndUser(ctx, interviewID, userID); err != nil {
		return "", fmt.Errorf("failed to check existing feedback: %w", err)
	} else if existing != nil {
		return existing.ID, nil
	}

	prompt, err := g.prompts.BuildEvaluatorPrompt(transcript)
	if err != nil {
		return "", err
	}

	raw, err := g.provider.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("evaluator call failed: %w", err)
	}

	eval, err := parseEvaluation(raw)
	if err != nil {
		return "", err
	}

	fb := &models.Feedback{
		ID:                  uuid.NewString(),
		InterviewID:         interviewID,
		UserID:              userID,
		TotalScore:          eval.TotalScore,
		CategoryScores:      eval.CategoryScores,
		Strengths:           eval.Strengths,
		AreasForImprovement: eval.AreasForImprovement,
		FinalAssessment:     eval.FinalAssessment,
		CreatedAt:           time.Now().UTC(),
	}

	if err := g.store.Create(ctx, fb); err != nil {
		return "", fmt.Errorf("failed to persist feedback: %w", err)
	}

	// A retake clone stays unfinalized until it has been conducted. Feedback
	// is the conduct outcome, so the clone becomes durable here.
	if !interview.Finalized {
		if err := g.interviews.SetFinalized(ctx, interviewID); err != nil {
			g.logger.Error("failed to finalize interview after feedback",
				zap.String("interviewId", interviewID), zap.Error(err))
		}
	}

	g.logger.Info("feedback generated",
		zap.String("interviewId", interviewID),
		zap.String("feedbackId", fb.ID),
		zap.Int("totalScore", fb.TotalScore))

	return fb.ID, nil
}

// acquireLock takes a short-lived Redis lock for the (interview, user) pair
// so concurrent triggers across instances produce a single evaluator call.
func (g *Generator) acquireLock(ctx context.Context, interviewID, userID string) (func(), error) {
	if g.rdb == nil {
		return func() {}, nil
	}
	key := "feedback:generating:" + interviewID + ":" + userID
	ok, err := g.rdb.SetNX(ctx, key, "1", lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire generation lock: %w", err)
	}
	if !ok {
		return nil, ErrGenerationInProgress
	}
	return func() { g.rdb.Del(context.Background(), key) }, nil
}

func parseEvaluation(raw string) (*evaluation, error) {
	var eval evaluation
	if err := json.Unmarshal([]byte(utils.StripCodeFences(raw)), &eval); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvaluation, err)
	}
	if err := validateEvaluation(&eval); err != nil {
		return nil, err
	}
	return &eval, nil
}

func validateEvaluation(eval *evaluation) error {
	if eval.TotalScore < 0 || eval.TotalScore > 100 {
		return fmt.Errorf("%w: totalScore %d outside [0,100]", ErrMalformedEvaluation, eval.TotalScore)
	}
	if len(eval.CategoryScores) == 0 {
		return fmt.Errorf("%w: no category scores", ErrMalformedEvaluation)
	}
	for _, cs := range eval.CategoryScores {
		if cs.Name == "" {
			return fmt.Errorf("%w: category without a name", ErrMalformedEvaluation)
		}
		if cs.Score < 0 || cs.Score > 100 {
			return fmt.Errorf("%w: category %q score %d outside [0,100]", ErrMalformedEvaluation, cs.Name, cs.Score)
		}
	}
	if eval.FinalAssessment == "" {
		return fmt.Errorf("%w: missing final assessment", ErrMalformedEvaluation)
	}
	return nil
}
