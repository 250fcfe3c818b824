// Package interviews creates interview definitions: generation from
// collected call metadata, and retakes cloned from existing interviews.
package interviews

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AbhiRanjan33/mock-interview-platform/internal/llm"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/models"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/prompts"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/repositories"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/utils"
)

var (
	ErrNotFound  = errors.New("interview not found")
	ErrForbidden = errors.New("interview is owned by another user")
)

type Service struct {
	store    repositories.InterviewStore
	provider llm.Provider
	prompts  *prompts.PromptManager
	logger   *zap.Logger
}

func NewService(store repositories.InterviewStore, provider llm.Provider, pm *prompts.PromptManager, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, provider: provider, prompts: pm, logger: logger}
}

// CreateFromMetadata generates interview questions for the collected
// metadata and persists a fresh interview owned by userID.
func (s *Service) CreateFromMetadata(ctx context.Context, userID string, meta models.InterviewMetadata) (string, error) {
	if userID == "" {
		return "", errors.New("userID is required")
	}
	if !meta.Complete() {
		return "", errors.New("interview metadata is incomplete")
	}

	prompt, err := s.prompts.BuildGeneratorPrompt(meta)
	if err != nil {
		return "", err
	}

	raw, err := s.provider.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("question generation failed: %w", err)
	}

	questions, err := parseQuestions(raw)
	if err != nil {
		return "", err
	}

	interview := &models.Interview{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      meta.Role,
		Level:     meta.Level,
		Techstack: utils.SplitTechstack(meta.Techstack),
		Type:      meta.Type,
		Questions: questions,
		Finalized: true,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.Create(ctx, interview); err != nil {
		return "", fmt.Errorf("failed to persist interview: %w", err)
	}

	s.logger.Info("interview created",
		zap.String("interviewId", interview.ID),
		zap.String("userId", userID),
		zap.Int("questions", len(questions)))

	return interview.ID, nil
}

// Retake clones an existing interview's definition into a new interview
// owned by the same user. Feedback is never copied; the new interview gets
// a disjoint feedback slot.
func (s *Service) Retake(ctx context.Context, interviewID, userID string) (string, error) {
	src, err := s.store.GetByID(ctx, interviewID)
	if err != nil {
		return "", fmt.Errorf("failed to load interview: %w", err)
	}
	if src == nil {
		return "", ErrNotFound
	}
	if src.UserID != userID {
		return "", ErrForbidden
	}

	clone := &models.Interview{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      src.Role,
		Level:     src.Level,
		Techstack: append([]string(nil), src.Techstack...),
		Type:      src.Type,
		Questions: append([]string(nil), src.Questions...),
		Finalized: false,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.Create(ctx, clone); err != nil {
		return "", fmt.Errorf("failed to persist retake: %w", err)
	}

	s.logger.Info("interview retake created",
		zap.String("sourceId", interviewID),
		zap.String("interviewId", clone.ID))

	return clone.ID, nil
}

func parseQuestions(raw string) ([]string, error) {
	var questions []string
	if err := json.Unmarshal([]byte(utils.StripCodeFences(raw)), &questions); err != nil {
		return nil, fmt.Errorf("generator returned malformed question list: %w", err)
	}
	if len(questions) == 0 {
		return nil, errors.New("generator returned no questions")
	}
	return questions, nil
}
