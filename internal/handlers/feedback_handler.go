package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/AbhiRanjan33/mock-interview-platform/internal/feedback"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/metrics"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/middleware"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/models"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/repositories"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/utils"
)

// FeedbackHandler serves feedback creation and reads.
type FeedbackHandler struct {
	Generator *feedback.Generator
	Store     repositories.FeedbackStore
	Logger    *zap.Logger
}

func NewFeedbackHandler(generator *feedback.Generator, store repositories.FeedbackStore, logger *zap.Logger) *FeedbackHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackHandler{Generator: generator, Store: store, Logger: logger}
}

// CreateHandler scores a transcript and persists the feedback record.
func (h *FeedbackHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.CreateFeedbackRequest](r)
	user := middleware.CurrentUser(r)

	id, err := h.Generator.Generate(r.Context(), req.InterviewID, user.UID, req.Transcript)
	switch {
	case errors.Is(err, feedback.ErrInterviewNotFound):
		metrics.RecordFeedbackOutcome("not_found")
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "not_found",
			Message: "Interview not found.",
		})
		return
	case errors.Is(err, feedback.ErrForbidden):
		metrics.RecordFeedbackOutcome("forbidden")
		utils.JSON(w, http.StatusForbidden, models.ErrorResponse{
			Code:    "forbidden",
			Message: "Only the interview owner can receive feedback for it.",
		})
		return
	case errors.Is(err, feedback.ErrMalformedEvaluation):
		metrics.RecordFeedbackOutcome("malformed_evaluation")
		h.Logger.Error("evaluator returned malformed output", zap.Error(err))
		utils.JSON(w, http.StatusBadGateway, models.ErrorResponse{
			Code:    "evaluation_failed",
			Message: "Failed to evaluate the transcript.",
		})
		return
	case errors.Is(err, feedback.ErrGenerationInProgress):
		metrics.RecordFeedbackOutcome("in_progress")
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code:    "in_progress",
			Message: "Feedback generation is already in progress.",
		})
		return
	case err != nil:
		metrics.RecordFeedbackOutcome("failure")
		h.Logger.Error("feedback generation failed",
			zap.String("interviewId", req.InterviewID), zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "feedback_failed",
			Message: "Failed to generate feedback.",
		})
		return
	}

	metrics.RecordFeedbackOutcome("success")
	utils.JSON(w, http.StatusCreated, models.SuccessResponse{Success: true, ID: id})
}

// GetHandler returns the current user's feedback for one interview.
func (h *FeedbackHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	interviewID := chi.URLParam(r, "id")
	user := middleware.CurrentUser(r)

	fb, err := h.Store.GetByInterviewAndUser(r.Context(), interviewID, user.UID)
	if err != nil {
		h.Logger.Error("failed to load feedback",
			zap.String("interviewId", interviewID), zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "store_failure",
			Message: "Failed to load feedback.",
		})
		return
	}
	if fb == nil {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "not_found",
			Message: "No feedback for this interview.",
		})
		return
	}

	utils.JSON(w, http.StatusOK, fb)
}
