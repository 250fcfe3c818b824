package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/AbhiRanjan33/mock-interview-platform/internal/interviews"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/metrics"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/middleware"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/models"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/repositories"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/utils"
)

const latestInterviewsLimit = 20

// InterviewHandler serves interview creation, retakes and dashboard reads.
type InterviewHandler struct {
	Service       *interviews.Service
	Store         repositories.InterviewStore
	FeedbackStore repositories.FeedbackStore
	Logger        *zap.Logger
}

func NewInterviewHandler(service *interviews.Service, store repositories.InterviewStore, feedbackStore repositories.FeedbackStore, logger *zap.Logger) *InterviewHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InterviewHandler{Service: service, Store: store, FeedbackStore: feedbackStore, Logger: logger}
}

// GenerateHandler creates an interview from collected call metadata.
func (h *InterviewHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.GenerateInterviewRequest](r)
	user := middleware.CurrentUser(r)

	id, err := h.Service.CreateFromMetadata(r.Context(), user.UID, req.Metadata())
	if err != nil {
		h.Logger.Error("interview generation failed", zap.Error(err))
		utils.JSON(w, http.StatusBadGateway, models.ErrorResponse{
			Code:    "generation_failed",
			Message: "Failed to generate the interview.",
		})
		return
	}

	metrics.RecordInterviewCreated("generated")
	utils.JSON(w, http.StatusCreated, models.SuccessResponse{Success: true, ID: id})
}

// GetHandler returns one interview by id.
func (h *InterviewHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	interview, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		h.Logger.Error("failed to load interview", zap.String("interviewId", id), zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "store_failure",
			Message: "Failed to load the interview.",
		})
		return
	}
	if interview == nil {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "not_found",
			Message: "Interview not found.",
		})
		return
	}

	utils.JSON(w, http.StatusOK, interview)
}

// ListMineHandler returns the current user's interviews, newest first.
func (h *InterviewHandler) ListMineHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	list, err := h.Store.ListByUser(r.Context(), user.UID)
	if err != nil {
		h.Logger.Error("failed to list interviews", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "store_failure",
			Message: "Failed to list interviews.",
		})
		return
	}
	if list == nil {
		list = []models.Interview{}
	}

	utils.JSON(w, http.StatusOK, list)
}

// latestInterview decorates an interview with whether the current user
// already has feedback for it, the way the dashboard renders its buttons.
type latestInterview struct {
	models.Interview
	HasFeedback bool `json:"hasFeedback"`
}

// ListLatestHandler returns recent finalized interviews from other users.
func (h *InterviewHandler) ListLatestHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	list, err := h.Store.ListLatest(r.Context(), user.UID, latestInterviewsLimit)
	if err != nil {
		h.Logger.Error("failed to list latest interviews", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "store_failure",
			Message: "Failed to list interviews.",
		})
		return
	}

	out := make([]latestInterview, 0, len(list))
	for _, iv := range list {
		fb, err := h.FeedbackStore.GetByInterviewAndUser(r.Context(), iv.ID, user.UID)
		if err != nil {
			h.Logger.Warn("failed to check feedback presence",
				zap.String("interviewId", iv.ID), zap.Error(err))
		}
		out = append(out, latestInterview{Interview: iv, HasFeedback: fb != nil})
	}

	utils.JSON(w, http.StatusOK, out)
}

// RetakeHandler clones an interview definition into a fresh interview owned
// by the current user.
func (h *InterviewHandler) RetakeHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user := middleware.CurrentUser(r)

	newID, err := h.Service.Retake(r.Context(), id, user.UID)
	switch {
	case errors.Is(err, interviews.ErrNotFound):
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "not_found",
			Message: "Interview not found.",
		})
		return
	case errors.Is(err, interviews.ErrForbidden):
		utils.JSON(w, http.StatusForbidden, models.ErrorResponse{
			Code:    "forbidden",
			Message: "Only the owner can retake an interview.",
		})
		return
	case err != nil:
		h.Logger.Error("retake failed", zap.String("interviewId", id), zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "retake_failed",
			Message: "Failed to create the retake.",
		})
		return
	}

	metrics.RecordInterviewCreated("retake")
	utils.JSON(w, http.StatusCreated, models.SuccessResponse{Success: true, ID: newID})
}
