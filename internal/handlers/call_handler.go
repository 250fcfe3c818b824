package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/AbhiRanjan33/mock-interview-platform/internal/call"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/middleware"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/models"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/repositories"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/utils"
)

// CallHandler exposes the voice call lifecycle over HTTP.
type CallHandler struct {
	Manager    *call.Manager
	Interviews repositories.InterviewStore
	Logger     *zap.Logger
}

func NewCallHandler(manager *call.Manager, interviews repositories.InterviewStore, logger *zap.Logger) *CallHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CallHandler{Manager: manager, Interviews: interviews, Logger: logger}
}

// StartHandler opens a call session in generate or conduct mode.
func (h *CallHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.StartCallRequest](r)
	user := middleware.CurrentUser(r)

	params := call.Params{
		Mode:     call.Mode(req.Mode),
		Username: user.Name,
		UserID:   user.UID,
	}

	if params.Mode == call.ModeConduct {
		interview, err := h.Interviews.GetByID(r.Context(), req.InterviewID)
		if err != nil {
			h.Logger.Error("failed to load interview for call",
				zap.String("interviewId", req.InterviewID), zap.Error(err))
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
		// Feedback is owner-only, so a non-owner conduct call could never
		// finish successfully. Reject it before opening a voice session.
		if interview.UserID != user.UID {
			utils.JSON(w, http.StatusForbidden, models.ErrorResponse{
				Code:    "forbidden",
				Message: "You can only conduct your own interviews.",
			})
			return
		}
		params.InterviewID = interview.ID
		params.Questions = interview.Questions
	}

	callID, err := h.Manager.StartCall(r.Context(), params)
	if err != nil {
		if errors.Is(err, call.ErrTransportStart) {
			// Connection could not open; the client may retry.
			utils.JSON(w, http.StatusBadGateway, models.ErrorResponse{
				Code:    "transport_start_failed",
				Message: "Could not connect the call. Please try again.",
			})
			return
		}
		h.Logger.Error("failed to start call", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "call_failed",
			Message: "Failed to start the call.",
		})
		return
	}

	utils.JSON(w, http.StatusCreated, models.SuccessResponse{Success: true, ID: callID})
}

// callStatus is the polling shape the call page renders from.
type callStatus struct {
	Status      string `json:"status"`
	IsSpeaking  bool   `json:"isSpeaking"`
	LastMessage string `json:"lastMessage,omitempty"`
	Redirect    string `json:"redirect,omitempty"`
}

// StatusHandler reports the live state of a call session.
func (h *CallHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session, ok := h.Manager.Get(id)
	if !ok {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "not_found",
			Message: "Call not found.",
		})
		return
	}

	status := callStatus{
		Status:     session.Status().String(),
		IsSpeaking: session.IsSpeaking(),
		Redirect:   session.Redirect(),
	}
	if messages := session.Messages(); len(messages) > 0 {
		status.LastMessage = messages[len(messages)-1].Content
	}

	utils.JSON(w, http.StatusOK, status)
}

// DisconnectHandler ends a call and returns where to navigate next.
func (h *CallHandler) DisconnectHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	redirect, err := h.Manager.Disconnect(r.Context(), id)
	if errors.Is(err, call.ErrCallNotFound) {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "not_found",
			Message: "Call not found.",
		})
		return
	}
	if err != nil {
		// The session still finalized; stopping the transport is best effort.
		h.Logger.Warn("disconnect completed with transport error",
			zap.String("callId", id), zap.Error(err))
	}

	utils.JSON(w, http.StatusOK, map[string]string{"redirect": redirect})
}

// ConfigHandler hands the browser its ICE server configuration.
func (h *CallHandler) ConfigHandler(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, utils.GetWebRTCConfig())
}
