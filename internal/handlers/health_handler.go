package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/AbhiRanjan33/mock-interview-platform/internal/llm"
	mongorepo "github.com/AbhiRanjan33/mock-interview-platform/internal/repositories/mongo"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/utils"
)

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status string                    `json:"status"` // "ready" | "not_ready"
	Checks map[string]ReadinessCheck `json:"checks"`
}

type HealthHandler struct {
	provider llm.Provider
	mongo    *mongorepo.Client
}

func NewHealthHandler(provider llm.Provider, mongo *mongorepo.Client) *HealthHandler {
	return &HealthHandler{provider: provider, mongo: mongo}
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	utils.JSON(writer, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "prepwise",
	})
}

func (handler *HealthHandler) ReadyzHandler(writer http.ResponseWriter, request *http.Request) {
	checks := make(map[string]ReadinessCheck)
	allChecksPass := true

	if handler.provider == nil {
		checks["provider"] = ReadinessCheck{Status: "failed", Message: "AI provider not initialized"}
		allChecksPass = false
	} else {
		checks["provider"] = ReadinessCheck{Status: "ok"}
	}

	if handler.mongo == nil {
		checks["store"] = ReadinessCheck{Status: "failed", Message: "Document store not initialized"}
		allChecksPass = false
	} else {
		pingCtx, cancel := context.WithTimeout(request.Context(), 2*time.Second)
		defer cancel()
		if err := handler.mongo.Ping(pingCtx); err != nil {
			checks["store"] = ReadinessCheck{Status: "failed", Message: err.Error()}
			allChecksPass = false
		} else {
			checks["store"] = ReadinessCheck{Status: "ok"}
		}
	}

	response := ReadinessResponse{Checks: checks}
	if allChecksPass {
		response.Status = "ready"
		utils.JSON(writer, http.StatusOK, response)
	} else {
		response.Status = "not_ready"
		utils.JSON(writer, http.StatusServiceUnavailable, response)
	}
}
