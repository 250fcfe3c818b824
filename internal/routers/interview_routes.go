package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AbhiRanjan33/mock-interview-platform/internal/handlers"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/middleware"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/models"
)

func InterviewRoutes(router *chi.Mux, interviewHandler *handlers.InterviewHandler, feedbackHandler *handlers.FeedbackHandler, requireAuth func(http.Handler) http.Handler) {
	router.Route("/api/v1/interviews", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", interviewHandler.ListMineHandler)
		r.Get("/latest", interviewHandler.ListLatestHandler)
		r.With(middleware.ValidateRequest[*models.GenerateInterviewRequest]()).Post("/generate", interviewHandler.GenerateHandler)
		r.Get("/{id}", interviewHandler.GetHandler)
		r.Post("/{id}/retake", interviewHandler.RetakeHandler)
		r.Get("/{id}/feedback", feedbackHandler.GetHandler)
	})

	router.Route("/api/v1/feedback", func(r chi.Router) {
		r.Use(requireAuth)
		r.With(middleware.ValidateRequest[*models.CreateFeedbackRequest]()).Post("/", feedbackHandler.CreateHandler)
	})
}
