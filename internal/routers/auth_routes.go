package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AbhiRanjan33/mock-interview-platform/internal/handlers"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/middleware"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/models"
)

func AuthRoutes(router *chi.Mux, authHandler *handlers.AuthHandler, requireAuth func(http.Handler) http.Handler) {
	router.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.ValidateRequest[*models.SignUpRequest]()).Post("/signup", authHandler.SignUpHandler)
		r.With(middleware.ValidateRequest[*models.SignInRequest]()).Post("/signin", authHandler.SignInHandler)
		r.Post("/signout", authHandler.SignOutHandler)
		r.With(requireAuth).Get("/me", authHandler.MeHandler)
	})
}
