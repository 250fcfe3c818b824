package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AbhiRanjan33/mock-interview-platform/internal/handlers"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/middleware"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/models"
)

func CallRoutes(router *chi.Mux, callHandler *handlers.CallHandler, requireAuth func(http.Handler) http.Handler) {
	router.Route("/api/v1/calls", func(r chi.Router) {
		r.Use(requireAuth)
		r.With(middleware.ValidateRequest[*models.StartCallRequest]()).Post("/", callHandler.StartHandler)
		r.Get("/{id}", callHandler.StatusHandler)
		r.Delete("/{id}", callHandler.DisconnectHandler)
	})

	// ICE configuration for the browser voice client
	router.Get("/api/v1/call/config", callHandler.ConfigHandler)
}
