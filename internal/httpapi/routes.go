package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/predictionbingo/backend/internal/auth"
	"github.com/predictionbingo/backend/internal/middleware"
)

// SetupRoutes builds the router with all middlewares and endpoints wired.
func SetupRoutes(h *Handlers, jwtManager *auth.JWTManager) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logging)
	r.Use(middleware.Metrics(routePattern))

	// Public routes
	r.Get("/healthz", h.Healthz)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/api/signin", h.SignIn)
	r.Get("/api/palette", h.Palette)

	// Session-scoped routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtManager))

		r.Post("/api/groups", h.CreateGroup)
		r.Get("/api/groups/{groupID}", h.Dashboard)
		r.Post("/api/groups/{groupID}/join", h.Join)
		r.Post("/api/groups/{groupID}/lock", h.ToggleLock)
		r.Post("/api/groups/{groupID}/advance", h.Advance)

		r.Post("/api/groups/{groupID}/predictions", h.Submit)
		r.Get("/api/groups/{groupID}/predictions", h.ListPredictions)
		r.Post("/api/groups/{groupID}/review/finish", h.FinishReview)
		r.Post("/api/predictions/{predictionID}/review", h.Review)
		r.Post("/api/predictions/{predictionID}/comments", h.AddComment)

		r.Get("/api/groups/{groupID}/card", h.Card)
		r.Post("/api/groups/{groupID}/card/toggle", h.ToggleMark)

		r.Post("/api/recent", h.RecentGroups)
	})

	return r
}

// routePattern returns the chi route pattern matched for the request, for
// bounded-cardinality metric labels.
func routePattern(r *http.Request) string {
	if ctx := chi.RouteContext(r.Context()); ctx != nil {
		if pattern := ctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
