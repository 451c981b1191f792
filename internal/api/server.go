// Package api exposes the scheduling service over HTTP/JSON.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/joshharrison/taskweave/internal/metrics"
	"github.com/joshharrison/taskweave/internal/service"
)

// Handlers holds the dependencies of every route.
type Handlers struct {
	Service *service.Service
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// NewRouter builds the chi router with all routes mounted.
func NewRouter(h *Handlers) http.Handler {
	if h.Logger == nil {
		h.Logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(instrument(h.Logger, h.Metrics))
	MountRoutes(r, h)
	return r
}

// MountRoutes registers the API on r.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if h.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(h.Gatherer))
	}

	r.Route("/projects/{projectID}", func(r chi.Router) {
		r.Get("/tasks", h.ListTasks)
		r.Post("/tasks", h.CreateTask)
		r.Get("/order", h.Order)
		r.Get("/critical-path", h.CriticalPath)
		r.Get("/graph", h.Graph)
		r.Get("/stats", h.Stats)
	})

	r.Route("/tasks/{taskID}", func(r chi.Router) {
		r.Get("/", h.GetTask)
		r.Delete("/", h.DeleteTask)
		r.Get("/analysis", h.AnalyzeTask)
		r.Post("/dependencies/validate", h.ValidateDependencies)
		r.Put("/dependencies", h.SetDependencies)
		r.Post("/status", h.TransitionStatus)
		r.Post("/progress", h.SetProgress)
	})

	r.Post("/status/bulk", h.BulkStatus)
}
