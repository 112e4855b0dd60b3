// Package httptransport assembles the HTTP surface. Handlers live next to
// their domain packages; this router only decides ordering of the shared
// middleware chain and which groups carry authentication.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"civicledger/internal/platform/metrics"
	"civicledger/internal/platform/middleware"
	"civicledger/internal/transport/http/shared"
)

const requestTimeout = 30 * time.Second

// ModuleHandler is implemented by every domain handler.
type ModuleHandler interface {
	Register(r chi.Router)
}

// Dependencies carries everything the router mounts.
type Dependencies struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Handlers []ModuleHandler
	Health   func() map[string]string
}

// NewRouter wires the shared middleware chain and mounts every module
// handler plus the operational endpoints.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Latency(deps.Metrics))
	r.Use(middleware.Device)

	r.Get("/healthz", healthHandler(deps.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		for _, h := range deps.Handlers {
			h.Register(r)
		}
	})

	return r
}

func healthHandler(health func() map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{}
		if health != nil {
			checks = health()
		}
		status, overall := http.StatusOK, "ok"
		for _, state := range checks {
			if state != "ok" {
				status, overall = http.StatusServiceUnavailable, "degraded"
			}
		}
		shared.WriteJSON(w, status, map[string]any{
			"status": overall,
			"checks": checks,
		})
	}
}
