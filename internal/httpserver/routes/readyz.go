package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/nest/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nest/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/nest/internal/httpserver/mw"
)

func init() { Register(registerProbes) }

// registerProbes wires liveness, readiness and metrics. Only /healthz is
// public; the rest is restricted to the allowed CIDRs.
func registerProbes(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))

	restricted := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	restricted.Get("/readyz", handlers.Readyz(d))
	if d.Metrics != nil {
		restricted.Method("GET", "/metrics", d.Metrics.Handler())
	}
}
