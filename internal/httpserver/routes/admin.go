package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/nest/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nest/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/nest/internal/httpserver/mw"
)

func init() { Register(registerAdmin) }

func registerAdmin(r chi.Router, d deps.Deps) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))
		r.Get("/infra", handlers.Infra(d))
		r.Post("/sweep", handlers.Sweep(d))
	})
}
