package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/MrSnakeDoc/nest/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nest/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/nest/internal/httpserver/mw"
	"github.com/MrSnakeDoc/nest/internal/utils"
)

func init() { Register(registerDashboard) }

func registerDashboard(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))

		r.Get("/", handlers.Dashboard(d))

		r.Post("/bookmarks", handlers.AddBookmark(d))
		r.Post("/bookmarks/{id}/delete", handlers.DeleteBookmark(d))
		r.Post("/folders", handlers.AddFolder(d))
		r.Post("/folders/{id}/delete", handlers.DeleteFolder(d))

		r.Route("/auth", func(r chi.Router) {
			if d.AuthRateLimit > 0 {
				r.Use(httprate.Limit(d.AuthRateLimit, time.Minute,
					httprate.WithKeyFuncs(clientIPKey(d.TrustProxy))))
			}
			r.Post("/login", handlers.Login(d))
			r.Post("/signup", handlers.Signup(d))
			r.Post("/mode", handlers.AuthMode(d))
			r.Post("/oauth", handlers.OAuth(d))
			r.Post("/logout", handlers.Logout(d))
			r.Post("/exchange", handlers.Exchange(d))
			r.Get("/callback", handlers.OAuthCallback(d))
		})
	})
}

// clientIPKey keys rate limits on the resolved client IP, honouring proxies
// only when they are trusted.
func clientIPKey(trustProxy bool) httprate.KeyFunc {
	return func(r *http.Request) (string, error) {
		return utils.ClientIP(r, trustProxy), nil
	}
}
