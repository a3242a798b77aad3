package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/nest/internal/dashboard"
	"github.com/MrSnakeDoc/nest/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nest/internal/logger"
)

// ClientCookie names the browser behind a request.
const ClientCookie = "nest_client"

// knownClient returns the id of a well-formed client cookie.
func knownClient(r *http.Request) (string, bool) {
	c, err := r.Cookie(ClientCookie)
	if err != nil {
		return "", false
	}
	parsed, err := uuid.Parse(c.Value)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

// clientID returns the id in the client cookie, issuing a new one when the
// cookie is missing or malformed. The cookie is refreshed on every call.
func clientID(w http.ResponseWriter, r *http.Request, d deps.Deps) string {
	id, ok := knownClient(r)
	if !ok {
		id = uuid.NewString()
		d.Logger.Debug("issued client id", logger.String("client_id", id))
	}

	http.SetCookie(w, &http.Cookie{
		Name:     ClientCookie,
		Value:    id,
		Path:     "/",
		Domain:   d.CookieDomain,
		MaxAge:   int(d.CookieTTL.Seconds()),
		Secure:   d.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// controller returns the dashboard of the requesting browser.
func controller(w http.ResponseWriter, r *http.Request, d deps.Deps) *dashboard.Controller {
	return d.Dashboards.Get(r.Context(), clientID(w, r, d))
}

// backHome ends a form post with a redirect to the dashboard, so a reload
// does not repeat the intent.
func backHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
