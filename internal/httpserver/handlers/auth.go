package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/MrSnakeDoc/nest/internal/auth"
	"github.com/MrSnakeDoc/nest/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nest/internal/logger"
)

func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl := controller(w, r, d)
		ctrl.SignIn(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
		backHome(w, r)
	}
}

func Signup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl := controller(w, r, d)
		ctrl.SignUp(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
		backHome(w, r)
	}
}

// AuthMode switches the sign-in form between login and signup.
func AuthMode(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		controller(w, r, d).SetAuthMode(r.PostFormValue("mode"))
		backHome(w, r)
	}
}

// OAuth sends the browser to the provider consent page.
func OAuth(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl := controller(w, r, d)
		target := ctrl.SignInWithOAuth(r.Context(), d.PublicURL+"/")
		if target == "" {
			backHome(w, r)
			return
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}

func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		controller(w, r, d).SignOut(r.Context())
		backHome(w, r)
	}
}

// OAuthCallback completes the provider flow and lands the browser back on
// the dashboard with the session, or an error, in the URL fragment.
func OAuthCallback(d deps.Deps) http.HandlerFunc {
	home := d.PublicURL + "/"
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		if code := q.Get("error"); code != "" {
			desc := q.Get("error_description")
			if desc == "" {
				desc = "Sign in was cancelled"
			}
			http.Redirect(w, r, auth.RedirectWithError(home, code, desc), http.StatusSeeOther)
			return
		}

		session, target, err := d.Auth.CompleteOAuth(r.Context(), q.Get("code"), q.Get("state"))
		if target == "" {
			target = home
		}
		if err != nil {
			d.Logger.Warn("oauth callback failed", logger.Error(err))
			code := "server_error"
			if errors.Is(err, auth.ErrInvalidState) || errors.Is(err, auth.ErrProviderDisabled) {
				code = "invalid_request"
			}
			http.Redirect(w, r, auth.RedirectWithError(target, code, err.Error()), http.StatusSeeOther)
			return
		}

		expiresIn := int(session.ExpiresAt.Sub(d.Now()).Seconds())
		http.Redirect(w, r, auth.RedirectWithSession(target, session, expiresIn), http.StatusSeeOther)
	}
}

type exchangeRequest struct {
	URL string `json:"url"`
}

type exchangeResponse struct {
	Clear bool `json:"clear"`
}

// Exchange hands the page address, fragment included, to the dashboard.
// The answer tells the page whether to drop the fragment and reload.
func Exchange(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req exchangeRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 16<<10)).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		if _, err := url.Parse(req.URL); err != nil || req.URL == "" {
			http.Error(w, "invalid url", http.StatusBadRequest)
			return
		}

		ctrl := controller(w, r, d)
		done := ctrl.HandleRedirect(r.Context(), req.URL)

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(exchangeResponse{Clear: done})
	}
}
