package dashboard

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/MrSnakeDoc/nest/internal/backend"
	"github.com/MrSnakeDoc/nest/internal/logger"
)

// Sign-in intents are fire-and-forget: a failure becomes the notice, a
// success only shows up through the session listener.

// SignIn signs in with email and password.
func (c *Controller) SignIn(ctx context.Context, email, password string) {
	c.credentials(ctx, IntentSignIn, email, password, c.auth.SignInWithPassword)
}

// SignUp creates an account with email and password.
func (c *Controller) SignUp(ctx context.Context, email, password string) {
	c.credentials(ctx, IntentSignUp, email, password, c.auth.SignUp)
}

func (c *Controller) credentials(ctx context.Context, intent, email, password string,
	call func(ctx context.Context, email, password string) error) {
	c.mu.Lock()
	c.email = email
	c.mu.Unlock()

	if email == "" || password == "" {
		c.setNotice(NoticeMissingCredentials)
		c.rec.Intent(intent, ResultSkipped)
		return
	}

	if err := call(ctx, email, password); err != nil {
		c.log.Debug("credential sign-in failed", logger.String("intent", intent), logger.Error(err))
		c.setNotice(err.Error())
		c.rec.Intent(intent, ResultError)
		return
	}
	c.rec.Intent(intent, ResultOK)
}

// SignInWithOAuth starts the provider flow and returns the URL to send the
// browser to. On failure it returns "" and sets the notice.
func (c *Controller) SignInWithOAuth(ctx context.Context, redirectTo string) string {
	target, err := c.auth.SignInWithOAuth(ctx, backend.ProviderGoogle, redirectTo)
	if err != nil {
		c.setNotice(err.Error())
		c.rec.Intent(IntentOAuth, ResultError)
		return ""
	}
	c.rec.Intent(IntentOAuth, ResultOK)
	return target
}

// SignOut ends the session. Lists are cleared by the SignedOut event.
func (c *Controller) SignOut(ctx context.Context) {
	if err := c.auth.SignOut(ctx); err != nil {
		c.log.Warn("sign out failed", logger.Error(err))
		c.rec.Intent(IntentSignOut, ResultError)
		return
	}
	c.rec.Intent(IntentSignOut, ResultOK)
}

// HandleRedirect completes a provider sign-in when the page address carries
// a session in its fragment. It reports whether the page should clear the
// fragment, which is only the case after a successful exchange or when the
// fragment reports a provider error (shown as the notice).
func (c *Controller) HandleRedirect(ctx context.Context, fullURL string) bool {
	u, err := url.Parse(fullURL)
	if err != nil {
		return false
	}
	if !strings.Contains(u.Fragment, "access_token") {
		params, _ := url.ParseQuery(u.EscapedFragment())
		if params.Get("error") == "" {
			return false
		}
		msg := params.Get("error_description")
		if msg == "" {
			msg = params.Get("error")
		}
		c.setNotice(msg)
		c.rec.Intent(IntentExchange, ResultError)
		return true
	}

	if err := c.auth.ExchangeCodeForSession(ctx, fullURL); err != nil {
		c.log.Warn("session exchange failed", logger.Error(err))
		c.rec.Intent(IntentExchange, ResultError)
		return false
	}
	c.rec.Intent(IntentExchange, ResultOK)
	return true
}

// RefreshSession renews the session ahead of expiry when the auth client
// supports it.
func (c *Controller) RefreshSession(ctx context.Context, window time.Duration) {
	r, ok := c.auth.(Refresher)
	if !ok {
		return
	}
	refreshed, err := r.RefreshIfExpiring(ctx, window)
	if err != nil {
		c.fail(OpRefreshSession, err)
		return
	}
	if refreshed {
		c.log.Debug("session refreshed ahead of expiry")
	}
}

// Refresher is implemented by auth clients that can renew a session early.
type Refresher interface {
	RefreshIfExpiring(ctx context.Context, window time.Duration) (bool, error)
}
