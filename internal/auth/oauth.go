package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/MrSnakeDoc/nest/internal/backend"
	"github.com/MrSnakeDoc/nest/internal/domain"
	"github.com/MrSnakeDoc/nest/internal/logger"
	"github.com/MrSnakeDoc/nest/internal/utils"
)

// GoogleUserInfoURL is the OpenID userinfo endpoint of the google provider.
const GoogleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// GoogleConfig builds the OAuth client for the google provider.
// callbackURL is where the provider sends the browser back with a code.
func GoogleConfig(clientID, clientSecret, callbackURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     endpoints.Google,
		RedirectURL:  callbackURL,
		Scopes:       []string{"openid", "email"},
	}
}

// OAuthEnabled reports whether provider sign-in is configured.
func (s *Service) OAuthEnabled() bool {
	return s.opts.OAuth != nil
}

// allowedRedirect accepts absolute URLs on the public origin only.
func (s *Service) allowedRedirect(target string) bool {
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}
	public, err := url.Parse(s.opts.PublicURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, public.Scheme) && strings.EqualFold(u.Host, public.Host)
}

// BeginOAuth stores a fresh state and returns the provider consent URL.
func (s *Service) BeginOAuth(ctx context.Context, provider, redirectTo string) (string, error) {
	if provider != backend.ProviderGoogle || s.opts.OAuth == nil {
		return "", fmt.Errorf("%w: %s", ErrProviderDisabled, provider)
	}
	if !s.allowedRedirect(redirectTo) {
		return "", ErrInvalidRedirect
	}

	state := uuid.NewString()
	if err := s.store.SaveOAuthState(ctx, state, redirectTo, s.opts.OAuthStateTTL); err != nil {
		return "", err
	}
	return s.opts.OAuth.AuthCodeURL(state), nil
}

// CompleteOAuth handles the provider callback: it consumes state, exchanges
// code, and signs in the account of the provider email, creating it if needed.
// It returns the session and the redirect target saved by BeginOAuth.
func (s *Service) CompleteOAuth(ctx context.Context, code, state string) (*domain.Session, string, error) {
	if s.opts.OAuth == nil {
		return nil, "", ErrProviderDisabled
	}

	redirectTo, err := s.store.TakeOAuthState(ctx, state)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, "", ErrInvalidState
		}
		return nil, "", err
	}

	tok, err := s.opts.OAuth.Exchange(ctx, code)
	if err != nil {
		return nil, redirectTo, fmt.Errorf("failed to exchange code: %w", err)
	}

	email, err := s.fetchEmail(ctx, tok)
	if err != nil {
		return nil, redirectTo, err
	}

	acc, err := s.providerAccount(ctx, email)
	if err != nil {
		return nil, redirectTo, err
	}

	session, err := s.issue(ctx, acc.User)
	if err != nil {
		return nil, redirectTo, err
	}
	s.log.Info("user signed in with provider",
		logger.String("user_id", acc.ID),
		logger.String("provider", backend.ProviderGoogle))
	return session, redirectTo, nil
}

type userInfo struct {
	Email         string `json:"email"`
	EmailVerified *bool  `json:"email_verified"`
}

func (s *Service) fetchEmail(ctx context.Context, tok *oauth2.Token) (string, error) {
	client := s.opts.OAuth.Client(ctx, tok)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.opts.UserInfoURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var info userInfo
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&info); err != nil {
		return "", fmt.Errorf("failed to decode userinfo: %w", err)
	}
	if info.EmailVerified != nil && !*info.EmailVerified {
		return "", fmt.Errorf("provider email %q is not verified", info.Email)
	}
	return normalizeEmail(info.Email)
}

// providerAccount finds the account for email or creates a password-less one.
func (s *Service) providerAccount(ctx context.Context, email string) (*domain.Account, error) {
	acc, err := s.store.AccountByEmail(ctx, email)
	if err == nil {
		return acc, nil
	}
	if !errors.Is(err, backend.ErrNotFound) {
		return nil, err
	}

	created := domain.Account{
		User:      domain.User{ID: uuid.NewString(), Email: email},
		Provider:  backend.ProviderGoogle,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateAccount(ctx, created); err != nil {
		if errors.Is(err, backend.ErrConflict) {
			// Lost a race with another sign-in for the same email.
			return s.store.AccountByEmail(ctx, email)
		}
		return nil, err
	}
	s.log.Info("user created from provider", logger.String("user_id", created.ID))
	return &created, nil
}

// RedirectWithSession appends the session to target as a URL fragment,
// the way browsers receive it after a provider sign-in.
func RedirectWithSession(target string, session *domain.Session, expiresIn int) string {
	v := url.Values{}
	v.Set("access_token", session.AccessToken)
	v.Set("refresh_token", session.RefreshToken)
	v.Set("expires_in", fmt.Sprint(expiresIn))
	v.Set("token_type", "bearer")
	return withFragment(target, v)
}

// RedirectWithError appends a provider error to target as a URL fragment.
func RedirectWithError(target, code, description string) string {
	v := url.Values{}
	v.Set("error", code)
	v.Set("error_description", description)
	return withFragment(target, v)
}

func withFragment(target string, v url.Values) string {
	if i := strings.IndexByte(target, '#'); i >= 0 {
		target = target[:i]
	}
	return target + "#" + v.Encode()
}
