package auth

import "errors"

// Messages are shown to the user as-is.
var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrEmailTaken         = errors.New("user already registered")
	ErrInvalidEmail       = errors.New("unable to validate email address")
	ErrWeakPassword       = errors.New("password should be at least 6 characters")
	ErrPasswordDisabled   = errors.New("email sign-in is disabled")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrProviderDisabled   = errors.New("provider is not enabled")
	ErrInvalidRedirect    = errors.New("redirect target is not allowed")
	ErrInvalidState       = errors.New("oauth state is invalid or expired")
	ErrNoSessionInURL     = errors.New("no session found in redirect url")
)
