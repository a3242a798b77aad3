package backend

import (
	"context"
	"errors"

	"github.com/MrSnakeDoc/nest/internal/domain"
)

var (
	// ErrNotFound is returned by stores for a missing account, token or state.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned by stores when a unique key is already taken.
	ErrConflict = errors.New("already exists")
)

// Event names a session transition.
type Event string

const (
	EventSignedIn       Event = "SIGNED_IN"
	EventSignedOut      Event = "SIGNED_OUT"
	EventTokenRefreshed Event = "TOKEN_REFRESHED"
)

// SessionListener receives every session change. session is nil after sign-out.
// ctx is the context of the operation that caused the change.
type SessionListener func(ctx context.Context, event Event, session *domain.Session)

// ProviderGoogle is the only OAuth provider wired in.
const ProviderGoogle = "google"

// Auth is the session side of the backend as seen by one browser client.
//
// Sign-in style calls return an error the caller shows to the user; on
// success they do not hand back a session. State changes reach the caller
// only through the listeners registered with OnSessionChange.
type Auth interface {
	SessionSource

	// GetSession returns the stored session (refreshed if needed), or nil.
	GetSession(ctx context.Context) (*domain.Session, error)

	// OnSessionChange registers l and returns a function removing it.
	OnSessionChange(l SessionListener) (unsubscribe func())

	SignInWithPassword(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) error

	// SignInWithOAuth returns the provider URL the browser must visit.
	// After consent the browser lands on redirectTo with the session in the fragment.
	SignInWithOAuth(ctx context.Context, provider, redirectTo string) (string, error)

	SignOut(ctx context.Context) error

	// ExchangeCodeForSession reads the session out of a redirect URL fragment.
	ExchangeCodeForSession(ctx context.Context, fullURL string) error
}
