package auth

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/nest/internal/domain"
)

// Accounts persists users. Missing rows are backend.ErrNotFound,
// a taken email is backend.ErrConflict.
type Accounts interface {
	CreateAccount(ctx context.Context, acc domain.Account) error
	AccountByID(ctx context.Context, id string) (*domain.Account, error)
	AccountByEmail(ctx context.Context, email string) (*domain.Account, error)
}

// Tokens persists single-use secrets with a TTL.
type Tokens interface {
	SaveRefreshToken(ctx context.Context, token, userID string, ttl time.Duration) error
	TakeRefreshToken(ctx context.Context, token string) (string, error)
	RevokeRefreshToken(ctx context.Context, token string) error

	SaveOAuthState(ctx context.Context, state, redirectTo string, ttl time.Duration) error
	TakeOAuthState(ctx context.Context, state string) (string, error)
}

// Store is everything the Service needs.
type Store interface {
	Accounts
	Tokens
}

// Sessions persists the session of each browser client.
// LoadClientSession returns nil, nil when nothing is stored.
type Sessions interface {
	SaveClientSession(ctx context.Context, clientID string, session *domain.Session, ttl time.Duration) error
	LoadClientSession(ctx context.Context, clientID string) (*domain.Session, error)
	DeleteClientSession(ctx context.Context, clientID string) error
}
