package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/MrSnakeDoc/nest/internal/backend"
	"github.com/MrSnakeDoc/nest/internal/domain"
	"github.com/MrSnakeDoc/nest/internal/logger"
)

// Options configures a Service.
type Options struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	BcryptCost      int
	PasswordSignIn  bool

	// PublicURL is the origin OAuth redirects must point back to.
	PublicURL string

	// OAuth is nil when provider sign-in is disabled.
	OAuth         *oauth2.Config
	OAuthStateTTL time.Duration
	// UserInfoURL returns the signed-in provider user as JSON with an "email" field.
	UserInfoURL string
}

// Service is the auth backend: accounts, password checks and token issuing.
// It is shared by every browser client.
type Service struct {
	store  Store
	opts   Options
	hasher hasher
	signer signer
	log    logger.Logger
	now    func() time.Time
}

func NewService(store Store, opts Options, log logger.Logger) *Service {
	s := &Service{
		store:  store,
		opts:   opts,
		hasher: newHasher(opts.BcryptCost),
		log:    log,
		now:    time.Now,
	}
	s.signer = signer{
		secret: []byte(opts.JWTSecret),
		ttl:    opts.AccessTokenTTL,
		now:    func() time.Time { return s.now() },
	}
	return s
}

// RefreshTokenTTL is how long a browser session can outlive its access token.
func (s *Service) RefreshTokenTTL() time.Duration {
	return s.opts.RefreshTokenTTL
}

// normalizeEmail lowercases and validates an address.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// SignUp creates an account and signs it in.
func (s *Service) SignUp(ctx context.Context, email, password string) (*domain.Session, error) {
	if !s.opts.PasswordSignIn {
		return nil, ErrPasswordDisabled
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := s.hasher.hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	acc := domain.Account{
		User:         domain.User{ID: uuid.NewString(), Email: email},
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.CreateAccount(ctx, acc); err != nil {
		if errors.Is(err, backend.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.log.Info("user signed up", logger.String("user_id", acc.ID))
	return s.issue(ctx, acc.User)
}

// SignIn checks email and password.
func (s *Service) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	if !s.opts.PasswordSignIn {
		return nil, ErrPasswordDisabled
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	acc, err := s.store.AccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if acc.PasswordHash == "" {
		// Provider-only account.
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.compare(acc.PasswordHash, password); err != nil {
		s.log.Debug("password mismatch", logger.String("user_id", acc.ID))
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, acc.User)
}

// Refresh trades a refresh token for a new session. The old token is consumed.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*domain.Session, error) {
	if refreshToken == "" {
		return nil, ErrInvalidToken
	}
	uid, err := s.store.TakeRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	acc, err := s.store.AccountByID(ctx, uid)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return s.issue(ctx, acc.User)
}

// Revoke drops a refresh token. Unknown tokens are ignored.
func (s *Service) Revoke(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.store.RevokeRefreshToken(ctx, refreshToken)
}

// Verify validates an access token and returns its user.
func (s *Service) Verify(accessToken string) (domain.User, time.Time, error) {
	claims, err := s.signer.verify(accessToken)
	if err != nil {
		return domain.User{}, time.Time{}, err
	}
	return domain.User{ID: claims.Subject, Email: claims.Email}, claims.ExpiresAt.Time, nil
}

// issue builds a session: signed access token plus a stored refresh token.
func (s *Service) issue(ctx context.Context, user domain.User) (*domain.Session, error) {
	access, exp, err := s.signer.sign(user)
	if err != nil {
		return nil, err
	}
	refresh, err := randomToken()
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveRefreshToken(ctx, refresh, user.ID, s.opts.RefreshTokenTTL); err != nil {
		return nil, err
	}

	return &domain.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    exp,
		User:         user,
	}, nil
}
