package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/MrSnakeDoc/nest/internal/backend"
	"github.com/MrSnakeDoc/nest/internal/domain"
	"github.com/MrSnakeDoc/nest/internal/logger"
)

// Client is the auth backend as seen by one browser. The session it holds is
// persisted under the browser's client id, so a new Client for the same id
// picks it back up.
//
// Listeners run synchronously on the goroutine that caused the change, with
// no Client lock held.
type Client struct {
	id       string
	svc      *Service
	sessions Sessions
	log      logger.Logger
	now      func() time.Time

	mu      sync.Mutex
	session *domain.Session
	loaded  bool

	// rmu serializes refreshes: a refresh token can be spent once.
	rmu sync.Mutex

	lmu       sync.Mutex
	listeners map[int]backend.SessionListener
	nextID    int
}

var _ backend.Auth = (*Client)(nil)

// NewClient returns the auth client of browser id.
func (s *Service) NewClient(id string, sessions Sessions) *Client {
	return &Client{
		id:        id,
		svc:       s,
		sessions:  sessions,
		log:       s.log.With(logger.String("client_id", id)),
		now:       s.now,
		listeners: make(map[int]backend.SessionListener),
	}
}

// ID returns the browser client id.
func (c *Client) ID() string { return c.id }

// Current returns the cached session without touching the store.
func (c *Client) Current() *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// GetSession returns the session, loading it from the store on first use and
// refreshing it when the access token has expired. A session whose refresh
// token is no longer valid is dropped and nil is returned.
func (c *Client) GetSession(ctx context.Context) (*domain.Session, error) {
	c.mu.Lock()
	session, loaded := c.session, c.loaded
	c.mu.Unlock()

	if !loaded {
		stored, err := c.sessions.LoadClientSession(ctx, c.id)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if !c.loaded {
			c.session, c.loaded = stored, true
		}
		session = c.session
		c.mu.Unlock()
	}

	if session == nil || !session.Expired(c.now()) {
		return session, nil
	}

	current, _, err := c.refresh(ctx, func(s *domain.Session) bool {
		return s.Expired(c.now())
	})
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			c.log.Debug("stored session could not be refreshed, dropping it")
			_ = c.clear(ctx)
			return nil, nil
		}
		return nil, err
	}
	return current, nil
}

// RefreshIfExpiring refreshes the session when its access token expires
// within window. It reports whether a refresh happened.
func (c *Client) RefreshIfExpiring(ctx context.Context, window time.Duration) (bool, error) {
	_, refreshed, err := c.refresh(ctx, func(s *domain.Session) bool {
		return s.ExpiresWithin(c.now(), window)
	})
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			_ = c.clear(ctx)
			c.emit(ctx, backend.EventSignedOut, nil)
		}
		return false, err
	}
	return refreshed, nil
}

// refresh renews the cached session when stale reports it needs it. The
// check runs after taking rmu, so a caller that waited on another refresh
// sees the renewed session and returns it unchanged.
func (c *Client) refresh(ctx context.Context, stale func(*domain.Session) bool) (*domain.Session, bool, error) {
	c.rmu.Lock()
	current := c.Current()
	if current == nil || !stale(current) {
		c.rmu.Unlock()
		return current, false, nil
	}

	session, err := c.svc.Refresh(ctx, current.RefreshToken)
	if err == nil {
		err = c.set(ctx, session)
	}
	c.rmu.Unlock()
	if err != nil {
		return nil, false, err
	}

	c.emit(ctx, backend.EventTokenRefreshed, session)
	return session, true, nil
}

// OnSessionChange registers l and returns a function removing it.
func (c *Client) OnSessionChange(l backend.SessionListener) func() {
	c.lmu.Lock()
	defer c.lmu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			c.lmu.Lock()
			delete(c.listeners, id)
			c.lmu.Unlock()
		})
	}
}

// Listeners returns the number of registered listeners.
func (c *Client) Listeners() int {
	c.lmu.Lock()
	defer c.lmu.Unlock()
	return len(c.listeners)
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) error {
	session, err := c.svc.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	return c.signedIn(ctx, session)
}

func (c *Client) SignUp(ctx context.Context, email, password string) error {
	session, err := c.svc.SignUp(ctx, email, password)
	if err != nil {
		return err
	}
	return c.signedIn(ctx, session)
}

func (c *Client) SignInWithOAuth(ctx context.Context, provider, redirectTo string) (string, error) {
	return c.svc.BeginOAuth(ctx, provider, redirectTo)
}

// SignOut revokes the refresh token, forgets the session and always emits SignedOut.
func (c *Client) SignOut(ctx context.Context) error {
	var errs []error
	if session := c.Current(); session != nil {
		if err := c.svc.Revoke(ctx, session.RefreshToken); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.clear(ctx); err != nil {
		errs = append(errs, err)
	}
	c.emit(ctx, backend.EventSignedOut, nil)
	return errors.Join(errs...)
}

// ExchangeCodeForSession reads the session carried in the fragment of
// fullURL after a provider sign-in.
func (c *Client) ExchangeCodeForSession(ctx context.Context, fullURL string) error {
	u, err := url.Parse(fullURL)
	if err != nil {
		return fmt.Errorf("invalid redirect url: %w", err)
	}
	params, err := url.ParseQuery(u.EscapedFragment())
	if err != nil {
		return fmt.Errorf("invalid redirect fragment: %w", err)
	}

	if code := params.Get("error"); code != "" {
		if desc := params.Get("error_description"); desc != "" {
			return errors.New(desc)
		}
		return errors.New(code)
	}

	access := params.Get("access_token")
	if access == "" {
		return ErrNoSessionInURL
	}
	user, exp, err := c.svc.Verify(access)
	if err != nil {
		return err
	}

	return c.signedIn(ctx, &domain.Session{
		AccessToken:  access,
		RefreshToken: params.Get("refresh_token"),
		ExpiresAt:    exp,
		User:         user,
	})
}

func (c *Client) signedIn(ctx context.Context, session *domain.Session) error {
	if err := c.set(ctx, session); err != nil {
		return err
	}
	c.log.Info("signed in", logger.String("user_id", session.User.ID))
	c.emit(ctx, backend.EventSignedIn, session)
	return nil
}

func (c *Client) set(ctx context.Context, session *domain.Session) error {
	if err := c.sessions.SaveClientSession(ctx, c.id, session, c.svc.RefreshTokenTTL()); err != nil {
		return err
	}
	c.mu.Lock()
	c.session, c.loaded = session, true
	c.mu.Unlock()
	return nil
}

func (c *Client) clear(ctx context.Context) error {
	c.mu.Lock()
	c.session, c.loaded = nil, true
	c.mu.Unlock()
	return c.sessions.DeleteClientSession(ctx, c.id)
}

func (c *Client) emit(ctx context.Context, event backend.Event, session *domain.Session) {
	c.lmu.Lock()
	listeners := make([]backend.SessionListener, 0, len(c.listeners))
	for i := 0; i < c.nextID; i++ {
		if l, ok := c.listeners[i]; ok {
			listeners = append(listeners, l)
		}
	}
	c.lmu.Unlock()

	for _, l := range listeners {
		l(ctx, event, session)
	}
}
