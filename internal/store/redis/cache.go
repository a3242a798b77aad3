package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/nest/internal/backend"
	"github.com/MrSnakeDoc/nest/internal/domain"
)

// Short-lived keys: refresh tokens, OAuth states and browser sessions.
// All of them expire on their own.

// SaveRefreshToken maps token to userID until ttl elapses
func (s *Store) SaveRefreshToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, RefreshKey(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	return nil
}

// TakeRefreshToken consumes a refresh token and returns its user id.
// A token can be taken once; the second call gets backend.ErrNotFound.
func (s *Store) TakeRefreshToken(ctx context.Context, token string) (string, error) {
	return s.take(ctx, RefreshKey(token))
}

// RevokeRefreshToken drops a refresh token, if present
func (s *Store) RevokeRefreshToken(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, RefreshKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// SaveOAuthState remembers where to send the browser once the provider answers
func (s *Store) SaveOAuthState(ctx context.Context, state, redirectTo string, ttl time.Duration) error {
	if err := s.client.Set(ctx, OAuthStateKey(state), redirectTo, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save oauth state: %w", err)
	}
	return nil
}

// TakeOAuthState consumes a state and returns its redirect target
func (s *Store) TakeOAuthState(ctx context.Context, state string) (string, error) {
	return s.take(ctx, OAuthStateKey(state))
}

func (s *Store) take(ctx context.Context, key string) (string, error) {
	v, err := s.client.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", backend.ErrNotFound
		}
		return "", fmt.Errorf("failed to take %s: %w", key, err)
	}
	return v, nil
}

// SaveClientSession persists the session of one browser client
func (s *Store) SaveClientSession(ctx context.Context, clientID string, session *domain.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, ClientSessionKey(clientID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// LoadClientSession returns the persisted session, or nil on a miss
func (s *Store) LoadClientSession(ctx context.Context, clientID string) (*domain.Session, error) {
	var session domain.Session
	if err := s.getJSON(ctx, ClientSessionKey(clientID), &session); err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, nil // Cache miss
		}
		return nil, err
	}
	return &session, nil
}

// DeleteClientSession forgets a browser client's session
func (s *Store) DeleteClientSession(ctx context.Context, clientID string) error {
	if err := s.client.Del(ctx, ClientSessionKey(clientID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
