package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/nest/internal/backend"
	"github.com/MrSnakeDoc/nest/internal/domain"
)

// CreateAccount stores a new account. The email index entry is claimed
// first, so a second account with the same email fails with backend.ErrConflict.
func (s *Store) CreateAccount(ctx context.Context, acc domain.Account) error {
	if acc.ID == "" || acc.Email == "" {
		return fmt.Errorf("account needs an id and an email")
	}
	if acc.CreatedAt.IsZero() {
		acc.CreatedAt = s.now().UTC()
	}

	data, err := json.Marshal(acc)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	claimed, err := s.client.SetNX(ctx, UserEmailKey(acc.Email), acc.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to claim email: %w", err)
	}
	if !claimed {
		return backend.ErrConflict
	}

	if err := s.client.Set(ctx, UserKey(acc.ID), data, 0).Err(); err != nil {
		_ = s.client.Del(ctx, UserEmailKey(acc.Email)).Err()
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

// AccountByID retrieves an account by user id
func (s *Store) AccountByID(ctx context.Context, id string) (*domain.Account, error) {
	var acc domain.Account
	if err := s.getJSON(ctx, UserKey(id), &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// AccountByEmail resolves the email index, then loads the account
func (s *Store) AccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	id, err := s.client.Get(ctx, UserEmailKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, backend.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get email index: %w", err)
	}
	return s.AccountByID(ctx, id)
}
