package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/nest/internal/backend"
	"github.com/MrSnakeDoc/nest/internal/domain"
)

// Store handles Redis operations for rows, accounts and tokens
type Store struct {
	client *redis.Client
	now    func() time.Time

	bookmarks *collection[domain.Bookmark]
	folders   *collection[domain.Folder]
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	s := &Store{client: client, now: time.Now}
	s.bookmarks = &collection[domain.Bookmark]{
		store:    s,
		schema:   backend.BookmarkSchema,
		rowKey:   BookmarkKey,
		ownerKey: UserBookmarksKey,
		allKey:   KeyAllBookmarks,
	}
	s.folders = &collection[domain.Folder]{
		store:    s,
		schema:   backend.FolderSchema,
		rowKey:   FolderKey,
		ownerKey: UserFoldersKey,
		allKey:   KeyAllFolders,
	}
	return s
}

func (s *Store) Bookmarks() backend.Collection[domain.Bookmark] { return s.bookmarks }
func (s *Store) Folders() backend.Collection[domain.Folder]     { return s.folders }

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// collection stores rows as JSON blobs, indexed per owner and globally
// in sorted sets scored by creation time.
type collection[T any] struct {
	store    *Store
	schema   backend.Schema[T]
	rowKey   func(id string) string
	ownerKey func(uid string) string
	allKey   string
}

func score(t time.Time) float64 {
	return float64(t.UnixMicro())
}

// Select reads the owner's index when the query names one, the global
// index otherwise. Remaining filters are applied on the decoded rows.
func (c *collection[T]) Select(ctx context.Context, q backend.Query) ([]T, error) {
	if err := c.schema.Check(q.Filters, q.Order); err != nil {
		return nil, err
	}

	var ids []string
	if id, ok := q.Value(backend.ColumnID); ok {
		ids = []string{id}
	} else {
		index := c.allKey
		if uid, ok := q.Value(backend.ColumnOwnerID); ok {
			index = c.ownerKey(uid)
		}

		var err error
		if q.Order != nil && q.Order.Column == backend.ColumnCreatedAt && q.Order.Descending {
			ids, err = c.store.client.ZRevRange(ctx, index, 0, -1).Result()
		} else {
			ids, err = c.store.client.ZRange(ctx, index, 0, -1).Result()
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s index: %w", c.schema.Name, err)
		}
	}

	rows, err := c.load(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(rows))
	for i := range rows {
		if c.schema.Matches(&rows[i], q.Filters) {
			out = append(out, rows[i])
		}
	}

	if q.Order != nil && q.Order.Column != backend.ColumnCreatedAt {
		order := *q.Order
		sort.SliceStable(out, func(i, j int) bool {
			return c.schema.Less(&out[i], &out[j], order)
		})
	}
	return out, nil
}

// load fetches rows by id. Ids whose row is gone are skipped.
func (c *collection[T]) load(ctx context.Context, ids []string) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.rowKey(id)
	}

	values, err := c.store.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", c.schema.Name, err)
	}

	rows := make([]T, 0, len(values))
	for i, v := range values {
		data, ok := v.(string)
		if !ok {
			continue
		}
		var row T
		if err := json.Unmarshal([]byte(data), &row); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s %s: %w", c.schema.Name, ids[i], err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Insert writes every row and its index entries in one transaction.
func (c *collection[T]) Insert(ctx context.Context, rows ...T) error {
	if len(rows) == 0 {
		return nil
	}

	pipe := c.store.client.TxPipeline()
	for i := range rows {
		row := &rows[i]
		if id := c.schema.ID(row); *id == "" {
			*id = uuid.NewString()
		}
		if created := c.schema.Created(row); created.IsZero() {
			*created = c.store.now().UTC()
		}

		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", c.schema.Name, err)
		}

		id := *c.schema.ID(row)
		member := redis.Z{Score: score(*c.schema.Created(row)), Member: id}
		pipe.Set(ctx, c.rowKey(id), data, 0)
		pipe.ZAdd(ctx, c.allKey, member)
		if owner := *c.schema.Owner(row); owner != "" {
			pipe.ZAdd(ctx, c.ownerKey(owner), member)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save %s: %w", c.schema.Name, err)
	}
	return nil
}

// Delete removes the matching rows and their index entries.
func (c *collection[T]) Delete(ctx context.Context, filters ...backend.Filter) error {
	if len(filters) == 0 {
		return backend.ErrNoFilter
	}

	rows, err := c.Select(ctx, backend.Query{Filters: filters})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	pipe := c.store.client.TxPipeline()
	for i := range rows {
		id := *c.schema.ID(&rows[i])
		pipe.Del(ctx, c.rowKey(id))
		pipe.ZRem(ctx, c.allKey, id)
		if owner := *c.schema.Owner(&rows[i]); owner != "" {
			pipe.ZRem(ctx, c.ownerKey(owner), id)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete %s: %w", c.schema.Name, err)
	}
	return nil
}

// getJSON loads key into v, returning backend.ErrNotFound on a miss.
func (s *Store) getJSON(ctx context.Context, key string, v any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return backend.ErrNotFound
		}
		return fmt.Errorf("failed to get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}
