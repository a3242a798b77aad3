package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MrSnakeDoc/nest/internal/backend"
	"github.com/MrSnakeDoc/nest/internal/domain"
)

var bookmarksTable = table{
	name:    backend.CollectionBookmarks,
	columns: []string{"id", "user_id", "title", "url", "folder_id", "created_at"},
	check:   backend.BookmarkSchema.Check,
}

var foldersTable = table{
	name:    backend.CollectionFolders,
	columns: []string{"id", "user_id", "name", "created_at"},
	check:   backend.FolderSchema.Check,
}

// Store keeps bookmarks and folders in postgres.
type Store struct {
	pool *pgxpool.Pool

	bookmarks *collection[domain.Bookmark]
	folders   *collection[domain.Folder]
}

// NewStore wraps an open pool. Run Migrate first.
func NewStore(pool *pgxpool.Pool) *Store {
	now := time.Now
	return &Store{
		pool: pool,
		bookmarks: &collection[domain.Bookmark]{
			pool:   pool,
			table:  bookmarksTable,
			schema: backend.BookmarkSchema,
			now:    now,
			values: func(b *domain.Bookmark) []any {
				return []any{b.ID, b.OwnerID, b.Title, b.URL, b.FolderID, b.CreatedAt}
			},
		},
		folders: &collection[domain.Folder]{
			pool:   pool,
			table:  foldersTable,
			schema: backend.FolderSchema,
			now:    now,
			values: func(f *domain.Folder) []any {
				return []any{f.ID, f.OwnerID, f.Name, f.CreatedAt}
			},
		},
	}
}

func (s *Store) Bookmarks() backend.Collection[domain.Bookmark] { return s.bookmarks }
func (s *Store) Folders() backend.Collection[domain.Folder]     { return s.folders }

// Ping checks the pool.
func (s *Store) Ping(ctx context.Context) error {
	return Ping(ctx, s.pool)
}

type collection[T any] struct {
	pool   *pgxpool.Pool
	table  table
	schema backend.Schema[T]
	now    func() time.Time
	values func(row *T) []any
}

func (c *collection[T]) Select(ctx context.Context, q backend.Query) ([]T, error) {
	query, args, err := c.table.selectSQL(q)
	if err != nil {
		return nil, err
	}

	rows := []T{}
	if err := selectRows(ctx, c.pool, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", c.table.name, err)
	}
	return rows, nil
}

func (c *collection[T]) Insert(ctx context.Context, rows ...T) error {
	if len(rows) == 0 {
		return nil
	}

	values := make([][]any, len(rows))
	for i := range rows {
		row := &rows[i]
		if id := c.schema.ID(row); *id == "" {
			*id = uuid.NewString()
		}
		if created := c.schema.Created(row); created.IsZero() {
			*created = c.now().UTC()
		}
		values[i] = c.values(row)
	}

	query, args := c.table.insertSQL(values)
	if _, err := exec(ctx, c.pool, query, args...); err != nil {
		return fmt.Errorf("failed to insert %s: %w", c.table.name, err)
	}
	return nil
}

func (c *collection[T]) Delete(ctx context.Context, filters ...backend.Filter) error {
	query, args, err := c.table.deleteSQL(filters)
	if err != nil {
		return err
	}
	if _, err := exec(ctx, c.pool, query, args...); err != nil {
		return fmt.Errorf("failed to delete %s: %w", c.table.name, err)
	}
	return nil
}
