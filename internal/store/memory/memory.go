package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/nest/internal/backend"
	"github.com/MrSnakeDoc/nest/internal/domain"
)

// Store keeps bookmarks and folders in process memory.
// It backs tests and the "memory" data driver; nothing survives a restart.
type Store struct {
	bookmarks *table[domain.Bookmark]
	folders   *table[domain.Folder]
}

// NewStore creates an empty memory store.
func NewStore() *Store {
	return &Store{
		bookmarks: newTable(backend.BookmarkSchema),
		folders:   newTable(backend.FolderSchema),
	}
}

func (s *Store) Bookmarks() backend.Collection[domain.Bookmark] { return s.bookmarks }
func (s *Store) Folders() backend.Collection[domain.Folder]     { return s.folders }

type table[T any] struct {
	mu     sync.RWMutex
	schema backend.Schema[T]
	rows   map[string]T // ID -> row
	seq    map[string]int
	next   int
	now    func() time.Time
}

func newTable[T any](s backend.Schema[T]) *table[T] {
	return &table[T]{
		schema: s,
		rows:   make(map[string]T),
		seq:    make(map[string]int),
		now:    time.Now,
	}
}

// Select returns matching rows, in insertion order unless q.Order says otherwise.
func (t *table[T]) Select(_ context.Context, q backend.Query) ([]T, error) {
	if err := t.schema.Check(q.Filters, q.Order); err != nil {
		return nil, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		if t.schema.Matches(&row, q.Filters) {
			out = append(out, row)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		if q.Order != nil {
			if t.schema.Less(a, b, *q.Order) {
				return true
			}
			if t.schema.Less(b, a, *q.Order) {
				return false
			}
		}
		// Ties fall back to insertion order (reversed for descending).
		sa, sb := t.seq[*t.schema.ID(a)], t.seq[*t.schema.ID(b)]
		if q.Order != nil && q.Order.Descending {
			return sa > sb
		}
		return sa < sb
	})

	return out, nil
}

// Insert stores rows, assigning ids and creation times when missing.
func (t *table[T]) Insert(_ context.Context, rows ...T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, row := range rows {
		if id := t.schema.ID(&row); *id == "" {
			*id = uuid.NewString()
		}
		if created := t.schema.Created(&row); created.IsZero() {
			*created = t.now().UTC()
		}
		id := *t.schema.ID(&row)
		t.rows[id] = row
		t.next++
		t.seq[id] = t.next
	}
	return nil
}

// Delete removes every row matching all filters.
func (t *table[T]) Delete(_ context.Context, filters ...backend.Filter) error {
	if len(filters) == 0 {
		return backend.ErrNoFilter
	}
	if err := t.schema.Check(filters, nil); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for id, row := range t.rows {
		if t.schema.Matches(&row, filters) {
			delete(t.rows, id)
			delete(t.seq, id)
		}
	}
	return nil
}

// Count returns the number of stored rows in both tables.
func (s *Store) Count() (bookmarks, folders int) {
	s.bookmarks.mu.RLock()
	bookmarks = len(s.bookmarks.rows)
	s.bookmarks.mu.RUnlock()

	s.folders.mu.RLock()
	folders = len(s.folders.rows)
	s.folders.mu.RUnlock()
	return bookmarks, folders
}
