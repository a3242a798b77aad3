package backend

import (
	"context"

	"github.com/MrSnakeDoc/nest/internal/domain"
)

// SessionSource yields the session a data client acts for.
type SessionSource interface {
	// Current returns the cached session, or nil when signed out.
	Current() *domain.Session
}

// WithOwnerPolicy scopes data to the user of the current session, the
// way a row-level security policy would:
//   - every call without a session fails with ErrNoSession
//   - selects and deletes always carry a user_id filter for the session user
//   - inserts with an empty owner are stamped, a foreign owner is ErrForbidden
func WithOwnerPolicy(data Data, sessions SessionSource) Data {
	return &ownerData{
		bookmarks: &ownerCollection[domain.Bookmark]{
			inner:    data.Bookmarks(),
			sessions: sessions,
			owner:    BookmarkSchema.Owner,
		},
		folders: &ownerCollection[domain.Folder]{
			inner:    data.Folders(),
			sessions: sessions,
			owner:    FolderSchema.Owner,
		},
	}
}

type ownerData struct {
	bookmarks Collection[domain.Bookmark]
	folders   Collection[domain.Folder]
}

func (d *ownerData) Bookmarks() Collection[domain.Bookmark] { return d.bookmarks }
func (d *ownerData) Folders() Collection[domain.Folder]     { return d.folders }

type ownerCollection[T any] struct {
	inner    Collection[T]
	sessions SessionSource
	owner    func(*T) *string
}

func (c *ownerCollection[T]) userID() (string, error) {
	s := c.sessions.Current()
	if s == nil || s.User.ID == "" {
		return "", ErrNoSession
	}
	return s.User.ID, nil
}

// scope pins filters to uid. It reports false when the caller filters on
// another owner, in which case nothing can match.
func scope(filters []Filter, uid string) ([]Filter, bool) {
	if _, ok := filterValue(filters, ColumnOwnerID); ok {
		for _, f := range filters {
			if f.Column == ColumnOwnerID && f.Value != uid {
				return nil, false
			}
		}
		return filters, true
	}
	out := make([]Filter, 0, len(filters)+1)
	out = append(out, filters...)
	return append(out, Eq(ColumnOwnerID, uid)), true
}

func (c *ownerCollection[T]) Select(ctx context.Context, q Query) ([]T, error) {
	uid, err := c.userID()
	if err != nil {
		return nil, err
	}
	filters, ok := scope(q.Filters, uid)
	if !ok {
		return []T{}, nil
	}
	q.Filters = filters
	return c.inner.Select(ctx, q)
}

func (c *ownerCollection[T]) Insert(ctx context.Context, rows ...T) error {
	uid, err := c.userID()
	if err != nil {
		return err
	}
	for i := range rows {
		owner := c.owner(&rows[i])
		switch *owner {
		case "":
			*owner = uid
		case uid:
		default:
			return ErrForbidden
		}
	}
	return c.inner.Insert(ctx, rows...)
}

func (c *ownerCollection[T]) Delete(ctx context.Context, filters ...Filter) error {
	uid, err := c.userID()
	if err != nil {
		return err
	}
	scoped, ok := scope(filters, uid)
	if !ok {
		return nil
	}
	return c.inner.Delete(ctx, scoped...)
}
