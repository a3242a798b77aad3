package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/nest/internal/domain"
)

// Collection names, as seen by stores and metrics.
const (
	CollectionBookmarks = "bookmarks"
	CollectionFolders   = "folders"
)

// Column names. Each schema lists which ones it filters and orders on.
const (
	ColumnID        = "id"
	ColumnOwnerID   = "user_id"
	ColumnFolderID  = "folder_id"
	ColumnCreatedAt = "created_at"
	ColumnName      = "name"
)

var (
	// ErrUnsupportedFilter is returned by stores for a column they cannot filter or order on.
	ErrUnsupportedFilter = errors.New("unsupported filter column")
	// ErrNoSession is returned by the owner policy when nobody is signed in.
	ErrNoSession = errors.New("no active session")
	// ErrForbidden is returned when a row would be written for another owner.
	ErrForbidden = errors.New("row owner does not match session user")
)

// Filter is an equality predicate on one column.
type Filter struct {
	Column string
	Value  string
}

// Eq builds an equality filter.
func Eq(column, value string) Filter {
	return Filter{Column: column, Value: value}
}

// Order sorts a select on a single column.
type Order struct {
	Column     string
	Descending bool
}

// Query describes a select: all filters must match.
type Query struct {
	Filters []Filter
	Order   *Order
}

// Where returns a copy of q with f appended.
func (q Query) Where(f Filter) Query {
	filters := make([]Filter, 0, len(q.Filters)+1)
	filters = append(filters, q.Filters...)
	q.Filters = append(filters, f)
	return q
}

// OrderBy returns a copy of q ordered on column.
func (q Query) OrderBy(column string, descending bool) Query {
	q.Order = &Order{Column: column, Descending: descending}
	return q
}

// Value returns the value filtered on column, if any.
func (q Query) Value(column string) (string, bool) {
	return filterValue(q.Filters, column)
}

func filterValue(filters []Filter, column string) (string, bool) {
	for _, f := range filters {
		if f.Column == column {
			return f.Value, true
		}
	}
	return "", false
}

// Collection is the row API of one named table.
type Collection[T any] interface {
	// Select returns the rows matching q.
	Select(ctx context.Context, q Query) ([]T, error)
	// Insert stores rows. Empty ids and zero creation times are filled in by the store.
	Insert(ctx context.Context, rows ...T) error
	// Delete removes the rows matching every filter. Zero filters is rejected.
	Delete(ctx context.Context, filters ...Filter) error
}

// Data exposes the two collections of the application.
type Data interface {
	Bookmarks() Collection[domain.Bookmark]
	Folders() Collection[domain.Folder]
}

// ErrNoFilter is returned by Delete when called without filters.
var ErrNoFilter = errors.New("delete requires at least one filter")

// CheckColumns validates filters against filterable and the optional order
// against orderable.
func CheckColumns(filterable, orderable map[string]bool, filters []Filter, order *Order) error {
	for _, f := range filters {
		if !filterable[f.Column] {
			return fmt.Errorf("%w: %s", ErrUnsupportedFilter, f.Column)
		}
	}
	if order != nil && !orderable[order.Column] {
		return fmt.Errorf("%w: order by %s", ErrUnsupportedFilter, order.Column)
	}
	return nil
}
