package backend

import (
	"time"

	"github.com/MrSnakeDoc/nest/internal/domain"
)

// Schema tells a store how to read and stamp the rows of one collection.
type Schema[T any] struct {
	Name string
	// Columns are compared as strings by Field. Orders may also name
	// created_at, which has no string form.
	Columns map[string]bool
	Orders  map[string]bool
	Field   func(row *T, column string) string
	ID      func(row *T) *string
	Owner   func(row *T) *string
	Created func(row *T) *time.Time
}

// Check validates filters and the optional order against the schema.
func (s Schema[T]) Check(filters []Filter, order *Order) error {
	return CheckColumns(s.Columns, s.Orders, filters, order)
}

// Matches reports whether row satisfies every filter.
func (s Schema[T]) Matches(row *T, filters []Filter) bool {
	for _, f := range filters {
		if s.Field(row, f.Column) != f.Value {
			return false
		}
	}
	return true
}

// Less orders a before b on o. Equal rows report false both ways so
// callers can break ties themselves.
func (s Schema[T]) Less(a, b *T, o Order) bool {
	if o.Column == ColumnCreatedAt {
		ca, cb := *s.Created(a), *s.Created(b)
		if o.Descending {
			return ca.After(cb)
		}
		return ca.Before(cb)
	}
	fa, fb := s.Field(a, o.Column), s.Field(b, o.Column)
	if o.Descending {
		return fa > fb
	}
	return fa < fb
}

var BookmarkSchema = Schema[domain.Bookmark]{
	Name: CollectionBookmarks,
	Columns: map[string]bool{
		ColumnID: true, ColumnOwnerID: true, ColumnFolderID: true,
	},
	Orders: map[string]bool{ColumnCreatedAt: true},
	Field: func(b *domain.Bookmark, column string) string {
		switch column {
		case ColumnID:
			return b.ID
		case ColumnOwnerID:
			return b.OwnerID
		case ColumnFolderID:
			if b.FolderID == nil {
				return ""
			}
			return *b.FolderID
		}
		return ""
	},
	ID:      func(b *domain.Bookmark) *string { return &b.ID },
	Owner:   func(b *domain.Bookmark) *string { return &b.OwnerID },
	Created: func(b *domain.Bookmark) *time.Time { return &b.CreatedAt },
}

var FolderSchema = Schema[domain.Folder]{
	Name: CollectionFolders,
	Columns: map[string]bool{
		ColumnID: true, ColumnOwnerID: true, ColumnName: true,
	},
	Orders: map[string]bool{ColumnCreatedAt: true, ColumnName: true},
	Field: func(f *domain.Folder, column string) string {
		switch column {
		case ColumnID:
			return f.ID
		case ColumnOwnerID:
			return f.OwnerID
		case ColumnName:
			return f.Name
		}
		return ""
	},
	ID:      func(f *domain.Folder) *string { return &f.ID },
	Owner:   func(f *domain.Folder) *string { return &f.OwnerID },
	Created: func(f *domain.Folder) *time.Time { return &f.CreatedAt },
}
