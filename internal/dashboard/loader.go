package dashboard

import (
	"context"

	"github.com/MrSnakeDoc/nest/internal/backend"
	"github.com/MrSnakeDoc/nest/internal/domain"
)

// Loader reads the rows of one user.
type Loader struct {
	data backend.Data
}

func NewLoader(data backend.Data) *Loader {
	return &Loader{data: data}
}

// FetchBookmarks returns the user's bookmarks, newest first.
func (l *Loader) FetchBookmarks(ctx context.Context, userID string) ([]domain.Bookmark, error) {
	return l.data.Bookmarks().Select(ctx, backend.Query{}.
		Where(backend.Eq(backend.ColumnOwnerID, userID)).
		OrderBy(backend.ColumnCreatedAt, true))
}

// FetchFolders returns the user's folders in creation order.
func (l *Loader) FetchFolders(ctx context.Context, userID string) ([]domain.Folder, error) {
	return l.data.Folders().Select(ctx, backend.Query{}.
		Where(backend.Eq(backend.ColumnOwnerID, userID)).
		OrderBy(backend.ColumnCreatedAt, false))
}

// Mutator writes rows. It never reloads anything: callers follow each
// call with the matching Controller.Reload* step.
type Mutator struct {
	data backend.Data
}

func NewMutator(data backend.Data) *Mutator {
	return &Mutator{data: data}
}

func (m *Mutator) InsertBookmark(ctx context.Context, b domain.Bookmark) error {
	return m.data.Bookmarks().Insert(ctx, b)
}

func (m *Mutator) DeleteBookmark(ctx context.Context, id string) error {
	return m.data.Bookmarks().Delete(ctx, backend.Eq(backend.ColumnID, id))
}

func (m *Mutator) InsertFolder(ctx context.Context, f domain.Folder) error {
	return m.data.Folders().Insert(ctx, f)
}

// DeleteFolder removes the folder only. Bookmarks filed under it keep
// their folder id.
func (m *Mutator) DeleteFolder(ctx context.Context, id string) error {
	return m.data.Folders().Delete(ctx, backend.Eq(backend.ColumnID, id))
}
