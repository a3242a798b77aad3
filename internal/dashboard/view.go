package dashboard

import "github.com/MrSnakeDoc/nest/internal/domain"

// State is the top-level screen.
type State int

const (
	// Unauthenticated shows the sign-in entry point only.
	Unauthenticated State = iota
	// Dashboard shows folders and bookmarks.
	Dashboard
)

// View is a render snapshot of a controller.
type View struct {
	State State
	User  *domain.User

	// Notice is a blocking message, shown once.
	Notice string

	// Sign-in form.
	AuthMode string
	Email    string

	// Sidebar. Total counts every bookmark, Folders count over the unfiltered list.
	Total    int
	Folders  []domain.FolderCount
	Selected *string

	// Main list after folder and search filtering.
	Search    string
	Bookmarks []domain.Bookmark

	BookmarkDraft BookmarkDraft
	FolderDraft   string

	// LoadError is set while the last fetch of either collection failed,
	// WriteError while the last insert or delete failed.
	LoadError  bool
	WriteError bool
}

// Guest is the view of a browser that has no controller yet: signed out,
// on the sign-in form, with nothing pending.
func Guest() View {
	return View{State: Unauthenticated, AuthMode: AuthModeLogin}
}

// Selects reports whether folder id is the active selection.
func (v View) Selects(id string) bool {
	return v.Selected != nil && *v.Selected == id
}

// Render returns the current view and consumes the pending notice.
func (c *Controller) Render() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Notice:   c.notice,
		AuthMode: c.authMode,
		Email:    c.email,
	}
	c.notice = ""

	if c.user == nil {
		v.State = Unauthenticated
		return v
	}

	user := *c.user
	v.State = Dashboard
	v.User = &user

	selected := c.selected
	if selected != nil && !domain.HasFolder(c.folders, *selected) {
		selected = nil
	}
	if selected != nil {
		id := *selected
		v.Selected = &id
	}

	v.Total = len(c.bookmarks)
	v.Folders = domain.CountByFolder(c.folders, c.bookmarks)
	v.Search = c.search
	v.Bookmarks = domain.Visible(c.bookmarks, selected, c.search)
	v.BookmarkDraft = c.bookmarkDraft
	v.FolderDraft = c.folderDraft

	v.LoadError = c.errorsFor(OpFetchBookmarks, OpFetchFolders)
	v.WriteError = c.errorsFor(OpInsertBookmark, OpDeleteBookmark, OpInsertFolder, OpDeleteFolder)
	return v
}
