package domain

import "time"

// Bookmark is a saved URL owned by a single user.
// Rows live only in the backend store; the dashboard keeps a
// per-render copy and reloads it after every mutation.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is assigned by the store on insert.
	ID string `json:"id" db:"id"`

	// OwnerID is the id of the user the row belongs to.
	// The backend owner policy guarantees it equals the session user.
	OwnerID string `json:"user_id" db:"user_id"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	// Title defaults to the URL host without a leading "www."
	// when the user leaves it empty.
	Title string `json:"title" db:"title"`

	// URL is the address as typed by the user.
	URL string `json:"url" db:"url"`

	// FolderID is nil for unfiled bookmarks. It may reference a
	// folder that no longer exists: folder deletion does not cascade.
	FolderID *string `json:"folder_id" db:"folder_id"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt drives the newest-first ordering of the dashboard.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// InFolder reports whether the bookmark is filed under folderID.
func (b Bookmark) InFolder(folderID string) bool {
	return b.FolderID != nil && *b.FolderID == folderID
}

// Folder groups bookmarks of one user.
type Folder struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
