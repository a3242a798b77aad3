package redis

const (
	// KeyPrefixBookmark is the prefix for bookmark rows
	KeyPrefixBookmark = "nest:bookmark:"
	// KeyPrefixFolder is the prefix for folder rows
	KeyPrefixFolder = "nest:folder:"
	// KeyAllBookmarks indexes every bookmark id by creation time
	KeyAllBookmarks = "nest:bookmarks:all"
	// KeyAllFolders indexes every folder id by creation time
	KeyAllFolders = "nest:folders:all"

	// KeyPrefixUser is the prefix for accounts and per-user indexes
	KeyPrefixUser = "nest:user:"
	// KeyPrefixUserEmail maps a normalised email to a user id
	KeyPrefixUserEmail = "nest:user:email:"

	// KeyPrefixRefresh is the prefix for refresh tokens
	KeyPrefixRefresh = "nest:refresh:"
	// KeyPrefixOAuthState is the prefix for pending OAuth states
	KeyPrefixOAuthState = "nest:oauth:state:"
	// KeyPrefixClient is the prefix for per-browser client state
	KeyPrefixClient = "nest:client:"
)

// BookmarkKey returns the Redis key for a bookmark
func BookmarkKey(id string) string {
	return KeyPrefixBookmark + id
}

// FolderKey returns the Redis key for a folder
func FolderKey(id string) string {
	return KeyPrefixFolder + id
}

// UserBookmarksKey returns the sorted set of a user's bookmark ids
func UserBookmarksKey(uid string) string {
	return KeyPrefixUser + uid + ":bookmarks"
}

// UserFoldersKey returns the sorted set of a user's folder ids
func UserFoldersKey(uid string) string {
	return KeyPrefixUser + uid + ":folders"
}

// UserKey returns the Redis key for an account
func UserKey(id string) string {
	return KeyPrefixUser + id
}

// UserEmailKey returns the email index entry for an account
func UserEmailKey(email string) string {
	return KeyPrefixUserEmail + email
}

// RefreshKey returns the Redis key for a refresh token
func RefreshKey(token string) string {
	return KeyPrefixRefresh + token
}

// OAuthStateKey returns the Redis key for an OAuth state
func OAuthStateKey(state string) string {
	return KeyPrefixOAuthState + state
}

// ClientSessionKey returns where a browser client's session is persisted
func ClientSessionKey(clientID string) string {
	return KeyPrefixClient + clientID + ":session"
}
