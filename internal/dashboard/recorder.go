package dashboard

// Intent names, as reported to the Recorder.
const (
	IntentSignIn         = "sign_in"
	IntentSignUp         = "sign_up"
	IntentOAuth          = "oauth"
	IntentSignOut        = "sign_out"
	IntentExchange       = "exchange"
	IntentAddBookmark    = "add_bookmark"
	IntentDeleteBookmark = "delete_bookmark"
	IntentAddFolder      = "add_folder"
	IntentDeleteFolder   = "delete_folder"
)

// Intent results.
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultSkipped = "skipped"
)

// Backend operations reported on the error channel.
const (
	OpGetSession     = "get_session"
	OpFetchBookmarks = "fetch_bookmarks"
	OpFetchFolders   = "fetch_folders"
	OpInsertBookmark = "insert_bookmark"
	OpDeleteBookmark = "delete_bookmark"
	OpInsertFolder   = "insert_folder"
	OpDeleteFolder   = "delete_folder"
	OpRefreshSession = "refresh_session"
)

// Recorder receives what controllers do. The metrics package implements it.
type Recorder interface {
	Intent(intent, result string)
	BackendError(op string)
	Dashboards(active int)
}

type nopRecorder struct{}

func (nopRecorder) Intent(string, string) {}
func (nopRecorder) BackendError(string)   {}
func (nopRecorder) Dashboards(int)        {}
