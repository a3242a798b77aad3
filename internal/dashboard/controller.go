package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/nest/internal/backend"
	"github.com/MrSnakeDoc/nest/internal/domain"
	"github.com/MrSnakeDoc/nest/internal/logger"
)

// Notices shown to the user.
const (
	NoticeMissingCredentials = "Enter email and password"
	NoticeInvalidURL         = "Enter a valid URL"
)

// Auth modes of the sign-in form.
const (
	AuthModeLogin  = "login"
	AuthModeSignup = "signup"
)

// Options tunes a Controller. Zero values are fine.
type Options struct {
	Log      logger.Logger
	Recorder Recorder
	Now      func() time.Time
}

// BookmarkDraft holds the add-bookmark form between requests.
type BookmarkDraft struct {
	Title string
	URL   string
}

// Controller is the dashboard of one browser client.
//
// State is guarded by mu, which is never held across a backend call:
// session listeners re-enter the controller from inside auth calls.
type Controller struct {
	auth    backend.Auth
	loader  *Loader
	mutator *Mutator
	log     logger.Logger
	rec     Recorder
	now     func() time.Time

	mu        sync.Mutex
	user      *domain.User
	epoch     uint64 // bumped on every user change, stale fetches are dropped
	bookmarks []domain.Bookmark
	folders   []domain.Folder
	selected  *string
	search    string

	bookmarkDraft BookmarkDraft
	folderDraft   string
	authMode      string
	email         string
	notice        string
	failures      map[string]error // op -> last error, cleared on success

	lastSeen    time.Time
	unsubscribe func()
}

// New builds a controller over an auth client and the data it can see.
// data is expected to be owner-scoped by the backend.
func New(auth backend.Auth, data backend.Data, opts Options) *Controller {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Controller{
		auth:     auth,
		loader:   NewLoader(data),
		mutator:  NewMutator(data),
		log:      opts.Log,
		rec:      opts.Recorder,
		now:      opts.Now,
		authMode: AuthModeLogin,
		failures: make(map[string]error),
		lastSeen: opts.Now(),
	}
}

// Start subscribes to session changes, then applies the current session.
// A session fetch failure is logged and treated as signed out.
func (c *Controller) Start(ctx context.Context) {
	unsubscribe := c.auth.OnSessionChange(c.onSessionChange)
	c.mu.Lock()
	c.unsubscribe = unsubscribe
	c.mu.Unlock()

	session, err := c.auth.GetSession(ctx)
	if err != nil {
		c.fail(OpGetSession, err)
		return
	}
	c.applySession(ctx, session)
}

// Close stops listening to session changes.
func (c *Controller) Close() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (c *Controller) onSessionChange(ctx context.Context, event backend.Event, session *domain.Session) {
	c.log.Debug("session changed", logger.String("event", string(event)))
	c.applySession(ctx, session)
}

// applySession replaces the cached user. Signing in (or switching user)
// loads both collections; signing out clears lists, selection and search.
func (c *Controller) applySession(ctx context.Context, session *domain.Session) {
	var next *domain.User
	if session != nil && session.User.ID != "" {
		u := session.User
		next = &u
	}

	c.mu.Lock()
	prev := c.user
	c.user = next
	changed := (prev == nil) != (next == nil) || (prev != nil && next != nil && prev.ID != next.ID)
	if changed {
		c.epoch++
		c.bookmarks, c.folders = nil, nil
		c.selected, c.search = nil, ""
		c.bookmarkDraft, c.folderDraft = BookmarkDraft{}, ""
		c.failures = make(map[string]error)
	}
	c.mu.Unlock()

	if changed && next != nil {
		c.Load(ctx)
	}
}

// User returns the cached user, nil when signed out.
func (c *Controller) User() *domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// snapshot returns the user and epoch a backend call runs for.
func (c *Controller) snapshot() (*domain.User, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user, c.epoch
}

// Load fetches both collections. It does nothing when signed out.
func (c *Controller) Load(ctx context.Context) {
	c.ReloadBookmarks(ctx)
	c.ReloadFolders(ctx)
}

// ReloadBookmarks replaces the bookmark list with a fresh fetch.
// On failure the list becomes empty and the error is recorded, unless the
// user changed while the fetch was in flight.
func (c *Controller) ReloadBookmarks(ctx context.Context) {
	user, epoch := c.snapshot()
	if user == nil {
		return
	}

	rows, err := c.loader.FetchBookmarks(ctx, user.ID)
	if err != nil {
		c.report(OpFetchBookmarks, err)
		rows = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return
	}
	c.bookmarks = rows
	c.record(OpFetchBookmarks, err)
}

// ReloadFolders replaces the folder list with a fresh fetch.
func (c *Controller) ReloadFolders(ctx context.Context) {
	user, epoch := c.snapshot()
	if user == nil {
		return
	}

	rows, err := c.loader.FetchFolders(ctx, user.ID)
	if err != nil {
		c.report(OpFetchFolders, err)
		rows = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return
	}
	c.folders = rows
	c.record(OpFetchFolders, err)
	if c.selected != nil && !domain.HasFolder(c.folders, *c.selected) {
		c.selected = nil
	}
}

// fail is the error channel: log, count, and remember for the view.
func (c *Controller) fail(op string, err error) {
	c.report(op, err)

	c.mu.Lock()
	c.record(op, err)
	c.mu.Unlock()
}

// report logs and counts a failed backend call.
func (c *Controller) report(op string, err error) {
	c.log.Warn("backend call failed", logger.String("op", op), logger.Error(err))
	c.rec.BackendError(op)
}

// record sets or clears the failure of op. Callers hold mu.
func (c *Controller) record(op string, err error) {
	if err != nil {
		c.failures[op] = err
		return
	}
	delete(c.failures, op)
}

func (c *Controller) succeeded(ops ...string) {
	c.mu.Lock()
	for _, op := range ops {
		delete(c.failures, op)
	}
	c.mu.Unlock()
}

// ─────────────────────────────
// View state
// ─────────────────────────────

// SelectFolder sets the active folder. Empty means all; an id that names
// no loaded folder falls back to all.
func (c *Controller) SelectFolder(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id == "" || !domain.HasFolder(c.folders, id) {
		c.selected = nil
		return
	}
	c.selected = &id
}

// SetSearch sets the title search text.
func (c *Controller) SetSearch(s string) {
	c.mu.Lock()
	c.search = s
	c.mu.Unlock()
}

func (c *Controller) SetBookmarkDraft(title, url string) {
	c.mu.Lock()
	c.bookmarkDraft = BookmarkDraft{Title: title, URL: url}
	c.mu.Unlock()
}

func (c *Controller) SetFolderDraft(name string) {
	c.mu.Lock()
	c.folderDraft = name
	c.mu.Unlock()
}

// SetAuthMode switches the sign-in form between login and signup.
func (c *Controller) SetAuthMode(mode string) {
	if mode != AuthModeSignup {
		mode = AuthModeLogin
	}
	c.mu.Lock()
	c.authMode = mode
	c.mu.Unlock()
}

func (c *Controller) setNotice(msg string) {
	c.mu.Lock()
	c.notice = msg
	c.mu.Unlock()
}

// Touch marks the controller as used now.
func (c *Controller) Touch() {
	c.mu.Lock()
	c.lastSeen = c.now()
	c.mu.Unlock()
}

// IdleSince returns when the controller was last used.
func (c *Controller) IdleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}

// ─────────────────────────────
// Mutations
// ─────────────────────────────

// AddBookmark inserts the draft into the selected folder, then reloads
// bookmarks. Skipped without a session or URL. An invalid URL keeps the
// draft and sets a notice; otherwise the draft is cleared whatever the
// insert outcome.
func (c *Controller) AddBookmark(ctx context.Context) {
	c.mu.Lock()
	user, draft := c.user, c.bookmarkDraft
	folder := c.selected
	c.mu.Unlock()

	url := strings.TrimSpace(draft.URL)
	if user == nil || url == "" {
		c.rec.Intent(IntentAddBookmark, ResultSkipped)
		return
	}

	title, err := domain.ResolveTitle(draft.Title, url)
	if err != nil {
		c.setNotice(NoticeInvalidURL)
		c.rec.Intent(IntentAddBookmark, ResultError)
		return
	}

	var folderID *string
	if folder != nil {
		id := *folder
		folderID = &id
	}

	err = c.mutator.InsertBookmark(ctx, domain.Bookmark{
		OwnerID:  user.ID,
		Title:    title,
		URL:      url,
		FolderID: folderID,
	})
	c.SetBookmarkDraft("", "")
	c.recordWrite(IntentAddBookmark, OpInsertBookmark, err)

	c.ReloadBookmarks(ctx)
}

// DeleteBookmark removes one bookmark, then reloads bookmarks.
func (c *Controller) DeleteBookmark(ctx context.Context, id string) {
	if user, _ := c.snapshot(); user == nil || id == "" {
		c.rec.Intent(IntentDeleteBookmark, ResultSkipped)
		return
	}

	err := c.mutator.DeleteBookmark(ctx, id)
	c.recordWrite(IntentDeleteBookmark, OpDeleteBookmark, err)

	c.ReloadBookmarks(ctx)
}

// AddFolder inserts the folder draft, then reloads folders. Skipped
// without a session or name; the draft is cleared after the attempt.
func (c *Controller) AddFolder(ctx context.Context) {
	c.mu.Lock()
	user, name := c.user, strings.TrimSpace(c.folderDraft)
	c.mu.Unlock()

	if user == nil || name == "" {
		c.rec.Intent(IntentAddFolder, ResultSkipped)
		return
	}

	err := c.mutator.InsertFolder(ctx, domain.Folder{OwnerID: user.ID, Name: name})
	c.SetFolderDraft("")
	c.recordWrite(IntentAddFolder, OpInsertFolder, err)

	c.ReloadFolders(ctx)
}

// DeleteFolder removes a folder, resets the selection to all, then
// reloads folders and bookmarks. Bookmarks in the folder are kept.
func (c *Controller) DeleteFolder(ctx context.Context, id string) {
	c.mu.Lock()
	c.selected = nil
	user := c.user
	c.mu.Unlock()

	if user == nil || id == "" {
		c.rec.Intent(IntentDeleteFolder, ResultSkipped)
		return
	}

	err := c.mutator.DeleteFolder(ctx, id)
	c.recordWrite(IntentDeleteFolder, OpDeleteFolder, err)

	c.ReloadFolders(ctx)
	c.ReloadBookmarks(ctx)
}

func (c *Controller) recordWrite(intent, op string, err error) {
	if err != nil {
		c.fail(op, err)
		c.rec.Intent(intent, ResultError)
		return
	}
	c.succeeded(op)
	c.rec.Intent(intent, ResultOK)
}

// errorsFor returns whether any of ops last failed.
func (c *Controller) errorsFor(ops ...string) bool {
	for _, op := range ops {
		if c.failures[op] != nil {
			return true
		}
	}
	return false
}

// Err returns the last recorded backend errors joined, nil if none.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	errs := make([]error, 0, len(c.failures))
	for _, err := range c.failures {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
