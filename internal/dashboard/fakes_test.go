package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MrSnakeDoc/nest/internal/backend"
	"github.com/MrSnakeDoc/nest/internal/domain"
	"github.com/MrSnakeDoc/nest/internal/store/memory"
)

// fakeAuth is an in-memory backend.Auth. Sign-ins succeed unless an error
// is configured and notify listeners synchronously, like the real client.
type fakeAuth struct {
	mu        sync.Mutex
	session   *domain.Session
	listeners map[int]backend.SessionListener
	next      int
	calls     []string

	getErr      error
	signInErr   error
	exchangeErr error
	refreshed   bool
}

func newFakeAuth(session *domain.Session) *fakeAuth {
	return &fakeAuth{session: session, listeners: make(map[int]backend.SessionListener)}
}

func sessionFor(uid string) *domain.Session {
	return &domain.Session{
		AccessToken: "at-" + uid,
		ExpiresAt:   time.Now().Add(time.Hour),
		User:        domain.User{ID: uid, Email: uid + "@example.com"},
	}
}

func (a *fakeAuth) record(call string) {
	a.mu.Lock()
	a.calls = append(a.calls, call)
	a.mu.Unlock()
}

func (a *fakeAuth) Calls() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.calls...)
}

func (a *fakeAuth) Current() *domain.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

func (a *fakeAuth) GetSession(context.Context) (*domain.Session, error) {
	a.record("get_session")
	if a.getErr != nil {
		return nil, a.getErr
	}
	return a.Current(), nil
}

func (a *fakeAuth) OnSessionChange(l backend.SessionListener) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.next
	a.next++
	a.listeners[id] = l
	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

func (a *fakeAuth) listenerCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.listeners)
}

// emit sets the session and notifies listeners without holding the lock.
func (a *fakeAuth) emit(ctx context.Context, event backend.Event, s *domain.Session) {
	a.mu.Lock()
	a.session = s
	ls := make([]backend.SessionListener, 0, len(a.listeners))
	for _, l := range a.listeners {
		ls = append(ls, l)
	}
	a.mu.Unlock()
	for _, l := range ls {
		l(ctx, event, s)
	}
}

func (a *fakeAuth) SignInWithPassword(ctx context.Context, email, _ string) error {
	a.record("sign_in")
	if a.signInErr != nil {
		return a.signInErr
	}
	a.emit(ctx, backend.EventSignedIn, sessionFor(email))
	return nil
}

func (a *fakeAuth) SignUp(ctx context.Context, email, password string) error {
	a.record("sign_up")
	if a.signInErr != nil {
		return a.signInErr
	}
	a.emit(ctx, backend.EventSignedIn, sessionFor(email))
	return nil
}

func (a *fakeAuth) SignInWithOAuth(_ context.Context, provider, redirectTo string) (string, error) {
	a.record("oauth")
	if a.signInErr != nil {
		return "", a.signInErr
	}
	return "https://provider.test/auth?provider=" + provider + "&redirect=" + redirectTo, nil
}

func (a *fakeAuth) SignOut(ctx context.Context) error {
	a.record("sign_out")
	a.emit(ctx, backend.EventSignedOut, nil)
	return nil
}

func (a *fakeAuth) ExchangeCodeForSession(ctx context.Context, _ string) error {
	a.record("exchange")
	if a.exchangeErr != nil {
		return a.exchangeErr
	}
	a.emit(ctx, backend.EventSignedIn, sessionFor("oauth-user"))
	return nil
}

func (a *fakeAuth) RefreshIfExpiring(ctx context.Context, _ time.Duration) (bool, error) {
	a.record("refresh")
	s := a.Current()
	if s == nil {
		return false, nil
	}
	a.mu.Lock()
	a.refreshed = true
	a.mu.Unlock()
	a.emit(ctx, backend.EventTokenRefreshed, s)
	return true, nil
}

// countingData counts selects on top of another Data.
type countingData struct {
	backend.Data
	mu      sync.Mutex
	selects int
}

func (d *countingData) Bookmarks() backend.Collection[domain.Bookmark] {
	return countingCollection[domain.Bookmark]{inner: d.Data.Bookmarks(), d: d}
}

func (d *countingData) Folders() backend.Collection[domain.Folder] {
	return countingCollection[domain.Folder]{inner: d.Data.Folders(), d: d}
}

func (d *countingData) Selects() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selects
}

type countingCollection[T any] struct {
	inner backend.Collection[T]
	d     *countingData
}

func (c countingCollection[T]) Select(ctx context.Context, q backend.Query) ([]T, error) {
	c.d.mu.Lock()
	c.d.selects++
	c.d.mu.Unlock()
	return c.inner.Select(ctx, q)
}

func (c countingCollection[T]) Insert(ctx context.Context, rows ...T) error {
	return c.inner.Insert(ctx, rows...)
}

func (c countingCollection[T]) Delete(ctx context.Context, filters ...backend.Filter) error {
	return c.inner.Delete(ctx, filters...)
}

// failingData fails every call with err.
type failingData struct{ err error }

func (d failingData) Bookmarks() backend.Collection[domain.Bookmark] {
	return failingCollection[domain.Bookmark]{d.err}
}
func (d failingData) Folders() backend.Collection[domain.Folder] {
	return failingCollection[domain.Folder]{d.err}
}

type failingCollection[T any] struct{ err error }

func (c failingCollection[T]) Select(context.Context, backend.Query) ([]T, error) { return nil, c.err }
func (c failingCollection[T]) Insert(context.Context, ...T) error                { return c.err }
func (c failingCollection[T]) Delete(context.Context, ...backend.Filter) error   { return c.err }

var errBackend = errors.New("backend unavailable")

// fakeRecorder counts intents and backend errors.
type fakeRecorder struct {
	mu      sync.Mutex
	intents map[string]int
	errors  map[string]int
	active  int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{intents: make(map[string]int), errors: make(map[string]int)}
}

func (r *fakeRecorder) Intent(intent, result string) {
	r.mu.Lock()
	r.intents[intent+"/"+result]++
	r.mu.Unlock()
}

func (r *fakeRecorder) BackendError(op string) {
	r.mu.Lock()
	r.errors[op]++
	r.mu.Unlock()
}

func (r *fakeRecorder) Dashboards(n int) {
	r.mu.Lock()
	r.active = n
	r.mu.Unlock()
}

func (r *fakeRecorder) intent(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.intents[key]
}

func (r *fakeRecorder) backendErrors(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errors[op]
}

// harness wires a controller to a fake auth and an owner-scoped memory store.
type harness struct {
	auth  *fakeAuth
	store *memory.Store
	data  *countingData
	rec   *fakeRecorder
	ctrl  *Controller
}

func newHarness(session *domain.Session) *harness {
	h := &harness{
		auth:  newFakeAuth(session),
		store: memory.NewStore(),
		rec:   newFakeRecorder(),
	}
	h.data = &countingData{Data: backend.WithOwnerPolicy(h.store, h.auth)}
	h.ctrl = New(h.auth, h.data, Options{Recorder: h.rec})
	return h
}

func (h *harness) seedBookmarks(rows ...domain.Bookmark) {
	if err := h.store.Bookmarks().Insert(context.Background(), rows...); err != nil {
		panic(err)
	}
}

func (h *harness) seedFolders(rows ...domain.Folder) {
	if err := h.store.Folders().Insert(context.Background(), rows...); err != nil {
		panic(err)
	}
}

func (r *fakeRecorder) activeDashboards() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// gatedData holds the first bookmark select until release is closed, then
// fails it with err. Later selects pass through.
type gatedData struct {
	backend.Data
	err      error
	entered  chan struct{}
	release  chan struct{}
	mu       sync.Mutex
	consumed bool
}

func newGatedData(inner backend.Data, err error) *gatedData {
	return &gatedData{
		Data:    inner,
		err:     err,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (d *gatedData) Bookmarks() backend.Collection[domain.Bookmark] {
	return gatedCollection{inner: d.Data.Bookmarks(), d: d}
}

type gatedCollection struct {
	inner backend.Collection[domain.Bookmark]
	d     *gatedData
}

func (c gatedCollection) Select(ctx context.Context, q backend.Query) ([]domain.Bookmark, error) {
	c.d.mu.Lock()
	first := !c.d.consumed
	c.d.consumed = true
	c.d.mu.Unlock()

	if !first {
		return c.inner.Select(ctx, q)
	}
	close(c.d.entered)
	<-c.d.release
	return nil, c.d.err
}

func (c gatedCollection) Insert(ctx context.Context, rows ...domain.Bookmark) error {
	return c.inner.Insert(ctx, rows...)
}

func (c gatedCollection) Delete(ctx context.Context, filters ...backend.Filter) error {
	return c.inner.Delete(ctx, filters...)
}
