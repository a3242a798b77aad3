package dashboard

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/MrSnakeDoc/nest/internal/backend"
	"github.com/MrSnakeDoc/nest/internal/domain"
	"github.com/MrSnakeDoc/nest/internal/store/memory"
)

var base = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func titles(bs []domain.Bookmark) []string {
	out := make([]string, 0, len(bs))
	for _, b := range bs {
		out = append(out, b.Title)
	}
	return out
}

func TestStartWithoutSessionDoesNotFetch(t *testing.T) {
	h := newHarness(nil)
	h.ctrl.Start(context.Background())

	v := h.ctrl.Render()
	if v.State != Unauthenticated {
		t.Errorf("State = %v, want Unauthenticated", v.State)
	}
	if v.Bookmarks != nil || v.Folders != nil {
		t.Error("unauthenticated view should carry no data")
	}
	if n := h.data.Selects(); n != 0 {
		t.Errorf("Selects = %d, want no fetch without a session", n)
	}
	if h.auth.listenerCount() != 1 {
		t.Errorf("Start() should subscribe once, got %d listeners", h.auth.listenerCount())
	}
}

func TestStartSessionErrorIsTreatedAsSignedOut(t *testing.T) {
	h := newHarness(sessionFor("u1"))
	h.auth.getErr = errBackend
	h.ctrl.Start(context.Background())

	if h.ctrl.Render().State != Unauthenticated {
		t.Error("session fetch failure should leave the controller signed out")
	}
	if h.rec.backendErrors(OpGetSession) != 1 {
		t.Error("session fetch failure should be reported")
	}
	if h.data.Selects() != 0 {
		t.Error("no fetch expected")
	}
}

func TestStartWithSessionLoads(t *testing.T) {
	h := newHarness(sessionFor("u1"))
	h.seedBookmarks(
		domain.Bookmark{OwnerID: "u1", Title: "old", URL: "https://old.io", CreatedAt: base},
		domain.Bookmark{OwnerID: "u1", Title: "new", URL: "https://new.io", CreatedAt: base.Add(time.Hour)},
		domain.Bookmark{OwnerID: "u2", Title: "foreign", URL: "https://x.io", CreatedAt: base.Add(2 * time.Hour)},
	)
	h.seedFolders(domain.Folder{OwnerID: "u1", Name: "Work"})

	h.ctrl.Start(context.Background())
	v := h.ctrl.Render()

	if v.State != Dashboard || v.User == nil || v.User.ID != "u1" {
		t.Fatalf("view = %+v, want dashboard for u1", v)
	}
	if got := titles(v.Bookmarks); !reflect.DeepEqual(got, []string{"new", "old"}) {
		t.Errorf("bookmarks = %v, want newest first and owner-scoped", got)
	}
	if v.Total != 2 {
		t.Errorf("Total = %d, want 2", v.Total)
	}
	if len(v.Folders) != 1 || v.Folders[0].Folder.Name != "Work" {
		t.Errorf("folders = %+v", v.Folders)
	}
}

func TestSignInThroughListenerLoads(t *testing.T) {
	h := newHarness(nil)
	h.seedBookmarks(domain.Bookmark{OwnerID: "ada", Title: "a", URL: "https://a.io"})
	ctx := context.Background()
	h.ctrl.Start(ctx)

	h.ctrl.SignIn(ctx, "ada", "pw")

	v := h.ctrl.Render()
	if v.State != Dashboard {
		t.Fatalf("State = %v, want Dashboard after sign-in", v.State)
	}
	if len(v.Bookmarks) != 1 {
		t.Errorf("bookmarks = %v, want the user's rows loaded", titles(v.Bookmarks))
	}
	if h.rec.intent(IntentSignIn+"/"+ResultOK) != 1 {
		t.Error("sign-in intent should be recorded")
	}
}

func TestTokenRefreshDoesNotReload(t *testing.T) {
	h := newHarness(sessionFor("u1"))
	ctx := context.Background()
	h.ctrl.Start(ctx)
	before := h.data.Selects()

	h.auth.emit(ctx, backend.EventTokenRefreshed, sessionFor("u1"))

	if h.data.Selects() != before {
		t.Error("a refreshed token for the same user should not refetch")
	}
	if h.ctrl.User() == nil {
		t.Error("user should still be cached")
	}
}

func TestCredentialIntents(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		password   string
		signInErr  error
		wantNotice string
		wantCall   bool
	}{
		{"empty email", "", "pw", nil, NoticeMissingCredentials, false},
		{"empty password", "ada", "", nil, NoticeMissingCredentials, false},
		{"backend error", "ada", "pw", errors.New("invalid login credentials"), "invalid login credentials", true},
		{"success", "ada", "pw", nil, "", true},
	}

	for _, tt := range tests {
		for _, signUp := range []bool{false, true} {
			h := newHarness(nil)
			h.auth.signInErr = tt.signInErr
			ctx := context.Background()
			h.ctrl.Start(ctx)

			if signUp {
				h.ctrl.SignUp(ctx, tt.email, tt.password)
			} else {
				h.ctrl.SignIn(ctx, tt.email, tt.password)
			}

			v := h.ctrl.Render()
			if v.Notice != tt.wantNotice {
				t.Errorf("%s (signup=%v): notice = %q, want %q", tt.name, signUp, v.Notice, tt.wantNotice)
			}
			called := len(h.auth.Calls()) > 1 // first call is get_session
			if called != tt.wantCall {
				t.Errorf("%s (signup=%v): backend called = %v, want %v", tt.name, signUp, called, tt.wantCall)
			}
			if v.Email != tt.email {
				t.Errorf("%s: email = %q, want it kept for the form", tt.name, v.Email)
			}
			if again := h.ctrl.Render(); again.Notice != "" {
				t.Errorf("%s: notice should be shown once", tt.name)
			}
		}
	}
}

func TestSignInWithOAuth(t *testing.T) {
	h := newHarness(nil)
	ctx := context.Background()
	h.ctrl.Start(ctx)

	target := h.ctrl.SignInWithOAuth(ctx, "http://nest.test")
	if target == "" {
		t.Fatal("SignInWithOAuth() should return the provider url")
	}

	h.auth.signInErr = errors.New("provider is not enabled")
	if target := h.ctrl.SignInWithOAuth(ctx, "http://nest.test"); target != "" {
		t.Errorf("SignInWithOAuth() = %q on failure, want empty", target)
	}
	if v := h.ctrl.Render(); v.Notice != "provider is not enabled" {
		t.Errorf("notice = %q", v.Notice)
	}
}

func TestSignOutClearsEverything(t *testing.T) {
	h := newHarness(sessionFor("u1"))
	f := "f1"
	h.seedFolders(domain.Folder{ID: f, OwnerID: "u1", Name: "Work"})
	h.seedBookmarks(domain.Bookmark{OwnerID: "u1", Title: "a", URL: "https://a.io", FolderID: &f})
	ctx := context.Background()
	h.ctrl.Start(ctx)

	h.ctrl.SelectFolder(f)
	h.ctrl.SetSearch("a")
	h.ctrl.SignOut(ctx)

	v := h.ctrl.Render()
	if v.State != Unauthenticated {
		t.Fatalf("State = %v, want Unauthenticated", v.State)
	}

	h.ctrl.mu.Lock()
	defer h.ctrl.mu.Unlock()
	if h.ctrl.bookmarks != nil || h.ctrl.folders != nil || h.ctrl.selected != nil || h.ctrl.search != "" {
		t.Errorf("sign-out left state behind: bookmarks=%v folders=%v selected=%v search=%q",
			h.ctrl.bookmarks, h.ctrl.folders, h.ctrl.selected, h.ctrl.search)
	}
}

func TestAddBookmarkDefaultsTitle(t *testing.T) {
	tests := []struct {
		title string
		url   string
		want  string
	}{
		{"", "https://www.example.com/x", "example.com"},
		{"", "http://docs.go.dev/ref", "docs.go.dev"},
		{"   ", "https://www.github.com", "github.com"},
		{"Mine", "https://www.example.com", "Mine"},
	}

	for _, tt := range tests {
		h := newHarness(sessionFor("u1"))
		ctx := context.Background()
		h.ctrl.Start(ctx)

		h.ctrl.SetBookmarkDraft(tt.title, tt.url)
		h.ctrl.AddBookmark(ctx)

		v := h.ctrl.Render()
		if len(v.Bookmarks) != 1 {
			t.Fatalf("%s: bookmarks = %v, want 1 after reload", tt.url, titles(v.Bookmarks))
		}
		if v.Bookmarks[0].Title != tt.want {
			t.Errorf("%s: title = %q, want %q", tt.url, v.Bookmarks[0].Title, tt.want)
		}
		if v.Bookmarks[0].OwnerID != "u1" {
			t.Errorf("owner = %q, want u1", v.Bookmarks[0].OwnerID)
		}
		if v.BookmarkDraft != (BookmarkDraft{}) {
			t.Errorf("draft = %+v, want cleared", v.BookmarkDraft)
		}
	}
}

func TestAddBookmarkUsesSelectedFolder(t *testing.T) {
	h := newHarness(sessionFor("u1"))
	h.seedFolders(domain.Folder{ID: "f1", OwnerID: "u1", Name: "Work"})
	ctx := context.Background()
	h.ctrl.Start(ctx)

	h.ctrl.SelectFolder("f1")
	h.ctrl.SetBookmarkDraft("", "https://a.io")
	h.ctrl.AddBookmark(ctx)

	v := h.ctrl.Render()
	if len(v.Bookmarks) != 1 || !v.Bookmarks[0].InFolder("f1") {
		t.Fatalf("bookmark should be filed in the selected folder, got %+v", v.Bookmarks)
	}

	h.ctrl.SelectFolder("")
	h.ctrl.SetBookmarkDraft("", "https://b.io")
	h.ctrl.AddBookmark(ctx)

	v = h.ctrl.Render()
	for _, b := range v.Bookmarks {
		if b.URL == "https://b.io" && b.FolderID != nil {
			t.Errorf("bookmark added under all should be unfiled, got folder %q", *b.FolderID)
		}
	}
}

func TestAddBookmarkSkipped(t *testing.T) {
	h := newHarness(nil)
	ctx := context.Background()
	h.ctrl.Start(ctx)

	h.ctrl.SetBookmarkDraft("t", "https://a.io")
	h.ctrl.AddBookmark(ctx)
	if b, _ := h.store.Count(); b != 0 {
		t.Error("AddBookmark() without a session must not insert")
	}

	h = newHarness(sessionFor("u1"))
	h.ctrl.Start(ctx)
	h.ctrl.SetBookmarkDraft("title only", "  ")
	h.ctrl.AddBookmark(ctx)
	if b, _ := h.store.Count(); b != 0 {
		t.Error("AddBookmark() without a url must not insert")
	}
	if h.rec.intent(IntentAddBookmark+"/"+ResultSkipped) != 1 {
		t.Error("skipped intent should be recorded")
	}
}

func TestAddBookmarkInvalidURLKeepsDraft(t *testing.T) {
	h := newHarness(sessionFor("u1"))
	ctx := context.Background()
	h.ctrl.Start(ctx)

	h.ctrl.SetBookmarkDraft("", "not a url")
	h.ctrl.AddBookmark(ctx)

	v := h.ctrl.Render()
	if v.Notice != NoticeInvalidURL {
		t.Errorf("notice = %q, want %q", v.Notice, NoticeInvalidURL)
	}
	if v.BookmarkDraft.URL != "not a url" {
		t.Errorf("draft = %+v, want it kept", v.BookmarkDraft)
	}
	if b, _ := h.store.Count(); b != 0 {
		t.Error("invalid url must not be inserted")
	}
}

func TestInsertFailureClearsDraftAndFlags(t *testing.T) {
	auth := newFakeAuth(sessionFor("u1"))
	rec := newFakeRecorder()
	c := New(auth, failingData{err: errBackend}, Options{Recorder: rec})
	ctx := context.Background()
	c.Start(ctx)

	v := c.Render()
	if !v.LoadError {
		t.Error("failed initial fetch should set LoadError")
	}
	if len(v.Bookmarks) != 0 {
		t.Error("failed fetch should leave an empty list")
	}

	c.SetBookmarkDraft("t", "https://a.io")
	c.AddBookmark(ctx)
	v = c.Render()
	if v.BookmarkDraft != (BookmarkDraft{}) {
		t.Errorf("draft = %+v, want cleared even when the insert fails", v.BookmarkDraft)
	}
	if !v.WriteError {
		t.Error("failed insert should set WriteError")
	}
	if rec.backendErrors(OpInsertBookmark) != 1 || rec.intent(IntentAddBookmark+"/"+ResultError) != 1 {
		t.Error("failed insert should be reported")
	}
	if !errors.Is(c.Err(), errBackend) {
		t.Errorf("Err() = %v, want the backend error", c.Err())
	}
}

func TestFetchErrorClearsAfterSuccess(t *testing.T) {
	h := newHarness(sessionFor("u1"))
	ctx := context.Background()
	h.ctrl.Start(ctx)

	h.ctrl.fail(OpFetchBookmarks, errBackend)
	if !h.ctrl.Render().LoadError {
		t.Fatal("LoadError should be set")
	}
	h.ctrl.ReloadBookmarks(ctx)
	if h.ctrl.Render().LoadError {
		t.Error("a successful reload should clear LoadError")
	}
}

func TestStaleFetchFailureIsNotShownToNextUser(t *testing.T) {
	auth := newFakeAuth(sessionFor("alice"))
	store := memory.NewStore()
	err := store.Bookmarks().Insert(context.Background(), domain.Bookmark{
		ID: "b1", OwnerID: "bob", Title: "Bob's", URL: "https://bob.example", CreatedAt: base,
	})
	if err != nil {
		t.Fatal(err)
	}
	stale := errors.New("alice fetch timed out")
	data := newGatedData(backend.WithOwnerPolicy(store, auth), stale)
	rec := newFakeRecorder()
	c := New(auth, data, Options{Recorder: rec})
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		c.Start(ctx)
		close(done)
	}()
	<-data.entered

	auth.emit(ctx, backend.EventSignedOut, nil)
	auth.emit(ctx, backend.EventSignedIn, sessionFor("bob"))
	close(data.release)
	<-done

	v := c.Render()
	if v.User == nil || v.User.ID != "bob" {
		t.Fatalf("User = %+v, want bob", v.User)
	}
	if v.LoadError {
		t.Error("bob's view should not carry alice's fetch failure")
	}
	if err := c.Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
	if got := titles(v.Bookmarks); !reflect.DeepEqual(got, []string{"Bob's"}) {
		t.Errorf("bookmarks = %v, want bob's list", got)
	}
	if rec.backendErrors(OpFetchBookmarks) != 1 {
		t.Errorf("backend errors = %d, want the dropped failure still counted", rec.backendErrors(OpFetchBookmarks))
	}
}

func TestAddFolder(t *testing.T) {
	h := newHarness(sessionFor("u1"))
	ctx := context.Background()
	h.ctrl.Start(ctx)

	h.ctrl.SetFolderDraft("")
	h.ctrl.AddFolder(ctx)
	if _, f := h.store.Count(); f != 0 {
		t.Fatal("empty folder name must not insert")
	}

	h.ctrl.SetFolderDraft("Reading")
	h.ctrl.AddFolder(ctx)

	v := h.ctrl.Render()
	if len(v.Folders) != 1 || v.Folders[0].Folder.Name != "Reading" || v.Folders[0].Count != 0 {
		t.Errorf("folders = %+v", v.Folders)
	}
	if v.FolderDraft != "" {
		t.Errorf("folder draft = %q, want cleared", v.FolderDraft)
	}
}

func TestDeleteBookmark(t *testing.T) {
	h := newHarness(sessionFor("u1"))
	h.seedBookmarks(
		domain.Bookmark{ID: "b1", OwnerID: "u1", Title: "a", URL: "https://a.io"},
		domain.Bookmark{ID: "b2", OwnerID: "u2", Title: "b", URL: "https://b.io"},
	)
	ctx := context.Background()
	h.ctrl.Start(ctx)

	h.ctrl.DeleteBookmark(ctx, "b2") // foreign row, owner policy makes it a no-op
	h.ctrl.DeleteBookmark(ctx, "b1")

	if v := h.ctrl.Render(); len(v.Bookmarks) != 0 {
		t.Errorf("bookmarks = %v, want none", titles(v.Bookmarks))
	}
	if b, _ := h.store.Count(); b != 1 {
		t.Errorf("store has %d bookmarks, want the foreign one kept", b)
	}
}

func TestDeleteFolderResetsSelectionAndKeepsBookmarks(t *testing.T) {
	h := newHarness(sessionFor("u1"))
	f1, f2 := "f1", "f2"
	h.seedFolders(
		domain.Folder{ID: f1, OwnerID: "u1", Name: "F1", CreatedAt: base},
		domain.Folder{ID: f2, OwnerID: "u1", Name: "F2", CreatedAt: base.Add(time.Minute)},
	)
	h.seedBookmarks(domain.Bookmark{ID: "b1", OwnerID: "u1", Title: "a", URL: "https://a.io", FolderID: &f1})
	ctx := context.Background()
	h.ctrl.Start(ctx)

	// Deleting any folder resets the selection, not only the selected one.
	h.ctrl.SelectFolder(f2)
	h.ctrl.DeleteFolder(ctx, f1)

	v := h.ctrl.Render()
	if v.Selected != nil {
		t.Errorf("Selected = %v, want all", *v.Selected)
	}
	if len(v.Folders) != 1 || v.Folders[0].Folder.ID != f2 {
		t.Errorf("folders = %+v, want only F2", v.Folders)
	}
	if len(v.Bookmarks) != 1 || !v.Bookmarks[0].InFolder(f1) {
		t.Errorf("bookmark should survive with its dangling folder id, got %+v", v.Bookmarks)
	}

	// The dangling id never matches a selection.
	h.ctrl.SelectFolder(f1)
	if v := h.ctrl.Render(); v.Selected != nil {
		t.Error("selecting a deleted folder should fall back to all")
	}
}

func TestFolderCountsAndSelection(t *testing.T) {
	h := newHarness(sessionFor("u1"))
	f1, f2 := "f1", "f2"
	h.seedFolders(
		domain.Folder{ID: f1, OwnerID: "u1", Name: "F1", CreatedAt: base},
		domain.Folder{ID: f2, OwnerID: "u1", Name: "F2", CreatedAt: base.Add(time.Minute)},
	)
	h.seedBookmarks(
		domain.Bookmark{OwnerID: "u1", Title: "one", URL: "https://1.io", FolderID: &f1, CreatedAt: base},
		domain.Bookmark{OwnerID: "u1", Title: "two", URL: "https://2.io", FolderID: &f1, CreatedAt: base.Add(time.Second)},
		domain.Bookmark{OwnerID: "u1", Title: "loose", URL: "https://3.io", CreatedAt: base.Add(2 * time.Second)},
	)
	ctx := context.Background()
	h.ctrl.Start(ctx)

	h.ctrl.SelectFolder(f1)
	v := h.ctrl.Render()

	if got := titles(v.Bookmarks); !reflect.DeepEqual(got, []string{"two", "one"}) {
		t.Errorf("visible = %v, want F1's two bookmarks", got)
	}
	if !v.Selects(f1) || v.Selects(f2) {
		t.Error("Selects() should report F1 only")
	}
	want := map[string]int{"F1": 2, "F2": 0}
	for _, fc := range v.Folders {
		if fc.Count != want[fc.Folder.Name] {
			t.Errorf("%s (%d), want (%d)", fc.Folder.Name, fc.Count, want[fc.Folder.Name])
		}
	}
	if v.Total != 3 {
		t.Errorf("Total = %d, want 3", v.Total)
	}
}

func TestSearchWithoutMatches(t *testing.T) {
	h := newHarness(sessionFor("u1"))
	h.seedBookmarks(
		domain.Bookmark{OwnerID: "u1", Title: "Go Docs", URL: "https://go.dev"},
		domain.Bookmark{OwnerID: "u1", Title: "Rust", URL: "https://rust-lang.org"},
	)
	ctx := context.Background()
	h.ctrl.Start(ctx)

	h.ctrl.SetSearch("GO")
	if got := titles(h.ctrl.Render().Bookmarks); !reflect.DeepEqual(got, []string{"Go Docs"}) {
		t.Errorf("search GO = %v, want case-insensitive match", got)
	}

	h.ctrl.SetSearch("zzz")
	v := h.ctrl.Render()
	if len(v.Bookmarks) != 0 {
		t.Errorf("visible = %v, want none", titles(v.Bookmarks))
	}
	if v.Total != 2 {
		t.Errorf("Total = %d, underlying list should be untouched", v.Total)
	}
}

func TestFetchBookmarksIsRepeatable(t *testing.T) {
	h := newHarness(sessionFor("u1"))
	for i := 0; i < 5; i++ {
		// Same timestamp for all: ordering must still be stable.
		h.seedBookmarks(domain.Bookmark{OwnerID: "u1", Title: string(rune('a' + i)), URL: "https://x.io", CreatedAt: base})
	}
	loader := NewLoader(h.data)
	ctx := context.Background()

	first, err := loader.FetchBookmarks(ctx, "u1")
	if err != nil {
		t.Fatalf("FetchBookmarks() error = %v", err)
	}
	second, err := loader.FetchBookmarks(ctx, "u1")
	if err != nil {
		t.Fatalf("FetchBookmarks() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("two fetches differ:\n%v\n%v", titles(first), titles(second))
	}
}

func TestMutateAndReloadAreSeparateSteps(t *testing.T) {
	h := newHarness(sessionFor("u1"))
	ctx := context.Background()
	h.ctrl.Start(ctx)

	m := NewMutator(h.data)
	if err := m.InsertBookmark(ctx, domain.Bookmark{Title: "t", URL: "https://a.io"}); err != nil {
		t.Fatalf("InsertBookmark() error = %v", err)
	}
	if n := len(h.ctrl.Render().Bookmarks); n != 0 {
		t.Fatalf("view changed before reload: %d bookmarks", n)
	}

	h.ctrl.ReloadBookmarks(ctx)
	if n := len(h.ctrl.Render().Bookmarks); n != 1 {
		t.Errorf("view after reload has %d bookmarks, want 1", n)
	}
}

func TestHandleRedirect(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		exchangeErr error
		wantClear   bool
		wantCall    bool
		wantNotice  string
	}{
		{"no fragment", "http://nest.test/", nil, false, false, ""},
		{"unrelated fragment", "http://nest.test/#top", nil, false, false, ""},
		{"session", "http://nest.test/#access_token=a&refresh_token=r", nil, true, true, ""},
		{"exchange fails", "http://nest.test/#access_token=a", errBackend, false, true, ""},
		{"provider error", "http://nest.test/#error=access_denied&error_description=denied", nil, true, false, "denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(nil)
			h.auth.exchangeErr = tt.exchangeErr
			ctx := context.Background()
			h.ctrl.Start(ctx)

			if got := h.ctrl.HandleRedirect(ctx, tt.url); got != tt.wantClear {
				t.Errorf("HandleRedirect() = %v, want %v", got, tt.wantClear)
			}
			called := false
			for _, c := range h.auth.Calls() {
				if c == "exchange" {
					called = true
				}
			}
			if called != tt.wantCall {
				t.Errorf("exchange called = %v, want %v", called, tt.wantCall)
			}
			v := h.ctrl.Render()
			if v.Notice != tt.wantNotice {
				t.Errorf("notice = %q, want %q", v.Notice, tt.wantNotice)
			}
			if tt.wantClear && tt.wantCall && v.State != Dashboard {
				t.Error("successful exchange should sign in")
			}
		})
	}
}

func TestRefreshSession(t *testing.T) {
	h := newHarness(sessionFor("u1"))
	ctx := context.Background()
	h.ctrl.Start(ctx)

	h.ctrl.RefreshSession(ctx, time.Minute)
	if !h.auth.refreshed {
		t.Error("RefreshSession() should reach the auth client")
	}
	if h.ctrl.Render().State != Dashboard {
		t.Error("a refresh should keep the dashboard")
	}
}

func TestCloseUnsubscribes(t *testing.T) {
	h := newHarness(nil)
	h.ctrl.Start(context.Background())
	h.ctrl.Close()
	h.ctrl.Close()

	if h.auth.listenerCount() != 0 {
		t.Errorf("listeners = %d after Close(), want 0", h.auth.listenerCount())
	}
}
