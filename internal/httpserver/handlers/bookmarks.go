package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/nest/internal/httpserver/deps"
)

// AddBookmark stores the submitted form as the draft, then adds it.
func AddBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl := controller(w, r, d)
		ctrl.SetBookmarkDraft(r.PostFormValue("title"), r.PostFormValue("url"))
		ctrl.AddBookmark(r.Context())
		backHome(w, r)
	}
}

func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		controller(w, r, d).DeleteBookmark(r.Context(), chi.URLParam(r, "id"))
		backHome(w, r)
	}
}

func AddFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl := controller(w, r, d)
		ctrl.SetFolderDraft(r.PostFormValue("name"))
		ctrl.AddFolder(r.Context())
		backHome(w, r)
	}
}

func DeleteFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		controller(w, r, d).DeleteFolder(r.Context(), chi.URLParam(r, "id"))
		backHome(w, r)
	}
}
