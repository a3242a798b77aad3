package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/MrSnakeDoc/nest/internal/dashboard"
	"github.com/MrSnakeDoc/nest/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nest/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

var page = template.Must(template.New("page.html").Funcs(template.FuncMap{
	"signup": func(mode string) bool { return mode == dashboard.AuthModeSignup },
}).ParseFS(templateFS, "templates/page.html"))

type pageData struct {
	dashboard.View
	Signed bool
}

// Dashboard renders the page of the requesting browser. The folder and q
// query parameters, when present, set the selection and the search text.
// A browser without a client cookie gets one and the guest page; its
// dashboard is only created once it comes back with the cookie.
func Dashboard(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var view dashboard.View
		if _, ok := knownClient(r); !ok {
			clientID(w, r, d)
			view = dashboard.Guest()
		} else {
			ctrl := controller(w, r, d)

			q := r.URL.Query()
			if q.Has("folder") {
				ctrl.SelectFolder(q.Get("folder"))
			}
			if q.Has("q") {
				ctrl.SetSearch(q.Get("q"))
			}
			view = ctrl.Render()
		}

		var buf bytes.Buffer
		if err := page.Execute(&buf, pageData{View: view, Signed: view.State == dashboard.Dashboard}); err != nil {
			d.Logger.Error("failed to render dashboard", logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = buf.WriteTo(w)
	}
}
