package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/nest/internal/httpserver/deps"
)

type componentStatus struct {
	OK     bool   `json:"ok"`
	Mode   string `json:"mode,omitempty"`
	Impact string `json:"impact,omitempty"`
	Error  string `json:"error,omitempty"`
}

type infraResponse struct {
	DataDriver       string                     `json:"data_driver"`
	ActiveDashboards int                        `json:"active_dashboards"`
	OAuthEnabled     bool                       `json:"oauth_enabled"`
	Components       map[string]componentStatus `json:"components"`
}

// impacts describes what users lose when a component is down.
var impacts = map[string]string{
	"redis":    "sign-in and sessions unavailable",
	"postgres": "bookmarks and folders unavailable",
}

// Infra reports the state of each component for operators.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ready := runChecks(r.Context(), d)

		components := make(map[string]componentStatus, len(ready.Checks))
		for name, status := range ready.Checks {
			c := componentStatus{OK: status == "ok"}
			if !c.OK {
				c.Error = status
				c.Impact = impacts[name]
			}
			components[name] = c
		}

		resp := infraResponse{
			DataDriver: d.DataDriver,
			Components: components,
		}
		if d.Dashboards != nil {
			resp.ActiveDashboards = d.Dashboards.Len()
		}
		if d.Auth != nil {
			resp.OAuthEnabled = d.Auth.OAuthEnabled()
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
