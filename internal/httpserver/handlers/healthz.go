package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/nest/internal/httpserver/deps"
)

type healthzResponse struct {
	Status           string  `json:"status"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
	ActiveDashboards int     `json:"active_dashboards"`
	Version          string  `json:"version,omitempty"`
	Commit           string  `json:"commit,omitempty"`
	BuildDate        string  `json:"build_date,omitempty"`
	GoVersion        string  `json:"go_version,omitempty"`
}

func Healthz(d deps.Deps) http.HandlerFunc {
	start := d.StartTime
	return func(w http.ResponseWriter, r *http.Request) {
		active := 0
		if d.Dashboards != nil {
			active = d.Dashboards.Len()
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(healthzResponse{
			Status:           "ok",
			Version:          d.Version,
			Commit:           d.Commit,
			BuildDate:        d.BuildDate,
			GoVersion:        d.GoVersion,
			ActiveDashboards: active,
			UptimeSeconds:    d.Now().Sub(start).Seconds(),
		})
	}
}
