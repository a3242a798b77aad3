package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/MrSnakeDoc/nest/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nest/internal/logger"
)

const checkTimeout = 2 * time.Second

type readyzResponse struct {
	Ready  bool              `json:"ready"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Readyz pings every dependency and answers 503 when one is down.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := runChecks(r.Context(), d)

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		if !resp.Ready {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func runChecks(ctx context.Context, d deps.Deps) readyzResponse {
	resp := readyzResponse{Ready: true, Checks: make(map[string]string, len(d.Checks))}

	names := make([]string, 0, len(d.Checks))
	for name := range d.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := d.Checks[name].Ping(cctx)
		cancel()
		if err != nil {
			d.Logger.Warn("readiness check failed", logger.String("component", name), logger.Error(err))
			resp.Ready = false
			resp.Checks[name] = err.Error()
			continue
		}
		resp.Checks[name] = "ok"
	}
	return resp
}
