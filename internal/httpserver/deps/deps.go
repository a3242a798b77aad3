package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/nest/internal/auth"
	"github.com/MrSnakeDoc/nest/internal/dashboard"
	"github.com/MrSnakeDoc/nest/internal/logger"
	"github.com/MrSnakeDoc/nest/internal/metrics"
)

// Pinger is a dependency /readyz checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	AllowedHosts []string // Host headers allowed to access the server
	AllowedCIDRS []string // IPs allowed to access readyz, metrics and admin endpoints
	TrustProxy   bool     // true if running behind a trusted reverse proxy (e.g., cloudflared)

	PublicURL     string        // base URL browsers use, OAuth redirects land on PublicURL + "/"
	CookieSecure  bool          // mark the client cookie Secure
	CookieDomain  string        // optional cookie Domain attribute
	CookieTTL     time.Duration // lifetime of the client cookie
	AuthRateLimit int           // auth requests per IP per minute, 0 disables the limit

	Dashboards   *dashboard.Registry // one controller per browser client
	Auth         *auth.Service       // provider callback handling
	Checks       map[string]Pinger   // readiness checks by component name
	Metrics      *metrics.Metrics    // nil disables /metrics
	DataDriver   string              // reported by /infra
	SweepTrigger chan struct{}       // manual sweep, nil if the sweeper is not running
}

// Now returns TimeNow() or time.Now().
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
