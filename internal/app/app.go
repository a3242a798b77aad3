package app

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/nest/internal/auth"
	"github.com/MrSnakeDoc/nest/internal/backend"
	"github.com/MrSnakeDoc/nest/internal/config"
	"github.com/MrSnakeDoc/nest/internal/dashboard"
	"github.com/MrSnakeDoc/nest/internal/httpserver"
	"github.com/MrSnakeDoc/nest/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nest/internal/logger"
	"github.com/MrSnakeDoc/nest/internal/metrics"
	"github.com/MrSnakeDoc/nest/internal/scheduler"
	"github.com/MrSnakeDoc/nest/internal/telemetry"
	"github.com/MrSnakeDoc/nest/internal/version"
)

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	backends *Backends
	server   *httpserver.Server
	registry *dashboard.Registry
	sweeper  *scheduler.Sweeper
	tracing  telemetry.Shutdown
}

// AuthOptions maps the config onto the auth service options.
func AuthOptions(cfg *config.Config) auth.Options {
	opts := auth.Options{
		JWTSecret:       cfg.Auth.JWTSecret,
		AccessTokenTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
		BcryptCost:      cfg.Auth.BcryptCost,
		PasswordSignIn:  cfg.Auth.PasswordSignIn,
		PublicURL:       cfg.PublicURL,
		OAuthStateTTL:   cfg.Auth.OAuthStateTTL,
	}
	if cfg.OAuthEnabled() {
		opts.OAuth = auth.GoogleConfig(cfg.Auth.OAuthClientID, cfg.Auth.OAuthClientSecret, cfg.PublicURL+"/auth/callback")
		opts.UserInfoURL = auth.GoogleUserInfoURL
	}
	return opts
}

// NewRegistry builds the per-browser dashboards, at most limit of them.
// Each browser gets its own auth client, and data scoped to that client's user.
func NewRegistry(svc *auth.Service, sessions auth.Sessions, data backend.Data, m *metrics.Metrics, log logger.Logger, limit int) *dashboard.Registry {
	return dashboard.NewRegistry(func(clientID string) *dashboard.Controller {
		client := svc.NewClient(clientID, sessions)
		return dashboard.New(client, backend.WithOwnerPolicy(data, client), dashboard.Options{
			Log:      log.With(logger.String("client_id", clientID)),
			Recorder: m,
		})
	}, log, m, limit)
}

func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	tracing, err := telemetry.Init(ctx, "nest", cfg.OTLPEndpoint, loggerClient)
	if err != nil {
		return nil, fmt.Errorf("failed to init tracing: %w", err)
	}

	backends, err := OpenBackends(ctx, cfg, loggerClient)
	if err != nil {
		_ = tracing(ctx)
		return nil, err
	}

	svc := auth.NewService(backends.Redis, AuthOptions(cfg), loggerClient)
	if svc.OAuthEnabled() {
		loggerClient.Info("provider sign-in enabled", logger.String("provider", backend.ProviderGoogle))
	}

	m := metrics.New()
	registry := NewRegistry(svc, backends.Redis, backends.Data, m, loggerClient, cfg.MaxClients)

	sweepTrigger := make(chan struct{}, 1)
	sweeper := scheduler.NewSweeper(
		registry,
		loggerClient,
		cfg.SweepInterval,
		cfg.ClientIdleTTL,
		cfg.RefreshWindow,
		sweepTrigger,
	)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		PublicURL:     cfg.PublicURL,
		CookieSecure:  cfg.CookieSecure,
		CookieDomain:  cfg.CookieDomain,
		CookieTTL:     cfg.Auth.RefreshTokenTTL,
		AuthRateLimit: cfg.AuthRateLimit,
		Dashboards:    registry,
		Auth:          svc,
		Checks:        backends.Checks,
		Metrics:       m,
		DataDriver:    cfg.DataDriver,
		SweepTrigger:  sweepTrigger,
	}

	return &App{
		cfg:      cfg,
		logger:   loggerClient,
		backends: backends,
		server:   httpserver.New(cfg, loggerClient, d),
		registry: registry,
		sweeper:  sweeper,
		tracing:  tracing,
	}, nil
}

// Run serves until ctx is cancelled or the server fails, then shuts down.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting nest %s on %s", version.Version, a.cfg.ListenAddr)
	a.logger.Info(version.String())

	a.sweeper.Start(ctx)
	a.logger.Info("dashboard sweeper started",
		logger.Duration("interval", a.cfg.SweepInterval),
		logger.Duration("idle_ttl", a.cfg.ClientIdleTTL))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	a.sweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	a.registry.Close()

	if err := a.tracing(shutdownCtx); err != nil {
		a.logger.Warn("failed to flush traces", logger.Error(err))
	}

	if err := a.backends.Close(); err != nil {
		a.logger.Warnf("failed to close backends: %v", err)
	} else {
		a.logger.Info("✅ Backends closed cleanly")
	}

	if runErr == nil {
		a.logger.Info("✅ nest stopped cleanly")
	}
	return runErr
}
