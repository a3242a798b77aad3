package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Prefix is prepended to every variable name.
const Prefix = "NEST_"

// Data drivers.
const (
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

const redacted = "***REDACTED***"

type Config struct {
	ListenAddr      string        `env:"LISTEN_ADDR,default=:8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT,default=10s"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`  // "debug" | "info" | "warn" | "error"
	PrettyLog bool   `env:"PRETTY_LOG,default=true"` // true => zap dev (color), false => zap prod (JSON)

	// PublicURL is where browsers reach the service; OAuth redirects are built from it.
	PublicURL string `env:"PUBLIC_URL,default=http://localhost:8080"`

	DataDriver  string `env:"DATA_DRIVER,default=redis"` // redis | postgres | memory
	PostgresDSN string `env:"POSTGRES_DSN"`

	Redis RedisConfig `env:",prefix=REDIS_"`
	Auth  AuthConfig  `env:",prefix=AUTH_"`

	CookieSecure bool   `env:"COOKIE_SECURE,default=false"`
	CookieDomain string `env:"COOKIE_DOMAIN"`

	ClientIdleTTL time.Duration `env:"CLIENT_IDLE_TTL,default=12h"` // evict dashboards unused for this long
	MaxClients    int           `env:"MAX_CLIENTS,default=10000"`   // live dashboards kept at once, 0 => unlimited
	SweepInterval time.Duration `env:"SWEEP_INTERVAL,default=1m"`
	RefreshWindow time.Duration `env:"REFRESH_WINDOW,default=5m"` // refresh sessions expiring within this window

	AllowedHosts  []string `env:"ALLOWED_HOSTS"`              // optional, restrict Host headers
	AllowedCIDRS  []string `env:"ALLOWED_CIDRS"`              // optional, restrict /metrics and /readyz
	TrustProxy    bool     `env:"TRUST_PROXY,default=true"`   // trust X-Forwarded-For & co
	CORSOrigins   []string `env:"CORS_ORIGINS"`               // empty => same-origin only
	AuthRateLimit int      `env:"AUTH_RATE_LIMIT,default=20"` // auth requests per IP per minute

	OTLPEndpoint string `env:"OTLP_ENDPOINT"` // empty => tracing disabled
}

type RedisConfig struct {
	Addr             string        `env:"ADDR,default=localhost:6379"`
	User             string        `env:"USERNAME"`
	Password         string        `env:"PASSWORD"`
	PasswordRequired bool          `env:"PASSWORD_REQUIRED,default=false"`
	DB               int           `env:"DB,default=0"`
	DialTimeout      time.Duration `env:"DIAL_TIMEOUT,default=5s"`
	ReadTimeout      time.Duration `env:"READ_TIMEOUT,default=3s"`
	WriteTimeout     time.Duration `env:"WRITE_TIMEOUT,default=3s"`
	PoolSize         int           `env:"POOL_SIZE,default=10"`
	ConnectTimeout   time.Duration `env:"CONNECT_TIMEOUT,default=30s"` // total time to keep retrying
	RetryInterval    time.Duration `env:"RETRY_INTERVAL,default=2s"`   // first wait, doubles each attempt
	MaxWait          time.Duration `env:"MAX_WAIT,default=10s"`
	PingTimeout      time.Duration `env:"PING_TIMEOUT,default=5s"`
	WarnThreshold    int           `env:"WARN_THRESHOLD,default=3"`
}

type AuthConfig struct {
	JWTSecret       string        `env:"JWT_SECRET,required"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL,default=1h"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL,default=720h"`
	PasswordSignIn  bool          `env:"PASSWORD_SIGNIN,default=true"`
	BcryptCost      int           `env:"BCRYPT_COST,default=10"`

	OAuthClientID     string        `env:"OAUTH_CLIENT_ID"` // empty => provider sign-in disabled
	OAuthClientSecret string        `env:"OAUTH_CLIENT_SECRET"`
	OAuthStateTTL     time.Duration `env:"OAUTH_STATE_TTL,default=10m"`
}

// Load reads an optional .env file, then NEST_* variables from the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith processes the config from l (unprefixed keys are looked up with Prefix).
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.PrefixLookuper(Prefix, l),
	}); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	cfg.AllowedHosts = trimAll(cfg.AllowedHosts)
	cfg.AllowedCIDRS = trimAll(cfg.AllowedCIDRS)
	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks rules spanning several fields.
func (c *Config) Validate() error {
	var errs []error

	switch c.DataDriver {
	case DriverRedis, DriverMemory:
	case DriverPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, fmt.Errorf("%sPOSTGRES_DSN is required when %sDATA_DRIVER=postgres", Prefix, Prefix))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown %sDATA_DRIVER %q", Prefix, c.DataDriver))
	}

	if c.Redis.PasswordRequired && c.Redis.Password == "" {
		errs = append(errs, fmt.Errorf("%sREDIS_PASSWORD is required when %sREDIS_PASSWORD_REQUIRED=true", Prefix, Prefix))
	}

	if len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, fmt.Errorf("%sAUTH_JWT_SECRET must be at least 32 bytes", Prefix))
	}
	if c.Auth.OAuthClientID != "" && c.Auth.OAuthClientSecret == "" {
		errs = append(errs, fmt.Errorf("%sAUTH_OAUTH_CLIENT_SECRET is required with a client id", Prefix))
	}

	if c.SweepInterval <= 0 {
		errs = append(errs, fmt.Errorf("%sSWEEP_INTERVAL must be positive", Prefix))
	}
	if c.MaxClients < 0 {
		errs = append(errs, fmt.Errorf("%sMAX_CLIENTS must not be negative", Prefix))
	}

	if u, err := url.Parse(c.PublicURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("%sPUBLIC_URL must be an absolute URL, got %q", Prefix, c.PublicURL))
	}

	return errors.Join(errs...)
}

// OAuthEnabled reports whether provider sign-in is configured.
func (c *Config) OAuthEnabled() bool {
	return c.Auth.OAuthClientID != ""
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	if c.Redis.Password != "" {
		c.Redis.Password = redacted
	}
	if c.Redis.User != "" {
		c.Redis.User = redacted
	}
	if c.PostgresDSN != "" {
		c.PostgresDSN = redacted
	}
	c.Auth.JWTSecret = redacted
	if c.Auth.OAuthClientSecret != "" {
		c.Auth.OAuthClientSecret = redacted
	}
	return c
}

func trimAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, v := range in {
		// Remove surrounding quotes if present
		v = strings.Trim(strings.TrimSpace(v), `"'`)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
