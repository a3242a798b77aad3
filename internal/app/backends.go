package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/nest/internal/backend"
	"github.com/MrSnakeDoc/nest/internal/config"
	"github.com/MrSnakeDoc/nest/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nest/internal/logger"
	"github.com/MrSnakeDoc/nest/internal/redis"
	"github.com/MrSnakeDoc/nest/internal/store/memory"
	"github.com/MrSnakeDoc/nest/internal/store/postgres"
	redisstore "github.com/MrSnakeDoc/nest/internal/store/redis"
	"github.com/MrSnakeDoc/nest/internal/utils"
)

// Backends are the stores shared by every command. Redis always holds
// accounts, tokens and client sessions; bookmarks and folders live in the
// configured data driver.
type Backends struct {
	RedisClient *goredis.Client
	Redis       *redisstore.Store
	Pool        *pgxpool.Pool // nil unless the postgres driver is used
	Data        backend.Data
	Checks      map[string]deps.Pinger
}

// OpenBackends connects to redis, then to the data driver. Failure to reach
// either is fatal.
func OpenBackends(ctx context.Context, cfg *config.Config, log logger.Logger) (*Backends, error) {
	log.Infof("Connecting to Redis at %s", cfg.Redis.Addr)
	client, err := redis.Connect(ctx, cfg.Redis, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Info("Redis initialized successfully")

	b := &Backends{
		RedisClient: client,
		Redis:       redisstore.NewStore(client),
	}
	b.Checks = map[string]deps.Pinger{"redis": b.Redis}

	switch cfg.DataDriver {
	case config.DriverRedis:
		b.Data = b.Redis
	case config.DriverMemory:
		log.Warn("memory data driver: bookmarks are lost on restart")
		b.Data = memory.NewStore()
	case config.DriverPostgres:
		pool, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			utils.MustClose(client, log, "redis")
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			utils.MustClose(client, log, "redis")
			return nil, fmt.Errorf("failed to migrate postgres: %w", err)
		}
		store := postgres.NewStore(pool)
		b.Pool = pool
		b.Data = store
		b.Checks["postgres"] = store
		log.Info("Postgres initialized successfully")
	default:
		utils.MustClose(client, log, "redis")
		return nil, fmt.Errorf("unknown data driver %q", cfg.DataDriver)
	}

	return b, nil
}

// Close releases every connection.
func (b *Backends) Close() error {
	if b.Pool != nil {
		b.Pool.Close()
	}
	if b.RedisClient == nil {
		return nil
	}
	if err := b.RedisClient.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
		return err
	}
	return nil
}
