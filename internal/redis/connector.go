package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/nest/internal/config"
	"github.com/MrSnakeDoc/nest/internal/logger"
	"github.com/MrSnakeDoc/nest/internal/utils"
)

// Options maps the redis section of the config onto the client and its retry policy.
func Options(c config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         c.Addr,
		Username:     c.User,
		Password:     c.Password,
		DB:           c.DB,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
		PoolSize:     c.PoolSize,
	}
}

// backoff is the retry policy applied while waiting for redis to come up.
type backoff struct {
	initial       time.Duration
	max           time.Duration
	ping          time.Duration
	total         time.Duration
	warnThreshold int
}

func (b backoff) validate() error {
	switch {
	case b.total <= 0:
		return fmt.Errorf("redis connect timeout must be > 0, got %v", b.total)
	case b.initial <= 0:
		return fmt.Errorf("redis retry interval must be > 0, got %v", b.initial)
	case b.max <= 0:
		return fmt.Errorf("redis max wait must be > 0, got %v", b.max)
	case b.ping <= 0:
		return fmt.Errorf("redis ping timeout must be > 0, got %v", b.ping)
	case b.warnThreshold < 0:
		return fmt.Errorf("redis warn threshold must be >= 0, got %d", b.warnThreshold)
	}
	return nil
}

// next doubles wait, capped at max.
func (b backoff) next(wait time.Duration) time.Duration {
	wait *= 2
	if wait > b.max {
		return b.max
	}
	return wait
}

// Connect opens a client and pings it until it answers or ConnectTimeout runs out.
// Failed attempts are logged as warnings first, then as errors once the
// warn threshold is crossed or less than 10s remain.
func Connect(ctx context.Context, c config.RedisConfig, log logger.Logger) (*redis.Client, error) {
	policy := backoff{
		initial:       c.RetryInterval,
		max:           c.MaxWait,
		ping:          c.PingTimeout,
		total:         c.ConnectTimeout,
		warnThreshold: c.WarnThreshold,
	}
	if err := policy.validate(); err != nil {
		return nil, err
	}

	client := redis.NewClient(Options(c))
	if err := waitReady(ctx, client, c.Addr, policy, log); err != nil {
		utils.Close(client)
		return nil, err
	}
	return client, nil
}

func waitReady(ctx context.Context, client *redis.Client, addr string, policy backoff, log logger.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, policy.total)
	defer cancel()

	log.Info("connecting to redis",
		logger.String("addr", addr),
		logger.Duration("timeout", policy.total))

	start := time.Now()
	wait := policy.initial

	for attempt := 1; ; attempt++ {
		pingCtx, pingCancel := context.WithTimeout(ctx, policy.ping)
		err := client.Ping(pingCtx).Err()
		pingCancel()

		if err == nil {
			fields := []logger.Field{logger.String("addr", addr)}
			if attempt > 1 {
				fields = append(fields, logger.Int("attempts", attempt), logger.Duration("elapsed", time.Since(start)))
				log.Warn("connected to redis after retry", fields...)
			} else {
				log.Info("connected to redis", fields...)
			}
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Error("redis unavailable, giving up",
				logger.String("addr", addr),
				logger.Int("attempts", attempt),
				logger.Error(err))
			return fmt.Errorf("redis unavailable at %s after %d attempts (timeout: %v): %w",
				addr, attempt, policy.total, err)

		case <-timer.C:
			fields := []logger.Field{
				logger.String("addr", addr),
				logger.Int("attempt", attempt),
				logger.Duration("next_retry_in", wait),
				logger.Error(err),
			}
			if remaining := timeLeft(ctx); remaining < 10*time.Second || attempt > policy.warnThreshold {
				log.Error("redis still unavailable, retrying", append(fields, logger.Duration("remaining", remaining))...)
			} else {
				log.Warn("redis connection failed, retrying", fields...)
			}
			wait = policy.next(wait)
		}
	}
}

// timeLeft returns the remaining time before the context deadline.
func timeLeft(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	return time.Until(deadline)
}
