package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/config"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/logger"
)

const redisPingTimeout = 5 * time.Second

// SetupRedis connects to Redis. The schedule store lives here, so a
// failed connection is fatal.
func SetupRedis(cfg *config.Config, log logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info("Redis connection established",
		logger.String("address", cfg.Redis.Address),
		logger.Int("db", cfg.Redis.DB),
	)
	return client, nil
}
