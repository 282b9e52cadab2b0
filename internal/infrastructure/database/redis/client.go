// Package redis provides the shared composition-key cache used when several
// workers validate the same reactome in parallel.
package redis

import (
	"context"

	goredis "github.com/redis/go-redis/v9"

	"github.com/enzymatix/mechvalid/internal/config"
	"github.com/enzymatix/mechvalid/internal/infrastructure/monitoring/logging"
	"github.com/enzymatix/mechvalid/pkg/errors"
)

// NewClient opens and pings a redis client.
func NewClient(ctx context.Context, cfg config.RedisConfig, logger logging.Logger) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeCacheError, "failed to ping redis").
			WithDetail("addr=" + cfg.Addr)
	}
	logger.Info("connected to redis", logging.String("addr", cfg.Addr))
	return client, nil
}
