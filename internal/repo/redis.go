package repo

import (
	"context"

	"pokerclock/internal/config"
	"pokerclock/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var RDB *redis.Client

// InitRedis probes the relay backend. Unlike the database, redis is
// optional: when it is not configured or unreachable the service degrades
// to local-only synchronization, so failures log a warning instead of
// aborting startup.
func InitRedis() {
	conf := config.GlobalConfig.Redis
	if conf.Addr == "" {
		logger.Log.Info("Redis not configured, remote relay disabled")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		logger.Log.Warn("Redis unreachable, remote relay disabled", zap.Error(err))
		return
	}
	RDB = client
}
