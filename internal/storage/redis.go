package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Key layout. All records are JSON blobs; sets index the record ids.
// Ids are canonical at write time: one scheme, no runtime permutation.
const (
	characterKeyPrefix = "character:"
	characterIndexKey  = "characters"
	memoriesKeyPrefix  = "memories:"
	worldKeyPrefix     = "world:"
	worldIndexKey      = "worlds"
	timelineKeyPrefix  = "timeline:"
	mapGraphKey        = "mapgraph"
)

// RedisStorage implements Storage using Redis.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance
func NewRedisStorage(redisURL string, logger *slog.Logger) *RedisStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	return &RedisStorage{
		client: rdb,
		logger: logger,
	}
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}
