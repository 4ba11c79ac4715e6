package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/asperstar/worldbuilder/pkg/world"
)

// World, timeline, and map operations

func (r *RedisStorage) SaveWorld(ctx context.Context, w *world.World) error {
	if w.ID == "" {
		return fmt.Errorf("world id is required")
	}
	if w.Name == "" {
		return fmt.Errorf("world name is required")
	}

	w.UpdatedAt = time.Now()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = w.UpdatedAt
	}

	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("failed to marshal world: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, worldKeyPrefix+w.ID, data, 0)
	pipe.SAdd(ctx, worldIndexKey, w.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save world: %w", err)
	}
	return nil
}

// GetWorld retrieves a world by id. Returns nil when it does not exist.
func (r *RedisStorage) GetWorld(ctx context.Context, id string) (*world.World, error) {
	data, err := r.client.Get(ctx, worldKeyPrefix+id).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get world: %w", err)
	}

	var w world.World
	if err := json.Unmarshal([]byte(data), &w); err != nil {
		return nil, fmt.Errorf("failed to unmarshal world: %w", err)
	}
	return &w, nil
}

func (r *RedisStorage) ListWorlds(ctx context.Context) ([]world.World, error) {
	ids, err := r.client.SMembers(ctx, worldIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list worlds: %w", err)
	}

	worlds := make([]world.World, 0, len(ids))
	for _, id := range ids {
		w, err := r.GetWorld(ctx, id)
		if err != nil {
			return nil, err
		}
		if w == nil {
			r.logger.Warn("Dangling world index entry", "id", id)
			continue
		}
		worlds = append(worlds, *w)
	}
	return worlds, nil
}

func (r *RedisStorage) DeleteWorld(ctx context.Context, id string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, worldKeyPrefix+id)
	pipe.Del(ctx, timelineKeyPrefix+id)
	pipe.SRem(ctx, worldIndexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete world: %w", err)
	}
	return nil
}

func (r *RedisStorage) AddTimelineEvent(ctx context.Context, e *world.TimelineEvent) error {
	if e.WorldID == "" {
		return fmt.Errorf("timeline event world_id is required")
	}
	if e.Title == "" {
		return fmt.Errorf("timeline event title is required")
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal timeline event: %w", err)
	}

	if err := r.client.RPush(ctx, timelineKeyPrefix+e.WorldID, data).Err(); err != nil {
		return fmt.Errorf("failed to save timeline event: %w", err)
	}
	return nil
}

// GetTimeline returns a world's events sorted ascending by date string.
func (r *RedisStorage) GetTimeline(ctx context.Context, worldID string) ([]world.TimelineEvent, error) {
	items, err := r.client.LRange(ctx, timelineKeyPrefix+worldID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load timeline: %w", err)
	}

	events := make([]world.TimelineEvent, 0, len(items))
	for _, item := range items {
		var e world.TimelineEvent
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			r.logger.Warn("Skipping unreadable timeline event", "world_id", worldID, "error", err)
			continue
		}
		events = append(events, e)
	}
	return world.EventsForWorld(events, worldID), nil
}

func (r *RedisStorage) SaveMapGraph(ctx context.Context, g *world.MapGraph) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal map graph: %w", err)
	}
	if err := r.client.Set(ctx, mapGraphKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save map graph: %w", err)
	}
	return nil
}

// GetMapGraph returns the map graph, or an empty graph when none has
// been saved yet.
func (r *RedisStorage) GetMapGraph(ctx context.Context) (*world.MapGraph, error) {
	data, err := r.client.Get(ctx, mapGraphKey).Result()
	if err != nil {
		if err == redis.Nil {
			return &world.MapGraph{}, nil
		}
		return nil, fmt.Errorf("failed to get map graph: %w", err)
	}

	var g world.MapGraph
	if err := json.Unmarshal([]byte(data), &g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal map graph: %w", err)
	}
	return &g, nil
}
