package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/asperstar/worldbuilder/pkg/character"
)

// Character operations

func (r *RedisStorage) SaveCharacter(ctx context.Context, c *character.Character) error {
	if c.ID == "" {
		return fmt.Errorf("character id is required")
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid character: %w", err)
	}

	c.UpdatedAt = time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = c.UpdatedAt
	}

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal character: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, characterKeyPrefix+c.ID, data, 0)
	pipe.SAdd(ctx, characterIndexKey, c.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to save character", "id", c.ID, "error", err)
		return fmt.Errorf("failed to save character: %w", err)
	}
	return nil
}

// GetCharacter retrieves a character by id. Returns nil when the
// character does not exist.
func (r *RedisStorage) GetCharacter(ctx context.Context, id string) (*character.Character, error) {
	data, err := r.client.Get(ctx, characterKeyPrefix+id).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get character: %w", err)
	}

	var c character.Character
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal character: %w", err)
	}
	return &c, nil
}

// GetCharacterByName is the single query-by-field primitive: an exact
// name match over the indexed characters. Returns nil when no character
// has the name.
func (r *RedisStorage) GetCharacterByName(ctx context.Context, name string) (*character.Character, error) {
	characters, err := r.ListCharacters(ctx)
	if err != nil {
		return nil, err
	}
	for i := range characters {
		if characters[i].Name == name {
			return &characters[i], nil
		}
	}
	return nil, nil
}

func (r *RedisStorage) ListCharacters(ctx context.Context) ([]character.Character, error) {
	ids, err := r.client.SMembers(ctx, characterIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}

	characters := make([]character.Character, 0, len(ids))
	for _, id := range ids {
		c, err := r.GetCharacter(ctx, id)
		if err != nil {
			return nil, err
		}
		if c == nil {
			// Index entry with no record; skip rather than fail the listing.
			r.logger.Warn("Dangling character index entry", "id", id)
			continue
		}
		characters = append(characters, *c)
	}
	return characters, nil
}

func (r *RedisStorage) DeleteCharacter(ctx context.Context, id string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, characterKeyPrefix+id)
	pipe.Del(ctx, memoriesKeyPrefix+id)
	pipe.SRem(ctx, characterIndexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}
	return nil
}
