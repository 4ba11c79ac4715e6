package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/asperstar/worldbuilder/pkg/memory"
)

// Memory operations. Memories live in one list per character; the
// subset queries load the list and filter in process, which keeps the
// store a plain key-value collaborator.

func (r *RedisStorage) AddMemory(ctx context.Context, m *memory.Memory) error {
	if m.CharacterID == "" {
		return fmt.Errorf("memory character_id is required")
	}
	if m.Content == "" {
		return fmt.Errorf("memory content is required")
	}

	if m.ID == "" {
		m.ID = ulid.Make().String()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	m.Normalize()

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal memory: %w", err)
	}

	if err := r.client.RPush(ctx, memoriesKeyPrefix+m.CharacterID, data).Err(); err != nil {
		r.logger.Error("Failed to save memory", "character_id", m.CharacterID, "error", err)
		return fmt.Errorf("failed to save memory: %w", err)
	}
	return nil
}

func (r *RedisStorage) CharacterMemories(ctx context.Context, characterID string) ([]memory.Memory, error) {
	items, err := r.client.LRange(ctx, memoriesKeyPrefix+characterID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load memories: %w", err)
	}

	memories := make([]memory.Memory, 0, len(items))
	for _, item := range items {
		var m memory.Memory
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			r.logger.Warn("Skipping unreadable memory record", "character_id", characterID, "error", err)
			continue
		}
		m.Normalize()
		memories = append(memories, m)
	}
	return memories, nil
}

func (r *RedisStorage) RelevantMemories(ctx context.Context, characterID, conversationText string) ([]memory.Memory, error) {
	all, err := r.CharacterMemories(ctx, characterID)
	if err != nil {
		return nil, err
	}
	return memory.Relevant(all, conversationText, 10), nil
}

func (r *RedisStorage) PersonalityMemories(ctx context.Context, characterID string) ([]memory.Memory, error) {
	all, err := r.CharacterMemories(ctx, characterID)
	if err != nil {
		return nil, err
	}
	return memory.PersonalityDefining(all), nil
}

func (r *RedisStorage) RecentMemories(ctx context.Context, characterID string, n int) ([]memory.Memory, error) {
	all, err := r.CharacterMemories(ctx, characterID)
	if err != nil {
		return nil, err
	}
	return memory.MostRecent(all, n), nil
}
