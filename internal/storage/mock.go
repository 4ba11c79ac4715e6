package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/asperstar/worldbuilder/pkg/character"
	"github.com/asperstar/worldbuilder/pkg/memory"
	"github.com/asperstar/worldbuilder/pkg/world"
)

// MockStorage is an in-memory Storage implementation for tests.
type MockStorage struct {
	mu         sync.RWMutex
	characters map[string]*character.Character
	memories   map[string][]memory.Memory
	worlds     map[string]*world.World
	timelines  map[string][]world.TimelineEvent
	mapGraph   *world.MapGraph

	pingError error

	// Optional per-call failure hooks for degrade-path tests.
	MemoriesError error
	WorldError    error
	TimelineError error
	MapError      error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		characters: make(map[string]*character.Character),
		memories:   make(map[string][]memory.Memory),
		worlds:     make(map[string]*world.World),
		timelines:  make(map[string][]world.TimelineEvent),
	}
}

// SetPingError configures the mock to fail on ping
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveCharacter(ctx context.Context, c *character.Character) error {
	if err := c.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.characters[c.ID] = &cp
	return nil
}

func (m *MockStorage) GetCharacter(ctx context.Context, id string) (*character.Character, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.characters[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *MockStorage) GetCharacterByName(ctx context.Context, name string) (*character.Character, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.characters {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockStorage) ListCharacters(ctx context.Context) ([]character.Character, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]character.Character, 0, len(m.characters))
	for _, c := range m.characters {
		out = append(out, *c)
	}
	return out, nil
}

func (m *MockStorage) DeleteCharacter(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.characters, id)
	delete(m.memories, id)
	return nil
}

func (m *MockStorage) AddMemory(ctx context.Context, mem *memory.Memory) error {
	if mem.CharacterID == "" {
		return fmt.Errorf("memory character_id is required")
	}
	if mem.Content == "" {
		return fmt.Errorf("memory content is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if mem.ID == "" {
		mem.ID = ulid.Make().String()
	}
	if mem.Timestamp.IsZero() {
		mem.Timestamp = time.Now()
	}
	mem.Normalize()
	m.memories[mem.CharacterID] = append(m.memories[mem.CharacterID], *mem)
	return nil
}

func (m *MockStorage) CharacterMemories(ctx context.Context, characterID string) ([]memory.Memory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.MemoriesError != nil {
		return nil, m.MemoriesError
	}
	out := make([]memory.Memory, len(m.memories[characterID]))
	copy(out, m.memories[characterID])
	return out, nil
}

func (m *MockStorage) RelevantMemories(ctx context.Context, characterID, conversationText string) ([]memory.Memory, error) {
	all, err := m.CharacterMemories(ctx, characterID)
	if err != nil {
		return nil, err
	}
	return memory.Relevant(all, conversationText, 10), nil
}

func (m *MockStorage) PersonalityMemories(ctx context.Context, characterID string) ([]memory.Memory, error) {
	all, err := m.CharacterMemories(ctx, characterID)
	if err != nil {
		return nil, err
	}
	return memory.PersonalityDefining(all), nil
}

func (m *MockStorage) RecentMemories(ctx context.Context, characterID string, n int) ([]memory.Memory, error) {
	all, err := m.CharacterMemories(ctx, characterID)
	if err != nil {
		return nil, err
	}
	return memory.MostRecent(all, n), nil
}

func (m *MockStorage) SaveWorld(ctx context.Context, w *world.World) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *w
	m.worlds[w.ID] = &cp
	return nil
}

func (m *MockStorage) GetWorld(ctx context.Context, id string) (*world.World, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.WorldError != nil {
		return nil, m.WorldError
	}
	w, ok := m.worlds[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (m *MockStorage) ListWorlds(ctx context.Context) ([]world.World, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]world.World, 0, len(m.worlds))
	for _, w := range m.worlds {
		out = append(out, *w)
	}
	return out, nil
}

func (m *MockStorage) DeleteWorld(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.worlds, id)
	delete(m.timelines, id)
	return nil
}

func (m *MockStorage) AddTimelineEvent(ctx context.Context, e *world.TimelineEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timelines[e.WorldID] = append(m.timelines[e.WorldID], *e)
	return nil
}

func (m *MockStorage) GetTimeline(ctx context.Context, worldID string) ([]world.TimelineEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.TimelineError != nil {
		return nil, m.TimelineError
	}
	return world.EventsForWorld(m.timelines[worldID], worldID), nil
}

func (m *MockStorage) SaveMapGraph(ctx context.Context, g *world.MapGraph) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *g
	m.mapGraph = &cp
	return nil
}

func (m *MockStorage) GetMapGraph(ctx context.Context) (*world.MapGraph, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.MapError != nil {
		return nil, m.MapError
	}
	if m.mapGraph == nil {
		return &world.MapGraph{}, nil
	}
	cp := *m.mapGraph
	return &cp, nil
}
