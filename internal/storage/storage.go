package storage

import (
	"context"

	"github.com/asperstar/worldbuilder/pkg/character"
	"github.com/asperstar/worldbuilder/pkg/memory"
	"github.com/asperstar/worldbuilder/pkg/world"
)

// HealthChecker defines basic health check capabilities
type HealthChecker interface {
	// Ping tests the storage connection
	Ping(ctx context.Context) error
}

// Closer defines cleanup capabilities
type Closer interface {
	// Close closes the storage connection
	Close() error
}

// Storage is the document-store surface the rest of the service depends
// on: characters, their memories, worlds with timelines, and the map
// graph. Implementations are Redis for production and an in-memory mock
// for tests.
type Storage interface {
	HealthChecker
	Closer

	// Characters
	ListCharacters(ctx context.Context) ([]character.Character, error)
	GetCharacter(ctx context.Context, id string) (*character.Character, error)
	GetCharacterByName(ctx context.Context, name string) (*character.Character, error)
	SaveCharacter(ctx context.Context, c *character.Character) error
	DeleteCharacter(ctx context.Context, id string) error

	// Memories
	AddMemory(ctx context.Context, m *memory.Memory) error
	CharacterMemories(ctx context.Context, characterID string) ([]memory.Memory, error)
	RelevantMemories(ctx context.Context, characterID, conversationText string) ([]memory.Memory, error)
	PersonalityMemories(ctx context.Context, characterID string) ([]memory.Memory, error)
	RecentMemories(ctx context.Context, characterID string, n int) ([]memory.Memory, error)

	// Worlds and timelines
	ListWorlds(ctx context.Context) ([]world.World, error)
	GetWorld(ctx context.Context, id string) (*world.World, error)
	SaveWorld(ctx context.Context, w *world.World) error
	DeleteWorld(ctx context.Context, id string) error
	GetTimeline(ctx context.Context, worldID string) ([]world.TimelineEvent, error)
	AddTimelineEvent(ctx context.Context, e *world.TimelineEvent) error

	// Map graph
	GetMapGraph(ctx context.Context) (*world.MapGraph, error)
	SaveMapGraph(ctx context.Context, g *world.MapGraph) error
}
