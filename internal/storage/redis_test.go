package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asperstar/worldbuilder/pkg/character"
	"github.com/asperstar/worldbuilder/pkg/memory"
	"github.com/asperstar/worldbuilder/pkg/world"
)

func testRedisStorage(t *testing.T) *RedisStorage {
	t.Helper()
	mr := miniredis.RunT(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewRedisStorage(mr.Addr(), logger)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRedisStorage_Ping(t *testing.T) {
	s := testRedisStorage(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestRedisStorage_CharacterRoundTrip(t *testing.T) {
	s := testRedisStorage(t)
	ctx := context.Background()

	c := &character.Character{
		ID:          "char-1",
		Name:        "Cipher",
		Personality: "glitchy, wary",
		Traits:      "digital, fragmented",
		Triggers: []character.Trigger{
			{Phrase: "protocol alpha", Response: "SYSTEM RESET."},
		},
	}
	require.NoError(t, s.SaveCharacter(ctx, c))
	assert.False(t, c.CreatedAt.IsZero())
	assert.False(t, c.UpdatedAt.IsZero())

	loaded, err := s.GetCharacter(ctx, "char-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Cipher", loaded.Name)
	assert.Equal(t, c.Traits, loaded.Traits)
	require.Len(t, loaded.Triggers, 1)
	assert.Equal(t, "protocol alpha", loaded.Triggers[0].Phrase)

	byName, err := s.GetCharacterByName(ctx, "Cipher")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, "char-1", byName.ID)

	list, err := s.ListCharacters(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRedisStorage_GetCharacter_NotFound(t *testing.T) {
	s := testRedisStorage(t)

	loaded, err := s.GetCharacter(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStorage_SaveCharacter_RequiresName(t *testing.T) {
	s := testRedisStorage(t)

	err := s.SaveCharacter(context.Background(), &character.Character{ID: "no-name"})
	assert.Error(t, err)
}

func TestRedisStorage_DeleteCharacter(t *testing.T) {
	s := testRedisStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveCharacter(ctx, &character.Character{ID: "char-1", Name: "Oge"}))
	require.NoError(t, s.AddMemory(ctx, &memory.Memory{CharacterID: "char-1", Content: "found the relic"}))

	require.NoError(t, s.DeleteCharacter(ctx, "char-1"))

	loaded, err := s.GetCharacter(ctx, "char-1")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	mems, err := s.CharacterMemories(ctx, "char-1")
	require.NoError(t, err)
	assert.Empty(t, mems)

	list, err := s.ListCharacters(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRedisStorage_Memories(t *testing.T) {
	s := testRedisStorage(t)
	ctx := context.Background()

	m1 := &memory.Memory{CharacterID: "char-1", Content: "learned the dreamscape shifts at night", Type: memory.TypeFact}
	require.NoError(t, s.AddMemory(ctx, m1))
	assert.NotEmpty(t, m1.ID)
	assert.False(t, m1.Timestamp.IsZero())

	m2 := &memory.Memory{
		CharacterID: "char-1",
		Content:     "fiercely protective of younger clan members",
		Type:        memory.TypePersonality,
		Importance:  9,
		Timestamp:   time.Now().Add(-time.Hour),
	}
	require.NoError(t, s.AddMemory(ctx, m2))

	all, err := s.CharacterMemories(ctx, "char-1")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	relevant, err := s.RelevantMemories(ctx, "char-1", "what happens to the dreamscape after dark?")
	require.NoError(t, err)
	require.Len(t, relevant, 1)
	assert.Equal(t, m1.ID, relevant[0].ID)

	personality, err := s.PersonalityMemories(ctx, "char-1")
	require.NoError(t, err)
	require.Len(t, personality, 1)
	assert.Equal(t, m2.ID, personality[0].ID)

	recent, err := s.RecentMemories(ctx, "char-1", 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, m1.ID, recent[0].ID)
}

func TestRedisStorage_AddMemory_RequiresCharacterAndContent(t *testing.T) {
	s := testRedisStorage(t)
	ctx := context.Background()

	assert.Error(t, s.AddMemory(ctx, &memory.Memory{Content: "orphaned"}))
	assert.Error(t, s.AddMemory(ctx, &memory.Memory{CharacterID: "char-1"}))
}

func TestRedisStorage_WorldRoundTrip(t *testing.T) {
	s := testRedisStorage(t)
	ctx := context.Background()

	w := &world.World{ID: "world-1", Name: "The Dreamscape", Rules: "No waking allowed."}
	require.NoError(t, s.SaveWorld(ctx, w))

	loaded, err := s.GetWorld(ctx, "world-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "The Dreamscape", loaded.Name)

	list, err := s.ListWorlds(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	missing, err := s.GetWorld(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRedisStorage_Timeline(t *testing.T) {
	s := testRedisStorage(t)
	ctx := context.Background()

	require.NoError(t, s.AddTimelineEvent(ctx, &world.TimelineEvent{
		WorldID: "world-1", Title: "The Collapse", Date: "2021-05-10",
	}))
	require.NoError(t, s.AddTimelineEvent(ctx, &world.TimelineEvent{
		WorldID: "world-1", Title: "First Contact", Date: "2019-01-02",
		CharacterIDs: []string{"char-1"},
	}))

	events, err := s.GetTimeline(ctx, "world-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "First Contact", events[0].Title, "events sort by date")
	assert.Equal(t, "The Collapse", events[1].Title)

	empty, err := s.GetTimeline(ctx, "world-2")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRedisStorage_DeleteWorld_RemovesTimeline(t *testing.T) {
	s := testRedisStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveWorld(ctx, &world.World{ID: "world-1", Name: "Hallow"}))
	require.NoError(t, s.AddTimelineEvent(ctx, &world.TimelineEvent{WorldID: "world-1", Title: "Infection"}))
	require.NoError(t, s.DeleteWorld(ctx, "world-1"))

	loaded, err := s.GetWorld(ctx, "world-1")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	events, err := s.GetTimeline(ctx, "world-1")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestRedisStorage_MapGraph(t *testing.T) {
	s := testRedisStorage(t)
	ctx := context.Background()

	// Missing graph reads back empty, not an error.
	g, err := s.GetMapGraph(ctx)
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Empty(t, g.Nodes)

	require.NoError(t, s.SaveMapGraph(ctx, &world.MapGraph{
		Nodes: []world.MapNode{
			{ID: "n1", Label: "Cipher", Type: world.NodeTypeCharacter, CharacterID: "char-1"},
			{ID: "n2", Label: "The Void", Type: world.NodeTypeEnvironment},
		},
		Edges: []world.MapEdge{{Source: "n1", Target: "n2", Type: "haunts"}},
	}))

	loaded, err := s.GetMapGraph(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Nodes, 2)
	require.Len(t, loaded.Edges, 1)
	assert.Equal(t, "haunts", loaded.Edges[0].Type)
}
