package prompts

import (
	"context"
	"errors"

	"github.com/asperstar/worldbuilder/pkg/character"
	"github.com/asperstar/worldbuilder/pkg/memory"
	"github.com/asperstar/worldbuilder/pkg/world"
)

// Mode controls how much world information is pulled into context.
type Mode string

const (
	// ModeChat is a casual conversation: world context is reduced to a
	// name plus an instruction not to dwell on the setting.
	ModeChat Mode = "chat"
	// ModeCampaign is an in-world roleplay session: full world
	// description, rules, and filtered timeline are included.
	ModeCampaign Mode = "campaign"
)

// ErrInvalidCharacter is returned when context assembly is attempted
// without a persisted character.
var ErrInvalidCharacter = errors.New("invalid character provided to context builder")

// DegradeReason identifies an optional context source that was
// unavailable. Degrades reduce context richness but never abort
// response generation.
type DegradeReason string

const (
	DegradeMemories DegradeReason = "memories_unavailable"
	DegradeWorld    DegradeReason = "world_unavailable"
	DegradeTimeline DegradeReason = "timeline_unavailable"
	DegradeMap      DegradeReason = "map_unavailable"
)

// MemorySource provides the three memory subsets pulled into context.
type MemorySource interface {
	RelevantMemories(ctx context.Context, characterID, conversationText string) ([]memory.Memory, error)
	PersonalityMemories(ctx context.Context, characterID string) ([]memory.Memory, error)
	RecentMemories(ctx context.Context, characterID string, n int) ([]memory.Memory, error)
}

// WorldSource provides world records and their timelines.
type WorldSource interface {
	GetWorld(ctx context.Context, id string) (*world.World, error)
	GetTimeline(ctx context.Context, worldID string) ([]world.TimelineEvent, error)
}

// MapSource provides the character/location map graph.
type MapSource interface {
	GetMapGraph(ctx context.Context) (*world.MapGraph, error)
}

// Sources bundles the read-only collaborators the context builder pulls
// from. Any of them may be nil, which is treated the same as an
// unavailable source.
type Sources struct {
	Memories MemorySource
	Worlds   WorldSource
	Map      MapSource
}

// ContextOptions tune context assembly.
type ContextOptions struct {
	Mode Mode // defaults to ModeChat
}

// SanitizedCharacter carries only the display-safe character fields.
// Internal bookkeeping (timestamps, file references) is dropped before
// anything reaches a prompt.
type SanitizedCharacter struct {
	ID            string
	Name          string
	Personality   string
	Traits        string
	Background    string
	Appearance    string
	Relationships []character.Relationship
	WorldID       string
}

// MapRelationships summarizes one-hop map adjacency for a character.
type MapRelationships struct {
	Connections            []world.Neighbor
	TotalConnections       int
	CharacterConnections   int
	EnvironmentConnections int
}

// WorldInfo is the mode-shaped world section of a context bundle.
type WorldInfo struct {
	Name        string
	Description string
	Rules       string
	ChatHint    string
}

// TimelineEntry is a formatted timeline event with its relevance to the
// subject character precomputed.
type TimelineEntry struct {
	Title               string
	Date                string
	Description         string
	RelevantToCharacter bool
}

// ContextBundle is the per-request aggregation of everything known about
// a character. It is constructed fresh for each chat turn and never
// persisted.
type ContextBundle struct {
	Character        SanitizedCharacter
	Memories         []memory.Memory
	WorldInfo        *WorldInfo
	WorldTimeline    []TimelineEntry
	MapRelationships *MapRelationships
	Mode             Mode
	Degraded         []DegradeReason
}

const (
	recentMemoryLimit = 10
	otherEventsCap    = 5
	loungeWorldName   = "Character Lounge"
	loungeHint        = "You're in a casual conversation outside your normal fictional setting. Focus on your personality and background, but don't reference any specific setting unless asked."
	worldChatHint     = "In chat mode, you should acknowledge your world origin if directly asked, but don't focus on it. This is a casual conversation, not a roleplay in your fictional setting."
)

func sanitizeCharacter(c *character.Character) SanitizedCharacter {
	return SanitizedCharacter{
		ID:            c.ID,
		Name:          c.Name,
		Personality:   c.Personality,
		Traits:        c.Traits,
		Background:    c.Background,
		Appearance:    c.Appearance,
		Relationships: c.Relationships,
		WorldID:       c.WorldID,
	}
}

type memorySubsets struct {
	relevant    []memory.Memory
	personality []memory.Memory
	recent      []memory.Memory
	failed      bool
}

// fetchMemorySubsets issues the three independent subset queries
// concurrently and joins them. A failed subset is treated as empty.
func fetchMemorySubsets(ctx context.Context, src MemorySource, characterID, conversationText string) memorySubsets {
	var subsets memorySubsets
	if src == nil {
		subsets.failed = true
		return subsets
	}

	type result struct {
		which    int
		memories []memory.Memory
		err      error
	}
	results := make(chan result, 3)

	go func() {
		if conversationText == "" {
			results <- result{which: 0}
			return
		}
		m, err := src.RelevantMemories(ctx, characterID, conversationText)
		results <- result{which: 0, memories: m, err: err}
	}()
	go func() {
		m, err := src.PersonalityMemories(ctx, characterID)
		results <- result{which: 1, memories: m, err: err}
	}()
	go func() {
		m, err := src.RecentMemories(ctx, characterID, recentMemoryLimit)
		results <- result{which: 2, memories: m, err: err}
	}()

	for i := 0; i < 3; i++ {
		r := <-results
		if r.err != nil {
			subsets.failed = true
			continue
		}
		switch r.which {
		case 0:
			subsets.relevant = r.memories
		case 1:
			subsets.personality = r.memories
		case 2:
			subsets.recent = r.memories
		}
	}
	return subsets
}

// BuildContext aggregates character identity, memories, world facts, and
// map adjacency into a ContextBundle. Optional sources that fail are
// recorded as degrade reasons and skipped; only a missing character id is
// a hard error.
func BuildContext(ctx context.Context, src Sources, c *character.Character, conversationText string, opts ContextOptions) (*ContextBundle, error) {
	if c == nil || c.ID == "" {
		return nil, ErrInvalidCharacter
	}

	mode := opts.Mode
	if mode == "" {
		mode = ModeChat
	}

	bundle := &ContextBundle{
		Character: sanitizeCharacter(c),
		Mode:      mode,
	}

	// Map adjacency, one hop from the character's node.
	if src.Map != nil {
		graph, err := src.Map.GetMapGraph(ctx)
		if err != nil {
			bundle.degrade(DegradeMap)
		} else if node := graph.NodeForCharacter(c.ID); node != nil {
			neighbors := graph.Neighbors(node.ID)
			rel := &MapRelationships{
				Connections:      neighbors,
				TotalConnections: len(neighbors),
			}
			for _, n := range neighbors {
				switch {
				case n.IsCharacter():
					rel.CharacterConnections++
				case n.IsEnvironment():
					rel.EnvironmentConnections++
				}
			}
			bundle.MapRelationships = rel
		}
	}

	// Memory subsets, merged and de-duplicated. Relevant memories come
	// first so they survive the dedupe.
	subsets := fetchMemorySubsets(ctx, src.Memories, c.ID, conversationText)
	if subsets.failed {
		bundle.degrade(DegradeMemories)
	}
	merged := memory.Merge(subsets.relevant, subsets.personality, subsets.recent)
	for i := range merged {
		merged[i].Normalize()
	}
	bundle.Memories = merged

	// World and timeline, shaped by mode.
	switch {
	case c.WorldID != "" && src.Worlds != nil:
		w, err := src.Worlds.GetWorld(ctx, c.WorldID)
		if err != nil || w == nil {
			if err != nil {
				bundle.degrade(DegradeWorld)
			}
			break
		}
		if mode == ModeCampaign {
			bundle.WorldInfo = &WorldInfo{
				Name:        w.Name,
				Description: w.Description,
				Rules:       w.Rules,
			}
			events, err := src.Worlds.GetTimeline(ctx, c.WorldID)
			if err != nil {
				bundle.degrade(DegradeTimeline)
				break
			}
			for _, e := range world.EventsForWorld(events, c.WorldID) {
				bundle.WorldTimeline = append(bundle.WorldTimeline, TimelineEntry{
					Title:               e.Title,
					Date:                e.Date,
					Description:         e.Description,
					RelevantToCharacter: e.InvolvesCharacter(c.ID),
				})
			}
		} else {
			bundle.WorldInfo = &WorldInfo{
				Name:     w.Name,
				ChatHint: worldChatHint,
			}
		}
	case c.WorldID == "" && mode == ModeChat:
		bundle.WorldInfo = &WorldInfo{
			Name:     loungeWorldName,
			ChatHint: loungeHint,
		}
	}

	return bundle, nil
}

func (b *ContextBundle) degrade(reason DegradeReason) {
	for _, r := range b.Degraded {
		if r == reason {
			return
		}
	}
	b.Degraded = append(b.Degraded, reason)
}
