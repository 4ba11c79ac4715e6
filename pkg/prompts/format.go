package prompts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/asperstar/worldbuilder/pkg/memory"
)

var titleCaser = cases.Title(language.English)

// Format renders the bundle as a single labeled text block, ready to be
// appended to a system prompt. Section order is fixed: character info,
// relationships, memories, world info, timeline, spatial relationships,
// closing guidance. Output is deterministic for identical bundles.
func (b *ContextBundle) Format() string {
	sections := []func(*strings.Builder){
		b.writeCharacterInfo,
		b.writeRelationships,
		b.writeMemories,
		b.writeWorldInfo,
		b.writeTimeline,
		b.writeMapRelationships,
		b.writeClosingGuidance,
	}

	var sb strings.Builder
	for _, write := range sections {
		write(&sb)
	}
	return sb.String()
}

func (b *ContextBundle) writeCharacterInfo(sb *strings.Builder) {
	sb.WriteString("## Character Information\n")
	fmt.Fprintf(sb, "Name: %s\n", b.Character.Name)
	if b.Character.Personality != "" {
		fmt.Fprintf(sb, "Personality: %s\n", b.Character.Personality)
	}
	if b.Character.Traits != "" {
		fmt.Fprintf(sb, "Traits: %s\n", b.Character.Traits)
	}
	if b.Character.Background != "" {
		fmt.Fprintf(sb, "Background: %s\n", b.Character.Background)
	}
	if b.Character.Appearance != "" {
		fmt.Fprintf(sb, "Appearance: %s\n", b.Character.Appearance)
	}
}

func (b *ContextBundle) writeRelationships(sb *strings.Builder) {
	if len(b.Character.Relationships) == 0 {
		return
	}
	sb.WriteString("\n## Character Relationships\n")
	for _, rel := range b.Character.Relationships {
		fmt.Fprintf(sb, "- %s: %s\n", rel.Name, rel.Description)
	}
}

func (b *ContextBundle) writeMemories(sb *strings.Builder) {
	if len(b.Memories) == 0 {
		return
	}
	sb.WriteString("\n## Character Memories\n")

	groups := memory.GroupByType(b.Memories)
	types := make([]string, 0, len(groups))
	for typ := range groups {
		types = append(types, typ)
	}
	sort.Strings(types)

	for _, typ := range types {
		group := groups[typ]
		memory.SortForContext(group)
		fmt.Fprintf(sb, "\n### %s Memories\n", titleCaser.String(typ))
		for _, m := range group {
			fmt.Fprintf(sb, "- %s\n", m.Content)
		}
	}
}

func (b *ContextBundle) writeWorldInfo(sb *strings.Builder) {
	if b.WorldInfo == nil {
		return
	}
	sb.WriteString("\n## World Information\n")
	fmt.Fprintf(sb, "World Name: %s\n", b.WorldInfo.Name)

	if b.WorldInfo.ChatHint != "" && b.Mode == ModeChat {
		fmt.Fprintf(sb, "\n### Chat Mode Context\n%s\n", b.WorldInfo.ChatHint)
		return
	}
	if b.WorldInfo.Description != "" {
		fmt.Fprintf(sb, "\n### World Description\n%s\n", b.WorldInfo.Description)
	}
	if b.WorldInfo.Rules != "" {
		fmt.Fprintf(sb, "\n### World Rules\n%s\n", b.WorldInfo.Rules)
	}
}

func (b *ContextBundle) writeTimeline(sb *strings.Builder) {
	if len(b.WorldTimeline) == 0 {
		return
	}
	sb.WriteString("\n## Timeline Events\n")

	var relevant, other []TimelineEntry
	for _, e := range b.WorldTimeline {
		if e.RelevantToCharacter {
			relevant = append(relevant, e)
		} else {
			other = append(other, e)
		}
	}

	if len(relevant) > 0 {
		sb.WriteString("\n### Events Involving This Character\n")
		for _, e := range relevant {
			fmt.Fprintf(sb, "- %s: %s - %s\n", e.Date, e.Title, e.Description)
		}
	}
	if len(other) > 0 {
		sb.WriteString("\n### Other World Events\n")
		if len(other) > otherEventsCap {
			other = other[:otherEventsCap]
		}
		for _, e := range other {
			fmt.Fprintf(sb, "- %s: %s - %s\n", e.Date, e.Title, e.Description)
		}
	}
}

func (b *ContextBundle) writeMapRelationships(sb *strings.Builder) {
	if b.MapRelationships == nil {
		return
	}
	sb.WriteString("\n## Spatial Relationships\n")

	if len(b.MapRelationships.Connections) == 0 {
		sb.WriteString("This character has no mapped connections to other characters or locations.\n")
		return
	}

	sb.WriteString("This character has connections to the following:\n")

	var wroteCharacters bool
	for _, conn := range b.MapRelationships.Connections {
		if !conn.IsCharacter() {
			continue
		}
		if !wroteCharacters {
			sb.WriteString("\n### Connected Characters\n")
			wroteCharacters = true
		}
		fmt.Fprintf(sb, "- %s\n", conn.Name)
	}

	var wroteLocations bool
	for _, conn := range b.MapRelationships.Connections {
		if !conn.IsEnvironment() {
			continue
		}
		if !wroteLocations {
			sb.WriteString("\n### Connected Locations\n")
			wroteLocations = true
		}
		fmt.Fprintf(sb, "- %s\n", conn.Name)
	}
}

func (b *ContextBundle) writeClosingGuidance(sb *strings.Builder) {
	fmt.Fprintf(sb, "\n## Response Guidance\nWhen responding as %s, incorporate relevant aspects of the character's personality, memories, and knowledge of their world. Stay true to character traits and history while interacting naturally.", b.Character.Name)
}
