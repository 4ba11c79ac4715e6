// Package world holds the fictional-world records a character can be
// grounded in: world descriptions, chronological events, and the map
// graph connecting characters and locations.
package world

import (
	"sort"
	"time"
)

// World is a user-authored fictional setting. Read-only from the
// perspective of chat context assembly.
type World struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Rules       string    `json:"rules,omitempty"`
	Lore        string    `json:"lore,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// TimelineEvent is a dated event in a world's history. Dates are plain
// strings that sort lexicographically (e.g. "1042-03-01" or "Year 12").
type TimelineEvent struct {
	Title        string   `json:"title"`
	Date         string   `json:"date"`
	Description  string   `json:"description,omitempty"`
	WorldID      string   `json:"world_id"`
	CharacterIDs []string `json:"character_ids,omitempty"`
}

// InvolvesCharacter reports whether the event lists the character as a
// participant.
func (e *TimelineEvent) InvolvesCharacter(characterID string) bool {
	for _, id := range e.CharacterIDs {
		if id == characterID {
			return true
		}
	}
	return false
}

// EventsForWorld filters events to a world and sorts them ascending by
// date string.
func EventsForWorld(events []TimelineEvent, worldID string) []TimelineEvent {
	var out []TimelineEvent
	for _, e := range events {
		if e.WorldID == worldID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}
