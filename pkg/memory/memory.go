// Package memory defines persisted character memories and the selection
// helpers used when assembling chat context.
package memory

import (
	"sort"
	"strings"
	"time"
)

// Memory types. Personality memories are always pulled into context;
// the rest compete on relevance and recency.
const (
	TypeFact         = "fact"
	TypeEvent        = "event"
	TypePersonality  = "personality"
	TypeConversation = "conversation"
	TypeOther        = "other"
)

const DefaultImportance = 5

// Memory is a short persisted fact about a character, tagged with a type
// and an importance score used to bias response content.
type Memory struct {
	ID          string    `json:"id"` // ULID, sortable by creation time
	CharacterID string    `json:"character_id"`
	Content     string    `json:"content"`
	Type        string    `json:"type"`
	Importance  int       `json:"importance"` // 1-10
	Timestamp   time.Time `json:"timestamp"`
}

// Normalize fills defaults for records written before importance and
// type tagging existed.
func (m *Memory) Normalize() {
	if m.Type == "" {
		m.Type = TypeOther
	}
	if m.Importance < 1 || m.Importance > 10 {
		m.Importance = DefaultImportance
	}
}

// Merge combines memory subsets in order, dropping duplicates by ID.
// Earlier subsets win, so callers should pass the most relevant set first.
func Merge(subsets ...[]Memory) []Memory {
	seen := make(map[string]bool)
	var combined []Memory
	for _, subset := range subsets {
		for _, m := range subset {
			if m.ID != "" && seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			combined = append(combined, m)
		}
	}
	return combined
}

// Relevant filters memories by naive keyword overlap with the
// conversation text, most recent first. Words shorter than four
// characters are ignored to keep stopwords from matching everything.
func Relevant(memories []Memory, conversationText string, limit int) []Memory {
	if conversationText == "" {
		return nil
	}

	var keywords []string
	for _, w := range strings.Fields(strings.ToLower(conversationText)) {
		w = strings.Trim(w, ".,!?;:\"'")
		if len(w) >= 4 {
			keywords = append(keywords, w)
		}
	}
	if len(keywords) == 0 {
		return nil
	}

	var matched []Memory
	for _, m := range memories {
		content := strings.ToLower(m.Content)
		for _, kw := range keywords {
			if strings.Contains(content, kw) {
				matched = append(matched, m)
				break
			}
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}

// PersonalityDefining returns the memories tagged as personality-defining.
func PersonalityDefining(memories []Memory) []Memory {
	var out []Memory
	for _, m := range memories {
		if m.Type == TypePersonality {
			out = append(out, m)
		}
	}
	return out
}

// MostRecent returns up to n memories sorted by timestamp descending.
func MostRecent(memories []Memory, n int) []Memory {
	sorted := make([]Memory, len(memories))
	copy(sorted, memories)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// GroupByType buckets memories by type tag, preserving input order
// within each bucket. Untyped memories land in the "other" bucket.
func GroupByType(memories []Memory) map[string][]Memory {
	groups := make(map[string][]Memory)
	for _, m := range memories {
		typ := m.Type
		if typ == "" {
			typ = TypeOther
		}
		groups[typ] = append(groups[typ], m)
	}
	return groups
}

// SortForContext orders a group by importance descending, breaking ties
// by recency. This is the in-section ordering of the context text.
func SortForContext(group []Memory) {
	sort.SliceStable(group, func(i, j int) bool {
		if group[i].Importance != group[j].Importance {
			return group[i].Importance > group[j].Importance
		}
		return group[i].Timestamp.After(group[j].Timestamp)
	})
}
