package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(offset int) time.Time {
	return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(offset) * time.Hour)
}

func TestMerge_DeduplicatesByID(t *testing.T) {
	a := []Memory{{ID: "1", Content: "first"}, {ID: "2", Content: "second"}}
	b := []Memory{{ID: "2", Content: "second again"}, {ID: "3", Content: "third"}}

	merged := Merge(a, b)
	assert.Len(t, merged, 3)
	assert.Equal(t, "first", merged[0].Content)
	// The earlier subset's copy of a duplicate wins.
	assert.Equal(t, "second", merged[1].Content)
	assert.Equal(t, "third", merged[2].Content)
}

func TestMerge_EmptySubsets(t *testing.T) {
	assert.Empty(t, Merge(nil, nil))
	assert.Len(t, Merge(nil, []Memory{{ID: "1"}}), 1)
}

func TestRelevant(t *testing.T) {
	memories := []Memory{
		{ID: "1", Content: "Loves chamomile tea above all else", Timestamp: ts(0)},
		{ID: "2", Content: "Is terrified of the moon", Timestamp: ts(2)},
		{ID: "3", Content: "Once pranked the entire clan", Timestamp: ts(1)},
	}

	got := Relevant(memories, "tell me about the moon", 10)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "2", got[0].ID)
	}

	// Short words are ignored as keywords.
	assert.Empty(t, Relevant(memories, "is it up", 10))
	assert.Empty(t, Relevant(memories, "", 10))
}

func TestRelevant_RecencyOrderAndLimit(t *testing.T) {
	memories := []Memory{
		{ID: "old", Content: "prank one", Timestamp: ts(0)},
		{ID: "new", Content: "prank two", Timestamp: ts(5)},
		{ID: "mid", Content: "prank three", Timestamp: ts(2)},
	}

	got := Relevant(memories, "remember that prank?", 2)
	if assert.Len(t, got, 2) {
		assert.Equal(t, "new", got[0].ID)
		assert.Equal(t, "mid", got[1].ID)
	}
}

func TestPersonalityDefining(t *testing.T) {
	memories := []Memory{
		{ID: "1", Type: TypeFact},
		{ID: "2", Type: TypePersonality},
		{ID: "3", Type: TypePersonality},
	}
	got := PersonalityDefining(memories)
	assert.Len(t, got, 2)
}

func TestMostRecent(t *testing.T) {
	memories := []Memory{
		{ID: "a", Timestamp: ts(1)},
		{ID: "b", Timestamp: ts(3)},
		{ID: "c", Timestamp: ts(2)},
	}
	got := MostRecent(memories, 2)
	if assert.Len(t, got, 2) {
		assert.Equal(t, "b", got[0].ID)
		assert.Equal(t, "c", got[1].ID)
	}
	// Input slice is not mutated.
	assert.Equal(t, "a", memories[0].ID)
}

func TestGroupByTypeAndSortForContext(t *testing.T) {
	memories := []Memory{
		{ID: "1", Type: TypeFact, Importance: 3, Timestamp: ts(0)},
		{ID: "2", Type: TypeFact, Importance: 9, Timestamp: ts(1)},
		{ID: "3", Type: "", Importance: 5},
		{ID: "4", Type: TypeFact, Importance: 9, Timestamp: ts(4)},
	}

	groups := GroupByType(memories)
	assert.Len(t, groups[TypeFact], 3)
	assert.Len(t, groups[TypeOther], 1)

	facts := groups[TypeFact]
	SortForContext(facts)
	assert.Equal(t, "4", facts[0].ID) // importance 9, newest
	assert.Equal(t, "2", facts[1].ID) // importance 9, older
	assert.Equal(t, "1", facts[2].ID)
}

func TestNormalize(t *testing.T) {
	m := &Memory{}
	m.Normalize()
	assert.Equal(t, TypeOther, m.Type)
	assert.Equal(t, DefaultImportance, m.Importance)

	m = &Memory{Type: TypeEvent, Importance: 11}
	m.Normalize()
	assert.Equal(t, TypeEvent, m.Type)
	assert.Equal(t, DefaultImportance, m.Importance)
}
