package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventsForWorld(t *testing.T) {
	events := []TimelineEvent{
		{Title: "Founding", Date: "1042-01-01", WorldID: "w1"},
		{Title: "Elsewhere", Date: "0900-01-01", WorldID: "w2"},
		{Title: "The Hallow War", Date: "0998-06-12", WorldID: "w1"},
		{Title: "Undated", Date: "", WorldID: "w1"},
	}

	got := EventsForWorld(events, "w1")
	if assert.Len(t, got, 3) {
		// Ascending lexicographic date order; empty dates sort first.
		assert.Equal(t, "Undated", got[0].Title)
		assert.Equal(t, "The Hallow War", got[1].Title)
		assert.Equal(t, "Founding", got[2].Title)
	}

	assert.Empty(t, EventsForWorld(events, "w3"))
}

func TestInvolvesCharacter(t *testing.T) {
	e := TimelineEvent{CharacterIDs: []string{"a", "b"}}
	assert.True(t, e.InvolvesCharacter("a"))
	assert.False(t, e.InvolvesCharacter("c"))
}

func testGraph() *MapGraph {
	return &MapGraph{
		Nodes: []MapNode{
			{ID: "n1", Type: NodeTypeCharacter, Label: "Cipher", CharacterID: "char-cipher"},
			{ID: "n2", Type: NodeTypeCharacter, Label: "Oge", CharacterID: "char-oge"},
			{ID: "n3", Type: NodeTypeEnvironment, Label: "Clan Alpha Hall"},
			{ID: "n4", Type: NodeTypeEnvironment, Label: ""},
		},
		Edges: []MapEdge{
			{Source: "n1", Target: "n2", Type: "rivals"},
			{Source: "n3", Target: "n1", Type: "lives_in"},
			{Source: "n1", Target: "n4"},
			{Source: "n1", Target: "missing"},
			{Source: "n2", Target: "n3"},
		},
	}
}

func TestNodeForCharacter(t *testing.T) {
	g := testGraph()

	node := g.NodeForCharacter("char-cipher")
	if assert.NotNil(t, node) {
		assert.Equal(t, "n1", node.ID)
	}

	assert.Nil(t, g.NodeForCharacter("char-unknown"))
	assert.Nil(t, g.NodeForCharacter(""))

	var nilGraph *MapGraph
	assert.Nil(t, nilGraph.NodeForCharacter("char-cipher"))
}

func TestNeighbors(t *testing.T) {
	g := testGraph()

	neighbors := g.Neighbors("n1")
	if assert.Len(t, neighbors, 3) {
		assert.Equal(t, "Oge", neighbors[0].Name)
		assert.Equal(t, "rivals", neighbors[0].RelationType)
		assert.True(t, neighbors[0].IsCharacter())

		assert.Equal(t, "Clan Alpha Hall", neighbors[1].Name)
		assert.True(t, neighbors[1].IsEnvironment())

		// Unlabeled nodes and untyped edges get defaults; edges to
		// unknown nodes are dropped entirely.
		assert.Equal(t, "Unknown", neighbors[2].Name)
		assert.Equal(t, "connected", neighbors[2].RelationType)
	}

	assert.Len(t, g.Neighbors("n4"), 1, "adjacency is symmetric")
	assert.Nil(t, g.Neighbors(""))
}
