package world

// Map node types.
const (
	NodeTypeCharacter   = "character"
	NodeTypeEnvironment = "environment"
)

// MapNode is a node in the world map: a character or an environment.
type MapNode struct {
	ID          string `json:"id"`
	Type        string `json:"type"` // "character" or "environment"
	Label       string `json:"label"`
	CharacterID string `json:"character_id,omitempty"`
}

// MapEdge connects two map nodes with a relation type.
type MapEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type,omitempty"` // e.g. "lives_in", "rivals"
}

// MapGraph is the node/edge graph connecting characters and locations.
type MapGraph struct {
	Nodes []MapNode `json:"nodes"`
	Edges []MapEdge `json:"edges"`
}

// Neighbor is a node directly connected to a character's node.
type Neighbor struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	RelationType string `json:"relation_type"`
}

// IsCharacter reports whether the neighbor is another character.
func (n Neighbor) IsCharacter() bool { return n.Type == NodeTypeCharacter }

// IsEnvironment reports whether the neighbor is a location.
func (n Neighbor) IsEnvironment() bool { return n.Type == NodeTypeEnvironment }

// NodeForCharacter returns the node tagged with the character's ID,
// or nil if the character has no node on the map.
func (g *MapGraph) NodeForCharacter(characterID string) *MapNode {
	if g == nil || characterID == "" {
		return nil
	}
	for i := range g.Nodes {
		if g.Nodes[i].CharacterID == characterID {
			return &g.Nodes[i]
		}
	}
	return nil
}

// Neighbors returns all nodes one hop away from the given node, in edge
// storage order. Edges referencing unknown nodes are skipped.
func (g *MapGraph) Neighbors(nodeID string) []Neighbor {
	if g == nil || nodeID == "" {
		return nil
	}

	byID := make(map[string]*MapNode, len(g.Nodes))
	for i := range g.Nodes {
		byID[g.Nodes[i].ID] = &g.Nodes[i]
	}

	var neighbors []Neighbor
	for _, e := range g.Edges {
		var otherID string
		switch nodeID {
		case e.Source:
			otherID = e.Target
		case e.Target:
			otherID = e.Source
		default:
			continue
		}

		node, ok := byID[otherID]
		if !ok {
			continue
		}

		relType := e.Type
		if relType == "" {
			relType = "connected"
		}
		name := node.Label
		if name == "" {
			name = "Unknown"
		}
		neighbors = append(neighbors, Neighbor{
			ID:           node.ID,
			Name:         name,
			Type:         node.Type,
			RelationType: relType,
		})
	}
	return neighbors
}
