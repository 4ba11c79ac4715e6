package character

import (
	"fmt"
	"time"
)

// Template tags for built-in character archetypes. Anything else
// (including an empty tag) is composed as a custom character.
const (
	TemplateCipherAlpha = "cipher_alpha"
	TemplateDeeDeeAlpha = "deedee_alpha"
	TemplateOgeRelic    = "oge_relic"
	TemplateCustom      = "custom"
)

// Relationship describes how a character relates to another named character.
// Multiple entries may reference the same name.
type Relationship struct {
	Name        string `json:"name"`
	Description string `json:"relationship"`
}

// Trigger is a character-authored phrase/response pair. When the phrase
// appears in an incoming message, the canned response is returned without
// calling an LLM provider.
type Trigger struct {
	Phrase   string `json:"phrase"`
	Response string `json:"response"`
}

// Character is a user-authored fictional character.
type Character struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Personality      string         `json:"personality,omitempty"`
	Background       string         `json:"background,omitempty"`
	Appearance       string         `json:"appearance,omitempty"`
	Traits           string         `json:"traits,omitempty"`
	WritingSample    string         `json:"writing_sample,omitempty"`
	WorldID          string         `json:"world_id,omitempty"`
	Relationships    []Relationship `json:"relationships,omitempty"`
	Triggers         []Trigger      `json:"triggers,omitempty"`
	SpecialAbilities []string       `json:"special_abilities,omitempty"`
	TemplateTag      string         `json:"template_tag,omitempty"` // one of the Template* constants
	CreatedAt        time.Time      `json:"created_at,omitempty"`
	UpdatedAt        time.Time      `json:"updated_at,omitempty"`
}

// Validate checks the invariants required before a character is persisted.
func (c *Character) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("character name cannot be empty")
	}
	return nil
}

// IsBuiltinTemplate reports whether the character uses one of the
// built-in archetype templates.
func (c *Character) IsBuiltinTemplate() bool {
	switch c.TemplateTag {
	case TemplateCipherAlpha, TemplateDeeDeeAlpha, TemplateOgeRelic:
		return true
	}
	return false
}
