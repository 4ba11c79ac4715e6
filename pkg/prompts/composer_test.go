package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asperstar/worldbuilder/pkg/character"
	"github.com/asperstar/worldbuilder/pkg/chat"
)

func historyOfLength(n int) []chat.ChatMessage {
	msgs := make([]chat.ChatMessage, n)
	for i := range msgs {
		role := chat.ChatRoleUser
		if i%2 == 1 {
			role = chat.ChatRoleAssistant
		}
		msgs[i] = chat.ChatMessage{Role: role, Content: "message"}
	}
	return msgs
}

func TestComposePrompt_NilCharacter(t *testing.T) {
	_, err := ComposePrompt(nil, nil, ComposeOptions{})
	assert.ErrorIs(t, err, ErrCharacterNotFound)
}

func TestComposePrompt_CustomCharacter(t *testing.T) {
	c := &character.Character{
		ID:          "char-1",
		Name:        "Morwen",
		Personality: "Stern but fair",
		Background:  "Raised by librarians",
		Appearance:  "Grey cloak",
		Traits:      "meticulous",
		TemplateTag: character.TemplateCustom,
	}

	prompt, err := ComposePrompt(c, nil, ComposeOptions{})
	require.NoError(t, err)

	assert.Contains(t, prompt, "You are Morwen.")
	assert.Contains(t, prompt, "=== PERSONALITY ===\nStern but fair")
	assert.Contains(t, prompt, "=== BACKGROUND ===\nRaised by librarians")
	assert.Contains(t, prompt, "=== APPEARANCE ===\nGrey cloak")
	assert.Contains(t, prompt, "=== KEY TRAITS ===\nmeticulous")
	assert.Contains(t, prompt, "Stay completely in character as Morwen")
}

func TestComposePrompt_UnknownTagComposesAsCustom(t *testing.T) {
	c := &character.Character{ID: "x", Name: "Nameless", TemplateTag: "something_else"}
	prompt, err := ComposePrompt(c, nil, ComposeOptions{})
	require.NoError(t, err)
	assert.Contains(t, prompt, "You are Nameless.")
}

func TestComposePrompt_OptionalBlocks(t *testing.T) {
	c := &character.Character{
		ID:            "char-1",
		Name:          "Cipher",
		TemplateTag:   character.TemplateCipherAlpha,
		Relationships: []character.Relationship{{Name: "Oge", Description: "prank target"}},
		Triggers: []character.Trigger{
			{Phrase: "moon", Response: "It's a hologram."},
		},
		SpecialAbilities: []string{"Mind jumping"},
		WritingSample:    "Oh, you sweet summer child.",
	}

	prompt, err := ComposePrompt(c, nil, ComposeOptions{Memories: "Remembers everything."})
	require.NoError(t, err)

	assert.Contains(t, prompt, "You are Cipher Alpha")
	assert.Contains(t, prompt, "=== MEMORIES ===\nRemembers everything.")
	assert.Contains(t, prompt, "=== RELATIONSHIPS ===\n**Oge**: prank target")
	assert.Contains(t, prompt, "=== SPECIAL ABILITIES ===\n- Mind jumping")
	assert.Contains(t, prompt, `When someone says "moon": It's a hologram.`)
	assert.Contains(t, prompt, "=== WRITING STYLE EXAMPLE ===\nOh, you sweet summer child.")
}

func TestComposePrompt_OmitsEmptyBlocks(t *testing.T) {
	c := &character.Character{ID: "char-1", Name: "Plain", TemplateTag: character.TemplateCustom}
	prompt, err := ComposePrompt(c, nil, ComposeOptions{})
	require.NoError(t, err)

	assert.NotContains(t, prompt, "=== MEMORIES ===")
	assert.NotContains(t, prompt, "=== RELATIONSHIPS ===")
	assert.NotContains(t, prompt, "=== SPECIAL ABILITIES ===")
	assert.NotContains(t, prompt, "=== TRIGGER RESPONSES ===")
	assert.NotContains(t, prompt, "=== WRITING STYLE EXAMPLE ===")
}

func TestComposePrompt_SafetyModes(t *testing.T) {
	c := &character.Character{ID: "char-1", Name: "Plain"}

	lax, err := ComposePrompt(c, nil, ComposeOptions{})
	require.NoError(t, err)
	assert.Contains(t, lax, "violent or morally ambiguous themes as appropriate")

	family, err := ComposePrompt(c, nil, ComposeOptions{RPMode: RPModeFamilyFriendly})
	require.NoError(t, err)
	assert.Contains(t, family, "positive, safe tone")
	assert.NotContains(t, family, "as appropriate to your character")
}

func TestComposePrompt_Deterministic(t *testing.T) {
	c := &character.Character{
		ID:          "char-1",
		Name:        "DeeDee",
		TemplateTag: character.TemplateDeeDeeAlpha,
	}
	history := historyOfLength(7)

	first, err := ComposePrompt(c, history, ComposeOptions{RPMode: RPModeFamilyFriendly})
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := ComposePrompt(c, history, ComposeOptions{RPMode: RPModeFamilyFriendly})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestDeteriorationFor(t *testing.T) {
	tests := []struct {
		count int
		want  DeteriorationLevel
	}{
		{0, LevelFresh},
		{3, LevelFresh},
		{4, LevelShowingCracks},
		{8, LevelShowingCracks},
		{9, LevelDeteriorated},
		{15, LevelDeteriorated},
		{16, LevelHeavilyDeteriorated},
		{100, LevelHeavilyDeteriorated},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeteriorationFor(tt.count), "count=%d", tt.count)
	}
}

func TestComposePrompt_DeteriorationInPrompt(t *testing.T) {
	c := &character.Character{ID: "char-1", Name: "DeeDee", TemplateTag: character.TemplateDeeDeeAlpha}

	fresh, err := ComposePrompt(c, historyOfLength(2), ComposeOptions{})
	require.NoError(t, err)
	assert.Contains(t, fresh, "Current State - FRESH")

	worn, err := ComposePrompt(c, historyOfLength(20), ComposeOptions{})
	require.NoError(t, err)
	assert.Contains(t, worn, "Current State - HEAVILY_DETERIORATED")
	assert.Contains(t, worn, "Acknowledged. Task parameters understood.")

	// The reset phrase forces fresh regardless of history length.
	reset, err := ComposePrompt(c, historyOfLength(20), ComposeOptions{ForceFresh: true})
	require.NoError(t, err)
	assert.Contains(t, reset, "Current State - FRESH")
}

func TestContainsResetPhrase(t *testing.T) {
	assert.True(t, ContainsResetPhrase("Protocol Alpha, now"))
	assert.True(t, ContainsResetPhrase("PROTOCOL ALPHA"))
	assert.False(t, ContainsResetPhrase("protocol beta"))
	assert.False(t, ContainsResetPhrase(""))
}
