package prompts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/asperstar/worldbuilder/pkg/character"
	"github.com/asperstar/worldbuilder/pkg/chat"
)

// ErrCharacterNotFound is returned when prompt composition is attempted
// without a character.
var ErrCharacterNotFound = errors.New("character not found")

// RPModeFamilyFriendly selects the stricter of the two safety-mode
// instructions. Any other value gets the default (lax) instruction.
const RPModeFamilyFriendly = "family-friendly"

// DeteriorationLevel is a discrete tone state derived from conversation
// length, used by templates that model a character's psychological state
// eroding over a conversation.
type DeteriorationLevel string

const (
	LevelFresh               DeteriorationLevel = "fresh"
	LevelShowingCracks       DeteriorationLevel = "showing_cracks"
	LevelDeteriorated        DeteriorationLevel = "deteriorated"
	LevelHeavilyDeteriorated DeteriorationLevel = "heavily_deteriorated"
)

// ResetPhrase forces the deterioration level back to fresh when present
// in the incoming message, regardless of conversation length. The check
// happens at response time: callers pass ForceFresh rather than relying
// on a level computed from a stale history.
const ResetPhrase = "protocol alpha"

// DeteriorationFor maps conversation length to a tone state. Pure step
// function: fresh for <=3 messages, showing_cracks for 4-8,
// deteriorated for 9-15, heavily_deteriorated above that.
func DeteriorationFor(messageCount int) DeteriorationLevel {
	switch {
	case messageCount > 15:
		return LevelHeavilyDeteriorated
	case messageCount > 8:
		return LevelDeteriorated
	case messageCount > 3:
		return LevelShowingCracks
	default:
		return LevelFresh
	}
}

// ContainsResetPhrase reports whether the message contains the
// deterioration reset phrase, ignoring case.
func ContainsResetPhrase(message string) bool {
	return strings.Contains(strings.ToLower(message), ResetPhrase)
}

// ComposeOptions tune prompt composition for a single turn.
type ComposeOptions struct {
	// RPMode selects the safety-mode instruction appended to every
	// prompt: RPModeFamilyFriendly or default lax.
	RPMode string
	// Memories is the pre-formatted memories text from the context
	// builder, appended verbatim when non-empty.
	Memories string
	// ForceFresh overrides the length-derived deterioration level, set
	// when the incoming message contains the reset phrase.
	ForceFresh bool
}

// ComposePrompt renders a character's full system prompt: archetype or
// custom identity block, then memories, relationships, special
// abilities, trigger catalogue, and writing-style sample when present,
// and finally one of the two safety-mode instructions. Output is
// deterministic for identical inputs; the only conversation-derived
// state is len(history).
func ComposePrompt(c *character.Character, history []chat.ChatMessage, opts ComposeOptions) (string, error) {
	if c == nil {
		return "", ErrCharacterNotFound
	}

	var sb strings.Builder

	switch c.TemplateTag {
	case character.TemplateCipherAlpha:
		sb.WriteString(cipherAlphaPrompt())
	case character.TemplateDeeDeeAlpha:
		level := DeteriorationFor(len(history))
		if opts.ForceFresh {
			level = LevelFresh
		}
		sb.WriteString(deeDeeAlphaPrompt(level))
	case character.TemplateOgeRelic:
		sb.WriteString(ogeRelicPrompt())
	default:
		sb.WriteString(customPrompt(c))
	}

	if opts.Memories != "" {
		sb.WriteString("\n\n=== MEMORIES ===\n")
		sb.WriteString(opts.Memories)
	}

	if len(c.Relationships) > 0 {
		sb.WriteString("\n\n=== RELATIONSHIPS ===\n")
		for _, rel := range c.Relationships {
			fmt.Fprintf(&sb, "**%s**: %s\n", rel.Name, rel.Description)
		}
	}

	if len(c.SpecialAbilities) > 0 {
		sb.WriteString("\n\n=== SPECIAL ABILITIES ===\n")
		for _, ability := range c.SpecialAbilities {
			fmt.Fprintf(&sb, "- %s\n", ability)
		}
	}

	// The trigger catalogue keeps the model aware of authored reactions.
	// Actual trigger matching happens before any provider call.
	if len(c.Triggers) > 0 {
		sb.WriteString("\n\n=== TRIGGER RESPONSES ===\n")
		for _, t := range c.Triggers {
			fmt.Fprintf(&sb, "When someone says %q: %s\n", t.Phrase, t.Response)
		}
	}

	if c.WritingSample != "" {
		sb.WriteString("\n\n=== WRITING STYLE EXAMPLE ===\n")
		sb.WriteString(c.WritingSample)
	}

	sb.WriteString(safetyInstruction(opts.RPMode))

	return sb.String(), nil
}

func safetyInstruction(rpMode string) string {
	if rpMode == RPModeFamilyFriendly {
		return "\n\nAvoid any sexual content, violence, or morally ambiguous themes. Respond with a positive, safe tone."
	}
	return "\n\nAvoid sexual content, but you may include violent or morally ambiguous themes as appropriate to your character."
}
