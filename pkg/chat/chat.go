// Package chat defines the wire types shared by the API handlers, the
// provider router, and the console client.
package chat

import "fmt"

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
	ChatRoleSystem    = "system"
)

// ChatMessage is a single message in a conversation, in the role/content
// shape both providers accept.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// ProviderRequest is the payload of POST /api/chat: a pre-composed system
// prompt plus conversation, with explicit provider selection hints.
type ProviderRequest struct {
	SystemPrompt string        `json:"systemPrompt"`
	UserMessage  string        `json:"userMessage"`
	Messages     []ChatMessage `json:"messages,omitempty"`
	Character    string        `json:"character,omitempty"` // display name, used for reply prefix cleanup
	UseAnthropic bool          `json:"useAnthropic,omitempty"`
	UseGrok3     bool          `json:"useGrok3,omitempty"`
	Temperature  *float64      `json:"temperature,omitempty"`
}

// Validate checks the required fields of the raw provider contract.
func (r *ProviderRequest) Validate() error {
	if r.SystemPrompt == "" {
		return fmt.Errorf("systemPrompt is required")
	}
	if r.UserMessage == "" {
		return fmt.Errorf("userMessage is required")
	}
	return nil
}

// ProviderResponse is the success payload of POST /api/chat.
type ProviderResponse struct {
	Response  string `json:"response"`
	APIUsed   string `json:"apiUsed"` // "anthropic", "grok", or "grok_fallback"
	Character string `json:"character,omitempty"`
}

// ChatRequest is the payload of POST /v1/chat: a character-grounded chat
// turn where the server assembles context and composes the prompt.
type ChatRequest struct {
	CharacterID string        `json:"character_id"`
	Message     string        `json:"message"`
	History     []ChatMessage `json:"history,omitempty"`
	Mode        string        `json:"mode,omitempty"`    // "chat" (default) or "campaign"
	RPMode      string        `json:"rp_mode,omitempty"` // "family-friendly" or default lax
	Temperature *float64      `json:"temperature,omitempty"`
}

// Validate checks required fields of a character chat turn.
func (r *ChatRequest) Validate() error {
	if r.CharacterID == "" {
		return fmt.Errorf("character_id is required")
	}
	if r.Message == "" {
		return fmt.Errorf("message cannot be empty")
	}
	return nil
}

// Response sources.
const (
	SourceCharacterTrigger = "character_trigger"
	SourceAnthropic        = "anthropic"
	SourceGrok             = "grok"
	SourceGrokFallback     = "grok_fallback"
)

// ChatResponse is the result of a character chat turn. TriggerUsed is set
// only when a character trigger short-circuited the provider call.
type ChatResponse struct {
	Response    string `json:"response"`
	Character   string `json:"character,omitempty"`
	Source      string `json:"source,omitempty"`
	TriggerUsed string `json:"trigger_used,omitempty"`
}

// ErrorResponse is the JSON error envelope for all chat endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
