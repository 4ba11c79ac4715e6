package services

import (
	"context"

	"github.com/asperstar/worldbuilder/pkg/chat"
)

const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1000
)

// GenerateRequest is the provider-neutral completion request. The system
// prompt and conversation history are kept separate so each provider can
// map them onto its own wire format.
type GenerateRequest struct {
	SystemPrompt string
	UserMessage  string
	Messages     []chat.ChatMessage
	Temperature  *float64
	MaxTokens    int
}

// LLMService defines the interface for interacting with an LLM provider
type LLMService interface {
	// Name identifies the provider in logs and response tags
	Name() string

	// Available reports whether the provider is configured with credentials
	Available() bool

	// GenerateResponse generates a completion for the request
	GenerateResponse(ctx context.Context, req *GenerateRequest) (string, error)
}
