// Package router decides which LLM provider answers a chat turn and
// runs the request with a single fallback hop.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/asperstar/worldbuilder/internal/apperrors"
	"github.com/asperstar/worldbuilder/internal/services"
	"github.com/asperstar/worldbuilder/pkg/character"
	"github.com/asperstar/worldbuilder/pkg/chat"
)

// RequestTimeout bounds a full generation attempt, fallback included.
const RequestTimeout = 30 * time.Second

// longConversationThreshold routes long sessions to the secondary
// provider, which holds coherence better over extended exchanges.
const longConversationThreshold = 20

// criticalPhrases route to the secondary provider. These are the
// interactions where response quality matters most: lore-critical
// moments, emotionally heavy topics, first impressions, and
// philosophical conversations.
var criticalPhrases = []string{
	"protocol alpha", "brainwashed", "free will", "embrace the void", "eternal sleep",
	"hallow infection", "master soul", "clan alpha", "clan relic",

	"trauma", "depression", "anxiety", "suicide", "self harm", "death",
	"love you", "relationship problems", "break up", "serious talk",

	"nice to meet", "new here", "introduction", "who are you exactly",

	"meaning of life", "existence", "deep philosophy", "consciousness",
}

// Router fronts the two LLM providers. Primary is the default; the
// secondary handles critical interactions and takes one fallback hop
// back to primary when it fails.
type Router struct {
	primary   services.LLMService
	secondary services.LLMService
	logger    *slog.Logger
}

func New(primary, secondary services.LLMService, logger *slog.Logger) *Router {
	return &Router{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

// PrimaryAvailable reports whether the primary provider is configured.
func (r *Router) PrimaryAvailable() bool {
	return r.primary != nil && r.primary.Available()
}

// SecondaryAvailable reports whether the secondary provider is configured.
func (r *Router) SecondaryAvailable() bool {
	return r.secondary != nil && r.secondary.Available()
}

// UseSecondary decides whether a chat turn should go to the secondary
// provider: character trigger phrases, critical topics, and long
// conversations all qualify. The decision looks only at the incoming
// message and history length, never at provider state.
func UseSecondary(c *character.Character, message string, conversationLength int) bool {
	if message == "" {
		return false
	}
	content := strings.ToLower(message)

	if c != nil {
		for _, trigger := range c.Triggers {
			if trigger.Phrase == "" {
				continue
			}
			if strings.Contains(content, strings.ToLower(trigger.Phrase)) {
				return true
			}
		}
	}

	for _, phrase := range criticalPhrases {
		if strings.Contains(content, phrase) {
			return true
		}
	}

	return conversationLength > longConversationThreshold
}

// Generate runs one chat turn. The request's UseAnthropic flag selects
// the secondary provider; when the secondary fails, the turn falls back
// to the primary with the history flattened into a single prompt, and
// the response is tagged grok_fallback. Primary failures are not
// retried.
func (r *Router) Generate(ctx context.Context, req *chat.ProviderRequest) (*chat.ProviderResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	if req.UseAnthropic && r.SecondaryAvailable() {
		return r.generateSecondary(ctx, req)
	}

	if !r.PrimaryAvailable() {
		return nil, apperrors.NewProviderUnavailable(fmt.Errorf("no provider configured"))
	}
	return r.generatePrimary(ctx, req)
}

func (r *Router) generateSecondary(ctx context.Context, req *chat.ProviderRequest) (*chat.ProviderResponse, error) {
	genReq := &services.GenerateRequest{
		SystemPrompt: req.SystemPrompt,
		UserMessage:  req.UserMessage,
		Messages:     conversationOnly(req.Messages),
		Temperature:  req.Temperature,
		MaxTokens:    services.DefaultMaxTokens,
	}

	text, err := r.secondary.GenerateResponse(ctx, genReq)
	if err == nil {
		return r.finish(text, chat.SourceAnthropic, req)
	}

	r.logger.Warn("Secondary provider failed, falling back to primary",
		"error", err,
		"character", req.Character)

	if !r.PrimaryAvailable() {
		return nil, mapProviderError(err)
	}

	fallbackReq := &services.GenerateRequest{
		UserMessage: flattenForFallback(req),
		Temperature: req.Temperature,
		MaxTokens:   services.DefaultMaxTokens,
	}
	text, fallbackErr := r.primary.GenerateResponse(ctx, fallbackReq)
	if fallbackErr != nil {
		return nil, mapProviderError(fallbackErr)
	}
	return r.finish(text, chat.SourceGrokFallback, req)
}

func (r *Router) generatePrimary(ctx context.Context, req *chat.ProviderRequest) (*chat.ProviderResponse, error) {
	genReq := &services.GenerateRequest{
		UserMessage: flattenForPrimary(req),
		Temperature: req.Temperature,
		MaxTokens:   services.DefaultMaxTokens,
	}

	text, err := r.primary.GenerateResponse(ctx, genReq)
	if err != nil {
		return nil, mapProviderError(err)
	}
	return r.finish(text, chat.SourceGrok, req)
}

// finish post-processes provider output: trim, then strip an
// accidental "Name:" prefix the model sometimes adds.
func (r *Router) finish(text, source string, req *chat.ProviderRequest) (*chat.ProviderResponse, error) {
	text = strings.TrimSpace(text)
	if req.Character != "" {
		prefix := req.Character + ":"
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimSpace(strings.TrimPrefix(text, prefix))
		}
	}
	if text == "" {
		return nil, apperrors.NewEmptyResponse(source)
	}
	return &chat.ProviderResponse{
		Response:  text,
		APIUsed:   source,
		Character: req.Character,
	}, nil
}

// conversationOnly drops system entries from the history. The secondary
// provider takes the system prompt as a top-level field and rejects
// system roles in the messages array.
func conversationOnly(messages []chat.ChatMessage) []chat.ChatMessage {
	out := make([]chat.ChatMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == chat.ChatRoleUser || msg.Role == chat.ChatRoleAssistant {
			out = append(out, msg)
		}
	}
	return out
}

// flattenForPrimary renders the whole turn as one completion prompt,
// labeling history lines with the character's name.
func flattenForPrimary(req *chat.ProviderRequest) string {
	name := req.Character
	if name == "" {
		name = "Assistant"
	}

	var sb strings.Builder
	sb.WriteString(req.SystemPrompt)
	if len(req.Messages) > 0 {
		sb.WriteString("\n\nConversation History:\n")
		lines := make([]string, 0, len(req.Messages))
		for _, msg := range req.Messages {
			speaker := name
			if msg.Role == chat.ChatRoleUser {
				speaker = "User"
			}
			lines = append(lines, fmt.Sprintf("%s: %s", speaker, msg.Content))
		}
		sb.WriteString(strings.Join(lines, "\n"))
	}
	sb.WriteString(fmt.Sprintf("\n\nUser: %s\n%s:", req.UserMessage, name))
	return sb.String()
}

// flattenForFallback is the prompt shape used when the secondary fails
// mid-turn. History keeps raw role labels here.
func flattenForFallback(req *chat.ProviderRequest) string {
	var sb strings.Builder
	sb.WriteString(req.SystemPrompt)
	sb.WriteString("\n\nConversation History:\n")
	lines := make([]string, 0, len(req.Messages))
	for _, msg := range req.Messages {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Role, msg.Content))
	}
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString(fmt.Sprintf("\n\nUser: %s\nAssistant:", req.UserMessage))
	return sb.String()
}

func mapProviderError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeout(err)
	}
	return apperrors.NewProviderUnavailable(err)
}
