package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/asperstar/worldbuilder/internal/apperrors"
	"github.com/asperstar/worldbuilder/internal/router"
	"github.com/asperstar/worldbuilder/internal/storage"
	"github.com/asperstar/worldbuilder/pkg/character"
	"github.com/asperstar/worldbuilder/pkg/chat"
	"github.com/asperstar/worldbuilder/pkg/prompts"
	"github.com/asperstar/worldbuilder/pkg/textfilter"
)

// ChatHandler serves POST /v1/chat, the character-grounded chat turn:
// trigger short-circuit, context assembly, prompt composition, provider
// routing, and response cleanup all happen server-side.
type ChatHandler struct {
	storage storage.Storage
	router  *router.Router
	filter  *textfilter.Filter
	logger  *slog.Logger
}

func NewChatHandler(s storage.Storage, rt *router.Router, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		storage: s,
		router:  rt,
		filter:  textfilter.New(),
		logger:  logger,
	}
}

func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, h.logger, "POST")
		return
	}

	var req chat.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		writeBadRequest(w, h.logger, "Invalid request body. Expected JSON with 'character_id' and 'message' fields.")
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.Warn("Invalid chat request", "error", err)
		writeBadRequest(w, h.logger, err.Error())
		return
	}

	ctx := r.Context()

	c, err := h.storage.GetCharacter(ctx, req.CharacterID)
	if err != nil {
		h.logger.Error("Failed to load character", "character_id", req.CharacterID, "error", err)
		writeError(w, h.logger, apperrors.NewInternal(err))
		return
	}
	if c == nil {
		writeError(w, h.logger, apperrors.NewCharacterNotFound(req.CharacterID))
		return
	}

	// Character triggers answer locally, with no provider call.
	if trigger := character.MatchTrigger(req.Message, c); trigger != nil {
		h.logger.Info("Trigger matched",
			"character", c.Name,
			"phrase", trigger.Phrase)
		writeJSON(w, h.logger, http.StatusOK, chat.ChatResponse{
			Response:    h.cleanResponse(trigger.Response, req.RPMode),
			Character:   c.Name,
			Source:      chat.SourceCharacterTrigger,
			TriggerUsed: trigger.Phrase,
		})
		return
	}

	mode := prompts.ModeChat
	if req.Mode == string(prompts.ModeCampaign) {
		mode = prompts.ModeCampaign
	}

	bundle, err := prompts.BuildContext(ctx, prompts.Sources{
		Memories: h.storage,
		Worlds:   h.storage,
		Map:      h.storage,
	}, c, conversationText(&req), prompts.ContextOptions{Mode: mode})
	if err != nil {
		h.logger.Error("Failed to build context", "character_id", c.ID, "error", err)
		writeError(w, h.logger, apperrors.NewInternal(err))
		return
	}
	for _, reason := range bundle.Degraded {
		h.logger.Warn("Context source degraded", "reason", reason, "character_id", c.ID)
	}

	composed, err := prompts.ComposePrompt(c, req.History, prompts.ComposeOptions{
		RPMode:     req.RPMode,
		ForceFresh: prompts.ContainsResetPhrase(req.Message),
	})
	if err != nil {
		writeError(w, h.logger, apperrors.NewInternal(err))
		return
	}
	systemPrompt := composed + "\n\n" + bundle.Format()

	providerReq := &chat.ProviderRequest{
		SystemPrompt: systemPrompt,
		UserMessage:  req.Message,
		Messages:     req.History,
		Character:    c.Name,
		UseAnthropic: router.UseSecondary(c, req.Message, len(req.History)),
		Temperature:  req.Temperature,
	}

	resp, err := h.router.Generate(ctx, providerReq)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, chat.ChatResponse{
		Response:  h.cleanResponse(resp.Response, req.RPMode),
		Character: c.Name,
		Source:    resp.APIUsed,
	})
}

// cleanResponse applies the profanity filter in family-friendly mode.
func (h *ChatHandler) cleanResponse(text, rpMode string) string {
	if rpMode == prompts.RPModeFamilyFriendly {
		return h.filter.Clean(text)
	}
	return text
}

// conversationText joins the incoming message with recent history for
// memory relevance matching.
func conversationText(req *chat.ChatRequest) string {
	parts := make([]string, 0, len(req.History)+1)
	for _, msg := range req.History {
		parts = append(parts, msg.Content)
	}
	parts = append(parts, req.Message)
	return strings.Join(parts, "\n")
}
