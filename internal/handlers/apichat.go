package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/asperstar/worldbuilder/internal/router"
	"github.com/asperstar/worldbuilder/pkg/chat"
)

// APIChatHandler serves POST /api/chat, the raw provider contract:
// the caller ships a pre-composed system prompt and conversation, and
// picks the provider with the useAnthropic flag. No storage lookups
// happen on this path.
type APIChatHandler struct {
	router *router.Router
	logger *slog.Logger
}

func NewAPIChatHandler(rt *router.Router, logger *slog.Logger) *APIChatHandler {
	return &APIChatHandler{
		router: rt,
		logger: logger,
	}
}

func (h *APIChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, h.logger, "POST")
		return
	}

	var req chat.ProviderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		writeBadRequest(w, h.logger, "Invalid request body. Expected JSON.")
		return
	}

	if err := req.Validate(); err != nil {
		h.logger.Warn("Invalid chat request", "error", err)
		writeBadRequest(w, h.logger, "Missing systemPrompt or userMessage")
		return
	}

	h.logger.Info("Processing provider chat request",
		"character", req.Character,
		"use_anthropic", req.UseAnthropic)

	resp, err := h.router.Generate(r.Context(), &req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}
