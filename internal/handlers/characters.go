package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/asperstar/worldbuilder/internal/apperrors"
	"github.com/asperstar/worldbuilder/internal/storage"
	"github.com/asperstar/worldbuilder/pkg/character"
	"github.com/asperstar/worldbuilder/pkg/memory"
)

// CharacterHandler serves the /v1/characters tree: character CRUD plus
// the per-character memories subresource.
type CharacterHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewCharacterHandler(s storage.Storage, logger *slog.Logger) *CharacterHandler {
	return &CharacterHandler{
		storage: s,
		logger:  logger,
	}
}

func (h *CharacterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/characters"), "/")

	switch {
	case path == "":
		h.handleCollection(w, r)
	case strings.HasSuffix(path, "/memories"):
		h.handleMemories(w, r, strings.TrimSuffix(path, "/memories"))
	case !strings.Contains(path, "/"):
		h.handleItem(w, r, path)
	default:
		writeJSON(w, h.logger, http.StatusNotFound, map[string]string{"error": "Not found"})
	}
}

func (h *CharacterHandler) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		characters, err := h.storage.ListCharacters(r.Context())
		if err != nil {
			h.logger.Error("Failed to list characters", "error", err)
			writeError(w, h.logger, apperrors.NewInternal(err))
			return
		}
		writeJSON(w, h.logger, http.StatusOK, characters)

	case http.MethodPost:
		var c character.Character
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			writeBadRequest(w, h.logger, "Invalid request body")
			return
		}
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		if err := h.storage.SaveCharacter(r.Context(), &c); err != nil {
			h.logger.Warn("Failed to save character", "error", err)
			writeBadRequest(w, h.logger, err.Error())
			return
		}
		h.logger.Info("Character created", "character_id", c.ID, "name", c.Name)
		writeJSON(w, h.logger, http.StatusCreated, c)

	default:
		writeMethodNotAllowed(w, h.logger, "GET, POST")
	}
}

func (h *CharacterHandler) handleItem(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		c, err := h.storage.GetCharacter(ctx, id)
		if err != nil {
			writeError(w, h.logger, apperrors.NewInternal(err))
			return
		}
		if c == nil {
			writeError(w, h.logger, apperrors.NewCharacterNotFound(id))
			return
		}
		writeJSON(w, h.logger, http.StatusOK, c)

	case http.MethodPut:
		existing, err := h.storage.GetCharacter(ctx, id)
		if err != nil {
			writeError(w, h.logger, apperrors.NewInternal(err))
			return
		}
		if existing == nil {
			writeError(w, h.logger, apperrors.NewCharacterNotFound(id))
			return
		}

		var c character.Character
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			writeBadRequest(w, h.logger, "Invalid request body")
			return
		}
		c.ID = id
		c.CreatedAt = existing.CreatedAt
		if err := h.storage.SaveCharacter(ctx, &c); err != nil {
			writeBadRequest(w, h.logger, err.Error())
			return
		}
		writeJSON(w, h.logger, http.StatusOK, c)

	case http.MethodDelete:
		if err := h.storage.DeleteCharacter(ctx, id); err != nil {
			writeError(w, h.logger, apperrors.NewInternal(err))
			return
		}
		h.logger.Info("Character deleted", "character_id", id)
		w.WriteHeader(http.StatusNoContent)

	default:
		writeMethodNotAllowed(w, h.logger, "GET, PUT, DELETE")
	}
}

func (h *CharacterHandler) handleMemories(w http.ResponseWriter, r *http.Request, characterID string) {
	if characterID == "" {
		writeBadRequest(w, h.logger, "Character ID is required")
		return
	}
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		memories, err := h.storage.CharacterMemories(ctx, characterID)
		if err != nil {
			writeError(w, h.logger, apperrors.NewInternal(err))
			return
		}
		writeJSON(w, h.logger, http.StatusOK, memories)

	case http.MethodPost:
		c, err := h.storage.GetCharacter(ctx, characterID)
		if err != nil {
			writeError(w, h.logger, apperrors.NewInternal(err))
			return
		}
		if c == nil {
			writeError(w, h.logger, apperrors.NewCharacterNotFound(characterID))
			return
		}

		var m memory.Memory
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			writeBadRequest(w, h.logger, "Invalid request body")
			return
		}
		m.CharacterID = characterID
		if err := h.storage.AddMemory(ctx, &m); err != nil {
			writeBadRequest(w, h.logger, err.Error())
			return
		}
		h.logger.Info("Memory added", "character_id", characterID, "memory_id", m.ID)
		writeJSON(w, h.logger, http.StatusCreated, m)

	default:
		writeMethodNotAllowed(w, h.logger, "GET, POST")
	}
}
