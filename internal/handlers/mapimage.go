package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/asperstar/worldbuilder/internal/apperrors"
	"github.com/asperstar/worldbuilder/internal/services"
	"github.com/asperstar/worldbuilder/pkg/chat"
)

type MapImageRequest struct {
	Prompt string `json:"prompt"`
}

type MapImageResponse struct {
	ImageURL string `json:"imageUrl"`
}

// MapImageHandler serves POST /api/generate-map, proxying the map
// description to the image generation provider.
type MapImageHandler struct {
	replicate *services.ReplicateService
	logger    *slog.Logger
}

func NewMapImageHandler(replicate *services.ReplicateService, logger *slog.Logger) *MapImageHandler {
	return &MapImageHandler{
		replicate: replicate,
		logger:    logger,
	}
}

func (h *MapImageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, h.logger, "POST")
		return
	}

	var req MapImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, h.logger, "Invalid request body")
		return
	}
	if req.Prompt == "" {
		writeBadRequest(w, h.logger, "Missing prompt")
		return
	}

	if h.replicate == nil || !h.replicate.Available() {
		writeError(w, h.logger, apperrors.NewProviderUnavailable(nil))
		return
	}

	imageURL, err := h.replicate.GenerateMapImage(r.Context(), req.Prompt)
	if err != nil {
		h.logger.Error("Map generation failed", "error", err)
		writeJSON(w, h.logger, http.StatusInternalServerError, chat.ErrorResponse{
			Error: "Internal server error: Failed to process /generate-map request",
		})
		return
	}

	writeJSON(w, h.logger, http.StatusOK, MapImageResponse{ImageURL: imageURL})
}
