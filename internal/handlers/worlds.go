package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/asperstar/worldbuilder/internal/apperrors"
	"github.com/asperstar/worldbuilder/internal/storage"
	"github.com/asperstar/worldbuilder/pkg/world"
)

// WorldHandler serves the /v1/worlds tree: world CRUD plus the
// per-world timeline subresource.
type WorldHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewWorldHandler(s storage.Storage, logger *slog.Logger) *WorldHandler {
	return &WorldHandler{
		storage: s,
		logger:  logger,
	}
}

func (h *WorldHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/worlds"), "/")

	switch {
	case path == "":
		h.handleCollection(w, r)
	case strings.HasSuffix(path, "/timeline"):
		h.handleTimeline(w, r, strings.TrimSuffix(path, "/timeline"))
	case !strings.Contains(path, "/"):
		h.handleItem(w, r, path)
	default:
		writeJSON(w, h.logger, http.StatusNotFound, map[string]string{"error": "Not found"})
	}
}

func (h *WorldHandler) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		worlds, err := h.storage.ListWorlds(r.Context())
		if err != nil {
			writeError(w, h.logger, apperrors.NewInternal(err))
			return
		}
		writeJSON(w, h.logger, http.StatusOK, worlds)

	case http.MethodPost:
		var wd world.World
		if err := json.NewDecoder(r.Body).Decode(&wd); err != nil {
			writeBadRequest(w, h.logger, "Invalid request body")
			return
		}
		if wd.Name == "" {
			writeBadRequest(w, h.logger, "World name is required")
			return
		}
		if wd.ID == "" {
			wd.ID = uuid.New().String()
		}
		if err := h.storage.SaveWorld(r.Context(), &wd); err != nil {
			writeError(w, h.logger, apperrors.NewInternal(err))
			return
		}
		h.logger.Info("World created", "world_id", wd.ID, "name", wd.Name)
		writeJSON(w, h.logger, http.StatusCreated, wd)

	default:
		writeMethodNotAllowed(w, h.logger, "GET, POST")
	}
}

func (h *WorldHandler) handleItem(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		wd, err := h.storage.GetWorld(ctx, id)
		if err != nil {
			writeError(w, h.logger, apperrors.NewInternal(err))
			return
		}
		if wd == nil {
			writeError(w, h.logger, apperrors.NewNotFound("world", id))
			return
		}
		writeJSON(w, h.logger, http.StatusOK, wd)

	case http.MethodPut:
		existing, err := h.storage.GetWorld(ctx, id)
		if err != nil {
			writeError(w, h.logger, apperrors.NewInternal(err))
			return
		}
		if existing == nil {
			writeError(w, h.logger, apperrors.NewNotFound("world", id))
			return
		}

		var wd world.World
		if err := json.NewDecoder(r.Body).Decode(&wd); err != nil {
			writeBadRequest(w, h.logger, "Invalid request body")
			return
		}
		wd.ID = id
		wd.CreatedAt = existing.CreatedAt
		if err := h.storage.SaveWorld(ctx, &wd); err != nil {
			writeError(w, h.logger, apperrors.NewInternal(err))
			return
		}
		writeJSON(w, h.logger, http.StatusOK, wd)

	case http.MethodDelete:
		if err := h.storage.DeleteWorld(ctx, id); err != nil {
			writeError(w, h.logger, apperrors.NewInternal(err))
			return
		}
		h.logger.Info("World deleted", "world_id", id)
		w.WriteHeader(http.StatusNoContent)

	default:
		writeMethodNotAllowed(w, h.logger, "GET, PUT, DELETE")
	}
}

func (h *WorldHandler) handleTimeline(w http.ResponseWriter, r *http.Request, worldID string) {
	if worldID == "" {
		writeBadRequest(w, h.logger, "World ID is required")
		return
	}
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		events, err := h.storage.GetTimeline(ctx, worldID)
		if err != nil {
			writeError(w, h.logger, apperrors.NewInternal(err))
			return
		}
		writeJSON(w, h.logger, http.StatusOK, events)

	case http.MethodPost:
		wd, err := h.storage.GetWorld(ctx, worldID)
		if err != nil {
			writeError(w, h.logger, apperrors.NewInternal(err))
			return
		}
		if wd == nil {
			writeError(w, h.logger, apperrors.NewNotFound("world", worldID))
			return
		}

		var event world.TimelineEvent
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			writeBadRequest(w, h.logger, "Invalid request body")
			return
		}
		if event.Title == "" {
			writeBadRequest(w, h.logger, "Event title is required")
			return
		}
		event.WorldID = worldID
		if err := h.storage.AddTimelineEvent(ctx, &event); err != nil {
			writeError(w, h.logger, apperrors.NewInternal(err))
			return
		}
		writeJSON(w, h.logger, http.StatusCreated, event)

	default:
		writeMethodNotAllowed(w, h.logger, "GET, POST")
	}
}

// MapHandler serves /v1/map, the shared character/location graph.
type MapHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewMapHandler(s storage.Storage, logger *slog.Logger) *MapHandler {
	return &MapHandler{
		storage: s,
		logger:  logger,
	}
}

func (h *MapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		g, err := h.storage.GetMapGraph(r.Context())
		if err != nil {
			writeError(w, h.logger, apperrors.NewInternal(err))
			return
		}
		writeJSON(w, h.logger, http.StatusOK, g)

	case http.MethodPut:
		var g world.MapGraph
		if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
			writeBadRequest(w, h.logger, "Invalid request body")
			return
		}
		if err := h.storage.SaveMapGraph(r.Context(), &g); err != nil {
			writeError(w, h.logger, apperrors.NewInternal(err))
			return
		}
		writeJSON(w, h.logger, http.StatusOK, g)

	default:
		writeMethodNotAllowed(w, h.logger, "GET, PUT")
	}
}
