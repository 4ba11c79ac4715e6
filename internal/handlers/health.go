package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/asperstar/worldbuilder/internal/router"
	"github.com/asperstar/worldbuilder/internal/services"
	"github.com/asperstar/worldbuilder/internal/storage"
)

type HealthResponse struct {
	Status    string          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Service   string          `json:"service"`
	APIs      map[string]bool `json:"apis"`
}

// HealthHandler reports storage and provider readiness.
type HealthHandler struct {
	storage   storage.HealthChecker
	router    *router.Router
	replicate *services.ReplicateService
	logger    *slog.Logger
}

func NewHealthHandler(s storage.HealthChecker, rt *router.Router, replicate *services.ReplicateService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		storage:   s,
		router:    rt,
		replicate: replicate,
		logger:    logger,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, h.logger, "GET")
		return
	}

	h.logger.Debug("Health check requested",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	overallStatus := "healthy"
	if err := h.storage.Ping(ctx); err != nil {
		h.logger.Warn("Storage health check failed", "error", err)
		overallStatus = "degraded"
	}

	response := HealthResponse{
		Status:    overallStatus,
		Timestamp: time.Now(),
		Service:   "worldbuilder",
		APIs: map[string]bool{
			"grok":      h.router.PrimaryAvailable(),
			"anthropic": h.router.SecondaryAvailable(),
			"replicate": h.replicate != nil && h.replicate.Available(),
		},
	}

	statusCode := http.StatusOK
	if overallStatus != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, h.logger, statusCode, response)
}

type ProviderStatus struct {
	Available bool   `json:"available"`
	Model     string `json:"model,omitempty"`
}

type APIStatusResponse struct {
	Grok      ProviderStatus `json:"grok"`
	Anthropic ProviderStatus `json:"anthropic"`
	Replicate ProviderStatus `json:"replicate"`
}

// APIStatusHandler is the per-provider debugging view.
type APIStatusHandler struct {
	router         *router.Router
	replicate      *services.ReplicateService
	grokModel      string
	anthropicModel string
	logger         *slog.Logger
}

func NewAPIStatusHandler(rt *router.Router, replicate *services.ReplicateService, grokModel, anthropicModel string, logger *slog.Logger) *APIStatusHandler {
	return &APIStatusHandler{
		router:         rt,
		replicate:      replicate,
		grokModel:      grokModel,
		anthropicModel: anthropicModel,
		logger:         logger,
	}
}

func (h *APIStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, h.logger, "GET")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIStatusResponse{
		Grok: ProviderStatus{
			Available: h.router.PrimaryAvailable(),
			Model:     h.grokModel,
		},
		Anthropic: ProviderStatus{
			Available: h.router.SecondaryAvailable(),
			Model:     h.anthropicModel,
		},
		Replicate: ProviderStatus{
			Available: h.replicate != nil && h.replicate.Available(),
		},
	})
}
