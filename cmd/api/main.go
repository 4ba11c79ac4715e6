package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asperstar/worldbuilder/internal/config"
	"github.com/asperstar/worldbuilder/internal/handlers"
	"github.com/asperstar/worldbuilder/internal/logger"
	"github.com/asperstar/worldbuilder/internal/middleware"
	"github.com/asperstar/worldbuilder/internal/router"
	"github.com/asperstar/worldbuilder/internal/services"
	"github.com/asperstar/worldbuilder/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Worldbuilder API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"grok_model", cfg.GrokModel,
		"anthropic_model", cfg.AnthropicModel)

	grok := services.NewGrokService(cfg.XAIAPIKey, cfg.GrokModel, log)
	anthropic := services.NewAnthropicService(cfg.AnthropicAPIKey, cfg.AnthropicModel, log)
	replicate := services.NewReplicateService(cfg.ReplicateAPIKey, log)

	if grok.Available() {
		log.Info("Grok provider configured", "model", cfg.GrokModel)
	}
	if anthropic.Available() {
		log.Info("Anthropic provider configured", "model", cfg.AnthropicModel)
	}
	if !replicate.Available() {
		log.Warn("Replicate key missing, map generation disabled")
	}

	rt := router.New(grok, anthropic, log)

	store := storage.NewRedisStorage(cfg.RedisURL, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.Ping(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	mux := http.NewServeMux()

	mux.Handle("/health", handlers.NewHealthHandler(store, rt, replicate, log))
	mux.Handle("/api-status", handlers.NewAPIStatusHandler(rt, replicate, cfg.GrokModel, cfg.AnthropicModel, log))

	mux.Handle("/api/chat", handlers.NewAPIChatHandler(rt, log))
	mux.Handle("/api/generate-map", handlers.NewMapImageHandler(replicate, log))

	mux.Handle("/v1/chat", handlers.NewChatHandler(store, rt, log))

	characterHandler := handlers.NewCharacterHandler(store, log)
	mux.Handle("/v1/characters", characterHandler)
	mux.Handle("/v1/characters/", characterHandler)

	worldHandler := handlers.NewWorldHandler(store, log)
	mux.Handle("/v1/worlds", worldHandler)
	mux.Handle("/v1/worlds/", worldHandler)

	mux.Handle("/v1/map", handlers.NewMapHandler(store, log))

	handler := middleware.Logger(middleware.CORS(mux))
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
