package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"floragate/internal/auth"
	"floragate/internal/chatbot"
	"floragate/internal/config"
	"floragate/internal/flora"
	"floragate/internal/gateway"
	"floragate/internal/logger"
	"floragate/internal/proxy"
	"floragate/internal/session"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	// Initialize structured logger
	log := logger.New()
	logger.SetDefault(log)

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Session codec is the only piece holding key material
	codec, err := session.NewCodec(cfg.SessionSecret, time.Duration(cfg.SessionMaxAge)*time.Second)
	if err != nil {
		slog.Error("Failed to initialize session codec", "error", err)
		os.Exit(1)
	}

	backend := proxy.NewClient(cfg.BackendURL)
	catalog := proxy.NewClient(cfg.FloraAPIURL)

	router := gateway.SetupRouter(cfg, codec, gateway.Handlers{
		Auth:    auth.NewHandler(backend, codec, cfg.IsProduction()),
		Proxy:   proxy.NewHandler(backend),
		Flora:   flora.NewHandler(catalog),
		Chatbot: chatbot.NewHandler(cfg.GeminiAPIURL, cfg.GeminiAPIKey, cfg.GeminiModel),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Gateway listening",
			"port", cfg.Port,
			"backend_url", cfg.BackendURL,
			"flora_api_url", cfg.FloraAPIURL,
			"chatbot_configured", cfg.GeminiAPIKey != "",
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down gateway")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Gateway stopped")
}
