// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vibestyle/shopping-assistant/internal/agent"
	"github.com/vibestyle/shopping-assistant/internal/catalog"
	"github.com/vibestyle/shopping-assistant/internal/config"
	"github.com/vibestyle/shopping-assistant/internal/handler"
	"github.com/vibestyle/shopping-assistant/internal/llm"
	"github.com/vibestyle/shopping-assistant/internal/middleware"
	"github.com/vibestyle/shopping-assistant/internal/service"
	"github.com/vibestyle/shopping-assistant/internal/store"
	"github.com/vibestyle/shopping-assistant/internal/tool"
	"github.com/vibestyle/shopping-assistant/pkg/logger"
	"github.com/vibestyle/shopping-assistant/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "shopping-assistant", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", "error", err)
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Connect to Postgres
	if cfg.DatabaseURL == "" {
		log.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	if cfg.RunMigrate {
		if err := store.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
			log.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}
	db, err := store.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize LLM client
	var llmClient llm.Client
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIAPIKey != "" {
			llmClient, err = llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.LLMModel)
			if err != nil {
				log.Warn("failed to create OpenAI client, responses degrade to fallback text", "error", err)
			}
		}
	default:
		if cfg.GeminiAPIKey != "" {
			llmClient, err = llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
			if err != nil {
				log.Warn("failed to create Gemini client, responses degrade to fallback text", "error", err)
			}
		}
	}
	if llmClient == nil {
		log.Warn("no LLM API key configured, responses degrade to fallback text")
	}

	// Initialize tools and agent loop
	registry := tool.NewRegistry(
		tool.NewSearchTool(db, log),
		tool.NewDetailsTool(db),
	)
	loop := agent.NewLoop(llmClient, registry, log, cfg.LLMTimeout)

	// Initialize services
	chatSvc := service.NewChatService(loop, catalog.New(db), log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(db)
	chatHandler := handler.NewChatHandler(chatSvc, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Post("/chat", chatHandler.Chat)
		r.Post("/chat/stream", chatHandler.ChatStream)
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
