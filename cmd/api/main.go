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
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/frontdesk-ai/receptionist-platform/internal/ai"
	"github.com/frontdesk-ai/receptionist-platform/internal/auth"
	"github.com/frontdesk-ai/receptionist-platform/internal/config"
	"github.com/frontdesk-ai/receptionist-platform/internal/events"
	"github.com/frontdesk-ai/receptionist-platform/internal/handler"
	"github.com/frontdesk-ai/receptionist-platform/internal/middleware"
	"github.com/frontdesk-ai/receptionist-platform/internal/model"
	"github.com/frontdesk-ai/receptionist-platform/internal/orchestrator"
	"github.com/frontdesk-ai/receptionist-platform/internal/store"
	"github.com/frontdesk-ai/receptionist-platform/pkg/logger"
	"github.com/frontdesk-ai/receptionist-platform/pkg/tracing"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()
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
		tp, err := tracing.InitTracer(ctx, "receptionist-platform", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Connect to NATS for domain event publishing (optional)
	var publisher *events.Publisher
	if cfg.NATSEnabled {
		publisher, err = events.Connect(ctx, cfg.NATSURL, log)
		if err != nil {
			log.Warn("failed to connect to NATS, event publishing disabled", zap.Error(err))
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	// Initialize AI client
	var aiClient ai.Client
	if key := cfg.AIAPIKey(); key != "" {
		aiClient, err = ai.NewClient(ctx, ai.Provider(cfg.AIProvider), key)
		if err != nil {
			log.Warn("failed to create AI client, AI features disabled", zap.Error(err))
			aiClient = nil
		} else {
			log.Info("AI client ready", zap.String("provider", aiClient.Name()))
		}
	} else {
		log.Warn("no AI API key configured, AI features disabled")
	}

	// Initialize stores
	conversations := store.NewConversationStore()
	appointments := store.NewAppointmentStore()
	profiles := store.NewProfileStore(model.DefaultProfile(), model.DefaultServices())
	if cfg.SeedDemoData {
		store.SeedDemoData(conversations, appointments)
	}

	// Initialize orchestrator
	var provider orchestrator.Provider
	if aiClient != nil {
		provider = aiClient
	}
	orchOpts := []orchestrator.Option{
		orchestrator.WithSettlementDelay(cfg.SettlementDelay),
	}
	if publisher != nil {
		orchOpts = append(orchOpts, orchestrator.WithEventSink(publisher))
	}
	orch := orchestrator.New(conversations, appointments, profiles, provider, log, orchOpts...)
	defer orch.Close()

	// Initialize auth service
	authSvc := auth.NewService(cfg.JWTSecret, cfg.JWTExpiration)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(publisher)
	authHandler := handler.NewAuthHandler(authSvc, log)
	conversationHandler := handler.NewConversationHandler(conversations, orch, log)
	messageHandler := handler.NewMessageHandler(orch, log)
	suggestionHandler := handler.NewSuggestionHandler(orch, log)
	depositHandler := handler.NewDepositHandler(orch, log)
	appointmentHandler := handler.NewAppointmentHandler(appointments, log)
	profileHandler := handler.NewProfileHandler(profiles, log)
	assistantHandler := handler.NewAssistantHandler(aiClient, conversations, profiles, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// Session endpoints (no auth required)
	r.Post("/api/v1/auth/login", authHandler.Login)
	r.Post("/api/v1/auth/register", authHandler.Register)

	// API routes with authentication
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests))

		r.Post("/auth/logout", authHandler.Logout)

		// Conversations
		r.Route("/conversations", func(r chi.Router) {
			r.Get("/", conversationHandler.List)
			r.Post("/", conversationHandler.Create)
			r.Post("/missed-call", conversationHandler.SimulateMissedCall)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", conversationHandler.Get)
				r.Delete("/", conversationHandler.Delete)
				r.Post("/read", conversationHandler.MarkRead)
				r.Put("/status", conversationHandler.SetStatus)

				// Handoff
				r.Put("/ai-status", conversationHandler.SetAIStatus)
				r.Post("/ai-status/toggle", conversationHandler.ToggleAIStatus)

				// Messages
				r.Post("/messages", messageHandler.Send)

				// Suggestions
				r.Get("/suggestions", suggestionHandler.Get)
				r.Post("/suggestions/refresh", suggestionHandler.Refresh)

				// Deposits
				r.Get("/deposit", depositHandler.Get)
				r.Post("/deposit/request", depositHandler.Request)
				r.Post("/deposit/confirm", depositHandler.Confirm)
				r.Post("/deposit/cancel", depositHandler.Cancel)

				// Assistant
				r.Post("/draft-reply", assistantHandler.DraftReply)
				r.Get("/strategy", assistantHandler.Strategy)
			})
		})

		// Call recordings
		r.Post("/transcriptions", assistantHandler.Transcribe)

		// Appointments
		r.Route("/appointments", func(r chi.Router) {
			r.Get("/", appointmentHandler.List)
			r.Get("/{id}", appointmentHandler.Get)
		})

		// Business profile
		r.Route("/profile", func(r chi.Router) {
			r.Get("/", profileHandler.Get)
			r.Put("/", profileHandler.Update)
			r.Get("/services", profileHandler.ListServices)
			r.Put("/services", profileHandler.UpdateServices)
		})
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
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
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
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
