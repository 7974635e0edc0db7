package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emberfall/crucible/api/internal/config"
	"github.com/emberfall/crucible/api/internal/database"
	"github.com/emberfall/crucible/api/internal/handler"
	"github.com/emberfall/crucible/api/internal/jobs"
	"github.com/emberfall/crucible/api/internal/middleware"
	"github.com/emberfall/crucible/api/internal/repository"
	"github.com/emberfall/crucible/api/internal/service"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize repositories
	queueRepo := repository.NewQueueRepository(db)
	partyRepo := repository.NewPartyRepository(db)
	instanceRepo := repository.NewInstanceRepository(db)
	characterRepo := repository.NewCharacterRepository(db)
	contentRepo := repository.NewContentRepository(db)

	// Initialize event hub for server-sent events
	eventHub := service.NewEventHub()
	defer eventHub.Close()

	// Initialize services
	provisioner := service.NewInstanceProvisioner(service.InstanceProvisionerConfig{
		Characters:       characterRepo,
		Catalog:          contentRepo,
		Instances:        instanceRepo,
		Notifier:         eventHub,
		CharacterTimeout: cfg.Matchmaker.CharacterTimeout,
	})

	matcher := service.NewMatchmaker(service.MatchmakerConfig{
		Store:            queueRepo,
		Parties:          partyRepo,
		Provisioner:      provisioner,
		Notifier:         eventHub,
		ProvisionTimeout: cfg.Matchmaker.ProvisionTimeout,
	})

	queueService := service.NewQueueService(service.QueueServiceConfig{
		Store:    queueRepo,
		Parties:  partyRepo,
		Matcher:  matcher,
		Notifier: eventHub,
		EntryTTL: cfg.Matchmaker.EntryTTL,
	})

	partyService := service.NewPartyService(service.PartyServiceConfig{
		Parties:  partyRepo,
		Store:    queueRepo,
		Notifier: eventHub,
	})

	instanceService := service.NewInstanceService(instanceRepo)

	// Start background queue sweeper
	sweeper := jobs.NewQueueSweeper(queueRepo, matcher, cfg.Matchmaker.SweepInterval)
	sweeper.Start()
	defer sweeper.Stop()

	// Initialize handlers
	queueHandler := handler.NewQueueHandler(queueService)
	partyHandler := handler.NewPartyHandler(partyService)
	instanceHandler := handler.NewInstanceHandler(instanceService)
	eventsHandler := handler.NewEventsHandler(eventHub)

	// Setup routes
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.Health)

	// Queue endpoints
	mux.Handle("POST /v1/queue/join", http.HandlerFunc(queueHandler.Join))
	mux.Handle("POST /v1/queue/leave", http.HandlerFunc(queueHandler.Leave))

	// Party endpoints
	mux.Handle("POST /v1/parties", http.HandlerFunc(partyHandler.Create))
	mux.Handle("GET /v1/parties/{partyId}", http.HandlerFunc(partyHandler.Get))
	mux.Handle("POST /v1/parties/{partyId}/members", http.HandlerFunc(partyHandler.AddMember))
	mux.Handle("DELETE /v1/parties/{partyId}/members/{participantId}", http.HandlerFunc(partyHandler.RemoveMember))
	mux.Handle("POST /v1/parties/{partyId}/queue", http.HandlerFunc(queueHandler.QueueParty))
	mux.Handle("POST /v1/parties/{partyId}/cancel", http.HandlerFunc(partyHandler.Cancel))

	// Instance endpoints
	mux.Handle("GET /v1/instances/{instanceId}", http.HandlerFunc(instanceHandler.Get))
	mux.Handle("GET /v1/matches/recent", http.HandlerFunc(instanceHandler.RecentMatches))

	// Event stream endpoints
	mux.Handle("GET /v1/events/stream", http.HandlerFunc(eventsHandler.Stream))
	mux.Handle("GET /v1/events/participants/{participantId}/stream", http.HandlerFunc(eventsHandler.StreamParticipant))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
