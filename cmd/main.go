package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quadrahub/chaveamento/brackets"
	"github.com/quadrahub/chaveamento/config"
	"github.com/quadrahub/chaveamento/db"
	"github.com/quadrahub/chaveamento/handlers"
	api "github.com/quadrahub/chaveamento/routes"
	"github.com/quadrahub/chaveamento/services"
	"github.com/quadrahub/chaveamento/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Snapshot store: Postgres when configured, local JSON file
	// otherwise.
	var store storage.SnapshotStore
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
		if err != nil {
			logger.Error("failed to connect to database", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := dbConn.Close(); err != nil {
				logger.Error("failed to close database connection", slog.Any("error", err))
			}
		}()

		pgStore := storage.NewPostgresStore(dbConn)
		if err := pgStore.EnsureSchema(context.Background()); err != nil {
			logger.Error("failed to prepare snapshot schema", slog.Any("error", err))
			os.Exit(1)
		}
		store = pgStore
		logger.Info("using postgres snapshot store")
	} else {
		store = storage.NewFileStore(cfg.DataFile)
		logger.Info("using file snapshot store", slog.String("path", cfg.DataFile))
	}

	initial, err := store.Load(context.Background())
	if err != nil {
		logger.Error("failed to load tournament snapshot", slog.Any("error", err))
		os.Exit(1)
	}

	// Optional off-site snapshot backups (Cloudflare R2).
	var uploader storage.FileUploader
	if cfg.BackupConfigured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("snapshot backups enabled", slog.String("bucket", cfg.R2BucketName))
	}

	wsHub := brackets.NewHub(logger)
	go wsHub.Run()

	tournamentService := services.NewTournamentService(initial, store, wsHub, logger, cfg.MaxTeams)
	snapshotService := services.NewSnapshotService(tournamentService, uploader, logger)
	authService := services.NewAuthService(cfg.OrganizerPasswordHash)
	logger.Info("services initialized")

	// Periodic off-site backups, when both R2 and an interval are
	// configured.
	if uploader != nil && cfg.BackupInterval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.BackupInterval)
			defer ticker.Stop()
			logger.Info("snapshot backup scheduler started", slog.Duration("interval", cfg.BackupInterval))

			for range ticker.C {
				if _, err := snapshotService.Backup(context.Background()); err != nil {
					logger.Error("scheduled snapshot backup failed", slog.Any("error", err))
				}
			}
		}()
	}

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	modalityHandler := handlers.NewModalityHandler(tournamentService)
	teamHandler := handlers.NewTeamHandler(tournamentService)
	bracketHandler := handlers.NewBracketHandler(tournamentService)
	snapshotHandler := handlers.NewSnapshotHandler(snapshotService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, logger)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		cfg.AllowedOrigins,
		authHandler,
		modalityHandler,
		teamHandler,
		bracketHandler,
		snapshotHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
