package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DhavalSuthar-24/courtside/config"
	_ "github.com/DhavalSuthar-24/courtside/docs"
	"github.com/DhavalSuthar-24/courtside/internal/logging"
	"github.com/DhavalSuthar-24/courtside/internal/notification"
	"github.com/DhavalSuthar-24/courtside/internal/supervisor"
	"github.com/DhavalSuthar-24/courtside/pkg/storage"
	"github.com/DhavalSuthar-24/courtside/routes"
)

// @title Courtside REST API
// @version 1.0
// @description Tennis coaching backend: coach linking, squads, training programs, match diary and technique videos.
// @host localhost:8088
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	cfg, db, err := config.Initialize()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize application")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open media storage")
	}

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           routes.SetupRoutes(cfg, db, store),
		ReadHeaderTimeout: 10 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddWorker(notification.NewDispatcher(db, cfg.Outbox))
	tree.AddAPIService(supervisor.NewHTTPService(server, 10*time.Second))

	logging.Info().
		Str("port", cfg.App.Port).
		Str("env", cfg.App.Env).
		Str("storage", cfg.Storage.Backend).
		Msg("Starting server")

	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		logging.Error().Err(err).Msg("Supervisor exited")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logging.Info().Msg("Shutdown complete")
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Backend {
	case "s3":
		return storage.NewS3(ctx, storage.S3Config{
			Bucket:          cfg.Storage.Bucket,
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			CDNBaseURL:      cfg.Storage.CDNBaseURL,
		})
	case "local", "":
		return storage.NewLocal(cfg.App.UploadDir, cfg.App.PublicBaseURL)
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}
