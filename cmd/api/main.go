package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/andresuchdata/stockdash/internal/config"
	"github.com/andresuchdata/stockdash/internal/drive"
	"github.com/andresuchdata/stockdash/internal/service"
	"github.com/andresuchdata/stockdash/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.Configure(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	// Initialize Google Drive service
	driveService, err := drive.NewService(ctx, cfg.Drive.CredentialsJSON)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize Google Drive service")
	}

	dashboard, cleanup, err := service.NewFromConfig(ctx, cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize dashboard service")
	}
	defer cleanup()

	r := mux.NewRouter()

	ingestService := drive.NewIngestService(driveService, dashboard)
	driveHandler := drive.NewHandler(driveService, driveService, ingestService)
	driveHandler.RegisterRoutes(r)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	logger.Log.Info().Str("addr", addr).Str("folder", cfg.Drive.FolderID).Msg("Drive ingestion server starting")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Log.Fatal().Err(err).Msg("Drive ingestion server stopped")
	}
}
