package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"parapheur/internal/config"
	"parapheur/internal/db"
	"parapheur/internal/logging"
	"parapheur/internal/mailer"
	"parapheur/internal/server"
	"parapheur/internal/services"
	"parapheur/internal/stamp"
	"parapheur/internal/storage"
	"parapheur/internal/store"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()

	logger := logging.NewLogger(logging.Config{
		ServiceName: "parapheur",
		Environment: cfg.Env,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	slog.SetDefault(logger)

	dbConn, err := db.ConnectAndMigrate(cfg.DatabaseDSN)
	if err != nil {
		logger.Error("database setup failed", "error", err)
		os.Exit(1)
	}
	if *migrateOnlyFlag {
		logger.Info("migrations completed; exiting as requested")
		return
	}

	blobs, err := storage.New(cfg.DataDir)
	if err != nil {
		logger.Error("data dir setup failed", "error", err)
		os.Exit(1)
	}

	svc := services.NewSigningService(
		store.New(dbConn),
		blobs,
		stamp.New(),
		mailer.FromConfig(cfg),
		cfg.PublicBaseURL,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.New(cfg, dbConn, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
	logger.Info("server stopped")
}
