package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CK3thou/youtube-transcripts/internal/api"
	"github.com/CK3thou/youtube-transcripts/internal/app"
	"github.com/CK3thou/youtube-transcripts/internal/config"
	"github.com/CK3thou/youtube-transcripts/internal/logger"
)

func main() {
	log := logger.WithComponent(logger.ComponentApp)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config", map[string]any{"error": err.Error()})
		os.Exit(2)
	}
	if l, err := logger.FromEnvironment(); err == nil {
		logger.SetGlobalLogger(l)
		log = logger.WithComponent(logger.ComponentApp)
	}

	var archive bool
	flag.StringVar(&cfg.Port, "port", cfg.Port, "Listen port")
	flag.BoolVar(&archive, "archive", false, "Persist downloaded transcripts to the configured SQLite/S3 targets")
	flag.Parse()

	gin.SetMode(gin.ReleaseMode)

	ctx := context.Background()
	c, closeClient := app.NewClient(ctx, cfg)
	defer func() { _ = closeClient() }()

	targets := app.Targets{}
	if archive {
		targets = app.TargetsFor(cfg)
		targets.Files = false
	}
	persister, closeArchive, err := app.OpenArchive(ctx, cfg, targets)
	if err != nil {
		log.Error("storage", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer func() { _ = closeArchive() }()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewServer(c, persister).NewRouter(),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		// Downloads are paced, so a batch response can take minutes.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("server listening", map[string]any{"port": cfg.Port})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	}()

	<-done
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown failed", map[string]any{"error": err.Error()})
		_ = srv.Close()
	}
	log.Info("server stopped")
}
