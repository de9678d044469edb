package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"serviceboard/internal/config"
	"serviceboard/internal/container"
	"serviceboard/internal/logging"
	"serviceboard/ui"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.New(cfg, logger)
	if err != nil {
		return err
	}
	if err := c.Init(ctx); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown failed", zap.Error(err))
		}
	}()

	if c.Inbox != nil {
		go c.Inbox.Run(ctx)
	}

	gin.SetMode(cfg.Server.GinMode)
	server := ui.NewServer(c.Reports, ui.Options{
		StaticDir:      cfg.Server.StaticDir,
		UploadMaxBytes: cfg.Server.UploadMaxBytes,
	}, logger.Named("http"))

	logger.Info("starting serviceboard",
		zap.String("port", cfg.Server.Port),
		zap.String("storage_dir", cfg.Storage.Dir),
		zap.Bool("archive", c.Reports.ArchiveEnabled()))

	return server.Run(ctx, ":"+cfg.Server.Port)
}
