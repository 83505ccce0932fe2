package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dwoolworth/tagger"
	"github.com/dwoolworth/tagger/api"
	"github.com/dwoolworth/tagger/config"
	"github.com/dwoolworth/tagger/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serveURI  string
	serveDB   string
	serveAddr string
	serveLog  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  "Connect to MongoDB and serve the CRUD resources under /api until interrupted.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveURI, "uri", "", "MongoDB connection URI (overrides config)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "MongoDB database name (overrides config)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "HTTP listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveLog, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("uri") {
		cfg.Mongo.URI = serveURI
	}
	if flags.Changed("db") {
		cfg.Mongo.Database = serveDB
	}
	if flags.Changed("addr") {
		cfg.Server.Address = serveAddr
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = serveLog
	}
	return cfg, cfg.Validate()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := models.Register(cfg.Mongo.Collections); err != nil {
		return err
	}
	tagger.Use(tagger.LogOperations(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := tagger.ConnectWithRetry(ctx, cfg.Mongo.URI, cfg.Mongo.Database, tagger.RetryOptions{
		InitialInterval: time.Second,
		MaxInterval:     30 * time.Second,
		MaxElapsedTime:  cfg.Mongo.ConnectTimeout,
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tagger.Disconnect(shutdownCtx); err != nil {
			logger.Warn("disconnect failed", zap.Error(err))
		}
	}()

	if err := tagger.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	app := api.NewApp(api.Options{
		BodyLimit:   cfg.Server.BodyLimit,
		ReadTimeout: cfg.Server.ReadTimeout,
		CORSOrigins: cfg.Server.CORSOrigins,
		AccessLog:   true,
		Logger:      logger,
	})
	if err := api.Mount(app, db); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("addr", cfg.Server.Address),
			zap.String("database", cfg.Mongo.Database),
		)
		errCh <- app.Listen(cfg.Server.Address)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
