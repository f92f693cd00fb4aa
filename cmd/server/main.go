package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/garnizeh/jobboard/api"
	dbfs "github.com/garnizeh/jobboard/db"
	"github.com/garnizeh/jobboard/internal/config"
	"github.com/garnizeh/jobboard/internal/db"
	"github.com/garnizeh/jobboard/internal/events"
	"github.com/garnizeh/jobboard/internal/jobs"
	"github.com/garnizeh/jobboard/internal/repository/sqlite"
	"github.com/garnizeh/jobboard/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	api.SetLogger(logger)

	if err := run(*configPath, logger); err != nil {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func run(configPath string, logger *slog.Logger) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Info("starting jobboard server", "version", version, "build_time", buildTime)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open database connection
	conn, err := db.New(ctx, cfg.DatabasePath, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Warn("close database", "err", err)
		}
	}()

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, conn, dbfs.Migrations, dbfs.SeedFiles); err != nil {
			return err
		}
	}

	repo := sqlite.New(conn, logger)

	pub, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer pub.Close()

	pool := jobs.NewWorkerPool(jobs.NewRepository(conn), map[string]jobs.Handler{
		jobs.TypePublishEvent: jobs.PublishHandler(pub),
	}, logger, cfg.Workers)
	pool.Start(ctx)
	defer pool.Stop()

	files, err := newFileStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	handler := api.SetupRoutes(cfg, version, buildTime, api.Deps{
		Store:    repo,
		Notifier: jobs.NewNotifier(pool),
		Files:    files,
		DB:       conn.GetConn(),
	})

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server exited")
	return nil
}

func newPublisher(cfg *config.Config, logger *slog.Logger) (events.Publisher, error) {
	if cfg.Events.AMQPURL == "" {
		return events.NewLogPublisher(logger), nil
	}
	return events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange, logger)
}

func newFileStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	s := cfg.Storage
	if s.Driver == config.StorageS3 {
		return storage.NewS3Store(ctx, storage.S3Options{
			Bucket:        s.Bucket,
			Endpoint:      s.Endpoint,
			Region:        s.Region,
			AccessKey:     s.AccessKey,
			SecretKey:     s.SecretKey,
			PublicBaseURL: s.PublicBaseURL,
		}, logger)
	}
	return storage.NewLocalStore(s.LocalDir, s.PublicBaseURL, logger)
}
