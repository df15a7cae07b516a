package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "job-listings/docs" // Swagger docs
	"job-listings/internal/api"
	"job-listings/internal/config"
	"job-listings/internal/logging"
	"job-listings/internal/metrics"
	"job-listings/internal/search"
	"job-listings/internal/storage"

	"go.uber.org/zap"
)

// @title Job Listings API
// @version 1.0
// @description Search and detail endpoints over a read-only collection of job postings

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(cfg.Environment)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	if !cfg.EnvFileLoaded {
		logger.Info(".env file not found, using environment variables")
	}

	collector := metrics.NewCollector("job_listings")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, closeSource, err := newSource(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	// Initial load happens before the server accepts traffic.
	snap := storage.LoadOrEmpty(ctx, src, logger)
	store := storage.NewStore(snap)
	collector.StoreJobs.Set(float64(len(snap.Summaries())))

	reloader := storage.NewReloader(store, src, logger)
	reloader.OnReload(func(err error) {
		collector.ObserveReload(err, store.Status().Jobs)
	})
	stopReload, err := startReloading(ctx, cfg, src, reloader, logger)
	if err != nil {
		return err
	}
	defer stopReload()

	engine := search.NewEngine(store, search.WithDefaultLimit(cfg.DefaultLimit))
	apiSrv := api.NewAPI(engine, store, logger, collector, cfg.MaxLimit)
	router := api.NewRouter(apiSrv, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", zap.Error(err))
		}
		close(idleConnsClosed)
	}()

	logger.Info("API server listening", zap.String("addr", srv.Addr), zap.String("source", src.Name()))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-idleConnsClosed
	return nil
}

func newSource(cfg *config.Config, logger *zap.Logger) (storage.Source, func(), error) {
	switch {
	case cfg.DataSource == config.SourcePostgres:
		db, err := storage.OpenDB(cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("DATABASE_URL: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Ping(pingCtx); err != nil {
			// The service still starts; the first load degrades and the refresher retries.
			logger.Error("database unavailable", zap.Error(err))
		} else {
			logger.Info("database connected")
		}
		return db, db.Close, nil
	case cfg.DataURL != "":
		return storage.NewRemoteSource(cfg.DataURL, cfg.FetchTimeout, cfg.FetchMaxBytes, logger), func() {}, nil
	default:
		return storage.NewFileSource(cfg.DataDir, logger), func() {}, nil
	}
}

// startReloading watches local data files or schedules periodic refreshes
// for the other sources. The returned func stops it.
func startReloading(ctx context.Context, cfg *config.Config, src storage.Source, reloader *storage.Reloader, logger *zap.Logger) (func(), error) {
	if fs, ok := src.(*storage.FileSource); ok && fs.Dir() != "" {
		if !cfg.WatchData {
			return func() {}, nil
		}
		watcher, err := storage.NewFileWatcher(fs.Dir(), reloader, logger)
		if err != nil {
			// Missing data directory: keep serving the degraded snapshot without hot reload.
			logger.Warn("data directory not watched", zap.Error(err))
			return func() {}, nil
		}
		watcher.Start()
		return watcher.Stop, nil
	}

	refresher := storage.NewRefresher(cfg.ReloadSpec, reloader, logger)
	if err := refresher.Start(ctx); err != nil {
		return nil, fmt.Errorf("RELOAD_SPEC: %w", err)
	}
	return refresher.Stop, nil
}
