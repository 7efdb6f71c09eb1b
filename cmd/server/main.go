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

	"github.com/lysyi3m/newsdesk/app/api"
	"github.com/lysyi3m/newsdesk/app/cfg"
	"github.com/lysyi3m/newsdesk/app/curation"
	"github.com/lysyi3m/newsdesk/app/database"
	"github.com/lysyi3m/newsdesk/app/source"
	"github.com/lysyi3m/newsdesk/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		// help was shown
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if err := run(appCfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(appCfg *cfg.Cfg) error {
	slog.Info("Starting Newsdesk", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		return err
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	configCache := source.NewConfigCache(appCfg.SourcesDir)
	if err := configCache.Run(); err != nil {
		return fmt.Errorf("failed to load source configurations: %w", err)
	}
	slog.Info("Source configurations loaded", "dir", appCfg.SourcesDir, "count", configCache.GetConfigCount())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if appCfg.Watch {
		go func() {
			if err := configCache.Watch(ctx); err != nil {
				slog.Error("Source watcher stopped", "error", err)
			}
		}()
	}

	articleRepo := database.NewArticleRepository(db)
	sourceRepo := database.NewSourceRepository(db)

	fetcher := source.NewFetcher(nil, appCfg.UserAgent)

	scheduler := tasks.NewScheduler(configCache, articleRepo, sourceRepo,
		source.NewClient(fetcher), fetcher, source.NewContentExtractor(),
		appCfg.GetPollInterval(), appCfg.WorkerCount)
	scheduler.Start()
	defer scheduler.Stop()

	engine := curation.NewEngine(curation.Options{
		RecentWindow:  appCfg.GetRecentWindow(),
		LatestCount:   appCfg.LatestCount,
		ExcerptLength: appCfg.ExcerptLength,
		DateLayout:    curation.DateLayoutFor(appCfg.Locale),
		Location:      time.Local,
		UploadsURL:    appCfg.UploadsURL,
	})

	handler := api.NewHandler(configCache, articleRepo, sourceRepo, engine, scheduler, api.Site{
		BaseURL: appCfg.BaseUrl,
		Port:    appCfg.Port,
		Locale:  appCfg.Locale,
		Version: appCfg.Version,
	})

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler, appCfg.APIAccessKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("HTTP server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Newsdesk shutdown complete")
	return nil
}
