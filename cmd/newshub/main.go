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

	"github.com/joho/godotenv"

	"newshub/internal/aggregate"
	"newshub/internal/ai"
	"newshub/internal/api"
	"newshub/internal/cache"
	"newshub/internal/compose"
	"newshub/internal/config"
	"newshub/internal/logger"
	"newshub/internal/metrics"
	"newshub/internal/retry"
	"newshub/internal/scraper"
	"newshub/internal/source"
	"newshub/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Debug)

	if err := run(cfg, log); err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	adapters, err := buildAdapters(cfg, log)
	if err != nil {
		return err
	}
	if len(adapters) == 0 {
		return fmt.Errorf("no news sources configured, set NEWS_API_KEY, GNEWS_API_KEY or %s", cfg.SourcesPath)
	}
	log.Info("sources configured", "count", len(adapters))

	history, saved, closeStore, err := buildStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	aggregator := aggregate.New(adapters, cfg.AdapterTimeout, log, metrics.Global)

	composer := compose.New(aggregator, history, compose.Config{
		HomeCountry:      cfg.HomeCountry,
		DefaultLanguage:  cfg.DefaultLanguage,
		PageSize:         cfg.PageSize,
		MaxPageSize:      cfg.MaxPageSize,
		DedupThreshold:   cfg.DedupThreshold,
		TopCategories:    cfg.TopCategories,
		TopKeywords:      cfg.TopKeywords,
		ForYouCategories: cfg.ForYouCategories,
		CacheTTL:         cfg.CacheTTL,
	}, cache.New(), log, metrics.Global)

	var summarizer api.Summarizer
	if cfg.GeminiAPIKey != "" {
		client, err := ai.NewClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return fmt.Errorf("init AI client: %w", err)
		}
		defer client.Close()
		summarizer = client
		log.Info("AI summarizer enabled")
	} else {
		log.Info("GEMINI_API_KEY not set, AI routes disabled")
	}

	retryCfg := retry.Config{
		MaxAttempts: cfg.RetryAttempts,
		Delay:       cfg.RetryDelay,
		Backoff:     true,
	}

	handlers := api.NewHandlers(composer, saved, summarizer, scraper.New(), retryCfg, metrics.Global, log)
	router := api.NewRouter(handlers, cfg.JWTSecret, cfg.Debug)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildAdapters configures whichever providers have credentials. A
// missing key just leaves that provider out.
func buildAdapters(cfg *config.Config, log *slog.Logger) ([]source.Adapter, error) {
	quota := source.NewQuota(map[string]int{
		"newsapi": cfg.NewsAPIQuota,
		"gnews":   cfg.GNewsQuota,
	})

	var adapters []source.Adapter
	if cfg.NewsAPIKey != "" {
		adapters = append(adapters, source.NewNewsAPI(cfg.NewsAPIKey, quota))
	}
	if cfg.GNewsAPIKey != "" {
		adapters = append(adapters, source.NewGNews(cfg.GNewsAPIKey, quota))
	}

	feeds, err := source.LoadFeeds(cfg.SourcesPath)
	switch {
	case err == nil && len(feeds) > 0:
		adapters = append(adapters, source.NewRSS(feeds, log))
	case err != nil && !os.IsNotExist(err):
		return nil, fmt.Errorf("load RSS sources: %w", err)
	default:
		log.Info("no RSS sources configured", "path", cfg.SourcesPath)
	}

	return adapters, nil
}

// buildStore picks Postgres when DATABASE_URL is set and the JSON file
// store otherwise.
func buildStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.HistoryStore, storage.SavedStore, func(), error) {
	if cfg.DatabaseURL != "" {
		pg, err := storage.OpenPostgres(ctx, cfg.DatabaseURL, cfg.HistoryLimit)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open database: %w", err)
		}
		log.Info("using postgres store")
		return pg.History(), pg.Saved(), func() { _ = pg.Close() }, nil
	}

	fs := storage.NewFileStore(cfg.HistoryPath, cfg.HistoryLimit)
	if err := fs.Load(); err != nil {
		return nil, nil, nil, fmt.Errorf("load user store: %w", err)
	}
	log.Info("using file store", "path", cfg.HistoryPath)
	return fs.History(), fs.Saved(), func() {}, nil
}
