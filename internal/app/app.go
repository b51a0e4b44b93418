package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"newslens/internal/analysis"
	"newslens/internal/config"
	"newslens/internal/domain"
	"newslens/internal/infrastructure/fetcher"
	"newslens/internal/infrastructure/llm"
	"newslens/internal/infrastructure/scheduler"
	"newslens/internal/infrastructure/storage"
	"newslens/internal/logging"
	"newslens/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	db        *sql.DB
	repo      *storage.SQLRepository
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
	logger    *slog.Logger
}

// New builds a runnable application instance, opening the configured store.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	var (
		db   *sql.DB
		repo *storage.SQLRepository
		err  error
	)
	switch cfg.Database.Driver {
	case "sqlite":
		db, err = storage.OpenSQLite(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		repo = storage.NewSQLiteRepository(db)
	case "postgres", "":
		db, err = storage.OpenPostgres(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		repo = storage.NewPostgresRepository(db)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	remote := llm.NewClient(cfg.LLM)

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Feeds:             repo,
		Articles:          repo,
		Keywords:          repo,
		Sentiments:        repo,
		Stocks:            repo,
		Fetcher:           fetcher.NewRSSFetcher(nil),
		Extractor:         analysis.NewKeywordExtractor(cfg.Analysis.StopWords),
		Sentiment:         remote,
		SentimentFallback: analysis.NewLexiconSentiment(cfg.Analysis.PositiveWords, cfg.Analysis.NegativeWords),
		StockDetector:     remote,
		StockFallback:     analysis.NewLocalStockDetector(nil, nil),
		FeedDelay:         cfg.Refresh.FeedDelayDuration(),
		Logger:            baseLogger.With("component", "pipeline"),
	})

	driver := scheduler.NewIntervalScheduler(cfg.Refresh.IntervalDuration())
	sched := usecase.NewScheduler(driver, pipeline, baseLogger.With("component", "scheduler"))

	return &Application{
		cfg:       cfg,
		db:        db,
		repo:      repo,
		pipeline:  pipeline,
		scheduler: sched,
		logger:    baseLogger,
	}, nil
}

// Run bootstraps the schema and processes feeds periodically until the
// context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.repo.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := a.scheduler.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return a.scheduler.Stop(context.Background())
}

// RefreshAll runs a single refresh pass across all active feeds.
func (a *Application) RefreshAll(ctx context.Context) ([]domain.RefreshResult, error) {
	if err := a.repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return a.pipeline.RefreshAll(ctx)
}

// AddFeed subscribes a new feed and ingests its initial articles.
func (a *Application) AddFeed(ctx context.Context, url, title, category string) (domain.Feed, error) {
	if err := a.repo.EnsureSchema(ctx); err != nil {
		return domain.Feed{}, err
	}
	return a.pipeline.AddFeed(ctx, url, title, category)
}

// Close releases the database handle.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
