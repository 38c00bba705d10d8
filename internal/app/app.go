package app

import (
	"context"
	"fmt"
	"log/slog"

	"AgencyPulse/internal/config"
	"AgencyPulse/internal/domain"
	"AgencyPulse/internal/infrastructure/connector"
	"AgencyPulse/internal/infrastructure/scheduler"
	"AgencyPulse/internal/infrastructure/sentiment"
	"AgencyPulse/internal/infrastructure/storage"
	"AgencyPulse/internal/infrastructure/telegram"
	"AgencyPulse/internal/logging"
	"AgencyPulse/internal/ports"
	"AgencyPulse/internal/scanner"
	"AgencyPulse/internal/usecase"
)

// Application wires configuration to use cases and lifecycle orchestration.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	ingestor   *usecase.Ingestor
	normalizer *usecase.Normalizer
	scorer     *usecase.Scorer
	aggregator *usecase.Aggregator
	pipeline   *usecase.Pipeline
	repository *storage.PostgresRepository
}

// New builds a runnable application instance from configuration.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := scanner.NewRegistry()
	registry.Register(connector.NewRedditScanner(nil))
	registry.Register(connector.NewYouTubeScanner(nil, config.YouTubeAPIKey, logging.Component(baseLogger, "connector.youtube")))
	registry.Register(connector.NewGDELTScanner(nil))

	source := connector.NewStrategySource(registry, cfg.Agency, cfg.Sources, logging.Component(baseLogger, "source"))

	backend, err := buildBackend(cfg.Sentiment, baseLogger)
	if err != nil {
		return nil, err
	}

	var repository *storage.PostgresRepository
	if cfg.Database.DSN != "" {
		repository, err = storage.Open(cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("run ledger: %w", err)
		}
	}

	var notifier ports.Notifier
	if tg := cfg.Notifications.Telegram; tg.BotToken != "" && tg.ChatID != "" {
		notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID)
	}

	stageLogger := logging.Component(baseLogger, "pipeline")
	deps := usecase.PipelineDeps{
		Pipeline:   cfg.Pipeline,
		Source:     source,
		Backend:    backend,
		Notifier:   notifier,
		Logger:     stageLogger,
	}
	if repository != nil {
		deps.Repository = repository
	}

	return &Application{
		cfg:        cfg,
		logger:     baseLogger,
		ingestor:   usecase.NewIngestor(cfg.Pipeline, source, stageLogger),
		normalizer: usecase.NewNormalizer(cfg.Pipeline, stageLogger),
		scorer:     usecase.NewScorer(cfg.Pipeline, backend, stageLogger),
		aggregator: usecase.NewAggregator(cfg.Pipeline, stageLogger),
		pipeline:   usecase.NewPipeline(deps),
		repository: repository,
	}, nil
}

func buildBackend(cfg config.SentimentConfig, baseLogger *slog.Logger) (ports.SentimentBackend, error) {
	switch cfg.Backend {
	case config.BackendLexicon, "":
		return sentiment.NewLexicon(), nil
	case config.BackendRemote:
		return sentiment.NewRemoteClient(cfg, logging.Component(baseLogger, "sentiment.remote")), nil
	default:
		return nil, &domain.ConfigurationError{
			Missing: fmt.Sprintf("sentiment backend %q", cfg.Backend),
			Hint:    "use lexicon or remote",
		}
	}
}

// Ingest runs only the connector stage.
func (a *Application) Ingest(ctx context.Context) error {
	_, err := a.ingestor.Run(ctx)
	return err
}

// Normalize runs only the schema normalization stage.
func (a *Application) Normalize(ctx context.Context) error {
	_, err := a.normalizer.Run(ctx)
	return err
}

// Score runs only the sentiment scoring stage.
func (a *Application) Score(ctx context.Context) error {
	_, err := a.scorer.Run(ctx)
	return err
}

// Aggregate runs only the monthly rollup stage.
func (a *Application) Aggregate(ctx context.Context) error {
	_, err := a.aggregator.Run(ctx)
	return err
}

// Run performs a full pipeline pass.
func (a *Application) Run(ctx context.Context) error {
	return a.pipeline.Run(ctx)
}

// Schedule blocks, running the full pipeline on the configured cron
// expression until the context is cancelled.
func (a *Application) Schedule(ctx context.Context) error {
	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location())
	sched := usecase.NewScheduler(driver, a.pipeline, logging.Component(a.logger, "scheduler"))

	if err := sched.Start(ctx); err != nil {
		return err
	}
	a.logger.Info("scheduler started", "cron", a.cfg.Scheduler.CronExpression)

	<-ctx.Done()
	return sched.Stop(context.Background())
}

// Close releases long-lived resources (the run ledger connection).
func (a *Application) Close() error {
	if a.repository != nil {
		return a.repository.Close()
	}
	return nil
}
