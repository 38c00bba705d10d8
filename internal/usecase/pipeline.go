package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"AgencyPulse/internal/config"
	"AgencyPulse/internal/domain"
	"AgencyPulse/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Pipeline   config.PipelineConfig
	Source     ports.RecordSource
	Backend    ports.SentimentBackend
	Repository ports.RunRepository
	Notifier   ports.Notifier
	Logger     *slog.Logger
}

// Pipeline runs the batch stages in order: ingest, normalize, score,
// aggregate. Each stage reads only the previous stage's durable output,
// so the subcommands can equally run the stages as separate processes.
type Pipeline struct {
	ingestor   *Ingestor
	normalizer *Normalizer
	scorer     *Scorer
	aggregator *Aggregator
	repository ports.RunRepository
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	var ingestor *Ingestor
	if deps.Source != nil {
		ingestor = NewIngestor(deps.Pipeline, deps.Source, deps.Logger)
	}
	return &Pipeline{
		ingestor:   ingestor,
		normalizer: NewNormalizer(deps.Pipeline, deps.Logger),
		scorer:     NewScorer(deps.Pipeline, deps.Backend, deps.Logger),
		aggregator: NewAggregator(deps.Pipeline, deps.Logger),
		repository: deps.Repository,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
	}
}

// Run executes a full pipeline pass. The run identifier ties the ledger
// rows of one pass together.
func (p *Pipeline) Run(ctx context.Context) error {
	runID := time.Now().UTC().Format("20060102T150405Z")

	var runs []domain.StageRun

	if p.ingestor != nil {
		run, err := p.ingestor.Run(ctx)
		if err != nil {
			return fmt.Errorf("ingest stage: %w", err)
		}
		runs = append(runs, run)
	}

	run, err := p.normalizer.Run(ctx)
	if err != nil {
		return fmt.Errorf("normalize stage: %w", err)
	}
	runs = append(runs, run)

	run, err = p.scorer.Run(ctx)
	if err != nil {
		return fmt.Errorf("score stage: %w", err)
	}
	runs = append(runs, run)

	run, err = p.aggregator.Run(ctx)
	if err != nil {
		return fmt.Errorf("aggregate stage: %w", err)
	}
	runs = append(runs, run)

	p.record(ctx, runID, runs)

	if p.notifier != nil {
		if err := p.notifier.PublishDigest(ctx, buildRunDigest(runID, runs)); err != nil {
			p.warn("publish digest", "error", err)
		}
	}

	return nil
}

// record writes ledger rows best-effort; an audit failure must not fail
// a pipeline pass whose datasets are already committed.
func (p *Pipeline) record(ctx context.Context, runID string, runs []domain.StageRun) {
	if p.repository == nil {
		return
	}
	for _, run := range runs {
		run.RunID = runID
		if err := p.repository.RecordStage(ctx, run); err != nil {
			p.warn("record stage run", "stage", run.Stage, "error", err)
		}
	}
}

func buildRunDigest(runID string, runs []domain.StageRun) string {
	digest := fmt.Sprintf("AgencyPulse run %s\n", runID)
	for _, run := range runs {
		digest += fmt.Sprintf("- %s: %d rows in, %d rows out (%s)\n",
			run.Stage, run.RowsIn, run.RowsOut, run.Duration.Round(time.Millisecond))
	}
	return digest
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
