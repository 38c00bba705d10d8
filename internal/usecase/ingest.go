package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"AgencyPulse/internal/config"
	"AgencyPulse/internal/domain"
	"AgencyPulse/internal/ports"
)

// Ingestor asks every configured connector for its raw partition and
// persists each as its own CSV under the raw directory. Connectors are
// independent and order-insensitive; an empty partition is valid and
// simply not written.
type Ingestor struct {
	cfg    config.PipelineConfig
	source ports.RecordSource
	logger *slog.Logger
}

// NewIngestor builds the ingest stage.
func NewIngestor(cfg config.PipelineConfig, source ports.RecordSource, logger *slog.Logger) *Ingestor {
	return &Ingestor{cfg: cfg, source: source, logger: logger}
}

// Run fetches all partitions and writes them to the raw directory.
func (g *Ingestor) Run(ctx context.Context) (domain.StageRun, error) {
	started := time.Now()

	if g.source == nil {
		return domain.StageRun{}, &domain.ConfigurationError{
			Missing: "record source",
			Hint:    "configure at least one source connector",
		}
	}

	partitions, err := g.source.FetchPartitions(ctx)
	if err != nil {
		return domain.StageRun{}, fmt.Errorf("fetch partitions: %w", err)
	}

	total := 0
	for name, frame := range partitions {
		if frame.Len() == 0 {
			g.info("partition empty, skipping", "source", name)
			continue
		}
		path := filepath.Join(g.cfg.RawDir, name+".csv")
		if err := frame.WriteCSV(path); err != nil {
			return domain.StageRun{}, fmt.Errorf("persist partition %s: %w", name, err)
		}
		g.info("partition written", "source", name, "path", path, "rows", frame.Len())
		total += frame.Len()
	}

	return domain.StageRun{
		Stage:    "ingest",
		RowsOut:  total,
		Started:  started,
		Duration: time.Since(started),
	}, nil
}

func (g *Ingestor) info(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Info(msg, args...)
	}
}
