package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"time"

	"AgencyPulse/internal/config"
	"AgencyPulse/internal/dataset"
	"AgencyPulse/internal/domain"
	"AgencyPulse/internal/ports"
)

// Scorer attaches a sentiment label and three confidence scores to
// every canonical record. It depends only on the SentimentBackend
// interface; which backend is active is a configuration choice.
type Scorer struct {
	cfg     config.PipelineConfig
	backend ports.SentimentBackend
	logger  *slog.Logger
}

// NewScorer builds the scoring stage around a backend.
func NewScorer(cfg config.PipelineConfig, backend ports.SentimentBackend, logger *slog.Logger) *Scorer {
	return &Scorer{cfg: cfg, backend: backend, logger: logger}
}

// Run reads the canonical dataset, scores every record and persists the
// scored dataset. A backend call-level failure aborts the stage with no
// output written; the canonical dataset stays reusable for retry.
func (s *Scorer) Run(ctx context.Context) (domain.StageRun, error) {
	started := time.Now()

	if s.backend == nil {
		return domain.StageRun{}, &domain.ConfigurationError{
			Missing: "sentiment backend",
			Hint:    "set sentiment.backend to lexicon or remote",
		}
	}

	canonical, err := dataset.ReadCSV(s.cfg.CanonicalPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.StageRun{}, &domain.ConfigurationError{
				Missing: fmt.Sprintf("canonical dataset %s", s.cfg.CanonicalPath),
				Hint:    "run the normalize stage first",
			}
		}
		return domain.StageRun{}, fmt.Errorf("load canonical dataset: %w", err)
	}

	texts := make([]string, canonical.Len())
	for i := range texts {
		texts[i] = canonical.Value(i, ColText)
	}

	scores, err := s.backend.ScoreBatch(ctx, texts)
	if err != nil {
		return domain.StageRun{}, err
	}

	scored := AttachScores(canonical, scores, s.logger)

	if err := scored.WriteCSV(s.cfg.ScoredPath); err != nil {
		return domain.StageRun{}, fmt.Errorf("persist scored dataset: %w", err)
	}

	unknown := 0
	for i := 0; i < scored.Len(); i++ {
		if scored.Value(i, ColSentiment) == string(domain.SentimentUnknown) {
			unknown++
		}
	}

	run := domain.StageRun{
		Stage:    "score",
		RowsIn:   canonical.Len(),
		RowsOut:  scored.Len(),
		Backend:  s.backend.Name(),
		Started:  started,
		Duration: time.Since(started),
	}
	s.info("scored dataset written", "path", s.cfg.ScoredPath, "rows", scored.Len(), "unknown", unknown, "backend", s.backend.Name())
	return run, nil
}

// AttachScores extends the canonical frame with the sentiment columns,
// strictly in submission order. When the backend returns a different
// number of results than records submitted, both sides are truncated to
// the shorter length and a warning is surfaced; conforming backends
// never trigger this.
func AttachScores(canonical *dataset.Frame, scores []domain.Score, logger *slog.Logger) *dataset.Frame {
	n := canonical.Len()
	if len(scores) != n {
		if logger != nil {
			logger.Warn("backend result count diverges from record count",
				"records", n, "results", len(scores))
		}
		if len(scores) < n {
			n = len(scores)
		}
	}

	out := dataset.New(canonical.Columns()...)
	out.AddColumn(ColSentiment)
	out.AddColumn(ColPos)
	out.AddColumn(ColNeu)
	out.AddColumn(ColNeg)

	for i := 0; i < n; i++ {
		row := make([]string, 0, len(canonical.Columns())+4)
		for _, c := range canonical.Columns() {
			row = append(row, canonical.Value(i, c))
		}
		row = append(row,
			string(scores[i].Label),
			formatScore(scores[i].Pos),
			formatScore(scores[i].Neu),
			formatScore(scores[i].Neg),
		)
		out.AppendRow(row...)
	}
	return out
}

// formatScore renders confidence weights with a shortest-roundtrip
// encoding so re-runs stay byte-identical.
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (s *Scorer) info(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}
