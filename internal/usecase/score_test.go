package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"AgencyPulse/internal/dataset"
	"AgencyPulse/internal/domain"
)

// stubBackend returns canned scores, optionally fewer than requested.
type stubBackend struct {
	scores []domain.Score
	err    error
}

func (s *stubBackend) Name() string { return "stub" }

func (s *stubBackend) ScoreBatch(ctx context.Context, texts []string) ([]domain.Score, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.scores != nil {
		return s.scores, nil
	}
	out := make([]domain.Score, len(texts))
	for i := range out {
		out[i] = domain.Score{Label: domain.SentimentNeutral, Neu: 1}
	}
	return out, nil
}

func TestScorerCardinalityInvariant(t *testing.T) {
	t.Parallel()

	cfg := testPipelineConfig(t)

	canonical := dataset.New(ColText, ColCategory, ColDate)
	canonical.AppendRow("first record with plenty of text", "News", "2025-04-01")
	canonical.AppendRow("second record with plenty of text", "News", "")
	canonical.AppendRow("third record with plenty of text", "Unknown", "2025-04-02")
	require.NoError(t, canonical.WriteCSV(cfg.CanonicalPath))

	backend := &stubBackend{scores: []domain.Score{
		{Label: domain.SentimentPositive, Pos: 0.9, Neu: 0.05, Neg: 0.05},
		domain.Unknown(),
		{Label: domain.SentimentNegative, Pos: 0.1, Neu: 0.1, Neg: 0.8},
	}}

	run, err := NewScorer(cfg, backend, nil).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, run.RowsIn)
	require.Equal(t, 3, run.RowsOut, "scoring must not drop rows")

	scored, err := dataset.ReadCSV(cfg.ScoredPath)
	require.NoError(t, err)
	require.Equal(t, 3, scored.Len())

	// Per-document failure is absorbed into data, not a run failure.
	require.Equal(t, string(domain.SentimentUnknown), scored.Value(1, ColSentiment))
	require.Equal(t, "0", scored.Value(1, ColPos))
	require.Equal(t, "0", scored.Value(1, ColNeu))
	require.Equal(t, "0", scored.Value(1, ColNeg))

	require.Equal(t, string(domain.SentimentPositive), scored.Value(0, ColSentiment))
	require.Equal(t, "0.9", scored.Value(0, ColPos))
}

func TestScorerCallLevelFailureWritesNothing(t *testing.T) {
	t.Parallel()

	cfg := testPipelineConfig(t)

	canonical := dataset.New(ColText, ColCategory, ColDate)
	canonical.AppendRow("a record that will never be scored", "News", "")
	require.NoError(t, canonical.WriteCSV(cfg.CanonicalPath))

	backend := &stubBackend{err: &domain.ScoringServiceError{Batch: 0, Err: errors.New("connection refused")}}

	_, err := NewScorer(cfg, backend, nil).Run(context.Background())

	var svcErr *domain.ScoringServiceError
	require.ErrorAs(t, err, &svcErr)

	_, err = dataset.ReadCSV(cfg.ScoredPath)
	require.Error(t, err, "no partial scored output may be committed")

	// canonical input stays reusable for retry
	back, err := dataset.ReadCSV(cfg.CanonicalPath)
	require.NoError(t, err)
	require.Equal(t, 1, back.Len())
}

func TestScorerMissingCanonicalInput(t *testing.T) {
	t.Parallel()

	cfg := testPipelineConfig(t)

	_, err := NewScorer(cfg, &stubBackend{}, nil).Run(context.Background())

	var confErr *domain.ConfigurationError
	require.ErrorAs(t, err, &confErr)
	require.Contains(t, confErr.Hint, "normalize")
}

func TestAttachScoresTruncatesOnDivergence(t *testing.T) {
	t.Parallel()

	canonical := dataset.New(ColText)
	canonical.AppendRow("one record of text here")
	canonical.AppendRow("two records of text here")

	scored := AttachScores(canonical, []domain.Score{{Label: domain.SentimentNeutral, Neu: 1}}, nil)
	require.Equal(t, 1, scored.Len())
}
