package usecase

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"AgencyPulse/internal/dataset"
	"AgencyPulse/internal/domain"
)

func scoredFixture() *dataset.Frame {
	f := dataset.New(ColText, ColCategory, ColDate, ColSentiment, ColPos, ColNeu, ColNeg)
	f.AppendRow("first news mention", "News", "2025-03-04", "positive", "0.8", "0.1", "0.1")
	f.AppendRow("second news mention", "News", "2025-03-20", "negative", "0.2", "0.2", "0.6")
	f.AppendRow("april news mention", "News", "2025-04-02", "neutral", "0.1", "0.8", "0.1")
	f.AppendRow("dateless news mention", "News", "", "unknown", "0", "0", "0")
	f.AppendRow("discussion mention", "PublicDiscussion", "2025-03-15", "positive", "0.9", "0.05", "0.05")
	return f
}

func TestAggregateGroupsByCategoryAndMonth(t *testing.T) {
	t.Parallel()

	rows := Aggregate(scoredFixture())
	require.Len(t, rows, 4)

	// News / 2025-03: two rows averaged
	march := rows[0]
	require.Equal(t, "News", march.Category)
	require.NotNil(t, march.Month)
	require.Equal(t, "2025-03-01", march.Month.Format("2006-01-02"))
	require.Equal(t, 2, march.Count)
	require.InDelta(t, 0.5, march.Pos, 1e-9)
	require.InDelta(t, 0.35, march.Neg, 1e-9)

	// null-month bucket sorts after real months within News
	require.Equal(t, "News", rows[2].Category)
	require.Nil(t, rows[2].Month)
	require.Equal(t, 1, rows[2].Count)

	require.Equal(t, "PublicDiscussion", rows[3].Category)
}

func TestAggregateUnknownScoresDiluteMeans(t *testing.T) {
	t.Parallel()

	f := dataset.New(ColCategory, ColDate, ColPos, ColNeu, ColNeg)
	f.AppendRow("News", "2025-01-10", "1", "0", "0")
	f.AppendRow("News", "2025-01-11", "0", "0", "0") // unknown, zeroed

	rows := Aggregate(f)
	require.Len(t, rows, 1)
	require.InDelta(t, 0.5, rows[0].Pos, 1e-9)
	require.Equal(t, 2, rows[0].Count)
}

func TestAggregatorRunIsDeterministic(t *testing.T) {
	t.Parallel()

	cfg := testPipelineConfig(t)
	require.NoError(t, scoredFixture().WriteCSV(cfg.ScoredPath))

	agg := NewAggregator(cfg, nil)

	_, err := agg.Run(context.Background())
	require.NoError(t, err)
	first, err := os.ReadFile(cfg.AggregatePath)
	require.NoError(t, err)

	_, err = agg.Run(context.Background())
	require.NoError(t, err)
	second, err := os.ReadFile(cfg.AggregatePath)
	require.NoError(t, err)

	require.Equal(t, string(first), string(second))
}

func TestAggregatorRunEmptyScoredDataset(t *testing.T) {
	t.Parallel()

	cfg := testPipelineConfig(t)
	empty := dataset.New(ColText, ColCategory, ColDate, ColSentiment, ColPos, ColNeu, ColNeg)
	require.NoError(t, empty.WriteCSV(cfg.ScoredPath))

	run, err := NewAggregator(cfg, nil).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, run.RowsOut)

	table, err := dataset.ReadCSV(cfg.AggregatePath)
	require.NoError(t, err)
	require.Equal(t, 0, table.Len())
	require.Equal(t, []string{"category", "month", "pos", "neu", "neg", "count"}, table.Columns())
}

func TestAggregatorRunMissingInput(t *testing.T) {
	t.Parallel()

	cfg := testPipelineConfig(t)

	_, err := NewAggregator(cfg, nil).Run(context.Background())

	var confErr *domain.ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	require.Contains(t, confErr.Hint, "score")
}
