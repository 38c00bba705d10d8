package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"AgencyPulse/internal/config"
	"AgencyPulse/internal/dataset"
	"AgencyPulse/internal/domain"
)

// Aggregator rolls the scored dataset into one row per (category,
// month). Aggregation is a pure function of its input: identical scored
// datasets produce byte-identical aggregate tables.
type Aggregator struct {
	cfg    config.PipelineConfig
	logger *slog.Logger
}

// NewAggregator builds the aggregation stage.
func NewAggregator(cfg config.PipelineConfig, logger *slog.Logger) *Aggregator {
	return &Aggregator{cfg: cfg, logger: logger}
}

// Run reads the scored dataset, computes the monthly aggregate table
// and persists it. An empty scored dataset yields a valid header-only
// table; only a missing input fails.
func (a *Aggregator) Run(ctx context.Context) (domain.StageRun, error) {
	started := time.Now()

	scored, err := dataset.ReadCSV(a.cfg.ScoredPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.StageRun{}, &domain.ConfigurationError{
				Missing: fmt.Sprintf("scored dataset %s", a.cfg.ScoredPath),
				Hint:    "run the score stage first",
			}
		}
		return domain.StageRun{}, fmt.Errorf("load scored dataset: %w", err)
	}

	rows := Aggregate(scored)

	table := dataset.New("category", "month", "pos", "neu", "neg", "count")
	for _, r := range rows {
		month := ""
		if r.Month != nil {
			month = r.Month.Format(canonicalDateLayout)
		}
		table.AppendRow(
			r.Category,
			month,
			formatScore(r.Pos),
			formatScore(r.Neu),
			formatScore(r.Neg),
			strconv.Itoa(r.Count),
		)
	}

	if err := table.WriteCSV(a.cfg.AggregatePath); err != nil {
		return domain.StageRun{}, fmt.Errorf("persist aggregate table: %w", err)
	}

	run := domain.StageRun{
		Stage:    "aggregate",
		RowsIn:   scored.Len(),
		RowsOut:  len(rows),
		Started:  started,
		Duration: time.Since(started),
	}
	a.info("aggregate table written", "path", a.cfg.AggregatePath, "groups", len(rows))
	return run, nil
}

// Aggregate groups scored records by (category, first-of-month) and
// computes arithmetic means of the confidence scores plus a row count.
// Records without a resolvable date form a null-month bucket per
// category. Unknown records contribute their zeroed scores to the
// means; that dilution is part of the published numbers.
func Aggregate(scored *dataset.Frame) []domain.MonthlyAggregate {
	type groupKey struct {
		category string
		month    time.Time
		hasMonth bool
	}
	type acc struct {
		pos, neu, neg float64
		count         int
	}

	groups := map[groupKey]*acc{}
	for i := 0; i < scored.Len(); i++ {
		key := groupKey{category: scored.Value(i, ColCategory)}
		if t, ok := parseDate(scored.Value(i, ColDate)); ok {
			key.month = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
			key.hasMonth = true
		}

		g := groups[key]
		if g == nil {
			g = &acc{}
			groups[key] = g
		}
		g.pos += parseScore(scored.Value(i, ColPos))
		g.neu += parseScore(scored.Value(i, ColNeu))
		g.neg += parseScore(scored.Value(i, ColNeg))
		g.count++
	}

	rows := make([]domain.MonthlyAggregate, 0, len(groups))
	for key, g := range groups {
		row := domain.MonthlyAggregate{
			Category: key.category,
			Pos:      g.pos / float64(g.count),
			Neu:      g.neu / float64(g.count),
			Neg:      g.neg / float64(g.count),
			Count:    g.count,
		}
		if key.hasMonth {
			m := key.month
			row.Month = &m
		}
		rows = append(rows, row)
	}

	// Category ascending, then month ascending with the null-month
	// bucket ordered after real months within its category.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Category != rows[j].Category {
			return rows[i].Category < rows[j].Category
		}
		switch {
		case rows[i].Month == nil:
			return false
		case rows[j].Month == nil:
			return true
		default:
			return rows[i].Month.Before(*rows[j].Month)
		}
	})

	return rows
}

func parseScore(value string) float64 {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return v
}

func (a *Aggregator) info(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Info(msg, args...)
	}
}
