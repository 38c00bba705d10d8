package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"AgencyPulse/internal/config"
	"AgencyPulse/internal/dataset"
	"AgencyPulse/internal/domain"
)

// Canonical column names after normalization. Raw partitions reach
// these via dataset.NormalizeColumnName plus the text precedence below.
const (
	ColText        = "Text"
	ColCategory    = "Category"
	ColDate        = "Date"
	ColDescription = "Description"
	ColTitle       = "Title"
	ColBody        = "Body"
	ColProgram     = "Program"

	ColSentiment = "Sentiment"
	ColPos       = "Pos"
	ColNeu       = "Neu"
	ColNeg       = "Neg"
)

// canonicalDateLayout is the one date format the canonical dataset carries.
const canonicalDateLayout = "2006-01-02"

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	canonicalDateLayout,
	"20060102T150405Z",
	"2006/01/02",
	"01/02/2006",
	"2 Jan 2006",
}

// parseDate attempts each known layout; permissive by contract, so a
// miss reports ok=false instead of an error.
func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Normalizer merges all raw partitions into the single canonical
// dataset: one text column resolved by precedence, a defaulted
// category, permissively parsed dates, a minimum-length filter and
// exact-row deduplication.
type Normalizer struct {
	cfg    config.PipelineConfig
	logger *slog.Logger
}

// NewNormalizer builds the normalization stage.
func NewNormalizer(cfg config.PipelineConfig, logger *slog.Logger) *Normalizer {
	return &Normalizer{cfg: cfg, logger: logger}
}

// Run reads every raw partition, produces the canonical dataset and
// persists it. Nothing is written when normalization fails.
func (n *Normalizer) Run(ctx context.Context) (domain.StageRun, error) {
	started := time.Now()

	frames, names, err := dataset.ReadPartitions(n.cfg.RawDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return domain.StageRun{}, fmt.Errorf("load raw partitions: %w", err)
	}
	if len(frames) == 0 {
		return domain.StageRun{}, &domain.ConfigurationError{
			Missing: fmt.Sprintf("raw partitions in %s", n.cfg.RawDir),
			Hint:    "run the ingest stage first",
		}
	}

	rowsIn := 0
	renamed := make([]*dataset.Frame, 0, len(frames))
	for i, f := range frames {
		rowsIn += f.Len()
		n.debug("read partition", "file", names[i], "rows", f.Len(), "columns", len(f.Columns()))
		renamed = append(renamed, f.Rename(dataset.NormalizeColumnName))
	}

	merged := dataset.Union(renamed...)

	canonical, err := Normalize(merged, n.cfg.MinTextLen)
	if err != nil {
		return domain.StageRun{}, err
	}

	if err := canonical.WriteCSV(n.cfg.CanonicalPath); err != nil {
		return domain.StageRun{}, fmt.Errorf("persist canonical dataset: %w", err)
	}

	run := domain.StageRun{
		Stage:    "normalize",
		RowsIn:   rowsIn,
		RowsOut:  canonical.Len(),
		Started:  started,
		Duration: time.Since(started),
	}
	n.info("canonical dataset written", "path", n.cfg.CanonicalPath, "rows", canonical.Len(), "dropped", rowsIn-canonical.Len())
	return run, nil
}

// Normalize applies the canonicalization rules to an already merged,
// column-normalized table. Exposed separately from file handling so it
// can be exercised against in-memory frames.
func Normalize(merged *dataset.Frame, minTextLen int) (*dataset.Frame, error) {
	if minTextLen <= 0 {
		minTextLen = 15
	}

	resolved, err := resolveText(merged)
	if err != nil {
		return nil, err
	}

	resolveCategory(resolved)
	resolveDates(resolved)

	for i := 0; i < resolved.Len(); i++ {
		resolved.Set(i, ColText, strings.TrimSpace(resolved.Value(i, ColText)))
	}
	resolved.Filter(func(i int) bool {
		return len([]rune(resolved.Value(i, ColText))) >= minTextLen
	})
	resolved.DropDuplicates()

	return reorderCanonical(resolved), nil
}

// resolveText builds the canonical text column. The precedence chain
// is fixed once against the merged column set: Description verbatim,
// else Title+Body, else Body, else Title. Because partitions from
// different platforms populate different columns, a row whose
// higher-precedence cell is empty falls through to the next resolvable
// candidate; a row with no text cell at all ends up empty and is
// removed by the length filter.
func resolveText(f *dataset.Frame) (*dataset.Frame, error) {
	hasDesc := f.Has(ColDescription)
	hasTitle := f.Has(ColTitle)
	hasBody := f.Has(ColBody)
	if !hasDesc && !hasTitle && !hasBody {
		return nil, &domain.SchemaError{Columns: f.Columns()}
	}

	f.AddColumn(ColText)
	for i := 0; i < f.Len(); i++ {
		text := ""
		if hasDesc {
			text = strings.TrimSpace(f.Value(i, ColDescription))
		}
		if text == "" && hasTitle && hasBody {
			text = strings.TrimSpace(f.Value(i, ColTitle) + " " + f.Value(i, ColBody))
		}
		if text == "" && hasBody {
			text = strings.TrimSpace(f.Value(i, ColBody))
		}
		if text == "" && hasTitle {
			text = strings.TrimSpace(f.Value(i, ColTitle))
		}
		f.Set(i, ColText, text)
	}
	return f, nil
}

// resolveCategory maps a Program column onto Category and fills blanks
// with the Unknown sentinel.
func resolveCategory(f *dataset.Frame) {
	if !f.Has(ColCategory) && f.Has(ColProgram) {
		renamed := f.Rename(func(c string) string {
			if c == ColProgram {
				return ColCategory
			}
			return c
		})
		*f = *renamed
	}
	f.AddColumn(ColCategory)
	for i := 0; i < f.Len(); i++ {
		if strings.TrimSpace(f.Value(i, ColCategory)) == "" {
			f.Set(i, ColCategory, "Unknown")
		}
	}
}

// resolveDates re-encodes parseable dates in the canonical layout and
// blanks everything else. Absent dates survive as empty cells.
func resolveDates(f *dataset.Frame) {
	f.AddColumn(ColDate)
	for i := 0; i < f.Len(); i++ {
		if t, ok := parseDate(f.Value(i, ColDate)); ok {
			f.Set(i, ColDate, t.Format(canonicalDateLayout))
		} else {
			f.Set(i, ColDate, "")
		}
	}
}

// reorderCanonical puts the contractual columns first; passthrough
// columns follow in their union order. Description is consumed into
// Text and not carried twice.
func reorderCanonical(f *dataset.Frame) *dataset.Frame {
	cols := []string{ColText, ColCategory, ColDate}
	lead := map[string]bool{ColText: true, ColCategory: true, ColDate: true, ColDescription: true}
	for _, c := range f.Columns() {
		if !lead[c] {
			cols = append(cols, c)
		}
	}

	out := dataset.New(cols...)
	for i := 0; i < f.Len(); i++ {
		row := make([]string, len(cols))
		for j, c := range cols {
			row[j] = f.Value(i, c)
		}
		out.AppendRow(row...)
	}
	return out
}

func (n *Normalizer) debug(msg string, args ...any) {
	if n.logger != nil {
		n.logger.Debug(msg, args...)
	}
}

func (n *Normalizer) info(msg string, args ...any) {
	if n.logger != nil {
		n.logger.Info(msg, args...)
	}
}
