package domain

import "time"

// Sentiment is the closed label set a scoring backend may assign.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
	SentimentUnknown  Sentiment = "unknown"
)

// Score carries the label and the three confidence weights a backend
// assigns to one document. A provider-side per-document error maps to
// the unknown label with all three weights zeroed.
type Score struct {
	Label Sentiment
	Pos   float64
	Neu   float64
	Neg   float64
}

// Unknown is the score recorded for a document the provider could not process.
func Unknown() Score {
	return Score{Label: SentimentUnknown}
}

// MonthlyAggregate is one (category, month) summary row of the aggregate
// table consumed by reporting. Month is nil for the bucket of records
// whose date could not be resolved.
type MonthlyAggregate struct {
	Category string
	Month    *time.Time
	Pos      float64
	Neu      float64
	Neg      float64
	Count    int
}

// StageRun is the audit snapshot persisted to the run ledger after a
// pipeline stage completes.
type StageRun struct {
	RunID    string
	Stage    string
	RowsIn   int
	RowsOut  int
	Backend  string
	Started  time.Time
	Duration time.Duration
}
