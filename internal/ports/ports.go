package ports

import (
	"context"
	"time"

	"AgencyPulse/internal/dataset"
	"AgencyPulse/internal/domain"
)

// RecordSource pulls raw mention partitions from upstream platforms.
// Keys are partition names (one per connector); each frame is persisted
// as its own raw CSV before the normalizer runs.
type RecordSource interface {
	FetchPartitions(ctx context.Context) (map[string]*dataset.Frame, error)
}

// SentimentBackend assigns a label and three confidence scores to every
// text in a batch, in input order. Implementations must return exactly
// one score per input; per-document provider errors are folded into an
// unknown score, never into a short result slice.
type SentimentBackend interface {
	Name() string
	ScoreBatch(ctx context.Context, texts []string) ([]domain.Score, error)
}

// RunRepository persists stage audit rows for history and reporting.
type RunRepository interface {
	RecordStage(ctx context.Context, run domain.StageRun) error
}

// Notifier streams run digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
