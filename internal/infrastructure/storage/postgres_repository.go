package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"AgencyPulse/internal/domain"
	"AgencyPulse/internal/ports"
)

// PostgresRepository persists stage run audit rows into Postgres. The
// ledger is pure history: pipeline correctness never depends on it, and
// a nil connection disables it.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.RunRepository = (*PostgresRepository)(nil)

// Open connects to Postgres and wraps it in a repository.
func Open(dsn string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return NewPostgresRepository(db), nil
}

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// RecordStage upserts one stage snapshot keyed by (run_id, stage).
func (r *PostgresRepository) RecordStage(ctx context.Context, run domain.StageRun) error {
	if r.db == nil {
		return nil
	}

	query, args, err := r.builder.
		Insert("stage_runs").
		Columns("run_id", "stage", "rows_in", "rows_out", "backend", "started_at", "duration_ms").
		Values(run.RunID, run.Stage, run.RowsIn, run.RowsOut, run.Backend, run.Started, run.Duration.Milliseconds()).
		Suffix(`ON CONFLICT (run_id, stage) DO UPDATE
                SET rows_in = EXCLUDED.rows_in,
                    rows_out = EXCLUDED.rows_out,
                    backend = EXCLUDED.backend,
                    duration_ms = EXCLUDED.duration_ms`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert stage run: %w", err)
	}

	return nil
}

// RecentRuns lists the latest ledger rows, newest first.
func (r *PostgresRepository) RecentRuns(ctx context.Context, limit int) ([]domain.StageRun, error) {
	if r.db == nil || limit <= 0 {
		return nil, nil
	}

	query, args, err := r.builder.
		Select("run_id", "stage", "rows_in", "rows_out", "backend", "started_at", "duration_ms").
		From("stage_runs").
		OrderBy("started_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stage runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.StageRun
	for rows.Next() {
		var run domain.StageRun
		var durationMs int64
		if err := rows.Scan(&run.RunID, &run.Stage, &run.RowsIn, &run.RowsOut, &run.Backend, &run.Started, &durationMs); err != nil {
			return nil, fmt.Errorf("scan stage run: %w", err)
		}
		run.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return runs, nil
}

// Close releases the underlying connection pool.
func (r *PostgresRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}
