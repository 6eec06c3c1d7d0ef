package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"ReviewReporter/internal/domain"
	"ReviewReporter/internal/ports"
)

const schema = `CREATE TABLE IF NOT EXISTS review_reports (
    id           UUID PRIMARY KEY,
    app_id       TEXT NOT NULL,
    output_path  TEXT NOT NULL,
    positive     INTEGER NOT NULL,
    neutral      INTEGER NOT NULL,
    negative     INTEGER NOT NULL,
    verdict      TEXT NOT NULL,
    generated_at TIMESTAMPTZ NOT NULL
)`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository persists generated report runs into Postgres.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.RunRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the runs table when it does not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveRun inserts a run summary; re-saving the same id updates it.
func (r *PostgresRepository) SaveRun(ctx context.Context, record domain.RunRecord) error {
	if r.db == nil {
		return nil
	}

	query, args, err := insertRun(record).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	return nil
}

func insertRun(record domain.RunRecord) sq.InsertBuilder {
	return psql.Insert("review_reports").
		Columns("id", "app_id", "output_path", "positive", "neutral", "negative", "verdict", "generated_at").
		Values(
			record.ID.String(),
			record.AppID,
			record.OutputPath,
			record.Positive,
			record.Neutral,
			record.Negative,
			record.Verdict.String(),
			record.GeneratedAt,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE
              SET output_path = EXCLUDED.output_path,
                  positive = EXCLUDED.positive,
                  neutral = EXCLUDED.neutral,
                  negative = EXCLUDED.negative,
                  verdict = EXCLUDED.verdict`)
}
