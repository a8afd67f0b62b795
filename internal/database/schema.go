package database

import (
	"context"
	"fmt"
)

const submissionsSchema = `
CREATE TABLE IF NOT EXISTS kassa_submissions (
	id                UUID PRIMARY KEY,
	kind              TEXT NOT NULL,
	external_id       TEXT NOT NULL,
	queue_id          TEXT NOT NULL,
	task_id           TEXT NOT NULL DEFAULT '',
	state             TEXT NOT NULL,
	payload           JSONB NOT NULL,
	fiscal_data       JSONB,
	error_description TEXT,
	archive_key       TEXT,
	created_at        TIMESTAMPTZ NOT NULL,
	updated_at        TIMESTAMPTZ NOT NULL,
	UNIQUE (kind, external_id)
);
CREATE INDEX IF NOT EXISTS kassa_submissions_state_idx ON kassa_submissions (state, created_at);
`

// EnsureSchema crea la tabla del diario si no existe
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, submissionsSchema); err != nil {
		return fmt.Errorf("error creating kassa_submissions schema: %w", err)
	}
	return nil
}
