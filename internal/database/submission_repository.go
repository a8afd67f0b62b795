package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/kassa-sdk/internal/models"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

var (
	// ErrSubmissionNotFound se retorna cuando no existe la fila buscada
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrDuplicateExternalID se retorna al violar la unicidad de (kind, external_id)
	ErrDuplicateExternalID = errors.New("submission with this external_id already exists")
	// ErrSubmissionFinalized se retorna al intentar cambiar un envío que ya está en estado final
	ErrSubmissionFinalized = errors.New("submission already in a final state")
)

const uniqueViolation = "23505"

const submissionColumns = `id, kind, external_id, queue_id, task_id, state, payload,
	fiscal_data, error_description, archive_key, created_at, updated_at`

// SubmissionRepository maneja el diario de documentos enviados
type SubmissionRepository struct {
	db     *DB
	logger *logrus.Logger
}

// NewSubmissionRepository crea una nueva instancia del repositorio
func NewSubmissionRepository(db *DB, logger *logrus.Logger) *SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserta un envío nuevo
func (r *SubmissionRepository) Create(ctx context.Context, s *models.Submission) error {
	query := `
		INSERT INTO kassa_submissions (
			id, kind, external_id, queue_id, task_id, state, payload,
			fiscal_data, error_description, archive_key, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Kind, s.ExternalID, s.QueueID, s.TaskID, s.State, []byte(s.Payload),
		nullJSON(s.FiscalData), s.ErrorDescription, s.ArchiveKey, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateExternalID
		}
		return fmt.Errorf("error inserting submission: %w", err)
	}

	return nil
}

// GetByID obtiene un envío por ID
func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM kassa_submissions WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByExternalID obtiene un envío por tipo y external_id
func (r *SubmissionRepository) GetByExternalID(ctx context.Context, kind models.SubmissionKind, externalID string) (*models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM kassa_submissions WHERE kind = $1 AND external_id = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, kind, externalID))
}

// UpdateState guarda el estado informado por la caja. La fila se bloquea con
// FOR UPDATE y un estado final (done, error) no se sobrescribe.
func (r *SubmissionRepository) UpdateState(ctx context.Context, id uuid.UUID, state models.SubmissionState, fiscalData json.RawMessage, errorDescription *string) error {
	return r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		var current models.SubmissionState
		err := tx.QueryRowContext(ctx, `SELECT state FROM kassa_submissions WHERE id = $1 FOR UPDATE`, id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSubmissionNotFound
		}
		if err != nil {
			return fmt.Errorf("error locking submission: %w", err)
		}
		if current.Final() {
			return ErrSubmissionFinalized
		}

		query := `
			UPDATE kassa_submissions
			SET state = $1, fiscal_data = $2, error_description = $3, updated_at = $4
			WHERE id = $5
		`
		if _, err := tx.ExecContext(ctx, query, state, nullJSON(fiscalData), errorDescription, time.Now(), id); err != nil {
			return fmt.Errorf("error updating submission state: %w", err)
		}
		return nil
	})
}

// SetArchiveKey guarda la clave del documento archivado
func (r *SubmissionRepository) SetArchiveKey(ctx context.Context, id uuid.UUID, key string) error {
	query := `UPDATE kassa_submissions SET archive_key = $1, updated_at = $2 WHERE id = $3`

	if _, err := r.db.ExecContext(ctx, query, key, time.Now(), id); err != nil {
		return fmt.Errorf("error updating submission archive key: %w", err)
	}
	return nil
}

// ListPending lista los envíos que aún no llegan a un estado final
func (r *SubmissionRepository) ListPending(ctx context.Context, limit int) ([]*models.Submission, error) {
	query := `SELECT ` + submissionColumns + `
		FROM kassa_submissions
		WHERE state NOT IN ('done', 'error')
		ORDER BY created_at
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying pending submissions: %w", err)
	}
	defer rows.Close()

	var submissions []*models.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning submission: %w", err)
		}
		submissions = append(submissions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submissions: %w", err)
	}

	return submissions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *SubmissionRepository) scanOne(row *sql.Row) (*models.Submission, error) {
	s, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("error querying submission: %w", err)
	}
	return s, nil
}

func scanSubmission(row scanner) (*models.Submission, error) {
	var s models.Submission
	var payload, fiscalData []byte

	err := row.Scan(
		&s.ID, &s.Kind, &s.ExternalID, &s.QueueID, &s.TaskID, &s.State, &payload,
		&fiscalData, &s.ErrorDescription, &s.ArchiveKey, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Payload = payload
	if len(fiscalData) > 0 {
		s.FiscalData = fiscalData
	}
	return &s, nil
}

func nullJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
