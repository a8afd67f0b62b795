package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/hypernova-labs/kassa-sdk/internal/models"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*SubmissionRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewSubmissionRepository(NewDB(sqlDB), logger), mock
}

var submissionRowColumns = []string{
	"id", "kind", "external_id", "queue_id", "task_id", "state", "payload",
	"fiscal_data", "error_description", "archive_key", "created_at", "updated_at",
}

func TestSubmissionRepositoryCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &models.Submission{
		ID:         uuid.New(),
		Kind:       models.SubmissionKindCheck,
		ExternalID: "ext-1",
		QueueID:    "5",
		TaskID:     "77",
		State:      models.SubmissionStateNew,
		Payload:    json.RawMessage(`{"intent":"sell"}`),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kassa_submissions")).
		WithArgs(s.ID, s.Kind, "ext-1", "5", "77", s.State, []byte(`{"intent":"sell"}`),
			nil, nil, nil, now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepositoryCreateDuplicate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kassa_submissions")).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Submission{ID: uuid.New()})
	assert.ErrorIs(t, err, ErrDuplicateExternalID)
}

func TestSubmissionRepositoryGetByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()
	now := time.Now().UTC()

	rows := sqlmock.NewRows(submissionRowColumns).
		AddRow(id.String(), "check", "ext-1", "5", "77", "done", []byte(`{}`),
			[]byte(`{"fn":"1"}`), nil, "checks/ext-1.json", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM kassa_submissions WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(rows)

	s, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, s.ID)
	assert.Equal(t, models.SubmissionStateDone, s.State)
	assert.JSONEq(t, `{"fn":"1"}`, string(s.FiscalData))
	require.NotNil(t, s.ArchiveKey)
	assert.Equal(t, "checks/ext-1.json", *s.ArchiveKey)
	assert.Nil(t, s.ErrorDescription)
}

func TestSubmissionRepositoryNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE kind = $1 AND external_id = $2")).
		WithArgs(models.SubmissionKindCheck, "missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByExternalID(context.Background(), models.SubmissionKindCheck, "missing")
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestSubmissionRepositoryUpdateState(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()
	description := "Check has no positions"

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT state FROM kassa_submissions WHERE id = $1 FOR UPDATE")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"state"}).AddRow("running"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE kassa_submissions")).
		WithArgs(models.SubmissionStateError, nil, &description, sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateState(context.Background(), id, models.SubmissionStateError, nil, &description)
	require.NoError(t, err)

	missing := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(missing).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err = repo.UpdateState(context.Background(), missing, models.SubmissionStateDone, nil, nil)
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepositoryUpdateStateKeepsFinal(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"state"}).AddRow("done"))
	mock.ExpectRollback()

	err := repo.UpdateState(context.Background(), id, models.SubmissionStateError, nil, nil)
	assert.ErrorIs(t, err, ErrSubmissionFinalized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepositoryListPending(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(submissionRowColumns).
		AddRow(uuid.NewString(), "check", "a", "5", "1", "new", []byte(`{}`), nil, nil, nil, now, now).
		AddRow(uuid.NewString(), "correction", "b", "5", "2", "running", []byte(`{}`), nil, nil, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE state NOT IN ('done', 'error')")).
		WithArgs(50).
		WillReturnRows(rows)

	pending, err := repo.ListPending(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, models.SubmissionKindCorrection, pending[1].Kind)
	assert.Empty(t, pending[0].FiscalData)
}

func TestWithTransactionRollsBack(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	db := NewDB(sqlDB)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err = db.WithTransaction(context.Background(), func(*sql.Tx) error { return boom })
	assert.ErrorIs(t, err, boom)

	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, db.WithTransaction(context.Background(), func(*sql.Tx) error { return nil }))
	assert.NoError(t, mock.ExpectationsWereMet())
}
