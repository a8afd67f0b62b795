package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/kassa-sdk/internal/database"
	"github.com/hypernova-labs/kassa-sdk/internal/models"
	"github.com/hypernova-labs/kassa-sdk/pkg/client"
	"github.com/hypernova-labs/kassa-sdk/pkg/kassa"
	"github.com/sirupsen/logrus"
)

var (
	// ErrDuplicateSubmission se retorna cuando el external_id ya fue enviado
	ErrDuplicateSubmission = errors.New("document with this external_id was already submitted")
	// ErrSubmissionInProgress se retorna cuando otro envío del mismo external_id está en curso
	ErrSubmissionInProgress = errors.New("document with this external_id is being submitted")
	// ErrSubmissionNotFound se retorna cuando el envío no existe
	ErrSubmissionNotFound = errors.New("submission not found")
)

// KassaAPI es la parte del cliente de KOMTET Kassa que usa el gateway
type KassaAPI interface {
	ResolveQueue(qid string) (string, error)
	IsQueueActive(ctx context.Context, qid string) (bool, error)
	CreateTask(ctx context.Context, doc client.Document, qid string) (*client.Task, error)
	GetTaskInfo(ctx context.Context, taskID string) (*client.TaskInfo, error)
}

// SubmissionStore es el diario de envíos
type SubmissionStore interface {
	Create(ctx context.Context, s *models.Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error)
	GetByExternalID(ctx context.Context, kind models.SubmissionKind, externalID string) (*models.Submission, error)
	UpdateState(ctx context.Context, id uuid.UUID, state models.SubmissionState, fiscalData json.RawMessage, errorDescription *string) error
	SetArchiveKey(ctx context.Context, id uuid.UUID, key string) error
	ListPending(ctx context.Context, limit int) ([]*models.Submission, error)
}

// Archive guarda copias de los documentos enviados
type Archive interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
}

// Notifier avisa cuando una tarea termina en error
type Notifier interface {
	NotifyTaskFailure(ctx context.Context, sub *models.Submission) error
}

// EventPublisher publica el evento de documento enviado
type EventPublisher interface {
	PublishTaskSubmitted(ctx context.Context, submissionID uuid.UUID) error
}

// FiscalService maneja la lógica de envío y seguimiento de documentos fiscales
type FiscalService struct {
	kassa     KassaAPI
	store     SubmissionStore
	cache     database.TaskCache
	archive   Archive
	notifier  Notifier
	publisher EventPublisher
	renderer  *ReceiptRenderer
	logger    *logrus.Logger
	now       func() time.Time
}

// FiscalOption configura dependencias opcionales del servicio
type FiscalOption func(*FiscalService)

// WithArchive activa el archivo de documentos
func WithArchive(archive Archive) FiscalOption {
	return func(s *FiscalService) {
		s.archive = archive
	}
}

// WithNotifier activa los avisos de tareas fallidas
func WithNotifier(notifier Notifier) FiscalOption {
	return func(s *FiscalService) {
		s.notifier = notifier
	}
}

// WithPublisher activa la publicación de eventos
func WithPublisher(publisher EventPublisher) FiscalOption {
	return func(s *FiscalService) {
		s.publisher = publisher
	}
}

// NewFiscalService crea una nueva instancia del servicio
func NewFiscalService(kassaAPI KassaAPI, store SubmissionStore, cache database.TaskCache, logger *logrus.Logger, opts ...FiscalOption) *FiscalService {
	s := &FiscalService{
		kassa:    kassaAPI,
		store:    store,
		cache:    cache,
		renderer: NewReceiptRenderer(logger),
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetPublisher conecta el publicador después de construir el servicio
func (s *FiscalService) SetPublisher(publisher EventPublisher) {
	s.publisher = publisher
}

// SubmitCheck construye el documento, lo encola en la caja y lo registra en el diario
func (s *FiscalService) SubmitCheck(ctx context.Context, req *models.CreateCheckRequest) (*models.Submission, error) {
	if req.ExternalID == "" {
		req.ExternalID = uuid.NewString()
	}

	doc, kind, err := BuildCheck(req)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetByExternalID(ctx, kind, req.ExternalID); err == nil {
		return nil, ErrDuplicateSubmission
	} else if !errors.Is(err, database.ErrSubmissionNotFound) {
		return nil, fmt.Errorf("error checking external_id: %w", err)
	}

	lockKey := database.SubmitLockKey(kind, req.ExternalID)
	token, locked, err := s.cache.AcquireSubmitLock(ctx, lockKey)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrSubmissionInProgress
	}
	defer func() {
		if err := s.cache.ReleaseSubmitLock(context.WithoutCancel(ctx), lockKey, token); err != nil {
			s.logger.WithError(err).Warn("Error releasing submit lock")
		}
	}()

	queueID, err := s.kassa.ResolveQueue(req.QueueID)
	if err != nil {
		return nil, &ValidationError{Field: "queue_id", Issue: err.Error(), Err: err}
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("error encoding document: %w", err)
	}

	task, err := s.kassa.CreateTask(ctx, doc, queueID)
	if err != nil {
		return nil, fmt.Errorf("error creating kassa task: %w", err)
	}

	now := s.now()
	state := models.SubmissionState(task.State)
	if state == "" {
		state = models.SubmissionStateNew
	}
	sub := &models.Submission{
		ID:         uuid.New(),
		Kind:       kind,
		ExternalID: req.ExternalID,
		QueueID:    queueID,
		TaskID:     task.ID.String(),
		State:      state,
		Payload:    payload,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.Create(ctx, sub); err != nil {
		if errors.Is(err, database.ErrDuplicateExternalID) {
			return nil, ErrDuplicateSubmission
		}
		return nil, fmt.Errorf("error saving submission: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"submission_id": sub.ID,
		"external_id":   sub.ExternalID,
		"queue_id":      queueID,
		"task_id":       sub.TaskID,
		"kind":          kind,
	}).Info("Document submitted to kassa")

	if s.archive != nil {
		key := fmt.Sprintf("%ss/%s.json", kind, sub.ExternalID)
		if _, err := s.archive.Put(ctx, key, payload, "application/json"); err != nil {
			s.logger.WithError(err).WithField("submission_id", sub.ID).Warn("Error archiving document")
		} else if err := s.store.SetArchiveKey(ctx, sub.ID, key); err != nil {
			s.logger.WithError(err).WithField("submission_id", sub.ID).Warn("Error saving archive key")
		} else {
			sub.ArchiveKey = &key
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishTaskSubmitted(ctx, sub.ID); err != nil {
			s.logger.WithError(err).WithField("submission_id", sub.ID).Warn("Error publishing task event")
		}
	}

	s.cacheState(ctx, sub)

	return sub, nil
}

// GetSubmission obtiene un envío del diario
func (s *FiscalService) GetSubmission(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	sub, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrSubmissionNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("error getting submission: %w", err)
	}
	return sub, nil
}

// RefreshTask consulta el estado de la tarea en la caja y actualiza el diario.
// Un envío en estado final no vuelve a consultarse.
func (s *FiscalService) RefreshTask(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	if state, ok, err := s.cache.GetState(ctx, id.String()); err == nil && ok && models.SubmissionState(state).Final() {
		return s.GetSubmission(ctx, id)
	}

	sub, err := s.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.State.Final() {
		s.cacheState(ctx, sub)
		return sub, nil
	}

	info, err := s.kassa.GetTaskInfo(ctx, sub.TaskID)
	if err != nil {
		return nil, fmt.Errorf("error getting task info: %w", err)
	}

	state := models.SubmissionState(info.State)
	if state == sub.State {
		return sub, nil
	}

	var fiscalData json.RawMessage
	if len(info.FiscalData) > 0 {
		if fiscalData, err = json.Marshal(info.FiscalData); err != nil {
			return nil, fmt.Errorf("error encoding fiscal data: %w", err)
		}
	}
	var description *string
	if info.ErrorDescription != "" {
		description = &info.ErrorDescription
	}

	if err := s.store.UpdateState(ctx, sub.ID, state, fiscalData, description); err != nil {
		if errors.Is(err, database.ErrSubmissionFinalized) {
			// Otro proceso cerró el envío entre la lectura y la escritura
			return s.GetSubmission(ctx, id)
		}
		return nil, fmt.Errorf("error updating submission: %w", err)
	}

	sub.State = state
	sub.FiscalData = fiscalData
	sub.ErrorDescription = description
	sub.UpdatedAt = s.now()

	s.logger.WithFields(logrus.Fields{
		"submission_id": sub.ID,
		"task_id":       sub.TaskID,
		"state":         state,
	}).Info("Task state updated")

	s.cacheState(ctx, sub)

	if state == models.SubmissionStateError && s.notifier != nil {
		if err := s.notifier.NotifyTaskFailure(ctx, sub); err != nil {
			s.logger.WithError(err).WithField("submission_id", sub.ID).Error("Error sending task failure notice")
		}
	}

	return sub, nil
}

// RefreshPending actualiza hasta limit envíos sin estado final y retorna cuántos cambiaron
func (s *FiscalService) RefreshPending(ctx context.Context, limit int) (int, error) {
	pending, err := s.store.ListPending(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("error listing pending submissions: %w", err)
	}

	changed := 0
	for _, sub := range pending {
		updated, err := s.RefreshTask(ctx, sub.ID)
		if err != nil {
			s.logger.WithError(err).WithField("submission_id", sub.ID).Warn("Error refreshing task")
			continue
		}
		if updated.State != sub.State {
			changed++
		}
	}
	return changed, nil
}

// QueueStatus resuelve la cola y consulta si está activa
func (s *FiscalService) QueueStatus(ctx context.Context, qid string) (string, bool, error) {
	queueID, err := s.kassa.ResolveQueue(qid)
	if err != nil {
		return "", false, &ValidationError{Field: "queue_id", Issue: err.Error(), Err: err}
	}
	active, err := s.kassa.IsQueueActive(ctx, queueID)
	if err != nil {
		return queueID, false, err
	}
	return queueID, active, nil
}

// RenderReceipt genera la vista previa PDF de un envío y la archiva si hay archivo
func (s *FiscalService) RenderReceipt(ctx context.Context, id uuid.UUID) ([]byte, error) {
	sub, err := s.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}

	var payload kassa.ReceiptPayload
	if err := json.Unmarshal(sub.Payload, &payload); err != nil {
		return nil, fmt.Errorf("error decoding submission payload: %w", err)
	}

	pdf, err := s.renderer.Render(sub, &payload)
	if err != nil {
		return nil, err
	}

	if s.archive != nil {
		key := fmt.Sprintf("receipts/%s.pdf", sub.ID)
		if _, err := s.archive.Put(ctx, key, pdf, "application/pdf"); err != nil {
			s.logger.WithError(err).WithField("submission_id", sub.ID).Warn("Error archiving receipt")
		}
	}

	return pdf, nil
}

func (s *FiscalService) cacheState(ctx context.Context, sub *models.Submission) {
	if err := s.cache.SetState(ctx, sub.ID.String(), string(sub.State)); err != nil {
		s.logger.WithError(err).WithField("submission_id", sub.ID).Warn("Error caching task state")
	}
}
