package workflows

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/kassa-sdk/internal/models"
	"github.com/inngest/inngestgo"
	"github.com/inngest/inngestgo/step"
	"github.com/sirupsen/logrus"
)

// TaskRefresher consulta la caja y actualiza el diario de un envío
type TaskRefresher interface {
	RefreshTask(ctx context.Context, id uuid.UUID) (*models.Submission, error)
}

// TaskWorkflow sigue una tarea encolada hasta que llega a un estado final
type TaskWorkflow struct {
	refresher    TaskRefresher
	pollInterval time.Duration
	maxPolls     int
	logger       *logrus.Logger
}

// NewTaskWorkflow crea una nueva instancia del workflow
func NewTaskWorkflow(refresher TaskRefresher, pollInterval time.Duration, maxPolls int, logger *logrus.Logger) *TaskWorkflow {
	if maxPolls < 1 {
		maxPolls = 1
	}
	return &TaskWorkflow{
		refresher:    refresher,
		pollInterval: pollInterval,
		maxPolls:     maxPolls,
		logger:       logger,
	}
}

// TaskWorkflowInput es el payload del evento kassa/task.submitted
type TaskWorkflowInput struct {
	SubmissionID string `json:"submission_id"`
}

// TaskWorkflowOutput representa el resultado del seguimiento
type TaskWorkflowOutput struct {
	SubmissionID uuid.UUID              `json:"submission_id"`
	State        models.SubmissionState `json:"state"`
	Polls        int                    `json:"polls"`
	Final        bool                   `json:"final"`
}

// poller aísla los pasos durables de Inngest del ciclo de consulta
type poller interface {
	refresh(ctx context.Context, attempt int, id uuid.UUID) (models.SubmissionState, error)
	sleep(ctx context.Context, attempt int, d time.Duration)
}

type stepPoller struct {
	refresher TaskRefresher
}

func (p stepPoller) refresh(ctx context.Context, attempt int, id uuid.UUID) (models.SubmissionState, error) {
	return step.Run(ctx, fmt.Sprintf("refresh-%d", attempt), func(ctx context.Context) (models.SubmissionState, error) {
		sub, err := p.refresher.RefreshTask(ctx, id)
		if err != nil {
			return "", err
		}
		return sub.State, nil
	})
}

func (p stepPoller) sleep(ctx context.Context, attempt int, d time.Duration) {
	step.Sleep(ctx, fmt.Sprintf("wait-%d", attempt), d)
}

// Run es la función registrada en Inngest
func (w *TaskWorkflow) Run(ctx context.Context, input inngestgo.Input[TaskWorkflowInput]) (any, error) {
	id, err := uuid.Parse(input.Event.Data.SubmissionID)
	if err != nil {
		return nil, fmt.Errorf("invalid submission_id %q: %w", input.Event.Data.SubmissionID, err)
	}
	return w.track(ctx, id, stepPoller{refresher: w.refresher})
}

func (w *TaskWorkflow) track(ctx context.Context, id uuid.UUID, p poller) (*TaskWorkflowOutput, error) {
	out := &TaskWorkflowOutput{SubmissionID: id}

	for attempt := 0; attempt < w.maxPolls; attempt++ {
		if attempt > 0 {
			p.sleep(ctx, attempt, w.pollInterval)
		}

		state, err := p.refresh(ctx, attempt, id)
		if err != nil {
			return nil, err
		}
		out.State = state
		out.Polls = attempt + 1

		if state.Final() {
			out.Final = true
			w.logger.WithFields(logrus.Fields{
				"submission_id": id,
				"state":         state,
				"polls":         out.Polls,
			}).Info("Task reached final state")
			return out, nil
		}
	}

	// El barrido periódico retoma las tareas que siguen abiertas
	w.logger.WithFields(logrus.Fields{
		"submission_id": id,
		"state":         out.State,
		"polls":         out.Polls,
	}).Warn("Task still pending after max polls")
	return out, nil
}
