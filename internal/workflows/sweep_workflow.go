package workflows

import (
	"context"

	"github.com/inngest/inngestgo"
	"github.com/sirupsen/logrus"
)

// DefaultSweepSchedule ejecuta el barrido cada cinco minutos
const DefaultSweepSchedule = "*/5 * * * *"

// PendingRefresher actualiza los envíos que aún no tienen estado final
type PendingRefresher interface {
	RefreshPending(ctx context.Context, limit int) (int, error)
}

// SweepWorkflow reintenta periódicamente las tareas que el seguimiento dejó abiertas
type SweepWorkflow struct {
	refresher PendingRefresher
	limit     int
	schedule  string
	logger    *logrus.Logger
}

// NewSweepWorkflow crea una nueva instancia del workflow de barrido
func NewSweepWorkflow(refresher PendingRefresher, limit int, schedule string, logger *logrus.Logger) *SweepWorkflow {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	if limit < 1 {
		limit = 100
	}
	return &SweepWorkflow{
		refresher: refresher,
		limit:     limit,
		schedule:  schedule,
		logger:    logger,
	}
}

// SweepOutput representa el resultado de un barrido
type SweepOutput struct {
	Changed int `json:"changed"`
}

// Run es la función registrada en Inngest
func (w *SweepWorkflow) Run(ctx context.Context, _ inngestgo.Input[map[string]any]) (any, error) {
	changed, err := w.refresher.RefreshPending(ctx, w.limit)
	if err != nil {
		w.logger.WithError(err).Error("Error sweeping pending tasks")
		return nil, err
	}

	if changed > 0 {
		w.logger.WithField("changed", changed).Info("Pending tasks updated")
	}
	return &SweepOutput{Changed: changed}, nil
}
