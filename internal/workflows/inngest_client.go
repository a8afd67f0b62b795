package workflows

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/hypernova-labs/kassa-sdk/internal/config"
	"github.com/inngest/inngestgo"
	"github.com/sirupsen/logrus"
)

// EventTaskSubmitted se publica cada vez que un documento queda encolado en la caja
const EventTaskSubmitted = "kassa/task.submitted"

// eventSender es la parte de inngestgo.Client que publica eventos
type eventSender interface {
	Send(ctx context.Context, evt any) (string, error)
}

// InngestClient maneja la configuración y registro de workflows
type InngestClient struct {
	client inngestgo.Client
	sender eventSender
	logger *logrus.Logger
}

// NewInngestClient crea una nueva instancia del cliente
func NewInngestClient(cfg *config.Config, logger *logrus.Logger) (*InngestClient, error) {
	// En modo dev el servidor local no exige credenciales
	if !cfg.Inngest.Dev {
		if cfg.Inngest.EventKey == "" {
			return nil, fmt.Errorf("INNGEST_EVENT_KEY not configured")
		}
		if cfg.Inngest.SigningKey == "" {
			return nil, fmt.Errorf("INNGEST_SIGNING_KEY not configured")
		}
	}

	dev := cfg.Inngest.Dev
	client, err := inngestgo.NewClient(inngestgo.ClientOpts{
		AppID:      cfg.Inngest.AppID,
		EventKey:   &cfg.Inngest.EventKey,
		SigningKey: &cfg.Inngest.SigningKey,
		Dev:        &dev,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating Inngest client: %w", err)
	}

	return &InngestClient{
		client: client,
		sender: client,
		logger: logger,
	}, nil
}

// PublishTaskSubmitted publica el evento que arranca el seguimiento de la tarea
func (c *InngestClient) PublishTaskSubmitted(ctx context.Context, submissionID uuid.UUID) error {
	id, err := c.sender.Send(ctx, inngestgo.Event{
		Name: EventTaskSubmitted,
		Data: map[string]any{
			"submission_id": submissionID.String(),
		},
	})
	if err != nil {
		return fmt.Errorf("error sending %s event: %w", EventTaskSubmitted, err)
	}

	c.logger.WithFields(logrus.Fields{
		"submission_id": submissionID,
		"event_id":      id,
	}).Debug("Task submitted event published")
	return nil
}

// RegisterWorkflows registra el seguimiento de tareas y el barrido de pendientes
func (c *InngestClient) RegisterWorkflows(tracker *TaskWorkflow, sweeper *SweepWorkflow) error {
	c.logger.Info("Registering workflows with Inngest")

	if _, err := inngestgo.CreateFunction(
		c.client,
		inngestgo.FunctionOpts{ID: "track-kassa-task", Name: "Track kassa task"},
		inngestgo.EventTrigger(EventTaskSubmitted, nil),
		tracker.Run,
	); err != nil {
		return fmt.Errorf("error registering task workflow: %w", err)
	}

	if _, err := inngestgo.CreateFunction(
		c.client,
		inngestgo.FunctionOpts{ID: "sweep-pending-tasks", Name: "Sweep pending kassa tasks"},
		inngestgo.CronTrigger(sweeper.schedule),
		sweeper.Run,
	); err != nil {
		return fmt.Errorf("error registering sweep workflow: %w", err)
	}

	return nil
}

// Handler retorna el endpoint que Inngest invoca para ejecutar los workflows
func (c *InngestClient) Handler() http.Handler {
	return c.client.Serve()
}

// GetClient retorna el cliente de Inngest
func (c *InngestClient) GetClient() inngestgo.Client {
	return c.client
}
