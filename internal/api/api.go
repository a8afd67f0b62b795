package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hypernova-labs/kassa-sdk/internal/models"
	"github.com/hypernova-labs/kassa-sdk/internal/services"
	"github.com/hypernova-labs/kassa-sdk/pkg/client"
	"github.com/sirupsen/logrus"
)

// FiscalGateway es la parte de services.FiscalService que expone la API
type FiscalGateway interface {
	SubmitCheck(ctx context.Context, req *models.CreateCheckRequest) (*models.Submission, error)
	GetSubmission(ctx context.Context, id uuid.UUID) (*models.Submission, error)
	RefreshTask(ctx context.Context, id uuid.UUID) (*models.Submission, error)
	RenderReceipt(ctx context.Context, id uuid.UUID) ([]byte, error)
	QueueStatus(ctx context.Context, qid string) (string, bool, error)
}

// HealthChecker es cualquier dependencia que puede reportar su estado
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// API maneja todos los endpoints de la API
type API struct {
	fiscal FiscalGateway
	apiKey string
	checks map[string]HealthChecker
	logger *logrus.Logger
}

// NewAPI crea una nueva instancia de la API. Con apiKey vacía los endpoints no exigen autenticación.
func NewAPI(fiscal FiscalGateway, apiKey string, logger *logrus.Logger) *API {
	return &API{
		fiscal: fiscal,
		apiKey: apiKey,
		checks: make(map[string]HealthChecker),
		logger: logger,
	}
}

// AddHealthCheck agrega una dependencia al endpoint /health
func (api *API) AddHealthCheck(name string, checker HealthChecker) {
	api.checks[name] = checker
}

// CreateCheck fiscaliza un nuevo cheque
func (api *API) CreateCheck(c *gin.Context) {
	var req models.CreateCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.logger.WithError(err).Debug("Error binding create check request")
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid request format", []models.ErrorDetail{
			{Field: "body", Issue: err.Error()},
		}))
		return
	}

	sub, err := api.fiscal.SubmitCheck(c.Request.Context(), &req)
	if err != nil {
		api.handleError(c, err, "Error submitting check")
		return
	}

	c.JSON(http.StatusCreated, sub.ToResponse())
}

// GetCheck obtiene un envío por ID
func (api *API) GetCheck(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}

	sub, err := api.fiscal.GetSubmission(c.Request.Context(), id)
	if err != nil {
		api.handleError(c, err, "Error getting check")
		return
	}

	c.JSON(http.StatusOK, sub.ToResponse())
}

// RefreshCheck consulta el estado de la tarea en la caja
func (api *API) RefreshCheck(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}

	sub, err := api.fiscal.RefreshTask(c.Request.Context(), id)
	if err != nil {
		api.handleError(c, err, "Error refreshing check")
		return
	}

	c.JSON(http.StatusOK, sub.ToResponse())
}

// GetReceipt descarga la vista previa PDF del cheque
func (api *API) GetReceipt(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}

	pdf, err := api.fiscal.RenderReceipt(c.Request.Context(), id)
	if err != nil {
		api.handleError(c, err, "Error rendering receipt")
		return
	}

	c.Header("Content-Disposition", "inline; filename=\"receipt-"+id.String()+".pdf\"")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// GetQueue consulta si una cola de impresión está activa
func (api *API) GetQueue(c *gin.Context) {
	queueID, active, err := api.fiscal.QueueStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.handleError(c, err, "Error getting queue status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"queue_id": queueID,
		"active":   active,
	})
}

// Health reporta el estado del servicio y de sus dependencias
func (api *API) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := gin.H{}
	for name, checker := range api.checks {
		if err := checker.HealthCheck(ctx); err != nil {
			api.logger.WithError(err).WithField("dependency", name).Warn("Health check failed")
			deps[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{
		"status":       state,
		"timestamp":    time.Now().UTC(),
		"service":      "kassa-gateway",
		"dependencies": deps,
	})
}

// APIKeyMiddleware valida el header X-API-Key
func (api *API) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if api.apiKey == "" {
			c.Next()
			return
		}
		if c.GetHeader("X-API-Key") != api.apiKey {
			c.JSON(http.StatusUnauthorized, models.NewUnauthorizedError("Invalid API key"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func (api *API) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid check ID", []models.ErrorDetail{
			{Field: "id", Issue: "Must be a valid UUID"},
		}))
		return uuid.Nil, false
	}
	return id, true
}

// handleError traduce los errores del servicio a respuestas HTTP
func (api *API) handleError(c *gin.Context, err error, message string) {
	var (
		verr   *services.ValidationError
		apiErr *client.APIError
	)

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, models.NewValidationError("Invalid check", []models.ErrorDetail{
			{Field: verr.Field, Issue: verr.Issue},
		}))
	case errors.Is(err, services.ErrDuplicateSubmission), errors.Is(err, services.ErrSubmissionInProgress):
		c.JSON(http.StatusConflict, models.NewConflictError(err.Error()))
	case errors.Is(err, services.ErrSubmissionNotFound):
		c.JSON(http.StatusNotFound, models.NewNotFoundError("Check not found"))
	case errors.As(err, &apiErr):
		api.logger.WithError(err).WithField("status", apiErr.StatusCode).Error(message)
		c.JSON(http.StatusBadGateway, models.NewUpstreamError("Kassa rejected the request", []models.ErrorDetail{
			{Field: apiErr.Title, Issue: apiErr.Description},
		}))
	default:
		api.logger.WithError(err).Error(message)
		c.JSON(http.StatusInternalServerError, models.NewInternalError(message))
	}
}
