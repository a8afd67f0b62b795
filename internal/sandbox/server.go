// Package sandbox emula la API REST de KOMTET Kassa en memoria. Verifica la
// firma X-HMAC-Signature de cada solicitud con el mismo firmante del SDK.
package sandbox

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hypernova-labs/kassa-sdk/pkg/client"
	"github.com/sirupsen/logrus"
)

// Config identifica la tienda emulada
type Config struct {
	ShopID    string
	SecretKey string
	// BaseURL fija scheme://host para verificar firmas detrás de un proxy.
	// Vacío usa el host de la solicitud.
	BaseURL string
	Queues  []string
}

// Server atiende la API emulada
type Server struct {
	cfg    Config
	signer *client.Signer
	store  *Store
	logger *logrus.Logger
}

// New crea el servidor con sus colas en estado "active"
func New(cfg Config, logger *logrus.Logger) *Server {
	return &Server{
		cfg:    cfg,
		signer: client.NewSigner(cfg.SecretKey),
		store:  NewStore(cfg.Queues...),
		logger: logger,
	}
}

// Store expone el almacén para preparar escenarios
func (s *Server) Store() *Store {
	return s.store
}

// Handler retorna el router con todas las rutas bajo /api/shop/:version
func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	shop := router.Group("/api/shop/:version")
	shop.Use(s.AuthMiddleware())
	{
		shop.GET("/queues/:id", s.GetQueue)
		shop.POST("/queues/:id/task", s.CreateTask)
		shop.POST("/queues/:id/multi-tasks", s.CreateTasks)
		shop.GET("/tasks/:id", s.GetTask)

		shop.GET("/orders", s.ListOrders)
		shop.POST("/orders", s.CreateOrder)
		shop.GET("/orders/:id", s.GetOrder)
		shop.PUT("/orders/:id", s.UpdateOrder)
		shop.DELETE("/orders/:id", s.DeleteOrder)

		shop.GET("/employees", s.ListEmployees)
		shop.POST("/employees", s.CreateEmployee)
		shop.GET("/employees/:id", s.GetEmployee)
		shop.PUT("/employees/:id", s.UpdateEmployee)
		shop.DELETE("/employees/:id", s.DeleteEmployee)
	}

	return router
}

// AuthMiddleware valida el identificador de tienda y la firma de la solicitud
func (s *Server) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != s.cfg.ShopID {
			c.JSON(http.StatusUnauthorized, client.ErrorBody{Title: "Unknown shop"})
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, client.ErrorBody{Title: "Unreadable body"})
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		signature := c.GetHeader("X-HMAC-Signature")
		if !s.signer.Verify(c.Request.Method, s.requestURL(c.Request), body, signature) {
			s.logger.WithFields(logrus.Fields{
				"method": c.Request.Method,
				"path":   c.Request.URL.Path,
			}).Warn("Rejected request with invalid signature")
			c.JSON(http.StatusUnauthorized, client.ErrorBody{Title: "Invalid signature"})
			c.Abort()
			return
		}

		c.Next()
	}
}

func (s *Server) requestURL(r *http.Request) string {
	base := strings.TrimRight(s.cfg.BaseURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + r.URL.RequestURI()
}

func (s *Server) GetQueue(c *gin.Context) {
	state, err := s.store.QueueState(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, client.ErrorBody{Title: "Queue not found"})
		return
	}
	c.JSON(http.StatusOK, client.QueueInfo{State: state})
}

type taskRequest struct {
	ExternalID json.RawMessage  `json:"external_id"`
	Intent     string           `json:"intent"`
	Positions  []map[string]any `json:"positions"`
}

func (r taskRequest) externalID() string {
	var id client.ID
	if len(r.ExternalID) == 0 || json.Unmarshal(r.ExternalID, &id) != nil {
		return ""
	}
	return id.String()
}

func (s *Server) addTask(queueID string, req taskRequest) (client.Task, *client.ErrorBody, int) {
	externalID := req.externalID()
	if externalID == "" || req.Intent == "" {
		return client.Task{}, &client.ErrorBody{
			Title:       "Validation error",
			Description: "external_id and intent are required",
		}, http.StatusUnprocessableEntity
	}

	task, err := s.store.AddTask(queueID, externalID, len(req.Positions) > 0)
	switch {
	case errors.Is(err, ErrNotFound):
		return client.Task{}, &client.ErrorBody{Title: "Queue not found"}, http.StatusNotFound
	case errors.Is(err, ErrDuplicateExternal):
		return client.Task{}, &client.ErrorBody{
			Title:       "Validation error",
			Description: err.Error(),
		}, http.StatusUnprocessableEntity
	case err != nil:
		return client.Task{}, &client.ErrorBody{Title: "Internal error"}, http.StatusInternalServerError
	}
	return task, nil, http.StatusOK
}

// CreateTask encola un documento
func (s *Server) CreateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, client.ErrorBody{Title: "Invalid JSON", Description: err.Error()})
		return
	}

	task, errBody, status := s.addTask(c.Param("id"), req)
	if errBody != nil {
		c.JSON(status, errBody)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"queue_id":    c.Param("id"),
		"task_id":     task.ID,
		"external_id": task.ExternalID,
	}).Info("Task queued")
	c.JSON(http.StatusOK, task)
}

// CreateTasks encola varios documentos y responde con las tareas indexadas
// por la posición del documento en la solicitud
func (s *Server) CreateTasks(c *gin.Context) {
	var reqs []taskRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, client.ErrorBody{Title: "Invalid JSON", Description: err.Error()})
		return
	}

	result := make(map[string]client.Task, len(reqs))
	for i, req := range reqs {
		task, errBody, status := s.addTask(c.Param("id"), req)
		if errBody != nil {
			c.JSON(status, errBody)
			return
		}
		result[strconv.Itoa(i)] = task
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) GetTask(c *gin.Context) {
	info, err := s.store.TaskInfo(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, client.ErrorBody{Title: "Task not found"})
		return
	}
	c.JSON(http.StatusOK, info)
}

func listParams(c *gin.Context) (int, int) {
	start, _ := strconv.Atoi(c.DefaultQuery("start", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if start < 0 {
		start = 0
	}
	if limit <= 0 {
		limit = 10
	}
	return start, limit
}

func listMeta(total, limit int) gin.H {
	pages := (total + limit - 1) / limit
	return gin.H{"total": total, "total_pages": pages}
}

func (s *Server) ListOrders(c *gin.Context) {
	start, limit := listParams(c)
	orders, total := s.store.Orders(start, limit, c.Query("courier_id"))
	c.JSON(http.StatusOK, gin.H{"orders": orders, "meta": listMeta(total, limit)})
}

func (s *Server) CreateOrder(c *gin.Context) {
	s.putOrder(c, "")
}

func (s *Server) UpdateOrder(c *gin.Context) {
	s.putOrder(c, c.Param("id"))
}

func (s *Server) putOrder(c *gin.Context, id string) {
	var order map[string]any
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, client.ErrorBody{Title: "Invalid JSON", Description: err.Error()})
		return
	}
	if ext, _ := order["external_id"].(string); ext == "" {
		c.JSON(http.StatusUnprocessableEntity, client.ErrorBody{
			Title:       "Validation error",
			Description: "external_id is required",
		})
		return
	}

	stored, err := s.store.PutOrder(id, order)
	if err != nil {
		c.JSON(http.StatusNotFound, client.ErrorBody{Title: "Order not found"})
		return
	}
	c.JSON(http.StatusOK, stored)
}

func (s *Server) GetOrder(c *gin.Context) {
	order, err := s.store.Order(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, client.ErrorBody{Title: "Order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) DeleteOrder(c *gin.Context) {
	if err := s.store.DeleteOrder(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, client.ErrorBody{Title: "Order not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListEmployees(c *gin.Context) {
	start, limit := listParams(c)
	employees, total := s.store.Employees(start, limit, c.Query("type"))
	c.JSON(http.StatusOK, gin.H{"account_employees": employees, "meta": listMeta(total, limit)})
}

func (s *Server) CreateEmployee(c *gin.Context) {
	s.putEmployee(c, "")
}

func (s *Server) UpdateEmployee(c *gin.Context) {
	s.putEmployee(c, c.Param("id"))
}

func (s *Server) putEmployee(c *gin.Context, id string) {
	var employee map[string]any
	if err := c.ShouldBindJSON(&employee); err != nil {
		c.JSON(http.StatusBadRequest, client.ErrorBody{Title: "Invalid JSON", Description: err.Error()})
		return
	}
	for _, field := range []string{"name", "login", "password", "pos_id"} {
		if v, _ := employee[field].(string); v == "" {
			c.JSON(http.StatusUnprocessableEntity, client.ErrorBody{
				Title:       "Validation error",
				Description: field + " is required",
			})
			return
		}
	}

	stored, err := s.store.PutEmployee(id, employee)
	if err != nil {
		c.JSON(http.StatusNotFound, client.ErrorBody{Title: "Employee not found"})
		return
	}
	c.JSON(http.StatusOK, stored)
}

func (s *Server) GetEmployee(c *gin.Context) {
	employee, err := s.store.Employee(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, client.ErrorBody{Title: "Employee not found"})
		return
	}
	c.JSON(http.StatusOK, employee)
}

func (s *Server) DeleteEmployee(c *gin.Context) {
	if err := s.store.DeleteEmployee(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, client.ErrorBody{Title: "Employee not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
