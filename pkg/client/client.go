// Package client es el transporte firmado hacia la API REST de KOMTET Kassa
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultHost es el servidor de producción de KOMTET Kassa
const DefaultHost = "https://kassa.komtet.ru"

// Document es cualquier documento que pueda serializarse para la API
type Document interface {
	json.Marshaler
}

// Validator es implementado por los documentos que se validan antes de enviarse
type Validator interface {
	Validate() error
}

// Client es seguro para uso concurrente: su estado no cambia después de New
type Client struct {
	host         string
	shopID       string
	apiVersion   string
	signer       *Signer
	httpClient   *http.Client
	logger       *logrus.Logger
	defaultQueue string
	queues       NamedQueues
}

// Option configura el cliente
type Option func(*Client)

// WithHost reemplaza el servidor, en formato scheme://hostname
func WithHost(host string) Option {
	return func(c *Client) {
		c.host = strings.TrimRight(host, "/")
	}
}

// WithHTTPClient usa un cliente HTTP propio
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout fija el timeout del cliente HTTP actual
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger usa logger para registrar cada petición a la caja
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDefaultQueue fija la cola usada cuando una operación no indica ninguna
func WithDefaultQueue(qid string) Option {
	return func(c *Client) {
		c.defaultQueue = qid
	}
}

// WithNamedQueues registra alias de colas
func WithNamedQueues(queues NamedQueues) Option {
	return func(c *Client) {
		c.queues = make(NamedQueues, len(queues))
		for alias, id := range queues {
			c.queues[alias] = id
		}
	}
}

// WithAPIVersion cambia el segmento de versión de /api/shop/{version}
func WithAPIVersion(version string) Option {
	return func(c *Client) {
		c.apiVersion = version
	}
}

// New crea un cliente para la tienda shopID firmado con secretKey
func New(shopID, secretKey string, opts ...Option) *Client {
	c := &Client{
		host:       DefaultHost,
		shopID:     shopID,
		apiVersion: "v2",
		signer:     NewSigner(secretKey),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logrus.StandardLogger(),
		queues:     NamedQueues{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// IsQueueActive indica si la cola está activa
func (c *Client) IsQueueActive(ctx context.Context, qid string) (bool, error) {
	id, err := c.ResolveQueue(qid)
	if err != nil {
		return false, err
	}

	var info QueueInfo
	if err := c.do(ctx, http.MethodGet, c.apiPath("queues", id), nil, &info); err != nil {
		return false, fmt.Errorf("error getting queue %s: %w", id, err)
	}
	return info.State == "active", nil
}

// CreateTask encola un documento para fiscalizarlo
func (c *Client) CreateTask(ctx context.Context, doc Document, qid string) (*Task, error) {
	id, err := c.ResolveQueue(qid)
	if err != nil {
		return nil, err
	}
	if err := validate(doc); err != nil {
		return nil, err
	}

	var task Task
	if err := c.do(ctx, http.MethodPost, c.apiPath("queues", id, "task"), doc, &task); err != nil {
		return nil, fmt.Errorf("error creating task in queue %s: %w", id, err)
	}
	return &task, nil
}

// CreateTasks encola varios documentos en una sola solicitud. El resultado
// respeta el orden de los índices de la respuesta.
func (c *Client) CreateTasks(ctx context.Context, docs []Document, qid string) ([]Task, error) {
	id, err := c.ResolveQueue(qid)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if err := validate(doc); err != nil {
			return nil, err
		}
	}

	var byIndex map[string]Task
	if err := c.do(ctx, http.MethodPost, c.apiPath("queues", id, "multi-tasks"), docs, &byIndex); err != nil {
		return nil, fmt.Errorf("error creating tasks in queue %s: %w", id, err)
	}
	return orderedTasks(byIndex)
}

func orderedTasks(byIndex map[string]Task) ([]Task, error) {
	type indexed struct {
		index int
		task  Task
	}

	items := make([]indexed, 0, len(byIndex))
	for key, task := range byIndex {
		index, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("unexpected task index %q: %w", key, err)
		}
		items = append(items, indexed{index: index, task: task})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].index < items[j].index })

	tasks := make([]Task, len(items))
	for i, item := range items {
		tasks[i] = item.task
	}
	return tasks, nil
}

// GetTaskInfo retorna el estado de una tarea
func (c *Client) GetTaskInfo(ctx context.Context, taskID string) (*TaskInfo, error) {
	var info TaskInfo
	if err := c.do(ctx, http.MethodGet, c.apiPath("tasks", taskID), nil, &info); err != nil {
		return nil, fmt.Errorf("error getting task %s: %w", taskID, err)
	}
	return &info, nil
}

// GetOrders lista los pedidos. Limit cero equivale a 10.
func (c *Client) GetOrders(ctx context.Context, q OrderQuery) (map[string]any, error) {
	values := pageValues(q.Start, q.Limit)
	if q.CourierID != "" {
		values.Set("courier_id", q.CourierID)
	}
	if q.DateStart != "" {
		values.Set("date_start", q.DateStart)
	}

	var result map[string]any
	if err := c.do(ctx, http.MethodGet, c.apiPath("orders")+"?"+values.Encode(), nil, &result); err != nil {
		return nil, fmt.Errorf("error listing orders: %w", err)
	}
	return result, nil
}

// CreateOrder crea un pedido de entrega
func (c *Client) CreateOrder(ctx context.Context, order Document) (*OrderInfo, error) {
	if err := validate(order); err != nil {
		return nil, err
	}
	var info OrderInfo
	if err := c.do(ctx, http.MethodPost, c.apiPath("orders"), order, &info); err != nil {
		return nil, fmt.Errorf("error creating order: %w", err)
	}
	return &info, nil
}

// UpdateOrder reemplaza un pedido existente
func (c *Client) UpdateOrder(ctx context.Context, orderID string, order Document) (*OrderInfo, error) {
	if err := validate(order); err != nil {
		return nil, err
	}
	var info OrderInfo
	if err := c.do(ctx, http.MethodPut, c.apiPath("orders", orderID), order, &info); err != nil {
		return nil, fmt.Errorf("error updating order %s: %w", orderID, err)
	}
	return &info, nil
}

// GetOrderInfo retorna un pedido por ID
func (c *Client) GetOrderInfo(ctx context.Context, orderID string) (*OrderInfo, error) {
	var info OrderInfo
	if err := c.do(ctx, http.MethodGet, c.apiPath("orders", orderID), nil, &info); err != nil {
		return nil, fmt.Errorf("error getting order %s: %w", orderID, err)
	}
	return &info, nil
}

// DeleteOrder elimina un pedido
func (c *Client) DeleteOrder(ctx context.Context, orderID string) error {
	if err := c.do(ctx, http.MethodDelete, c.apiPath("orders", orderID), nil, nil); err != nil {
		return fmt.Errorf("error deleting order %s: %w", orderID, err)
	}
	return nil
}

// GetEmployees lista los empleados. Limit cero equivale a 10.
func (c *Client) GetEmployees(ctx context.Context, q EmployeeQuery) (map[string]any, error) {
	values := pageValues(q.Start, q.Limit)
	if q.Type != "" {
		values.Set("type", string(q.Type))
	}

	var result map[string]any
	if err := c.do(ctx, http.MethodGet, c.apiPath("employees")+"?"+values.Encode(), nil, &result); err != nil {
		return nil, fmt.Errorf("error listing employees: %w", err)
	}
	return result, nil
}

// CreateEmployee registra un empleado
func (c *Client) CreateEmployee(ctx context.Context, employee Document) (*EmployeeInfo, error) {
	var info EmployeeInfo
	if err := c.do(ctx, http.MethodPost, c.apiPath("employees"), employee, &info); err != nil {
		return nil, fmt.Errorf("error creating employee: %w", err)
	}
	return &info, nil
}

// UpdateEmployee reemplaza los datos de un empleado
func (c *Client) UpdateEmployee(ctx context.Context, employeeID string, employee Document) (*EmployeeInfo, error) {
	var info EmployeeInfo
	if err := c.do(ctx, http.MethodPut, c.apiPath("employees", employeeID), employee, &info); err != nil {
		return nil, fmt.Errorf("error updating employee %s: %w", employeeID, err)
	}
	return &info, nil
}

// GetEmployeeInfo retorna un empleado por ID
func (c *Client) GetEmployeeInfo(ctx context.Context, employeeID string) (*EmployeeInfo, error) {
	var info EmployeeInfo
	if err := c.do(ctx, http.MethodGet, c.apiPath("employees", employeeID), nil, &info); err != nil {
		return nil, fmt.Errorf("error getting employee %s: %w", employeeID, err)
	}
	return &info, nil
}

// DeleteEmployee elimina un empleado
func (c *Client) DeleteEmployee(ctx context.Context, employeeID string) error {
	if err := c.do(ctx, http.MethodDelete, c.apiPath("employees", employeeID), nil, nil); err != nil {
		return fmt.Errorf("error deleting employee %s: %w", employeeID, err)
	}
	return nil
}

// URL retorna la URL absoluta que se firma para path
func (c *Client) URL(path string) string {
	return c.host + "/" + strings.Trim(path, "/")
}

func (c *Client) apiPath(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return "/api/shop/" + c.apiVersion + "/" + strings.Join(escaped, "/")
}

func pageValues(start, limit int) url.Values {
	if limit <= 0 {
		limit = 10
	}
	if start < 0 {
		start = 0
	}
	values := url.Values{}
	values.Set("start", strconv.Itoa(start))
	values.Set("limit", strconv.Itoa(limit))
	return values
}

func validate(doc Document) error {
	if v, ok := doc.(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("error validating document: %w", err)
		}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	target := c.URL(path)

	var body []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("error encoding request body: %w", err)
		}
		body = encoded
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Authorization", c.shopID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-HMAC-Signature", c.signer.Sign(method, target, body))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"method":   method,
		"url":      target,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("Kassa request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}
