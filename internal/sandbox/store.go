package sandbox

import (
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/kassa-sdk/pkg/client"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateExternal = errors.New("task with this external_id already exists")
)

type task struct {
	info     client.TaskInfo
	queueID  string
	empty    bool
	created  time.Time
	resolved bool
}

// Store guarda en memoria colas, tareas, pedidos y empleados de una tienda
type Store struct {
	mu        sync.Mutex
	queues    map[string]string
	tasks     map[string]*task
	externals map[string]string
	orders    map[string]map[string]any
	employees map[string]map[string]any
	nextID    int64
	now       func() time.Time
}

// NewStore crea un almacén con las colas indicadas en estado "active"
func NewStore(queueIDs ...string) *Store {
	s := &Store{
		queues:    make(map[string]string),
		tasks:     make(map[string]*task),
		externals: make(map[string]string),
		orders:    make(map[string]map[string]any),
		employees: make(map[string]map[string]any),
		now:       time.Now,
	}
	for _, id := range queueIDs {
		s.queues[id] = "active"
	}
	return s
}

// SetQueueState cambia el estado de una cola, creándola si no existe
func (s *Store) SetQueueState(queueID, state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queues[queueID] = state
}

func (s *Store) QueueState(queueID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.queues[queueID]
	if !ok {
		return "", ErrNotFound
	}
	return state, nil
}

// AddTask registra una tarea nueva. Una tarea sin posiciones termina en "error".
func (s *Store) AddTask(queueID, externalID string, hasPositions bool) (client.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.queues[queueID]; !ok {
		return client.Task{}, ErrNotFound
	}
	key := queueID + "/" + externalID
	if _, ok := s.externals[key]; ok {
		return client.Task{}, ErrDuplicateExternal
	}

	id := uuid.New().String()
	s.tasks[id] = &task{
		info: client.TaskInfo{
			ID:         client.ID(id),
			ExternalID: client.ID(externalID),
			State:      client.TaskStateNew,
		},
		queueID: queueID,
		empty:   !hasPositions,
		created: s.now(),
	}
	s.externals[key] = id

	return client.Task{
		ID:           client.ID(id),
		ExternalID:   client.ID(externalID),
		PrintQueueID: client.ID(queueID),
		State:        client.TaskStateNew,
	}, nil
}

// TaskInfo retorna el estado de la tarea. La primera consulta resuelve la tarea.
func (s *Store) TaskInfo(id string) (client.TaskInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return client.TaskInfo{}, ErrNotFound
	}

	if !t.resolved {
		t.resolved = true
		if t.empty {
			t.info.State = client.TaskStateError
			t.info.ErrorDescription = "Check has no positions"
		} else {
			t.info.State = client.TaskStateDone
			t.info.FiscalData = map[string]any{
				"fn": "9999078900004792",
				"fp": strconv.FormatInt(t.created.Unix()%1000000000, 10),
				"i":  strconv.Itoa(len(s.tasks)),
				"t":  t.created.Format("20060102T1504"),
			}
		}
	}

	return t.info, nil
}

func (s *Store) newID() string {
	s.nextID++
	return strconv.FormatInt(s.nextID, 10)
}

// PutOrder guarda un pedido. Un id vacío crea uno nuevo.
func (s *Store) PutOrder(id string, order map[string]any) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = s.newID()
	} else if _, ok := s.orders[id]; !ok {
		return nil, ErrNotFound
	}

	stored := make(map[string]any, len(order)+2)
	for k, v := range order {
		stored[k] = v
	}
	stored["id"] = mustInt(id)
	if _, ok := stored["state"]; !ok {
		stored["state"] = "new"
	}
	stored["amount"] = orderAmount(order)
	s.orders[id] = stored
	return stored, nil
}

func (s *Store) Order(id string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return o, nil
}

func (s *Store) DeleteOrder(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

// Orders lista una página de pedidos ordenados por id y el total filtrado
func (s *Store) Orders(start, limit int, courierID string) ([]map[string]any, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []map[string]any
	for _, id := range sortedKeys(s.orders) {
		o := s.orders[id]
		if courierID != "" && toString(o["courier_id"]) != courierID {
			continue
		}
		out = append(out, o)
	}
	return page(out, start, limit), len(out)
}

// PutEmployee guarda un empleado. Un id vacío crea uno nuevo.
func (s *Store) PutEmployee(id string, employee map[string]any) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = s.newID()
	} else if _, ok := s.employees[id]; !ok {
		return nil, ErrNotFound
	}

	stored := make(map[string]any, len(employee)+1)
	for k, v := range employee {
		stored[k] = v
	}
	stored["id"] = mustInt(id)
	s.employees[id] = stored
	return stored, nil
}

func (s *Store) Employee(id string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (s *Store) DeleteEmployee(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[id]; !ok {
		return ErrNotFound
	}
	delete(s.employees, id)
	return nil
}

// Employees lista una página de empleados del tipo indicado y el total filtrado
func (s *Store) Employees(start, limit int, employeeType string) ([]map[string]any, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []map[string]any
	for _, id := range sortedKeys(s.employees) {
		e := s.employees[id]
		if employeeType != "" && toString(e["type"]) != employeeType {
			continue
		}
		out = append(out, e)
	}
	return page(out, start, limit), len(out)
}

func sortedKeys(m map[string]map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return mustInt(keys[i]) < mustInt(keys[j]) })
	return keys
}

func page(items []map[string]any, start, limit int) []map[string]any {
	if start >= len(items) {
		return []map[string]any{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func mustInt(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

func orderAmount(order map[string]any) float64 {
	items, _ := order["items"].([]any)
	var amount float64
	for _, raw := range items {
		if item, ok := raw.(map[string]any); ok {
			if total, ok := item["total"].(float64); ok {
				amount += total
			}
		}
	}
	return amount
}
