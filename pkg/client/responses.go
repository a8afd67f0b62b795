package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/hypernova-labs/kassa-sdk/pkg/kassa"
	"github.com/hypernova-labs/kassa-sdk/pkg/money"
)

// ID es un identificador que la API puede enviar como número o como texto
type ID string

// UnmarshalJSON acepta números y textos
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON emite los identificadores enteros como número
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(string(id)), nil
	}
	return json.Marshal(string(id))
}

// String implementa fmt.Stringer
func (id ID) String() string {
	return string(id)
}

// Task es la respuesta al encolar un documento
type Task struct {
	ID           ID     `json:"id"`
	ExternalID   ID     `json:"external_id"`
	PrintQueueID ID     `json:"print_queue_id"`
	State        string `json:"state"`
}

// Estados de una tarea de fiscalización
const (
	TaskStateNew     = "new"
	TaskStateDone    = "done"
	TaskStateError   = "error"
	TaskStateRunning = "running"
)

// TaskInfo es el estado de una tarea encolada
type TaskInfo struct {
	ID               ID             `json:"id"`
	ExternalID       ID             `json:"external_id"`
	State            string         `json:"state"`
	FiscalData       map[string]any `json:"fiscal_data,omitempty"`
	ErrorDescription string         `json:"error_description,omitempty"`
}

// Final indica si la tarea ya no cambiará de estado
func (t TaskInfo) Final() bool {
	return t.State == TaskStateDone || t.State == TaskStateError
}

// QueueInfo es el estado de una cola de impresión
type QueueInfo struct {
	State string `json:"state"`
}

// OrderInfo es la respuesta de las operaciones sobre pedidos
type OrderInfo struct {
	ID             ID                 `json:"id"`
	ExternalID     ID                 `json:"external_id"`
	State          string             `json:"state"`
	Client         kassa.OrderClient  `json:"client"`
	Company        *kassa.CompanyInfo `json:"company,omitempty"`
	Items          []map[string]any   `json:"items"`
	Amount         money.Amount       `json:"amount"`
	PaymentType    kassa.PaymentType  `json:"payment_type"`
	Prepayment     money.Amount       `json:"prepayment"`
	IsPayToCourier bool               `json:"is_pay_to_courier"`
	Description    string             `json:"description"`
	DateStart      string             `json:"date_start,omitempty"`
	DateEnd        string             `json:"date_end,omitempty"`
	CallbackURL    string             `json:"callback_url,omitempty"`
	Courier        map[string]any     `json:"courier,omitempty"`
}

// EmployeeInfo es la respuesta de las operaciones sobre empleados
type EmployeeInfo struct {
	ID               ID                 `json:"id"`
	Type             kassa.EmployeeType `json:"type,omitempty"`
	Name             string             `json:"name"`
	Login            string             `json:"login"`
	Password         string             `json:"password"`
	POSID            string             `json:"pos_id"`
	INN              string             `json:"inn,omitempty"`
	Phone            string             `json:"phone,omitempty"`
	Email            string             `json:"email,omitempty"`
	PaymentAddress   string             `json:"payment_address,omitempty"`
	IsManager        bool               `json:"is_manager,omitempty"`
	IsCanAssignOrder bool               `json:"is_can_assign_order,omitempty"`
	IsAppFastBasket  bool               `json:"is_app_fast_basket,omitempty"`
}

// OrderQuery filtra el listado de pedidos
type OrderQuery struct {
	Start     int
	Limit     int
	CourierID string
	DateStart string
}

// EmployeeQuery filtra el listado de empleados
type EmployeeQuery struct {
	Start int
	Limit int
	Type  kassa.EmployeeType
}
