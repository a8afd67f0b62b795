package kassa

import (
	"encoding/json"
)

// EmployeePayload es la forma serializada de un Employee
type EmployeePayload struct {
	Type             EmployeeType `json:"type"`
	Name             string       `json:"name"`
	Login            string       `json:"login"`
	Password         string       `json:"password"`
	POSID            string       `json:"pos_id"`
	INN              string       `json:"inn,omitempty"`
	Phone            string       `json:"phone,omitempty"`
	Email            string       `json:"email,omitempty"`
	PaymentAddress   string       `json:"payment_address,omitempty"`
	IsManager        bool         `json:"is_manager,omitempty"`
	IsCanAssignOrder bool         `json:"is_can_assign_order,omitempty"`
	IsAppFastBasket  bool         `json:"is_app_fast_basket,omitempty"`
}

// Employee es un cajero, mensajero o chofer registrado en la tienda
type Employee struct {
	data EmployeePayload
}

// EmployeeOption configura un Employee durante su construcción
type EmployeeOption func(*EmployeePayload)

func WithEmployeeINN(inn string) EmployeeOption {
	return func(e *EmployeePayload) { e.INN = inn }
}

func WithEmployeePhone(phone string) EmployeeOption {
	return func(e *EmployeePayload) { e.Phone = phone }
}

func WithEmployeeEmail(email string) EmployeeOption {
	return func(e *EmployeePayload) { e.Email = email }
}

// NewEmployee crea un empleado con las credenciales de acceso al punto de venta
func NewEmployee(employeeType EmployeeType, name, login, password, posID string, opts ...EmployeeOption) *Employee {
	e := &Employee{data: EmployeePayload{
		Type:     employeeType,
		Name:     name,
		Login:    login,
		Password: password,
		POSID:    posID,
	}}
	for _, opt := range opts {
		opt(&e.data)
	}
	return e
}

func (e *Employee) SetPaymentAddress(address string) {
	e.data.PaymentAddress = address
}

// SetAccessSettings fija los permisos; sólo se emiten los que están activos
func (e *Employee) SetAccessSettings(manager, canAssignOrder, appFastBasket bool) {
	e.data.IsManager = manager
	e.data.IsCanAssignOrder = canAssignOrder
	e.data.IsAppFastBasket = appFastBasket
}

// Snapshot retorna una copia serializable del empleado
func (e *Employee) Snapshot() EmployeePayload {
	return e.data
}

// MarshalJSON implementa json.Marshaler
func (e *Employee) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.data)
}
