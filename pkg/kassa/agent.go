package kassa

// PayingAgent son los atributos del agente de pago
type PayingAgent struct {
	Operation string   `json:"operation"`
	Phones    []string `json:"phones"`
}

// ReceivePaymentsOperator son los atributos del operador de recepción de pagos
type ReceivePaymentsOperator struct {
	Phones []string `json:"phones"`
}

// MoneyTransferOperator son los atributos del operador de transferencias
type MoneyTransferOperator struct {
	Phones  []string `json:"phones,omitempty"`
	Name    string   `json:"name,omitempty"`
	Address string   `json:"address,omitempty"`
	INN     string   `json:"inn,omitempty"`
}

// AgentInfo es la forma serializada del agente de una posición
type AgentInfo struct {
	Type                    AgentType                `json:"type"`
	PayingAgent             *PayingAgent             `json:"paying_agent,omitempty"`
	ReceivePaymentsOperator *ReceivePaymentsOperator `json:"receive_payments_operator,omitempty"`
	MoneyTransferOperator   *MoneyTransferOperator   `json:"money_transfer_operator,omitempty"`
}

// SupplierInfo son los datos del proveedor de la posición
type SupplierInfo struct {
	Phones []string `json:"phones,omitempty"`
	Name   string   `json:"name,omitempty"`
	INN    string   `json:"inn,omitempty"`
}

func newSupplierInfo(name string, phones []string, inn string) *SupplierInfo {
	if name == "" && len(phones) == 0 && inn == "" {
		return nil
	}
	return &SupplierInfo{
		Phones: append([]string(nil), phones...),
		Name:   name,
		INN:    inn,
	}
}

// Agent agrupa el agente de una posición y, opcionalmente, su proveedor
type Agent struct {
	info     AgentInfo
	supplier *SupplierInfo
}

// NewAgent crea un agente del tipo indicado
func NewAgent(agentType AgentType) *Agent {
	return &Agent{info: AgentInfo{Type: agentType}}
}

// SetSupplierInfo define el proveedor. Si todos los campos están vacíos no se emite.
func (a *Agent) SetSupplierInfo(name string, phones []string, inn string) *Agent {
	a.supplier = newSupplierInfo(name, phones, inn)
	return a
}

// SetPayingAgent define la operación y los teléfonos del agente de pago
func (a *Agent) SetPayingAgent(operation string, phones []string) *Agent {
	a.info.PayingAgent = &PayingAgent{Operation: operation, Phones: append([]string(nil), phones...)}
	return a
}

// SetReceivePaymentsOperator define los teléfonos del operador de recepción de pagos
func (a *Agent) SetReceivePaymentsOperator(phones []string) *Agent {
	a.info.ReceivePaymentsOperator = &ReceivePaymentsOperator{Phones: append([]string(nil), phones...)}
	return a
}

// SetMoneyTransferOperator define el operador de transferencias
func (a *Agent) SetMoneyTransferOperator(name string, phones []string, address, inn string) *Agent {
	a.info.MoneyTransferOperator = &MoneyTransferOperator{
		Phones:  append([]string(nil), phones...),
		Name:    name,
		Address: address,
		INN:     inn,
	}
	return a
}

// Info retorna una copia del agente serializable
func (a *Agent) Info() AgentInfo {
	return a.info
}

// Supplier retorna el proveedor o nil
func (a *Agent) Supplier() *SupplierInfo {
	if a.supplier == nil {
		return nil
	}
	s := *a.supplier
	return &s
}
