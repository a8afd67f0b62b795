// Package legacy implementa el cheque de la primera generación del protocolo,
// identificado por task_id, con validación de entradas sin tipar.
package legacy

import (
	"encoding/json"
	"fmt"

	"github.com/hypernova-labs/kassa-sdk/pkg/kassa"
	"github.com/hypernova-labs/kassa-sdk/pkg/money"
	"github.com/hypernova-labs/kassa-sdk/pkg/vat"
	"github.com/shopspring/decimal"
)

var vatParser = vat.NewParser(vat.Legacy)

// Position es una línea del cheque legacy
type Position struct {
	Name     string       `json:"name"`
	Price    money.Amount `json:"price"`
	Quantity money.Amount `json:"quantity"`
	Total    money.Amount `json:"total"`
	VAT      vat.Rate     `json:"vat"`
}

// Payment es un pago del cheque legacy; el tipo se omite si no se indicó
type Payment struct {
	Sum  money.Amount      `json:"sum"`
	Type kassa.PaymentType `json:"type,omitempty"`
}

// Payload es la forma serializada del cheque legacy
type Payload struct {
	TaskID    string          `json:"task_id"`
	User      string          `json:"user"`
	Print     bool            `json:"print"`
	Intent    kassa.Intent    `json:"intent"`
	TaxSystem kassa.TaxSystem `json:"sno"`
	Payments  []Payment       `json:"payments"`
	Positions []Position      `json:"positions"`
}

// Check es el cheque legacy. Validate siempre concilia posiciones y pagos.
type Check struct {
	data Payload
}

// NewCheck crea un cheque legacy para el email indicado
func NewCheck(taskID, email string, intent kassa.Intent, sno kassa.TaxSystem) *Check {
	return &Check{data: Payload{
		TaskID:    taskID,
		User:      email,
		Intent:    intent,
		TaxSystem: sno,
		Payments:  []Payment{},
		Positions: []Position{},
	}}
}

func (c *Check) SetPrint(value bool) {
	c.data.Print = value
}

// AddPayment agrega un pago sin tipo
func (c *Check) AddPayment(sum decimal.Decimal) {
	c.data.Payments = append(c.data.Payments, Payment{Sum: money.New(sum)})
}

// AddPosition agrega una posición. Un total nil equivale a price*quantity y la
// tasa de IVA se normaliza con la tabla legacy.
func (c *Check) AddPosition(name string, price, quantity decimal.Decimal, total *decimal.Decimal, rawVAT any) error {
	if rawVAT == nil {
		rawVAT = vat.RateNo
	}
	rate, err := vatParser.Parse(rawVAT)
	if err != nil {
		return fmt.Errorf("error adding position %q: %w", name, err)
	}

	t := price.Mul(quantity)
	if total != nil {
		t = *total
	}

	c.data.Positions = append(c.data.Positions, Position{
		Name:     name,
		Price:    money.New(price),
		Quantity: money.New(quantity),
		Total:    money.New(t),
		VAT:      rate,
	})
	return nil
}

// AddRawPosition valida una posición sin tipar contra PositionSchema y la agrega
func (c *Check) AddRawPosition(raw map[string]any) error {
	if err := PositionSchema.Validate(raw); err != nil {
		return err
	}

	name, _ := raw["name"].(string)
	price, err := money.ToDecimal(raw["price"])
	if err != nil {
		return &FormatError{Message: err.Error(), Schema: PriceSchema.Name}
	}

	quantity := decimal.NewFromInt(1)
	if q, ok := raw["quantity"]; ok {
		if quantity, err = money.ToDecimal(q); err != nil {
			return &FormatError{Message: err.Error(), Schema: QuantitySchema.Name}
		}
	}

	var total *decimal.Decimal
	if t, ok := raw["total"]; ok {
		d, err := money.ToDecimal(t)
		if err != nil {
			return &FormatError{Message: err.Error(), Schema: PriceSchema.Name}
		}
		total = &d
	}

	var rawVAT any
	if v, ok := raw["vat"].(map[string]any); ok {
		rawVAT = v["number"]
	}

	return c.AddPosition(name, price, quantity, total, rawVAT)
}

// AddRawPayment valida un pago sin tipar (un número o {sum, type}) y lo agrega
func (c *Check) AddRawPayment(raw any) error {
	if err := PaymentSchema.Validate(raw); err != nil {
		return err
	}

	if obj, ok := raw.(map[string]any); ok {
		sum, err := money.ToDecimal(obj["sum"])
		if err != nil {
			return &FormatError{Message: err.Error(), Schema: PaymentSchema.Name}
		}
		paymentType := kassa.PaymentTypeCard
		if t, ok := obj["type"].(string); ok {
			paymentType = kassa.PaymentType(t)
		}
		c.data.Payments = append(c.data.Payments, Payment{Sum: money.New(sum), Type: paymentType})
		return nil
	}

	sum, err := money.ToDecimal(raw)
	if err != nil {
		return &FormatError{Message: err.Error(), Schema: PaymentSchema.Name}
	}
	c.AddPayment(sum)
	return nil
}

// Validate exige que la suma de las posiciones coincida con la de los pagos
func (c *Check) Validate() error {
	positions := decimal.Zero
	for _, p := range c.data.Positions {
		positions = positions.Add(p.Total.Decimal)
	}
	payments := decimal.Zero
	for _, p := range c.data.Payments {
		payments = payments.Add(p.Sum.Decimal)
	}

	positions, payments = money.Round(positions), money.Round(payments)
	if !positions.Equal(payments) {
		return &CheckError{Message: fmt.Sprintf("Positions total %s is not equal to payments total %s",
			positions.StringFixed(2), payments.StringFixed(2))}
	}
	return nil
}

// Snapshot retorna una copia serializable del cheque
func (c *Check) Snapshot() Payload {
	s := c.data
	s.Payments = append([]Payment{}, c.data.Payments...)
	s.Positions = append([]Position{}, c.data.Positions...)
	return s
}

// MarshalJSON implementa json.Marshaler
func (c *Check) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.data)
}
