package kassa

import (
	"fmt"

	"github.com/hypernova-labs/kassa-sdk/pkg/lines"
	"github.com/hypernova-labs/kassa-sdk/pkg/money"
	"github.com/shopspring/decimal"
)

// ReceiptPayload son los campos comunes a Check y CorrectionCheck
type ReceiptPayload struct {
	ExternalID           string               `json:"external_id"`
	Intent               Intent               `json:"intent"`
	Print                bool                 `json:"print"`
	Client               ClientInfo           `json:"client"`
	Company              CompanyInfo          `json:"company"`
	Payments             []Payment            `json:"payments"`
	Positions            []Position           `json:"positions"`
	Cashier              *Person              `json:"cashier,omitempty"`
	AdditionalCheckProps string               `json:"additional_check_props,omitempty"`
	AdditionalUserProps  *AdditionalUserProps `json:"additional_user_props,omitempty"`
	SectoralCheckProps   []SectoralProps      `json:"sectoral_check_props,omitempty"`
	OperatingCheckProps  *OperatingCheckProps `json:"operating_check_props,omitempty"`
	CallbackURL          string               `json:"callback_url,omitempty"`
}

// receipt implementa los setters compartidos por los documentos de caja
type receipt struct {
	data ReceiptPayload
}

func newReceipt(externalID string, intent Intent) receipt {
	return receipt{data: ReceiptPayload{
		ExternalID: externalID,
		Intent:     intent,
		Payments:   []Payment{},
		Positions:  []Position{},
	}}
}

// ExternalID retorna el identificador del documento en la tienda
func (r *receipt) ExternalID() string {
	return r.data.ExternalID
}

// Intent retorna la dirección del pago
func (r *receipt) Intent() Intent {
	return r.data.Intent
}

// SetPrint indica si el documento debe imprimirse
func (r *receipt) SetPrint(value bool) {
	r.data.Print = value
}

// SetClient reemplaza los datos del comprador
func (r *receipt) SetClient(client ClientInfo) {
	r.data.Client = client
}

// SetCompany reemplaza los datos del vendedor
func (r *receipt) SetCompany(company Company) {
	r.data.Company = company.info()
}

// SetCashier fija el cajero; el INN se emite sólo si no está vacío
func (r *receipt) SetCashier(name, inn string) {
	r.data.Cashier = &Person{Name: name, INN: inn}
}

func (r *receipt) SetAdditionalCheckProps(value string) {
	r.data.AdditionalCheckProps = value
}

func (r *receipt) SetAdditionalUserProps(name, value string) {
	r.data.AdditionalUserProps = &AdditionalUserProps{Name: name, Value: value}
}

// AddSectoralCheckProps agrega un requisito sectorial del documento
func (r *receipt) AddSectoralCheckProps(federalID, date, number, value string) {
	r.data.SectoralCheckProps = append(r.data.SectoralCheckProps, SectoralProps{
		FederalID: federalID,
		Date:      date,
		Number:    number,
		Value:     value,
	})
}

func (r *receipt) SetOperatingCheckProps(name, value, timestamp string) {
	r.data.OperatingCheckProps = &OperatingCheckProps{Name: name, Value: value, Timestamp: timestamp}
}

func (r *receipt) SetCallbackURL(url string) {
	r.data.CallbackURL = url
}

// AddPayment agrega un pago. Un tipo vacío equivale a PaymentTypeCard.
func (r *receipt) AddPayment(sum decimal.Decimal, paymentType PaymentType) {
	if paymentType == "" {
		paymentType = PaymentTypeCard
	}
	r.data.Payments = append(r.data.Payments, Payment{Sum: amountOf(sum), Type: paymentType})
}

// AddPosition agrega una copia de la posición
func (r *receipt) AddPosition(p Position) {
	r.data.Positions = append(r.data.Positions, p.clone())
}

// Positions retorna una copia de las posiciones
func (r *receipt) Positions() []Position {
	out := make([]Position, len(r.data.Positions))
	for i, p := range r.data.Positions {
		out[i] = p.clone()
	}
	return out
}

// Payments retorna una copia de los pagos
func (r *receipt) Payments() []Payment {
	return append([]Payment{}, r.data.Payments...)
}

// PositionsTotal suma los totales de las posiciones
func (r *receipt) PositionsTotal() decimal.Decimal {
	return lines.Total(r.data.Positions)
}

// PaymentsTotal suma los pagos
func (r *receipt) PaymentsTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range r.data.Payments {
		sum = sum.Add(p.Sum.Decimal)
	}
	return sum
}

// ApplyDiscount reparte el descuento entre las posiciones
func (r *receipt) ApplyDiscount(discount decimal.Decimal) error {
	if err := lines.ApplyDiscount(discount, r.data.Positions); err != nil {
		return fmt.Errorf("error applying discount to %s: %w", r.data.ExternalID, err)
	}
	return nil
}

// ApplyCorrectionPositions divide las posiciones cuyo total no coincide con price*quantity
func (r *receipt) ApplyCorrectionPositions() {
	r.data.Positions = lines.CorrectionPositions(r.data.Positions)
}

func (r *receipt) checkTotals() error {
	positions := money.Round(r.PositionsTotal())
	payments := money.Round(r.PaymentsTotal())
	if !positions.Equal(payments) {
		return &TotalsMismatchError{Positions: positions, Payments: payments}
	}
	return nil
}

func (r *receipt) snapshot() ReceiptPayload {
	s := r.data
	s.Payments = r.Payments()
	s.Positions = r.Positions()
	if r.data.SectoralCheckProps != nil {
		s.SectoralCheckProps = append([]SectoralProps(nil), r.data.SectoralCheckProps...)
	}
	return s
}
