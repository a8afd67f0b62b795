package kassa

import (
	"fmt"

	"github.com/hypernova-labs/kassa-sdk/pkg/lines"
	"github.com/hypernova-labs/kassa-sdk/pkg/money"
	"github.com/hypernova-labs/kassa-sdk/pkg/vat"
	"github.com/shopspring/decimal"
)

// Position es una línea de un Check o CorrectionCheck
type Position struct {
	ID                string              `json:"id,omitempty"`
	Name              string              `json:"name"`
	Price             money.Amount        `json:"price"`
	Quantity          money.Amount        `json:"quantity"`
	Total             money.Amount        `json:"total"`
	Measure           MeasureType         `json:"measure"`
	PaymentMethod     PaymentMethod       `json:"payment_method"`
	PaymentObject     PaymentObject       `json:"payment_object"`
	VAT               vat.Rate            `json:"vat"`
	UserData          string              `json:"user_data,omitempty"`
	Excise            *money.Amount       `json:"excise,omitempty"`
	CountryCode       string              `json:"country_code,omitempty"`
	DeclarationNumber string              `json:"declaration_number,omitempty"`
	MarkCode          map[MarkType]string `json:"mark_code,omitempty"`
	MarkQuantity      *MarkQuantity       `json:"mark_quantity,omitempty"`
	AgentInfo         *AgentInfo          `json:"agent_info,omitempty"`
	SupplierInfo      *SupplierInfo       `json:"supplier_info,omitempty"`
	SectoralItemProps []SectoralProps     `json:"sectoral_item_props,omitempty"`
	Wholesale         *bool               `json:"wholesale,omitempty"`
	NomenclatureCode  *Nomenclature       `json:"nomenclature_code,omitempty"`
}

// PositionOption configura una Position durante su construcción
type PositionOption func(*Position) error

// NewPosition crea una posición. Por defecto el total es price*quantity, la unidad
// es la pieza, el cálculo es pago completo de un producto y el IVA es "no".
func NewPosition(name string, price, quantity decimal.Decimal, opts ...PositionOption) (Position, error) {
	p := Position{
		Name:          name,
		Price:         amountOf(price),
		Quantity:      amountOf(quantity),
		Total:         amountOf(price.Mul(quantity)),
		Measure:       MeasurePiece,
		PaymentMethod: PaymentMethodFullPayment,
		PaymentObject: PaymentObjectProduct,
		VAT:           vat.RateNo,
	}

	for _, opt := range opts {
		if err := opt(&p); err != nil {
			return Position{}, fmt.Errorf("error building position %q: %w", name, err)
		}
	}

	return p, nil
}

// WithTotal fija un total distinto de price*quantity
func WithTotal(total decimal.Decimal) PositionOption {
	return func(p *Position) error {
		p.Total = amountOf(total)
		return nil
	}
}

// WithID fija el identificador de la posición en la tienda
func WithID(id string) PositionOption {
	return func(p *Position) error {
		p.ID = id
		return nil
	}
}

// WithMeasure fija la unidad de medida
func WithMeasure(m MeasureType) PositionOption {
	return func(p *Position) error {
		p.Measure = m
		return nil
	}
}

// WithPaymentMethod fija el método de cálculo
func WithPaymentMethod(m PaymentMethod) PositionOption {
	return func(p *Position) error {
		p.PaymentMethod = m
		return nil
	}
}

// WithPaymentObject fija el objeto del cálculo
func WithPaymentObject(o PaymentObject) PositionOption {
	return func(p *Position) error {
		p.PaymentObject = o
		return nil
	}
}

// WithVAT normaliza y fija la tasa de IVA
func WithVAT(raw any) PositionOption {
	return func(p *Position) error {
		rate, err := vat.Parse(raw)
		if err != nil {
			return err
		}
		p.VAT = rate
		return nil
	}
}

// WithExcise fija el monto del impuesto especial
func WithExcise(excise decimal.Decimal) PositionOption {
	return func(p *Position) error {
		a := amountOf(excise)
		p.Excise = &a
		return nil
	}
}

// WithCountryCode fija el código numérico del país de origen
func WithCountryCode(code string) PositionOption {
	return func(p *Position) error {
		p.CountryCode = code
		return nil
	}
}

// WithDeclarationNumber fija el número de declaración aduanera
func WithDeclarationNumber(number string) PositionOption {
	return func(p *Position) error {
		p.DeclarationNumber = number
		return nil
	}
}

// WithUserData fija el requisito adicional del objeto de cálculo
func WithUserData(data string) PositionOption {
	return func(p *Position) error {
		p.UserData = data
		return nil
	}
}

// SetAgent copia los datos del agente y de su proveedor en la posición
func (p *Position) SetAgent(a *Agent) {
	info := a.Info()
	p.AgentInfo = &info
	if s := a.Supplier(); s != nil {
		p.SupplierInfo = s
	}
}

// SetMarkCode reemplaza el código de marcado
func (p *Position) SetMarkCode(markType MarkType, code string) {
	p.MarkCode = map[MarkType]string{markType: code}
}

// SetMarkQuantity fija la cantidad fraccionaria del producto marcado
func (p *Position) SetMarkQuantity(numerator, denominator int) {
	p.MarkQuantity = &MarkQuantity{Numerator: numerator, Denominator: denominator}
}

// SetSupplier fija los datos del proveedor; si todos están vacíos no hace nada
func (p *Position) SetSupplier(phones []string, name, inn string) {
	if s := newSupplierInfo(name, phones, inn); s != nil {
		p.SupplierInfo = s
	}
}

// AddSectoralItemProps agrega un requisito sectorial a la posición
func (p *Position) AddSectoralItemProps(federalID, date, number, value string) {
	p.SectoralItemProps = append(p.SectoralItemProps, SectoralProps{
		FederalID: federalID,
		Date:      date,
		Number:    number,
		Value:     value,
	})
}

// SetWholesale marca la posición como venta mayorista
func (p *Position) SetWholesale(wholesale bool) {
	p.Wholesale = &wholesale
}

// SetNomenclature fija el código de nomenclatura
func (p *Position) SetNomenclature(n *Nomenclature) {
	if n == nil {
		p.NomenclatureCode = nil
		return
	}
	c := *n
	p.NomenclatureCode = &c
}

// Line implementa lines.Item
func (p Position) Line() lines.Line {
	return lines.Line{Price: p.Price.Decimal, Quantity: p.Quantity.Decimal, Total: p.Total.Decimal}
}

// WithLine implementa lines.Item
func (p Position) WithLine(l lines.Line) Position {
	p.Price = amountOf(l.Price)
	p.Quantity = amountOf(l.Quantity)
	p.Total = amountOf(l.Total)
	return p
}

// clone copia los campos de referencia para que el documento no comparta estado con el llamador
func (p Position) clone() Position {
	if p.MarkCode != nil {
		m := make(map[MarkType]string, len(p.MarkCode))
		for k, v := range p.MarkCode {
			m[k] = v
		}
		p.MarkCode = m
	}
	if p.SectoralItemProps != nil {
		p.SectoralItemProps = append([]SectoralProps(nil), p.SectoralItemProps...)
	}
	return p
}
