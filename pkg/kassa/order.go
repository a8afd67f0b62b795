package kassa

import (
	"encoding/json"
	"fmt"

	"github.com/hypernova-labs/kassa-sdk/pkg/lines"
	"github.com/hypernova-labs/kassa-sdk/pkg/money"
	"github.com/hypernova-labs/kassa-sdk/pkg/vat"
	"github.com/shopspring/decimal"
)

// Coordinate es la ubicación del domicilio de entrega
type Coordinate struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// Requisites son los datos fiscales del destinatario
type Requisites struct {
	Name string `json:"name"`
	INN  string `json:"inn"`
}

// OrderClient es el destinatario de un pedido. address y phone siempre se emiten.
type OrderClient struct {
	Address    string      `json:"address"`
	Phone      string      `json:"phone"`
	Email      string      `json:"email,omitempty"`
	Name       string      `json:"name,omitempty"`
	INN        string      `json:"inn,omitempty"`
	Coordinate *Coordinate `json:"coordinate,omitempty"`
	Requisites *Requisites `json:"requisites,omitempty"`
}

// OrderItem es una línea de un pedido
type OrderItem struct {
	ID                     int64               `json:"id,omitempty"`
	Name                   string              `json:"name"`
	Price                  money.Amount        `json:"price"`
	Quantity               money.Amount        `json:"quantity"`
	Total                  money.Amount        `json:"total"`
	Measure                MeasureType         `json:"measure"`
	VAT                    vat.Rate            `json:"vat"`
	IsNeedNomenclatureCode bool                `json:"is_need_nomenclature_code"`
	Type                   string              `json:"type,omitempty"`
	ProductID              int64               `json:"product_id,omitempty"`
	ExternalID             string              `json:"external_id,omitempty"`
	Excise                 *money.Amount       `json:"excise,omitempty"`
	CountryCode            string              `json:"country_code,omitempty"`
	UserData               string              `json:"user_data,omitempty"`
	DeclarationNumber      string              `json:"declaration_number,omitempty"`
	MarkCode               map[MarkType]string `json:"mark_code,omitempty"`
	MarkQuantity           *MarkQuantity       `json:"mark_quantity,omitempty"`
	AgentInfo              *AgentInfo          `json:"agent_info,omitempty"`
	SupplierInfo           *SupplierInfo       `json:"supplier_info,omitempty"`
	SectoralItemProps      []SectoralProps     `json:"sectoral_item_props,omitempty"`
}

// OrderItemOption configura un OrderItem durante su construcción
type OrderItemOption func(*OrderItem) error

// NewOrderItem crea una línea de pedido con total price*quantity, unidad pieza e IVA "no"
func NewOrderItem(name string, price, quantity decimal.Decimal, opts ...OrderItemOption) (OrderItem, error) {
	item := OrderItem{
		Name:     name,
		Price:    amountOf(price),
		Quantity: amountOf(quantity),
		Total:    amountOf(price.Mul(quantity)),
		Measure:  MeasurePiece,
		VAT:      vat.RateNo,
	}

	for _, opt := range opts {
		if err := opt(&item); err != nil {
			return OrderItem{}, fmt.Errorf("error building order item %q: %w", name, err)
		}
	}

	return item, nil
}

func ItemTotal(total decimal.Decimal) OrderItemOption {
	return func(i *OrderItem) error {
		i.Total = amountOf(total)
		return nil
	}
}

func ItemID(id int64) OrderItemOption {
	return func(i *OrderItem) error {
		i.ID = id
		return nil
	}
}

func ItemType(t string) OrderItemOption {
	return func(i *OrderItem) error {
		i.Type = t
		return nil
	}
}

func ItemProductID(id int64) OrderItemOption {
	return func(i *OrderItem) error {
		i.ProductID = id
		return nil
	}
}

func ItemExternalID(id string) OrderItemOption {
	return func(i *OrderItem) error {
		i.ExternalID = id
		return nil
	}
}

func ItemMeasure(m MeasureType) OrderItemOption {
	return func(i *OrderItem) error {
		i.Measure = m
		return nil
	}
}

// ItemVAT normaliza y fija la tasa de IVA de la línea
func ItemVAT(raw any) OrderItemOption {
	return func(i *OrderItem) error {
		rate, err := vat.Parse(raw)
		if err != nil {
			return err
		}
		i.VAT = rate
		return nil
	}
}

func ItemExcise(excise decimal.Decimal) OrderItemOption {
	return func(i *OrderItem) error {
		a := amountOf(excise)
		i.Excise = &a
		return nil
	}
}

func ItemCountryCode(code string) OrderItemOption {
	return func(i *OrderItem) error {
		i.CountryCode = code
		return nil
	}
}

func ItemUserData(data string) OrderItemOption {
	return func(i *OrderItem) error {
		i.UserData = data
		return nil
	}
}

func ItemDeclarationNumber(number string) OrderItemOption {
	return func(i *OrderItem) error {
		i.DeclarationNumber = number
		return nil
	}
}

// ItemNeedsNomenclatureCode exige el código de marcado al fiscalizar la línea
func ItemNeedsNomenclatureCode(need bool) OrderItemOption {
	return func(i *OrderItem) error {
		i.IsNeedNomenclatureCode = need
		return nil
	}
}

// SetAgent copia los datos del agente y de su proveedor en la línea
func (i *OrderItem) SetAgent(a *Agent) {
	info := a.Info()
	i.AgentInfo = &info
	if s := a.Supplier(); s != nil {
		i.SupplierInfo = s
	}
}

func (i *OrderItem) SetMarkCode(markType MarkType, code string) {
	i.MarkCode = map[MarkType]string{markType: code}
}

func (i *OrderItem) SetMarkQuantity(numerator, denominator int) {
	i.MarkQuantity = &MarkQuantity{Numerator: numerator, Denominator: denominator}
}

func (i *OrderItem) AddSectoralItemProps(federalID, date, number, value string) {
	i.SectoralItemProps = append(i.SectoralItemProps, SectoralProps{
		FederalID: federalID,
		Date:      date,
		Number:    number,
		Value:     value,
	})
}

// Line implementa lines.Item
func (i OrderItem) Line() lines.Line {
	return lines.Line{Price: i.Price.Decimal, Quantity: i.Quantity.Decimal, Total: i.Total.Decimal}
}

// WithLine implementa lines.Item
func (i OrderItem) WithLine(l lines.Line) OrderItem {
	i.Price = amountOf(l.Price)
	i.Quantity = amountOf(l.Quantity)
	i.Total = amountOf(l.Total)
	return i
}

func (i OrderItem) clone() OrderItem {
	if i.MarkCode != nil {
		m := make(map[MarkType]string, len(i.MarkCode))
		for k, v := range i.MarkCode {
			m[k] = v
		}
		i.MarkCode = m
	}
	if i.SectoralItemProps != nil {
		i.SectoralItemProps = append([]SectoralProps(nil), i.SectoralItemProps...)
	}
	return i
}

// OrderPayload es la forma serializada de un Order
type OrderPayload struct {
	ExternalID           string               `json:"external_id"`
	IsPayToCourier       bool                 `json:"is_pay_to_courier"`
	Description          string               `json:"description"`
	Items                []OrderItem          `json:"items"`
	PaymentType          PaymentType          `json:"payment_type"`
	Prepayment           money.Amount         `json:"prepayment"`
	State                string               `json:"state,omitempty"`
	Company              *CompanyInfo         `json:"company,omitempty"`
	Client               *OrderClient         `json:"client,omitempty"`
	DateStart            string               `json:"date_start,omitempty"`
	DateEnd              string               `json:"date_end,omitempty"`
	CallbackURL          string               `json:"callback_url,omitempty"`
	CourierID            int64                `json:"courier_id,omitempty"`
	AdditionalCheckProps string               `json:"additional_check_props,omitempty"`
	AdditionalUserProps  *AdditionalUserProps `json:"additional_user_props,omitempty"`
	SectoralCheckProps   []SectoralProps      `json:"sectoral_check_props,omitempty"`
	OperatingCheckProps  *OperatingCheckProps `json:"operating_check_props,omitempty"`
}

// Order es un pedido de entrega a cobrar por un mensajero
type Order struct {
	data OrderPayload
}

// OrderOption configura un Order durante su construcción
type OrderOption func(*Order)

// WithState fija el estado inicial del pedido
func WithState(state string) OrderOption {
	return func(o *Order) { o.data.State = state }
}

// WithPayToCourier indica si el pago se entrega al mensajero
func WithPayToCourier(pay bool) OrderOption {
	return func(o *Order) { o.data.IsPayToCourier = pay }
}

func WithPrepayment(amount decimal.Decimal) OrderOption {
	return func(o *Order) { o.data.Prepayment = amountOf(amount) }
}

func WithPaymentType(t PaymentType) OrderOption {
	return func(o *Order) { o.data.PaymentType = t }
}

// NewOrder crea un pedido pagado al mensajero, con tarjeta y sin prepago
func NewOrder(externalID string, opts ...OrderOption) *Order {
	o := &Order{data: OrderPayload{
		ExternalID:     externalID,
		IsPayToCourier: true,
		Items:          []OrderItem{},
		PaymentType:    PaymentTypeCard,
		Prepayment:     money.FromInt(0),
	}}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ExternalID retorna el identificador del pedido en la tienda
func (o *Order) ExternalID() string {
	return o.data.ExternalID
}

// SetCompany fija los datos del vendedor, incluido su email
func (o *Order) SetCompany(company Company) {
	info := company.info()
	o.data.Company = &info
}

func (o *Order) SetClient(client OrderClient) {
	o.data.Client = &client
}

// SetDeliveryTime fija la ventana de entrega
func (o *Order) SetDeliveryTime(dateStart, dateEnd string) {
	o.data.DateStart = dateStart
	o.data.DateEnd = dateEnd
}

func (o *Order) SetDescription(description string) {
	o.data.Description = description
}

func (o *Order) SetCallbackURL(url string) {
	o.data.CallbackURL = url
}

func (o *Order) SetCourierID(id int64) {
	o.data.CourierID = id
}

func (o *Order) SetAdditionalCheckProps(value string) {
	o.data.AdditionalCheckProps = value
}

func (o *Order) SetAdditionalUserProps(name, value string) {
	o.data.AdditionalUserProps = &AdditionalUserProps{Name: name, Value: value}
}

func (o *Order) AddSectoralCheckProps(federalID, date, number, value string) {
	o.data.SectoralCheckProps = append(o.data.SectoralCheckProps, SectoralProps{
		FederalID: federalID,
		Date:      date,
		Number:    number,
		Value:     value,
	})
}

func (o *Order) SetOperatingCheckProps(name, value, timestamp string) {
	o.data.OperatingCheckProps = &OperatingCheckProps{Name: name, Value: value, Timestamp: timestamp}
}

// AddItem agrega una copia de la línea
func (o *Order) AddItem(item OrderItem) {
	o.data.Items = append(o.data.Items, item.clone())
}

// Items retorna una copia de las líneas
func (o *Order) Items() []OrderItem {
	out := make([]OrderItem, len(o.data.Items))
	for i, item := range o.data.Items {
		out[i] = item.clone()
	}
	return out
}

// ApplyDiscount reparte el descuento entre las líneas
func (o *Order) ApplyDiscount(discount decimal.Decimal) error {
	if err := lines.ApplyDiscount(discount, o.data.Items); err != nil {
		return fmt.Errorf("error applying discount to order %s: %w", o.data.ExternalID, err)
	}
	return nil
}

// ApplyCorrectionPositions divide las líneas cuyo total no coincide con price*quantity
func (o *Order) ApplyCorrectionPositions() {
	o.data.Items = lines.CorrectionPositions(o.data.Items)
}

// Snapshot retorna una copia serializable del pedido
func (o *Order) Snapshot() OrderPayload {
	s := o.data
	s.Items = o.Items()
	if o.data.Company != nil {
		c := *o.data.Company
		s.Company = &c
	}
	if o.data.Client != nil {
		c := *o.data.Client
		s.Client = &c
	}
	if o.data.SectoralCheckProps != nil {
		s.SectoralCheckProps = append([]SectoralProps(nil), o.data.SectoralCheckProps...)
	}
	return s
}

// MarshalJSON implementa json.Marshaler
func (o *Order) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.data)
}
