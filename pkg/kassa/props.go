package kassa

import (
	"github.com/hypernova-labs/kassa-sdk/pkg/money"
	"github.com/shopspring/decimal"
)

// Payment es un pago del documento
type Payment struct {
	Sum  money.Amount `json:"sum"`
	Type PaymentType  `json:"type"`
}

// Person identifica al cajero o a la persona autorizada
type Person struct {
	Name string `json:"name"`
	INN  string `json:"inn,omitempty"`
}

// ClientInfo son los datos del comprador; sólo se emiten los campos no vacíos
type ClientInfo struct {
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Name         string `json:"name,omitempty"`
	INN          string `json:"inn,omitempty"`
	Birthdate    string `json:"birthdate,omitempty"`
	Citizenship  string `json:"citizenship,omitempty"`
	DocumentCode string `json:"document_code,omitempty"`
	DocumentData string `json:"document_data,omitempty"`
	Address      string `json:"address,omitempty"`
}

// Company son los datos del vendedor tal como los entrega el usuario
type Company struct {
	PaymentAddress string
	TaxSystem      TaxSystem
	INN            string
	PlaceAddress   string
	Email          string
}

// CompanyInfo es la forma serializada de Company. El sistema de tributación
// es un puntero para que el valor 0 (ОСН) se emita.
type CompanyInfo struct {
	Email          string     `json:"email,omitempty"`
	PaymentAddress string     `json:"payment_address,omitempty"`
	TaxSystem      *TaxSystem `json:"sno,omitempty"`
	INN            string     `json:"inn,omitempty"`
	PlaceAddress   string     `json:"place_address,omitempty"`
}

func (c Company) info() CompanyInfo {
	sno := c.TaxSystem
	return CompanyInfo{
		Email:          c.Email,
		PaymentAddress: c.PaymentAddress,
		TaxSystem:      &sno,
		INN:            c.INN,
		PlaceAddress:   c.PlaceAddress,
	}
}

// AdditionalUserProps es el requisito adicional del usuario
type AdditionalUserProps struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SectoralProps es un requisito de pertenencia sectorial del documento o de la posición
type SectoralProps struct {
	FederalID string `json:"federal_id"`
	Date      string `json:"date"`
	Number    string `json:"number"`
	Value     string `json:"value"`
}

// OperatingCheckProps es el requisito operativo del documento
type OperatingCheckProps struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	Timestamp string `json:"timestamp"`
}

// MarkQuantity es la cantidad fraccionaria de un producto marcado
type MarkQuantity struct {
	Numerator   int `json:"numerator"`
	Denominator int `json:"denominator"`
}

// Nomenclature es el código de nomenclatura de un producto
type Nomenclature struct {
	Code    string `json:"code,omitempty"`
	HexCode string `json:"hex_code,omitempty"`
}

// NewNomenclature crea un código de nomenclatura
func NewNomenclature(code, hexCode string) *Nomenclature {
	return &Nomenclature{Code: code, HexCode: hexCode}
}

func amountOf(d decimal.Decimal) money.Amount {
	return money.New(d)
}
