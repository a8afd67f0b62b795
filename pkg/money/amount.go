package money

import (
	"github.com/shopspring/decimal"
)

// Amount es un importe decimal que se serializa en JSON como número
type Amount struct {
	decimal.Decimal
}

// New envuelve un decimal
func New(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// FromInt crea un importe a partir de un entero
func FromInt(v int64) Amount {
	return Amount{Decimal: decimal.NewFromInt(v)}
}

// FromFloat crea un importe a partir de un float usando su representación más corta
func FromFloat(v float64) Amount {
	return Amount{Decimal: decimal.NewFromFloat(v)}
}

// Parse crea un importe a partir de un texto
func Parse(s string) (Amount, error) {
	d, err := fromString(s, s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Decimal: d}, nil
}

// MustParse es como Parse pero entra en pánico ante un error
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Of convierte cualquier valor numérico soportado en un importe sin redondear
func Of(value any) (Amount, error) {
	d, err := ToDecimal(value)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Decimal: d}, nil
}

// Rounded retorna el importe redondeado a la escala fija
func (a Amount) Rounded() Amount {
	return Amount{Decimal: Round(a.Decimal)}
}

// MarshalJSON serializa el importe como número JSON, nunca como texto
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// UnmarshalJSON acepta números y textos numéricos
func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		a.Decimal = decimal.Zero
		return nil
	}
	if err := a.Decimal.UnmarshalJSON(data); err != nil {
		return &InvalidAmountError{Value: string(data), Err: err}
	}
	return nil
}
