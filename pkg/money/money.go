package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale es la cantidad de decimales con la que se redondean todos los importes
const Scale = 2

// ErrInvalidAmount se retorna cuando un valor no puede convertirse a decimal
var ErrInvalidAmount = errors.New("invalid amount")

// InvalidAmountError describe el valor que no pudo convertirse
type InvalidAmountError struct {
	Value any
	Err   error
}

// Error implementa la interfaz error
func (e *InvalidAmountError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid amount %v: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("invalid amount %v", e.Value)
}

// Is permite comparar con errors.Is(err, ErrInvalidAmount)
func (e *InvalidAmountError) Is(target error) bool {
	return target == ErrInvalidAmount
}

// Unwrap retorna el error original de parseo, si existe
func (e *InvalidAmountError) Unwrap() error {
	return e.Err
}

// Round redondea a dos decimales usando redondeo bancario (half-even)
func Round(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(Scale)
}

// ToFixedScale convierte cualquier valor numérico soportado a decimal con escala 2
func ToFixedScale(value any) (decimal.Decimal, error) {
	d, err := ToDecimal(value)
	if err != nil {
		return decimal.Zero, err
	}
	return Round(d), nil
}

// ToDecimal convierte un valor numérico a decimal sin redondear.
// Los float se convierten con su representación decimal más corta.
func ToDecimal(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, nil
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, &InvalidAmountError{Value: value}
		}
		return *v, nil
	case Amount:
		return v.Decimal, nil
	case *Amount:
		if v == nil {
			return decimal.Zero, &InvalidAmountError{Value: value}
		}
		return v.Decimal, nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int8:
		return decimal.NewFromInt(int64(v)), nil
	case int16:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case uint:
		return decimal.NewFromUint64(uint64(v)), nil
	case uint8:
		return decimal.NewFromUint64(uint64(v)), nil
	case uint16:
		return decimal.NewFromUint64(uint64(v)), nil
	case uint32:
		return decimal.NewFromUint64(uint64(v)), nil
	case uint64:
		return decimal.NewFromUint64(v), nil
	case float32:
		return fromFloat(float64(v), value)
	case float64:
		return fromFloat(v, value)
	case json.Number:
		return fromString(string(v), value)
	case string:
		return fromString(v, value)
	default:
		return decimal.Zero, &InvalidAmountError{Value: value}
	}
}

func fromFloat(f float64, raw any) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, &InvalidAmountError{Value: raw}
	}
	return decimal.NewFromFloat(f), nil
}

func fromString(s string, raw any) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, &InvalidAmountError{Value: raw, Err: err}
	}
	return d, nil
}

// Sum suma una lista de decimales
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
