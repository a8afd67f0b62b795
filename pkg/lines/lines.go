// Package lines implementa los algoritmos sobre líneas de un documento fiscal:
// prorrateo de descuentos y división de posiciones de corrección.
package lines

import (
	"errors"

	"github.com/hypernova-labs/kassa-sdk/pkg/money"
	"github.com/shopspring/decimal"
)

// ErrZeroTotal se retorna al prorratear un descuento sobre líneas cuya suma es cero
var ErrZeroTotal = errors.New("cannot apportion discount: items total is zero")

var hundred = decimal.NewFromInt(100)

// Line es la proyección numérica de una posición
type Line struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
	Total    decimal.Decimal
}

// Item es cualquier posición que expone su Line y puede copiarse con otra Line
type Item[T any] interface {
	Line() Line
	WithLine(Line) T
}

// Total suma los totales de las líneas
func Total[T Item[T]](items []T) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Line().Total)
	}
	return sum
}

// ApplyDiscount reparte discount entre items proporcionalmente a su total.
// La última línea absorbe el resto, por lo que la suma de descuentos asignados
// es exactamente discount. Modifica items en el lugar.
func ApplyDiscount[T Item[T]](discount decimal.Decimal, items []T) error {
	if len(items) == 0 {
		return nil
	}

	itemsTotal := Total(items)
	if len(items) > 1 && itemsTotal.IsZero() {
		return ErrZeroTotal
	}

	accumulated := decimal.Zero
	last := len(items) - 1

	for i, item := range items {
		line := item.Line()

		var itemDiscount decimal.Decimal
		if i < last {
			share := line.Total.Div(itemsTotal).Mul(hundred)
			itemDiscount = money.Round(discount.Mul(share).Div(hundred))
			accumulated = accumulated.Add(itemDiscount)
		} else {
			itemDiscount = money.Round(discount.Sub(accumulated))
		}

		line.Total = money.Round(line.Total).Sub(itemDiscount)
		items[i] = item.WithLine(line)
	}

	return nil
}

// CorrectionPositions divide las líneas cuyo total no coincide con price*quantity
// (con quantity > 1) en una línea unitaria con el resto seguida de la línea base
// con una unidad menos. El total agregado se conserva. No modifica items.
func CorrectionPositions[T Item[T]](items []T) []T {
	out := make([]T, 0, len(items))

	for _, item := range items {
		line := item.Line()
		quantity := line.Quantity
		baseTotal := line.Total

		if HasExtra(line) {
			quantity = quantity.Sub(decimal.NewFromInt(1))
			baseTotal = money.Round(line.Price.Mul(quantity))
			remainder := line.Total.Sub(baseTotal)

			out = append(out, item.WithLine(Line{
				Price:    remainder,
				Quantity: decimal.NewFromInt(1),
				Total:    remainder,
			}))
		}

		out = append(out, item.WithLine(Line{
			Price:    line.Price,
			Quantity: quantity,
			Total:    baseTotal,
		}))
	}

	return out
}

// HasExtra indica si la línea necesita dividirse
func HasExtra(line Line) bool {
	return !line.Total.Equal(line.Price.Mul(line.Quantity)) &&
		line.Quantity.GreaterThan(decimal.NewFromInt(1))
}
