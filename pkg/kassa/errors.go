package kassa

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrTotalsMismatch se retorna cuando la suma de las posiciones no coincide con la de los pagos
var ErrTotalsMismatch = errors.New("positions total does not match payments total")

// TotalsMismatchError conserva ambas sumas redondeadas
type TotalsMismatchError struct {
	Positions decimal.Decimal
	Payments  decimal.Decimal
}

func (e *TotalsMismatchError) Error() string {
	return fmt.Sprintf("positions total %s does not match payments total %s",
		e.Positions.StringFixed(2), e.Payments.StringFixed(2))
}

// Is permite comparar con errors.Is(err, ErrTotalsMismatch)
func (e *TotalsMismatchError) Is(target error) bool {
	return target == ErrTotalsMismatch
}
