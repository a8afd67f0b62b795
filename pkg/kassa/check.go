// Package kassa contiene los constructores de documentos de KOMTET Kassa:
// cheques, cheques de corrección, pedidos y empleados.
package kassa

import (
	"encoding/json"
)

// Check es un cheque de venta, devolución o compra
type Check struct {
	receipt
	strict bool
}

// NewCheck crea un cheque vacío. Siempre se serializan external_id, intent,
// print, client, company, payments y positions.
func NewCheck(externalID string, intent Intent) *Check {
	return &Check{receipt: newReceipt(externalID, intent)}
}

// SetStrictTotals activa la conciliación de totales en Validate
func (c *Check) SetStrictTotals(strict bool) {
	c.strict = strict
}

// Validate retorna ErrTotalsMismatch si la conciliación está activa y las
// posiciones no suman lo mismo que los pagos
func (c *Check) Validate() error {
	if !c.strict {
		return nil
	}
	return c.checkTotals()
}

// Snapshot retorna una copia serializable del cheque
func (c *Check) Snapshot() ReceiptPayload {
	return c.snapshot()
}

// MarshalJSON implementa json.Marshaler
func (c *Check) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.data)
}
