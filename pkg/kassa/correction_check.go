package kassa

import (
	"encoding/json"
)

// CorrectionInfo describe el documento base de la corrección
type CorrectionInfo struct {
	Type       CorrectionType `json:"type"`
	BaseDate   string         `json:"base_date"`
	BaseNumber string         `json:"base_number,omitempty"`
}

// CorrectionCheckPayload es la forma serializada de un CorrectionCheck
type CorrectionCheckPayload struct {
	ReceiptPayload
	CorrectionInfo   *CorrectionInfo `json:"correction_info,omitempty"`
	AuthorisedPerson *Person         `json:"authorised_person,omitempty"`
}

// CorrectionCheck es un cheque de corrección
type CorrectionCheck struct {
	receipt
	correction *CorrectionInfo
	authorised *Person
}

// NewCorrectionCheck crea un cheque de corrección vacío
func NewCorrectionCheck(externalID string, intent Intent) *CorrectionCheck {
	return &CorrectionCheck{receipt: newReceipt(externalID, intent)}
}

// SetCorrectionInfo fija el tipo de corrección y el documento base.
// baseNumber vacío no se emite.
func (c *CorrectionCheck) SetCorrectionInfo(correctionType CorrectionType, baseDate, baseNumber string) {
	c.correction = &CorrectionInfo{Type: correctionType, BaseDate: baseDate, BaseNumber: baseNumber}
}

// SetAuthorisedPerson fija la persona autorizada; el INN se emite sólo si no está vacío
func (c *CorrectionCheck) SetAuthorisedPerson(name, inn string) {
	c.authorised = &Person{Name: name, INN: inn}
}

// Snapshot retorna una copia serializable del cheque de corrección
func (c *CorrectionCheck) Snapshot() CorrectionCheckPayload {
	s := CorrectionCheckPayload{ReceiptPayload: c.snapshot()}
	if c.correction != nil {
		ci := *c.correction
		s.CorrectionInfo = &ci
	}
	if c.authorised != nil {
		p := *c.authorised
		s.AuthorisedPerson = &p
	}
	return s
}

// MarshalJSON implementa json.Marshaler
func (c *CorrectionCheck) MarshalJSON() ([]byte, error) {
	return json.Marshal(CorrectionCheckPayload{
		ReceiptPayload:   c.data,
		CorrectionInfo:   c.correction,
		AuthorisedPerson: c.authorised,
	})
}
