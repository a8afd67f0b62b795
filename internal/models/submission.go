package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubmissionKind representa el tipo de documento enviado a la caja
type SubmissionKind string

const (
	SubmissionKindCheck      SubmissionKind = "check"
	SubmissionKindCorrection SubmissionKind = "correction"
	SubmissionKindOrder      SubmissionKind = "order"
)

// SubmissionState refleja el estado de la tarea en KOMTET Kassa
type SubmissionState string

const (
	SubmissionStateNew     SubmissionState = "new"
	SubmissionStateRunning SubmissionState = "running"
	SubmissionStateDone    SubmissionState = "done"
	SubmissionStateError   SubmissionState = "error"
)

// Final indica si el estado ya no cambiará
func (s SubmissionState) Final() bool {
	return s == SubmissionStateDone || s == SubmissionStateError
}

// Submission es una fila del diario de documentos enviados
type Submission struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	Kind             SubmissionKind  `json:"kind" db:"kind"`
	ExternalID       string          `json:"external_id" db:"external_id"`
	QueueID          string          `json:"queue_id" db:"queue_id"`
	TaskID           string          `json:"task_id" db:"task_id"`
	State            SubmissionState `json:"state" db:"state"`
	Payload          json.RawMessage `json:"payload" db:"payload"`
	FiscalData       json.RawMessage `json:"fiscal_data,omitempty" db:"fiscal_data"`
	ErrorDescription *string         `json:"error_description,omitempty" db:"error_description"`
	ArchiveKey       *string         `json:"archive_key,omitempty" db:"archive_key"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// CompanyRequest representa los datos de la empresa en un request
type CompanyRequest struct {
	PaymentAddress string `json:"payment_address" binding:"required"`
	TaxSystem      int    `json:"sno" binding:"min=0,max=5"`
	INN            string `json:"inn"`
	PlaceAddress   string `json:"place_address"`
}

// ClientRequest representa los datos del comprador
type ClientRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
	Name  string `json:"name"`
	INN   string `json:"inn"`
}

// CashierRequest representa al cajero
type CashierRequest struct {
	Name string `json:"name" binding:"required"`
	INN  string `json:"inn"`
}

// PositionRequest representa una posición del cheque
type PositionRequest struct {
	ID            string           `json:"id"`
	Name          string           `json:"name" binding:"required"`
	Price         decimal.Decimal  `json:"price"`
	Quantity      *decimal.Decimal `json:"quantity"`
	Total         *decimal.Decimal `json:"total"`
	VAT           any              `json:"vat"`
	Measure       *int             `json:"measure"`
	PaymentMethod string           `json:"payment_method"`
	PaymentObject string           `json:"payment_object"`
}

// PaymentRequest representa un pago
type PaymentRequest struct {
	Sum  decimal.Decimal `json:"sum"`
	Type string          `json:"type"`
}

// CorrectionRequest convierte el cheque en un cheque de corrección
type CorrectionRequest struct {
	Type       string `json:"type" binding:"required"`
	BaseDate   string `json:"base_date" binding:"required"`
	BaseNumber string `json:"base_number"`
}

// CreateCheckRequest representa el request para fiscalizar un cheque
type CreateCheckRequest struct {
	ExternalID      string             `json:"external_id"`
	Intent          string             `json:"intent" binding:"required"`
	QueueID         string             `json:"queue_id"`
	Company         CompanyRequest     `json:"company"`
	Client          ClientRequest      `json:"client"`
	Cashier         *CashierRequest    `json:"cashier"`
	Positions       []PositionRequest  `json:"positions" binding:"required,min=1,dive"`
	Payments        []PaymentRequest   `json:"payments" binding:"required,min=1,dive"`
	Discount        *decimal.Decimal   `json:"discount"`
	Correction      *CorrectionRequest `json:"correction"`
	SplitCorrection bool               `json:"split_correction"`
	StrictTotals    bool               `json:"strict_totals"`
	CallbackURL     string             `json:"callback_url"`
	Print           bool               `json:"print"`
}

// SubmissionResponse es la respuesta pública de un envío
type SubmissionResponse struct {
	ID               uuid.UUID       `json:"id"`
	Kind             SubmissionKind  `json:"kind"`
	ExternalID       string          `json:"external_id"`
	QueueID          string          `json:"queue_id"`
	TaskID           string          `json:"task_id"`
	State            SubmissionState `json:"state"`
	FiscalData       json.RawMessage `json:"fiscal_data,omitempty"`
	ErrorDescription *string         `json:"error_description,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ToResponse convierte la fila del diario en la respuesta pública
func (s *Submission) ToResponse() SubmissionResponse {
	return SubmissionResponse{
		ID:               s.ID,
		Kind:             s.Kind,
		ExternalID:       s.ExternalID,
		QueueID:          s.QueueID,
		TaskID:           s.TaskID,
		State:            s.State,
		FiscalData:       s.FiscalData,
		ErrorDescription: s.ErrorDescription,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}
