package services

import (
	"errors"
	"fmt"

	"github.com/hypernova-labs/kassa-sdk/internal/models"
	"github.com/hypernova-labs/kassa-sdk/pkg/client"
	"github.com/hypernova-labs/kassa-sdk/pkg/kassa"
	"github.com/shopspring/decimal"
)

// ValidationError describe un campo del request que no se pudo convertir en documento
type ValidationError struct {
	Field string
	Issue string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Issue)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Issue: err.Error(), Err: err}
}

// receiptBuilder agrupa los setters comunes de Check y CorrectionCheck
type receiptBuilder interface {
	client.Document
	SetPrint(value bool)
	SetClient(client kassa.ClientInfo)
	SetCompany(company kassa.Company)
	SetCashier(name, inn string)
	SetCallbackURL(url string)
	AddPosition(p kassa.Position)
	AddPayment(sum decimal.Decimal, paymentType kassa.PaymentType)
	ApplyDiscount(discount decimal.Decimal) error
	ApplyCorrectionPositions()
}

// BuildCheck convierte el request en un Check, o en un CorrectionCheck cuando
// el request trae datos de corrección
func BuildCheck(req *models.CreateCheckRequest) (client.Document, models.SubmissionKind, error) {
	intent := kassa.Intent(req.Intent)
	if !intent.Valid() {
		return nil, "", &ValidationError{Field: "intent", Issue: fmt.Sprintf("unknown intent %q", req.Intent)}
	}

	var (
		doc   receiptBuilder
		check *kassa.Check
		kind  = models.SubmissionKindCheck
	)

	if req.Correction != nil {
		correction := kassa.NewCorrectionCheck(req.ExternalID, intent)
		correction.SetCorrectionInfo(kassa.CorrectionType(req.Correction.Type), req.Correction.BaseDate, req.Correction.BaseNumber)
		doc = correction
		kind = models.SubmissionKindCorrection
	} else {
		check = kassa.NewCheck(req.ExternalID, intent)
		check.SetStrictTotals(req.StrictTotals)
		doc = check
	}

	doc.SetPrint(req.Print)
	doc.SetCompany(kassa.Company{
		PaymentAddress: req.Company.PaymentAddress,
		TaxSystem:      kassa.TaxSystem(req.Company.TaxSystem),
		INN:            req.Company.INN,
		PlaceAddress:   req.Company.PlaceAddress,
	})
	doc.SetClient(kassa.ClientInfo{
		Email: req.Client.Email,
		Phone: req.Client.Phone,
		Name:  req.Client.Name,
		INN:   req.Client.INN,
	})
	if req.Cashier != nil {
		doc.SetCashier(req.Cashier.Name, req.Cashier.INN)
	}
	if req.CallbackURL != "" {
		doc.SetCallbackURL(req.CallbackURL)
	}

	for i, p := range req.Positions {
		position, err := buildPosition(p)
		if err != nil {
			return nil, "", invalid(fmt.Sprintf("positions[%d]", i), err)
		}
		doc.AddPosition(position)
	}

	for _, p := range req.Payments {
		doc.AddPayment(p.Sum, kassa.PaymentType(p.Type))
	}

	if req.Discount != nil {
		if err := doc.ApplyDiscount(*req.Discount); err != nil {
			return nil, "", invalid("discount", err)
		}
	}
	if req.SplitCorrection {
		doc.ApplyCorrectionPositions()
	}

	if check != nil {
		if err := check.Validate(); err != nil {
			return nil, "", invalid("payments", err)
		}
	}

	return doc, kind, nil
}

func buildPosition(p models.PositionRequest) (kassa.Position, error) {
	quantity := decimal.NewFromInt(1)
	if p.Quantity != nil {
		quantity = *p.Quantity
	}

	var opts []kassa.PositionOption
	if p.Total != nil {
		opts = append(opts, kassa.WithTotal(*p.Total))
	}
	if p.ID != "" {
		opts = append(opts, kassa.WithID(p.ID))
	}
	if p.VAT != nil {
		opts = append(opts, kassa.WithVAT(p.VAT))
	}
	if p.Measure != nil {
		opts = append(opts, kassa.WithMeasure(kassa.MeasureType(*p.Measure)))
	}
	if p.PaymentMethod != "" {
		opts = append(opts, kassa.WithPaymentMethod(kassa.PaymentMethod(p.PaymentMethod)))
	}
	if p.PaymentObject != "" {
		opts = append(opts, kassa.WithPaymentObject(kassa.PaymentObject(p.PaymentObject)))
	}

	return kassa.NewPosition(p.Name, p.Price, quantity, opts...)
}

// IsValidation indica si err proviene de un request inválido
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
