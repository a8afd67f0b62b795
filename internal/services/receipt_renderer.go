package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/hypernova-labs/kassa-sdk/internal/models"
	"github.com/hypernova-labs/kassa-sdk/pkg/kassa"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ReceiptRenderer genera la vista previa PDF de un cheque enviado
type ReceiptRenderer struct {
	logger *logrus.Logger
}

// NewReceiptRenderer crea una nueva instancia del generador
func NewReceiptRenderer(logger *logrus.Logger) *ReceiptRenderer {
	return &ReceiptRenderer{logger: logger}
}

// Render dibuja el cheque en formato de ticket de 80 mm
func (r *ReceiptRenderer) Render(sub *models.Submission, payload *kassa.ReceiptPayload) ([]byte, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: 80, Ht: 200 + 12*float64(len(payload.Positions))},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(true, 4)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	width := 72.0

	// Encabezado
	pdf.SetFont("Courier", "B", 11)
	pdf.CellFormat(width, 6, tr(intentTitle(payload.Intent)), "", 1, "C", false, 0, "")
	pdf.SetFont("Courier", "", 8)
	pdf.CellFormat(width, 4, tr(payload.Company.PaymentAddress), "", 1, "C", false, 0, "")
	if payload.Company.INN != "" {
		pdf.CellFormat(width, 4, tr("INN "+payload.Company.INN), "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(width, 4, tr("External ID: "+payload.ExternalID), "", 1, "L", false, 0, "")
	pdf.CellFormat(width, 4, tr("Task: "+sub.TaskID), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), 76, pdf.GetY())
	pdf.Ln(2)

	// Posiciones
	for i, p := range payload.Positions {
		pdf.SetFont("Courier", "B", 8)
		pdf.MultiCell(width, 4, tr(fmt.Sprintf("%d. %s", i+1, p.Name)), "", "L", false)
		pdf.SetFont("Courier", "", 8)
		pdf.CellFormat(width/2, 4, fmt.Sprintf("%s x %s", p.Quantity.String(), p.Price.StringFixed(2)), "", 0, "L", false, 0, "")
		pdf.CellFormat(width/2, 4, "="+p.Total.StringFixed(2), "", 1, "R", false, 0, "")
		pdf.CellFormat(width, 4, tr("VAT "+p.VAT.String()), "", 1, "L", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), 76, pdf.GetY())
	pdf.Ln(2)

	// Totales
	total := decimal.Zero
	for _, p := range payload.Positions {
		total = total.Add(p.Total.Decimal)
	}
	pdf.SetFont("Courier", "B", 10)
	pdf.CellFormat(width/2, 6, "TOTAL", "", 0, "L", false, 0, "")
	pdf.CellFormat(width/2, 6, total.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Courier", "", 8)
	for _, payment := range payload.Payments {
		pdf.CellFormat(width/2, 4, tr(string(payment.Type)), "", 0, "L", false, 0, "")
		pdf.CellFormat(width/2, 4, payment.Sum.StringFixed(2), "", 1, "R", false, 0, "")
	}

	// Datos fiscales
	pdf.Ln(2)
	pdf.CellFormat(width, 4, tr("State: "+string(sub.State)), "", 1, "L", false, 0, "")
	if len(sub.FiscalData) > 0 {
		var fiscal map[string]any
		if err := json.Unmarshal(sub.FiscalData, &fiscal); err != nil {
			return nil, fmt.Errorf("error decoding fiscal data: %w", err)
		}
		keys := make([]string, 0, len(fiscal))
		for k := range fiscal {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			pdf.CellFormat(width, 4, tr(fmt.Sprintf("%s: %v", k, fiscal[k])), "", 1, "L", false, 0, "")
		}
	}
	if sub.ErrorDescription != nil {
		pdf.MultiCell(width, 4, tr("Error: "+*sub.ErrorDescription), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("error generating PDF: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"submission_id": sub.ID,
		"positions":     len(payload.Positions),
		"size":          buf.Len(),
	}).Debug("Receipt preview generated")

	return buf.Bytes(), nil
}

func intentTitle(intent kassa.Intent) string {
	switch intent {
	case kassa.IntentSell:
		return "SALE"
	case kassa.IntentSellReturn:
		return "SALE RETURN"
	case kassa.IntentBuy:
		return "PURCHASE"
	case kassa.IntentBuyReturn:
		return "PURCHASE RETURN"
	default:
		return "CORRECTION " + string(intent)
	}
}
