package legacy

import (
	"encoding/json"
	"testing"

	"github.com/hypernova-labs/kassa-sdk/pkg/kassa"
	"github.com/hypernova-labs/kassa-sdk/pkg/vat"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCheck(t *testing.T) {
	check := NewCheck("2", "user@host", kassa.IntentSell, kassa.TaxSystemCommon)
	check.SetPrint(true)
	require.NoError(t, check.AddPosition("Позиция 1", dec("100"), dec("1"), nil, "18%"))
	total := dec("180")
	require.NoError(t, check.AddPosition("Позиция 2", dec("100"), dec("2"), &total, "10/110"))
	check.AddPayment(dec("280"))

	raw, err := json.Marshal(check)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"task_id": "2",
		"user": "user@host",
		"print": true,
		"intent": "sell",
		"sno": 0,
		"payments": [{"sum": 280}],
		"positions": [
			{"name": "Позиция 1", "price": 100, "quantity": 1, "total": 100, "vat": "18"},
			{"name": "Позиция 2", "price": 100, "quantity": 2, "total": 180, "vat": "110"}
		]
	}`, string(raw))

	assert.NoError(t, check.Validate())
}

func TestCheckUsesLegacyVATTable(t *testing.T) {
	check := NewCheck("2", "user@host", kassa.IntentSell, kassa.TaxSystemCommon)

	require.NoError(t, check.AddPosition("a", dec("1"), dec("1"), nil, "18/118"))
	assert.Equal(t, vat.Rate118, check.Snapshot().Positions[0].VAT)

	err := check.AddPosition("b", dec("1"), dec("1"), nil, "20")
	assert.ErrorIs(t, err, vat.ErrUnknownRate)
}

func TestValidateTotals(t *testing.T) {
	check := NewCheck("2", "user@host", kassa.IntentSellReturn, kassa.TaxSystemPatent)
	require.NoError(t, check.AddPosition("a", dec("10"), dec("3"), nil, nil))
	check.AddPayment(dec("20"))

	err := check.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCheck)
	assert.EqualError(t, err, "Positions total 30.00 is not equal to payments total 20.00")

	var checkErr *CheckError
	assert.ErrorAs(t, err, &checkErr)
}

func TestAddRawPosition(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]any
		wantErr bool
		schema  string
		check   func(t *testing.T, p Position)
	}{
		{
			name: "quantity defaults to one",
			raw:  map[string]any{"name": "Товар", "price": 12.5},
			check: func(t *testing.T, p Position) {
				assert.True(t, p.Quantity.Equal(dec("1")))
				assert.True(t, p.Total.Equal(dec("12.5")))
				assert.Equal(t, vat.RateNo, p.VAT)
			},
		},
		{
			name: "explicit total and vat",
			raw: map[string]any{
				"name":     "Товар",
				"price":    10,
				"quantity": 3,
				"total":    json.Number("29.99"),
				"vat":      map[string]any{"number": "10", "sum": 2.73},
			},
			check: func(t *testing.T, p Position) {
				assert.True(t, p.Total.Equal(dec("29.99")))
				assert.Equal(t, vat.Rate10, p.VAT)
			},
		},
		{
			name:    "missing price",
			raw:     map[string]any{"name": "Товар"},
			wantErr: true,
			schema:  "position",
		},
		{
			name:    "price as text",
			raw:     map[string]any{"name": "Товар", "price": "10"},
			wantErr: true,
			schema:  "position",
		},
		{
			name: "vat without sum",
			raw: map[string]any{
				"name":  "Товар",
				"price": 10,
				"vat":   map[string]any{"number": "10"},
			},
			wantErr: true,
			schema:  "position",
		},
		{
			name: "vat outside the legacy set",
			raw: map[string]any{
				"name":  "Товар",
				"price": 10,
				"vat":   map[string]any{"number": "20", "sum": 1},
			},
			wantErr: true,
			schema:  "position",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := NewCheck("1", "user@host", kassa.IntentSell, kassa.TaxSystemCommon)
			err := check.AddRawPosition(tt.raw)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrFormat)
				var formatErr *FormatError
				require.ErrorAs(t, err, &formatErr)
				assert.Equal(t, tt.schema, formatErr.Schema)
				assert.Empty(t, check.Snapshot().Positions)
				return
			}

			require.NoError(t, err)
			positions := check.Snapshot().Positions
			require.Len(t, positions, 1)
			tt.check(t, positions[0])
		})
	}
}

func TestAddRawPayment(t *testing.T) {
	check := NewCheck("1", "user@host", kassa.IntentSell, kassa.TaxSystemCommon)

	require.NoError(t, check.AddRawPayment(100))
	require.NoError(t, check.AddRawPayment(map[string]any{"sum": 50.5}))
	require.NoError(t, check.AddRawPayment(map[string]any{"sum": 1, "type": "cash"}))

	payments := check.Snapshot().Payments
	require.Len(t, payments, 3)
	assert.True(t, payments[0].Sum.Equal(dec("100")))
	assert.Equal(t, kassa.PaymentType(""), payments[0].Type)
	assert.Equal(t, kassa.PaymentTypeCard, payments[1].Type)
	assert.Equal(t, kassa.PaymentTypeCash, payments[2].Type)

	for _, raw := range []any{"100", map[string]any{"type": "card"}, map[string]any{"sum": 1, "type": "bitcoin"}} {
		err := check.AddRawPayment(raw)
		assert.ErrorIs(t, err, ErrFormat, "input %#v", raw)
	}
	assert.Len(t, check.Snapshot().Payments, 3)
}

func TestSchemas(t *testing.T) {
	assert.NoError(t, PriceSchema.Validate(10.5))
	assert.ErrorIs(t, PriceSchema.Validate("10.5"), ErrFormat)

	assert.NoError(t, QuantitySchema.Validate(2))

	assert.NoError(t, VATSchema.Validate(map[string]any{"number": "118", "sum": 18}))
	err := VATSchema.Validate(map[string]any{"number": "120", "sum": 18})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vat: ")
}
