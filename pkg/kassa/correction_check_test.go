package kassa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrectionCheck(t *testing.T) {
	check := NewCorrectionCheck("2", IntentSellCorrection)
	check.SetCompany(Company{PaymentAddress: "ул. им Дедушки на деревне д.5", TaxSystem: TaxSystemCommon})
	check.SetClient(ClientInfo{
		Email: "client@client.ru",
		Phone: "+79992410085",
		Name:  "Иванов Иван",
		INN:   "516974792202",
	})
	check.AddPayment(dec("50"), PaymentTypeCard)
	check.SetCorrectionInfo(CorrectionInstruction, "2017-09-28", "K11")

	position, err := NewPosition("Товар", dec("10"), dec("5"), WithTotal(dec("50")))
	require.NoError(t, err)
	check.AddPosition(position)
	check.SetCashier("Кассир", "8634330201")
	check.SetAdditionalCheckProps("445334544")
	check.SetAuthorisedPerson("Иванов И.И.", "123456789012")
	check.SetCallbackURL("http://test.pro")

	expected := `{
		"external_id": "2",
		"intent": "sellCorrection",
		"print": false,
		"correction_info": {
			"type": "instruction",
			"base_date": "2017-09-28",
			"base_number": "K11"
		},
		"company": {"payment_address": "ул. им Дедушки на деревне д.5", "sno": 0},
		"client": {
			"email": "client@client.ru",
			"phone": "+79992410085",
			"name": "Иванов Иван",
			"inn": "516974792202"
		},
		"positions": [{
			"name": "Товар",
			"price": 10,
			"quantity": 5,
			"total": 50,
			"measure": 0,
			"payment_method": "full_payment",
			"payment_object": "product",
			"vat": "no"
		}],
		"cashier": {"name": "Кассир", "inn": "8634330201"},
		"additional_check_props": "445334544",
		"authorised_person": {"name": "Иванов И.И.", "inn": "123456789012"},
		"payments": [{"type": "card", "sum": 50}],
		"callback_url": "http://test.pro"
	}`

	assert.JSONEq(t, expected, marshal(t, check))
}

func TestCorrectionInfo(t *testing.T) {
	tests := []struct {
		name       string
		kind       CorrectionType
		baseNumber string
		want       string
	}{
		{"self with base number", CorrectionSelf, "K11",
			`{"type":"self","base_date":"2017-09-28","base_number":"K11"}`},
		{"instruction without base number", CorrectionInstruction, "",
			`{"type":"instruction","base_date":"2017-09-28"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := NewCorrectionCheck("3", IntentSellCorrection)
			check.SetCorrectionInfo(tt.kind, "2017-09-28", tt.baseNumber)

			assert.JSONEq(t, tt.want, marshal(t, check.Snapshot().CorrectionInfo))
		})
	}
}

func TestCorrectionCheckSparse(t *testing.T) {
	check := NewCorrectionCheck("2", IntentSell)
	check.AddSectoralCheckProps("001", "01.01.2001", "170/21", "Ид1=Знач1")

	raw := marshal(t, check)
	assert.NotContains(t, raw, "correction_info")
	assert.NotContains(t, raw, "authorised_person")
	assert.NotContains(t, raw, "cashier")
	assert.Contains(t, raw, `"sectoral_check_props":[{"federal_id":"001"`)

	check.SetAuthorisedPerson("Иванов И.И.", "")
	assert.Equal(t, &Person{Name: "Иванов И.И."}, check.Snapshot().AuthorisedPerson)
}
