package kassa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *Order {
	t.Helper()

	order := NewOrder("12", WithState("new"), WithPayToCourier(true),
		WithPrepayment(dec("200")), WithPaymentType(PaymentTypeCard))
	order.SetClient(OrderClient{
		Email:      "client@client.ru",
		Phone:      "+79992410085",
		Name:       "Иванов Иван",
		Address:    "ул. Кижеватова д.7 кв.30",
		Coordinate: &Coordinate{Latitude: "53.202838856701206", Longitude: "44.99768890421866"},
		Requisites: &Requisites{Name: "Иванов Иван", INN: "516974792202"},
	})
	order.SetDeliveryTime("01.01.2021 12:00", "01.01.2021 13:00")
	order.SetDescription("Комментарий к заказу")

	first, err := NewOrderItem("Пицца маргарита", dec("500"), dec("1"),
		ItemID(1), ItemTotal(dec("500")), ItemType("product"))
	require.NoError(t, err)
	second, err := NewOrderItem("Пицца пеперони", dec("600"), dec("5"),
		ItemID(2), ItemTotal(dec("3000")), ItemType("product"), ItemVAT("10"))
	require.NoError(t, err)
	third, err := NewOrderItem("Пицца барбекю", dec("555"), dec("1"),
		ItemID(3), ItemType("product_practical"), ItemExcise(dec("19.89")),
		ItemCountryCode("643"), ItemDeclarationNumber("10129000/220817/0211234"))
	require.NoError(t, err)

	order.AddItem(first)
	order.AddItem(second)
	order.AddItem(third)
	return order
}

func TestOrder(t *testing.T) {
	order := newTestOrder(t)

	expected := `{
		"client": {
			"address": "ул. Кижеватова д.7 кв.30",
			"coordinate": {
				"latitude": "53.202838856701206",
				"longitude": "44.99768890421866"
			},
			"email": "client@client.ru",
			"name": "Иванов Иван",
			"phone": "+79992410085",
			"requisites": {"inn": "516974792202", "name": "Иванов Иван"}
		},
		"date_end": "01.01.2021 13:00",
		"date_start": "01.01.2021 12:00",
		"description": "Комментарий к заказу",
		"external_id": "12",
		"is_pay_to_courier": true,
		"items": [
			{
				"id": 1,
				"is_need_nomenclature_code": false,
				"measure": 0,
				"name": "Пицца маргарита",
				"price": 500,
				"quantity": 1,
				"total": 500,
				"type": "product",
				"vat": "no"
			},
			{
				"id": 2,
				"is_need_nomenclature_code": false,
				"measure": 0,
				"name": "Пицца пеперони",
				"price": 600,
				"quantity": 5,
				"total": 3000,
				"type": "product",
				"vat": "10"
			},
			{
				"country_code": "643",
				"declaration_number": "10129000/220817/0211234",
				"excise": 19.89,
				"id": 3,
				"is_need_nomenclature_code": false,
				"measure": 0,
				"name": "Пицца барбекю",
				"price": 555,
				"quantity": 1,
				"total": 555,
				"type": "product_practical",
				"vat": "no"
			}
		],
		"payment_type": "card",
		"prepayment": 200,
		"state": "new"
	}`

	assert.JSONEq(t, expected, marshal(t, order))
}

func TestOrderDefaults(t *testing.T) {
	order := NewOrder("7")

	assert.JSONEq(t, `{
		"external_id": "7",
		"is_pay_to_courier": true,
		"description": "",
		"items": [],
		"payment_type": "card",
		"prepayment": 0
	}`, marshal(t, order))
}

func TestOrderCourierAndCallback(t *testing.T) {
	order := NewOrder("12", WithState("new"))
	order.SetCourierID(1)
	order.SetCallbackURL("https://shop.example/callback")

	s := order.Snapshot()
	assert.Equal(t, int64(1), s.CourierID)
	assert.Equal(t, "https://shop.example/callback", s.CallbackURL)
	assert.Contains(t, marshal(t, order), `"courier_id":1`)
}

func TestOrderItemWithProductAndExternalID(t *testing.T) {
	item, err := NewOrderItem("Пицца маргарита", dec("500"), dec("1"),
		ItemID(1), ItemProductID(15), ItemExternalID("10"), ItemType("product_practical"))
	require.NoError(t, err)

	raw := marshal(t, item)
	assert.Contains(t, raw, `"product_id":15`)
	assert.Contains(t, raw, `"external_id":"10"`)
}

func TestOrderCompany(t *testing.T) {
	order := NewOrder("12")
	order.SetCompany(Company{
		PaymentAddress: "ул. Мира д 6",
		TaxSystem:      TaxSystemSimplifiedIn,
		INN:            "123456789",
		Email:          "shop@example.ru",
	})

	assert.Equal(t, &CompanyInfo{
		PaymentAddress: "ул. Мира д 6",
		TaxSystem:      func() *TaxSystem { s := TaxSystemSimplifiedIn; return &s }(),
		INN:            "123456789",
		Email:          "shop@example.ru",
	}, order.Snapshot().Company)
}

func TestOrderItemAgentAndMarks(t *testing.T) {
	order := NewOrder("12")

	item, err := NewOrderItem("Товар", dec("100"), dec("1"), ItemNeedsNomenclatureCode(true))
	require.NoError(t, err)
	item.SetAgent(fullAgent())
	item.SetMarkCode(MarkGS1M, "019876543210123421sgEKKPPcS25y5")
	item.SetMarkQuantity(1, 4)
	item.AddSectoralItemProps("001", "01.01.2001", "170/21", "Ид1=Знач1")
	order.AddItem(item)

	got := order.Items()[0]
	assert.True(t, got.IsNeedNomenclatureCode)
	assert.Equal(t, AgentTypeAgent, got.AgentInfo.Type)
	assert.Equal(t, "Названиепоставщика", got.SupplierInfo.Name)
	assert.Equal(t, "019876543210123421sgEKKPPcS25y5", got.MarkCode["gs1m"])
	assert.Equal(t, 4, got.MarkQuantity.Denominator)
	assert.Len(t, got.SectoralItemProps, 1)
}

func TestOrderApplyDiscount(t *testing.T) {
	order := NewOrder("12")
	for _, price := range []string{"120.67", "113.54"} {
		item, err := NewOrderItem("Товар", dec(price), dec("1"))
		require.NoError(t, err)
		order.AddItem(item)
	}

	require.NoError(t, order.ApplyDiscount(dec("50")))

	items := order.Items()
	assert.Equal(t, "94.91", items[0].Total.StringFixed(2))
	assert.Equal(t, "89.30", items[1].Total.StringFixed(2))
}

func TestOrderApplyCorrectionPositions(t *testing.T) {
	order := NewOrder("12")
	item, err := NewOrderItem("Товар", dec("42.4"), dec("2"), ItemTotal(dec("84.5")))
	require.NoError(t, err)
	order.AddItem(item)

	order.ApplyCorrectionPositions()

	items := order.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "42.10", items[0].Price.StringFixed(2))
	assert.True(t, items[1].Quantity.Equal(dec("1")))
}

func TestOrderProps(t *testing.T) {
	order := NewOrder("12")
	order.SetAdditionalCheckProps("445334544")
	order.SetAdditionalUserProps("получатель", "Васильев")
	order.AddSectoralCheckProps("001", "01.01.2001", "170/21", "Ид1=Знач1")
	order.SetOperatingCheckProps("0", "Данные операции", "03.11.2020 12:05:31")

	s := order.Snapshot()
	assert.Equal(t, "445334544", s.AdditionalCheckProps)
	assert.Equal(t, "Васильев", s.AdditionalUserProps.Value)
	assert.Equal(t, "170/21", s.SectoralCheckProps[0].Number)
	assert.Equal(t, "03.11.2020 12:05:31", s.OperatingCheckProps.Timestamp)
}
