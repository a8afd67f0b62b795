package money

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFixedScale(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"int", 10, "10"},
		{"int64", int64(-3), "-3"},
		{"float", 120.67, "120.67"},
		{"float rounds half to even down", 0.125, "0.12"},
		{"float rounds half to even up", 0.135, "0.14"},
		{"string", "42.405", "42.4"},
		{"string with spaces", " 84.5 ", "84.5"},
		{"json number", json.Number("1.005"), "1"},
		{"decimal", decimal.RequireFromString("2.675"), "2.68"},
		{"amount", MustParse("3.14159"), "3.14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToFixedScale(tt.input)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestToFixedScaleInvalid(t *testing.T) {
	for _, input := range []any{"abc", math.NaN(), math.Inf(1), struct{}{}, nil} {
		_, err := ToFixedScale(input)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidAmount)

		var amountErr *InvalidAmountError
		assert.ErrorAs(t, err, &amountErr)
	}
}

func TestRoundIsExactAtScale(t *testing.T) {
	d := Round(decimal.RequireFromString("10.999"))
	assert.Equal(t, "11", d.String())
	assert.Equal(t, int32(-2), Round(decimal.RequireFromString("1.234")).Exponent())
}

func TestSum(t *testing.T) {
	got := Sum(decimal.RequireFromString("42.10"), decimal.RequireFromString("42.40"))
	assert.True(t, got.Equal(decimal.RequireFromString("84.50")))
	assert.True(t, Sum().IsZero())
}

func TestAmountJSON(t *testing.T) {
	payload := struct {
		Sum Amount `json:"sum"`
	}{Sum: MustParse("42.40")}

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sum": 42.4}`, string(data))

	var decoded struct {
		Sum Amount `json:"sum"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"sum": "19.89"}`), &decoded))
	assert.Equal(t, "19.89", decoded.Sum.String())

	require.NoError(t, json.Unmarshal([]byte(`{"sum": 7500.0}`), &decoded))
	assert.True(t, decoded.Sum.Equal(decimal.NewFromInt(7500)))

	err = json.Unmarshal([]byte(`{"sum": "x"}`), &decoded)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
