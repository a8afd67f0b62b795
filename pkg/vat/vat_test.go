package vat

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input any
		want  Rate
	}{
		{"no", RateNo},
		{0, Rate0},
		{0.18, Rate20},
		{0.2, Rate20},
		{0.20, Rate20},
		{10, Rate10},
		{10.0, Rate10},
		{18, Rate20},
		{20, Rate20},
		{20.0, Rate20},
		{"10%", Rate10},
		{"18%", Rate20},
		{"20%", Rate20},
		{"0", Rate0},
		{"0.18", Rate20},
		{"0.20", Rate20},
		{"110", Rate110},
		{"118", Rate120},
		{"10/110", Rate110},
		{"18/118", Rate120},
		{"20/120", Rate120},
		{decimal.RequireFromString("0.20"), Rate20},
		{Rate110, Rate110},
		{decimal.NewFromInt(0), Rate0},
		{decimal.NewFromInt(118), Rate120},
		{float64(0), Rate0},
		{float64(18), Rate20},
		{float64(118), Rate120},
		{float32(110), Rate110},
		{int8(10), Rate10},
		{int16(10), Rate10},
		{uint8(0), Rate0},
		{uint16(20), Rate20},
		{uint32(110), Rate110},
		{uint64(120), Rate120},
		{json.Number("18"), Rate20},
		{json.Number("0.2"), Rate20},
	}

	for _, tt := range tests {
		got, err := Parse(tt.input)
		require.NoError(t, err, "input %#v", tt.input)
		assert.Equal(t, tt.want, got, "input %#v", tt.input)
	}
}

func TestParseCanonicalIsIdempotent(t *testing.T) {
	for _, code := range Default.Rates {
		got, err := Parse(string(code))
		require.NoError(t, err)
		assert.Equal(t, code, got)

		again, err := Parse(got)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	}
}

func TestParseAliases(t *testing.T) {
	assert.Equal(t, MustParse("20"), MustParse("18"))
	assert.Equal(t, MustParse("20/120"), MustParse("18/118"))
	assert.Equal(t, MustParse("20"), MustParse(0.20))
	assert.Equal(t, MustParse("20"), MustParse("20%"))
}

func TestParseUnknown(t *testing.T) {
	_, err := Parse("unknown")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownRate)
	assert.EqualError(t, err, "Unknown VAT rate: unknown")

	var rateErr *UnknownRateError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, "unknown", rateErr.Raw)

	_, err = Parse(struct{}{})
	assert.ErrorIs(t, err, ErrUnknownRate)
}

func TestLegacyTable(t *testing.T) {
	legacy := NewParser(Legacy)

	got, err := legacy.Parse("18%")
	require.NoError(t, err)
	assert.Equal(t, Rate18, got)

	got, err = legacy.Parse("18/118")
	require.NoError(t, err)
	assert.Equal(t, Rate118, got)

	_, err = legacy.Parse("20")
	assert.ErrorIs(t, err, ErrUnknownRate)
}

func TestCustomTable(t *testing.T) {
	p := NewParser(Table{
		Rates:   []Rate{RateNo, "5"},
		Aliases: map[string]Rate{"five": "5"},
	})

	got, err := p.Parse("five")
	require.NoError(t, err)
	assert.Equal(t, Rate("5"), got)
	assert.ElementsMatch(t, []Rate{RateNo, "5"}, p.Rates())
}
