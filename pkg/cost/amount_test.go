package cost

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"3,500", "3500"},
		{"3500 元", "3500"},
		{" 1 200 ", "1200"},
		{"1，234.5", "1234.5"},
		{"", "0"},
		{"abc", "0"},
		{"-50", "0"},
		{"12.75", "12.75"},
		{"1e400", "0"},
		{"1e9999999", "0"},
		{"1.5E3", "0"},
		{"+50", "0"},
		{"1.", "0"},
		{"9999999999999999", "0"},
		{"999,999,999,999,999", "999999999999999"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAmount(tt.input).String())
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "3,500", FormatAmount(decimal.NewFromInt(3500)))
	assert.Equal(t, "0", FormatAmount(decimal.Zero))
	assert.Equal(t, "1,234,567", FormatAmount(decimal.NewFromInt(1234567)))
	assert.Equal(t, "120", FormatAmount(decimal.NewFromInt(120)))
	assert.Equal(t, "1,234.5", FormatAmount(decimal.RequireFromString("1234.5")))
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("住")
	assert.NoError(t, err)
	assert.Equal(t, CategoryLodging, c)

	_, err = ParseCategory("food")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}
