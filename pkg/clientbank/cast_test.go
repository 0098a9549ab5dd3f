package clientbank

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountFromWire_Normalization(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "1234.56", "1234.56"},
		{"comma decimal mark", "1234,56", "1234.56"},
		{"space grouping", "1 234,56", "1234.56"},
		{"apostrophe grouping", "1'234.56", "1234.56"},
		{"period grouping comma mark", "1.234,56", "1234.56"},
		{"period grouping period mark", "1.234.567.89", "1234567.89"},
		{"negative", "-1 234,56", "-1234.56"},
		{"integral", "500", "500"},
		{"currency noise", "1 234,56 RUB", "1234.56"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := amountFromWire(tt.input)
			require.NoError(t, err)
			require.IsType(t, decimal.Decimal{}, v)
			assert.True(t, v.(decimal.Decimal).Equal(decimal.RequireFromString(tt.expected)),
				"got %s, want %s", v, tt.expected)
		})
	}
}

func TestAmountFromWire_ExactDecimal(t *testing.T) {
	// 0.1+0.2 style inputs must not pick up binary-float noise.
	v, err := amountFromWire("0.30")
	require.NoError(t, err)
	assert.Equal(t, "0.3", amountToWire(v))
}

func TestAmountFromWire_Empty(t *testing.T) {
	v, err := amountFromWire("")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestAmountFromWire_Malformed(t *testing.T) {
	// Non-empty text with no usable digits is malformed, not absent.
	for _, input := range []string{"--", "abc", "н/д", "..."} {
		_, err := amountFromWire(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestAmountToWire(t *testing.T) {
	assert.Equal(t, "1234.56", amountToWire(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "", amountToWire(nil))
	assert.Equal(t, "", amountToWire("not a decimal"))
}

func TestDateCasts(t *testing.T) {
	v, err := dateFromWire("10.02.2020")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 2, 10, 0, 0, 0, 0, time.UTC), v)
	assert.Equal(t, "10.02.2020", dateToWire(v))

	v, err = dateFromWire("  ")
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, "", dateToWire(nil))

	_, err = dateFromWire("2020-02-10")
	assert.Error(t, err)
}

func TestTimeCasts(t *testing.T) {
	v, err := timeFromWire("18:30:00")
	require.NoError(t, err)
	assert.Equal(t, "18:30:00", timeToWire(v))

	v, err = timeFromWire("")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = timeFromWire("6pm")
	assert.Error(t, err)
}

func TestTextCasts(t *testing.T) {
	v, err := textFromWire("  ООО Ромашка \r")
	require.NoError(t, err)
	assert.Equal(t, "ООО Ромашка", v)

	v, err = textFromWire("   ")
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.Equal(t, "", textToWire(nil))
	assert.Equal(t, "Ромашка", textToWire(" Ромашка "))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "amount", TypeAmount.String())
	assert.Equal(t, "flag", TypeFlag.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
