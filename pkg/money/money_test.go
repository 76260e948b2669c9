package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		want Cents
	}{
		{"150,00", 15000},
		{"150.00", 15000},
		{"29,99", 2999},
		{"0,5", 50},
		{",5", 50},
		{",50", 50},
		{"100", 10000},
		{"7,", 700},
		{"0", 0},
	}
	for _, tt := range tests {
		got, err := Parse(tt.raw)
		require.NoError(t, err, "Parse(%q)", tt.raw)
		assert.Equal(t, tt.want, got, "Parse(%q)", tt.raw)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "  ", "1,2,3", "1,234", "-5", "abc", "12.345"} {
		_, err := Parse(raw)
		assert.Error(t, err, "Parse(%q) should fail", raw)
	}
}

func TestStringFixed(t *testing.T) {
	assert.Equal(t, "139.97", Cents(13997).StringFixed())
	assert.Equal(t, "0.00", Cents(0).StringFixed())
	assert.Equal(t, "10.03", Cents(1003).StringFixed())
}

func TestFromDecimalRoundTrip(t *testing.T) {
	d := decimal.RequireFromString("79.99")
	c := FromDecimal(d)
	assert.Equal(t, Cents(7999), c)
	assert.True(t, c.Decimal().Equal(d))
}

func TestFormatterAmount(t *testing.T) {
	f, err := NewFormatter("de-DE", "EUR")
	require.NoError(t, err)

	got := f.FormatAmount(Cents(13997))
	assert.Contains(t, got, "139,97")
	assert.Contains(t, got, "€")
}

func TestFormatterRejectsUnknownInputs(t *testing.T) {
	_, err := NewFormatter("zz-not-a-locale!", "EUR")
	assert.Error(t, err)

	_, err = NewFormatter("de-DE", "EURO")
	assert.Error(t, err)
}
