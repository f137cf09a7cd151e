package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAddVAT(t *testing.T) {
	cases := []struct {
		cents    int64
		vat      string
		expected int64
	}{
		{10000, "7.50", 10750},
		{10000, "8.00", 10800},
		{7407, "8.00", 8000},
		{370, "8.00", 400},
		{648, "8.00", 700},
		{10000, "7.99", 10799},
		{10000, "7.999", 10800},
		{10000, "21.00", 12100},
		{0, "21.00", 0},
	}
	for _, c := range cases {
		vat := decimal.RequireFromString(c.vat)
		assert.Equal(t, c.expected, AddVAT(c.cents, vat), "addVAT(%d, %s)", c.cents, c.vat)
	}
}

func TestExtractVAT(t *testing.T) {
	// 12100 gross at 21% embeds 2100 of VAT.
	assert.Equal(t, int64(2100), ExtractVAT(12100, decimal.NewFromInt(21)))
	// 10800 gross at 8% embeds 800 of VAT.
	assert.Equal(t, int64(800), ExtractVAT(10800, decimal.NewFromInt(8)))
	assert.Equal(t, int64(0), ExtractVAT(0, decimal.NewFromInt(8)))
}

func TestCentsToUnit(t *testing.T) {
	assert.Equal(t, "100.00", CentsToUnit(10000, "CHF").StringFixed(2))
	assert.Equal(t, "101", CentsToUnit(101, "JPY").String())
	assert.Equal(t, "101.000", CentsToUnit(101000, "BHD").StringFixed(3))
}

func TestUnitToCents(t *testing.T) {
	assert.Equal(t, int64(10000), UnitToCents(decimal.RequireFromString("100.00"), "CHF"))
	// half-up rounding on the third decimal
	assert.Equal(t, int64(10100), UnitToCents(decimal.RequireFromString("100.999"), "CHF"))
	// currency lookup is case-insensitive
	assert.Equal(t, int64(10100), UnitToCents(decimal.RequireFromString("100.999"), "chf"))
	assert.Equal(t, int64(101), UnitToCents(decimal.RequireFromString("101"), "JPY"))
	assert.Equal(t, int64(101000), UnitToCents(decimal.RequireFromString("101.000"), "BHD"))
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "1000", FormatCents(1000, "JPY"))
	assert.Equal(t, "10.00", FormatCents(1000, "EUR"))
	assert.Equal(t, "1.000", FormatCents(1000, "BHD"))
	assert.Equal(t, "-10.00", FormatCents(-1000, "EUR"))
}

func TestFormatCentsStripZeroDecimals(t *testing.T) {
	assert.Equal(t, "0", FormatCentsStripZeroDecimals(0, "EUR"))
	assert.Equal(t, "10", FormatCentsStripZeroDecimals(1000, "EUR"))
	assert.Equal(t, "10.50", FormatCentsStripZeroDecimals(1050, "EUR"))
}

func TestFractionDigitsFallback(t *testing.T) {
	assert.Equal(t, int32(2), FractionDigits("XXX"))
	assert.Equal(t, int32(0), FractionDigits("jpy"))
	assert.Equal(t, int32(3), FractionDigits(" BHD "))
}
