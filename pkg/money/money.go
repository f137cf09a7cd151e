// Package money provides integer-cents bookkeeping and currency-aware
// conversion, rounding and formatting. Amounts are always integer minor
// units; every conversion goes through shopspring/decimal so floating
// point never touches a price.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// defaultFractionDigits applies to any currency missing from the table.
// Unknown codes only affect formatting, never totals, so falling back is
// safer than failing.
const defaultFractionDigits = 2

var hundred = decimal.NewFromInt(100)

// fractionDigits lists ISO 4217 codes whose minor unit differs from the
// two-digit default. Unit conversion correctness depends on this table.
var fractionDigits = map[string]int32{
	// zero-decimal currencies
	"BIF": 0,
	"CLP": 0,
	"DJF": 0,
	"GNF": 0,
	"ISK": 0,
	"JPY": 0,
	"KMF": 0,
	"KRW": 0,
	"PYG": 0,
	"RWF": 0,
	"UGX": 0,
	"VND": 0,
	"VUV": 0,
	"XAF": 0,
	"XOF": 0,
	"XPF": 0,
	// three-decimal currencies
	"BHD": 3,
	"IQD": 3,
	"JOD": 3,
	"KWD": 3,
	"LYD": 3,
	"OMR": 3,
	"TND": 3,
}

// FractionDigits returns the number of minor-unit digits for a currency
// code. Lookup is case-insensitive and defaults to 2 for unknown codes.
func FractionDigits(currency string) int32 {
	if digits, ok := fractionDigits[strings.ToUpper(strings.TrimSpace(currency))]; ok {
		return digits
	}
	return defaultFractionDigits
}

// CentsToUnit converts minor units into a decimal amount carrying exactly
// the currency's fraction digits.
func CentsToUnit(cents int64, currency string) decimal.Decimal {
	return decimal.New(cents, -FractionDigits(currency))
}

// UnitToCents converts a decimal amount into minor units, rounding
// half-up to the nearest integer.
func UnitToCents(unit decimal.Decimal, currency string) int64 {
	return unit.Shift(FractionDigits(currency)).Round(0).IntPart()
}

// FormatCents renders minor units as a fixed-decimal string in the
// currency's fraction digits.
func FormatCents(cents int64, currency string) string {
	digits := FractionDigits(currency)
	return decimal.New(cents, -digits).StringFixed(digits)
}

// FormatCentsStripZeroDecimals renders like FormatCents but drops the
// decimals when the amount is a whole number, so zero-amount summary
// rows read "0" instead of "0.00".
func FormatCentsStripZeroDecimals(cents int64, currency string) string {
	amount := CentsToUnit(cents, currency)
	if amount.IsInteger() {
		return amount.StringFixed(0)
	}
	return amount.StringFixed(FractionDigits(currency))
}

// AddVAT adds vatPercentage on top of an amount in minor units and
// rounds half-up to the nearest integer.
func AddVAT(cents int64, vatPercentage decimal.Decimal) int64 {
	return decimal.NewFromInt(cents).
		Mul(hundred.Add(vatPercentage)).
		DivRound(hundred, 0).
		IntPart()
}

// ExtractVAT returns the rounded VAT sub-component embedded in a
// VAT-inclusive amount in minor units.
func ExtractVAT(grossCents int64, vatPercentage decimal.Decimal) int64 {
	return VATIncludedPortion(decimal.NewFromInt(grossCents), vatPercentage).
		Round(0).
		IntPart()
}

// VATAddedPortion returns the VAT charged on top of a net amount:
// net * p / 100. The result is exact; callers decide when to round.
func VATAddedPortion(net, vatPercentage decimal.Decimal) decimal.Decimal {
	return net.Mul(vatPercentage).Shift(-2)
}

// VATIncludedPortion returns the VAT sub-component of a VAT-inclusive
// gross amount: gross - gross / (1 + p/100). The division keeps the
// default decimal precision so reservation-level sums stay exact and a
// single rounding at the end is authoritative.
func VATIncludedPortion(gross, vatPercentage decimal.Decimal) decimal.Decimal {
	return gross.Sub(gross.Mul(hundred).Div(hundred.Add(vatPercentage)))
}
