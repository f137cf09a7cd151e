package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func pct(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestPriceContainerVatNotIncluded(t *testing.T) {
	c := NewPriceContainer(KindTicket, 10000, VatNotIncluded, pct("8.00"), 0, "CHF")

	assert.Equal(t, int64(10000), c.NetPrice().IntPart())
	assert.Equal(t, int64(800), c.VATCents())
	assert.Equal(t, int64(10800), c.GrossCents())
}

func TestPriceContainerVatIncluded(t *testing.T) {
	c := NewPriceContainer(KindTicket, 12100, VatIncluded, pct("21.00"), 0, "EUR")

	// gross stays unchanged, VAT is a sub-component
	assert.Equal(t, int64(12100), c.GrossCents())
	assert.Equal(t, int64(2100), c.VATCents())
}

func TestPriceContainerIncludedExempt(t *testing.T) {
	c := NewPriceContainer(KindTicket, 12100, VatIncludedExempt, pct("21.00"), 0, "EUR")

	// VAT is nominally embedded but not added on top
	assert.Equal(t, int64(12100), c.GrossCents())
	assert.Equal(t, int64(2100), c.VATCents())
}

func TestPriceContainerUntaxed(t *testing.T) {
	for _, status := range []VatStatus{VatNone, VatNoneExempt} {
		c := NewPriceContainer(KindTicket, 5000, status, pct("8.00"), 0, "CHF")
		assert.True(t, c.VAT().IsZero(), "status %s", status)
		assert.Equal(t, int64(5000), c.GrossCents())
	}

	// no percentage configured means no VAT regardless of status
	c := NewPriceContainer(KindTicket, 5000, VatIncluded, nil, 0, "CHF")
	assert.True(t, c.VAT().IsZero())
	assert.Equal(t, int64(5000), c.GrossCents())
}

func TestPriceContainerDiscountClamp(t *testing.T) {
	c := NewPriceContainer(KindTicket, 1000, VatNone, nil, 5000, "EUR")
	assert.Equal(t, int64(1000), c.AppliedDiscountCents)
	assert.Equal(t, int64(0), c.GrossCents())

	c = NewPriceContainer(KindTicket, 1000, VatNone, nil, -20, "EUR")
	assert.Equal(t, int64(0), c.AppliedDiscountCents)
}

func TestPriceContainerSummarySourcePrice(t *testing.T) {
	c := NewPriceContainer(KindTicket, 10000, VatNotIncluded, pct("8.00"), 1000, "CHF")

	// totals use the post-discount gross
	assert.Equal(t, int64(9720), c.GrossCents())
	// the summary renders the pre-discount gross
	assert.Equal(t, int64(10800), c.SummarySourceCents())
	assert.Equal(t, int64(800), c.SummarySourceVATCents())
}

func TestVatStatusSortWeight(t *testing.T) {
	// exempt variants sort ahead of regular statuses
	assert.Greater(t, VatNoneExempt.SortWeight(), VatNotIncluded.SortWeight())
	assert.Greater(t, VatIncludedExempt.SortWeight(), VatIncluded.SortWeight())
	assert.Greater(t, VatIncluded.SortWeight(), VatNone.SortWeight())
}
