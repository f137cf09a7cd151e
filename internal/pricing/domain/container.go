package domain

import (
	"github.com/shopspring/decimal"

	"github.com/smallbiznis/ticketline/pkg/money"
)

// ItemKind tags the line-item variant wrapped by a PriceContainer.
type ItemKind string

const (
	KindTicket                ItemKind = "TICKET"
	KindAdditionalServiceItem ItemKind = "ADDITIONAL_SERVICE_ITEM"
	KindSubscription          ItemKind = "SUBSCRIPTION"
)

// PriceContainer is the uniform pricing view over any priceable line
// item. Net, VAT and gross amounts all derive from the same four fields,
// so the totals path and the summary path can never disagree about an
// item without re-querying storage.
type PriceContainer struct {
	Kind             ItemKind
	SourcePriceCents int64
	VatStatus        VatStatus
	// VatPercentage is nil when the item is not taxed.
	VatPercentage        *decimal.Decimal
	AppliedDiscountCents int64
	Currency             string
}

// NewPriceContainer builds a container, clamping the discount into
// [0, sourcePriceCents] so a per-item discount can never drive a price
// negative.
func NewPriceContainer(kind ItemKind, sourcePriceCents int64, status VatStatus, vatPercentage *decimal.Decimal, discountCents int64, currency string) PriceContainer {
	if discountCents > sourcePriceCents {
		discountCents = sourcePriceCents
	}
	if discountCents < 0 {
		discountCents = 0
	}
	return PriceContainer{
		Kind:                 kind,
		SourcePriceCents:     sourcePriceCents,
		VatStatus:            status,
		VatPercentage:        vatPercentage,
		AppliedDiscountCents: discountCents,
		Currency:             currency,
	}
}

// NetPrice is the discounted source price, before any VAT handling.
func (c PriceContainer) NetPrice() decimal.Decimal {
	return decimal.NewFromInt(c.SourcePriceCents - c.AppliedDiscountCents)
}

// VAT returns the item's VAT amount in exact minor units. For
// VAT-exclusive items the amount is charged on top; for VAT-inclusive
// items (including the included-exempt variant) it is the embedded
// sub-component of the same gross amount. Untaxed items and exempt items
// without a configured percentage yield zero.
func (c PriceContainer) VAT() decimal.Decimal {
	if c.VatPercentage == nil {
		return decimal.Zero
	}
	switch c.VatStatus {
	case VatNotIncluded:
		return money.VATAddedPortion(c.NetPrice(), *c.VatPercentage)
	case VatIncluded, VatIncludedExempt:
		return money.VATIncludedPortion(c.NetPrice(), *c.VatPercentage)
	default:
		return decimal.Zero
	}
}

// GrossPrice is the amount the item contributes to the reservation
// total: net plus VAT when VAT is charged on top, the unchanged net
// otherwise.
func (c PriceContainer) GrossPrice() decimal.Decimal {
	if c.VatStatus == VatNotIncluded && c.VatPercentage != nil {
		return c.NetPrice().Add(c.VAT())
	}
	return c.NetPrice()
}

// SummarySourcePrice is the gross price before the discount is deducted.
// Summary rows render at this price and show the discount as its own
// line.
func (c PriceContainer) SummarySourcePrice() decimal.Decimal {
	undiscounted := c
	undiscounted.AppliedDiscountCents = 0
	return undiscounted.GrossPrice()
}

// SummarySourceVAT is the VAT share of SummarySourcePrice.
func (c PriceContainer) SummarySourceVAT() decimal.Decimal {
	undiscounted := c
	undiscounted.AppliedDiscountCents = 0
	return undiscounted.VAT()
}

// GrossCents rounds the gross price half-up for per-item display.
func (c PriceContainer) GrossCents() int64 {
	return c.GrossPrice().Round(0).IntPart()
}

// VATCents rounds the VAT amount half-up for per-item display.
func (c PriceContainer) VATCents() int64 {
	return c.VAT().Round(0).IntPart()
}

// SummarySourceCents rounds the pre-discount gross half-up.
func (c PriceContainer) SummarySourceCents() int64 {
	return c.SummarySourcePrice().Round(0).IntPart()
}

// SummarySourceVATCents rounds the pre-discount VAT share half-up.
func (c PriceContainer) SummarySourceVATCents() int64 {
	return c.SummarySourceVAT().Round(0).IntPart()
}
