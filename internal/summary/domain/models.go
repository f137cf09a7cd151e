// Package domain defines the display-oriented order summary: the
// itemized, invoice-ready breakdown of one reservation. Rows are
// generated fresh on every request and never persisted.
package domain

import (
	pricingdomain "github.com/smallbiznis/ticketline/internal/pricing/domain"
)

// RowType is the closed set of summary row kinds.
type RowType string

const (
	RowTicket              RowType = "TICKET"
	RowTaxDetail           RowType = "TAX_DETAIL"
	RowAdditionalService   RowType = "ADDITIONAL_SERVICE"
	RowPromotionCode       RowType = "PROMOTION_CODE"
	RowDynamicDiscount     RowType = "DYNAMIC_DISCOUNT"
	RowSubscription        RowType = "SUBSCRIPTION"
	RowAppliedSubscription RowType = "APPLIED_SUBSCRIPTION"
)

// Row is one line of the itemized reservation breakdown. Formatted
// amounts are rendering-ready strings; RawSubTotalCents is kept for
// downstream sorting and reconciliation against the reservation total.
type Row struct {
	Description        string
	UnitPrice          string
	UnitPriceBeforeVat string
	Quantity           int
	SubTotal           string
	SubTotalBeforeVat  string
	RawSubTotalCents   int64
	Type               RowType
	// DiscountCode is set on promotion rows only; dynamic discounts keep
	// their code hidden.
	DiscountCode *string
	VatStatus    pricingdomain.VatStatus
}

// OrderSummary bundles the ordered rows with the total they reconcile
// against. Callers must not re-sort the rows.
type OrderSummary struct {
	Rows       []Row
	TotalPrice pricingdomain.TotalPrice
}
