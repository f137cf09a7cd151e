package domain

// TotalPrice is the authoritative reservation-level price. It is
// computed, never persisted, and regenerating it from the same inputs
// yields an identical value.
type TotalPrice struct {
	PriceWithVATCents int64
	VATCents          int64
	// DiscountCents holds the applied discount as a negative magnitude.
	DiscountCents int64
	// DiscountAppliedCount is the number of line items the discount was
	// counted against, for display purposes only.
	DiscountAppliedCount int
	CurrencyCode         string
}

// RequiresPayment reports whether anything is left to pay.
func (t TotalPrice) RequiresPayment() bool {
	return t.PriceWithVATCents > 0
}

// Free reports whether the reservation amounts to nothing.
func (t TotalPrice) Free() bool {
	return t.PriceWithVATCents == 0
}
