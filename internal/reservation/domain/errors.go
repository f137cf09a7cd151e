package domain

import "errors"

var (
	ErrInvalidReservationID    = errors.New("invalid_reservation_id")
	ErrReservationNotFound     = errors.New("reservation_not_found")
	ErrPurchaseContextNotFound = errors.New("purchase_context_not_found")
	// ErrDiscountNotFound marks a reservation pointing at a discount
	// record that no longer resolves; that is a data-integrity problem,
	// not a soft no-op.
	ErrDiscountNotFound = errors.New("promo_code_discount_not_found")
)
