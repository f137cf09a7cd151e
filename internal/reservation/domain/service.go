package domain

import (
	"context"

	additionalservicedomain "github.com/smallbiznis/ticketline/internal/additionalservice/domain"
	discountdomain "github.com/smallbiznis/ticketline/internal/discount/domain"
	pricingdomain "github.com/smallbiznis/ticketline/internal/pricing/domain"
	summarydomain "github.com/smallbiznis/ticketline/internal/summary/domain"
	ticketdomain "github.com/smallbiznis/ticketline/internal/ticket/domain"
)

// Service prices reservations and builds their order summaries.
type Service interface {
	// TotalCost prices a stored reservation.
	TotalCost(ctx context.Context, reservationID string) (pricingdomain.TotalPrice, *discountdomain.PromoCodeDiscount, error)

	// CostForItems prices an explicit set of line items against the
	// reservation's context instead of the stored state, e.g. for credit
	// notes and partial cancellations. Given equivalent inputs it must
	// produce the same arithmetic as TotalCost.
	CostForItems(ctx context.Context, reservation *Reservation, tickets []ticketdomain.Ticket, items []additionalservicedomain.AdditionalServiceItem) (pricingdomain.TotalPrice, *discountdomain.PromoCodeDiscount, error)

	// OrderSummary builds the itemized breakdown of a stored reservation.
	OrderSummary(ctx context.Context, reservationID, locale string) (summarydomain.OrderSummary, error)
}
