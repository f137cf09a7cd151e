// Package service implements the reservation price calculator: a pure
// aggregation of line-item price containers into a reservation-level
// total. It performs no I/O and keeps no state, so concurrent
// invocations need no coordination.
package service

import (
	"github.com/shopspring/decimal"

	additionalservicedomain "github.com/smallbiznis/ticketline/internal/additionalservice/domain"
	discountdomain "github.com/smallbiznis/ticketline/internal/discount/domain"
	pricingdomain "github.com/smallbiznis/ticketline/internal/pricing/domain"
	reservationdomain "github.com/smallbiznis/ticketline/internal/reservation/domain"
	subscriptiondomain "github.com/smallbiznis/ticketline/internal/subscription/domain"
	ticketdomain "github.com/smallbiznis/ticketline/internal/ticket/domain"
)

// Input carries one reservation's line items and discount. The
// calculator treats everything as an immutable snapshot.
type Input struct {
	Reservation     *reservationdomain.Reservation
	Discount        *discountdomain.PromoCodeDiscount
	Tickets         []ticketdomain.Ticket
	AdditionalItems []additionalservicedomain.AdditionalServiceItem
	Subscriptions   []subscriptiondomain.Subscription
	// AppliedSubscription is a pre-existing subscription spent on tickets
	// rather than purchased; the value it covers is excluded from the
	// payable total.
	AppliedSubscription *subscriptiondomain.Subscription
}

// Result pairs the computed total with the discount reference for
// downstream display.
type Result struct {
	TotalPrice pricingdomain.TotalPrice
	Discount   *discountdomain.PromoCodeDiscount
}

// Calculate aggregates all line items of one reservation into its
// authoritative total. Intermediate sums stay in exact decimal form; the
// single reservation-level rounding at the end is authoritative, so
// per-item rounding can never accumulate drift.
func Calculate(in Input) Result {
	currency := in.Reservation.Currency

	containers, discountedItems := WrapTickets(in.Tickets, in.Discount, currency)

	var covered decimal.Decimal
	if in.AppliedSubscription != nil {
		for i, t := range in.Tickets {
			if t.SubscriptionID != nil && *t.SubscriptionID == in.AppliedSubscription.ID {
				covered = covered.Add(containers[i].GrossPrice())
			}
		}
	}

	for _, item := range in.AdditionalItems {
		containers = append(containers, pricingdomain.NewPriceContainer(
			pricingdomain.KindAdditionalServiceItem,
			item.SourcePriceCents,
			item.VatStatus,
			item.VatPercentage,
			0,
			currency,
		))
	}
	for _, sub := range in.Subscriptions {
		containers = append(containers, pricingdomain.NewPriceContainer(
			pricingdomain.KindSubscription,
			sub.SourcePriceCents,
			sub.VatStatus,
			sub.VatPercentage,
			sub.DiscountCents,
			currency,
		))
	}

	var gross, vat, discountTotal decimal.Decimal
	for _, c := range containers {
		gross = gross.Add(c.GrossPrice())
		vat = vat.Add(c.VAT())
		discountTotal = discountTotal.Add(decimal.NewFromInt(c.AppliedDiscountCents))
	}

	payable := gross.Sub(covered)
	if payable.IsNegative() {
		payable = decimal.Zero
	}

	total := pricingdomain.TotalPrice{
		PriceWithVATCents:    payable.Round(0).IntPart(),
		VATCents:             vat.Round(0).IntPart(),
		DiscountCents:        -discountTotal.IntPart(),
		DiscountAppliedCount: discountAppliedCount(in.Discount, discountedItems),
		CurrencyCode:         currency,
	}
	return Result{TotalPrice: total, Discount: in.Discount}
}

// WrapTickets builds the price-container view of a reservation's
// tickets, attributing the discount per the application rules: fixed and
// percentage discounts hit every eligible item, reservation-level fixed
// discounts hit exactly one representative item. The returned count is
// the number of tickets carrying a non-zero discount.
func WrapTickets(tickets []ticketdomain.Ticket, discount *discountdomain.PromoCodeDiscount, currency string) ([]pricingdomain.PriceContainer, int) {
	containers := make([]pricingdomain.PriceContainer, 0, len(tickets))
	discounted := 0
	reservationDiscountPending := discount != nil && discount.Type == discountdomain.TypeFixedAmountReservation

	for _, t := range tickets {
		var applied int64
		if discount != nil && discount.AppliesToCategory(t.CategoryID) {
			if reservationDiscountPending {
				applied = min(discount.Amount, t.SourcePriceCents)
				reservationDiscountPending = false
			} else {
				applied = discount.AmountForItem(t.SourcePriceCents)
			}
		}

		c := pricingdomain.NewPriceContainer(
			pricingdomain.KindTicket,
			t.SourcePriceCents,
			t.VatStatus,
			t.VatPercentage,
			applied,
			currency,
		)
		if c.AppliedDiscountCents > 0 {
			discounted++
		}
		containers = append(containers, c)
	}
	return containers, discounted
}

// discountAppliedCount preserves the source system's display rule: a
// reservation-level discount always counts as one, fixed-amount
// discounts report the real number of discounted items, and percentage
// discounts collapse to a single aggregate row no matter how many items
// they touched.
func discountAppliedCount(discount *discountdomain.PromoCodeDiscount, discountedItems int) int {
	if discount == nil {
		return 0
	}
	if discount.Type == discountdomain.TypeFixedAmountReservation {
		return 1
	}
	if discountedItems <= 1 || discount.EffectiveType() == discountdomain.TypeFixedAmount {
		return discountedItems
	}
	return 1
}
