// Package domain contains the promotional discount model and its
// per-item application rules. The pricing engine is a read-only consumer
// of these records.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// DiscountType is the closed set of discount strategies.
type DiscountType string

const (
	// TypeFixedAmount subtracts a fixed cents value from each eligible item.
	TypeFixedAmount DiscountType = "FIXED_AMOUNT"
	// TypeFixedAmountReservation subtracts a fixed cents value exactly once
	// from the reservation total.
	TypeFixedAmountReservation DiscountType = "FIXED_AMOUNT_RESERVATION"
	// TypePercentage subtracts an integer percentage from each eligible item.
	TypePercentage DiscountType = "PERCENTAGE"
	// TypeDynamic is a server-side discount whose code must never reach the
	// purchaser; arithmetically it behaves like its configured sub-type.
	TypeDynamic DiscountType = "DYNAMIC"
)

var hundred = decimal.NewFromInt(100)

// PromoCodeDiscount is a promotional or dynamic discount definition.
type PromoCodeDiscount struct {
	ID      snowflake.ID  `gorm:"primaryKey"`
	EventID *snowflake.ID `gorm:"index"`
	Code    string        `gorm:"type:text;not null"`
	Type    DiscountType  `gorm:"column:discount_type;type:text;not null"`
	// SubType resolves the arithmetic of DYNAMIC discounts; nil otherwise.
	SubType *DiscountType `gorm:"column:discount_sub_type;type:text"`
	// Amount is integer cents for fixed types and an integer percentage in
	// [0, 100] for percentage types.
	Amount int64 `gorm:"column:discount_amount;not null"`
	// CategoryIDs restricts the discount to the listed ticket categories.
	// An empty set applies to all categories.
	CategoryIDs datatypes.JSONSlice[snowflake.ID] `gorm:"type:jsonb"`
	CreatedAt   time.Time                         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (PromoCodeDiscount) TableName() string { return "promo_code_discounts" }

// Dynamic reports whether the code must stay hidden from the purchaser.
func (d *PromoCodeDiscount) Dynamic() bool {
	return d.Type == TypeDynamic
}

// EffectiveType resolves DYNAMIC to its configured arithmetic sub-type.
// A dynamic discount without a sub-type defaults to percentage semantics.
func (d *PromoCodeDiscount) EffectiveType() DiscountType {
	if d.Type != TypeDynamic {
		return d.Type
	}
	if d.SubType != nil {
		return *d.SubType
	}
	return TypePercentage
}

// AppliesToCategory reports whether the discount targets the category.
// An empty restriction set applies to everything; IDs that match none of
// a reservation's items make the discount a soft no-op, not an error.
func (d *PromoCodeDiscount) AppliesToCategory(categoryID snowflake.ID) bool {
	if len(d.CategoryIDs) == 0 {
		return true
	}
	for _, id := range d.CategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}

// AmountForItem computes the per-item discount in cents, clamped at the
// item price. Reservation-level fixed discounts contribute nothing per
// item; the calculator attributes them once to a representative item.
func (d *PromoCodeDiscount) AmountForItem(priceCents int64) int64 {
	switch d.EffectiveType() {
	case TypeFixedAmount:
		return min(d.Amount, priceCents)
	case TypePercentage:
		cut := decimal.NewFromInt(priceCents).
			Mul(decimal.NewFromInt(d.Amount)).
			DivRound(hundred, 0).
			IntPart()
		return min(cut, priceCents)
	default:
		return 0
	}
}
