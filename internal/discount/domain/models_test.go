package domain

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestAmountForItemFixedAmount(t *testing.T) {
	d := &PromoCodeDiscount{Type: TypeFixedAmount, Amount: 100}

	assert.Equal(t, int64(100), d.AmountForItem(1000))
	// never exceed the item price
	assert.Equal(t, int64(50), d.AmountForItem(50))
}

func TestAmountForItemPercentage(t *testing.T) {
	d := &PromoCodeDiscount{Type: TypePercentage, Amount: 10}

	assert.Equal(t, int64(100), d.AmountForItem(1000))
	// half-up rounding: 10% of 1005 is 100.5
	assert.Equal(t, int64(101), d.AmountForItem(1005))
	assert.Equal(t, int64(0), d.AmountForItem(0))
}

func TestAmountForItemReservationLevel(t *testing.T) {
	d := &PromoCodeDiscount{Type: TypeFixedAmountReservation, Amount: 100}

	// reservation-level discounts are attributed by the calculator, not
	// per item
	assert.Equal(t, int64(0), d.AmountForItem(1000))
}

func TestEffectiveTypeDynamic(t *testing.T) {
	fixed := TypeFixedAmount
	d := &PromoCodeDiscount{Type: TypeDynamic, SubType: &fixed, Amount: 200}
	assert.Equal(t, TypeFixedAmount, d.EffectiveType())
	assert.Equal(t, int64(200), d.AmountForItem(1000))
	assert.True(t, d.Dynamic())

	d = &PromoCodeDiscount{Type: TypeDynamic, Amount: 25}
	assert.Equal(t, TypePercentage, d.EffectiveType())
	assert.Equal(t, int64(250), d.AmountForItem(1000))
}

func TestAppliesToCategory(t *testing.T) {
	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)
	catA := node.Generate()
	catB := node.Generate()
	catC := node.Generate()

	unrestricted := &PromoCodeDiscount{Type: TypePercentage, Amount: 10}
	assert.True(t, unrestricted.AppliesToCategory(catA))

	restricted := &PromoCodeDiscount{
		Type:        TypePercentage,
		Amount:      10,
		CategoryIDs: datatypes.JSONSlice[snowflake.ID]{catA, catB},
	}
	assert.True(t, restricted.AppliesToCategory(catA))
	assert.True(t, restricted.AppliesToCategory(catB))
	assert.False(t, restricted.AppliesToCategory(catC))
}
