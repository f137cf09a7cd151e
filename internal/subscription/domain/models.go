// Package domain contains subscription models: the descriptor (a
// sellable purchase context of its own) and the subscription instances a
// reservation purchases or spends.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"

	eventdomain "github.com/smallbiznis/ticketline/internal/event/domain"
	pricingdomain "github.com/smallbiznis/ticketline/internal/pricing/domain"
)

// SubscriptionDescriptor defines a sellable subscription offering.
type SubscriptionDescriptor struct {
	ID            snowflake.ID            `gorm:"primaryKey"`
	Title         string                  `gorm:"type:text;not null"`
	Currency      string                  `gorm:"type:text;not null"`
	VatStatus     pricingdomain.VatStatus `gorm:"column:vat_status;type:text;not null"`
	VatPercentage *decimal.Decimal        `gorm:"column:vat_percentage;type:numeric(5,2)"`
	PriceCents    int64                   `gorm:"column:price_cents;not null"`
	CreatedAt     time.Time               `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (SubscriptionDescriptor) TableName() string { return "subscription_descriptors" }

// PurchaseContext returns the descriptor's pricing snapshot.
func (d *SubscriptionDescriptor) PurchaseContext() eventdomain.PurchaseContext {
	return eventdomain.PurchaseContext{
		Type:          eventdomain.ContextSubscription,
		Currency:      d.Currency,
		VatStatus:     d.VatStatus,
		VatPercentage: d.VatPercentage,
	}
}

// Subscription is a single subscription instance. When purchased it is a
// line item of its reservation; when applied it funds tickets of an
// event reservation instead. Price and VAT are snapshotted from the
// descriptor at purchase time.
type Subscription struct {
	ID               snowflake.ID            `gorm:"primaryKey"`
	DescriptorID     snowflake.ID            `gorm:"not null;index"`
	ReservationID    *string                 `gorm:"type:text;index"`
	SourcePriceCents int64                   `gorm:"column:src_price_cents;not null"`
	DiscountCents    int64                   `gorm:"column:discount_cents;not null;default:0"`
	VatStatus        pricingdomain.VatStatus `gorm:"column:vat_status;type:text;not null"`
	VatPercentage    *decimal.Decimal        `gorm:"column:vat_percentage;type:numeric(5,2)"`
	Currency         string                  `gorm:"type:text;not null"`
	CreatedAt        time.Time               `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }
