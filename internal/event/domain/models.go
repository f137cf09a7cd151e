// Package domain contains purchase-context models: events, their ticket
// categories, and the pricing snapshot shared by every sellable context.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"

	pricingdomain "github.com/smallbiznis/ticketline/internal/pricing/domain"
)

// ContextType distinguishes the sellable entity a reservation belongs to.
type ContextType string

const (
	ContextEvent        ContextType = "event"
	ContextSubscription ContextType = "subscription"
)

// PurchaseContext is the immutable per-invocation pricing snapshot of the
// sellable entity a reservation belongs to. The pricing core never reads
// the backing record again once the snapshot is built.
type PurchaseContext struct {
	Type          ContextType
	Currency      string
	VatStatus     pricingdomain.VatStatus
	VatPercentage *decimal.Decimal
}

// Event is a sellable event and the default purchase context.
type Event struct {
	ID          snowflake.ID            `gorm:"primaryKey"`
	ShortName   string                  `gorm:"type:text;not null;uniqueIndex"`
	DisplayName string                  `gorm:"type:text;not null"`
	Currency    string                  `gorm:"type:text;not null"`
	VatStatus   pricingdomain.VatStatus `gorm:"column:vat_status;type:text;not null"`
	// VatPercentage is nil when the event charges no VAT.
	VatPercentage *decimal.Decimal `gorm:"column:vat_percentage;type:numeric(5,2)"`
	CreatedAt     time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Event) TableName() string { return "events" }

// PurchaseContext returns the event's pricing snapshot.
func (e *Event) PurchaseContext() PurchaseContext {
	return PurchaseContext{
		Type:          ContextEvent,
		Currency:      e.Currency,
		VatStatus:     e.VatStatus,
		VatPercentage: e.VatPercentage,
	}
}

// TicketCategory groups an event's tickets for pricing and summary
// display. The category name is required for summary row descriptions.
type TicketCategory struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	EventID    snowflake.ID `gorm:"not null;index"`
	Name       string       `gorm:"type:text;not null"`
	PriceCents int64        `gorm:"column:price_cents;not null"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (TicketCategory) TableName() string { return "ticket_categories" }
