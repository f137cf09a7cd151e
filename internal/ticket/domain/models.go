// Package domain contains the ticket line-item model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"

	pricingdomain "github.com/smallbiznis/ticketline/internal/pricing/domain"
)

// TicketStatus represents ticket lifecycle states.
type TicketStatus string

const (
	TicketStatusFree      TicketStatus = "FREE"
	TicketStatusPending   TicketStatus = "PENDING"
	TicketStatusAcquired  TicketStatus = "ACQUIRED"
	TicketStatusCancelled TicketStatus = "CANCELLED"
)

// Ticket is a single admission line item. VAT status and percentage are
// snapshotted from the purchase context at assignment time so repricing
// a stored reservation never depends on later configuration changes.
type Ticket struct {
	ID               snowflake.ID `gorm:"primaryKey"`
	EventID          snowflake.ID `gorm:"not null;index"`
	CategoryID       snowflake.ID `gorm:"not null;index"`
	ReservationID    *string      `gorm:"type:text;index"`
	Status           TicketStatus `gorm:"type:text;not null;default:'FREE'"`
	SourcePriceCents int64        `gorm:"column:src_price_cents;not null"`
	// DiscountCents is the discount attributed by the booking flow; the
	// calculator recomputes the applied discount from the discount record.
	DiscountCents int64                   `gorm:"column:discount_cents;not null;default:0"`
	VatStatus     pricingdomain.VatStatus `gorm:"column:vat_status;type:text;not null"`
	VatPercentage *decimal.Decimal        `gorm:"column:vat_percentage;type:numeric(5,2)"`
	Currency      string                  `gorm:"type:text;not null"`
	// SubscriptionID links a ticket funded by an applied subscription.
	SubscriptionID *snowflake.ID `gorm:"index"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Ticket) TableName() string { return "tickets" }
