// Package domain contains the reservation model and the pricing service
// contract.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"

	pricingdomain "github.com/smallbiznis/ticketline/internal/pricing/domain"
)

// ReservationStatus represents reservation lifecycle states.
type ReservationStatus string

const (
	ReservationStatusPending          ReservationStatus = "PENDING"
	ReservationStatusInPayment        ReservationStatus = "IN_PAYMENT"
	ReservationStatusOfflinePayment   ReservationStatus = "OFFLINE_PAYMENT"
	ReservationStatusComplete         ReservationStatus = "COMPLETE"
	ReservationStatusCancelled        ReservationStatus = "CANCELLED"
	ReservationStatusCreditNoteIssued ReservationStatus = "CREDIT_NOTE_ISSUED"
)

// Reservation is one purchase attempt against a purchase context.
// Exactly one of EventID and SubscriptionDescriptorID is set.
type Reservation struct {
	ID                       string                  `gorm:"primaryKey;type:text"`
	Status                   ReservationStatus       `gorm:"type:text;not null;default:'PENDING'"`
	EventID                  *snowflake.ID           `gorm:"index"`
	SubscriptionDescriptorID *snowflake.ID           `gorm:"index"`
	VatStatus                pricingdomain.VatStatus `gorm:"column:vat_status;type:text;not null"`
	Currency                 string                  `gorm:"type:text;not null"`
	// PromoCodeDiscountID references the applied discount; the engine
	// reads it, never mutates it.
	PromoCodeDiscountID *snowflake.ID `gorm:"index"`
	PaymentMethod       *string       `gorm:"type:text"`
	CreatedAt           time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt           time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Reservation) TableName() string { return "reservations" }

// NewReservationID mints a reservation identifier.
func NewReservationID() string {
	return uuid.NewString()
}
