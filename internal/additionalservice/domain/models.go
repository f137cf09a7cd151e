// Package domain contains additional-service models: the service, its
// purchasable items, and its localized texts.
package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"

	pricingdomain "github.com/smallbiznis/ticketline/internal/pricing/domain"
)

// AdditionalService is an optional purchasable attached to an event
// (parking, donations, merchandise and the like).
type AdditionalService struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	EventID   snowflake.ID `gorm:"not null;index"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (AdditionalService) TableName() string { return "additional_services" }

// AdditionalServiceItem is one purchased unit of an additional service.
type AdditionalServiceItem struct {
	ID                  snowflake.ID            `gorm:"primaryKey"`
	AdditionalServiceID snowflake.ID            `gorm:"not null;index"`
	ReservationID       *string                 `gorm:"type:text;index"`
	SourcePriceCents    int64                   `gorm:"column:src_price_cents;not null"`
	DiscountCents       int64                   `gorm:"column:discount_cents;not null;default:0"`
	VatStatus           pricingdomain.VatStatus `gorm:"column:vat_status;type:text;not null"`
	VatPercentage       *decimal.Decimal        `gorm:"column:vat_percentage;type:numeric(5,2)"`
	Currency            string                  `gorm:"type:text;not null"`
	CreatedAt           time.Time               `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (AdditionalServiceItem) TableName() string { return "additional_service_items" }

// TextType distinguishes localized text kinds.
type TextType string

const (
	TextTypeTitle       TextType = "TITLE"
	TextTypeDescription TextType = "DESCRIPTION"
)

// AdditionalServiceText is one localized text of an additional service.
type AdditionalServiceText struct {
	ID                  snowflake.ID `gorm:"primaryKey"`
	AdditionalServiceID snowflake.ID `gorm:"not null;index"`
	Locale              string       `gorm:"type:text;not null"`
	Type                TextType     `gorm:"type:text;not null"`
	Value               string       `gorm:"type:text;not null"`
}

// TableName sets the database table name.
func (AdditionalServiceText) TableName() string { return "additional_service_texts" }

// BestMatchingText picks the text of the requested type for a locale,
// falling back to the default locale and finally to any text of that
// type. The boolean reports whether the requested locale matched
// exactly.
func BestMatchingText(texts []AdditionalServiceText, textType TextType, locale, defaultLocale string) (*AdditionalServiceText, bool) {
	var fallback, first *AdditionalServiceText
	for i := range texts {
		t := &texts[i]
		if t.Type != textType {
			continue
		}
		if strings.EqualFold(t.Locale, locale) {
			return t, true
		}
		if fallback == nil && strings.EqualFold(t.Locale, defaultLocale) {
			fallback = t
		}
		if first == nil {
			first = t
		}
	}
	if fallback != nil {
		return fallback, false
	}
	return first, false
}
