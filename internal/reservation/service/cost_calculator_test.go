package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	additionalservicedomain "github.com/smallbiznis/ticketline/internal/additionalservice/domain"
	"github.com/smallbiznis/ticketline/internal/config"
	discountdomain "github.com/smallbiznis/ticketline/internal/discount/domain"
	eventdomain "github.com/smallbiznis/ticketline/internal/event/domain"
	pricingdomain "github.com/smallbiznis/ticketline/internal/pricing/domain"
	reservationdomain "github.com/smallbiznis/ticketline/internal/reservation/domain"
	subscriptiondomain "github.com/smallbiznis/ticketline/internal/subscription/domain"
	summarydomain "github.com/smallbiznis/ticketline/internal/summary/domain"
	summaryservice "github.com/smallbiznis/ticketline/internal/summary/service"
	ticketdomain "github.com/smallbiznis/ticketline/internal/ticket/domain"
)

func setupService(t *testing.T) (*gorm.DB, reservationdomain.Service, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&reservationdomain.Reservation{},
		&ticketdomain.Ticket{},
		&eventdomain.Event{},
		&eventdomain.TicketCategory{},
		&discountdomain.PromoCodeDiscount{},
		&additionalservicedomain.AdditionalService{},
		&additionalservicedomain.AdditionalServiceItem{},
		&additionalservicedomain.AdditionalServiceText{},
		&subscriptiondomain.Subscription{},
		&subscriptiondomain.SubscriptionDescriptor{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	logger := zap.NewNop()
	svc := NewService(ServiceParam{
		DB:        db,
		Log:       logger,
		Generator: summaryservice.NewGenerator(logger),
		Config:    config.Config{DefaultLocale: "en"},
	})
	return db, svc, node
}

func vatPct(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

type seeded struct {
	event       *eventdomain.Event
	category    *eventdomain.TicketCategory
	reservation *reservationdomain.Reservation
}

func seedEventReservation(t *testing.T, db *gorm.DB, node *snowflake.Node, ticketCount int) seeded {
	t.Helper()

	event := &eventdomain.Event{
		ID:            node.Generate(),
		ShortName:     fmt.Sprintf("conf-%s", t.Name()),
		DisplayName:   "Conference",
		Currency:      "EUR",
		VatStatus:     pricingdomain.VatNotIncluded,
		VatPercentage: vatPct("8"),
	}
	require.NoError(t, db.Create(event).Error)

	category := &eventdomain.TicketCategory{
		ID:         node.Generate(),
		EventID:    event.ID,
		Name:       "Standard",
		PriceCents: 10000,
	}
	require.NoError(t, db.Create(category).Error)

	eventID := event.ID
	reservation := &reservationdomain.Reservation{
		ID:        reservationdomain.NewReservationID(),
		Status:    reservationdomain.ReservationStatusPending,
		EventID:   &eventID,
		VatStatus: event.VatStatus,
		Currency:  event.Currency,
	}
	require.NoError(t, db.Create(reservation).Error)

	for i := 0; i < ticketCount; i++ {
		ticket := &ticketdomain.Ticket{
			ID:               node.Generate(),
			EventID:          event.ID,
			CategoryID:       category.ID,
			ReservationID:    &reservation.ID,
			Status:           ticketdomain.TicketStatusPending,
			SourcePriceCents: category.PriceCents,
			VatStatus:        event.VatStatus,
			VatPercentage:    event.VatPercentage,
			Currency:         event.Currency,
		}
		require.NoError(t, db.Create(ticket).Error)
	}
	return seeded{event: event, category: category, reservation: reservation}
}

func TestTotalCostPricesStoredReservation(t *testing.T) {
	db, svc, node := setupService(t)
	state := seedEventReservation(t, db, node, 2)

	total, discount, err := svc.TotalCost(context.Background(), state.reservation.ID)
	require.NoError(t, err)
	assert.Nil(t, discount)
	assert.Equal(t, int64(21600), total.PriceWithVATCents)
	assert.Equal(t, int64(1600), total.VATCents)
	assert.Equal(t, int64(0), total.DiscountCents)
	assert.Equal(t, "EUR", total.CurrencyCode)
}

func TestTotalCostRejectsMalformedID(t *testing.T) {
	_, svc, _ := setupService(t)

	_, _, err := svc.TotalCost(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, reservationdomain.ErrInvalidReservationID)
}

func TestTotalCostUnknownReservation(t *testing.T) {
	_, svc, _ := setupService(t)

	_, _, err := svc.TotalCost(context.Background(), reservationdomain.NewReservationID())
	assert.ErrorIs(t, err, reservationdomain.ErrReservationNotFound)
}

func TestTotalCostDanglingDiscountReference(t *testing.T) {
	db, svc, node := setupService(t)
	state := seedEventReservation(t, db, node, 1)

	missing := node.Generate()
	require.NoError(t, db.Model(state.reservation).Update("promo_code_discount_id", missing).Error)

	_, _, err := svc.TotalCost(context.Background(), state.reservation.ID)
	assert.ErrorIs(t, err, reservationdomain.ErrDiscountNotFound)
}

func TestTotalCostAppliesStoredDiscount(t *testing.T) {
	db, svc, node := setupService(t)
	state := seedEventReservation(t, db, node, 2)

	discount := &discountdomain.PromoCodeDiscount{
		ID:     node.Generate(),
		Code:   "TENPCT",
		Type:   discountdomain.TypePercentage,
		Amount: 10,
	}
	require.NoError(t, db.Create(discount).Error)
	require.NoError(t, db.Model(state.reservation).Update("promo_code_discount_id", discount.ID).Error)

	total, resolved, err := svc.TotalCost(context.Background(), state.reservation.ID)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, "TENPCT", resolved.Code)
	// 10% off 10000 net, 8% VAT on the 9000 remainder, per ticket.
	assert.Equal(t, int64(19440), total.PriceWithVATCents)
	assert.Equal(t, int64(-2000), total.DiscountCents)
	assert.Equal(t, 1, total.DiscountAppliedCount)
}

func TestCostForItemsMatchesTotalCost(t *testing.T) {
	db, svc, node := setupService(t)
	state := seedEventReservation(t, db, node, 2)

	var tickets []ticketdomain.Ticket
	require.NoError(t, db.Where("reservation_id = ?", state.reservation.ID).Order("id asc").Find(&tickets).Error)

	stored, _, err := svc.TotalCost(context.Background(), state.reservation.ID)
	require.NoError(t, err)

	explicit, _, err := svc.CostForItems(context.Background(), state.reservation, tickets, nil)
	require.NoError(t, err)
	assert.Equal(t, stored, explicit)
}

func TestOrderSummaryForStoredReservation(t *testing.T) {
	db, svc, node := setupService(t)
	state := seedEventReservation(t, db, node, 2)

	service := &additionalservicedomain.AdditionalService{
		ID:      node.Generate(),
		EventID: state.event.ID,
	}
	require.NoError(t, db.Create(service).Error)
	require.NoError(t, db.Create(&additionalservicedomain.AdditionalServiceText{
		ID:                  node.Generate(),
		AdditionalServiceID: service.ID,
		Locale:              "en",
		Type:                additionalservicedomain.TextTypeTitle,
		Value:               "Parking",
	}).Error)
	require.NoError(t, db.Create(&additionalservicedomain.AdditionalServiceItem{
		ID:                  node.Generate(),
		AdditionalServiceID: service.ID,
		ReservationID:       &state.reservation.ID,
		SourcePriceCents:    1500,
		VatStatus:           pricingdomain.VatNotIncluded,
		VatPercentage:       vatPct("8"),
		Currency:            "EUR",
	}).Error)

	summary, err := svc.OrderSummary(context.Background(), state.reservation.ID, "de")
	require.NoError(t, err)
	require.Len(t, summary.Rows, 2)

	assert.Equal(t, summarydomain.RowTicket, summary.Rows[0].Type)
	assert.Equal(t, "Standard", summary.Rows[0].Description)
	assert.Equal(t, 2, summary.Rows[0].Quantity)

	assert.Equal(t, summarydomain.RowAdditionalService, summary.Rows[1].Type)
	assert.Equal(t, "Parking", summary.Rows[1].Description)
	assert.Equal(t, "16.20", summary.Rows[1].SubTotal)

	assert.Equal(t, int64(23220), summary.TotalPrice.PriceWithVATCents)
}

func TestOrderSummaryIdempotent(t *testing.T) {
	db, svc, node := setupService(t)
	state := seedEventReservation(t, db, node, 3)

	first, err := svc.OrderSummary(context.Background(), state.reservation.ID, "en")
	require.NoError(t, err)
	second, err := svc.OrderSummary(context.Background(), state.reservation.ID, "en")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestOrderSummaryForSubscriptionReservation(t *testing.T) {
	db, svc, node := setupService(t)

	descriptor := &subscriptiondomain.SubscriptionDescriptor{
		ID:            node.Generate(),
		Title:         "Season pass",
		Currency:      "EUR",
		VatStatus:     pricingdomain.VatIncluded,
		VatPercentage: vatPct("25"),
		PriceCents:    5000,
	}
	require.NoError(t, db.Create(descriptor).Error)

	descriptorID := descriptor.ID
	reservation := &reservationdomain.Reservation{
		ID:                       reservationdomain.NewReservationID(),
		Status:                   reservationdomain.ReservationStatusPending,
		SubscriptionDescriptorID: &descriptorID,
		VatStatus:                descriptor.VatStatus,
		Currency:                 descriptor.Currency,
	}
	require.NoError(t, db.Create(reservation).Error)
	require.NoError(t, db.Create(&subscriptiondomain.Subscription{
		ID:               node.Generate(),
		DescriptorID:     descriptor.ID,
		ReservationID:    &reservation.ID,
		SourcePriceCents: descriptor.PriceCents,
		VatStatus:        descriptor.VatStatus,
		VatPercentage:    descriptor.VatPercentage,
		Currency:         descriptor.Currency,
	}).Error)

	summary, err := svc.OrderSummary(context.Background(), reservation.ID, "en")
	require.NoError(t, err)
	require.Len(t, summary.Rows, 1)
	assert.Equal(t, summarydomain.RowSubscription, summary.Rows[0].Type)
	assert.Equal(t, "Season pass", summary.Rows[0].Description)
	assert.Equal(t, int64(5000), summary.TotalPrice.PriceWithVATCents)
	assert.Equal(t, int64(1000), summary.TotalPrice.VATCents)
}
