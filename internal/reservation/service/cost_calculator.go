// Package service is the orchestration layer around the pricing core:
// it loads a reservation's stored state, resolves the purchase context
// and discount, and delegates the arithmetic to the pure calculator and
// summary generator.
package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	additionalservicedomain "github.com/smallbiznis/ticketline/internal/additionalservice/domain"
	"github.com/smallbiznis/ticketline/internal/config"
	discountdomain "github.com/smallbiznis/ticketline/internal/discount/domain"
	eventdomain "github.com/smallbiznis/ticketline/internal/event/domain"
	"github.com/smallbiznis/ticketline/internal/observability/metrics"
	pricingdomain "github.com/smallbiznis/ticketline/internal/pricing/domain"
	pricingservice "github.com/smallbiznis/ticketline/internal/pricing/service"
	reservationdomain "github.com/smallbiznis/ticketline/internal/reservation/domain"
	subscriptiondomain "github.com/smallbiznis/ticketline/internal/subscription/domain"
	summarydomain "github.com/smallbiznis/ticketline/internal/summary/domain"
	summaryservice "github.com/smallbiznis/ticketline/internal/summary/service"
	ticketdomain "github.com/smallbiznis/ticketline/internal/ticket/domain"
	"github.com/smallbiznis/ticketline/pkg/db/option"
	"github.com/smallbiznis/ticketline/pkg/repository"
)

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	generator *summaryservice.Generator
	cfg       config.Config
	metrics   *metrics.Metrics

	reservationRepo repository.Repository[reservationdomain.Reservation]
	ticketRepo      repository.Repository[ticketdomain.Ticket]
	itemRepo        repository.Repository[additionalservicedomain.AdditionalServiceItem]
	serviceRepo     repository.Repository[additionalservicedomain.AdditionalService]
	textRepo        repository.Repository[additionalservicedomain.AdditionalServiceText]
	eventRepo       repository.Repository[eventdomain.Event]
	categoryRepo    repository.Repository[eventdomain.TicketCategory]
	discountRepo    repository.Repository[discountdomain.PromoCodeDiscount]
	subRepo         repository.Repository[subscriptiondomain.Subscription]
	descriptorRepo  repository.Repository[subscriptiondomain.SubscriptionDescriptor]
}

type ServiceParam struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Generator *summaryservice.Generator
	Config    config.Config
	Metrics   *metrics.Metrics `optional:"true"`
}

func NewService(p ServiceParam) reservationdomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("reservation.service"),
		generator: p.Generator,
		cfg:       p.Config,
		metrics:   p.Metrics,

		reservationRepo: repository.ProvideStore[reservationdomain.Reservation](p.DB),
		ticketRepo:      repository.ProvideStore[ticketdomain.Ticket](p.DB),
		itemRepo:        repository.ProvideStore[additionalservicedomain.AdditionalServiceItem](p.DB),
		serviceRepo:     repository.ProvideStore[additionalservicedomain.AdditionalService](p.DB),
		textRepo:        repository.ProvideStore[additionalservicedomain.AdditionalServiceText](p.DB),
		eventRepo:       repository.ProvideStore[eventdomain.Event](p.DB),
		categoryRepo:    repository.ProvideStore[eventdomain.TicketCategory](p.DB),
		discountRepo:    repository.ProvideStore[discountdomain.PromoCodeDiscount](p.DB),
		subRepo:         repository.ProvideStore[subscriptiondomain.Subscription](p.DB),
		descriptorRepo:  repository.ProvideStore[subscriptiondomain.SubscriptionDescriptor](p.DB),
	}
}

// reservationState is the immutable snapshot priced by the calculator.
type reservationState struct {
	reservation *reservationdomain.Reservation
	tickets     []ticketdomain.Ticket
	items       []additionalservicedomain.AdditionalServiceItem
	subs        []subscriptiondomain.Subscription
	appliedSub  *subscriptiondomain.Subscription
	discount    *discountdomain.PromoCodeDiscount
}

func (s *Service) TotalCost(ctx context.Context, reservationID string) (pricingdomain.TotalPrice, *discountdomain.PromoCodeDiscount, error) {
	state, err := s.loadState(ctx, reservationID)
	if err != nil {
		return pricingdomain.TotalPrice{}, nil, err
	}
	return s.price(ctx, state)
}

func (s *Service) CostForItems(ctx context.Context, reservation *reservationdomain.Reservation, tickets []ticketdomain.Ticket, items []additionalservicedomain.AdditionalServiceItem) (pricingdomain.TotalPrice, *discountdomain.PromoCodeDiscount, error) {
	if reservation == nil {
		return pricingdomain.TotalPrice{}, nil, reservationdomain.ErrReservationNotFound
	}
	discount, err := s.resolveDiscount(ctx, reservation)
	if err != nil {
		return pricingdomain.TotalPrice{}, nil, err
	}
	subs, appliedSub, err := s.loadSubscriptions(ctx, reservation.ID, tickets)
	if err != nil {
		return pricingdomain.TotalPrice{}, nil, err
	}

	return s.price(ctx, &reservationState{
		reservation: reservation,
		tickets:     tickets,
		items:       items,
		subs:        subs,
		appliedSub:  appliedSub,
		discount:    discount,
	})
}

func (s *Service) OrderSummary(ctx context.Context, reservationID, locale string) (summarydomain.OrderSummary, error) {
	state, err := s.loadState(ctx, reservationID)
	if err != nil {
		return summarydomain.OrderSummary{}, err
	}

	priced := pricingservice.Calculate(pricingservice.Input{
		Reservation:         state.reservation,
		Discount:            state.discount,
		Tickets:             state.tickets,
		AdditionalItems:     state.items,
		Subscriptions:       state.subs,
		AppliedSubscription: state.appliedSub,
	})

	pctx, descriptor, err := s.resolveContext(ctx, state.reservation)
	if err != nil {
		return summarydomain.OrderSummary{}, err
	}
	categories, err := s.loadCategories(ctx, state.reservation)
	if err != nil {
		return summarydomain.OrderSummary{}, err
	}
	services, err := s.loadServices(ctx, state.items)
	if err != nil {
		return summarydomain.OrderSummary{}, err
	}

	appliedTitle := ""
	if state.appliedSub != nil {
		appliedDescriptor, err := s.descriptorRepo.FindOne(ctx, &subscriptiondomain.SubscriptionDescriptor{ID: state.appliedSub.DescriptorID})
		if err != nil {
			return summarydomain.OrderSummary{}, err
		}
		if appliedDescriptor != nil {
			appliedTitle = appliedDescriptor.Title
		}
	}

	summary, err := s.generator.Build(summaryservice.BuildInput{
		Reservation:              state.reservation,
		Context:                  pctx,
		Categories:               categories,
		Tickets:                  state.tickets,
		Discount:                 state.discount,
		Services:                 services,
		Subscriptions:            state.subs,
		SubscriptionDescriptor:   descriptor,
		AppliedSubscription:      state.appliedSub,
		AppliedSubscriptionTitle: appliedTitle,
		TotalPrice:               priced.TotalPrice,
		Locale:                   locale,
		DefaultLocale:            s.cfg.DefaultLocale,
	})
	if err != nil {
		return summarydomain.OrderSummary{}, err
	}

	s.metrics.RecordSummaryBuilt(ctx, string(pctx.Type))
	return summary, nil
}

func (s *Service) price(ctx context.Context, state *reservationState) (pricingdomain.TotalPrice, *discountdomain.PromoCodeDiscount, error) {
	priced := pricingservice.Calculate(pricingservice.Input{
		Reservation:         state.reservation,
		Discount:            state.discount,
		Tickets:             state.tickets,
		AdditionalItems:     state.items,
		Subscriptions:       state.subs,
		AppliedSubscription: state.appliedSub,
	})

	contextType := eventdomain.ContextEvent
	if state.reservation.SubscriptionDescriptorID != nil {
		contextType = eventdomain.ContextSubscription
	}
	s.metrics.RecordReservationPriced(ctx, string(contextType), state.reservation.Currency)
	if state.discount != nil && priced.TotalPrice.DiscountAppliedCount > 0 {
		s.metrics.RecordDiscountApplied(ctx, string(state.discount.EffectiveType()))
	}

	return priced.TotalPrice, priced.Discount, nil
}

func (s *Service) loadState(ctx context.Context, reservationID string) (*reservationState, error) {
	if _, err := uuid.Parse(reservationID); err != nil {
		return nil, reservationdomain.ErrInvalidReservationID
	}

	reservation, err := s.reservationRepo.FindOne(ctx, &reservationdomain.Reservation{ID: reservationID})
	if err != nil {
		return nil, err
	}
	if reservation == nil {
		return nil, reservationdomain.ErrReservationNotFound
	}

	tickets, err := s.ticketRepo.Find(ctx, &ticketdomain.Ticket{ReservationID: &reservationID}, option.WithOrder("id asc"))
	if err != nil {
		return nil, err
	}
	items, err := s.itemRepo.Find(ctx, &additionalservicedomain.AdditionalServiceItem{ReservationID: &reservationID}, option.WithOrder("id asc"))
	if err != nil {
		return nil, err
	}

	state := &reservationState{
		reservation: reservation,
		tickets:     deref(tickets),
		items:       deref(items),
	}
	state.subs, state.appliedSub, err = s.loadSubscriptions(ctx, reservationID, state.tickets)
	if err != nil {
		return nil, err
	}
	state.discount, err = s.resolveDiscount(ctx, reservation)
	if err != nil {
		return nil, err
	}
	return state, nil
}

// loadSubscriptions returns the subscriptions purchased in the
// reservation plus the pre-existing subscription funding tickets, when
// any ticket references one.
func (s *Service) loadSubscriptions(ctx context.Context, reservationID string, tickets []ticketdomain.Ticket) ([]subscriptiondomain.Subscription, *subscriptiondomain.Subscription, error) {
	purchased, err := s.subRepo.Find(ctx, &subscriptiondomain.Subscription{ReservationID: &reservationID}, option.WithOrder("id asc"))
	if err != nil {
		return nil, nil, err
	}

	var applied *subscriptiondomain.Subscription
	for _, t := range tickets {
		if t.SubscriptionID == nil {
			continue
		}
		applied, err = s.subRepo.FindOne(ctx, &subscriptiondomain.Subscription{ID: *t.SubscriptionID})
		if err != nil {
			return nil, nil, err
		}
		break
	}
	return deref(purchased), applied, nil
}

// resolveDiscount maps a dangling discount reference to
// ErrDiscountNotFound instead of silently pricing without it.
func (s *Service) resolveDiscount(ctx context.Context, reservation *reservationdomain.Reservation) (*discountdomain.PromoCodeDiscount, error) {
	if reservation.PromoCodeDiscountID == nil {
		return nil, nil
	}
	discount, err := s.discountRepo.FindOne(ctx, &discountdomain.PromoCodeDiscount{ID: *reservation.PromoCodeDiscountID})
	if err != nil {
		return nil, err
	}
	if discount == nil {
		return nil, reservationdomain.ErrDiscountNotFound
	}
	return discount, nil
}

func (s *Service) resolveContext(ctx context.Context, reservation *reservationdomain.Reservation) (eventdomain.PurchaseContext, *subscriptiondomain.SubscriptionDescriptor, error) {
	switch {
	case reservation.EventID != nil:
		event, err := s.eventRepo.FindOne(ctx, &eventdomain.Event{ID: *reservation.EventID})
		if err != nil {
			return eventdomain.PurchaseContext{}, nil, err
		}
		if event == nil {
			return eventdomain.PurchaseContext{}, nil, reservationdomain.ErrPurchaseContextNotFound
		}
		return event.PurchaseContext(), nil, nil
	case reservation.SubscriptionDescriptorID != nil:
		descriptor, err := s.descriptorRepo.FindOne(ctx, &subscriptiondomain.SubscriptionDescriptor{ID: *reservation.SubscriptionDescriptorID})
		if err != nil {
			return eventdomain.PurchaseContext{}, nil, err
		}
		if descriptor == nil {
			return eventdomain.PurchaseContext{}, nil, reservationdomain.ErrPurchaseContextNotFound
		}
		return descriptor.PurchaseContext(), descriptor, nil
	default:
		return eventdomain.PurchaseContext{}, nil, reservationdomain.ErrPurchaseContextNotFound
	}
}

// loadCategories builds the category lookup once per invocation so the
// generator never re-queries per ticket.
func (s *Service) loadCategories(ctx context.Context, reservation *reservationdomain.Reservation) (map[snowflake.ID]eventdomain.TicketCategory, error) {
	categories := make(map[snowflake.ID]eventdomain.TicketCategory)
	if reservation.EventID == nil {
		return categories, nil
	}
	found, err := s.categoryRepo.Find(ctx, &eventdomain.TicketCategory{EventID: *reservation.EventID}, option.WithOrder("id asc"))
	if err != nil {
		return nil, err
	}
	for _, c := range found {
		categories[c.ID] = *c
	}
	return categories, nil
}

// loadServices groups the reservation's purchased items under their
// additional service, together with the service's localized texts.
func (s *Service) loadServices(ctx context.Context, items []additionalservicedomain.AdditionalServiceItem) ([]summaryservice.ServiceWithItems, error) {
	if len(items) == 0 {
		return nil, nil
	}

	order := make([]snowflake.ID, 0, len(items))
	grouped := make(map[snowflake.ID][]additionalservicedomain.AdditionalServiceItem)
	for _, item := range items {
		if _, ok := grouped[item.AdditionalServiceID]; !ok {
			order = append(order, item.AdditionalServiceID)
		}
		grouped[item.AdditionalServiceID] = append(grouped[item.AdditionalServiceID], item)
	}

	services := make([]summaryservice.ServiceWithItems, 0, len(order))
	for _, id := range order {
		svc, err := s.serviceRepo.FindOne(ctx, &additionalservicedomain.AdditionalService{ID: id})
		if err != nil {
			return nil, err
		}
		if svc == nil {
			return nil, fmt.Errorf("additional service %d: %w", id, reservationdomain.ErrPurchaseContextNotFound)
		}
		texts, err := s.textRepo.Find(ctx, &additionalservicedomain.AdditionalServiceText{AdditionalServiceID: id}, option.WithOrder("id asc"))
		if err != nil {
			return nil, err
		}
		services = append(services, summaryservice.ServiceWithItems{
			Service: *svc,
			Texts:   deref(texts),
			Items:   grouped[id],
		})
	}
	return services, nil
}

func deref[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, *v)
	}
	return out
}
