// Package service builds order summaries: the itemized, invoice-ready
// breakdown of one reservation's tickets, additional services, discount
// and subscription rows.
package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	additionalservicedomain "github.com/smallbiznis/ticketline/internal/additionalservice/domain"
	discountdomain "github.com/smallbiznis/ticketline/internal/discount/domain"
	eventdomain "github.com/smallbiznis/ticketline/internal/event/domain"
	pricingdomain "github.com/smallbiznis/ticketline/internal/pricing/domain"
	pricingservice "github.com/smallbiznis/ticketline/internal/pricing/service"
	reservationdomain "github.com/smallbiznis/ticketline/internal/reservation/domain"
	subscriptiondomain "github.com/smallbiznis/ticketline/internal/subscription/domain"
	summarydomain "github.com/smallbiznis/ticketline/internal/summary/domain"
	ticketdomain "github.com/smallbiznis/ticketline/internal/ticket/domain"
	"github.com/smallbiznis/ticketline/pkg/money"
)

// dynamicDiscountLabel is shown instead of the code for system-applied
// discounts, which must never expose their code to the purchaser.
const dynamicDiscountLabel = "Dynamic discount"

// ServiceWithItems bundles an additional service with its localized
// texts and the items purchased in the reservation being summarized.
type ServiceWithItems struct {
	Service additionalservicedomain.AdditionalService
	Texts   []additionalservicedomain.AdditionalServiceText
	Items   []additionalservicedomain.AdditionalServiceItem
}

// BuildInput is the immutable snapshot the generator works from. The
// orchestration layer resolves all storage lookups up front; Categories
// must contain every category referenced by Tickets.
type BuildInput struct {
	Reservation *reservationdomain.Reservation
	Context     eventdomain.PurchaseContext
	Categories  map[snowflake.ID]eventdomain.TicketCategory
	Tickets     []ticketdomain.Ticket
	Discount    *discountdomain.PromoCodeDiscount
	Services    []ServiceWithItems

	Subscriptions          []subscriptiondomain.Subscription
	SubscriptionDescriptor *subscriptiondomain.SubscriptionDescriptor
	// AppliedSubscription is set when pre-existing subscription value paid
	// for tickets; AppliedSubscriptionTitle carries its descriptor title.
	AppliedSubscription      *subscriptiondomain.Subscription
	AppliedSubscriptionTitle string

	TotalPrice pricingdomain.TotalPrice

	Locale        string
	DefaultLocale string
}

// Generator renders order summaries. It holds no mutable state, so one
// instance serves concurrent requests.
type Generator struct {
	log *zap.Logger
}

// NewGenerator constructs a summary generator.
func NewGenerator(log *zap.Logger) *Generator {
	return &Generator{log: log.Named("summary")}
}

type categoryGroup struct {
	category   eventdomain.TicketCategory
	containers []pricingdomain.PriceContainer
}

// Build produces the ordered summary rows for one reservation and pairs
// them with the already-computed total. The output is deterministic:
// identical input yields byte-identical rows on every call.
func (g *Generator) Build(in BuildInput) (summarydomain.OrderSummary, error) {
	currency := in.Reservation.Currency
	rows := make([]summarydomain.Row, 0, len(in.Tickets)+len(in.Services)+2)

	// One discount attribution shared by every row kind, so the rows can
	// never disagree with each other about which ticket absorbed what.
	containers, _ := pricingservice.WrapTickets(in.Tickets, in.Discount, currency)

	groups, err := g.groupTickets(in, containers)
	if err != nil {
		return summarydomain.OrderSummary{}, err
	}
	for _, grp := range groups {
		rows = append(rows, ticketRow(grp, currency))
		if grp.containers[0].VatStatus.Exempt() && grp.containers[0].VatStatus != in.Reservation.VatStatus {
			rows = append(rows, taxDetailRow(grp, currency))
		}
	}

	for _, svc := range in.Services {
		if len(svc.Items) == 0 {
			continue
		}
		rows = append(rows, g.serviceRow(svc, in.Locale, in.DefaultLocale, currency))
	}

	if in.Discount != nil {
		rows = append(rows, discountRow(in, containers, currency))
	}

	if in.Context.Type == eventdomain.ContextSubscription && in.SubscriptionDescriptor != nil {
		for _, sub := range in.Subscriptions {
			rows = append(rows, subscriptionRow(in.SubscriptionDescriptor.Title, sub, currency))
		}
	}
	if in.AppliedSubscription != nil {
		if row, ok := appliedSubscriptionRow(in, containers, currency); ok {
			rows = append(rows, row)
		}
	}

	return summarydomain.OrderSummary{Rows: rows, TotalPrice: in.TotalPrice}, nil
}

// groupTickets wraps tickets in price containers and groups them by
// category in first-seen order. When the reservation spans more than one
// VAT status, exempt groups are moved to the front so their tax-detail
// rows read as a block on the invoice.
func (g *Generator) groupTickets(in BuildInput, containers []pricingdomain.PriceContainer) ([]categoryGroup, error) {
	order := make([]snowflake.ID, 0, len(in.Tickets))
	byCategory := make(map[snowflake.ID]*categoryGroup, len(in.Tickets))
	statuses := make(map[pricingdomain.VatStatus]struct{})

	for i, t := range in.Tickets {
		grp, ok := byCategory[t.CategoryID]
		if !ok {
			category, found := in.Categories[t.CategoryID]
			if !found {
				return nil, fmt.Errorf("ticket category %d: %w", t.CategoryID, eventdomain.ErrCategoryNotFound)
			}
			grp = &categoryGroup{category: category}
			byCategory[t.CategoryID] = grp
			order = append(order, t.CategoryID)
		}
		grp.containers = append(grp.containers, containers[i])
		statuses[t.VatStatus] = struct{}{}
	}

	groups := make([]categoryGroup, 0, len(order))
	for _, id := range order {
		groups = append(groups, *byCategory[id])
	}
	if len(statuses) > 1 {
		sort.SliceStable(groups, func(i, j int) bool {
			return groups[i].containers[0].VatStatus.SortWeight() > groups[j].containers[0].VatStatus.SortWeight()
		})
	}
	return groups, nil
}

// ticketRow renders one category group. Amounts are the gross prices
// before discount, so a discount can be shown as its own row without
// double counting.
func ticketRow(grp categoryGroup, currency string) summarydomain.Row {
	var subTotal, subTotalVAT decimal.Decimal
	for _, c := range grp.containers {
		subTotal = subTotal.Add(c.SummarySourcePrice())
		subTotalVAT = subTotalVAT.Add(c.SummarySourceVAT())
	}
	unit := grp.containers[0]
	rawSubTotal := subTotal.Round(0).IntPart()
	rawBeforeVat := subTotal.Sub(subTotalVAT).Round(0).IntPart()

	return summarydomain.Row{
		Description:        grp.category.Name,
		UnitPrice:          money.FormatCents(unit.SummarySourceCents(), currency),
		UnitPriceBeforeVat: money.FormatCents(unit.SummarySourceCents()-unit.SummarySourceVATCents(), currency),
		Quantity:           len(grp.containers),
		SubTotal:           money.FormatCents(rawSubTotal, currency),
		SubTotalBeforeVat:  money.FormatCents(rawBeforeVat, currency),
		RawSubTotalCents:   rawSubTotal,
		Type:               summarydomain.RowTicket,
		VatStatus:          unit.VatStatus,
	}
}

// taxDetailRow is the zero-valued separator emitted after an exempt
// group whose status differs from the reservation's. It never
// contributes to totals.
func taxDetailRow(grp categoryGroup, currency string) summarydomain.Row {
	zero := money.FormatCentsStripZeroDecimals(0, currency)
	return summarydomain.Row{
		Description:        grp.category.Name,
		UnitPrice:          zero,
		UnitPriceBeforeVat: zero,
		Quantity:           len(grp.containers),
		SubTotal:           zero,
		SubTotalBeforeVat:  zero,
		RawSubTotalCents:   0,
		Type:               summarydomain.RowTaxDetail,
		VatStatus:          grp.containers[0].VatStatus,
	}
}

func (g *Generator) serviceRow(svc ServiceWithItems, locale, defaultLocale, currency string) summarydomain.Row {
	title, exact := additionalservicedomain.BestMatchingText(svc.Texts, additionalservicedomain.TextTypeTitle, locale, defaultLocale)
	description := ""
	if title != nil {
		description = title.Value
		if !exact {
			g.log.Debug("no exact locale match for additional service title",
				zap.Int64("additional_service_id", int64(svc.Service.ID)),
				zap.String("locale", locale),
				zap.String("used_locale", title.Locale),
			)
		}
	}

	var subTotal, subTotalVAT decimal.Decimal
	containers := make([]pricingdomain.PriceContainer, 0, len(svc.Items))
	for _, item := range svc.Items {
		c := pricingdomain.NewPriceContainer(
			pricingdomain.KindAdditionalServiceItem,
			item.SourcePriceCents,
			item.VatStatus,
			item.VatPercentage,
			0,
			currency,
		)
		containers = append(containers, c)
		subTotal = subTotal.Add(c.SummarySourcePrice())
		subTotalVAT = subTotalVAT.Add(c.SummarySourceVAT())
	}
	unit := containers[0]
	rawSubTotal := subTotal.Round(0).IntPart()
	rawBeforeVat := subTotal.Sub(subTotalVAT).Round(0).IntPart()

	return summarydomain.Row{
		Description:        description,
		UnitPrice:          money.FormatCents(unit.SummarySourceCents(), currency),
		UnitPriceBeforeVat: money.FormatCents(unit.SummarySourceCents()-unit.SummarySourceVATCents(), currency),
		Quantity:           len(containers),
		SubTotal:           money.FormatCents(rawSubTotal, currency),
		SubTotalBeforeVat:  money.FormatCents(rawBeforeVat, currency),
		RawSubTotalCents:   rawSubTotal,
		Type:               summarydomain.RowAdditionalService,
		VatStatus:          unit.VatStatus,
	}
}

// discountRow renders the promo-code (or dynamic) discount as a
// negative-signed row whose quantity is the applied count from the
// calculator. Its raw cents are the gross effect of the discount, VAT
// movement included: ticket rows carry pre-discount gross, so only the
// gross delta makes the rows reconcile with the payable total.
func discountRow(in BuildInput, containers []pricingdomain.PriceContainer, currency string) summarydomain.Row {
	d := in.Discount

	var unit string
	if d.EffectiveType() == discountdomain.TypePercentage {
		unit = fmt.Sprintf("-%d%%", d.Amount)
	} else {
		unit = "-" + money.FormatCents(d.Amount, currency)
	}

	var grossEffect decimal.Decimal
	for _, c := range containers {
		grossEffect = grossEffect.Add(c.SummarySourcePrice().Sub(c.GrossPrice()))
	}
	raw := -grossEffect.Round(0).IntPart()

	row := summarydomain.Row{
		UnitPrice:          unit,
		UnitPriceBeforeVat: unit,
		Quantity:           in.TotalPrice.DiscountAppliedCount,
		SubTotal:           money.FormatCents(raw, currency),
		SubTotalBeforeVat:  money.FormatCents(in.TotalPrice.DiscountCents, currency),
		RawSubTotalCents:   raw,
		VatStatus:          in.Reservation.VatStatus,
	}

	if d.Dynamic() {
		row.Description = dynamicDiscountLabel
		row.Type = summarydomain.RowDynamicDiscount
		return row
	}

	row.Description = discountDescription(d, in)
	row.Type = summarydomain.RowPromotionCode
	code := d.Code
	row.DiscountCode = &code
	return row
}

// discountDescription is the promo code, suffixed with the restricted
// category names when the discount only applied to some categories.
func discountDescription(d *discountdomain.PromoCodeDiscount, in BuildInput) string {
	if len(d.CategoryIDs) == 0 || in.TotalPrice.DiscountAppliedCount == 0 {
		return d.Code
	}
	names := make([]string, 0, len(d.CategoryIDs))
	for _, id := range d.CategoryIDs {
		if category, ok := in.Categories[id]; ok {
			names = append(names, category.Name)
		}
	}
	if len(names) == 0 {
		return d.Code
	}
	return fmt.Sprintf("%s (%s)", d.Code, strings.Join(names, ", "))
}

func subscriptionRow(title string, sub subscriptiondomain.Subscription, currency string) summarydomain.Row {
	c := pricingdomain.NewPriceContainer(
		pricingdomain.KindSubscription,
		sub.SourcePriceCents,
		sub.VatStatus,
		sub.VatPercentage,
		sub.DiscountCents,
		currency,
	)
	raw := c.SummarySourceCents()
	beforeVat := raw - c.SummarySourceVATCents()
	return summarydomain.Row{
		Description:        title,
		UnitPrice:          money.FormatCents(raw, currency),
		UnitPriceBeforeVat: money.FormatCents(beforeVat, currency),
		Quantity:           1,
		SubTotal:           money.FormatCents(raw, currency),
		SubTotalBeforeVat:  money.FormatCents(beforeVat, currency),
		RawSubTotalCents:   raw,
		Type:               summarydomain.RowSubscription,
		VatStatus:          sub.VatStatus,
	}
}

// appliedSubscriptionRow shows the ticket value covered by a
// pre-existing subscription as a negative amount. The covered value is
// the funded tickets' post-discount gross, the same amount the
// calculator excludes from the payable total. Returns false when no
// ticket was funded by the subscription.
func appliedSubscriptionRow(in BuildInput, containers []pricingdomain.PriceContainer, currency string) (summarydomain.Row, bool) {
	var covered decimal.Decimal
	for i, t := range in.Tickets {
		if t.SubscriptionID == nil || *t.SubscriptionID != in.AppliedSubscription.ID {
			continue
		}
		covered = covered.Add(containers[i].GrossPrice())
	}
	raw := covered.Round(0).IntPart()
	if raw == 0 {
		return summarydomain.Row{}, false
	}

	formatted := money.FormatCents(-raw, currency)
	return summarydomain.Row{
		Description:        in.AppliedSubscriptionTitle,
		UnitPrice:          formatted,
		UnitPriceBeforeVat: formatted,
		Quantity:           1,
		SubTotal:           formatted,
		SubTotalBeforeVat:  formatted,
		RawSubTotalCents:   -raw,
		Type:               summarydomain.RowAppliedSubscription,
		VatStatus:          in.Reservation.VatStatus,
	}, true
}
