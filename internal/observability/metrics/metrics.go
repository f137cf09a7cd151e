package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	reservationsPriced metric.Int64Counter
	summariesBuilt     metric.Int64Counter
	discountsApplied   metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "ticketline"
	}
	meter := provider.Meter(name)

	reservationsPriced, err := meter.Int64Counter("ticketline_reservations_priced_total")
	if err != nil {
		return nil, err
	}
	summariesBuilt, err := meter.Int64Counter("ticketline_summaries_built_total")
	if err != nil {
		return nil, err
	}
	discountsApplied, err := meter.Int64Counter("ticketline_discounts_applied_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		reservationsPriced: reservationsPriced,
		summariesBuilt:     summariesBuilt,
		discountsApplied:   discountsApplied,
	}, nil
}

// RecordReservationPriced increments priced reservation counts.
func (m *Metrics) RecordReservationPriced(ctx context.Context, contextType, currency string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("context_type", strings.TrimSpace(contextType)),
		attribute.String("currency", strings.TrimSpace(currency)),
	)
	m.reservationsPriced.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordSummaryBuilt increments order summary build counts.
func (m *Metrics) RecordSummaryBuilt(ctx context.Context, contextType string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("context_type", strings.TrimSpace(contextType)))
	m.summariesBuilt.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordDiscountApplied increments applied discount counts.
func (m *Metrics) RecordDiscountApplied(ctx context.Context, discountType string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("discount_type", strings.TrimSpace(discountType)))
	m.discountsApplied.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"context_type":  {},
	"currency":      {},
	"discount_type": {},
	"reason":        {},
	"status_code":   {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
