package metrics

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("context_type", "event"),
		attribute.String("reservation_id", "7ad61a2a-29b7-4be2-a4b2-07f5c975e1a8"),
		attribute.String("currency", "EUR"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "context_type" && attrs[1].Key != "context_type" {
		t.Fatalf("expected context_type to be retained")
	}
	if attrs[0].Key != "currency" && attrs[1].Key != "currency" {
		t.Fatalf("expected currency to be retained")
	}
}
