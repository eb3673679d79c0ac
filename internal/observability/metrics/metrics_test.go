package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveTransition(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLoyaltyMetrics(reg)

	m.ObserveTransition("admin", "authorized")
	m.ObserveTransition("admin", "authorized")
	m.ObserveTransition("clienta", "forbidden_transition")

	if got := testutil.ToFloat64(m.transitionsTotal.WithLabelValues("admin", "authorized")); got != 2 {
		t.Fatalf("expected 2 authorized admin transitions, got %v", got)
	}
	if got := testutil.ToFloat64(m.transitionsTotal.WithLabelValues("clienta", "forbidden_transition")); got != 1 {
		t.Fatalf("expected 1 rejected clienta transition, got %v", got)
	}
}

func TestObserveSettlement(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLoyaltyMetrics(reg)

	m.ObserveSettlement("applied")
	m.ObserveSettlement("conflict")

	if got := testutil.ToFloat64(m.settlementsTotal.WithLabelValues("applied")); got != 1 {
		t.Fatalf("expected 1 applied settlement, got %v", got)
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *LoyaltyMetrics
	m.ObserveTransition("admin", "authorized")
	m.ObserveSettlement("applied")
	m.ObserveReferral()
}
