package metrics

import "github.com/prometheus/client_golang/prometheus"

// LoyaltyMetrics exposes counters for the appointment lifecycle and the
// points ledger.
type LoyaltyMetrics struct {
	transitionsTotal *prometheus.CounterVec
	settlementsTotal *prometheus.CounterVec
	referralsTotal   prometheus.Counter
}

func NewLoyaltyMetrics(reg prometheus.Registerer) *LoyaltyMetrics {
	m := &LoyaltyMetrics{
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "loyalty",
			Subsystem: "appointments",
			Name:      "transitions_total",
			Help:      "Transition decisions by actor role and result",
		}, []string{"role", "result"}),
		settlementsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "loyalty",
			Subsystem: "appointments",
			Name:      "settlements_total",
			Help:      "Point settlements by outcome",
		}, []string{"outcome"}),
		referralsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "loyalty",
			Subsystem: "referrals",
			Name:      "created_total",
			Help:      "Referral bonuses credited",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.transitionsTotal, m.settlementsTotal, m.referralsTotal)
	return m
}

func (m *LoyaltyMetrics) ObserveTransition(role, result string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(role, result).Inc()
}

func (m *LoyaltyMetrics) ObserveSettlement(outcome string) {
	if m == nil {
		return
	}
	m.settlementsTotal.WithLabelValues(outcome).Inc()
}

func (m *LoyaltyMetrics) ObserveReferral() {
	if m == nil {
		return
	}
	m.referralsTotal.Inc()
}
