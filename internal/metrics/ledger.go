package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics records request resolutions performed by the ledger engine.
type LedgerMetrics struct {
	resolutions *prometheus.CounterVec
	conflicts   *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	credited    prometheus.Counter
	debited     prometheus.Counter
}

// NewLedgerMetrics registers the ledger metrics on the provided registerer. A nil
// registerer yields a no-op recorder.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_resolutions_total",
		Help: "Request resolutions by kind, action and outcome.",
	}, []string{"kind", "action", "outcome"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_wallet_conflicts_total",
		Help: "Commits retried because the wallet version moved.",
	}, []string{"kind"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_resolution_duration_seconds",
		Help:    "Time spent resolving a request, including retries.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind", "action"})
	credited := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_credited_amount_total",
		Help: "Sum of amounts credited to wallets.",
	})
	debited := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_debited_amount_total",
		Help: "Sum of amounts debited from wallets.",
	})
	reg.MustRegister(resolutions, conflicts, duration, credited, debited)
	return &LedgerMetrics{
		resolutions: resolutions,
		conflicts:   conflicts,
		duration:    duration,
		credited:    credited,
		debited:     debited,
	}
}

// ObserveResolution counts one resolution attempt and its latency.
func (m *LedgerMetrics) ObserveResolution(kind, action, outcome string, elapsed time.Duration) {
	if m == nil || m.resolutions == nil {
		return
	}
	m.resolutions.WithLabelValues(normalizeLabel(kind), normalizeLabel(action), normalizeLabel(outcome)).Inc()
	m.duration.WithLabelValues(normalizeLabel(kind), normalizeLabel(action)).Observe(elapsed.Seconds())
}

// IncConflict counts a wallet version conflict.
func (m *LedgerMetrics) IncConflict(kind string) {
	if m == nil || m.conflicts == nil {
		return
	}
	m.conflicts.WithLabelValues(normalizeLabel(kind)).Inc()
}

// AddCredit adds a committed credit amount.
func (m *LedgerMetrics) AddCredit(amount int64) {
	if m == nil || m.credited == nil || amount <= 0 {
		return
	}
	m.credited.Add(float64(amount))
}

// AddDebit adds a committed debit amount.
func (m *LedgerMetrics) AddDebit(amount int64) {
	if m == nil || m.debited == nil || amount <= 0 {
		return
	}
	m.debited.Add(float64(amount))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
