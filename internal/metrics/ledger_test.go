package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestLedgerMetricsRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLedgerMetrics(reg)

	m.ObserveResolution("submission", "approve", "approved", 5*time.Millisecond)
	m.ObserveResolution("submission", "approve", "approved", 5*time.Millisecond)
	m.ObserveResolution("withdrawal", "approve", "", time.Millisecond)
	m.IncConflict("withdrawal")
	m.AddCredit(1000)
	m.AddDebit(250)
	m.AddDebit(-5)

	if got := testutil.ToFloat64(m.resolutions.WithLabelValues("submission", "approve", "approved")); got != 2 {
		t.Fatalf("expected 2 approved submissions, got %v", got)
	}
	if got := testutil.ToFloat64(m.resolutions.WithLabelValues("withdrawal", "approve", "unknown")); got != 1 {
		t.Fatalf("expected empty outcome normalized to unknown, got %v", got)
	}
	if got := testutil.ToFloat64(m.conflicts.WithLabelValues("withdrawal")); got != 1 {
		t.Fatalf("expected 1 conflict, got %v", got)
	}
	if got := testutil.ToFloat64(m.credited); got != 1000 {
		t.Fatalf("expected credited 1000, got %v", got)
	}
	if got := testutil.ToFloat64(m.debited); got != 250 {
		t.Fatalf("expected debited 250, got %v", got)
	}
}

func TestLedgerMetricsNilSafe(t *testing.T) {
	var m *LedgerMetrics
	m.ObserveResolution("submission", "approve", "approved", time.Second)
	m.IncConflict("submission")
	m.AddCredit(10)

	noop := NewLedgerMetrics(nil)
	noop.ObserveResolution("submission", "reject", "rejected", time.Second)
	noop.AddDebit(10)
}
