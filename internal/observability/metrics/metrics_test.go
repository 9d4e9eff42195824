package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveSubmission(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLeadMetrics(reg)

	m.ObserveSubmission("accepted")
	m.ObserveSubmission("accepted")
	m.ObserveSubmission("invalid")

	if got := testutil.ToFloat64(m.submissionsTotal.WithLabelValues("accepted")); got != 2 {
		t.Errorf("expected 2 accepted submissions, got %v", got)
	}
	if got := testutil.ToFloat64(m.submissionsTotal.WithLabelValues("invalid")); got != 1 {
		t.Errorf("expected 1 invalid submission, got %v", got)
	}
}

func TestObserveUpsert(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLeadMetrics(reg)

	m.ObserveUpsert("created")
	m.ObserveUpsert("updated")
	m.ObserveUpsert("updated")

	if got := testutil.ToFloat64(m.upsertsTotal.WithLabelValues("updated")); got != 2 {
		t.Errorf("expected 2 updates, got %v", got)
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *LeadMetrics
	m.ObserveSubmission("accepted")
	m.ObserveUpsert("created")
	m.ObserveHandlerLatency(0.1)
}
