package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestOrderMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOrderMetrics(reg)
	m.Observe("accept", OutcomeSuccess, 250*time.Millisecond)
	m.Observe("accept", OutcomeRejected, 10*time.Millisecond)
	m.AddShortfall("accept", 2)
	m.AddShortfall("check", 0)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "painel_order_actions_total", "outcome", OutcomeSuccess); err != nil {
		t.Fatalf("fetch actions: %v", err)
	} else if got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "painel_stock_shortfall_total", "stage", "accept"); err != nil {
		t.Fatalf("fetch shortfall: %v", err)
	} else if got != 2 {
		t.Fatalf("expected shortfall=2, got %f", got)
	}
	if _, err := fetchCounterValue(mfs, "painel_stock_shortfall_total", "stage", "check"); err == nil {
		t.Fatalf("zero shortfall should not create a series")
	}

	if got, err := fetchHistogramSum(mfs, "painel_order_action_duration_seconds", "action", "accept"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0.25 {
		t.Fatalf("expected duration sum > 0.25, got %f", got)
	}
}

func TestOutboxMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOutboxMetrics(reg)
	m.Inc("order_accepted", "published")
	m.Inc("order_accepted", "published")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "painel_outbox_publish_total", "result", "published"); err != nil || got != 2 {
		t.Fatalf("expected published=2, got %f (%v)", got, err)
	}
}

func TestNilRecordersAreNoops(t *testing.T) {
	var orders *OrderMetrics
	orders.Observe("accept", OutcomeError, time.Second)
	orders.AddShortfall("accept", 1)
	NewOrderMetrics(nil).Observe("accept", OutcomeError, time.Second)

	var outbox *OutboxMetrics
	outbox.Inc("x", "y")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("counter %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
