package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestEngineMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewEngineMetrics(reg)

	m.ObserveTx("create_order", 150*time.Millisecond, nil)
	m.ObserveTx("create_order", 80*time.Millisecond, fmt.Errorf("rollback"))
	m.AddBackfillRows("migrated", 3)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got := counterValue(t, mfs, "order_tx_success_total", "op", "create_order"); got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}
	if got := counterValue(t, mfs, "order_tx_failure_total", "op", "create_order"); got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}
	if got := counterValue(t, mfs, "backfill_rows_total", "outcome", "migrated"); got != 3 {
		t.Fatalf("expected migrated=3, got %f", got)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var m *EngineMetrics
	m.ObserveTx("create_order", time.Second, nil)
	m.AddBackfillRows("skipped", 1)

	empty := NewEngineMetrics(nil)
	empty.ObserveTx("delete_order", time.Second, nil)
}

func counterValue(t *testing.T, mfs []*dto.MetricFamily, name, label, value string) float64 {
	t.Helper()
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if pair.GetName() == label && pair.GetValue() == value {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric %s{%s=%q} not found", name, label, value)
	return 0
}
