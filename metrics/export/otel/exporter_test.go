package otel

import (
	"context"
	"sync"
	"testing"

	ticketreg "github.com/ssoforge/ticketreg"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type fakeSource struct {
	mu       sync.RWMutex
	snapshot ticketreg.MetricsSnapshot
}

func (f *fakeSource) MetricsSnapshot() ticketreg.MetricsSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := ticketreg.MetricsSnapshot{
		Counters: make(map[ticketreg.MetricID]uint64, len(f.snapshot.Counters)),
	}
	for k, v := range f.snapshot.Counters {
		out.Counters[k] = v
	}
	return out
}

func TestExporterRegistersAndCollects(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("ticketreg-test")

	src := &fakeSource{
		snapshot: ticketreg.MetricsSnapshot{
			Counters: map[ticketreg.MetricID]uint64{
				ticketreg.MetricTicketsAdded:  3,
				ticketreg.MetricLazyEvictions: 1,
			},
		},
	}

	exp, err := NewOTelExporterFromSource(meter, src)
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}
	defer exp.Close()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	found := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				found[m.Name] = dp.Value
			}
		}
	}
	if found["ticketreg_tickets_added_total"] != 3 {
		t.Fatalf("tickets added = %d, want 3", found["ticketreg_tickets_added_total"])
	}
	if found["ticketreg_lazy_evictions_total"] != 1 {
		t.Fatalf("lazy evictions = %d, want 1", found["ticketreg_lazy_evictions_total"])
	}
}

func TestExporterRejectsNilInputs(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("ticketreg-test")

	if _, err := NewOTelExporterFromSource(nil, &fakeSource{}); err != ErrNilMeter {
		t.Fatalf("nil meter = %v, want ErrNilMeter", err)
	}
	if _, err := NewOTelExporterFromSource(meter, nil); err != ErrNilSource {
		t.Fatalf("nil source = %v, want ErrNilSource", err)
	}
	if _, err := NewOTelExporter(meter, nil); err != ErrNilSource {
		t.Fatalf("nil registry = %v, want ErrNilSource", err)
	}
}
