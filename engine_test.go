package statview

import (
	"testing"

	"github.com/linchenxuan/statview/clock"
	"github.com/linchenxuan/statview/eventq"
	"github.com/linchenxuan/statview/stats"
	"github.com/linchenxuan/statview/tag"
	"github.com/linchenxuan/statview/view"
)

// 端到端: 注册视图、记录、排空队列、查询快照
func TestEngineRecordAndGet(t *testing.T) {
	clk := clock.NewTest()
	e, err := New(&Config{Clock: clk, Queue: eventq.NewSync()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer e.Stop()

	latency := stats.NewMeasure("rpc_latency", "RPC latency", "ms")
	clk.SetTime(clock.Timestamp{Seconds: 1, Nanos: 2})
	desc := view.NewDescriptor("rpc_latency_dist", "RPC latency distribution",
		latency, view.Distribution(10, 100), "method")
	if err := e.Views.Register(desc); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	ctx := tag.NewBuilder().Put("method", "GET").Build()
	e.Record(ctx, stats.NewMeasureMapBuilder().Set(latency, 5).Build())
	e.Record(ctx, stats.NewMeasureMapBuilder().Set(latency, 50).Build())
	e.Drain()

	clk.SetTime(clock.Timestamp{Seconds: 3, Nanos: 4})
	data, err := e.Views.Get("rpc_latency_dist")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if data.Start != (clock.Timestamp{Seconds: 1, Nanos: 2}) {
		t.Errorf("Unexpected start: %+v", data.Start)
	}
	if data.End != (clock.Timestamp{Seconds: 3, Nanos: 4}) {
		t.Errorf("Unexpected end: %+v", data.End)
	}
	if len(data.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(data.Rows))
	}
	row := data.Rows[0]
	if row.Stats.Count != 2 || row.Stats.Sum() != 55 {
		t.Errorf("Unexpected stats: count=%d sum=%v", row.Stats.Count, row.Stats.Sum())
	}
	if row.Stats.BucketCounts[0] != 1 || row.Stats.BucketCounts[1] != 1 || row.Stats.BucketCounts[2] != 0 {
		t.Errorf("Unexpected buckets: %v", row.Stats.BucketCounts)
	}
}

// 默认通道队列下Drain作为可见性屏障
func TestEngineDrainVisibility(t *testing.T) {
	e, err := New(nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer e.Stop()

	hits := stats.NewMeasure("hits", "hit count", "1")
	desc := view.NewDescriptor("hits_dist", "hit distribution", hits, view.Distribution(), "route")
	if err := e.Views.Register(desc); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	ctx := tag.NewBuilder().Put("route", "/a").Build()
	for i := 0; i < 500; i++ {
		e.Record(ctx, stats.NewMeasureMapBuilder().Set(hits, 1).Build())
	}
	e.Drain()

	data, err := e.Views.Get("hits_dist")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(data.Rows) != 1 || data.Rows[0].Stats.Count != 500 {
		t.Fatalf("Expected 500 recordings visible after Drain, got %+v", data.Rows)
	}
}

func TestEngineWithPrometheusExporter(t *testing.T) {
	e, err := New(&Config{
		Queue: eventq.NewSync(),
		Exporters: map[string]any{
			"prometheus": map[string]any{
				"listenAddr": "127.0.0.1:0",
			},
		},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := e.Exporters.Exporter("prometheus"); err != nil {
		t.Errorf("Prometheus exporter should be running: %v", err)
	}
	if err := e.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}

func TestEngineUnknownExporter(t *testing.T) {
	_, err := New(&Config{
		Exporters: map[string]any{"nope": map[string]any{}},
	})
	if err == nil {
		t.Error("Expected error for unknown exporter factory")
	}
}
