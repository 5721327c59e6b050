package remotewrite

import (
	"testing"

	"github.com/linchenxuan/statview/clock"
	"github.com/linchenxuan/statview/eventq"
	"github.com/linchenxuan/statview/stats"
	"github.com/linchenxuan/statview/tag"
	"github.com/linchenxuan/statview/view"
)

func TestNewRequiresURL(t *testing.T) {
	if _, err := New(&Config{}, nil, nil); err == nil {
		t.Error("Expected error for missing url")
	}
}

// 测试快照到时序数据的转换
func TestConvert(t *testing.T) {
	clk := clock.NewTest()
	views := view.NewManager(clk, nil)
	rec := stats.NewRecorder(eventq.NewSync(), clk, views)

	latency := stats.NewMeasure("rpc_latency", "RPC latency", "ms")
	desc := view.NewDescriptor("rpc_latency_dist", "RPC latency distribution",
		latency, view.Distribution(2, 4), "method")
	if err := views.Register(desc); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	ctx := tag.NewBuilder().Put("method", "GET").Build()
	for _, v := range []float64{1, 2, 3} {
		rec.Record(ctx, stats.NewMeasureMapBuilder().Set(latency, v).Build())
	}
	clk.SetTime(clock.Timestamp{Seconds: 100})
	data, err := views.Get("rpc_latency_dist")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	x, err := New(&Config{URL: "http://127.0.0.1:9090/api/v1/write", Namespace: "svc"}, views, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	series := x.convert(data)

	// count/sum/mean + 两个桶
	if len(series) != 5 {
		t.Fatalf("Expected 5 series, got %d", len(series))
	}
	byName := map[string][]float64{}
	for _, ts := range series {
		var name, le, method string
		for _, l := range ts.Labels {
			switch l.Name {
			case "__name__":
				name = l.Value
			case "le":
				le = l.Value
			case "method":
				method = l.Value
			}
		}
		if method != "GET" {
			t.Errorf("Series %s missing method label: %+v", name, ts.Labels)
		}
		if !ts.Sample.Time.Equal(data.End.Time()) {
			t.Errorf("Series %s sample time %v, want %v", name, ts.Sample.Time, data.End.Time())
		}
		key := name
		if le != "" {
			key = name + ":" + le
		}
		byName[key] = append(byName[key], ts.Sample.Value)
	}

	checks := map[string]float64{
		"svc_rpc_latency_dist_count":    3,
		"svc_rpc_latency_dist_sum":      6,
		"svc_rpc_latency_dist_mean":     2,
		"svc_rpc_latency_dist_bucket:2": 1,
		"svc_rpc_latency_dist_bucket:4": 3,
	}
	for key, want := range checks {
		vals, ok := byName[key]
		if !ok || len(vals) != 1 {
			t.Errorf("Missing or duplicated series %q: %v", key, vals)
			continue
		}
		if vals[0] != want {
			t.Errorf("Series %q: expected %v, got %v", key, want, vals[0])
		}
	}
}

func TestStartStop(t *testing.T) {
	clk := clock.NewTest()
	views := view.NewManager(clk, nil)
	x, err := New(&Config{URL: "http://127.0.0.1:9090/api/v1/write", IntervalSec: 3600}, views, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := x.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := x.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}
