package stats

import "testing"

func TestMeasureAccessors(t *testing.T) {
	m := NewMeasure("latency", "request latency", "ms")
	if m.Name() != "latency" || m.Description() != "request latency" || m.Unit() != "ms" {
		t.Errorf("Unexpected measure fields: %+v", m)
	}
	if m != NewMeasure("latency", "request latency", "ms") {
		t.Error("Measures with identical fields should be equal")
	}
	mm := m.M(1.5)
	if mm.Measure() != m || mm.Value() != 1.5 {
		t.Errorf("Unexpected measurement: %+v", mm)
	}
}

// 测试MeasureMap构建器的last-write-wins语义
func TestMeasureMapBuilder(t *testing.T) {
	latency := NewMeasure("latency", "request latency", "ms")
	size := NewMeasure("size", "payload size", "By")

	mm := NewMeasureMapBuilder().
		Set(latency, 10).
		Set(size, 256).
		Set(latency, 20).
		Build()

	if mm.Len() != 2 {
		t.Fatalf("Expected 2 measures, got %d", mm.Len())
	}
	if v, ok := mm.Value(latency); !ok || v != 20 {
		t.Errorf("Expected latency=20 (last write wins), got %v (%v)", v, ok)
	}
	if v, ok := mm.Value(size); !ok || v != 256 {
		t.Errorf("Expected size=256, got %v (%v)", v, ok)
	}
	if _, ok := mm.Value(NewMeasure("other", "", "")); ok {
		t.Error("Absent measure must not resolve")
	}

	ms := mm.Measurements()
	if len(ms) != 2 || ms[0].Measure() != latency || ms[1].Measure() != size {
		t.Errorf("Unexpected measurement order: %+v", ms)
	}
}

func TestMeasureMapBuildIsDefensiveCopy(t *testing.T) {
	latency := NewMeasure("latency", "request latency", "ms")
	b := NewMeasureMapBuilder().Set(latency, 1)
	mm := b.Build()
	b.Set(latency, 2)
	if v, _ := mm.Value(latency); v != 1 {
		t.Errorf("Built map changed after builder mutation: %v", v)
	}
}
