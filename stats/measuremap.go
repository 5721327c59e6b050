package stats

// MeasureMap is an immutable batch of measure/value pairs recorded atomically.
// Each measure appears at most once; during construction the last value set
// for a measure wins.
type MeasureMap struct {
	measurements []Measurement
	index        map[string]int
}

// Len returns the number of distinct measures in the map.
func (m *MeasureMap) Len() int {
	return len(m.measurements)
}

// Value returns the value recorded for measure and whether it is present.
func (m *MeasureMap) Value(measure Measure) (float64, bool) {
	i, ok := m.index[measure.Name()]
	if !ok {
		return 0, false
	}
	return m.measurements[i].value, true
}

// Measurements returns the measure/value pairs in construction order. The
// returned slice is a copy.
func (m *MeasureMap) Measurements() []Measurement {
	out := make([]Measurement, len(m.measurements))
	copy(out, m.measurements)
	return out
}

// MeasureMapBuilder accumulates measurements for a MeasureMap.
type MeasureMapBuilder struct {
	measurements []Measurement
	index        map[string]int
}

// NewMeasureMapBuilder returns an empty MeasureMapBuilder.
func NewMeasureMapBuilder() *MeasureMapBuilder {
	return &MeasureMapBuilder{index: map[string]int{}}
}

// Set records value for measure, overwriting any value previously set for the
// same measure name. Returns the builder for chaining.
func (b *MeasureMapBuilder) Set(measure Measure, value float64) *MeasureMapBuilder {
	if i, ok := b.index[measure.Name()]; ok {
		b.measurements[i].value = value
		return b
	}
	b.index[measure.Name()] = len(b.measurements)
	b.measurements = append(b.measurements, Measurement{measure: measure, value: value})
	return b
}

// Build returns an immutable MeasureMap with a copy of the builder's state.
func (b *MeasureMapBuilder) Build() *MeasureMap {
	m := &MeasureMap{
		measurements: make([]Measurement, len(b.measurements)),
		index:        make(map[string]int, len(b.index)),
	}
	copy(m.measurements, b.measurements)
	for k, i := range b.index {
		m.index[k] = i
	}
	return m
}
