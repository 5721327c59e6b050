// Package stats defines the measures applications record against and the
// recording entry point. A Measure names a recordable quantity; a MeasureMap
// is a one-shot batch of measure/value pairs handed to the Recorder, which
// enqueues it for asynchronous aggregation.
package stats

// Measure identifies a recordable quantity, such as a latency or a payload
// size. Measures are immutable values; routing of recorded values to views is
// by measure name.
type Measure struct {
	name        string
	description string
	unit        string
}

// NewMeasure creates a measure. The name is the routing identity: a view
// aggregates every measurement recorded under its measure's name.
func NewMeasure(name, description, unit string) Measure {
	return Measure{name: name, description: description, unit: unit}
}

// Name returns the measure name.
func (m Measure) Name() string { return m.name }

// Description returns the human-readable description.
func (m Measure) Description() string { return m.description }

// Unit returns the unit of recorded values, e.g. "ms" or "By".
func (m Measure) Unit() string { return m.unit }

// M pairs the measure with a value, ready to be put into a MeasureMap.
func (m Measure) M(v float64) Measurement {
	return Measurement{measure: m, value: v}
}

// Measurement is a single measure/value pair.
type Measurement struct {
	measure Measure
	value   float64
}

// Measure returns the measure this value was recorded against.
func (m Measurement) Measure() Measure { return m.measure }

// Value returns the recorded value.
func (m Measurement) Value() float64 { return m.value }
