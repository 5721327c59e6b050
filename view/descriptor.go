package view

import (
	"github.com/linchenxuan/statview/stats"
	"github.com/linchenxuan/statview/tag"
)

// Descriptor is the immutable configuration of a view: a globally unique
// name, the measure it aggregates, how values are combined, and the ordered
// tag keys that define its grouping dimensions.
type Descriptor struct {
	name        string
	description string
	measure     stats.Measure
	aggregation Aggregation
	tagKeys     []tag.Key
}

// NewDescriptor creates a view descriptor. The tag key order is significant:
// snapshot rows report values in exactly this order.
func NewDescriptor(name, description string, measure stats.Measure, agg Aggregation, keys ...tag.Key) Descriptor {
	ks := make([]tag.Key, len(keys))
	copy(ks, keys)
	return Descriptor{
		name:        name,
		description: description,
		measure:     measure,
		aggregation: agg,
		tagKeys:     ks,
	}
}

// Name returns the unique view name.
func (d Descriptor) Name() string { return d.name }

// Description returns the human-readable description.
func (d Descriptor) Description() string { return d.description }

// Measure returns the measure this view aggregates.
func (d Descriptor) Measure() stats.Measure { return d.measure }

// Aggregation returns the configured aggregation.
func (d Descriptor) Aggregation() Aggregation { return d.aggregation }

// TagKeys returns the grouping dimensions in configured order. The returned
// slice is a copy.
func (d Descriptor) TagKeys() []tag.Key {
	out := make([]tag.Key, len(d.tagKeys))
	copy(out, d.tagKeys)
	return out
}

// Equal reports whether every field of both descriptors matches, including
// tag key order and bucket boundaries.
func (d Descriptor) Equal(other Descriptor) bool {
	if d.name != other.name || d.description != other.description || d.measure != other.measure {
		return false
	}
	if !d.aggregation.Equal(other.aggregation) {
		return false
	}
	if len(d.tagKeys) != len(other.tagKeys) {
		return false
	}
	for i := range d.tagKeys {
		if d.tagKeys[i] != other.tagKeys[i] {
			return false
		}
	}
	return true
}
