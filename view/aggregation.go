// Package view implements the aggregation engine: named views route recorded
// measurements into per-tag-combination distributions, and the Manager owns
// registration, routing, and non-destructive snapshotting.
package view

import "time"

// AggregationType discriminates the closed set of aggregation kinds.
type AggregationType int

const (
	// AggTypeDistribution aggregates values into summary statistics and an
	// optional histogram. This is the only kind the Manager accepts.
	AggTypeDistribution AggregationType = iota
	// AggTypeInterval is a sliding-window aggregation. It is part of the
	// configuration surface but rejected at registration.
	AggTypeInterval
)

// Aggregation describes how a view combines recorded values. It is a tagged
// variant: exactly the fields of the active type are meaningful.
type Aggregation struct {
	typ        AggregationType
	boundaries BucketBoundaries
	intervals  []time.Duration
}

// Distribution returns a distribution aggregation over the given bucket
// boundaries. With no boundaries the view keeps summary statistics only.
func Distribution(boundaries ...float64) Aggregation {
	return Aggregation{typ: AggTypeDistribution, boundaries: boundaries}
}

// Interval returns an interval aggregation over the given window sizes.
// Registering a view with it fails with ErrUnsupportedAggregation.
func Interval(windows ...time.Duration) Aggregation {
	return Aggregation{typ: AggTypeInterval, intervals: windows}
}

// Type returns the aggregation kind.
func (a Aggregation) Type() AggregationType { return a.typ }

// Boundaries returns the bucket boundaries of a distribution aggregation.
func (a Aggregation) Boundaries() BucketBoundaries { return a.boundaries }

// Equal reports whether two aggregations are the same kind with the same
// configuration.
func (a Aggregation) Equal(other Aggregation) bool {
	if a.typ != other.typ {
		return false
	}
	if !a.boundaries.Equal(other.boundaries) {
		return false
	}
	if len(a.intervals) != len(other.intervals) {
		return false
	}
	for i := range a.intervals {
		if a.intervals[i] != other.intervals[i] {
			return false
		}
	}
	return true
}
