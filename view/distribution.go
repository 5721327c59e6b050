package view

import "math"

// DistributionStats is an immutable statistical summary of every value a
// single tag combination has accumulated: count, online mean, running sum of
// squared deviations from the mean, observed range, and histogram bucket
// counters. BucketCounts has one counter per boundary plus a final overflow
// bucket, or is nil when the view has no boundaries.
type DistributionStats struct {
	Count                 int64
	Mean                  float64
	SumOfSquaredDeviation float64
	Min                   float64
	Max                   float64
	BucketCounts          []int64
}

// Sum returns the sum of all recorded values.
func (d DistributionStats) Sum() float64 {
	return d.Mean * float64(d.Count)
}

// distribution is the live accumulator behind DistributionStats. It performs
// no input validation: non-finite and negative values fold into the
// statistics as recorded. All access is serialized by the owning view.
type distribution struct {
	bounds  BucketBoundaries
	count   int64
	mean    float64
	ssd     float64
	min     float64
	max     float64
	buckets []int64
}

func newDistribution(bounds BucketBoundaries) *distribution {
	d := &distribution{
		bounds: bounds,
		min:    math.Inf(1),
		max:    math.Inf(-1),
	}
	if len(bounds) > 0 {
		d.buckets = make([]int64, len(bounds)+1)
	}
	return d
}

// add folds v into the running statistics using Welford's single-pass update,
// so variance is derivable without retaining samples.
func (d *distribution) add(v float64) {
	d.count++
	delta := v - d.mean
	d.mean += delta / float64(d.count)
	d.ssd += delta * (v - d.mean)
	if v < d.min {
		d.min = v
	}
	if v > d.max {
		d.max = v
	}
	if len(d.buckets) > 0 {
		d.buckets[d.bounds.bucketIndex(v)]++
	}
}

// snapshot copies the accumulator into an immutable DistributionStats.
func (d *distribution) snapshot() DistributionStats {
	s := DistributionStats{
		Count:                 d.count,
		Mean:                  d.mean,
		SumOfSquaredDeviation: d.ssd,
		Min:                   d.min,
		Max:                   d.max,
	}
	if d.buckets != nil {
		s.BucketCounts = make([]int64, len(d.buckets))
		copy(s.BucketCounts, d.buckets)
	}
	return s
}
