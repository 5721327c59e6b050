package view

// BucketBoundaries is the sorted sequence of cut points defining histogram
// bucket edges. Value v falls into the first bucket whose boundary is
// strictly greater than v; values at or beyond the last boundary fall into
// the overflow bucket, so a distribution has len(boundaries)+1 buckets. An
// empty sequence means no histogram, only summary statistics.
type BucketBoundaries []float64

// Valid reports whether the boundaries are non-decreasing.
func (b BucketBoundaries) Valid() bool {
	for i := 1; i < len(b); i++ {
		if b[i] < b[i-1] {
			return false
		}
	}
	return true
}

// Equal reports element-wise equality.
func (b BucketBoundaries) Equal(other BucketBoundaries) bool {
	if len(b) != len(other) {
		return false
	}
	for i := range b {
		if b[i] != other[i] {
			return false
		}
	}
	return true
}

// bucketIndex returns the histogram bucket for v: the index of the first
// boundary strictly greater than v, or len(b) for the overflow bucket.
func (b BucketBoundaries) bucketIndex(v float64) int {
	lo, hi := 0, len(b)
	for lo < hi {
		mid := (lo + hi) / 2
		if b[mid] > v {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}
