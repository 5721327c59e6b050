// Package clock provides the time source used by the stats engine.
// View windows are stamped with Timestamp values sampled from a Clock at the
// call site, which keeps externally observed start/end times independent of
// any asynchronous processing delay.
package clock

import "time"

// Timestamp is a point in time with nanosecond precision, split into whole
// seconds since the Unix epoch and the remaining nanoseconds.
type Timestamp struct {
	Seconds int64
	Nanos   int32
}

// Before reports whether t is strictly earlier than other.
func (t Timestamp) Before(other Timestamp) bool {
	if t.Seconds != other.Seconds {
		return t.Seconds < other.Seconds
	}
	return t.Nanos < other.Nanos
}

// Time converts the timestamp to a time.Time in UTC.
func (t Timestamp) Time() time.Time {
	return time.Unix(t.Seconds, int64(t.Nanos)).UTC()
}

// FromTime converts a time.Time to a Timestamp.
func FromTime(t time.Time) Timestamp {
	return Timestamp{
		Seconds: t.Unix(),
		Nanos:   int32(t.Nanosecond()),
	}
}

// Clock supplies the current time. Implementations must be safe for
// concurrent use.
type Clock interface {
	// Now returns the current time as observed by this clock.
	Now() Timestamp
}

// wallClock reads the system clock.
type wallClock struct{}

// New returns a Clock backed by the system clock.
func New() Clock {
	return wallClock{}
}

func (wallClock) Now() Timestamp {
	return FromTime(time.Now())
}
