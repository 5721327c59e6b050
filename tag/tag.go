// Package tag defines the dimension set attached to recorded measurements.
// A tag is a key/value pair; a Map is an immutable collection of tags built
// through a Builder and threaded explicitly by the caller through every
// recording call. The package also owns the binary wire format used to carry
// a Map across process boundaries.
package tag

// Key is the name of a tag dimension. Keys are opaque and compared by value.
type Key string

// Value is the value bound to a tag Key. Values are opaque and compared by value.
type Value string

// Tag is a single key/value dimension pair.
type Tag struct {
	Key   Key
	Value Value
}
