package tag

import (
	"errors"
	"fmt"
)

// Wire format: one version byte followed by zero or more entries, each entry
// being a length-prefixed key and a length-prefixed value. Lengths are a
// single unsigned byte, which caps keys and values at 255 bytes. This fixed
// limit is deliberate; there is no variable-length encoding.
//
//	version:byte { keyLen:byte keyBytes valueLen:byte valueBytes }*

// SerializationVersion is the only version byte currently produced or accepted.
const SerializationVersion byte = 0

// maxTagLen is the largest key or value length the one-byte prefix can carry.
const maxTagLen = 255

var (
	// ErrTagTooLong is returned by Encode when a key or value exceeds 255 bytes.
	ErrTagTooLong = errors.New("tag key or value too long")
	// ErrCorruptContext is returned by Decode for input that is empty,
	// carries an unsupported version byte, or is truncated.
	ErrCorruptContext = errors.New("corrupt tag context")
)

// Encode serializes m into the binary wire format. Entries are written in the
// map's construction order; two semantically equal maps built in different
// orders may therefore encode differently, but always decode back equal.
func Encode(m *Map) ([]byte, error) {
	buf := make([]byte, 0, 1+m.Len()*8)
	buf = append(buf, SerializationVersion)
	for _, t := range m.tags {
		var err error
		if buf, err = appendField(buf, string(t.Key)); err != nil {
			return nil, err
		}
		if buf, err = appendField(buf, string(t.Value)); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// Decode reconstructs a Map from data produced by Encode. Entries are applied
// to a builder in encoded order, so a duplicated key keeps its last value.
func Decode(data []byte) (*Map, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrCorruptContext)
	}
	if data[0] != SerializationVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptContext, data[0])
	}
	b := NewBuilder()
	rest := data[1:]
	for len(rest) > 0 {
		var key, value string
		var err error
		if key, rest, err = readField(rest); err != nil {
			return nil, err
		}
		if value, rest, err = readField(rest); err != nil {
			return nil, err
		}
		b.Put(Key(key), Value(value))
	}
	return b.Build(), nil
}

// appendField writes a one-byte length prefix and the field bytes.
func appendField(buf []byte, s string) ([]byte, error) {
	if len(s) > maxTagLen {
		return nil, fmt.Errorf("%w: %d bytes, limit is %d", ErrTagTooLong, len(s), maxTagLen)
	}
	buf = append(buf, byte(len(s)))
	return append(buf, s...), nil
}

// readField consumes a one-byte length prefix and the declared number of
// bytes, returning the field and the remaining input.
func readField(data []byte) (string, []byte, error) {
	if len(data) == 0 {
		return "", nil, fmt.Errorf("%w: missing length prefix", ErrCorruptContext)
	}
	n := int(data[0])
	data = data[1:]
	if n > len(data) {
		return "", nil, fmt.Errorf("%w: declared length %d exceeds remaining %d bytes", ErrCorruptContext, n, len(data))
	}
	return string(data[:n]), data[n:], nil
}
