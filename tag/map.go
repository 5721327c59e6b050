package tag

// Map is an immutable set of tags. Each key appears at most once. Iteration
// follows construction order, which is also the order used by the binary
// serializer; equality ignores order.
type Map struct {
	tags  []Tag
	index map[Key]int
}

// _empty is the shared empty Map. Builders with no entries and decoders of an
// empty payload both hand it out, so callers may compare against Empty()
// directly.
var _empty = &Map{index: map[Key]int{}}

// Empty returns the shared empty Map.
func Empty() *Map {
	return _empty
}

// Value returns the value bound to k and whether k is present.
func (m *Map) Value(k Key) (Value, bool) {
	i, ok := m.index[k]
	if !ok {
		return "", false
	}
	return m.tags[i].Value, true
}

// Len returns the number of tags in the map.
func (m *Map) Len() int {
	return len(m.tags)
}

// Tags returns the tags in construction order. The returned slice is a copy.
func (m *Map) Tags() []Tag {
	out := make([]Tag, len(m.tags))
	copy(out, m.tags)
	return out
}

// Equal reports whether m and other bind the same keys to the same values,
// regardless of construction order.
func (m *Map) Equal(other *Map) bool {
	if len(m.tags) != len(other.tags) {
		return false
	}
	for _, t := range m.tags {
		v, ok := other.Value(t.Key)
		if !ok || v != t.Value {
			return false
		}
	}
	return true
}

// Builder accumulates tags for a Map. The zero value is not usable; call
// NewBuilder. All mutating methods return the builder for chaining.
type Builder struct {
	tags  []Tag
	index map[Key]int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{index: map[Key]int{}}
}

// From returns a Builder seeded with every tag of m.
func From(m *Map) *Builder {
	b := NewBuilder()
	for _, t := range m.tags {
		b.Put(t.Key, t.Value)
	}
	return b
}

// Put binds k to v. If k is already present its value is overwritten and its
// position in construction order is kept.
func (b *Builder) Put(k Key, v Value) *Builder {
	if i, ok := b.index[k]; ok {
		b.tags[i].Value = v
		return b
	}
	b.index[k] = len(b.tags)
	b.tags = append(b.tags, Tag{Key: k, Value: v})
	return b
}

// Remove deletes k from the builder. Removing an absent key is a no-op.
func (b *Builder) Remove(k Key) *Builder {
	i, ok := b.index[k]
	if !ok {
		return b
	}
	b.tags = append(b.tags[:i], b.tags[i+1:]...)
	delete(b.index, k)
	for j := i; j < len(b.tags); j++ {
		b.index[b.tags[j].Key] = j
	}
	return b
}

// Build returns an immutable Map holding a copy of the builder's current
// state. The builder stays usable afterwards.
func (b *Builder) Build() *Map {
	if len(b.tags) == 0 {
		return _empty
	}
	m := &Map{
		tags:  make([]Tag, len(b.tags)),
		index: make(map[Key]int, len(b.index)),
	}
	copy(m.tags, b.tags)
	for k, i := range b.index {
		m.index[k] = i
	}
	return m
}
