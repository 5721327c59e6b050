package view

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/linchenxuan/statview/clock"
	"github.com/linchenxuan/statview/tag"
)

// UnknownTagValue is substituted for every view tag key the recorded context
// does not carry, so partial contexts still group deterministically.
const UnknownTagValue tag.Value = "unknown/not set"

// mutableView is the live state behind one registered view: its descriptor,
// the start timestamp fixed at registration, and a lazily grown map from tag
// value tuples to their accumulators. Rows are created on first observation
// and never removed.
//
// The queue worker is the only writer; snapshot readers may run on any
// goroutine, so both paths take the per-view mutex and snapshots deep-copy
// every accumulator.
type mutableView struct {
	desc  Descriptor
	start clock.Timestamp

	mu   sync.Mutex
	rows map[string]*mutableRow
}

type mutableRow struct {
	values []tag.Value
	dist   *distribution
}

func newMutableView(desc Descriptor, start clock.Timestamp) *mutableView {
	return &mutableView{
		desc:  desc,
		start: start,
		rows:  map[string]*mutableRow{},
	}
}

// record folds value into the row selected by tm. For each of the view's tag
// keys the grouping tuple takes the context's value if present, else
// UnknownTagValue.
func (v *mutableView) record(tm *tag.Map, value float64) {
	values := make([]tag.Value, len(v.desc.tagKeys))
	for i, k := range v.desc.tagKeys {
		tv, ok := tm.Value(k)
		if !ok {
			tv = UnknownTagValue
		}
		values[i] = tv
	}
	key := rowKey(values)

	v.mu.Lock()
	defer v.mu.Unlock()
	row, ok := v.rows[key]
	if !ok {
		row = &mutableRow{
			values: values,
			dist:   newDistribution(v.desc.aggregation.boundaries),
		}
		v.rows[key] = row
	}
	row.dist.add(value)
}

// snapshot copies the view's cumulative state without clearing it. Rows are
// ordered by their tag value tuple so repeated reads are stable.
func (v *mutableView) snapshot(end clock.Timestamp) *Data {
	v.mu.Lock()
	rows := make([]Row, 0, len(v.rows))
	for _, mr := range v.rows {
		tags := make([]tag.Tag, len(mr.values))
		for i, k := range v.desc.tagKeys {
			tags[i] = tag.Tag{Key: k, Value: mr.values[i]}
		}
		rows = append(rows, Row{Tags: tags, Stats: mr.dist.snapshot()})
	}
	v.mu.Unlock()

	sort.Slice(rows, func(i, j int) bool { return rowLess(rows[i], rows[j]) })
	return &Data{
		Descriptor: v.desc,
		Start:      v.start,
		End:        end,
		Rows:       rows,
	}
}

// rowKey builds an injective string key from a tag value tuple. Values are
// length-prefixed so no two distinct tuples can collide.
func rowKey(values []tag.Value) string {
	var sb strings.Builder
	for _, v := range values {
		sb.WriteString(strconv.Itoa(len(v)))
		sb.WriteByte(':')
		sb.WriteString(string(v))
	}
	return sb.String()
}

func rowLess(a, b Row) bool {
	for i := range a.Tags {
		if i >= len(b.Tags) {
			return false
		}
		if a.Tags[i].Value != b.Tags[i].Value {
			return a.Tags[i].Value < b.Tags[i].Value
		}
	}
	return len(a.Tags) < len(b.Tags)
}
