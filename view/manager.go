package view

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/linchenxuan/statview/clock"
	"github.com/linchenxuan/statview/stats"
	"github.com/linchenxuan/statview/tag"
)

var (
	// ErrUnsupportedAggregation is returned when registering a view whose
	// aggregation kind the engine does not implement.
	ErrUnsupportedAggregation = errors.New("unsupported aggregation")
	// ErrInvalidBoundaries is returned when registering a distribution view
	// whose bucket boundaries are not non-decreasing.
	ErrInvalidBoundaries = errors.New("invalid bucket boundaries")
	// ErrViewConflict is returned when a different view with the same name
	// is already registered.
	ErrViewConflict = errors.New("a different view with the same name is already registered")
	// ErrViewNotFound is returned when querying a name no view is
	// registered under.
	ErrViewNotFound = errors.New("view not found")
)

// Manager is the view registry. Register and Get are synchronous and guarded
// by the registry lock; Record is invoked only by the event queue worker,
// which reads the registry under the same lock and then updates each matched
// view under that view's own mutex.
type Manager struct {
	clock clock.Clock
	log   *zap.Logger

	mu    sync.RWMutex
	views map[string]*mutableView
}

// NewManager creates an empty registry. A nil logger disables logging.
func NewManager(c clock.Clock, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		clock: c,
		log:   log,
		views: map[string]*mutableView{},
	}
}

// Register binds desc's name to a new live view starting now. Registering the
// value-equal descriptor again is a no-op; registering a different descriptor
// under an existing name fails and leaves the prior registration untouched.
func (m *Manager) Register(desc Descriptor) error {
	switch desc.Aggregation().Type() {
	case AggTypeDistribution:
		if !desc.Aggregation().Boundaries().Valid() {
			return fmt.Errorf("%w: boundaries must be non-decreasing", ErrInvalidBoundaries)
		}
	case AggTypeInterval:
		return fmt.Errorf("%w: interval views cannot be registered", ErrUnsupportedAggregation)
	default:
		return fmt.Errorf("%w: kind %d", ErrUnsupportedAggregation, desc.Aggregation().Type())
	}

	start := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.views[desc.Name()]; ok {
		if existing.desc.Equal(desc) {
			return nil
		}
		return fmt.Errorf("%w: %q", ErrViewConflict, desc.Name())
	}
	m.views[desc.Name()] = newMutableView(desc, start)
	m.log.Debug("view registered",
		zap.String("view", desc.Name()),
		zap.String("measure", desc.Measure().Name()))
	return nil
}

// Get returns a snapshot of the named view with end set to the current clock
// time. The read is non-destructive: repeated queries observe cumulative
// totals and a non-decreasing end time.
func (m *Manager) Get(name string) (*Data, error) {
	end := m.clock.Now()

	m.mu.RLock()
	v, ok := m.views[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrViewNotFound, name)
	}
	return v.snapshot(end), nil
}

// RegisteredViews returns the descriptors of every registered view, in no
// particular order. Exporters use it to walk the registry.
func (m *Manager) RegisteredViews() []Descriptor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Descriptor, 0, len(m.views))
	for _, v := range m.views {
		out = append(out, v.desc)
	}
	return out
}

// Record applies one measurement batch to every view whose measure appears in
// mm. Views whose measure is absent, and measures no view tracks, are
// silently skipped. Record is called by the queue worker only; the timestamp
// is the enqueue time and is currently unused by distribution views.
func (m *Manager) Record(tm *tag.Map, mm *stats.MeasureMap, _ clock.Timestamp) {
	m.mu.RLock()
	matched := make([]*mutableView, 0, len(m.views))
	values := make([]float64, 0, len(m.views))
	for _, v := range m.views {
		if val, ok := mm.Value(v.desc.Measure()); ok {
			matched = append(matched, v)
			values = append(values, val)
		}
	}
	m.mu.RUnlock()

	for i, v := range matched {
		v.record(tm, values[i])
	}
}
