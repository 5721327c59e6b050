package eventq

import (
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const _defaultBufferSize = 8192

// ChannelConfig configures a channel-backed queue.
type ChannelConfig struct {
	// BufferSize is the event channel capacity. Producers only block when
	// the buffer is full; no event is ever dropped before Stop.
	BufferSize int
	// Logger receives queue lifecycle and backpressure messages.
	Logger *zap.Logger
}

// ChannelQueue is the production Queue: a buffered channel drained by one
// dedicated worker goroutine.
type ChannelQueue struct {
	events    chan Event
	quit      chan struct{}
	done      chan struct{}
	stopOnce  sync.Once
	stopped   atomic.Bool
	depth     atomic.Int64
	processed atomic.Int64
	log       *zap.Logger
}

var _ Queue = (*ChannelQueue)(nil)

// NewChannel creates a ChannelQueue and starts its worker.
func NewChannel(cfg *ChannelConfig) *ChannelQueue {
	if cfg == nil {
		cfg = &ChannelConfig{}
	}
	size := cfg.BufferSize
	if size <= 0 {
		size = _defaultBufferSize
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	q := &ChannelQueue{
		events: make(chan Event, size),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		log:    log,
	}
	go q.run()
	return q
}

// Enqueue hands e to the worker. When the buffer is full the caller blocks
// until capacity frees up rather than losing the event. Events enqueued after
// Stop are discarded.
func (q *ChannelQueue) Enqueue(e Event) {
	if q.stopped.Load() {
		q.log.Debug("event discarded after queue stop")
		return
	}
	q.depth.Inc()
	select {
	case q.events <- e:
	default:
		q.log.Warn("event queue full, producer blocking", zap.Int64("depth", q.depth.Load()))
		q.events <- e
	}
}

// Drain blocks until every event enqueued before the call has executed.
// Drain must not be called concurrently with Stop.
func (q *ChannelQueue) Drain() {
	if q.stopped.Load() {
		return
	}
	var wg sync.WaitGroup
	wg.Add(1)
	q.Enqueue(EventFunc(wg.Done))
	wg.Wait()
}

// Stop executes all pending events, stops the worker, and discards anything
// enqueued afterwards. Stop is idempotent and returns once the worker exited.
func (q *ChannelQueue) Stop() {
	q.stopOnce.Do(func() {
		q.stopped.Store(true)
		close(q.quit)
	})
	<-q.done
}

// Depth returns the number of events enqueued but not yet executed.
func (q *ChannelQueue) Depth() int64 {
	return q.depth.Load()
}

// Processed returns the total number of events executed so far.
func (q *ChannelQueue) Processed() int64 {
	return q.processed.Load()
}

func (q *ChannelQueue) run() {
	defer close(q.done)
	for {
		select {
		case e := <-q.events:
			q.apply(e)
		case <-q.quit:
			// Flush whatever was enqueued before the stop flag was set.
			for {
				select {
				case e := <-q.events:
					q.apply(e)
				default:
					q.log.Info("event queue stopped", zap.Int64("processed", q.processed.Load()))
					return
				}
			}
		}
	}
}

func (q *ChannelQueue) apply(e Event) {
	e.Execute()
	q.depth.Dec()
	q.processed.Inc()
}
