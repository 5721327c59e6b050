package stats

import (
	"github.com/linchenxuan/statview/clock"
	"github.com/linchenxuan/statview/eventq"
	"github.com/linchenxuan/statview/tag"
)

// Target receives recorded measurement batches. It is implemented by the view
// manager; recording calls reach it only through the event queue worker.
type Target interface {
	Record(tm *tag.Map, mm *MeasureMap, t clock.Timestamp)
}

// Recorder is the write path of the engine. Record is fire-and-forget: it
// stamps the batch with the current time, enqueues it, and returns before the
// mutation is applied. Callers that need the mutation visible to a subsequent
// read must drain the queue first.
type Recorder struct {
	queue  eventq.Queue
	clock  clock.Clock
	target Target
}

// NewRecorder creates a Recorder feeding target through queue.
func NewRecorder(queue eventq.Queue, c clock.Clock, target Target) *Recorder {
	return &Recorder{queue: queue, clock: c, target: target}
}

// Record enqueues one measurement batch under the given tag context. A nil
// tag map records against the empty context. Batches containing measures no
// view tracks are applied and silently aggregate nowhere; that is not an
// error.
func (r *Recorder) Record(tm *tag.Map, mm *MeasureMap) {
	if mm == nil || mm.Len() == 0 {
		return
	}
	if tm == nil {
		tm = tag.Empty()
	}
	t := r.clock.Now()
	r.queue.Enqueue(eventq.EventFunc(func() {
		r.target.Record(tm, mm, t)
	}))
}
