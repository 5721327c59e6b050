// Package eventq provides the single-consumer queue that linearizes all
// recording mutations. Any number of producers enqueue events; one dedicated
// worker drains them strictly in enqueue order, so downstream state needs no
// per-record locking on the hot path.
package eventq

// Event is a unit of work applied by the queue worker.
type Event interface {
	Execute()
}

// EventFunc adapts a plain function to the Event interface.
type EventFunc func()

// Execute runs the function.
func (f EventFunc) Execute() { f() }

// Queue serializes events onto a single consumer.
type Queue interface {
	// Enqueue hands an event to the queue. Events are executed strictly in
	// enqueue order. Enqueue does not wait for execution.
	Enqueue(e Event)
	// Drain blocks until every event enqueued before the call has executed.
	Drain()
	// Stop executes all pending events and shuts the queue down. Events
	// enqueued after Stop are discarded.
	Stop()
}
