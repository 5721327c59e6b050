package eventq

// SyncQueue executes every event inline on the caller's goroutine. It keeps
// recording deterministic in tests and in single-threaded tools; production
// code should use ChannelQueue.
type SyncQueue struct{}

var _ Queue = SyncQueue{}

// NewSync returns a SyncQueue.
func NewSync() SyncQueue { return SyncQueue{} }

// Enqueue executes e immediately.
func (SyncQueue) Enqueue(e Event) { e.Execute() }

// Drain is a no-op; nothing is ever pending.
func (SyncQueue) Drain() {}

// Stop is a no-op.
func (SyncQueue) Stop() {}
