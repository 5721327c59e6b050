// Package statview is an in-process dimensional metrics engine. Applications
// record numeric measurements tagged with key/value dimensions; the engine
// maintains live, queryable histogram aggregations grouped by those
// dimensions and can export them through pluggable exporters.
package statview

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/linchenxuan/statview/clock"
	"github.com/linchenxuan/statview/eventq"
	"github.com/linchenxuan/statview/exporter/prom"
	"github.com/linchenxuan/statview/exporter/remotewrite"
	"github.com/linchenxuan/statview/plugin"
	"github.com/linchenxuan/statview/stats"
	"github.com/linchenxuan/statview/tag"
	"github.com/linchenxuan/statview/view"
)

// Config configures an Engine. The zero value is usable: wall clock, default
// queue size, no logging, no exporters.
type Config struct {
	// QueueBufferSize is the recording queue capacity.
	QueueBufferSize int
	// Logger receives structured engine logs. Nil disables logging.
	Logger *zap.Logger
	// Clock is the time source for view windows. Nil selects the system clock.
	Clock clock.Clock
	// Queue overrides the recording queue, mainly for deterministic tests.
	Queue eventq.Queue
	// Exporters holds raw exporter configuration, keyed by factory name.
	Exporters map[string]any
}

// Engine is an explicitly constructed, process-scoped stats context holding
// the view registry, the recording queue, and the exporter plugins. There is
// no implicit global instance.
type Engine struct {
	Views     *view.Manager
	Recorder  *stats.Recorder
	Exporters *plugin.Registry

	queue eventq.Queue
	log   *zap.Logger
}

// New assembles an Engine from cfg, registers the built-in exporter
// factories, and starts any configured exporters.
func New(cfg *Config) (*Engine, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	queue := cfg.Queue
	if queue == nil {
		queue = eventq.NewChannel(&eventq.ChannelConfig{
			BufferSize: cfg.QueueBufferSize,
			Logger:     log,
		})
	}

	views := view.NewManager(clk, log)
	registry := plugin.NewRegistry()
	if err := registry.RegisterFactory(prom.NewFactory()); err != nil {
		return nil, err
	}
	if err := registry.RegisterFactory(remotewrite.NewFactory()); err != nil {
		return nil, err
	}
	if len(cfg.Exporters) > 0 {
		if err := registry.Setup(cfg.Exporters, views, log); err != nil {
			queue.Stop()
			return nil, err
		}
	}

	e := &Engine{
		Views:     views,
		Recorder:  stats.NewRecorder(queue, clk, views),
		Exporters: registry,
		queue:     queue,
		log:       log,
	}
	log.Info("stats engine initialized")
	return e, nil
}

// Record enqueues one measurement batch under the given tag context. It is
// fire-and-forget; call Drain for a visibility barrier.
func (e *Engine) Record(tm *tag.Map, mm *stats.MeasureMap) {
	e.Recorder.Record(tm, mm)
}

// Drain blocks until every recording enqueued before the call is applied and
// visible to subsequent reads.
func (e *Engine) Drain() {
	e.queue.Drain()
}

// Stop flushes the recording queue, stops the queue worker, and shuts down
// every running exporter. Errors from individual exporters are combined.
func (e *Engine) Stop() error {
	e.queue.Stop()
	var err error
	if stopErr := e.Exporters.StopAll(); stopErr != nil {
		err = multierr.Append(err, stopErr)
	}
	e.log.Info("stats engine stopped")
	return err
}
