// Package prom exports view snapshots in Prometheus format, either pulled
// through an HTTP endpoint or pushed to a push gateway. Each distribution row
// becomes a const histogram; views without bucket boundaries export their
// summary statistics as individual series.
package prom

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.uber.org/zap"

	"github.com/linchenxuan/statview/view"
)

// Config contains configuration for the Prometheus exporter.
type Config struct {
	Namespace       string            `mapstructure:"namespace"`       // Metric name prefix
	ListenAddr      string            `mapstructure:"listenAddr"`      // HTTP listen address, empty for a random port
	MetricPath      string            `mapstructure:"metricPath"`      // Metrics HTTP path
	UsePush         bool              `mapstructure:"usePush"`         // Enable push gateway mode
	PushAddr        string            `mapstructure:"pushAddr"`        // Push gateway address
	PushJobName     string            `mapstructure:"pushJobName"`     // Push job name
	PushIntervalSec int               `mapstructure:"pushIntervalSec"` // Push interval in seconds
	ExtLabels       map[string]string `mapstructure:"extLabels"`       // Constant labels added to every series
}

// Exporter serves every registered view as Prometheus metrics. It implements
// prometheus.Collector: each scrape takes fresh snapshots, so no state is
// duplicated between the view registry and the export path.
type Exporter struct {
	cfg      *Config
	views    *view.Manager
	registry *prometheus.Registry
	promSvr  *http.Server
	addr     net.Addr
	pusher   *push.Pusher
	ctx      context.Context
	cancel   context.CancelFunc
	log      *zap.Logger
}

var _ prometheus.Collector = (*Exporter)(nil)

// New creates a Prometheus exporter reading from views.
func New(cfg *Config, views *view.Manager, log *zap.Logger) *Exporter {
	if cfg.MetricPath == "" {
		cfg.MetricPath = "/metrics"
	}
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Exporter{
		cfg:      cfg,
		views:    views,
		registry: prometheus.NewRegistry(),
		ctx:      ctx,
		cancel:   cancel,
		log:      log,
	}
}

// Start registers the collector and begins serving scrapes, plus the push
// loop when configured.
func (x *Exporter) Start() error {
	x.registry.MustRegister(x)
	if x.cfg.UsePush {
		x.startPusher()
	}
	_, err := x.startHTTPSvr()
	return err
}

// Stop shuts down the push loop and the HTTP server.
func (x *Exporter) Stop() error {
	x.cancel()
	if x.promSvr != nil {
		if err := x.promSvr.Close(); err != nil {
			return err
		}
		x.promSvr = nil
	}
	return nil
}

// Addr returns the HTTP listen address, valid after Start.
func (x *Exporter) Addr() net.Addr {
	return x.addr
}

// Describe implements prometheus.Collector. Descriptors are derived from the
// live registry on every scrape.
func (x *Exporter) Describe(ch chan<- *prometheus.Desc) {
	prometheus.DescribeByCollect(x, ch)
}

// Collect implements prometheus.Collector by snapshotting every registered
// view and emitting const metrics.
func (x *Exporter) Collect(ch chan<- prometheus.Metric) {
	for _, desc := range x.views.RegisteredViews() {
		data, err := x.views.Get(desc.Name())
		if err != nil {
			x.log.Error("view snapshot failed", zap.String("view", desc.Name()), zap.Error(err))
			continue
		}
		x.collectView(ch, data)
	}
}

func (x *Exporter) collectView(ch chan<- prometheus.Metric, data *view.Data) {
	desc := data.Descriptor
	labelKeys := make([]string, len(desc.TagKeys()))
	for i, k := range desc.TagKeys() {
		labelKeys[i] = sanitize(string(k))
	}
	fqName := x.metricName(desc.Name())

	for _, row := range data.Rows {
		labelVals := make([]string, len(row.Tags))
		for i, t := range row.Tags {
			labelVals[i] = string(t.Value)
		}
		if len(row.Stats.BucketCounts) > 0 {
			x.emitHistogram(ch, fqName, desc, labelKeys, labelVals, row)
		} else {
			x.emitSummaryStats(ch, fqName, desc, labelKeys, labelVals, row)
		}
	}
}

func (x *Exporter) emitHistogram(ch chan<- prometheus.Metric, fqName string, desc view.Descriptor,
	labelKeys, labelVals []string, row view.Row) {
	bounds := desc.Aggregation().Boundaries()
	buckets := make(map[float64]uint64, len(bounds))
	var cum uint64
	for i, b := range bounds {
		cum += uint64(row.Stats.BucketCounts[i])
		buckets[b] = cum
	}
	pd := prometheus.NewDesc(fqName, desc.Description(), labelKeys, x.cfg.ExtLabels)
	m, err := prometheus.NewConstHistogram(pd, uint64(row.Stats.Count), row.Stats.Sum(), buckets, labelVals...)
	if err != nil {
		x.log.Error("const histogram failed", zap.String("view", desc.Name()), zap.Error(err))
		return
	}
	ch <- m
}

func (x *Exporter) emitSummaryStats(ch chan<- prometheus.Metric, fqName string, desc view.Descriptor,
	labelKeys, labelVals []string, row view.Row) {
	series := []struct {
		suffix string
		typ    prometheus.ValueType
		value  float64
	}{
		{"_count", prometheus.CounterValue, float64(row.Stats.Count)},
		{"_sum", prometheus.GaugeValue, row.Stats.Sum()},
		{"_mean", prometheus.GaugeValue, row.Stats.Mean},
		{"_min", prometheus.GaugeValue, row.Stats.Min},
		{"_max", prometheus.GaugeValue, row.Stats.Max},
	}
	for _, s := range series {
		pd := prometheus.NewDesc(fqName+s.suffix, desc.Description(), labelKeys, x.cfg.ExtLabels)
		m, err := prometheus.NewConstMetric(pd, s.typ, s.value, labelVals...)
		if err != nil {
			x.log.Error("const metric failed", zap.String("view", desc.Name()), zap.Error(err))
			return
		}
		ch <- m
	}
}

func (x *Exporter) metricName(viewName string) string {
	name := sanitize(viewName)
	if x.cfg.Namespace != "" {
		return sanitize(x.cfg.Namespace) + "_" + name
	}
	return name
}

// sanitize maps view and tag names onto the Prometheus identifier charset.
func sanitize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			sb.WriteRune(r)
		case r >= '0' && r <= '9' && i > 0:
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

func (x *Exporter) startPusher() {
	x.pusher = push.New(x.cfg.PushAddr, x.cfg.PushJobName)
	x.pusher.Gatherer(x.registry)
	interval := time.Second * time.Duration(x.cfg.PushIntervalSec)
	if interval <= 0 {
		interval = 15 * time.Second
	}
	go func() {
		x.log.Info("prometheus pusher started", zap.String("addr", x.cfg.PushAddr))
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-x.ctx.Done():
				x.log.Info("prometheus pusher stopped")
				return
			case <-t.C:
				newCtx, cancel := context.WithTimeout(x.ctx, time.Second*5)
				if err := x.pusher.PushContext(newCtx); err != nil {
					x.log.Error("prometheus push failed", zap.Error(err))
				}
				cancel()
			}
		}
	}()
}

func (x *Exporter) startHTTPSvr() (net.Addr, error) {
	addr := x.cfg.ListenAddr
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle(x.cfg.MetricPath, promhttp.HandlerFor(x.registry, promhttp.HandlerOpts{}))
	x.promSvr = &http.Server{Handler: mux} //nolint:gosec
	x.addr = l.Addr()
	go x.promSvr.Serve(l)
	x.log.Info("prometheus http listening",
		zap.String("addr", l.Addr().String()),
		zap.String("path", x.cfg.MetricPath))
	return l.Addr(), nil
}
