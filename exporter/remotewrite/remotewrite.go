// Package remotewrite periodically converts view snapshots to Prometheus
// remote-write time series and ships them to a remote-write endpoint.
package remotewrite

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/eryajf/promwrite"
	"go.uber.org/zap"

	"github.com/linchenxuan/statview/view"
)

// Config contains configuration for the remote-write exporter.
type Config struct {
	URL         string            `mapstructure:"url"`         // Remote write endpoint
	IntervalSec int               `mapstructure:"intervalSec"` // Write interval in seconds
	Namespace   string            `mapstructure:"namespace"`   // Metric name prefix
	ExtLabels   map[string]string `mapstructure:"extLabels"`   // Constant labels added to every series
}

// Exporter is the remote-write export loop.
type Exporter struct {
	cfg    *Config
	views  *view.Manager
	client *promwrite.Client
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	log    *zap.Logger
}

// New creates a remote-write exporter reading from views.
func New(cfg *Config, views *view.Manager, log *zap.Logger) (*Exporter, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("remote write url cannot be empty")
	}
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Exporter{
		cfg:    cfg,
		views:  views,
		client: promwrite.NewClient(cfg.URL),
		ctx:    ctx,
		cancel: cancel,
		log:    log,
	}, nil
}

// Start launches the periodic write loop.
func (x *Exporter) Start() error {
	interval := time.Duration(x.cfg.IntervalSec) * time.Second
	if interval <= 0 {
		interval = 15 * time.Second
	}
	x.wg.Add(1)
	go func() {
		defer x.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := x.write(); err != nil {
					x.log.Error("remote write failed", zap.Error(err))
				}
			case <-x.ctx.Done():
				return
			}
		}
	}()
	x.log.Info("remote write exporter started", zap.String("url", x.cfg.URL))
	return nil
}

// Stop terminates the write loop and waits for it to exit.
func (x *Exporter) Stop() error {
	x.cancel()
	x.wg.Wait()
	return nil
}

// write snapshots every registered view and pushes the converted series.
func (x *Exporter) write() error {
	var series []promwrite.TimeSeries
	for _, desc := range x.views.RegisteredViews() {
		data, err := x.views.Get(desc.Name())
		if err != nil {
			x.log.Error("view snapshot failed", zap.String("view", desc.Name()), zap.Error(err))
			continue
		}
		series = append(series, x.convert(data)...)
	}
	if len(series) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(x.ctx, 15*time.Second)
	defer cancel()
	_, err := x.client.Write(ctx, &promwrite.WriteRequest{TimeSeries: series})
	if err != nil {
		return fmt.Errorf("writing time series failed: %w", err)
	}
	return nil
}

// convert maps one view snapshot onto remote-write series: per row a _count,
// _sum and _mean series, plus cumulative _bucket series when the view has
// histogram buckets. Sample time is the snapshot end.
func (x *Exporter) convert(data *view.Data) []promwrite.TimeSeries {
	name := data.Descriptor.Name()
	if x.cfg.Namespace != "" {
		name = fmt.Sprintf("%s_%s", x.cfg.Namespace, name)
	}
	at := data.End.Time()
	bounds := data.Descriptor.Aggregation().Boundaries()

	var out []promwrite.TimeSeries
	for _, row := range data.Rows {
		base := x.rowLabels(row)
		out = append(out,
			x.series(name+"_count", base, float64(row.Stats.Count), at),
			x.series(name+"_sum", base, row.Stats.Sum(), at),
			x.series(name+"_mean", base, row.Stats.Mean, at),
		)
		var cum int64
		for i, b := range bounds {
			if i >= len(row.Stats.BucketCounts) {
				break
			}
			cum += row.Stats.BucketCounts[i]
			le := append(append([]promwrite.Label(nil), base...),
				promwrite.Label{Name: "le", Value: strconv.FormatFloat(b, 'g', -1, 64)})
			out = append(out, x.series(name+"_bucket", le, float64(cum), at))
		}
	}
	return out
}

func (x *Exporter) rowLabels(row view.Row) []promwrite.Label {
	labels := make([]promwrite.Label, 0, len(x.cfg.ExtLabels)+len(row.Tags))
	for k, v := range x.cfg.ExtLabels {
		labels = append(labels, promwrite.Label{Name: k, Value: v})
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i].Name < labels[j].Name })
	for _, t := range row.Tags {
		labels = append(labels, promwrite.Label{Name: string(t.Key), Value: string(t.Value)})
	}
	return labels
}

func (x *Exporter) series(name string, labels []promwrite.Label, value float64, at time.Time) promwrite.TimeSeries {
	all := make([]promwrite.Label, 0, len(labels)+1)
	all = append(all, promwrite.Label{Name: "__name__", Value: name})
	all = append(all, labels...)
	return promwrite.TimeSeries{
		Labels: all,
		Sample: promwrite.Sample{Time: at, Value: value},
	}
}
