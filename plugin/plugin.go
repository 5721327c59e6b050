// Package plugin wires exporter implementations into the stats engine.
// Exporters are built by named factories from raw configuration maps, so the
// engine core stays free of any concrete export dependency.
package plugin

import (
	"go.uber.org/zap"

	"github.com/linchenxuan/statview/view"
)

// Exporter is a running export pipeline reading view snapshots.
type Exporter interface {
	// Start begins exporting. It must not block.
	Start() error
	// Stop shuts the exporter down and flushes in-flight work.
	Stop() error
}

// Factory builds one kind of Exporter.
type Factory interface {
	// Name returns the factory name used as the configuration key.
	Name() string
	// ConfigType returns an empty struct representing the exporter's
	// configuration. The registry populates it using mapstructure.
	ConfigType() any
	// Setup builds an exporter from the populated configuration. The
	// exporter reads aggregated data from views.
	Setup(cfg any, views *view.Manager, log *zap.Logger) (Exporter, error)
}
