package prom

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/linchenxuan/statview/plugin"
	"github.com/linchenxuan/statview/view"
)

// FactoryName is the configuration key for the Prometheus exporter.
const FactoryName = "prometheus"

type factory struct{}

// NewFactory returns the plugin factory for the Prometheus exporter.
func NewFactory() plugin.Factory {
	return factory{}
}

func (factory) Name() string {
	return FactoryName
}

func (factory) ConfigType() any {
	return &Config{}
}

func (factory) Setup(cfg any, views *view.Manager, log *zap.Logger) (plugin.Exporter, error) {
	c, ok := cfg.(*Config)
	if !ok {
		return nil, fmt.Errorf("unexpected config type %T", cfg)
	}
	return New(c, views, log), nil
}
