package plugin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/linchenxuan/statview/view"
)

var (
	ErrFactoryNotFound     = errors.New("exporter factory not found")
	ErrDuplicateFactory    = errors.New("duplicate exporter factory")
	ErrDuplicateExporter   = errors.New("duplicate exporter")
	ErrInvalidConfigFormat = errors.New("invalid exporter config format")
	ErrConfigDecode        = errors.New("exporter config decode error")
	ErrFactorySetup        = errors.New("exporter setup error")
)

// Registry manages exporter factories and the exporters built from them.
type Registry struct {
	lock      sync.RWMutex
	factories map[string]Factory
	exporters map[string]Exporter
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		exporters: make(map[string]Exporter),
	}
}

// RegisterFactory registers an exporter factory under its name.
func (r *Registry) RegisterFactory(f Factory) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.factories[f.Name()]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateFactory, f.Name())
	}
	r.factories[f.Name()] = f
	return nil
}

// Setup builds and starts one exporter per entry of conf. Each key names a
// registered factory; each value is that exporter's raw configuration, which
// is decoded into the factory's config struct before setup.
func (r *Registry) Setup(conf map[string]any, views *view.Manager, log *zap.Logger) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for name, raw := range conf {
		factory, ok := r.factories[name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrFactoryNotFound, name)
		}

		configMap, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("%w for exporter %q", ErrInvalidConfigFormat, name)
		}

		targetConfig := factory.ConfigType()
		if targetConfig == nil {
			return fmt.Errorf("%w: factory %q did not provide a configuration type", ErrInvalidConfigFormat, name)
		}

		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: false,
			Result:           targetConfig,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create decoder for exporter %q: %v", ErrConfigDecode, name, err)
		}
		if err := decoder.Decode(configMap); err != nil {
			return fmt.Errorf("%w: failed to decode config for exporter %q: %v", ErrConfigDecode, name, err)
		}

		if _, exists := r.exporters[name]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateExporter, name)
		}

		exp, err := factory.Setup(targetConfig, views, log)
		if err != nil {
			return fmt.Errorf("%w: failed to setup exporter %q: %v", ErrFactorySetup, name, err)
		}
		if err := exp.Start(); err != nil {
			return fmt.Errorf("%w: failed to start exporter %q: %v", ErrFactorySetup, name, err)
		}
		r.exporters[name] = exp
		log.Info("exporter started", zap.String("exporter", name))
	}
	return nil
}

// Exporter returns the running exporter built from the named factory.
func (r *Registry) Exporter(name string) (Exporter, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	exp, ok := r.exporters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFactoryNotFound, name)
	}
	return exp, nil
}

// StopAll stops every running exporter and returns the combined errors.
func (r *Registry) StopAll() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	var err error
	for name, exp := range r.exporters {
		if stopErr := exp.Stop(); stopErr != nil {
			err = multierr.Append(err, fmt.Errorf("exporter %q: %w", name, stopErr))
		}
		delete(r.exporters, name)
	}
	return err
}
