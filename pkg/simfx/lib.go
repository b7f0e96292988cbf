package simfx

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/hsiuhsiu/simfx-go/internal/native"
	"github.com/hsiuhsiu/simfx-go/pkg/simfx/logging"
)

// Library is the loaded engine. It is safe to share between goroutines; the
// engine decides whether concurrent calls on one model are allowed.
type Library struct {
	cfg     Config
	binding *native.Binding
	log     logging.Logger

	closeMu sync.Mutex
	closed  atomic.Bool
}

// Open locates and loads the engine library, checks its version and probes
// its optional feature groups.
func Open(cfg Config) (*Library, error) {
	path, err := cfg.resolveLibraryPath()
	if err != nil {
		return nil, err
	}

	var opts []native.Option
	if cfg.RequiredVersion != "" {
		opts = append(opts, native.WithRequiredVersion(cfg.RequiredVersion))
	}
	b, err := native.Load(path, opts...)
	if err != nil {
		return nil, remapError(err)
	}

	lib := FromBinding(b, cfg)
	lib.log.Info(context.Background(), "engine library opened",
		cfg.pathAttr("path", path), "version", b.Version(), "features", b.Features())
	return lib, nil
}

// FromBinding wraps an already constructed binding. Open is the usual entry
// point; this exists for in-process engines.
func FromBinding(b *native.Binding, cfg Config) *Library {
	return &Library{cfg: cfg, binding: b, log: cfg.logger()}
}

// Close unloads the engine library. Models and analyses created from it
// become unusable. Calling Close twice returns ErrClosed.
func (l *Library) Close() error {
	if l == nil {
		return nil
	}
	l.closeMu.Lock()
	defer l.closeMu.Unlock()
	if l.closed.Load() {
		return ErrClosed
	}
	if err := l.binding.Close(); err != nil {
		return remapError(err)
	}
	l.closed.Store(true)
	l.log.Info(context.Background(), "engine library closed")
	return nil
}

// Version returns the engine version string, for example "11.4a".
func (l *Library) Version() string { return l.binding.Version() }

// DefaultReal returns the engine's sentinel for a double that has no value.
func (l *Library) DefaultReal() float64 { return l.binding.DefaultReal() }

// Features lists the optional feature groups the engine supports.
func (l *Library) Features() []Feature {
	fs := l.binding.Features()
	out := make([]Feature, len(fs))
	for i, f := range fs {
		out[i] = Feature(f)
	}
	return out
}

// Has reports whether the engine supports feature group f.
func (l *Library) Has(f Feature) bool { return l.binding.Has(native.Feature(f)) }

func (l *Library) check() error {
	if l == nil || l.closed.Load() {
		return ErrClosed
	}
	return nil
}

// Feature names an optional group of engine entry points.
type Feature string

const (
	FeatureMemoryData       = Feature(native.FeatureMemoryData)
	FeatureExtendSimulation = Feature(native.FeatureExtendSimulation)
	FeatureThreadCount      = Feature(native.FeatureThreadCount)
	FeatureDataChange       = Feature(native.FeatureDataChange)
	FeatureDiffraction      = Feature(native.FeatureDiffraction)
)
