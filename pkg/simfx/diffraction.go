package simfx

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hsiuhsiu/simfx-go/internal/native"
	"github.com/hsiuhsiu/simfx-go/pkg/simfx/logging"
)

// Diffraction owns one engine diffraction analysis. Its data items are read
// and written like a model object's.
type Diffraction struct {
	dataHandle

	lib *Library
	id  string
	log logging.Logger

	mu sync.Mutex
	h  native.Handle
}

// NewDiffraction creates an empty diffraction analysis. It returns
// ErrNotSupported when the engine lacks the diffraction feature.
func (l *Library) NewDiffraction(opts ...Option) (*Diffraction, error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	o := l.handleOptions(opts)
	threads, err := toInt32(o.threads)
	if err != nil || threads < 0 {
		return nil, fmt.Errorf("%w: thread count %d", ErrValueRange, o.threads)
	}
	h, err := l.binding.CreateDiffraction(threads)
	if err != nil {
		return nil, err
	}
	d := &Diffraction{lib: l, id: uuid.NewString(), h: h}
	d.dataHandle = dataHandle{src: d}
	d.log = o.log.With("diffraction", d.id)
	d.log.Debug(context.Background(), "diffraction created", "threads", o.threads)
	runtime.SetFinalizer(d, func(d *Diffraction) {
		_ = d.Close()
	})
	return d, nil
}

func (d *Diffraction) nativeHandle() (native.Handle, error) {
	if d == nil {
		return 0, ErrClosed
	}
	d.mu.Lock()
	h := d.h
	d.mu.Unlock()
	if h == 0 {
		return 0, ErrClosed
	}
	if err := d.lib.check(); err != nil {
		return 0, err
	}
	return h, nil
}

func (d *Diffraction) library() *Library { return d.lib }

// ID is the correlation id attached to the analysis' log records.
func (d *Diffraction) ID() string { return d.id }

// Close destroys the analysis. It is safe to call Close more than once.
func (d *Diffraction) Close() error {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	h := d.h
	d.h = 0
	d.mu.Unlock()
	if h == 0 {
		return nil
	}
	runtime.SetFinalizer(d, nil)
	if d.lib.check() != nil {
		return nil
	}
	err := d.lib.binding.DestroyDiffraction(h)
	d.log.Debug(context.Background(), "diffraction destroyed", "err", err)
	return err
}

func (d *Diffraction) fileOp(op string, fn func(*native.Binding, native.Handle, string) error, file string) error {
	err := do(d, func(b *native.Binding, h native.Handle) error { return fn(b, h, file) })
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, file, err)
	}
	d.log.Debug(context.Background(), op, d.lib.cfg.pathAttr("file", file))
	return nil
}

// LoadData replaces the analysis data with the file's contents.
func (d *Diffraction) LoadData(file string) error {
	return d.fileOp("load diffraction data", (*native.Binding).LoadDiffractionData, file)
}

// SaveData writes the analysis data to file.
func (d *Diffraction) SaveData(file string) error {
	return d.fileOp("save diffraction data", (*native.Binding).SaveDiffractionData, file)
}

// LoadResults restores a calculated analysis from file.
func (d *Diffraction) LoadResults(file string) error {
	return d.fileOp("load diffraction results", (*native.Binding).LoadDiffractionResults, file)
}

// SaveResults writes the calculated analysis to file.
func (d *Diffraction) SaveResults(file string) error {
	return d.fileOp("save diffraction results", (*native.Binding).SaveDiffractionResults, file)
}

// Calculate solves the analysis. p may be nil.
func (d *Diffraction) Calculate(p DiffractionProgress) error {
	var cb native.TextProgress
	if p != nil {
		cb = textProgress(p.DiffractionProgress)
	}
	ctx := context.Background()
	start := time.Now()
	d.log.Info(ctx, "diffraction started")
	err := do(d, func(b *native.Binding, h native.Handle) error {
		return b.CalculateDiffraction(h, cb)
	})
	if err != nil {
		d.log.Warn(ctx, "diffraction failed", "err", err)
		return fmt.Errorf("diffraction: %w", err)
	}
	d.log.Info(ctx, "diffraction finished", "elapsed", time.Since(start))
	return nil
}

// State reads the analysis state from the engine.
func (d *Diffraction) State() (DiffractionState, error) {
	return call(d, func(b *native.Binding, h native.Handle) (DiffractionState, error) {
		s, err := b.DiffractionState(h)
		return DiffractionState(s), err
	})
}

// Output returns one output vector of a calculated analysis.
func (d *Diffraction) Output(kind DiffractionOutput) ([]float64, error) {
	return call(d, func(b *native.Binding, h native.Handle) ([]float64, error) {
		return b.DiffractionOutput(h, int32(kind))
	})
}
