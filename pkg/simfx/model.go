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

// Model owns one engine model handle. Close it when done; a finalizer
// releases it otherwise.
//
// Example:
//
//	m, err := lib.NewModel()
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//	if err := m.LoadData("mooring.yml"); err != nil {
//	    return err
//	}
//	err = m.RunSimulation(nil)
type Model struct {
	lib *Library
	id  string
	log logging.Logger

	mu sync.Mutex
	h  native.Handle
}

// NewModel creates an empty model. A failed create returns no Model and
// leaves nothing to release.
func (l *Library) NewModel(opts ...Option) (*Model, error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	o := l.handleOptions(opts)
	threads, err := toInt32(o.threads)
	if err != nil || threads < 0 {
		return nil, fmt.Errorf("%w: thread count %d", ErrValueRange, o.threads)
	}
	h, err := l.binding.CreateModel(threads)
	if err != nil {
		return nil, err
	}
	m := &Model{lib: l, id: uuid.NewString(), h: h}
	m.log = o.log.With("model", m.id)
	m.log.Debug(context.Background(), "model created", "threads", o.threads)
	runtime.SetFinalizer(m, func(m *Model) {
		_ = m.Close()
	})
	return m, nil
}

// ID is the correlation id attached to the model's log records.
func (m *Model) ID() string { return m.id }

func (m *Model) nativeHandle() (native.Handle, error) {
	if m == nil {
		return 0, ErrClosed
	}
	m.mu.Lock()
	h := m.h
	m.mu.Unlock()
	if h == 0 {
		return 0, ErrClosed
	}
	if err := m.lib.check(); err != nil {
		return 0, err
	}
	return h, nil
}

func (m *Model) library() *Library { return m.lib }

// Close destroys the engine model. Objects obtained from it become invalid.
// It is safe to call Close more than once.
func (m *Model) Close() error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	h := m.h
	m.h = 0
	m.mu.Unlock()
	if h == 0 {
		return nil
	}
	runtime.SetFinalizer(m, nil)
	if m.lib.check() != nil {
		return nil
	}
	err := m.lib.binding.DestroyModel(h)
	m.log.Debug(context.Background(), "model destroyed", "err", err)
	return err
}

func (m *Model) fileOp(op string, fn func(*native.Binding, native.Handle, string) error, file string) error {
	err := do(m, func(b *native.Binding, h native.Handle) error { return fn(b, h, file) })
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, file, err)
	}
	m.log.Debug(context.Background(), op, m.lib.cfg.pathAttr("file", file))
	return nil
}

// LoadData replaces the model with the data file's contents.
func (m *Model) LoadData(file string) error {
	return m.fileOp("load data", (*native.Binding).LoadData, file)
}

// SaveData writes the model data to file.
func (m *Model) SaveData(file string) error {
	return m.fileOp("save data", (*native.Binding).SaveData, file)
}

// LoadSimulation restores data and results from a simulation file.
func (m *Model) LoadSimulation(file string) error {
	return m.fileOp("load simulation", (*native.Binding).LoadSimulation, file)
}

// SaveSimulation writes data and results to file.
func (m *Model) SaveSimulation(file string) error {
	return m.fileOp("save simulation", (*native.Binding).SaveSimulation, file)
}

// LoadDataMem replaces the model with data held in memory.
func (m *Model) LoadDataMem(ft FileType, data []byte) error {
	return do(m, func(b *native.Binding, h native.Handle) error {
		return b.LoadDataMem(h, int32(ft), data)
	})
}

// SaveDataMem returns the model data encoded as ft.
func (m *Model) SaveDataMem(ft FileType) ([]byte, error) {
	return call(m, func(b *native.Binding, h native.Handle) ([]byte, error) {
		return b.SaveDataMem(h, int32(ft))
	})
}

// long logs the start and end of a long-running engine call.
func (m *Model) long(op string, fn func(*native.Binding, native.Handle) error) error {
	ctx := context.Background()
	start := time.Now()
	m.log.Info(ctx, op+" started")
	err := do(m, fn)
	if err != nil {
		m.log.Warn(ctx, op+" failed", "err", err, "elapsed", time.Since(start))
		return fmt.Errorf("%s: %w", op, err)
	}
	m.log.Info(ctx, op+" finished", "elapsed", time.Since(start))
	return nil
}

func textProgress(fn func(string) bool) native.TextProgress {
	if fn == nil {
		return nil
	}
	return func(msg string) bool { return fn(msg) }
}

// CalculateStatics solves the static equilibrium. p may be nil.
func (m *Model) CalculateStatics(p StaticsProgress) error {
	var cb native.TextProgress
	if p != nil {
		cb = textProgress(p.StaticsProgress)
	}
	return m.long("statics", func(b *native.Binding, h native.Handle) error {
		return b.CalculateStatics(h, cb)
	})
}

// RunSimulation runs dynamics to the end of the last stage, calculating
// statics first when needed. p may be nil. A simulation that goes unstable
// stops without error; check State.
func (m *Model) RunSimulation(p DynamicsProgress) error {
	var cb native.DynamicsProgressFunc
	if p != nil {
		cb = func(dp native.DynamicsProgress) bool {
			return p.DynamicsProgress(SimulationProgress(dp))
		}
	}
	return m.long("simulation", func(b *native.Binding, h native.Handle) error {
		return b.RunSimulation(h, cb)
	})
}

// ExtendSimulation lengthens the last stage of a finished simulation by
// duration seconds and runs on.
func (m *Model) ExtendSimulation(duration float64) error {
	return m.long("extend simulation", func(b *native.Binding, h native.Handle) error {
		return b.ExtendSimulation(h, duration)
	})
}

// Reset discards statics and simulation results.
func (m *Model) Reset() error {
	return do(m, func(b *native.Binding, h native.Handle) error { return b.ResetModel(h) })
}

// ProcessBatchScript runs an engine batch script against the model. p may be
// nil.
func (m *Model) ProcessBatchScript(file string, p BatchProgress) error {
	var cb native.TextProgress
	if p != nil {
		cb = textProgress(p.BatchProgress)
	}
	return m.long("batch "+file, func(b *native.Binding, h native.Handle) error {
		return b.ProcessBatchScript(h, file, cb)
	})
}

// State reads the model state from the engine.
func (m *Model) State() (State, error) {
	return call(m, func(b *native.Binding, h native.Handle) (State, error) {
		s, err := b.ModelState(h)
		return State(s), err
	})
}

// SimulationTimeStatus reports the simulation window and progress.
func (m *Model) SimulationTimeStatus() (TimeStatus, error) {
	return call(m, func(b *native.Binding, h native.Handle) (TimeStatus, error) {
		ts, err := b.SimulationTimeStatus(h)
		return TimeStatus(ts), err
	})
}

// ThreadCount returns the model's engine thread count.
func (m *Model) ThreadCount() (int, error) {
	return call(m, func(b *native.Binding, h native.Handle) (int, error) {
		n, err := b.ModelThreadCount(h)
		return int(n), err
	})
}

// SetThreadCount changes the model's engine thread count.
func (m *Model) SetThreadCount(n int) error {
	count, err := toInt32(n)
	if err != nil || count < 1 {
		return fmt.Errorf("%w: thread count %d", ErrValueRange, n)
	}
	return do(m, func(b *native.Binding, h native.Handle) error {
		return b.SetModelThreadCount(h, count)
	})
}

// SampleTimes returns the logged sample times within period.
func (m *Model) SampleTimes(period Period) ([]float64, error) {
	np, err := period.native()
	if err != nil {
		return nil, err
	}
	return call(m, func(b *native.Binding, h native.Handle) ([]float64, error) {
		return b.SampleTimes(h, np)
	})
}

// NumOfSamples returns the number of logged samples within period.
func (m *Model) NumOfSamples(period Period) (int, error) {
	np, err := period.native()
	if err != nil {
		return 0, err
	}
	return call(m, func(b *native.Binding, h native.Handle) (int, error) {
		n, err := b.NumOfSamples(h, np)
		return int(n), err
	})
}
