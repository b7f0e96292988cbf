// Package batch runs many data files through the engine in parallel, one
// model per file.
package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hsiuhsiu/simfx-go/pkg/simfx"
	"github.com/hsiuhsiu/simfx-go/pkg/simfx/logging"
)

// ScriptExt marks a file as an engine batch script rather than model data.
const ScriptExt = ".txt"

// SimulationExt is the extension of the simulation file written next to
// each simulated data file.
const SimulationExt = ".sim"

// Result is the outcome of one file.
type Result struct {
	File    string
	Output  string
	State   simfx.State
	Elapsed time.Duration
	Err     error
}

// Runner processes files concurrently. The zero Jobs value runs one file at
// a time.
type Runner struct {
	Lib  *simfx.Library
	Jobs int
	Log  logging.Logger

	// KeepGoing runs every file even after one fails. Otherwise the first
	// failure cancels the files still running.
	KeepGoing bool
}

// Run processes files and returns one Result per file, in input order. The
// returned error joins every file's failure.
func (r *Runner) Run(ctx context.Context, files []string) ([]Result, error) {
	log := r.Log
	if log == nil {
		log = logging.Nop()
	}
	jobs := max(r.Jobs, 1)

	results := make([]Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	var mu sync.Mutex
	var errs []error
	for i, file := range files {
		g.Go(func() error {
			res := r.runFile(gctx, log.With("file", filepath.Base(file)), file)
			results[i] = res
			if res.Err == nil {
				return nil
			}
			mu.Lock()
			errs = append(errs, fmt.Errorf("%s: %w", file, res.Err))
			mu.Unlock()
			if r.KeepGoing {
				return nil
			}
			return res.Err
		})
	}
	_ = g.Wait()
	return results, errors.Join(errs...)
}

func (r *Runner) runFile(ctx context.Context, log logging.Logger, file string) (res Result) {
	res.File = file
	start := time.Now()
	defer func() { res.Elapsed = time.Since(start) }()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	m, err := r.Lib.NewModel(simfx.WithLogger(log))
	if err != nil {
		res.Err = err
		return res
	}
	defer m.Close()

	// A cancelled context stops the engine at its next progress report.
	cancelled := func() bool { return ctx.Err() != nil }

	if strings.EqualFold(filepath.Ext(file), ScriptExt) {
		err = m.ProcessBatchScript(file, simfx.BatchProgressFunc(func(msg string) bool {
			log.Debug(ctx, "batch step", "step", msg)
			return cancelled()
		}))
	} else {
		err = r.simulate(m, file, cancelled)
		if err == nil {
			res.Output = strings.TrimSuffix(file, filepath.Ext(file)) + SimulationExt
			err = m.SaveSimulation(res.Output)
		}
	}
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, simfx.ErrOperationCancelled) {
			err = fmt.Errorf("%w: %w", ctx.Err(), err)
		}
		res.Err = err
	}
	if s, serr := m.State(); serr == nil {
		res.State = s
	}
	log.Info(ctx, "file done", "state", res.State, "elapsed", time.Since(start), "err", res.Err)
	return res
}

func (r *Runner) simulate(m *simfx.Model, file string, cancelled func() bool) error {
	if err := m.LoadData(file); err != nil {
		return err
	}
	if err := m.CalculateStatics(simfx.StaticsProgressFunc(func(string) bool { return cancelled() })); err != nil {
		return err
	}
	return m.RunSimulation(simfx.DynamicsProgressFunc(func(simfx.SimulationProgress) bool { return cancelled() }))
}
