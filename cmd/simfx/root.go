package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hsiuhsiu/simfx-go/pkg/simfx"
)

// app holds the state shared by every command.
type app struct {
	out io.Writer

	configPath string
	cfg        fileConfig

	// open loads the engine; tests substitute an in-process engine.
	open func(simfx.Config) (*simfx.Library, error)
	log  *zap.Logger
	lib  *simfx.Library
}

func newApp(out io.Writer) *app {
	return &app{out: out, open: simfx.Open, cfg: defaultConfig()}
}

func (a *app) rootCmd() *cobra.Command {
	var (
		library, requiredVersion, logLevel string
		threads                            int
	)
	root := &cobra.Command{
		Use:           "simfx",
		Short:         "Run simulation engine models from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, explicit := a.configPath, true
			if path == "" {
				path, explicit = DefaultConfigFile, false
			}
			cfg, err := loadConfig(path, explicit)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("library") {
				cfg.Library = library
			}
			if flags.Changed("threads") {
				cfg.Threads = threads
			}
			if flags.Changed("required-version") {
				cfg.RequiredVersion = requiredVersion
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			a.cfg = cfg
			if a.log == nil {
				if a.log, err = newLogger(cfg.LogLevel); err != nil {
					return err
				}
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "configuration file (default ./"+DefaultConfigFile+" when present)")
	pf.StringVar(&library, "library", "", "engine library path")
	pf.IntVar(&threads, "threads", 0, "engine threads per model (0 lets the engine choose)")
	pf.StringVar(&requiredVersion, "required-version", "", "minimum engine version")
	pf.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(
		a.versionCmd(),
		a.staticsCmd(),
		a.runCmd(),
		a.batchCmd(),
		a.getCmd(),
		a.exportCmd(),
		a.watchCmd(),
	)
	return root
}

// execute runs root and then releases the engine and flushes the logger,
// whether or not the command failed.
func (a *app) execute(ctx context.Context, root *cobra.Command) (err error) {
	defer func() {
		err = errors.Join(err, a.close())
	}()
	return root.ExecuteContext(ctx)
}

// library opens the engine on first use.
func (a *app) library() (*simfx.Library, error) {
	if a.lib != nil {
		return a.lib, nil
	}
	lib, err := a.open(a.cfg.simfxConfig(a.log))
	if err != nil {
		return nil, err
	}
	a.lib = lib
	return lib, nil
}

// model opens the engine and loads file into a fresh model.
func (a *app) model(file string) (*simfx.Model, error) {
	lib, err := a.library()
	if err != nil {
		return nil, err
	}
	m, err := lib.NewModel()
	if err != nil {
		return nil, err
	}
	if err := m.LoadData(file); err != nil {
		m.Close()
		return nil, err
	}
	return m, nil
}

func (a *app) close() error {
	var err error
	if a.lib != nil {
		err = a.lib.Close()
		a.lib = nil
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return err
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// staticsProgress logs each solver message. Cancelling ctx stops the
// engine.
func (a *app) staticsProgress(ctx context.Context, file string) simfx.StaticsProgress {
	return simfx.StaticsProgressFunc(func(msg string) bool {
		a.log.Info("statics", zap.String("file", file), zap.String("message", msg))
		return ctx.Err() != nil
	})
}

// dynamicsProgress logs simulation progress at most once per tenth of the run.
func (a *app) dynamicsProgress(ctx context.Context, file string) simfx.DynamicsProgress {
	next := 0.0
	return simfx.DynamicsProgressFunc(func(p simfx.SimulationProgress) bool {
		if f := p.Fraction(); f >= next {
			a.log.Info("simulation", zap.String("file", file), zap.Float64("time", p.Time), zap.Float64("fraction", f))
			next = f + 0.1
		}
		return ctx.Err() != nil
	})
}
