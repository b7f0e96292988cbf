package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hsiuhsiu/simfx-go/internal/batch"
	"github.com/hsiuhsiu/simfx-go/pkg/simfx"
	"github.com/hsiuhsiu/simfx-go/pkg/simfx/logging"
)

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print wrapper and engine versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.printf("simfx-go %s\n", simfx.WrapperVersion())
			lib, err := a.library()
			switch {
			case errors.Is(err, simfx.ErrLibraryNotFound), errors.Is(err, simfx.ErrNotBuilt):
				a.printf("engine unavailable: %v\n", err)
				return nil
			case err != nil:
				return err
			}
			a.printf("engine %s\n", simfx.LibraryVersion(lib))
			features := make([]string, 0, len(lib.Features()))
			for _, f := range lib.Features() {
				features = append(features, string(f))
			}
			a.printf("features: %s\n", strings.Join(features, ", "))
			return nil
		},
	}
}

func (a *app) staticsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "statics <data>",
		Short: "Load a data file and calculate statics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.model(args[0])
			if err != nil {
				return err
			}
			defer m.Close()
			if err := m.CalculateStatics(a.staticsProgress(cmd.Context(), args[0])); err != nil {
				return err
			}
			state, err := m.State()
			if err != nil {
				return err
			}
			a.printf("%s: %s\n", args[0], state)
			return nil
		},
	}
}

func (a *app) runCmd() *cobra.Command {
	var (
		save   string
		extend float64
	)
	cmd := &cobra.Command{
		Use:   "run <data>",
		Short: "Run statics and dynamics for a data file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, file := cmd.Context(), args[0]
			m, err := a.model(file)
			if err != nil {
				return err
			}
			defer m.Close()
			if err := m.CalculateStatics(a.staticsProgress(ctx, file)); err != nil {
				return err
			}
			if err := m.RunSimulation(a.dynamicsProgress(ctx, file)); err != nil {
				return err
			}
			state, err := m.State()
			if err != nil {
				return err
			}
			if extend > 0 {
				if state != simfx.StateSimulationStopped {
					return fmt.Errorf("cannot extend a simulation in state %s", state)
				}
				if err := m.ExtendSimulation(extend); err != nil {
					return err
				}
			}
			ts, err := m.SimulationTimeStatus()
			if err != nil {
				return err
			}
			if save != "" {
				if err := m.SaveSimulation(save); err != nil {
					return err
				}
				a.log.Info("simulation saved", zap.String("file", save))
			}
			if state, err = m.State(); err != nil {
				return err
			}
			a.printf("%s: %s at t=%g (%g to %g)\n", file, state, ts.Current, ts.Start, ts.Stop)
			return nil
		},
	}
	cmd.Flags().StringVar(&save, "save", "", "write the simulation to this file")
	cmd.Flags().Float64Var(&extend, "extend", 0, "extend the finished simulation by this many seconds")
	return cmd
}

func (a *app) batchCmd() *cobra.Command {
	var (
		jobs      int
		keepGoing bool
	)
	cmd := &cobra.Command{
		Use:   "batch <file>...",
		Short: "Process data files and batch scripts in parallel",
		Long: `Each file runs in its own model. Files ending in ` + batch.ScriptExt + ` are engine
batch scripts; any other file is loaded as model data, simulated, and saved
next to the input with the ` + batch.SimulationExt + ` extension.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.library()
			if err != nil {
				return err
			}
			r := &batch.Runner{Lib: lib, Jobs: jobs, KeepGoing: keepGoing, Log: logging.NewZap(a.log)}
			results, err := r.Run(cmd.Context(), args)
			for _, res := range results {
				status := "ok"
				if res.Err != nil {
					status = "failed"
				}
				a.printf("%-6s %s %s %s\n", status, res.File, res.State, res.Elapsed.Round(time.Millisecond))
			}
			return err
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 1, "files to process at once")
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "process every file even after a failure")
	return cmd
}

func (a *app) getCmd() *cobra.Command {
	var row int
	cmd := &cobra.Command{
		Use:   "get <data> <object> <item>",
		Short: "Print one data item of an object",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.model(args[0])
			if err != nil {
				return err
			}
			defer m.Close()
			obj, err := m.ObjectCalled(args[1])
			if err != nil {
				return err
			}
			var v simfx.Value
			if row >= 0 {
				v, err = obj.GetRow(args[2], row)
			} else {
				v, err = obj.Get(args[2])
			}
			if err != nil {
				return err
			}
			a.printf("%s (%s)\n", v, v.Type)
			return nil
		},
	}
	cmd.Flags().IntVar(&row, "row", -1, "table row, 0-based")
	return cmd
}
