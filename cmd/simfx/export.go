package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hsiuhsiu/simfx-go/internal/resultstore"
	"github.com/hsiuhsiu/simfx-go/internal/watch"
	"github.com/hsiuhsiu/simfx-go/pkg/simfx"
	"github.com/hsiuhsiu/simfx-go/pkg/simfx/logging"
)

func (a *app) exportCmd() *cobra.Command {
	var (
		object, variable, db string
		node                 int
	)
	cmd := &cobra.Command{
		Use:   "export <simulation>",
		Short: "Store a whole-simulation time history in the results database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, file := cmd.Context(), args[0]
			if db == "" {
				db = a.cfg.ResultsDB
			}
			lib, err := a.library()
			if err != nil {
				return err
			}
			m, err := lib.NewModel()
			if err != nil {
				return err
			}
			defer m.Close()
			if err := m.LoadSimulation(file); err != nil {
				return err
			}
			obj, err := m.ObjectCalled(object)
			if err != nil {
				return err
			}
			period := simfx.WholeSimulation()
			times, err := m.SampleTimes(period)
			if err != nil {
				return err
			}
			values, err := obj.TimeHistory(variable, period, simfx.AtNode(node))
			if err != nil {
				return err
			}

			store, err := resultstore.Open(db)
			if err != nil {
				return err
			}
			defer store.Close()
			id, err := store.Save(ctx, resultstore.Series{
				Source:        filepath.Base(file),
				Object:        obj.Name(),
				Variable:      variable,
				Period:        period.String(),
				Node:          node,
				EngineVersion: lib.Version(),
				Times:         times,
				Values:        values,
			})
			if err != nil {
				return err
			}
			a.log.Info("time history exported", zap.Int64("series", id), zap.String("db", db))
			a.printf("series %d: %d samples of %s %q\n", id, len(values), obj.Name(), variable)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&object, "object", "", "object name")
	f.StringVar(&variable, "var", "", "result variable name")
	f.IntVar(&node, "node", 0, "node, 0-based, for objects with nodes")
	f.StringVar(&db, "db", "", "results database (default from config)")
	_ = cmd.MarkFlagRequired("object")
	_ = cmd.MarkFlagRequired("var")
	return cmd
}

func (a *app) watchCmd() *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch <data>",
		Short: "Recalculate statics whenever the data file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.library(); err != nil {
				return err
			}
			recalc := func(ctx context.Context, path string) error {
				m, err := a.model(path)
				if err != nil {
					return err
				}
				defer m.Close()
				if err := m.CalculateStatics(a.staticsProgress(ctx, path)); err != nil {
					a.printf("%s: statics failed: %v\n", path, err)
					return err
				}
				state, err := m.State()
				if err != nil {
					return err
				}
				a.printf("%s: %s\n", path, state)
				return nil
			}
			if err := recalc(cmd.Context(), args[0]); err != nil {
				a.log.Warn("initial statics failed", zap.Error(err))
			}
			w, err := watch.New(args[0], recalc,
				watch.WithDebounce(debounce),
				watch.WithLogger(logging.NewZap(a.log)))
			if err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			return w.Run(cmd.Context())
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet time before recalculating")
	return cmd
}
