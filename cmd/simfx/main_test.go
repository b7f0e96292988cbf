package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hsiuhsiu/simfx-go/internal/enginetest"
	"github.com/hsiuhsiu/simfx-go/internal/resultstore"
	"github.com/hsiuhsiu/simfx-go/pkg/simfx"
)

type harness struct {
	eng *enginetest.Engine
	dir string
	lib *simfx.Library
}

func newHarness(t *testing.T) *harness {
	return &harness{eng: enginetest.New(), dir: t.TempDir()}
}

// run executes the CLI against the in-process engine and returns stdout.
func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := newApp(&out)
	a.log = zap.NewNop()
	a.open = func(cfg simfx.Config) (*simfx.Library, error) {
		h.lib = simfx.FromBinding(h.eng.Binding(t), cfg)
		return h.lib, nil
	}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	err := a.execute(context.Background(), root)
	return out.String(), err
}

// data writes a model with one line to the harness directory.
func (h *harness) data(t *testing.T, name string) string {
	t.Helper()
	lib := simfx.FromBinding(h.eng.Binding(t), simfx.Config{})
	m, err := lib.NewModel()
	require.NoError(t, err)
	defer m.Close()
	line, err := m.CreateObject(simfx.ObjectLine)
	require.NoError(t, err)
	require.NoError(t, line.Set("Length", 100.0))
	path := filepath.Join(h.dir, name)
	require.NoError(t, m.SaveData(path))
	return path
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "simfx-go "+simfx.WrapperVersion())
	assert.Contains(t, out, "engine "+enginetest.DefaultVersion)
	assert.Contains(t, out, "thread-count")
}

func TestVersionWithoutEngine(t *testing.T) {
	var out bytes.Buffer
	a := newApp(&out)
	a.log = zap.NewNop()
	a.open = func(simfx.Config) (*simfx.Library, error) { return nil, simfx.ErrLibraryNotFound }
	root := a.rootCmd()
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "engine unavailable")
}

func TestStatics(t *testing.T) {
	h := newHarness(t)
	file := h.data(t, "moor.yml")
	out, err := h.run(t, "statics", file)
	require.NoError(t, err)
	assert.Contains(t, out, "InStaticState")
}

func TestStaticsMissingFile(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "statics", filepath.Join(h.dir, "absent.yml"))
	assert.ErrorIs(t, err, simfx.ErrFileNotFound)

	require.NotNil(t, h.lib)
	assert.ErrorIs(t, h.lib.Close(), simfx.ErrClosed, "failed command still unloads the engine")
	assert.Zero(t, h.eng.LiveModels())
}

func TestRunExtendAndSave(t *testing.T) {
	h := newHarness(t)
	file := h.data(t, "moor.yml")
	sim := filepath.Join(h.dir, "moor.sim")

	out, err := h.run(t, "run", file, "--extend", "4", "--save", sim)
	require.NoError(t, err)
	assert.Contains(t, out, "SimulationStopped at t=20 (-8 to 20)")
	assert.FileExists(t, sim)
}

func TestGet(t *testing.T) {
	h := newHarness(t)
	file := h.data(t, "moor.yml")

	out, err := h.run(t, "get", file, "Line1", "SegmentCount")
	require.NoError(t, err)
	assert.Equal(t, "10 (Integer)\n", out)

	out, err = h.run(t, "get", file, "General", "StageDuration", "--row", "1")
	require.NoError(t, err)
	assert.Equal(t, "16 (Double)\n", out)

	_, err = h.run(t, "get", file, "Line1", "Colour")
	assert.ErrorIs(t, err, simfx.ErrUnknownDataName)
}

func TestBatch(t *testing.T) {
	h := newHarness(t)
	a := h.data(t, "a.yml")
	b := h.data(t, "b.yml")

	out, err := h.run(t, "batch", "-j", "2", a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "ok     "+a)
	assert.Contains(t, out, "ok     "+b)
	assert.FileExists(t, filepath.Join(h.dir, "a.sim"))
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	file := h.data(t, "moor.yml")
	sim := filepath.Join(h.dir, "moor.sim")
	_, err := h.run(t, "run", file, "--save", sim)
	require.NoError(t, err)

	db := filepath.Join(h.dir, "results.db")
	out, err := h.run(t, "export", sim, "--object", "Line1", "--var", "Effective Tension", "--node", "1", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "series 1: 49 samples")

	store, err := resultstore.Open(db)
	require.NoError(t, err)
	defer store.Close()
	ser, err := store.Load(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Line1", ser.Object)
	assert.Equal(t, enginetest.DefaultVersion, ser.EngineVersion)
	require.Len(t, ser.Values, 49)
	assert.Equal(t, -8.0, ser.Times[0])
	assert.Equal(t, 42.0-8, ser.Values[0])
}

func TestExportRequiresFlags(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "export", "moor.sim")
	assert.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "simfx.yml")
	require.NoError(t, os.WriteFile(path, []byte("library: /opt/simfx/libsimfx.so\nthreads: 3\nlog_level: debug\n"), 0o644))

	cfg, err := loadConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, "/opt/simfx/libsimfx.so", cfg.Library)
	assert.Equal(t, 3, cfg.Threads)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "results.db", cfg.ResultsDB)

	require.NoError(t, os.WriteFile(path, []byte("threds: 3\n"), 0o644))
	_, err = loadConfig(path, true)
	assert.Error(t, err)

	_, err = loadConfig(filepath.Join(dir, "absent.yml"), true)
	assert.Error(t, err)
	cfg, err = loadConfig(filepath.Join(dir, "absent.yml"), false)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestFlagsOverrideConfig(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(h.dir, "simfx.yml")
	require.NoError(t, os.WriteFile(path, []byte("threads: 3\n"), 0o644))

	var got simfx.Config
	var out bytes.Buffer
	a := newApp(&out)
	a.log = zap.NewNop()
	a.open = func(cfg simfx.Config) (*simfx.Library, error) {
		got = cfg
		return simfx.FromBinding(h.eng.Binding(t), cfg), nil
	}
	root := a.rootCmd()
	root.SetArgs([]string{"version", "--config", path, "--threads", "5", "--library", "engine.so"})
	require.NoError(t, root.Execute())
	assert.Equal(t, 5, got.ThreadCount)
	assert.Equal(t, "engine.so", got.LibraryPath)
}
