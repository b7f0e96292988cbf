package simfx_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/simfx-go/internal/enginetest"
	"github.com/hsiuhsiu/simfx-go/pkg/simfx"
)

func wantTimes(from, to, step float64) []float64 {
	var out []float64
	for t := from; t <= to+1e-9; t += step {
		out = append(out, t)
	}
	return out
}

func TestStaticsProgress(t *testing.T) {
	_, lib := openLibrary(t, enginetest.WithStaticsMessages("one", "two", "three"))
	m := newModel(t, lib)
	newLine(t, m)

	var msgs []string
	var seen []simfx.State
	require.NoError(t, m.CalculateStatics(simfx.StaticsProgressFunc(func(msg string) bool {
		msgs = append(msgs, msg)
		s, err := m.State()
		require.NoError(t, err)
		seen = append(seen, s)
		return false
	})))
	assert.Equal(t, []string{"one", "two", "three"}, msgs)
	for _, s := range seen {
		assert.Equal(t, simfx.StateCalculatingStatics, s)
	}

	s, err := m.State()
	require.NoError(t, err)
	assert.Equal(t, simfx.StateInStaticState, s)
	assert.True(t, s.HasResults())
}

func TestStaticsCancel(t *testing.T) {
	_, lib := openLibrary(t)
	m := newModel(t, lib)
	newLine(t, m)

	calls := 0
	err := m.CalculateStatics(simfx.StaticsProgressFunc(func(string) bool {
		calls++
		return true
	}))
	assert.ErrorIs(t, err, simfx.ErrOperationCancelled)
	assert.Equal(t, 1, calls)

	s, err := m.State()
	require.NoError(t, err)
	assert.Equal(t, simfx.StateReset, s)
}

func TestStaticsWithoutProgress(t *testing.T) {
	_, lib := openLibrary(t)
	m := newModel(t, lib)
	line, err := m.CreateObject(simfx.ObjectLine)
	require.NoError(t, err)

	err = m.CalculateStatics(nil)
	assert.ErrorIs(t, err, simfx.ErrInvalidParameter)

	require.NoError(t, line.Set("Length", 50.0))
	require.NoError(t, m.CalculateStatics(nil))
}

func TestStaticResults(t *testing.T) {
	_, lib := openLibrary(t)
	m := newModel(t, lib)
	line := newLine(t, m)
	require.NoError(t, m.CalculateStatics(nil))

	names, err := line.VarNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y", "Z", "Effective Tension", "Curvature"}, names)

	// Effective Tension is variable 4; host node 1 is the engine's node 2.
	v, err := line.StaticResult("Effective Tension", simfx.AtNode(1))
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)

	_, err = line.StaticResult("Bend Moment", simfx.AtNode(0))
	assert.ErrorIs(t, err, simfx.ErrUnknownDataName)
	_, err = line.StaticResult("X", simfx.AtNode(11))
	assert.ErrorIs(t, err, simfx.ErrIndexOutOfRange)
	_, err = line.StaticResult("X", simfx.AtNode(-1))
	assert.ErrorIs(t, err, simfx.ErrInvalidIndex)

	times, err := m.SampleTimes(simfx.StaticState())
	require.NoError(t, err)
	assert.Equal(t, []float64{-8}, times)
}

func TestSimulationResults(t *testing.T) {
	_, lib := openLibrary(t)
	m := newModel(t, lib)
	line := newLine(t, m)

	var last simfx.SimulationProgress
	ticks := 0
	require.NoError(t, m.RunSimulation(simfx.DynamicsProgressFunc(func(p simfx.SimulationProgress) bool {
		ticks++
		last = p
		return false
	})))
	assert.Positive(t, ticks)
	assert.Equal(t, 16.0, last.Time)
	assert.Equal(t, 1.0, last.Fraction())

	s, err := m.State()
	require.NoError(t, err)
	assert.Equal(t, simfx.StateSimulationStopped, s)

	times, err := m.SampleTimes(simfx.WholeSimulation())
	require.NoError(t, err)
	if diff := cmp.Diff(wantTimes(-8, 16, 0.5), times); diff != "" {
		t.Errorf("sample times (-want +got):\n%s", diff)
	}
	n, err := m.NumOfSamples(simfx.WholeSimulation())
	require.NoError(t, err)
	assert.Equal(t, len(times), n)

	buildUp, err := m.SampleTimes(simfx.Stage(0))
	require.NoError(t, err)
	assert.Equal(t, wantTimes(-8, 0, 0.5), buildUp)
	stage1, err := m.SampleTimes(simfx.Stage(1))
	require.NoError(t, err)
	assert.Equal(t, wantTimes(0, 16, 0.5), stage1)
	_, err = m.SampleTimes(simfx.Stage(2))
	assert.ErrorIs(t, err, simfx.ErrInvalidParameter)

	x, err := line.TimeHistory("X", simfx.WholeSimulation(), simfx.AtNode(0))
	require.NoError(t, err)
	require.Len(t, x, len(times))
	for i, tm := range times {
		assert.InDelta(t, 11+tm, x[i], 1e-9)
	}

	window, err := line.TimeHistory("X", simfx.SpecifiedPeriod(1, 2), simfx.AtNode(0))
	require.NoError(t, err)
	assert.Equal(t, []float64{12, 12.5, 13}, window)

	ts, err := m.SimulationTimeStatus()
	require.NoError(t, err)
	assert.Equal(t, simfx.TimeStatus{Start: -8, Stop: 16, Current: 16}, ts)
}

func TestSimulationCancel(t *testing.T) {
	_, lib := openLibrary(t)
	m := newModel(t, lib)
	newLine(t, m)

	err := m.RunSimulation(simfx.DynamicsProgressFunc(func(p simfx.SimulationProgress) bool {
		return p.Time >= 2
	}))
	assert.ErrorIs(t, err, simfx.ErrOperationCancelled)

	s, err := m.State()
	require.NoError(t, err)
	assert.Equal(t, simfx.StateSimulationStopped, s)
}

func TestUnstableSimulationIsNotAnError(t *testing.T) {
	_, lib := openLibrary(t, enginetest.WithUnstableAt(3))
	m := newModel(t, lib)
	newLine(t, m)

	require.NoError(t, m.RunSimulation(nil))
	s, err := m.State()
	require.NoError(t, err)
	assert.Equal(t, simfx.StateSimulationStoppedUnstable, s)
	assert.True(t, s.HasResults())
}

func TestExtendSimulation(t *testing.T) {
	_, lib := openLibrary(t)
	m := newModel(t, lib)
	newLine(t, m)

	assert.ErrorIs(t, m.ExtendSimulation(4), simfx.ErrModelState)
	require.NoError(t, m.RunSimulation(nil))
	require.NoError(t, m.ExtendSimulation(4))

	ts, err := m.SimulationTimeStatus()
	require.NoError(t, err)
	assert.Equal(t, simfx.TimeStatus{Start: -8, Stop: 20, Current: 20}, ts)

	require.NoError(t, m.Reset())
	s, err := m.State()
	require.NoError(t, err)
	assert.Equal(t, simfx.StateReset, s)
}

func TestSimulationFileRoundTrip(t *testing.T) {
	_, lib := openLibrary(t)
	m := newModel(t, lib)
	newLine(t, m)
	require.NoError(t, m.RunSimulation(nil))

	file := filepath.Join(t.TempDir(), "run.sim")
	require.NoError(t, m.SaveSimulation(file))

	loaded := newModel(t, lib)
	require.NoError(t, loaded.LoadSimulation(file))
	s, err := loaded.State()
	require.NoError(t, err)
	assert.Equal(t, simfx.StateSimulationStopped, s)

	line, err := loaded.ObjectCalled("Line1")
	require.NoError(t, err)
	v, err := line.StaticResult("Effective Tension", simfx.AtNode(1))
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)
}

func TestProcessBatchScript(t *testing.T) {
	_, lib := openLibrary(t)
	dir := t.TempDir()

	src := newModel(t, lib)
	newLine(t, src)
	require.NoError(t, src.SaveData(filepath.Join(dir, "moor.yml")))

	script := "# nightly run\nLoadData moor.yml\nRunSimulation\nSaveSimulation moor.sim\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "run.txt"), []byte(script), 0o644))

	m := newModel(t, lib)
	var steps []string
	require.NoError(t, m.ProcessBatchScript(filepath.Join(dir, "run.txt"), simfx.BatchProgressFunc(func(msg string) bool {
		steps = append(steps, msg)
		return false
	})))
	assert.Equal(t, []string{"line 2: LoadData moor.yml", "line 3: RunSimulation", "line 4: SaveSimulation moor.sim"}, steps)
	assert.FileExists(t, filepath.Join(dir, "moor.sim"))

	err := m.ProcessBatchScript(filepath.Join(dir, "run.txt"), simfx.BatchProgressFunc(func(string) bool { return true }))
	assert.ErrorIs(t, err, simfx.ErrOperationCancelled)
}

func TestDiffraction(t *testing.T) {
	_, lib := openLibrary(t)
	d, err := lib.NewDiffraction()
	require.NoError(t, err)
	defer d.Close()

	depth, err := d.Double("WaterDepth")
	require.NoError(t, err)
	assert.Equal(t, 100.0, depth)
	require.NoError(t, d.SetRowCount("Headings", 1))

	_, err = d.Output(simfx.OutputPeriods)
	assert.ErrorIs(t, err, simfx.ErrModelState)

	var msgs []string
	require.NoError(t, d.Calculate(simfx.DiffractionProgressFunc(func(msg string) bool {
		msgs = append(msgs, msg)
		return false
	})))
	assert.Len(t, msgs, 3)

	s, err := d.State()
	require.NoError(t, err)
	assert.Equal(t, simfx.DiffractionCalculated, s)

	added, err := d.Output(simfx.OutputAddedMass)
	require.NoError(t, err)
	assert.Equal(t, []float64{20, 10, 100.0 / 15}, added)
	headings, err := d.Output(simfx.OutputHeadings)
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, headings)

	file := filepath.Join(t.TempDir(), "rao.yml")
	require.NoError(t, d.SaveResults(file))
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
	_, err = d.State()
	assert.ErrorIs(t, err, simfx.ErrClosed)

	again, err := lib.NewDiffraction()
	require.NoError(t, err)
	defer again.Close()
	require.NoError(t, again.LoadResults(file))
	periods, err := again.Output(simfx.OutputPeriods)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 10, 15}, periods)
}

func TestDiffractionNotSupported(t *testing.T) {
	_, lib := openLibrary(t, enginetest.WithVersion("10.4"))
	_, err := lib.NewDiffraction()
	assert.ErrorIs(t, err, simfx.ErrNotSupported)
}
