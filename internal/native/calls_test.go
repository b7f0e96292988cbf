package native_test

import (
	"path/filepath"
	"strings"
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/simfx-go/internal/enginetest"
	"github.com/hsiuhsiu/simfx-go/internal/native"
)

func newModel(t *testing.T, eng *enginetest.Engine) (*native.Binding, native.Handle) {
	t.Helper()
	b := eng.Binding(t)
	h, err := b.CreateModel(2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.DestroyModel(h) })
	return b, h
}

func newLine(t *testing.T, b *native.Binding, model native.Handle) native.Handle {
	t.Helper()
	line, err := b.CreateObject(model, enginetest.TypeLine)
	require.NoError(t, err)
	require.NoError(t, b.SetDataDouble(line, "Length", 0, 120))
	return line
}

func TestGetDataDoubleUnsetIsNotAnError(t *testing.T) {
	eng := enginetest.New()
	b, h := newModel(t, eng)
	line, err := b.CreateObject(h, enginetest.TypeLine)
	require.NoError(t, err)

	reads := eng.ErrorStringReads()
	v, ok, err := b.GetDataDouble(line, "Length", 0)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, v)
	assert.Equal(t, reads, eng.ErrorStringReads(), "value-not-available must not reach the translator")

	require.NoError(t, b.SetDataDouble(line, "Length", 0, 75.5))
	v, ok, err = b.GetDataDouble(line, "Length", 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 75.5, v)
}

func TestValueNotAvailableRaisesElsewhere(t *testing.T) {
	eng := enginetest.New()
	b, h := newModel(t, eng)
	line := newLine(t, b, h)

	eng.Fail("C_GetDataInteger", native.StatusValueNotAvailable, "no value")
	_, err := b.GetDataInteger(line, "SegmentCount", 0)
	assert.Equal(t, native.StatusValueNotAvailable, native.StatusOf(err))
}

func TestGetDataStringMeasureThenFill(t *testing.T) {
	eng := enginetest.New()
	b, h := newModel(t, eng)
	general, err := b.ObjectCalled(h, "General")
	require.NoError(t, err)
	g := native.Handle(general.Handle)

	for _, s := range []string{"", "short", strings.Repeat("long title ", 500), "waves 🌊🌊 and ünïcødé"} {
		require.NoError(t, b.SetDataString(g, "Title", 0, s))
		got, err := b.GetDataString(g, "Title", 0)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	assert.Equal(t, 8, eng.Calls("C_GetDataString"), "every read is exactly two calls")
}

func TestVarNamesMeasureThenFill(t *testing.T) {
	eng := enginetest.New()
	b, h := newModel(t, eng)
	line := newLine(t, b, h)

	names, err := b.VarNames(line)
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y", "Z", "Effective Tension", "Curvature"}, names)

	general, err := b.ObjectCalled(h, "General")
	require.NoError(t, err)
	names, err = b.VarNames(native.Handle(general.Handle))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestObjectList(t *testing.T) {
	eng := enginetest.New()
	b, h := newModel(t, eng)
	line := newLine(t, b, h)
	_, err := b.CreateObject(h, enginetest.TypeBuoy)
	require.NoError(t, err)

	infos, err := b.ObjectList(h)
	require.NoError(t, err)
	var names []string
	for _, info := range infos {
		names = append(names, info.ObjectName())
	}
	assert.Equal(t, []string{"General", "Environment", "Line1", "Buoy1"}, names)
	assert.Equal(t, uint64(line), infos[2].Handle)
	assert.Equal(t, enginetest.TypeLine, infos[2].Type)

	require.NoError(t, b.DestroyObject(line))
	infos, err = b.ObjectList(h)
	require.NoError(t, err)
	assert.Len(t, infos, 3)
}

func TestFillReportingMoreThanMeasured(t *testing.T) {
	eng := enginetest.New()
	procs := eng.Procs()
	list := procs.GetObjectList
	procs.GetObjectList = func(model uintptr, infos unsafe.Pointer, count *int32, status *int32) {
		list(model, infos, count, status)
		if infos != nil {
			*count++
		}
	}
	save := procs.SaveDataMem
	procs.SaveDataMem = func(h uintptr, fileType int32, buf unsafe.Pointer, size *int64, status *int32) {
		save(h, fileType, buf, size, status)
		if buf != nil {
			*size += 8
		}
	}
	b, err := native.NewBinding(procs)
	require.NoError(t, err)
	h, err := b.CreateModel(0)
	require.NoError(t, err)
	defer b.DestroyModel(h)

	_, err = b.ObjectList(h)
	assert.Equal(t, native.StatusBufferTooSmall, native.StatusOf(err))
	_, err = b.SaveDataMem(h, native.FileTypeText)
	assert.Equal(t, native.StatusBufferTooSmall, native.StatusOf(err))
}

func TestSaveDataMemRoundTrip(t *testing.T) {
	eng := enginetest.New()
	b, h := newModel(t, eng)
	newLine(t, b, h)

	data, err := b.SaveDataMem(h, native.FileTypeText)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	other, err := b.CreateModel(0)
	require.NoError(t, err)
	defer b.DestroyModel(other)
	require.NoError(t, b.LoadDataMem(other, native.FileTypeText, data))

	info, err := b.ObjectCalled(other, "Line1")
	require.NoError(t, err)
	v, ok, err := b.GetDataDouble(native.Handle(info.Handle), "Length", 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 120.0, v)
}

func TestFileErrors(t *testing.T) {
	eng := enginetest.New()
	b, h := newModel(t, eng)

	err := b.LoadData(h, filepath.Join(t.TempDir(), "missing.yml"))
	assert.Equal(t, native.StatusFileNotFound, native.StatusOf(err))

	err = b.LoadData(h, "bad\x00name")
	assert.ErrorIs(t, err, native.ErrEmbeddedNUL)
}

func TestTableRows(t *testing.T) {
	eng := enginetest.New()
	b, h := newModel(t, eng)
	general, err := b.ObjectCalled(h, "General")
	require.NoError(t, err)
	g := native.Handle(general.Handle)

	n, err := b.DataRowCount(g, "StageDuration")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, b.InsertDataRow(g, "StageDuration", 3))
	require.NoError(t, b.SetDataDouble(g, "StageDuration", 3, 30))
	v, ok, err := b.GetDataDouble(g, "StageDuration", 3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 30.0, v)

	_, _, err = b.GetDataDouble(g, "StageDuration", 0)
	assert.Equal(t, native.StatusIndexOutOfRange, native.StatusOf(err))

	require.NoError(t, b.DeleteDataRow(g, "StageDuration", 1))
	n, err = b.DataRowCount(g, "StageDuration")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	dt, err := b.DataType(g, "StageDuration")
	require.NoError(t, err)
	assert.Equal(t, native.DataTypeDouble, dt)
}

func TestSimulationAndResults(t *testing.T) {
	eng := enginetest.New()
	b, h := newModel(t, eng)
	line := newLine(t, b, h)

	var progress []native.DynamicsProgress
	require.NoError(t, b.RunSimulation(h, func(p native.DynamicsProgress) bool {
		progress = append(progress, p)
		return false
	}))
	state, err := b.ModelState(h)
	require.NoError(t, err)
	assert.Equal(t, native.ModelSimulationStopped, state)

	whole := native.Period{Number: native.PeriodWholeSimulation}
	times, err := b.SampleTimes(h, whole)
	require.NoError(t, err)
	require.Len(t, progress, len(times))
	assert.Equal(t, -8.0, times[0])
	assert.Equal(t, 16.0, times[len(times)-1])
	assert.Equal(t, times[3], progress[3].Time)

	varID, err := b.VarID(line, "Effective Tension")
	require.NoError(t, err)
	assert.EqualValues(t, 4, varID)

	extra := native.ObjectExtra{NodeNum: 2}
	values, err := b.TimeHistory(h, line, extra, whole, varID)
	require.NoError(t, err)
	want := make([]float64, len(times))
	for i, tm := range times {
		want[i] = 42 + tm
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("time history (-want +got):\n%s", diff)
	}

	static, err := b.StaticResult(line, extra, varID)
	require.NoError(t, err)
	assert.Equal(t, 42.0, static)

	_, err = b.StaticResult(line, native.ObjectExtra{NodeNum: 0}, varID)
	assert.Equal(t, native.StatusIndexOutOfRange, native.StatusOf(err))

	_, err = b.TimeHistory(h, line, extra, whole, 99)
	assert.Equal(t, native.StatusInvalidVarID, native.StatusOf(err))
}

func TestStaticsProgressAndCancel(t *testing.T) {
	eng := enginetest.New(enginetest.WithStaticsMessages("one", "two", "three"))
	b, h := newModel(t, eng)

	var seen []string
	require.NoError(t, b.CalculateStatics(h, func(msg string) bool {
		seen = append(seen, msg)
		return false
	}))
	assert.Equal(t, []string{"one", "two", "three"}, seen)

	require.NoError(t, b.ResetModel(h))
	err := b.CalculateStatics(h, func(msg string) bool { return msg == "two" })
	assert.Equal(t, native.StatusOperationCancelled, native.StatusOf(err))
	state, err := b.ModelState(h)
	require.NoError(t, err)
	assert.Equal(t, native.ModelReset, state)
}

func TestProgressSeesNativeState(t *testing.T) {
	eng := enginetest.New()
	b, h := newModel(t, eng)

	var during int32 = -1
	require.NoError(t, b.CalculateStatics(h, func(string) bool {
		s, err := b.ModelState(h)
		require.NoError(t, err)
		during = s
		return false
	}))
	assert.Equal(t, native.ModelCalculatingStatics, during)
}

func TestExtendSimulation(t *testing.T) {
	eng := enginetest.New()
	b, h := newModel(t, eng)
	require.NoError(t, b.RunSimulation(h, nil))

	require.NoError(t, b.ExtendSimulation(h, 4))
	ts, err := b.SimulationTimeStatus(h)
	require.NoError(t, err)
	assert.Equal(t, native.TimeStatus{Start: -8, Stop: 20, Current: 20}, ts)

	err = b.ExtendSimulation(h, -1)
	assert.Equal(t, native.StatusInvalidParameter, native.StatusOf(err))
}

func TestThreadCount(t *testing.T) {
	eng := enginetest.New()
	b, h := newModel(t, eng)

	n, err := b.ModelThreadCount(h)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, b.SetModelThreadCount(h, 8))
	n, err = b.ModelThreadCount(h)
	require.NoError(t, err)
	assert.EqualValues(t, 8, n)
}

func TestDiffractionOutputMeasureThenFill(t *testing.T) {
	eng := enginetest.New()
	b := eng.Binding(t)
	d, err := b.CreateDiffraction(0)
	require.NoError(t, err)
	defer b.DestroyDiffraction(d)

	_, err = b.DiffractionOutput(d, enginetest.OutputPeriods)
	assert.Equal(t, native.StatusModelStateError, native.StatusOf(err))

	var msgs []string
	require.NoError(t, b.CalculateDiffraction(d, func(m string) bool {
		msgs = append(msgs, m)
		return false
	}))
	assert.Len(t, msgs, 3)

	periods, err := b.DiffractionOutput(d, enginetest.OutputPeriods)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 10, 15}, periods)

	added, err := b.DiffractionOutput(d, enginetest.OutputAddedMass)
	require.NoError(t, err)
	assert.Equal(t, []float64{20, 10, 100.0 / 15}, added)

	state, err := b.DiffractionState(d)
	require.NoError(t, err)
	assert.Equal(t, native.DiffractionCalculated, state)
}

func TestDestroyedHandleIsInvalid(t *testing.T) {
	eng := enginetest.New()
	b := eng.Binding(t)
	h, err := b.CreateModel(0)
	require.NoError(t, err)
	require.NoError(t, b.DestroyModel(h))

	err = b.DestroyModel(h)
	assert.Equal(t, native.StatusInvalidHandle, native.StatusOf(err))
	assert.Equal(t, 2, eng.Destroyed(h))
	assert.Zero(t, eng.LiveModels())
}
