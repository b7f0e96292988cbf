package enginetest

import (
	"math"
	"unsafe"

	"github.com/hsiuhsiu/simfx-go/internal/native"
)

const defaultThreads = 4

type model struct {
	handle  uintptr
	threads int32
	state   int32
	objects []*object
	counter map[int32]int

	samples     []float64
	start, stop float64
	bounds      []float64
	depth       int

	// scratch holds the arguments of the callback in flight. It lives on the
	// heap so the addresses handed to the trampoline stay put.
	scratch *progressArgs
}

type progressArgs struct {
	cancel int32
	msg    []uint16
	dyn    []byte
}

func (m *model) general() *object     { return m.objects[0] }
func (m *model) environment() *object { return m.objects[1] }

func (m *model) reset() {
	m.state = native.ModelReset
	m.samples = nil
}

func (m *model) find(name string) *object {
	for _, o := range m.objects {
		if o.name == name {
			return o
		}
	}
	return nil
}

func (o *object) scalar(name string) value {
	if f, ok := o.fields[name]; ok && len(f.rows) > 0 {
		return f.rows[0]
	}
	return value{}
}

func (o *object) doubles(name string) []float64 {
	f, ok := o.fields[name]
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(f.rows))
	for _, r := range f.rows {
		out = append(out, r.d)
	}
	return out
}

// plan derives the simulation window from the General stage durations. Stage
// 1 is the build-up and ends at time zero.
func (m *model) plan() (bounds []float64, interval float64, f *fault) {
	g := m.general()
	durations := g.doubles("StageDuration")
	if len(durations) == 0 {
		return nil, 0, failf(native.StatusInvalidParameter, "General: no stages defined")
	}
	interval = g.scalar("SampleInterval").d
	if interval <= 0 {
		return nil, 0, failf(native.StatusInvalidParameter, "General: SampleInterval must be positive")
	}
	bounds = make([]float64, len(durations)+1)
	bounds[0] = -durations[0]
	for i, d := range durations {
		if d <= 0 {
			return nil, 0, failf(native.StatusInvalidParameter, "General: stage %d duration must be positive", i+1)
		}
		bounds[i+1] = bounds[i] + d
	}
	return bounds, interval, nil
}

// sampleTime returns the time of sample i.
func (m *model) sampleTime(i int, interval float64) float64 {
	return m.start + float64(i)*interval
}

func sampleCount(start, stop, interval float64) int {
	return int(math.Round((stop-start)/interval)) + 1
}

// validate checks the data the statics solver depends on.
func (m *model) validate() *fault {
	for _, o := range m.objects {
		if o.typ == TypeLine && !o.scalar("Length").set {
			return failf(native.StatusInvalidParameter, "%s: Length has no value", o.name)
		}
	}
	_, _, f := m.plan()
	return f
}

func (m *model) solveStatics() *fault {
	if f := m.validate(); f != nil {
		return f
	}
	bounds, _, _ := m.plan()
	m.bounds = bounds
	m.start, m.stop = bounds[0], bounds[len(bounds)-1]
	m.samples = nil
	m.state = native.ModelInStaticState
	return nil
}

// simulateAll runs the whole simulation without progress reporting.
func (m *model) simulateAll() *fault {
	if m.state == native.ModelReset {
		if f := m.solveStatics(); f != nil {
			return f
		}
	}
	if m.state != native.ModelInStaticState {
		return failf(native.StatusModelStateError, "simulation already run")
	}
	_, interval, _ := m.plan()
	n := sampleCount(m.start, m.stop, interval)
	m.samples = make([]float64, n)
	for i := range m.samples {
		m.samples[i] = m.sampleTime(i, interval)
	}
	m.state = native.ModelSimulationStopped
	return nil
}

func (e *Engine) lookupModel(h uintptr) (*model, *fault) {
	m, ok := e.models[h]
	if !ok {
		return nil, failf(native.StatusInvalidHandle, "invalid model handle %#x", h)
	}
	return m, nil
}

func readCreateParams(p unsafe.Pointer) (int32, *fault) {
	if p == nil {
		return 0, failf(native.StatusInvalidParameter, "missing creation parameters")
	}
	var params native.CreateParams
	if err := native.ReadPacked(p, &params); err != nil {
		return 0, failf(native.StatusInvalidParameter, "%v", err)
	}
	if int(params.Size) != native.PackedSize(&params) {
		return 0, failf(native.StatusInvalidParameter, "creation parameters size %d", params.Size)
	}
	if params.ThreadCount < 0 {
		return 0, failf(native.StatusInvalidParameter, "thread count %d", params.ThreadCount)
	}
	if params.ThreadCount == 0 {
		return defaultThreads, nil
	}
	return params.ThreadCount, nil
}

func (e *Engine) addObject(m *model, typ int32, name string) *object {
	o := newObject(e.newHandle(), typ, name)
	o.model = m
	m.objects = append(m.objects, o)
	e.objects[o.handle] = o
	return o
}

func (e *Engine) createModel(handle *uintptr, params unsafe.Pointer, status *int32) {
	if !e.begin("C_CreateModel", status) {
		return
	}
	threads, f := readCreateParams(params)
	if f != nil {
		e.end(status, f)
		return
	}
	m := &model{
		handle:  e.newHandle(),
		threads: threads,
		counter: make(map[int32]int),
		scratch: &progressArgs{},
	}
	e.addObject(m, TypeGeneral, "General")
	e.addObject(m, TypeEnvironment, "Environment")
	e.models[m.handle] = m
	*handle = m.handle
	e.end(status, nil)
}

func (e *Engine) dropObjects(m *model, keepBuiltins bool) {
	kept := m.objects[:0]
	for _, o := range m.objects {
		if keepBuiltins && (o.typ == TypeGeneral || o.typ == TypeEnvironment) {
			kept = append(kept, o)
			continue
		}
		delete(e.objects, o.handle)
	}
	m.objects = kept
}

func (e *Engine) destroyModel(h uintptr, status *int32) {
	if !e.begin("C_DestroyModel", status) {
		return
	}
	e.destroyed[h]++
	m, f := e.lookupModel(h)
	if f == nil {
		e.dropObjects(m, false)
		delete(e.models, h)
	}
	e.end(status, f)
}

func (e *Engine) calculateStatics(h, progress uintptr, status *int32) {
	if !e.begin("C_CalculateStatics", status) {
		return
	}
	m, f := e.lookupModel(h)
	if f == nil && m.state != native.ModelReset && m.state != native.ModelInStaticState {
		f = failf(native.StatusModelStateError, "statics need a reset model")
	}
	if f == nil {
		f = m.validate()
	}
	if f != nil {
		e.end(status, f)
		return
	}
	m.state = native.ModelCalculatingStatics
	msgs := e.statics
	e.mu.Unlock()

	cancelled := false
	if progress != 0 {
		for _, msg := range msgs {
			if invokeText(h, m.scratch, msg) {
				cancelled = true
				break
			}
		}
	}

	e.mu.Lock()
	if cancelled {
		m.reset()
		e.end(status, failf(native.StatusOperationCancelled, "statics cancelled"))
		return
	}
	e.end(status, m.solveStatics())
}

func (e *Engine) runSimulation(h, progress uintptr, status *int32) {
	if !e.begin("C_RunSimulation", status) {
		return
	}
	m, f := e.lookupModel(h)
	if f == nil && m.state == native.ModelReset {
		f = m.solveStatics()
	}
	if f == nil && m.state != native.ModelInStaticState {
		f = failf(native.StatusModelStateError, "simulation already run")
	}
	if f != nil {
		e.end(status, f)
		return
	}
	_, interval, _ := m.plan()
	m.state = native.ModelRunningSimulation
	n := sampleCount(m.start, m.stop, interval)
	e.mu.Unlock()

	final, res := e.step(m, h, progress, 0, n, interval)

	e.mu.Lock()
	m.state = final
	e.end(status, res)
}

// step produces samples [from, to) with the lock released, reporting each to
// the progress callback. It returns the state the model stops in.
func (e *Engine) step(m *model, h, progress uintptr, from, to int, interval float64) (int32, *fault) {
	for i := from; i < to; i++ {
		t := m.sampleTime(i, interval)
		e.mu.Lock()
		m.samples = append(m.samples, t)
		start, stop := m.start, m.stop
		e.mu.Unlock()
		if e.unstableAt != nil && t >= *e.unstableAt {
			return native.ModelSimulationStoppedUnstable, nil
		}
		if progress != 0 && invokeDynamics(h, m.scratch, native.DynamicsProgress{Time: t, Start: start, Stop: stop}) {
			return native.ModelSimulationStopped, failf(native.StatusOperationCancelled, "simulation cancelled at t=%g", t)
		}
	}
	return native.ModelSimulationStopped, nil
}

func (e *Engine) extendSimulation(h uintptr, duration float64, status *int32) {
	if !e.begin("C_ExtendSimulation", status) {
		return
	}
	m, f := e.lookupModel(h)
	if f == nil && m.state != native.ModelSimulationStopped {
		f = failf(native.StatusModelStateError, "only a stopped simulation can be extended")
	}
	if f == nil && duration <= 0 {
		f = failf(native.StatusInvalidParameter, "extension %g must be positive", duration)
	}
	if f != nil {
		e.end(status, f)
		return
	}
	stages := m.general().fields["StageDuration"]
	last := &stages.rows[len(stages.rows)-1]
	last.d += duration
	m.bounds[len(m.bounds)-1] += duration
	m.stop += duration
	_, interval, _ := m.plan()
	from, to := len(m.samples), sampleCount(m.start, m.stop, interval)
	m.state = native.ModelRunningSimulation
	e.mu.Unlock()

	final, res := e.step(m, h, 0, from, to, interval)

	e.mu.Lock()
	m.state = final
	e.end(status, res)
}

func (e *Engine) resetModel(h uintptr, status *int32) {
	if !e.begin("C_ResetModel", status) {
		return
	}
	m, f := e.lookupModel(h)
	if f == nil && (m.state == native.ModelCalculatingStatics || m.state == native.ModelRunningSimulation) {
		f = failf(native.StatusModelStateError, "cannot reset while calculating")
	}
	if f == nil {
		m.reset()
	}
	e.end(status, f)
}

func (e *Engine) getModelState(h uintptr, state *int32, status *int32) {
	if !e.begin("C_GetModelState", status) {
		return
	}
	m, f := e.lookupModel(h)
	if f == nil {
		*state = m.state
	}
	e.end(status, f)
}

func (e *Engine) getSimulationTimeStatus(h uintptr, out unsafe.Pointer, status *int32) {
	if !e.begin("C_GetSimulationTimeStatus", status) {
		return
	}
	e.end(status, func() *fault {
		m, f := e.lookupModel(h)
		if f != nil {
			return f
		}
		ts := native.TimeStatus{Start: m.start, Stop: m.stop, Current: m.start}
		if m.state == native.ModelReset {
			bounds, _, f := m.plan()
			if f != nil {
				return f
			}
			ts = native.TimeStatus{Start: bounds[0], Stop: bounds[len(bounds)-1], Current: bounds[0]}
		}
		if len(m.samples) > 0 {
			ts.Current = m.samples[len(m.samples)-1]
		}
		if err := native.WritePacked(out, &ts); err != nil {
			return failf(native.StatusUnexpectedError, "%v", err)
		}
		return nil
	}())
}

func (e *Engine) getModelThreadCount(h uintptr, count *int32, status *int32) {
	if !e.begin("C_GetModelThreadCount", status) {
		return
	}
	m, f := e.lookupModel(h)
	if f == nil {
		*count = m.threads
	}
	e.end(status, f)
}

func (e *Engine) setModelThreadCount(h uintptr, count int32, status *int32) {
	if !e.begin("C_SetModelThreadCount", status) {
		return
	}
	m, f := e.lookupModel(h)
	if f == nil && count < 1 {
		f = failf(native.StatusInvalidParameter, "thread count %d", count)
	}
	if f == nil {
		m.threads = count
	}
	e.end(status, f)
}

func (e *Engine) beginDataChange(h uintptr, status *int32) {
	if !e.begin("C_BeginDataChange", status) {
		return
	}
	m, f := e.lookupModel(h)
	if f == nil {
		m.depth++
	}
	e.end(status, f)
}

func (e *Engine) endDataChange(h uintptr, status *int32) {
	if !e.begin("C_EndDataChange", status) {
		return
	}
	m, f := e.lookupModel(h)
	if f == nil && m.depth == 0 {
		f = failf(native.StatusInvalidParameter, "no data change in progress")
	}
	if f == nil {
		m.depth--
		if m.depth == 0 {
			e.dataChanges++
		}
	}
	e.end(status, f)
}

func invokeText(h uintptr, a *progressArgs, msg string) bool {
	a.msg = native.EncodeWide(msg)
	a.cancel = 0
	native.InvokeTextProgress(h, uintptr(unsafe.Pointer(&a.msg[0])), uintptr(unsafe.Pointer(&a.cancel)))
	return a.cancel != 0
}

func invokeDynamics(h uintptr, a *progressArgs, p native.DynamicsProgress) bool {
	if a.dyn == nil {
		a.dyn = make([]byte, native.PackedSize(&p))
	}
	if err := native.WritePacked(unsafe.Pointer(&a.dyn[0]), &p); err != nil {
		return false
	}
	a.cancel = 0
	native.InvokeDynamicsProgress(h, uintptr(unsafe.Pointer(&a.dyn[0])), uintptr(unsafe.Pointer(&a.cancel)))
	return a.cancel != 0
}
