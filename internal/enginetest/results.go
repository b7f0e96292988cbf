package enginetest

import (
	"unsafe"

	"github.com/hsiuhsiu/simfx-go/internal/native"
)

// Results are linear so tests can predict them: the static value of variable
// v at node n is 10*v + n (n is 0 for objects without nodes), and the dynamic
// value at time t is the static value plus t.
func staticValue(varID, node int32) float64 {
	return float64(varID)*10 + float64(node)
}

func (m *model) periodTimes(p native.Period) ([]float64, *fault) {
	if p.Number == native.PeriodStaticState {
		if m.state == native.ModelReset || m.state == native.ModelCalculatingStatics {
			return nil, failf(native.StatusModelStateError, "no static state")
		}
		return []float64{m.start}, nil
	}
	switch m.state {
	case native.ModelRunningSimulation, native.ModelSimulationStopped, native.ModelSimulationStoppedUnstable:
	default:
		return nil, failf(native.StatusModelStateError, "no simulation results")
	}
	if len(m.samples) == 0 {
		return nil, failf(native.StatusModelStateError, "no simulation results")
	}
	var keep func(t float64) bool
	switch {
	case p.Number == native.PeriodWholeSimulation:
		return m.samples, nil
	case p.Number == native.PeriodLatestWave:
		from := m.samples[len(m.samples)-1] - m.environment().scalar("WavePeriod").d
		keep = func(t float64) bool { return t >= from }
	case p.Number == native.PeriodSpecified:
		if p.From > p.To {
			return nil, failf(native.StatusInvalidParameter, "period from %g is after to %g", p.From, p.To)
		}
		keep = func(t float64) bool { return t >= p.From && t <= p.To }
	case p.Number >= 1 && int(p.Number) < len(m.bounds):
		lo, hi := m.bounds[p.Number-1], m.bounds[p.Number]
		keep = func(t float64) bool { return t >= lo && t <= hi }
	default:
		return nil, failf(native.StatusInvalidParameter, "invalid period %d", p.Number)
	}
	var out []float64
	for _, t := range m.samples {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

func readPeriod(p unsafe.Pointer) (native.Period, *fault) {
	var period native.Period
	if p == nil {
		return period, failf(native.StatusInvalidParameter, "missing period")
	}
	if err := native.ReadPacked(p, &period); err != nil {
		return period, failf(native.StatusInvalidParameter, "%v", err)
	}
	return period, nil
}

// resultTarget validates a result query on object h and returns the node the
// query addresses.
func (e *Engine) resultTarget(h uintptr, extraPtr unsafe.Pointer, varID int32) (*object, int32, *fault) {
	o, f := e.lookupObject(h)
	if f != nil {
		return nil, 0, f
	}
	if o.model == nil {
		return nil, 0, failf(native.StatusInvalidHandle, "%s has no results", o.name)
	}
	if varID < 1 || int(varID) > len(resultVars[o.typ]) {
		return nil, 0, failf(native.StatusInvalidVarID, "invalid variable id %d for %s", varID, o.name)
	}
	if extraPtr == nil {
		return nil, 0, failf(native.StatusInvalidParameter, "missing object extra")
	}
	var extra native.ObjectExtra
	if err := native.ReadPacked(extraPtr, &extra); err != nil {
		return nil, 0, failf(native.StatusInvalidParameter, "%v", err)
	}
	if int(extra.Size) != native.PackedSize(&extra) {
		return nil, 0, failf(native.StatusInvalidParameter, "object extra size %d", extra.Size)
	}
	if o.typ != TypeLine {
		return o, 0, nil
	}
	nodes := o.scalar("SegmentCount").i + 1
	if extra.NodeNum < 1 || extra.NodeNum > nodes {
		return nil, 0, failf(native.StatusIndexOutOfRange, "%s: node %d out of range", o.name, extra.NodeNum)
	}
	return o, extra.NodeNum, nil
}

func (e *Engine) getVarID(h uintptr, name *uint16, varID *int32, status *int32) {
	if !e.begin("C_GetVarID", status) {
		return
	}
	e.end(status, func() *fault {
		o, f := e.lookupObject(h)
		if f != nil {
			return f
		}
		n := native.GoWideString(name)
		for i, v := range resultVars[o.typ] {
			if v == n {
				*varID = int32(i + 1)
				return nil
			}
		}
		return failf(native.StatusUnknownDataName, "%s has no result %q", o.name, n)
	}())
}

func (e *Engine) getVarNames(h uintptr, buf *uint16, status *int32) int32 {
	if !e.begin("C_GetVarNames", status) {
		return 0
	}
	var n int32
	e.end(status, func() *fault {
		o, f := e.lookupObject(h)
		if f != nil {
			return f
		}
		enc := native.EncodeWideList(resultVars[o.typ])
		n = int32(len(enc))
		if buf != nil {
			copyWide(buf, enc)
		}
		return nil
	}())
	return n
}

func (e *Engine) getNumOfSamples(h uintptr, period unsafe.Pointer, count *int32, status *int32) {
	if !e.begin("C_GetNumOfSamples", status) {
		return
	}
	e.end(status, func() *fault {
		m, f := e.lookupModel(h)
		if f != nil {
			return f
		}
		p, f := readPeriod(period)
		if f != nil {
			return f
		}
		times, f := m.periodTimes(p)
		if f != nil {
			return f
		}
		*count = int32(len(times))
		return nil
	}())
}

func (e *Engine) getSampleTimes(h uintptr, period unsafe.Pointer, out *float64, status *int32) {
	if !e.begin("C_GetSampleTimes", status) {
		return
	}
	e.end(status, func() *fault {
		m, f := e.lookupModel(h)
		if f != nil {
			return f
		}
		p, f := readPeriod(period)
		if f != nil {
			return f
		}
		times, f := m.periodTimes(p)
		if f != nil {
			return f
		}
		copy(unsafe.Slice(out, len(times)), times)
		return nil
	}())
}

func (e *Engine) getTimeHistory(h uintptr, extra, period unsafe.Pointer, varID int32, out *float64, status *int32) {
	if !e.begin("C_GetTimeHistory", status) {
		return
	}
	e.end(status, func() *fault {
		o, node, f := e.resultTarget(h, extra, varID)
		if f != nil {
			return f
		}
		p, f := readPeriod(period)
		if f != nil {
			return f
		}
		times, f := o.model.periodTimes(p)
		if f != nil {
			return f
		}
		values := unsafe.Slice(out, len(times))
		base := staticValue(varID, node)
		for i, t := range times {
			if p.Number == native.PeriodStaticState {
				values[i] = base
				continue
			}
			values[i] = base + t
		}
		return nil
	}())
}

func (e *Engine) getStaticResult(h uintptr, extra unsafe.Pointer, varID int32, out *float64, status *int32) {
	if !e.begin("C_GetStaticResult", status) {
		return
	}
	e.end(status, func() *fault {
		o, node, f := e.resultTarget(h, extra, varID)
		if f != nil {
			return f
		}
		if s := o.model.state; s == native.ModelReset || s == native.ModelCalculatingStatics {
			return failf(native.StatusModelStateError, "no static state")
		}
		*out = staticValue(varID, node)
		return nil
	}())
}
