package enginetest

import (
	"fmt"
	"unsafe"

	"github.com/hsiuhsiu/simfx-go/internal/native"
)

const (
	OutputPeriods   = native.DiffractionOutputPeriods
	OutputHeadings  = native.DiffractionOutputHeadings
	OutputAddedMass = native.DiffractionOutputAddedMass
	OutputDamping   = native.DiffractionOutputDamping
)

type diffraction struct {
	handle  uintptr
	data    *object
	threads int32
	state   int32
	outputs map[int32][]float64
	scratch *progressArgs
}

type diffractionResultsDoc struct {
	Outputs map[int32][]float64 `yaml:"outputs"`
}

func (d *diffraction) reset() {
	d.state = native.DiffractionReset
	d.outputs = nil
}

func (e *Engine) lookupDiffraction(h uintptr) (*diffraction, *fault) {
	d, ok := e.diffractions[h]
	if !ok {
		return nil, failf(native.StatusInvalidHandle, "invalid diffraction handle %#x", h)
	}
	return d, nil
}

func (e *Engine) createDiffraction(handle *uintptr, params unsafe.Pointer, status *int32) {
	if !e.begin("C_CreateDiffraction", status) {
		return
	}
	threads, f := readCreateParams(params)
	if f != nil {
		e.end(status, f)
		return
	}
	h := e.newHandle()
	d := &diffraction{handle: h, threads: threads, scratch: &progressArgs{}}
	d.data = newObject(h, TypeDiffraction, "Diffraction")
	d.data.diffraction = d
	e.diffractions[h] = d
	e.objects[h] = d.data
	*handle = h
	e.end(status, nil)
}

func (e *Engine) destroyDiffraction(h uintptr, status *int32) {
	if !e.begin("C_DestroyDiffraction", status) {
		return
	}
	e.destroyed[h]++
	_, f := e.lookupDiffraction(h)
	if f == nil {
		delete(e.diffractions, h)
		delete(e.objects, h)
	}
	e.end(status, f)
}

func (e *Engine) loadDiffractionData(h uintptr, file *uint16, status *int32) {
	if !e.begin("C_LoadDiffractionData", status) {
		return
	}
	e.end(status, func() *fault {
		d, f := e.lookupDiffraction(h)
		if f != nil {
			return f
		}
		b, f := readFile(native.GoWideString(file))
		if f != nil {
			return f
		}
		var doc objectDoc
		if f := decodeDoc(b, &doc); f != nil {
			return f
		}
		if doc.Type != typeNames[TypeDiffraction] {
			return failf(native.StatusFileReadError, "not a diffraction data file")
		}
		for name, spec := range schema[TypeDiffraction] {
			d.data.fields[name] = spec.instantiate()
		}
		if err := d.data.apply(doc); err != nil {
			return failf(native.StatusFileReadError, "%v", err)
		}
		d.reset()
		return nil
	}())
}

func (e *Engine) saveDiffractionData(h uintptr, file *uint16, status *int32) {
	if !e.begin("C_SaveDiffractionData", status) {
		return
	}
	e.end(status, func() *fault {
		d, f := e.lookupDiffraction(h)
		if f != nil {
			return f
		}
		return writeFile(native.GoWideString(file), d.data.doc())
	}())
}

func (d *diffraction) solve() *fault {
	periods := d.data.fields["Periods"].rows
	if len(periods) == 0 {
		return failf(native.StatusInvalidParameter, "no periods defined")
	}
	depth := d.data.scalar("WaterDepth")
	if !depth.set || depth.d <= 0 {
		return failf(native.StatusInvalidParameter, "WaterDepth must be positive")
	}
	out := map[int32][]float64{
		OutputPeriods:  make([]float64, len(periods)),
		OutputHeadings: d.data.doubles("Headings"),
	}
	added := make([]float64, len(periods))
	damping := make([]float64, len(periods))
	for i, p := range periods {
		if !p.set || p.d <= 0 {
			return failf(native.StatusInvalidParameter, "period %d must be positive", i+1)
		}
		out[OutputPeriods][i] = p.d
		added[i] = depth.d / p.d
		damping[i] = p.d / depth.d
	}
	out[OutputAddedMass] = added
	out[OutputDamping] = damping
	d.outputs = out
	d.state = native.DiffractionCalculated
	return nil
}

func (e *Engine) calculateDiffraction(h, progress uintptr, status *int32) {
	if !e.begin("C_CalculateDiffraction", status) {
		return
	}
	d, f := e.lookupDiffraction(h)
	if f != nil {
		e.end(status, f)
		return
	}
	periods := d.data.doubles("Periods")
	d.state = native.DiffractionCalculating
	e.mu.Unlock()

	cancelled := false
	if progress != 0 {
		for i, p := range periods {
			if invokeText(h, d.scratch, fmt.Sprintf("Solving period %g (%d of %d)", p, i+1, len(periods))) {
				cancelled = true
				break
			}
		}
	}

	e.mu.Lock()
	if cancelled {
		d.reset()
		e.end(status, failf(native.StatusOperationCancelled, "diffraction cancelled"))
		return
	}
	if f := d.solve(); f != nil {
		d.reset()
		e.end(status, f)
		return
	}
	e.end(status, nil)
}

func (e *Engine) loadDiffractionResults(h uintptr, file *uint16, status *int32) {
	if !e.begin("C_LoadDiffractionResults", status) {
		return
	}
	e.end(status, func() *fault {
		d, f := e.lookupDiffraction(h)
		if f != nil {
			return f
		}
		b, f := readFile(native.GoWideString(file))
		if f != nil {
			return f
		}
		var doc diffractionResultsDoc
		if f := decodeDoc(b, &doc); f != nil {
			return f
		}
		if len(doc.Outputs) == 0 {
			return failf(native.StatusFileReadError, "no diffraction outputs")
		}
		d.outputs = doc.Outputs
		d.state = native.DiffractionCalculated
		return nil
	}())
}

func (e *Engine) saveDiffractionResults(h uintptr, file *uint16, status *int32) {
	if !e.begin("C_SaveDiffractionResults", status) {
		return
	}
	e.end(status, func() *fault {
		d, f := e.lookupDiffraction(h)
		if f != nil {
			return f
		}
		if d.state != native.DiffractionCalculated {
			return failf(native.StatusModelStateError, "diffraction not calculated")
		}
		return writeFile(native.GoWideString(file), diffractionResultsDoc{Outputs: d.outputs})
	}())
}

func (e *Engine) getDiffractionState(h uintptr, state *int32, status *int32) {
	if !e.begin("C_GetDiffractionState", status) {
		return
	}
	d, f := e.lookupDiffraction(h)
	if f == nil {
		*state = d.state
	}
	e.end(status, f)
}

func (e *Engine) getDiffractionOutput(h uintptr, output int32, values *float64, count *int32, status *int32) {
	if !e.begin("C_GetDiffractionOutput", status) {
		return
	}
	e.end(status, func() *fault {
		d, f := e.lookupDiffraction(h)
		if f != nil {
			return f
		}
		if d.state != native.DiffractionCalculated {
			return failf(native.StatusModelStateError, "diffraction not calculated")
		}
		out, ok := d.outputs[output]
		if !ok {
			return failf(native.StatusInvalidParameter, "unknown output %d", output)
		}
		n := int32(len(out))
		if values == nil {
			*count = n
			return nil
		}
		if *count < n {
			*count = n
			return failf(native.StatusBufferTooSmall, "output needs %d values", n)
		}
		copy(unsafe.Slice(values, n), out)
		*count = n
		return nil
	}())
}
