package native

import "unsafe"

func packedArg(v any) (unsafe.Pointer, error) {
	buf, err := encodePacked(v)
	if err != nil {
		return nil, err
	}
	return unsafe.Pointer(&buf[0]), nil
}

func extraArg(extra ObjectExtra) (unsafe.Pointer, error) {
	extra.Size = int32(PackedSize(&extra))
	return packedArg(&extra)
}

// VarID resolves a result variable name on an object.
func (b *Binding) VarID(h Handle, name string) (int32, error) {
	w, err := WideString(name)
	if err != nil {
		return 0, err
	}
	var id, status int32
	b.procs.GetVarID(uintptr(h), w, &id, &status)
	if err := b.check(status); err != nil {
		return 0, err
	}
	return id, nil
}

// VarNames lists the result variables of an object. The first call returns
// the buffer length; the second fills a NUL-separated list.
func (b *Binding) VarNames(h Handle) ([]string, error) {
	var status int32
	n := b.procs.GetVarNames(uintptr(h), nil, &status)
	if err := b.check(status); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}
	buf := make([]uint16, n)
	b.procs.GetVarNames(uintptr(h), &buf[0], &status)
	if err := b.check(status); err != nil {
		return nil, err
	}
	return decodeWideList(buf), nil
}

// NumOfSamples returns the number of samples the model logged in period.
func (b *Binding) NumOfSamples(model Handle, period Period) (int32, error) {
	p, err := packedArg(&period)
	if err != nil {
		return 0, err
	}
	var n, status int32
	b.procs.GetNumOfSamples(uintptr(model), p, &n, &status)
	if err := b.check(status); err != nil {
		return 0, err
	}
	return n, nil
}

// SampleTimes returns the sample times of period. NumOfSamples measures, this
// call fills.
func (b *Binding) SampleTimes(model Handle, period Period) ([]float64, error) {
	n, err := b.NumOfSamples(model, period)
	if err != nil || n <= 0 {
		return nil, err
	}
	p, err := packedArg(&period)
	if err != nil {
		return nil, err
	}
	times := make([]float64, n)
	var status int32
	b.procs.GetSampleTimes(uintptr(model), p, &times[0], &status)
	if err := b.check(status); err != nil {
		return nil, err
	}
	return times, nil
}

// TimeHistory returns varID on object h over period. The sample count comes
// from the owning model.
func (b *Binding) TimeHistory(model, h Handle, extra ObjectExtra, period Period, varID int32) ([]float64, error) {
	n, err := b.NumOfSamples(model, period)
	if err != nil || n <= 0 {
		return nil, err
	}
	e, err := extraArg(extra)
	if err != nil {
		return nil, err
	}
	p, err := packedArg(&period)
	if err != nil {
		return nil, err
	}
	values := make([]float64, n)
	var status int32
	b.procs.GetTimeHistory(uintptr(h), e, p, varID, &values[0], &status)
	if err := b.check(status); err != nil {
		return nil, err
	}
	return values, nil
}

// StaticResult returns varID on object h in the static state.
func (b *Binding) StaticResult(h Handle, extra ObjectExtra, varID int32) (float64, error) {
	e, err := extraArg(extra)
	if err != nil {
		return 0, err
	}
	var v float64
	var status int32
	b.procs.GetStaticResult(uintptr(h), e, varID, &v, &status)
	if err := b.check(status); err != nil {
		return 0, err
	}
	return v, nil
}
