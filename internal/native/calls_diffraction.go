package native

import "unsafe"

// CreateDiffraction creates a diffraction analysis.
func (b *Binding) CreateDiffraction(threads int32) (Handle, error) {
	if err := b.require(FeatureDiffraction); err != nil {
		return 0, err
	}
	params, err := createParams(threads)
	if err != nil {
		return 0, err
	}
	var h uintptr
	var status int32
	b.procs.CreateDiffraction(&h, unsafe.Pointer(&params[0]), &status)
	if err := b.check(status); err != nil {
		return 0, err
	}
	return Handle(h), nil
}

// DestroyDiffraction releases a diffraction handle.
func (b *Binding) DestroyDiffraction(h Handle) error {
	if err := b.require(FeatureDiffraction); err != nil {
		return err
	}
	var status int32
	b.procs.DestroyDiffraction(uintptr(h), &status)
	return b.check(status)
}

// LoadDiffractionData reads diffraction input data.
func (b *Binding) LoadDiffractionData(h Handle, file string) error {
	if err := b.require(FeatureDiffraction); err != nil {
		return err
	}
	return b.fileCall(b.procs.LoadDiffractionData, h, file)
}

// SaveDiffractionData writes diffraction input data.
func (b *Binding) SaveDiffractionData(h Handle, file string) error {
	if err := b.require(FeatureDiffraction); err != nil {
		return err
	}
	return b.fileCall(b.procs.SaveDiffractionData, h, file)
}

// LoadDiffractionResults reads a diffraction results file.
func (b *Binding) LoadDiffractionResults(h Handle, file string) error {
	if err := b.require(FeatureDiffraction); err != nil {
		return err
	}
	return b.fileCall(b.procs.LoadDiffractionResults, h, file)
}

// SaveDiffractionResults writes a diffraction results file.
func (b *Binding) SaveDiffractionResults(h Handle, file string) error {
	if err := b.require(FeatureDiffraction); err != nil {
		return err
	}
	return b.fileCall(b.procs.SaveDiffractionResults, h, file)
}

// CalculateDiffraction runs the diffraction analysis. progress may be nil.
func (b *Binding) CalculateDiffraction(h Handle, progress TextProgress) error {
	if err := b.require(FeatureDiffraction); err != nil {
		return err
	}
	var status int32
	b.withTextProgress(h, progress, func(cb uintptr) {
		b.procs.CalculateDiffraction(uintptr(h), cb, &status)
	})
	return b.check(status)
}

// DiffractionState reads the engine's current diffraction state.
func (b *Binding) DiffractionState(h Handle) (int32, error) {
	if err := b.require(FeatureDiffraction); err != nil {
		return 0, err
	}
	var state, status int32
	b.procs.GetDiffractionState(uintptr(h), &state, &status)
	if err := b.check(status); err != nil {
		return 0, err
	}
	return state, nil
}

// DiffractionOutput returns one output vector. The first call measures the
// element count, the second fills the buffer.
func (b *Binding) DiffractionOutput(h Handle, output int32) ([]float64, error) {
	if err := b.require(FeatureDiffraction); err != nil {
		return nil, err
	}
	var count, status int32
	b.procs.GetDiffractionOutput(uintptr(h), output, nil, &count, &status)
	if err := b.check(status); err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, nil
	}
	values := make([]float64, count)
	b.procs.GetDiffractionOutput(uintptr(h), output, &values[0], &count, &status)
	if err := b.check(status); err != nil {
		return nil, err
	}
	n, err := filled(count, len(values))
	if err != nil {
		return nil, err
	}
	return values[:n], nil
}
