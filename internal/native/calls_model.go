package native

import "unsafe"

func createParams(threads int32) ([]byte, error) {
	p := CreateParams{ThreadCount: threads}
	p.Size = int32(PackedSize(&p))
	return encodePacked(&p)
}

// CreateModel creates an engine model. threads is the worker thread count the
// engine may use internally; 0 lets the engine choose. On failure no handle
// exists and nothing must be destroyed.
func (b *Binding) CreateModel(threads int32) (Handle, error) {
	params, err := createParams(threads)
	if err != nil {
		return 0, err
	}
	var h uintptr
	var status int32
	b.procs.CreateModel(&h, unsafe.Pointer(&params[0]), &status)
	if err := b.check(status); err != nil {
		return 0, err
	}
	return Handle(h), nil
}

// DestroyModel releases a model handle.
func (b *Binding) DestroyModel(h Handle) error {
	var status int32
	b.procs.DestroyModel(uintptr(h), &status)
	return b.check(status)
}

func (b *Binding) fileCall(fn func(uintptr, *uint16, *int32), h Handle, file string) error {
	w, err := WideString(file)
	if err != nil {
		return err
	}
	var status int32
	fn(uintptr(h), w, &status)
	return b.check(status)
}

// LoadData reads a data file into the model.
func (b *Binding) LoadData(h Handle, file string) error {
	return b.fileCall(b.procs.LoadData, h, file)
}

// SaveData writes the model's data to a file.
func (b *Binding) SaveData(h Handle, file string) error {
	return b.fileCall(b.procs.SaveData, h, file)
}

// LoadSimulation reads a simulation file into the model.
func (b *Binding) LoadSimulation(h Handle, file string) error {
	return b.fileCall(b.procs.LoadSimulation, h, file)
}

// SaveSimulation writes the model's simulation state to a file.
func (b *Binding) SaveSimulation(h Handle, file string) error {
	return b.fileCall(b.procs.SaveSimulation, h, file)
}

// LoadDataMem loads model data from an in-memory buffer of the given file
// type.
func (b *Binding) LoadDataMem(h Handle, fileType int32, data []byte) error {
	if err := b.require(FeatureMemoryData); err != nil {
		return err
	}
	var p unsafe.Pointer
	if len(data) > 0 {
		p = unsafe.Pointer(&data[0])
	}
	var status int32
	b.procs.LoadDataMem(uintptr(h), fileType, p, int64(len(data)), &status)
	return b.check(status)
}

// SaveDataMem serialises model data into memory. The first call measures the
// required size, the second fills a buffer of that size.
func (b *Binding) SaveDataMem(h Handle, fileType int32) ([]byte, error) {
	if err := b.require(FeatureMemoryData); err != nil {
		return nil, err
	}
	var size int64
	var status int32
	b.procs.SaveDataMem(uintptr(h), fileType, nil, &size, &status)
	if err := b.check(status); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, nil
	}
	buf := make([]byte, size)
	b.procs.SaveDataMem(uintptr(h), fileType, unsafe.Pointer(&buf[0]), &size, &status)
	if err := b.check(status); err != nil {
		return nil, err
	}
	n, err := filled(size, len(buf))
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// CalculateStatics runs the static analysis. progress may be nil.
func (b *Binding) CalculateStatics(h Handle, progress TextProgress) error {
	var status int32
	b.withTextProgress(h, progress, func(cb uintptr) {
		b.procs.CalculateStatics(uintptr(h), cb, &status)
	})
	return b.check(status)
}

// RunSimulation runs the dynamic simulation. progress may be nil.
func (b *Binding) RunSimulation(h Handle, progress DynamicsProgressFunc) error {
	var status int32
	b.withDynamicsProgress(h, progress, func(cb uintptr) {
		b.procs.RunSimulation(uintptr(h), cb, &status)
	})
	return b.check(status)
}

// ExtendSimulation adds duration seconds to the last simulation stage.
func (b *Binding) ExtendSimulation(h Handle, duration float64) error {
	if err := b.require(FeatureExtendSimulation); err != nil {
		return err
	}
	var status int32
	b.procs.ExtendSimulation(uintptr(h), duration, &status)
	return b.check(status)
}

// ResetModel returns the model to the reset state.
func (b *Binding) ResetModel(h Handle) error {
	var status int32
	b.procs.ResetModel(uintptr(h), &status)
	return b.check(status)
}

// ModelState reads the engine's current model state.
func (b *Binding) ModelState(h Handle) (int32, error) {
	var state, status int32
	b.procs.GetModelState(uintptr(h), &state, &status)
	if err := b.check(status); err != nil {
		return 0, err
	}
	return state, nil
}

// ProcessBatchScript executes a batch script against the model.
func (b *Binding) ProcessBatchScript(h Handle, file string, progress TextProgress) error {
	w, err := WideString(file)
	if err != nil {
		return err
	}
	var status int32
	b.withTextProgress(h, progress, func(cb uintptr) {
		b.procs.ProcessBatchScript(uintptr(h), w, cb, &status)
	})
	return b.check(status)
}

// SimulationTimeStatus reports the start, stop and current simulation times.
func (b *Binding) SimulationTimeStatus(h Handle) (TimeStatus, error) {
	var ts TimeStatus
	buf := make([]byte, PackedSize(&ts))
	var status int32
	b.procs.GetSimulationTimeStatus(uintptr(h), unsafe.Pointer(&buf[0]), &status)
	if err := b.check(status); err != nil {
		return TimeStatus{}, err
	}
	if err := decodePacked(buf, &ts); err != nil {
		return TimeStatus{}, err
	}
	return ts, nil
}

// ModelThreadCount returns the engine's worker thread count for the model.
func (b *Binding) ModelThreadCount(h Handle) (int32, error) {
	if err := b.require(FeatureThreadCount); err != nil {
		return 0, err
	}
	var n, status int32
	b.procs.GetModelThreadCount(uintptr(h), &n, &status)
	if err := b.check(status); err != nil {
		return 0, err
	}
	return n, nil
}

// SetModelThreadCount changes the engine's worker thread count for the model.
func (b *Binding) SetModelThreadCount(h Handle, n int32) error {
	if err := b.require(FeatureThreadCount); err != nil {
		return err
	}
	var status int32
	b.procs.SetModelThreadCount(uintptr(h), n, &status)
	return b.check(status)
}

// BeginDataChange opens a batch of data writes. It returns ErrNotSupported on
// engines without the data-change entry points.
func (b *Binding) BeginDataChange(h Handle) error {
	if err := b.require(FeatureDataChange); err != nil {
		return err
	}
	var status int32
	b.procs.BeginDataChange(uintptr(h), &status)
	return b.check(status)
}

// EndDataChange closes a batch opened by BeginDataChange.
func (b *Binding) EndDataChange(h Handle) error {
	if err := b.require(FeatureDataChange); err != nil {
		return err
	}
	var status int32
	b.procs.EndDataChange(uintptr(h), &status)
	return b.check(status)
}
