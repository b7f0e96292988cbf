package native

import "unsafe"

// Procs holds one typed Go function per native entry point. The loader fills
// it through the signature table; in-process engines fill it directly. A nil
// field means the symbol is absent, which is only legal for optional
// entry points.
type Procs struct {
	GetDLLVersion      func(required, version *uint16, ok *int32, status *int32)
	GetLastErrorString func(buf *uint16) int32
	DefaultReal        func() float64

	CreateModel    func(handle *uintptr, params unsafe.Pointer, status *int32)
	DestroyModel   func(handle uintptr, status *int32)
	LoadData       func(handle uintptr, file *uint16, status *int32)
	SaveData       func(handle uintptr, file *uint16, status *int32)
	LoadDataMem    func(handle uintptr, fileType int32, buf unsafe.Pointer, size int64, status *int32)
	SaveDataMem    func(handle uintptr, fileType int32, buf unsafe.Pointer, size *int64, status *int32)
	LoadSimulation func(handle uintptr, file *uint16, status *int32)
	SaveSimulation func(handle uintptr, file *uint16, status *int32)

	CalculateStatics        func(handle uintptr, progress uintptr, status *int32)
	RunSimulation           func(handle uintptr, progress uintptr, status *int32)
	ExtendSimulation        func(handle uintptr, duration float64, status *int32)
	ResetModel              func(handle uintptr, status *int32)
	GetModelState           func(handle uintptr, state *int32, status *int32)
	ProcessBatchScript      func(handle uintptr, file *uint16, progress uintptr, status *int32)
	GetSimulationTimeStatus func(handle uintptr, out unsafe.Pointer, status *int32)
	GetModelThreadCount     func(handle uintptr, count *int32, status *int32)
	SetModelThreadCount     func(handle uintptr, count int32, status *int32)
	BeginDataChange         func(handle uintptr, status *int32)
	EndDataChange           func(handle uintptr, status *int32)

	ObjectCalled  func(model uintptr, name *uint16, info unsafe.Pointer, status *int32)
	CreateObject  func(model uintptr, objectType int32, handle *uintptr, status *int32)
	DestroyObject func(handle uintptr, status *int32)
	GetObjectList func(model uintptr, infos unsafe.Pointer, count *int32, status *int32)

	GetDataType     func(handle uintptr, name *uint16, dataType *int32, status *int32)
	GetDataRowCount func(handle uintptr, name *uint16, count *int32, status *int32)
	SetDataRowCount func(handle uintptr, name *uint16, count int32, status *int32)
	InsertDataRow   func(handle uintptr, name *uint16, index int32, status *int32)
	DeleteDataRow   func(handle uintptr, name *uint16, index int32, status *int32)
	GetDataInteger  func(handle uintptr, name *uint16, index int32, value *int32, status *int32)
	SetDataInteger  func(handle uintptr, name *uint16, index int32, value int32, status *int32)
	GetDataDouble   func(handle uintptr, name *uint16, index int32, value *float64, status *int32)
	SetDataDouble   func(handle uintptr, name *uint16, index int32, value float64, status *int32)
	GetDataString   func(handle uintptr, name *uint16, index int32, buf *uint16, status *int32) int32
	SetDataString   func(handle uintptr, name *uint16, index int32, value *uint16, status *int32)

	GetVarID        func(handle uintptr, name *uint16, varID *int32, status *int32)
	GetVarNames     func(handle uintptr, buf *uint16, status *int32) int32
	GetNumOfSamples func(model uintptr, period unsafe.Pointer, count *int32, status *int32)
	GetSampleTimes  func(model uintptr, period unsafe.Pointer, times *float64, status *int32)
	GetTimeHistory  func(handle uintptr, extra, period unsafe.Pointer, varID int32, values *float64, status *int32)
	GetStaticResult func(handle uintptr, extra unsafe.Pointer, varID int32, value *float64, status *int32)

	CreateDiffraction      func(handle *uintptr, params unsafe.Pointer, status *int32)
	DestroyDiffraction     func(handle uintptr, status *int32)
	LoadDiffractionData    func(handle uintptr, file *uint16, status *int32)
	SaveDiffractionData    func(handle uintptr, file *uint16, status *int32)
	CalculateDiffraction   func(handle uintptr, progress uintptr, status *int32)
	LoadDiffractionResults func(handle uintptr, file *uint16, status *int32)
	SaveDiffractionResults func(handle uintptr, file *uint16, status *int32)
	GetDiffractionState    func(handle uintptr, state *int32, status *int32)
	GetDiffractionOutput   func(handle uintptr, output int32, values *float64, count *int32, status *int32)
}
