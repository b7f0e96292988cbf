package enginetest

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
	"unsafe"

	"github.com/hsiuhsiu/simfx-go/internal/native"
)

// DefaultVersion is the engine version reported unless WithVersion is used.
const DefaultVersion = "11.4a"

// DefaultRealValue is the sentinel returned by C_DefaultReal unless
// WithDefaultReal is used.
const DefaultRealValue = -1.0e307

// Engine is the fake. The zero value is not usable; call New.
type Engine struct {
	mu sync.Mutex

	version     string
	defaultReal float64
	omit        map[native.Feature]bool
	statics     []string
	unstableAt  *float64

	lastError    string
	errorReads   int
	nextHandle   uintptr
	models       map[uintptr]*model
	objects      map[uintptr]*object
	diffractions map[uintptr]*diffraction
	destroyed    map[uintptr]int
	calls        map[string]int
	failures     map[string]fault
	dataChanges  int
}

// Option configures an Engine.
type Option func(*Engine)

// WithVersion sets the version string the engine reports.
func WithVersion(v string) Option { return func(e *Engine) { e.version = v } }

// WithDefaultReal sets the sentinel returned by C_DefaultReal.
func WithDefaultReal(v float64) Option { return func(e *Engine) { e.defaultReal = v } }

// WithoutFeature leaves the entry points of f unbound in Procs.
func WithoutFeature(f native.Feature) Option {
	return func(e *Engine) { e.omit[f] = true }
}

// WithStaticsMessages sets the progress messages reported during statics.
func WithStaticsMessages(msgs ...string) Option {
	return func(e *Engine) { e.statics = append([]string(nil), msgs...) }
}

// WithUnstableAt makes every simulation go unstable once it reaches time t.
func WithUnstableAt(t float64) Option {
	return func(e *Engine) { e.unstableAt = &t }
}

// New returns an empty engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		version:      DefaultVersion,
		defaultReal:  DefaultRealValue,
		omit:         make(map[native.Feature]bool),
		statics:      []string{"Solving statics", "Statics converged"},
		nextHandle:   0x1000,
		models:       make(map[uintptr]*model),
		objects:      make(map[uintptr]*object),
		diffractions: make(map[uintptr]*diffraction),
		destroyed:    make(map[uintptr]int),
		calls:        make(map[string]int),
		failures:     make(map[string]fault),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Binding wraps the engine in a native.Binding and fails t on error.
func (e *Engine) Binding(t testing.TB, opts ...native.Option) *native.Binding {
	t.Helper()
	b, err := native.NewBinding(e.Procs(), opts...)
	if err != nil {
		t.Fatalf("enginetest: bind: %v", err)
	}
	return b
}

// fault is a failed call: the status to report and the last-error text.
type fault struct {
	status native.Status
	msg    string
}

func failf(st native.Status, format string, args ...any) *fault {
	return &fault{status: st, msg: fmt.Sprintf(format, args...)}
}

// Fail makes the next call to the named entry point (for example
// "C_LoadData") report st with msg as the last error.
func (e *Engine) Fail(entry string, st native.Status, msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failures[entry] = fault{status: st, msg: msg}
}

// Calls reports how many times the named entry point was called.
func (e *Engine) Calls(entry string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls[entry]
}

// ErrorStringReads reports how many times C_GetLastErrorString was called.
func (e *Engine) ErrorStringReads() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errorReads
}

// Destroyed reports how many destroy calls named handle h.
func (e *Engine) Destroyed(h native.Handle) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroyed[uintptr(h)]
}

// LiveModels reports the number of models not yet destroyed.
func (e *Engine) LiveModels() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.models)
}

// DataChanges reports how many data-change brackets were closed.
func (e *Engine) DataChanges() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dataChanges
}

// begin locks the engine and applies an injected failure for entry. It
// returns true with the lock held when the call should proceed; otherwise the
// status is already written and the lock released.
func (e *Engine) begin(entry string, status *int32) bool {
	e.mu.Lock()
	e.calls[entry]++
	if f, ok := e.failures[entry]; ok {
		delete(e.failures, entry)
		e.lastError = f.msg
		*status = int32(f.status)
		e.mu.Unlock()
		return false
	}
	return true
}

// end writes the outcome and releases the lock taken by begin.
func (e *Engine) end(status *int32, f *fault) {
	if f != nil {
		e.lastError = f.msg
		*status = int32(f.status)
	} else {
		*status = int32(native.StatusOK)
	}
	e.mu.Unlock()
}

func (e *Engine) newHandle() uintptr {
	e.nextHandle += 0x10
	return e.nextHandle
}

// Procs returns the entry point table. Entry points of omitted features are
// left nil.
func (e *Engine) Procs() native.Procs {
	p := native.Procs{
		GetDLLVersion:      e.getDLLVersion,
		GetLastErrorString: e.getLastErrorString,
		DefaultReal:        func() float64 { return e.defaultReal },

		CreateModel:             e.createModel,
		DestroyModel:            e.destroyModel,
		LoadData:                e.loadData,
		SaveData:                e.saveData,
		LoadDataMem:             e.loadDataMem,
		SaveDataMem:             e.saveDataMem,
		LoadSimulation:          e.loadSimulation,
		SaveSimulation:          e.saveSimulation,
		CalculateStatics:        e.calculateStatics,
		RunSimulation:           e.runSimulation,
		ExtendSimulation:        e.extendSimulation,
		ResetModel:              e.resetModel,
		GetModelState:           e.getModelState,
		ProcessBatchScript:      e.processBatchScript,
		GetSimulationTimeStatus: e.getSimulationTimeStatus,
		GetModelThreadCount:     e.getModelThreadCount,
		SetModelThreadCount:     e.setModelThreadCount,
		BeginDataChange:         e.beginDataChange,
		EndDataChange:           e.endDataChange,

		ObjectCalled:  e.objectCalled,
		CreateObject:  e.createObject,
		DestroyObject: e.destroyObject,
		GetObjectList: e.getObjectList,

		GetDataType:     e.getDataType,
		GetDataRowCount: e.getDataRowCount,
		SetDataRowCount: e.setDataRowCount,
		InsertDataRow:   e.insertDataRow,
		DeleteDataRow:   e.deleteDataRow,
		GetDataInteger:  e.getDataInteger,
		SetDataInteger:  e.setDataInteger,
		GetDataDouble:   e.getDataDouble,
		SetDataDouble:   e.setDataDouble,
		GetDataString:   e.getDataString,
		SetDataString:   e.setDataString,

		GetVarID:        e.getVarID,
		GetVarNames:     e.getVarNames,
		GetNumOfSamples: e.getNumOfSamples,
		GetSampleTimes:  e.getSampleTimes,
		GetTimeHistory:  e.getTimeHistory,
		GetStaticResult: e.getStaticResult,

		CreateDiffraction:      e.createDiffraction,
		DestroyDiffraction:     e.destroyDiffraction,
		LoadDiffractionData:    e.loadDiffractionData,
		SaveDiffractionData:    e.saveDiffractionData,
		CalculateDiffraction:   e.calculateDiffraction,
		LoadDiffractionResults: e.loadDiffractionResults,
		SaveDiffractionResults: e.saveDiffractionResults,
		GetDiffractionState:    e.getDiffractionState,
		GetDiffractionOutput:   e.getDiffractionOutput,
	}
	for _, s := range native.Signatures() {
		if s.Feature != "" && e.omit[s.Feature] {
			clearSlot(s.Target(&p))
		}
	}
	return p
}

func (e *Engine) getDLLVersion(required, version *uint16, ok *int32, status *int32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls["C_GetDLLVersion"]++
	writeWide(version, native.VersionBufLen, e.version)
	*ok = 1
	if req := native.GoWideString(required); req != "" && !native.VersionAtLeast(e.version, req) {
		*ok = 0
	}
	*status = int32(native.StatusOK)
}

func (e *Engine) getLastErrorString(buf *uint16) int32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errorReads++
	enc := native.EncodeWide(e.lastError)
	if buf != nil {
		copy(unsafe.Slice(buf, len(enc)), enc)
	}
	return int32(len(enc))
}

// writeWide copies s into a fixed buffer of n units, truncating to keep the
// terminator.
func writeWide(buf *uint16, n int, s string) {
	if buf == nil {
		return
	}
	native.SetFixedWide(unsafe.Slice(buf, n), s)
}

// copyWide fills buf with enc. The caller measured enc's length first.
func copyWide(buf *uint16, enc []uint16) {
	copy(unsafe.Slice(buf, len(enc)), enc)
}

func clearSlot(slot any) { reflect.ValueOf(slot).Elem().SetZero() }
