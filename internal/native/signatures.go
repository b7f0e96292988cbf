package native

import (
	"reflect"
	"unsafe"
)

// Kind is the marshal type of a native parameter or return value.
type Kind uint8

const (
	KindVoid         Kind = iota
	KindInt32             // int32 by value
	KindInt64             // int64 by value
	KindFloat64           // double by value
	KindHandle            // opaque handle by value
	KindCallback          // function pointer produced by the trampolines
	KindWString           // NUL-terminated UTF-16 input string
	KindWBuffer           // UTF-16 output buffer, nil when measuring
	KindStruct            // pointer to a packed struct
	KindBuffer            // caller-sized byte buffer, nil when measuring
	KindInt32Ptr          // int32 out-parameter
	KindInt64Ptr          // int64 in/out size parameter
	KindFloat64Ptr        // double out-parameter
	KindFloat64Array      // contiguous double buffer, nil when measuring
	KindHandlePtr         // handle out-parameter
	KindStatusPtr         // trailing status out-parameter
)

var kindNames = [...]string{
	KindVoid:         "void",
	KindInt32:        "int32",
	KindInt64:        "int64",
	KindFloat64:      "double",
	KindHandle:       "handle",
	KindCallback:     "callback",
	KindWString:      "wstring",
	KindWBuffer:      "wbuffer",
	KindStruct:       "struct*",
	KindBuffer:       "buffer",
	KindInt32Ptr:     "int32*",
	KindInt64Ptr:     "int64*",
	KindFloat64Ptr:   "double*",
	KindFloat64Array: "double[]",
	KindHandlePtr:    "handle*",
	KindStatusPtr:    "status*",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind?"
}

// GoType returns the Go type a bound function uses for the kind. KindVoid maps
// to nil.
func (k Kind) GoType() reflect.Type {
	switch k {
	case KindInt32:
		return reflect.TypeFor[int32]()
	case KindInt64:
		return reflect.TypeFor[int64]()
	case KindFloat64:
		return reflect.TypeFor[float64]()
	case KindHandle, KindCallback:
		return reflect.TypeFor[uintptr]()
	case KindWString, KindWBuffer:
		return reflect.TypeFor[*uint16]()
	case KindStruct, KindBuffer:
		return reflect.TypeFor[unsafe.Pointer]()
	case KindInt32Ptr, KindStatusPtr:
		return reflect.TypeFor[*int32]()
	case KindInt64Ptr:
		return reflect.TypeFor[*int64]()
	case KindFloat64Ptr, KindFloat64Array:
		return reflect.TypeFor[*float64]()
	case KindHandlePtr:
		return reflect.TypeFor[*uintptr]()
	}
	return nil
}

// Feature names an optional group of entry points. A group is available only
// when every symbol in it resolves and the library version satisfies the
// group's minimum, if any.
type Feature string

const (
	FeatureMemoryData       Feature = "memory-data"
	FeatureExtendSimulation Feature = "extend-simulation"
	FeatureThreadCount      Feature = "thread-count"
	FeatureDataChange       Feature = "data-change"
	FeatureDiffraction      Feature = "diffraction"
)

var featureMinVersion = map[Feature]string{
	FeatureThreadCount: "10.2",
	FeatureDiffraction: "11.0",
}

// Signature describes one native entry point.
type Signature struct {
	Name    string
	Return  Kind
	Params  []Kind
	Feature Feature // empty for required entry points

	slot func(*Procs) any
}

// Target returns a pointer to the Procs field the signature binds to.
func (s Signature) Target(p *Procs) any { return s.slot(p) }

func sig(name string, ret Kind, slot func(*Procs) any, params ...Kind) Signature {
	return Signature{Name: name, Return: ret, Params: params, slot: slot}
}

func (s Signature) optional(f Feature) Signature {
	s.Feature = f
	return s
}

var signatures = []Signature{
	// library
	sig("C_GetDLLVersion", KindVoid, func(p *Procs) any { return &p.GetDLLVersion }, KindWString, KindWBuffer, KindInt32Ptr, KindStatusPtr),
	sig("C_GetLastErrorString", KindInt32, func(p *Procs) any { return &p.GetLastErrorString }, KindWBuffer),
	sig("C_DefaultReal", KindFloat64, func(p *Procs) any { return &p.DefaultReal }),

	// model lifecycle and files
	sig("C_CreateModel", KindVoid, func(p *Procs) any { return &p.CreateModel }, KindHandlePtr, KindStruct, KindStatusPtr),
	sig("C_DestroyModel", KindVoid, func(p *Procs) any { return &p.DestroyModel }, KindHandle, KindStatusPtr),
	sig("C_LoadData", KindVoid, func(p *Procs) any { return &p.LoadData }, KindHandle, KindWString, KindStatusPtr),
	sig("C_SaveData", KindVoid, func(p *Procs) any { return &p.SaveData }, KindHandle, KindWString, KindStatusPtr),
	sig("C_LoadDataMem", KindVoid, func(p *Procs) any { return &p.LoadDataMem }, KindHandle, KindInt32, KindBuffer, KindInt64, KindStatusPtr).optional(FeatureMemoryData),
	sig("C_SaveDataMem", KindVoid, func(p *Procs) any { return &p.SaveDataMem }, KindHandle, KindInt32, KindBuffer, KindInt64Ptr, KindStatusPtr).optional(FeatureMemoryData),
	sig("C_LoadSimulation", KindVoid, func(p *Procs) any { return &p.LoadSimulation }, KindHandle, KindWString, KindStatusPtr),
	sig("C_SaveSimulation", KindVoid, func(p *Procs) any { return &p.SaveSimulation }, KindHandle, KindWString, KindStatusPtr),

	// model analysis
	sig("C_CalculateStatics", KindVoid, func(p *Procs) any { return &p.CalculateStatics }, KindHandle, KindCallback, KindStatusPtr),
	sig("C_RunSimulation", KindVoid, func(p *Procs) any { return &p.RunSimulation }, KindHandle, KindCallback, KindStatusPtr),
	sig("C_ExtendSimulation", KindVoid, func(p *Procs) any { return &p.ExtendSimulation }, KindHandle, KindFloat64, KindStatusPtr).optional(FeatureExtendSimulation),
	sig("C_ResetModel", KindVoid, func(p *Procs) any { return &p.ResetModel }, KindHandle, KindStatusPtr),
	sig("C_GetModelState", KindVoid, func(p *Procs) any { return &p.GetModelState }, KindHandle, KindInt32Ptr, KindStatusPtr),
	sig("C_ProcessBatchScript", KindVoid, func(p *Procs) any { return &p.ProcessBatchScript }, KindHandle, KindWString, KindCallback, KindStatusPtr),
	sig("C_GetSimulationTimeStatus", KindVoid, func(p *Procs) any { return &p.GetSimulationTimeStatus }, KindHandle, KindStruct, KindStatusPtr),
	sig("C_GetModelThreadCount", KindVoid, func(p *Procs) any { return &p.GetModelThreadCount }, KindHandle, KindInt32Ptr, KindStatusPtr).optional(FeatureThreadCount),
	sig("C_SetModelThreadCount", KindVoid, func(p *Procs) any { return &p.SetModelThreadCount }, KindHandle, KindInt32, KindStatusPtr).optional(FeatureThreadCount),
	sig("C_BeginDataChange", KindVoid, func(p *Procs) any { return &p.BeginDataChange }, KindHandle, KindStatusPtr).optional(FeatureDataChange),
	sig("C_EndDataChange", KindVoid, func(p *Procs) any { return &p.EndDataChange }, KindHandle, KindStatusPtr).optional(FeatureDataChange),

	// objects
	sig("C_ObjectCalled", KindVoid, func(p *Procs) any { return &p.ObjectCalled }, KindHandle, KindWString, KindStruct, KindStatusPtr),
	sig("C_CreateObject", KindVoid, func(p *Procs) any { return &p.CreateObject }, KindHandle, KindInt32, KindHandlePtr, KindStatusPtr),
	sig("C_DestroyObject", KindVoid, func(p *Procs) any { return &p.DestroyObject }, KindHandle, KindStatusPtr),
	sig("C_GetObjectList", KindVoid, func(p *Procs) any { return &p.GetObjectList }, KindHandle, KindBuffer, KindInt32Ptr, KindStatusPtr),

	// data items
	sig("C_GetDataType", KindVoid, func(p *Procs) any { return &p.GetDataType }, KindHandle, KindWString, KindInt32Ptr, KindStatusPtr),
	sig("C_GetDataRowCount", KindVoid, func(p *Procs) any { return &p.GetDataRowCount }, KindHandle, KindWString, KindInt32Ptr, KindStatusPtr),
	sig("C_SetDataRowCount", KindVoid, func(p *Procs) any { return &p.SetDataRowCount }, KindHandle, KindWString, KindInt32, KindStatusPtr),
	sig("C_InsertDataRow", KindVoid, func(p *Procs) any { return &p.InsertDataRow }, KindHandle, KindWString, KindInt32, KindStatusPtr),
	sig("C_DeleteDataRow", KindVoid, func(p *Procs) any { return &p.DeleteDataRow }, KindHandle, KindWString, KindInt32, KindStatusPtr),
	sig("C_GetDataInteger", KindVoid, func(p *Procs) any { return &p.GetDataInteger }, KindHandle, KindWString, KindInt32, KindInt32Ptr, KindStatusPtr),
	sig("C_SetDataInteger", KindVoid, func(p *Procs) any { return &p.SetDataInteger }, KindHandle, KindWString, KindInt32, KindInt32, KindStatusPtr),
	sig("C_GetDataDouble", KindVoid, func(p *Procs) any { return &p.GetDataDouble }, KindHandle, KindWString, KindInt32, KindFloat64Ptr, KindStatusPtr),
	sig("C_SetDataDouble", KindVoid, func(p *Procs) any { return &p.SetDataDouble }, KindHandle, KindWString, KindInt32, KindFloat64, KindStatusPtr),
	sig("C_GetDataString", KindInt32, func(p *Procs) any { return &p.GetDataString }, KindHandle, KindWString, KindInt32, KindWBuffer, KindStatusPtr),
	sig("C_SetDataString", KindVoid, func(p *Procs) any { return &p.SetDataString }, KindHandle, KindWString, KindInt32, KindWString, KindStatusPtr),

	// results
	sig("C_GetVarID", KindVoid, func(p *Procs) any { return &p.GetVarID }, KindHandle, KindWString, KindInt32Ptr, KindStatusPtr),
	sig("C_GetVarNames", KindInt32, func(p *Procs) any { return &p.GetVarNames }, KindHandle, KindWBuffer, KindStatusPtr),
	sig("C_GetNumOfSamples", KindVoid, func(p *Procs) any { return &p.GetNumOfSamples }, KindHandle, KindStruct, KindInt32Ptr, KindStatusPtr),
	sig("C_GetSampleTimes", KindVoid, func(p *Procs) any { return &p.GetSampleTimes }, KindHandle, KindStruct, KindFloat64Array, KindStatusPtr),
	sig("C_GetTimeHistory", KindVoid, func(p *Procs) any { return &p.GetTimeHistory }, KindHandle, KindStruct, KindStruct, KindInt32, KindFloat64Array, KindStatusPtr),
	sig("C_GetStaticResult", KindVoid, func(p *Procs) any { return &p.GetStaticResult }, KindHandle, KindStruct, KindInt32, KindFloat64Ptr, KindStatusPtr),

	// diffraction
	sig("C_CreateDiffraction", KindVoid, func(p *Procs) any { return &p.CreateDiffraction }, KindHandlePtr, KindStruct, KindStatusPtr).optional(FeatureDiffraction),
	sig("C_DestroyDiffraction", KindVoid, func(p *Procs) any { return &p.DestroyDiffraction }, KindHandle, KindStatusPtr).optional(FeatureDiffraction),
	sig("C_LoadDiffractionData", KindVoid, func(p *Procs) any { return &p.LoadDiffractionData }, KindHandle, KindWString, KindStatusPtr).optional(FeatureDiffraction),
	sig("C_SaveDiffractionData", KindVoid, func(p *Procs) any { return &p.SaveDiffractionData }, KindHandle, KindWString, KindStatusPtr).optional(FeatureDiffraction),
	sig("C_CalculateDiffraction", KindVoid, func(p *Procs) any { return &p.CalculateDiffraction }, KindHandle, KindCallback, KindStatusPtr).optional(FeatureDiffraction),
	sig("C_LoadDiffractionResults", KindVoid, func(p *Procs) any { return &p.LoadDiffractionResults }, KindHandle, KindWString, KindStatusPtr).optional(FeatureDiffraction),
	sig("C_SaveDiffractionResults", KindVoid, func(p *Procs) any { return &p.SaveDiffractionResults }, KindHandle, KindWString, KindStatusPtr).optional(FeatureDiffraction),
	sig("C_GetDiffractionState", KindVoid, func(p *Procs) any { return &p.GetDiffractionState }, KindHandle, KindInt32Ptr, KindStatusPtr).optional(FeatureDiffraction),
	sig("C_GetDiffractionOutput", KindVoid, func(p *Procs) any { return &p.GetDiffractionOutput }, KindHandle, KindInt32, KindFloat64Array, KindInt32Ptr, KindStatusPtr).optional(FeatureDiffraction),
}

// Signatures returns a copy of the signature table.
func Signatures() []Signature {
	out := make([]Signature, len(signatures))
	copy(out, signatures)
	return out
}

// Lookup returns the signature for a native entry point name.
func Lookup(name string) (Signature, bool) {
	for _, s := range signatures {
		if s.Name == name {
			return s, true
		}
	}
	return Signature{}, false
}
