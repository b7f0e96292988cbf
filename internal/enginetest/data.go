package enginetest

import (
	"slices"

	"github.com/hsiuhsiu/simfx-go/internal/native"
)

// Object type codes understood by the fake.
const (
	TypeGeneral     = native.ObjectTypeGeneral
	TypeEnvironment = native.ObjectTypeEnvironment
	TypeVessel      = native.ObjectTypeVessel
	TypeLine        = native.ObjectTypeLine
	TypeBuoy        = native.ObjectTypeBuoy

	// TypeDiffraction tags the data object behind a diffraction handle. It
	// cannot be created through C_CreateObject.
	TypeDiffraction int32 = 100
)

var typeNames = map[int32]string{
	TypeGeneral:     "General",
	TypeEnvironment: "Environment",
	TypeVessel:      "Vessel",
	TypeLine:        "Line",
	TypeBuoy:        "Buoy",
	TypeDiffraction: "Diffraction",
}

// value is one cell of a data item. Booleans and indices live in i, strings
// and variable-data names in s.
type value struct {
	set bool
	d   float64
	i   int32
	s   string
}

func dbl(v float64) value { return value{set: true, d: v} }
func num(v int32) value   { return value{set: true, i: v} }
func str(v string) value  { return value{set: true, s: v} }

type fieldSpec struct {
	dataType int32
	table    bool
	defaults []value
}

type field struct {
	dataType int32
	table    bool
	rows     []value
}

func (s fieldSpec) instantiate() *field {
	f := &field{dataType: s.dataType, table: s.table}
	switch {
	case len(s.defaults) > 0:
		f.rows = slices.Clone(s.defaults)
	case s.table:
		f.rows = nil
	default:
		f.rows = []value{{}}
	}
	return f
}

// schema lists the data items of each object type, in name order when
// serialised.
var schema = map[int32]map[string]fieldSpec{
	TypeGeneral: {
		"StageDuration":  {dataType: native.DataTypeDouble, table: true, defaults: []value{dbl(8), dbl(16)}},
		"SampleInterval": {dataType: native.DataTypeDouble, defaults: []value{dbl(0.5)}},
		"Title":          {dataType: native.DataTypeString, defaults: []value{str("")}},
	},
	TypeEnvironment: {
		"WaveHeight":    {dataType: native.DataTypeDouble},
		"WavePeriod":    {dataType: native.DataTypeDouble, defaults: []value{dbl(8)}},
		"WaveDirection": {dataType: native.DataTypeDouble, defaults: []value{dbl(180)}},
		"SeabedModel":   {dataType: native.DataTypeString, defaults: []value{str("Flat")}},
	},
	TypeVessel: {
		"InitialX":          {dataType: native.DataTypeDouble, defaults: []value{dbl(0)}},
		"InitialY":          {dataType: native.DataTypeDouble, defaults: []value{dbl(0)}},
		"InitialZ":          {dataType: native.DataTypeDouble, defaults: []value{dbl(0)}},
		"VesselType":        {dataType: native.DataTypeVariable, defaults: []value{str("Vessel Type1")}},
		"IncludedInStatics": {dataType: native.DataTypeBoolean, defaults: []value{num(1)}},
	},
	TypeLine: {
		"Length":          {dataType: native.DataTypeDouble},
		"SegmentCount":    {dataType: native.DataTypeInteger, defaults: []value{num(10)}},
		"IncludeTorsion":  {dataType: native.DataTypeBoolean, defaults: []value{num(0)}},
		"LineType":        {dataType: native.DataTypeVariable, defaults: []value{str("Line Type1")}},
		"EndAConnection":  {dataType: native.DataTypeString, defaults: []value{str("Fixed")}},
		"EndBNode":        {dataType: native.DataTypeIntegerIndex, defaults: []value{num(1)}},
		"SectionLength":   {dataType: native.DataTypeDouble, table: true, defaults: []value{{}}},
		"SectionLineType": {dataType: native.DataTypeString, table: true, defaults: []value{str("Line Type1")}},
	},
	TypeBuoy: {
		"Mass":     {dataType: native.DataTypeDouble},
		"InitialZ": {dataType: native.DataTypeDouble, defaults: []value{dbl(-10)}},
		"DragArea": {dataType: native.DataTypeDouble, table: true},
		"Attached": {dataType: native.DataTypeIntegerIndex, table: true},
	},
	TypeDiffraction: {
		"Title":      {dataType: native.DataTypeString, defaults: []value{str("")}},
		"WaterDepth": {dataType: native.DataTypeDouble, defaults: []value{dbl(100)}},
		"Periods":    {dataType: native.DataTypeDouble, table: true, defaults: []value{dbl(5), dbl(10), dbl(15)}},
		"Headings":   {dataType: native.DataTypeDouble, table: true, defaults: []value{dbl(0), dbl(90)}},
		"BodyCount":  {dataType: native.DataTypeInteger, defaults: []value{num(1)}},
	},
}

// resultVars lists the result variables of each object type; a variable's ID
// is its 1-based position.
var resultVars = map[int32][]string{
	TypeEnvironment: {"Elevation"},
	TypeVessel:      {"X", "Y", "Z"},
	TypeLine:        {"X", "Y", "Z", "Effective Tension", "Curvature"},
	TypeBuoy:        {"X", "Y", "Z"},
}

type object struct {
	handle      uintptr
	model       *model
	diffraction *diffraction
	typ         int32
	name        string
	fields      map[string]*field
}

func newObject(h uintptr, typ int32, name string) *object {
	o := &object{handle: h, typ: typ, name: name, fields: make(map[string]*field)}
	for n, spec := range schema[typ] {
		o.fields[n] = spec.instantiate()
	}
	return o
}

// touch discards results after a data write, as the engine does.
func (o *object) touch() {
	switch {
	case o.model != nil:
		o.model.reset()
	case o.diffraction != nil:
		o.diffraction.reset()
	}
}

func (e *Engine) lookupObject(h uintptr) (*object, *fault) {
	o, ok := e.objects[h]
	if !ok {
		return nil, failf(native.StatusInvalidHandle, "invalid handle %#x", h)
	}
	return o, nil
}

// cell resolves name and native index on handle h. Index 0 addresses a scalar
// item; table rows are 1-based.
func (e *Engine) cell(h uintptr, name *uint16, index int32, types ...int32) (*object, *field, *value, *fault) {
	o, f := e.lookupObject(h)
	if f != nil {
		return nil, nil, nil, f
	}
	n := native.GoWideString(name)
	fld, ok := o.fields[n]
	if !ok {
		return nil, nil, nil, failf(native.StatusUnknownDataName, "unknown data name %q", n)
	}
	if len(types) > 0 && !slices.Contains(types, fld.dataType) {
		return nil, nil, nil, failf(native.StatusInvalidParameter, "%q has data type %d", n, fld.dataType)
	}
	switch {
	case !fld.table && index == 0:
		return o, fld, &fld.rows[0], nil
	case fld.table && index >= 1 && int(index) <= len(fld.rows):
		return o, fld, &fld.rows[index-1], nil
	}
	return nil, nil, nil, failf(native.StatusIndexOutOfRange, "index %d out of range for %q", index, n)
}

func (e *Engine) tableField(h uintptr, name *uint16) (*object, *field, *fault) {
	o, f := e.lookupObject(h)
	if f != nil {
		return nil, nil, f
	}
	n := native.GoWideString(name)
	fld, ok := o.fields[n]
	if !ok {
		return nil, nil, failf(native.StatusUnknownDataName, "unknown data name %q", n)
	}
	if !fld.table {
		return nil, nil, failf(native.StatusInvalidParameter, "%q is not a table", n)
	}
	return o, fld, nil
}

var integerTypes = []int32{native.DataTypeInteger, native.DataTypeIntegerIndex, native.DataTypeBoolean}
var stringTypes = []int32{native.DataTypeString, native.DataTypeVariable}

func (e *Engine) getDataType(h uintptr, name *uint16, dataType *int32, status *int32) {
	if !e.begin("C_GetDataType", status) {
		return
	}
	e.end(status, func() *fault {
		o, f := e.lookupObject(h)
		if f != nil {
			return f
		}
		n := native.GoWideString(name)
		fld, ok := o.fields[n]
		if !ok {
			return failf(native.StatusUnknownDataName, "unknown data name %q", n)
		}
		*dataType = fld.dataType
		return nil
	}())
}

func (e *Engine) getDataRowCount(h uintptr, name *uint16, count *int32, status *int32) {
	if !e.begin("C_GetDataRowCount", status) {
		return
	}
	_, fld, f := e.tableField(h, name)
	if f == nil {
		*count = int32(len(fld.rows))
	}
	e.end(status, f)
}

func (e *Engine) setDataRowCount(h uintptr, name *uint16, count int32, status *int32) {
	if !e.begin("C_SetDataRowCount", status) {
		return
	}
	e.end(status, func() *fault {
		o, fld, f := e.tableField(h, name)
		if f != nil {
			return f
		}
		if count < 0 {
			return failf(native.StatusInvalidParameter, "negative row count %d", count)
		}
		for len(fld.rows) < int(count) {
			fld.rows = append(fld.rows, value{})
		}
		fld.rows = fld.rows[:count]
		o.touch()
		return nil
	}())
}

func (e *Engine) insertDataRow(h uintptr, name *uint16, index int32, status *int32) {
	if !e.begin("C_InsertDataRow", status) {
		return
	}
	e.end(status, func() *fault {
		o, fld, f := e.tableField(h, name)
		if f != nil {
			return f
		}
		if index < 1 || int(index) > len(fld.rows)+1 {
			return failf(native.StatusIndexOutOfRange, "insert index %d out of range", index)
		}
		fld.rows = slices.Insert(fld.rows, int(index-1), value{})
		o.touch()
		return nil
	}())
}

func (e *Engine) deleteDataRow(h uintptr, name *uint16, index int32, status *int32) {
	if !e.begin("C_DeleteDataRow", status) {
		return
	}
	e.end(status, func() *fault {
		o, fld, f := e.tableField(h, name)
		if f != nil {
			return f
		}
		if index < 1 || int(index) > len(fld.rows) {
			return failf(native.StatusIndexOutOfRange, "delete index %d out of range", index)
		}
		fld.rows = slices.Delete(fld.rows, int(index-1), int(index))
		o.touch()
		return nil
	}())
}

func (e *Engine) getDataInteger(h uintptr, name *uint16, index int32, v *int32, status *int32) {
	if !e.begin("C_GetDataInteger", status) {
		return
	}
	_, _, c, f := e.cell(h, name, index, integerTypes...)
	if f == nil {
		*v = c.i
	}
	e.end(status, f)
}

func (e *Engine) setDataInteger(h uintptr, name *uint16, index, v int32, status *int32) {
	if !e.begin("C_SetDataInteger", status) {
		return
	}
	e.end(status, func() *fault {
		o, fld, c, f := e.cell(h, name, index, integerTypes...)
		if f != nil {
			return f
		}
		switch fld.dataType {
		case native.DataTypeIntegerIndex:
			if v < 1 {
				return failf(native.StatusInvalidParameter, "index value %d must be at least 1", v)
			}
		case native.DataTypeBoolean:
			if v != 0 {
				v = 1
			}
		}
		*c = num(v)
		o.touch()
		return nil
	}())
}

func (e *Engine) getDataDouble(h uintptr, name *uint16, index int32, v *float64, status *int32) {
	if !e.begin("C_GetDataDouble", status) {
		return
	}
	e.end(status, func() *fault {
		_, _, c, f := e.cell(h, name, index, native.DataTypeDouble)
		if f != nil {
			return f
		}
		if !c.set {
			return failf(native.StatusValueNotAvailable, "%q has no value", native.GoWideString(name))
		}
		*v = c.d
		return nil
	}())
}

func (e *Engine) setDataDouble(h uintptr, name *uint16, index int32, v float64, status *int32) {
	if !e.begin("C_SetDataDouble", status) {
		return
	}
	e.end(status, func() *fault {
		o, _, c, f := e.cell(h, name, index, native.DataTypeDouble)
		if f != nil {
			return f
		}
		*c = dbl(v)
		o.touch()
		return nil
	}())
}

func (e *Engine) getDataString(h uintptr, name *uint16, index int32, buf *uint16, status *int32) int32 {
	if !e.begin("C_GetDataString", status) {
		return 0
	}
	var n int32
	e.end(status, func() *fault {
		_, _, c, f := e.cell(h, name, index, stringTypes...)
		if f != nil {
			return f
		}
		enc := native.EncodeWide(c.s)
		n = int32(len(enc))
		if buf != nil {
			copyWide(buf, enc)
		}
		return nil
	}())
	return n
}

func (e *Engine) setDataString(h uintptr, name *uint16, index int32, v *uint16, status *int32) {
	if !e.begin("C_SetDataString", status) {
		return
	}
	e.end(status, func() *fault {
		o, _, c, f := e.cell(h, name, index, stringTypes...)
		if f != nil {
			return f
		}
		*c = str(native.GoWideString(v))
		o.touch()
		return nil
	}())
}
