package enginetest

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unsafe"

	"gopkg.in/yaml.v3"

	"github.com/hsiuhsiu/simfx-go/internal/native"
)

// Data files list objects with their data items. A scalar item is a single
// YAML value, a table is a sequence; null marks an unset value.
type objectDoc struct {
	Name string         `yaml:"name"`
	Type string         `yaml:"type"`
	Data map[string]any `yaml:"data,omitempty"`
}

type dataDoc struct {
	Objects []objectDoc `yaml:"objects"`
}

type simulationDoc struct {
	Data    dataDoc   `yaml:"data"`
	State   int32     `yaml:"state"`
	Samples []float64 `yaml:"samples,omitempty"`
}

func typeCode(name string) (int32, bool) {
	for code, n := range typeNames {
		if n == name {
			return code, true
		}
	}
	return 0, false
}

func encodeValue(dataType int32, v value) any {
	if !v.set {
		return nil
	}
	switch dataType {
	case native.DataTypeDouble:
		return v.d
	case native.DataTypeBoolean:
		return v.i != 0
	case native.DataTypeInteger, native.DataTypeIntegerIndex:
		return int(v.i)
	}
	return v.s
}

func decodeValue(dataType int32, raw any) (value, error) {
	if raw == nil {
		return value{}, nil
	}
	switch dataType {
	case native.DataTypeDouble:
		switch x := raw.(type) {
		case float64:
			return dbl(x), nil
		case int:
			return dbl(float64(x)), nil
		}
	case native.DataTypeBoolean:
		switch x := raw.(type) {
		case bool:
			if x {
				return num(1), nil
			}
			return num(0), nil
		case int:
			if x != 0 {
				return num(1), nil
			}
			return num(0), nil
		}
	case native.DataTypeInteger, native.DataTypeIntegerIndex:
		if x, ok := raw.(int); ok {
			return num(int32(x)), nil
		}
	case native.DataTypeString, native.DataTypeVariable:
		switch x := raw.(type) {
		case string:
			return str(x), nil
		case int, float64, bool:
			return str(fmt.Sprint(x)), nil
		}
	}
	return value{}, fmt.Errorf("value %v does not fit data type %d", raw, dataType)
}

func (o *object) doc() objectDoc {
	d := objectDoc{Name: o.name, Type: typeNames[o.typ], Data: make(map[string]any, len(o.fields))}
	for name, f := range o.fields {
		if !f.table {
			d.Data[name] = encodeValue(f.dataType, f.rows[0])
			continue
		}
		rows := make([]any, len(f.rows))
		for i, r := range f.rows {
			rows[i] = encodeValue(f.dataType, r)
		}
		d.Data[name] = rows
	}
	return d
}

func (o *object) apply(d objectDoc) error {
	names := make([]string, 0, len(d.Data))
	for name := range d.Data {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f, ok := o.fields[name]
		if !ok {
			return fmt.Errorf("%s: unknown data name %q", o.name, name)
		}
		raw := d.Data[name]
		if !f.table {
			v, err := decodeValue(f.dataType, raw)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", o.name, name, err)
			}
			f.rows = []value{v}
			continue
		}
		list, ok := raw.([]any)
		if !ok && raw != nil {
			return fmt.Errorf("%s.%s: table needs a sequence", o.name, name)
		}
		rows := make([]value, len(list))
		for i, r := range list {
			v, err := decodeValue(f.dataType, r)
			if err != nil {
				return fmt.Errorf("%s.%s[%d]: %w", o.name, name, i+1, err)
			}
			rows[i] = v
		}
		f.rows = rows
	}
	return nil
}

func (e *Engine) modelDoc(m *model) dataDoc {
	var d dataDoc
	for _, o := range m.objects {
		d.Objects = append(d.Objects, o.doc())
	}
	return d
}

// loadDoc replaces the model's contents. General and Environment keep their
// handles; every other object is recreated.
func (e *Engine) loadDoc(m *model, d dataDoc) *fault {
	e.dropObjects(m, true)
	for _, o := range m.objects {
		for name, spec := range schema[o.typ] {
			o.fields[name] = spec.instantiate()
		}
	}
	clear(m.counter)
	for _, od := range d.Objects {
		typ, ok := typeCode(od.Type)
		if !ok || typ == TypeDiffraction {
			return failf(native.StatusFileReadError, "unknown object type %q", od.Type)
		}
		o := m.find(od.Name)
		switch {
		case typ == TypeGeneral || typ == TypeEnvironment:
			if o == nil || o.typ != typ {
				return failf(native.StatusFileReadError, "%s must be named %s", od.Type, typeNames[typ])
			}
		case o != nil:
			return failf(native.StatusFileReadError, "duplicate object %q", od.Name)
		default:
			o = e.addObject(m, typ, od.Name)
		}
		if err := o.apply(od); err != nil {
			return failf(native.StatusFileReadError, "%v", err)
		}
	}
	m.reset()
	return nil
}

func readFile(name string) ([]byte, *fault) {
	b, err := os.ReadFile(name)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, failf(native.StatusFileNotFound, "file not found: %s", name)
	case err != nil:
		return nil, failf(native.StatusFileReadError, "%v", err)
	}
	return b, nil
}

func writeFile(name string, v any) *fault {
	b, err := yaml.Marshal(v)
	if err != nil {
		return failf(native.StatusUnexpectedError, "%v", err)
	}
	if err := os.WriteFile(name, b, 0o644); err != nil {
		return failf(native.StatusFileWriteError, "%v", err)
	}
	return nil
}

func decodeDoc(b []byte, v any) *fault {
	if err := yaml.Unmarshal(b, v); err != nil {
		return failf(native.StatusFileReadError, "%v", err)
	}
	return nil
}

func (e *Engine) loadDataFile(m *model, name string) *fault {
	b, f := readFile(name)
	if f != nil {
		return f
	}
	var d dataDoc
	if f := decodeDoc(b, &d); f != nil {
		return f
	}
	return e.loadDoc(m, d)
}

func (e *Engine) saveSimulationFile(m *model, name string) *fault {
	switch m.state {
	case native.ModelInStaticState, native.ModelSimulationStopped, native.ModelSimulationStoppedUnstable:
	default:
		return failf(native.StatusModelStateError, "nothing to save")
	}
	return writeFile(name, simulationDoc{Data: e.modelDoc(m), State: m.state, Samples: m.samples})
}

func (e *Engine) loadSimulationFile(m *model, name string) *fault {
	b, f := readFile(name)
	if f != nil {
		return f
	}
	var d simulationDoc
	if f := decodeDoc(b, &d); f != nil {
		return f
	}
	if f := e.loadDoc(m, d.Data); f != nil {
		return f
	}
	if f := m.solveStatics(); f != nil {
		return failf(native.StatusFileReadError, "%s", f.msg)
	}
	m.state = d.State
	m.samples = d.Samples
	return nil
}

func (e *Engine) loadData(h uintptr, file *uint16, status *int32) {
	if !e.begin("C_LoadData", status) {
		return
	}
	e.end(status, func() *fault {
		m, f := e.lookupModel(h)
		if f != nil {
			return f
		}
		return e.loadDataFile(m, native.GoWideString(file))
	}())
}

func (e *Engine) saveData(h uintptr, file *uint16, status *int32) {
	if !e.begin("C_SaveData", status) {
		return
	}
	e.end(status, func() *fault {
		m, f := e.lookupModel(h)
		if f != nil {
			return f
		}
		return writeFile(native.GoWideString(file), e.modelDoc(m))
	}())
}

func checkFileType(fileType int32) *fault {
	if fileType != native.FileTypeBinary && fileType != native.FileTypeText {
		return failf(native.StatusInvalidParameter, "file type %d", fileType)
	}
	return nil
}

func (e *Engine) loadDataMem(h uintptr, fileType int32, buf unsafe.Pointer, size int64, status *int32) {
	if !e.begin("C_LoadDataMem", status) {
		return
	}
	e.end(status, func() *fault {
		m, f := e.lookupModel(h)
		if f != nil {
			return f
		}
		if f := checkFileType(fileType); f != nil {
			return f
		}
		if buf == nil || size <= 0 {
			return failf(native.StatusInvalidParameter, "empty buffer")
		}
		var d dataDoc
		if f := decodeDoc(bytes.Clone(unsafe.Slice((*byte)(buf), size)), &d); f != nil {
			return f
		}
		return e.loadDoc(m, d)
	}())
}

func (e *Engine) saveDataMem(h uintptr, fileType int32, buf unsafe.Pointer, size *int64, status *int32) {
	if !e.begin("C_SaveDataMem", status) {
		return
	}
	e.end(status, func() *fault {
		m, f := e.lookupModel(h)
		if f != nil {
			return f
		}
		if f := checkFileType(fileType); f != nil {
			return f
		}
		b, err := yaml.Marshal(e.modelDoc(m))
		if err != nil {
			return failf(native.StatusUnexpectedError, "%v", err)
		}
		n := int64(len(b))
		if buf == nil {
			*size = n
			return nil
		}
		if *size < n {
			*size = n
			return failf(native.StatusBufferTooSmall, "data needs %d bytes", n)
		}
		copy(unsafe.Slice((*byte)(buf), n), b)
		*size = n
		return nil
	}())
}

func (e *Engine) loadSimulation(h uintptr, file *uint16, status *int32) {
	if !e.begin("C_LoadSimulation", status) {
		return
	}
	e.end(status, func() *fault {
		m, f := e.lookupModel(h)
		if f != nil {
			return f
		}
		return e.loadSimulationFile(m, native.GoWideString(file))
	}())
}

func (e *Engine) saveSimulation(h uintptr, file *uint16, status *int32) {
	if !e.begin("C_SaveSimulation", status) {
		return
	}
	e.end(status, func() *fault {
		m, f := e.lookupModel(h)
		if f != nil {
			return f
		}
		return e.saveSimulationFile(m, native.GoWideString(file))
	}())
}

// Batch scripts hold one command per line; blank lines and lines starting
// with # are skipped. File arguments are relative to the script.
//
//	LoadData <file>
//	SaveData <file>
//	CalculateStatics
//	RunSimulation
//	SaveSimulation <file>
//	Reset
func (e *Engine) runScriptLine(m *model, dir, line string) *fault {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	if arg != "" && !filepath.IsAbs(arg) {
		arg = filepath.Join(dir, arg)
	}
	needArg := func() *fault {
		if arg == "" {
			return failf(native.StatusInvalidParameter, "%s needs a file name", cmd)
		}
		return nil
	}
	switch strings.ToLower(cmd) {
	case "loaddata":
		if f := needArg(); f != nil {
			return f
		}
		return e.loadDataFile(m, arg)
	case "savedata":
		if f := needArg(); f != nil {
			return f
		}
		return writeFile(arg, e.modelDoc(m))
	case "calculatestatics":
		return m.solveStatics()
	case "runsimulation":
		return m.simulateAll()
	case "savesimulation":
		if f := needArg(); f != nil {
			return f
		}
		return e.saveSimulationFile(m, arg)
	case "reset":
		m.reset()
		return nil
	}
	return failf(native.StatusInvalidParameter, "unknown batch command %q", cmd)
}

func (e *Engine) processBatchScript(h uintptr, file *uint16, progress uintptr, status *int32) {
	if !e.begin("C_ProcessBatchScript", status) {
		return
	}
	m, f := e.lookupModel(h)
	var script []byte
	name := native.GoWideString(file)
	if f == nil {
		script, f = readFile(name)
	}
	if f != nil {
		e.end(status, f)
		return
	}
	dir := filepath.Dir(name)
	sc := bufio.NewScanner(bytes.NewReader(script))
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if progress != 0 {
			e.mu.Unlock()
			cancelled := invokeText(h, m.scratch, fmt.Sprintf("line %d: %s", n, line))
			e.mu.Lock()
			if cancelled {
				e.end(status, failf(native.StatusOperationCancelled, "batch script cancelled at line %d", n))
				return
			}
		}
		if f := e.runScriptLine(m, dir, line); f != nil {
			e.end(status, failf(f.status, "%s line %d: %s", filepath.Base(name), n, f.msg))
			return
		}
	}
	if err := sc.Err(); err != nil {
		e.end(status, failf(native.StatusFileReadError, "%v", err))
		return
	}
	e.end(status, nil)
}
