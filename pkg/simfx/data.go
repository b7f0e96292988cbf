package simfx

import (
	"fmt"
	"runtime"

	"github.com/hsiuhsiu/simfx-go/internal/native"
)

// handleSource is anything that owns or borrows an engine handle.
type handleSource interface {
	nativeHandle() (native.Handle, error)
	library() *Library
}

// do runs fn against src's live handle and keeps src reachable until fn
// returns, so a finalizer cannot release the handle mid-call.
func do(src handleSource, fn func(b *native.Binding, h native.Handle) error) error {
	h, err := src.nativeHandle()
	if err != nil {
		return err
	}
	err = fn(src.library().binding, h)
	runtime.KeepAlive(src)
	return err
}

func call[T any](src handleSource, fn func(b *native.Binding, h native.Handle) (T, error)) (T, error) {
	h, err := src.nativeHandle()
	if err != nil {
		var zero T
		return zero, err
	}
	v, err := fn(src.library().binding, h)
	runtime.KeepAlive(src)
	return v, err
}

// codec reads and writes one engine data type. index is the engine's index:
// 0 for a scalar item, 1-based for a table row.
type codec struct {
	get func(b *native.Binding, h native.Handle, name string, index int32) (Value, error)
	set func(b *native.Binding, h native.Handle, name string, index int32, v Value) error
}

var codecs = map[DataType]codec{
	TypeDouble: {
		get: func(b *native.Binding, h native.Handle, name string, index int32) (Value, error) {
			v, ok, err := b.GetDataDouble(h, name, index)
			if err != nil {
				return Value{}, err
			}
			if !ok {
				v = b.DefaultReal()
			}
			return DoubleValue(v), nil
		},
		set: func(b *native.Binding, h native.Handle, name string, index int32, v Value) error {
			return b.SetDataDouble(h, name, index, v.Double)
		},
	},
	TypeInteger: {
		get: func(b *native.Binding, h native.Handle, name string, index int32) (Value, error) {
			n, err := b.GetDataInteger(h, name, index)
			return IntegerValue(int(n)), err
		},
		set: func(b *native.Binding, h native.Handle, name string, index int32, v Value) error {
			n, err := toInt32(v.Int)
			if err != nil {
				return err
			}
			return b.SetDataInteger(h, name, index, n)
		},
	},
	TypeIntegerIndex: {
		get: func(b *native.Binding, h native.Handle, name string, index int32) (Value, error) {
			n, err := b.GetDataInteger(h, name, index)
			if err != nil {
				return Value{}, err
			}
			return IndexValue(toHost(n)), nil
		},
		set: func(b *native.Binding, h native.Handle, name string, index int32, v Value) error {
			n, err := toNative(v.Int)
			if err != nil {
				return err
			}
			return b.SetDataInteger(h, name, index, n)
		},
	},
	TypeBoolean: {
		get: func(b *native.Binding, h native.Handle, name string, index int32) (Value, error) {
			n, err := b.GetDataInteger(h, name, index)
			return BoolValue(n != 0), err
		},
		set: func(b *native.Binding, h native.Handle, name string, index int32, v Value) error {
			var n int32
			if v.Bool {
				n = 1
			}
			return b.SetDataInteger(h, name, index, n)
		},
	},
	TypeString: {
		get: func(b *native.Binding, h native.Handle, name string, index int32) (Value, error) {
			s, err := b.GetDataString(h, name, index)
			return StringValue(s), err
		},
		set: func(b *native.Binding, h native.Handle, name string, index int32, v Value) error {
			return b.SetDataString(h, name, index, v.Text)
		},
	},
	TypeVariable: {
		get: func(b *native.Binding, h native.Handle, name string, index int32) (Value, error) {
			s, err := b.GetDataString(h, name, index)
			return VariableValue(s), err
		},
		set: func(b *native.Binding, h native.Handle, name string, index int32, v Value) error {
			return b.SetDataString(h, name, index, v.Text)
		},
	},
}

func codecFor(b *native.Binding, h native.Handle, name string) (DataType, codec, error) {
	tag, err := b.DataType(h, name)
	if err != nil {
		return 0, codec{}, err
	}
	dt := DataType(tag)
	c, ok := codecs[dt]
	if !ok {
		return 0, codec{}, fmt.Errorf("%w: %q has unknown data type %d", ErrTypeMismatch, name, tag)
	}
	return dt, c, nil
}

// dataHandle gives an object attribute-style access to its engine data
// items. It is embedded by ModelObject and Diffraction.
type dataHandle struct {
	src handleSource
}

func (d dataHandle) load(name string, index int32) (Value, error) {
	return call(d.src, func(b *native.Binding, h native.Handle) (Value, error) {
		_, c, err := codecFor(b, h, name)
		if err != nil {
			return Value{}, err
		}
		return c.get(b, h, name, index)
	})
}

func (d dataHandle) store(name string, index int32, x any) error {
	v, err := valueOf(x)
	if err != nil {
		return err
	}
	return do(d.src, func(b *native.Binding, h native.Handle) error {
		dt, c, err := codecFor(b, h, name)
		if err != nil {
			return err
		}
		v, err := coerce(v, dt)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return c.set(b, h, name, index, v)
	})
}

// DataType returns the engine's declared type of a data item.
func (d dataHandle) DataType(name string) (DataType, error) {
	return call(d.src, func(b *native.Binding, h native.Handle) (DataType, error) {
		dt, err := b.DataType(h, name)
		return DataType(dt), err
	})
}

// Get reads a scalar data item.
func (d dataHandle) Get(name string) (Value, error) {
	return d.load(name, 0)
}

// GetRow reads row of a table data item.
func (d dataHandle) GetRow(name string, row int) (Value, error) {
	n, err := toNative(row)
	if err != nil {
		return Value{}, err
	}
	return d.load(name, n)
}

// Set writes a scalar data item. v is a Value or a plain Go scalar
// (float64, int, string, bool); it is converted to the item's declared type.
func (d dataHandle) Set(name string, v any) error {
	return d.store(name, 0, v)
}

// SetRow writes row of a table data item.
func (d dataHandle) SetRow(name string, row int, v any) error {
	n, err := toNative(row)
	if err != nil {
		return err
	}
	return d.store(name, n, v)
}

func typed[T any](v Value, err error, want DataType, pick func(Value) T) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if v.Type != want && !(want == TypeString && v.Type == TypeVariable) {
		return zero, fmt.Errorf("%w: item is %s, not %s", ErrTypeMismatch, v.Type, want)
	}
	return pick(v), nil
}

// Double reads a scalar double item. An unset item reads as
// Library.DefaultReal.
func (d dataHandle) Double(name string) (float64, error) {
	v, err := d.Get(name)
	return typed(v, err, TypeDouble, func(v Value) float64 { return v.Double })
}

// Integer reads a scalar integer item.
func (d dataHandle) Integer(name string) (int, error) {
	v, err := d.Get(name)
	return typed(v, err, TypeInteger, func(v Value) int { return v.Int })
}

// Index reads a scalar index item as a 0-based index.
func (d dataHandle) Index(name string) (int, error) {
	v, err := d.Get(name)
	return typed(v, err, TypeIntegerIndex, func(v Value) int { return v.Int })
}

// Text reads a scalar string or variable-data item.
func (d dataHandle) Text(name string) (string, error) {
	v, err := d.Get(name)
	return typed(v, err, TypeString, func(v Value) string { return v.Text })
}

// Bool reads a scalar boolean item.
func (d dataHandle) Bool(name string) (bool, error) {
	v, err := d.Get(name)
	return typed(v, err, TypeBoolean, func(v Value) bool { return v.Bool })
}

// RowCount returns the number of rows of a table item.
func (d dataHandle) RowCount(name string) (int, error) {
	return call(d.src, func(b *native.Binding, h native.Handle) (int, error) {
		n, err := b.DataRowCount(h, name)
		return int(n), err
	})
}

// SetRowCount resizes a table item.
func (d dataHandle) SetRowCount(name string, count int) error {
	n, err := toInt32(count)
	if err != nil || n < 0 {
		return fmt.Errorf("%w: row count %d", ErrValueRange, count)
	}
	return do(d.src, func(b *native.Binding, h native.Handle) error {
		return b.SetDataRowCount(h, name, n)
	})
}

// InsertRow inserts an empty row before row. row == RowCount appends.
func (d dataHandle) InsertRow(name string, row int) error {
	n, err := toNative(row)
	if err != nil {
		return err
	}
	return do(d.src, func(b *native.Binding, h native.Handle) error {
		return b.InsertDataRow(h, name, n)
	})
}

// DeleteRow removes row from a table item.
func (d dataHandle) DeleteRow(name string, row int) error {
	n, err := toNative(row)
	if err != nil {
		return err
	}
	return do(d.src, func(b *native.Binding, h native.Handle) error {
		return b.DeleteDataRow(h, name, n)
	})
}

// Rows reads every row of a table item.
func (d dataHandle) Rows(name string) ([]Value, error) {
	n, err := d.RowCount(name)
	if err != nil {
		return nil, err
	}
	out := make([]Value, n)
	for i := range out {
		if out[i], err = d.GetRow(name, i); err != nil {
			return nil, err
		}
	}
	return out, nil
}
