package simfx

import (
	"fmt"
	"sync"

	"github.com/hsiuhsiu/simfx-go/internal/native"
)

// ModelObject is an object inside a model: General, Environment, a vessel, a
// line or a buoy. Its handle is borrowed from the model; it becomes invalid
// when the object is destroyed or the model closed.
type ModelObject struct {
	dataHandle

	model *Model
	name  string
	typ   ObjectType

	mu sync.Mutex
	h  native.Handle
}

func (m *Model) newObject(info native.ObjectInfo) *ModelObject {
	o := &ModelObject{
		model: m,
		name:  info.ObjectName(),
		typ:   ObjectType(info.Type),
		h:     native.Handle(info.Handle),
	}
	o.dataHandle = dataHandle{src: o}
	return o
}

func (o *ModelObject) nativeHandle() (native.Handle, error) {
	if o == nil {
		return 0, ErrClosed
	}
	if _, err := o.model.nativeHandle(); err != nil {
		return 0, err
	}
	o.mu.Lock()
	h := o.h
	o.mu.Unlock()
	if h == 0 {
		return 0, ErrClosed
	}
	return h, nil
}

func (o *ModelObject) library() *Library { return o.model.lib }

// Name is the object's name when it was looked up or created.
func (o *ModelObject) Name() string { return o.name }

// Type is the object's type.
func (o *ModelObject) Type() ObjectType { return o.typ }

// Model returns the model that owns the object.
func (o *ModelObject) Model() *Model { return o.model }

func (o *ModelObject) String() string { return fmt.Sprintf("%s %q", o.typ, o.name) }

// ObjectCalled looks an object up by name.
func (m *Model) ObjectCalled(name string) (*ModelObject, error) {
	info, err := call(m, func(b *native.Binding, h native.Handle) (native.ObjectInfo, error) {
		return b.ObjectCalled(h, name)
	})
	if err != nil {
		return nil, fmt.Errorf("object %q: %w", name, err)
	}
	return m.newObject(info), nil
}

// General returns the model's General object, which holds the stage and
// sampling data.
func (m *Model) General() (*ModelObject, error) { return m.ObjectCalled("General") }

// Environment returns the model's Environment object.
func (m *Model) Environment() (*ModelObject, error) { return m.ObjectCalled("Environment") }

// CreateObject adds a new object of type t with an engine-chosen name.
func (m *Model) CreateObject(t ObjectType) (*ModelObject, error) {
	return call(m, func(b *native.Binding, h native.Handle) (*ModelObject, error) {
		oh, err := b.CreateObject(h, int32(t))
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", t, err)
		}
		list, err := b.ObjectList(h)
		if err != nil {
			return nil, err
		}
		for _, info := range list {
			if native.Handle(info.Handle) == oh {
				return m.newObject(info), nil
			}
		}
		return m.newObject(native.ObjectInfo{Handle: uint64(oh), Type: int32(t)}), nil
	})
}

// DestroyObject removes obj from the model. obj is unusable afterwards.
func (m *Model) DestroyObject(obj *ModelObject) error {
	if obj == nil || obj.model != m {
		return fmt.Errorf("%w: object does not belong to this model", ErrInvalidHandle)
	}
	oh, err := obj.nativeHandle()
	if err != nil {
		return err
	}
	err = do(m, func(b *native.Binding, _ native.Handle) error {
		return b.DestroyObject(oh)
	})
	if err != nil {
		return fmt.Errorf("destroy %s: %w", obj, err)
	}
	obj.mu.Lock()
	obj.h = 0
	obj.mu.Unlock()
	return nil
}

// Objects lists every object in the model, General and Environment first.
func (m *Model) Objects() ([]*ModelObject, error) {
	list, err := call(m, func(b *native.Binding, h native.Handle) ([]native.ObjectInfo, error) {
		return b.ObjectList(h)
	})
	if err != nil {
		return nil, err
	}
	out := make([]*ModelObject, len(list))
	for i, info := range list {
		out[i] = m.newObject(info)
	}
	return out, nil
}

// VarNames lists the result variables the object reports.
func (o *ModelObject) VarNames() ([]string, error) {
	return call(o, func(b *native.Binding, h native.Handle) ([]string, error) {
		return b.VarNames(h)
	})
}

func (o *ModelObject) varID(b *native.Binding, h native.Handle, name string) (int32, error) {
	id, err := b.VarID(h, name)
	if err != nil {
		return 0, fmt.Errorf("%s result %q: %w", o, name, err)
	}
	return id, nil
}

// TimeHistory returns variable name over period at the location extra
// selects, one value per sample in Model.SampleTimes(period).
func (o *ModelObject) TimeHistory(name string, period Period, extra ObjectExtra) ([]float64, error) {
	np, err := period.native()
	if err != nil {
		return nil, err
	}
	ne, err := extra.native()
	if err != nil {
		return nil, err
	}
	mh, err := o.model.nativeHandle()
	if err != nil {
		return nil, err
	}
	return call(o, func(b *native.Binding, h native.Handle) ([]float64, error) {
		id, err := o.varID(b, h, name)
		if err != nil {
			return nil, err
		}
		return b.TimeHistory(mh, h, ne, np, id)
	})
}

// StaticResult returns variable name at the end of statics.
func (o *ModelObject) StaticResult(name string, extra ObjectExtra) (float64, error) {
	ne, err := extra.native()
	if err != nil {
		return 0, err
	}
	return call(o, func(b *native.Binding, h native.Handle) (float64, error) {
		id, err := o.varID(b, h, name)
		if err != nil {
			return 0, err
		}
		return b.StaticResult(h, ne, id)
	})
}
