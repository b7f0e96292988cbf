package enginetest

import (
	"fmt"
	"unsafe"

	"github.com/hsiuhsiu/simfx-go/internal/native"
)

func (o *object) info() native.ObjectInfo {
	info := native.ObjectInfo{Handle: uint64(o.handle), Type: o.typ}
	native.SetFixedWide(info.Name[:], o.name)
	return info
}

func (e *Engine) objectCalled(h uintptr, name *uint16, info unsafe.Pointer, status *int32) {
	if !e.begin("C_ObjectCalled", status) {
		return
	}
	e.end(status, func() *fault {
		m, f := e.lookupModel(h)
		if f != nil {
			return f
		}
		n := native.GoWideString(name)
		o := m.find(n)
		if o == nil {
			return failf(native.StatusInvalidParameter, "no object called %q", n)
		}
		oi := o.info()
		if err := native.WritePacked(info, &oi); err != nil {
			return failf(native.StatusUnexpectedError, "%v", err)
		}
		return nil
	}())
}

func (e *Engine) newObjectName(m *model, typ int32) string {
	for {
		m.counter[typ]++
		name := fmt.Sprintf("%s%d", typeNames[typ], m.counter[typ])
		if m.find(name) == nil {
			return name
		}
	}
}

func (e *Engine) createObject(h uintptr, objectType int32, handle *uintptr, status *int32) {
	if !e.begin("C_CreateObject", status) {
		return
	}
	e.end(status, func() *fault {
		m, f := e.lookupModel(h)
		if f != nil {
			return f
		}
		switch objectType {
		case TypeVessel, TypeLine, TypeBuoy:
		default:
			return failf(native.StatusInvalidParameter, "cannot create object of type %d", objectType)
		}
		o := e.addObject(m, objectType, e.newObjectName(m, objectType))
		m.reset()
		*handle = o.handle
		return nil
	}())
}

func (e *Engine) destroyObject(h uintptr, status *int32) {
	if !e.begin("C_DestroyObject", status) {
		return
	}
	e.destroyed[h]++
	e.end(status, func() *fault {
		o, f := e.lookupObject(h)
		if f != nil {
			return f
		}
		if o.model == nil || o.typ == TypeGeneral || o.typ == TypeEnvironment {
			return failf(native.StatusInvalidParameter, "%s cannot be destroyed", o.name)
		}
		m := o.model
		for i, x := range m.objects {
			if x == o {
				m.objects = append(m.objects[:i], m.objects[i+1:]...)
				break
			}
		}
		delete(e.objects, h)
		m.reset()
		return nil
	}())
}

func (e *Engine) getObjectList(h uintptr, infos unsafe.Pointer, count *int32, status *int32) {
	if !e.begin("C_GetObjectList", status) {
		return
	}
	e.end(status, func() *fault {
		m, f := e.lookupModel(h)
		if f != nil {
			return f
		}
		n := int32(len(m.objects))
		if infos == nil {
			*count = n
			return nil
		}
		if *count < n {
			*count = n
			return failf(native.StatusBufferTooSmall, "object list needs %d entries", n)
		}
		size := native.PackedSize(&native.ObjectInfo{})
		for i, o := range m.objects {
			oi := o.info()
			if err := native.WritePacked(unsafe.Add(infos, i*size), &oi); err != nil {
				return failf(native.StatusUnexpectedError, "%v", err)
			}
		}
		*count = n
		return nil
	}())
}
