package native

import "unsafe"

// ObjectCalled looks an object up by name.
func (b *Binding) ObjectCalled(model Handle, name string) (ObjectInfo, error) {
	w, err := WideString(name)
	if err != nil {
		return ObjectInfo{}, err
	}
	var info ObjectInfo
	buf := make([]byte, PackedSize(&info))
	var status int32
	b.procs.ObjectCalled(uintptr(model), w, unsafe.Pointer(&buf[0]), &status)
	if err := b.check(status); err != nil {
		return ObjectInfo{}, err
	}
	if err := decodePacked(buf, &info); err != nil {
		return ObjectInfo{}, err
	}
	return info, nil
}

// CreateObject adds a new object of the given type to the model.
func (b *Binding) CreateObject(model Handle, objectType int32) (Handle, error) {
	var h uintptr
	var status int32
	b.procs.CreateObject(uintptr(model), objectType, &h, &status)
	if err := b.check(status); err != nil {
		return 0, err
	}
	return Handle(h), nil
}

// DestroyObject removes an object from its model.
func (b *Binding) DestroyObject(h Handle) error {
	var status int32
	b.procs.DestroyObject(uintptr(h), &status)
	return b.check(status)
}

// ObjectList returns every object in the model. The first call measures the
// object count, the second fills an array of packed ObjectInfo records.
func (b *Binding) ObjectList(model Handle) ([]ObjectInfo, error) {
	var count, status int32
	b.procs.GetObjectList(uintptr(model), nil, &count, &status)
	if err := b.check(status); err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, nil
	}
	size := PackedSize(&ObjectInfo{})
	buf := make([]byte, int(count)*size)
	b.procs.GetObjectList(uintptr(model), unsafe.Pointer(&buf[0]), &count, &status)
	if err := b.check(status); err != nil {
		return nil, err
	}
	n, err := filled(count, len(buf)/size)
	if err != nil {
		return nil, err
	}
	infos := make([]ObjectInfo, n)
	if err := decodePacked(buf[:n*size], infos); err != nil {
		return nil, err
	}
	return infos, nil
}
