package native

// Data items are addressed by name and a native row index; index 0 addresses
// a scalar item.

// DataType returns the engine's type tag for a named data item.
func (b *Binding) DataType(h Handle, name string) (int32, error) {
	w, err := WideString(name)
	if err != nil {
		return 0, err
	}
	var dt, status int32
	b.procs.GetDataType(uintptr(h), w, &dt, &status)
	if err := b.check(status); err != nil {
		return 0, err
	}
	return dt, nil
}

// DataRowCount returns the number of rows of a table data item.
func (b *Binding) DataRowCount(h Handle, name string) (int32, error) {
	w, err := WideString(name)
	if err != nil {
		return 0, err
	}
	var n, status int32
	b.procs.GetDataRowCount(uintptr(h), w, &n, &status)
	if err := b.check(status); err != nil {
		return 0, err
	}
	return n, nil
}

// SetDataRowCount resizes a table data item.
func (b *Binding) SetDataRowCount(h Handle, name string, count int32) error {
	w, err := WideString(name)
	if err != nil {
		return err
	}
	var status int32
	b.procs.SetDataRowCount(uintptr(h), w, count, &status)
	return b.check(status)
}

// InsertDataRow inserts a row before the native index.
func (b *Binding) InsertDataRow(h Handle, name string, index int32) error {
	w, err := WideString(name)
	if err != nil {
		return err
	}
	var status int32
	b.procs.InsertDataRow(uintptr(h), w, index, &status)
	return b.check(status)
}

// DeleteDataRow deletes the row at the native index.
func (b *Binding) DeleteDataRow(h Handle, name string, index int32) error {
	w, err := WideString(name)
	if err != nil {
		return err
	}
	var status int32
	b.procs.DeleteDataRow(uintptr(h), w, index, &status)
	return b.check(status)
}

// GetDataInteger reads an integer data item.
func (b *Binding) GetDataInteger(h Handle, name string, index int32) (int32, error) {
	w, err := WideString(name)
	if err != nil {
		return 0, err
	}
	var v, status int32
	b.procs.GetDataInteger(uintptr(h), w, index, &v, &status)
	if err := b.check(status); err != nil {
		return 0, err
	}
	return v, nil
}

// SetDataInteger writes an integer data item.
func (b *Binding) SetDataInteger(h Handle, name string, index, value int32) error {
	w, err := WideString(name)
	if err != nil {
		return err
	}
	var status int32
	b.procs.SetDataInteger(uintptr(h), w, index, value, &status)
	return b.check(status)
}

// GetDataDouble reads a double data item. ok is false when the engine answers
// StatusValueNotAvailable; that code is accepted here and never reaches Check.
func (b *Binding) GetDataDouble(h Handle, name string, index int32) (v float64, ok bool, err error) {
	w, err := WideString(name)
	if err != nil {
		return 0, false, err
	}
	var status int32
	b.procs.GetDataDouble(uintptr(h), w, index, &v, &status)
	if Status(status) == StatusValueNotAvailable {
		return 0, false, nil
	}
	if err := b.check(status); err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// SetDataDouble writes a double data item.
func (b *Binding) SetDataDouble(h Handle, name string, index int32, value float64) error {
	w, err := WideString(name)
	if err != nil {
		return err
	}
	var status int32
	b.procs.SetDataDouble(uintptr(h), w, index, value, &status)
	return b.check(status)
}

// GetDataString reads a string data item. The first call returns the length
// in UTF-16 units including the terminator; the second fills the buffer.
func (b *Binding) GetDataString(h Handle, name string, index int32) (string, error) {
	w, err := WideString(name)
	if err != nil {
		return "", err
	}
	var status int32
	n := b.procs.GetDataString(uintptr(h), w, index, nil, &status)
	if err := b.check(status); err != nil {
		return "", err
	}
	if n <= 0 {
		return "", nil
	}
	buf := make([]uint16, n)
	b.procs.GetDataString(uintptr(h), w, index, &buf[0], &status)
	if err := b.check(status); err != nil {
		return "", err
	}
	return decodeWide(buf), nil
}

// SetDataString writes a string data item.
func (b *Binding) SetDataString(h Handle, name string, index int32, value string) error {
	w, err := WideString(name)
	if err != nil {
		return err
	}
	v, err := WideString(value)
	if err != nil {
		return err
	}
	var status int32
	b.procs.SetDataString(uintptr(h), w, index, v, &status)
	return b.check(status)
}
