package simfx

import (
	"errors"

	"github.com/hsiuhsiu/simfx-go/internal/native"
)

// DataChange is an open batch of data edits. Engines with the data-change
// feature defer revalidation until End; on others both ends are no-ops.
type DataChange struct {
	m    *Model
	open bool
}

// BeginDataChange opens a batch of data edits. Call End when done.
func (m *Model) BeginDataChange() (*DataChange, error) {
	err := do(m, func(b *native.Binding, h native.Handle) error {
		return b.BeginDataChange(h)
	})
	switch {
	case errors.Is(err, ErrNotSupported):
		return &DataChange{m: m}, nil
	case err != nil:
		return nil, err
	}
	return &DataChange{m: m, open: true}, nil
}

// End closes the batch. Calling End again does nothing.
func (dc *DataChange) End() error {
	if dc == nil || !dc.open {
		return nil
	}
	dc.open = false
	return do(dc.m, func(b *native.Binding, h native.Handle) error {
		return b.EndDataChange(h)
	})
}

// DataChange runs fn inside a batch of data edits. The batch is closed even
// when fn fails; fn's error takes precedence.
func (m *Model) DataChange(fn func() error) (err error) {
	dc, err := m.BeginDataChange()
	if err != nil {
		return err
	}
	defer func() {
		if endErr := dc.End(); err == nil {
			err = endErr
		}
	}()
	return fn()
}
