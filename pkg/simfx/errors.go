package simfx

import (
	"errors"

	"github.com/hsiuhsiu/simfx-go/internal/native"
)

// StatusError is the error returned for every engine failure. Status is the
// engine's code and Message its own description.
type StatusError = native.StatusError

// Status is an engine status code.
type Status = native.Status

const (
	StatusOK                  = native.StatusOK
	StatusInvalidHandle       = native.StatusInvalidHandle
	StatusFileNotFound        = native.StatusFileNotFound
	StatusFileReadError       = native.StatusFileReadError
	StatusFileWriteError      = native.StatusFileWriteError
	StatusInvalidParameter    = native.StatusInvalidParameter
	StatusLicenceError        = native.StatusLicenceError
	StatusValueNotAvailable   = native.StatusValueNotAvailable
	StatusUnexpectedError     = native.StatusUnexpectedError
	StatusOperationCancelled  = native.StatusOperationCancelled
	StatusModelStateError     = native.StatusModelStateError
	StatusUnknownDataName     = native.StatusUnknownDataName
	StatusIndexOutOfRange     = native.StatusIndexOutOfRange
	StatusInvalidVarID        = native.StatusInvalidVarID
	StatusBufferTooSmall      = native.StatusBufferTooSmall
	StatusOutOfMemory         = native.StatusOutOfMemory
	StatusIncompatibleVersion = native.StatusIncompatibleVersion
)

// Sentinels for errors.Is. They match any *StatusError with the same code.
var (
	ErrInvalidHandle       error = &StatusError{Status: StatusInvalidHandle}
	ErrFileNotFound        error = &StatusError{Status: StatusFileNotFound}
	ErrFileRead            error = &StatusError{Status: StatusFileReadError}
	ErrFileWrite           error = &StatusError{Status: StatusFileWriteError}
	ErrInvalidParameter    error = &StatusError{Status: StatusInvalidParameter}
	ErrLicence             error = &StatusError{Status: StatusLicenceError}
	ErrValueNotAvailable   error = &StatusError{Status: StatusValueNotAvailable}
	ErrUnexpected          error = &StatusError{Status: StatusUnexpectedError}
	ErrOperationCancelled  error = &StatusError{Status: StatusOperationCancelled}
	ErrModelState          error = &StatusError{Status: StatusModelStateError}
	ErrUnknownDataName     error = &StatusError{Status: StatusUnknownDataName}
	ErrIndexOutOfRange     error = &StatusError{Status: StatusIndexOutOfRange}
	ErrInvalidVarID        error = &StatusError{Status: StatusInvalidVarID}
	ErrBufferTooSmall      error = &StatusError{Status: StatusBufferTooSmall}
	ErrOutOfMemory         error = &StatusError{Status: StatusOutOfMemory}
	ErrIncompatibleVersion error = &StatusError{Status: StatusIncompatibleVersion}
)

var (
	// ErrNotBuilt is returned by Open on platforms without a dynamic library
	// loader.
	ErrNotBuilt = native.ErrNotBuilt

	// ErrLibraryNotFound is returned by Open when no engine library could be
	// located.
	ErrLibraryNotFound = errors.New("simfx: engine library not found")

	// ErrLibraryLoad is returned by Open when the library exists but cannot
	// be loaded or lacks a required entry point.
	ErrLibraryLoad = native.ErrLibraryLoad

	// ErrVersionTooOld is returned by Open when the engine does not satisfy
	// Config.RequiredVersion.
	ErrVersionTooOld = native.ErrIncompatibleVersion

	// ErrNotSupported is returned by operations whose entry points the loaded
	// engine version lacks.
	ErrNotSupported = native.ErrNotSupported

	// ErrClosed is returned by every operation on a closed Library, Model or
	// Diffraction.
	ErrClosed = errors.New("simfx: handle closed")

	// ErrTypeMismatch is returned when a value does not fit the engine's
	// declared type for a data item.
	ErrTypeMismatch = errors.New("simfx: value does not match data type")

	// ErrInvalidIndex is returned for a host index the engine cannot
	// address: negative, or too large for its 1-based int32 form.
	ErrInvalidIndex = errors.New("simfx: index out of range")

	// ErrValueRange is returned when an integer argument (a data value, row
	// count or thread count) does not fit the engine's int32.
	ErrValueRange = errors.New("simfx: integer out of range")
)

// StatusOf returns the engine status carried by err, or StatusOK when err is
// nil or not an engine failure.
func StatusOf(err error) Status {
	return native.StatusOf(err)
}

// remapError folds loader errors into the public sentinels. Engine status
// errors pass through untouched.
func remapError(err error) error {
	if errors.Is(err, native.ErrMissingSymbol) {
		return errors.Join(ErrLibraryLoad, err)
	}
	return err
}
