package native

import (
	"errors"
	"fmt"
)

// Status is the out-of-band result code written by every native call.
type Status int32

const (
	StatusOK                  Status = 0
	StatusInvalidHandle       Status = 1
	StatusFileNotFound        Status = 2
	StatusFileReadError       Status = 3
	StatusFileWriteError      Status = 4
	StatusInvalidParameter    Status = 5
	StatusLicenceError        Status = 6
	StatusValueNotAvailable   Status = 7
	StatusUnexpectedError     Status = 8
	StatusOperationCancelled  Status = 9
	StatusModelStateError     Status = 10
	StatusUnknownDataName     Status = 11
	StatusIndexOutOfRange     Status = 12
	StatusInvalidVarID        Status = 13
	StatusBufferTooSmall      Status = 14
	StatusOutOfMemory         Status = 15
	StatusIncompatibleVersion Status = 16
)

var statusNames = map[Status]string{
	StatusOK:                  "ok",
	StatusInvalidHandle:       "invalid handle",
	StatusFileNotFound:        "file not found",
	StatusFileReadError:       "file read error",
	StatusFileWriteError:      "file write error",
	StatusInvalidParameter:    "invalid parameter",
	StatusLicenceError:        "licence error",
	StatusValueNotAvailable:   "value not available",
	StatusUnexpectedError:     "unexpected error",
	StatusOperationCancelled:  "operation cancelled",
	StatusModelStateError:     "model state error",
	StatusUnknownDataName:     "unknown data name",
	StatusIndexOutOfRange:     "index out of range",
	StatusInvalidVarID:        "invalid variable id",
	StatusBufferTooSmall:      "buffer too small",
	StatusOutOfMemory:         "out of memory",
	StatusIncompatibleVersion: "incompatible version",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int32(s))
}

// Known reports whether s is a member of the engine's enumeration.
func (s Status) Known() bool {
	_, ok := statusNames[s]
	return ok
}

// StatusError is raised for every non-zero status. Message is the engine's own
// description, fetched right after the failing call.
type StatusError struct {
	Status  Status
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("simfx: %s (status %d)", e.Status, int32(e.Status))
	}
	return fmt.Sprintf("simfx: %s (status %d): %s", e.Status, int32(e.Status), e.Message)
}

// Is matches any *StatusError with the same code, so callers can compare
// against sentinels built from a bare Status.
func (e *StatusError) Is(target error) bool {
	var t *StatusError
	if !errors.As(target, &t) {
		return false
	}
	return t.Status == e.Status
}

// StatusOf extracts the native status from err, or StatusOK if err does not
// carry one.
func StatusOf(err error) Status {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return StatusOK
}

// Check is the status translator. StatusOK is a no-op; anything else fetches
// the engine's error string and returns a *StatusError with the exact code.
// Call sites that accept a specific code as a valid outcome must test for it
// before calling Check.
func (b *Binding) Check(st Status) error {
	if st == StatusOK {
		return nil
	}
	return &StatusError{Status: st, Message: b.lastErrorString()}
}

func (b *Binding) check(status int32) error {
	return b.Check(Status(status))
}

// filled validates the element count a fill call reported against the
// capacity handed to it. An engine whose data grew between the measure and
// the fill call reports more than it could write.
func filled[N int32 | int64](n N, capacity int) (int, error) {
	switch {
	case n < 0:
		return 0, nil
	case int64(n) > int64(capacity):
		return 0, &StatusError{
			Status:  StatusBufferTooSmall,
			Message: fmt.Sprintf("engine reported %d elements for a buffer of %d", n, capacity),
		}
	}
	return int(n), nil
}

// lastErrorString uses measure-then-fill: the first call reports the buffer
// length in UTF-16 units including the terminator.
func (b *Binding) lastErrorString() string {
	n := b.procs.GetLastErrorString(nil)
	if n <= 0 {
		return ""
	}
	buf := make([]uint16, n)
	b.procs.GetLastErrorString(&buf[0])
	return decodeWide(buf)
}
