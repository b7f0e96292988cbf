package native

import (
	"sync"
	"unsafe"
)

// TextProgress receives a progress message from statics, batch script or
// diffraction calls. Returning true asks the engine to cancel.
type TextProgress func(message string) (cancel bool)

// DynamicsProgressFunc receives simulation time progress. Returning true asks
// the engine to cancel.
type DynamicsProgressFunc func(p DynamicsProgress) (cancel bool)

// callbacks holds the function pointers handed to long-running calls.
type callbacks struct {
	text     uintptr
	dynamics uintptr
}

// In-process engines never dereference the callback pointer; any non-zero
// token tells them a handler is registered.
var inProcessCallbacks = callbacks{text: 1, dynamics: 2}

// The trampolines are process-wide, so the handler for a call is found by the
// native handle the engine passes back as the first callback argument.
var (
	progressMu  sync.Mutex
	progressReg = map[uintptr]any{}
)

func registerProgress(h Handle, fn any) (release func()) {
	progressMu.Lock()
	progressReg[uintptr(h)] = fn
	progressMu.Unlock()
	return func() {
		progressMu.Lock()
		delete(progressReg, uintptr(h))
		progressMu.Unlock()
	}
}

func lookupProgress(h uintptr) (any, bool) {
	progressMu.Lock()
	fn, ok := progressReg[h]
	progressMu.Unlock()
	return fn, ok
}

// InvokeTextProgress is the Go side of the text progress trampoline:
// handle is the native object, message a NUL-terminated UTF-16 string and
// cancel an int32 the handler's answer is written to. In-process engines call
// it directly.
func InvokeTextProgress(handle, message, cancel uintptr) uintptr {
	v, ok := lookupProgress(handle)
	if !ok {
		return 0
	}
	fn, ok := v.(TextProgress)
	if !ok {
		return 0
	}
	msg := GoWideString((*uint16)(unsafe.Pointer(message)))
	writeCancel(cancel, fn(msg))
	return 0
}

// InvokeDynamicsProgress is the Go side of the dynamics progress trampoline.
// progress points to a packed DynamicsProgress.
func InvokeDynamicsProgress(handle, progress, cancel uintptr) uintptr {
	v, ok := lookupProgress(handle)
	if !ok {
		return 0
	}
	fn, ok := v.(DynamicsProgressFunc)
	if !ok {
		return 0
	}
	var p DynamicsProgress
	if progress != 0 {
		if err := ReadPacked(unsafe.Pointer(progress), &p); err != nil {
			return 0
		}
	}
	writeCancel(cancel, fn(p))
	return 0
}

func writeCancel(cancel uintptr, v bool) {
	if cancel == 0 {
		return
	}
	if v {
		*(*int32)(unsafe.Pointer(cancel)) = 1
	} else {
		*(*int32)(unsafe.Pointer(cancel)) = 0
	}
}

// withTextProgress runs call with the text trampoline registered for h, or
// with a null callback when fn is nil.
func (b *Binding) withTextProgress(h Handle, fn TextProgress, call func(cb uintptr)) {
	if fn == nil {
		call(0)
		return
	}
	release := registerProgress(h, fn)
	defer release()
	call(b.callbacks.text)
}

func (b *Binding) withDynamicsProgress(h Handle, fn DynamicsProgressFunc, call func(cb uintptr)) {
	if fn == nil {
		call(0)
		return
	}
	release := registerProgress(h, fn)
	defer release()
	call(b.callbacks.dynamics)
}
