//go:build darwin || linux || windows

package native

import (
	"fmt"
	"sync"

	"github.com/ebitengine/purego"
)

// purego callbacks can never be freed, so the two trampolines are created once
// per process and shared by every Binding.
var (
	trampolinesOnce sync.Once
	trampolines     callbacks
)

func nativeCallbacks() callbacks {
	trampolinesOnce.Do(func() {
		trampolines = callbacks{
			text:     purego.NewCallback(InvokeTextProgress),
			dynamics: purego.NewCallback(InvokeDynamicsProgress),
		}
	})
	return trampolines
}

// Load opens the engine library at path, resolves every entry point in the
// signature table and returns the resulting Binding. Optional entry points
// that do not resolve disable their feature group; a missing required entry
// point fails the load.
func Load(path string, opts ...Option) (*Binding, error) {
	lib, err := openLibrary(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLibraryLoad, path, err)
	}

	var procs Procs
	for _, s := range signatures {
		sym, err := lookupSymbol(lib, s.Name)
		if err != nil || sym == 0 {
			if s.Feature != "" {
				continue
			}
			_ = closeLibrary(lib)
			return nil, fmt.Errorf("%w: %s", ErrMissingSymbol, s.Name)
		}
		purego.RegisterFunc(s.slot(&procs), sym)
	}

	b, err := newBinding(procs, nativeCallbacks(), func() error { return closeLibrary(lib) }, opts...)
	if err != nil {
		_ = closeLibrary(lib)
		return nil, err
	}
	return b, nil
}
