package native

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
)

// Handle is an opaque token naming an engine-side object.
type Handle uintptr

var (
	// ErrNotBuilt reports that this platform has no dynamic library loader.
	ErrNotBuilt = errors.New("native: dynamic library loading not built for this platform")

	// ErrLibraryLoad wraps loader failures (file missing, wrong architecture).
	ErrLibraryLoad = errors.New("native: cannot load engine library")

	// ErrMissingSymbol reports that a required entry point did not resolve.
	ErrMissingSymbol = errors.New("native: required entry point missing")

	// ErrIncompatibleVersion reports that the engine rejected the required
	// version passed to C_GetDLLVersion.
	ErrIncompatibleVersion = errors.New("native: engine version does not satisfy required version")

	// ErrNotSupported reports a call to an optional entry point whose feature
	// group is unavailable.
	ErrNotSupported = errors.New("native: not supported by this engine version")
)

// VersionBufLen is the fixed size, in UTF-16 units, of the C_GetDLLVersion
// output buffer.
const VersionBufLen = 16

type options struct {
	requiredVersion string
	release         func() error
}

// Option configures a Binding.
type Option func(*options)

// WithRequiredVersion asks the engine to verify it satisfies v.
func WithRequiredVersion(v string) Option {
	return func(o *options) { o.requiredVersion = v }
}

// WithRelease sets the function Close runs for an in-process binding. Loaded
// libraries always release through the loader.
func WithRelease(fn func() error) Option {
	return func(o *options) { o.release = fn }
}

// Binding is the loaded engine: bound entry points, the engine version and
// the feature groups it supports. It is built once and never mutated
// afterwards; every call site receives it by reference.
type Binding struct {
	procs       Procs
	callbacks   callbacks
	version     string
	defaultReal float64
	features    map[Feature]bool
	release     func() error
}

// NewBinding builds a Binding around an in-process implementation of the
// entry points. Progress callbacks are delivered through InvokeTextProgress
// and InvokeDynamicsProgress.
func NewBinding(procs Procs, opts ...Option) (*Binding, error) {
	return newBinding(procs, inProcessCallbacks, nil, opts...)
}

func newBinding(procs Procs, cbs callbacks, release func() error, opts ...Option) (*Binding, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	present := make(map[Feature]bool)
	missing := make(map[Feature]bool)
	for _, s := range signatures {
		bound := !reflect.ValueOf(s.slot(&procs)).Elem().IsNil()
		switch {
		case s.Feature == "" && !bound:
			return nil, fmt.Errorf("%w: %s", ErrMissingSymbol, s.Name)
		case s.Feature == "":
		case bound:
			present[s.Feature] = true
		default:
			missing[s.Feature] = true
		}
	}

	if release == nil {
		release = o.release
	}
	b := &Binding{procs: procs, callbacks: cbs, release: release}
	version, err := b.queryVersion(o.requiredVersion)
	if err != nil {
		return nil, err
	}
	b.version = version
	b.defaultReal = procs.DefaultReal()

	b.features = make(map[Feature]bool, len(present))
	for f := range present {
		if missing[f] {
			continue
		}
		if min, ok := featureMinVersion[f]; ok && !VersionAtLeast(version, min) {
			continue
		}
		b.features[f] = true
	}
	return b, nil
}

func (b *Binding) queryVersion(required string) (string, error) {
	req, err := WideString(required)
	if err != nil {
		return "", err
	}
	var buf [VersionBufLen]uint16
	var ok, status int32
	b.procs.GetDLLVersion(req, &buf[0], &ok, &status)
	if err := b.check(status); err != nil {
		return "", err
	}
	v := decodeWide(buf[:])
	if ok == 0 {
		return v, fmt.Errorf("%w: engine %s, required %s", ErrIncompatibleVersion, v, required)
	}
	return v, nil
}

// Version returns the engine version string reported at load time.
func (b *Binding) Version() string { return b.version }

// DefaultReal returns the engine's sentinel for an unset double value.
func (b *Binding) DefaultReal() float64 { return b.defaultReal }

// Has reports whether feature group f is available.
func (b *Binding) Has(f Feature) bool { return b.features[f] }

// Features lists the available feature groups in name order.
func (b *Binding) Features() []Feature {
	out := make([]Feature, 0, len(b.features))
	for f := range b.features {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Close unloads the native library. In-process bindings have nothing to
// release unless built WithRelease. A failed release can be retried.
func (b *Binding) Close() error {
	if b == nil || b.release == nil {
		return nil
	}
	if err := b.release(); err != nil {
		return err
	}
	b.release = nil
	return nil
}

func (b *Binding) require(f Feature) error {
	if !b.features[f] {
		return fmt.Errorf("%w: %s", ErrNotSupported, f)
	}
	return nil
}
