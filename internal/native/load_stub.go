//go:build !(darwin || linux || windows)

package native

// Load reports ErrNotBuilt on platforms without a dynamic library loader.
func Load(string, ...Option) (*Binding, error) {
	return nil, ErrNotBuilt
}
