package simfx

// Version is populated at build time via ldflags:
//
//	-ldflags "-X github.com/hsiuhsiu/simfx-go/pkg/simfx.Version=v1.2.3"
var Version = "v0.0.0-in-progress"

// WrapperVersion returns the semantic version of this module. In development
// it defaults to v0.0.0-in-progress.
func WrapperVersion() string {
	return Version
}

// LibraryVersion returns the version reported by the loaded engine, or
// "unloaded" when lib is nil or closed.
func LibraryVersion(lib *Library) string {
	if lib.check() != nil {
		return "unloaded"
	}
	return lib.Version()
}
