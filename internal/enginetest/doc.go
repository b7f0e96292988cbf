// Package enginetest provides a deterministic in-process engine that fills
// native.Procs, so the binding and the façade can be exercised without the
// real dynamic library.
//
// The fake keeps models, objects and diffraction analyses in memory, runs a
// simple time-stepping "simulation" that produces linear results, and reports
// failures through the same status and last-error protocol as the engine.
// Data and simulation files are YAML documents.
//
// Typical use:
//
//	eng := enginetest.New()
//	b := eng.Binding(t)
//	h, err := b.CreateModel(0)
//
// Failures can be injected per entry point with Fail, and optional feature
// groups can be removed with WithoutFeature.
package enginetest
