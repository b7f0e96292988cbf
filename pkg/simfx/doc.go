// Package simfx is the Go API for the simulation engine's native library.
//
// Open loads the library once and returns a Library. Models and diffraction
// analyses are created from it; each owns an engine handle that is released
// exactly once by Close (a finalizer is the safety net, not the plan).
//
//	lib, err := simfx.Open(simfx.Config{})
//	if err != nil {
//	    return err
//	}
//	defer lib.Close()
//
//	m, err := lib.NewModel()
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//
//	if err := m.LoadData("mooring.yml"); err != nil {
//	    return err
//	}
//	if err := m.RunSimulation(nil); err != nil {
//	    return err
//	}
//
// # Data access
//
// Objects expose their named data items through Get and Set. The engine is
// asked for an item's type before every read or write, and the value travels
// as a Value, a tagged union over the engine's data types. Reading a double
// that has never been set returns Library.DefaultReal rather than an error.
//
// # Indices
//
// Every index in this package is 0-based: table rows, index-valued data items,
// stage numbers and result nodes. The engine counts from 1; the translation
// happens here and nowhere else.
//
// # Errors
//
// Every engine failure is a *StatusError carrying the engine's status code and
// message. Compare with errors.Is against the Err* sentinels, which match on
// the code alone.
//
// # Progress
//
// Long-running calls take an optional progress handler. The engine calls it
// synchronously on the calling goroutine; returning true asks the engine to
// cancel, which surfaces as ErrOperationCancelled.
package simfx
