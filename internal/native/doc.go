// Package native contains the binding to the simulation engine's dynamic
// library.
//
// # Layers
//
//  1. Signature table (signatures.go): one immutable descriptor per native
//     entry point. The loader resolves every descriptor to a typed Go function
//     in Procs.
//  2. Status translator (status.go): Binding.Check turns a non-zero status
//     into a *StatusError carrying the code and the engine's own message.
//  3. Call wrappers (calls_*.go): one method per native function. They marshal
//     arguments, allocate the status out-parameter, call, and funnel the
//     status through Check.
//
// Nothing in this package knows about host (0-based) indices; indices are
// passed through exactly as the engine expects them.
//
// # Memory
//
// Strings are handed to the engine as NUL-terminated UTF-16 buffers owned by
// Go. Variable-length outputs use the measure-then-fill idiom: a first call
// with a nil buffer reports the size, a second call fills a buffer of that
// size. Packed structs are serialised with encoding/binary, which never
// inserts padding.
//
// # Threading
//
// Every call is synchronous. The engine may use worker threads internally but
// progress callbacks are delivered on the calling goroutine's stack. The
// binding takes no locks around native calls; concurrent calls on the same
// handle are the engine's responsibility.
package native
