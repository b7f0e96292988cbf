// Package internalcheck holds static checks over the simfx source tree.
//
// The checks run as ordinary tests and load packages with
// golang.org/x/tools/go/packages. They guard the layering of the binding:
// only the call wrappers in internal/native touch the raw entry points, every
// raw call hands the engine a status slot, and the public packages stay free
// of unsafe memory access.
//
// # Internal Use Only
//
// This package has no API. Applications use pkg/simfx instead.
package internalcheck
