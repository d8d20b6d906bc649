// Package ir provides the shared types of the dich_univ kernel.
//
// This package contains type definitions, typed errors and canonical
// fingerprints only. All other internal packages import ir; ir imports
// nothing internal, so it stays the foundational layer.
//
// Key design constraints:
//   - Parameter order is defined once (a catalog of ParamSpec) and never re-derived
//   - Errors carry a static declaration Site instead of a mutable parse position
//   - Canonical JSON never contains floats; they are encoded as IEEE-754 bit strings
package ir
