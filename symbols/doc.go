// Package symbols enumerates the shared libraries loaded in this process for
// crash reporting and profiling.
//
// The enumeration capability is optional. It is probed exactly once, on the
// first call: where the platform exposes a module map the snapshot is taken
// and frozen, and where it does not, every call returns an empty list; the
// caller never learns or cares which. The frozen snapshot deliberately goes
// stale with respect to libraries loaded later; a stack-trace consumer wants
// a consistent view, not a fresh one.
package symbols
