// Package thread provides OS thread handles and process-wide thread-local
// storage keys for a scheduler built above the Go runtime.
//
// A Thread runs its function on a goroutine pinned to a dedicated OS thread
// (runtime.LockOSThread), giving the function a stable native thread identity
// for the lifetime of the run. The thread's display name is applied to the
// native thread, truncated to the platform limit, so it shows up in debuggers
// and profilers.
//
// Thread-local storage is addressed by process-wide keys from a fixed table;
// running out of keys is a programming defect and panics. Values are affine
// to the native thread that stored them: reads from any other thread observe
// the unset sentinel (nil). TLS calls are only meaningful from threads with a
// fixed identity: threads started by this package, or foreign goroutines
// that called BindCurrentThread first.
//
// Linux only: the package needs a stable native thread id (gettid) and
// comparable naming support, which Go exposes without cgo on Linux alone.
package thread
