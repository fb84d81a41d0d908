// Package nativeplatform provides the OS-level substrate a managed runtime's
// memory manager and scheduler are built on: virtual-address reservation with
// deterministic alignment, page-permission transitions for code generation,
// OS thread lifecycle with thread-local storage, and best-effort enumeration
// of loaded shared libraries for crash reporting.
//
// # Architecture Overview
//
// The library is organized into packages with distinct responsibilities:
//
//	nativeplatform/      Root package with the consumer-facing interfaces
//	├── memory/          Page allocator: reserve, commit, protect, discard
//	├── thread/          OS thread handles and thread-local storage keys
//	├── symbols/         Frozen snapshot of loaded shared-library ranges
//	├── errors/          Structured error types for debugging
//	└── cmd/memprobe/    Interactive inspector for the above
//
// # Quick Start
//
// Allocate an aligned, writable region and later drop it:
//
//	size := 16 * memory.AllocatePageSize()
//	base := memory.Allocate(0, size, memory.AllocatePageSize(), memory.ReadWrite)
//	if base == 0 {
//	    // out of address space; caller decides how to degrade
//	}
//	defer memory.Free(base, size)
//
// Run work on a dedicated OS thread:
//
//	th := thread.New(thread.Options{Name: "gc-sweeper"}, func() { sweep() })
//	if !th.Start() {
//	    log.Fatal("thread creation refused by OS")
//	}
//	th.Join()
//
// # Error model
//
// Resource exhaustion (the OS refusing an allocation or a thread) is reported
// by zero/false returns and never terminates the process. Contract violations
// (misaligned sizes, unknown permission variants, thread-local key exhaustion)
// are programming defects and panic immediately: continuing would corrupt
// address-space bookkeeping.
package nativeplatform
