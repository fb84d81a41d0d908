// Package errors provides structured error types for the native-platform library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the operation name, the address range it
// applies to, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseReserve, errors.KindOSRefusal).
//		Op("mmap").
//		Range(addr, size).
//		Cause(errno).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OSRefusal(errors.PhaseProtect, "mprotect", addr, size, errno)
//	err := errors.Unavailable(errors.PhaseSymbols, "/proc/self/maps", osErr)
//
// All errors implement the standard error interface and support errors.Is/As.
//
// Note the split in the library's error model: OS refusals travel through this
// package into logs and diagnostics, while the public memory and thread APIs
// report them as zero/false returns. Contract violations never become errors
// at all; they panic.
package errors
