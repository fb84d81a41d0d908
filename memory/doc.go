// Package memory controls virtual address space on behalf of a managed heap
// and a JIT code-page allocator: reserving and committing ranges with
// deterministic alignment, transitioning page permissions, and returning
// physical backing to the OS without giving up the reservation.
//
// Two granularities govern every range. AllocatePageSize is the unit for
// reserving address space; CommitPageSize is the unit for committing and
// decommitting backing inside a reservation. Both are queried from the OS once
// per process. They coincide on the supported POSIX targets but are contracted
// separately, and each operation asserts against the one it is specified on.
//
// Allocate optionally randomizes base addresses (ASLR). Randomization is
// skipped for plain ReadWrite regions and on 32-bit hosts; the hint sequence
// is reproducible under SetRandomMmapSeed for deterministic testing.
//
// Failure reporting follows the allocator contract: the OS refusing memory
// yields a zero address or false, never a panic. Misaligned arguments and
// unknown permission values panic, since continuing would corrupt the
// caller's address-space bookkeeping.
package memory
