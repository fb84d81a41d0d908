package nativeplatform

import "github.com/wippyai/native-platform/memory"

// PageAllocator is the surface a heap or JIT code-page manager consumes.
// memory's package-level functions satisfy it via Default.
type PageAllocator interface {
	// Allocate reserves (and commits, unless perm is NoAccess) size bytes at
	// an alignment-aligned base. Returns 0 when the OS refuses.
	Allocate(hint, size, alignment uintptr, perm memory.Permission) uintptr
	// Free releases a whole reservation obtained from Allocate.
	Free(addr, size uintptr) bool
	// Release decommits a sub-range while keeping the addresses reserved.
	Release(addr, size uintptr) bool
	// SetPermissions transitions a committed range to perm.
	SetPermissions(addr, size uintptr, perm memory.Permission) bool
	// DiscardSystemPages hints that page contents may be dropped.
	DiscardSystemPages(addr, size uintptr) bool

	AllocatePageSize() uintptr
	CommitPageSize() uintptr
	HasLazyCommits() bool
}

// Runner is one unit of work bound to a dedicated OS thread.
type Runner interface {
	Run()
}

// Default returns the process-wide page allocator.
func Default() PageAllocator {
	return memory.System()
}
