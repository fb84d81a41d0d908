package memory

import (
	"os"
	"sync/atomic"

	platerrors "github.com/wippyai/native-platform/errors"
)

// The cached granularities use racy-but-idempotent lazy initialization:
// concurrent first callers may all perform the OS query, and the last write
// wins safely because the value is deterministic for a given host. Atomics
// keep the race detector satisfied without a mutex.
var (
	allocatePageSize atomic.Uintptr
	commitPageSize   atomic.Uintptr
)

// AllocatePageSize returns the allocation granularity: the minimum unit for
// reserving address space and the alignment every reservation base satisfies.
func AllocatePageSize() uintptr {
	if v := allocatePageSize.Load(); v != 0 {
		return v
	}
	v := uintptr(os.Getpagesize())
	allocatePageSize.Store(v)
	return v
}

// CommitPageSize returns the commit granularity: the minimum unit for
// committing or decommitting physical backing inside a reservation. It may be
// smaller than the allocation granularity; the two are cached independently.
func CommitPageSize() uintptr {
	if v := commitPageSize.Load(); v != 0 {
		return v
	}
	v := uintptr(os.Getpagesize())
	commitPageSize.Store(v)
	return v
}

// AlignedAddress rounds addr down to a multiple of alignment. Alignments are
// any positive multiple of the allocation granularity, not only powers of
// two, so this is modulo arithmetic rather than a bitmask.
func AlignedAddress(addr, alignment uintptr) uintptr {
	return addr - addr%alignment
}

// roundUp rounds v up to a multiple of alignment.
func roundUp(v, alignment uintptr) uintptr {
	return AlignedAddress(v+alignment-1, alignment)
}

// assertAligned enforces a granularity contract. Violations are programming
// defects, not runtime conditions, and terminate the process.
func assertAligned(phase platerrors.Phase, op string, addr, size, granularity uintptr) {
	if addr%granularity != 0 || size%granularity != 0 {
		panic("BUG: " + platerrors.Misaligned(phase, op, addr, size, granularity).Error())
	}
}
