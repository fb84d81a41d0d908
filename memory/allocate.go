package memory

import (
	"go.uber.org/zap"

	platerrors "github.com/wippyai/native-platform/errors"
)

// maxAlignedAttempts bounds the padded/trim/pin cycle in Allocate. Another
// thread can map into the trimmed hole between our unmap and the pinned
// re-map, so a bounded number of retries is expected; the termination test
// covers this constant.
const maxAlignedAttempts = 3

// Allocate reserves size bytes aligned to alignment and, unless perm is
// NoAccess, commits them with the requested permission. hint may be 0 to let
// the allocator choose (randomized for non-ReadWrite permissions on 64-bit
// hosts). Returns the base address, or 0 if the OS refused.
//
// size and alignment must be multiples of AllocatePageSize, with
// alignment >= AllocatePageSize.
func Allocate(hint, size, alignment uintptr, perm Permission) uintptr {
	granularity := AllocatePageSize()
	assertAligned(platerrors.PhaseReserve, "Allocate", 0, size, granularity)
	if alignment < granularity || alignment%granularity != 0 {
		panic("BUG: " + platerrors.Misaligned(platerrors.PhaseReserve, "Allocate alignment", alignment, size, granularity).Error())
	}
	hint = AlignedAddress(hint, alignment)

	// NoAccess reserves only; every other permission commits backing,
	// including NoAccessWillExecuteLater (see Permission).
	commit := perm != NoAccess

	// First, try an exact-size allocation.
	base, err := randomizedMap(hint, size, perm, commit)
	if err != nil {
		Logger().Debug("direct reservation refused", zap.Uintptr("size", size), zap.Error(err))
		return 0
	}

	// If the base is suitably aligned, we're done.
	if base == AlignedAddress(base, alignment) {
		return base
	}

	// Otherwise, free it and try a larger allocation. The hint is unlikely
	// to be satisfiable now, so drop it.
	mustFree(base, size)
	hint = 0

	// Pad by the maximum misalignment so the mapped range is guaranteed to
	// contain an aligned base.
	padded := size + (alignment - granularity)
	for i := 0; i < maxAlignedAttempts; i++ {
		base, err = randomizedMap(hint, padded, perm, commit)
		if err != nil {
			Logger().Debug("padded reservation refused", zap.Uintptr("size", padded), zap.Error(err))
			return 0
		}

		// Trim: release the padded range, then pin a reservation at the
		// first aligned address inside it. The pin can lose a race with
		// another thread mapping into the hole; retry when it does.
		mustFree(base, padded)
		aligned := roundUp(base, alignment)
		pinned, pinErr := sysMapPinned(aligned, size, perm, commit)
		if pinErr == nil {
			return pinned
		}
		Logger().Debug("pinned reservation lost race",
			zap.Uintptr("addr", aligned), zap.Int("attempt", i+1), zap.Error(pinErr))
	}
	return 0
}

// randomizedMap performs one reservation attempt. When no hint is given, a
// randomized base is requested for non-ReadWrite permissions on hosts with
// viable ASLR; plain read-write regions and 32-bit hosts skip randomization.
// If the hinted attempt fails, the OS picks the address.
func randomizedMap(hint, size uintptr, perm Permission, commit bool) (uintptr, error) {
	if hint == 0 && useASLR() && perm != ReadWrite {
		hint = RandomMmapAddr()
	}
	if hint != 0 {
		if base, err := sysMap(hint, size, perm, commit); err == nil {
			return base, nil
		}
	}
	return sysMap(0, size, perm, commit)
}

// useASLR reports whether randomized bases are worth requesting. 32-bit
// hosts lack the room and have no viable ASLR, so they are left alone.
func useASLR() bool {
	return hostPointerBits == 64
}

// Free releases a whole reservation obtained from Allocate. addr and size
// must match the original reservation and be allocation-granularity aligned.
// Returns false if the OS refused the unmap.
func Free(addr, size uintptr) bool {
	assertAligned(platerrors.PhaseReserve, "Free", addr, size, AllocatePageSize())
	if err := sysUnmap(addr, size); err != nil {
		Logger().Debug("unmap refused", zap.Uintptr("addr", addr), zap.Uintptr("size", size), zap.Error(err))
		return false
	}
	return true
}

// mustFree is Free for ranges this package itself mapped moments earlier;
// the OS refusing that unmap means the bookkeeping is already corrupt.
func mustFree(addr, size uintptr) {
	if !Free(addr, size) {
		panic("BUG: " + platerrors.OSRefusal(platerrors.PhaseReserve, "munmap of own reservation", addr, size, nil).Error())
	}
}

// Release decommits a sub-range of a reservation: physical backing is
// returned to the OS while the address range stays reserved and inaccessible
// until re-permissioned. addr and size must be commit-page aligned, which may
// be a finer granularity than Free requires.
func Release(addr, size uintptr) bool {
	assertAligned(platerrors.PhaseCommit, "Release", addr, size, CommitPageSize())
	if err := sysDecommit(addr, size); err != nil {
		Logger().Debug("decommit refused", zap.Uintptr("addr", addr), zap.Uintptr("size", size), zap.Error(err))
		return false
	}
	return true
}

// SetPermissions transitions a range to perm. NoAccess decommits; any other
// permission (re)commits the range with the mapped protection. Transitions
// are not required to be monotonic: any permission may follow any other.
func SetPermissions(addr, size uintptr, perm Permission) bool {
	assertAligned(platerrors.PhaseProtect, "SetPermissions", addr, size, CommitPageSize())
	if perm == NoAccess {
		return Release(addr, size)
	}
	if err := sysProtect(addr, size, perm.prot()); err != nil {
		Logger().Debug("protection change refused",
			zap.Uintptr("addr", addr), zap.Uintptr("size", size),
			zap.Stringer("permission", perm), zap.Error(err))
		return false
	}
	return true
}

// DiscardSystemPages hints that the contents of the range are no longer
// needed; the reservation and its permissions survive. Contents afterward are
// unspecified: the pages may read back as before, as zero, or anything in
// between, so the return value is a completion signal only.
func DiscardSystemPages(addr, size uintptr) bool {
	assertAligned(platerrors.PhaseDiscard, "DiscardSystemPages", addr, size, CommitPageSize())
	if err := sysDiscard(addr, size); err != nil {
		Logger().Debug("discard refused", zap.Uintptr("addr", addr), zap.Uintptr("size", size), zap.Error(err))
		return false
	}
	return true
}

// Allocator adapts the package-level functions to an interface value for
// consumers that inject their page source. The zero value is ready to use.
type Allocator struct{}

// System returns the process-wide page allocator.
func System() *Allocator { return &Allocator{} }

func (*Allocator) Allocate(hint, size, alignment uintptr, perm Permission) uintptr {
	return Allocate(hint, size, alignment, perm)
}
func (*Allocator) Free(addr, size uintptr) bool    { return Free(addr, size) }
func (*Allocator) Release(addr, size uintptr) bool { return Release(addr, size) }
func (*Allocator) SetPermissions(addr, size uintptr, perm Permission) bool {
	return SetPermissions(addr, size, perm)
}
func (*Allocator) DiscardSystemPages(addr, size uintptr) bool {
	return DiscardSystemPages(addr, size)
}
func (*Allocator) AllocatePageSize() uintptr { return AllocatePageSize() }
func (*Allocator) CommitPageSize() uintptr   { return CommitPageSize() }
func (*Allocator) HasLazyCommits() bool      { return HasLazyCommits() }
