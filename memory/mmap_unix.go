//go:build linux || darwin

package memory

import (
	"sync/atomic"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	platerrors "github.com/wippyai/native-platform/errors"
)

// memSlice views a mapped range as a byte slice for the slice-based unix
// wrappers (mprotect, madvise). The range must stay mapped for the slice's
// lifetime.
func memSlice(addr, size uintptr) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
}

// sysMap reserves size bytes of anonymous private memory, committed with the
// permission's protection when commit is set, reserved inaccessibly
// otherwise. hint is advisory: the kernel may place the mapping elsewhere,
// and hint 0 leaves placement entirely to the kernel.
func sysMap(hint, size uintptr, perm Permission, commit bool) (uintptr, error) {
	prot := unix.PROT_NONE
	flags := unix.MAP_PRIVATE | unix.MAP_ANON
	if commit {
		prot = perm.prot()
	} else {
		flags |= unix.MAP_NORESERVE
	}
	p, err := unix.MmapPtr(-1, 0, unsafe.Pointer(hint), size, prot, flags)
	if err != nil {
		return 0, platerrors.OSRefusal(platerrors.PhaseReserve, "mmap", hint, size, err)
	}
	return uintptr(p), nil
}

func sysUnmap(addr, size uintptr) error {
	if err := unix.MunmapPtr(unsafe.Pointer(addr), size); err != nil {
		return platerrors.OSRefusal(platerrors.PhaseReserve, "munmap", addr, size, err)
	}
	return nil
}

func sysProtect(addr, size uintptr, prot int) error {
	if err := unix.Mprotect(memSlice(addr, size), prot); err != nil {
		return platerrors.OSRefusal(platerrors.PhaseProtect, "mprotect", addr, size, err)
	}
	return nil
}

// sysDecommit drops the physical backing of a sub-range while keeping its
// addresses reserved: an inaccessible anonymous mapping is pinned over the
// range, atomically replacing the old pages.
func sysDecommit(addr, size uintptr) error {
	flags := unix.MAP_PRIVATE | unix.MAP_ANON | unix.MAP_NORESERVE | unix.MAP_FIXED
	_, err := unix.MmapPtr(-1, 0, unsafe.Pointer(addr), size, unix.PROT_NONE, flags)
	if err != nil {
		return platerrors.OSRefusal(platerrors.PhaseCommit, "decommit overmap", addr, size, err)
	}
	return nil
}

// discardAdvice caches the madvise advice the kernel accepts for discarding:
// MADV_FREE when supported (cheaper, lazily reclaimed), MADV_DONTNEED as the
// fallback whose result serves only as a completion signal. Probed once;
// racy-but-idempotent.
var discardAdvice atomic.Int32

func sysDiscard(addr, size uintptr) error {
	b := memSlice(addr, size)
	adv := int(discardAdvice.Load())
	if adv == 0 {
		if err := unix.Madvise(b, unix.MADV_FREE); err == nil {
			discardAdvice.Store(unix.MADV_FREE)
			return nil
		}
		Logger().Debug("MADV_FREE unavailable, falling back to MADV_DONTNEED",
			zap.Error(platerrors.Unavailable(platerrors.PhaseProbe, "MADV_FREE", nil)))
		discardAdvice.Store(unix.MADV_DONTNEED)
		adv = unix.MADV_DONTNEED
	}
	if err := unix.Madvise(b, adv); err != nil {
		return platerrors.OSRefusal(platerrors.PhaseDiscard, "madvise", addr, size, err)
	}
	return nil
}
