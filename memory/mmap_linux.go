package memory

import (
	"sync/atomic"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	platerrors "github.com/wippyai/native-platform/errors"
)

// HasLazyCommits reports whether committed pages acquire physical backing
// only on first touch. Linux overcommits by default, so commit charges are
// lazy.
func HasLazyCommits() bool { return true }

// sysMapPinned reserves exactly at addr and fails instead of displacing an
// existing mapping. MAP_FIXED_NOREPLACE makes losing a placement race an
// error (EEXIST) rather than a silent clobber, which is what the aligned
// allocation retry loop depends on.
func sysMapPinned(addr, size uintptr, perm Permission, commit bool) (uintptr, error) {
	prot := unix.PROT_NONE
	flags := unix.MAP_PRIVATE | unix.MAP_ANON | unix.MAP_FIXED_NOREPLACE
	if commit {
		prot = perm.prot()
	} else {
		flags |= unix.MAP_NORESERVE
	}
	p, err := unix.MmapPtr(-1, 0, unsafe.Pointer(addr), size, prot, flags)
	if err != nil {
		return 0, platerrors.OSRefusal(platerrors.PhaseReserve, "mmap fixed-noreplace", addr, size, err)
	}
	return uintptr(p), nil
}

// protBTI is arm64's branch-target-identification protection bit. Kernels
// without BTI (and every non-arm64 kernel) reject it from mprotect, which is
// exactly what the probe relies on.
const protBTI = 0x10

// execHardening caches the probed extra protection bits for executable
// mappings: 0 unprobed, -1 probed absent, otherwise the bits themselves.
var execHardening atomic.Int32

// execHardeningProt returns protection bits to add to executable mappings
// when the host hardens indirect branches, probed once per process.
func execHardeningProt() int {
	switch v := execHardening.Load(); {
	case v > 0:
		return int(v)
	case v < 0:
		return 0
	}
	bits := probeExecHardening()
	if bits == 0 {
		execHardening.Store(-1)
	} else {
		execHardening.Store(int32(bits))
	}
	return bits
}

func probeExecHardening() int {
	size := CommitPageSize()
	p, err := unix.MmapPtr(-1, 0, nil, size, unix.PROT_READ|unix.PROT_EXEC,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return 0
	}
	defer func() { _ = unix.MunmapPtr(p, size) }()

	b := unsafe.Slice((*byte)(p), size)
	if err := unix.Mprotect(b, unix.PROT_READ|unix.PROT_EXEC|protBTI); err != nil {
		Logger().Debug("exec hardening unavailable",
			zap.Error(platerrors.Unavailable(platerrors.PhaseProbe, "PROT_BTI", err)))
		return 0
	}
	return protBTI
}
