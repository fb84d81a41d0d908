package memory

import (
	platerrors "github.com/wippyai/native-platform/errors"
)

// HasLazyCommits reports whether committed pages acquire physical backing
// only on first touch. Darwin charges commit eagerly.
func HasLazyCommits() bool { return false }

// sysMapPinned reserves exactly at addr. Darwin has no fixed-no-replace mmap
// flag, so the address is passed as a hint and the result is verified: a
// mapping that landed elsewhere means another thread won the race, and the
// stray mapping is dropped before reporting failure.
func sysMapPinned(addr, size uintptr, perm Permission, commit bool) (uintptr, error) {
	base, err := sysMap(addr, size, perm, commit)
	if err != nil {
		return 0, err
	}
	if base != addr {
		_ = sysUnmap(base, size)
		return 0, platerrors.New(platerrors.PhaseReserve, platerrors.KindOSRefusal).
			Op("mmap pinned").
			Range(addr, size).
			Detail("kernel placed mapping at 0x%x", base).
			Build()
	}
	return base, nil
}

// execHardeningProt returns extra protection bits for executable mappings.
// Darwin exposes no such mprotect bit (its JIT hardening is a map-time
// entitlement), so executable mappings carry the plain protection.
func execHardeningProt() int { return 0 }
