package memory

import (
	"unsafe"

	platerrors "github.com/wippyai/native-platform/errors"
)

// Region is one reservation obtained from AllocateRegion, tracking its base,
// size and current permission. The base is allocation-granularity aligned and
// the size is a commit-page multiple for as long as the region lives.
type Region struct {
	base uintptr
	size uintptr
	perm Permission
}

// AllocateRegion is Allocate returning a tracked region, or nil on refusal.
func AllocateRegion(hint, size, alignment uintptr, perm Permission) *Region {
	base := Allocate(hint, size, alignment, perm)
	if base == 0 {
		return nil
	}
	return &Region{base: base, size: size, perm: perm}
}

func (r *Region) Base() uintptr          { return r.base }
func (r *Region) Size() uintptr          { return r.size }
func (r *Region) Permission() Permission { return r.perm }

// Bytes exposes the region for reading or writing generated code. The slice
// is only valid while the region is mapped with an accessible permission.
func (r *Region) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(r.base)), r.size)
}

// SetPermissions transitions the whole region and records the new permission
// on success.
func (r *Region) SetPermissions(perm Permission) bool {
	if !SetPermissions(r.base, r.size, perm) {
		return false
	}
	r.perm = perm
	return true
}

// Release decommits a commit-page-aligned sub-range of the region. The range
// must lie entirely inside the region.
func (r *Region) Release(offset, length uintptr) bool {
	if offset > r.size || length > r.size-offset {
		panic("BUG: " + platerrors.New(platerrors.PhaseCommit, platerrors.KindInvalidInput).
			Op("Region.Release").
			Range(r.base+offset, length).
			Detail("range exceeds region of size 0x%x", r.size).
			Build().Error())
	}
	return Release(r.base+offset, length)
}

// DiscardSystemPages hints the whole region's contents away.
func (r *Region) DiscardSystemPages() bool {
	return DiscardSystemPages(r.base, r.size)
}

// Free returns the whole reservation. The region must not be used afterward.
func (r *Region) Free() bool {
	if !Free(r.base, r.size) {
		return false
	}
	r.base, r.size = 0, 0
	return true
}
