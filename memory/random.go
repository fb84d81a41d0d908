package memory

import (
	"math/rand"
	"sync"
	"time"
)

// hostPointerBits is 32 or 64 depending on the target.
const hostPointerBits = 32 << (^uintptr(0) >> 63)

const pageSizeBits = 12

// Candidate ranges for randomized bases, chosen to stay clear of the regions
// the OS prefers for module loading. A hint drawn from here is only a hint:
// the OS may still place the mapping elsewhere.
const (
	randomAddrMin64 = uint64(0x0000000080000000)
	randomAddrMax64 = uint64(0x000003FFFFFF0000)
	randomAddrMin32 = uint64(0x04000000)
	randomAddrMax32 = uint64(0x3FFF0000)
)

// hintSource produces reproducible pseudo-random allocation hints. The
// generator is the single process-wide seedable randomness source; every
// draw and every reseed happens under mu because the generator's state
// actually mutates, unlike the idempotent caches elsewhere in this package.
type hintSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newHintSource(seed int64) *hintSource {
	return &hintSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *hintSource) reseed(seed int64) {
	s.mu.Lock()
	s.rng = rand.New(rand.NewSource(seed))
	s.mu.Unlock()
}

// nextAddress draws raw bytes and masks them into the candidate range for the
// given pointer width. Same seed, same sequence.
func (s *hintSource) nextAddress(pointerBits int) uintptr {
	s.mu.Lock()
	raw := s.rng.Uint64()
	s.mu.Unlock()

	var addr uint64
	if pointerBits == 64 {
		addr = raw << pageSizeBits
		addr += randomAddrMin64
		addr &= randomAddrMax64
	} else {
		addr = raw << pageSizeBits
		addr += randomAddrMin32
		addr &= randomAddrMax32
	}
	return uintptr(addr)
}

var processHints = newHintSource(time.Now().UnixNano())

// SetRandomMmapSeed reseeds the process-wide hint generator so the sequence
// of randomized allocation bases becomes reproducible. A zero seed is
// ignored, leaving the entropy-based seeding in place.
func SetRandomMmapSeed(seed int64) {
	if seed != 0 {
		processHints.reseed(seed)
	}
}

// RandomMmapAddr returns the next randomized base-address hint for the host
// pointer width.
func RandomMmapAddr() uintptr {
	return processHints.nextAddress(hostPointerBits)
}
