//go:build linux

package thread

import (
	"runtime"
	"sync"

	platerrors "github.com/wippyai/native-platform/errors"
)

// maxLocalKeys is the size of the process-wide key table. Exhaustion is
// fatal: a runtime that leaks TLS keys has corrupted its own bootstrap.
const maxLocalKeys = 128

// LocalKey is an opaque index into process-wide thread-local storage.
type LocalKey int32

// tlsMu serializes key allocation/free and the thread registry. Value reads
// and writes go through it too: unlike native TLS, the registry is a shared
// map, so thread affinity here is a storage contract (values are keyed by
// the owning thread), not a licence to skip synchronization.
var (
	tlsMu      sync.RWMutex
	keyInUse   [maxLocalKeys]bool
	threadVals = make(map[int64]*[maxLocalKeys]any)
)

// CreateLocalKey allocates a fresh key. Panics when the table is exhausted.
func CreateLocalKey() LocalKey {
	tlsMu.Lock()
	defer tlsMu.Unlock()

	for i := range keyInUse {
		if !keyInUse[i] {
			keyInUse[i] = true
			return LocalKey(i)
		}
	}
	panic("BUG: " + platerrors.Exhausted(platerrors.PhaseTLS, "thread-local storage keys", maxLocalKeys).Error())
}

// DeleteLocalKey frees a key and clears its slot on every registered thread.
// Deleting a key that is not allocated is a programming defect.
func DeleteLocalKey(key LocalKey) {
	tlsMu.Lock()
	defer tlsMu.Unlock()

	assertKeyLocked(key)
	keyInUse[key] = false
	for _, vals := range threadVals {
		vals[key] = nil
	}
}

// SetLocal stores value for key on the calling thread. The caller must have
// a fixed thread identity (a package-started thread or BindCurrentThread).
func SetLocal(key LocalKey, value any) {
	tid := currentThreadID()

	tlsMu.Lock()
	defer tlsMu.Unlock()

	assertKeyLocked(key)
	vals := threadVals[tid]
	if vals == nil {
		panic("BUG: SetLocal from a thread with no fixed identity (use BindCurrentThread)")
	}
	vals[key] = value
}

// GetLocal returns the calling thread's value for key, or nil if this thread
// never set it. nil is the unset sentinel: another thread's value is never
// observed.
func GetLocal(key LocalKey) any {
	tid := currentThreadID()

	tlsMu.RLock()
	defer tlsMu.RUnlock()

	assertKeyLocked(key)
	vals := threadVals[tid]
	if vals == nil {
		return nil
	}
	return vals[key]
}

// assertKeyLocked validates key under tlsMu.
func assertKeyLocked(key LocalKey) {
	if key < 0 || key >= maxLocalKeys || !keyInUse[key] {
		panic("BUG: use of unallocated thread-local key")
	}
}

// bindThreadLocals registers storage for a native thread id.
func bindThreadLocals(tid int64) {
	tlsMu.Lock()
	if threadVals[tid] == nil {
		threadVals[tid] = new([maxLocalKeys]any)
	}
	tlsMu.Unlock()
}

// unbindThreadLocals drops a thread's storage when it exits.
func unbindThreadLocals(tid int64) {
	tlsMu.Lock()
	delete(threadVals, tid)
	tlsMu.Unlock()
}

// BindCurrentThread pins the calling goroutine to its OS thread and registers
// thread-local storage for it, so foreign threads (the main thread, testing
// goroutines) can use GetLocal/SetLocal. The returned release function drops
// the storage and unpins the goroutine.
func BindCurrentThread() func() {
	runtime.LockOSThread()
	tid := currentThreadID()
	bindThreadLocals(tid)
	return func() {
		unbindThreadLocals(tid)
		runtime.UnlockOSThread()
	}
}
