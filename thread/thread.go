//go:build linux

package thread

import (
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"

	platerrors "github.com/wippyai/native-platform/errors"
)

// Options configures a Thread before construction. Immutable once a Thread
// is built from it.
type Options struct {
	// Name is the display name applied to the native thread, truncated to
	// the platform limit (15 bytes on Linux).
	Name string
	// StackSize is advisory on this runtime: the Go scheduler sizes and
	// grows thread stacks itself. Recorded for diagnostics. Negative values
	// are a programming defect.
	StackSize int
}

// Thread states. A handle moves Created -> Started -> Joined; any other
// transition is a programming defect.
const (
	stateCreated int32 = iota
	stateStarted
	stateJoined
)

// Thread owns exactly one native thread. The zero value is not usable;
// construct with New. Discarding a started handle without joining it is a
// logic error: the run function may still be executing.
type Thread struct {
	run       func()
	name      string
	stackSize int

	// tid is the native thread id, valid once Start has returned true.
	tid  atomic.Int64
	done chan struct{}

	state atomic.Int32
}

// New builds a handle in the Created state. run must not be nil.
func New(opts Options, run func()) *Thread {
	if run == nil {
		panic("BUG: thread.New with nil run function")
	}
	if opts.StackSize < 0 {
		panic("BUG: thread.New with negative stack size")
	}
	return &Thread{
		run:       run,
		name:      truncateName(opts.Name),
		stackSize: opts.StackSize,
		done:      make(chan struct{}),
	}
}

// Name returns the (already truncated) display name.
func (t *Thread) Name() string { return t.name }

// StackSize returns the advisory stack size the handle was built with.
func (t *Thread) StackSize() int { return t.stackSize }

// Start creates the native thread and blocks until its identity is known.
// On success the handle is Started and the native id is recorded. The Go
// runtime does not report thread-creation failure to user code, so on this
// platform a false return only follows an exhausted runtime, which aborts
// the process first; callers should still check, as the contract allows
// refusal.
func (t *Thread) Start() bool {
	if !t.state.CompareAndSwap(stateCreated, stateStarted) {
		panic("BUG: Start on a thread that was already started")
	}

	ready := make(chan struct{})
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		tid := currentThreadID()
		t.tid.Store(tid)
		if err := setNativeThreadName(t.name); err != nil {
			// Naming is cosmetic; the thread runs regardless.
			Logger().Debug("thread naming refused",
				zap.String("name", t.name),
				zap.Error(platerrors.ThreadStart(t.name, err)))
		}

		bindThreadLocals(tid)
		defer func() {
			unbindThreadLocals(tid)
			close(t.done)
		}()

		close(ready)
		t.run()
	}()

	<-ready
	return true
}

// NativeID returns the OS thread id, or 0 before Start.
func (t *Thread) NativeID() int64 { return t.tid.Load() }

// Join blocks until the thread's run function has returned. Joining from the
// target thread itself returns immediately instead of deadlocking. Join after
// Join is a no-op; Join before Start is a programming defect.
func (t *Thread) Join() {
	switch t.state.Load() {
	case stateCreated:
		panic("BUG: Join on a thread that was never started")
	case stateJoined:
		return
	}
	if currentThreadID() == t.tid.Load() {
		// Accidental self-join; skipping is the documented behavior.
		return
	}
	<-t.done
	t.state.Store(stateJoined)
}
