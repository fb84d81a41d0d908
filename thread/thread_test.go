//go:build linux

package thread

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestThread_RunsExactlyOnce(t *testing.T) {
	var (
		mu      sync.Mutex
		counter int
	)

	threads := make([]*Thread, 8)
	for i := range threads {
		threads[i] = New(Options{Name: "worker"}, func() {
			mu.Lock()
			counter++
			mu.Unlock()
		})
	}
	for _, th := range threads {
		if !th.Start() {
			t.Fatal("Start refused")
		}
	}
	for _, th := range threads {
		th.Join()
	}

	if counter != 8 {
		t.Fatalf("counter = %d, want 8 (lost or doubled runs)", counter)
	}
}

func TestThread_NativeIDRecorded(t *testing.T) {
	ids := make(chan int64, 1)
	th := New(Options{Name: "id-probe"}, func() {
		ids <- currentThreadID()
	})
	if !th.Start() {
		t.Fatal("Start refused")
	}
	th.Join()

	inside := <-ids
	if th.NativeID() == 0 {
		t.Fatal("NativeID not recorded by Start")
	}
	if th.NativeID() != inside {
		t.Fatalf("handle id %d != run-function id %d", th.NativeID(), inside)
	}
}

func TestThread_SelfJoinReturns(t *testing.T) {
	var th *Thread
	ran := make(chan struct{})
	th = New(Options{Name: "self-join"}, func() {
		// A self-join must be detected and skipped, not deadlock.
		th.Join()
		close(ran)
	})
	if !th.Start() {
		t.Fatal("Start refused")
	}

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("self-join deadlocked")
	}
	th.Join()
}

func TestThread_JoinTwiceIsNoOp(t *testing.T) {
	th := New(Options{}, func() {})
	if !th.Start() {
		t.Fatal("Start refused")
	}
	th.Join()
	th.Join()
}

func TestThread_NameTruncated(t *testing.T) {
	long := "a-very-long-thread-display-name"
	th := New(Options{Name: long}, func() {})
	if len(th.Name()) != maxNameLen {
		t.Fatalf("name length = %d, want %d", len(th.Name()), maxNameLen)
	}
	if !strings.HasPrefix(long, th.Name()) {
		t.Fatalf("truncation mangled the name: %q", th.Name())
	}

	short := "gc"
	if got := New(Options{Name: short}, func() {}).Name(); got != short {
		t.Fatalf("short name altered: %q", got)
	}
}

func TestThread_StartTwicePanics(t *testing.T) {
	th := New(Options{}, func() {})
	if !th.Start() {
		t.Fatal("Start refused")
	}
	defer th.Join()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on second Start")
		}
	}()
	th.Start()
}

func TestThread_JoinBeforeStartPanics(t *testing.T) {
	th := New(Options{}, func() {})
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on Join before Start")
		}
	}()
	th.Join()
}

func TestNew_ContractViolations(t *testing.T) {
	t.Run("nil run", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic for nil run")
			}
		}()
		New(Options{}, nil)
	})
	t.Run("negative stack", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic for negative stack size")
			}
		}()
		New(Options{StackSize: -1}, func() {})
	})
}
