package symbols

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	platerrors "github.com/wippyai/native-platform/errors"
)

// SharedLibraryAddress is the load range of one module in this process.
type SharedLibraryAddress struct {
	Name  string
	Start uintptr
	End   uintptr
}

func (s SharedLibraryAddress) String() string {
	return fmt.Sprintf("%s [0x%x-0x%x]", s.Name, s.Start, s.End)
}

// provider is the capability behind the walker. Exactly one implementation
// is selected on first use: the platform's module enumerator when the
// capability probe succeeds, or a permanent no-op otherwise. Callers never
// branch on availability; they just get an empty list.
type provider interface {
	snapshot() ([]SharedLibraryAddress, error)
}

// noneProvider is the selected provider when the capability is absent.
type noneProvider struct{}

func (noneProvider) snapshot() ([]SharedLibraryAddress, error) { return nil, nil }

var (
	providerOnce sync.Once
	walker       provider

	mu     sync.Mutex
	frozen []SharedLibraryAddress
	loaded bool
)

// SharedLibraryAddresses returns the modules loaded in this process. The
// first successful enumeration is frozen: libraries loaded afterward are
// deliberately not reflected, so repeated calls return identical contents.
// When the platform capability is unavailable the list is permanently empty.
// A transient read failure yields an empty list for that call only.
func SharedLibraryAddresses() []SharedLibraryAddress {
	providerOnce.Do(func() {
		walker = selectProvider()
	})

	mu.Lock()
	defer mu.Unlock()

	if !loaded {
		list, err := walker.snapshot()
		if err != nil {
			// Non-benign failure: discard this call's result and leave
			// the snapshot unfrozen for a later retry.
			Logger().Debug("module snapshot discarded", zap.Error(err))
			return nil
		}
		frozen = list
		loaded = true
	}

	// Hand out a copy so callers cannot mutate the frozen snapshot.
	out := make([]SharedLibraryAddress, len(frozen))
	copy(out, frozen)
	return out
}

// unavailable wraps a probe failure for logging.
func unavailable(what string, err error) error {
	return platerrors.Unavailable(platerrors.PhaseSymbols, what, err)
}
