package symbols

import (
	"testing"
)

func TestSharedLibraryAddresses_FrozenSnapshot(t *testing.T) {
	first := SharedLibraryAddresses()
	second := SharedLibraryAddresses()

	if len(first) != len(second) {
		t.Fatalf("snapshot not frozen: %d entries then %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("entry %d changed between calls: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestSharedLibraryAddresses_CallerCannotMutateSnapshot(t *testing.T) {
	first := SharedLibraryAddresses()
	if len(first) == 0 {
		t.Skip("no modules enumerable on this platform")
	}

	first[0].Name = "scribbled"
	if got := SharedLibraryAddresses()[0].Name; got == "scribbled" {
		t.Fatal("caller mutation leaked into the frozen snapshot")
	}
}

func TestSharedLibraryAddresses_RangesWellFormed(t *testing.T) {
	for _, lib := range SharedLibraryAddresses() {
		if lib.Name == "" {
			t.Error("module with empty name")
		}
		if lib.End <= lib.Start {
			t.Errorf("module %s has empty or inverted range", lib)
		}
	}
}
