package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseReserve,
				Kind:   KindOSRefusal,
				Op:     "mmap",
				Addr:   0x7f0000000000,
				Size:   0x10000,
				Detail: "padded attempt",
			},
			contains: []string{"[reserve]", "os_refusal", "mmap", "0x7f0000000000", "0x10000", "padded attempt"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseSymbols,
				Kind:  KindUnavailable,
			},
			contains: []string{"[symbols]", "unavailable"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseProtect,
				Kind:   KindOSRefusal,
				Detail: "commit refused",
				Cause:  errors.New("cannot allocate memory"),
			},
			contains: []string{"[protect]", "os_refusal", "commit refused", "caused by", "cannot allocate memory"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := OSRefusal(PhaseReserve, "mmap", 0, 4096, cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestError_Is(t *testing.T) {
	a := Misaligned(PhaseProtect, "mprotect", 0x1001, 4096, 4096)
	b := &Error{Phase: PhaseProtect, Kind: KindMisaligned}
	c := &Error{Phase: PhaseReserve, Kind: KindMisaligned}

	if !errors.Is(a, b) {
		t.Error("errors with same phase and kind should match")
	}
	if errors.Is(a, c) {
		t.Error("errors with different phase should not match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("exec format error")
	err := New(PhaseProbe, KindUnavailable).
		Op("madvise").
		Range(0x2000, 0x1000).
		Detail("MADV_FREE unsupported on kernel %s", "3.10").
		Cause(cause).
		Build()

	if err.Phase != PhaseProbe || err.Kind != KindUnavailable {
		t.Fatalf("builder lost phase/kind: %v", err)
	}
	if err.Op != "madvise" || err.Addr != 0x2000 || err.Size != 0x1000 {
		t.Fatalf("builder lost op/range: %v", err)
	}
	if !strings.Contains(err.Detail, "3.10") {
		t.Fatalf("detail not formatted: %q", err.Detail)
	}
	if err.Unwrap() != cause {
		t.Fatal("builder lost cause")
	}
}

func TestExhausted(t *testing.T) {
	err := Exhausted(PhaseTLS, "local storage keys", 128)
	msg := err.Error()
	for _, s := range []string{"[tls]", "exhausted", "128"} {
		if !strings.Contains(msg, s) {
			t.Errorf("message %q missing %q", msg, s)
		}
	}
}
