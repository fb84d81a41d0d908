package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseReserve Phase = "reserve" // address-space reservation
	PhaseCommit  Phase = "commit"  // committing physical backing
	PhaseProtect Phase = "protect" // page-permission transitions
	PhaseDiscard Phase = "discard" // discard/decommit hints
	PhaseThread  Phase = "thread"  // thread lifecycle
	PhaseTLS     Phase = "tls"     // thread-local storage
	PhaseSymbols Phase = "symbols" // shared-library enumeration
	PhaseProbe   Phase = "probe"   // one-time capability probes
)

// Kind categorizes the error
type Kind string

const (
	KindOSRefusal    Kind = "os_refusal"
	KindExhausted    Kind = "exhausted"
	KindMisaligned   Kind = "misaligned"
	KindUnavailable  Kind = "unavailable"
	KindInvalidInput Kind = "invalid_input"
	KindNotFound     Kind = "not_found"
	KindParse        Kind = "parse"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Op     string
	Addr   uintptr
	Size   uintptr
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}

	if e.Addr != 0 || e.Size != 0 {
		fmt.Fprintf(&b, " (addr=0x%x size=0x%x)", e.Addr, e.Size)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Op sets the operation name
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// Range sets the address range the error applies to
func (b *Builder) Range(addr, size uintptr) *Builder {
	b.err.Addr = addr
	b.err.Size = size
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// OSRefusal wraps an OS error for an operation on a range
func OSRefusal(phase Phase, op string, addr, size uintptr, cause error) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindOSRefusal,
		Op:    op,
		Addr:  addr,
		Size:  size,
		Cause: cause,
	}
}

// Misaligned reports an address or size that violates a granularity contract
func Misaligned(phase Phase, op string, addr, size, granularity uintptr) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMisaligned,
		Op:     op,
		Addr:   addr,
		Size:   size,
		Detail: fmt.Sprintf("not a multiple of 0x%x", granularity),
	}
}

// Unavailable reports a missing optional platform capability
func Unavailable(phase Phase, what string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnavailable,
		Detail: what,
		Cause:  cause,
	}
}

// Exhausted reports a depleted fixed resource such as a key table
func Exhausted(phase Phase, what string, limit int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindExhausted,
		Detail: fmt.Sprintf("%s exhausted (limit %d)", what, limit),
	}
}

// ThreadStart wraps a thread-creation failure
func ThreadStart(name string, cause error) *Error {
	return &Error{
		Phase:  PhaseThread,
		Kind:   KindOSRefusal,
		Op:     "start",
		Detail: fmt.Sprintf("thread %q", name),
		Cause:  cause,
	}
}

// Parse reports an unreadable or unparsable module map
func Parse(source string, cause error) *Error {
	if len(source) > 64 {
		source = source[:64]
	}
	return &Error{
		Phase:  PhaseSymbols,
		Kind:   KindParse,
		Detail: fmt.Sprintf("module map %q", source),
		Cause:  cause,
	}
}
