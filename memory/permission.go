package memory

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Permission is the access mode of a virtual memory range. The set is closed:
// every value below maps to exactly one OS protection value, and any other
// value is a programming defect that panics rather than failing at runtime.
type Permission int

const (
	// NoAccess reserves address space without committing backing.
	NoAccess Permission = iota
	// NoAccessWillExecuteLater is NoAccess for ranges that will hold
	// generated code once re-permissioned. It commits backing up front so
	// the later transition to an executable mode cannot fail on commit.
	NoAccessWillExecuteLater
	Read
	ReadWrite
	ReadExecute
	ReadWriteExecute
)

func (p Permission) String() string {
	switch p {
	case NoAccess:
		return "no-access"
	case NoAccessWillExecuteLater:
		return "no-access-will-execute-later"
	case Read:
		return "read"
	case ReadWrite:
		return "read-write"
	case ReadExecute:
		return "read-execute"
	case ReadWriteExecute:
		return "read-write-execute"
	}
	return fmt.Sprintf("permission(%d)", int(p))
}

// prot maps p to mmap/mprotect protection bits. Executable modes pick up the
// probed hardening bit when the host supports one. NoAccess and
// NoAccessWillExecuteLater intentionally share PROT_NONE.
func (p Permission) prot() int {
	switch p {
	case NoAccess, NoAccessWillExecuteLater:
		return unix.PROT_NONE
	case Read:
		return unix.PROT_READ
	case ReadWrite:
		return unix.PROT_READ | unix.PROT_WRITE
	case ReadExecute:
		return unix.PROT_READ | unix.PROT_EXEC | execHardeningProt()
	case ReadWriteExecute:
		return unix.PROT_READ | unix.PROT_WRITE | unix.PROT_EXEC | execHardeningProt()
	}
	panic(fmt.Sprintf("BUG: unknown memory permission %d", int(p)))
}

// executable reports whether p allows instruction fetch.
func (p Permission) executable() bool {
	return p == ReadExecute || p == ReadWriteExecute
}
