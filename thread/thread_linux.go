//go:build linux

package thread

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// maxNameLen is the longest native thread name Linux accepts: 16 bytes for
// prctl(PR_SET_NAME) including the trailing NUL.
const maxNameLen = 15

func truncateName(name string) string {
	if len(name) > maxNameLen {
		return name[:maxNameLen]
	}
	return name
}

func currentThreadID() int64 {
	return int64(unix.Gettid())
}

func setNativeThreadName(name string) error {
	if name == "" {
		return nil
	}
	p, err := unix.BytePtrFromString(name)
	if err != nil {
		return err
	}
	return unix.Prctl(unix.PR_SET_NAME, uintptr(unsafe.Pointer(p)), 0, 0, 0)
}
