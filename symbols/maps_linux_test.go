package symbols

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseMapsLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want SharedLibraryAddress
		ok   bool
	}{
		{
			name: "shared object",
			line: "7f2c4a000000-7f2c4a1c6000 r-xp 00026000 fd:01 1835034    /usr/lib/x86_64-linux-gnu/libc.so.6",
			want: SharedLibraryAddress{Name: "/usr/lib/x86_64-linux-gnu/libc.so.6", Start: 0x7f2c4a000000, End: 0x7f2c4a1c6000},
			ok:   true,
		},
		{
			name: "path with spaces",
			line: "400000-401000 r-xp 00000000 fd:01 99  /opt/my app/bin (deleted)",
			want: SharedLibraryAddress{Name: "/opt/my app/bin (deleted)", Start: 0x400000, End: 0x401000},
			ok:   true,
		},
		{
			name: "non-executable mapping",
			line: "7f2c4a1c6000-7f2c4a1ca000 r--p 001ec000 fd:01 1835034    /usr/lib/x86_64-linux-gnu/libc.so.6",
			ok:   false,
		},
		{
			name: "anonymous executable",
			line: "7f2c4b000000-7f2c4b010000 r-xp 00000000 00:00 0",
			ok:   false,
		},
		{
			name: "vdso",
			line: "7ffd1c9f3000-7ffd1c9f5000 r-xp 00000000 00:00 0    [vdso]",
			ok:   false,
		},
		{
			name: "stack",
			line: "7ffd1c9d2000-7ffd1c9f3000 rw-p 00000000 00:00 0    [stack]",
			ok:   false,
		},
		{
			name: "garbage",
			line: "not a maps line at all",
			ok:   false,
		},
		{
			name: "bad hex range",
			line: "zzzz-401000 r-xp 00000000 fd:01 99    /bin/thing",
			ok:   false,
		},
		{
			name: "inverted range",
			line: "401000-400000 r-xp 00000000 fd:01 99    /bin/thing",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseMapsLine(tt.line)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestProcMapsProvider_IncludesOwnExecutable(t *testing.T) {
	list, err := procMapsProvider{}.snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(list) == 0 {
		t.Fatal("no executable modules found; the test binary itself should appear")
	}

	exe, err := os.Executable()
	if err != nil {
		t.Skipf("os.Executable: %v", err)
	}
	base := filepath.Base(exe)
	for _, lib := range list {
		if strings.Contains(lib.Name, base) {
			return
		}
	}
	t.Logf("modules: %v", list)
	t.Errorf("test binary %q not present in module list", base)
}
