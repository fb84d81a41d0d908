package symbols

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	platerrors "github.com/wippyai/native-platform/errors"
)

const procMapsPath = "/proc/self/maps"

// selectProvider probes the kernel's memory-map interface once. A process
// that cannot open its own map (hardened procfs, exotic sandboxes) gets the
// permanent no-op provider; there is no retry on later calls.
func selectProvider() provider {
	f, err := os.Open(procMapsPath)
	if err != nil {
		Logger().Debug("module enumeration capability absent",
			zap.Error(unavailable(procMapsPath, err)))
		return noneProvider{}
	}
	f.Close()
	return procMapsProvider{}
}

// procMapsProvider enumerates loaded modules from /proc/self/maps.
type procMapsProvider struct{}

func (procMapsProvider) snapshot() ([]SharedLibraryAddress, error) {
	f, err := os.Open(procMapsPath)
	if err != nil {
		return nil, unavailable(procMapsPath, err)
	}
	defer f.Close()

	var result []SharedLibraryAddress
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		entry, ok := parseMapsLine(sc.Text())
		if !ok {
			continue
		}
		result = append(result, entry)
	}
	if err := sc.Err(); err != nil {
		// A read error mid-walk taints the whole snapshot.
		return nil, platerrors.Parse(procMapsPath, err)
	}
	return result, nil
}

// parseMapsLine extracts one executable, file-backed mapping. Lines that are
// not modules (heaps, stacks, anonymous code) and lines that do not parse
// are skipped; a single bad module never crashes a stack-trace consumer.
func parseMapsLine(line string) (SharedLibraryAddress, bool) {
	// start-end perms offset dev inode path
	fields := strings.Fields(line)
	if len(fields) < 6 {
		return SharedLibraryAddress{}, false
	}

	perms := fields[1]
	if len(perms) < 3 || perms[2] != 'x' {
		return SharedLibraryAddress{}, false
	}

	name := strings.Join(fields[5:], " ")
	if !strings.HasPrefix(name, "/") {
		// [vdso], [vsyscall] and anonymous executable mappings are not
		// shared libraries.
		return SharedLibraryAddress{}, false
	}

	sep := strings.IndexByte(fields[0], '-')
	if sep < 0 {
		return SharedLibraryAddress{}, false
	}
	start, err := strconv.ParseUint(fields[0][:sep], 16, 64)
	if err != nil {
		return SharedLibraryAddress{}, false
	}
	end, err := strconv.ParseUint(fields[0][sep+1:], 16, 64)
	if err != nil || end < start {
		return SharedLibraryAddress{}, false
	}

	return SharedLibraryAddress{
		Name:  name,
		Start: uintptr(start),
		End:   uintptr(end),
	}, true
}
