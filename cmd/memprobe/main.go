package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/native-platform/memory"
	"github.com/wippyai/native-platform/symbols"
)

func main() {
	var (
		listModules = flag.Bool("modules", false, "List loaded shared libraries and exit")
		sizePages   = flag.Uint64("size", 16, "Probe allocation size in allocation pages")
		alignPages  = flag.Uint64("align", 1, "Probe alignment in allocation pages")
		permName    = flag.String("perm", "read-write", "Permission: no-access, read, read-write, read-execute, read-write-execute")
		count       = flag.Int("count", 1, "Number of probe allocations")
		seed        = flag.Int64("seed", 0, "Seed for reproducible address randomization (0 = entropy)")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		memory.SetLogger(logger)
		symbols.SetLogger(logger)
	}

	memory.SetRandomMmapSeed(*seed)

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *listModules {
		printModules()
		return
	}

	if err := runProbes(*sizePages, *alignPages, *permName, *count); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printModules() {
	libs := symbols.SharedLibraryAddresses()
	if len(libs) == 0 {
		fmt.Println("No modules enumerable on this platform.")
		return
	}
	fmt.Printf("Loaded shared libraries (%d):\n", len(libs))
	for _, lib := range libs {
		fmt.Printf("  %012x-%012x  %s\n", lib.Start, lib.End, lib.Name)
	}
}

func parsePermission(name string) (memory.Permission, error) {
	switch strings.ToLower(name) {
	case "no-access":
		return memory.NoAccess, nil
	case "no-access-will-execute-later":
		return memory.NoAccessWillExecuteLater, nil
	case "read":
		return memory.Read, nil
	case "read-write":
		return memory.ReadWrite, nil
	case "read-execute":
		return memory.ReadExecute, nil
	case "read-write-execute":
		return memory.ReadWriteExecute, nil
	}
	return 0, fmt.Errorf("unknown permission %q", name)
}

func runProbes(sizePages, alignPages uint64, permName string, count int) error {
	perm, err := parsePermission(permName)
	if err != nil {
		return err
	}

	granularity := memory.AllocatePageSize()
	size := uintptr(sizePages) * granularity
	alignment := uintptr(alignPages) * granularity
	if size == 0 || alignment == 0 {
		return fmt.Errorf("size and alignment must be positive")
	}

	fmt.Printf("Allocation granularity: %d  commit page size: %d  lazy commits: %v\n",
		granularity, memory.CommitPageSize(), memory.HasLazyCommits())
	fmt.Printf("Probing %d x %d bytes at alignment %d, permission %v\n\n", count, size, alignment, perm)

	failures := 0
	for i := 0; i < count; i++ {
		r := memory.AllocateRegion(0, size, alignment, perm)
		if r == nil {
			failures++
			fmt.Printf("  #%d: refused\n", i)
			continue
		}
		fmt.Printf("  #%d: base=0x%012x aligned=%v\n", i, r.Base(), r.Base()%alignment == 0)
		if !r.Free() {
			return fmt.Errorf("probe #%d: free refused at 0x%x", i, r.Base())
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d probes refused by the OS", failures, count)
	}
	return nil
}
