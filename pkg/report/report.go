// Package report writes the line oriented output of the debuggee.
//
// Standard output is the contract between the fixture and whoever inspects
// it: every step is one human readable line and regions are reported as
// "<name> at: 0x<address>" so an inspector can correlate them with the
// memory of the live process. Lines from different goroutines never
// interleave.
package report

import (
	"fmt"
	"io"
	"sync"
)

// Reporter serialises output lines.
type Reporter struct {
	mu  sync.Mutex
	out io.Writer
}

// New returns a Reporter writing to out.
func New(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Printf writes one formatted line. A trailing newline is added.
func (r *Reporter) Printf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format+"\n", args...)
}

// Println writes its arguments as one line.
func (r *Reporter) Println(args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, args...)
}

// Region reports the address of a named memory region.
func (r *Reporter) Region(name string, addr uintptr) {
	r.Printf("  %s at: %#x", name, addr)
}

// Value reports a named value.
func (r *Reporter) Value(name string, v interface{}) {
	r.Printf("  %s: %v", name, v)
}

// Header writes a scenario banner such as "=== Memory Mode Execution ===".
func (r *Reporter) Header(title string) {
	r.Printf("=== %s ===", title)
}
