package pattern

import (
	"fmt"
	"sync"

	"github.com/incode-debug/debuggee/pkg/logflags"
)

// Region is a heap allocation tracked by a Ledger.
type Region struct {
	Name     string
	Addr     uintptr
	Size     int
	Released bool

	// handle keeps the allocation reachable until it is released.
	handle interface{}
}

// Data returns the allocation backing r, or nil once r was released.
func (r *Region) Data() interface{} {
	return r.handle
}

// Ledger holds the handles of heap regions. Regions that are never
// released stay reachable for the lifetime of the ledger, which is how
// the memory scenario models leaks: the leak is a documented entry here
// rather than an accident.
type Ledger struct {
	mu      sync.Mutex
	regions []*Region
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Retained is the process lifetime ledger used by the memory scenario.
var Retained = NewLedger()

// Track records a new allocation. size is in bytes.
func (l *Ledger) Track(name string, handle interface{}, addr uintptr, size int) *Region {
	l.mu.Lock()
	defer l.mu.Unlock()
	r := &Region{Name: name, Addr: addr, Size: size, handle: handle}
	l.regions = append(l.regions, r)
	if logflags.Memory() {
		logflags.MemoryLogger().Debugf("track %s at %#x (%d bytes)", name, addr, size)
	}
	return r
}

// Release drops the handle of the most recent live region called name.
func (l *Ledger) Release(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.regions) - 1; i >= 0; i-- {
		r := l.regions[i]
		if r.Name == name && !r.Released {
			r.Released = true
			r.handle = nil
			if logflags.Memory() {
				logflags.MemoryLogger().Debugf("release %s at %#x", name, r.Addr)
			}
			return nil
		}
	}
	return fmt.Errorf("no live region named %q", name)
}

// Lookup returns the most recent region called name.
func (l *Ledger) Lookup(name string) (*Region, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.regions) - 1; i >= 0; i-- {
		if l.regions[i].Name == name {
			return l.regions[i], true
		}
	}
	return nil, false
}

// Live returns the regions that were never released, in allocation order.
func (l *Ledger) Live() []Region {
	return l.filter(false)
}

// Freed returns the released regions, in allocation order.
func (l *Ledger) Freed() []Region {
	return l.filter(true)
}

func (l *Ledger) filter(released bool) []Region {
	l.mu.Lock()
	defer l.mu.Unlock()
	var r []Region
	for _, region := range l.regions {
		if region.Released == released {
			r = append(r, *region)
		}
	}
	return r
}
