// Package fault terminates the process in controlled, observable ways.
//
// Every trigger first waits for the configured delay so a debugger has
// time to attach, then faults. Nothing in this package, nor any of its
// callers, recovers: the point is that the process dies the way the
// trigger says it will.
package fault

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/incode-debug/debuggee/pkg/logflags"
	"github.com/incode-debug/debuggee/pkg/report"
)

// Trigger names a fault.
type Trigger string

const (
	InvalidDereference Trigger = "invalid-dereference"
	UnboundedRecursion Trigger = "unbounded-recursion"
	Abort              Trigger = "abort"
	DivideByZero       Trigger = "divide-by-zero"
)

// Triggers lists every known trigger.
var Triggers = []Trigger{InvalidDereference, UnboundedRecursion, Abort, DivideByZero}

// Options configures Fire.
type Options struct {
	// Delay is slept before the fault fires.
	Delay time.Duration
	// MaxStack, when positive, becomes the goroutine stack ceiling before
	// UnboundedRecursion fires.
	MaxStack int
}

// UnknownTriggerError is returned by Fire for a name it does not know.
type UnknownTriggerError struct {
	Trigger Trigger
}

func (e *UnknownTriggerError) Error() string {
	return fmt.Sprintf("unknown fault trigger %q", string(e.Trigger))
}

// Fire sleeps for opts.Delay and then fires t. It only returns, with an
// error, when t is not a known trigger.
func Fire(r *report.Reporter, t Trigger, opts Options) error {
	switch t {
	case InvalidDereference, UnboundedRecursion, Abort, DivideByZero:
	default:
		return &UnknownTriggerError{t}
	}

	if logflags.Fault() {
		logflags.FaultLogger().WithField("trigger", string(t)).Debugf("sleeping %v before firing", opts.Delay)
	}
	time.Sleep(opts.Delay)

	switch t {
	case InvalidDereference:
		r.Println("Triggering segmentation fault...")
		invalidWrite(42)
	case UnboundedRecursion:
		r.Println("Triggering stack overflow...")
		if opts.MaxStack > 0 {
			debug.SetMaxStack(opts.MaxStack)
		}
		Recurse(1)
	case Abort:
		r.Println("Triggering abort...")
		abort()
	case DivideByZero:
		r.Println("Triggering division by zero...")
		r.Printf("Result: %d", Divide(42, zero))
	}
	return fmt.Errorf("fault %q did not terminate the process", string(t))
}

// zero is a package variable so the compiler cannot fold the division.
var zero = 0

// Recurse calls itself with an ever deeper frame until the stack ceiling
// is hit. The buffer is used after the call, so the recursion is not a
// tail call and every frame stays on the stack.
//
//go:noinline
func Recurse(depth int) byte {
	var buf [1024]byte
	for i := range buf {
		buf[i] = byte(depth)
	}
	return Recurse(depth+1) + buf[depth%len(buf)]
}

// Divide returns a/b.
//
//go:noinline
func Divide(a, b int) int {
	return a / b
}
