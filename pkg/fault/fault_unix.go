//go:build unix

package fault

import (
	"fmt"
	"runtime/debug"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/incode-debug/debuggee/pkg/logflags"
)

// invalidWrite stores v through a page mapped without any access rights.
// Unlike a nil store, which the runtime may turn into a panic, this always
// ends in a fatal SIGSEGV at a non-zero address.
//
//go:noinline
func invalidWrite(v int32) {
	page, err := unix.Mmap(-1, 0, unix.Getpagesize(), unix.PROT_NONE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		if logflags.Fault() {
			logflags.FaultLogger().Errorf("mmap failed, falling back to nil store: %v", err)
		}
		nilWrite(v)
		return
	}
	p := (*int32)(unsafe.Pointer(&page[0]))
	*p = v
}

// kill is replaced in tests.
var kill = unix.Kill

// abort delivers SIGABRT to the process. With the traceback level set to
// crash the runtime dumps every goroutine and re-raises the signal with the
// default action, so the process is terminated by SIGABRT. If the signal
// cannot be sent abort panics.
func abort() {
	debug.SetTraceback("crash")
	if err := kill(unix.Getpid(), unix.SIGABRT); err != nil {
		debug.SetTraceback("single")
		if logflags.Fault() {
			logflags.FaultLogger().Errorf("could not raise SIGABRT: %v", err)
		}
		panic(fmt.Errorf("abort: %w", err))
	}
	select {}
}
