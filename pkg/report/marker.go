package report

import "sync/atomic"

var lastMarker atomic.Int64

// Marker records that execution reached breakpoint location n. It is
// never inlined so a debugger can break on report.Marker and read n.
//
//go:noinline
func Marker(n int) {
	lastMarker.Store(int64(n))
}

// LastMarker returns the most recent value passed to Marker.
func LastMarker() int {
	return int(lastMarker.Load())
}
