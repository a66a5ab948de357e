package fault

var target *int32

// nilWrite stores through a nil pointer. The runtime reports this as a
// nil pointer dereference panic, which nothing recovers.
//
//go:noinline
func nilWrite(v int32) {
	*target = v
}
