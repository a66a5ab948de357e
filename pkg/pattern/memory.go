package pattern

import (
	"unsafe"

	"github.com/incode-debug/debuggee/pkg/report"
)

// Magic numbers written into MemoryTestStruct instances.
const (
	DefaultMagic = 0x12345678
	StackMagic   = 0x87654321
	HeapMagic    = 0xDEADBEEF
)

// MemoryTestStruct has a fixed, recognisable layout.
type MemoryTestStruct struct {
	MagicNumber uint32
	Identifier  [16]byte
	Value       float64
	// Pointer holds the address of the struct itself.
	Pointer uintptr
	Array   [4]int32
}

// NewMemoryTestStruct returns a struct with the default contents. The
// caller sets Pointer once the value has its final address.
func NewMemoryTestStruct() MemoryTestStruct {
	s := MemoryTestStruct{
		MagicNumber: DefaultMagic,
		Value:       123.456789,
		Array:       [4]int32{10, 20, 30, 40},
	}
	s.SetIdentifier("MEMTEST_STRUCT")
	return s
}

// SetIdentifier stores id, truncated to 15 bytes and NUL terminated.
func (s *MemoryTestStruct) SetIdentifier(id string) {
	s.Identifier = [16]byte{}
	copy(s.Identifier[:len(s.Identifier)-1], id)
}

// ID returns the identifier as a string.
func (s *MemoryTestStruct) ID() string {
	return cstring(s.Identifier[:])
}

// Process lifetime regions.
var (
	globalBuffer        [1024]byte
	globalArray         [256]int32
	globalMemoryStruct  = NewMemoryTestStruct()
	globalStructPointer = &globalMemoryStruct
)

const constString = "Constant String for Memory Testing"

func init() {
	globalMemoryStruct.Pointer = uintptr(unsafe.Pointer(&globalMemoryStruct))
}

// Sizes of the regions created by the memory scenario.
const (
	StackBufferLen  = 512
	StackIntsLen    = 64
	StackFloatsLen  = 32
	HeapBufferLen   = 1024
	HeapIntsLen     = 128
	HeapFloatsLen   = 64
	GlobalBufferLen = len(globalBuffer)
	GlobalArrayLen  = len(globalArray)
)

// StackSnapshot is a copy of the stack regions taken just before Stack
// returns. The regions themselves die with the frame.
type StackSnapshot struct {
	Buffer [StackBufferLen]byte
	Ints   [StackIntsLen]int32
	Floats [StackFloatsLen]float64
	Magic  [2]uint32
}

// Stack fills buffers that live in its own frame and reports their
// addresses. The addresses are only meaningful while Stack runs.
//
//go:noinline
func Stack(r *report.Reporter) StackSnapshot {
	r.Println("Creating stack memory patterns...")

	var stackBuffer [StackBufferLen]byte
	var stackIntegers [StackIntsLen]int32
	var stackDoubles [StackFloatsLen]float64

	FillBytes(stackBuffer[:], UpperAlpha)
	FillInts(stackIntegers[:], StackInt)
	FillFloats(stackDoubles[:], StackFloat)

	stackStruct1 := NewMemoryTestStruct()
	stackStruct1.Pointer = uintptr(unsafe.Pointer(&stackStruct1))
	stackStruct2 := NewMemoryTestStruct()
	stackStruct2.MagicNumber = StackMagic
	stackStruct2.SetIdentifier("STACK_STRUCT2")
	stackStruct2.Pointer = uintptr(unsafe.Pointer(&stackStruct2))

	r.Println("Stack patterns created:")
	r.Region("stack_buffer", uintptr(unsafe.Pointer(&stackBuffer)))
	r.Region("stack_integers", uintptr(unsafe.Pointer(&stackIntegers)))
	r.Region("stack_doubles", uintptr(unsafe.Pointer(&stackDoubles)))
	r.Region("stack_struct1", stackStruct1.Pointer)
	r.Region("stack_struct2", stackStruct2.Pointer)

	report.Marker(1)

	return StackSnapshot{
		Buffer: stackBuffer,
		Ints:   stackIntegers,
		Floats: stackDoubles,
		Magic:  [2]uint32{stackStruct1.MagicNumber, stackStruct2.MagicNumber},
	}
}

// RetainedNames lists the heap regions Heap deliberately never
// releases. ReleasedNames lists the ones it does release.
var (
	RetainedNames = []string{"heap_doubles", "heap_struct", "small_alloc1", "small_alloc2", "small_alloc3"}
	ReleasedNames = []string{"heap_buffer", "heap_integers"}
)

// Heap allocates regions of differing sizes, fills them, reports their
// addresses, then releases only ReleasedNames. The remaining regions stay
// in l.
func Heap(r *report.Reporter, l *Ledger) {
	r.Println("Creating heap memory patterns...")

	heapBuffer := make([]byte, HeapBufferLen)
	heapIntegers := make([]int32, HeapIntsLen)
	heapDoubles := make([]float64, HeapFloatsLen)
	heapStruct := new(MemoryTestStruct)
	*heapStruct = NewMemoryTestStruct()

	FillBytes(heapBuffer, LowerAlpha)
	FillInts(heapIntegers, HeapInt)
	FillFloats(heapDoubles, HeapFloat)

	heapStruct.MagicNumber = HeapMagic
	heapStruct.SetIdentifier("HEAP_STRUCT")
	heapStruct.Value = 999.888777
	heapStruct.Pointer = uintptr(unsafe.Pointer(heapStruct))

	regions := []*Region{
		l.Track("heap_buffer", heapBuffer, uintptr(unsafe.Pointer(&heapBuffer[0])), len(heapBuffer)),
		l.Track("heap_integers", heapIntegers, uintptr(unsafe.Pointer(&heapIntegers[0])), len(heapIntegers)*4),
		l.Track("heap_doubles", heapDoubles, uintptr(unsafe.Pointer(&heapDoubles[0])), len(heapDoubles)*8),
		l.Track("heap_struct", heapStruct, heapStruct.Pointer, int(unsafe.Sizeof(*heapStruct))),
	}
	r.Println("Heap patterns created:")
	for _, region := range regions {
		r.Region(region.Name, region.Addr)
	}

	// Fragmentation: small allocations between the large ones.
	for i, size := range []int{16, 32, 64} {
		small := make([]byte, size)
		copy(small, "Small"+string(rune('1'+i)))
		region := l.Track("small_alloc"+string(rune('1'+i)), small, uintptr(unsafe.Pointer(&small[0])), size)
		r.Region(region.Name, region.Addr)
	}

	report.Marker(2)

	for _, name := range ReleasedNames {
		if err := l.Release(name); err != nil {
			panic(err)
		}
	}
	r.Println("Some heap memory cleaned up, some intentionally leaked for testing")
}

// Global fills the process lifetime buffers and reports their addresses.
func Global(r *report.Reporter) {
	r.Println("Creating global memory patterns...")

	FillBytes(globalBuffer[:], Digit)
	FillInts(globalArray[:], GlobalInt)

	r.Println("Global patterns created:")
	r.Region("global_buffer", uintptr(unsafe.Pointer(&globalBuffer)))
	r.Region("global_array", uintptr(unsafe.Pointer(&globalArray)))
	r.Region("global_memory_struct", uintptr(unsafe.Pointer(globalStructPointer)))
	r.Region("const_string", uintptr(unsafe.Pointer(unsafe.StringData(constString))))

	report.Marker(3)
}

// GlobalBuffer returns the global byte region.
func GlobalBuffer() []byte { return globalBuffer[:] }

// GlobalArray returns the global integer region.
func GlobalArray() []int32 { return globalArray[:] }

// RandomIndices is the access order used by Access.
var RandomIndices = [...]int{5, 100, 50, 200, 25, 150, 75, 225, 10, 90}

// AccessResult holds the values Access computed.
type AccessResult struct {
	SequentialSum int64
	RandomSum     int64
	StringLength  int
}

// Access reads the global array sequentially and in RandomIndices order.
// Global must have run first.
func Access(r *report.Reporter) AccessResult {
	r.Println("Testing memory access patterns...")

	var res AccessResult
	for _, v := range globalArray {
		res.SequentialSum += int64(v)
	}
	for _, i := range RandomIndices {
		res.RandomSum += int64(globalArray[i])
	}

	var tempBuffer [256]byte
	n := copy(tempBuffer[:], "Memory access test string")
	n += copy(tempBuffer[n:], " - concatenated")
	res.StringLength = len(cstring(tempBuffer[:n+1]))

	r.Println("Memory access patterns completed:")
	r.Value("Sequential sum", res.SequentialSum)
	r.Value("Random sum", res.RandomSum)
	r.Value("String length", res.StringLength)

	report.Marker(4)
	return res
}

// Mutation is a single point change applied by Mutate.
type Mutation struct {
	Offset int
	Value  byte
}

// Mutations are the point changes Mutate applies to CleanContent.
var Mutations = []Mutation{{5, 'X'}, {10, 'Y'}}

// CleanContent is the known initial content of the mutation buffer.
const CleanContent = "CLEAN_BUFFER_CONTENT"

// MutationResult holds the buffer content around the mutation.
type MutationResult struct {
	Before string
	After  string
	Bounds [10]int
}

// Mutate applies Mutations to a clean buffer and reports the content
// before and after.
//
//go:noinline
func Mutate(r *report.Reporter) MutationResult {
	r.Println("Demonstrating controlled memory scenarios...")

	var testBuffer [128]byte
	copy(testBuffer[:], CleanContent)
	var res MutationResult
	res.Before = cstring(testBuffer[:])
	r.Printf("Original buffer content: %s", res.Before)
	r.Region("test_buffer", uintptr(unsafe.Pointer(&testBuffer)))

	for _, m := range Mutations {
		testBuffer[m.Offset] = m.Value
	}
	res.After = cstring(testBuffer[:])
	r.Printf("Modified buffer content: %s", res.After)

	boundsTest := [10]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	for i := range boundsTest {
		boundsTest[i] *= 10
	}
	res.Bounds = boundsTest
	r.Println("Array modification completed")

	report.Marker(5)
	return res
}

// Watchpoint targets. Their addresses are reported before they change.
var (
	watchpointInt    = 42
	watchpointDouble = 3.14159
	watchpointString = [64]byte{'I', 'n', 'i', 't', 'i', 'a', 'l', ' ', 'w', 'a', 't', 'c', 'h', 'p', 'o', 'i', 'n', 't', ' ', 's', 't', 'r', 'i', 'n', 'g'}
)

// Watched returns the current values of the watchpoint targets.
func Watched() (int, float64, string) {
	return watchpointInt, watchpointDouble, cstring(watchpointString[:])
}

// Watchpoints reports the addresses of the watchpoint targets and then
// modifies each of them.
func Watchpoints(r *report.Reporter) {
	r.Println("Creating watchpoint target variables...")
	r.Println("Watchpoint targets created:")
	r.Printf("  watchpoint_int at: %#x = %d", uintptr(unsafe.Pointer(&watchpointInt)), watchpointInt)
	r.Printf("  watchpoint_double at: %#x = %g", uintptr(unsafe.Pointer(&watchpointDouble)), watchpointDouble)
	r.Printf("  watchpoint_string at: %#x = %s", uintptr(unsafe.Pointer(&watchpointString)), cstring(watchpointString[:]))

	watchpointInt = 100
	watchpointDouble = 2.71828
	watchpointString = [64]byte{}
	copy(watchpointString[:], "Modified watchpoint string")

	r.Println("Values modified:")
	r.Value("watchpoint_int", watchpointInt)
	r.Value("watchpoint_double", watchpointDouble)
	r.Value("watchpoint_string", cstring(watchpointString[:]))

	report.Marker(6)
}

// Run is the memory scenario: every pattern in order, with heap regions
// recorded in l.
func Run(r *report.Reporter, l *Ledger) {
	r.Println("Starting memory inspection scenarios...")

	Stack(r)
	Heap(r, l)
	Global(r)
	Access(r)
	Mutate(r)
	Watchpoints(r)

	r.Println("Memory scenarios complete.")
	r.Println("Memory regions available for inspection:")
	r.Println("  Stack: Local variables in each function")
	r.Println("  Heap: Allocated structures and arrays")
	for _, region := range l.Live() {
		r.Printf("    %s at: %#x (%d bytes, retained)", region.Name, region.Addr, region.Size)
	}
	r.Println("  Global: global_buffer, global_array, global_memory_struct")
	r.Println("  Constants: const_string and other read-only data")
}
