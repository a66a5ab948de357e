package pattern

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/incode-debug/debuggee/pkg/report"
)

func discard() *report.Reporter {
	return report.New(io.Discard)
}

func TestFormulas(t *testing.T) {
	tests := []struct {
		name string
		f    ByteFormula
		want string
	}{
		{"upper", UpperAlpha, "ABCDEFGHIJKLMNOPQRSTUVWXYZABC"},
		{"lower", LowerAlpha, "abcdefghijklmnopqrstuvwxyzabc"},
		{"digit", Digit, "01234567890123456789012345678"},
	}
	for _, tc := range tests {
		buf := make([]byte, len(tc.want))
		FillBytes(buf, tc.f)
		if string(buf) != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, buf)
		}
	}
}

func TestVerifyReportsFirstMismatch(t *testing.T) {
	buf := make([]byte, 100)
	FillBytes(buf, UpperAlpha)
	if off, ok := Verify(buf, UpperAlpha); !ok || off != -1 {
		t.Fatalf("clean buffer: got (%d, %v)", off, ok)
	}
	buf[42] ^= 0xff
	buf[77] ^= 0xff
	if off, ok := Verify(buf, UpperAlpha); ok || off != 42 {
		t.Fatalf("expected mismatch at 42, got (%d, %v)", off, ok)
	}

	ints := make([]int32, 10)
	FillInts(ints, GlobalInt)
	if off, ok := VerifyInts(ints, GlobalInt); !ok {
		t.Fatalf("ints mismatch at %d", off)
	}
	ints[3] = 0
	if off, _ := VerifyInts(ints, GlobalInt); off != 3 {
		t.Fatalf("expected int mismatch at 3, got %d", off)
	}
}

func TestStackPatternIsAddressIndependent(t *testing.T) {
	first := Stack(discard())
	// Run again at a different stack depth.
	var second StackSnapshot
	func() {
		var pad [2048]byte
		_ = pad
		second = Stack(discard())
	}()

	if first != second {
		t.Fatal("stack pattern differs between runs")
	}
	if off, ok := Verify(first.Buffer[:], UpperAlpha); !ok {
		t.Fatalf("stack buffer mismatch at %d", off)
	}
	if off, ok := VerifyInts(first.Ints[:], StackInt); !ok {
		t.Fatalf("stack integers mismatch at %d", off)
	}
	if off, ok := VerifyFloats(first.Floats[:], StackFloat); !ok {
		t.Fatalf("stack doubles mismatch at %d", off)
	}
	if first.Magic != [2]uint32{DefaultMagic, StackMagic} {
		t.Fatalf("unexpected magic numbers %#x", first.Magic)
	}
}

func TestHeapRetainsDocumentedRegions(t *testing.T) {
	var buf bytes.Buffer
	l := NewLedger()
	Heap(report.New(&buf), l)

	names := func(rs []Region) []string {
		var r []string
		for _, region := range rs {
			r = append(r, region.Name)
		}
		return r
	}
	if diff := cmp.Diff(RetainedNames, names(l.Live())); diff != "" {
		t.Fatalf("retained regions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(ReleasedNames, names(l.Freed())); diff != "" {
		t.Fatalf("released regions mismatch (-want +got):\n%s", diff)
	}

	for _, region := range l.Freed() {
		if region.Data() != nil {
			t.Errorf("%s still holds its allocation", region.Name)
		}
	}

	doubles, _ := l.Lookup("heap_doubles")
	if off, ok := VerifyFloats(doubles.Data().([]float64), HeapFloat); !ok {
		t.Fatalf("heap_doubles mismatch at %d", off)
	}
	hs, _ := l.Lookup("heap_struct")
	s := hs.Data().(*MemoryTestStruct)
	if s.MagicNumber != HeapMagic || s.ID() != "HEAP_STRUCT" || s.Value != 999.888777 {
		t.Fatalf("unexpected heap struct %#v", s)
	}
	if s.Pointer != hs.Addr {
		t.Fatalf("heap struct self pointer %#x, region address %#x", s.Pointer, hs.Addr)
	}
	for i, want := range []string{"Small1", "Small2", "Small3"} {
		region, _ := l.Lookup("small_alloc" + string(rune('1'+i)))
		data := region.Data().([]byte)
		if len(data) != region.Size || !strings.HasPrefix(string(data), want+"\x00") {
			t.Errorf("small_alloc%d: unexpected content %q", i+1, data)
		}
	}

	// Every tracked region's address is reported.
	for _, name := range append(append([]string{}, RetainedNames...), ReleasedNames...) {
		region, _ := l.Lookup(name)
		line := "  " + name + " at: 0x"
		if !strings.Contains(buf.String(), line) || region.Addr == 0 {
			t.Errorf("address of %s not reported", name)
		}
	}

	if err := l.Release("heap_buffer"); err == nil {
		t.Fatal("releasing an already released region should fail")
	}
}

func TestGlobalAndAccess(t *testing.T) {
	Global(discard())
	if off, ok := Verify(GlobalBuffer(), Digit); !ok {
		t.Fatalf("global buffer mismatch at %d", off)
	}
	if off, ok := VerifyInts(GlobalArray(), GlobalInt); !ok {
		t.Fatalf("global array mismatch at %d", off)
	}
	got := Access(discard())
	want := AccessResult{SequentialSum: 5559680, RandomSum: 140100, StringLength: 40}
	if got != want {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
}

func TestMutate(t *testing.T) {
	got := Mutate(discard())
	want := MutationResult{
		Before: "CLEAN_BUFFER_CONTENT",
		After:  "CLEANXBUFFYR_CONTENT",
		Bounds: [10]int{0, 10, 20, 30, 40, 50, 60, 70, 80, 90},
	}
	if got != want {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
}

func TestWatchpoints(t *testing.T) {
	var buf bytes.Buffer
	Watchpoints(report.New(&buf))
	i, d, s := Watched()
	if i != 100 || d != 2.71828 || s != "Modified watchpoint string" {
		t.Fatalf("unexpected watched values %d %g %q", i, d, s)
	}
	if !strings.Contains(buf.String(), "watchpoint_int at: 0x") {
		t.Fatalf("watchpoint address not reported:\n%s", buf.String())
	}
}

func TestRun(t *testing.T) {
	var buf bytes.Buffer
	l := NewLedger()
	Run(report.New(&buf), l)
	out := buf.String()
	for _, want := range []string{
		"Starting memory inspection scenarios...",
		"stack_buffer at: 0x",
		"heap_struct at: 0x",
		"global_array at: 0x",
		"Sequential sum: 5559680",
		"Modified buffer content: CLEANXBUFFYR_CONTENT",
		"Memory scenarios complete.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q", want)
		}
	}
	if report.LastMarker() != 6 {
		t.Fatalf("expected last marker 6, got %d", report.LastMarker())
	}
	if len(l.Live()) != len(RetainedNames) {
		t.Fatalf("expected %d retained regions, got %d", len(RetainedNames), len(l.Live()))
	}
}
