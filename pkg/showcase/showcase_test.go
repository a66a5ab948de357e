package showcase

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/incode-debug/debuggee/pkg/report"
)

func TestTree(t *testing.T) {
	for _, depth := range []int{0, -1} {
		tree := NewTree(depth)
		if tree.Len() != 0 || tree.Root != Nil || tree.LevelOrder() != nil {
			t.Fatalf("depth %d: expected empty tree, got %d nodes", depth, tree.Len())
		}
	}

	tree := NewTree(3)
	if tree.Len() != 7 {
		t.Fatalf("expected 7 nodes, got %d", tree.Len())
	}
	if diff := cmp.Diff([]int{1, 2, 3, 4, 5, 6, 7}, tree.LevelOrder()); diff != "" {
		t.Fatalf("level order mismatch (-want +got):\n%s", diff)
	}
	root := tree.Nodes.At(tree.Root)
	if root.Value != 1 || root.Depth != 3 {
		t.Fatalf("unexpected root %#v", root)
	}
	for i := 0; i < tree.Len(); i++ {
		n := tree.Nodes.At(Handle(i))
		if n.Left != Nil && tree.Nodes.At(n.Left).Value != 2*n.Value {
			t.Errorf("left child of %d is %d", n.Value, tree.Nodes.At(n.Left).Value)
		}
		if n.Right != Nil && tree.Nodes.At(n.Right).Value != 2*n.Value+1 {
			t.Errorf("right child of %d is %d", n.Value, tree.Nodes.At(n.Right).Value)
		}
		if (n.Left == Nil) != (n.Depth == 1) {
			t.Errorf("node %d at depth %d has left child %d", n.Value, n.Depth, n.Left)
		}
	}
	if tree.Sum() != 28 {
		t.Fatalf("expected sum 28, got %d", tree.Sum())
	}
	if NewTree(5).Len() != 31 {
		t.Fatalf("depth 5 should have 31 nodes")
	}
}

func TestList(t *testing.T) {
	if l := NewList(0); l.Len() != 0 || l.Head != Nil || l.Tail != Nil || l.Values() != nil {
		t.Fatalf("expected empty list")
	}
	if l := NewList(-3); l.Len() != 0 {
		t.Fatalf("expected empty list for negative count")
	}

	l := NewList(5)
	if diff := cmp.Diff([]int{1, 2, 3, 4, 5}, l.Values()); diff != "" {
		t.Fatalf("forward walk mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{5, 4, 3, 2, 1}, l.Reverse()); diff != "" {
		t.Fatalf("backward walk mismatch (-want +got):\n%s", diff)
	}
	if l.Nodes.At(l.Head).Prev != Nil || l.Nodes.At(l.Tail).Next != Nil {
		t.Fatal("list ends are not terminated")
	}
}

func TestDataUnion(t *testing.T) {
	u := NewDataUnion(42)
	if u.Int() != 42 {
		t.Fatalf("expected 42, got %d", u.Int())
	}
	c := u.Chars()
	if c[0]+c[1]+c[2]+c[3] != 42 {
		t.Fatalf("bytes of 42 should sum to 42, got %v", c)
	}
	u.SetFloat(1.0)
	if u.Int() != 0x3f800000 || u.Float() != 1.0 {
		t.Fatalf("unexpected reinterpretation: int=%#x float=%g", u.Int(), u.Float())
	}
}

func TestStructsPlaceSelf(t *testing.T) {
	var a Structs
	a.Place(NewComplexStruct(1, "one"))
	h := a.Place(NewComplexStruct(2, "two"))
	s := a.At(h)
	if s.Self != h || a.At(s.Self).Name != "two" {
		t.Fatalf("self handle %d does not refer back to %d", s.Self, h)
	}
	if s.Node != Nil || s.Status != Active || s.Mapping["key2"] != 20 || s.Data.Int() != 42 {
		t.Fatalf("unexpected defaults %#v", s)
	}
}

func TestBoundedCache(t *testing.T) {
	got := BoundedCache(report.New(io.Discard))
	want := CacheResult{
		Keys:    []string{"gamma", "delta", "epsilon"},
		Evicted: []string{"alpha", "beta"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("cache mismatch (-want +got):\n%s", diff)
	}
	if v, ok := globalCache.Get("epsilon"); !ok || v.(int) != 50 {
		t.Fatalf("expected epsilon=50, got %v %v", v, ok)
	}
}

func TestCalls(t *testing.T) {
	r := report.New(io.Discard)
	if got := FunctionWithParams(r, 100, 25.5, "x", &globalStruct); got != 226 {
		t.Fatalf("expected 226, got %d", got)
	}
	if got := ParameterFunction(r, 123, "x", nil, []int{1, 2, 3}); got != 126 {
		t.Fatalf("expected 126, got %d", got)
	}
	if got := Recursive(5, 0); got != 15 {
		t.Fatalf("expected 15, got %d", got)
	}
	if got := Recursive(0, 7); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}

	m := Modify(r)
	if diff := cmp.Diff([]int{10, 15, 30, 2}, m.Steps); diff != "" {
		t.Fatalf("modification steps mismatch (-want +got):\n%s", diff)
	}
	if m.Array != [5]int{10, 20, 30, 40, 50} || m.Struct.Status != Error || m.Struct.Mapping["new_key"] != 999 || len(m.Struct.Numbers) != 6 {
		t.Fatalf("unexpected modifications %#v", m)
	}
}

func TestCallStackDepth(t *testing.T) {
	var buf bytes.Buffer
	CallStackDepth(report.New(&buf), 3)
	want := "Call stack depth: 3 (Level3)\n" +
		"Call stack depth: 2 (Level2)\n" +
		"Call stack depth: 1 (Level1)\n" +
		"Maximum call stack depth reached\n"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}
}

// withoutAddresses drops the lines that carry addresses, which legitimately
// change between runs.
func withoutAddresses(s string) string {
	var r []string
	for _, l := range strings.Split(s, "\n") {
		if !strings.Contains(l, "0x") {
			r = append(r, l)
		}
	}
	return strings.Join(r, "\n")
}

func TestRunIsDeterministic(t *testing.T) {
	var out1, out2 bytes.Buffer
	res1 := Run(report.New(&out1))
	res2 := Run(report.New(&out2))

	if diff := cmp.Diff(res1, res2, cmp.AllowUnexported(DataUnion{})); diff != "" {
		t.Fatalf("results differ between runs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(withoutAddresses(out1.String()), withoutAddresses(out2.String())); diff != "" {
		t.Fatalf("output differs between runs (-first +second):\n%s", diff)
	}

	if res1.FunctionResult != 226 || res1.RecursiveResult != 15 || res1.Showcase.ParameterResult != 126 {
		t.Fatalf("unexpected results %#v", res1)
	}
	if diff := cmp.Diff([]int{1, 2, 3, 4, 5, 6, 7}, res1.Showcase.TreeValues); diff != "" {
		t.Fatalf("tree values mismatch (-want +got):\n%s", diff)
	}
	for _, want := range []string{
		"=== Normal Mode Execution ===",
		"Recursive result: 15",
		"Function result: 226",
		"Maximum call stack depth reached",
		"Normal mode execution complete.",
	} {
		if !strings.Contains(out1.String(), want) {
			t.Errorf("output is missing %q", want)
		}
	}
	if globalStructPtr.Node != linkedList.Head || globalStructPtr.Self == Nil {
		t.Fatal("global struct is not linked into its arena and the list")
	}
}

func TestStep(t *testing.T) {
	var buf bytes.Buffer
	res := Step(report.New(&buf))
	if diff := cmp.Diff(StepResult{Trace: []int{10, 15, 120}, Result: 243}, res); diff != "" {
		t.Fatalf("step result mismatch (-want +got):\n%s", diff)
	}
	for i := 1; i <= 6; i++ {
		if !strings.Contains(buf.String(), "Step "+string(rune('0'+i))+":") {
			t.Errorf("step %d not reported", i)
		}
	}
	if !strings.Contains(buf.String(), "Step 3: In true branch") {
		t.Error("true branch not taken")
	}
}
