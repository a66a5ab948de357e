// Package showcase builds one instance of each value shape a debugger
// should be able to display: scalars, arrays, an enum, a union, a
// heterogeneous aggregate, a doubly linked list, a binary tree and a
// bounded cache, at package, static and local scope.
//
// Linked structures live in arenas and refer to each other through
// Handle values. Functions are marked noinline so their frames and
// locals exist at run time.
package showcase

import (
	"unsafe"

	"github.com/incode-debug/debuggee/pkg/report"
)

// Sizes of the linked exhibits.
const (
	ListLength = 5
	TreeDepth  = 3
)

// Result holds the values computed while showcasing, so that runs can be
// compared.
type Result struct {
	ParameterResult int
	ListValues      []int
	TreeValues      []int
	TreeSum         int
	Modifications   Modifications
	Cache           CacheResult
}

// Retained structures built by Showcase. They stay reachable so that a
// debugger can walk them after Showcase returns.
var (
	linkedList *List
	binaryTree *Tree
)

// LocalVariables keeps one local of each basic shape live in its frame.
//
//go:noinline
func LocalVariables(r *report.Reporter) {
	r.Println("Demonstrating local variables...")

	localInt := 123
	localFloat := float32(45.67)
	localDouble := 890.123
	localBool := false
	localChar := byte('L')
	localString := "Local String"

	localArray := [5]int{10, 20, 30, 40, 50}
	localCharArray := [16]byte{'L', 'o', 'c', 'a', 'l', 'C', 'h', 'a', 'r', 'A', 'r', 'r', 'a', 'y'}

	localIntPtr := &localInt
	localIntPtrPtr := &localIntPtr

	localComplex := NewComplexStruct(456, "LocalComplex")
	localStatus := Pending
	localUnion := NewDataUnion(789)

	localStringSlice := []string{"one", "two", "three"}
	localIntStringMap := map[int]string{1: "first", 2: "second", 3: "third"}

	heapInt := new(int)
	*heapInt = 999
	heapComplex := new(ComplexStruct)
	*heapComplex = NewComplexStruct(888, "HeapComplex")

	r.Println("Local variables created. Values:")
	r.Value("local_int", localInt)
	r.Value("local_float", localFloat)
	r.Value("local_double", localDouble)
	r.Value("local_bool", localBool)
	r.Value("local_char", string(localChar))
	r.Value("local_string", localString)
	r.Value("local_status", localStatus)
	r.Value("local_union", localUnion.Int())
	r.Value("local_int_ptr_ptr", **localIntPtrPtr)

	_, _, _, _ = localArray, localCharArray, localComplex, localStringSlice
	_, _, _ = localIntStringMap, heapInt, heapComplex

	report.Marker(1)
}

// Showcase reports the globals, builds the linked exhibits and runs
// every local variable helper.
func Showcase(r *report.Reporter) Result {
	r.Println("Starting variable showcase...")
	var res Result

	if globalStructPtr == nil {
		h := globalStructs.Place(NewComplexStruct(666, "GlobalStructPtr"))
		globalStructPtr = globalStructs.At(h)
	}

	r.Println("Global variables:")
	r.Value("global_int", globalInt)
	r.Value("global_float", globalFloat)
	r.Value("global_double", globalDouble)
	r.Value("global_bool", globalBool)
	r.Value("global_char", string(globalChar))
	r.Value("global_string", globalString)
	r.Value("global_int_ptr", *globalIntPtr)
	r.Value("global_int_array", globalIntArray)
	r.Value("global_double_array", globalDoubleArray)
	r.Value("global_char_array", cstring(globalCharArray[:]))
	r.Value("global_vector", globalVector)
	r.Value("global_map[pi]", globalMap["pi"])
	r.Value("global_function(2, 3)", globalFunction(2, 3))
	r.Value("global_complex", globalComplex)
	r.Value("static_int", staticInt)
	r.Value("static_double", staticDouble)
	r.Value("static_complex", staticComplex.Name)
	r.Value("external_variable", externalVariable)

	LocalVariables(r)

	paramVector := []int{100, 200, 300}
	res.ParameterResult = ParameterFunction(r, 123, "ParameterTest", globalStructPtr, paramVector)
	r.Printf("Parameter function result: %d", res.ParameterResult)

	linkedList = NewList(ListLength)
	binaryTree = NewTree(TreeDepth)
	globalStructPtr.Node = linkedList.Head
	res.ListValues = linkedList.Values()
	res.TreeValues = binaryTree.LevelOrder()
	res.TreeSum = binaryTree.Sum()

	r.Println("Complex structures created:")
	r.Printf("  linked_list head: %d (nodes at %#x)", linkedList.Head, arenaAddr(&linkedList.Nodes))
	r.Printf("  binary_tree root: %d (nodes at %#x)", binaryTree.Root, arenaAddr(&binaryTree.Nodes))
	r.Value("linked_list values", res.ListValues)
	r.Value("binary_tree level order", res.TreeValues)

	res.Modifications = Modify(r)
	ConstValues(r)
	res.Cache = BoundedCache(r)

	report.Marker(5)

	r.Println("Variable showcase complete.")
	r.Println("Available variable types:")
	r.Println("  Basic types: int, float, double, bool, char")
	r.Println("  Strings: byte arrays and strings")
	r.Println("  Arrays: fixed and dynamic")
	r.Println("  Pointers: single and multi-level")
	r.Println("  Structures: simple and complex")
	r.Println("  Containers: slice, map, bounded cache")
	r.Println("  Linked structures: lists and trees")
	return res
}

// NormalResult holds the values computed by the normal scenario.
type NormalResult struct {
	Showcase        Result
	FunctionResult  int
	RecursiveResult int
}

// RecursionDepth and CallDepth are the depths used by the normal scenario.
const (
	RecursionDepth = 5
	CallDepth      = 3
)

// Run is the normal scenario.
func Run(r *report.Reporter) NormalResult {
	r.Header("Normal Mode Execution")
	var res NormalResult

	res.Showcase = Showcase(r)

	r.Println()
	r.Println("Testing function calls and stack analysis...")
	res.FunctionResult = FunctionWithParams(r, 100, 25.5, "normal_mode", &globalStruct)
	r.Printf("Function result: %d", res.FunctionResult)

	r.Println()
	r.Println("Testing recursive function...")
	res.RecursiveResult = Recursive(RecursionDepth, 0)
	r.Printf("Recursive result: %d", res.RecursiveResult)

	CallStackDepth(r, CallDepth)

	r.Println()
	r.Println("Normal mode execution complete.")
	return res
}

// StepResult holds the values computed by the step-debug scenario.
type StepResult struct {
	Trace  []int
	Result int
}

// Step is the step-debug scenario: a short function with a branch, a
// loop and a call, one statement per line.
//
//go:noinline
func Step(r *report.Reporter) StepResult {
	r.Header("Step Debug Mode")
	r.Println("Executing step-friendly function for Execution Control testing...")
	var res StepResult

	r.Println("Step 1: Initialize variables")
	stepVar1 := 10
	res.Trace = append(res.Trace, stepVar1)

	r.Println("Step 2: Conditional branch")
	if stepVar1 > 5 {
		r.Println("Step 3: In true branch")
		stepVar1 += 5
	} else {
		r.Println("Step 3: In false branch")
		stepVar1 -= 5
	}
	res.Trace = append(res.Trace, stepVar1)

	r.Println("Step 4: Loop operations")
	for i := 0; i < 3; i++ {
		r.Printf("  Loop iteration: %d, step_var1: %d", i, stepVar1)
		stepVar1 *= 2
	}
	res.Trace = append(res.Trace, stepVar1)

	r.Println("Step 5: Function call")
	res.Result = FunctionWithParams(r, stepVar1, 2.5, "step_debug", &globalStruct)

	r.Printf("Step 6: Function complete, result: %d", res.Result)
	return res
}

func arenaAddr[T any](a *Arena[T]) uintptr {
	if len(a.items) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&a.items[0]))
}

func cstring(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
