package showcase

import (
	"strconv"
	"unsafe"

	"github.com/incode-debug/debuggee/pkg/report"
)

// FunctionWithParams takes one parameter of each basic kind and returns
// 2*paramInt + int(paramFloat+1).
//
//go:noinline
func FunctionWithParams(r *report.Reporter, paramInt int, paramFloat float32, paramStr string, paramStruct *TestStruct) int {
	localInt := paramInt * 2
	localFloat := paramFloat + 1.0
	var localBuffer [64]byte
	copy(localBuffer[:], paramStr)

	localDouble := 123.456
	localBool := true
	localArray := [5]int{1, 2, 3, 4, 5}

	heapMemory := make([]int, 10)
	for i := range heapMemory {
		heapMemory[i] = i * 10
	}

	r.Printf("Function parameters: int=%d, float=%g, str=%s", paramInt, paramFloat, paramStr)
	if paramStruct != nil {
		r.Printf("Struct param ID: %d", paramStruct.ID)
	}
	_, _, _ = localDouble, localBool, localArray

	return localInt + int(localFloat)
}

// ParameterFunction reports its parameters and returns paramInt plus the
// length of paramVector.
//
//go:noinline
func ParameterFunction(r *report.Reporter, paramInt int, paramString string, paramStruct *ComplexStruct, paramVector []int) int {
	r.Println("Function with parameters called:")
	r.Value("param_int", paramInt)
	r.Value("param_string", paramString)
	r.Value("param_struct ptr", unsafe.Pointer(paramStruct))
	if paramStruct != nil {
		r.Value("param_struct.ID", paramStruct.ID)
		r.Value("param_struct.Name", paramStruct.Name)
	}
	r.Value("param_vector size", len(paramVector))

	localParamCopy := paramInt
	localStringCopy := paramString
	localStructPtr := paramStruct
	_, _ = localStringCopy, localStructPtr

	report.Marker(2)

	return localParamCopy + len(paramVector)
}

// Recursive adds depth, depth-1, ..., 1 to accumulator.
//
//go:noinline
func Recursive(depth, accumulator int) int {
	if depth <= 0 {
		return accumulator
	}
	localDepth := depth
	localResult := accumulator + localDepth
	return Recursive(depth-1, localResult)
}

// CallStackDepth recurses depth times, reporting each level, so that a
// backtrace taken at the bottom shows depth+1 frames of it.
//
//go:noinline
func CallStackDepth(r *report.Reporter, depth int) {
	if depth <= 0 {
		r.Println("Maximum call stack depth reached")

		depthVar := 999
		depthString := "MaxDepth"
		depthStruct := NewComplexStruct(depth, "DepthStruct")
		_, _, _ = depthVar, depthString, depthStruct

		report.Marker(depth)
		return
	}

	currentDepth := depth
	levelName := "Level" + strconv.Itoa(depth)
	r.Printf("Call stack depth: %d (%s)", currentDepth, levelName)

	CallStackDepth(r, depth-1)
}

// Modifications holds the values observed while a variable is changed
// step by step.
type Modifications struct {
	Steps  []int
	Array  [5]int
	Struct ComplexStruct
}

// Modify changes a local in several steps (10, 15, 30, 2), scales an
// array and mutates a struct.
//
//go:noinline
func Modify(r *report.Reporter) Modifications {
	r.Println("Demonstrating variable modifications...")
	var res Modifications

	modificationTest := 10
	r.Printf("Initial value: %d", modificationTest)
	res.Steps = append(res.Steps, modificationTest)

	modificationTest += 5
	r.Printf("After += 5: %d", modificationTest)
	res.Steps = append(res.Steps, modificationTest)

	modificationTest *= 2
	r.Printf("After *= 2: %d", modificationTest)
	res.Steps = append(res.Steps, modificationTest)

	modificationTest = modificationTest % 7
	r.Printf("After %% 7: %d", modificationTest)
	res.Steps = append(res.Steps, modificationTest)

	modArray := [5]int{1, 2, 3, 4, 5}
	for i := range modArray {
		modArray[i] *= 10
	}
	res.Array = modArray

	modStruct := NewComplexStruct(123, "ModificationTest")
	modStruct.Value = 456.789
	modStruct.Status = Error
	modStruct.Numbers = append(modStruct.Numbers, 100)
	modStruct.Mapping["new_key"] = 999
	res.Struct = modStruct

	report.Marker(3)
	return res
}

// Constants used by ConstValues.
const (
	constInt    = 999
	constString = "Constant String"
)

// ConstValues keeps constants, read-only copies and a pointer alias live
// in one frame.
//
//go:noinline
func ConstValues(r *report.Reporter) {
	r.Println("Demonstrating const and volatile variables...")

	constStruct := NewComplexStruct(777, "ConstStruct")
	volatileInt := 555
	volatileBool := true
	referenceTarget := 444
	intReference := &referenceTarget

	r.Println("Const and volatile variables created")
	r.Value("const_int", constInt)
	r.Value("const_string", constString)
	r.Value("int_reference", *intReference)
	_, _, _ = constStruct, volatileInt, volatileBool

	report.Marker(4)
}
