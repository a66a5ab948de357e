package showcase

import (
	"math"
	"unsafe"
)

// Status is an enumerated value with non contiguous members.
type Status int

const (
	Inactive Status = 0
	Active   Status = 1
	Pending  Status = 2
	Error    Status = 99
)

func (s Status) String() string {
	switch s {
	case Inactive:
		return "INACTIVE"
	case Active:
		return "ACTIVE"
	case Pending:
		return "PENDING"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// DataUnion is four bytes read back as an int32, a float32 or a byte
// array, the way a C union would be.
type DataUnion struct {
	raw uint32
}

// NewDataUnion stores v.
func NewDataUnion(v int32) DataUnion {
	return DataUnion{raw: uint32(v)}
}

// Int reads the storage as an int32.
func (u DataUnion) Int() int32 { return int32(u.raw) }

// Float reads the storage as a float32.
func (u DataUnion) Float() float32 { return math.Float32frombits(u.raw) }

// Chars reads the storage as bytes in memory order.
func (u DataUnion) Chars() [4]byte {
	return *(*[4]byte)(unsafe.Pointer(&u.raw))
}

// SetFloat overwrites the storage with f.
func (u *DataUnion) SetFloat(f float32) { u.raw = math.Float32bits(f) }

// ComplexStruct aggregates scalars, a dynamic sequence, a mapping, a union
// and handles: Self refers back to the struct's own slot in its arena and
// Node to an optional list node.
type ComplexStruct struct {
	ID      int
	Name    string
	Value   float64
	Status  Status
	Numbers []int
	Mapping map[string]int
	Data    DataUnion
	Self    Handle
	Node    Handle
}

// NewComplexStruct returns a ComplexStruct with the default contents.
// Self and Node are Nil until the struct is placed in an arena.
func NewComplexStruct(id int, name string) ComplexStruct {
	return ComplexStruct{
		ID:      id,
		Name:    name,
		Value:   123.456,
		Status:  Active,
		Numbers: []int{1, 2, 3, 4, 5},
		Mapping: map[string]int{"key1": 10, "key2": 20},
		Data:    NewDataUnion(42),
		Self:    Nil,
		Node:    Nil,
	}
}

// Structs is an arena of ComplexStruct values.
type Structs struct {
	Arena[ComplexStruct]
}

// Place stores s and points its Self handle at the new slot.
func (a *Structs) Place(s ComplexStruct) Handle {
	h := a.Alloc(s)
	a.At(h).Self = h
	return h
}

// TestStruct is a plain record passed by pointer to FunctionWithParams.
type TestStruct struct {
	ID     int
	Name   string
	Value  float64
	Active bool
}

// Globals. They exist to be read by a debugger.
var (
	globalInt         = 42
	globalFloat       = float32(3.14159)
	globalDouble      = 2.71828
	globalBool        = true
	globalChar  byte  = 'G'
	globalString      = "Global String Value"
	globalIntArray    = [10]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	globalDoubleArray = [...]float64{1.1, 2.2, 3.3, 4.4, 5.5}
	globalCharArray   = [32]byte{'G', 'l', 'o', 'b', 'a', 'l', ' ', 'C', 'h', 'a', 'r', 'a', 'c', 't', 'e', 'r', ' ', 'A', 'r', 'r', 'a', 'y'}
	globalIntPtr      = &globalInt
	globalVector      = []int{10, 20, 30, 40, 50}
	globalMap         = map[string]float64{"pi": 3.14159, "e": 2.71828, "sqrt2": 1.41421}
	globalFunction    = func(a, b int) int { return a + b }
	globalComplex     = complex(3.0, 4.0)
	externalVariable  = 777

	globalStruct = TestStruct{ID: 1001, Name: "GlobalStruct", Value: 99.99, Active: true}

	// Set by Showcase.
	globalStructPtr *ComplexStruct
	globalStructs   Structs
)

// Package level variables with unexported names play the role of statics.
var (
	staticInt     = 100
	staticDouble  = 999.888
	staticComplex = NewComplexStruct(999, "StaticComplex")
)
