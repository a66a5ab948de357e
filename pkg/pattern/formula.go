package pattern

// ByteFormula returns the byte stored at offset i of a region.
type ByteFormula func(i int) byte

// UpperAlpha is the stack buffer pattern: 'A' + i mod 26.
func UpperAlpha(i int) byte { return byte('A' + i%26) }

// LowerAlpha is the heap buffer pattern: 'a' + i mod 26.
func LowerAlpha(i int) byte { return byte('a' + i%26) }

// Digit is the global buffer pattern: '0' + i mod 10.
func Digit(i int) byte { return byte('0' + i%10) }

// StackInt is the stack integer pattern.
func StackInt(i int) int32 { return int32(i * 100) }

// HeapInt is the heap integer pattern.
func HeapInt(i int) int32 { return int32(i * 1000) }

// GlobalInt is the global array pattern.
func GlobalInt(i int) int32 { return int32(i * i) }

// StackFloat is the stack float pattern.
func StackFloat(i int) float64 { return float64(i) * 3.14159 }

// HeapFloat is the heap float pattern.
func HeapFloat(i int) float64 { return float64(i) * 2.71828 }

// FillBytes writes f(i) at every offset of buf.
func FillBytes(buf []byte, f ByteFormula) {
	for i := range buf {
		buf[i] = f(i)
	}
}

// FillInts writes f(i) at every index of v.
func FillInts(v []int32, f func(int) int32) {
	for i := range v {
		v[i] = f(i)
	}
}

// FillFloats writes f(i) at every index of v.
func FillFloats(v []float64, f func(int) float64) {
	for i := range v {
		v[i] = f(i)
	}
}

// Verify checks buf against f. It returns the first mismatching offset
// and false, or -1 and true when every byte matches.
func Verify(buf []byte, f ByteFormula) (int, bool) {
	for i := range buf {
		if buf[i] != f(i) {
			return i, false
		}
	}
	return -1, true
}

// VerifyInts is Verify for integer regions.
func VerifyInts(v []int32, f func(int) int32) (int, bool) {
	for i := range v {
		if v[i] != f(i) {
			return i, false
		}
	}
	return -1, true
}

// VerifyFloats is Verify for float regions. Values must match exactly:
// the formulas are evaluated the same way on both sides.
func VerifyFloats(v []float64, f func(int) float64) (int, bool) {
	for i := range v {
		if v[i] != f(i) {
			return i, false
		}
	}
	return -1, true
}

func cstring(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
