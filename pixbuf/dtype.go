package pixbuf

import "fmt"

// DType identifies the element type of a buffer's storage.
type DType uint8

const (
	Uint8 DType = iota
	Uint16
	Uint32
	Float32
	Float64
	Int8
	Int16
	Int32

	dtypeCount
)

var dtypeNames = [dtypeCount]string{
	Uint8:   "uint8",
	Uint16:  "uint16",
	Uint32:  "uint32",
	Float32: "float32",
	Float64: "float64",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
}

var dtypeSizes = [dtypeCount]int{
	Uint8:   1,
	Uint16:  2,
	Uint32:  4,
	Float32: 4,
	Float64: 8,
	Int8:    1,
	Int16:   2,
	Int32:   4,
}

func (d DType) String() string {
	if d >= dtypeCount {
		return fmt.Sprintf("DType(%d)", d)
	}
	return dtypeNames[d]
}

// Size returns the number of bytes in one element.
func (d DType) Size() int {
	if d >= dtypeCount {
		return 0
	}
	return dtypeSizes[d]
}

// IsFloat reports whether d is a floating point type.
func (d DType) IsFloat() bool {
	return d == Float32 || d == Float64
}

// ParseDType maps a name such as "uint8" or "float32" to its DType.
func ParseDType(s string) (DType, error) {
	for i, name := range dtypeNames {
		if name == s {
			return DType(i), nil
		}
	}
	return 0, fmt.Errorf("pixbuf: unknown dtype %q", s)
}

// Element is the set of Go types a Buffer can be backed by.
type Element interface {
	uint8 | uint16 | uint32 | float32 | float64 | int8 | int16 | int32
}

func dtypeOf(data any) (DType, bool) {
	switch data.(type) {
	case []uint8:
		return Uint8, true
	case []uint16:
		return Uint16, true
	case []uint32:
		return Uint32, true
	case []float32:
		return Float32, true
	case []float64:
		return Float64, true
	case []int8:
		return Int8, true
	case []int16:
		return Int16, true
	case []int32:
		return Int32, true
	}
	return 0, false
}

// MakeSlice allocates a zeroed slice of n elements of type d.
func MakeSlice(d DType, n int) any {
	switch d {
	case Uint8:
		return make([]uint8, n)
	case Uint16:
		return make([]uint16, n)
	case Uint32:
		return make([]uint32, n)
	case Float32:
		return make([]float32, n)
	case Float64:
		return make([]float64, n)
	case Int8:
		return make([]int8, n)
	case Int16:
		return make([]int16, n)
	case Int32:
		return make([]int32, n)
	}
	return nil
}

func sliceLen(data any) int {
	switch s := data.(type) {
	case []uint8:
		return len(s)
	case []uint16:
		return len(s)
	case []uint32:
		return len(s)
	case []float32:
		return len(s)
	case []float64:
		return len(s)
	case []int8:
		return len(s)
	case []int16:
		return len(s)
	case []int32:
		return len(s)
	}
	return 0
}
