package pixbuf

import "unsafe"

// Bytes reinterprets a typed slice as its raw bytes in host byte order,
// without copying. It returns nil for unsupported types.
func Bytes(data any) []byte {
	switch s := data.(type) {
	case []uint8:
		return s
	case []uint16:
		return asBytes(s)
	case []uint32:
		return asBytes(s)
	case []float32:
		return asBytes(s)
	case []float64:
		return asBytes(s)
	case []int8:
		return asBytes(s)
	case []int16:
		return asBytes(s)
	case []int32:
		return asBytes(s)
	}
	return nil
}

func asBytes[T Element](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*int(unsafe.Sizeof(zero)))
}

// Sub returns data[lo:hi] for a typed slice.
func Sub(data any, lo, hi int) any {
	switch s := data.(type) {
	case []uint8:
		return s[lo:hi]
	case []uint16:
		return s[lo:hi]
	case []uint32:
		return s[lo:hi]
	case []float32:
		return s[lo:hi]
	case []float64:
		return s[lo:hi]
	case []int8:
		return s[lo:hi]
	case []int16:
		return s[lo:hi]
	case []int32:
		return s[lo:hi]
	}
	return nil
}
