// Package pixbuf describes n-dimensional pixel buffers: typed linear storage
// viewed through a shape, a per-dimension stride and a base offset.
//
// A Buffer never copies the storage it is built from. Use Gather to produce a
// dense row-major copy of a strided view.
package pixbuf

import (
	"errors"
	"fmt"
	"math"
)

// Common errors for buffer validation.
var (
	// ErrInvalidShape is returned when the shape or stride cannot describe a view.
	ErrInvalidShape = errors.New("pixbuf: invalid shape")

	// ErrOutOfBounds is returned when the addressable range of a view exceeds its storage.
	ErrOutOfBounds = errors.New("pixbuf: out of bounds")
)

// Buffer is a strided view over typed storage.
//
// Element (i0, i1, ...) lives at Offset + i0*Stride[0] + i1*Stride[1] + ...
// Shape[0] is the row count, Shape[1] the column count and an optional
// Shape[2] the channel count.
type Buffer struct {
	Shape  []int
	Stride []int
	Offset int

	dtype DType
	data  any
}

// New creates a view over data. A nil stride selects canonical row-major
// strides for shape. New does not validate the view; see Validate.
func New[T Element](data []T, shape, stride []int, offset int) *Buffer {
	if stride == nil {
		stride = CanonicalStrides(shape)
	}
	d, _ := dtypeOf(any(data))
	return &Buffer{
		Shape:  append([]int(nil), shape...),
		Stride: append([]int(nil), stride...),
		Offset: offset,
		dtype:  d,
		data:   data,
	}
}

// Dense creates a contiguous row-major view over data.
func Dense[T Element](data []T, shape ...int) *Buffer {
	return New(data, shape, nil, 0)
}

// CanonicalStrides returns the row-major strides of a packed buffer of the given shape.
func CanonicalStrides(shape []int) []int {
	strides := make([]int, len(shape))
	if len(shape) == 0 {
		return strides
	}
	strides[len(shape)-1] = 1
	for i := len(shape) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * shape[i+1]
	}
	return strides
}

// DType returns the element type of the storage.
func (b *Buffer) DType() DType {
	return b.dtype
}

// Data returns the underlying storage as a typed slice ([]uint8, []float32, ...).
func (b *Buffer) Data() any {
	return b.data
}

// Len returns the length of the underlying storage.
func (b *Buffer) Len() int {
	return sliceLen(b.data)
}

// Size returns the number of elements addressed by the view.
// It returns -1 if the count overflows int.
func (b *Buffer) Size() int {
	if len(b.Shape) == 0 {
		return 0
	}
	n := 1
	for _, s := range b.Shape {
		if s > 0 && n > math.MaxInt/s {
			return -1
		}
		n *= s
	}
	return n
}

// Dims returns the number of dimensions.
func (b *Buffer) Dims() int {
	return len(b.Shape)
}

// IsContiguous reports whether the view is laid out in packed row-major order.
// The check is exact: padding, reversed or permuted axes all yield false.
func (b *Buffer) IsContiguous() bool {
	if len(b.Stride) != len(b.Shape) {
		return false
	}
	expected := 1
	for i := len(b.Shape) - 1; i >= 0; i-- {
		if b.Stride[i] != expected {
			return false
		}
		expected *= b.Shape[i]
	}
	return true
}

// Index returns the storage position of the element at idx.
// It returns -1 if idx has the wrong arity or lies outside the shape.
func (b *Buffer) Index(idx ...int) int {
	if len(idx) != len(b.Shape) {
		return -1
	}
	pos := b.Offset
	for i, v := range idx {
		if v < 0 || v >= b.Shape[i] {
			return -1
		}
		pos += v * b.Stride[i]
	}
	return pos
}

// span returns the lowest and highest storage positions addressed by the view.
// The offset must be non-negative. A lo below zero is reported as -1, and ok is
// false if hi overflows int.
func (b *Buffer) span() (lo, hi int, ok bool) {
	lo, hi = b.Offset, b.Offset
	for i, n := range b.Shape {
		if n <= 1 {
			continue
		}
		st := b.Stride[i]
		if st < 0 {
			if st == math.MinInt || n-1 > lo/-st {
				lo = -1
				continue
			}
			lo += (n - 1) * st
		} else {
			if n-1 > (math.MaxInt-hi)/st {
				return 0, 0, false
			}
			hi += (n - 1) * st
		}
	}
	return lo, hi, true
}

// Validate checks that the view is well formed and lies within its storage.
// Shape problems are reported as ErrInvalidShape, range problems as ErrOutOfBounds.
func (b *Buffer) Validate() error {
	if len(b.Shape) == 0 {
		return fmt.Errorf("%w: empty shape", ErrInvalidShape)
	}
	if len(b.Stride) != len(b.Shape) {
		return fmt.Errorf("%w: %d strides for %d dimensions", ErrInvalidShape, len(b.Stride), len(b.Shape))
	}
	for i, n := range b.Shape {
		if n <= 0 {
			return fmt.Errorf("%w: dimension %d has size %d", ErrInvalidShape, i, n)
		}
		if n > 1 && b.Stride[i] == 0 {
			return fmt.Errorf("%w: dimension %d has zero stride", ErrInvalidShape, i)
		}
	}
	if b.Offset < 0 {
		return fmt.Errorf("%w: negative offset %d", ErrOutOfBounds, b.Offset)
	}
	if b.Size() < 0 {
		return fmt.Errorf("%w: shape %v overflows", ErrOutOfBounds, b.Shape)
	}
	lo, hi, ok := b.span()
	if !ok {
		return fmt.Errorf("%w: shape %v with stride %v overflows", ErrOutOfBounds, b.Shape, b.Stride)
	}
	if n := b.Len(); lo < 0 || hi >= n {
		return fmt.Errorf("%w: view addresses [%d, %d] of %d elements", ErrOutOfBounds, lo, hi, n)
	}
	return nil
}

// Transpose returns a view with dimensions i and j swapped. The storage is shared.
func (b *Buffer) Transpose(i, j int) *Buffer {
	t := &Buffer{
		Shape:  append([]int(nil), b.Shape...),
		Stride: append([]int(nil), b.Stride...),
		Offset: b.Offset,
		dtype:  b.dtype,
		data:   b.data,
	}
	t.Shape[i], t.Shape[j] = t.Shape[j], t.Shape[i]
	t.Stride[i], t.Stride[j] = t.Stride[j], t.Stride[i]
	return t
}

// String returns a short description such as "uint8[2 3 4] stride [16 4 1] offset 0".
func (b *Buffer) String() string {
	return fmt.Sprintf("%s%v stride %v offset %d", b.dtype, b.Shape, b.Stride, b.Offset)
}

// Value returns the element at idx. It panics if T is not the storage type
// or idx is outside the view.
func Value[T Element](b *Buffer, idx ...int) T {
	pos := b.Index(idx...)
	if pos < 0 {
		panic(fmt.Sprintf("pixbuf: index %v out of range for shape %v", idx, b.Shape))
	}
	return b.data.([]T)[pos]
}
