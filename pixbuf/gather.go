package pixbuf

import "fmt"

// Gather copies the elements addressed by b into dst in row-major order.
// dst must be a typed slice with at least b.Size() elements; its element type
// may differ from the storage type, in which case each value is converted.
// The view must already be valid (see Validate).
func Gather(dst any, b *Buffer) error {
	if n := sliceLen(dst); n < b.Size() {
		return fmt.Errorf("%w: destination holds %d of %d elements", ErrOutOfBounds, n, b.Size())
	}
	switch src := b.data.(type) {
	case []uint8:
		return gatherInto(dst, src, b)
	case []uint16:
		return gatherInto(dst, src, b)
	case []uint32:
		return gatherInto(dst, src, b)
	case []float32:
		return gatherInto(dst, src, b)
	case []float64:
		return gatherInto(dst, src, b)
	case []int8:
		return gatherInto(dst, src, b)
	case []int16:
		return gatherInto(dst, src, b)
	case []int32:
		return gatherInto(dst, src, b)
	}
	return fmt.Errorf("pixbuf: unsupported storage %T", b.data)
}

func gatherInto[S Element](dst any, src []S, b *Buffer) error {
	switch d := dst.(type) {
	case []uint8:
		gather(d, src, b.Shape, b.Stride, b.Offset)
	case []uint16:
		gather(d, src, b.Shape, b.Stride, b.Offset)
	case []uint32:
		gather(d, src, b.Shape, b.Stride, b.Offset)
	case []float32:
		gather(d, src, b.Shape, b.Stride, b.Offset)
	case []float64:
		gather(d, src, b.Shape, b.Stride, b.Offset)
	case []int8:
		gather(d, src, b.Shape, b.Stride, b.Offset)
	case []int16:
		gather(d, src, b.Shape, b.Stride, b.Offset)
	case []int32:
		gather(d, src, b.Shape, b.Stride, b.Offset)
	default:
		return fmt.Errorf("pixbuf: unsupported destination %T", dst)
	}
	return nil
}

// gather walks the target in row-major order, stepping the source position
// by the stride of whichever dimension advances.
func gather[D, S Element](dst []D, src []S, shape, stride []int, offset int) {
	if len(shape) == 0 {
		return
	}
	last := len(shape) - 1
	idx := make([]int, len(shape))
	pos := offset
	n := 1
	for _, s := range shape {
		n *= s
	}
	for i := 0; i < n; i++ {
		dst[i] = D(src[pos])
		for d := last; d >= 0; d-- {
			idx[d]++
			pos += stride[d]
			if idx[d] < shape[d] {
				break
			}
			pos -= stride[d] * shape[d]
			idx[d] = 0
		}
	}
}
