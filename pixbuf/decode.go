package pixbuf

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Decode reads raw little-endian elements of type d and returns a view over
// them with the given shape, stride and offset. A nil stride selects
// canonical strides. Trailing bytes that do not form a whole element are an error.
func Decode(raw []byte, d DType, shape, stride []int, offset int) (*Buffer, error) {
	size := d.Size()
	if size == 0 {
		return nil, fmt.Errorf("pixbuf: unknown dtype %v", d)
	}
	if len(raw)%size != 0 {
		return nil, fmt.Errorf("pixbuf: %d bytes is not a whole number of %s elements", len(raw), d)
	}
	data := MakeSlice(d, len(raw)/size)
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, data); err != nil {
		return nil, fmt.Errorf("pixbuf: decode %s: %w", d, err)
	}
	if stride == nil {
		stride = CanonicalStrides(shape)
	}
	return &Buffer{
		Shape:  append([]int(nil), shape...),
		Stride: append([]int(nil), stride...),
		Offset: offset,
		dtype:  d,
		data:   data,
	}, nil
}
