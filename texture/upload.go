package texture

import (
	"github.com/cespare/xxhash/v2"

	"github.com/mreinstein/texture2d/pixbuf"
)

// Capabilities reports what the active context can store.
// It is queried on every upload; implementations may change their answer
// as extensions come and go.
type Capabilities interface {
	FloatTextures() bool
}

// UploadDescriptor is a dense, ready-to-upload view of a pixel buffer.
// It is built by PrepareUpload for a single upload call and must be
// released once that call returns.
type UploadDescriptor struct {
	Format Format
	Type   ElementType
	Width  int
	Height int

	// Data is a packed row-major typed slice ([]uint8, []uint16, []uint32 or []float32).
	Data any

	// Copied is true when Data is pooled scratch rather than the caller's storage.
	Copied bool

	scratch any
}

// PrepareUpload classifies b and returns a packed view of its elements.
//
// Contiguous buffers are returned as a subslice of their own storage. Strided
// buffers, and float64 buffers (which are narrowed to float32), are gathered
// into pooled scratch storage that Release returns to the pool. Bounds are
// checked before anything is copied, and on error nothing is retained.
func PrepareUpload(b *pixbuf.Buffer, caps Capabilities) (*UploadDescriptor, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	format, typ, err := Classify(b, caps.FloatTextures())
	if err != nil {
		return nil, err
	}

	d := &UploadDescriptor{
		Format: format,
		Type:   typ,
		Width:  b.Shape[1],
		Height: b.Shape[0],
	}

	n := b.Size()
	if b.IsContiguous() && b.DType() != pixbuf.Float64 {
		d.Data = pixbuf.Sub(b.Data(), b.Offset, b.Offset+n)
		return d, nil
	}

	dt := b.DType()
	if dt == pixbuf.Float64 {
		dt = pixbuf.Float32
	}
	scratch := pixbuf.Scratch(dt, n)
	if err := pixbuf.Gather(scratch, b); err != nil {
		pixbuf.Release(scratch)
		return nil, err
	}
	d.Data = scratch
	d.Copied = true
	d.scratch = scratch
	return d, nil
}

// Bytes returns Data as raw bytes in host byte order.
func (d *UploadDescriptor) Bytes() []byte {
	return pixbuf.Bytes(d.Data)
}

// Checksum returns the xxHash64 of the packed bytes.
func (d *UploadDescriptor) Checksum() uint64 {
	return xxhash.Sum64(d.Bytes())
}

// Release returns scratch storage to the pool. It is safe to call more than once.
func (d *UploadDescriptor) Release() {
	if d == nil || d.scratch == nil {
		return
	}
	pixbuf.Release(d.scratch)
	d.scratch = nil
	d.Data = nil
}
