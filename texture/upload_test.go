package texture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mreinstein/texture2d/pixbuf"
)

type caps bool

func (c caps) FloatTextures() bool { return bool(c) }

func bytesSeq(n int) []uint8 {
	s := make([]uint8, n)
	for i := range s {
		s[i] = uint8(i)
	}
	return s
}

func TestClassify2D(t *testing.T) {
	tests := []struct {
		name   string
		buf    *pixbuf.Buffer
		float  bool
		format Format
		typ    ElementType
		err    error
	}{
		{"uint8", pixbuf.Dense(make([]uint8, 16), 4, 4), false, FormatLuminance, TypeUnsignedByte, nil},
		{"uint16", pixbuf.Dense(make([]uint16, 16), 4, 4), false, FormatRGBA, TypeUnsignedShort4444, nil},
		{"uint32", pixbuf.Dense(make([]uint32, 16), 4, 4), false, FormatRGBA, TypeUnsignedByte, nil},
		{"float32", pixbuf.Dense(make([]float32, 16), 4, 4), true, FormatLuminance, TypeFloat, nil},
		{"float64", pixbuf.Dense(make([]float64, 16), 4, 4), true, FormatLuminance, TypeFloat, nil},
		{"float32 without support", pixbuf.Dense(make([]float32, 16), 4, 4), false, 0, 0, ErrUnsupportedFormat},
		{"int16", pixbuf.Dense(make([]int16, 16), 4, 4), true, 0, 0, ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, typ, err := Classify(tt.buf, tt.float)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.format, f)
			assert.Equal(t, tt.typ, typ)
		})
	}
}

func TestClassify2DSingleChannel(t *testing.T) {
	for _, b := range []*pixbuf.Buffer{
		pixbuf.Dense(make([]uint8, 6), 2, 3),
		pixbuf.Dense(make([]float32, 6), 2, 3),
	} {
		f, _, err := Classify(b, true)
		require.NoError(t, err)
		assert.Equal(t, 1, f.Channels(), "dtype %s", b.DType())
	}
}

func TestClassify3D(t *testing.T) {
	for c := 0; c <= 6; c++ {
		b := pixbuf.Dense(make([]uint8, 2*3*max(c, 1)), 2, 3, c)
		f, typ, err := Classify(b, false)
		if c < 1 || c > 4 {
			assert.ErrorIs(t, err, ErrInvalidShape, "channels %d", c)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, c, f.Channels())
		assert.Equal(t, TypeUnsignedByte, typ)
	}

	f, typ, err := Classify(pixbuf.Dense(make([]float64, 24), 2, 3, 4), true)
	require.NoError(t, err)
	assert.Equal(t, FormatRGBA, f)
	assert.Equal(t, TypeFloat, typ)

	_, _, err = Classify(pixbuf.Dense(make([]float32, 24), 2, 3, 4), false)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, _, err = Classify(pixbuf.Dense(make([]uint16, 24), 2, 3, 4), true)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestClassifyDimensions(t *testing.T) {
	_, _, err := Classify(pixbuf.Dense(make([]uint8, 4), 4), false)
	assert.ErrorIs(t, err, ErrInvalidShape)
	_, _, err = Classify(pixbuf.Dense(make([]uint8, 16), 2, 2, 2, 2), false)
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestPrepareUploadContiguousNoCopy(t *testing.T) {
	data := bytesSeq(16)
	b := pixbuf.New(data, []int{4, 4}, []int{4, 1}, 0)

	f, typ, err := Classify(b, false)
	require.NoError(t, err)
	assert.Equal(t, FormatLuminance, f)
	assert.Equal(t, TypeUnsignedByte, typ)
	assert.True(t, b.IsContiguous())

	d, err := PrepareUpload(b, caps(false))
	require.NoError(t, err)
	defer d.Release()

	assert.False(t, d.Copied)
	view := d.Data.([]uint8)
	require.Len(t, view, 16)
	assert.Same(t, &data[0], &view[0])
	assert.Equal(t, 4, d.Width)
	assert.Equal(t, 4, d.Height)
}

func TestPrepareUploadContiguousOffset(t *testing.T) {
	data := bytesSeq(20)
	d, err := PrepareUpload(pixbuf.New(data, []int{2, 2}, nil, 3), caps(false))
	require.NoError(t, err)
	assert.False(t, d.Copied)
	assert.Equal(t, []uint8{3, 4, 5, 6}, d.Data)
}

func TestPrepareUploadPaddedRGBA(t *testing.T) {
	data := bytesSeq(32)
	b := pixbuf.New(data, []int{2, 3, 4}, []int{16, 4, 1}, 0)
	assert.False(t, b.IsContiguous())

	d, err := PrepareUpload(b, caps(false))
	require.NoError(t, err)
	defer d.Release()

	assert.True(t, d.Copied)
	assert.Equal(t, FormatRGBA, d.Format)
	assert.Equal(t, 3, d.Width)
	assert.Equal(t, 2, d.Height)

	want := append(bytesSeq(12), 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27)
	assert.Equal(t, want, d.Data)
	assert.Len(t, d.Bytes(), 24)
}

func TestPrepareUploadRoundTrip(t *testing.T) {
	bufs := []*pixbuf.Buffer{
		pixbuf.New(bytesSeq(32), []int{2, 3, 4}, []int{16, 4, 1}, 0),
		pixbuf.Dense(bytesSeq(30), 5, 6).Transpose(0, 1),
		pixbuf.New(bytesSeq(48), []int{3, 4, 3}, []int{-16, 4, 1}, 32),
		pixbuf.New(bytesSeq(64), []int{4, 4, 2}, []int{16, 4, 3}, 0),
	}
	for _, b := range bufs {
		d, err := PrepareUpload(b, caps(false))
		require.NoError(t, err, "%s", b)
		require.True(t, d.Copied)

		dense := pixbuf.Dense(append([]uint8(nil), d.Data.([]uint8)...), b.Shape...)
		d.Release()

		for i := 0; i < b.Shape[0]; i++ {
			for j := 0; j < b.Shape[1]; j++ {
				if b.Dims() == 2 {
					assert.Equal(t, pixbuf.Value[uint8](b, i, j), pixbuf.Value[uint8](dense, i, j))
					continue
				}
				for c := 0; c < b.Shape[2]; c++ {
					assert.Equal(t, pixbuf.Value[uint8](b, i, j, c), pixbuf.Value[uint8](dense, i, j, c))
				}
			}
		}
	}
}

func TestPrepareUploadFloat64(t *testing.T) {
	src := make([]float64, 16)
	for i := range src {
		src[i] = float64(i) + 0.25
	}
	b := pixbuf.Dense(src, 4, 4)

	_, typ, err := Classify(b, true)
	require.NoError(t, err)
	assert.Equal(t, TypeFloat, typ)

	_, err = PrepareUpload(b, caps(false))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	d, err := PrepareUpload(b, caps(true))
	require.NoError(t, err)
	defer d.Release()
	assert.True(t, d.Copied)
	got := d.Data.([]float32)
	require.Len(t, got, 16)
	assert.Equal(t, float32(5.25), got[5])
	assert.Len(t, d.Bytes(), 64)
}

func TestPrepareUploadBounds(t *testing.T) {
	// offset + size == len succeeds.
	d, err := PrepareUpload(pixbuf.New(bytesSeq(18), []int{4, 4}, nil, 2), caps(false))
	require.NoError(t, err)
	d.Release()

	// One element short fails before anything is copied.
	_, err = PrepareUpload(pixbuf.New(bytesSeq(17), []int{4, 4}, nil, 2), caps(false))
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = PrepareUpload(pixbuf.New(bytesSeq(31), []int{2, 3, 4}, []int{16, 4, 1}, 4), caps(false))
	assert.ErrorIs(t, err, ErrOutOfBounds)

	// A span that wraps around int must not reach the scratch pool.
	wrapped := pixbuf.New(bytesSeq(1), []int{1<<62 + 1, 1}, []int{4, 1}, 0)
	assert.NotPanics(t, func() {
		_, err = PrepareUpload(wrapped, caps(false))
	})
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestPrepareUploadInvalidShape(t *testing.T) {
	_, err := PrepareUpload(pixbuf.Dense(bytesSeq(30), 2, 3, 5), caps(false))
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, err = PrepareUpload(pixbuf.New(bytesSeq(16), []int{4, 4}, []int{0, 1}, 0), caps(false))
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestDescriptorReleaseIdempotent(t *testing.T) {
	d, err := PrepareUpload(pixbuf.Dense(bytesSeq(16), 4, 4).Transpose(0, 1), caps(false))
	require.NoError(t, err)
	sum := d.Checksum()
	d.Release()
	assert.Nil(t, d.Data)
	d.Release()

	var nilDesc *UploadDescriptor
	nilDesc.Release()

	// The same transpose checksums the same way through fresh scratch.
	d2, err := PrepareUpload(pixbuf.Dense(bytesSeq(16), 4, 4).Transpose(0, 1), caps(false))
	require.NoError(t, err)
	defer d2.Release()
	assert.Equal(t, sum, d2.Checksum())
}

func TestParseFormat(t *testing.T) {
	for _, f := range []Format{FormatLuminance, FormatAlpha, FormatLuminanceAlpha, FormatRGB, FormatRGBA} {
		assert.NotEmpty(t, f.String())
	}
	f, err := ParseFormat("la")
	require.NoError(t, err)
	assert.Equal(t, FormatLuminanceAlpha, f)
	_, err = ParseFormat("bgra")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestBytesPerPixel(t *testing.T) {
	assert.Equal(t, 3, TypeUnsignedByte.BytesPerPixel(FormatRGB))
	assert.Equal(t, 2, TypeUnsignedShort4444.BytesPerPixel(FormatRGBA))
	assert.Equal(t, 8, TypeFloat.BytesPerPixel(FormatLuminanceAlpha))
}
