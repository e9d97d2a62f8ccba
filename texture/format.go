package texture

import (
	"errors"
	"fmt"

	"github.com/mreinstein/texture2d/pixbuf"
)

// Upload validation errors. All are detected before the context is touched.
var (
	// ErrInvalidShape is returned for buffers that are not 2-D or 3-D, have a
	// channel count outside 1-4, or carry malformed strides.
	ErrInvalidShape = pixbuf.ErrInvalidShape

	// ErrOutOfBounds is returned when a buffer addresses memory outside its storage.
	ErrOutOfBounds = pixbuf.ErrOutOfBounds

	// ErrUnsupportedFormat is returned for element types that cannot be uploaded,
	// including float data on contexts without float texture support.
	ErrUnsupportedFormat = errors.New("texture: unsupported format")
)

// Format is the channel layout of an upload.
type Format uint8

const (
	// FormatUndefined lets image uploads pick their default layout (RGBA).
	FormatUndefined Format = iota
	FormatLuminance
	FormatAlpha
	FormatLuminanceAlpha
	FormatRGB
	FormatRGBA
)

// Channels returns the number of components per pixel.
func (f Format) Channels() int {
	switch f {
	case FormatLuminance, FormatAlpha:
		return 1
	case FormatLuminanceAlpha:
		return 2
	case FormatRGB:
		return 3
	case FormatRGBA:
		return 4
	}
	return 0
}

func (f Format) String() string {
	switch f {
	case FormatUndefined:
		return "Undefined"
	case FormatLuminance:
		return "Luminance"
	case FormatAlpha:
		return "Alpha"
	case FormatLuminanceAlpha:
		return "LuminanceAlpha"
	case FormatRGB:
		return "RGB"
	case FormatRGBA:
		return "RGBA"
	default:
		return fmt.Sprintf("Format(%d)", f)
	}
}

// ParseFormat maps a lower-case name ("rgba", "luminance-alpha", ...) to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "default":
		return FormatUndefined, nil
	case "luminance", "l":
		return FormatLuminance, nil
	case "alpha", "a":
		return FormatAlpha, nil
	case "luminance-alpha", "la":
		return FormatLuminanceAlpha, nil
	case "rgb":
		return FormatRGB, nil
	case "rgba":
		return FormatRGBA, nil
	}
	return FormatUndefined, fmt.Errorf("%w: unknown format %q", ErrUnsupportedFormat, s)
}

// ElementType is the per-component numeric representation of an upload.
type ElementType uint8

const (
	TypeUnsignedByte ElementType = iota
	// TypeUnsignedShort4444 packs four 4-bit components into one uint16.
	TypeUnsignedShort4444
	TypeFloat
)

func (t ElementType) String() string {
	switch t {
	case TypeUnsignedByte:
		return "UnsignedByte"
	case TypeUnsignedShort4444:
		return "UnsignedShort4444"
	case TypeFloat:
		return "Float"
	default:
		return fmt.Sprintf("ElementType(%d)", t)
	}
}

// BytesPerPixel returns the size of one pixel of format f stored as t.
func (t ElementType) BytesPerPixel(f Format) int {
	switch t {
	case TypeUnsignedByte:
		return f.Channels()
	case TypeUnsignedShort4444:
		return 2
	case TypeFloat:
		return 4 * f.Channels()
	}
	return 0
}

// Classify infers the upload format and element type of b.
//
// 2-D buffers are laid out by element type alone: uint32 holds one RGBA byte
// quad per element, uint16 one RGBA 4-4-4-4 pixel, uint8 and floats a single
// luminance channel. 3-D buffers take their layout from Shape[2] and accept
// uint8 or float elements. Float data (float64 is narrowed to float32) is only
// accepted when floatTextures is true.
func Classify(b *pixbuf.Buffer, floatTextures bool) (Format, ElementType, error) {
	switch b.Dims() {
	case 2:
		switch b.DType() {
		case pixbuf.Uint32:
			return FormatRGBA, TypeUnsignedByte, nil
		case pixbuf.Uint16:
			return FormatRGBA, TypeUnsignedShort4444, nil
		case pixbuf.Uint8:
			return FormatLuminance, TypeUnsignedByte, nil
		case pixbuf.Float32, pixbuf.Float64:
			if !floatTextures {
				return 0, 0, errFloatUnsupported
			}
			return FormatLuminance, TypeFloat, nil
		}
		return 0, 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, b.DType())
	case 3:
		var f Format
		switch b.Shape[2] {
		case 1:
			f = FormatLuminance
		case 2:
			f = FormatLuminanceAlpha
		case 3:
			f = FormatRGB
		case 4:
			f = FormatRGBA
		default:
			return 0, 0, fmt.Errorf("%w: %d channels", ErrInvalidShape, b.Shape[2])
		}
		switch b.DType() {
		case pixbuf.Uint8:
			return f, TypeUnsignedByte, nil
		case pixbuf.Float32, pixbuf.Float64:
			if !floatTextures {
				return 0, 0, errFloatUnsupported
			}
			return f, TypeFloat, nil
		}
		return 0, 0, fmt.Errorf("%w: %s with %d channels", ErrUnsupportedFormat, b.DType(), b.Shape[2])
	}
	return 0, 0, fmt.Errorf("%w: %d dimensions", ErrInvalidShape, b.Dims())
}

var errFloatUnsupported = fmt.Errorf("%w: floating point textures not supported by context", ErrUnsupportedFormat)
