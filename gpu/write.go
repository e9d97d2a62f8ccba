package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/mreinstein/texture2d/texture"
)

// textureFormat returns the WebGPU storage format for a client layout.
// WebGPU has no 3-channel or 4-4-4-4 formats, so those are stored as RGBA
// and expanded by expand. Luminance and alpha both land in the red channel.
func textureFormat(f texture.Format, t texture.ElementType) (wgpu.TextureFormat, error) {
	switch t {
	case texture.TypeUnsignedByte, texture.TypeUnsignedShort4444:
		switch f {
		case texture.FormatLuminance, texture.FormatAlpha:
			return wgpu.TextureFormatR8Unorm, nil
		case texture.FormatLuminanceAlpha:
			return wgpu.TextureFormatRG8Unorm, nil
		case texture.FormatRGB, texture.FormatRGBA:
			return wgpu.TextureFormatRGBA8Unorm, nil
		}
	case texture.TypeFloat:
		switch f {
		case texture.FormatLuminance, texture.FormatAlpha:
			return wgpu.TextureFormatR32Float, nil
		case texture.FormatLuminanceAlpha:
			return wgpu.TextureFormatRG32Float, nil
		case texture.FormatRGB, texture.FormatRGBA:
			return wgpu.TextureFormatRGBA32Float, nil
		}
	}
	return wgpu.TextureFormatUndefined, fmt.Errorf("%w: %s/%s", texture.ErrUnsupportedFormat, f, t)
}

// bytesPerPixel returns the storage size of one texel of format.
func bytesPerPixel(format wgpu.TextureFormat) int {
	switch format {
	case wgpu.TextureFormatR8Unorm:
		return 1
	case wgpu.TextureFormatRG8Unorm:
		return 2
	case wgpu.TextureFormatRGBA8Unorm, wgpu.TextureFormatR32Float:
		return 4
	case wgpu.TextureFormatRG32Float:
		return 8
	case wgpu.TextureFormatRGBA32Float:
		return 16
	}
	return 0
}

// expand converts client pixels into the storage layout chosen by textureFormat.
func expand(f texture.Format, t texture.ElementType, pix []byte) []byte {
	switch {
	case t == texture.TypeUnsignedShort4444:
		return expand4444(pix)
	case f == texture.FormatRGB && t == texture.TypeUnsignedByte:
		out := make([]byte, len(pix)/3*4)
		for i, j := 0, 0; i+2 < len(pix); i, j = i+3, j+4 {
			out[j+0] = pix[i+0]
			out[j+1] = pix[i+1]
			out[j+2] = pix[i+2]
			out[j+3] = 255
		}
		return out
	case f == texture.FormatRGB && t == texture.TypeFloat:
		out := make([]byte, len(pix)/12*16)
		for i, j := 0, 0; i+11 < len(pix); i, j = i+12, j+16 {
			copy(out[j:j+12], pix[i:i+12])
			putF32(out, j+12, 1)
		}
		return out
	}
	return pix
}

// expand4444 unpacks RGBA 4-4-4-4 pixels (red in the high nibble) to RGBA8.
func expand4444(pix []byte) []byte {
	out := make([]byte, len(pix)*2)
	for i, j := 0, 0; i+1 < len(pix); i, j = i+2, j+4 {
		v := binary.LittleEndian.Uint16(pix[i:])
		out[j+0] = byte(v>>12&0xf) * 17
		out[j+1] = byte(v>>8&0xf) * 17
		out[j+2] = byte(v>>4&0xf) * 17
		out[j+3] = byte(v&0xf) * 17
	}
	return out
}

func putF32(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
}

func getF32(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

// padRows copies rows of rowBytes into rows of stride bytes. It returns pix
// unchanged when no padding is needed.
func padRows(pix []byte, rowBytes, height, stride int) []byte {
	if rowBytes == stride {
		return pix
	}
	out := make([]byte, stride*height)
	for y := 0; y < height; y++ {
		copy(out[y*stride:y*stride+rowBytes], pix[y*rowBytes:(y+1)*rowBytes])
	}
	return out
}

// alignUp rounds n up to a multiple of align.
func alignUp(n, align int) int {
	return ((n + align - 1) / align) * align
}

// writeRegion uploads tightly packed storage-format pixels into a region of level.
func (s *State) writeRegion(t *Texture, level, x, y, width, height int, pix []byte) error {
	rowBytes := width * bytesPerPixel(t.Format)
	if len(pix) != rowBytes*height {
		return fmt.Errorf("gpu: %d bytes for %dx%d region of %v", len(pix), width, height, t.Format)
	}
	stride := alignUp(rowBytes, s.config.RowAlignment)
	upload := padRows(pix, rowBytes, height, stride)

	s.Queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  t.Texture,
			MipLevel: uint32(level),
			Origin:   wgpu.Origin3D{X: uint32(x), Y: uint32(y), Z: 0},
			Aspect:   wgpu.TextureAspectAll,
		},
		upload,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(stride),
			RowsPerImage: uint32(height),
		},
		&wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
	)
	return nil
}
