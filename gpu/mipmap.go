package gpu

import (
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/disintegration/imaging"
)

// downsample returns the next mip level of a width x height image stored as format.
func downsample(format wgpu.TextureFormat, pix []byte, width, height int) ([]byte, int, int, error) {
	w, h := levelSize(width, height, 1)
	switch format {
	case wgpu.TextureFormatR8Unorm, wgpu.TextureFormatRG8Unorm, wgpu.TextureFormatRGBA8Unorm:
		channels := bytesPerPixel(format)
		src := toNRGBA(pix, width, height, channels)
		dst := imaging.Resize(src, w, h, imaging.Box)
		return fromNRGBA(dst, channels), w, h, nil
	case wgpu.TextureFormatR32Float, wgpu.TextureFormatRG32Float, wgpu.TextureFormatRGBA32Float:
		return boxFloat(pix, width, height, bytesPerPixel(format)/4), w, h, nil
	}
	return nil, 0, 0, fmt.Errorf("gpu: cannot generate mipmaps for %v", format)
}

// toNRGBA spreads 1, 2 or 4 channel bytes over an opaque NRGBA image so the
// channels filter independently. RGBA input is copied as is.
func toNRGBA(pix []byte, width, height, channels int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	if channels == 4 {
		copy(img.Pix, pix)
		return img
	}
	for i := 0; i < width*height; i++ {
		for c := 0; c < channels; c++ {
			img.Pix[i*4+c] = pix[i*channels+c]
		}
		img.Pix[i*4+3] = 255
	}
	return img
}

func fromNRGBA(img *image.NRGBA, channels int) []byte {
	if channels == 4 {
		return img.Pix
	}
	n := img.Rect.Dx() * img.Rect.Dy()
	out := make([]byte, n*channels)
	for i := 0; i < n; i++ {
		copy(out[i*channels:(i+1)*channels], img.Pix[i*4:i*4+channels])
	}
	return out
}

// boxFloat averages 2x2 blocks of float32 texels, clamping at odd edges.
func boxFloat(pix []byte, width, height, channels int) []byte {
	w, h := levelSize(width, height, 1)
	out := make([]byte, w*h*channels*4)
	for y := 0; y < h; y++ {
		y0, y1 := min(2*y, height-1), min(2*y+1, height-1)
		for x := 0; x < w; x++ {
			x0, x1 := min(2*x, width-1), min(2*x+1, width-1)
			for c := 0; c < channels; c++ {
				at := func(px, py int) float32 {
					return getF32(pix, ((py*width+px)*channels+c)*4)
				}
				v := (at(x0, y0) + at(x1, y0) + at(x0, y1) + at(x1, y1)) / 4
				putF32(out, ((y*w+x)*channels+c)*4, v)
			}
		}
	}
	return out
}
