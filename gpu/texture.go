package gpu

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/mreinstein/texture2d/texture"
)

// Backend errors.
var (
	ErrUnknownTexture = errors.New("gpu: unknown texture")
	ErrNotAllocated   = errors.New("gpu: texture storage not allocated")
	ErrLevelSize      = errors.New("gpu: level size does not match texture")
	ErrLayoutMismatch = errors.New("gpu: upload layout does not match texture")
)

type TextureDimensions struct {
	Width  int
	Height int
}

// Texture holds the WebGPU resources behind one texture handle.
type Texture struct {
	Label    string
	Size     TextureDimensions
	Format   wgpu.TextureFormat
	MipCount uint32
	Texture  *wgpu.Texture
	View     *wgpu.TextureView
	Sampler  *wgpu.Sampler

	sampler texture.Sampler
	layout  layout

	// base is a tightly packed copy of level 0 in Format, kept for GenerateMipmap.
	base []byte
}

// layout is the client side description of the texture's texels.
type layout struct {
	format texture.Format
	typ    texture.ElementType
}

// mipLevels returns the length of the full mip chain for a width x height texture.
func mipLevels(width, height int) uint32 {
	m := max(width, height, 1)
	return uint32(bits.Len(uint(m)))
}

// levelSize returns the size of mip level of a width x height texture.
func levelSize(width, height, level int) (int, int) {
	return max(width>>level, 1), max(height>>level, 1)
}

// allocate (re)creates the texture storage, its view and sampler.
func (s *State) allocate(t *Texture, width, height int, format wgpu.TextureFormat) error {
	t.release()

	t.Size = TextureDimensions{Width: width, Height: height}
	t.Format = format
	t.MipCount = mipLevels(width, height)

	texture.Logger().Debug("gpu: allocate texture",
		"label", t.Label, "width", width, "height", height, "mipCount", t.MipCount, "format", format)

	tex, err := s.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         t.Label,
		Size:          wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		Format:        format,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst | wgpu.TextureUsageCopySrc,
		MipLevelCount: t.MipCount,
		Dimension:     wgpu.TextureDimension2D,
		SampleCount:   1,
	})
	if err != nil {
		return err
	}
	t.Texture = tex

	view, err := tex.CreateView(nil)
	if err != nil {
		t.release()
		return err
	}
	t.View = view

	return s.createSampler(t)
}

// createSampler replaces the sampler of t to match its sampling state.
func (s *State) createSampler(t *Texture) error {
	if t.Sampler != nil {
		t.Sampler.Release()
		t.Sampler = nil
	}
	sampler, err := s.Device.CreateSampler(samplerDescriptor(t.Label+" sampler", t.sampler, t.MipCount))
	if err != nil {
		return err
	}
	t.Sampler = sampler
	return nil
}

func samplerDescriptor(label string, s texture.Sampler, mipCount uint32) *wgpu.SamplerDescriptor {
	desc := &wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  addressMode(s.WrapS),
		AddressModeV:  addressMode(s.WrapT),
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     filterMode(s.MagFilter),
		MinFilter:     filterMode(s.MinFilter),
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		MaxAnisotropy: 1,
		LodMinClamp:   0,
		LodMaxClamp:   0, // keeps it at base level
		Compare:       wgpu.CompareFunctionUndefined,
	}
	if s.MinFilter.Mipmapped() && mipCount > 1 {
		desc.LodMaxClamp = float32(mipCount - 1)
		if s.MinFilter == texture.FilterNearestMipmapLinear || s.MinFilter == texture.FilterLinearMipmapLinear {
			desc.MipmapFilter = wgpu.MipmapFilterModeLinear
		}
	}
	return desc
}

func addressMode(w texture.Wrap) wgpu.AddressMode {
	switch w {
	case texture.WrapClampToEdge:
		return wgpu.AddressModeClampToEdge
	case texture.WrapMirroredRepeat:
		return wgpu.AddressModeMirrorRepeat
	default:
		return wgpu.AddressModeRepeat
	}
}

// filterMode returns the texel filter of f, ignoring its mipmap part.
func filterMode(f texture.Filter) wgpu.FilterMode {
	switch f {
	case texture.FilterLinear, texture.FilterLinearMipmapNearest, texture.FilterLinearMipmapLinear:
		return wgpu.FilterModeLinear
	default:
		return wgpu.FilterModeNearest
	}
}

func (t *Texture) release() {
	if t.View != nil {
		t.View.Release()
		t.View = nil
	}
	if t.Texture != nil {
		t.Texture.Release()
		t.Texture = nil
	}
	if t.Sampler != nil {
		t.Sampler.Release()
		t.Sampler = nil
	}
	t.base = nil
}

func (t *Texture) checkLevel(level, width, height int) error {
	if t.Texture == nil {
		return ErrNotAllocated
	}
	if level < 0 || uint32(level) >= t.MipCount {
		return fmt.Errorf("%w: level %d of %d", ErrLevelSize, level, t.MipCount)
	}
	w, h := levelSize(t.Size.Width, t.Size.Height, level)
	if width != w || height != h {
		return fmt.Errorf("%w: level %d is %dx%d, got %dx%d", ErrLevelSize, level, w, h, width, height)
	}
	return nil
}
