package gpu

import (
	"fmt"

	"github.com/mreinstein/texture2d/texture"
)

func (s *State) lookup(h texture.Handle) (*Texture, error) {
	t, ok := s.textures[h]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTexture, h)
	}
	return t, nil
}

// FloatTextures reports Config.FloatTextures.
func (s *State) FloatTextures() bool {
	return s.config.FloatTextures
}

// CreateTexture registers a texture. Its storage is allocated by the first
// level-0 TexImage2D.
func (s *State) CreateTexture() (texture.Handle, error) {
	s.next++
	h := s.next
	s.textures[h] = &Texture{Label: fmt.Sprintf("texture %d", h)}
	return h, nil
}

func (s *State) DeleteTexture(h texture.Handle) {
	t, ok := s.textures[h]
	if !ok {
		return
	}
	t.release()
	delete(s.textures, h)
	for unit, bound := range s.units {
		if bound == h {
			delete(s.units, unit)
		}
	}
}

// BindTexture records h as the texture of unit; see Bound.
func (s *State) BindTexture(unit int, h texture.Handle) {
	s.units[unit] = h
}

// SetSampler stores the sampling state of h and recreates its sampler.
func (s *State) SetSampler(h texture.Handle, sampler texture.Sampler) error {
	t, err := s.lookup(h)
	if err != nil {
		return err
	}
	t.sampler = sampler
	return s.createSampler(t)
}

func (s *State) TexImage2D(h texture.Handle, level int, f texture.Format, typ texture.ElementType, width, height int, pixels []byte) error {
	t, err := s.lookup(h)
	if err != nil {
		return err
	}
	format, err := textureFormat(f, typ)
	if err != nil {
		return err
	}
	l := layout{format: f, typ: typ}

	if level == 0 {
		if t.Texture == nil || t.Format != format || t.Size.Width != width || t.Size.Height != height {
			if err := s.allocate(t, width, height, format); err != nil {
				return err
			}
		}
		t.layout = l
		if pixels == nil {
			t.base = make([]byte, width*height*bytesPerPixel(format))
			return nil
		}
		data := expand(f, typ, pixels)
		if err := s.writeRegion(t, 0, 0, 0, width, height, data); err != nil {
			return err
		}
		t.base = append(t.base[:0], data...)
		return nil
	}

	if t.layout != l {
		return fmt.Errorf("%w: %s/%s into %s/%s", ErrLayoutMismatch, f, typ, t.layout.format, t.layout.typ)
	}
	if err := t.checkLevel(level, width, height); err != nil {
		return err
	}
	if pixels == nil {
		return nil
	}
	return s.writeRegion(t, level, 0, 0, width, height, expand(f, typ, pixels))
}

func (s *State) TexSubImage2D(h texture.Handle, level, x, y int, f texture.Format, typ texture.ElementType, width, height int, pixels []byte) error {
	t, err := s.lookup(h)
	if err != nil {
		return err
	}
	if t.Texture == nil {
		return ErrNotAllocated
	}
	if t.layout != (layout{format: f, typ: typ}) {
		return fmt.Errorf("%w: %s/%s into %s/%s", ErrLayoutMismatch, f, typ, t.layout.format, t.layout.typ)
	}
	if level < 0 || uint32(level) >= t.MipCount {
		return fmt.Errorf("%w: level %d of %d", ErrLevelSize, level, t.MipCount)
	}
	lw, lh := levelSize(t.Size.Width, t.Size.Height, level)
	if x < 0 || y < 0 || x+width > lw || y+height > lh {
		return fmt.Errorf("%w: %dx%d region at (%d,%d) of level %d", ErrLevelSize, width, height, x, y, level)
	}

	data := expand(f, typ, pixels)
	if err := s.writeRegion(t, level, x, y, width, height, data); err != nil {
		return err
	}
	if level == 0 && t.base != nil {
		bpp := bytesPerPixel(t.Format)
		row := width * bpp
		for r := 0; r < height; r++ {
			dst := ((y+r)*t.Size.Width + x) * bpp
			copy(t.base[dst:dst+row], data[r*row:(r+1)*row])
		}
	}
	return nil
}

// GenerateMipmap downsamples level 0 on the CPU and uploads every level.
func (s *State) GenerateMipmap(h texture.Handle) error {
	t, err := s.lookup(h)
	if err != nil {
		return err
	}
	if t.Texture == nil || t.base == nil {
		return ErrNotAllocated
	}
	pix, w, hgt := t.base, t.Size.Width, t.Size.Height
	for level := 1; level < int(t.MipCount); level++ {
		pix, w, hgt, err = downsample(t.Format, pix, w, hgt)
		if err != nil {
			return err
		}
		if err := s.writeRegion(t, level, 0, 0, w, hgt, pix); err != nil {
			return err
		}
	}
	texture.Logger().Debug("gpu: mipmaps generated", "label", t.Label, "levels", t.MipCount)
	return nil
}
