// Package texture implements a 2D texture object over a graphics Context.
//
// Pixel data can come from decoded images, image files or URLs, or from
// n-dimensional pixel buffers (see package pixbuf). Buffer uploads infer their
// channel layout and element type from the buffer's shape and storage type, and
// strided buffers are repacked through pooled scratch memory before the
// context call.
//
// A Texture2D is not safe for concurrent use; uploads to a texture must be
// serialized by the caller, as must all calls on one Context.
package texture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mreinstein/texture2d/pixbuf"
)

// ErrDisposed is returned when operating on a disposed texture.
var ErrDisposed = errors.New("texture: disposed")

// Texture2D is a 2D texture resource with its sampling state.
type Texture2D struct {
	ctx     Context
	handle  Handle
	width   int
	height  int
	sampler Sampler

	disposed bool
}

// New creates a texture on ctx with nearest filtering and repeat wrapping,
// then loads src into it. A nil src leaves the texture empty (0x0).
func New(ctx Context, src Source) (*Texture2D, error) {
	h, err := ctx.CreateTexture()
	if err != nil {
		return nil, fmt.Errorf("texture: create: %w", err)
	}
	t := &Texture2D{ctx: ctx, handle: h}
	if err := ctx.SetSampler(h, t.sampler); err != nil {
		ctx.DeleteTexture(h)
		return nil, fmt.Errorf("texture: create: %w", err)
	}
	if src != nil {
		if err := src.load(t); err != nil {
			t.Dispose()
			return nil, err
		}
	}
	return t, nil
}

// Handle returns the context handle of the texture.
func (t *Texture2D) Handle() Handle {
	return t.handle
}

// Width returns the width of level 0 in pixels.
func (t *Texture2D) Width() int {
	return t.width
}

// Height returns the height of level 0 in pixels.
func (t *Texture2D) Height() int {
	return t.height
}

// Shape returns (width, height).
func (t *Texture2D) Shape() [2]int {
	return [2]int{t.width, t.height}
}

// Disposed reports whether Dispose has been called.
func (t *Texture2D) Disposed() bool {
	return t.disposed
}

func (t *Texture2D) MinFilter() Filter { return t.sampler.MinFilter }
func (t *Texture2D) MagFilter() Filter { return t.sampler.MagFilter }
func (t *Texture2D) WrapS() Wrap       { return t.sampler.WrapS }
func (t *Texture2D) WrapT() Wrap       { return t.sampler.WrapT }
func (t *Texture2D) Sampler() Sampler  { return t.sampler }

// SetSampler replaces all sampling parameters. It issues a context call on
// the texture's handle; the stored value only changes if that call succeeds.
func (t *Texture2D) SetSampler(s Sampler) error {
	if t.disposed {
		return ErrDisposed
	}
	if err := t.ctx.SetSampler(t.handle, s); err != nil {
		return fmt.Errorf("texture: set sampler: %w", err)
	}
	Logger().Debug("texture: sampler",
		"handle", t.handle, "min", s.MinFilter, "mag", s.MagFilter, "wrapS", s.WrapS, "wrapT", s.WrapT)
	t.sampler = s
	return nil
}

// SetMinFilter changes the minification filter (a context call, see SetSampler).
func (t *Texture2D) SetMinFilter(f Filter) error {
	s := t.sampler
	s.MinFilter = f
	return t.SetSampler(s)
}

// SetMagFilter changes the magnification filter (a context call, see SetSampler).
func (t *Texture2D) SetMagFilter(f Filter) error {
	s := t.sampler
	s.MagFilter = f
	return t.SetSampler(s)
}

// SetWrapS changes horizontal wrapping (a context call, see SetSampler).
func (t *Texture2D) SetWrapS(w Wrap) error {
	s := t.sampler
	s.WrapS = w
	return t.SetSampler(s)
}

// SetWrapT changes vertical wrapping (a context call, see SetSampler).
func (t *Texture2D) SetWrapT(w Wrap) error {
	s := t.sampler
	s.WrapT = w
	return t.SetSampler(s)
}

// Bind attaches the texture to a sampling unit.
func (t *Texture2D) Bind(unit int) error {
	if t.disposed {
		return ErrDisposed
	}
	t.ctx.BindTexture(unit, t.handle)
	return nil
}

// Dispose deletes the context resource. Further calls are no-ops.
func (t *Texture2D) Dispose() {
	if t.disposed {
		return
	}
	t.ctx.DeleteTexture(t.handle)
	t.disposed = true
}

// GenerateMipmap fills every mip level below 0 from level 0.
func (t *Texture2D) GenerateMipmap() error {
	if t.disposed {
		return ErrDisposed
	}
	if err := t.ctx.GenerateMipmap(t.handle); err != nil {
		return fmt.Errorf("texture: generate mipmap: %w", err)
	}
	return nil
}

// Resize reallocates level 0 as uninitialized RGBA storage.
func (t *Texture2D) Resize(width, height int) error {
	if t.disposed {
		return ErrDisposed
	}
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidShape, width, height)
	}
	if err := t.ctx.TexImage2D(t.handle, 0, FormatRGBA, TypeUnsignedByte, width, height, nil); err != nil {
		return fmt.Errorf("texture: resize: %w", err)
	}
	t.width, t.height = width, height
	return nil
}

// SetPixels replaces level 0 with the contents of b and adopts its size.
func (t *Texture2D) SetPixels(b *pixbuf.Buffer) error {
	return t.upload(b, FormatUndefined, 0, false, 0, 0)
}

// SetPixelsAs is SetPixels with the upload format forced to format, e.g.
// Alpha for a single channel buffer. FormatUndefined behaves as SetPixels.
func (t *Texture2D) SetPixelsAs(b *pixbuf.Buffer, format Format) error {
	return t.upload(b, format, 0, false, 0, 0)
}

// SetLevel replaces mip level with the contents of b.
func (t *Texture2D) SetLevel(b *pixbuf.Buffer, level int) error {
	return t.upload(b, FormatUndefined, level, false, 0, 0)
}

// Blit overwrites the region of level starting at (x, y) with b.
// The offset is passed to the context unchecked.
func (t *Texture2D) Blit(b *pixbuf.Buffer, x, y, level int) error {
	return t.upload(b, FormatUndefined, level, true, x, y)
}

// SetImage replaces level 0 with img stored in format (RGBA if undefined).
func (t *Texture2D) SetImage(img image.Image, format Format) error {
	b, f, err := ImageBuffer(img, format)
	if err != nil {
		return err
	}
	return t.upload(b, f, 0, false, 0, 0)
}

// LoadFile decodes the image at path and uploads it (see SetImage).
func (t *Texture2D) LoadFile(path string, format Format) error {
	img, err := DecodeFile(path)
	if err != nil {
		return err
	}
	return t.SetImage(img, format)
}

// LoadURL fetches an image with http.DefaultClient and uploads it (see SetImage).
func (t *Texture2D) LoadURL(ctx context.Context, url string, format Format) error {
	return t.LoadURLWithClient(ctx, http.DefaultClient, url, format)
}

// LoadURLWithClient is LoadURL with a caller supplied client.
func (t *Texture2D) LoadURLWithClient(ctx context.Context, client *http.Client, url string, format Format) error {
	img, err := DecodeURL(ctx, client, url)
	if err != nil {
		return err
	}
	return t.SetImage(img, format)
}

// TexelSize returns the size of one texel in texture coordinates.
func (t *Texture2D) TexelSize() mgl32.Vec2 {
	if t.width == 0 || t.height == 0 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{1 / float32(t.width), 1 / float32(t.height)}
}

// RegionUV returns the texture coordinates (u0, v0, u1, v1) of the pixel
// rectangle at (x, y) with size w x h.
func (t *Texture2D) RegionUV(x, y, w, h int) mgl32.Vec4 {
	ts := t.TexelSize()
	return mgl32.Vec4{
		float32(x) * ts.X(),
		float32(y) * ts.Y(),
		float32(x+w) * ts.X(),
		float32(y+h) * ts.Y(),
	}
}

func (t *Texture2D) upload(b *pixbuf.Buffer, format Format, level int, sub bool, x, y int) error {
	if t.disposed {
		return ErrDisposed
	}
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidShape)
	}
	d, err := PrepareUpload(b, t.ctx)
	if err != nil {
		return err
	}
	defer d.Release()

	switch {
	case format == FormatUndefined:
		format = d.Format
	case format.Channels() != d.Format.Channels():
		return fmt.Errorf("%w: %s buffer uploaded as %s", ErrUnsupportedFormat, d.Format, format)
	}
	pix := d.Bytes()
	if sub {
		err = t.ctx.TexSubImage2D(t.handle, level, x, y, format, d.Type, d.Width, d.Height, pix)
	} else {
		err = t.ctx.TexImage2D(t.handle, level, format, d.Type, d.Width, d.Height, pix)
	}
	if err != nil {
		return fmt.Errorf("texture: upload: %w", err)
	}
	Logger().Debug("texture: upload",
		"handle", t.handle, "level", level, "sub", sub,
		"format", format, "type", d.Type, "width", d.Width, "height", d.Height, "copied", d.Copied)

	if !sub && level == 0 {
		t.width, t.height = d.Width, d.Height
	}
	return nil
}
