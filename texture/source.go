package texture

import (
	"image"

	"github.com/mreinstein/texture2d/pixbuf"
)

// Source is the initial content of a texture passed to New.
// The set of sources is closed: Dimensions, Image, Pixels and File.
type Source interface {
	load(t *Texture2D) error
}

// Dimensions allocates uninitialized RGBA storage of the given size.
type Dimensions struct {
	Width, Height int
}

func (s Dimensions) load(t *Texture2D) error {
	return t.Resize(s.Width, s.Height)
}

// Image uploads a decoded image. FormatUndefined uploads RGBA.
type Image struct {
	Image  image.Image
	Format Format
}

func (s Image) load(t *Texture2D) error {
	return t.SetImage(s.Image, s.Format)
}

// Pixels uploads a strided pixel buffer. A defined Format overrides the
// classified one and must have the same channel count.
type Pixels struct {
	Buffer *pixbuf.Buffer
	Format Format
}

func (s Pixels) load(t *Texture2D) error {
	return t.SetPixelsAs(s.Buffer, s.Format)
}

// File decodes and uploads an image file.
type File struct {
	Path   string
	Format Format
}

func (s File) load(t *Texture2D) error {
	return t.LoadFile(s.Path, s.Format)
}
