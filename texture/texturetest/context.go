// Package texturetest provides an in-memory texture.Context that records
// every call, for testing code built on package texture without a GPU.
package texturetest

import (
	"fmt"

	"github.com/mreinstein/texture2d/texture"
)

// Call is one recorded context call.
type Call struct {
	Op      string
	Handle  texture.Handle
	Unit    int
	Level   int
	X, Y    int
	Width   int
	Height  int
	Format  texture.Format
	Type    texture.ElementType
	Sampler texture.Sampler

	// Pixels is a copy of the uploaded bytes; nil for allocations.
	Pixels []byte
}

// Level is the recorded state of one mip level.
type Level struct {
	Width, Height int
	Format        texture.Format
	Type          texture.ElementType
	Pixels        []byte
}

// Texture is the recorded state of one texture.
type Texture struct {
	Sampler  texture.Sampler
	Levels   map[int]*Level
	Mipmaps  bool
	Released bool
}

// Context implements texture.Context in memory.
//
// Set Fail[op] to make the named operation ("CreateTexture", "TexImage2D",
// "TexSubImage2D", "SetSampler", "GenerateMipmap") return an error.
type Context struct {
	Float    bool
	Fail     map[string]error
	Calls    []Call
	Textures map[texture.Handle]*Texture
	Units    map[int]texture.Handle

	// FloatQueries counts FloatTextures calls.
	FloatQueries int

	next texture.Handle
}

var _ texture.Context = (*Context)(nil)

// New returns an empty recording context.
func New(float bool) *Context {
	return &Context{
		Float:    float,
		Fail:     make(map[string]error),
		Textures: make(map[texture.Handle]*Texture),
		Units:    make(map[int]texture.Handle),
	}
}

func (c *Context) record(call Call) error {
	c.Calls = append(c.Calls, call)
	return c.Fail[call.Op]
}

func (c *Context) lookup(h texture.Handle) (*Texture, error) {
	t, ok := c.Textures[h]
	if !ok || t.Released {
		return nil, fmt.Errorf("texturetest: unknown texture %d", h)
	}
	return t, nil
}

// Ops returns the names of the recorded calls in order.
func (c *Context) Ops() []string {
	ops := make([]string, len(c.Calls))
	for i, call := range c.Calls {
		ops[i] = call.Op
	}
	return ops
}

// Last returns the most recent call named op.
func (c *Context) Last(op string) (Call, bool) {
	for i := len(c.Calls) - 1; i >= 0; i-- {
		if c.Calls[i].Op == op {
			return c.Calls[i], true
		}
	}
	return Call{}, false
}

func (c *Context) FloatTextures() bool {
	c.FloatQueries++
	return c.Float
}

func (c *Context) CreateTexture() (texture.Handle, error) {
	if err := c.record(Call{Op: "CreateTexture"}); err != nil {
		return 0, err
	}
	c.next++
	c.Textures[c.next] = &Texture{Levels: make(map[int]*Level)}
	return c.next, nil
}

func (c *Context) DeleteTexture(h texture.Handle) {
	c.record(Call{Op: "DeleteTexture", Handle: h})
	if t, ok := c.Textures[h]; ok {
		t.Released = true
	}
}

func (c *Context) BindTexture(unit int, h texture.Handle) {
	c.record(Call{Op: "BindTexture", Handle: h, Unit: unit})
	c.Units[unit] = h
}

func (c *Context) SetSampler(h texture.Handle, s texture.Sampler) error {
	if err := c.record(Call{Op: "SetSampler", Handle: h, Sampler: s}); err != nil {
		return err
	}
	t, err := c.lookup(h)
	if err != nil {
		return err
	}
	t.Sampler = s
	return nil
}

func (c *Context) TexImage2D(h texture.Handle, level int, f texture.Format, typ texture.ElementType, width, height int, pixels []byte) error {
	call := Call{Op: "TexImage2D", Handle: h, Level: level, Format: f, Type: typ, Width: width, Height: height, Pixels: clone(pixels)}
	if err := c.record(call); err != nil {
		return err
	}
	t, err := c.lookup(h)
	if err != nil {
		return err
	}
	size := width * height * typ.BytesPerPixel(f)
	if pixels != nil && len(pixels) != size {
		return fmt.Errorf("texturetest: %d bytes for %dx%d %s/%s", len(pixels), width, height, f, typ)
	}
	l := &Level{Width: width, Height: height, Format: f, Type: typ, Pixels: clone(pixels)}
	if l.Pixels == nil {
		l.Pixels = make([]byte, size)
	}
	if level == 0 {
		t.Levels = make(map[int]*Level)
		t.Mipmaps = false
	}
	t.Levels[level] = l
	return nil
}

func (c *Context) TexSubImage2D(h texture.Handle, level, x, y int, f texture.Format, typ texture.ElementType, width, height int, pixels []byte) error {
	call := Call{Op: "TexSubImage2D", Handle: h, Level: level, X: x, Y: y, Format: f, Type: typ, Width: width, Height: height, Pixels: clone(pixels)}
	if err := c.record(call); err != nil {
		return err
	}
	t, err := c.lookup(h)
	if err != nil {
		return err
	}
	l, ok := t.Levels[level]
	if !ok {
		return fmt.Errorf("texturetest: level %d not allocated", level)
	}
	if f != l.Format || typ != l.Type {
		return fmt.Errorf("texturetest: %s/%s region in %s/%s level", f, typ, l.Format, l.Type)
	}
	if x < 0 || y < 0 || x+width > l.Width || y+height > l.Height {
		return fmt.Errorf("texturetest: region %dx%d at (%d,%d) outside %dx%d", width, height, x, y, l.Width, l.Height)
	}
	bpp := typ.BytesPerPixel(f)
	row := width * bpp
	for r := 0; r < height; r++ {
		dst := ((y+r)*l.Width + x) * bpp
		copy(l.Pixels[dst:dst+row], pixels[r*row:(r+1)*row])
	}
	return nil
}

func (c *Context) GenerateMipmap(h texture.Handle) error {
	if err := c.record(Call{Op: "GenerateMipmap", Handle: h}); err != nil {
		return err
	}
	t, err := c.lookup(h)
	if err != nil {
		return err
	}
	if _, ok := t.Levels[0]; !ok {
		return fmt.Errorf("texturetest: level 0 not allocated")
	}
	t.Mipmaps = true
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte{}, b...)
}
