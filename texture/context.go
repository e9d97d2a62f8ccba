package texture

import "fmt"

// Handle identifies a texture resource owned by a Context.
type Handle uint32

// Context is the graphics API a Texture2D forwards to.
//
// Every call names the texture it affects; implementations must not rely on
// a previously bound texture. BindTexture only attaches a texture to a
// sampling unit for later draws.
type Context interface {
	Capabilities

	CreateTexture() (Handle, error)
	DeleteTexture(h Handle)
	BindTexture(unit int, h Handle)
	SetSampler(h Handle, s Sampler) error

	// TexImage2D (re)allocates level of h with the given size and fills it
	// from pixels. A nil pixels slice allocates uninitialized storage.
	TexImage2D(h Handle, level int, f Format, t ElementType, width, height int, pixels []byte) error

	// TexSubImage2D overwrites the width x height region at (x, y) of level.
	TexSubImage2D(h Handle, level, x, y int, f Format, t ElementType, width, height int, pixels []byte) error

	GenerateMipmap(h Handle) error
}

// Filter selects how texels are sampled.
type Filter uint8

const (
	FilterNearest Filter = iota
	FilterLinear
	FilterNearestMipmapNearest
	FilterLinearMipmapNearest
	FilterNearestMipmapLinear
	FilterLinearMipmapLinear
)

var filterNames = []string{
	FilterNearest:              "nearest",
	FilterLinear:               "linear",
	FilterNearestMipmapNearest: "nearest-mipmap-nearest",
	FilterLinearMipmapNearest:  "linear-mipmap-nearest",
	FilterNearestMipmapLinear:  "nearest-mipmap-linear",
	FilterLinearMipmapLinear:   "linear-mipmap-linear",
}

func (f Filter) String() string {
	if int(f) < len(filterNames) {
		return filterNames[f]
	}
	return fmt.Sprintf("Filter(%d)", f)
}

// Mipmapped reports whether the filter samples between mip levels.
func (f Filter) Mipmapped() bool {
	return f >= FilterNearestMipmapNearest && f <= FilterLinearMipmapLinear
}

// ParseFilter maps a name such as "linear" to a Filter.
func ParseFilter(s string) (Filter, error) {
	for i, name := range filterNames {
		if name == s {
			return Filter(i), nil
		}
	}
	return 0, fmt.Errorf("texture: unknown filter %q", s)
}

// Wrap selects how coordinates outside [0, 1] are resolved.
type Wrap uint8

const (
	WrapRepeat Wrap = iota
	WrapClampToEdge
	WrapMirroredRepeat
)

var wrapNames = []string{
	WrapRepeat:         "repeat",
	WrapClampToEdge:    "clamp-to-edge",
	WrapMirroredRepeat: "mirrored-repeat",
}

func (w Wrap) String() string {
	if int(w) < len(wrapNames) {
		return wrapNames[w]
	}
	return fmt.Sprintf("Wrap(%d)", w)
}

// ParseWrap maps a name such as "clamp-to-edge" to a Wrap.
func ParseWrap(s string) (Wrap, error) {
	for i, name := range wrapNames {
		if name == s {
			return Wrap(i), nil
		}
	}
	return 0, fmt.Errorf("texture: unknown wrap mode %q", s)
}

// Sampler holds the sampling parameters of a texture.
// The zero value is nearest filtering with repeat wrapping.
type Sampler struct {
	MinFilter Filter
	MagFilter Filter
	WrapS     Wrap
	WrapT     Wrap
}
