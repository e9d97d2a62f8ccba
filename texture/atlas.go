package texture

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// atlasDoc is the TexturePacker JSON hash layout.
type atlasDoc struct {
	Frames map[string]atlasFrame `json:"frames"`
	Meta   struct {
		Size atlasSize `json:"size"`
	} `json:"meta"`
}

type atlasFrame struct {
	Frame            atlasRect `json:"frame"`
	Rotated          bool      `json:"rotated"`
	SpriteSourceSize atlasRect `json:"spriteSourceSize"`
	SourceSize       atlasSize `json:"sourceSize"`
}

type atlasRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type atlasSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Frame is one named region of an Atlas.
type Frame struct {
	Name       string
	X, Y, W, H int

	// UV is (u0, v0, u1, v1), as returned by Texture2D.RegionUV.
	UV mgl32.Vec4

	// Offset moves the trimmed frame's center back to the center of its
	// untrimmed source, in pixels.
	Offset mgl32.Vec2
}

// Atlas is a set of named frames packed into one texture.
type Atlas struct {
	Width, Height int
	Frames        []Frame // sorted by name

	index map[string]int
}

// ParseAtlas reads a TexturePacker "JSON (Hash)" document.
// Rotated frames are rejected.
func ParseAtlas(r io.Reader) (*Atlas, error) {
	var doc atlasDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("texture: parse atlas: %w", err)
	}
	w, h := doc.Meta.Size.W, doc.Meta.Size.H
	if w <= 0 || h <= 0 {
		return nil, errors.New("texture: atlas size must be non-zero")
	}

	names := make([]string, 0, len(doc.Frames))
	for name := range doc.Frames {
		names = append(names, name)
	}
	sort.Strings(names)

	a := &Atlas{
		Width:  w,
		Height: h,
		Frames: make([]Frame, len(names)),
		index:  make(map[string]int, len(names)),
	}
	for i, name := range names {
		fr := doc.Frames[name]
		if fr.Rotated {
			return nil, fmt.Errorf("texture: atlas frame %q is rotated", name)
		}
		rect := fr.Frame
		if rect.X < 0 || rect.Y < 0 || rect.W <= 0 || rect.H <= 0 || rect.X+rect.W > w || rect.Y+rect.H > h {
			return nil, fmt.Errorf("texture: atlas frame %q lies outside %dx%d", name, w, h)
		}

		sw, sh := fr.SourceSize.W, fr.SourceSize.H
		if sw == 0 && sh == 0 {
			sw, sh = rect.W, rect.H
		}
		ox, oy := fr.SpriteSourceSize.X, fr.SpriteSourceSize.Y

		a.Frames[i] = Frame{
			Name: name,
			X:    rect.X, Y: rect.Y, W: rect.W, H: rect.H,
			UV: mgl32.Vec4{
				float32(rect.X) / float32(w),
				float32(rect.Y) / float32(h),
				float32(rect.X+rect.W) / float32(w),
				float32(rect.Y+rect.H) / float32(h),
			},
			Offset: mgl32.Vec2{
				float32(ox) + float32(rect.W)*0.5 - float32(sw)*0.5,
				float32(oy) + float32(rect.H)*0.5 - float32(sh)*0.5,
			},
		}
		a.index[name] = i
	}
	return a, nil
}

// LoadAtlas parses the atlas document at path.
func LoadAtlas(path string) (*Atlas, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseAtlas(f)
}

// Frame returns the frame called name.
func (a *Atlas) Frame(name string) (Frame, bool) {
	i, ok := a.index[name]
	if !ok {
		return Frame{}, false
	}
	return a.Frames[i], true
}

// Fits reports an error if a texture of width x height cannot hold the atlas.
func (a *Atlas) Fits(width, height int) error {
	if width != a.Width || height != a.Height {
		return fmt.Errorf("texture: atlas is %dx%d, texture is %dx%d", a.Width, a.Height, width, height)
	}
	return nil
}
