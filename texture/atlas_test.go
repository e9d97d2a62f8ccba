package texture

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const atlasJSON = `{
  "frames": {
    "walk-1": {
      "frame": {"x": 16, "y": 8, "w": 16, "h": 8},
      "rotated": false,
      "trimmed": true,
      "spriteSourceSize": {"x": 4, "y": 2, "w": 16, "h": 8},
      "sourceSize": {"w": 20, "h": 10}
    },
    "idle": {
      "frame": {"x": 0, "y": 0, "w": 16, "h": 16}
    }
  },
  "meta": {"size": {"w": 64, "h": 32}}
}`

func TestParseAtlas(t *testing.T) {
	a, err := ParseAtlas(strings.NewReader(atlasJSON))
	require.NoError(t, err)

	assert.Equal(t, 64, a.Width)
	assert.Equal(t, 32, a.Height)
	require.Len(t, a.Frames, 2)
	assert.Equal(t, "idle", a.Frames[0].Name)
	assert.Equal(t, "walk-1", a.Frames[1].Name)

	f, ok := a.Frame("walk-1")
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec4{0.25, 0.25, 0.5, 0.5}, f.UV)
	assert.Equal(t, mgl32.Vec2{2, 1}, f.Offset)

	idle, ok := a.Frame("idle")
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec2{0, 0}, idle.Offset)

	_, ok = a.Frame("run")
	assert.False(t, ok)

	assert.NoError(t, a.Fits(64, 32))
	assert.Error(t, a.Fits(32, 64))
}

func TestParseAtlasErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"syntax", `{"frames": `},
		{"no size", `{"frames": {}, "meta": {"size": {"w": 0, "h": 4}}}`},
		{"rotated", `{"frames": {"a": {"frame": {"x": 0, "y": 0, "w": 1, "h": 1}, "rotated": true}}, "meta": {"size": {"w": 4, "h": 4}}}`},
		{"outside", `{"frames": {"a": {"frame": {"x": 3, "y": 0, "w": 2, "h": 1}}}, "meta": {"size": {"w": 4, "h": 4}}}`},
		{"empty frame", `{"frames": {"a": {"frame": {"x": 0, "y": 0, "w": 0, "h": 1}}}, "meta": {"size": {"w": 4, "h": 4}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAtlas(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadAtlas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.json")
	require.NoError(t, os.WriteFile(path, []byte(atlasJSON), 0o644))

	a, err := LoadAtlas(path)
	require.NoError(t, err)
	assert.Len(t, a.Frames, 2)

	_, err = LoadAtlas(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
