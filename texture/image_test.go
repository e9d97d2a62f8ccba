package texture_test

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mreinstein/texture2d/texture"
	"github.com/mreinstein/texture2d/texture/texturetest"
)

// testImage returns a 3x2 NRGBA image whose pixel (x, y) has
// R = 10*x+y, G = R+1, B = R+2 and A = 200+x.
func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			v := uint8(10*x + y)
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v + 1, B: v + 2, A: uint8(200 + x)})
		}
	}
	return img
}

func TestImageBufferLayouts(t *testing.T) {
	img := testImage()
	tests := []struct {
		format   texture.Format
		want     texture.Format
		channels int
		first    []uint8
	}{
		{texture.FormatUndefined, texture.FormatRGBA, 4, []uint8{0, 1, 2, 200}},
		{texture.FormatRGBA, texture.FormatRGBA, 4, []uint8{0, 1, 2, 200}},
		{texture.FormatRGB, texture.FormatRGB, 3, []uint8{0, 1, 2}},
		{texture.FormatAlpha, texture.FormatAlpha, 1, []uint8{200}},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			b, f, err := texture.ImageBuffer(img, tt.format)
			require.NoError(t, err)
			require.NoError(t, b.Validate())
			assert.Equal(t, tt.want, f)
			assert.Equal(t, []int{2, 3, tt.channels}, b.Shape)

			ctx := texturetest.New(false)
			tex, err := texture.New(ctx, texture.Image{Image: img, Format: tt.format})
			require.NoError(t, err)
			assert.Equal(t, [2]int{3, 2}, tex.Shape())

			call, _ := ctx.Last("TexImage2D")
			assert.Equal(t, tt.want, call.Format)
			require.Len(t, call.Pixels, 6*tt.channels)
			assert.Equal(t, tt.first, call.Pixels[:tt.channels])
		})
	}
}

func TestImageBufferGray(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 0, G: 0, B: 0, A: 77})

	b, f, err := texture.ImageBuffer(img, texture.FormatLuminance)
	require.NoError(t, err)
	assert.Equal(t, texture.FormatLuminance, f)
	assert.Equal(t, []int{1, 2}, b.Shape)

	ctx := texturetest.New(false)
	tex, err := texture.New(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, tex.SetImage(img, texture.FormatLuminance))
	call, _ := ctx.Last("TexImage2D")
	assert.Equal(t, []uint8{255, 0}, call.Pixels)

	require.NoError(t, tex.SetImage(img, texture.FormatLuminanceAlpha))
	call, _ = ctx.Last("TexImage2D")
	assert.Equal(t, texture.FormatLuminanceAlpha, call.Format)
	assert.Equal(t, []uint8{255, 255, 0, 77}, call.Pixels)
}

func TestImageBufferSubImage(t *testing.T) {
	img := testImage()
	sub := img.SubImage(image.Rect(1, 0, 3, 2)).(*image.NRGBA)

	b, _, err := texture.ImageBuffer(sub, texture.FormatRGBA)
	require.NoError(t, err)
	assert.False(t, b.IsContiguous())

	ctx := texturetest.New(false)
	_, err = texture.New(ctx, texture.Image{Image: sub})
	require.NoError(t, err)
	call, _ := ctx.Last("TexImage2D")
	assert.Equal(t, 2, call.Width)
	assert.Equal(t, 2, call.Height)
	assert.Equal(t, []uint8{10, 11, 12, 201}, call.Pixels[:4])
	assert.Equal(t, []uint8{21, 22, 23, 202}, call.Pixels[12:16])
}

func TestImageBufferConvertsOtherModels(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.SetGray(1, 1, color.Gray{Y: 90})

	b, f, err := texture.ImageBuffer(img, texture.FormatUndefined)
	require.NoError(t, err)
	assert.Equal(t, texture.FormatRGBA, f)
	assert.True(t, b.IsContiguous())
	assert.Equal(t, []int{2, 2, 4}, b.Shape)
}

func TestImageBufferErrors(t *testing.T) {
	_, _, err := texture.ImageBuffer(nil, texture.FormatRGBA)
	assert.Error(t, err)
	_, _, err = texture.ImageBuffer(image.NewNRGBA(image.Rect(0, 0, 0, 4)), texture.FormatRGBA)
	assert.Error(t, err)
	_, _, err = texture.ImageBuffer(testImage(), texture.Format(99))
	assert.ErrorIs(t, err, texture.ErrUnsupportedFormat)
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tex.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writePNG(t, testImage())
	ctx := texturetest.New(false)
	tex, err := texture.New(ctx, texture.File{Path: path, Format: texture.FormatRGB})
	require.NoError(t, err)
	assert.Equal(t, [2]int{3, 2}, tex.Shape())

	call, _ := ctx.Last("TexImage2D")
	assert.Equal(t, texture.FormatRGB, call.Format)
	assert.Equal(t, []uint8{0, 1, 2, 10, 11, 12}, call.Pixels[:6])

	err = tex.LoadFile(filepath.Join(t.TempDir(), "missing.png"), texture.FormatRGBA)
	assert.Error(t, err)
}

func TestLoadURL(t *testing.T) {
	path := writePNG(t, testImage())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tex.png" {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, path)
	}))
	defer srv.Close()

	ctx := texturetest.New(false)
	tex, err := texture.New(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, tex.LoadURLWithClient(context.Background(), srv.Client(), srv.URL+"/tex.png", texture.FormatAlpha))
	assert.Equal(t, [2]int{3, 2}, tex.Shape())
	call, _ := ctx.Last("TexImage2D")
	assert.Equal(t, []uint8{200, 201, 202, 200, 201, 202}, call.Pixels)

	err = tex.LoadURL(context.Background(), srv.URL+"/missing.png", texture.FormatRGBA)
	assert.Error(t, err)
}
