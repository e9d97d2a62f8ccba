package texture

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/mreinstein/texture2d/pixbuf"
)

// ImageBuffer returns a pixel buffer viewing img in the channel layout of
// format, together with the format the upload should use.
//
// The image is converted to non-premultiplied RGBA (an *image.NRGBA is used
// as is) and the requested channels are selected through strides, so padded
// rows and dropped channels are handled by the regular repack path.
func ImageBuffer(img image.Image, format Format) (*pixbuf.Buffer, Format, error) {
	if img == nil {
		return nil, 0, errors.New("texture: nil image")
	}
	r := img.Bounds()
	w, h := r.Dx(), r.Dy()
	if w == 0 || h == 0 {
		return nil, 0, errors.New("texture: empty image")
	}

	switch format {
	case FormatUndefined, FormatRGBA:
		n, off := nrgba(img)
		return pixbuf.New(n.Pix, []int{h, w, 4}, []int{n.Stride, 4, 1}, off), FormatRGBA, nil
	case FormatRGB:
		n, off := nrgba(img)
		return pixbuf.New(n.Pix, []int{h, w, 3}, []int{n.Stride, 4, 1}, off), FormatRGB, nil
	case FormatAlpha:
		n, off := nrgba(img)
		return pixbuf.New(n.Pix, []int{h, w, 1}, []int{n.Stride, 4, 1}, off+3), FormatAlpha, nil
	case FormatLuminance:
		g := imaging.Grayscale(img)
		return pixbuf.New(g.Pix, []int{h, w}, []int{g.Stride, 4}, 0), FormatLuminance, nil
	case FormatLuminanceAlpha:
		// Luma sits in R, alpha three bytes later.
		g := imaging.Grayscale(img)
		return pixbuf.New(g.Pix, []int{h, w, 2}, []int{g.Stride, 4, 3}, 0), FormatLuminanceAlpha, nil
	}
	return nil, 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// nrgba returns img as an *image.NRGBA and the offset of its first pixel.
func nrgba(img image.Image) (*image.NRGBA, int) {
	if n, ok := img.(*image.NRGBA); ok {
		return n, n.PixOffset(n.Rect.Min.X, n.Rect.Min.Y)
	}
	return imaging.Clone(img), 0
}

// DecodeFile opens and decodes an image file, applying its EXIF orientation.
func DecodeFile(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return img, nil
}

// DecodeURL fetches and decodes an image over HTTP.
func DecodeURL(ctx context.Context, client *http.Client, url string) (image.Image, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("texture: fetch %s: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("texture: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("texture: fetch %s: %s", url, resp.Status)
	}
	img, err := imaging.Decode(resp.Body, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", url, err)
	}
	return img, nil
}
