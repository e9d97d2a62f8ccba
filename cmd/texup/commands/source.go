package commands

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mreinstein/texture2d/pixbuf"
	"github.com/mreinstein/texture2d/texture"
)

// input describes where pixels come from: an image file or URL, or a raw
// file of little-endian elements described by dtype, shape, stride and offset.
type input struct {
	raw    bool
	dtype  string
	shape  string
	stride string
	offset int
	format string
}

func (in *input) addFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVar(&in.raw, "raw", false, "read the argument as raw element data")
	f.StringVar(&in.dtype, "dtype", "uint8", "element type of raw data")
	f.StringVar(&in.shape, "shape", "", "comma separated shape of raw data, e.g. 2,3,4")
	f.StringVar(&in.stride, "stride", "", "comma separated strides in elements (default row-major)")
	f.IntVar(&in.offset, "offset", 0, "offset of the first element of raw data")
	f.StringVar(&in.format, "format", "", "image channel layout: luminance, alpha, luminance-alpha, rgb or rgba")
}

// load returns the pixel buffer of path and the format override it requests.
func (in *input) load(ctx context.Context, path string) (*pixbuf.Buffer, texture.Format, error) {
	format, err := texture.ParseFormat(in.format)
	if err != nil {
		return nil, 0, err
	}
	if in.raw {
		b, err := in.loadRaw(path)
		return b, format, err
	}

	img, err := decode(ctx, path)
	if err != nil {
		return nil, 0, err
	}
	return texture.ImageBuffer(img, format)
}

func (in *input) loadRaw(path string) (*pixbuf.Buffer, error) {
	dtype, err := pixbuf.ParseDType(in.dtype)
	if err != nil {
		return nil, err
	}
	shape, err := parseInts(in.shape)
	if err != nil {
		return nil, fmt.Errorf("--shape: %w", err)
	}
	if len(shape) == 0 {
		return nil, fmt.Errorf("--shape is required with --raw")
	}
	stride, err := parseInts(in.stride)
	if err != nil {
		return nil, fmt.Errorf("--stride: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return pixbuf.Decode(data, dtype, shape, stride, in.offset)
}

func decode(ctx context.Context, path string) (image.Image, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return texture.DecodeURL(ctx, http.DefaultClient, path)
	}
	return texture.DecodeFile(path)
}

// parseInts parses a comma separated list such as "16,4,1". Empty input yields nil.
func parseInts(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", p)
		}
		out[i] = n
	}
	return out, nil
}

type floatCaps bool

func (c floatCaps) FloatTextures() bool { return bool(c) }
