package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mreinstein/texture2d/pixbuf"
	"github.com/mreinstein/texture2d/texture"
)

func newInspectCmd(o *options) *cobra.Command {
	in := &input{}
	var atlasPath string
	cmd := &cobra.Command{
		Use:   "inspect <image|url|raw-file>",
		Short: "Show how a pixel buffer would be uploaded",
		Example: `  texup inspect photo.png --format luminance
  texup inspect sheet.png --atlas sheet.json
  texup inspect pixels.bin --raw --dtype uint8 --shape 2,3,4 --stride 16,4,1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, format, err := in.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			r, err := inspect(b, format, o.cfg.GPU.FloatTextures)
			if err != nil {
				return err
			}
			r.print(cmd.OutOrStdout())

			if atlasPath == "" {
				return nil
			}
			a, err := texture.LoadAtlas(atlasPath)
			if err != nil {
				return err
			}
			if err := a.Fits(r.Width, r.Height); err != nil {
				return err
			}
			printAtlas(cmd.OutOrStdout(), a)
			return nil
		},
	}
	in.addFlags(cmd)
	cmd.Flags().StringVar(&atlasPath, "atlas", "", "TexturePacker JSON describing frames packed into the image")
	return cmd
}

// report summarizes a prepared upload.
type report struct {
	Buffer     string
	Format     texture.Format
	Type       texture.ElementType
	Width      int
	Height     int
	Contiguous bool
	Copied     bool
	Bytes      int
	Checksum   uint64
}

func inspect(b *pixbuf.Buffer, format texture.Format, float bool) (report, error) {
	d, err := texture.PrepareUpload(b, floatCaps(float))
	if err != nil {
		return report{}, err
	}
	defer d.Release()

	switch {
	case format == texture.FormatUndefined:
		format = d.Format
	case format.Channels() != d.Format.Channels():
		return report{}, fmt.Errorf("%w: %s buffer uploaded as %s", texture.ErrUnsupportedFormat, d.Format, format)
	}
	return report{
		Buffer:     b.String(),
		Format:     format,
		Type:       d.Type,
		Width:      d.Width,
		Height:     d.Height,
		Contiguous: b.IsContiguous(),
		Copied:     d.Copied,
		Bytes:      len(d.Bytes()),
		Checksum:   d.Checksum(),
	}, nil
}

func (r report) print(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Buffer:      %s\n", r.Buffer)
	fmt.Fprintf(w, "  Format:      %s\n", r.Format)
	fmt.Fprintf(w, "  Type:        %s\n", r.Type)
	fmt.Fprintf(w, "  Size:        %dx%d\n", r.Width, r.Height)
	fmt.Fprintf(w, "  Contiguous:  %t\n", r.Contiguous)
	fmt.Fprintf(w, "  Copied:      %t\n", r.Copied)
	fmt.Fprintf(w, "  Bytes:       %s\n", formatBytes(int64(r.Bytes)))
	fmt.Fprintf(w, "  Checksum:    %016x\n", r.Checksum)
	fmt.Fprintln(w)
}

func printAtlas(w io.Writer, a *texture.Atlas) {
	fmt.Fprintf(w, "  Atlas:       %d frames\n", len(a.Frames))
	for _, f := range a.Frames {
		fmt.Fprintf(w, "    %-24s %3dx%-3d at (%d,%d)  uv %.4f %.4f %.4f %.4f\n",
			f.Name, f.W, f.H, f.X, f.Y, f.UV[0], f.UV[1], f.UV[2], f.UV[3])
	}
	fmt.Fprintln(w)
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
