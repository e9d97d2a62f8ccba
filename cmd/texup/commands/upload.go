package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mreinstein/texture2d/gpu"
	"github.com/mreinstein/texture2d/internal/config"
	"github.com/mreinstein/texture2d/internal/logging"
	"github.com/mreinstein/texture2d/texture"
)

func newUploadCmd(o *options) *cobra.Command {
	in := &input{}
	var mipmap bool
	cmd := &cobra.Command{
		Use:   "upload <image|url|raw-file>",
		Short: "Upload a pixel buffer to a headless WebGPU device",
		Example: `  texup upload atlas.png --mipmap --min-filter linear-mipmap-linear
  texup upload heights.bin --raw --dtype float32 --shape 256,256 --float`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, format, err := in.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			sampler, err := o.cfg.Sampler()
			if err != nil {
				return err
			}

			state, err := gpu.Open(gpuConfig(o.cfg))
			if err != nil {
				return fmt.Errorf("open device: %w", err)
			}
			defer state.Release()
			logging.Infof("device ready (fallback adapter: %t, float textures: %t)",
				o.cfg.GPU.ForceFallbackAdapter, o.cfg.GPU.FloatTextures)

			tex, err := texture.New(state, texture.Pixels{Buffer: b, Format: format})
			if err != nil {
				return err
			}
			defer tex.Dispose()

			if err := tex.SetSampler(sampler); err != nil {
				return err
			}
			if mipmap {
				if !sampler.MinFilter.Mipmapped() {
					logging.Warnf("--mipmap with min filter %s: levels are generated but not sampled", sampler.MinFilter)
				}
				if err := tex.GenerateMipmap(); err != nil {
					return err
				}
			}

			logging.Infof("uploaded %s: %dx%d", args[0], tex.Width(), tex.Height())

			gt, _ := state.Texture(tex.Handle())
			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  Texture:     %s\n", gt.Label)
			fmt.Fprintf(out, "  Size:        %dx%d\n", tex.Width(), tex.Height())
			fmt.Fprintf(out, "  Storage:     %v\n", gt.Format)
			fmt.Fprintf(out, "  Mip levels:  %d (generated: %t)\n", gt.MipCount, mipmap)
			fmt.Fprintf(out, "  Filter:      min %s, mag %s\n", sampler.MinFilter, sampler.MagFilter)
			fmt.Fprintf(out, "  Wrap:        s %s, t %s\n", sampler.WrapS, sampler.WrapT)
			texel := tex.TexelSize()
			fmt.Fprintf(out, "  Texel:       %.6f x %.6f\n", texel.X(), texel.Y())
			fmt.Fprintln(out)
			return nil
		},
	}
	in.addFlags(cmd)

	f := cmd.Flags()
	f.BoolVar(&mipmap, "mipmap", false, "generate the full mip chain after upload")
	f.Bool("fallback", false, "request the software adapter")
	f.String("wgpu-log", "WARN", "native wgpu log level: OFF, ERROR, WARN, INFO, DEBUG or TRACE")
	f.String("min-filter", "nearest", "minification filter")
	f.String("mag-filter", "nearest", "magnification filter")
	f.String("wrap-s", "repeat", "horizontal wrap mode")
	f.String("wrap-t", "repeat", "vertical wrap mode")
	return cmd
}

func gpuConfig(c *config.Config) gpu.Config {
	return gpu.Config{
		ForceFallbackAdapter: c.GPU.ForceFallbackAdapter,
		LogLevel:             c.GPU.LogLevel,
		FloatTextures:        c.GPU.FloatTextures,
		RowAlignment:         c.GPU.RowAlignment,
	}
}
