package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mreinstein/texture2d/texture"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	s, err := cfg.Sampler()
	require.NoError(t, err)
	assert.Equal(t, texture.Sampler{}, s)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "texup.yaml")
	yaml := `
gpu:
  force_fallback_adapter: true
  row_alignment: 512
texture:
  min_filter: linear-mipmap-linear
  mag_filter: linear
  wrap_s: clamp-to-edge
logging:
  level: debug
  file: $TEXUP_TEST_DIR/texup.log
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("TEXUP_TEST_DIR", "/var/log")
	t.Setenv("TEXUP_GPU_FLOAT_TEXTURES", "true")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.True(t, cfg.GPU.ForceFallbackAdapter)
	assert.True(t, cfg.GPU.FloatTextures)
	assert.Equal(t, 512, cfg.GPU.RowAlignment)
	assert.Equal(t, "WARN", cfg.GPU.LogLevel)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/var/log/texup.log", cfg.Logging.File)

	s, err := cfg.Sampler()
	require.NoError(t, err)
	assert.Equal(t, texture.Sampler{
		MinFilter: texture.FilterLinearMipmapLinear,
		MagFilter: texture.FilterLinear,
		WrapS:     texture.WrapClampToEdge,
		WrapT:     texture.WrapRepeat,
	}, s)
}

func TestLoadFlags(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	flags := pflag.NewFlagSet("texup", pflag.ContinueOnError)
	flags.Bool("float", false, "")
	flags.String("min-filter", "nearest", "")
	flags.String("log-level", "warn", "")
	flags.Int("unrelated", 0, "")
	require.NoError(t, flags.Parse([]string{"--float", "--min-filter", "linear"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.True(t, cfg.GPU.FloatTextures)
	assert.Equal(t, "linear", cfg.Texture.MinFilter)
	assert.Equal(t, "nearest", cfg.Texture.MagFilter)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero alignment", func(c *Config) { c.GPU.RowAlignment = 0 }},
		{"odd alignment", func(c *Config) { c.GPU.RowAlignment = 100 }},
		{"wgpu level", func(c *Config) { c.GPU.LogLevel = "LOUD" }},
		{"min filter", func(c *Config) { c.Texture.MinFilter = "cubic" }},
		{"mipmapped mag filter", func(c *Config) { c.Texture.MagFilter = "linear-mipmap-linear" }},
		{"wrap", func(c *Config) { c.Texture.WrapT = "clamp" }},
		{"log level", func(c *Config) { c.Logging.Level = "trace" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			require.NoError(t, cfg.Validate())
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
