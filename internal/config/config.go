package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mreinstein/texture2d/texture"
)

// Config represents the texup configuration
type Config struct {
	GPU     GPUConfig     `mapstructure:"gpu"`
	Texture TextureConfig `mapstructure:"texture"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type GPUConfig struct {
	ForceFallbackAdapter bool   `mapstructure:"force_fallback_adapter"`
	LogLevel             string `mapstructure:"log_level"`
	FloatTextures        bool   `mapstructure:"float_textures"`
	RowAlignment         int    `mapstructure:"row_alignment"`
}

// TextureConfig holds the sampler applied to uploaded textures.
type TextureConfig struct {
	MinFilter string `mapstructure:"min_filter"`
	MagFilter string `mapstructure:"mag_filter"`
	WrapS     string `mapstructure:"wrap_s"`
	WrapT     string `mapstructure:"wrap_t"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	File    string `mapstructure:"file"`
	Console bool   `mapstructure:"console"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		GPU: GPUConfig{
			ForceFallbackAdapter: false,
			LogLevel:             "WARN",
			FloatTextures:        false,
			RowAlignment:         256,
		},
		Texture: TextureConfig{
			MinFilter: texture.FilterNearest.String(),
			MagFilter: texture.FilterNearest.String(),
			WrapS:     texture.WrapRepeat.String(),
			WrapT:     texture.WrapRepeat.String(),
		},
		Logging: LoggingConfig{
			Level:   "warn",
			File:    "",
			Console: true,
		},
	}
}

// flagKeys maps command line flags to the configuration keys they override.
var flagKeys = map[string]string{
	"fallback":   "gpu.force_fallback_adapter",
	"float":      "gpu.float_textures",
	"wgpu-log":   "gpu.log_level",
	"min-filter": "texture.min_filter",
	"mag-filter": "texture.mag_filter",
	"wrap-s":     "texture.wrap_s",
	"wrap-t":     "texture.wrap_t",
	"log-level":  "logging.level",
	"log-file":   "logging.file",
}

// Load loads configuration from flags, environment, file, and defaults.
// An empty cfgFile searches $HOME/.texup and the working directory for config.yaml.
// Flags in flags named in flagKeys override the matching keys when set.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("finding home directory: %w", err)
		}

		v.AddConfigPath(filepath.Join(home, ".texup"))
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TEXUP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Logging.File = expandPath(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.GPU.RowAlignment <= 0 || c.GPU.RowAlignment&(c.GPU.RowAlignment-1) != 0 {
		return errors.New("gpu.row_alignment must be a positive power of two")
	}

	validWGPU := []string{"", "OFF", "ERROR", "WARN", "INFO", "DEBUG", "TRACE"}
	if !contains(validWGPU, c.GPU.LogLevel) {
		return fmt.Errorf("gpu.log_level must be one of: %v", validWGPU)
	}

	if _, err := c.Sampler(); err != nil {
		return err
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	return nil
}

// Sampler parses the texture section.
func (c *Config) Sampler() (texture.Sampler, error) {
	var s texture.Sampler
	var err error
	if s.MinFilter, err = texture.ParseFilter(c.Texture.MinFilter); err != nil {
		return s, fmt.Errorf("texture.min_filter: %w", err)
	}
	if s.MagFilter, err = texture.ParseFilter(c.Texture.MagFilter); err != nil {
		return s, fmt.Errorf("texture.mag_filter: %w", err)
	}
	if s.MagFilter.Mipmapped() {
		return s, fmt.Errorf("texture.mag_filter: %s is a minification filter", s.MagFilter)
	}
	if s.WrapS, err = texture.ParseWrap(c.Texture.WrapS); err != nil {
		return s, fmt.Errorf("texture.wrap_s: %w", err)
	}
	if s.WrapT, err = texture.ParseWrap(c.Texture.WrapT); err != nil {
		return s, fmt.Errorf("texture.wrap_t: %w", err)
	}
	return s, nil
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("gpu.force_fallback_adapter", cfg.GPU.ForceFallbackAdapter)
	v.SetDefault("gpu.log_level", cfg.GPU.LogLevel)
	v.SetDefault("gpu.float_textures", cfg.GPU.FloatTextures)
	v.SetDefault("gpu.row_alignment", cfg.GPU.RowAlignment)

	v.SetDefault("texture.min_filter", cfg.Texture.MinFilter)
	v.SetDefault("texture.mag_filter", cfg.Texture.MagFilter)
	v.SetDefault("texture.wrap_s", cfg.Texture.WrapS)
	v.SetDefault("texture.wrap_t", cfg.Texture.WrapT)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.console", cfg.Logging.Console)
}
