// Package gpu implements texture.Context on WebGPU.
//
// A State owns one adapter, device and queue. Textures are allocated lazily
// on their first level-0 upload, since WebGPU fixes a texture's size and
// format at creation time; later uploads of a different size or layout
// recreate the resource.
package gpu

import (
	"os"
	"runtime"
	"strconv"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/mreinstein/texture2d/texture"
)

// Config controls device acquisition.
type Config struct {
	// ForceFallbackAdapter requests the software adapter.
	ForceFallbackAdapter bool

	// LogLevel sets the native wgpu log level: OFF, ERROR, WARN, INFO, DEBUG or TRACE.
	// Empty leaves the default.
	LogLevel string

	// FloatTextures enables float uploads (R32Float, RG32Float, RGBA32Float).
	FloatTextures bool

	// RowAlignment pads uploaded rows to a multiple of this many bytes. 0 means 256.
	RowAlignment int
}

// ConfigFromEnv reads WGPU_LOG_LEVEL, WGPU_FORCE_FALLBACK_ADAPTER and
// WGPU_FLOAT_TEXTURES.
func ConfigFromEnv() Config {
	cfg := Config{
		LogLevel:             os.Getenv("WGPU_LOG_LEVEL"),
		ForceFallbackAdapter: os.Getenv("WGPU_FORCE_FALLBACK_ADAPTER") == "1",
	}
	if v, err := strconv.ParseBool(os.Getenv("WGPU_FLOAT_TEXTURES")); err == nil {
		cfg.FloatTextures = v
	}
	return cfg
}

// State is a headless WebGPU device implementing texture.Context.
type State struct {
	adapter *wgpu.Adapter
	Device  *wgpu.Device
	Queue   *wgpu.Queue

	config   Config
	textures map[texture.Handle]*Texture
	units    map[int]texture.Handle
	next     texture.Handle
}

var _ texture.Context = (*State)(nil)

// Open acquires an adapter and device without a presentation surface.
// The state is confined to the calling OS thread.
func Open(cfg Config) (s *State, err error) {
	runtime.LockOSThread()

	setLogLevel(cfg.LogLevel)
	if cfg.RowAlignment <= 0 {
		cfg.RowAlignment = 256
	}

	s = &State{
		config:   cfg,
		textures: make(map[texture.Handle]*Texture),
		units:    make(map[int]texture.Handle),
	}

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	s.adapter, err = instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: cfg.ForceFallbackAdapter,
	})
	if err != nil {
		return nil, err
	}

	s.Device, err = s.adapter.RequestDevice(nil)
	if err != nil {
		s.adapter.Release()
		return nil, err
	}
	s.Queue = s.Device.GetQueue()

	texture.Logger().Info("gpu: device ready",
		"fallback", cfg.ForceFallbackAdapter, "floatTextures", cfg.FloatTextures)
	return s, nil
}

func setLogLevel(level string) {
	switch level {
	case "OFF":
		wgpu.SetLogLevel(wgpu.LogLevelOff)
	case "ERROR":
		wgpu.SetLogLevel(wgpu.LogLevelError)
	case "WARN":
		wgpu.SetLogLevel(wgpu.LogLevelWarn)
	case "INFO":
		wgpu.SetLogLevel(wgpu.LogLevelInfo)
	case "DEBUG":
		wgpu.SetLogLevel(wgpu.LogLevelDebug)
	case "TRACE":
		wgpu.SetLogLevel(wgpu.LogLevelTrace)
	}
}

// Release frees every texture and then the device.
func (s *State) Release() {
	for h := range s.textures {
		s.DeleteTexture(h)
	}
	if s.Queue != nil {
		s.Queue.Release()
		s.Queue = nil
	}
	if s.Device != nil {
		s.Device.Release()
		s.Device = nil
	}
	if s.adapter != nil {
		s.adapter.Release()
		s.adapter = nil
	}
}

// Texture returns the resources behind h.
func (s *State) Texture(h texture.Handle) (*Texture, bool) {
	t, ok := s.textures[h]
	return t, ok
}

// Bound returns the texture attached to unit by BindTexture.
func (s *State) Bound(unit int) (*Texture, bool) {
	h, ok := s.units[unit]
	if !ok {
		return nil, false
	}
	return s.Texture(h)
}
