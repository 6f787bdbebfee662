package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all steerplot settings. Every field has a default matching the recorded
// experiment, so a config file only needs the values it changes.
type Config struct {
	Environment EnvironmentConfig `yaml:"environment"`
	Tunnel      TunnelConfig      `yaml:"tunnel"`
	Drops       DropConfig        `yaml:"drops"`
	Filter      FilterConfig      `yaml:"filter"`
	Heatmap     HeatmapConfig     `yaml:"heatmap"`
	Render      RenderConfig      `yaml:"render"`
	Workers     int               `yaml:"workers"`
}

// EnvironmentConfig describes the canvas the trials were recorded on, in meters.
type EnvironmentConfig struct {
	WindowWidth  float64 `yaml:"window_width"`  // canvas width / scale
	WindowHeight float64 `yaml:"window_height"` // canvas height / scale
	TargetRadius float64 `yaml:"target_radius"`
}

// TunnelConfig holds the tunnel generator constants.
type TunnelConfig struct {
	StartX           float64 `yaml:"start_x"`
	EndX             float64 `yaml:"end_x"`
	YBase            float64 `yaml:"y_base"`
	Wavelength       float64 `yaml:"wavelength"`
	Step             float64 `yaml:"step"`
	DefaultCurvature float64 `yaml:"default_curvature"`
	DefaultWidth     float64 `yaml:"default_width"`
	CornerCount      int     `yaml:"corner_count"`
	CornerOffset     float64 `yaml:"corner_offset"`
}

// DropConfig configures speed-drop detection.
type DropConfig struct {
	ShowConnections bool    `yaml:"show_connections"`
	MinRatio        float64 `yaml:"min_ratio"`
	MinDuration     int     `yaml:"min_duration"`
	Prominence      float64 `yaml:"prominence"`
	Debug           bool    `yaml:"debug"`
}

// FilterConfig selects the noise filter applied to speed profiles.
type FilterConfig struct {
	Type   string         `yaml:"type"`
	Params map[string]any `yaml:"params"`
}

// HeatmapConfig configures the cross-participant heatmaps.
type HeatmapConfig struct {
	OverlapResolution   int     `yaml:"overlap_resolution"`
	OverlapSigma        float64 `yaml:"overlap_sigma"`
	OverlapClip         float64 `yaml:"overlap_clip"`
	Segments            int     `yaml:"segments"`
	FrequencyThreshold  float64 `yaml:"frequency_threshold"`
	MagnitudeResolution int     `yaml:"magnitude_resolution"`
	MagnitudeSigma      float64 `yaml:"magnitude_sigma"`
	MagnitudeClip       float64 `yaml:"magnitude_clip"`
	MeanPathSamples     int     `yaml:"mean_path_samples"`
}

// RenderConfig configures image output.
type RenderConfig struct {
	DPI     int  `yaml:"dpi"`
	InvertY bool `yaml:"invert_y"`
}

// DefaultConfig returns the settings of the recorded experiment.
func DefaultConfig() *Config {
	return &Config{
		Environment: EnvironmentConfig{
			WindowWidth:  0.4608,
			WindowHeight: 0.2592,
			TargetRadius: 0.01,
		},
		Tunnel: TunnelConfig{
			StartX:           0.0,
			EndX:             0.46,
			YBase:            0.13,
			Wavelength:       0.15,
			Step:             0.002,
			DefaultCurvature: 0.01,
			DefaultWidth:     0.015,
			CornerCount:      3,
			CornerOffset:     0.05,
		},
		Drops: DropConfig{
			MinRatio:    0.3,
			MinDuration: 3,
			Prominence:  0.001,
		},
		Filter: FilterConfig{
			Type: "none",
		},
		Heatmap: HeatmapConfig{
			OverlapResolution:   100,
			OverlapSigma:        2.0,
			OverlapClip:         0.5,
			Segments:            20,
			FrequencyThreshold:  0.1,
			MagnitudeResolution: 50,
			MagnitudeSigma:      1.0,
			MagnitudeClip:       20.0,
			MeanPathSamples:     200,
		},
		Render: RenderConfig{
			DPI:     300,
			InvertY: true,
		},
		Workers: 4,
	}
}

// Load reads a YAML config file on top of the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate rejects settings the analysis cannot run with.
func (c *Config) Validate() error {
	if c.Environment.WindowWidth <= 0 || c.Environment.WindowHeight <= 0 {
		return fmt.Errorf("invalid environment size %gx%g", c.Environment.WindowWidth, c.Environment.WindowHeight)
	}
	if c.Tunnel.Step <= 0 || c.Tunnel.EndX <= c.Tunnel.StartX {
		return fmt.Errorf("invalid tunnel range [%g, %g) step %g", c.Tunnel.StartX, c.Tunnel.EndX, c.Tunnel.Step)
	}
	if c.Tunnel.Wavelength <= 0 {
		return fmt.Errorf("invalid tunnel wavelength %g", c.Tunnel.Wavelength)
	}
	if c.Drops.MinRatio < 0 || c.Drops.MinRatio > 1 {
		return fmt.Errorf("drop ratio must be within [0, 1], got %g", c.Drops.MinRatio)
	}
	if c.Drops.MinDuration < 1 {
		return fmt.Errorf("drop duration must be at least 1, got %d", c.Drops.MinDuration)
	}
	if c.Heatmap.OverlapResolution < 2 || c.Heatmap.MagnitudeResolution < 2 {
		return fmt.Errorf("heatmap resolution must be at least 2")
	}
	if c.Heatmap.Segments < 1 {
		return fmt.Errorf("heatmap segments must be at least 1, got %d", c.Heatmap.Segments)
	}
	if c.Render.DPI <= 0 {
		return fmt.Errorf("invalid dpi %d", c.Render.DPI)
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return nil
}
