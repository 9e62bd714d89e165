// Package config provides configuration loading and management for asimetric.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"asimetric/pkg/extraction"
)

// RegionConfig describes one region and the statistic to reduce over it
type RegionConfig struct {
	// Mode is the region coordinate system: azimuth, elevation, ccd, geodetic or geomagnetic
	Mode string `yaml:"mode"`

	// Bounds holds 2 values for azimuth/elevation and 4 for ccd/geodetic
	Bounds []float64 `yaml:"bounds"`

	// Metric is median, mean or sum
	Metric string `yaml:"metric,omitempty"`

	// Percentile selects a nearest-rank percentile instead of Metric
	Percentile *float64 `yaml:"percentile,omitempty"`

	// AltitudeKm is the mapping altitude for geodetic regions
	AltitudeKm *float64 `yaml:"altitudeKm,omitempty"`
}

// Config represents the application configuration loaded from YAML
type Config struct {
	// Request describes the primary region and statistic to extract
	Request struct {
		RegionConfig `yaml:",inline"`

		// ShowPreview writes a preview image of the region
		ShowPreview bool `yaml:"showPreview"`
	} `yaml:"request"`

	// Regions lists further regions evaluated over the same frames
	Regions []RegionConfig `yaml:"regions,omitempty"`

	// Input locations
	Input struct {
		// FramesDir is the directory holding the frame images, one file per frame
		FramesDir string `yaml:"framesDir"`

		// SkymapFile is the YAML skymap for the imager
		SkymapFile string `yaml:"skymapFile"`
	} `yaml:"input"`

	// Processing parameters
	Processing struct {
		// NumCores bounds how many regions are extracted concurrently
		NumCores int `yaml:"numCores"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// PreviewFile is where the region preview is written when requested
		PreviewFile string `yaml:"previewFile"`

		// PreviewWidth is the preview width in pixels; 0 keeps the frame size
		PreviewWidth int `yaml:"previewWidth"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Request.Mode = "ccd"
	cfg.Request.Metric = "median"

	cfg.Processing.NumCores = runtime.NumCPU()

	cfg.Output.PreviewFile = "preview.png"
	cfg.Output.PreviewWidth = 0
	cfg.Output.Verbose = false

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if cfg.Processing.NumCores <= 0 {
		cfg.Processing.NumCores = 1
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}

// Request converts rc into an extraction request
func (rc RegionConfig) Request() extraction.Request {
	return extraction.Request{
		Mode:       rc.Mode,
		Bounds:     rc.Bounds,
		Metric:     rc.Metric,
		Percentile: rc.Percentile,
		AltitudeKm: rc.AltitudeKm,
	}
}

// Params builds extraction parameters for the primary request. The skymap
// and preview renderer are left for the caller to attach.
func (c *Config) Params() *extraction.Params {
	return &extraction.Params{
		Request:     c.Request.RegionConfig.Request(),
		ShowPreview: c.Request.ShowPreview,
		Verbose:     c.Output.Verbose,
	}
}

// Requests returns the primary request followed by the extra regions
func (c *Config) Requests() []extraction.Request {
	requests := []extraction.Request{c.Request.RegionConfig.Request()}
	for _, rc := range c.Regions {
		requests = append(requests, rc.Request())
	}
	return requests
}
