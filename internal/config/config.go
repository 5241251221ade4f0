// Package config handles exporter configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all exporter settings.
type Config struct {
	Export  ExportConfig  `yaml:"export"`
	RSM     RSMConfig     `yaml:"rsm"`
	OBJ     OBJConfig     `yaml:"obj"`
	Data    DataConfig    `yaml:"data"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig holds the sampled frame range and destination.
type ExportConfig struct {
	FrameStart int    `yaml:"frame_start"`
	FrameEnd   int    `yaml:"frame_end"` // inclusive
	Output     string `yaml:"output"`
}

// RSMConfig controls how RSM model animation maps onto integer frames.
type RSMConfig struct {
	FPS   int  `yaml:"fps"`    // frames per second of animation time
	Loop  bool `yaml:"loop"`   // wrap frame time by the model's animation length
	FlipY bool `yaml:"flip_y"` // convert from RO's Y-down coordinates
}

// OBJConfig holds Wavefront OBJ import settings.
type OBJConfig struct {
	SmoothDefault bool `yaml:"smooth_default"` // smoothing before any "s" statement
}

// DataConfig holds game data file paths.
type DataConfig struct {
	GRFPaths []string `yaml:"grf_paths"` // archives searched for model paths
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			FrameStart: 0,
			FrameEnd:   29,
			Output:     "out.robj",
		},
		RSM: RSMConfig{
			FPS:   30,
			Loop:  true,
			FlipY: true,
		},
		OBJ: OBJConfig{
			SmoothDefault: false,
		},
		Data: DataConfig{
			GRFPaths: nil,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings no export could run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Export.FrameStart > c.Export.FrameEnd {
		errs = append(errs, fmt.Errorf("export.frame_start %d is after export.frame_end %d",
			c.Export.FrameStart, c.Export.FrameEnd))
	}
	if c.Export.Output == "" {
		errs = append(errs, errors.New("export.output is empty"))
	}
	if c.RSM.FPS <= 0 {
		errs = append(errs, fmt.Errorf("rsm.fps must be positive, got %d", c.RSM.FPS))
	}
	return errors.Join(errs...)
}
