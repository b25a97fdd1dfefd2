package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the tunables of the highlight pipeline. It is passed by value
// into the pipeline; nothing reads process-wide settings.
type Config struct {
	// CellSize is the side of a heat-map brick in pixels. It must be even
	// and divide both image dimensions.
	CellSize int `yaml:"cell_size" json:"cell_size"`

	// Dark and Bright bound the luminance clamp applied before edge
	// detection. Both lie strictly between 0 and 255.
	Dark   int `yaml:"dark" json:"dark"`
	Bright int `yaml:"bright" json:"bright"`

	// EdgeCoef is the outer weight E of the 3x3 edge kernels.
	EdgeCoef float64 `yaml:"edge_coef" json:"edge_coef"`

	// MaxIterations caps the automaton passes before giving up.
	MaxIterations int `yaml:"max_iterations" json:"max_iterations"`

	// Parallel splits each automaton pass across CPUs.
	Parallel bool `yaml:"parallel" json:"parallel"`
}

// Default returns the standard pipeline configuration.
func Default() Config {
	return Config{
		CellSize:      8,
		Dark:          5,
		Bright:        250,
		EdgeCoef:      10,
		MaxIterations: 1000,
	}
}

// LowSensitivity is Default with the softer 7.5 edge coefficient.
func LowSensitivity() Config {
	c := Default()
	c.EdgeCoef = 7.5
	return c
}

// Pitch is the pixel distance between neighboring crisp heat cells.
func (c Config) Pitch() int {
	return c.CellSize / 2
}

// Validate checks the configuration on its own, without an image.
func (c Config) Validate() error {
	if c.CellSize < 2 || c.CellSize%2 != 0 {
		return fmt.Errorf("%w: cell_size %d must be an even number >= 2", ErrInvalidConfig, c.CellSize)
	}
	// A flat region responds with its clamped luminance, so the range must
	// stay clear of the two values that mark an edge.
	if c.Dark < 1 || c.Bright > 254 || c.Dark >= c.Bright {
		return fmt.Errorf("%w: clamp range [%d, %d] must satisfy 0 < dark < bright < 255", ErrInvalidConfig, c.Dark, c.Bright)
	}
	if c.EdgeCoef <= 0 {
		return fmt.Errorf("%w: edge_coef %g must be positive", ErrInvalidConfig, c.EdgeCoef)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("%w: max_iterations %d must be at least 1", ErrInvalidConfig, c.MaxIterations)
	}
	return nil
}

// CheckDimensions reports whether an image of the given size can be cut into
// whole cells. It does not repeat Validate.
func (c Config) CheckDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: image %dx%d is empty", ErrInvalidConfig, width, height)
	}
	if c.CellSize <= 0 || width%c.CellSize != 0 || height%c.CellSize != 0 {
		return fmt.Errorf("%w: cell_size %d does not divide image %dx%d", ErrInvalidConfig, c.CellSize, width, height)
	}
	return nil
}

// Load reads a YAML configuration file. Keys missing from the file keep their
// Default values. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the configuration to path as YAML.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
