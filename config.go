package asset_shrinker

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxSide = 800
	DefaultColors  = 256

	// png palettes cannot hold more than this
	MaxPaletteColors = 256
)

// Config holds the processing parameters shared by every file in a batch.
type Config struct {
	// Longest allowed edge in pixels; larger images are scaled down to it.
	MaxSide int `yaml:"max_side"`
	// Palette size of the written PNG.
	Colors int `yaml:"colors"`
	// Copy originals to <name>.bak before overwriting them.
	Backup bool `yaml:"backup"`
	// Overrides the default assets directory when set.
	AssetsDir string `yaml:"assets_dir"`
}

func DefaultConfig() Config {
	return Config{
		MaxSide: DefaultMaxSide,
		Colors:  DefaultColors,
		Backup:  true,
	}
}

// LoadConfig reads a YAML config file. Keys missing from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MaxSide < 1 {
		return fmt.Errorf("max_side must be at least 1, got %d", c.MaxSide)
	}
	if c.Colors < 2 || c.Colors > MaxPaletteColors {
		return fmt.Errorf("colors must be between 2 and %d, got %d", MaxPaletteColors, c.Colors)
	}
	return nil
}
