// Package config loads picwizard settings from defaults, an optional YAML
// file and PICWIZARD_ environment variables, in that order of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ironsheep/picwizard/internal/logging"
	"github.com/ironsheep/picwizard/internal/raster"
	"github.com/ironsheep/picwizard/internal/transform"
)

// EnvPrefix starts every environment override. Nested keys are joined with
// a double underscore: PICWIZARD_OUTPUT__JPEG_QUALITY sets output.jpeg_quality.
const EnvPrefix = "PICWIZARD_"

// LogConfig selects the log level and output encoding.
type LogConfig struct {
	Level string `koanf:"level"` // debug|info|warn|error
	JSON  bool   `koanf:"json"`  // JSON lines instead of console output
}

// OutputConfig sets the default encoding of written images.
type OutputConfig struct {
	Format      string `koanf:"format"`       // png|jpeg
	JPEGQuality int    `koanf:"jpeg_quality"` // 1-100
}

// Config is the complete picwizard configuration.
type Config struct {
	Log     LogConfig                `koanf:"log"`
	Output  OutputConfig             `koanf:"output"`
	Palette transform.PaletteOptions `koanf:"palette"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Log:     LogConfig{Level: "info"},
		Output:  OutputConfig{Format: raster.FormatPNG, JPEGQuality: 95},
		Palette: transform.DefaultPaletteOptions(),
	}
}

// Load layers the YAML file at path (skipped when path is empty) and the
// environment over Default, then validates the result.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	envKey := func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}
	if err := k.Load(env.Provider(EnvPrefix, "__", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Output.Format = strings.ToLower(cfg.Output.Format)
	if cfg.Output.Format == "jpg" {
		cfg.Output.Format = raster.FormatJPEG
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting outside its allowed range.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Output.Format != raster.FormatPNG && c.Output.Format != raster.FormatJPEG {
		return fmt.Errorf("output.format must be png or jpeg, got %q", c.Output.Format)
	}
	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		return fmt.Errorf("output.jpeg_quality must be in [1,100], got %d", c.Output.JPEGQuality)
	}
	return c.Palette.Validate()
}
