// Package config loads and validates the pipeline configuration: source and
// destination directories, the scene file extension, and the ordered tier
// table. Configuration is read once before a run and immutable afterwards.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/quellen/scene-tier-pipeline/pkg/tier"
)

// ConfigError reports malformed configuration. It is fatal to the whole run:
// nothing is well-defined without a valid tier table.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("invalid configuration: %v", e.Err) }
func (e *ConfigError) Unwrap() error { return e.Err }

// Config is the full static configuration surface of a run. Tier order is
// declaration order in the TOML file and is preserved for the whole run.
type Config struct {
	SourceDir      string      `toml:"source_dir"`
	DestDir        string      `toml:"dest_dir"`
	SceneExtension string      `toml:"scene_extension"`
	TextureFormat  string      `toml:"texture_format"`
	MetricsAddr    string      `toml:"metrics_addr"`
	Tiers          []tier.Tier `toml:"tiers"`
}

// DefaultTiers is the built-in tier table used when the configuration file
// does not declare one.
func DefaultTiers() []tier.Tier {
	return []tier.Tier{
		{Name: tier.NameUltra, SimplifyRatio: 1.0, TextureSize: 4096, MeshCompression: false},
		{Name: tier.NameHigh, SimplifyRatio: 0.8, TextureSize: 2048, MeshCompression: true},
		{Name: tier.NameMedium, SimplifyRatio: 0.5, TextureSize: 1024, MeshCompression: true},
		{Name: tier.NameLow, SimplifyRatio: 0.2, TextureSize: 512, MeshCompression: true},
	}
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		SourceDir:      "./scenes",
		DestDir:        "./optimized",
		SceneExtension: ".scn",
		TextureFormat:  "webp",
		Tiers:          DefaultTiers(),
	}
}

// Load reads a TOML configuration file, fills unset fields from defaults and
// applies environment overrides. An empty path yields the defaults.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, &ConfigError{Err: fmt.Errorf("read %s: %w", path, err)}
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, &ConfigError{Err: fmt.Errorf("parse %s: %w", path, err)}
		}
	}
	cfg.fillDefaults()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.SourceDir == "" {
		c.SourceDir = def.SourceDir
	}
	if c.DestDir == "" {
		c.DestDir = def.DestDir
	}
	if c.SceneExtension == "" {
		c.SceneExtension = def.SceneExtension
	}
	if c.TextureFormat == "" {
		c.TextureFormat = def.TextureFormat
	}
	if len(c.Tiers) == 0 {
		c.Tiers = def.Tiers
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SCENETIER_SOURCE_DIR"); v != "" {
		c.SourceDir = v
	}
	if v := os.Getenv("SCENETIER_DEST_DIR"); v != "" {
		c.DestDir = v
	}
	if v := os.Getenv("SCENETIER_METRICS_ADDR"); v != "" {
		c.MetricsAddr = v
	}
}

// Validate checks the whole configuration; any failure is a *ConfigError.
func (c *Config) Validate() error {
	if c.SourceDir == "" {
		return &ConfigError{Err: fmt.Errorf("source_dir is required")}
	}
	if c.DestDir == "" {
		return &ConfigError{Err: fmt.Errorf("dest_dir is required")}
	}
	if !strings.HasPrefix(c.SceneExtension, ".") {
		return &ConfigError{Err: fmt.Errorf("scene_extension %q must start with a dot", c.SceneExtension)}
	}
	switch c.TextureFormat {
	case "webp", "jpeg", "jpg", "png":
	default:
		return &ConfigError{Err: fmt.Errorf("texture_format %q is not supported", c.TextureFormat)}
	}
	if len(c.Tiers) == 0 {
		return &ConfigError{Err: fmt.Errorf("at least one tier is required")}
	}
	seen := make(map[string]bool, len(c.Tiers))
	for _, t := range c.Tiers {
		if err := t.Validate(); err != nil {
			return &ConfigError{Err: err}
		}
		if seen[t.Name] {
			return &ConfigError{Err: fmt.Errorf("duplicate tier name %q", t.Name)}
		}
		seen[t.Name] = true
	}
	return nil
}
