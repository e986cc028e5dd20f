// Package style holds the utility-class build configuration.
//
// The configuration is static data consumed by an external style generator:
// which source files to scan for class usage, whether dark mode is enabled,
// theme extensions, extra state variants per utility, and plugins.
package style

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"splitspecs/internal/artifacts"
)

// DarkMode selects how dark variants are generated.
type DarkMode string

const (
	DarkModeOff   DarkMode = ""
	DarkModeMedia DarkMode = "media"
	DarkModeClass DarkMode = "class"
)

// UnmarshalYAML accepts false, "media" or "class".
func (d *DarkMode) UnmarshalYAML(value *yaml.Node) error {
	var b bool
	if err := value.Decode(&b); err == nil {
		if b {
			return fmt.Errorf("dark_mode: true is ambiguous, use media or class")
		}
		*d = DarkModeOff
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("dark_mode: %w", err)
	}
	switch DarkMode(strings.ToLower(s)) {
	case DarkModeMedia:
		*d = DarkModeMedia
	case DarkModeClass:
		*d = DarkModeClass
	case "false", "off":
		*d = DarkModeOff
	default:
		return fmt.Errorf("dark_mode: unknown mode %q", s)
	}
	return nil
}

// MarshalYAML writes false for DarkModeOff.
func (d DarkMode) MarshalYAML() (any, error) {
	if d == DarkModeOff {
		return false, nil
	}
	return string(d), nil
}

// Theme holds theme overrides. Extend is an open extension point.
type Theme struct {
	Extend map[string]any `yaml:"extend"`
}

// Variants lists extra state variants per utility, e.g. backgroundColor: [active].
type Variants struct {
	Extend map[string][]string `yaml:"extend"`
}

// Config is the style build configuration.
type Config struct {
	Purge    []string `yaml:"purge"`
	DarkMode DarkMode `yaml:"dark_mode"`
	Theme    Theme    `yaml:"theme"`
	Variants Variants `yaml:"variants"`
	Plugins  []string `yaml:"plugins"`
}

// Default returns the embedded configuration.
func Default() *Config {
	cfg, err := Parse(artifacts.StyleConfig)
	if err != nil {
		panic("failed to parse embedded style config: " + err.Error())
	}
	return cfg
}

// Parse decodes a YAML configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads the configuration at path.
// Returns Default() if the file does not exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects empty content globs.
func (c *Config) Validate() error {
	for i, p := range c.Purge {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("purge[%d]: empty pattern", i)
		}
	}
	return nil
}

// VariantsFor returns the extra variants enabled for utility.
func (c *Config) VariantsFor(utility string) []string {
	return c.Variants.Extend[utility]
}

// VariantEnabled reports whether variant is enabled for utility.
func (c *Config) VariantEnabled(utility, variant string) bool {
	for _, v := range c.Variants.Extend[utility] {
		if v == variant {
			return true
		}
	}
	return false
}
