// internal/config/load.go
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// envOverrides are applied on top of the file. Unset variables leave the
// file value alone.
type envOverrides struct {
	Transport string `env:"RMP_TRANSPORT"`
	Port      string `env:"RMP_PORT"`
	Baud      int    `env:"RMP_BAUD"`
	Platform  string `env:"RMP_PLATFORM"`
	LogLevel  string `env:"RMP_LOG_LEVEL"`
}

// Load reads a YAML file and applies environment overrides.
// It does not validate.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes YAML and applies environment overrides.
// Unknown keys are rejected.
func Parse(raw []byte) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("config: environment: %w", err)
	}

	if o.Transport != "" {
		cfg.RMP.Transport.Kind = o.Transport
	}
	if o.Port != "" {
		cfg.RMP.Transport.Port = o.Port
	}
	if o.Baud != 0 {
		cfg.RMP.Transport.Baud = o.Baud
	}
	if o.Platform != "" {
		cfg.RMP.Platform = o.Platform
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	return nil
}
