package validate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the configuration object exposed to validators (spec §4.8). It
// can be built programmatically or loaded from an operator-supplied YAML
// file (spec §10.3).
type Config struct {
	DisableDuplicateTableRowid     bool `yaml:"disable_duplicate_table_rowid"`
	DisableDuplicateUniqueIndexKey bool `yaml:"disable_duplicate_unique_index_key"`
	DisableIndexIntegrity          bool `yaml:"disable_index_integrity"`

	// MaxSampleValues caps the number of sample rowids/keys embedded in an
	// IndexIntegrity issue message before a truncation marker is appended
	// (spec §4.8: "at most 10 sample values").
	MaxSampleValues int `yaml:"max_sample_values"`
}

// DefaultConfig returns the configuration used when no file is supplied:
// every validator enabled, sample cap at the spec-mandated 10.
func DefaultConfig() *Config {
	return &Config{MaxSampleValues: defaultMaxSampleValues}
}

const defaultMaxSampleValues = 10

// LoadConfig reads and parses a YAML configuration file. Fields absent from
// the file keep the DefaultConfig value.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.MaxSampleValues <= 0 {
		cfg.MaxSampleValues = defaultMaxSampleValues
	}
	return cfg, nil
}

func (c *Config) sampleCap() int {
	if c == nil || c.MaxSampleValues <= 0 {
		return defaultMaxSampleValues
	}
	return c.MaxSampleValues
}
