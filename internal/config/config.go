// Package config loads run configuration for the mapper from YAML,
// layering file values over defaults and validating the result.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nanoseed/nanoseed/internal/align"
	"github.com/nanoseed/nanoseed/internal/tracker"
)

// Config is the full run configuration.
type Config struct {
	Aligner align.Params   `yaml:"aligner"`
	Tracker tracker.Params `yaml:"tracker"`

	// EventBuffer is the normaliser ring size in events.
	EventBuffer int `yaml:"event_buffer"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Aligner:     align.DefaultParams(),
		Tracker:     tracker.DefaultParams(),
		EventBuffer: 512,
	}
}

// Load reads a YAML config file over the defaults. Unknown keys are
// rejected so typos fail loudly instead of silently running defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if err := unmarshalStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func unmarshalStrict(data []byte, out *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks the composite configuration.
func (c *Config) Validate() error {
	if err := c.Aligner.Validate(); err != nil {
		return err
	}
	if _, err := align.ParseThresholds(c.Aligner.EventProbs); err != nil {
		return err
	}
	if c.EventBuffer < 1 {
		return fmt.Errorf("event_buffer must be >= 1, got %d", c.EventBuffer)
	}
	if c.Tracker.MinAlnLen < 1 {
		return fmt.Errorf("tracker min_aln_len must be >= 1, got %d", c.Tracker.MinAlnLen)
	}
	if c.Tracker.MinConfRatio < 1 {
		return fmt.Errorf("tracker min_conf_ratio must be >= 1, got %g", c.Tracker.MinConfRatio)
	}
	return nil
}
