// Package config loads backend configuration from YAML. The connection
// string itself stays opaque; this layer only carries it, together with
// the dialect name and the observability knobs, from file to code.
package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mageshb/persistent/dialect"
)

// Duration is a time.Duration that unmarshals from YAML strings such as
// "200ms" or "2s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the standard library representation.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the backend configuration.
type Config struct {
	// Dialect is one of the dialect name constants.
	Dialect string `yaml:"dialect"`
	// DSN is the backend-specific connection string, passed through
	// opaquely to the driver.
	DSN string `yaml:"dsn"`
	// Debug enables operation logging.
	Debug bool `yaml:"debug"`
	// SlowThreshold is the slow-operation threshold for statistics
	// collection. Zero keeps the collector's default.
	SlowThreshold Duration `yaml:"slow_threshold"`
}

// Parse reads a configuration document from r.
func Parse(r io.Reader) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads a configuration file from path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Validate checks the configuration for missing or unknown settings.
func (c *Config) Validate() error {
	switch c.Dialect {
	case dialect.SQLite, dialect.MySQL, dialect.Postgres:
	case "":
		return fmt.Errorf("config: dialect is required")
	default:
		return fmt.Errorf("config: unknown dialect %q", c.Dialect)
	}
	if c.DSN == "" {
		return fmt.Errorf("config: dsn is required")
	}
	return nil
}
