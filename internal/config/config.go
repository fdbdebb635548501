// Package config loads the service configuration from a YAML file with
// environment-variable expansion.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level service configuration.
type Config struct {
	HTTPAddr string `yaml:"http_addr"`
	LogLevel string `yaml:"log_level"`

	Auth     AuthConfig     `yaml:"auth"`
	Scan     ScanConfig     `yaml:"scan"`
	Envelope EnvelopeConfig `yaml:"envelope"`

	Pairs []PairConfig `yaml:"pairs"`
}

// AuthConfig controls bearer-token authentication on the API.
type AuthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
}

// ScanConfig sets the default conjunction-scan parameters. Per-request query
// parameters can override them.
type ScanConfig struct {
	StepSeconds int     `yaml:"step_seconds"`
	ThresholdKm float64 `yaml:"threshold_km"`
	PrecisionMS int     `yaml:"precision_ms"`
	WindowDays  int     `yaml:"window_days"`
	Workers     int     `yaml:"workers"`
}

// EnvelopeConfig sets the pass-grouping and envelope-minima parameters.
type EnvelopeConfig struct {
	WindowSize     int `yaml:"window_size"`
	PassGapMinutes int `yaml:"pass_gap_minutes"`
	DedupeMinutes  int `yaml:"dedupe_minutes"`
}

// PairConfig names one satellite pair and the element-set files backing it.
// Anchor, when set, pins the scan window start; otherwise scans start at the
// catalogs' overlapping epoch range.
type PairConfig struct {
	Name     string `yaml:"name"`
	TLEFileA string `yaml:"tle_file_a"`
	TLEFileB string `yaml:"tle_file_b"`
	Anchor   string `yaml:"anchor"` // RFC 3339, optional
}

// envPattern matches $(VAR) placeholders in the raw YAML.
var envPattern = regexp.MustCompile(`\$\(([A-Za-z_][A-Za-z0-9_]*)\)`)

// Load reads, expands and parses the configuration file, then applies
// defaults and validates it.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	expanded := envPattern.ReplaceAllFunc(raw, func(m []byte) []byte {
		name := envPattern.FindSubmatch(m)[1]
		return []byte(os.Getenv(string(name)))
	})

	var cfg Config
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Scan.StepSeconds <= 0 {
		c.Scan.StepSeconds = 30
	}
	if c.Scan.ThresholdKm <= 0 {
		c.Scan.ThresholdKm = 1000
	}
	if c.Scan.PrecisionMS <= 0 {
		c.Scan.PrecisionMS = 100
	}
	if c.Scan.WindowDays <= 0 {
		c.Scan.WindowDays = 7
	}
	if c.Envelope.WindowSize <= 0 {
		c.Envelope.WindowSize = 5
	}
	if c.Envelope.PassGapMinutes <= 0 {
		c.Envelope.PassGapMinutes = 30
	}
	if c.Envelope.DedupeMinutes <= 0 {
		c.Envelope.DedupeMinutes = 60
	}
}

func (c *Config) validate() error {
	if c.Auth.Enabled && c.Auth.Token == "" {
		return fmt.Errorf("auth enabled but no token configured")
	}
	seen := make(map[string]bool, len(c.Pairs))
	for i, p := range c.Pairs {
		if p.Name == "" {
			return fmt.Errorf("pair %d: missing name", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("pair %q: duplicate name", p.Name)
		}
		seen[p.Name] = true
		if p.TLEFileA == "" || p.TLEFileB == "" {
			return fmt.Errorf("pair %q: both tle_file_a and tle_file_b are required", p.Name)
		}
		if p.Anchor != "" {
			if _, err := time.Parse(time.RFC3339, p.Anchor); err != nil {
				return fmt.Errorf("pair %q: invalid anchor: %w", p.Name, err)
			}
		}
	}
	return nil
}

// Step returns the scan cadence as a duration.
func (c *Config) Step() time.Duration {
	return time.Duration(c.Scan.StepSeconds) * time.Second
}

// Precision returns the refinement precision as a duration.
func (c *Config) Precision() time.Duration {
	return time.Duration(c.Scan.PrecisionMS) * time.Millisecond
}

// ScanWindow returns the default scan window length as a duration.
func (c *Config) ScanWindow() time.Duration {
	return time.Duration(c.Scan.WindowDays) * 24 * time.Hour
}

// PassGap returns the pass-grouping gap as a duration.
func (c *Config) PassGap() time.Duration {
	return time.Duration(c.Envelope.PassGapMinutes) * time.Minute
}

// Dedupe returns the envelope-minima dedupe horizon as a duration.
func (c *Config) Dedupe() time.Duration {
	return time.Duration(c.Envelope.DedupeMinutes) * time.Minute
}
