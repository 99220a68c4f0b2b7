// Package config loads the YAML application configuration: the data source
// list, optional custom age ranges, and viewer options.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DataSourceSpec describes one configured data source entry.
type DataSourceSpec struct {
	Name             string   `yaml:"name"`
	Description      string   `yaml:"description"`
	DataType         string   `yaml:"data type"`
	Filename         string   `yaml:"filename"`
	RemoveColumnText []string `yaml:"remove column name text"`
}

// AgeRange is an inclusive [Low, High] bound; High may be +Inf (".inf" in YAML).
type AgeRange struct {
	Low  float64
	High float64
}

// Label returns the synthesized column name for the range, e.g. "18-24 Custom".
func (r AgeRange) Label() string {
	return fmt.Sprintf("%s-%s Custom", formatBound(r.Low), formatBound(r.High))
}

func formatBound(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// UnmarshalYAML accepts the two-element sequence form used in the config file.
func (r *AgeRange) UnmarshalYAML(value *yaml.Node) error {
	var bounds []float64
	if err := value.Decode(&bounds); err != nil {
		return err
	}
	if len(bounds) != 2 {
		return fmt.Errorf("age range needs exactly 2 bounds, got %d", len(bounds))
	}
	r.Low, r.High = bounds[0], bounds[1]
	return nil
}

// Config is the decoded jsdconfig.yaml.
type Config struct {
	DataSources     []DataSourceSpec      `yaml:"data sources"`
	CustomAgeRanges map[string][]AgeRange `yaml:"custom age ranges"`
	ChartAnimations bool                  `yaml:"chart animations"`
	NumberOfFiles   int                   `yaml:"number of files"`
}

// DefaultPath returns the config path used when none is given on the command line.
func DefaultPath() string {
	if wd, err := os.Getwd(); err == nil {
		local := filepath.Join(wd, "jsdconfig.yaml")
		if _, err := os.Stat(local); err == nil {
			return local
		}
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".jsdconfig.yaml")
}

// Load reads and decodes the YAML file at path and applies defaults.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(raw)
}

// Parse decodes raw YAML bytes and applies defaults.
func Parse(raw []byte) (*Config, error) {
	cfg := &Config{ChartAnimations: true}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.NumberOfFiles < 2 {
		cfg.NumberOfFiles = 2
	}
	for i, ds := range cfg.DataSources {
		if ds.Name == "" {
			return nil, fmt.Errorf("data source %d: missing name", i)
		}
		if ds.DataType == "" {
			cfg.DataSources[i].DataType = "file"
		}
	}
	return cfg, nil
}

// RangesFor returns the custom age ranges configured for a category, or nil.
func (c *Config) RangesFor(category string) []AgeRange {
	if c == nil || c.CustomAgeRanges == nil {
		return nil
	}
	return c.CustomAgeRanges[category]
}

// CategoriesWithRanges lists the categories that carry custom age ranges, sorted.
func (c *Config) CategoriesWithRanges() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.CustomAgeRanges))
	for k := range c.CustomAgeRanges {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
