package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds tool defaults loadable from a JSON file
type Config struct {
	Retain   string `json:"retain"`
	Compress bool   `json:"compress"`
	JSONLogs bool   `json:"json_logs"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Retain: "20%",
	}
}

// LoadFromFile loads configuration from a JSON file. Keys absent from the
// file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := ParseRetain(c.Retain); err != nil {
		return err
	}
	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "voc2tfrecord", "config.json")
}

// Options holds the tool configuration as given on the command line
type Options struct {
	Input    string
	Output   string
	Retain   string
	Compress bool
	JSONLogs bool
}

// Validate checks if the configuration is valid. It runs before any
// processing starts, so a bad ratio never reaches the pipeline.
func (o *Options) Validate() error {
	if o.Input == "" {
		return fmt.Errorf("input directory must be set")
	}

	if o.Output == "" {
		return fmt.Errorf("output directory must be set")
	}

	if _, err := ParseRetain(o.Retain); err != nil {
		return err
	}

	return nil
}

// TestRatio returns the retain expression reduced to its integer percentage.
// Validate must have passed.
func (o *Options) TestRatio() int {
	ratio, _ := ParseRetain(o.Retain)
	return ratio
}

// ParseRetain reduces a ratio expression to an integer percentage. "20",
// "20%" and "20/100" all yield 20.
func ParseRetain(s string) (int, error) {
	value := s
	switch {
	case strings.Contains(s, "/"):
		value, _, _ = strings.Cut(s, "/")
	case strings.Contains(s, "%"):
		value, _, _ = strings.Cut(s, "%")
	}

	ratio, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid retain ratio %q: %w", s, err)
	}
	if ratio < 0 || ratio > 100 {
		return 0, fmt.Errorf("retain ratio %q must be between 0 and 100", s)
	}

	return ratio, nil
}
