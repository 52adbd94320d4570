/*
 * MIT License
 *
 * Copyright (c) 2026 Nguyen Thanh Phuong
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package config

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents application configuration.
type Config struct {
	IP       string `yaml:"ip"`       // IPv4 address to listen on
	Port     uint16 `yaml:"port"`     // TCP port to listen on
	Endpoint string `yaml:"endpoint"` // Websocket path segment, without leading slash

	// Logging
	LogLevel string `yaml:"log_level"` // Log level: debug, info, warn, error
	LogFile  string `yaml:"log_file"`  // Log file path (empty = stdout)

	// Bound for the lscpu invocation used by the CPU identity reader
	LscpuTimeout time.Duration `yaml:"lscpu_timeout"`

	// Filters
	Disk DiskFilter `yaml:"disk"`
}

// DiskFilter selects which partitions the disk reader reports.
type DiskFilter struct {
	Include []string `yaml:"include"` // Devices or mountpoints to report (empty = all)
	Exclude []string `yaml:"exclude"` // Devices or mountpoints to skip
}

// Default configuration values.
const (
	DefaultConfigPath   = "Config.yaml"
	DefaultLogLevel     = "info"
	DefaultLscpuTimeout = 5 * time.Second
	DefaultSampleWindow = 1 * time.Second
)

// Load reads the YAML file at path, applies defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Read reads the YAML file at path and applies defaults without validating,
// so callers can apply overrides first.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return Decode(data)
}

// Parse decodes a YAML document into a validated Config.
func Parse(data []byte) (*Config, error) {
	cfg, err := Decode(data)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Decode decodes a YAML document and applies defaults. Unknown keys are
// rejected; values are not validated.
func Decode(data []byte) (*Config, error) {
	cfg := &Config{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()

	return cfg, nil
}

// Default returns a configuration with every optional setting at its
// default. It has no listen address, so it does not pass Validate.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	c.Endpoint = NormalizeEndpoint(c.Endpoint)
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LscpuTimeout == 0 {
		c.LscpuTimeout = DefaultLscpuTimeout
	}
}

// NormalizeEndpoint strips surrounding whitespace and leading slashes.
func NormalizeEndpoint(s string) string {
	return strings.TrimLeft(strings.TrimSpace(s), "/")
}

// parseCommaSeparated parses a comma-separated string into a slice of trimmed strings.
func parseCommaSeparated(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// ParseCommaSeparated is the exported version of parseCommaSeparated.
func ParseCommaSeparated(s string) []string {
	return parseCommaSeparated(s)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	ip := net.ParseIP(c.IP)
	if ip == nil || ip.To4() == nil {
		return fmt.Errorf("ip must be an IPv4 address, got %q", c.IP)
	}

	if c.Port == 0 {
		return errors.New("port must be between 1 and 65535")
	}

	if c.Endpoint == "" {
		return errors.New("endpoint cannot be empty")
	}

	if strings.ContainsAny(c.Endpoint, "{}?#") {
		return fmt.Errorf("endpoint contains invalid characters: %s", c.Endpoint)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	if c.LscpuTimeout < 0 {
		return errors.New("lscpu timeout cannot be negative")
	}

	return nil
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.IP, strconv.Itoa(int(c.Port)))
}

// Path returns the websocket route, with a leading slash.
func (c *Config) Path() string {
	return "/" + c.Endpoint
}

// String returns a human-readable representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Addr=%s, Path=%s, LogLevel=%s, LscpuTimeout=%v, IncludeDisks=%v, ExcludeDisks=%v}",
		c.Addr(), c.Path(), c.LogLevel, c.LscpuTimeout, c.Disk.Include, c.Disk.Exclude)
}
