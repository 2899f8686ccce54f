package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds a node's configuration as a nested mapping. Sections the
// staging layer does not know about pass through untouched, so the same
// file can carry executor, network, and cluster settings.
type Config struct {
	raw map[string]interface{}
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
func Parse(data []byte) (*Config, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}
	return &Config{raw: raw}, nil
}

// New wraps an already-built nested mapping. Useful for embedding Dray in a
// larger executor that has its own configuration loading.
func New(raw map[string]interface{}) *Config {
	if raw == nil {
		raw = map[string]interface{}{}
	}
	return &Config{raw: raw}
}

// LocalStorageRoot returns the configured node-local storage root
// (cluster -> local-storage-root) and whether it was set. The value must be
// a string; anything else counts as unset.
func (c *Config) LocalStorageRoot() (string, bool) {
	s, ok := c.lookupString("cluster", "local-storage-root")
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// lookupString walks the nested mapping along keys and returns the leaf if
// it is a string.
func (c *Config) lookupString(keys ...string) (string, bool) {
	var cur interface{} = c.raw
	for _, key := range keys {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return "", false
		}
		cur, ok = m[key]
		if !ok {
			return "", false
		}
	}
	s, ok := cur.(string)
	return s, ok
}
