// Package config provides optional file-based credentials for the
// client library.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults (vendor default base URLs apply at the adapter)
//  2. YAML config file
//  3. Environment variable overrides (UNILLM_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
//
// Loading a file is never required: a llm.Config carrying its own APIKey
// and BaseURL works without this package.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/unillm/unillm/pkg/llm"
)

// Config maps service names to their credentials and endpoints.
type Config struct {
	Services map[string]ServiceSettings `yaml:"services"`
}

// ServiceSettings holds per-service connection settings.
type ServiceSettings struct {
	APIKey     string            `yaml:"api_key"`
	APIKeyFile string            `yaml:"api_key_file"` // _file variant for api_key
	BaseURL    string            `yaml:"base_url"`
	Headers    map[string]string `yaml:"headers"`
}

// Load reads and validates a YAML config file, applying env overrides
// and _file references.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if cfg.Services == nil {
		cfg.Services = map[string]ServiceSettings{}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.resolveFiles(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromEnv builds a config purely from UNILLM_{SERVICE}_API_KEY and
// UNILLM_{SERVICE}_BASE_URL variables.
func FromEnv() *Config {
	cfg := &Config{Services: map[string]ServiceSettings{}}
	cfg.applyEnv()
	return cfg
}

// applyEnv overlays UNILLM_{SERVICE}_API_KEY / _BASE_URL variables.
func (c *Config) applyEnv() error {
	for _, service := range llm.Services {
		name := string(service)
		prefix := "UNILLM_" + strings.ToUpper(name) + "_"
		settings, present := c.Services[name]
		changed := false
		if v := os.Getenv(prefix + "API_KEY"); v != "" {
			settings.APIKey = v
			changed = true
		}
		if v := os.Getenv(prefix + "BASE_URL"); v != "" {
			settings.BaseURL = v
			changed = true
		}
		if present || changed {
			c.Services[name] = settings
		}
	}
	return nil
}

// resolveFiles loads _file references into their value fields.
func (c *Config) resolveFiles() error {
	for name, settings := range c.Services {
		if settings.APIKeyFile != "" && settings.APIKey == "" {
			data, err := os.ReadFile(settings.APIKeyFile)
			if err != nil {
				return fmt.Errorf("reading api_key_file for %s: %w", name, err)
			}
			settings.APIKey = strings.TrimSpace(string(data))
			c.Services[name] = settings
		}
	}
	return nil
}

// validate rejects unknown service names so typos fail at load time.
func (c *Config) validate() error {
	for name := range c.Services {
		if !llm.KnownService(llm.Service(name)) {
			return fmt.Errorf("config references unknown service %q", name)
		}
	}
	return nil
}

// Apply fills a call config's empty APIKey, BaseURL, and headers from
// the loaded settings for its service. Values already on the call config
// win.
func (c *Config) Apply(cfg *llm.Config) {
	settings, ok := c.Services[string(cfg.Service)]
	if !ok {
		return
	}
	if cfg.APIKey == "" {
		cfg.APIKey = settings.APIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = settings.BaseURL
	}
	if len(settings.Headers) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = map[string]string{}
		}
		for k, v := range settings.Headers {
			if _, exists := cfg.Headers[k]; !exists {
				cfg.Headers[k] = v
			}
		}
	}
}
