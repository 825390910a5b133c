// Package config loads and validates session configuration from YAML.
//
// Configuration failures are fatal at startup, before any session begins;
// nothing here is recovered at the turn level.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Error reports malformed or incomplete configuration.
type Error struct {
	Field  string
	Reason string
}

func (e Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Config is the full session configuration.
type Config struct {
	Provider     Provider `yaml:"provider"`
	Servers      []Server `yaml:"servers"`
	BuiltinTools bool     `yaml:"builtin_tools"`
	Sandbox      Sandbox  `yaml:"sandbox"`
}

// Provider selects and parameterises the model-response adapter.
type Provider struct {
	Kind      string `yaml:"kind"` // "anthropic" or "openai"
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`    // openai kind only
	APIKeyEnv string `yaml:"api_key_env"` // name of the env var holding the key
}

// Server describes one MCP server launched over stdio.
type Server struct {
	Name    string   `yaml:"name"`
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	Env     []string `yaml:"env"`
}

// Sandbox sets the roots for the built-in file tools. Empty values default
// to the current working directory.
type Sandbox struct {
	ReadRoot  string `yaml:"read_root"`
	WriteRoot string `yaml:"write_root"`
}

// Default returns the configuration used when no file is given: the
// Anthropic adapter with only the built-in tools.
func Default() *Config {
	return &Config{
		Provider:     Provider{Kind: "anthropic"},
		BuiltinTools: true,
	}
}

// Load reads and validates a YAML configuration file. Unknown fields are
// rejected so typos fail loudly at startup.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, Error{Field: "file", Reason: err.Error()}
	}
	return Parse(b)
}

// Parse decodes and validates raw YAML configuration.
func Parse(b []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, Error{Field: "yaml", Reason: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the decoded configuration for completeness.
func (c *Config) Validate() error {
	switch c.Provider.Kind {
	case "anthropic":
		// Key comes from the SDK's environment convention.
	case "openai":
		if c.Provider.BaseURL == "" {
			return Error{Field: "provider.base_url", Reason: "required for the openai provider"}
		}
		if c.Provider.Model == "" {
			return Error{Field: "provider.model", Reason: "required for the openai provider"}
		}
	case "":
		return Error{Field: "provider.kind", Reason: "required (anthropic or openai)"}
	default:
		return Error{Field: "provider.kind", Reason: fmt.Sprintf("unknown provider %q", c.Provider.Kind)}
	}

	seen := map[string]bool{}
	for i, s := range c.Servers {
		if s.Name == "" {
			return Error{Field: fmt.Sprintf("servers[%d].name", i), Reason: "required"}
		}
		if s.Command == "" {
			return Error{Field: fmt.Sprintf("servers[%d].command", i), Reason: "required"}
		}
		if seen[s.Name] {
			return Error{Field: fmt.Sprintf("servers[%d].name", i), Reason: fmt.Sprintf("duplicate server name %q", s.Name)}
		}
		seen[s.Name] = true
	}
	return nil
}
