package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (BOTFARM_*). BOTFARM_TELEGRAM_TOKEN maps
// to telegram.token, BOTFARM_KEYS_WEB to keys.web, and so on.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables.
	if err := k.Load(env.Provider("BOTFARM_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "BOTFARM_"))
		return strings.ReplaceAll(s, "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized generator provider values.
var validProviders = map[ProviderType]bool{
	ProviderStub:   true,
	ProviderOpenAI: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}

	if len(c.Keys.List()) == 0 {
		return fmt.Errorf("no API keys configured: set at least one of keys.telegram, keys.web, keys.cli")
	}

	if c.Generator.Provider != "" && !validProviders[c.Generator.Provider] {
		return fmt.Errorf("invalid generator provider %q: must be one of stub, openai", c.Generator.Provider)
	}

	if c.Generator.Provider == ProviderOpenAI {
		if c.Generator.Model == "" {
			return fmt.Errorf("generator model is required for the openai provider")
		}
		if os.Getenv("OPENAI_API_KEY") == "" {
			return fmt.Errorf("OPENAI_API_KEY is not set")
		}
	}

	return nil
}
