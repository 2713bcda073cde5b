package config

// ProviderType identifies a response generator implementation.
type ProviderType string

const (
	ProviderStub   ProviderType = "stub"
	ProviderOpenAI ProviderType = "openai"
)

// Config is the top-level bot-farm configuration, corresponding to
// .botfarm.yml.
type Config struct {
	Server    ServerConfig    `yaml:"server" koanf:"server"`
	Gateway   string          `yaml:"gateway" koanf:"gateway"` // base URL clients and the bridge reach the gateway at
	Keys      APIKeys         `yaml:"keys" koanf:"keys"`
	Telegram  TelegramConfig  `yaml:"telegram" koanf:"telegram"`
	Generator GeneratorConfig `yaml:"generator" koanf:"generator"`
}

// ServerConfig holds the HTTP transport settings.
type ServerConfig struct {
	Port    int      `yaml:"port" koanf:"port"`
	Origins []string `yaml:"origins" koanf:"origins"`
}

// APIKeys holds the per-surface gateway API keys. Requests authenticate
// with any configured key via the X-API-Key header.
type APIKeys struct {
	Telegram string `yaml:"telegram" koanf:"telegram"`
	Web      string `yaml:"web" koanf:"web"`
	CLI      string `yaml:"cli" koanf:"cli"`
}

// List returns the configured (non-empty) keys.
func (k APIKeys) List() []string {
	var keys []string
	for _, key := range []string{k.Telegram, k.Web, k.CLI} {
		if key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// TelegramConfig holds the long-poll bridge settings.
type TelegramConfig struct {
	Token string `yaml:"token" koanf:"token"`
}

// GeneratorConfig selects the response generator implementation.
type GeneratorConfig struct {
	Provider ProviderType `yaml:"provider" koanf:"provider"`
	Model    string       `yaml:"model" koanf:"model"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    8000,
			Origins: []string{"*"},
		},
		Gateway: "http://localhost:8000",
		Generator: GeneratorConfig{
			Provider: ProviderStub,
			Model:    "gpt-4o-mini",
		},
	}
}
