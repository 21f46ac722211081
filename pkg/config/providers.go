// Package config provides configuration loading for provider clients.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GmailConfig configures the mailbox provider client and its OAuth app.
type GmailConfig struct {
	BaseURL      string `yaml:"base_url"`
	TokenURL     string `yaml:"token_url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// OpenRouterConfig configures the AI model provider client.
type OpenRouterConfig struct {
	BaseURL      string `yaml:"base_url"`
	SharedAPIKey string `yaml:"shared_api_key"`
}

// NotionConfig configures the note provider client.
type NotionConfig struct {
	BaseURL     string `yaml:"base_url"`
	SharedToken string `yaml:"shared_token"`
}

// TelegramConfig configures the chat provider client.
type TelegramConfig struct {
	BaseURL        string `yaml:"base_url"`
	SharedBotToken string `yaml:"shared_bot_token"`
}

// Providers is the providers.yaml file: base URLs plus optional shared
// service-level tokens used when a user has no credential of their own.
type Providers struct {
	Gmail      GmailConfig      `yaml:"gmail"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Notion     NotionConfig     `yaml:"notion"`
	Telegram   TelegramConfig   `yaml:"telegram"`
}

// SharedTokens returns the configured service-level tokens keyed by
// service name, for the shared credential resolver.
func (p *Providers) SharedTokens() map[string]string {
	return map[string]string{
		"openrouter": p.OpenRouter.SharedAPIKey,
		"notion":     p.Notion.SharedToken,
		"telegram":   p.Telegram.SharedBotToken,
	}
}

// LoadProviders loads provider configuration from a YAML file.
func LoadProviders(filepath string) (*Providers, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filepath, err)
	}

	var providers Providers
	if err := yaml.Unmarshal(data, &providers); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	applyEnvOverrides(&providers)

	return &providers, nil
}

// LoadProvidersOrDefault attempts to load provider config from a file,
// falling back to defaults (env-overridable) if the file doesn't exist.
func LoadProvidersOrDefault(filepath string) *Providers {
	providers, err := LoadProviders(filepath)
	if err != nil {
		providers = &Providers{}
		applyEnvOverrides(providers)
	}

	return providers
}

func applyEnvOverrides(providers *Providers) {
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		providers.Gmail.ClientID = v
	}

	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		providers.Gmail.ClientSecret = v
	}

	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		providers.OpenRouter.SharedAPIKey = v
	}

	if v := os.Getenv("NOTION_TOKEN"); v != "" {
		providers.Notion.SharedToken = v
	}

	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		providers.Telegram.SharedBotToken = v
	}
}
