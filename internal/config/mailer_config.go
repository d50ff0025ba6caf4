package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// MailerConfig holds the outbound email provider settings.
type MailerConfig struct {
	Provider ProviderConfig `toml:"provider"`
	Reset    ResetConfig    `toml:"reset"`
}

// ProviderConfig contains the HTTP mail API settings.
type ProviderConfig struct {
	APIEndpoint    string `toml:"api_endpoint"`
	APIKey         string `toml:"api_key"`
	FromAddress    string `toml:"from_address"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// ResetConfig contains password-reset email settings.
type ResetConfig struct {
	FrontendURL string `toml:"frontend_url"` // Base URL the reset link points at
	Subject     string `toml:"subject"`
}

// LoadMailerConfig loads mailer configuration from a TOML file.
func LoadMailerConfig(filename string) (*MailerConfig, error) {
	cfg := &MailerConfig{}
	_, err := toml.DecodeFile(filename, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load mailer config: %w", err)
	}
	if cfg.Provider.TimeoutSeconds <= 0 {
		cfg.Provider.TimeoutSeconds = 10
	}
	if cfg.Reset.Subject == "" {
		cfg.Reset.Subject = "Password Reset Request"
	}
	return cfg, nil
}
