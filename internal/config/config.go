// Package config loads application configuration from file and environment.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Google    GoogleConfig    `mapstructure:"google"`
	Drive     DriveConfig     `mapstructure:"drive"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Summary   SummaryConfig   `mapstructure:"summary"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// GoogleConfig contains OAuth client configuration.
type GoogleConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURI  string `mapstructure:"redirect_uri"`
}

// DriveConfig contains Drive-specific settings.
type DriveConfig struct {
	// DefaultFolder is used when a request does not name a folder.
	DefaultFolder string `mapstructure:"default_folder"`
}

// OpenAIConfig contains summarization provider settings.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// SummaryConfig contains summarization budgets.
type SummaryConfig struct {
	MaxChars  int `mapstructure:"max_chars"`
	MaxTokens int `mapstructure:"max_tokens"`
}

// AuthConfig contains credential storage settings.
type AuthConfig struct {
	// CredentialPath overrides where the credential record is stored.
	CredentialPath string `mapstructure:"credential_path"`
}

// DashboardConfig names where the OAuth callback sends the browser.
type DashboardConfig struct {
	URL string `mapstructure:"url"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load reads configuration from the optional file at path, then overlays
// DRIVEBRIEF_* environment variables (e.g. DRIVEBRIEF_GOOGLE_CLIENT_ID).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("DRIVEBRIEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so environment-only overrides take effect
// during unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")

	v.SetDefault("google.client_id", "")
	v.SetDefault("google.client_secret", "")
	v.SetDefault("google.redirect_uri", "http://localhost:8080/oauth/callback")

	v.SetDefault("drive.default_folder", "")

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.base_url", "")

	v.SetDefault("summary.max_chars", 12000)
	v.SetDefault("summary.max_tokens", 500)

	v.SetDefault("auth.credential_path", "")

	v.SetDefault("dashboard.url", "http://localhost:8080/oauth/status")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}
