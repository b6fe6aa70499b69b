// Package config loads server configuration. Environment variables provide
// defaults; an optional YAML file (CONFIG_FILE) overrides them.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds everything the server needs at startup.
type Config struct {
	// Port the HTTP server listens on.
	Port string `yaml:"port"`
	// AuthToken guards the /mcp endpoints. Empty disables auth.
	AuthToken string `yaml:"authToken"`

	GitHub    GitHub    `yaml:"github"`
	Store     Store     `yaml:"store"`
	Anthropic Anthropic `yaml:"anthropic"`
}

// GitHub configures the repository API client. Token auth is used when
// Token is set; otherwise App credentials must be provided.
type GitHub struct {
	Owner          string `yaml:"owner"`
	Token          string `yaml:"token"`
	BaseURL        string `yaml:"baseUrl"`
	AppID          int64  `yaml:"appId"`
	InstallationID int64  `yaml:"installationId"`
	PrivateKeyPath string `yaml:"privateKeyPath"`
}

// Store selects and configures the run-store backend.
type Store struct {
	// Backend is "redis" or "postgres".
	Backend     string `yaml:"backend"`
	RedisAddr   string `yaml:"redisAddr"`
	PostgresURL string `yaml:"postgresUrl"`
}

// Anthropic configures the README AI provider. Empty key disables it.
type Anthropic struct {
	APIKey string `yaml:"apiKey"`
}

// Load reads configuration from the environment, then overlays the YAML
// file named by CONFIG_FILE if one is set.
func Load() (*Config, error) {
	cfg := &Config{
		Port:      envOr("PORT", "8080"),
		AuthToken: os.Getenv("AUTH_TOKEN"),
		GitHub: GitHub{
			Owner:          os.Getenv("GITHUB_OWNER"),
			Token:          os.Getenv("GITHUB_TOKEN"),
			BaseURL:        os.Getenv("GITHUB_BASE_URL"),
			PrivateKeyPath: os.Getenv("GITHUB_APP_PRIVATE_KEY_PATH"),
		},
		Store: Store{
			Backend:     envOr("STORE_BACKEND", "redis"),
			RedisAddr:   envOr("REDIS_ADDR", "localhost:6379"),
			PostgresURL: os.Getenv("POSTGRES_URL"),
		},
		Anthropic: Anthropic{
			APIKey: os.Getenv("ANTHROPIC_API_KEY"),
		},
	}
	if _, err := fmt.Sscan(envOr("GITHUB_APP_ID", "0"), &cfg.GitHub.AppID); err != nil {
		return nil, fmt.Errorf("parse GITHUB_APP_ID: %w", err)
	}
	if _, err := fmt.Sscan(envOr("GITHUB_APP_INSTALLATION_ID", "0"), &cfg.GitHub.InstallationID); err != nil {
		return nil, fmt.Errorf("parse GITHUB_APP_INSTALLATION_ID: %w", err)
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.GitHub.Owner == "" {
		return fmt.Errorf("github owner is required (GITHUB_OWNER)")
	}
	if c.GitHub.Token == "" && (c.GitHub.AppID == 0 || c.GitHub.InstallationID == 0 || c.GitHub.PrivateKeyPath == "") {
		return fmt.Errorf("github credentials are required: set GITHUB_TOKEN or the GITHUB_APP_* variables")
	}
	switch c.Store.Backend {
	case "redis", "postgres":
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Backend == "postgres" && c.Store.PostgresURL == "" {
		return fmt.Errorf("postgres store requires POSTGRES_URL")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
