package myconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port               string        `envconfig:"PORT" default:"8080"`
	BaseURL            string        `envconfig:"BASE_URL"`
	GithubClientID     string        `envconfig:"GITHUB_CLIENT_ID"`
	GithubClientSecret string        `envconfig:"GITHUB_CLIENT_SECRET"`
	GithubOAuthURL     string        `envconfig:"GITHUB_OAUTH_URL" default:"https://github.com"`
	GithubAPIURL       string        `envconfig:"GITHUB_API_URL" default:"https://api.github.com"`
	GithubScopes       string        `envconfig:"GITHUB_SCOPES" default:"public_repo"`
	CloudflareAPIURL   string        `envconfig:"CLOUDFLARE_API_URL" default:"https://api.cloudflare.com/client/v4"`
	RedisURL           string        `envconfig:"REDIS_URL"`
	GoogleCloudProject string        `envconfig:"GOOGLE_CLOUD_PROJECT"`
	StaticDir          string        `envconfig:"STATIC_DIR" default:"public"`
	SessionTTL         time.Duration `envconfig:"SESSION_TTL" default:"1h"`
	APIMaxRPS          float64       `envconfig:"API_MAX_RPS" default:"10"`
}

// Load reads the optional dot-env files first, so that real environment variables still take precedence.
func Load(envFiles ...string) (Config, error) {
	err := godotenv.Load(envFiles...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("error loading env-file: %s", err)
	}

	cfg := Config{}
	err = envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("error processing environment configuration: %s", err)
	}

	return cfg, nil
}

func (c Config) ValidateForServer() error {
	if c.GithubClientID == "" {
		return fmt.Errorf("missing GITHUB_CLIENT_ID")
	}
	if c.GithubClientSecret == "" {
		return fmt.Errorf("missing GITHUB_CLIENT_SECRET")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}
