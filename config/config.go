// Package config resolves harness settings from the environment, an optional
// .env file and command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/oracle/oci-go-sdk/v65/common"
)

// Config holds connection and logging settings. Benchmark shape (counts,
// batch size, phases) comes from flags, see benchmark.BenchmarkParams.
type Config struct {
	ServerURL string `env:"ARTIFACT_REPO_URL" envDefault:"http://localhost:8080/artificer-server"`
	Username  string `env:"ARTIFACT_REPO_USER" envDefault:"artificer"`
	Password  string `env:"ARTIFACT_REPO_PASSWORD"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`

	// Only used when the payload lives in OCI Object Storage.
	OCIConfigFile string `env:"OCI_CONFIG_FILE" envDefault:"~/.oci/config"`
	OCIProfile    string `env:"OCI_PROFILE" envDefault:"DEFAULT"`
}

// Load reads envFile (or ./.env when envFile is empty and the file exists)
// and then parses the environment into a Config.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// Validate checks that mandatory fields are set.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("ARTIFACT_REPO_URL is required")
	}
	if !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		return fmt.Errorf("ARTIFACT_REPO_URL must be an http(s) URL, got %q", c.ServerURL)
	}
	return nil
}

// LoadOCIConfig loads the OCI configuration provider from c's config file
// and profile.
func (c *Config) LoadOCIConfig() (common.ConfigurationProvider, error) {
	path, err := expandHome(c.OCIConfigFile)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("OCI config file %s: %w", path, err)
	}
	return common.CustomProfileConfigProvider(path, c.OCIProfile), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
