// Package config loads server configuration from an optional YAML file,
// with environment variables taking precedence over both the file and the
// built-in defaults.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration.
type Config struct {
	Port        int    `yaml:"port"`
	DBPath      string `yaml:"db_path"`
	SessionPath string `yaml:"session_path"`
	TokenSecret string `yaml:"token_secret"`
}

// Default returns the configuration used when no file and no environment
// overrides are present. The default secret is fine for a local demo; any
// real deployment sets BM_TOKEN_SECRET.
func Default() Config {
	return Config{
		Port:        8080,
		DBPath:      "data/boardmate.db",
		SessionPath: "data/session.json",
		TokenSecret: "boardmate-demo-dev-secret",
	}
}

// Load reads the YAML file at path when it exists, then applies
// environment overrides. A missing file is not an error; a malformed one
// is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env overrides
		case err != nil:
			return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("config: port %d out of range", cfg.Port)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("BM_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("BM_SESSION_PATH"); v != "" {
		cfg.SessionPath = v
	}
	if v := os.Getenv("BM_TOKEN_SECRET"); v != "" {
		cfg.TokenSecret = v
	}
}
