package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const (
	EnvConfigPath = "GOLC_CONFIG" // path of the YAML config
	EnvMode       = "GOLC_MODE"   // overrides mode
	EnvLogLevel   = "GOLC_LOG_LEVEL"
)

// LoadEnv reads .env files into the process environment. Missing files are
// not an error; variables already set are left alone.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Resolve loads the configuration from path, GOLC_CONFIG or golc.yaml, in
// that order. Only an explicitly named file must exist; otherwise the
// defaults are used. Environment overrides are applied last.
func Resolve(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		if p := os.Getenv(EnvConfigPath); p != "" {
			path, explicit = p, true
		} else {
			path = DefaultPath
		}
	}

	cfg := DefaultConfig()
	if _, err := os.Stat(path); err == nil || explicit {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if m := os.Getenv(EnvMode); m != "" {
		cfg.Mode = m
	}
	if l := os.Getenv(EnvLogLevel); l != "" {
		cfg.Logging.Level = l
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
