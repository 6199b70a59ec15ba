/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

// Package config loads the toolkit configuration from layered sources:
// built-in defaults, an optional YAML file and environment variables, in
// increasing order of precedence.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	kterrors "github.com/etholab/kinetrack/pkg/errors"
)

// DefaultConfigPaths lists where config files are searched, first hit wins.
var DefaultConfigPaths = []string{
	"kinetrack.yaml",
	"kinetrack.yml",
	"/etc/kinetrack/config.yaml",
	"/etc/kinetrack/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "KINETRACK_CONFIG"

// Config is the full toolkit configuration.
type Config struct {
	FPS        float64          `koanf:"fps" validate:"gte=0"`
	Validation ValidationConfig `koanf:"validation"`
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Samples    SamplesConfig    `koanf:"samples"`
}

// ValidationConfig tunes the file validation runner.
type ValidationConfig struct {
	// Concurrency bounds how many files are validated in parallel.
	Concurrency int `koanf:"concurrency" validate:"gte=1"`
	// HDF5Datasets are the dataset names required of HDF5 pose files.
	HDF5Datasets []string `koanf:"hdf5_datasets"`
}

// ServerConfig tunes the HTTP validation server.
type ServerConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	// RateLimit is the sustained requests-per-second budget per server;
	// RateBurst is the burst allowance on top of it.
	RateLimit float64 `koanf:"rate_limit" validate:"gt=0"`
	RateBurst int     `koanf:"rate_burst" validate:"gte=1"`
	// MaxBodyBytes bounds request body size.
	MaxBodyBytes int64 `koanf:"max_body_bytes" validate:"gt=0"`
}

// LoggingConfig tunes the process-wide slog setup.
type LoggingConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `koanf:"json"`
}

// SamplesConfig tunes the sample dataset downloader.
type SamplesConfig struct {
	// CacheDir is where fetched sample datasets are stored.
	CacheDir string `koanf:"cache_dir" validate:"required"`
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	cacheDir := "~/.cache/kinetrack"
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = home + "/.cache/kinetrack"
	}
	return &Config{
		FPS: 0, // unknown sampling rate, time expressed in frames
		Validation: ValidationConfig{
			Concurrency:  4,
			HDF5Datasets: []string{"tracks", "node_names", "track_names"},
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8195,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       20,
			RateBurst:       40,
			MaxBodyBytes:    1 << 20, // 1MB
		},
		Logging: LoggingConfig{
			Level: "info",
			JSON:  false,
		},
		Samples: SamplesConfig{
			CacheDir: cacheDir,
		},
	}
}

// Load builds the configuration from defaults, an optional config file and
// environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, kterrors.Wrap(err, kterrors.ErrCodeInternal,
			"failed to load configuration defaults")
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, kterrors.Wrap(err, kterrors.ErrCodeFormat,
				"failed to load config file %s", path)
		}
	}

	envProvider := env.ProviderWithValue("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, kterrors.Wrap(err, kterrors.ErrCodeInternal,
			"failed to load environment variables")
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, kterrors.Wrap(err, kterrors.ErrCodeFormat,
			"failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return kterrors.Wrap(err, kterrors.ErrCodeInvalidRequest,
			"configuration validation failed")
	}
	return nil
}

// findConfigFile returns the first existing config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envMappings maps environment variable names to config paths. Unmapped
// variables are ignored so random environment does not pollute the config.
var envMappings = map[string]string{
	"kinetrack_fps": "fps",

	"kinetrack_validation_concurrency":   "validation.concurrency",
	"kinetrack_validation_hdf5_datasets": "validation.hdf5_datasets",

	"kinetrack_server_host":             "server.host",
	"kinetrack_server_port":             "server.port",
	"kinetrack_server_read_timeout":     "server.read_timeout",
	"kinetrack_server_write_timeout":    "server.write_timeout",
	"kinetrack_server_shutdown_timeout": "server.shutdown_timeout",
	"kinetrack_server_rate_limit":       "server.rate_limit",
	"kinetrack_server_rate_burst":       "server.rate_burst",
	"kinetrack_server_max_body_bytes":   "server.max_body_bytes",

	"kinetrack_log_level": "logging.level",
	"kinetrack_log_json":  "logging.json",

	"kinetrack_samples_cache_dir": "samples.cache_dir",
}

// envSliceKeys marks config paths holding lists; their environment values
// are comma-separated.
var envSliceKeys = map[string]bool{
	"validation.hdf5_datasets": true,
}

func envTransformFunc(key, value string) (string, any) {
	mapped, ok := envMappings[strings.ToLower(key)]
	if !ok {
		return "", nil
	}
	if envSliceKeys[mapped] {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return mapped, parts
	}
	return mapped, value
}
