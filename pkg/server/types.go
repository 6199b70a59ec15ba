/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/etholab/kinetrack/pkg/config"
	"github.com/etholab/kinetrack/pkg/validators"
)

// ErrorResponse is the JSON error body returned by every endpoint.
type ErrorResponse struct {
	Code      string         `json:"code" yaml:"code"`
	Message   string         `json:"message" yaml:"message"`
	Details   map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	RequestID string         `json:"requestId" yaml:"requestId"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
	Retryable bool           `json:"retryable" yaml:"retryable"`
}

// HealthResponse is the body of /health and /ready.
type HealthResponse struct {
	Status    string    `json:"status" yaml:"status"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Reason    string    `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// ValidateRequest is the body of POST /v1/validate.
type ValidateRequest struct {
	// Paths are the files to validate, resolved on the server's filesystem.
	Paths []string `json:"paths" validate:"required,min=1,dive,required"`
	// HDF5Datasets overrides the dataset names required of HDF5 files.
	HDF5Datasets []string `json:"hdf5Datasets,omitempty"`
}

// ValidateResponse wraps a validation report with its request ID.
type ValidateResponse struct {
	RequestID string             `json:"requestId" yaml:"requestId"`
	Report    *validators.Report `json:"report" yaml:"report"`
}

// Config holds the HTTP server configuration.
type Config struct {
	Address string
	Port    int

	RateLimit      rate.Limit // requests per second
	RateLimitBurst int

	MaxBodyBytes int64

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Concurrency and HDF5Datasets seed the validation runner.
	Concurrency  int
	HDF5Datasets []string
}

// DefaultConfig returns server defaults matching the toolkit configuration
// defaults.
func DefaultConfig() *Config {
	return FromConfig(config.Default())
}

// FromConfig builds a server Config from the toolkit configuration.
func FromConfig(cfg *config.Config) *Config {
	return &Config{
		Address:         cfg.Server.Host,
		Port:            cfg.Server.Port,
		RateLimit:       rate.Limit(cfg.Server.RateLimit),
		RateLimitBurst:  cfg.Server.RateBurst,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Concurrency:     cfg.Validation.Concurrency,
		HDF5Datasets:    cfg.Validation.HDF5Datasets,
	}
}
