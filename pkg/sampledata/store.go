/*
Copyright © 2026 Etholab Contributors
SPDX-License-Identifier: Apache-2.0
*/

package sampledata

import (
	"context"
	_ "embed"
	"sync"

	"gopkg.in/yaml.v3"

	kterrors "github.com/etholab/kinetrack/pkg/errors"
)

var (
	//go:embed data/registry.yaml
	registryData []byte

	registryOnce   sync.Once
	cachedRegistry *Registry
	cachedErr      error
)

// loadRegistry loads and caches the sample dataset registry from embedded
// data. The registry is embedded at build time, so it is parsed once and the
// in-memory representation is reused for the lifetime of the process.
func loadRegistry(_ context.Context) (*Registry, error) {
	registryOnce.Do(func() {
		var reg Registry
		if err := yaml.Unmarshal(registryData, &reg); err != nil {
			cachedErr = err
			return
		}
		cachedRegistry = &reg
	})

	if cachedErr != nil {
		return nil, cachedErr
	}
	if cachedRegistry == nil {
		return nil, kterrors.New(kterrors.ErrCodeInternal, "sample data registry not initialized")
	}
	return cachedRegistry, nil
}
