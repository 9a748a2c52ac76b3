// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"
)

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.App.TokenSignKey == "" || cfg.App.OwnerID <= 0 {
		return ErrInvalidAppConfigs
	}

	if cfg.Workers.BatchSize <= 0 || cfg.Workers.MaxApplyAttempts <= 0 {
		return ErrInvalidWorkerConfigs
	}

	if !cfg.Workers.ConflictPolicy.Valid() {
		return fmt.Errorf("%w: unknown conflict policy %q", ErrInvalidWorkerConfigs, cfg.Workers.ConflictPolicy)
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.TokenSignKey == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}
