// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// ServerConfig is the document server view of [StructuredConfig].
type ServerConfig struct {
	HTTPAddress    string
	RequestTimeout time.Duration
	DSN            string
	TokenSignKey   string
	TokenIssuer    string
}

// GetServerConfig loads the merged configuration and projects the fields the
// reference document server needs.
func GetServerConfig(args []string) (*ServerConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		HTTPAddress:    cfg.Server.HTTPAddress,
		RequestTimeout: cfg.Server.RequestTimeout,
		DSN:            cfg.Storage.DB.DSN,
		TokenSignKey:   cfg.App.TokenSignKey,
		TokenIssuer:    cfg.App.TokenIssuer,
	}
	setDefault(&serverCfg.RequestTimeout, DefaultRequestTimeout)
	setDefault(&serverCfg.TokenIssuer, DefaultTokenIssuer)

	if err = serverCfg.validate(); err != nil {
		return nil, fmt.Errorf("error validating server configs: %w", err)
	}

	return serverCfg, nil
}
