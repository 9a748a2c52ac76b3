// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"

	"github.com/MKhiriev/hayahub/models"
)

// Client defaults applied to zero-valued fields after merging.
const (
	DefaultSyncInterval          = 5 * time.Minute
	DefaultStatusPollInterval    = time.Second
	DefaultProbeInterval         = 5 * time.Second
	DefaultConnectivityDebounce  = time.Second
	DefaultSyncTimeout           = 20 * time.Second
	DefaultBackgroundSyncTimeout = 60 * time.Second
	DefaultBatchSize             = 50
	DefaultMaxApplyAttempts      = 3
	DefaultRequestTimeout        = 10 * time.Second
	DefaultTokenDuration         = time.Hour
	DefaultTokenIssuer           = "hayahub"
)

// ClientApp holds identity and token settings used by the client when it
// authenticates against the remote store.
type ClientApp struct {
	OwnerID       int64
	TokenSignKey  string
	TokenIssuer   string
	TokenDuration time.Duration
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the document server endpoint used by the client.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite file path of the local cache.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	DB ClientDB
}

// ClientWorkers contains reconciliation and polling settings.
type ClientWorkers struct {
	SyncInterval          time.Duration
	StatusPollInterval    time.Duration
	ProbeInterval         time.Duration
	ConnectivityDebounce  time.Duration
	SyncTimeout           time.Duration
	BackgroundSyncTimeout time.Duration
	BatchSize             int
	MaxApplyAttempts      int
	ConflictPolicy        models.ConflictPolicy
	PruneLocalOnly        bool
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Workers ClientWorkers
	// LogFilePath is where the client log is written. Empty selects the
	// default location next to the executable.
	LogFilePath string
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, fills defaults and validates the result.
func GetClientConfig(args []string) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	if err = clientCfg.validate(); err != nil {
		return nil, fmt.Errorf("error validating client configs: %w", err)
	}

	return clientCfg, nil
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	clientCfg := &ClientConfig{
		App: ClientApp{
			OwnerID:       cfg.App.OwnerID,
			TokenSignKey:  cfg.App.TokenSignKey,
			TokenIssuer:   cfg.App.TokenIssuer,
			TokenDuration: cfg.App.TokenDuration,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{DSN: cfg.Storage.DB.DSN},
		},
		Workers: ClientWorkers{
			SyncInterval:          cfg.Workers.SyncInterval,
			StatusPollInterval:    cfg.Workers.StatusPollInterval,
			ProbeInterval:         cfg.Workers.ProbeInterval,
			ConnectivityDebounce:  cfg.Workers.ConnectivityDebounce,
			SyncTimeout:           cfg.Workers.SyncTimeout,
			BackgroundSyncTimeout: cfg.Workers.BackgroundSyncTimeout,
			BatchSize:             cfg.Workers.BatchSize,
			MaxApplyAttempts:      cfg.Workers.MaxApplyAttempts,
			ConflictPolicy:        models.ConflictPolicy(cfg.Workers.ConflictPolicy),
			PruneLocalOnly:        cfg.Workers.PruneLocalOnly,
		},
		LogFilePath: cfg.Log.FilePath,
	}
	clientCfg.applyDefaults()

	return clientCfg
}

func (cfg *ClientConfig) applyDefaults() {
	setDefault(&cfg.App.TokenIssuer, DefaultTokenIssuer)
	setDefault(&cfg.App.TokenDuration, DefaultTokenDuration)
	setDefault(&cfg.Adapter.RequestTimeout, DefaultRequestTimeout)
	setDefault(&cfg.Workers.SyncInterval, DefaultSyncInterval)
	setDefault(&cfg.Workers.StatusPollInterval, DefaultStatusPollInterval)
	setDefault(&cfg.Workers.ProbeInterval, DefaultProbeInterval)
	setDefault(&cfg.Workers.ConnectivityDebounce, DefaultConnectivityDebounce)
	setDefault(&cfg.Workers.SyncTimeout, DefaultSyncTimeout)
	setDefault(&cfg.Workers.BackgroundSyncTimeout, DefaultBackgroundSyncTimeout)
	setDefault(&cfg.Workers.BatchSize, DefaultBatchSize)
	setDefault(&cfg.Workers.MaxApplyAttempts, DefaultMaxApplyAttempts)
	setDefault(&cfg.Workers.ConflictPolicy, models.ConflictRemoteWins)
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}
