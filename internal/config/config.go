// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// HayaHub client and the reference document server. It is populated by
// merging environment variables, command-line flags and an optional JSON
// file; the client and the server then project the parts they need into
// [ClientConfig] and [ServerConfig].
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env:       direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds identity and token settings shared by client and server.
	App App `envPrefix:"APP_"`
	// Storage holds the database settings. The client reads a SQLite file
	// path from it, the server a PostgreSQL DSN.
	Storage Storage `envPrefix:"STORAGE_"`
	// Server holds inbound HTTP settings of the document server.
	Server Server `envPrefix:"SERVER_"`
	// Adapter holds outbound settings the client uses to reach the remote
	// store.
	Adapter Adapter `envPrefix:"ADAPTER_"`
	// Workers holds reconciliation tuning for the client background workers.
	Workers Workers `envPrefix:"WORKERS_"`
	// Log holds log output settings.
	Log Log `envPrefix:"LOG_"`
	// JSONFilePath is the optional path to a JSON configuration file, merged
	// on top of env and flag values.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds identity and token settings.
type App struct {
	// OwnerID identifies the single owner of the synchronized data. It is
	// placed in the "sub" claim of tokens minted by the client.
	// Env: APP_OWNER_ID
	OwnerID int64 `env:"OWNER_ID"`
	// TokenSignKey is the shared HMAC secret used by the client to sign and
	// by the server to verify bearer tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`
	// TokenIssuer is the "iss" claim expected on every token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`
	// TokenDuration is the lifetime of tokens minted by the client.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`
}

// Storage groups the database configuration.
type Storage struct {
	// DB holds the connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds database connection settings.
type DB struct {
	// DSN is the SQLite file path (client) or the PostgreSQL connection
	// string (server).
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Server holds the document server's inbound settings.
type Server struct {
	// HTTPAddress is the "host:port" the HTTP API listens on.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`
	// RequestTimeout bounds the handling of a single request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds the client's outbound settings for the remote store.
type Adapter struct {
	// HTTPAddress is the base address of the document server, with or
	// without scheme (e.g. "localhost:8080", "https://hub.example.org").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`
	// RequestTimeout bounds a single outbound request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds the reconciliation and polling settings of the client.
type Workers struct {
	// SyncInterval is the period of the fallback timer trigger.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`
	// StatusPollInterval is how often the status view polls sync state.
	// Env: WORKERS_STATUS_POLL_INTERVAL
	StatusPollInterval time.Duration `env:"STATUS_POLL_INTERVAL"`
	// ProbeInterval is how often connectivity is probed.
	// Env: WORKERS_PROBE_INTERVAL
	ProbeInterval time.Duration `env:"PROBE_INTERVAL"`
	// ConnectivityDebounce suppresses transitions closer than this to the
	// previous one.
	// Env: WORKERS_CONNECTIVITY_DEBOUNCE
	ConnectivityDebounce time.Duration `env:"CONNECTIVITY_DEBOUNCE"`
	// SyncTimeout is the wall-clock budget of reconnect and manual passes.
	// Env: WORKERS_SYNC_TIMEOUT
	SyncTimeout time.Duration `env:"SYNC_TIMEOUT"`
	// BackgroundSyncTimeout is the budget of timer-triggered passes.
	// Env: WORKERS_BACKGROUND_SYNC_TIMEOUT
	BackgroundSyncTimeout time.Duration `env:"BACKGROUND_SYNC_TIMEOUT"`
	// BatchSize caps the number of entries taken from the queue at once.
	// Env: WORKERS_BATCH_SIZE
	BatchSize int `env:"BATCH_SIZE"`
	// MaxApplyAttempts caps the attempts per entry within one pass.
	// Env: WORKERS_MAX_APPLY_ATTEMPTS
	MaxApplyAttempts int `env:"MAX_APPLY_ATTEMPTS"`
	// ConflictPolicy is "remote_wins" or "local_wins".
	// Env: WORKERS_CONFLICT_POLICY
	ConflictPolicy string `env:"CONFLICT_POLICY"`
	// PruneLocalOnly removes local records that vanished remotely and have
	// no pending mutation.
	// Env: WORKERS_PRUNE_LOCAL_ONLY
	PruneLocalOnly bool `env:"PRUNE_LOCAL_ONLY"`
}

// Log holds log output settings.
type Log struct {
	// FilePath is where the client writes its log. Empty means a "logs"
	// file next to the executable.
	// Env: LOG_FILE
	FilePath string `env:"FILE"`
}

// GetStructuredConfig loads and merges the configuration from all sources in
// the following priority order (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags (args, without the program name)
//  3. JSON file (path resolved from sources 1 and 2)
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		build()
}
