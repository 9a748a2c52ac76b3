// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] in the shape of the JSON
// configuration file. Durations may be written as strings ("20s") or as
// nanosecond numbers.
type StructuredJSONConfig struct {
	App struct {
		OwnerID       int64    `json:"owner_id"`
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Workers struct {
		SyncInterval          Duration `json:"sync_interval"`
		StatusPollInterval    Duration `json:"status_poll_interval"`
		ProbeInterval         Duration `json:"probe_interval"`
		ConnectivityDebounce  Duration `json:"connectivity_debounce"`
		SyncTimeout           Duration `json:"sync_timeout"`
		BackgroundSyncTimeout Duration `json:"background_sync_timeout"`
		BatchSize             int      `json:"batch_size"`
		MaxApplyAttempts      int      `json:"max_apply_attempts"`
		ConflictPolicy        string   `json:"conflict_policy"`
		PruneLocalOnly        bool     `json:"prune_local_only"`
	} `json:"workers,omitempty"`

	Log struct {
		FilePath string `json:"file"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			OwnerID:       jsonCfg.App.OwnerID,
			TokenSignKey:  jsonCfg.App.TokenSignKey,
			TokenIssuer:   jsonCfg.App.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.App.TokenDuration),
		},
		Storage: Storage{
			DB: DB{DSN: jsonCfg.Storage.DB.DSN},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Workers: Workers{
			SyncInterval:          time.Duration(jsonCfg.Workers.SyncInterval),
			StatusPollInterval:    time.Duration(jsonCfg.Workers.StatusPollInterval),
			ProbeInterval:         time.Duration(jsonCfg.Workers.ProbeInterval),
			ConnectivityDebounce:  time.Duration(jsonCfg.Workers.ConnectivityDebounce),
			SyncTimeout:           time.Duration(jsonCfg.Workers.SyncTimeout),
			BackgroundSyncTimeout: time.Duration(jsonCfg.Workers.BackgroundSyncTimeout),
			BatchSize:             jsonCfg.Workers.BatchSize,
			MaxApplyAttempts:      jsonCfg.Workers.MaxApplyAttempts,
			ConflictPolicy:        jsonCfg.Workers.ConflictPolicy,
			PruneLocalOnly:        jsonCfg.Workers.PruneLocalOnly,
		},
		Log: Log{FilePath: jsonCfg.Log.FilePath},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON
// unmarshaling from strings like "1h" or "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
