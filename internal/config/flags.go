// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses configuration flags from args (without the program
// name). A dedicated FlagSet is used so that the CLI layer can hand over the
// arguments of a sub-command.
//
// Flags:
//
//	-a                       document server listen address [host]:[port]
//	-r                       remote store address used by the client
//	-d                       database DSN (SQLite path or PostgreSQL URI)
//	-c/-config               JSON file path with configs
//	-owner-id                owner identifier
//	-token-sign-key          token signing key
//	-token-issuer            token issuer name
//	-token-duration          token duration (e.g. "1h")
//	-request-timeout         request timeout (e.g. "10s")
//	-sync-interval           fallback sync timer period
//	-sync-timeout            budget of interactive sync passes
//	-batch-size              queue entries per drain batch
//	-conflict-policy         remote_wins or local_wins
//	-log-file                client log file
func ParseFlags(args []string) (*StructuredConfig, error) {
	cfg, _, err := parseFlags(args)
	return cfg, err
}

// PositionalArgs returns the arguments following the configuration flags,
// e.g. the collection and document of "add".
func PositionalArgs(args []string) ([]string, error) {
	_, rest, err := parseFlags(args)
	return rest, err
}

func parseFlags(args []string) (*StructuredConfig, []string, error) {
	fs := flag.NewFlagSet("hayahub", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var serverAddress NetAddress
	var remoteAddress string
	var databaseDSN string
	var jsonConfigPath string
	var ownerID int64
	var tokenSignKey string
	var tokenIssuer string
	var tokenDuration time.Duration
	var requestTimeout time.Duration
	var syncInterval time.Duration
	var syncTimeout time.Duration
	var batchSize int
	var conflictPolicy string
	var logFile string

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&remoteAddress, "r", "", "Remote store address")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.Int64Var(&ownerID, "owner-id", 0, "Owner identifier")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 10s)")
	fs.DurationVar(&syncInterval, "sync-interval", 0, "Fallback sync timer period")
	fs.DurationVar(&syncTimeout, "sync-timeout", 0, "Interactive sync pass budget")
	fs.IntVar(&batchSize, "batch-size", 0, "Queue entries per drain batch")
	fs.StringVar(&conflictPolicy, "conflict-policy", "", "remote_wins or local_wins")
	fs.StringVar(&logFile, "log-file", "", "Client log file")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			OwnerID:       ownerID,
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
		},
		Storage: Storage{
			DB: DB{DSN: databaseDSN},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:    remoteAddress,
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{
			SyncInterval:   syncInterval,
			SyncTimeout:    syncTimeout,
			BatchSize:      batchSize,
			ConflictPolicy: conflictPolicy,
		},
		Log:          Log{FilePath: logFile},
		JSONFilePath: jsonConfigPath,
	}, fs.Args(), nil
}

// String returns a canonical host:port string for a NetAddress, or an empty
// string when nothing was set.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range and checks IP correctness unless host is
// "localhost" or empty (listen on all interfaces).
func (a *NetAddress) Set(s string) error {
	host, portStr, err := net.SplitHostPort(strings.TrimSpace(s))
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}
	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1..65535")
	}

	if host != "localhost" && host != "" {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
