// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/hayahub/models"
)

var (
	// ErrRemoteUnavailable covers network errors, timeouts and 5xx answers.
	ErrRemoteUnavailable = fmt.Errorf("adapter: %w", models.ErrRemoteUnavailable)

	// ErrRejected covers 4xx answers other than 401/403.
	ErrRejected = fmt.Errorf("adapter: %w", models.ErrRemoteRejected)

	// ErrUnauthorized is returned on 401/403; the signing key or owner is wrong.
	ErrUnauthorized = fmt.Errorf("adapter: client unauthorized: %w", models.ErrRemoteRejected)

	ErrInvalidAddress = errors.New("invalid remote store address")
	ErrMintingToken   = errors.New("error minting access token")
	ErrDecodingBody   = errors.New("error decoding response body")
)
