// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// ConnectivityState is the process-wide view of network reachability.
// It is owned by the connectivity monitor; everyone else reads copies.
type ConnectivityState struct {
	IsOnline         bool      `json:"is_online"`
	LastTransitionAt time.Time `json:"last_transition_at"`
}
