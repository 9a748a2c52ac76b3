// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ConflictPolicy decides what happens to a local record without pending
// mutations when the remote snapshot carries a different version of it.
// Records with pending local mutations are never overwritten, whatever the
// policy.
type ConflictPolicy string

const (
	// ConflictRemoteWins overwrites local records that are missing locally or
	// older than the remote copy. Timestamp ties with different content are
	// resolved in favour of the remote copy.
	ConflictRemoteWins ConflictPolicy = "remote_wins"

	// ConflictLocalWins only adds records that exist remotely but not
	// locally; existing local records are kept as they are.
	ConflictLocalWins ConflictPolicy = "local_wins"
)

// Valid reports whether p is a supported policy.
func (p ConflictPolicy) Valid() bool {
	return p == ConflictRemoteWins || p == ConflictLocalWins
}
