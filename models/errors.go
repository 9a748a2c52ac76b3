// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "errors"

// Remote-store failure kinds shared by the transport adapter and the sync
// core. The adapter wraps them with its own context; the core matches them
// with errors.Is without importing the adapter.
var (
	// ErrRemoteUnavailable marks a transient failure: network error, timeout
	// or a 5xx response. The mutation may succeed on a later attempt.
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// ErrRemoteRejected marks a permanent refusal of a mutation (4xx other
	// than auth failures). Retrying the same entry within a pass is pointless.
	ErrRemoteRejected = errors.New("remote store rejected the mutation")
)
