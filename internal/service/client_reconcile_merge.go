// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"slices"
	"strings"

	"github.com/MKhiriev/hayahub/models"
)

// mergeResult is the outcome of comparing one local snapshot with the
// matching remote snapshot.
type mergeResult struct {
	// Records is the new local snapshot, ordered by id.
	Records []models.Record
	// Pulled counts records created or overwritten from the remote side.
	Pulled int
	// Pruned counts local-only records dropped because they are gone
	// remotely.
	Pruned int
}

// Changed reports whether the local snapshot has to be rewritten.
func (m mergeResult) Changed() bool {
	return m.Pulled > 0 || m.Pruned > 0
}

// mergeSnapshots reconciles local with remote for a single collection.
//
// Records listed in pending have local mutations that have not reached the
// remote store yet; they are left exactly as they are locally, whatever the
// policy. For the rest:
//
//   - Pass 1 (over remote): remote-only records are added. Under
//     [models.ConflictRemoteWins] a remote copy that is newer, or equally
//     old with different content, overwrites the local one.
//   - Pass 2 (over local): local-only records are kept, unless prune is set.
//
// The function is pure; it does not touch either store.
func mergeSnapshots(
	local, remote []models.Record,
	pending map[string]struct{},
	policy models.ConflictPolicy,
	prune bool,
) mergeResult {
	var result mergeResult

	localIndex := make(map[string]models.Record, len(local))
	for _, r := range local {
		localIndex[r.ID] = r
	}

	remoteIndex := make(map[string]struct{}, len(remote))
	merged := make(map[string]models.Record, len(local)+len(remote))

	// ── Pass 1: remote records ──────────────────────────────────────────────
	for _, rr := range remote {
		remoteIndex[rr.ID] = struct{}{}

		if _, isPending := pending[rr.ID]; isPending {
			continue
		}

		lr, existsLocally := localIndex[rr.ID]
		switch {
		case !existsLocally:
			merged[rr.ID] = rr
			result.Pulled++

		case policy == models.ConflictRemoteWins && remoteWins(lr, rr):
			merged[rr.ID] = rr
			result.Pulled++
		}
	}

	// ── Pass 2: local records not replaced above ────────────────────────────
	for _, lr := range local {
		if _, replaced := merged[lr.ID]; replaced {
			continue
		}

		_, existsRemotely := remoteIndex[lr.ID]
		_, isPending := pending[lr.ID]
		if prune && !existsRemotely && !isPending {
			result.Pruned++
			continue
		}

		merged[lr.ID] = lr
	}

	result.Records = make([]models.Record, 0, len(merged))
	for _, r := range merged {
		result.Records = append(result.Records, r)
	}
	slices.SortFunc(result.Records, func(a, b models.Record) int {
		return strings.Compare(a.ID, b.ID)
	})

	return result
}

// remoteWins reports whether the remote copy should replace the local one.
// Timestamp ties with diverging content go to the remote copy.
func remoteWins(local, remote models.Record) bool {
	if remote.UpdatedAt.After(local.UpdatedAt) {
		return true
	}
	return remote.UpdatedAt.Equal(local.UpdatedAt) && remote.Hash != local.Hash
}
