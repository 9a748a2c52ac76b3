// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

const (
	selectCollectionRecords = `
		SELECT record_id, data, hash, updated_at
		FROM records
		WHERE collection = ?
		ORDER BY record_id;`

	upsertRecord = `
		INSERT INTO records (collection, record_id, data, hash, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (collection, record_id) DO UPDATE SET
			data       = excluded.data,
			hash       = excluded.hash,
			updated_at = excluded.updated_at;`

	deleteRecord = `
		DELETE FROM records
		WHERE collection = ? AND record_id = ?;`

	deleteCollectionRecords = `
		DELETE FROM records
		WHERE collection = ?;`

	insertQueueEntry = `
		INSERT INTO sync_queue (entry_id, collection, operation, payload, enqueued_at)
		VALUES (?, ?, ?, ?, ?);`

	selectQueueEntries = `
		SELECT entry_id, collection, operation, payload, enqueued_at
		FROM sync_queue
		ORDER BY seq;`
)
