// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/hayahub/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// buildUpsertDocumentQuery inserts the record or overwrites the stored copy
// when the incoming one is not older.
func buildUpsertDocumentQuery(ownerID int64, collection string, record models.Record) (string, []any, error) {
	return psql.Insert("documents").
		Columns("owner_id", "collection", "record_id", "data", "hash", "updated_at").
		Values(ownerID, collection, record.ID, string(record.Data), record.Hash, record.UpdatedAt).
		Suffix(`ON CONFLICT (owner_id, collection, record_id) DO UPDATE SET
			data = EXCLUDED.data,
			hash = EXCLUDED.hash,
			updated_at = EXCLUDED.updated_at
		WHERE documents.updated_at <= EXCLUDED.updated_at`).
		ToSql()
}

func buildDeleteDocumentQuery(ownerID int64, collection, recordID string) (string, []any, error) {
	return psql.Delete("documents").
		Where(sq.Eq{
			"owner_id":   ownerID,
			"collection": collection,
			"record_id":  recordID,
		}).
		ToSql()
}

func buildSnapshotQuery(ownerID int64, collection string) (string, []any, error) {
	return psql.Select("record_id", "data", "hash", "updated_at").
		From("documents").
		Where(sq.Eq{"owner_id": ownerID}).
		Where(sq.Eq{"collection": collection}).
		OrderBy("record_id").
		ToSql()
}
