// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/hayahub/internal/logger"
	"github.com/MKhiriev/hayahub/models"
)

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newDBFromSQL(db *sql.DB) *DB {
	return &DB{
		DB:                 db,
		errorClassificator: NewPostgresErrorClassifier(),
		logger:             logger.Nop(),
	}
}

var recordColumns = []string{"record_id", "data", "hash", "updated_at"}

// ── ReadSnapshot ──

func TestLocalRecordRepository_ReadSnapshot(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewLocalRecordRepository(newDBFromSQL(db), logger.Nop())
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(selectCollectionRecords)).
		WithArgs(models.CollectionExpenses).
		WillReturnRows(sqlmock.NewRows(recordColumns).
			AddRow("e1", `{"id":"e1"}`, "h1", at).
			AddRow("e2", `{"id":"e2"}`, "h2", at))

	records, err := repo.ReadSnapshot(context.Background(), models.CollectionExpenses)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "e1", records[0].ID)
	assert.JSONEq(t, `{"id":"e1"}`, string(records[0].Data))
	assert.Equal(t, "h2", records[1].Hash)
	assert.True(t, at.Equal(records[1].UpdatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocalRecordRepository_ReadSnapshot_Empty(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewLocalRecordRepository(newDBFromSQL(db), logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta(selectCollectionRecords)).
		WithArgs(models.CollectionTasks).
		WillReturnRows(sqlmock.NewRows(recordColumns))

	records, err := repo.ReadSnapshot(context.Background(), models.CollectionTasks)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLocalRecordRepository_ReadSnapshot_QueryError(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewLocalRecordRepository(newDBFromSQL(db), logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta(selectCollectionRecords)).
		WillReturnError(errors.New("disk I/O error"))

	_, err := repo.ReadSnapshot(context.Background(), models.CollectionTasks)
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestLocalRecordRepository_ReadSnapshot_ScanError(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewLocalRecordRepository(newDBFromSQL(db), logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta(selectCollectionRecords)).
		WillReturnRows(sqlmock.NewRows(recordColumns).AddRow("e1", `{}`, "h", "not-a-time"))

	_, err := repo.ReadSnapshot(context.Background(), models.CollectionTasks)
	assert.ErrorIs(t, err, ErrScanningRow)
}

// ── WriteSnapshot ──

func TestLocalRecordRepository_WriteSnapshot(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewLocalRecordRepository(newDBFromSQL(db), logger.Nop())
	at := time.Now().UTC()
	records := []models.Record{
		{ID: "e1", Data: json.RawMessage(`{"id":"e1"}`), Hash: "h1", UpdatedAt: at},
		{ID: "e2", Data: json.RawMessage(`{"id":"e2"}`), Hash: "h2", UpdatedAt: at},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(deleteCollectionRecords)).
		WithArgs(models.CollectionExpenses).
		WillReturnResult(sqlmock.NewResult(0, 3))
	prep := mock.ExpectPrepare(regexp.QuoteMeta(upsertRecord))
	prep.ExpectExec().
		WithArgs(models.CollectionExpenses, "e1", `{"id":"e1"}`, "h1", at).
		WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().
		WithArgs(models.CollectionExpenses, "e2", `{"id":"e2"}`, "h2", at).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.WriteSnapshot(context.Background(), models.CollectionExpenses, records))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocalRecordRepository_WriteSnapshot_InsertFailsRollsBack(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewLocalRecordRepository(newDBFromSQL(db), logger.Nop())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(deleteCollectionRecords)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPrepare(regexp.QuoteMeta(upsertRecord)).
		ExpectExec().
		WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	err := repo.WriteSnapshot(context.Background(), models.CollectionExpenses, []models.Record{
		{ID: "e1", Data: json.RawMessage(`{}`), UpdatedAt: time.Now()},
	})
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocalRecordRepository_WriteSnapshot_BeginFails(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewLocalRecordRepository(newDBFromSQL(db), logger.Nop())

	mock.ExpectBegin().WillReturnError(errors.New("locked"))

	err := repo.WriteSnapshot(context.Background(), models.CollectionExpenses, nil)
	assert.ErrorIs(t, err, ErrBeginningTransaction)
}

// ── SaveRecord / DeleteRecord ──

func TestLocalRecordRepository_SaveRecord(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewLocalRecordRepository(newDBFromSQL(db), logger.Nop())
	at := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta(upsertRecord)).
		WithArgs(models.CollectionQuotes, "q1", `{"id":"q1"}`, "h", at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.SaveRecord(context.Background(), models.CollectionQuotes,
		models.Record{ID: "q1", Data: json.RawMessage(`{"id":"q1"}`), Hash: "h", UpdatedAt: at})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocalRecordRepository_SaveRecord_Error(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewLocalRecordRepository(newDBFromSQL(db), logger.Nop())

	mock.ExpectExec(regexp.QuoteMeta(upsertRecord)).WillReturnError(errors.New("readonly"))

	err := repo.SaveRecord(context.Background(), models.CollectionQuotes, models.Record{ID: "q1"})
	assert.ErrorIs(t, err, ErrExecutingStatement)
}

func TestLocalRecordRepository_DeleteRecord(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewLocalRecordRepository(newDBFromSQL(db), logger.Nop())

	mock.ExpectExec(regexp.QuoteMeta(deleteRecord)).
		WithArgs(models.CollectionWishlist, "w1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.DeleteRecord(context.Background(), models.CollectionWishlist, "w1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
