// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/hayahub/internal/logger"
	"github.com/MKhiriev/hayahub/internal/utils"
	"github.com/MKhiriev/hayahub/internal/validators"
	"github.com/MKhiriev/hayahub/models"
)

type syncNudger interface {
	Nudge(reason models.SyncTrigger)
}

type clientRecordService struct {
	local     LocalStore
	queue     SyncQueue
	locks     *collectionLocks
	monitor   ConnectivityMonitor
	nudger    syncNudger
	validator validators.Validator
	ids       idGenerator
	now       func() time.Time

	logger *logger.Logger
}

// NewClientRecordService creates the local mutation service. monitor and
// nudger are optional; when both are set an online mutation asks for a sync
// pass right away.
func NewClientRecordService(local LocalStore, queue SyncQueue, monitor ConnectivityMonitor, nudger syncNudger, logger *logger.Logger) ClientRecordService {
	return newClientRecordService(local, queue, newCollectionLocks(), monitor, nudger, logger)
}

func newClientRecordService(
	local LocalStore,
	queue SyncQueue,
	locks *collectionLocks,
	monitor ConnectivityMonitor,
	nudger syncNudger,
	logger *logger.Logger,
) *clientRecordService {
	return &clientRecordService{
		local:     local,
		queue:     queue,
		locks:     locks,
		monitor:   monitor,
		nudger:    nudger,
		validator: validators.NewSyncEntryValidator(),
		ids:       utils.NewUUIDGenerator(),
		now:       nowUTC,
		logger:    logger,
	}
}

func (s *clientRecordService) Create(ctx context.Context, collection string, data json.RawMessage) (models.Record, error) {
	record, err := s.buildRecord(collection, s.ids.Generate(), data)
	if err != nil {
		return models.Record{}, err
	}

	unlock := s.locks.Lock(collection)
	defer unlock()

	return s.write(ctx, collection, models.OperationCreate, record, nil)
}

func (s *clientRecordService) Update(ctx context.Context, collection, id string, data json.RawMessage) (models.Record, error) {
	record, err := s.buildRecord(collection, id, data)
	if err != nil {
		return models.Record{}, err
	}

	unlock := s.locks.Lock(collection)
	defer unlock()

	previous, err := s.find(ctx, collection, id)
	if err != nil {
		return models.Record{}, err
	}

	return s.write(ctx, collection, models.OperationUpdate, record, &previous)
}

func (s *clientRecordService) Delete(ctx context.Context, collection, id string) error {
	payload, err := json.Marshal(map[string]string{"id": id})
	if err != nil {
		return fmt.Errorf("marshal delete payload: %w", err)
	}
	entry := models.SyncQueueEntry{Collection: collection, Operation: models.OperationDelete, Payload: payload}
	if err = s.validator.Validate(ctx, entry); err != nil {
		return newValidationError(err)
	}

	unlock := s.locks.Lock(collection)
	defer unlock()

	previous, err := s.find(ctx, collection, id)
	if err != nil {
		return err
	}

	if err = s.local.DeleteRecord(ctx, collection, id); err != nil {
		return fmt.Errorf("%w: %w", ErrLocalStore, err)
	}

	entry.EnqueuedAt = s.now()
	if _, err = s.queue.Enqueue(ctx, entry); err != nil {
		s.revert(ctx, collection, id, &previous)
		return fmt.Errorf("enqueue delete: %w", err)
	}

	s.nudge()
	return nil
}

func (s *clientRecordService) List(ctx context.Context, collection string) ([]models.Record, error) {
	if err := s.validator.Validate(ctx, collection); err != nil {
		return nil, newValidationError(err)
	}

	records, err := s.local.ReadSnapshot(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLocalStore, err)
	}

	return records, nil
}

// buildRecord forces id into data and validates the resulting mutation
// payload.
func (s *clientRecordService) buildRecord(collection, id string, data json.RawMessage) (models.Record, error) {
	if err := s.validator.Validate(context.Background(), collection); err != nil {
		return models.Record{}, newValidationError(err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return models.Record{}, newValidationError(validators.ErrInvalidPayload)
	}
	if id == "" {
		return models.Record{}, newValidationError(validators.ErrMissingRecordID)
	}
	fields["id"] = id

	normalized, err := json.Marshal(fields)
	if err != nil {
		return models.Record{}, fmt.Errorf("marshal record data: %w", err)
	}

	hash, err := utils.HashRecordData(normalized)
	if err != nil {
		return models.Record{}, fmt.Errorf("hash record data: %w", err)
	}

	return models.Record{ID: id, Data: normalized, Hash: hash}, nil
}

// write saves record locally and queues the matching mutation. The record
// and the entry share one timestamp so that the remote copy is never seen
// as newer than the local one it came from. Must be called with the
// collection lock held.
func (s *clientRecordService) write(ctx context.Context, collection string, op models.Operation, record models.Record, previous *models.Record) (models.Record, error) {
	now := s.now()
	record.UpdatedAt = now

	if err := s.local.SaveRecord(ctx, collection, record); err != nil {
		return models.Record{}, fmt.Errorf("%w: %w", ErrLocalStore, err)
	}

	entry := models.SyncQueueEntry{
		Collection: collection,
		Operation:  op,
		Payload:    record.Data,
		EnqueuedAt: now,
	}
	if _, err := s.queue.Enqueue(ctx, entry); err != nil {
		s.revert(ctx, collection, record.ID, previous)
		return models.Record{}, fmt.Errorf("enqueue %s: %w", op, err)
	}

	s.nudge()
	return record, nil
}

// revert restores the local state after a failed enqueue so that the local
// store never holds a change the queue does not know about.
func (s *clientRecordService) revert(ctx context.Context, collection, id string, previous *models.Record) {
	var err error
	if previous == nil {
		err = s.local.DeleteRecord(ctx, collection, id)
	} else {
		err = s.local.SaveRecord(ctx, collection, *previous)
	}

	if err != nil {
		s.logger.Err(err).
			Str("func", "clientRecordService.revert").
			Str("collection", collection).
			Str("record_id", id).
			Msg("failed to revert local write after enqueue failure")
	}
}

func (s *clientRecordService) find(ctx context.Context, collection, id string) (models.Record, error) {
	records, err := s.local.ReadSnapshot(ctx, collection)
	if err != nil {
		return models.Record{}, fmt.Errorf("%w: %w", ErrLocalStore, err)
	}

	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}

	return models.Record{}, fmt.Errorf("%w: %s/%s", ErrRecordNotFound, collection, id)
}

func (s *clientRecordService) nudge() {
	if s.nudger == nil {
		return
	}
	if s.monitor != nil && !s.monitor.IsOnline() {
		return
	}
	s.nudger.Nudge(models.TriggerManual)
}
