// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/hayahub/internal/config"
	"github.com/MKhiriev/hayahub/internal/logger"
)

// ClientServices groups the sync core components of one client process.
type ClientServices struct {
	Monitor       ConnectivityMonitor
	Queue         SyncQueue
	Engine        ReconciliationEngine
	Status        SyncStatusPublisher
	SyncJob       ClientSyncJob
	RecordService ClientRecordService
}

// NewClientServices wires the sync core. journal may be nil for a purely
// in-memory queue. The engine and the record service share per-collection
// locks so that a snapshot merge never overwrites a concurrent local write.
func NewClientServices(local LocalStore, journal QueueJournal, remote RemoteStore, cfg config.ClientWorkers, logger *logger.Logger) *ClientServices {
	locks := newCollectionLocks()

	monitor := NewConnectivityMonitor(NewRemoteProber(remote), cfg.ProbeInterval, cfg.ConnectivityDebounce, logger.WithComponent("connectivity"))
	queue := NewSyncQueue(journal, logger.WithComponent("sync_queue"))
	engine := newReconciliationEngine(queue, remote, local, monitor, locks, cfg, logger.WithComponent("reconciliation"))
	job := NewClientSyncJob(engine, logger.WithComponent("sync_job"))

	return &ClientServices{
		Monitor:       monitor,
		Queue:         queue,
		Engine:        engine,
		Status:        NewSyncStatusPublisher(queue, engine),
		SyncJob:       job,
		RecordService: newClientRecordService(local, queue, locks, monitor, job, logger.WithComponent("records")),
	}
}
