// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
)

// pinger is satisfied by *store.Storages.
type pinger interface {
	Ping(ctx context.Context) error
}

type healthService struct {
	db pinger
}

func NewHealthService(db pinger) HealthService {
	return &healthService{db: db}
}

func (h *healthService) Ping(ctx context.Context) error {
	if h.db == nil {
		return nil
	}
	if err := h.db.Ping(ctx); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
