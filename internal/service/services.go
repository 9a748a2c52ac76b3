// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/hayahub/internal/logger"
	"github.com/MKhiriev/hayahub/internal/store"
)

// Services groups the business layer of the reference document server.
type Services struct {
	DocumentService DocumentService
	HealthService   HealthService
}

func NewServices(storages *store.Storages, logger *logger.Logger) *Services {
	documents := NewDocumentService(storages.DocumentRepository, logger)

	return &Services{
		DocumentService: NewDocumentValidationService().Wrap(documents),
		HealthService:   NewHealthService(storages),
	}
}
