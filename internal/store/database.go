// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"database/sql"
	"fmt"

	"github.com/MKhiriev/hayahub/internal/logger"
)

// DB wraps a *sql.DB opened on either driver together with the error
// classifier matching that driver.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// classify wraps err with [ErrTransient] when the classifier deems it
// retryable, and with fallback otherwise.
func (db *DB) classify(err error, fallback error) error {
	if db.errorClassificator != nil && db.errorClassificator.Classify(err) == Retryable {
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
	return fmt.Errorf("%w: %w", fallback, err)
}
