// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrUnknownCollection = errors.New("unknown collection")
	ErrInvalidOperation  = errors.New("invalid operation")
	ErrInvalidPayload    = errors.New("payload must be a JSON object")
	ErrMissingRecordID   = errors.New("payload must carry a non-empty string id")
)
