// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// HashRecordData computes a hex-encoded BLAKE2b-256 digest of a record's JSON
// data. The data is decoded and re-encoded first so that two documents that
// differ only in key order or whitespace hash identically.
//
// Example usage:
//
//	h, err := utils.HashRecordData([]byte(`{"id":"e1","amount":12}`))
func HashRecordData(data []byte) (string, error) {
	canonical, err := canonicalJSON(data)
	if err != nil {
		return "", fmt.Errorf("error canonicalizing record data: %w", err)
	}

	sum := blake2b.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// canonicalJSON re-encodes data; encoding/json writes map keys sorted.
func canonicalJSON(data []byte) ([]byte, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}
