// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the HayaHub client process.
//
// It wires the local SQLite cache, the remote adapter, the sync core and the
// status view into a single lifecycle: background workers keep probing the
// remote and draining the sync queue while the user watches the status view.
package client
