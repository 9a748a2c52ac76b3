// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"github.com/MKhiriev/hayahub/models"
)

// statusPolledMsg carries one Poll result. gen identifies the poll loop that
// produced it; scheduled is false for the immediate poll after a key press.
type statusPolledMsg struct {
	snapshot  models.SyncStatusSnapshot
	gen       int
	scheduled bool
}
