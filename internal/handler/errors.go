// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

// errNoHandlersAreCreated means the server config names no HTTP address, so
// the document server has nothing to listen on.
var errNoHandlersAreCreated = errors.New("no handlers are created: HTTP address is not configured")
