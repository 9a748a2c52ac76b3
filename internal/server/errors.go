// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

// errNoHTTPHandler is returned by NewServer when there is nothing to serve:
// no HTTP handler was built or no listen address was configured.
var errNoHTTPHandler = errors.New("server: no HTTP handler or listen address")
