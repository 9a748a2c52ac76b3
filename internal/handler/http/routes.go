// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging, withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/health", h.health)
		r.Get("/api/version", h.getServerVersion)
	})

	// owner-scoped document routes
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Post("/api/sync/apply", h.apply)
		r.Get("/api/sync/snapshot/{collection}", h.snapshot)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
