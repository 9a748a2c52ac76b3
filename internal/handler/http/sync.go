// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/hayahub/internal/logger"
	"github.com/MKhiriev/hayahub/internal/utils"
	"github.com/MKhiriev/hayahub/models"
)

// apply handles POST /api/sync/apply. A create or update upserts the record
// carried by the entry payload, a delete removes it. Replays are harmless.
func (h *Handler) apply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	ownerID, found := utils.GetOwnerIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.apply").Err(ErrNoOwnerInContext).Send()
		utils.WriteError(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var entry models.SyncQueueEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		log.Err(err).Str("func", "*Handler.apply").Msg("invalid JSON was passed")
		utils.WriteError(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.DocumentService.Apply(ctx, ownerID, entry); err != nil {
		status := statusFromError(err)
		log.Err(err).
			Str("func", "*Handler.apply").
			Str("collection", entry.Collection).
			Str("entry_id", entry.ID).
			Int("status", status).
			Msg("error applying mutation")
		utils.WriteError(w, errorMessage(err, status), status)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// snapshot handles GET /api/sync/snapshot/{collection}.
func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	ownerID, found := utils.GetOwnerIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.snapshot").Err(ErrNoOwnerInContext).Send()
		utils.WriteError(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	collection := chi.URLParam(r, "collection")
	response, err := h.services.DocumentService.Snapshot(ctx, ownerID, collection)
	if err != nil {
		status := statusFromError(err)
		log.Err(err).
			Str("func", "*Handler.snapshot").
			Str("collection", collection).
			Int("status", status).
			Msg("error reading snapshot")
		utils.WriteError(w, errorMessage(err, status), status)
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}
