package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"horizonva/opsdesk/internal/common"
	"horizonva/opsdesk/internal/constants"
	"horizonva/opsdesk/internal/models/dtos"
)

// ListSources handles GET /api/v1/sources
func (h *Handlers) ListSources() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		sources, err := h.deps.Services.Sources.List(r.Context())
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch route sources")
			return
		}

		common.RespondSuccess(w, initTime, "Route sources fetched", sources)
	}
}

// UpsertSource handles POST /api/v1/sources
func (h *Handlers) UpsertSource() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.UpsertSourceReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		resp, err := h.deps.Services.Sources.Upsert(r.Context(), &req)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to save route source")
			return
		}

		if resp.Denial != nil {
			common.RespondDenied(w, initTime, resp.Denial.Message, resp, constants.DenialCode(resp.Denial.Code))
			return
		}

		common.RespondSuccess(w, initTime, "Route source saved", resp)
	}
}

// DeleteSource handles DELETE /api/v1/sources/{id}
func (h *Handlers) DeleteSource() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		sourceID := chi.URLParam(r, "id")
		if sourceID == "" {
			common.RespondError(w, initTime, nil, "Missing source id", http.StatusBadRequest)
			return
		}

		deleted, err := h.deps.Services.Sources.Delete(r.Context(), sourceID)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to delete route source")
			return
		}
		if !deleted {
			common.RespondError(w, initTime, nil, "Route source not found", http.StatusNotFound)
			return
		}

		common.RespondSuccess(w, initTime, "Route source deleted", map[string]string{"id": sourceID})
	}
}
