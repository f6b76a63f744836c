package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"horizonva/opsdesk/internal/auth"
	"horizonva/opsdesk/internal/common"
	"horizonva/opsdesk/internal/constants"
	"horizonva/opsdesk/internal/models/dtos"
)

// RegisterPilot handles POST /api/v1/pilots
func (h *Handlers) RegisterPilot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.RegisterPilotReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		resp, err := h.deps.Services.Pilot.Register(r.Context(), &req)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to register pilot")
			return
		}

		if resp.Denial != nil {
			common.RespondDenied(w, initTime, resp.Denial.Message, resp, constants.DenialCode(resp.Denial.Code))
			return
		}

		common.RespondSuccess(w, initTime, "Pilot registered", resp, http.StatusCreated)
	}
}

// GetMyStats handles GET /api/v1/pilots/me
func (h *Handlers) GetMyStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetPilotClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
			return
		}

		stats, err := h.deps.Services.Pilot.Stats(r.Context(), claims.PilotID())
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch pilot stats")
			return
		}
		if stats == nil {
			common.RespondError(w, initTime, nil, "Pilot not found", http.StatusNotFound)
			return
		}

		common.RespondSuccess(w, initTime, "Pilot stats fetched", stats)
	}
}

// DeletePilot handles DELETE /api/v1/admin/pilots/{id}
func (h *Handlers) DeletePilot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		pilotID := chi.URLParam(r, "id")
		if pilotID == "" {
			common.RespondError(w, initTime, nil, "Missing pilot id", http.StatusBadRequest)
			return
		}

		resp, err := h.deps.Services.Pilot.Delete(r.Context(), pilotID)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to delete pilot")
			return
		}

		if resp.Denial != nil {
			common.RespondDenied(w, initTime, resp.Denial.Message, resp, constants.DenialCode(resp.Denial.Code))
			return
		}

		common.RespondSuccess(w, initTime, "Pilot deleted", resp)
	}
}

// ForceRestPilot handles POST /api/v1/admin/pilots/{id}/force-rest
func (h *Handlers) ForceRestPilot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		pilotID := chi.URLParam(r, "id")
		if pilotID == "" {
			common.RespondError(w, initTime, nil, "Missing pilot id", http.StatusBadRequest)
			return
		}

		resp, err := h.deps.Services.Duty.ForceRest(r.Context(), pilotID)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to force rest")
			return
		}

		if resp.Denial != nil {
			common.RespondDenied(w, initTime, resp.Denial.Message, resp, constants.DenialCode(resp.Denial.Code))
			return
		}

		common.RespondSuccess(w, initTime, "Pilot forced to rest", resp)
	}
}
