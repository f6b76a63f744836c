package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"horizonva/opsdesk/internal/auth"
	"horizonva/opsdesk/internal/common"
	"horizonva/opsdesk/internal/constants"
	"horizonva/opsdesk/internal/models/dtos"
)

// ListRosters handles GET /api/v1/rosters
//
// Pilots get the catalog filtered to their reachable hubs and rank.
// Dispatchers can pass ?all=true to see the unfiltered set, including
// rosters held back by rank locks.
func (h *Handlers) ListRosters() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetPilotClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
			return
		}

		if r.URL.Query().Get("all") == "true" && claims.HasRole(constants.RoleDispatcher) {
			resp, err := h.deps.Services.Catalog.ListAll(r.Context())
			if err != nil {
				common.RespondError(w, initTime, err, "Failed to fetch rosters")
				return
			}
			common.RespondSuccess(w, initTime, "Rosters fetched", resp)
			return
		}

		pilot, err := h.deps.Repo.Pilot.FindPilotByID(r.Context(), claims.PilotID())
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				common.RespondError(w, initTime, nil, "Pilot not found", http.StatusNotFound)
				return
			}
			common.RespondError(w, initTime, err, "Failed to fetch pilot")
			return
		}

		resp, err := h.deps.Services.Catalog.ListForPilot(r.Context(), pilot)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch rosters")
			return
		}

		common.RespondSuccess(w, initTime, "Rosters fetched", resp)
	}
}

// CreateRoster handles POST /api/v1/rosters
func (h *Handlers) CreateRoster() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetPilotClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
			return
		}

		var req dtos.CreateRosterReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		resp, err := h.deps.Services.Catalog.CreateManual(r.Context(), &req, claims.PilotID())
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to create roster")
			return
		}

		if resp.Denial != nil {
			common.RespondDenied(w, initTime, resp.Denial.Message, resp, constants.DenialCode(resp.Denial.Code))
			return
		}

		common.RespondSuccess(w, initTime, "Roster created", resp, http.StatusCreated)
	}
}

// DeleteRoster handles DELETE /api/v1/rosters/{id}
func (h *Handlers) DeleteRoster() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		rosterID := chi.URLParam(r, "id")
		if rosterID == "" {
			common.RespondError(w, initTime, nil, "Missing roster id", http.StatusBadRequest)
			return
		}

		deleted, err := h.deps.Services.Catalog.Delete(r.Context(), rosterID)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to delete roster")
			return
		}
		if !deleted {
			common.RespondError(w, initTime, nil, "Roster not found", http.StatusNotFound)
			return
		}

		common.RespondSuccess(w, initTime, "Roster deleted", map[string]string{"id": rosterID})
	}
}
