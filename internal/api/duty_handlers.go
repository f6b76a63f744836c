package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"horizonva/opsdesk/internal/auth"
	"horizonva/opsdesk/internal/common"
	"horizonva/opsdesk/internal/constants"
	"horizonva/opsdesk/internal/models/dtos"
)

// StartDuty handles POST /api/v1/duty/start
func (h *Handlers) StartDuty() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetPilotClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
			return
		}

		var req dtos.StartDutyReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.RosterID == "" {
			common.RespondError(w, initTime, nil, "roster_id is required", http.StatusBadRequest)
			return
		}

		resp, err := h.deps.Services.Duty.StartDuty(r.Context(), claims.PilotID(), req.RosterID)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to start duty")
			return
		}

		if resp.Denial != nil {
			common.RespondDenied(w, initTime, resp.Denial.Message, resp, constants.DenialCode(resp.Denial.Code))
			return
		}

		common.RespondSuccess(w, initTime, "Duty started", resp)
	}
}

// EndDuty handles POST /api/v1/duty/end
func (h *Handlers) EndDuty() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetPilotClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
			return
		}

		resp, err := h.deps.Services.Duty.EndDuty(r.Context(), claims.PilotID())
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to end duty")
			return
		}

		if resp.Denial != nil {
			common.RespondDenied(w, initTime, resp.Denial.Message, resp, constants.DenialCode(resp.Denial.Code))
			return
		}

		common.RespondSuccess(w, initTime, "Duty ended", resp)
	}
}

// FileReport handles POST /api/v1/pireps
func (h *Handlers) FileReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetPilotClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
			return
		}

		var req dtos.FileReportReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		resp, err := h.deps.Services.Duty.FileReport(r.Context(), claims.PilotID(), &req)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to file report")
			return
		}

		if resp.Denial != nil {
			common.RespondDenied(w, initTime, resp.Denial.Message, resp, constants.DenialCode(resp.Denial.Code))
			return
		}

		common.RespondSuccess(w, initTime, "Report filed", resp, http.StatusCreated)
	}
}

// ListMyReports handles GET /api/v1/pireps
func (h *Handlers) ListMyReports() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetPilotClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
			return
		}

		limit := 25
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
				limit = parsed
			}
		}

		reports, err := h.deps.Services.Review.ListForPilot(r.Context(), claims.PilotID(), limit)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch reports")
			return
		}

		common.RespondSuccess(w, initTime, "Reports fetched", reports)
	}
}
