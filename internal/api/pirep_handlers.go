package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"horizonva/opsdesk/internal/auth"
	"horizonva/opsdesk/internal/common"
	"horizonva/opsdesk/internal/constants"
	"horizonva/opsdesk/internal/models/dtos"
)

// ListPendingReports handles GET /api/v1/pireps/pending
func (h *Handlers) ListPendingReports() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
				limit = parsed
			}
		}

		reports, err := h.deps.Services.Review.ListPending(r.Context(), limit)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch pending reports")
			return
		}

		common.RespondSuccess(w, initTime, "Pending reports fetched", reports)
	}
}

// ApproveReport handles POST /api/v1/pireps/{id}/approve
func (h *Handlers) ApproveReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetPilotClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
			return
		}

		reportID := chi.URLParam(r, "id")
		if reportID == "" {
			common.RespondError(w, initTime, nil, "Missing report id", http.StatusBadRequest)
			return
		}

		resp, err := h.deps.Services.Review.Approve(r.Context(), reportID, claims.PilotID())
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to approve report")
			return
		}

		if resp.Denial != nil {
			common.RespondDenied(w, initTime, resp.Denial.Message, resp, constants.DenialCode(resp.Denial.Code))
			return
		}

		common.RespondSuccess(w, initTime, "Report approved", resp)
	}
}

// RejectReport handles POST /api/v1/pireps/{id}/reject
func (h *Handlers) RejectReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetPilotClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
			return
		}

		reportID := chi.URLParam(r, "id")
		if reportID == "" {
			common.RespondError(w, initTime, nil, "Missing report id", http.StatusBadRequest)
			return
		}

		var req dtos.RejectReportReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		resp, err := h.deps.Services.Review.Reject(r.Context(), reportID, claims.PilotID(), req.Reason)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to reject report")
			return
		}

		if resp.Denial != nil {
			common.RespondDenied(w, initTime, resp.Denial.Message, resp, constants.DenialCode(resp.Denial.Code))
			return
		}

		common.RespondSuccess(w, initTime, "Report rejected", resp)
	}
}
