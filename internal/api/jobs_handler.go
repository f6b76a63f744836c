package api

import (
	"log"
	"net/http"
	"time"

	"horizonva/opsdesk/internal/auth"
	"horizonva/opsdesk/internal/common"
)

// TriggerRosterGeneration handles POST /api/v1/admin/jobs/roster-generation
//
// Runs the same ingest-and-build pipeline the scheduler runs and reports
// the per-source outcome. A source that failed to fetch or parse shows up
// in the response with its error code; it does not fail the run.
func (h *Handlers) TriggerRosterGeneration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetPilotClaims(r.Context())
		triggeredBy := ""
		if claims != nil {
			triggeredBy = claims.PilotID()
		}
		log.Printf("[JobsHandler] Roster generation manually triggered by %s", triggeredBy)

		resp, err := h.genJob.Run(r.Context(), "manual")
		if err != nil {
			common.RespondError(w, initTime, err, "Roster generation failed")
			return
		}

		common.RespondSuccess(w, initTime, "Roster generation completed", resp)
	}
}
