package api

import (
	"horizonva/opsdesk/internal/jobs"
)

type Handlers struct {
	deps   *Dependencies
	genJob *jobs.RosterGenerationJob
}

// NewHandlers creates a new handlers instance with injected dependencies.
// The generation job is passed in so the manual trigger endpoint reuses
// the exact pipeline the scheduler runs.
func NewHandlers(deps *Dependencies, genJob *jobs.RosterGenerationJob) *Handlers {
	return &Handlers{
		deps:   deps,
		genJob: genJob,
	}
}
