package jobs

import (
	"context"
	"log"
	"time"

	"horizonva/opsdesk/internal/metrics"
	"horizonva/opsdesk/internal/services"
)

// InitializeJobs builds the generation job and, when an interval is
// configured, starts its scheduler. The on-demand admin endpoint works
// either way.
func InitializeJobs(
	ctx context.Context,
	ingestion *services.RouteIngestionService,
	builder *services.RosterBuilderService,
	catalog *services.RosterCatalogService,
	metricsReg *metrics.MetricsRegistry,
	interval time.Duration,
) *RosterGenerationJob {
	genJob := NewRosterGenerationJob(ingestion, builder, catalog, metricsReg)

	if interval > 0 {
		go genJob.RunScheduled(ctx, interval)
	} else {
		log.Printf("[Jobs] Scheduled roster generation disabled")
	}

	return genJob
}
