package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"horizonva/opsdesk/internal/metrics"
	"horizonva/opsdesk/internal/models/dtos"
	"horizonva/opsdesk/internal/services"
)

// RosterGenerationJob chains ingestion and synthesis: pull every active
// route source, synthesize a fresh generated roster set, swap it in
// atomically, drop the catalog cache.
type RosterGenerationJob struct {
	ingestion  *services.RouteIngestionService
	builder    *services.RosterBuilderService
	catalog    *services.RosterCatalogService
	metricsReg *metrics.MetricsRegistry
}

// NewRosterGenerationJob creates a new roster generation job instance
func NewRosterGenerationJob(
	ingestion *services.RouteIngestionService,
	builder *services.RosterBuilderService,
	catalog *services.RosterCatalogService,
	metricsReg *metrics.MetricsRegistry,
) *RosterGenerationJob {
	return &RosterGenerationJob{
		ingestion:  ingestion,
		builder:    builder,
		catalog:    catalog,
		metricsReg: metricsReg,
	}
}

// Run executes one full pass. Source failures surface inside the stats, not
// as an error; an error return means the database write itself failed.
func (j *RosterGenerationJob) Run(ctx context.Context, trigger string) (*dtos.GenerationResponse, error) {
	start := time.Now()
	log.Printf("[RosterGenerationJob] Starting run (trigger: %s)", trigger)

	legs, stats, err := j.ingestion.IngestAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list route sources: %w", err)
	}

	created, err := j.builder.BuildAll(ctx, legs)
	if err != nil {
		return nil, fmt.Errorf("failed to persist generated rosters: %w", err)
	}

	j.catalog.Invalidate()

	j.metricsReg.GenerationDuration.WithLabelValues(trigger).Observe(time.Since(start).Seconds())

	log.Printf("[RosterGenerationJob] Completed in %s: %d legs across %d sources -> %d rosters",
		time.Since(start).Truncate(time.Millisecond), len(legs), len(stats), created)

	return &dtos.GenerationResponse{
		Created:   created,
		LegsFound: len(legs),
		Sources:   stats,
	}, nil
}

// RunScheduled re-runs the job on a fixed interval until the context ends.
// Each run is isolated; a failure is logged and the loop keeps going.
func (j *RosterGenerationJob) RunScheduled(ctx context.Context, interval time.Duration) {
	log.Printf("[RosterGenerationJob] Scheduled every %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[RosterGenerationJob] Scheduler stopped")
			return
		case <-ticker.C:
			if _, err := j.Run(ctx, "scheduled"); err != nil {
				log.Printf("[RosterGenerationJob] Run failed: %v", err)
			}
		}
	}
}
