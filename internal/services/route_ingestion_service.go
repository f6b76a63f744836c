package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"horizonva/opsdesk/internal/db/repositories"
	"horizonva/opsdesk/internal/logging"
	"horizonva/opsdesk/internal/metrics"
	"horizonva/opsdesk/internal/models/dtos"
	"horizonva/opsdesk/internal/models/entities"
	gormModels "horizonva/opsdesk/internal/models/gorm"
	"horizonva/opsdesk/internal/providers"
)

const (
	// sourceFetchTimeout bounds each upstream pull so one slow sheet cannot
	// stall the whole ingestion run.
	sourceFetchTimeout = 30 * time.Second

	// maxConcurrentFetches keeps the run polite toward the Google API quota.
	maxConcurrentFetches = 4
)

// ProviderFactory resolves a configured route source to a grid provider.
type ProviderFactory interface {
	ForSource(source *gormModels.RouteSource) (providers.GridProvider, error)
}

// RouteIngestionService pulls every active route source concurrently and
// normalizes the grids into one flat leg pool. A failing source contributes
// zero legs and an error string in its stats entry; it never fails the run.
type RouteIngestionService struct {
	sourceRepo      *repositories.SourceRepository
	factory         ProviderFactory
	metricsReg      *metrics.MetricsRegistry
	defaultOperator string
}

// NewRouteIngestionService creates a new route ingestion service
func NewRouteIngestionService(
	sourceRepo *repositories.SourceRepository,
	factory ProviderFactory,
	metricsReg *metrics.MetricsRegistry,
	defaultOperator string,
) *RouteIngestionService {
	return &RouteIngestionService{
		sourceRepo:      sourceRepo,
		factory:         factory,
		metricsReg:      metricsReg,
		defaultOperator: defaultOperator,
	}
}

// IngestAll fetches every active source and returns the combined legs plus
// one stats entry per source, in the repository's listing order.
func (s *RouteIngestionService) IngestAll(ctx context.Context) ([]entities.Leg, []dtos.SourceStat, error) {
	sources, err := s.sourceRepo.List(ctx, true)
	if err != nil {
		return nil, nil, err
	}

	if len(sources) == 0 {
		logging.Warn("Route ingestion ran with no active sources")
		return nil, nil, nil
	}

	var (
		mu    sync.Mutex
		legs  []entities.Leg
		stats = make([]dtos.SourceStat, len(sources))
	)

	var g errgroup.Group
	g.SetLimit(maxConcurrentFetches)

	for i := range sources {
		i := i
		source := sources[i]

		g.Go(func() error {
			stat, sourceLegs := s.ingestOne(ctx, &source)

			mu.Lock()
			stats[i] = stat
			legs = append(legs, sourceLegs...)
			mu.Unlock()

			// Source failures are reported through stats, never as errors;
			// returning one here would poison the sibling fetches.
			return nil
		})
	}

	g.Wait()

	return legs, stats, nil
}

// ingestOne pulls and parses a single source under its own timeout.
func (s *RouteIngestionService) ingestOne(ctx context.Context, source *gormModels.RouteSource) (dtos.SourceStat, []entities.Leg) {
	stat := dtos.SourceStat{Source: source.Name}

	fetchCtx, cancel := context.WithTimeout(ctx, sourceFetchTimeout)
	defer cancel()

	provider, err := s.factory.ForSource(source)
	if err != nil {
		logging.Error("Route source rejected by provider factory",
			"source", source.Name, "error", err)
		s.metricsReg.SourceFetchesTotal.WithLabelValues(source.Name, "config_error").Inc()
		stat.Error = err.Error()
		return stat, nil
	}

	grid, err := provider.FetchGrid(fetchCtx)
	if err != nil {
		logging.Error("Route source fetch failed",
			"source", source.Name, "provider", string(source.Provider), "error", err)
		s.metricsReg.SourceFetchesTotal.WithLabelValues(source.Name, "fetch_error").Inc()
		stat.Error = err.Error()
		return stat, nil
	}

	parsed, err := providers.ParseGrid(grid, source.Kind, s.defaultOperator)
	if err != nil {
		// Typically NO_HEADER_ROW: the sheet exists but its layout does not
		// cover the schema this source kind requires.
		logging.Warn("Route source grid unusable",
			"source", source.Name, "error", err)
		s.metricsReg.SourceFetchesTotal.WithLabelValues(source.Name, "parse_error").Inc()
		stat.Error = err.Error()
		return stat, nil
	}

	s.metricsReg.SourceFetchesTotal.WithLabelValues(source.Name, "success").Inc()
	s.metricsReg.LegsIngestedTotal.WithLabelValues(source.Name).Add(float64(len(parsed.Legs)))
	s.metricsReg.RowsDroppedTotal.WithLabelValues(source.Name).Add(float64(parsed.RowsDropped))

	logging.Info("Route source ingested",
		"source", source.Name,
		"rows_scanned", parsed.RowsScanned,
		"rows_dropped", parsed.RowsDropped,
		"legs", len(parsed.Legs),
	)

	stat.Rows = parsed.RowsScanned
	stat.Legs = len(parsed.Legs)
	return stat, parsed.Legs
}
