package services

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"horizonva/opsdesk/internal/common"
	"horizonva/opsdesk/internal/config"
	"horizonva/opsdesk/internal/db/repositories"
	"horizonva/opsdesk/internal/logging"
	"horizonva/opsdesk/internal/metrics"
	"horizonva/opsdesk/internal/models/entities"
	gormModels "horizonva/opsdesk/internal/models/gorm"
)

// RosterBuilderService turns an ingested leg pool into the generated roster
// catalog. Randomized walks with per-airport caps keep output bounded on
// large pools; rosters are suggestions, so no global optimization happens.
type RosterBuilderService struct {
	rosterRepo *repositories.RosterRepository
	metricsReg *metrics.MetricsRegistry
	policy     config.FTLPolicy
}

// NewRosterBuilderService creates a new roster builder service
func NewRosterBuilderService(
	rosterRepo *repositories.RosterRepository,
	metricsReg *metrics.MetricsRegistry,
	policy config.FTLPolicy,
) *RosterBuilderService {
	return &RosterBuilderService{
		rosterRepo: rosterRepo,
		metricsReg: metricsReg,
		policy:     policy,
	}
}

// BuildAll synthesizes a fresh generated set from the pool and swaps it in
// atomically. Manual rosters are untouched. An empty pool replaces the set
// with nothing; zero is a valid result, not an error.
func (s *RosterBuilderService) BuildAll(ctx context.Context, legs []entities.Leg) (int, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	rosters := SynthesizeRosters(legs, s.policy, rng)

	if len(rosters) == 0 {
		logging.Warn("Roster synthesis produced no rosters", "pool_legs", len(legs))
	}

	if err := s.rosterRepo.ReplaceGenerated(ctx, rosters); err != nil {
		return 0, fmt.Errorf("failed to replace generated rosters: %w", err)
	}

	s.metricsReg.RostersGeneratedTotal.Add(float64(len(rosters)))

	logging.Info("Generated roster set replaced",
		"rosters", len(rosters), "pool_legs", len(legs))

	return len(rosters), nil
}

// SynthesizeRosters is the pure synthesis core. Callers inject the rng;
// given a seeded source and the same pool the output is reproducible.
func SynthesizeRosters(legs []entities.Leg, cfg config.FTLPolicy, rng *rand.Rand) []gormModels.Roster {
	pool := groupByDeparture(legs)

	// Stable airport order so a seeded rng yields a deterministic catalog.
	airports := make([]string, 0, len(pool))
	for airport := range pool {
		airports = append(airports, airport)
	}
	sort.Strings(airports)

	var out []gormModels.Roster
	for _, airport := range airports {
		kept := 0
		for attempt := 0; attempt < cfg.RostersPerAirport; attempt++ {
			roster := buildRoster(pool, airport, cfg, rng)
			if roster == nil {
				continue
			}
			kept++
			roster.Name = fmt.Sprintf("%s rotation %d", airport, kept)
			out = append(out, *roster)
		}
	}
	return out
}

// buildRoster walks one randomized candidate from the starting airport.
// Returns nil when the walk cannot reach the minimum leg count.
func buildRoster(pool map[string][]entities.Leg, start string, cfg config.FTLPolicy, rng *rand.Rand) *gormModels.Roster {
	target := cfg.RosterLegsMin + rng.Intn(cfg.RosterLegsMax-cfg.RosterLegsMin+1)

	var (
		legs     []entities.Leg
		used     = make(map[string]bool, target)
		position = start
		total    float64
	)

	for len(legs) < target {
		candidates := eligibleLegs(pool[position], used, cfg.DailyCeilingHours-total)
		if len(candidates) == 0 {
			break
		}

		leg := candidates[rng.Intn(len(candidates))]
		legs = append(legs, leg)
		used[leg.FlightNumber] = true
		position = leg.Arrival
		total += leg.FlightTime
	}

	if len(legs) < cfg.RosterLegsMin {
		return nil
	}

	multiplier := cfg.MultiplierMin + rng.Float64()*(cfg.MultiplierMax-cfg.MultiplierMin)
	multiplier = math.Round(multiplier*100) / 100

	return &gormModels.Roster{
		ID:           uuid.NewString(),
		Hub:          start,
		Legs:         legs,
		TotalTimeHrs: common.Round2(total),
		Multiplier:   multiplier,
		Available:    true,
		Generated:    true,
	}
}

// eligibleLegs filters a position's departures down to legs whose flight
// number is still unused in this roster and whose time fits under the
// remaining daily allowance.
func eligibleLegs(departures []entities.Leg, used map[string]bool, remainingHours float64) []entities.Leg {
	out := make([]entities.Leg, 0, len(departures))
	for _, leg := range departures {
		if used[leg.FlightNumber] {
			continue
		}
		if leg.FlightTime > remainingHours {
			continue
		}
		out = append(out, leg)
	}
	return out
}

func groupByDeparture(legs []entities.Leg) map[string][]entities.Leg {
	pool := make(map[string][]entities.Leg)
	for _, leg := range legs {
		pool[leg.Departure] = append(pool[leg.Departure], leg)
	}
	return pool
}
