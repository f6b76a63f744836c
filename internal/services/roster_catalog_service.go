package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"horizonva/opsdesk/internal/common"
	"horizonva/opsdesk/internal/config"
	"horizonva/opsdesk/internal/constants"
	"horizonva/opsdesk/internal/db/repositories"
	"horizonva/opsdesk/internal/logging"
	"horizonva/opsdesk/internal/metrics"
	"horizonva/opsdesk/internal/models/dtos"
	"horizonva/opsdesk/internal/models/entities"
	gormModels "horizonva/opsdesk/internal/models/gorm"
	"horizonva/opsdesk/internal/providers"
)

const (
	rosterCacheKey = string(constants.CachePrefixRosters) + "ALL"
	rosterCacheTTL = 2 * time.Minute
)

// RosterCatalogService serves the roster listing and owns manual rosters.
// The full available set is cached once and filtered per pilot in memory;
// per-pilot cache keys would fragment into near-zero hit rates.
type RosterCatalogService struct {
	rosterRepo      *repositories.RosterRepository
	cache           common.CacheInterface
	metricsReg      *metrics.MetricsRegistry
	policy          config.FTLPolicy
	defaultOperator string
	defaultHub      string
}

// NewRosterCatalogService creates a new roster catalog service
func NewRosterCatalogService(
	rosterRepo *repositories.RosterRepository,
	cache common.CacheInterface,
	metricsReg *metrics.MetricsRegistry,
	policy config.FTLPolicy,
	defaultOperator string,
	defaultHub string,
) *RosterCatalogService {
	return &RosterCatalogService{
		rosterRepo:      rosterRepo,
		cache:           cache,
		metricsReg:      metricsReg,
		policy:          policy,
		defaultOperator: defaultOperator,
		defaultHub:      defaultHub,
	}
}

func (s *RosterCatalogService) denial(code constants.DenialCode, message string) *dtos.Denial {
	s.metricsReg.DenialsTotal.WithLabelValues(string(code)).Inc()
	return &dtos.Denial{
		Code:     string(code),
		Category: string(constants.CategoryOf(code)),
		Message:  message,
	}
}

// loadAvailable reads the available roster set through the cache. Values are
// cached as JSON so the same code path works for the in-process cache and
// for Redis, which loses concrete types on the round trip.
func (s *RosterCatalogService) loadAvailable(ctx context.Context) ([]gormModels.Roster, error) {
	if val, found := s.cache.Get(rosterCacheKey); found {
		if raw, ok := val.(string); ok {
			var rosters []gormModels.Roster
			if err := json.Unmarshal([]byte(raw), &rosters); err == nil {
				s.metricsReg.CacheHitsTotal.WithLabelValues("rosters").Inc()
				return rosters, nil
			}
		}
	}
	s.metricsReg.CacheMissesTotal.WithLabelValues("rosters").Inc()

	rosters, err := s.rosterRepo.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(rosters); err == nil {
		s.cache.Set(rosterCacheKey, string(data), rosterCacheTTL)
	}

	return rosters, nil
}

// Invalidate drops the cached listing. Called after regeneration and after
// any manual create or delete.
func (s *RosterCatalogService) Invalidate() {
	s.cache.Delete(rosterCacheKey)
}

// ListForPilot returns the rosters this pilot can actually start: departing
// one of their known airports, every leg within their rank.
func (s *RosterCatalogService) ListForPilot(ctx context.Context, pilot *entities.Pilot) (*dtos.RosterListResponse, error) {
	rosters, err := s.loadAvailable(ctx)
	if err != nil {
		return nil, err
	}

	hubSet := make(map[string]bool, 3)
	for _, ap := range pilot.KnownAirports(s.defaultHub) {
		hubSet[ap] = true
	}

	out := make([]dtos.RosterResponse, 0, len(rosters))
	for i := range rosters {
		roster := &rosters[i]
		if !hubSet[roster.Hub] {
			continue
		}
		if blocked, _ := FirstBlockedLeg(pilot.Rank, roster); blocked != nil {
			continue
		}
		out = append(out, *RosterToResponse(roster))
	}

	return &dtos.RosterListResponse{Rosters: out}, nil
}

// ListAll returns every available roster unfiltered, for dispatcher review.
func (s *RosterCatalogService) ListAll(ctx context.Context) (*dtos.RosterListResponse, error) {
	rosters, err := s.loadAvailable(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dtos.RosterResponse, 0, len(rosters))
	for i := range rosters {
		out = append(out, *RosterToResponse(&rosters[i]))
	}
	return &dtos.RosterListResponse{Rosters: out}, nil
}

// CreateManual validates and stores a dispatcher-authored roster. Manual
// rosters survive regeneration sweeps; only an explicit delete removes them.
func (s *RosterCatalogService) CreateManual(ctx context.Context, req *dtos.CreateRosterReq, createdBy string) (*dtos.CreateRosterResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return &dtos.CreateRosterResponse{
			Denial: s.denial(constants.DenialInvalidRequest, "Roster name is required"),
		}, nil
	}

	if len(req.Legs) < s.policy.RosterLegsMin {
		return &dtos.CreateRosterResponse{
			Denial: s.denial(constants.DenialInvalidRoster,
				fmt.Sprintf("A roster needs at least %d legs", s.policy.RosterLegsMin)),
		}, nil
	}

	multiplier := req.Multiplier
	if multiplier == 0 {
		multiplier = 1.0
	}
	if multiplier < 1 {
		return &dtos.CreateRosterResponse{
			Denial: s.denial(constants.DenialInvalidRequest, "Multiplier must be at least 1"),
		}, nil
	}

	legs := make([]entities.Leg, 0, len(req.Legs))
	var total float64

	for i, legReq := range req.Legs {
		leg, problem := s.normalizeManualLeg(&legReq)
		if problem != "" {
			return &dtos.CreateRosterResponse{
				Denial: s.denial(constants.DenialInvalidRoster,
					fmt.Sprintf("Leg %d: %s", i+1, problem)),
			}, nil
		}

		if i > 0 && legs[i-1].Arrival != leg.Departure {
			return &dtos.CreateRosterResponse{
				Denial: s.denial(constants.DenialInvalidRoster,
					fmt.Sprintf("Leg %d departs %s but leg %d arrives %s",
						i+1, leg.Departure, i, legs[i-1].Arrival)),
			}, nil
		}

		legs = append(legs, leg)
		total += leg.FlightTime
	}

	if total > s.policy.DailyCeilingHours {
		return &dtos.CreateRosterResponse{
			Denial: s.denial(constants.DenialInvalidRoster,
				fmt.Sprintf("Total time %.2f exceeds the daily ceiling %.2f",
					total, s.policy.DailyCeilingHours)),
		}, nil
	}

	roster := &gormModels.Roster{
		ID:           uuid.NewString(),
		Name:         name,
		Hub:          legs[0].Departure,
		Legs:         legs,
		TotalTimeHrs: common.Round2(total),
		Multiplier:   multiplier,
		Available:    true,
		Generated:    false,
		CreatedBy:    &createdBy,
	}

	if err := s.rosterRepo.Create(ctx, roster); err != nil {
		return nil, err
	}

	s.Invalidate()
	logging.Info("Manual roster created",
		"roster_id", roster.ID, "name", roster.Name, "created_by", createdBy)

	return &dtos.CreateRosterResponse{Accepted: true, Roster: RosterToResponse(roster)}, nil
}

// normalizeManualLeg applies the same field rules ingestion applies to sheet
// rows. Returns a problem description instead of a denial so the caller can
// prefix the leg position.
func (s *RosterCatalogService) normalizeManualLeg(req *dtos.RosterLegReq) (entities.Leg, string) {
	var leg entities.Leg

	leg.FlightNumber = strings.TrimSpace(req.FlightNumber)
	if leg.FlightNumber == "" {
		return leg, "flight number is required"
	}

	departure, ok := providers.ExtractAirportCode(req.Departure)
	if !ok {
		return leg, "departure must start with a 4-letter airport code"
	}
	leg.Departure = departure

	arrival, ok := providers.ExtractAirportCode(req.Arrival)
	if !ok {
		return leg, "arrival must start with a 4-letter airport code"
	}
	leg.Arrival = arrival

	leg.Aircraft = strings.TrimSpace(req.Aircraft)
	if leg.Aircraft == "" {
		return leg, "aircraft is required"
	}

	hours, ok := providers.ParseLegDuration(req.FlightTime)
	if !ok || hours <= 0 {
		return leg, "flight time must be a positive duration like 1:30 or 1h30m"
	}
	leg.FlightTime = hours

	leg.Operator = strings.TrimSpace(req.Operator)
	if leg.Operator == "" {
		leg.Operator = s.defaultOperator
	}

	if tag := strings.TrimSpace(req.RankUnlock); tag != "" {
		idx, ok := constants.TierIndex(constants.RankTier(tag))
		if !ok {
			return leg, fmt.Sprintf("unknown rank tag %q", tag)
		}
		leg.RankUnlock = constants.RankLadder[idx].Tier
	}

	return leg, ""
}

// Delete removes a roster by ID, manual or generated alike.
func (s *RosterCatalogService) Delete(ctx context.Context, rosterID string) (bool, error) {
	found, err := s.rosterRepo.Delete(ctx, rosterID)
	if err != nil {
		return false, err
	}
	if found {
		s.Invalidate()
		logging.Info("Roster deleted", "roster_id", rosterID)
	}
	return found, nil
}
