package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"horizonva/opsdesk/internal/common"
	"horizonva/opsdesk/internal/constants"
	"horizonva/opsdesk/internal/db/repositories"
	"horizonva/opsdesk/internal/logging"
	"horizonva/opsdesk/internal/metrics"
	"horizonva/opsdesk/internal/models/dtos"
	"horizonva/opsdesk/internal/models/entities"
)

const pilotStatsCacheTTL = 30 * time.Second

// PilotService covers the registry: registration, the stats snapshot, and
// account deletion.
type PilotService struct {
	pilotRepo  PilotStore
	keysRepo   KeyStore
	cache      common.CacheInterface
	metricsReg *metrics.MetricsRegistry
	defaultHub string
}

// NewPilotService creates a new pilot service
func NewPilotService(
	pilotRepo PilotStore,
	keysRepo KeyStore,
	cache common.CacheInterface,
	metricsReg *metrics.MetricsRegistry,
	defaultHub string,
) *PilotService {
	return &PilotService{
		pilotRepo:  pilotRepo,
		keysRepo:   keysRepo,
		cache:      cache,
		metricsReg: metricsReg,
		defaultHub: defaultHub,
	}
}

func (s *PilotService) denial(code constants.DenialCode, message string) *dtos.Denial {
	s.metricsReg.DenialsTotal.WithLabelValues(string(code)).Inc()
	return &dtos.Denial{
		Code:     string(code),
		Category: string(constants.CategoryOf(code)),
		Message:  message,
	}
}

// Register creates a resting pilot at the bottom of the ladder, based at
// the default hub. The callsign unique index backs up the pre-check, so two
// racing registrations cannot both land the same callsign.
func (s *PilotService) Register(ctx context.Context, req *dtos.RegisterPilotReq) (*dtos.RegisterPilotResponse, error) {
	callsign := strings.TrimSpace(req.Callsign)
	if callsign == "" {
		return &dtos.RegisterPilotResponse{
			Denial: s.denial(constants.DenialInvalidRequest, "Callsign is required"),
		}, nil
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return &dtos.RegisterPilotResponse{
			Denial: s.denial(constants.DenialInvalidRequest, "Name is required"),
		}, nil
	}

	roles := []string{string(constants.RolePilot)}
	if len(req.Roles) > 0 {
		roles = roles[:0]
		for _, raw := range req.Roles {
			role := constants.Role(strings.ToLower(strings.TrimSpace(raw)))
			switch role {
			case constants.RolePilot, constants.RoleDispatcher, constants.RoleAdmin:
				roles = append(roles, string(role))
			default:
				return &dtos.RegisterPilotResponse{
					Denial: s.denial(constants.DenialInvalidRequest, "Unknown role: "+raw),
				}, nil
			}
		}
	}

	existing, err := s.pilotRepo.FindPilotByCallsign(ctx, callsign)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if existing != nil {
		return &dtos.RegisterPilotResponse{
			Denial: s.denial(constants.DenialCallsignTaken, constants.MsgCallsignTaken),
		}, nil
	}

	pilot := &entities.Pilot{
		ID:               uuid.NewString(),
		Callsign:         callsign,
		Name:             name,
		Rank:             constants.RankLadder[0].Tier,
		Roles:            strings.Join(roles, ","),
		DutyStatus:       constants.DutyResting,
		LastKnownAirport: s.defaultHub,
	}

	if err := s.pilotRepo.InsertPilot(ctx, pilot); err != nil {
		if repositories.IsUniqueViolation(err) {
			return &dtos.RegisterPilotResponse{
				Denial: s.denial(constants.DenialCallsignTaken, constants.MsgCallsignTaken),
			}, nil
		}
		return nil, err
	}

	logging.Info("Pilot registered",
		"pilot_id", pilot.ID, "callsign", pilot.Callsign, "roles", pilot.Roles)

	return &dtos.RegisterPilotResponse{Accepted: true, Pilot: s.statsFor(pilot)}, nil
}

// Stats returns the pilot's snapshot through a short-TTL cache. Fresh-off-
// approval readers may see up to the TTL of staleness; hour credits land in
// the database first either way.
func (s *PilotService) Stats(ctx context.Context, pilotID string) (*dtos.PilotStatsResponse, error) {
	key := string(constants.CachePrefixPilotStats) + pilotID

	if val, found := s.cache.Get(key); found {
		if raw, ok := val.(string); ok {
			var stats dtos.PilotStatsResponse
			if err := json.Unmarshal([]byte(raw), &stats); err == nil {
				s.metricsReg.CacheHitsTotal.WithLabelValues("pilot_stats").Inc()
				return &stats, nil
			}
		}
	}
	s.metricsReg.CacheMissesTotal.WithLabelValues("pilot_stats").Inc()

	pilot, err := s.pilotRepo.FindPilotByID(ctx, pilotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	stats := s.statsFor(pilot)
	if data, err := json.Marshal(stats); err == nil {
		s.cache.Set(key, string(data), pilotStatsCacheTTL)
	}

	return stats, nil
}

func (s *PilotService) statsFor(pilot *entities.Pilot) *dtos.PilotStatsResponse {
	stats := &dtos.PilotStatsResponse{
		ID:               pilot.ID,
		Callsign:         pilot.Callsign,
		Name:             pilot.Name,
		Rank:             string(pilot.Rank),
		FlightHours:      dtos.RoundedHours(pilot.FlightHours),
		MonthlyHours:     dtos.RoundedHours(pilot.MonthlyFlightHours),
		DailyHours:       dtos.RoundedHours(pilot.DailyFlightHours),
		DutyStatus:       string(pilot.DutyStatus),
		CurrentRosterID:  pilot.CurrentRosterID,
		LastKnownAirport: pilot.LastKnownAirport,
		LastDutyAirport:  pilot.LastDutyAirport,
	}

	if next, ok := NextRank(pilot.Rank); ok {
		stats.NextRank = &dtos.NextRankResponse{
			Rank:           string(next.Tier),
			MinHours:       next.MinHours,
			RemainingHours: dtos.RoundedHours(math.Max(0, next.MinHours-pilot.FlightHours)),
		}
	}

	return stats
}

// Delete removes a pilot and everything keyed to them. On-duty pilots are
// refused; force-rest first. The reports, API keys, and pilot row go in one
// transaction under the pilot row lock.
func (s *PilotService) Delete(ctx context.Context, pilotID string) (*dtos.DeletePilotResponse, error) {
	var resp *dtos.DeletePilotResponse
	err := s.pilotRepo.RunInTx(ctx, func(tx *sqlx.Tx) error {
		pilot, err := s.pilotRepo.GetPilotForUpdate(ctx, tx, pilotID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				resp = &dtos.DeletePilotResponse{
					Denial: s.denial(constants.DenialPilotNotFound, constants.MsgPilotNotFound),
				}
				return nil
			}
			return err
		}

		if pilot.DutyStatus == constants.DutyOnDuty {
			resp = &dtos.DeletePilotResponse{
				Denial: s.denial(constants.DenialPilotOnDuty, constants.MsgPilotOnDuty),
			}
			return nil
		}

		if err := s.pilotRepo.DeleteReportsForPilot(ctx, tx, pilot.ID); err != nil {
			return err
		}
		if err := s.keysRepo.DeleteForPilotTx(ctx, tx, pilot.ID); err != nil {
			return err
		}
		if err := s.pilotRepo.DeletePilot(ctx, tx, pilot.ID); err != nil {
			return err
		}

		logging.Warn("Pilot deleted", "pilot_id", pilot.ID, "callsign", pilot.Callsign)
		resp = &dtos.DeletePilotResponse{Accepted: true}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resp.Accepted {
		s.cache.Delete(string(constants.CachePrefixPilotStats) + pilotID)
	}

	return resp, nil
}
