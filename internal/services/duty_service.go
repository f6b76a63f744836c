package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"horizonva/opsdesk/internal/common"
	"horizonva/opsdesk/internal/config"
	"horizonva/opsdesk/internal/constants"
	"horizonva/opsdesk/internal/db/repositories"
	"horizonva/opsdesk/internal/logging"
	"horizonva/opsdesk/internal/metrics"
	"horizonva/opsdesk/internal/models/dtos"
	gormModels "horizonva/opsdesk/internal/models/gorm"
	"horizonva/opsdesk/internal/providers"
)

// DutyService owns the RESTING/ON_DUTY state machine. Start, end, and
// force-rest each run inside a transaction holding the pilot row lock, so
// concurrent transitions for the same pilot serialize instead of
// double-applying. Filing relies on the roster-leg unique index instead of
// the row lock; the index holds across connections, the lock would not.
type DutyService struct {
	pilotRepo  PilotStore
	rosterRepo *repositories.RosterRepository
	reportRepo *repositories.ReportRepository
	metricsReg *metrics.MetricsRegistry
	policy     config.FTLPolicy
}

// NewDutyService creates a new duty service
func NewDutyService(
	pilotRepo PilotStore,
	rosterRepo *repositories.RosterRepository,
	reportRepo *repositories.ReportRepository,
	metricsReg *metrics.MetricsRegistry,
	policy config.FTLPolicy,
) *DutyService {
	return &DutyService{
		pilotRepo:  pilotRepo,
		rosterRepo: rosterRepo,
		reportRepo: reportRepo,
		metricsReg: metricsReg,
		policy:     policy,
	}
}

// denial builds the refusal payload and counts it. Denials are responses,
// not errors; callers still get a nil error alongside one.
func (s *DutyService) denial(code constants.DenialCode, message string) *dtos.Denial {
	s.metricsReg.DenialsTotal.WithLabelValues(string(code)).Inc()
	return &dtos.Denial{
		Code:     string(code),
		Category: string(constants.CategoryOf(code)),
		Message:  message,
	}
}

// StartDuty moves a resting pilot onto a roster after the full gate
// sequence: state, rest, monthly rollover, monthly and daily ceilings, rank
// coverage of every leg. The monthly zeroing is computed in memory and only
// persisted on success, so a denied start leaves the row untouched.
func (s *DutyService) StartDuty(ctx context.Context, pilotID, rosterID string) (*dtos.StartDutyResponse, error) {
	roster, err := s.rosterRepo.GetByID(ctx, rosterID)
	if err != nil {
		return nil, err
	}
	if roster == nil || !roster.Available {
		return &dtos.StartDutyResponse{
			Denial: s.denial(constants.DenialRosterNotFound, constants.MsgRosterNotFound),
		}, nil
	}

	var resp *dtos.StartDutyResponse
	err = s.pilotRepo.RunInTx(ctx, func(tx *sqlx.Tx) error {
		pilot, err := s.pilotRepo.GetPilotForUpdate(ctx, tx, pilotID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				resp = &dtos.StartDutyResponse{
					Denial: s.denial(constants.DenialPilotNotFound, constants.MsgPilotNotFound),
				}
				return nil
			}
			return err
		}

		if pilot.DutyStatus == constants.DutyOnDuty {
			resp = &dtos.StartDutyResponse{
				Denial: s.denial(constants.DenialNotResting, constants.MsgNotResting),
			}
			return nil
		}

		now := time.Now().UTC()

		if pilot.LastDutyOff != nil {
			if remaining := common.RemainingRestMinutes(*pilot.LastDutyOff, now, s.policy.MinRest); remaining > 0 {
				d := s.denial(constants.DenialRestRemaining,
					fmt.Sprintf("Minimum rest not complete, %d minutes remaining", remaining))
				d.RemainingMinutes = remaining
				resp = &dtos.StartDutyResponse{Denial: d}
				return nil
			}
		}

		monthly := pilot.MonthlyFlightHours
		lastReset := pilot.LastHourReset
		if now.After(pilot.LastHourReset.AddDate(0, 1, 0)) {
			monthly = 0
			lastReset = now
		}

		if monthly+roster.TotalTimeHrs > s.policy.MonthlyCeilingHours {
			d := s.denial(constants.DenialMonthlyCeiling,
				fmt.Sprintf("Roster would push monthly hours to %.2f, ceiling is %.2f",
					monthly+roster.TotalTimeHrs, s.policy.MonthlyCeilingHours))
			resp = &dtos.StartDutyResponse{Denial: d}
			return nil
		}

		if pilot.DailyFlightHours+roster.TotalTimeHrs > s.policy.DailyCeilingHours {
			d := s.denial(constants.DenialDailyCeiling,
				fmt.Sprintf("Roster would push daily hours to %.2f, ceiling is %.2f",
					pilot.DailyFlightHours+roster.TotalTimeHrs, s.policy.DailyCeilingHours))
			resp = &dtos.StartDutyResponse{Denial: d}
			return nil
		}

		if blocked, required := FirstBlockedLeg(pilot.Rank, roster); blocked != nil {
			d := s.denial(constants.DenialRankBlocked,
				fmt.Sprintf("Leg %s (%s) needs rank %s", blocked.FlightNumber, blocked.Aircraft, required))
			d.BlockedLeg = blocked.FlightNumber
			d.RequiredRank = string(required)
			resp = &dtos.StartDutyResponse{Denial: d}
			return nil
		}

		if err := s.pilotRepo.SetDutyStart(ctx, tx, pilot.ID, roster.ID, now, monthly, lastReset); err != nil {
			return err
		}

		s.metricsReg.DutyTransitionsTotal.WithLabelValues("start").Inc()
		logging.Info("Duty started", "pilot_id", pilot.ID, "roster_id", roster.ID)

		resp = &dtos.StartDutyResponse{Accepted: true, Roster: RosterToResponse(roster)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// FileReport records a PIREP. On duty the claim must match exactly one leg
// of the bound roster and pass the duplicate-leg guard; resting pilots file
// ad hoc, gated only by aircraft-derived rank. Reports always start PENDING.
func (s *DutyService) FileReport(ctx context.Context, pilotID string, req *dtos.FileReportReq) (*dtos.FileReportResponse, error) {
	flightNumber := strings.TrimSpace(req.FlightNumber)
	if flightNumber == "" {
		return &dtos.FileReportResponse{
			Denial: s.denial(constants.DenialInvalidRequest, "Flight number is required"),
		}, nil
	}

	departure, ok := providers.ExtractAirportCode(req.Departure)
	if !ok {
		return &dtos.FileReportResponse{
			Denial: s.denial(constants.DenialInvalidRequest, "Departure must start with a 4-letter airport code"),
		}, nil
	}

	arrival, ok := providers.ExtractAirportCode(req.Arrival)
	if !ok {
		return &dtos.FileReportResponse{
			Denial: s.denial(constants.DenialInvalidRequest, "Arrival must start with a 4-letter airport code"),
		}, nil
	}

	aircraft := strings.TrimSpace(req.Aircraft)
	if aircraft == "" {
		return &dtos.FileReportResponse{
			Denial: s.denial(constants.DenialInvalidRequest, "Aircraft is required"),
		}, nil
	}

	claimedHours, ok := providers.ParseLegDuration(req.FlightTime)
	if !ok {
		return &dtos.FileReportResponse{
			Denial: s.denial(constants.DenialInvalidRequest, "Flight time must look like 1:30 or 1h30m"),
		}, nil
	}

	pilot, err := s.pilotRepo.FindPilotByID(ctx, pilotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &dtos.FileReportResponse{
				Denial: s.denial(constants.DenialPilotNotFound, constants.MsgPilotNotFound),
			}, nil
		}
		return nil, err
	}

	report := &gormModels.FlightReport{
		ID:           uuid.NewString(),
		PilotID:      pilot.ID,
		FlightNumber: flightNumber,
		Departure:    departure,
		Arrival:      arrival,
		Aircraft:     aircraft,
		ClaimedHours: claimedHours,
		Remarks:      req.Remarks,
		ImageURL:     req.ImageURL,
		Status:       constants.ReportPending,
	}

	if pilot.DutyStatus == constants.DutyOnDuty && pilot.CurrentRosterID != nil {
		roster, err := s.rosterRepo.GetByID(ctx, *pilot.CurrentRosterID)
		if err != nil {
			return nil, err
		}
		if roster == nil {
			return &dtos.FileReportResponse{
				Denial: s.denial(constants.DenialRosterNotFound, constants.MsgRosterNotFound),
			}, nil
		}

		matchIdx, ok := matchRosterLeg(roster, flightNumber, departure, arrival)
		if !ok {
			return &dtos.FileReportResponse{
				Denial: s.denial(constants.DenialNoMatchingLeg, constants.MsgNoMatchingLeg),
			}, nil
		}
		matched := &roster.Legs[matchIdx]

		exists, err := s.reportRepo.ExistsForRosterLeg(ctx, pilot.ID, roster.ID, matched.FlightNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			return &dtos.FileReportResponse{
				Denial: s.denial(constants.DenialDuplicateLeg, constants.MsgDuplicateLeg),
			}, nil
		}

		// Store the roster's spelling so the completion count and the
		// duplicate guard agree on the flight number.
		report.FlightNumber = matched.FlightNumber
		report.RosterID = &roster.ID
		report.MultiplierEligible = matchIdx == len(roster.Legs)-1
	} else {
		required := constants.RankFromAircraft(aircraft)
		if !CanFly(pilot.Rank, required) {
			d := s.denial(constants.DenialRankBlocked,
				fmt.Sprintf("Aircraft %s needs rank %s", aircraft, required))
			d.RequiredRank = string(required)
			return &dtos.FileReportResponse{Denial: d}, nil
		}
	}

	if err := s.reportRepo.Insert(ctx, report); err != nil {
		if repositories.IsUniqueViolation(err) {
			// Lost a race with a concurrent filing for the same leg.
			return &dtos.FileReportResponse{
				Denial: s.denial(constants.DenialDuplicateLeg, constants.MsgDuplicateLeg),
			}, nil
		}
		return nil, err
	}

	logging.Info("Flight report filed",
		"pilot_id", pilot.ID,
		"report_id", report.ID,
		"flight_number", report.FlightNumber,
		"on_roster", report.RosterID != nil,
	)

	return &dtos.FileReportResponse{Accepted: true, Report: ReportToResponse(report)}, nil
}

// EndDuty returns an on-duty pilot to RESTING once every roster leg has a
// filed report. Rejected reports do not count; the pilot refiles and tries
// again. The completion count runs inside the same transaction as the
// transition.
func (s *DutyService) EndDuty(ctx context.Context, pilotID string) (*dtos.EndDutyResponse, error) {
	var resp *dtos.EndDutyResponse
	err := s.pilotRepo.RunInTx(ctx, func(tx *sqlx.Tx) error {
		pilot, err := s.pilotRepo.GetPilotForUpdate(ctx, tx, pilotID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				resp = &dtos.EndDutyResponse{
					Denial: s.denial(constants.DenialPilotNotFound, constants.MsgPilotNotFound),
				}
				return nil
			}
			return err
		}

		if pilot.DutyStatus != constants.DutyOnDuty || pilot.CurrentRosterID == nil {
			resp = &dtos.EndDutyResponse{
				Denial: s.denial(constants.DenialNotOnDuty, constants.MsgNotOnDuty),
			}
			return nil
		}

		now := time.Now().UTC()
		lastAirport := pilot.LastDutyAirport

		roster, err := s.rosterRepo.GetByID(ctx, *pilot.CurrentRosterID)
		if err != nil {
			return err
		}

		if roster != nil {
			filed, err := s.pilotRepo.CountRosterReports(ctx, tx, pilot.ID, roster.ID)
			if err != nil {
				return err
			}
			if filed < len(roster.Legs) {
				d := s.denial(constants.DenialReportsIncomplete, constants.MsgReportsIncomplete)
				d.Filed = filed
				d.Required = len(roster.Legs)
				resp = &dtos.EndDutyResponse{Denial: d}
				return nil
			}
			if final := roster.FinalLeg(); final != nil {
				lastAirport = final.Arrival
			}
		} else {
			// The bound roster was swept by a regeneration while the pilot
			// was flying it. There is nothing left to count legs against, so
			// the completion gate is waived rather than stranding the pilot.
			logging.Warn("Ending duty on a vanished roster",
				"pilot_id", pilot.ID, "roster_id", *pilot.CurrentRosterID)
		}

		if err := s.pilotRepo.SetDutyEnd(ctx, tx, pilot.ID, now, lastAirport); err != nil {
			return err
		}

		s.metricsReg.DutyTransitionsTotal.WithLabelValues("end").Inc()
		logging.Info("Duty ended", "pilot_id", pilot.ID, "last_airport", lastAirport)

		resp = &dtos.EndDutyResponse{Accepted: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ForceRest is the admin override for a stuck duty: straight to RESTING,
// no completion gate, daily hours zeroed, last duty airport left alone
// since no roster finished.
func (s *DutyService) ForceRest(ctx context.Context, pilotID string) (*dtos.EndDutyResponse, error) {
	var resp *dtos.EndDutyResponse
	err := s.pilotRepo.RunInTx(ctx, func(tx *sqlx.Tx) error {
		pilot, err := s.pilotRepo.GetPilotForUpdate(ctx, tx, pilotID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				resp = &dtos.EndDutyResponse{
					Denial: s.denial(constants.DenialPilotNotFound, constants.MsgPilotNotFound),
				}
				return nil
			}
			return err
		}

		if pilot.DutyStatus != constants.DutyOnDuty {
			resp = &dtos.EndDutyResponse{
				Denial: s.denial(constants.DenialNotOnDuty, constants.MsgNotOnDuty),
			}
			return nil
		}

		if err := s.pilotRepo.SetForceRest(ctx, tx, pilot.ID, time.Now().UTC()); err != nil {
			return err
		}

		s.metricsReg.DutyTransitionsTotal.WithLabelValues("force_rest").Inc()
		logging.Warn("Pilot force-rested", "pilot_id", pilot.ID)

		resp = &dtos.EndDutyResponse{Accepted: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// matchRosterLeg finds the single roster leg matching the filed details
// case-insensitively. Returns false for zero matches and for ambiguous
// multi-matches alike; a claim that cannot name one leg names none.
func matchRosterLeg(roster *gormModels.Roster, flightNumber, departure, arrival string) (int, bool) {
	matchIdx := -1
	for i := range roster.Legs {
		leg := &roster.Legs[i]
		if strings.EqualFold(leg.FlightNumber, flightNumber) &&
			strings.EqualFold(leg.Departure, departure) &&
			strings.EqualFold(leg.Arrival, arrival) {
			if matchIdx >= 0 {
				return -1, false
			}
			matchIdx = i
		}
	}
	if matchIdx < 0 {
		return -1, false
	}
	return matchIdx, true
}
