package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"horizonva/opsdesk/internal/common"
	"horizonva/opsdesk/internal/constants"
	"horizonva/opsdesk/internal/db/repositories"
	"horizonva/opsdesk/internal/logging"
	"horizonva/opsdesk/internal/metrics"
	"horizonva/opsdesk/internal/models/dtos"
	gormModels "horizonva/opsdesk/internal/models/gorm"
)

// PirepReviewService settles pending reports. Approval credits hours and
// runs the promotion check inside one transaction holding both the report
// and pilot rows, so a double-click or two reviewers racing cannot credit
// twice; the loser sees ALREADY_REVIEWED.
type PirepReviewService struct {
	db          *gorm.DB
	reportRepo  *repositories.ReportRepository
	ledgerQueue common.LedgerQueue
	metricsReg  *metrics.MetricsRegistry
}

// NewPirepReviewService creates a new PIREP review service
func NewPirepReviewService(
	db *gorm.DB,
	reportRepo *repositories.ReportRepository,
	ledgerQueue common.LedgerQueue,
	metricsReg *metrics.MetricsRegistry,
) *PirepReviewService {
	return &PirepReviewService{
		db:          db,
		reportRepo:  reportRepo,
		ledgerQueue: ledgerQueue,
		metricsReg:  metricsReg,
	}
}

func (s *PirepReviewService) denial(code constants.DenialCode, message string) *dtos.Denial {
	s.metricsReg.DenialsTotal.WithLabelValues(string(code)).Inc()
	return &dtos.Denial{
		Code:     string(code),
		Category: string(constants.CategoryOf(code)),
		Message:  message,
	}
}

// Approve credits a pending report to its pilot. Awarded hours are claimed
// hours times the roster multiplier when the report is multiplier-eligible
// and the roster still resolves, otherwise times one. The ledger entry is
// enqueued only after commit; its failure never unwinds the approval.
func (s *PirepReviewService) Approve(ctx context.Context, reportID, reviewerID string) (*dtos.ReviewResponse, error) {
	var (
		resp        *dtos.ReviewResponse
		ledgerEntry *common.LedgerEntry
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var report gormModels.FlightReport
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", reportID).
			First(&report).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				resp = &dtos.ReviewResponse{
					Denial: s.denial(constants.DenialReportNotFound, constants.MsgReportNotFound),
				}
				return nil
			}
			return err
		}

		if report.Status != constants.ReportPending {
			resp = &dtos.ReviewResponse{
				Denial: s.denial(constants.DenialAlreadyReviewed, constants.MsgAlreadyReviewed),
			}
			return nil
		}

		var pilot gormModels.Pilot
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", report.PilotID).
			First(&pilot).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				resp = &dtos.ReviewResponse{
					Denial: s.denial(constants.DenialPilotNotFound, constants.MsgPilotNotFound),
				}
				return nil
			}
			return err
		}

		multiplier := 1.0
		if report.MultiplierEligible && report.RosterID != nil {
			var roster gormModels.Roster
			err := tx.Where("id = ?", *report.RosterID).First(&roster).Error
			switch {
			case err == nil:
				multiplier = roster.Multiplier
			case errors.Is(err, gorm.ErrRecordNotFound):
				// Roster regenerated away since filing; the bonus lapses.
			default:
				return err
			}
		}

		awarded := common.Round2(report.ClaimedHours * multiplier)
		newRank, promoted := PromotionFor(pilot.Rank, pilot.FlightHours+awarded)
		now := time.Now().UTC()

		err = tx.Model(&gormModels.Pilot{}).
			Where("id = ?", pilot.ID).
			Updates(map[string]interface{}{
				"flight_hours":         gorm.Expr("flight_hours + ?", awarded),
				"monthly_flight_hours": gorm.Expr("monthly_flight_hours + ?", awarded),
				"daily_flight_hours":   gorm.Expr("daily_flight_hours + ?", awarded),
				"rank":                 newRank,
				"last_known_airport":   report.Arrival,
			}).Error
		if err != nil {
			return err
		}

		err = tx.Model(&gormModels.FlightReport{}).
			Where("id = ?", report.ID).
			Updates(map[string]interface{}{
				"status":      constants.ReportApproved,
				"reviewer_id": reviewerID,
				"reviewed_at": now,
			}).Error
		if err != nil {
			return err
		}

		resp = &dtos.ReviewResponse{
			Message:      "Report approved",
			AwardedHours: dtos.RoundedHours(awarded),
		}
		if promoted {
			resp.Promotion = &dtos.PromotionResponse{NewRank: string(newRank)}
		}

		ledgerEntry = &common.LedgerEntry{
			ReportID:     report.ID,
			PilotID:      pilot.ID,
			Callsign:     pilot.Callsign,
			FlightNumber: report.FlightNumber,
			Departure:    report.Departure,
			Arrival:      report.Arrival,
			AwardedHours: awarded,
			ReviewerID:   reviewerID,
			ApprovedAt:   now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resp.Denial == nil {
		s.metricsReg.ReportsReviewedTotal.WithLabelValues("approved").Inc()
		s.metricsReg.HoursAwardedTotal.Add(float64(resp.AwardedHours))
		if resp.Promotion != nil {
			s.metricsReg.PromotionsTotal.Inc()
			logging.Info("Pilot promoted",
				"pilot_id", ledgerEntry.PilotID, "new_rank", resp.Promotion.NewRank)
		}

		if s.ledgerQueue != nil {
			if err := s.ledgerQueue.Enqueue(ctx, ledgerEntry); err != nil {
				logging.Warn("Ledger enqueue failed",
					"report_id", ledgerEntry.ReportID, "error", err)
			}
		}
	}

	return resp, nil
}

// Reject closes a pending report without touching hours. The reason is
// mandatory; the pilot needs to know what to fix before refiling.
func (s *PirepReviewService) Reject(ctx context.Context, reportID, reviewerID, reason string) (*dtos.ReviewResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return &dtos.ReviewResponse{
			Denial: s.denial(constants.DenialInvalidReason, constants.MsgEmptyReason),
		}, nil
	}

	var resp *dtos.ReviewResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var report gormModels.FlightReport
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", reportID).
			First(&report).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				resp = &dtos.ReviewResponse{
					Denial: s.denial(constants.DenialReportNotFound, constants.MsgReportNotFound),
				}
				return nil
			}
			return err
		}

		if report.Status != constants.ReportPending {
			resp = &dtos.ReviewResponse{
				Denial: s.denial(constants.DenialAlreadyReviewed, constants.MsgAlreadyReviewed),
			}
			return nil
		}

		err = tx.Model(&gormModels.FlightReport{}).
			Where("id = ?", report.ID).
			Updates(map[string]interface{}{
				"status":        constants.ReportRejected,
				"reviewer_id":   reviewerID,
				"reviewed_at":   time.Now().UTC(),
				"reject_reason": reason,
			}).Error
		if err != nil {
			return err
		}

		resp = &dtos.ReviewResponse{Message: "Report rejected"}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resp.Denial == nil {
		s.metricsReg.ReportsReviewedTotal.WithLabelValues("rejected").Inc()
	}

	return resp, nil
}

// ListPending returns the review queue, oldest first.
func (s *PirepReviewService) ListPending(ctx context.Context, limit int) ([]dtos.ReportResponse, error) {
	reports, err := s.reportRepo.ListPending(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dtos.ReportResponse, 0, len(reports))
	for i := range reports {
		out = append(out, *ReportToResponse(&reports[i]))
	}
	return out, nil
}

// ListForPilot returns a pilot's own filings, newest first.
func (s *PirepReviewService) ListForPilot(ctx context.Context, pilotID string, limit int) ([]dtos.ReportResponse, error) {
	reports, err := s.reportRepo.ListByPilot(ctx, pilotID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dtos.ReportResponse, 0, len(reports))
	for i := range reports {
		out = append(out, *ReportToResponse(&reports[i]))
	}
	return out, nil
}
