package repositories

import (
	"context"
	"fmt"
	"strings"

	gormModels "horizonva/opsdesk/internal/models/gorm"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new GORM-based flight report repository
func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// GetByID retrieves a flight report by its ID
func (r *ReportRepository) GetByID(ctx context.Context, reportID string) (*gormModels.FlightReport, error) {
	var report gormModels.FlightReport

	err := r.db.WithContext(ctx).
		Where("id = ?", reportID).
		First(&report).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch flight report: %w", err)
	}

	return &report, nil
}

// Insert files a report. The unique index on (pilot_id, roster_id,
// flight_number) rejects a second claim of the same roster leg, whatever
// the earlier claim's review status.
func (r *ReportRepository) Insert(ctx context.Context, report *gormModels.FlightReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// IsUniqueViolation reports whether err came from a unique index, under
// Postgres or the sqlite driver used in tests.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key value")
}

// ExistsForRosterLeg reports whether the pilot has already filed this
// flight number against the roster.
func (r *ReportRepository) ExistsForRosterLeg(ctx context.Context, pilotID, rosterID, flightNumber string) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&gormModels.FlightReport{}).
		Where("pilot_id = ? AND roster_id = ? AND flight_number = ?", pilotID, rosterID, flightNumber).
		Count(&count).Error

	if err != nil {
		return false, fmt.Errorf("failed to check roster leg claim: %w", err)
	}

	return count > 0, nil
}

// CountFiledForRoster counts the pilot's surviving reports against a
// roster. Rejected reports do not count toward completion.
func (r *ReportRepository) CountFiledForRoster(ctx context.Context, pilotID, rosterID string) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&gormModels.FlightReport{}).
		Where("pilot_id = ? AND roster_id = ? AND status IN ?", pilotID, rosterID,
			[]string{"PENDING", "APPROVED"}).
		Count(&count).Error

	if err != nil {
		return 0, fmt.Errorf("failed to count roster reports: %w", err)
	}

	return count, nil
}

// ListByPilot returns the pilot's most recent reports, newest first.
func (r *ReportRepository) ListByPilot(ctx context.Context, pilotID string, limit int) ([]gormModels.FlightReport, error) {
	var reports []gormModels.FlightReport

	err := r.db.WithContext(ctx).
		Where("pilot_id = ?", pilotID).
		Order("created_at DESC").
		Limit(limit).
		Find(&reports).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list pilot reports: %w", err)
	}

	return reports, nil
}

// ListPending returns reports awaiting review, oldest first so the queue
// drains in filing order.
func (r *ReportRepository) ListPending(ctx context.Context, limit int) ([]gormModels.FlightReport, error) {
	var reports []gormModels.FlightReport

	err := r.db.WithContext(ctx).
		Where("status = ?", "PENDING").
		Order("created_at ASC").
		Limit(limit).
		Find(&reports).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list pending reports: %w", err)
	}

	return reports, nil
}
