package repositories

import (
	"context"
	"fmt"

	gormModels "horizonva/opsdesk/internal/models/gorm"

	"gorm.io/gorm"
)

// RosterRepository handles roster table operations using GORM
type RosterRepository struct {
	db *gorm.DB
}

// NewRosterRepository creates a new GORM-based roster repository
func NewRosterRepository(db *gorm.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// GetByID retrieves a roster by its ID
func (r *RosterRepository) GetByID(ctx context.Context, rosterID string) (*gormModels.Roster, error) {
	var roster gormModels.Roster

	err := r.db.WithContext(ctx).
		Where("id = ?", rosterID).
		First(&roster).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch roster: %w", err)
	}

	return &roster, nil
}

// ListAvailable returns every roster still open for duty assignment.
func (r *RosterRepository) ListAvailable(ctx context.Context) ([]gormModels.Roster, error) {
	var rosters []gormModels.Roster

	err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Order("hub ASC, name ASC").
		Find(&rosters).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list rosters: %w", err)
	}

	return rosters, nil
}

// ListAvailableByHubs restricts the listing to rosters departing one of
// the given hubs.
func (r *RosterRepository) ListAvailableByHubs(ctx context.Context, hubs []string) ([]gormModels.Roster, error) {
	var rosters []gormModels.Roster

	err := r.db.WithContext(ctx).
		Where("available = ? AND hub IN ?", true, hubs).
		Order("hub ASC, name ASC").
		Find(&rosters).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list rosters by hub: %w", err)
	}

	return rosters, nil
}

// Create inserts a single roster.
func (r *RosterRepository) Create(ctx context.Context, roster *gormModels.Roster) error {
	if err := r.db.WithContext(ctx).Create(roster).Error; err != nil {
		return fmt.Errorf("failed to create roster: %w", err)
	}
	return nil
}

// ReplaceGenerated swaps the machine-built roster set in one transaction:
// every previously generated roster is removed before the new batch lands,
// so readers never observe a mixed generation.
func (r *RosterRepository) ReplaceGenerated(ctx context.Context, rosters []gormModels.Roster) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("generated = ?", true).
			Delete(&gormModels.Roster{}).Error; err != nil {
			return fmt.Errorf("failed to clear generated rosters: %w", err)
		}

		if len(rosters) == 0 {
			return nil
		}

		if err := tx.CreateInBatches(rosters, 50).Error; err != nil {
			return fmt.Errorf("failed to insert generated rosters: %w", err)
		}

		return nil
	})
}

// Delete removes a roster by ID. Returns false when no row matched.
func (r *RosterRepository) Delete(ctx context.Context, rosterID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ?", rosterID).
		Delete(&gormModels.Roster{})

	if res.Error != nil {
		return false, fmt.Errorf("failed to delete roster: %w", res.Error)
	}

	return res.RowsAffected > 0, nil
}

// CountGenerated reports how many machine-built rosters are live.
func (r *RosterRepository) CountGenerated(ctx context.Context) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&gormModels.Roster{}).
		Where("generated = ?", true).
		Count(&count).Error

	if err != nil {
		return 0, fmt.Errorf("failed to count generated rosters: %w", err)
	}

	return count, nil
}
