package repositories

import (
	"context"
	"fmt"

	gormModels "horizonva/opsdesk/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SourceRepository struct {
	db *gorm.DB
}

func NewSourceRepository(db *gorm.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// GetByID fetches a route source by its ID
func (r *SourceRepository) GetByID(ctx context.Context, sourceID string) (*gormModels.RouteSource, error) {
	var source gormModels.RouteSource

	err := r.db.WithContext(ctx).
		Where("id = ?", sourceID).
		First(&source).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get route source by ID: %w", err)
	}

	return &source, nil
}

// GetByName fetches a route source by its unique name
func (r *SourceRepository) GetByName(ctx context.Context, name string) (*gormModels.RouteSource, error) {
	var source gormModels.RouteSource

	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&source).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get route source by name: %w", err)
	}

	return &source, nil
}

// List fetches route sources, optionally restricted to active ones
func (r *SourceRepository) List(ctx context.Context, activeOnly bool) ([]gormModels.RouteSource, error) {
	var sources []gormModels.RouteSource

	q := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}

	if err := q.Find(&sources).Error; err != nil {
		return nil, fmt.Errorf("failed to list route sources: %w", err)
	}

	return sources, nil
}

// Upsert inserts the source, or refreshes an existing row with the same
// name so re-registering a source updates it in place.
func (r *SourceRepository) Upsert(ctx context.Context, source *gormModels.RouteSource) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"kind", "provider", "config", "active", "updated_at",
			}),
		}).
		Create(source).Error

	if err != nil {
		return fmt.Errorf("failed to upsert route source: %w", err)
	}

	return nil
}

// Delete removes a route source. Returns false when no row matched.
func (r *SourceRepository) Delete(ctx context.Context, sourceID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ?", sourceID).
		Delete(&gormModels.RouteSource{})

	if res.Error != nil {
		return false, fmt.Errorf("failed to delete route source: %w", res.Error)
	}

	return res.RowsAffected > 0, nil
}
