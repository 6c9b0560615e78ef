package repository

import (
	"context"

	"github.com/oohgrid/oohgrid/models"
	"gorm.io/gorm"
)

// MediaPlanRepositoryImpl implements the MediaPlanRepository interface
type MediaPlanRepositoryImpl struct {
	*BaseRepository[models.MediaPlan, models.MediaPlanFilter]
}

// NewMediaPlanRepository creates a new media plan repository
func NewMediaPlanRepository(db *gorm.DB) MediaPlanRepository {
	return &MediaPlanRepositoryImpl{
		BaseRepository: NewBaseRepository[models.MediaPlan, models.MediaPlanFilter](db),
	}
}

// ByFilter retrieves media plans based on filter criteria
func (r *MediaPlanRepositoryImpl) ByFilter(ctx context.Context, filter models.MediaPlanFilter, orderBy string, limit, offset int) ([]*models.MediaPlan, error) {
	db := r.getDB(ctx)

	var plans []*models.MediaPlan
	query := r.applyFilter(db, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&plans).Error
	if err != nil {
		return nil, err
	}

	return plans, nil
}

// Count returns the number of media plans matching the filter
func (r *MediaPlanRepositoryImpl) Count(ctx context.Context, filter models.MediaPlanFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	var plan models.MediaPlan
	query := r.applyFilter(db.Model(&plan), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any media plan matching the filter exists
func (r *MediaPlanRepositoryImpl) Exists(ctx context.Context, filter models.MediaPlanFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *MediaPlanRepositoryImpl) applyFilter(db *gorm.DB, filter models.MediaPlanFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.UserID != nil {
		db = db.Where("user_id = ?", *filter.UserID)
	}
	if filter.OrganizationID != nil {
		db = db.Where("organization_id = ?", *filter.OrganizationID)
	}
	if filter.CampaignID != nil {
		db = db.Where("campaign_id = ?", *filter.CampaignID)
	}
	if filter.Action != nil {
		db = db.Where("action = ?", *filter.Action)
	}

	return db
}
