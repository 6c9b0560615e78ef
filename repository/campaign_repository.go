package repository

import (
	"context"
	"errors"
	"time"

	"github.com/oohgrid/oohgrid/models"
	"github.com/oohgrid/oohgrid/utils"
	"gorm.io/gorm"
)

// CampaignRepositoryImpl implements the CampaignRepository interface
type CampaignRepositoryImpl struct {
	*BaseRepository[models.Campaign, models.CampaignFilter]
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &CampaignRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Campaign, models.CampaignFilter](db),
	}
}

// ByIDAndOrganization retrieves a campaign scoped to one organization.
// Returns nil for both a missing row and a row owned by another organization.
func (r *CampaignRepositoryImpl) ByIDAndOrganization(ctx context.Context, id, organizationID uint) (*models.Campaign, error) {
	db := r.getDB(ctx)

	var campaign models.Campaign
	err := db.Where("id = ? AND organization_id = ?", id, organizationID).
		First(&campaign).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &campaign, nil
}

// Update saves the full campaign row
func (r *CampaignRepositoryImpl) Update(ctx context.Context, campaign models.Campaign) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	now := utils.UTCNow()
	campaign.UpdatedAt = &now

	err = db.Save(&campaign).Error
	if err != nil {
		return err
	}

	return nil
}

// UpdateStatus updates only the status of a campaign
func (r *CampaignRepositoryImpl) UpdateStatus(ctx context.Context, id uint, status models.CampaignStatus) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	now := utils.UTCNow()
	err = db.Model(&models.Campaign{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": now,
		}).Error

	if err != nil {
		return err
	}

	return nil
}

// Delete hard-deletes a campaign row
func (r *CampaignRepositoryImpl) Delete(ctx context.Context, id uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Delete(&models.Campaign{}, id).Error
	if err != nil {
		return err
	}

	return nil
}

// ListNonDraftByOrganization loads every campaign of the organization whose
// status is derived from the schedule, i.e. everything except drafts.
func (r *CampaignRepositoryImpl) ListNonDraftByOrganization(ctx context.Context, organizationID uint) ([]*models.Campaign, error) {
	draft := models.CampaignStatusDraft
	filter := models.CampaignFilter{
		OrganizationID: &organizationID,
		ExcludeStatus:  &draft,
	}
	return r.ByFilter(ctx, filter, "id ASC", 0, 0)
}

// DistinctOrganizationIDs returns every organization id owning at least one
// non-draft campaign. Draft-only organizations have nothing to refresh.
func (r *CampaignRepositoryImpl) DistinctOrganizationIDs(ctx context.Context) ([]uint, error) {
	db := r.getDB(ctx)

	var ids []uint
	err := db.Model(&models.Campaign{}).
		Where("status <> ?", models.CampaignStatusDraft).
		Distinct("organization_id").
		Order("organization_id ASC").
		Pluck("organization_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// ExistsDuplicateSchedule reports whether the owner already has a non-draft
// campaign with the same name and schedule. Drafts never count as duplicates.
func (r *CampaignRepositoryImpl) ExistsDuplicateSchedule(ctx context.Context, userID uint, name string, startDate, endDate time.Time, excludeID *uint) (bool, error) {
	db := r.getDB(ctx)

	query := db.Model(&models.Campaign{}).
		Where("user_id = ?", userID).
		Where("name = ?", name).
		Where("start_date = ?", startDate).
		Where("end_date = ?", endDate).
		Where("status <> ?", models.CampaignStatusDraft)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// ByFilter retrieves campaigns based on filter criteria
func (r *CampaignRepositoryImpl) ByFilter(ctx context.Context, filter models.CampaignFilter, orderBy string, limit, offset int) ([]*models.Campaign, error) {
	db := r.getDB(ctx)

	var campaigns []*models.Campaign
	query := r.applyFilter(db, filter)

	// Apply ordering
	if orderBy != "" {
		query = query.Order(orderBy)
	}

	// Apply pagination
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&campaigns).Error
	if err != nil {
		return nil, err
	}

	return campaigns, nil
}

// Count returns the number of campaigns matching the filter
func (r *CampaignRepositoryImpl) Count(ctx context.Context, filter models.CampaignFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	var campaign models.Campaign
	query := r.applyFilter(db.Model(&campaign), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any campaign matching the filter exists
func (r *CampaignRepositoryImpl) Exists(ctx context.Context, filter models.CampaignFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *CampaignRepositoryImpl) applyFilter(db *gorm.DB, filter models.CampaignFilter) *gorm.DB {
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
	if filter.Name != nil {
		db = db.Where("name = ?", *filter.Name)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.ExcludeStatus != nil {
		db = db.Where("status <> ?", *filter.ExcludeStatus)
	}
	if filter.ExcludeID != nil {
		db = db.Where("id <> ?", *filter.ExcludeID)
	}
	if filter.Search != nil {
		pattern := "%" + *filter.Search + "%"
		db = db.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if filter.StartDate != nil {
		db = db.Where("start_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		db = db.Where("end_date <= ?", *filter.EndDate)
	}
	if filter.StartsAt != nil {
		db = db.Where("start_date = ?", *filter.StartsAt)
	}
	if filter.EndsAt != nil {
		db = db.Where("end_date = ?", *filter.EndsAt)
	}

	return db
}
