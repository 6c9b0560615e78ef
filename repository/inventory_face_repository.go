package repository

import (
	"context"

	"github.com/oohgrid/oohgrid/models"
	"gorm.io/gorm"
)

// InventoryFaceRepositoryImpl implements the InventoryFaceRepository interface
type InventoryFaceRepositoryImpl struct {
	*BaseRepository[models.InventoryFace, models.InventoryFaceFilter]
}

// NewInventoryFaceRepository creates a new inventory face repository
func NewInventoryFaceRepository(db *gorm.DB) InventoryFaceRepository {
	return &InventoryFaceRepositoryImpl{
		BaseRepository: NewBaseRepository[models.InventoryFace, models.InventoryFaceFilter](db),
	}
}

// OwnershipByFaceIDs returns face_id -> organization_id for the requested
// billboard faces. Faces absent from the result do not exist.
func (r *InventoryFaceRepositoryImpl) OwnershipByFaceIDs(ctx context.Context, faceIDs []string) (map[string]uint, error) {
	out := make(map[string]uint)
	if len(faceIDs) == 0 {
		return out, nil
	}

	type row struct {
		FaceID         string
		OrganizationID uint
	}
	var rows []row

	db := r.getDB(ctx)
	err := db.Model(&models.InventoryFace{}).
		Select("face_id, organization_id").
		Where("face_id IN ?", faceIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, rec := range rows {
		out[rec.FaceID] = rec.OrganizationID
	}

	return out, nil
}

// ByFilter retrieves inventory faces based on filter criteria
func (r *InventoryFaceRepositoryImpl) ByFilter(ctx context.Context, filter models.InventoryFaceFilter, orderBy string, limit, offset int) ([]*models.InventoryFace, error) {
	db := r.getDB(ctx)

	var faces []*models.InventoryFace
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

	err := query.Find(&faces).Error
	if err != nil {
		return nil, err
	}

	return faces, nil
}

// Count returns the number of inventory faces matching the filter
func (r *InventoryFaceRepositoryImpl) Count(ctx context.Context, filter models.InventoryFaceFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	var face models.InventoryFace
	query := r.applyFilter(db.Model(&face), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any inventory face matching the filter exists
func (r *InventoryFaceRepositoryImpl) Exists(ctx context.Context, filter models.InventoryFaceFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *InventoryFaceRepositoryImpl) applyFilter(db *gorm.DB, filter models.InventoryFaceFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.FaceID != nil {
		db = db.Where("face_id = ?", *filter.FaceID)
	}
	if filter.OrganizationID != nil {
		db = db.Where("organization_id = ?", *filter.OrganizationID)
	}

	return db
}
