package repository

import (
	"context"

	"github.com/oohgrid/oohgrid/models"
	"gorm.io/gorm"
)

// GeoDivisionRepositoryImpl implements the GeoDivisionRepository interface
type GeoDivisionRepositoryImpl struct {
	*BaseRepository[models.GeoDivision, models.GeoDivisionFilter]
}

// NewGeoDivisionRepository creates a new geo division repository
func NewGeoDivisionRepository(db *gorm.DB) GeoDivisionRepository {
	return &GeoDivisionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.GeoDivision, models.GeoDivisionFilter](db),
	}
}

// ListByCountry returns every division of a country ordered by name
func (r *GeoDivisionRepositoryImpl) ListByCountry(ctx context.Context, countryCode string) ([]*models.GeoDivision, error) {
	filter := models.GeoDivisionFilter{CountryCode: &countryCode}
	return r.ByFilter(ctx, filter, "name ASC", 0, 0)
}

// ByDivisionIDs loads divisions matching the given external division ids
func (r *GeoDivisionRepositoryImpl) ByDivisionIDs(ctx context.Context, divisionIDs []string) ([]*models.GeoDivision, error) {
	if len(divisionIDs) == 0 {
		return nil, nil
	}

	db := r.getDB(ctx)

	var divisions []*models.GeoDivision
	err := db.Where("division_id IN ?", divisionIDs).Find(&divisions).Error
	if err != nil {
		return nil, err
	}

	return divisions, nil
}

// ByFilter retrieves geo divisions based on filter criteria
func (r *GeoDivisionRepositoryImpl) ByFilter(ctx context.Context, filter models.GeoDivisionFilter, orderBy string, limit, offset int) ([]*models.GeoDivision, error) {
	db := r.getDB(ctx)

	var divisions []*models.GeoDivision
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

	err := query.Find(&divisions).Error
	if err != nil {
		return nil, err
	}

	return divisions, nil
}

// Count returns the number of geo divisions matching the filter
func (r *GeoDivisionRepositoryImpl) Count(ctx context.Context, filter models.GeoDivisionFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	var division models.GeoDivision
	query := r.applyFilter(db.Model(&division), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any geo division matching the filter exists
func (r *GeoDivisionRepositoryImpl) Exists(ctx context.Context, filter models.GeoDivisionFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *GeoDivisionRepositoryImpl) applyFilter(db *gorm.DB, filter models.GeoDivisionFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.DivisionID != nil {
		db = db.Where("division_id = ?", *filter.DivisionID)
	}
	if filter.CountryCode != nil {
		db = db.Where("country_code = ?", *filter.CountryCode)
	}

	return db
}
