// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/oohgrid/oohgrid/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// TxManager opens a transactional scope and runs fn inside it. Flows depend
// on this port instead of *gorm.DB so they stay testable against fakes.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// CampaignRepository defines operations for campaigns
type CampaignRepository interface {
	Repository[models.Campaign, models.CampaignFilter]
	ByIDAndOrganization(ctx context.Context, id, organizationID uint) (*models.Campaign, error)
	Update(ctx context.Context, campaign models.Campaign) error
	UpdateStatus(ctx context.Context, id uint, status models.CampaignStatus) error
	Delete(ctx context.Context, id uint) error
	ListNonDraftByOrganization(ctx context.Context, organizationID uint) ([]*models.Campaign, error)
	DistinctOrganizationIDs(ctx context.Context) ([]uint, error)
	ExistsDuplicateSchedule(ctx context.Context, userID uint, name string, startDate, endDate time.Time, excludeID *uint) (bool, error)
}

// GeoDivisionRepository defines operations for the geo catalog
type GeoDivisionRepository interface {
	Repository[models.GeoDivision, models.GeoDivisionFilter]
	ListByCountry(ctx context.Context, countryCode string) ([]*models.GeoDivision, error)
	ByDivisionIDs(ctx context.Context, divisionIDs []string) ([]*models.GeoDivision, error)
}

// InventoryFaceRepository defines operations for billboard inventory
type InventoryFaceRepository interface {
	Repository[models.InventoryFace, models.InventoryFaceFilter]
	OwnershipByFaceIDs(ctx context.Context, faceIDs []string) (map[string]uint, error)
}

// MediaPlanRepository defines operations for media plans
type MediaPlanRepository interface {
	Repository[models.MediaPlan, models.MediaPlanFilter]
}

// UserRepository defines operations for users
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.AuditLog, error)
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
}
