package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MediaPlanAction represents the requested action of a media plan
type MediaPlanAction string

const (
	MediaPlanActionPublish  MediaPlanAction = "publish"
	MediaPlanActionDraft    MediaPlanAction = "draft"
	MediaPlanActionActive   MediaPlanAction = "active"
	MediaPlanActionDeactive MediaPlanAction = "deactive"
	MediaPlanActionUpcoming MediaPlanAction = "upcoming"
)

// String returns the string representation of the action
func (a MediaPlanAction) String() string {
	return string(a)
}

// Valid checks if the action is valid
func (a MediaPlanAction) Valid() bool {
	switch a {
	case MediaPlanActionPublish, MediaPlanActionDraft, MediaPlanActionActive,
		MediaPlanActionDeactive, MediaPlanActionUpcoming:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for MediaPlanAction
func (a *MediaPlanAction) Scan(value any) error {
	if value == nil {
		*a = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*a = MediaPlanAction(v)
	case []byte:
		*a = MediaPlanAction(string(v))
	default:
		return fmt.Errorf("cannot scan %T into MediaPlanAction", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for MediaPlanAction
func (a MediaPlanAction) Value() (driver.Value, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("invalid MediaPlanAction: %s", a)
	}
	return string(a), nil
}

// MediaPlan attaches a budgeted plan to one campaign
type MediaPlan struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UUID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uk_media_plans_uuid" json:"uuid"`
	UserID         uint            `gorm:"not null;index:idx_media_plans_user_id" json:"user_id"`
	OrganizationID uint            `gorm:"not null;index:idx_media_plans_organization_id" json:"organization_id"`
	CampaignID     uint            `gorm:"not null;index:idx_media_plans_campaign_id" json:"campaign_id"`
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	Description    *string         `gorm:"type:text" json:"description,omitempty"`
	Budget         float64         `gorm:"type:numeric(14,2);not null" json:"budget"`
	Action         MediaPlanAction `gorm:"type:media_plan_action;not null;default:'publish'" json:"action"`
	CreatedAt      time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_media_plans_created_at" json:"created_at"`
	UpdatedAt      *time.Time      `json:"updated_at,omitempty"`

	// Relations
	Campaign *Campaign `gorm:"foreignKey:CampaignID;references:ID" json:"campaign,omitempty"`
}

// TableName returns the table name for the model
func (MediaPlan) TableName() string {
	return "media_plans"
}

// BeforeCreate is called before creating a new record
func (m *MediaPlan) BeforeCreate() error {
	if m.UUID == uuid.Nil {
		m.UUID = uuid.New()
	}
	if m.Action == "" {
		m.Action = MediaPlanActionPublish
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (m *MediaPlan) BeforeUpdate() error {
	now := time.Now().UTC()
	m.UpdatedAt = &now
	return nil
}

// MediaPlanFilter represents filter criteria for media plans
type MediaPlanFilter struct {
	ID             *uint            `json:"id,omitempty"`
	UUID           *uuid.UUID       `json:"uuid,omitempty"`
	UserID         *uint            `json:"user_id,omitempty"`
	OrganizationID *uint            `json:"organization_id,omitempty"`
	CampaignID     *uint            `json:"campaign_id,omitempty"`
	Action         *MediaPlanAction `json:"action,omitempty"`
}
