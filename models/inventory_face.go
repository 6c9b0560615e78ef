package models

import (
	"time"
)

// InventoryFace is one unit of physical or digital display inventory
// (a billboard face) owned by exactly one organization.
type InventoryFace struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	FaceID         string    `gorm:"type:varchar(64);not null;uniqueIndex:uk_billboards_face_id" json:"face_id"`
	OrganizationID uint      `gorm:"not null;index:idx_billboards_organization_id" json:"organization_id"`
	Label          *string   `gorm:"type:varchar(255)" json:"label,omitempty"`
	Latitude       *float64  `gorm:"type:numeric(9,6)" json:"latitude,omitempty"`
	Longitude      *float64  `gorm:"type:numeric(9,6)" json:"longitude,omitempty"`
	CreatedAt      time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

// TableName returns the table name for the model
func (InventoryFace) TableName() string {
	return "billboards"
}

// InventoryFaceFilter represents filter criteria for inventory faces
type InventoryFaceFilter struct {
	ID             *uint   `json:"id,omitempty"`
	FaceID         *string `json:"face_id,omitempty"`
	OrganizationID *uint   `json:"organization_id,omitempty"`
}
