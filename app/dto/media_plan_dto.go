package dto

import (
	"time"
)

// CreateMediaPlanRequest is the request body for creating a media plan
type CreateMediaPlanRequest struct {
	CampaignID  uint    `json:"campaign_id" validate:"required"`
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Budget      float64 `json:"budget" validate:"required,gt=0"`
	Action      *string `json:"action,omitempty"`
}

// MediaPlanResponse is the external projection of a media plan
type MediaPlanResponse struct {
	ID             uint       `json:"id"`
	UUID           string     `json:"uuid"`
	UserID         uint       `json:"user_id"`
	OrganizationID uint       `json:"organization_id"`
	CampaignID     uint       `json:"campaign_id"`
	Name           string     `json:"name"`
	Description    *string    `json:"description,omitempty"`
	Budget         float64    `json:"budget"`
	Action         string     `json:"action"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// ListMediaPlansQuery carries the query parameters of the media plan listing endpoint
type ListMediaPlansQuery struct {
	Page       int   `query:"page" json:"page"`
	PerPage    int   `query:"per_page" json:"per_page"`
	CampaignID *uint `query:"campaign_id" json:"campaign_id,omitempty"`
}

// PaginatedMediaPlans is the envelope of the media plan listing endpoint
type PaginatedMediaPlans struct {
	Items       []MediaPlanResponse `json:"items"`
	Total       int64               `json:"total"`
	PerPage     int                 `json:"per_page"`
	CurrentPage int                 `json:"current_page"`
	LastPage    int                 `json:"last_page"`
	HasMore     bool                `json:"has_more"`
}
