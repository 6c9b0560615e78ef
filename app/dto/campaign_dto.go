package dto

import (
	"time"

	"github.com/oohgrid/oohgrid/models"
)

// CampaignPayload is the shared request body for creating and editing campaigns.
// Schedule timestamps arrive as strings so the flow can enforce that they carry
// timezone info instead of silently assuming one.
type CampaignPayload struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Budget      float64 `json:"budget" validate:"required,gt=0"`
	StartDate   string  `json:"start_date" validate:"required"`
	EndDate     string  `json:"end_date" validate:"required"`
	SaveAsDraft bool    `json:"save_as_draft"`

	TimeUnit      *string  `json:"time_unit,omitempty"`
	WeekStartsOn  *string  `json:"week_starts_on,omitempty"`
	HourRange     []int    `json:"hour_range,omitempty" validate:"omitempty,len=2"`
	Countries     []string `json:"countries,omitempty"`
	Cities        []string `json:"cities,omitempty"`
	Gender        *string  `json:"gender,omitempty"`
	AgeGroups     []string `json:"age_groups,omitempty"`
	SocioProfCat  *string  `json:"socio_professional_category,omitempty"`
	MobilityModes []string `json:"mobility_modes,omitempty"`
	POICategories []string `json:"poi_categories,omitempty"`

	BillboardIDs []string `json:"billboard_ids,omitempty"`
	InventoryIDs []string `json:"inventory_ids" validate:"required,min=1"`
}

// CampaignResponse is the sanitized external projection of a campaign.
// Raw analytic columns are nulled and kpi_data carries the deterministic summary.
type CampaignResponse struct {
	ID             uint                     `json:"id"`
	UUID           string                   `json:"uuid"`
	UserID         uint                     `json:"user_id"`
	OrganizationID uint                     `json:"organization_id"`
	Name           string                   `json:"name"`
	Description    *string                  `json:"description,omitempty"`
	Budget         float64                  `json:"budget"`
	StartDate      time.Time                `json:"start_date"`
	EndDate        time.Time                `json:"end_date"`
	Status         string                   `json:"status"`
	Targeting      models.CampaignTargeting `json:"targeting"`
	BillboardIDs   []string                 `json:"billboard_ids"`
	InventoryIDs   []string                 `json:"inventory_ids"`

	KPIData           models.CampaignKPIData `json:"kpi_data"`
	BillboardKPIData  models.JSONMap         `json:"billboard_kpi_data"`
	KPIFullData       models.JSONMap         `json:"kpi_full_data"`
	AudienceBreakdown models.JSONMap         `json:"audience_breakdown"`

	OperatorFirstName *string    `json:"operator_first_name,omitempty"`
	OperatorLastName  *string    `json:"operator_last_name,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

// ListCampaignsQuery carries the query parameters of the campaign listing endpoint
type ListCampaignsQuery struct {
	Page      int     `query:"page" json:"page"`
	PerPage   int     `query:"per_page" json:"per_page"`
	Search    *string `query:"search" json:"search,omitempty"`
	Status    *string `query:"status" json:"status,omitempty"`
	StartDate *string `query:"start_date" json:"start_date,omitempty"`
	EndDate   *string `query:"end_date" json:"end_date,omitempty"`
}

// PaginatedCampaigns is the envelope of the campaign listing endpoint
type PaginatedCampaigns struct {
	Items       []CampaignResponse `json:"items"`
	Total       int64              `json:"total"`
	PerPage     int                `json:"per_page"`
	CurrentPage int                `json:"current_page"`
	LastPage    int                `json:"last_page"`
	HasMore     bool               `json:"has_more"`
}

// GeoDivisionDTO is one selectable division of the geo catalog
type GeoDivisionDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
