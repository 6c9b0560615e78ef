package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CampaignStatus represents the lifecycle status of a campaign
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusUpcoming  CampaignStatus = "upcoming"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusCompleted CampaignStatus = "completed"
)

// String returns the string representation of the status
func (s CampaignStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignStatusDraft, CampaignStatusUpcoming,
		CampaignStatusActive, CampaignStatusCompleted:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for CampaignStatus
func (s *CampaignStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = CampaignStatus(v)
	case []byte:
		*s = CampaignStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CampaignStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for CampaignStatus
func (s CampaignStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid CampaignStatus: %s", s)
	}
	return string(s), nil
}

// CityRecord is a normalized geographic selection resolved against the geo
// catalog. Raw client division ids are never stored.
type CityRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// HourRange restricts campaign delivery to a daily window [From, To).
type HourRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Valid checks the window bounds: 0 <= From < 24, 0 < To <= 24, From < To.
func (h HourRange) Valid() bool {
	return h.From >= 0 && h.From < 24 && h.To > 0 && h.To <= 24 && h.From < h.To
}

// CampaignTargeting holds the geographic and demographic targeting of a campaign
type CampaignTargeting struct {
	TimeUnit      *string      `json:"time_unit,omitempty"`
	WeekStartsOn  *string      `json:"week_starts_on,omitempty"`
	HourRange     *HourRange   `json:"hour_range,omitempty"`
	Countries     []string     `json:"countries,omitempty"`
	Cities        []CityRecord `json:"cities,omitempty"`
	Gender        *string      `json:"gender,omitempty"`
	AgeGroups     []string     `json:"age_groups,omitempty"`
	SocioProfCat  *string      `json:"socio_professional_category,omitempty"`
	MobilityModes []string     `json:"mobility_modes,omitempty"`
	POICategories []string     `json:"poi_categories,omitempty"`
}

// Value implements the driver.Valuer interface for CampaignTargeting
func (t CampaignTargeting) Value() (driver.Value, error) {
	return json.Marshal(t)
}

// Scan implements the sql.Scanner interface for CampaignTargeting
func (t *CampaignTargeting) Scan(value any) error {
	if value == nil {
		*t = CampaignTargeting{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into CampaignTargeting", value)
	}

	return json.Unmarshal(bytes, t)
}

// StringList is a jsonb-backed list of opaque identifiers
type StringList []string

// Value implements the driver.Valuer interface for StringList
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface for StringList
func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}

	return json.Unmarshal(bytes, l)
}

// CampaignKPIData is the deterministic display-metric summary attached to
// every campaign read response.
type CampaignKPIData struct {
	CoveragePercent float64 `json:"coverage_percent"`
	Frequency       float64 `json:"frequency"`
	GrossContacts   int64   `json:"gross_contacts"`
	NetContacts     int64   `json:"net_contacts"`
}

// JSONMap is a jsonb-backed free-form document used by the analytic report
// columns that external collaborators populate.
type JSONMap map[string]any

// Value implements the driver.Valuer interface for JSONMap
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for JSONMap
func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONMap", value)
	}

	return json.Unmarshal(bytes, m)
}

// Campaign represents an out-of-home advertising campaign in the database
type Campaign struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UUID           uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uk_campaigns_uuid" json:"uuid"`
	UserID         uint           `gorm:"not null;index:idx_campaigns_user_id" json:"user_id"`
	OrganizationID uint           `gorm:"not null;index:idx_campaigns_organization_id" json:"organization_id"`
	Name           string         `gorm:"type:varchar(255);not null" json:"name"`
	Description    *string        `gorm:"type:text" json:"description,omitempty"`
	Budget         float64        `gorm:"type:numeric(14,2);not null" json:"budget"`
	StartDate      time.Time      `gorm:"not null;index:idx_campaigns_start_date" json:"start_date"`
	EndDate        time.Time      `gorm:"not null;index:idx_campaigns_end_date" json:"end_date"`
	Status         CampaignStatus `gorm:"type:campaign_status;not null;default:'draft';index:idx_campaigns_status" json:"status"`

	Targeting    CampaignTargeting `gorm:"type:jsonb;not null" json:"targeting"`
	BillboardIDs StringList        `gorm:"type:jsonb;not null" json:"billboard_ids"`
	InventoryIDs StringList        `gorm:"type:jsonb;not null" json:"inventory_ids"`

	// Analytic columns owned by report collaborators. Cleared on edit and
	// never exposed raw in the standard detail view.
	BillboardKPIData  JSONMap `gorm:"column:billboard_kpi_data;type:jsonb" json:"billboard_kpi_data,omitempty"`
	KPIData           JSONMap `gorm:"column:kpi_data;type:jsonb" json:"kpi_data,omitempty"`
	KPIFullData       JSONMap `gorm:"type:jsonb" json:"kpi_full_data,omitempty"`
	AudienceBreakdown JSONMap `gorm:"type:jsonb" json:"audience_breakdown,omitempty"`
	Customizations    JSONMap `gorm:"type:jsonb" json:"customizations,omitempty"`

	// Snapshot of the creating actor's name, captured at write time
	OperatorFirstName *string `gorm:"type:varchar(100)" json:"operator_first_name,omitempty"`
	OperatorLastName  *string `gorm:"type:varchar(100)" json:"operator_last_name,omitempty"`

	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_campaigns_created_at" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// TableName returns the table name for the model
func (Campaign) TableName() string {
	return "campaigns"
}

// BeforeCreate is called before creating a new record
func (c *Campaign) BeforeCreate() error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.Status == "" {
		c.Status = CampaignStatusDraft
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (c *Campaign) BeforeUpdate() error {
	now := time.Now().UTC()
	c.UpdatedAt = &now
	return nil
}

// IsDraft reports whether the campaign is still a draft
func (c *Campaign) IsDraft() bool {
	return c.Status == CampaignStatusDraft
}

// IsEditable checks if the campaign can be edited
func (c *Campaign) IsEditable() bool {
	return c.IsDraft()
}

// IsDeletable checks if the campaign can be deleted
func (c *Campaign) IsDeletable() bool {
	return c.IsDraft()
}

// IsExportable checks if the campaign reports can be exported
func (c *Campaign) IsExportable() bool {
	return c.Status == CampaignStatusCompleted
}

// ClearReportData resets every analytic column. Called on edit because the
// schedule or targeting may have changed underneath the stored analytics.
func (c *Campaign) ClearReportData() {
	c.BillboardKPIData = nil
	c.KPIData = nil
	c.KPIFullData = nil
	c.AudienceBreakdown = nil
}

// CampaignFilter represents filter criteria for campaigns
type CampaignFilter struct {
	ID             *uint           `json:"id,omitempty"`
	UUID           *uuid.UUID      `json:"uuid,omitempty"`
	UserID         *uint           `json:"user_id,omitempty"`
	OrganizationID *uint           `json:"organization_id,omitempty"`
	Name           *string         `json:"name,omitempty"`
	Status         *CampaignStatus `json:"status,omitempty"`
	ExcludeStatus  *CampaignStatus `json:"exclude_status,omitempty"`
	ExcludeID      *uint           `json:"exclude_id,omitempty"`
	Search         *string         `json:"search,omitempty"`
	StartDate      *time.Time      `json:"start_date,omitempty"`
	EndDate        *time.Time      `json:"end_date,omitempty"`
	StartsAt       *time.Time      `json:"starts_at,omitempty"`
	EndsAt         *time.Time      `json:"ends_at,omitempty"`
}
