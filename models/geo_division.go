package models

// GeoDivision is an immutable reference row of the geo catalog. Campaign city
// selections are validated and normalized against it.
type GeoDivision struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	DivisionID  string `gorm:"type:varchar(64);not null;uniqueIndex:uk_geo_filter_data_division_id" json:"division_id"`
	Name        string `gorm:"type:varchar(255);not null;index:idx_geo_filter_data_name" json:"name"`
	CountryCode string `gorm:"type:varchar(2);not null;index:idx_geo_filter_data_country_code" json:"country_code"`
}

// TableName returns the table name for the model
func (GeoDivision) TableName() string {
	return "geo_filter_data"
}

// GeoDivisionFilter represents filter criteria for geo divisions
type GeoDivisionFilter struct {
	ID          *uint   `json:"id,omitempty"`
	DivisionID  *string `json:"division_id,omitempty"`
	CountryCode *string `json:"country_code,omitempty"`
}
