package businessflow

import (
	"github.com/oohgrid/oohgrid/models"
)

// Export formats accepted by the export endpoint
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

// ExportFile is the handle returned by a report renderer. Cleanup must be
// invoked by the caller after the response has been fully sent.
type ExportFile struct {
	Path     string
	Filename string
	Cleanup  func()
}

// ReportRenderer shapes a completed campaign into a downloadable report file
type ReportRenderer interface {
	Render(campaign *models.Campaign, kpi models.CampaignKPIData, format string) (*ExportFile, error)
}
