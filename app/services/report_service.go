package services

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	businessflow "github.com/oohgrid/oohgrid/business_flow"
	"github.com/oohgrid/oohgrid/models"
	"github.com/xuri/excelize/v2"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// ReportService renders completed-campaign reports to temporary files.
// It implements businessflow.ReportRenderer.
type ReportService struct{}

// NewReportService creates a new report renderer
func NewReportService() businessflow.ReportRenderer {
	return &ReportService{}
}

// Render writes the campaign report in the requested format and returns a
// handle whose Cleanup removes the temporary file.
func (s *ReportService) Render(campaign *models.Campaign, kpi models.CampaignKPIData, format string) (*businessflow.ExportFile, error) {
	switch format {
	case businessflow.ExportFormatCSV:
		return s.renderCSV(campaign, kpi)
	case businessflow.ExportFormatXLSX:
		return s.renderXLSX(campaign, kpi)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

func (s *ReportService) renderCSV(campaign *models.Campaign, kpi models.CampaignKPIData) (*businessflow.ExportFile, error) {
	tmp, err := os.CreateTemp("", "campaign-report-*.csv")
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}

	w := csv.NewWriter(tmp)
	w.Comma = ';'

	rows := reportRows(campaign, kpi)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return nil, fmt.Errorf("failed to write report row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to flush report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, err
	}

	path := tmp.Name()
	return &businessflow.ExportFile{
		Path:     path,
		Filename: reportFilename(campaign, "csv"),
		Cleanup:  func() { _ = os.Remove(path) },
	}, nil
}

func (s *ReportService) renderXLSX(campaign *models.Campaign, kpi models.CampaignKPIData) (*businessflow.ExportFile, error) {
	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	const sheet = "Report"
	if err := xl.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to prepare workbook: %w", err)
	}

	rows := reportRows(campaign, kpi)
	for ri, row := range rows {
		record := make([]any, len(row))
		for ci, cell := range row {
			record[ci] = cell
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+1)
		if err := xl.SetSheetRow(sheet, cellRef, &record); err != nil {
			return nil, fmt.Errorf("failed to write workbook row: %w", err)
		}
	}

	tmp, err := os.CreateTemp("", "campaign-report-*.xlsx")
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, err
	}

	if err := xl.SaveAs(tmp.Name()); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}

	path := tmp.Name()
	return &businessflow.ExportFile{
		Path:     path,
		Filename: reportFilename(campaign, "xlsx"),
		Cleanup:  func() { _ = os.Remove(path) },
	}, nil
}

// reportRows builds the shared header/value layout used by both formats
func reportRows(campaign *models.Campaign, kpi models.CampaignKPIData) [][]string {
	description := ""
	if campaign.Description != nil {
		description = *campaign.Description
	}

	cities := make([]string, 0, len(campaign.Targeting.Cities))
	for _, c := range campaign.Targeting.Cities {
		cities = append(cities, c.Name)
	}

	return [][]string{
		{
			"campaign_id",
			"name",
			"description",
			"status",
			"budget",
			"start_date",
			"end_date",
			"cities",
			"billboard_count",
			"coverage_percent",
			"frequency",
			"gross_contacts",
			"net_contacts",
		},
		{
			strconv.FormatUint(uint64(campaign.ID), 10),
			campaign.Name,
			description,
			campaign.Status.String(),
			strconv.FormatFloat(campaign.Budget, 'f', 2, 64),
			campaign.StartDate.Format(time.RFC3339),
			campaign.EndDate.Format(time.RFC3339),
			strings.Join(cities, ", "),
			strconv.Itoa(len(campaign.BillboardIDs)),
			strconv.FormatFloat(kpi.CoveragePercent, 'f', 1, 64),
			strconv.FormatFloat(kpi.Frequency, 'f', 1, 64),
			strconv.FormatInt(kpi.GrossContacts, 10),
			strconv.FormatInt(kpi.NetContacts, 10),
		},
	}
}

// reportFilename builds a stable download name from the campaign name and id
func reportFilename(campaign *models.Campaign, ext string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(campaign.Name), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "campaign"
	}
	return fmt.Sprintf("%s-%d.%s", slug, campaign.ID, ext)
}
