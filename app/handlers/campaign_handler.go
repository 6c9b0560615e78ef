// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/oohgrid/oohgrid/app/dto"
	businessflow "github.com/oohgrid/oohgrid/business_flow"
)

// CampaignHandlerInterface defines the contract for campaign handlers
type CampaignHandlerInterface interface {
	CreateCampaign(c fiber.Ctx) error
	EditCampaign(c fiber.Ctx) error
	DeleteCampaign(c fiber.Ctx) error
	GetCampaignDetail(c fiber.Ctx) error
	ListCampaigns(c fiber.Ctx) error
	ExportCampaign(c fiber.Ctx) error
	GetGeoFilterData(c fiber.Ctx) error
}

// CampaignHandler handles campaign-related HTTP requests
type CampaignHandler struct {
	campaignFlow businessflow.CampaignFlow
	geoFlow      businessflow.GeoFlow
	validator    *validator.Validate
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignFlow businessflow.CampaignFlow, geoFlow businessflow.GeoFlow) *CampaignHandler {
	return &CampaignHandler{
		campaignFlow: campaignFlow,
		geoFlow:      geoFlow,
		validator:    validator.New(),
	}
}

// CreateCampaign handles the campaign creation process
// @Summary Create Campaign
// @Description Create a new campaign, either as a draft or published with a derived temporal status
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param request body dto.CampaignPayload true "Campaign creation data"
// @Success 201 {object} dto.APIResponse{data=dto.CampaignResponse} "Campaign created successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Forbidden role or foreign billboard ids"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/campaigns [post]
func (h *CampaignHandler) CreateCampaign(c fiber.Ctx) error {
	var req dto.CampaignPayload
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Actor not found in context", "MISSING_ACTOR", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.campaignFlow.Create(createRequestContext(c), &req, actor, metadata)
	if err != nil {
		log.Println("Campaign creation failed", err)
		return businessErrorResponse(c, err, "Campaign creation failed", "CAMPAIGN_CREATE_FAILED")
	}

	return successResponse(c, fiber.StatusCreated, "Campaign created successfully", result)
}

// EditCampaign handles the campaign update process
// @Summary Edit Campaign
// @Description Overwrite a draft campaign with a new payload
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param id path int true "Campaign ID"
// @Param request body dto.CampaignPayload true "Campaign update data"
// @Success 200 {object} dto.APIResponse{data=dto.CampaignResponse} "Campaign updated successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or non-draft campaign"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Forbidden role or foreign billboard ids"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/campaigns/{id} [put]
func (h *CampaignHandler) EditCampaign(c fiber.Ctx) error {
	id, err := parseCampaignID(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid campaign id", "INVALID_CAMPAIGN_ID", nil)
	}

	var req dto.CampaignPayload
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Actor not found in context", "MISSING_ACTOR", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.campaignFlow.Edit(createRequestContext(c), id, &req, actor, metadata)
	if err != nil {
		log.Println("Campaign update failed", err)
		return businessErrorResponse(c, err, "Campaign update failed", "CAMPAIGN_UPDATE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Campaign updated successfully", result)
}

// DeleteCampaign handles the campaign deletion process
// @Summary Delete Campaign
// @Description Delete a draft campaign
// @Tags Campaigns
// @Produce json
// @Param id path int true "Campaign ID"
// @Success 200 {object} dto.APIResponse "Campaign deleted successfully"
// @Failure 400 {object} dto.APIResponse "Non-draft campaign"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Forbidden role"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/campaigns/{id} [delete]
func (h *CampaignHandler) DeleteCampaign(c fiber.Ctx) error {
	id, err := parseCampaignID(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid campaign id", "INVALID_CAMPAIGN_ID", nil)
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Actor not found in context", "MISSING_ACTOR", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	if err := h.campaignFlow.Delete(createRequestContext(c), id, actor, metadata); err != nil {
		log.Println("Campaign deletion failed", err)
		return businessErrorResponse(c, err, "Campaign deletion failed", "CAMPAIGN_DELETE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Campaign deleted successfully", nil)
}

// GetCampaignDetail returns one campaign with refreshed status
// @Summary Get Campaign Detail
// @Description Retrieve one campaign of the caller's organization, statuses refreshed first
// @Tags Campaigns
// @Produce json
// @Param id path int true "Campaign ID"
// @Success 200 {object} dto.APIResponse{data=dto.CampaignResponse}
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/campaigns/{id} [get]
func (h *CampaignHandler) GetCampaignDetail(c fiber.Ctx) error {
	id, err := parseCampaignID(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid campaign id", "INVALID_CAMPAIGN_ID", nil)
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Actor not found in context", "MISSING_ACTOR", nil)
	}

	result, err := h.campaignFlow.Detail(createRequestContext(c), id, actor)
	if err != nil {
		log.Println("Campaign detail failed", err)
		return businessErrorResponse(c, err, "Failed to load campaign", "CAMPAIGN_DETAIL_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Campaign retrieved successfully", result)
}

// ListCampaigns returns the organization's campaigns with filters and pagination
// @Summary List Campaigns
// @Description Retrieve the organization's campaigns with pagination and filters, statuses refreshed first
// @Tags Campaigns
// @Produce json
// @Param page query int false "Page number (1-indexed)" default(1)
// @Param per_page query int false "Items per page (max 100)" default(10)
// @Param search query string false "Substring match on name/description"
// @Param status query string false "Filter by status (upcoming|active|completed)"
// @Param start_date query string false "Inclusive lower schedule bound (RFC3339)"
// @Param end_date query string false "Inclusive upper schedule bound (RFC3339)"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedCampaigns}
// @Failure 400 {object} dto.APIResponse "Invalid filter or pagination"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Page beyond last page"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/campaigns [get]
func (h *CampaignHandler) ListCampaigns(c fiber.Ctx) error {
	var query dto.ListCampaignsQuery
	if err := c.Bind().Query(&query); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_QUERY", err.Error())
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Actor not found in context", "MISSING_ACTOR", nil)
	}

	result, err := h.campaignFlow.List(createRequestContext(c), &query, actor)
	if err != nil {
		log.Println("List campaigns failed", err)
		return businessErrorResponse(c, err, "Failed to list campaigns", "LIST_CAMPAIGNS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Campaigns retrieved successfully", result)
}

// ExportCampaign streams a completed campaign's report file
// @Summary Export Campaign
// @Description Export a completed campaign report in CSV or XLSX format
// @Tags Campaigns
// @Produce octet-stream
// @Param id path int true "Campaign ID"
// @Param format path string true "Export format (csv|xlsx)"
// @Success 200 {file} file "Report file"
// @Failure 400 {object} dto.APIResponse "Non-completed campaign or bad format"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Forbidden role"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/campaigns/{id}/export/{format} [get]
func (h *CampaignHandler) ExportCampaign(c fiber.Ctx) error {
	id, err := parseCampaignID(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid campaign id", "INVALID_CAMPAIGN_ID", nil)
	}

	format := c.Params("format")
	if format != businessflow.ExportFormatCSV && format != businessflow.ExportFormatXLSX {
		return errorResponse(c, fiber.StatusBadRequest, "Unsupported export format", "INVALID_EXPORT_FORMAT", nil)
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Actor not found in context", "MISSING_ACTOR", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	file, err := h.campaignFlow.Export(createRequestContext(c), id, format, actor, metadata)
	if err != nil {
		log.Println("Campaign export failed", err)
		return businessErrorResponse(c, err, "Campaign export failed", "CAMPAIGN_EXPORT_FAILED")
	}

	f, err := os.Open(file.Path)
	if err != nil {
		file.Cleanup()
		log.Println("Export file open failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Campaign export failed", "CAMPAIGN_EXPORT_FAILED", nil)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		file.Cleanup()
		log.Println("Export file stat failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Campaign export failed", "CAMPAIGN_EXPORT_FAILED", nil)
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.Filename+`"`)
	c.Set(fiber.HeaderContentType, exportContentType(format))
	// fasthttp closes the body stream once the response is fully written,
	// which is the point where the renderer's temp file may be released.
	c.Response().SetBodyStream(&exportStream{file: f, cleanup: file.Cleanup}, int(info.Size()))
	return nil
}

func exportContentType(format string) string {
	if format == businessflow.ExportFormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// exportStream streams a rendered report and releases it when the response
// transport closes the stream.
type exportStream struct {
	file    *os.File
	cleanup func()
}

func (s *exportStream) Read(p []byte) (int, error) {
	return s.file.Read(p)
}

func (s *exportStream) Close() error {
	err := s.file.Close()
	s.cleanup()
	return err
}

// GetGeoFilterData returns the geographic divisions available for targeting
// @Summary Get Geo Filter Data
// @Description Retrieve the canonical geographic divisions for a country, cached
// @Tags Campaigns
// @Produce json
// @Param country query string false "ISO country code" default(CN)
// @Success 200 {object} dto.APIResponse{data=[]dto.GeoDivisionDTO}
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/campaigns/geo-filter-data [get]
func (h *CampaignHandler) GetGeoFilterData(c fiber.Ctx) error {
	country := c.Query("country", businessflow.DefaultCountryCode)

	divisions, err := h.geoFlow.ListDivisions(createRequestContext(c), country)
	if err != nil {
		log.Println("Geo filter data lookup failed", err)
		return businessErrorResponse(c, err, "Failed to load geo filter data", "GEO_FILTER_DATA_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Geo filter data retrieved successfully", divisions)
}

func parseCampaignID(c fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}
