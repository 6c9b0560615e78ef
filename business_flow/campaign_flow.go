package businessflow

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/oohgrid/oohgrid/app/dto"
	"github.com/oohgrid/oohgrid/models"
	"github.com/oohgrid/oohgrid/repository"
	"github.com/oohgrid/oohgrid/utils"
)

// CampaignFlow enforces the campaign lifecycle: creation, mutation, listing,
// and export, always scoped to the acting user's organization.
type CampaignFlow interface {
	Create(ctx context.Context, req *dto.CampaignPayload, actor Actor, metadata *ClientMetadata) (*dto.CampaignResponse, error)
	Edit(ctx context.Context, id uint, req *dto.CampaignPayload, actor Actor, metadata *ClientMetadata) (*dto.CampaignResponse, error)
	Delete(ctx context.Context, id uint, actor Actor, metadata *ClientMetadata) error
	Detail(ctx context.Context, id uint, actor Actor) (*dto.CampaignResponse, error)
	List(ctx context.Context, query *dto.ListCampaignsQuery, actor Actor) (*dto.PaginatedCampaigns, error)
	Export(ctx context.Context, id uint, format string, actor Actor, metadata *ClientMetadata) (*ExportFile, error)
}

// CampaignFlowImpl implements the CampaignFlow interface
type CampaignFlowImpl struct {
	campaignRepo  repository.CampaignRepository
	inventoryRepo repository.InventoryFaceRepository
	auditRepo     repository.AuditLogRepository
	geoFlow       GeoFlow
	statusEngine  StatusEngine
	txManager     repository.TxManager
	renderer      ReportRenderer
}

// NewCampaignFlow creates a new campaign flow
func NewCampaignFlow(
	campaignRepo repository.CampaignRepository,
	inventoryRepo repository.InventoryFaceRepository,
	auditRepo repository.AuditLogRepository,
	geoFlow GeoFlow,
	statusEngine StatusEngine,
	txManager repository.TxManager,
	renderer ReportRenderer,
) CampaignFlow {
	return &CampaignFlowImpl{
		campaignRepo:  campaignRepo,
		inventoryRepo: inventoryRepo,
		auditRepo:     auditRepo,
		geoFlow:       geoFlow,
		statusEngine:  statusEngine,
		txManager:     txManager,
		renderer:      renderer,
	}
}

// Create validates and persists a new campaign for the actor
func (s *CampaignFlowImpl) Create(ctx context.Context, req *dto.CampaignPayload, actor Actor, metadata *ClientMetadata) (*dto.CampaignResponse, error) {
	if !actor.CanManageCampaigns() {
		return nil, NewBusinessError("OPERATOR_FORBIDDEN", "Operators are not allowed to create campaigns", ErrOperatorForbidden)
	}

	validated, err := s.validatePayload(ctx, req, actor, nil)
	if err != nil {
		return nil, err
	}

	status := models.CampaignStatusDraft
	if !req.SaveAsDraft {
		status = ComputeStatus(validated.start, validated.end, utils.UTCNow())
	}

	campaign := &models.Campaign{
		UserID:            actor.UserID,
		OrganizationID:    actor.OrganizationID,
		Name:              req.Name,
		Description:       req.Description,
		Budget:            req.Budget,
		StartDate:         validated.start,
		EndDate:           validated.end,
		Status:            status,
		Targeting:         validated.targeting,
		BillboardIDs:      models.StringList(req.BillboardIDs),
		InventoryIDs:      models.StringList(req.InventoryIDs),
		OperatorFirstName: utils.ToPtr(actor.FirstName),
		OperatorLastName:  utils.ToPtr(actor.LastName),
	}
	if err := campaign.BeforeCreate(); err != nil {
		return nil, NewBusinessError("CAMPAIGN_CREATE_FAILED", "Failed to create campaign", err)
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.campaignRepo.Save(ctx, campaign); err != nil {
			return err
		}
		desc := fmt.Sprintf("campaign %q created with status %s", campaign.Name, campaign.Status)
		return s.createAuditLog(ctx, &actor, models.AuditActionCampaignCreated, &campaign.ID, desc, true, nil, metadata)
	})
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_CREATE_FAILED", "Failed to create campaign", err)
	}

	resp := sanitizeCampaign(campaign)
	return &resp, nil
}

// Edit applies the payload to an existing draft campaign
func (s *CampaignFlowImpl) Edit(ctx context.Context, id uint, req *dto.CampaignPayload, actor Actor, metadata *ClientMetadata) (*dto.CampaignResponse, error) {
	if !actor.CanManageCampaigns() {
		return nil, NewBusinessError("OPERATOR_FORBIDDEN", "Operators are not allowed to edit campaigns", ErrOperatorForbidden)
	}

	campaign, err := s.loadScoped(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if !campaign.IsEditable() {
		return nil, NewBusinessError("CAMPAIGN_NOT_EDITABLE", "Only draft campaigns can be edited", ErrCampaignNotEditable)
	}

	validated, err := s.validatePayload(ctx, req, actor, &campaign.ID)
	if err != nil {
		return nil, err
	}

	status := models.CampaignStatusDraft
	if !req.SaveAsDraft {
		status = ComputeStatus(validated.start, validated.end, utils.UTCNow())
	}

	campaign.Name = req.Name
	campaign.Description = req.Description
	campaign.Budget = req.Budget
	campaign.StartDate = validated.start
	campaign.EndDate = validated.end
	campaign.Status = status
	campaign.Targeting = validated.targeting
	campaign.BillboardIDs = models.StringList(req.BillboardIDs)
	campaign.InventoryIDs = models.StringList(req.InventoryIDs)
	campaign.OperatorFirstName = utils.ToPtr(actor.FirstName)
	campaign.OperatorLastName = utils.ToPtr(actor.LastName)
	campaign.ClearReportData()

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.campaignRepo.Update(ctx, *campaign); err != nil {
			return err
		}
		desc := fmt.Sprintf("campaign %q updated, status %s", campaign.Name, campaign.Status)
		return s.createAuditLog(ctx, &actor, models.AuditActionCampaignUpdated, &campaign.ID, desc, true, nil, metadata)
	})
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_UPDATE_FAILED", "Failed to update campaign", err)
	}

	resp := sanitizeCampaign(campaign)
	return &resp, nil
}

// Delete removes a draft campaign
func (s *CampaignFlowImpl) Delete(ctx context.Context, id uint, actor Actor, metadata *ClientMetadata) error {
	if !actor.CanManageCampaigns() {
		return NewBusinessError("OPERATOR_FORBIDDEN", "Operators are not allowed to delete campaigns", ErrOperatorForbidden)
	}

	campaign, err := s.loadScoped(ctx, id, actor)
	if err != nil {
		return err
	}
	if !campaign.IsDeletable() {
		return NewBusinessError("CAMPAIGN_NOT_DELETABLE", "Only draft campaigns can be deleted", ErrCampaignNotDeletable)
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.campaignRepo.Delete(ctx, campaign.ID); err != nil {
			return err
		}
		desc := fmt.Sprintf("campaign %q deleted", campaign.Name)
		return s.createAuditLog(ctx, &actor, models.AuditActionCampaignDeleted, &campaign.ID, desc, true, nil, metadata)
	})
	if err != nil {
		return NewBusinessError("CAMPAIGN_DELETE_FAILED", "Failed to delete campaign", err)
	}

	return nil
}

// Detail returns the sanitized projection of one campaign. Organization
// statuses are refreshed first so the reply is never stale.
func (s *CampaignFlowImpl) Detail(ctx context.Context, id uint, actor Actor) (*dto.CampaignResponse, error) {
	if _, err := s.statusEngine.RefreshOrganization(ctx, actor.OrganizationID); err != nil {
		return nil, NewBusinessError("STATUS_REFRESH_FAILED", "Failed to refresh campaign statuses", err)
	}

	campaign, err := s.loadScoped(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	resp := sanitizeCampaign(campaign)
	return &resp, nil
}

// List returns a filtered, paginated page of the organization's campaigns
func (s *CampaignFlowImpl) List(ctx context.Context, query *dto.ListCampaignsQuery, actor Actor) (*dto.PaginatedCampaigns, error) {
	page := query.Page
	perPage := query.PerPage
	if page == 0 {
		page = 1
	}
	if perPage == 0 {
		perPage = utils.DefaultPerPage
	}
	if page < 1 || perPage < 1 || perPage > utils.MaxPerPage {
		return nil, NewBusinessError("INVALID_PAGINATION", "Invalid page or per_page parameter", ErrInvalidPagination)
	}

	filter := models.CampaignFilter{OrganizationID: &actor.OrganizationID}

	if query.Search != nil && *query.Search != "" {
		filter.Search = query.Search
	}

	if query.Status != nil && *query.Status != "" {
		status := models.CampaignStatus(*query.Status)
		if !status.Valid() || status == models.CampaignStatusDraft {
			return nil, NewBusinessError("INVALID_STATUS_FILTER", "Invalid status filter", ErrInvalidStatusFilter)
		}
		filter.Status = &status
	}

	if query.StartDate != nil && *query.StartDate != "" {
		start, err := parseScheduleTime(*query.StartDate, "start_date")
		if err != nil {
			return nil, err
		}
		filter.StartDate = &start
	}
	if query.EndDate != nil && *query.EndDate != "" {
		end, err := parseScheduleTime(*query.EndDate, "end_date")
		if err != nil {
			return nil, err
		}
		filter.EndDate = &end
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, NewBusinessError("INVALID_DATE_RANGE", "start date cannot be after end date", ErrStartDateAfterEndDate)
	}

	if _, err := s.statusEngine.RefreshOrganization(ctx, actor.OrganizationID); err != nil {
		return nil, NewBusinessError("STATUS_REFRESH_FAILED", "Failed to refresh campaign statuses", err)
	}

	total, err := s.campaignRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to list campaigns", err)
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage > 0 && page > lastPage {
		return nil, NewBusinessError("PAGE_NOT_FOUND", "Page not found", ErrPageNotFound)
	}

	items := []dto.CampaignResponse{}
	if total > 0 {
		campaigns, err := s.campaignRepo.ByFilter(ctx, filter, "created_at DESC", perPage, (page-1)*perPage)
		if err != nil {
			return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to list campaigns", err)
		}
		for _, campaign := range campaigns {
			items = append(items, sanitizeCampaign(campaign))
		}
	}

	return &dto.PaginatedCampaigns{
		Items:       items,
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
		LastPage:    lastPage,
		HasMore:     page < lastPage,
	}, nil
}

// Export renders a completed campaign into a downloadable report file
func (s *CampaignFlowImpl) Export(ctx context.Context, id uint, format string, actor Actor, metadata *ClientMetadata) (*ExportFile, error) {
	if !actor.CanManageCampaigns() {
		return nil, NewBusinessError("OPERATOR_FORBIDDEN", "Operators are not allowed to export campaigns", ErrOperatorForbidden)
	}

	campaign, err := s.loadScoped(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if !campaign.IsExportable() {
		return nil, NewBusinessError("CAMPAIGN_NOT_EXPORTABLE", "Only completed campaigns can be exported", ErrCampaignNotExportable)
	}

	kpi := GenerateKPISummary(campaign.ID, campaign.StartDate, campaign.EndDate)
	file, err := s.renderer.Render(campaign, kpi, format)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_EXPORT_FAILED", "Failed to render campaign report", err)
	}

	desc := fmt.Sprintf("campaign %q exported as %s", campaign.Name, format)
	_ = s.createAuditLog(ctx, &actor, models.AuditActionCampaignExported, &campaign.ID, desc, true, nil, metadata)

	return file, nil
}

// loadScoped loads a campaign restricted to the actor's organization. Both an
// absent row and a cross-organization row surface as not found, so existence
// never leaks across tenants.
func (s *CampaignFlowImpl) loadScoped(ctx context.Context, id uint, actor Actor) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.ByIDAndOrganization(ctx, id, actor.OrganizationID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to load campaign", err)
	}
	if campaign == nil {
		return nil, NewBusinessError("CAMPAIGN_NOT_FOUND", "Campaign not found", ErrCampaignNotFound)
	}
	return campaign, nil
}

// validatedPayload carries the parsed schedule and normalized targeting
type validatedPayload struct {
	start     time.Time
	end       time.Time
	targeting models.CampaignTargeting
}

// validatePayload runs the full create/edit validation set. excludeID carries
// the campaign's own id during edits so the duplicate check skips it.
func (s *CampaignFlowImpl) validatePayload(ctx context.Context, req *dto.CampaignPayload, actor Actor, excludeID *uint) (*validatedPayload, error) {
	if req.Name == "" {
		return nil, NewBusinessError("CAMPAIGN_NAME_REQUIRED", "Campaign name is required", ErrCampaignNameRequired)
	}
	if req.Budget <= 0 {
		return nil, NewBusinessError("CAMPAIGN_BUDGET_INVALID", "Budget must be a positive amount", ErrCampaignBudgetInvalid)
	}

	start, err := parseScheduleTime(req.StartDate, "start_date")
	if err != nil {
		return nil, err
	}
	end, err := parseScheduleTime(req.EndDate, "end_date")
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, NewBusinessError("END_BEFORE_START", "end_date cannot be before start_date", ErrEndBeforeStart)
	}

	var hourRange *models.HourRange
	if len(req.HourRange) > 0 {
		if len(req.HourRange) != 2 {
			return nil, NewBusinessError("HOUR_RANGE_INVALID", "hour_range must contain exactly two integers", ErrHourRangeInvalid)
		}
		hr := models.HourRange{From: req.HourRange[0], To: req.HourRange[1]}
		if !hr.Valid() {
			return nil, NewBusinessError("HOUR_RANGE_INVALID",
				"hour_range must satisfy 0 <= from < 24, 0 < to <= 24, from < to", ErrHourRangeInvalid)
		}
		hourRange = &hr
	}

	if len(req.InventoryIDs) == 0 {
		return nil, NewBusinessError("INVENTORY_REQUIRED", "At least one inventory id is required", ErrInventoryRequired)
	}
	if !req.SaveAsDraft && len(req.BillboardIDs) == 0 {
		return nil, NewBusinessError("BILLBOARD_REQUIRED",
			"At least one billboard id is required for non-draft campaigns", ErrBillboardRequired)
	}

	if len(req.BillboardIDs) > 0 {
		if err := s.checkBillboardOwnership(ctx, req.BillboardIDs, actor.OrganizationID); err != nil {
			return nil, err
		}
	}

	cities, err := s.geoFlow.ResolveCities(ctx, req.Cities)
	if err != nil {
		return nil, err
	}

	if !req.SaveAsDraft {
		if err := ensureNotPast(start, "start_date"); err != nil {
			return nil, err
		}
		if err := ensureNotPast(end, "end_date"); err != nil {
			return nil, err
		}

		duplicate, err := s.campaignRepo.ExistsDuplicateSchedule(ctx, actor.UserID, req.Name, start, end, excludeID)
		if err != nil {
			return nil, NewBusinessError("DUPLICATE_CHECK_FAILED", "Failed to check for duplicate campaigns", err)
		}
		if duplicate {
			return nil, NewBusinessError("DUPLICATE_CAMPAIGN",
				"Campaign with the same name and schedule already exists", ErrDuplicateCampaignSchedule)
		}
	}

	return &validatedPayload{
		start: start,
		end:   end,
		targeting: models.CampaignTargeting{
			TimeUnit:      req.TimeUnit,
			WeekStartsOn:  req.WeekStartsOn,
			HourRange:     hourRange,
			Countries:     req.Countries,
			Cities:        cities,
			Gender:        req.Gender,
			AgeGroups:     req.AgeGroups,
			SocioProfCat:  req.SocioProfCat,
			MobilityModes: req.MobilityModes,
			POICategories: req.POICategories,
		},
	}, nil
}

// checkBillboardOwnership splits offending ids into unknown faces and faces
// owned by another organization, and fails on either set.
func (s *CampaignFlowImpl) checkBillboardOwnership(ctx context.Context, faceIDs []string, organizationID uint) error {
	ownership, err := s.inventoryRepo.OwnershipByFaceIDs(ctx, faceIDs)
	if err != nil {
		return NewBusinessError("BILLBOARD_LOOKUP_FAILED", "Failed to verify billboard ownership", err)
	}

	var missing, foreign []string
	for _, faceID := range faceIDs {
		owner, ok := ownership[faceID]
		if !ok {
			missing = append(missing, faceID)
			continue
		}
		if owner != organizationID {
			foreign = append(foreign, faceID)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return NewBusinessErrorf("BILLBOARD_NOT_FOUND", "Billboard IDs not found: %v", ErrBillboardNotFound, missing)
	}
	if len(foreign) > 0 {
		sort.Strings(foreign)
		return NewBusinessErrorf("BILLBOARD_WRONG_ORG",
			"Billboard IDs do not belong to your organization: %v", ErrBillboardWrongOrg, foreign)
	}

	return nil
}

// naive layouts accepted only to distinguish "missing timezone" from garbage
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseScheduleTime parses an ISO datetime and requires explicit timezone info
func parseScheduleTime(value, field string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return time.Time{}, NewBusinessErrorf("SCHEDULE_MISSING_TZ",
				"%s must include timezone info", ErrScheduleMissingTimezone, field)
		}
	}
	return time.Time{}, NewBusinessErrorf("INVALID_DATETIME",
		"%s is not a valid ISO datetime", ErrScheduleMissingTimezone, field)
}

// ensureNotPast rejects schedule endpoints lying before the current instant
// in the business timezone. Drafts are exempt; callers gate on that.
func ensureNotPast(t time.Time, field string) error {
	now := utils.UTCNow().In(businessLoc)
	if t.In(businessLoc).Before(now) {
		return NewBusinessErrorf("SCHEDULE_IN_PAST",
			"%s must be today or a future time in Beijing timezone", ErrScheduleInPast, field)
	}
	return nil
}

// sanitizeCampaign builds the external projection: the deterministic KPI
// summary is regenerated and the raw analytic columns are nulled.
func sanitizeCampaign(campaign *models.Campaign) dto.CampaignResponse {
	return dto.CampaignResponse{
		ID:                campaign.ID,
		UUID:              campaign.UUID.String(),
		UserID:            campaign.UserID,
		OrganizationID:    campaign.OrganizationID,
		Name:              campaign.Name,
		Description:       campaign.Description,
		Budget:            campaign.Budget,
		StartDate:         campaign.StartDate,
		EndDate:           campaign.EndDate,
		Status:            campaign.Status.String(),
		Targeting:         campaign.Targeting,
		BillboardIDs:      campaign.BillboardIDs,
		InventoryIDs:      campaign.InventoryIDs,
		KPIData:           GenerateKPISummary(campaign.ID, campaign.StartDate, campaign.EndDate),
		BillboardKPIData:  nil,
		KPIFullData:       nil,
		AudienceBreakdown: nil,
		OperatorFirstName: campaign.OperatorFirstName,
		OperatorLastName:  campaign.OperatorLastName,
		CreatedAt:         campaign.CreatedAt,
		UpdatedAt:         campaign.UpdatedAt,
	}
}

// createAuditLog writes one audit row for a campaign action
func (s *CampaignFlowImpl) createAuditLog(ctx context.Context, actor *Actor, action string, entityID *uint, description string, success bool, errorMsg *string, metadata *ClientMetadata) error {
	var userID *uint
	if actor != nil {
		userID = &actor.UserID
	}

	ipAddress := ""
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		EntityID:     entityID,
		Description:  &description,
		Success:      utils.ToPtr(success),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		ErrorMessage: errorMsg,
	}

	// Extract request ID from context if available
	requestID := ctx.Value(RequestIDKey)
	if requestID != nil {
		if requestIDStr, ok := requestID.(string); ok {
			audit.RequestID = &requestIDStr
		}
	}

	return s.auditRepo.Save(ctx, audit)
}
