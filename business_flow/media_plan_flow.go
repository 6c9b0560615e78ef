package businessflow

import (
	"context"
	"fmt"

	"github.com/oohgrid/oohgrid/app/dto"
	"github.com/oohgrid/oohgrid/models"
	"github.com/oohgrid/oohgrid/repository"
)

// MediaPlanFlow manages budgeted plans attached to campaigns
type MediaPlanFlow interface {
	Create(ctx context.Context, req *dto.CreateMediaPlanRequest, actor Actor, metadata *ClientMetadata) (*dto.MediaPlanResponse, error)
	List(ctx context.Context, query *dto.ListMediaPlansQuery, actor Actor) (*dto.PaginatedMediaPlans, error)
}

// MediaPlanFlowImpl implements the MediaPlanFlow interface
type MediaPlanFlowImpl struct {
	mediaPlanRepo repository.MediaPlanRepository
	campaignRepo  repository.CampaignRepository
	auditRepo     repository.AuditLogRepository
	txManager     repository.TxManager
}

// NewMediaPlanFlow creates a new media plan flow
func NewMediaPlanFlow(
	mediaPlanRepo repository.MediaPlanRepository,
	campaignRepo repository.CampaignRepository,
	auditRepo repository.AuditLogRepository,
	txManager repository.TxManager,
) MediaPlanFlow {
	return &MediaPlanFlowImpl{
		mediaPlanRepo: mediaPlanRepo,
		campaignRepo:  campaignRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
	}
}

// Create attaches a new media plan to a campaign of the actor's organization
func (s *MediaPlanFlowImpl) Create(ctx context.Context, req *dto.CreateMediaPlanRequest, actor Actor, metadata *ClientMetadata) (*dto.MediaPlanResponse, error) {
	if !actor.CanManageCampaigns() {
		return nil, NewBusinessError("OPERATOR_FORBIDDEN", "Operators are not allowed to create media plans", ErrOperatorForbidden)
	}

	action := models.MediaPlanActionPublish
	if req.Action != nil && *req.Action != "" {
		action = models.MediaPlanAction(*req.Action)
		if !action.Valid() {
			return nil, NewBusinessError("MEDIA_PLAN_ACTION_INVALID", "Invalid media plan action", ErrMediaPlanActionInvalid)
		}
	}

	campaign, err := s.campaignRepo.ByIDAndOrganization(ctx, req.CampaignID, actor.OrganizationID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to load campaign", err)
	}
	if campaign == nil {
		return nil, NewBusinessError("MEDIA_PLAN_CAMPAIGN_NOT_FOUND",
			"Campaign not found or not accessible", ErrMediaPlanCampaignNotFound)
	}

	plan := &models.MediaPlan{
		UserID:         actor.UserID,
		OrganizationID: actor.OrganizationID,
		CampaignID:     campaign.ID,
		Name:           req.Name,
		Description:    req.Description,
		Budget:         req.Budget,
		Action:         action,
	}
	if err := plan.BeforeCreate(); err != nil {
		return nil, NewBusinessError("MEDIA_PLAN_CREATE_FAILED", "Failed to create media plan", err)
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.mediaPlanRepo.Save(ctx, plan); err != nil {
			return err
		}
		desc := fmt.Sprintf("media plan %q created for campaign %d", plan.Name, plan.CampaignID)
		audit := &models.AuditLog{
			UserID:      &actor.UserID,
			Action:      models.AuditActionMediaPlanCreated,
			EntityID:    &plan.ID,
			Description: &desc,
		}
		if metadata != nil {
			audit.IPAddress = &metadata.IPAddress
			audit.UserAgent = &metadata.UserAgent
		}
		return s.auditRepo.Save(ctx, audit)
	})
	if err != nil {
		return nil, NewBusinessError("MEDIA_PLAN_CREATE_FAILED", "Failed to create media plan", err)
	}

	resp := toMediaPlanResponse(plan)
	return &resp, nil
}

// List returns an organization-scoped, paginated page of media plans
func (s *MediaPlanFlowImpl) List(ctx context.Context, query *dto.ListMediaPlansQuery, actor Actor) (*dto.PaginatedMediaPlans, error) {
	page := query.Page
	perPage := query.PerPage
	if page == 0 {
		page = 1
	}
	if perPage == 0 {
		perPage = 10
	}
	if page < 1 || perPage < 1 || perPage > 100 {
		return nil, NewBusinessError("INVALID_PAGINATION", "Invalid page or per_page parameter", ErrInvalidPagination)
	}

	filter := models.MediaPlanFilter{OrganizationID: &actor.OrganizationID}
	if query.CampaignID != nil {
		filter.CampaignID = query.CampaignID
	}

	total, err := s.mediaPlanRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("MEDIA_PLAN_LIST_FAILED", "Failed to list media plans", err)
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage > 0 && page > lastPage {
		return nil, NewBusinessError("PAGE_NOT_FOUND", "Page not found", ErrPageNotFound)
	}

	items := []dto.MediaPlanResponse{}
	if total > 0 {
		plans, err := s.mediaPlanRepo.ByFilter(ctx, filter, "created_at DESC", perPage, (page-1)*perPage)
		if err != nil {
			return nil, NewBusinessError("MEDIA_PLAN_LIST_FAILED", "Failed to list media plans", err)
		}
		for _, plan := range plans {
			items = append(items, toMediaPlanResponse(plan))
		}
	}

	return &dto.PaginatedMediaPlans{
		Items:       items,
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
		LastPage:    lastPage,
		HasMore:     page < lastPage,
	}, nil
}

func toMediaPlanResponse(plan *models.MediaPlan) dto.MediaPlanResponse {
	return dto.MediaPlanResponse{
		ID:             plan.ID,
		UUID:           plan.UUID.String(),
		UserID:         plan.UserID,
		OrganizationID: plan.OrganizationID,
		CampaignID:     plan.CampaignID,
		Name:           plan.Name,
		Description:    plan.Description,
		Budget:         plan.Budget,
		Action:         plan.Action.String(),
		CreatedAt:      plan.CreatedAt,
		UpdatedAt:      plan.UpdatedAt,
	}
}
