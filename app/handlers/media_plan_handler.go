// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/oohgrid/oohgrid/app/dto"
	businessflow "github.com/oohgrid/oohgrid/business_flow"
)

// MediaPlanHandler handles media-plan-related HTTP requests
type MediaPlanHandler struct {
	mediaPlanFlow businessflow.MediaPlanFlow
	validator     *validator.Validate
}

// NewMediaPlanHandler creates a new media plan handler
func NewMediaPlanHandler(mediaPlanFlow businessflow.MediaPlanFlow) *MediaPlanHandler {
	return &MediaPlanHandler{
		mediaPlanFlow: mediaPlanFlow,
		validator:     validator.New(),
	}
}

// CreateMediaPlan attaches a media plan to one of the organization's campaigns
// @Summary Create Media Plan
// @Description Create a media plan referencing a campaign of the caller's organization
// @Tags MediaPlans
// @Accept json
// @Produce json
// @Param request body dto.CreateMediaPlanRequest true "Media plan creation data"
// @Success 201 {object} dto.APIResponse{data=dto.MediaPlanResponse} "Media plan created successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or inaccessible campaign"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Forbidden role"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/media-plans [post]
func (h *MediaPlanHandler) CreateMediaPlan(c fiber.Ctx) error {
	var req dto.CreateMediaPlanRequest
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

	result, err := h.mediaPlanFlow.Create(createRequestContext(c), &req, actor, metadata)
	if err != nil {
		log.Println("Media plan creation failed", err)
		return businessErrorResponse(c, err, "Media plan creation failed", "MEDIA_PLAN_CREATE_FAILED")
	}

	return successResponse(c, fiber.StatusCreated, "Media plan created successfully", result)
}

// ListMediaPlans returns the organization's media plans with pagination
// @Summary List Media Plans
// @Description Retrieve the organization's media plans, optionally filtered by campaign
// @Tags MediaPlans
// @Produce json
// @Param page query int false "Page number (1-indexed)" default(1)
// @Param per_page query int false "Items per page (max 100)" default(10)
// @Param campaign_id query int false "Restrict to one campaign"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedMediaPlans}
// @Failure 400 {object} dto.APIResponse "Invalid pagination"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Page beyond last page"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/media-plans [get]
func (h *MediaPlanHandler) ListMediaPlans(c fiber.Ctx) error {
	var query dto.ListMediaPlansQuery
	if err := c.Bind().Query(&query); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_QUERY", err.Error())
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Actor not found in context", "MISSING_ACTOR", nil)
	}

	result, err := h.mediaPlanFlow.List(createRequestContext(c), &query, actor)
	if err != nil {
		log.Println("List media plans failed", err)
		return businessErrorResponse(c, err, "Failed to list media plans", "LIST_MEDIA_PLANS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Media plans retrieved successfully", result)
}
