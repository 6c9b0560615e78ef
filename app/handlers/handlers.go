// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/oohgrid/oohgrid/app/dto"
	businessflow "github.com/oohgrid/oohgrid/business_flow"
	"github.com/oohgrid/oohgrid/models"
)

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return err.Field() + " must be at least " + err.Param()
	case "max":
		return err.Field() + " must be at most " + err.Param()
	case "len":
		return err.Field() + " must have exactly " + err.Param() + " elements"
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}

// actorFromContext rebuilds the authenticated actor from the locals the auth
// middleware stored after token validation.
func actorFromContext(c fiber.Ctx) (businessflow.Actor, bool) {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return businessflow.Actor{}, false
	}
	organizationID, ok := c.Locals("organization_id").(uint)
	if !ok {
		return businessflow.Actor{}, false
	}
	role, ok := c.Locals("role").(string)
	if !ok {
		return businessflow.Actor{}, false
	}
	firstName, _ := c.Locals("first_name").(string)
	lastName, _ := c.Locals("last_name").(string)

	return businessflow.Actor{
		UserID:         userID,
		OrganizationID: organizationID,
		Role:           models.UserRole(role),
		FirstName:      firstName,
		LastName:       lastName,
	}, true
}

const cancelFuncKey = "request-cancel-func"

// createRequestContext creates a context with request-scoped values and a 30s
// timeout. The cancel func rides along in the context so the request scope
// owns its release.
func createRequestContext(c fiber.Ctx) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, cancelFuncKey, cancel)
	return ctx
}

// errorResponse wraps a failure in the standard API envelope
func errorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

// successResponse wraps a success payload in the standard API envelope
func successResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// businessErrorResponse maps a flow error to its HTTP status, keeping the
// flow's message so validation replies enumerate the offending values.
func businessErrorResponse(c fiber.Ctx, err error, fallbackMessage, fallbackCode string) error {
	code := fallbackCode
	message := fallbackMessage
	var be *businessflow.BusinessError
	if errors.As(err, &be) {
		code = be.Code
		message = be.Message
	}

	switch {
	case businessflow.IsOperatorForbidden(err), businessflow.IsBillboardWrongOrg(err):
		return errorResponse(c, fiber.StatusForbidden, message, code, nil)
	case businessflow.IsCampaignNotFound(err), businessflow.IsPageNotFound(err):
		return errorResponse(c, fiber.StatusNotFound, message, code, nil)
	case businessflow.IsCampaignNameRequired(err),
		businessflow.IsCampaignBudgetInvalid(err),
		businessflow.IsScheduleMissingTimezone(err),
		businessflow.IsEndBeforeStart(err),
		businessflow.IsScheduleInPast(err),
		businessflow.IsHourRangeInvalid(err),
		businessflow.IsInventoryRequired(err),
		businessflow.IsBillboardRequired(err),
		businessflow.IsBillboardNotFound(err),
		businessflow.IsCityNotFound(err),
		businessflow.IsDuplicateCampaignSchedule(err),
		businessflow.IsCampaignNotEditable(err),
		businessflow.IsCampaignNotDeletable(err),
		businessflow.IsCampaignNotExportable(err),
		businessflow.IsMediaPlanCampaignNotFound(err),
		businessflow.IsMediaPlanActionInvalid(err),
		businessflow.IsInvalidStatusFilter(err),
		businessflow.IsInvalidPagination(err),
		businessflow.IsStartDateAfterEndDate(err):
		return errorResponse(c, fiber.StatusBadRequest, message, code, nil)
	}

	return errorResponse(c, fiber.StatusInternalServerError, fallbackMessage, fallbackCode, nil)
}
