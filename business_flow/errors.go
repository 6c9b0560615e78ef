// Package businessflow contains the core business logic and use cases for campaign workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Identity errors
	ErrUserNotFound      = errors.New("user not found")
	ErrAccountInactive   = errors.New("account is inactive")
	ErrIncorrectPassword = errors.New("incorrect password")

	// Authorization errors
	ErrOperatorForbidden = errors.New("operators are not allowed to perform this operation")

	// Campaign lookup errors
	ErrCampaignNotFound = errors.New("campaign not found")

	// Campaign validation errors
	ErrCampaignNameRequired      = errors.New("campaign name is required")
	ErrCampaignBudgetInvalid     = errors.New("budget must be a positive amount")
	ErrScheduleMissingTimezone   = errors.New("schedule timestamps must include timezone info")
	ErrEndBeforeStart            = errors.New("end_date cannot be before start_date")
	ErrScheduleInPast            = errors.New("start_date must be today or a future time in Beijing timezone")
	ErrHourRangeInvalid          = errors.New("hour range must satisfy 0 <= from < 24, 0 < to <= 24, from < to")
	ErrInventoryRequired         = errors.New("at least one inventory id is required")
	ErrBillboardRequired         = errors.New("at least one billboard id is required for non-draft campaigns")
	ErrBillboardNotFound         = errors.New("billboard ids not found")
	ErrBillboardWrongOrg         = errors.New("billboard ids do not belong to the organization")
	ErrCityNotFound              = errors.New("city selections not found in geo table")
	ErrDuplicateCampaignSchedule = errors.New("campaign with the same name and schedule already exists")

	// Campaign state errors
	ErrCampaignNotEditable   = errors.New("only draft campaigns can be edited")
	ErrCampaignNotDeletable  = errors.New("only draft campaigns can be deleted")
	ErrCampaignNotExportable = errors.New("only completed campaigns can be exported")

	// Media plan errors
	ErrMediaPlanCampaignNotFound = errors.New("campaign not found or not accessible")
	ErrMediaPlanActionInvalid    = errors.New("invalid media plan action")

	// Filter and pagination errors
	ErrInvalidStatusFilter   = errors.New("invalid status filter")
	ErrInvalidPagination     = errors.New("invalid page or per_page parameter")
	ErrPageNotFound          = errors.New("page not found")
	ErrStartDateAfterEndDate = errors.New("start date cannot be after end date")

	// Infrastructure errors
	ErrCacheNotAvailable = errors.New("cache not available")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsOperatorForbidden(err error) bool {
	return errors.Is(err, ErrOperatorForbidden)
}

func IsCampaignNotFound(err error) bool {
	return errors.Is(err, ErrCampaignNotFound)
}

func IsCampaignNameRequired(err error) bool {
	return errors.Is(err, ErrCampaignNameRequired)
}

func IsCampaignBudgetInvalid(err error) bool {
	return errors.Is(err, ErrCampaignBudgetInvalid)
}

func IsScheduleMissingTimezone(err error) bool {
	return errors.Is(err, ErrScheduleMissingTimezone)
}

func IsEndBeforeStart(err error) bool {
	return errors.Is(err, ErrEndBeforeStart)
}

func IsScheduleInPast(err error) bool {
	return errors.Is(err, ErrScheduleInPast)
}

func IsHourRangeInvalid(err error) bool {
	return errors.Is(err, ErrHourRangeInvalid)
}

func IsInventoryRequired(err error) bool {
	return errors.Is(err, ErrInventoryRequired)
}

func IsBillboardRequired(err error) bool {
	return errors.Is(err, ErrBillboardRequired)
}

func IsBillboardNotFound(err error) bool {
	return errors.Is(err, ErrBillboardNotFound)
}

func IsBillboardWrongOrg(err error) bool {
	return errors.Is(err, ErrBillboardWrongOrg)
}

func IsCityNotFound(err error) bool {
	return errors.Is(err, ErrCityNotFound)
}

func IsDuplicateCampaignSchedule(err error) bool {
	return errors.Is(err, ErrDuplicateCampaignSchedule)
}

func IsCampaignNotEditable(err error) bool {
	return errors.Is(err, ErrCampaignNotEditable)
}

func IsCampaignNotDeletable(err error) bool {
	return errors.Is(err, ErrCampaignNotDeletable)
}

func IsCampaignNotExportable(err error) bool {
	return errors.Is(err, ErrCampaignNotExportable)
}

func IsMediaPlanCampaignNotFound(err error) bool {
	return errors.Is(err, ErrMediaPlanCampaignNotFound)
}

func IsMediaPlanActionInvalid(err error) bool {
	return errors.Is(err, ErrMediaPlanActionInvalid)
}

func IsInvalidStatusFilter(err error) bool {
	return errors.Is(err, ErrInvalidStatusFilter)
}

func IsInvalidPagination(err error) bool {
	return errors.Is(err, ErrInvalidPagination)
}

func IsPageNotFound(err error) bool {
	return errors.Is(err, ErrPageNotFound)
}

func IsStartDateAfterEndDate(err error) bool {
	return errors.Is(err, ErrStartDateAfterEndDate)
}

func IsCacheNotAvailable(err error) bool {
	return errors.Is(err, ErrCacheNotAvailable)
}
