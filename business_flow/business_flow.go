// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/oohgrid/oohgrid/app/dto"
	"github.com/oohgrid/oohgrid/models"
)

const RequestIDKey = "X-Request-ID"

// Actor is the authenticated principal every manager operation runs as.
// It is always passed explicitly, never stored in shared state.
type Actor struct {
	UserID         uint            `json:"user_id"`
	OrganizationID uint            `json:"organization_id"`
	Role           models.UserRole `json:"role"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
}

// CanManageCampaigns reports whether the actor may mutate or export campaigns
func (a Actor) CanManageCampaigns() bool {
	return a.Role.CanManageCampaigns()
}

// ClientMetadata holds all client-related information for audit logging
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToAuthUserDTO converts a user model to AuthUserDTO for authentication responses
func ToAuthUserDTO(user models.User) dto.AuthUserDTO {
	return dto.AuthUserDTO{
		ID:             user.ID,
		UUID:           user.UUID.String(),
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Role:           user.Role.String(),
		OrganizationID: user.OrganizationID,
		IsActive:       user.IsActive,
		CreatedAt:      user.CreatedAt.Format(time.RFC3339),
	}
}
