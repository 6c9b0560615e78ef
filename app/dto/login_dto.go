package dto

// LoginRequest is the credentials payload of the login endpoint
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// AuthUserDTO is the sanitized user payload returned on login
type AuthUserDTO struct {
	ID             uint   `json:"id"`
	UUID           string `json:"uuid"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Role           string `json:"role"`
	OrganizationID uint   `json:"organization_id"`
	IsActive       *bool  `json:"is_active"`
	CreatedAt      string `json:"created_at"`
}

// TokenPairDTO carries the issued token pair
type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// LoginResponse is the full login reply
type LoginResponse struct {
	User   AuthUserDTO  `json:"user"`
	Tokens TokenPairDTO `json:"tokens"`
}
