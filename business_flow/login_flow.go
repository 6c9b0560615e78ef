package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/oohgrid/oohgrid/app/dto"
	"github.com/oohgrid/oohgrid/models"
	"github.com/oohgrid/oohgrid/repository"
	"github.com/oohgrid/oohgrid/utils"
)

// TokenIssuer issues access/refresh token pairs for an authenticated user.
// The JWT implementation lives in the services layer.
type TokenIssuer interface {
	GenerateTokens(user *models.User) (accessToken, refreshToken string, err error)
}

// LoginFlow handles user authentication
type LoginFlow interface {
	Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
}

// LoginFlowImpl implements the login business flow
type LoginFlowImpl struct {
	userRepo    repository.UserRepository
	auditRepo   repository.AuditLogRepository
	tokenIssuer TokenIssuer
	txManager   repository.TxManager
}

// NewLoginFlow creates a new login flow instance
func NewLoginFlow(
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
	tokenIssuer TokenIssuer,
	txManager repository.TxManager,
) LoginFlow {
	return &LoginFlowImpl{
		userRepo:    userRepo,
		auditRepo:   auditRepo,
		tokenIssuer: tokenIssuer,
		txManager:   txManager,
	}
}

// Login authenticates a user with email and password
func (lf *LoginFlowImpl) Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(request.Email))

	var user *models.User
	var resp *dto.LoginResponse

	err := lf.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		user, err = lf.userRepo.ByEmail(ctx, email)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		if !utils.IsTrue(user.IsActive) {
			return ErrAccountInactive
		}

		if !user.CheckPassword(request.Password) {
			return ErrIncorrectPassword
		}

		now := utils.UTCNow()
		if err := lf.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
			return err
		}

		accessToken, refreshToken, err := lf.tokenIssuer.GenerateTokens(user)
		if err != nil {
			return err
		}

		resp = &dto.LoginResponse{
			User: ToAuthUserDTO(*user),
			Tokens: dto.TokenPairDTO{
				AccessToken:  accessToken,
				RefreshToken: refreshToken,
				TokenType:    "Bearer",
				ExpiresIn:    utils.AccessTokenTTLSeconds,
			},
		}
		return nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Login failed: %s", err.Error())
		_ = lf.logLoginAttempt(ctx, user, models.AuditActionLoginFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}

	msg := fmt.Sprintf("User logged in successfully: %d", resp.User.ID)
	_ = lf.logLoginAttempt(ctx, user, models.AuditActionLoginSuccessful, msg, true, nil, metadata)

	return resp, nil
}

func (lf *LoginFlowImpl) logLoginAttempt(ctx context.Context, user *models.User, action string, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
	var userID *uint
	if user != nil {
		userID = &user.ID
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
		Description:  &description,
		Success:      utils.ToPtr(success),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		ErrorMessage: errMsg,
	}

	requestID := ctx.Value(RequestIDKey)
	if requestID != nil {
		if requestIDStr, ok := requestID.(string); ok {
			audit.RequestID = &requestIDStr
		}
	}

	return lf.auditRepo.Save(ctx, audit)
}
