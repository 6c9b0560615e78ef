// Package services provides external service integrations and technical concerns like reports and tokens
package services

import (
	"testing"
	"time"

	"github.com/oohgrid/oohgrid/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestTokenService creates a token service for testing with symmetric key
func createTestTokenService() (TokenService, error) {
	return NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false, // useRSAKeys
		"",    // privateKeyPEM
		"",    // publicKeyPEM
		"test-secret-key-for-jwt-signing-32-chars", // secretKey
	)
}

func testUser(id, organizationID uint, role models.UserRole) *models.User {
	return &models.User{
		ID:             id,
		OrganizationID: organizationID,
		Email:          "owner@example.com",
		FirstName:      "Li",
		LastName:       "Wei",
		Role:           role,
	}
}

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name            string
		accessTokenTTL  time.Duration
		refreshTokenTTL time.Duration
		issuer          string
		audience        string
		useRSAKeys      bool
		privateKeyPEM   string
		publicKeyPEM    string
		secretKey       string
		expectError     bool
	}{
		{
			name:            "valid symmetric key configuration",
			accessTokenTTL:  15 * time.Minute,
			refreshTokenTTL: 7 * 24 * time.Hour,
			issuer:          "test-issuer",
			audience:        "test-audience",
			secretKey:       "test-secret-key-for-jwt-signing-32-chars",
			expectError:     false,
		},
		{
			name:            "missing secret key",
			accessTokenTTL:  15 * time.Minute,
			refreshTokenTTL: 7 * 24 * time.Hour,
			issuer:          "test-issuer",
			audience:        "test-audience",
			secretKey:       "",
			expectError:     true,
		},
		{
			name:            "rsa mode without keys",
			accessTokenTTL:  15 * time.Minute,
			refreshTokenTTL: 7 * 24 * time.Hour,
			issuer:          "test-issuer",
			audience:        "test-audience",
			useRSAKeys:      true,
			expectError:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, err := NewTokenService(
				tt.accessTokenTTL,
				tt.refreshTokenTTL,
				tt.issuer,
				tt.audience,
				tt.useRSAKeys,
				tt.privateKeyPEM,
				tt.publicKeyPEM,
				tt.secretKey,
			)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, service)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, service)
			}
		})
	}
}

func TestGenerateTokens(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, refreshToken, err := service.GenerateTokens(testUser(123, 5, models.UserRoleOwner))
	require.NoError(t, err)

	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	// Verify tokens are valid JWT format (should start with "eyJ")
	assert.Contains(t, accessToken, "eyJ")
	assert.Contains(t, refreshToken, "eyJ")
}

func TestValidateToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, refreshToken, err := service.GenerateTokens(testUser(123, 5, models.UserRoleAdmin))
	require.NoError(t, err)

	tests := []struct {
		name            string
		token           string
		expectError     bool
		expectTokenType string
	}{
		{
			name:            "valid access token",
			token:           accessToken,
			expectTokenType: "access",
		},
		{
			name:            "valid refresh token",
			token:           refreshToken,
			expectTokenType: "refresh",
		},
		{
			name:        "empty token",
			token:       "",
			expectError: true,
		},
		{
			name:        "invalid token format",
			token:       "invalid.token.format",
			expectError: true,
		},
		{
			name:        "malformed token",
			token:       "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid.signature",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateToken(tt.token)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, claims)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, claims)

				assert.Equal(t, uint(123), claims.UserID)
				assert.Equal(t, uint(5), claims.OrganizationID)
				assert.Equal(t, "admin", claims.Role)
				assert.Equal(t, "Li", claims.FirstName)
				assert.Equal(t, "Wei", claims.LastName)
				assert.Equal(t, tt.expectTokenType, claims.TokenType)
				assert.NotEmpty(t, claims.TokenID)
				assert.False(t, claims.IssuedAt.IsZero())
				assert.False(t, claims.ExpiresAt.IsZero())
				assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
			}
		})
	}
}

func TestRefreshToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	user := testUser(123, 5, models.UserRoleOwner)
	accessToken, refreshToken, err := service.GenerateTokens(user)
	require.NoError(t, err)

	lookup := func(userID uint) (*models.User, error) {
		require.Equal(t, user.ID, userID)
		return user, nil
	}

	t.Run("valid refresh token", func(t *testing.T) {
		newAccessToken, newRefreshToken, err := service.RefreshToken(refreshToken, lookup)
		require.NoError(t, err)
		assert.NotEmpty(t, newAccessToken)
		assert.NotEmpty(t, newRefreshToken)
		assert.NotEqual(t, newAccessToken, newRefreshToken)
		assert.NotEqual(t, newRefreshToken, refreshToken)
	})

	t.Run("access token rejected", func(t *testing.T) {
		_, _, err := service.RefreshToken(accessToken, lookup)
		assert.Error(t, err)
	})

	t.Run("invalid token rejected", func(t *testing.T) {
		_, _, err := service.RefreshToken("invalid.token", lookup)
		assert.Error(t, err)
	})

	t.Run("deleted user rejected", func(t *testing.T) {
		_, _, err := service.RefreshToken(refreshToken, func(userID uint) (*models.User, error) {
			return nil, nil
		})
		assert.Error(t, err)
	})
}

func TestTokenExpiration(t *testing.T) {
	// Create service with very short TTL for testing expiration
	service, err := NewTokenService(1*time.Second, 2*time.Second, "test-issuer", "test-audience", false, "", "", "test-secret-key-for-jwt-signing-32-chars")
	require.NoError(t, err)

	user := testUser(123, 5, models.UserRoleOwner)
	accessToken, refreshToken, err := service.GenerateTokens(user)
	require.NoError(t, err)

	// Initially, tokens should be valid
	claims, err := service.ValidateToken(accessToken)
	assert.NoError(t, err)
	assert.NotNil(t, claims)

	// Wait for tokens to expire
	time.Sleep(3 * time.Second)

	// After expiration, tokens should be invalid
	claims, err = service.ValidateToken(accessToken)
	assert.Error(t, err)
	assert.Nil(t, claims)

	// Refresh token should also be expired
	_, _, err = service.RefreshToken(refreshToken, func(userID uint) (*models.User, error) {
		return user, nil
	})
	assert.Error(t, err)
}

func TestTokenSecurity(t *testing.T) {
	// Create services with different configurations to ensure different keys
	service1, err := NewTokenService(15*time.Minute, 7*24*time.Hour, "issuer1", "audience1", false, "", "", "test-secret-key-1-for-jwt-signing-32-chars")
	require.NoError(t, err)

	service2, err := NewTokenService(15*time.Minute, 7*24*time.Hour, "issuer2", "audience2", false, "", "", "test-secret-key-2-for-jwt-signing-32-chars")
	require.NoError(t, err)

	user := testUser(123, 5, models.UserRoleOwner)

	token1, _, err := service1.GenerateTokens(user)
	require.NoError(t, err)

	token2, _, err := service2.GenerateTokens(user)
	require.NoError(t, err)

	// Tokens should be different even for the same user
	assert.NotEqual(t, token1, token2)

	// Tokens from one service should not be valid in another service
	claims, err := service1.ValidateToken(token2)
	assert.Error(t, err)
	assert.Nil(t, claims)

	claims, err = service2.ValidateToken(token1)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestConcurrentTokenGeneration(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	const numGoroutines = 10
	tokens := make(chan string, numGoroutines)
	errs := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(userID uint) {
			accessToken, _, err := service.GenerateTokens(testUser(userID, 5, models.UserRoleOwner))
			if err != nil {
				errs <- err
				return
			}
			tokens <- accessToken
		}(uint(i + 1))
	}

	generatedTokens := make(map[string]bool)
	for i := 0; i < numGoroutines; i++ {
		select {
		case token := <-tokens:
			assert.NotEmpty(t, token)
			assert.False(t, generatedTokens[token], "Duplicate token generated")
			generatedTokens[token] = true
		case err := <-errs:
			t.Errorf("Error generating token: %v", err)
		}
	}

	assert.Equal(t, numGoroutines, len(generatedTokens))
}

func BenchmarkGenerateTokens(b *testing.B) {
	service, err := createTestTokenService()
	require.NoError(b, err)

	user := testUser(123, 5, models.UserRoleOwner)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, err := service.GenerateTokens(user)
		require.NoError(b, err)
	}
}

func BenchmarkValidateToken(b *testing.B) {
	service, err := createTestTokenService()
	require.NoError(b, err)

	token, _, err := service.GenerateTokens(testUser(123, 5, models.UserRoleOwner))
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := service.ValidateToken(token)
		require.NoError(b, err)
	}
}
