// Package testing provides test utilities and database setup for testing the campaign system
package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/oohgrid/oohgrid/models"
	"github.com/oohgrid/oohgrid/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestUser creates an active user in the given organization
func (tf *TestFixtures) CreateTestUser(organizationID uint, role models.UserRole) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	suffix := rand.Intn(10000000)

	user := &models.User{
		UUID:           uuid.New(),
		OrganizationID: organizationID,
		Email:          fmt.Sprintf("user.%d.%d@example.com", organizationID, suffix),
		PasswordHash:   string(hashedPassword),
		FirstName:      "Test",
		LastName:       fmt.Sprintf("User%d", suffix),
		Role:           role,
		IsActive:       utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}

	return user, nil
}

// CreateTestGeoDivisions seeds the geo catalog with a few Chinese cities
func (tf *TestFixtures) CreateTestGeoDivisions() ([]*models.GeoDivision, error) {
	divisions := []*models.GeoDivision{
		{DivisionID: "110000", Name: "Beijing", CountryCode: "CN"},
		{DivisionID: "310000", Name: "Shanghai", CountryCode: "CN"},
		{DivisionID: "440100", Name: "Guangzhou", CountryCode: "CN"},
	}

	for _, d := range divisions {
		if err := tf.DB.DB.Create(d).Error; err != nil {
			return nil, fmt.Errorf("failed to create geo division %s: %w", d.DivisionID, err)
		}
	}

	return divisions, nil
}

// CreateTestBillboards creates n billboard faces owned by the organization
func (tf *TestFixtures) CreateTestBillboards(organizationID uint, n int) ([]*models.InventoryFace, error) {
	var faces []*models.InventoryFace
	for i := 0; i < n; i++ {
		face := &models.InventoryFace{
			FaceID:         fmt.Sprintf("BB-%d-%d-%d", organizationID, i, rand.Intn(10000000)),
			OrganizationID: organizationID,
			Label:          utils.ToPtr(fmt.Sprintf("Test Billboard %d", i)),
		}
		if err := tf.DB.DB.Create(face).Error; err != nil {
			return nil, fmt.Errorf("failed to create test billboard %d: %w", i, err)
		}
		faces = append(faces, face)
	}
	return faces, nil
}

// CreateTestCampaign creates a campaign for the user with the given status and schedule
func (tf *TestFixtures) CreateTestCampaign(user *models.User, status models.CampaignStatus, start, end time.Time) (*models.Campaign, error) {
	campaign := &models.Campaign{
		UUID:           uuid.New(),
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		Name:           fmt.Sprintf("Test Campaign %d", rand.Intn(10000000)),
		Budget:         50000,
		StartDate:      start.UTC(),
		EndDate:        end.UTC(),
		Status:         status,
		Targeting:      models.CampaignTargeting{},
		BillboardIDs:   models.StringList{},
		InventoryIDs:   models.StringList{},
	}

	if err := tf.DB.DB.Create(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to create test campaign: %w", err)
	}

	return campaign, nil
}

// CreateTestMediaPlan attaches a media plan to a campaign
func (tf *TestFixtures) CreateTestMediaPlan(user *models.User, campaignID uint) (*models.MediaPlan, error) {
	plan := &models.MediaPlan{
		UUID:           uuid.New(),
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		CampaignID:     campaignID,
		Name:           fmt.Sprintf("Test Plan %d", rand.Intn(10000000)),
		Budget:         10000,
		Action:         models.MediaPlanActionPublish,
	}

	if err := tf.DB.DB.Create(plan).Error; err != nil {
		return nil, fmt.Errorf("failed to create test media plan: %w", err)
	}

	return plan, nil
}

// CreateTestAuditLog creates a test audit log entry
func (tf *TestFixtures) CreateTestAuditLog(userID *uint, action string, success bool) (*models.AuditLog, error) {
	description := fmt.Sprintf("Test %s action", action)
	ipAddress := "127.0.0.1"
	userAgent := "Test User Agent"

	audit := &models.AuditLog{
		UserID:      userID,
		Action:      action,
		Description: &description,
		Success:     &success,
		IPAddress:   &ipAddress,
		UserAgent:   &userAgent,
	}

	if !success {
		errorMessage := "Test failed action"
		audit.ErrorMessage = &errorMessage
	}

	if err := tf.DB.DB.Create(audit).Error; err != nil {
		return nil, fmt.Errorf("failed to create test audit log: %w", err)
	}

	return audit, nil
}
