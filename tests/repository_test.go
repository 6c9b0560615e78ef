// Package tests contains integration tests for models and repository packages
// against a live PostgreSQL instance, to avoid circular imports.
package tests

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oohgrid/oohgrid/models"
	"github.com/oohgrid/oohgrid/repository"
	testingutil "github.com/oohgrid/oohgrid/testing"
	"github.com/oohgrid/oohgrid/utils"
)

func TestCampaignRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewCampaignRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		user, err := fixtures.CreateTestUser(1, models.UserRoleOwner)
		require.NoError(t, err)
		otherOrgUser, err := fixtures.CreateTestUser(2, models.UserRoleOwner)
		require.NoError(t, err)

		now := time.Now().UTC()
		campaign, err := fixtures.CreateTestCampaign(user, models.CampaignStatusUpcoming,
			now.AddDate(0, 0, 7), now.AddDate(0, 0, 14))
		require.NoError(t, err)

		t.Run("ByID", func(t *testing.T) {
			found, err := repo.ByID(ctx, campaign.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, campaign.Name, found.Name)
		})

		t.Run("ByIDAndOrganizationScopes", func(t *testing.T) {
			found, err := repo.ByIDAndOrganization(ctx, campaign.ID, user.OrganizationID)
			require.NoError(t, err)
			require.NotNil(t, found)

			// Cross-org lookup yields nil, not an error
			found, err = repo.ByIDAndOrganization(ctx, campaign.ID, otherOrgUser.OrganizationID)
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("UpdateStatus", func(t *testing.T) {
			require.NoError(t, repo.UpdateStatus(ctx, campaign.ID, models.CampaignStatusActive))
			found, err := repo.ByID(ctx, campaign.ID)
			require.NoError(t, err)
			assert.Equal(t, models.CampaignStatusActive, found.Status)
		})

		t.Run("SearchMatchesNameAndDescription", func(t *testing.T) {
			named, err := fixtures.CreateTestCampaign(user, models.CampaignStatusUpcoming,
				now.AddDate(0, 0, 7), now.AddDate(0, 0, 14))
			require.NoError(t, err)
			named.Name = "Metro Spring Push"
			require.NoError(t, repo.Update(ctx, *named))

			described, err := fixtures.CreateTestCampaign(user, models.CampaignStatusUpcoming,
				now.AddDate(0, 0, 7), now.AddDate(0, 0, 14))
			require.NoError(t, err)
			described.Description = utils.ToPtr("ten spring screens at the terminal")
			require.NoError(t, repo.Update(ctx, *described))

			search := "SPRING"
			matches, err := repo.ByFilter(ctx, models.CampaignFilter{
				OrganizationID: &user.OrganizationID,
				Search:         &search,
			}, "id ASC", 0, 0)
			require.NoError(t, err)
			require.Len(t, matches, 2)
			assert.Equal(t, named.ID, matches[0].ID)
			assert.Equal(t, described.ID, matches[1].ID)
		})

		t.Run("ExistsDuplicateScheduleIgnoresDrafts", func(t *testing.T) {
			start := now.AddDate(0, 0, 30).Truncate(time.Second)
			end := now.AddDate(0, 0, 40).Truncate(time.Second)

			draft, err := fixtures.CreateTestCampaign(user, models.CampaignStatusDraft, start, end)
			require.NoError(t, err)

			exists, err := repo.ExistsDuplicateSchedule(ctx, user.ID, draft.Name, start, end, nil)
			require.NoError(t, err)
			assert.False(t, exists)

			published, err := fixtures.CreateTestCampaign(user, models.CampaignStatusUpcoming, start, end)
			require.NoError(t, err)

			exists, err = repo.ExistsDuplicateSchedule(ctx, user.ID, published.Name, start, end, nil)
			require.NoError(t, err)
			assert.True(t, exists)

			// The row under edit never collides with itself
			exists, err = repo.ExistsDuplicateSchedule(ctx, user.ID, published.Name, start, end, &published.ID)
			require.NoError(t, err)
			assert.False(t, exists)
		})

		t.Run("DistinctOrganizationIDsSkipsDraftOnlyOrgs", func(t *testing.T) {
			draftOnlyUser, err := fixtures.CreateTestUser(9, models.UserRoleOwner)
			require.NoError(t, err)
			_, err = fixtures.CreateTestCampaign(draftOnlyUser, models.CampaignStatusDraft,
				now.AddDate(0, 0, 7), now.AddDate(0, 0, 14))
			require.NoError(t, err)

			ids, err := repo.DistinctOrganizationIDs(ctx)
			require.NoError(t, err)
			assert.Contains(t, ids, user.OrganizationID)
			assert.NotContains(t, ids, draftOnlyUser.OrganizationID)
		})

		t.Run("Delete", func(t *testing.T) {
			doomed, err := fixtures.CreateTestCampaign(user, models.CampaignStatusDraft,
				now.AddDate(0, 0, 7), now.AddDate(0, 0, 14))
			require.NoError(t, err)

			require.NoError(t, repo.Delete(ctx, doomed.ID))
			found, err := repo.ByID(ctx, doomed.ID)
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestCampaignScheduleUniqueIndex(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		user, err := fixtures.CreateTestUser(1, models.UserRoleOwner)
		require.NoError(t, err)

		start := time.Now().UTC().AddDate(0, 0, 7).Truncate(time.Second)
		end := time.Now().UTC().AddDate(0, 0, 14).Truncate(time.Second)

		first, err := fixtures.CreateTestCampaign(user, models.CampaignStatusUpcoming, start, end)
		require.NoError(t, err)

		// The partial index rejects a second non-draft row with the same
		// owner, name, and schedule at the storage layer.
		clash := &models.Campaign{
			UserID:         user.ID,
			OrganizationID: user.OrganizationID,
			Name:           first.Name,
			Budget:         first.Budget,
			StartDate:      start,
			EndDate:        end,
			Status:         models.CampaignStatusUpcoming,
			Targeting:      models.CampaignTargeting{},
			BillboardIDs:   models.StringList{},
			InventoryIDs:   models.StringList{},
		}
		require.NoError(t, clash.BeforeCreate())
		err = testDB.DB.Create(clash).Error
		assert.Error(t, err)

		// Drafts are exempt, any number of identical ones may exist
		for i := 0; i < 2; i++ {
			draft := &models.Campaign{
				UserID:         user.ID,
				OrganizationID: user.OrganizationID,
				Name:           first.Name,
				Budget:         first.Budget,
				StartDate:      start,
				EndDate:        end,
				Status:         models.CampaignStatusDraft,
				Targeting:      models.CampaignTargeting{},
				BillboardIDs:   models.StringList{},
				InventoryIDs:   models.StringList{},
			}
			require.NoError(t, draft.BeforeCreate())
			require.NoError(t, testDB.DB.Create(draft).Error)
		}

		return nil
	})
	require.NoError(t, err)
}

func TestInventoryFaceRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewInventoryFaceRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		mine, err := fixtures.CreateTestBillboards(1, 2)
		require.NoError(t, err)
		theirs, err := fixtures.CreateTestBillboards(2, 1)
		require.NoError(t, err)

		ownership, err := repo.OwnershipByFaceIDs(ctx, []string{
			mine[0].FaceID, mine[1].FaceID, theirs[0].FaceID, "BB-missing",
		})
		require.NoError(t, err)

		assert.Len(t, ownership, 3)
		assert.Equal(t, uint(1), ownership[mine[0].FaceID])
		assert.Equal(t, uint(1), ownership[mine[1].FaceID])
		assert.Equal(t, uint(2), ownership[theirs[0].FaceID])
		_, found := ownership["BB-missing"]
		assert.False(t, found)

		return nil
	})
	require.NoError(t, err)
}

func TestGeoDivisionRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewGeoDivisionRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		_, err := fixtures.CreateTestGeoDivisions()
		require.NoError(t, err)

		t.Run("ListByCountryOrderedByName", func(t *testing.T) {
			divisions, err := repo.ListByCountry(ctx, "CN")
			require.NoError(t, err)
			require.Len(t, divisions, 3)
			assert.Equal(t, "Beijing", divisions[0].Name)
			assert.Equal(t, "Guangzhou", divisions[1].Name)
			assert.Equal(t, "Shanghai", divisions[2].Name)
		})

		t.Run("ByDivisionIDs", func(t *testing.T) {
			divisions, err := repo.ByDivisionIDs(ctx, []string{"110000", "999999"})
			require.NoError(t, err)
			require.Len(t, divisions, 1)
			assert.Equal(t, "Beijing", divisions[0].Name)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestMediaPlanRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewMediaPlanRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		user, err := fixtures.CreateTestUser(1, models.UserRoleOwner)
		require.NoError(t, err)

		now := time.Now().UTC()
		campaign, err := fixtures.CreateTestCampaign(user, models.CampaignStatusUpcoming,
			now.AddDate(0, 0, 7), now.AddDate(0, 0, 14))
		require.NoError(t, err)

		plan, err := fixtures.CreateTestMediaPlan(user, campaign.ID)
		require.NoError(t, err)

		plans, err := repo.ByFilter(ctx, models.MediaPlanFilter{
			OrganizationID: &user.OrganizationID,
			CampaignID:     &campaign.ID,
		}, "created_at DESC", 0, 0)
		require.NoError(t, err)
		require.Len(t, plans, 1)
		assert.Equal(t, plan.ID, plans[0].ID)
		assert.Equal(t, models.MediaPlanActionPublish, plans[0].Action)

		return nil
	})
	require.NoError(t, err)
}

func TestUserAndAuditRepositories(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		userRepo := repository.NewUserRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		user, err := fixtures.CreateTestUser(1, models.UserRoleAdmin)
		require.NoError(t, err)

		t.Run("ByEmail", func(t *testing.T) {
			found, err := userRepo.ByEmail(ctx, user.Email)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, user.ID, found.ID)

			found, err = userRepo.ByEmail(ctx, "nobody@example.com")
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("UpdateLastLogin", func(t *testing.T) {
			at := time.Now().UTC().Truncate(time.Second)
			require.NoError(t, userRepo.UpdateLastLogin(ctx, user.ID, at))

			found, err := userRepo.ByID(ctx, user.ID)
			require.NoError(t, err)
			require.NotNil(t, found.LastLoginAt)
			assert.WithinDuration(t, at, *found.LastLoginAt, time.Second)
		})

		t.Run("ListByAction", func(t *testing.T) {
			_, err := fixtures.CreateTestAuditLog(&user.ID, models.AuditActionLoginSuccessful, true)
			require.NoError(t, err)
			_, err = fixtures.CreateTestAuditLog(&user.ID, models.AuditActionLoginFailed, false)
			require.NoError(t, err)

			logs, err := auditRepo.ListByAction(ctx, models.AuditActionLoginSuccessful, 10, 0)
			require.NoError(t, err)
			require.Len(t, logs, 1)
			assert.True(t, utils.IsTrue(logs[0].Success))
		})

		return nil
	})
	require.NoError(t, err)
}
