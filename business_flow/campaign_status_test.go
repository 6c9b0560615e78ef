package businessflow

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oohgrid/oohgrid/models"
)

func TestComputeStatus(t *testing.T) {
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, businessLoc)
	end := time.Date(2026, 3, 20, 23, 59, 59, 0, businessLoc)

	tests := []struct {
		name     string
		now      time.Time
		expected models.CampaignStatus
	}{
		{
			name:     "before start is upcoming",
			now:      start.Add(-1 * time.Second),
			expected: models.CampaignStatusUpcoming,
		},
		{
			name:     "exactly at start is active",
			now:      start,
			expected: models.CampaignStatusActive,
		},
		{
			name:     "between start and end is active",
			now:      start.Add(48 * time.Hour),
			expected: models.CampaignStatusActive,
		},
		{
			name:     "exactly at end is active",
			now:      end,
			expected: models.CampaignStatusActive,
		},
		{
			name:     "after end is completed",
			now:      end.Add(1 * time.Second),
			expected: models.CampaignStatusCompleted,
		},
		{
			name:     "long after end is completed",
			now:      end.AddDate(1, 0, 0),
			expected: models.CampaignStatusCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeStatus(start, end, tt.now))
		})
	}
}

func TestComputeStatusIsPure(t *testing.T) {
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 5, 15, 18, 0, 0, 0, time.UTC)
	now := time.Date(2026, 5, 7, 12, 0, 0, 0, time.UTC)

	first := ComputeStatus(start, end, now)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, ComputeStatus(start, end, now))
	}
}

func TestComputeStatusTimezoneIndependentInputs(t *testing.T) {
	// The same instants expressed in different zones must derive the same status
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, businessLoc)
	end := time.Date(2026, 3, 20, 0, 0, 0, 0, businessLoc)
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, businessLoc)

	utcStatus := ComputeStatus(start.UTC(), end.UTC(), now.UTC())
	localStatus := ComputeStatus(start, end, now)
	assert.Equal(t, localStatus, utcStatus)
	assert.Equal(t, models.CampaignStatusActive, utcStatus)
}

func TestRefreshOneSkipsDrafts(t *testing.T) {
	repo := newFakeCampaignRepo()
	engine := NewStatusEngine(repo, fakeTxManager{}, log.Default())

	draft := repo.add(&models.Campaign{
		OrganizationID: 1,
		UserID:         1,
		Name:           "Draft",
		StartDate:      time.Now().UTC().AddDate(0, 0, -30),
		EndDate:        time.Now().UTC().AddDate(0, 0, -20),
		Status:         models.CampaignStatusDraft,
	})

	changed, err := engine.RefreshOne(context.Background(), draft)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, models.CampaignStatusDraft, draft.Status)
}

func TestRefreshOnePersistsDerivedStatus(t *testing.T) {
	repo := newFakeCampaignRepo()
	engine := NewStatusEngine(repo, fakeTxManager{}, log.Default())

	// Stored as upcoming but the schedule already ended
	stale := repo.add(&models.Campaign{
		OrganizationID: 1,
		UserID:         1,
		Name:           "Stale",
		StartDate:      time.Now().UTC().AddDate(0, 0, -30),
		EndDate:        time.Now().UTC().AddDate(0, 0, -20),
		Status:         models.CampaignStatusUpcoming,
	})

	changed, err := engine.RefreshOne(context.Background(), stale)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.CampaignStatusCompleted, stale.Status)

	persisted, err := repo.ByID(context.Background(), stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusCompleted, persisted.Status)

	// Second refresh is a no-op
	changed, err = engine.RefreshOne(context.Background(), stale)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestRefreshOrganization(t *testing.T) {
	repo := newFakeCampaignRepo()
	engine := NewStatusEngine(repo, fakeTxManager{}, log.Default())
	now := time.Now().UTC()

	// Two stale campaigns, one already correct, one draft, one foreign org
	repo.add(&models.Campaign{OrganizationID: 1, UserID: 1, Name: "ended", Status: models.CampaignStatusActive,
		StartDate: now.AddDate(0, 0, -20), EndDate: now.AddDate(0, 0, -10)})
	repo.add(&models.Campaign{OrganizationID: 1, UserID: 1, Name: "started", Status: models.CampaignStatusUpcoming,
		StartDate: now.AddDate(0, 0, -1), EndDate: now.AddDate(0, 0, 10)})
	repo.add(&models.Campaign{OrganizationID: 1, UserID: 1, Name: "correct", Status: models.CampaignStatusUpcoming,
		StartDate: now.AddDate(0, 0, 5), EndDate: now.AddDate(0, 0, 15)})
	repo.add(&models.Campaign{OrganizationID: 1, UserID: 1, Name: "draft", Status: models.CampaignStatusDraft,
		StartDate: now.AddDate(0, 0, -20), EndDate: now.AddDate(0, 0, -10)})
	foreign := repo.add(&models.Campaign{OrganizationID: 2, UserID: 2, Name: "foreign", Status: models.CampaignStatusUpcoming,
		StartDate: now.AddDate(0, 0, -20), EndDate: now.AddDate(0, 0, -10)})

	updated, err := engine.RefreshOrganization(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	// The other organization's campaign was left alone
	persisted, err := repo.ByID(context.Background(), foreign.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusUpcoming, persisted.Status)

	// Second run changes nothing
	updated, err = engine.RefreshOrganization(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
}

func TestRefreshAll(t *testing.T) {
	repo := newFakeCampaignRepo()
	engine := NewStatusEngine(repo, fakeTxManager{}, log.Default())
	now := time.Now().UTC()

	repo.add(&models.Campaign{OrganizationID: 1, UserID: 1, Name: "one", Status: models.CampaignStatusUpcoming,
		StartDate: now.AddDate(0, 0, -20), EndDate: now.AddDate(0, 0, -10)})
	repo.add(&models.Campaign{OrganizationID: 2, UserID: 2, Name: "two", Status: models.CampaignStatusActive,
		StartDate: now.AddDate(0, 0, -20), EndDate: now.AddDate(0, 0, -10)})

	updated, err := engine.RefreshAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	updated, err = engine.RefreshAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
}

func TestRefreshAllSkipsDraftOnlyOrganizations(t *testing.T) {
	repo := newFakeCampaignRepo()
	engine := NewStatusEngine(repo, fakeTxManager{}, log.Default())
	now := time.Now().UTC()

	repo.add(&models.Campaign{OrganizationID: 1, UserID: 1, Name: "stale", Status: models.CampaignStatusActive,
		StartDate: now.AddDate(0, 0, -20), EndDate: now.AddDate(0, 0, -10)})
	repo.add(&models.Campaign{OrganizationID: 3, UserID: 3, Name: "sketch", Status: models.CampaignStatusDraft,
		StartDate: now.AddDate(0, 0, -20), EndDate: now.AddDate(0, 0, -10)})

	// Only the organization holding non-draft campaigns is enumerated
	orgs, err := repo.DistinctOrganizationIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, orgs)

	updated, err := engine.RefreshAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
}
