package businessflow

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/oohgrid/oohgrid/models"
	"github.com/oohgrid/oohgrid/repository"
	"github.com/oohgrid/oohgrid/utils"
)

// businessLoc is loaded once; every status derivation and schedule comparison
// happens in this timezone regardless of user locale.
var businessLoc = func() *time.Location {
	loc, err := time.LoadLocation(utils.BusinessTimezone)
	if err != nil {
		return time.FixedZone("CST", 8*60*60)
	}
	return loc
}()

// ComputeStatus derives the temporal status of a non-draft campaign from its
// schedule and a reference instant. Pure: same inputs always yield the same
// value, and draft is never returned.
func ComputeStatus(start, end, now time.Time) models.CampaignStatus {
	s := start.In(businessLoc)
	e := end.In(businessLoc)
	n := now.In(businessLoc)

	switch {
	case n.Before(s):
		return models.CampaignStatusUpcoming
	case !n.After(e):
		return models.CampaignStatusActive
	default:
		return models.CampaignStatusCompleted
	}
}

// StatusEngine keeps stored campaign statuses consistent with wall-clock time
type StatusEngine interface {
	RefreshOne(ctx context.Context, campaign *models.Campaign) (bool, error)
	RefreshOrganization(ctx context.Context, organizationID uint) (int, error)
	RefreshAll(ctx context.Context) (int, error)
}

// StatusEngineImpl implements the StatusEngine interface
type StatusEngineImpl struct {
	campaignRepo repository.CampaignRepository
	txManager    repository.TxManager
	logger       *log.Logger
}

// NewStatusEngine creates a new status engine
func NewStatusEngine(
	campaignRepo repository.CampaignRepository,
	txManager repository.TxManager,
	logger *log.Logger,
) StatusEngine {
	return &StatusEngineImpl{
		campaignRepo: campaignRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// RefreshOne recomputes one campaign's status and persists it only when it
// changed. Drafts are never touched.
func (e *StatusEngineImpl) RefreshOne(ctx context.Context, campaign *models.Campaign) (bool, error) {
	if campaign.IsDraft() {
		return false, nil
	}

	derived := ComputeStatus(campaign.StartDate, campaign.EndDate, utils.UTCNow())
	if derived == campaign.Status {
		return false, nil
	}

	if err := e.campaignRepo.UpdateStatus(ctx, campaign.ID, derived); err != nil {
		return false, fmt.Errorf("failed to update campaign %d status: %w", campaign.ID, err)
	}
	campaign.Status = derived

	return true, nil
}

// RefreshOrganization recomputes every non-draft campaign of one organization
// against a single captured now and commits all changes as one transaction.
func (e *StatusEngineImpl) RefreshOrganization(ctx context.Context, organizationID uint) (int, error) {
	now := utils.UTCNow()
	updated := 0

	err := e.txManager.Do(ctx, func(ctx context.Context) error {
		campaigns, err := e.campaignRepo.ListNonDraftByOrganization(ctx, organizationID)
		if err != nil {
			return fmt.Errorf("failed to load campaigns for organization %d: %w", organizationID, err)
		}

		for _, campaign := range campaigns {
			derived := ComputeStatus(campaign.StartDate, campaign.EndDate, now)
			if derived == campaign.Status {
				continue
			}
			if err := e.campaignRepo.UpdateStatus(ctx, campaign.ID, derived); err != nil {
				return fmt.Errorf("failed to update campaign %d status: %w", campaign.ID, err)
			}
			updated++
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return updated, nil
}

// RefreshAll refreshes every organization owning at least one campaign and
// returns the summed update count. A per-organization failure is logged and
// returned; the next scheduled tick retries naturally.
func (e *StatusEngineImpl) RefreshAll(ctx context.Context) (int, error) {
	organizationIDs, err := e.campaignRepo.DistinctOrganizationIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to enumerate organizations: %w", err)
	}

	total := 0
	for _, organizationID := range organizationIDs {
		updated, err := e.RefreshOrganization(ctx, organizationID)
		if err != nil {
			if e.logger != nil {
				e.logger.Printf("status refresh failed for organization %d: %v", organizationID, err)
			}
			return total, err
		}
		total += updated
	}

	return total, nil
}
