package businessflow

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/oohgrid/oohgrid/models"
)

// fakeTxManager runs the function directly without a database
type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeCampaignRepo is an in-memory campaign store
type fakeCampaignRepo struct {
	campaigns map[uint]*models.Campaign
	nextID    uint
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{campaigns: make(map[uint]*models.Campaign), nextID: 1}
}

func (r *fakeCampaignRepo) add(c *models.Campaign) *models.Campaign {
	if c.ID == 0 {
		c.ID = r.nextID
		r.nextID++
	} else if c.ID >= r.nextID {
		r.nextID = c.ID + 1
	}
	_ = c.BeforeCreate()
	stored := *c
	r.campaigns[c.ID] = &stored
	return r.campaigns[c.ID]
}

func (r *fakeCampaignRepo) ByID(ctx context.Context, id uint) (*models.Campaign, error) {
	c, ok := r.campaigns[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCampaignRepo) ByIDAndOrganization(ctx context.Context, id, organizationID uint) (*models.Campaign, error) {
	c, ok := r.campaigns[id]
	if !ok || c.OrganizationID != organizationID {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCampaignRepo) Save(ctx context.Context, campaign *models.Campaign) error {
	r.add(campaign)
	return nil
}

func (r *fakeCampaignRepo) SaveBatch(ctx context.Context, campaigns []*models.Campaign) error {
	for _, c := range campaigns {
		r.add(c)
	}
	return nil
}

func (r *fakeCampaignRepo) Update(ctx context.Context, campaign models.Campaign) error {
	stored := campaign
	r.campaigns[campaign.ID] = &stored
	return nil
}

func (r *fakeCampaignRepo) UpdateStatus(ctx context.Context, id uint, status models.CampaignStatus) error {
	if c, ok := r.campaigns[id]; ok {
		c.Status = status
	}
	return nil
}

func (r *fakeCampaignRepo) Delete(ctx context.Context, id uint) error {
	delete(r.campaigns, id)
	return nil
}

func (r *fakeCampaignRepo) ListNonDraftByOrganization(ctx context.Context, organizationID uint) ([]*models.Campaign, error) {
	var out []*models.Campaign
	for _, c := range r.campaigns {
		if c.OrganizationID == organizationID && !c.IsDraft() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCampaignRepo) DistinctOrganizationIDs(ctx context.Context) ([]uint, error) {
	seen := make(map[uint]bool)
	var out []uint
	for _, c := range r.campaigns {
		if c.IsDraft() {
			continue
		}
		if !seen[c.OrganizationID] {
			seen[c.OrganizationID] = true
			out = append(out, c.OrganizationID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (r *fakeCampaignRepo) ExistsDuplicateSchedule(ctx context.Context, userID uint, name string, startDate, endDate time.Time, excludeID *uint) (bool, error) {
	for _, c := range r.campaigns {
		if excludeID != nil && c.ID == *excludeID {
			continue
		}
		if c.UserID == userID && c.Name == name && !c.IsDraft() &&
			c.StartDate.Equal(startDate) && c.EndDate.Equal(endDate) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCampaignRepo) matches(c *models.Campaign, filter models.CampaignFilter) bool {
	if filter.OrganizationID != nil && c.OrganizationID != *filter.OrganizationID {
		return false
	}
	if filter.UserID != nil && c.UserID != *filter.UserID {
		return false
	}
	if filter.Status != nil && c.Status != *filter.Status {
		return false
	}
	if filter.Search != nil {
		needle := strings.ToLower(*filter.Search)
		nameHit := strings.Contains(strings.ToLower(c.Name), needle)
		descHit := c.Description != nil && strings.Contains(strings.ToLower(*c.Description), needle)
		if !nameHit && !descHit {
			return false
		}
	}
	if filter.StartDate != nil && c.StartDate.Before(*filter.StartDate) {
		return false
	}
	if filter.EndDate != nil && c.EndDate.After(*filter.EndDate) {
		return false
	}
	return true
}

func (r *fakeCampaignRepo) ByFilter(ctx context.Context, filter models.CampaignFilter, orderBy string, limit, offset int) ([]*models.Campaign, error) {
	var all []*models.Campaign
	for _, c := range r.campaigns {
		if r.matches(c, filter) {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	out := make([]*models.Campaign, len(all))
	for i, c := range all {
		cp := *c
		out[i] = &cp
	}
	return out, nil
}

func (r *fakeCampaignRepo) Count(ctx context.Context, filter models.CampaignFilter) (int64, error) {
	var n int64
	for _, c := range r.campaigns {
		if r.matches(c, filter) {
			n++
		}
	}
	return n, nil
}

func (r *fakeCampaignRepo) Exists(ctx context.Context, filter models.CampaignFilter) (bool, error) {
	n, _ := r.Count(ctx, filter)
	return n > 0, nil
}

// fakeInventoryRepo returns a fixed face ownership map
type fakeInventoryRepo struct {
	ownership map[string]uint
}

func (r *fakeInventoryRepo) OwnershipByFaceIDs(ctx context.Context, faceIDs []string) (map[string]uint, error) {
	out := make(map[string]uint)
	for _, id := range faceIDs {
		if owner, ok := r.ownership[id]; ok {
			out[id] = owner
		}
	}
	return out, nil
}

func (r *fakeInventoryRepo) ByID(ctx context.Context, id uint) (*models.InventoryFace, error) {
	return nil, nil
}

func (r *fakeInventoryRepo) ByFilter(ctx context.Context, filter models.InventoryFaceFilter, orderBy string, limit, offset int) ([]*models.InventoryFace, error) {
	return nil, nil
}

func (r *fakeInventoryRepo) Save(ctx context.Context, entity *models.InventoryFace) error { return nil }

func (r *fakeInventoryRepo) SaveBatch(ctx context.Context, entities []*models.InventoryFace) error {
	return nil
}

func (r *fakeInventoryRepo) Count(ctx context.Context, filter models.InventoryFaceFilter) (int64, error) {
	return 0, nil
}

func (r *fakeInventoryRepo) Exists(ctx context.Context, filter models.InventoryFaceFilter) (bool, error) {
	return false, nil
}

// fakeGeoRepo serves a fixed division catalog
type fakeGeoRepo struct {
	divisions []*models.GeoDivision
}

func (r *fakeGeoRepo) ListByCountry(ctx context.Context, countryCode string) ([]*models.GeoDivision, error) {
	var out []*models.GeoDivision
	for _, d := range r.divisions {
		if d.CountryCode == countryCode {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeGeoRepo) ByDivisionIDs(ctx context.Context, divisionIDs []string) ([]*models.GeoDivision, error) {
	want := make(map[string]bool, len(divisionIDs))
	for _, id := range divisionIDs {
		want[id] = true
	}
	var out []*models.GeoDivision
	for _, d := range r.divisions {
		if want[d.DivisionID] {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeGeoRepo) ByID(ctx context.Context, id uint) (*models.GeoDivision, error) {
	return nil, nil
}

func (r *fakeGeoRepo) ByFilter(ctx context.Context, filter models.GeoDivisionFilter, orderBy string, limit, offset int) ([]*models.GeoDivision, error) {
	return nil, nil
}

func (r *fakeGeoRepo) Save(ctx context.Context, entity *models.GeoDivision) error { return nil }

func (r *fakeGeoRepo) SaveBatch(ctx context.Context, entities []*models.GeoDivision) error {
	return nil
}

func (r *fakeGeoRepo) Count(ctx context.Context, filter models.GeoDivisionFilter) (int64, error) {
	return 0, nil
}

func (r *fakeGeoRepo) Exists(ctx context.Context, filter models.GeoDivisionFilter) (bool, error) {
	return false, nil
}

// fakeMediaPlanRepo is an in-memory media plan store
type fakeMediaPlanRepo struct {
	plans  map[uint]*models.MediaPlan
	nextID uint
}

func newFakeMediaPlanRepo() *fakeMediaPlanRepo {
	return &fakeMediaPlanRepo{plans: make(map[uint]*models.MediaPlan), nextID: 1}
}

func (r *fakeMediaPlanRepo) matches(p *models.MediaPlan, filter models.MediaPlanFilter) bool {
	if filter.OrganizationID != nil && p.OrganizationID != *filter.OrganizationID {
		return false
	}
	if filter.CampaignID != nil && p.CampaignID != *filter.CampaignID {
		return false
	}
	return true
}

func (r *fakeMediaPlanRepo) ByID(ctx context.Context, id uint) (*models.MediaPlan, error) {
	p, ok := r.plans[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeMediaPlanRepo) ByFilter(ctx context.Context, filter models.MediaPlanFilter, orderBy string, limit, offset int) ([]*models.MediaPlan, error) {
	var all []*models.MediaPlan
	for _, p := range r.plans {
		if r.matches(p, filter) {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeMediaPlanRepo) Save(ctx context.Context, plan *models.MediaPlan) error {
	if plan.ID == 0 {
		plan.ID = r.nextID
		r.nextID++
	}
	stored := *plan
	r.plans[plan.ID] = &stored
	return nil
}

func (r *fakeMediaPlanRepo) SaveBatch(ctx context.Context, plans []*models.MediaPlan) error {
	for _, p := range plans {
		if err := r.Save(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeMediaPlanRepo) Count(ctx context.Context, filter models.MediaPlanFilter) (int64, error) {
	var n int64
	for _, p := range r.plans {
		if r.matches(p, filter) {
			n++
		}
	}
	return n, nil
}

func (r *fakeMediaPlanRepo) Exists(ctx context.Context, filter models.MediaPlanFilter) (bool, error) {
	n, _ := r.Count(ctx, filter)
	return n > 0, nil
}

// fakeUserRepo serves a fixed user set keyed by email
type fakeUserRepo struct {
	users map[string]*models.User

	lastLoginUpdated map[uint]time.Time
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User), lastLoginUpdated: make(map[uint]time.Time)}
	for _, u := range users {
		r.users[u.Email] = u
	}
	return r
}

func (r *fakeUserRepo) ByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error {
	r.lastLoginUpdated[userID] = at
	return nil
}

func (r *fakeUserRepo) ByID(ctx context.Context, id uint) (*models.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ByFilter(ctx context.Context, filter models.UserFilter, orderBy string, limit, offset int) ([]*models.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) Save(ctx context.Context, entity *models.User) error { return nil }

func (r *fakeUserRepo) SaveBatch(ctx context.Context, entities []*models.User) error { return nil }

func (r *fakeUserRepo) Count(ctx context.Context, filter models.UserFilter) (int64, error) {
	return 0, nil
}

func (r *fakeUserRepo) Exists(ctx context.Context, filter models.UserFilter) (bool, error) {
	return false, nil
}

// fakeAuditRepo records audit rows in memory
type fakeAuditRepo struct {
	logs []*models.AuditLog
}

func (r *fakeAuditRepo) Save(ctx context.Context, entity *models.AuditLog) error {
	r.logs = append(r.logs, entity)
	return nil
}

func (r *fakeAuditRepo) SaveBatch(ctx context.Context, entities []*models.AuditLog) error {
	r.logs = append(r.logs, entities...)
	return nil
}

func (r *fakeAuditRepo) ByID(ctx context.Context, id uint) (*models.AuditLog, error) {
	return nil, nil
}

func (r *fakeAuditRepo) ByFilter(ctx context.Context, filter models.AuditLogFilter, orderBy string, limit, offset int) ([]*models.AuditLog, error) {
	return nil, nil
}

func (r *fakeAuditRepo) Count(ctx context.Context, filter models.AuditLogFilter) (int64, error) {
	return int64(len(r.logs)), nil
}

func (r *fakeAuditRepo) Exists(ctx context.Context, filter models.AuditLogFilter) (bool, error) {
	return len(r.logs) > 0, nil
}

func (r *fakeAuditRepo) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.AuditLog, error) {
	return nil, nil
}

func (r *fakeAuditRepo) ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error) {
	var out []*models.AuditLog
	for _, l := range r.logs {
		if l.Action == action {
			out = append(out, l)
		}
	}
	return out, nil
}

// fakeRenderer hands back a fixed export file and records the rendered format
type fakeRenderer struct {
	lastFormat string
}

func (r *fakeRenderer) Render(campaign *models.Campaign, kpi models.CampaignKPIData, format string) (*ExportFile, error) {
	r.lastFormat = format
	return &ExportFile{
		Path:     "/tmp/fake-report." + format,
		Filename: "fake-report." + format,
		Cleanup:  func() {},
	}, nil
}

// fakeTokenIssuer issues fixed token strings
type fakeTokenIssuer struct {
	fail error
}

func (f *fakeTokenIssuer) GenerateTokens(user *models.User) (string, string, error) {
	if f.fail != nil {
		return "", "", f.fail
	}
	return "access-token", "refresh-token", nil
}
