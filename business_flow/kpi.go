package businessflow

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/oohgrid/oohgrid/models"
)

// GenerateKPISummary derives display metrics for a campaign from its identity
// and schedule. The seed is a hash of "{id}-{start}-{end}", so the same
// campaign always gets byte-identical metrics across calls and processes.
func GenerateKPISummary(id uint, start, end time.Time) models.CampaignKPIData {
	key := fmt.Sprintf("%d-%s-%s", id, start.Format(time.RFC3339), end.Format(time.RFC3339))

	h := fnv.New64a()
	h.Write([]byte(key))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	coverage := math.Round((35.0+rng.Float64()*60.0)*10) / 10
	frequency := math.Round((1.0+rng.Float64()*4.0)*10) / 10
	gross := int64(50_000 + rng.Intn(450_001))
	net := int64(math.Round(float64(gross) * (0.45 + rng.Float64()*0.40)))

	return models.CampaignKPIData{
		CoveragePercent: coverage,
		Frequency:       frequency,
		GrossContacts:   gross,
		NetContacts:     net,
	}
}
