package businessflow

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateKPISummaryDeterministic(t *testing.T) {
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)

	first := GenerateKPISummary(42, start, end)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, GenerateKPISummary(42, start, end))
	}
}

func TestGenerateKPISummaryVariesWithInputs(t *testing.T) {
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)

	base := GenerateKPISummary(42, start, end)

	otherID := GenerateKPISummary(43, start, end)
	assert.NotEqual(t, base, otherID)

	otherSchedule := GenerateKPISummary(42, start.Add(24*time.Hour), end)
	assert.NotEqual(t, base, otherSchedule)
}

func TestGenerateKPISummaryRanges(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for id := uint(1); id <= 500; id++ {
		end := start.AddDate(0, 0, int(id%90)+1)
		kpi := GenerateKPISummary(id, start, end)

		assert.GreaterOrEqual(t, kpi.CoveragePercent, 35.0)
		assert.LessOrEqual(t, kpi.CoveragePercent, 95.0)
		assert.GreaterOrEqual(t, kpi.Frequency, 1.0)
		assert.LessOrEqual(t, kpi.Frequency, 5.0)
		assert.GreaterOrEqual(t, kpi.GrossContacts, int64(50_000))
		assert.LessOrEqual(t, kpi.GrossContacts, int64(500_000))
		assert.LessOrEqual(t, kpi.NetContacts, kpi.GrossContacts)
		assert.Greater(t, kpi.NetContacts, int64(0))

		// One decimal place
		assert.InDelta(t, kpi.CoveragePercent, math.Round(kpi.CoveragePercent*10)/10, 1e-9)
		assert.InDelta(t, kpi.Frequency, math.Round(kpi.Frequency*10)/10, 1e-9)
	}
}

func TestGenerateKPISummaryNetShare(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	for id := uint(1); id <= 200; id++ {
		kpi := GenerateKPISummary(id, start, end)
		share := float64(kpi.NetContacts) / float64(kpi.GrossContacts)
		assert.GreaterOrEqual(t, share, 0.44)
		assert.LessOrEqual(t, share, 0.86)
	}
}
