package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aanchallguptaa/mgnrega-tracker/match"
	"github.com/aanchallguptaa/mgnrega-tracker/models"
)

func TestTargetMonth(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"mid month",
			time.Date(2025, 8, 17, 14, 30, 0, 0, time.UTC),
			time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"january rolls to december",
			time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"first of month",
			time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TargetMonth(tt.now))
		})
	}
}

func TestDistrictNamesDeduplicated(t *testing.T) {
	names := DistrictNames()
	assert.Len(t, names, 36)

	seen := make(map[string]bool)
	for _, n := range names {
		assert.False(t, seen[n], "duplicate district %q", n)
		seen[n] = true
	}
}

func TestDistrictNamesAreBilingual(t *testing.T) {
	// Every reference name must carry an English parenthetical form, since
	// that is what the location matcher compares geocoder output against.
	for _, n := range DistrictNames() {
		assert.NotEmpty(t, match.Parenthetical(n), "district %q has no usable parenthetical form", n)
	}
}

func TestGenerateBounds(t *testing.T) {
	s := New(nil)
	month := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 200; i++ {
		p := s.generate("पुणे (Pune)", month)

		assert.Equal(t, StateCode, p.StateCode)
		assert.Equal(t, month, p.DataMonth)
		assert.Equal(t, models.DataSourceSynthetic, p.DataSource)

		assert.GreaterOrEqual(t, p.HouseholdsWorked, int64(60000))
		assert.Less(t, p.HouseholdsWorked, int64(90000))

		lowActive := int64(float64(p.HouseholdsWorked) * 0.70)
		highActive := int64(float64(p.HouseholdsWorked) * 0.90)
		assert.GreaterOrEqual(t, p.ActiveWorkers, lowActive-1)
		assert.LessOrEqual(t, p.ActiveWorkers, highActive+1)

		assert.GreaterOrEqual(t, p.WomenWorkers, int64(float64(p.ActiveWorkers)*0.55)-1)
		assert.LessOrEqual(t, p.WomenWorkers, int64(float64(p.ActiveWorkers)*0.70)+1)

		assert.Equal(t, int64(float64(p.ActiveWorkers)*0.20), p.SCWorkers)
		assert.Equal(t, int64(float64(p.ActiveWorkers)*0.15), p.STWorkers)

		assert.GreaterOrEqual(t, p.AvgDaysProvided, 35.0)
		assert.Less(t, p.AvgDaysProvided, 55.0)

		assert.GreaterOrEqual(t, p.AvgWage, 285.0)
		assert.Less(t, p.AvgWage, 335.0)

		assert.GreaterOrEqual(t, p.CompletedWorks, int64(150))
		assert.Less(t, p.CompletedWorks, int64(450))
		assert.GreaterOrEqual(t, p.OngoingWorks, int64(80))
		assert.Less(t, p.OngoingWorks, int64(280))

		assert.Equal(t, int64(float64(p.HouseholdsWorked)*p.AvgDaysProvided), p.TotalPersondays)
		assert.InDelta(t, float64(p.HouseholdsWorked)*300*p.AvgDaysProvided/100000, p.TotalExpenditure, 0.001)

		assert.GreaterOrEqual(t, p.JobCardsIssued, p.HouseholdsWorked)
	}
}
