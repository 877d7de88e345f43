package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/aanchallguptaa/mgnrega-tracker/models"
	"github.com/aanchallguptaa/mgnrega-tracker/store"
	"github.com/aanchallguptaa/mgnrega-tracker/utils"
)

// MetricComparison compares one metric against a prior period. When no
// prior row exists, Previous equals Current and ChangePercent is zero.
type MetricComparison struct {
	Current       float64 `json:"current"`
	Previous      float64 `json:"previous"`
	ChangePercent float64 `json:"changePercent"`
}

// ComparisonSet holds the compared metrics for one prior period.
type ComparisonSet struct {
	HouseholdsWorked MetricComparison `json:"householdsWorked"`
	AvgDaysProvided  MetricComparison `json:"avgDaysProvided"`
	AvgWage          MetricComparison `json:"avgWage"`
}

// StateComparison holds the state-wide averages for the district's data
// month and whether the district sits above or below them.
type StateComparison struct {
	HouseholdsWorked float64 `json:"householdsWorked"`
	AvgDaysProvided  float64 `json:"avgDaysProvided"`
	AvgWage          float64 `json:"avgWage"`
	Districts        int     `json:"districts"`
	Comparison       string  `json:"comparison"`
}

// DistrictDataResponse is the /api/district-data payload.
type DistrictDataResponse struct {
	StateCode    string             `json:"stateCode"`
	DistrictName string             `json:"districtName"`
	DataMonth    string             `json:"dataMonth"`
	Current      models.Performance `json:"current"`
	LastMonth    ComparisonSet      `json:"lastMonth"`
	LastYear     ComparisonSet      `json:"lastYear"`
	StateAverage StateComparison    `json:"stateAverage"`
}

// GetDistrictData serves the per-district metrics with month-over-month,
// year-over-year and state-average comparisons.
func (h *Handler) GetDistrictData(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := newRequestID()
	status := http.StatusOK
	defer func() { h.logAPI(r, requestID, status, start) }()

	state := r.URL.Query().Get("state")
	district := r.URL.Query().Get("district")
	if state == "" || district == "" {
		status = http.StatusBadRequest
		respondError(w, status, "missing_parameters", "Both 'state' and 'district' query parameters are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeQueryTimeout)
	defer cancel()

	latest, err := h.store.LatestPerformance(ctx, state, district)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			status = http.StatusNotFound
			respondError(w, status, "no_data", "No performance data available for this district")
			return
		}
		log.Printf("Error fetching district data for %s/%s: %v", state, district, err)
		status = http.StatusInternalServerError
		respondError(w, status, "internal_error", "Failed to fetch district data")
		return
	}

	// Exact-date lookups for the prior periods. Only one month is seeded,
	// so these usually miss and the comparison degrades to zero change.
	lastMonth := h.performanceOrSelf(ctx, latest, latest.DataMonth.AddDate(0, -1, 0))
	lastYear := h.performanceOrSelf(ctx, latest, latest.DataMonth.AddDate(-1, 0, 0))

	averages := h.stateAverages(ctx, latest)

	comparison := "below"
	if float64(latest.HouseholdsWorked) > averages.HouseholdsWorked {
		comparison = "above"
	}

	resp := DistrictDataResponse{
		StateCode:    latest.StateCode,
		DistrictName: latest.DistrictName,
		DataMonth:    latest.DataMonth.Format("2006-01"),
		Current:      rounded(*latest),
		LastMonth:    compare(latest, lastMonth),
		LastYear:     compare(latest, lastYear),
		StateAverage: StateComparison{
			HouseholdsWorked: utils.Round2(averages.HouseholdsWorked),
			AvgDaysProvided:  utils.Round1(averages.AvgDaysProvided),
			AvgWage:          utils.Round2(averages.AvgWage),
			Districts:        averages.Districts,
			Comparison:       comparison,
		},
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	respondJSON(w, http.StatusOK, resp)
}

// performanceOrSelf fetches the row for an exact prior month, falling back
// to the current row when none exists.
func (h *Handler) performanceOrSelf(ctx context.Context, current *models.Performance, month time.Time) *models.Performance {
	p, err := h.store.PerformanceAt(ctx, current.StateCode, current.DistrictName, month)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("Error fetching performance at %s: %v", month.Format("2006-01"), err)
		}
		return current
	}
	return p
}

// stateAverages computes (or serves from cache) the state-wide averages
// for the row's month, falling back to the row's own values when the
// aggregation matches nothing.
func (h *Handler) stateAverages(ctx context.Context, latest *models.Performance) *store.StateAverages {
	key := fmt.Sprintf("averages:%s:%s", latest.StateCode, latest.DataMonth.Format("2006-01"))
	if cached, found := h.averageCache.Get(key); found {
		return cached.(*store.StateAverages)
	}

	averages, err := h.store.StateAveragesFor(ctx, latest.StateCode, latest.DataMonth)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("Error aggregating state averages for %s: %v", latest.StateCode, err)
		}
		return &store.StateAverages{
			HouseholdsWorked: float64(latest.HouseholdsWorked),
			AvgDaysProvided:  latest.AvgDaysProvided,
			AvgWage:          latest.AvgWage,
			Districts:        1,
		}
	}

	h.averageCache.Set(key, averages, cache.DefaultExpiration)
	return averages
}

// compare builds the metric comparisons against a prior row.
func compare(current, previous *models.Performance) ComparisonSet {
	return ComparisonSet{
		HouseholdsWorked: MetricComparison{
			Current:       float64(current.HouseholdsWorked),
			Previous:      float64(previous.HouseholdsWorked),
			ChangePercent: utils.PercentChange(float64(current.HouseholdsWorked), float64(previous.HouseholdsWorked)),
		},
		AvgDaysProvided: MetricComparison{
			Current:       utils.Round1(current.AvgDaysProvided),
			Previous:      utils.Round1(previous.AvgDaysProvided),
			ChangePercent: utils.PercentChange(current.AvgDaysProvided, previous.AvgDaysProvided),
		},
		AvgWage: MetricComparison{
			Current:       utils.Round2(current.AvgWage),
			Previous:      utils.Round2(previous.AvgWage),
			ChangePercent: utils.PercentChange(current.AvgWage, previous.AvgWage),
		},
	}
}

// rounded returns a copy with the floating fields at their documented
// precision: one decimal for day counts, two for currency.
func rounded(p models.Performance) models.Performance {
	p.AvgDaysProvided = utils.Round1(p.AvgDaysProvided)
	p.AvgWage = utils.Round2(p.AvgWage)
	p.TotalExpenditure = utils.Round2(p.TotalExpenditure)
	return p
}
