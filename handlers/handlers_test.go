package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanchallguptaa/mgnrega-tracker/geocode"
	"github.com/aanchallguptaa/mgnrega-tracker/models"
	"github.com/aanchallguptaa/mgnrega-tracker/store"
)

var julyMonth = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

// fakeStore implements DataStore in memory.
type fakeStore struct {
	mu           sync.Mutex
	districts    []models.District
	performances []models.Performance
	averages     *store.StateAverages
	apiLogs      []models.APILog
	pingErr      error
	failAll      bool
}

var errFakeStore = errors.New("fake store failure")

func (f *fakeStore) ListDistricts(ctx context.Context, stateCode string) ([]models.District, error) {
	if f.failAll {
		return nil, errFakeStore
	}
	var out []models.District
	for _, d := range f.districts {
		if d.StateCode == stateCode {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeStore) ListStates(ctx context.Context) ([]models.State, error) {
	if f.failAll {
		return nil, errFakeStore
	}
	seen := make(map[string]bool)
	var out []models.State
	for _, d := range f.districts {
		if !seen[d.StateCode] {
			seen[d.StateCode] = true
			out = append(out, models.State{StateCode: d.StateCode, StateName: d.StateName})
		}
	}
	return out, nil
}

func (f *fakeStore) LatestPerformance(ctx context.Context, stateCode, districtName string) (*models.Performance, error) {
	if f.failAll {
		return nil, errFakeStore
	}
	var latest *models.Performance
	for i := range f.performances {
		p := &f.performances[i]
		if p.StateCode == stateCode && p.DistrictName == districtName {
			if latest == nil || p.DataMonth.After(latest.DataMonth) {
				latest = p
			}
		}
	}
	if latest == nil {
		return nil, store.ErrNotFound
	}
	out := *latest
	return &out, nil
}

func (f *fakeStore) PerformanceAt(ctx context.Context, stateCode, districtName string, month time.Time) (*models.Performance, error) {
	if f.failAll {
		return nil, errFakeStore
	}
	for i := range f.performances {
		p := f.performances[i]
		if p.StateCode == stateCode && p.DistrictName == districtName && p.DataMonth.Equal(month) {
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) StateAveragesFor(ctx context.Context, stateCode string, month time.Time) (*store.StateAverages, error) {
	if f.failAll {
		return nil, errFakeStore
	}
	if f.averages == nil {
		return nil, store.ErrNotFound
	}
	return f.averages, nil
}

func (f *fakeStore) LogAPI(ctx context.Context, entry models.APILog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apiLogs = append(f.apiLogs, entry)
	return nil
}

func (f *fakeStore) Ping(ctx context.Context) error { return f.pingErr }

// fakeGeocoder returns a canned result or error.
type fakeGeocoder struct {
	result *geocode.Result
	err    error
}

func (f *fakeGeocoder) Reverse(ctx context.Context, lat, lng float64) (*geocode.Result, error) {
	return f.result, f.err
}

// fakeSyncer records that it ran.
type fakeSyncer struct {
	entry models.SyncLog
	err   error
	runs  int
}

func (f *fakeSyncer) Run(ctx context.Context, triggeredBy string) (models.SyncLog, error) {
	f.runs++
	f.entry.TriggeredBy = triggeredBy
	return f.entry, f.err
}

func puneDistricts() []models.District {
	return []models.District{
		{StateCode: "MH", StateName: "Maharashtra", DistrictName: "पुणे (Pune)"},
		{StateCode: "MH", StateName: "Maharashtra", DistrictName: "नागपूर (Nagpur)"},
	}
}

func punePerformance(month time.Time) models.Performance {
	return models.Performance{
		StateCode:        "MH",
		DistrictName:     "पुणे (Pune)",
		DataMonth:        month,
		JobCardsIssued:   95000,
		HouseholdsWorked: 80000,
		ActiveWorkers:    64000,
		WomenWorkers:     38400,
		SCWorkers:        12800,
		STWorkers:        9600,
		AvgDaysProvided:  42.37,
		TotalPersondays:  3389600,
		AvgWage:          301.456,
		TotalExpenditure: 10168.888,
		CompletedWorks:   220,
		OngoingWorks:     140,
		UpdatedAt:        month,
		DataSource:       models.DataSourceSynthetic,
	}
}

func serve(h *Handler, method, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	h.Register(r.PathPrefix("/api").Subrouter())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestGetDistrictDataMissingParams(t *testing.T) {
	h := New(&fakeStore{}, &fakeGeocoder{}, &fakeSyncer{})

	for _, target := range []string{
		"/api/district-data",
		"/api/district-data?state=MH",
		"/api/district-data?district=पुणे%20(Pune)",
	} {
		rec := serve(h, http.MethodGet, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "target %s", target)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "missing_parameters", resp.Error)
	}
}

func TestGetDistrictDataNotFound(t *testing.T) {
	h := New(&fakeStore{districts: puneDistricts()}, &fakeGeocoder{}, &fakeSyncer{})

	rec := serve(h, http.MethodGet, "/api/district-data?state=MH&district=पुणे%20(Pune)")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "no_data", resp.Error)
}

func TestGetDistrictDataStoreFailure(t *testing.T) {
	h := New(&fakeStore{failAll: true}, &fakeGeocoder{}, &fakeSyncer{})

	rec := serve(h, http.MethodGet, "/api/district-data?state=MH&district=पुणे%20(Pune)")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetDistrictDataNoPriorMonths(t *testing.T) {
	fs := &fakeStore{
		districts:    puneDistricts(),
		performances: []models.Performance{punePerformance(julyMonth)},
		averages: &store.StateAverages{
			HouseholdsWorked: 75000.4567,
			AvgDaysProvided:  44.44,
			AvgWage:          310.125,
			Districts:        36,
		},
	}
	h := New(fs, &fakeGeocoder{}, &fakeSyncer{})

	rec := serve(h, http.MethodGet, "/api/district-data?state=MH&district=पुणे%20(Pune)")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DistrictDataResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "MH", resp.StateCode)
	assert.Equal(t, "पुणे (Pune)", resp.DistrictName)
	assert.Equal(t, "2025-07", resp.DataMonth)

	// Current values match the stored row at documented precision.
	assert.Equal(t, int64(80000), resp.Current.HouseholdsWorked)
	assert.Equal(t, 42.4, resp.Current.AvgDaysProvided)
	assert.Equal(t, 301.46, resp.Current.AvgWage)
	assert.Equal(t, 10168.89, resp.Current.TotalExpenditure)

	// No prior rows: previous equals current, change is zero.
	assert.Equal(t, 0.0, resp.LastMonth.HouseholdsWorked.ChangePercent)
	assert.Equal(t, resp.LastMonth.HouseholdsWorked.Current, resp.LastMonth.HouseholdsWorked.Previous)
	assert.Equal(t, 0.0, resp.LastYear.AvgWage.ChangePercent)
	assert.Equal(t, resp.LastYear.AvgWage.Current, resp.LastYear.AvgWage.Previous)

	// District households (80000) exceed the state average (75000.46).
	assert.Equal(t, "above", resp.StateAverage.Comparison)
	assert.Equal(t, 75000.46, resp.StateAverage.HouseholdsWorked)
	assert.Equal(t, 44.4, resp.StateAverage.AvgDaysProvided)
	assert.Equal(t, 310.13, resp.StateAverage.AvgWage)
	assert.Equal(t, 36, resp.StateAverage.Districts)
}

func TestGetDistrictDataWithPriorMonth(t *testing.T) {
	current := punePerformance(julyMonth)
	previous := punePerformance(julyMonth.AddDate(0, -1, 0))
	previous.HouseholdsWorked = 64000
	previous.AvgWage = 301.456

	fs := &fakeStore{
		districts:    puneDistricts(),
		performances: []models.Performance{current, previous},
		averages: &store.StateAverages{
			HouseholdsWorked: 85000,
			AvgDaysProvided:  44,
			AvgWage:          310,
			Districts:        36,
		},
	}
	h := New(fs, &fakeGeocoder{}, &fakeSyncer{})

	rec := serve(h, http.MethodGet, "/api/district-data?state=MH&district=पुणे%20(Pune)")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DistrictDataResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// (80000 - 64000) / 64000 × 100 = 25%.
	assert.Equal(t, 25.0, resp.LastMonth.HouseholdsWorked.ChangePercent)
	assert.Equal(t, 64000.0, resp.LastMonth.HouseholdsWorked.Previous)
	assert.Equal(t, 0.0, resp.LastMonth.AvgWage.ChangePercent)

	// District households below the 85000 state average.
	assert.Equal(t, "below", resp.StateAverage.Comparison)
}

func TestGetDistrictDataAuditLogged(t *testing.T) {
	fs := &fakeStore{districts: puneDistricts()}
	h := New(fs, &fakeGeocoder{}, &fakeSyncer{})

	rec := serve(h, http.MethodGet, "/api/district-data?state=MH&district=missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The audit record is written asynchronously.
	assert.Eventually(t, func() bool {
		fs.mu.Lock()
		defer fs.mu.Unlock()
		return len(fs.apiLogs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	fs.mu.Lock()
	entry := fs.apiLogs[0]
	fs.mu.Unlock()
	assert.Equal(t, "/api/district-data", entry.Endpoint)
	assert.Equal(t, http.StatusNotFound, entry.Status)
	assert.Equal(t, "MH", entry.Query["state"])
	assert.NotEmpty(t, entry.RequestID)
}

func TestGetStates(t *testing.T) {
	h := New(&fakeStore{districts: puneDistricts()}, &fakeGeocoder{}, &fakeSyncer{})

	rec := serve(h, http.MethodGet, "/api/states")
	require.Equal(t, http.StatusOK, rec.Code)

	var states []models.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &states))
	require.Len(t, states, 1)
	assert.Equal(t, "MH", states[0].StateCode)
	assert.Equal(t, "Maharashtra", states[0].StateName)
}

func TestGetDistricts(t *testing.T) {
	h := New(&fakeStore{districts: puneDistricts()}, &fakeGeocoder{}, &fakeSyncer{})

	rec := serve(h, http.MethodGet, "/api/districts?state=MH")
	require.Equal(t, http.StatusOK, rec.Code)

	var names []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &names))
	assert.Equal(t, []string{"पुणे (Pune)", "नागपूर (Nagpur)"}, names)
}

func TestGetDistrictsMissingState(t *testing.T) {
	h := New(&fakeStore{}, &fakeGeocoder{}, &fakeSyncer{})

	rec := serve(h, http.MethodGet, "/api/districts")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetectLocationMissingCoordinates(t *testing.T) {
	h := New(&fakeStore{}, &fakeGeocoder{}, &fakeSyncer{})

	for _, target := range []string{
		"/api/detect-location",
		"/api/detect-location?lat=18.52",
		"/api/detect-location?lng=73.85",
	} {
		rec := serve(h, http.MethodGet, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "target %s", target)
	}
}

func TestDetectLocationInvalidCoordinates(t *testing.T) {
	h := New(&fakeStore{}, &fakeGeocoder{}, &fakeSyncer{})

	rec := serve(h, http.MethodGet, "/api/detect-location?lat=north&lng=73.85")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetectLocationGeocoderFailure(t *testing.T) {
	h := New(&fakeStore{districts: puneDistricts()},
		&fakeGeocoder{err: errors.New("timeout")}, &fakeSyncer{})

	rec := serve(h, http.MethodGet, "/api/detect-location?lat=18.52&lng=73.85")
	require.Equal(t, http.StatusOK, rec.Code, "geocoder failure must degrade, not error")

	var resp DetectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Detected)
	assert.NotEmpty(t, resp.Message)
}

func TestDetectLocationMatch(t *testing.T) {
	geo := &fakeGeocoder{result: &geocode.Result{
		Address: geocode.Address{StateDistrict: "Pune District", State: "Maharashtra"},
	}}
	h := New(&fakeStore{districts: puneDistricts()}, geo, &fakeSyncer{})

	rec := serve(h, http.MethodGet, "/api/detect-location?lat=18.52&lng=73.85")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DetectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Detected)
	assert.Equal(t, "MH", resp.State)
	assert.Equal(t, "पुणे (Pune)", resp.District)
}

func TestDetectLocationNoMatch(t *testing.T) {
	geo := &fakeGeocoder{result: &geocode.Result{
		Address: geocode.Address{City: "Bengaluru", State: "Karnataka"},
	}}
	h := New(&fakeStore{districts: puneDistricts()}, geo, &fakeSyncer{})

	rec := serve(h, http.MethodGet, "/api/detect-location?lat=12.97&lng=77.59")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DetectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Detected)
	assert.Equal(t, "Bengaluru", resp.DetectedDistrictName)
	assert.NotEmpty(t, resp.Message)
}

func TestHealth(t *testing.T) {
	h := New(&fakeStore{}, &fakeGeocoder{}, &fakeSyncer{})

	rec := serve(h, http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "connected", resp.Database)
}

func TestHealthDatabaseDown(t *testing.T) {
	h := New(&fakeStore{pingErr: errors.New("no reachable servers")}, &fakeGeocoder{}, &fakeSyncer{})

	rec := serve(h, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSyncData(t *testing.T) {
	syncer := &fakeSyncer{entry: models.SyncLog{
		StateCode:       "MH",
		RecordsInserted: 36,
		Status:          "ok",
	}}
	h := New(&fakeStore{}, &fakeGeocoder{}, syncer)

	rec := serve(h, http.MethodPost, "/api/sync-data")
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, syncer.runs)

	var resp SyncResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "manual", resp.Sync.TriggeredBy)
	assert.Equal(t, 36, resp.Sync.RecordsInserted)
}

func TestSyncDataFailure(t *testing.T) {
	h := New(&fakeStore{}, &fakeGeocoder{}, &fakeSyncer{err: errors.New("mongo down")})

	rec := serve(h, http.MethodPost, "/api/sync-data")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
