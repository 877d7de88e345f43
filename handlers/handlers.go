package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/patrickmn/go-cache"

	"github.com/aanchallguptaa/mgnrega-tracker/geocode"
	"github.com/aanchallguptaa/mgnrega-tracker/models"
	"github.com/aanchallguptaa/mgnrega-tracker/store"
)

const (
	districtCacheDuration = 24 * time.Hour
	districtCleanupPeriod = 48 * time.Hour
	averageCacheDuration  = 1 * time.Hour
	averageCleanupPeriod  = 2 * time.Hour
	auditWriteTimeout     = 5 * time.Second
	storeQueryTimeout     = 10 * time.Second
)

// DataStore is the slice of the store the handlers use. *store.Store
// satisfies it; tests substitute a fake.
type DataStore interface {
	ListDistricts(ctx context.Context, stateCode string) ([]models.District, error)
	ListStates(ctx context.Context) ([]models.State, error)
	LatestPerformance(ctx context.Context, stateCode, districtName string) (*models.Performance, error)
	PerformanceAt(ctx context.Context, stateCode, districtName string, month time.Time) (*models.Performance, error)
	StateAveragesFor(ctx context.Context, stateCode string, month time.Time) (*store.StateAverages, error)
	LogAPI(ctx context.Context, entry models.APILog) error
	Ping(ctx context.Context) error
}

// Geocoder resolves coordinates to a place. *geocode.Client satisfies it.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (*geocode.Result, error)
}

// Syncer re-runs the synthetic data generator. *seed.Seeder satisfies it.
type Syncer interface {
	Run(ctx context.Context, triggeredBy string) (models.SyncLog, error)
}

// Handler carries the injected collaborators for every endpoint.
type Handler struct {
	store  DataStore
	geo    Geocoder
	syncer Syncer

	districtCache *cache.Cache
	averageCache  *cache.Cache
}

func New(st DataStore, geo Geocoder, syncer Syncer) *Handler {
	return &Handler{
		store:         st,
		geo:           geo,
		syncer:        syncer,
		districtCache: cache.New(districtCacheDuration, districtCleanupPeriod),
		averageCache:  cache.New(averageCacheDuration, averageCleanupPeriod),
	}
}

// Register mounts every endpoint on the given subrouter.
func (h *Handler) Register(api *mux.Router) {
	api.HandleFunc("/district-data", h.GetDistrictData).Methods("GET", "OPTIONS")
	api.HandleFunc("/states", h.GetStates).Methods("GET", "OPTIONS")
	api.HandleFunc("/districts", h.GetDistricts).Methods("GET", "OPTIONS")
	api.HandleFunc("/detect-location", h.DetectLocation).Methods("GET", "OPTIONS")
	api.HandleFunc("/health", h.Health).Methods("GET")
	api.HandleFunc("/sync-data", h.SyncData).Methods("POST")
}

// ErrorResponse is the JSON error envelope for 4xx/5xx responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// cachedDistricts loads the district list for a state through the 24h
// cache. Reference data is immutable after seeding, so the long TTL is
// safe; sync-data flushes it anyway.
func (h *Handler) cachedDistricts(ctx context.Context, stateCode string) ([]models.District, error) {
	key := "districts:" + stateCode
	if cached, found := h.districtCache.Get(key); found {
		return cached.([]models.District), nil
	}

	districts, err := h.store.ListDistricts(ctx, stateCode)
	if err != nil {
		return nil, err
	}
	h.districtCache.Set(key, districts, cache.DefaultExpiration)
	return districts, nil
}

// flushCaches clears both caches after a data refresh.
func (h *Handler) flushCaches() {
	h.districtCache.Flush()
	h.averageCache.Flush()
}

// logAPI appends an audit record for the metrics and detection endpoints.
// Written asynchronously; an audit failure never affects the response.
func (h *Handler) logAPI(r *http.Request, requestID string, status int, start time.Time) {
	query := make(map[string]string, len(r.URL.Query()))
	for k, vs := range r.URL.Query() {
		if len(vs) > 0 {
			query[k] = vs[0]
		}
	}

	entry := models.APILog{
		RequestID:  requestID,
		Endpoint:   r.URL.Path,
		Method:     r.Method,
		IP:         clientIP(r),
		UserAgent:  r.UserAgent(),
		Query:      query,
		Status:     status,
		DurationMs: time.Since(start).Milliseconds(),
		Timestamp:  time.Now().UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
		defer cancel()
		if err := h.store.LogAPI(ctx, entry); err != nil {
			log.Printf("Warning: %v", err)
		}
	}()
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func newRequestID() string {
	return uuid.NewString()
}
