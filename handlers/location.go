package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/aanchallguptaa/mgnrega-tracker/match"
	"github.com/aanchallguptaa/mgnrega-tracker/seed"
)

// DetectResponse is the /api/detect-location payload. Geocoding failures
// produce detected=false with a message, never an error status.
type DetectResponse struct {
	Detected             bool   `json:"detected"`
	State                string `json:"state,omitempty"`
	District             string `json:"district,omitempty"`
	DetectedDistrictName string `json:"detectedDistrictName,omitempty"`
	Message              string `json:"message,omitempty"`
}

const manualFallbackMessage = "Could not detect your district automatically. Please select it manually."

// DetectLocation reverse-geocodes the coordinates and fuzzy-matches the
// resulting place name against the seeded district names.
func (h *Handler) DetectLocation(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := newRequestID()
	status := http.StatusOK
	defer func() { h.logAPI(r, requestID, status, start) }()

	latStr := r.URL.Query().Get("lat")
	lngStr := r.URL.Query().Get("lng")
	if latStr == "" || lngStr == "" {
		status = http.StatusBadRequest
		respondError(w, status, "missing_coordinates", "Both 'lat' and 'lng' query parameters are required")
		return
	}

	lat, latErr := strconv.ParseFloat(latStr, 64)
	lng, lngErr := strconv.ParseFloat(lngStr, 64)
	if latErr != nil || lngErr != nil {
		status = http.StatusBadRequest
		respondError(w, status, "invalid_coordinates", "'lat' and 'lng' must be decimal numbers")
		return
	}

	result, err := h.geo.Reverse(r.Context(), lat, lng)
	if err != nil {
		// Upstream trouble degrades to manual selection, not a 5xx.
		log.Printf("Reverse geocoding failed for (%f, %f): %v", lat, lng, err)
		respondJSON(w, http.StatusOK, DetectResponse{
			Detected: false,
			Message:  manualFallbackMessage,
		})
		return
	}

	place := result.PlaceName()
	if place == "" {
		respondJSON(w, http.StatusOK, DetectResponse{
			Detected: false,
			Message:  "The location service returned no usable place name. Please select your district manually.",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeQueryTimeout)
	defer cancel()

	districts, err := h.cachedDistricts(ctx, seed.StateCode)
	if err != nil {
		log.Printf("Error loading districts for matching: %v", err)
		status = http.StatusInternalServerError
		respondError(w, status, "internal_error", "Failed to load district reference data")
		return
	}

	if d, ok := match.District(place, districts); ok {
		respondJSON(w, http.StatusOK, DetectResponse{
			Detected: true,
			State:    d.StateCode,
			District: d.DistrictName,
		})
		return
	}

	respondJSON(w, http.StatusOK, DetectResponse{
		Detected:             false,
		DetectedDistrictName: place,
		Message:              manualFallbackMessage,
	})
}
