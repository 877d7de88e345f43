package handlers

import (
	"context"
	"log"
	"net/http"
)

// GetStates lists the states present in the reference data.
func (h *Handler) GetStates(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storeQueryTimeout)
	defer cancel()

	states, err := h.store.ListStates(ctx)
	if err != nil {
		log.Printf("Error listing states: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "Failed to list states")
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	respondJSON(w, http.StatusOK, states)
}

// GetDistricts lists the district names of a state as plain strings, in
// the order they were seeded.
func (h *Handler) GetDistricts(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	if state == "" {
		respondError(w, http.StatusBadRequest, "missing_parameters", "The 'state' query parameter is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeQueryTimeout)
	defer cancel()

	districts, err := h.cachedDistricts(ctx, state)
	if err != nil {
		log.Printf("Error listing districts for %s: %v", state, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "Failed to list districts")
		return
	}

	names := make([]string, 0, len(districts))
	for _, d := range districts {
		names = append(names, d.DistrictName)
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	respondJSON(w, http.StatusOK, names)
}
