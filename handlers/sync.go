package handlers

import (
	"log"
	"net/http"

	"github.com/aanchallguptaa/mgnrega-tracker/models"
)

// SyncResponse is the POST /api/sync-data payload.
type SyncResponse struct {
	Message string         `json:"message"`
	Sync    models.SyncLog `json:"sync"`
}

// SyncData re-runs the synthetic generator for the target month. The real
// MGNREGA feed is not integrated; this endpoint exists so the dashboard's
// refresh button does something honest. Idempotent — months already
// populated are skipped.
func (h *Handler) SyncData(w http.ResponseWriter, r *http.Request) {
	entry, err := h.syncer.Run(r.Context(), "manual")
	if err != nil {
		log.Printf("Manual sync failed: %v", err)
		respondError(w, http.StatusInternalServerError, "sync_failed", "Data generation failed; see server logs")
		return
	}

	h.flushCaches()

	respondJSON(w, http.StatusAccepted, SyncResponse{
		Message: "External MGNREGA feed is not integrated; synthetic data was regenerated for the target month.",
		Sync:    entry,
	})
}
