package handlers

import (
	"net/http"
	"strconv"

	"ustaBack/internal/services"
)

type JobHandler struct {
	Matching     *services.JobMatchingService
	Applications *services.ApplicationService
}

// SearchJobs returns open requests of the given service type near the
// artisan, nearest first. max_distance_km is optional.
func (h *JobHandler) SearchJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lat")
		return
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lon")
		return
	}
	serviceType := q.Get("service_type")
	if serviceType == "" {
		writeError(w, http.StatusBadRequest, "service_type is required")
		return
	}
	maxDistanceKm, _ := strconv.ParseFloat(q.Get("max_distance_km"), 64)

	matches, err := h.Matching.FindNearbyRequests(r.Context(), lat, lon, serviceType, maxDistanceKm)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, withDisplayAll(matches))
}

// HasApplied tells the artisan's client whether to show the apply button.
func (h *JobHandler) HasApplied(w http.ResponseWriter, r *http.Request) {
	requestID, err := getIntParam(r, "request_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	applied := h.Applications.HasUserApplied(r.Context(), requestID, userIDFromContext(r))
	writeJSON(w, http.StatusOK, map[string]bool{"applied": applied})
}
