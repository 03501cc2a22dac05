package handlers

import (
	"encoding/json"
	"net/http"

	"ustaBack/internal/models"
	"ustaBack/internal/services"
)

type ApplicationHandler struct {
	Service *services.ApplicationService
}

func (h *ApplicationHandler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	var in models.SubmitApplicationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// The artisan id comes from the token, never from the body.
	in.ArtisanID = userIDFromContext(r)

	app, err := h.Service.SubmitApplication(r.Context(), in)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (h *ApplicationHandler) AcceptApplication(w http.ResponseWriter, r *http.Request) {
	id, err := getIntParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid application id")
		return
	}

	app, err := h.Service.AcceptApplication(r.Context(), userIDFromContext(r), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *ApplicationHandler) RejectApplication(w http.ResponseWriter, r *http.Request) {
	id, err := getIntParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid application id")
		return
	}

	app, err := h.Service.RejectApplication(r.Context(), userIDFromContext(r), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *ApplicationHandler) GetApplicationsByRequestID(w http.ResponseWriter, r *http.Request) {
	requestID, err := getIntParam(r, "request_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	apps, err := h.Service.GetApplicationsByRequestID(r.Context(), requestID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}
