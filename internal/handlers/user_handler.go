package handlers

import (
	"encoding/json"
	"net/http"

	"ustaBack/internal/geo"
	"ustaBack/internal/models"
	"ustaBack/internal/services"
)

type UserHandler struct {
	Service  *services.UserService
	Artisans *geo.Locator
}

func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Service.SignUp(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	user.PasswordHash = ""
	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	auth, err := h.Service.SignIn(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	auth.User.PasswordHash = ""
	writeJSON(w, http.StatusOK, auth)
}

type locationUpdate struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	ServiceType string  `json:"service_type"`
}

// UpdateLocation is the artisan heartbeat. It keeps the geo index fresh so
// new jobs nearby can be fanned out to artisans of the same service type.
func (h *UserHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	artisanID := userIDFromContext(r)
	if artisanID == 0 {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req locationUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ServiceType == "" {
		writeError(w, http.StatusBadRequest, "service_type is required")
		return
	}

	if err := h.Artisans.Update(r.Context(), artisanID, req.Longitude, req.Latitude, req.ServiceType); err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
