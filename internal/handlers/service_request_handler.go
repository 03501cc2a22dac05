package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"ustaBack/internal/models"
	"ustaBack/internal/services"
)

type ServiceRequestHandler struct {
	Service *services.ServiceRequestService
}

// CreateServiceRequest accepts a multipart form: scalar fields, a "tasks"
// field holding a JSON array of task specs, and any number of "images" files.
func (h *ServiceRequestHandler) CreateServiceRequest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	var in models.CreateServiceRequestInput
	in.UserID = userIDFromContext(r)
	in.Title = r.FormValue("title")
	in.Description = r.FormValue("description")
	in.Duration = r.FormValue("duration")
	in.TotalPrice, _ = strconv.ParseFloat(r.FormValue("total_price"), 64)
	in.Latitude, _ = strconv.ParseFloat(r.FormValue("latitude"), 64)
	in.Longitude, _ = strconv.ParseFloat(r.FormValue("longitude"), 64)
	in.TextAddress = r.FormValue("text_address")
	in.ServiceType = r.FormValue("service_type")

	if tasksJSON := r.FormValue("tasks"); tasksJSON != "" {
		if err := json.Unmarshal([]byte(tasksJSON), &in.Tasks); err != nil {
			writeError(w, http.StatusBadRequest, "invalid tasks field")
			return
		}
	}

	for _, fileHeader := range r.MultipartForm.File["images"] {
		file, err := fileHeader.Open()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to open uploaded file")
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to read uploaded file")
			return
		}
		in.Images = append(in.Images, models.ImageUpload{
			Name:        fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	req, err := h.Service.CreateServiceRequest(r.Context(), in)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, withDisplay(req))
}

func (h *ServiceRequestHandler) GetServiceRequestByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIntParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	req, err := h.Service.GetRequestByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, withDisplay(req))
}

func (h *ServiceRequestHandler) GetServiceRequestsByUserID(w http.ResponseWriter, r *http.Request) {
	userID, err := getIntParam(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	requests, err := h.Service.GetRequestsByUserID(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, withDisplayAll(requests))
}

func (h *ServiceRequestHandler) GetServiceRequestsByStatus(w http.ResponseWriter, r *http.Request) {
	var filter models.RequestsByStatusFilter
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	requests, err := h.Service.GetRequestsByStatus(r.Context(), filter.UserID, filter.Status)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, withDisplayAll(requests))
}

func (h *ServiceRequestHandler) CancelServiceRequest(w http.ResponseWriter, r *http.Request) {
	id, err := getIntParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	req, err := h.Service.CancelRequest(r.Context(), userIDFromContext(r), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, withDisplay(req))
}

func (h *ServiceRequestHandler) StartJob(w http.ResponseWriter, r *http.Request) {
	id, err := getIntParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	req, err := h.Service.StartJob(r.Context(), userIDFromContext(r), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, withDisplay(req))
}

func (h *ServiceRequestHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	requestID, err := getIntParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}
	taskID, err := getIntParam(r, "task_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	req, err := h.Service.CompleteTask(r.Context(), userIDFromContext(r), requestID, taskID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, withDisplay(req))
}
