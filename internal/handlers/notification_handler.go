package handlers

import (
	"net/http"

	"ustaBack/internal/services"
)

type NotificationHandler struct {
	Service *services.NotificationService
}

func (h *NotificationHandler) GetNotificationsByUserID(w http.ResponseWriter, r *http.Request) {
	userID, err := getIntParam(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if userID != userIDFromContext(r) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	notifications, err := h.Service.ListByReceiver(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	for i := range notifications {
		notifications[i] = withNotificationDisplay(notifications[i])
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkNotificationSeen(w http.ResponseWriter, r *http.Request) {
	id, err := getIntParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	if err := h.Service.MarkSeen(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *NotificationHandler) GetUnseenCount(w http.ResponseWriter, r *http.Request) {
	userID, err := getIntParam(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if userID != userIDFromContext(r) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	count, err := h.Service.UnseenCount(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unseen_count": count})
}
