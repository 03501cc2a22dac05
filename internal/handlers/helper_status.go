package handlers

import (
	"strings"
	"time"

	"ustaBack/internal/models"
)

// StatusColor maps a request status onto the color token the mobile clients
// render. Unknown statuses fall back to "primary" instead of failing.
func StatusColor(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case models.StatusInProgress:
		return "warning"
	case models.StatusPreBegin:
		return "info"
	case models.StatusActive:
		return "success"
	case models.StatusCompleted:
		return "secondary"
	case models.StatusCancelled:
		return "danger"
	default:
		return "primary"
	}
}

// StatusIcon maps a request status onto an icon token, defaulting to
// "information".
func StatusIcon(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case models.StatusInProgress:
		return "magnify"
	case models.StatusPreBegin:
		return "handshake"
	case models.StatusActive:
		return "hammer-wrench"
	case models.StatusCompleted:
		return "check-circle"
	case models.StatusCancelled:
		return "close-circle"
	default:
		return "information"
	}
}

// FormatDate renders a stored RFC3339 timestamp in the short display form the
// clients show in lists. Unparseable values pass through unchanged.
func FormatDate(value string) string {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return t.Format("02.01.2006 15:04")
}

// Truncate shortens s to max runes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

const notificationPreviewLimit = 120

// withDisplay fills the presentation fields the mobile clients render in
// request cards.
func withDisplay(req models.ServiceRequest) models.ServiceRequest {
	req.StatusColor = StatusColor(req.Status)
	req.StatusIcon = StatusIcon(req.Status)
	return req
}

func withDisplayAll(reqs []models.ServiceRequest) []models.ServiceRequest {
	for i := range reqs {
		reqs[i] = withDisplay(reqs[i])
	}
	return reqs
}

func withNotificationDisplay(n models.Notification) models.Notification {
	n.CreatedAtText = FormatDate(n.CreatedAt.UTC().Format(time.RFC3339))
	n.Preview = Truncate(n.MessageContent, notificationPreviewLimit)
	return n
}
