package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"firebase.google.com/go/messaging"

	"ustaBack/internal/repositories"
)

type FCMHandler struct {
	Client *messaging.Client
	Tokens *repositories.NotifyTokenRepository
}

func NewFCMHandler(client *messaging.Client, tokens *repositories.NotifyTokenRepository) *FCMHandler {
	return &FCMHandler{Client: client, Tokens: tokens}
}

// Send delivers one push message to one device token. High priority on both
// platforms so job notifications surface immediately.
func (h *FCMHandler) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	if h.Client == nil {
		return errors.New("fcm client is not configured")
	}

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority_channel",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority": "10",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: title,
						Body:  body,
					},
					Sound: "default",
				},
			},
		},
	}

	_, err := h.Client.Send(ctx, message)
	return err
}

type tokenRequest struct {
	Token string `json:"token"`
}

func (h *FCMHandler) CreateToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Tokens.Insert(r.Context(), userIDFromContext(r), req.Token); err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

func (h *FCMHandler) DeleteToken(w http.ResponseWriter, r *http.Request) {
	token := getParam(r, "token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}

	if err := h.Tokens.Delete(r.Context(), token); err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
