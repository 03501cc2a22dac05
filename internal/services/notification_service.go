package services

import (
	"context"

	"ustaBack/internal/models"
)

type NotificationStore interface {
	Create(ctx context.Context, n models.Notification) (models.Notification, error)
	Delete(ctx context.Context, id int) error
	ListByReceiver(ctx context.Context, receiverUserID int) ([]models.Notification, error)
	MarkSeen(ctx context.Context, id int) error
	UnseenCount(ctx context.Context, receiverUserID int) (int, error)
}

type TokenStore interface {
	TokensByUserID(ctx context.Context, userID int) ([]string, error)
}

// PushSender delivers one push message to one device token (FCM).
type PushSender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// RealtimeHub pushes a notification to the user's open websocket, if any.
type RealtimeHub interface {
	PushNotification(userID int, n models.Notification)
}

type NotificationService struct {
	Notifications NotificationStore
	Tokens        TokenStore
	Push          PushSender
	Hub           RealtimeHub
	Log           Logger
}

// Notify persists the notification document and then delivers it best-effort
// over FCM and the websocket hub. Delivery failures are logged, never
// returned: the stored document is the source of truth.
func (s *NotificationService) Notify(ctx context.Context, n models.Notification) (models.Notification, error) {
	created, err := s.Notifications.Create(ctx, n)
	if err != nil {
		return models.Notification{}, err
	}

	s.deliver(ctx, created)
	return created, nil
}

// Revoke deletes a notification document. Used as the saga compensation for
// Notify.
func (s *NotificationService) Revoke(ctx context.Context, id int) error {
	return s.Notifications.Delete(ctx, id)
}

func (s *NotificationService) deliver(ctx context.Context, n models.Notification) {
	if s.Push != nil && s.Tokens != nil {
		tokens, err := s.Tokens.TokensByUserID(ctx, n.ReceiverUserID)
		if err != nil {
			s.logErrorf("notification %d: fetching tokens for user %d: %v", n.ID, n.ReceiverUserID, err)
		}
		data := map[string]string{"json_data": n.JSONData}
		for _, token := range tokens {
			if err := s.Push.Send(ctx, token, n.Title, n.MessageContent, data); err != nil {
				s.logErrorf("notification %d: push to token %s: %v", n.ID, token, err)
			}
		}
	}

	if s.Hub != nil {
		s.Hub.PushNotification(n.ReceiverUserID, n)
	}
}

func (s *NotificationService) ListByReceiver(ctx context.Context, receiverUserID int) ([]models.Notification, error) {
	return s.Notifications.ListByReceiver(ctx, receiverUserID)
}

func (s *NotificationService) MarkSeen(ctx context.Context, id int) error {
	return s.Notifications.MarkSeen(ctx, id)
}

func (s *NotificationService) UnseenCount(ctx context.Context, receiverUserID int) (int, error) {
	return s.Notifications.UnseenCount(ctx, receiverUserID)
}

func (s *NotificationService) logErrorf(format string, args ...interface{}) {
	if s.Log != nil {
		s.Log.Errorf(format, args...)
	}
}
