package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"ustaBack/internal/models"
	"ustaBack/internal/repositories"
	"ustaBack/internal/services"
)

type stubRequestStore struct {
	request models.ServiceRequest
}

func (s *stubRequestStore) Create(ctx context.Context, req models.ServiceRequest) (models.ServiceRequest, error) {
	return req, nil
}

func (s *stubRequestStore) GetByID(ctx context.Context, id int) (models.ServiceRequest, error) {
	return s.request, nil
}

func (s *stubRequestStore) ListByUserID(ctx context.Context, userID int) ([]models.ServiceRequest, error) {
	return []models.ServiceRequest{s.request}, nil
}

func (s *stubRequestStore) ListByUserAndStatus(ctx context.Context, userID int, status string) ([]models.ServiceRequest, error) {
	return []models.ServiceRequest{s.request}, nil
}

func (s *stubRequestStore) SearchInBox(ctx context.Context, serviceType, status string, box repositories.Box) ([]models.ServiceRequest, error) {
	return nil, nil
}

func (s *stubRequestStore) UpdateStatus(ctx context.Context, id int, status string) error {
	return nil
}

func (s *stubRequestStore) UpdateDuration(ctx context.Context, id int, duration string) error {
	return nil
}

type stubTaskStore struct{}

func (stubTaskStore) Create(ctx context.Context, task models.ServiceTask) (models.ServiceTask, error) {
	return task, nil
}

func (stubTaskStore) GetByIDs(ctx context.Context, ids []int) ([]models.ServiceTask, error) {
	return nil, nil
}

func (stubTaskStore) UpdateStatus(ctx context.Context, id int, status string) error { return nil }

func (stubTaskStore) UpdatePrice(ctx context.Context, id int, price float64) error { return nil }

func (stubTaskStore) Delete(ctx context.Context, id int) error { return nil }

func TestGetServiceRequestByIDAddsDisplayFields(t *testing.T) {
	handler := &ServiceRequestHandler{
		Service: &services.ServiceRequestService{
			Requests: &stubRequestStore{request: models.ServiceRequest{
				ID:     9,
				Status: models.StatusActive,
				Title:  "Fix kitchen sink",
			}},
			Tasks: stubTaskStore{},
		},
	}

	r := httptest.NewRequest("GET", "/request/9?:id=9", nil)
	w := httptest.NewRecorder()
	handler.GetServiceRequestByID(w, r)

	if w.Code != 200 {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var got models.ServiceRequest
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.StatusColor != "success" || got.StatusIcon != "hammer-wrench" {
		t.Fatalf("display fields missing: color=%q icon=%q", got.StatusColor, got.StatusIcon)
	}
}

type stubNotificationStore struct {
	list []models.Notification
}

func (s *stubNotificationStore) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	return n, nil
}

func (s *stubNotificationStore) Delete(ctx context.Context, id int) error { return nil }

func (s *stubNotificationStore) ListByReceiver(ctx context.Context, receiverUserID int) ([]models.Notification, error) {
	return s.list, nil
}

func (s *stubNotificationStore) MarkSeen(ctx context.Context, id int) error { return nil }

func (s *stubNotificationStore) UnseenCount(ctx context.Context, receiverUserID int) (int, error) {
	return 0, nil
}

func TestGetNotificationsAddsDisplayFields(t *testing.T) {
	long := make([]rune, 0, 130)
	for i := 0; i < 130; i++ {
		long = append(long, 'x')
	}
	handler := &NotificationHandler{
		Service: &services.NotificationService{
			Notifications: &stubNotificationStore{list: []models.Notification{{
				ID:             1,
				ReceiverUserID: 5,
				Title:          "New application",
				MessageContent: string(long),
				CreatedAt:      time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC),
			}}},
		},
	}

	r := httptest.NewRequest("GET", "/notifications/5?:user_id=5", nil)
	r = r.WithContext(context.WithValue(r.Context(), "user_id", 5))
	w := httptest.NewRecorder()
	handler.GetNotificationsByUserID(w, r)

	if w.Code != 200 {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var got []models.Notification
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(got))
	}
	if got[0].CreatedAtText != "01.09.2026 09:30" {
		t.Fatalf("created_at_text = %q", got[0].CreatedAtText)
	}
	if len([]rune(got[0].Preview)) != notificationPreviewLimit+1 {
		t.Fatalf("preview not truncated: %d runes", len([]rune(got[0].Preview)))
	}
}
