package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"ustaBack/internal/models"
)

type stubApplicationStore struct {
	apps            map[int]models.ServiceApplication
	proposals       map[int]models.ServiceTaskProposal
	nextAppID       int
	nextProposalID  int
	deletions       []string
	rejected        []int
	acceptedArtisan int
	statusSets      map[int]string
	hasApplied      bool
	hasAppliedErr   error
	failProposalFor int
	createErr       error
}

func newStubApplicationStore() *stubApplicationStore {
	return &stubApplicationStore{
		apps:       map[int]models.ServiceApplication{},
		proposals:  map[int]models.ServiceTaskProposal{},
		statusSets: map[int]string{},
	}
}

func (s *stubApplicationStore) Create(ctx context.Context, app models.ServiceApplication) (models.ServiceApplication, error) {
	if s.createErr != nil {
		return models.ServiceApplication{}, s.createErr
	}
	s.nextAppID++
	app.ID = s.nextAppID
	s.apps[app.ID] = app
	return app, nil
}

func (s *stubApplicationStore) Delete(ctx context.Context, id int) error {
	s.deletions = append(s.deletions, fmt.Sprintf("application:%d", id))
	delete(s.apps, id)
	return nil
}

func (s *stubApplicationStore) GetByID(ctx context.Context, id int) (models.ServiceApplication, error) {
	app, ok := s.apps[id]
	if !ok {
		return models.ServiceApplication{}, models.ErrApplicationNotFound
	}
	if status, ok := s.statusSets[id]; ok {
		app.Status = status
	}
	return app, nil
}

func (s *stubApplicationStore) ListByRequestID(ctx context.Context, requestID int) ([]models.ServiceApplication, error) {
	var out []models.ServiceApplication
	for _, app := range s.apps {
		if app.ServiceRequestID == requestID {
			out = append(out, app)
		}
	}
	return out, nil
}

func (s *stubApplicationStore) HasUserApplied(ctx context.Context, requestID, artisanID int) (bool, error) {
	return s.hasApplied, s.hasAppliedErr
}

func (s *stubApplicationStore) UpdateStatus(ctx context.Context, id int, status string) error {
	s.statusSets[id] = status
	return nil
}

func (s *stubApplicationStore) RejectPendingByRequest(ctx context.Context, requestID, exceptID int) (int64, error) {
	s.rejected = append(s.rejected, requestID)
	return 1, nil
}

func (s *stubApplicationStore) AcceptedArtisanID(ctx context.Context, requestID int) (int, error) {
	if s.acceptedArtisan == 0 {
		return 0, models.ErrNoRecord
	}
	return s.acceptedArtisan, nil
}

func (s *stubApplicationStore) CreateProposal(ctx context.Context, p models.ServiceTaskProposal) (models.ServiceTaskProposal, error) {
	if s.failProposalFor != 0 && p.TaskID == s.failProposalFor {
		return models.ServiceTaskProposal{}, errors.New("proposal write failed")
	}
	s.nextProposalID++
	p.ID = s.nextProposalID
	s.proposals[p.ID] = p
	return p, nil
}

func (s *stubApplicationStore) DeleteProposal(ctx context.Context, id int) error {
	s.deletions = append(s.deletions, fmt.Sprintf("proposal:%d", id))
	delete(s.proposals, id)
	return nil
}

func (s *stubApplicationStore) ListProposalsByApplication(ctx context.Context, applicationID int) ([]models.ServiceTaskProposal, error) {
	var out []models.ServiceTaskProposal
	for _, p := range s.proposals {
		if p.ApplicationID == applicationID {
			out = append(out, p)
		}
	}
	return out, nil
}

func openRequest() *stubRequestStore {
	requests := newStubRequestStore()
	requests.getResult = models.ServiceRequest{
		ID:      40,
		UserID:  50,
		Status:  models.StatusInProgress,
		TaskIDs: []int{1, 2, 3},
		Title:   "Renovate bathroom",
	}
	return requests
}

func newApplicationService(apps *stubApplicationStore, requests *stubRequestStore) (*ApplicationService, *stubNotifier) {
	notifier := &stubNotifier{}
	return &ApplicationService{
		Applications: apps,
		Requests:     requests,
		Tasks:        newStubTaskStore(),
		Notifier:     notifier,
		Log:          testLogger{},
	}, notifier
}

func TestSubmitApplicationCreatesProposalsPerTask(t *testing.T) {
	apps := newStubApplicationStore()
	svc, notifier := newApplicationService(apps, openRequest())

	app, err := svc.SubmitApplication(context.Background(), models.SubmitApplicationInput{
		ArtisanID:        30,
		ServiceRequestID: 40,
		StartDate:        "2026-09-01 09:00",
		Message:          "I can start Monday",
		Proposals: []models.TaskProposalInput{
			{TaskID: 1, NewPrice: 100},
			{TaskID: 2, NewPrice: 200},
			{TaskID: 3, NewPrice: 300},
		},
	})
	if err != nil {
		t.Fatalf("SubmitApplication: %v", err)
	}

	if len(apps.apps) != 1 {
		t.Fatalf("expected exactly 1 application document, got %d", len(apps.apps))
	}
	if len(apps.proposals) != 3 {
		t.Fatalf("expected exactly 3 proposal documents, got %d", len(apps.proposals))
	}
	seenTasks := map[int]bool{}
	for _, p := range apps.proposals {
		if p.ApplicationID != app.ID {
			t.Fatalf("proposal %d references application %d, want %d", p.ID, p.ApplicationID, app.ID)
		}
		if seenTasks[p.TaskID] {
			t.Fatalf("duplicate proposal for task %d", p.TaskID)
		}
		seenTasks[p.TaskID] = true
	}
	if app.ClientID != 50 {
		t.Fatalf("client must come from the request owner, got %d", app.ClientID)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].ReceiverUserID != 50 {
		t.Fatalf("client notification missing: %+v", notifier.sent)
	}
}

func TestSubmitApplicationNormalizesStartDate(t *testing.T) {
	apps := newStubApplicationStore()
	svc, _ := newApplicationService(apps, openRequest())

	app, err := svc.SubmitApplication(context.Background(), models.SubmitApplicationInput{
		ArtisanID:        30,
		ServiceRequestID: 40,
		StartDate:        "2026-09-01 09:00",
	})
	if err != nil {
		t.Fatalf("SubmitApplication: %v", err)
	}
	if app.StartDate != "2026-09-01T09:00:00Z" {
		t.Fatalf("start date not normalized, got %q", app.StartDate)
	}

	_, err = svc.SubmitApplication(context.Background(), models.SubmitApplicationInput{
		ArtisanID:        31,
		ServiceRequestID: 40,
		StartDate:        "next tuesday",
	})
	if !errors.Is(err, models.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestSubmitApplicationCompensatesOnProposalFailure(t *testing.T) {
	apps := newStubApplicationStore()
	apps.failProposalFor = 3
	svc, notifier := newApplicationService(apps, openRequest())

	_, err := svc.SubmitApplication(context.Background(), models.SubmitApplicationInput{
		ArtisanID:        30,
		ServiceRequestID: 40,
		StartDate:        "2026-09-01 09:00",
		Proposals: []models.TaskProposalInput{
			{TaskID: 1, NewPrice: 100},
			{TaskID: 2, NewPrice: 200},
			{TaskID: 3, NewPrice: 300},
		},
	})
	if err == nil {
		t.Fatal("expected proposal failure to surface")
	}

	// Reverse order: the two written proposals first, then the application.
	want := []string{"proposal:2", "proposal:1", "application:1"}
	if len(apps.deletions) != len(want) {
		t.Fatalf("deletions = %v, want %v", apps.deletions, want)
	}
	for i := range want {
		if apps.deletions[i] != want[i] {
			t.Fatalf("deletions = %v, want %v", apps.deletions, want)
		}
	}
	if len(apps.apps) != 0 || len(apps.proposals) != 0 {
		t.Fatalf("partial application left behind: %d apps, %d proposals", len(apps.apps), len(apps.proposals))
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("no notification should have been sent, got %+v", notifier.sent)
	}
}

func TestSubmitApplicationDuplicate(t *testing.T) {
	apps := newStubApplicationStore()
	apps.createErr = models.ErrAlreadyApplied
	svc, _ := newApplicationService(apps, openRequest())

	_, err := svc.SubmitApplication(context.Background(), models.SubmitApplicationInput{
		ArtisanID:        30,
		ServiceRequestID: 40,
		StartDate:        "2026-09-01 09:00",
	})
	if !errors.Is(err, models.ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
}

func TestSubmitApplicationUnknownTask(t *testing.T) {
	apps := newStubApplicationStore()
	svc, _ := newApplicationService(apps, openRequest())

	_, err := svc.SubmitApplication(context.Background(), models.SubmitApplicationInput{
		ArtisanID:        30,
		ServiceRequestID: 40,
		StartDate:        "2026-09-01 09:00",
		Proposals:        []models.TaskProposalInput{{TaskID: 999, NewPrice: 10}},
	})
	if !errors.Is(err, models.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestHasUserAppliedFailOpen(t *testing.T) {
	apps := newStubApplicationStore()
	svc, _ := newApplicationService(apps, openRequest())

	apps.hasApplied = true
	if !svc.HasUserApplied(context.Background(), 40, 30) {
		t.Fatal("expected true when a matching application exists")
	}

	apps.hasApplied = false
	apps.hasAppliedErr = errors.New("store read failed")
	if svc.HasUserApplied(context.Background(), 40, 30) {
		t.Fatal("store errors must fail open to false")
	}
}

func TestAcceptApplication(t *testing.T) {
	apps := newStubApplicationStore()
	requests := openRequest()
	svc, notifier := newApplicationService(apps, requests)

	app, err := svc.SubmitApplication(context.Background(), models.SubmitApplicationInput{
		ArtisanID:        30,
		ServiceRequestID: 40,
		StartDate:        "2026-09-01 09:00",
		NewDuration:      "5 days",
		Proposals:        []models.TaskProposalInput{{TaskID: 1, NewPrice: 150}},
	})
	if err != nil {
		t.Fatalf("SubmitApplication: %v", err)
	}

	accepted, err := svc.AcceptApplication(context.Background(), 50, app.ID)
	if err != nil {
		t.Fatalf("AcceptApplication: %v", err)
	}
	if accepted.Status != models.ApplicationAccepted {
		t.Fatalf("expected accepted status, got %q", accepted.Status)
	}
	if len(apps.rejected) != 1 || apps.rejected[0] != 40 {
		t.Fatalf("pending siblings not rejected: %v", apps.rejected)
	}
	if requests.statusSets[40] != models.StatusPreBegin {
		t.Fatalf("request must move to pre-begin, got %v", requests.statusSets)
	}
	if requests.durations[40] != "5 days" {
		t.Fatalf("new duration not applied: %v", requests.durations)
	}
	// submit notification + acceptance notification
	if len(notifier.sent) != 2 || notifier.sent[1].ReceiverUserID != 30 {
		t.Fatalf("artisan not notified of acceptance: %+v", notifier.sent)
	}
}

func TestAcceptApplicationForbiddenForStranger(t *testing.T) {
	apps := newStubApplicationStore()
	svc, _ := newApplicationService(apps, openRequest())

	app, err := svc.SubmitApplication(context.Background(), models.SubmitApplicationInput{
		ArtisanID:        30,
		ServiceRequestID: 40,
		StartDate:        "2026-09-01 09:00",
	})
	if err != nil {
		t.Fatalf("SubmitApplication: %v", err)
	}

	if _, err := svc.AcceptApplication(context.Background(), 99, app.ID); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
