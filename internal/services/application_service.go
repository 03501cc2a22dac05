package services

import (
	"context"
	"fmt"
	"time"

	"ustaBack/internal/models"
)

type ApplicationStore interface {
	Create(ctx context.Context, app models.ServiceApplication) (models.ServiceApplication, error)
	Delete(ctx context.Context, id int) error
	GetByID(ctx context.Context, id int) (models.ServiceApplication, error)
	ListByRequestID(ctx context.Context, requestID int) ([]models.ServiceApplication, error)
	HasUserApplied(ctx context.Context, requestID, artisanID int) (bool, error)
	UpdateStatus(ctx context.Context, id int, status string) error
	RejectPendingByRequest(ctx context.Context, requestID, exceptID int) (int64, error)
	CreateProposal(ctx context.Context, p models.ServiceTaskProposal) (models.ServiceTaskProposal, error)
	DeleteProposal(ctx context.Context, id int) error
	ListProposalsByApplication(ctx context.Context, applicationID int) ([]models.ServiceTaskProposal, error)
}

type ApplicationService struct {
	Applications ApplicationStore
	Requests     RequestStore
	Tasks        TaskStore
	Notifier     Notifier
	Log          Logger
}

var startDateLayouts = []string{"2006-01-02 15:04", "2006-01-02", time.RFC3339}

// NormalizeStartDate parses the artisan-supplied start date and returns the
// canonical RFC3339 UTC form.
func NormalizeStartDate(value string) (string, error) {
	for _, layout := range startDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC().Format(time.RFC3339), nil
		}
	}
	return "", models.ErrInvalidDate
}

// SubmitApplication writes the application, one proposal per task and the
// client notification as a saga: the first failure deletes everything
// written so far in reverse order, so the client never sees a partial
// application.
func (s *ApplicationService) SubmitApplication(ctx context.Context, in models.SubmitApplicationInput) (models.ServiceApplication, error) {
	if in.ArtisanID <= 0 || in.ServiceRequestID <= 0 {
		return models.ServiceApplication{}, models.ErrValidation
	}

	startDate, err := NormalizeStartDate(in.StartDate)
	if err != nil {
		return models.ServiceApplication{}, err
	}

	// The request must be live and open; the client reference is taken from
	// the request row rather than trusted from the caller.
	req, err := s.Requests.GetByID(ctx, in.ServiceRequestID)
	if err != nil {
		return models.ServiceApplication{}, err
	}
	if req.Status != models.StatusInProgress {
		return models.ServiceApplication{}, models.ErrInvalidStatus
	}
	if req.UserID == in.ArtisanID {
		return models.ServiceApplication{}, models.ErrForbidden
	}
	for _, p := range in.Proposals {
		if !containsID(req.TaskIDs, p.TaskID) {
			return models.ServiceApplication{}, models.ErrTaskNotFound
		}
	}

	sg := NewSaga(s.Log)

	var app models.ServiceApplication
	err = sg.Run(ctx, "create application",
		func(ctx context.Context) error {
			var err error
			app, err = s.Applications.Create(ctx, models.ServiceApplication{
				ArtisanID:        in.ArtisanID,
				ClientID:         req.UserID,
				ServiceRequestID: in.ServiceRequestID,
				Status:           models.ApplicationPending,
				Message:          in.Message,
				StartDate:        startDate,
				NewDuration:      in.NewDuration,
			})
			return err
		},
		func(ctx context.Context) error { return s.Applications.Delete(ctx, app.ID) },
	)
	if err != nil {
		return models.ServiceApplication{}, err
	}

	for _, input := range in.Proposals {
		input := input
		var proposal models.ServiceTaskProposal
		err = sg.Run(ctx, fmt.Sprintf("create proposal for task %d", input.TaskID),
			func(ctx context.Context) error {
				var err error
				proposal, err = s.Applications.CreateProposal(ctx, models.ServiceTaskProposal{
					ApplicationID: app.ID,
					TaskID:        input.TaskID,
					NewPrice:      input.NewPrice,
				})
				return err
			},
			func(ctx context.Context) error { return s.Applications.DeleteProposal(ctx, proposal.ID) },
		)
		if err != nil {
			return models.ServiceApplication{}, err
		}
		app.Proposals = append(app.Proposals, proposal)
	}

	var note models.Notification
	err = sg.Run(ctx, "create notification",
		func(ctx context.Context) error {
			var err error
			note, err = s.Notifier.Notify(ctx, models.Notification{
				SenderUserID:   in.ArtisanID,
				ReceiverUserID: req.UserID,
				Title:          "New application",
				MessageContent: in.Message,
				JSONData:       fmt.Sprintf(`{"service_request_id":%d,"application_id":%d}`, req.ID, app.ID),
			})
			return err
		},
		func(ctx context.Context) error { return s.Notifier.Revoke(ctx, note.ID) },
	)
	if err != nil {
		return models.ServiceApplication{}, err
	}

	return app, nil
}

// AcceptApplication marks the application accepted, rejects its pending
// siblings, applies the proposed prices and duration onto the request and
// moves the request to pre-begin.
func (s *ApplicationService) AcceptApplication(ctx context.Context, clientID, applicationID int) (models.ServiceApplication, error) {
	app, err := s.Applications.GetByID(ctx, applicationID)
	if err != nil {
		return models.ServiceApplication{}, err
	}
	req, err := s.Requests.GetByID(ctx, app.ServiceRequestID)
	if err != nil {
		return models.ServiceApplication{}, err
	}
	if req.UserID != clientID {
		return models.ServiceApplication{}, models.ErrForbidden
	}
	if app.Status != models.ApplicationPending {
		return models.ServiceApplication{}, models.ErrInvalidStatus
	}
	if !models.CanTransition(req.Status, models.StatusPreBegin) {
		return models.ServiceApplication{}, models.ErrInvalidStatus
	}

	if err := s.Applications.UpdateStatus(ctx, app.ID, models.ApplicationAccepted); err != nil {
		return models.ServiceApplication{}, err
	}
	app.Status = models.ApplicationAccepted

	if _, err := s.Applications.RejectPendingByRequest(ctx, req.ID, app.ID); err != nil {
		s.logErrorf("application %d: reject siblings: %v", app.ID, err)
	}

	if err := s.Requests.UpdateStatus(ctx, req.ID, models.StatusPreBegin); err != nil {
		return models.ServiceApplication{}, err
	}

	proposals, err := s.Applications.ListProposalsByApplication(ctx, app.ID)
	if err != nil {
		return models.ServiceApplication{}, err
	}
	app.Proposals = proposals
	for _, p := range proposals {
		if err := s.Tasks.UpdatePrice(ctx, p.TaskID, p.NewPrice); err != nil {
			s.logErrorf("application %d: apply price to task %d: %v", app.ID, p.TaskID, err)
		}
	}
	if app.NewDuration != "" {
		if err := s.Requests.UpdateDuration(ctx, req.ID, app.NewDuration); err != nil {
			s.logErrorf("application %d: apply duration: %v", app.ID, err)
		}
	}

	s.notifyArtisan(ctx, app, clientID, "Application accepted")
	return app, nil
}

func (s *ApplicationService) RejectApplication(ctx context.Context, clientID, applicationID int) (models.ServiceApplication, error) {
	app, err := s.Applications.GetByID(ctx, applicationID)
	if err != nil {
		return models.ServiceApplication{}, err
	}
	req, err := s.Requests.GetByID(ctx, app.ServiceRequestID)
	if err != nil {
		return models.ServiceApplication{}, err
	}
	if req.UserID != clientID {
		return models.ServiceApplication{}, models.ErrForbidden
	}
	if app.Status != models.ApplicationPending {
		return models.ServiceApplication{}, models.ErrInvalidStatus
	}
	if err := s.Applications.UpdateStatus(ctx, app.ID, models.ApplicationRejected); err != nil {
		return models.ServiceApplication{}, err
	}
	app.Status = models.ApplicationRejected

	s.notifyArtisan(ctx, app, clientID, "Application rejected")
	return app, nil
}

// HasUserApplied is deliberately fail-open: a store error is logged and
// reported as "not applied" so a transient read failure never blocks the
// apply button. The duplicate pre-check at submit time is the real guard.
func (s *ApplicationService) HasUserApplied(ctx context.Context, requestID, artisanID int) bool {
	applied, err := s.Applications.HasUserApplied(ctx, requestID, artisanID)
	if err != nil {
		s.logErrorf("has-applied check for request %d artisan %d: %v", requestID, artisanID, err)
		return false
	}
	return applied
}

func (s *ApplicationService) GetApplicationsByRequestID(ctx context.Context, requestID int) ([]models.ServiceApplication, error) {
	return s.Applications.ListByRequestID(ctx, requestID)
}

func (s *ApplicationService) notifyArtisan(ctx context.Context, app models.ServiceApplication, clientID int, title string) {
	if s.Notifier == nil {
		return
	}
	_, err := s.Notifier.Notify(ctx, models.Notification{
		SenderUserID:   clientID,
		ReceiverUserID: app.ArtisanID,
		Title:          title,
		JSONData:       fmt.Sprintf(`{"service_request_id":%d,"application_id":%d}`, app.ServiceRequestID, app.ID),
	})
	if err != nil {
		s.logErrorf("application %d: notify artisan %d: %v", app.ID, app.ArtisanID, err)
	}
}

func (s *ApplicationService) logErrorf(format string, args ...interface{}) {
	if s.Log != nil {
		s.Log.Errorf(format, args...)
	}
}
