package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"ustaBack/internal/geo"
	"ustaBack/internal/models"
	"ustaBack/internal/repositories"
)

type RequestStore interface {
	Create(ctx context.Context, req models.ServiceRequest) (models.ServiceRequest, error)
	GetByID(ctx context.Context, id int) (models.ServiceRequest, error)
	ListByUserID(ctx context.Context, userID int) ([]models.ServiceRequest, error)
	ListByUserAndStatus(ctx context.Context, userID int, status string) ([]models.ServiceRequest, error)
	SearchInBox(ctx context.Context, serviceType, status string, box repositories.Box) ([]models.ServiceRequest, error)
	UpdateStatus(ctx context.Context, id int, status string) error
	UpdateDuration(ctx context.Context, id int, duration string) error
}

type TaskStore interface {
	Create(ctx context.Context, task models.ServiceTask) (models.ServiceTask, error)
	GetByIDs(ctx context.Context, ids []int) ([]models.ServiceTask, error)
	UpdateStatus(ctx context.Context, id int, status string) error
	UpdatePrice(ctx context.Context, id int, price float64) error
	Delete(ctx context.Context, id int) error
}

type AddressStore interface {
	Create(ctx context.Context, addr models.Address) (models.Address, error)
	Delete(ctx context.Context, id int) error
}

// FileUploader is the image upload collaborator. It returns the public URL
// of the stored file.
type FileUploader interface {
	UploadFile(file []byte, contentType, folder string) (string, error)
}

// GeoIndex mirrors open requests and artisan heartbeats into Redis GEO sets.
type GeoIndex interface {
	Update(ctx context.Context, id int, lon, lat float64, category string) error
	Remove(ctx context.Context, id int, category string) error
}

// ArtisanFinder answers "which artisans of this category are near the point".
type ArtisanFinder interface {
	Nearby(ctx context.Context, category string, lon, lat, radiusKm float64) ([]geo.NearbyPoint, error)
}

// Notifier persists a notification document and delivers it best-effort.
// Revoke is the compensating delete.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) (models.Notification, error)
	Revoke(ctx context.Context, id int) error
}

// AcceptedArtisanReader resolves which artisan won a request and rejects the
// losers when a request dies.
type AcceptedArtisanReader interface {
	AcceptedArtisanID(ctx context.Context, requestID int) (int, error)
	RejectPendingByRequest(ctx context.Context, requestID, exceptID int) (int64, error)
}

type ServiceRequestService struct {
	Requests     RequestStore
	Tasks        TaskStore
	Addresses    AddressStore
	Applications AcceptedArtisanReader
	Uploader     FileUploader
	RequestIndex GeoIndex
	Artisans     ArtisanFinder
	Notifier     Notifier
	Log          Logger

	// NotifyRadiusKm bounds the "new job near you" fanout. Zero disables it.
	NotifyRadiusKm float64
}

const requestImagesFolder = "requests"

// CreateServiceRequest runs the creation fan-in: images are uploaded
// concurrently (failed uploads are dropped, by contract), tasks are created
// concurrently, then the address and the parent request document are written.
// Children are created before the parent so a reader never observes dangling
// references; on failure the saga deletes the children in reverse order.
func (s *ServiceRequestService) CreateServiceRequest(ctx context.Context, in models.CreateServiceRequestInput) (models.ServiceRequest, error) {
	if in.UserID <= 0 || in.Title == "" || in.ServiceType == "" {
		return models.ServiceRequest{}, models.ErrValidation
	}

	imageURLs := s.uploadImages(in.Images)

	sg := NewSaga(s.Log)

	taskIDs, err := s.createTasks(ctx, sg, in.Tasks)
	if err != nil {
		return models.ServiceRequest{}, err
	}

	var addr models.Address
	err = sg.Run(ctx, "create address",
		func(ctx context.Context) error {
			var err error
			addr, err = s.Addresses.Create(ctx, models.Address{
				Latitude:    in.Latitude,
				Longitude:   in.Longitude,
				TextAddress: in.TextAddress,
			})
			return err
		},
		func(ctx context.Context) error { return s.Addresses.Delete(ctx, addr.ID) },
	)
	if err != nil {
		return models.ServiceRequest{}, err
	}

	var req models.ServiceRequest
	err = sg.Run(ctx, "create request",
		func(ctx context.Context) error {
			var err error
			req, err = s.Requests.Create(ctx, models.ServiceRequest{
				Title:       in.Title,
				Description: in.Description,
				Duration:    in.Duration,
				TotalPrice:  in.TotalPrice,
				ImageURLs:   imageURLs,
				Latitude:    in.Latitude,
				Longitude:   in.Longitude,
				TextAddress: in.TextAddress,
				AddressID:   addr.ID,
				TaskIDs:     taskIDs,
				ServiceType: in.ServiceType,
				Status:      models.StatusInProgress,
				UserID:      in.UserID,
			})
			return err
		},
		nil,
	)
	if err != nil {
		return models.ServiceRequest{}, err
	}

	s.indexRequest(ctx, req)
	s.notifyNearbyArtisans(ctx, req)

	return req, nil
}

// uploadImages pushes every image concurrently and keeps the URLs of the
// uploads that succeeded, in input order. A failed upload only costs the
// client that one image.
func (s *ServiceRequestService) uploadImages(images []models.ImageUpload) []string {
	urls := make([]string, len(images))
	if len(images) > 0 && s.Uploader != nil {
		var wg sync.WaitGroup
		for i := range images {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				url, err := s.Uploader.UploadFile(images[i].Data, images[i].ContentType, requestImagesFolder)
				if err != nil {
					s.logErrorf("upload image %q: %v", images[i].Name, err)
					return
				}
				urls[i] = url
			}(i)
		}
		wg.Wait()
	}

	kept := make([]string, 0, len(urls))
	for _, url := range urls {
		if url != "" {
			kept = append(kept, url)
		}
	}
	return kept
}

func (s *ServiceRequestService) createTasks(ctx context.Context, sg *Saga, specs []models.ServiceTaskSpec) ([]int, error) {
	created := make([]models.ServiceTask, len(specs))
	errs := make([]error, len(specs))

	var wg sync.WaitGroup
	for i := range specs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			created[i], errs[i] = s.Tasks.Create(ctx, models.ServiceTask{
				Title:       specs[i].Title,
				Description: specs[i].Description,
				Price:       specs[i].Price,
				Status:      models.TaskPending,
			})
		}(i)
	}
	wg.Wait()

	taskIDs := make([]int, 0, len(specs))
	var firstErr error
	for i := range specs {
		if errs[i] != nil {
			if firstErr == nil {
				firstErr = errs[i]
			}
			continue
		}
		id := created[i].ID
		taskIDs = append(taskIDs, id)
		sg.Defer(fmt.Sprintf("create task %d", id), func(ctx context.Context) error {
			return s.Tasks.Delete(ctx, id)
		})
	}
	if firstErr != nil {
		sg.Compensate(ctx)
		return nil, fmt.Errorf("create tasks: %w", firstErr)
	}
	return taskIDs, nil
}

func (s *ServiceRequestService) indexRequest(ctx context.Context, req models.ServiceRequest) {
	if s.RequestIndex == nil {
		return
	}
	if err := s.RequestIndex.Update(ctx, req.ID, req.Longitude, req.Latitude, req.ServiceType); err != nil {
		s.logErrorf("request %d: geo index update: %v", req.ID, err)
	}
}

func (s *ServiceRequestService) unindexRequest(ctx context.Context, req models.ServiceRequest) {
	if s.RequestIndex == nil {
		return
	}
	if err := s.RequestIndex.Remove(ctx, req.ID, req.ServiceType); err != nil {
		s.logErrorf("request %d: geo index remove: %v", req.ID, err)
	}
}

func (s *ServiceRequestService) notifyNearbyArtisans(ctx context.Context, req models.ServiceRequest) {
	if s.Artisans == nil || s.Notifier == nil || s.NotifyRadiusKm <= 0 {
		return
	}
	nearby, err := s.Artisans.Nearby(ctx, req.ServiceType, req.Longitude, req.Latitude, s.NotifyRadiusKm)
	if err != nil {
		s.logErrorf("request %d: nearby artisan lookup: %v", req.ID, err)
		return
	}
	for _, artisan := range nearby {
		if artisan.ID == req.UserID {
			continue
		}
		_, err := s.Notifier.Notify(ctx, models.Notification{
			SenderUserID:   req.UserID,
			ReceiverUserID: artisan.ID,
			Title:          "New job nearby",
			MessageContent: req.Title,
			JSONData:       fmt.Sprintf(`{"service_request_id":%d}`, req.ID),
		})
		if err != nil {
			s.logErrorf("request %d: notify artisan %d: %v", req.ID, artisan.ID, err)
		}
	}
}

// GetRequestByID returns the request with its task documents attached.
func (s *ServiceRequestService) GetRequestByID(ctx context.Context, id int) (models.ServiceRequest, error) {
	req, err := s.Requests.GetByID(ctx, id)
	if err != nil {
		return models.ServiceRequest{}, err
	}
	tasks, err := s.Tasks.GetByIDs(ctx, req.TaskIDs)
	if err != nil {
		return models.ServiceRequest{}, err
	}
	req.Tasks = tasks
	return req, nil
}

func (s *ServiceRequestService) GetRequestsByUserID(ctx context.Context, userID int) ([]models.ServiceRequest, error) {
	return s.Requests.ListByUserID(ctx, userID)
}

func (s *ServiceRequestService) GetRequestsByStatus(ctx context.Context, userID int, status string) ([]models.ServiceRequest, error) {
	return s.Requests.ListByUserAndStatus(ctx, userID, status)
}

// StartJob moves an accepted request from pre-begin to active. Only the
// accepted artisan may start it.
func (s *ServiceRequestService) StartJob(ctx context.Context, artisanID, requestID int) (models.ServiceRequest, error) {
	req, err := s.Requests.GetByID(ctx, requestID)
	if err != nil {
		return models.ServiceRequest{}, err
	}
	if err := s.ensureAcceptedArtisan(ctx, requestID, artisanID); err != nil {
		return models.ServiceRequest{}, err
	}
	if !models.CanTransition(req.Status, models.StatusActive) {
		return models.ServiceRequest{}, models.ErrInvalidStatus
	}
	if err := s.Requests.UpdateStatus(ctx, requestID, models.StatusActive); err != nil {
		return models.ServiceRequest{}, err
	}
	req.Status = models.StatusActive
	return req, nil
}

// CompleteTask marks one task done. When it was the last pending task the
// request completes and the client is notified.
func (s *ServiceRequestService) CompleteTask(ctx context.Context, artisanID, requestID, taskID int) (models.ServiceRequest, error) {
	req, err := s.Requests.GetByID(ctx, requestID)
	if err != nil {
		return models.ServiceRequest{}, err
	}
	if err := s.ensureAcceptedArtisan(ctx, requestID, artisanID); err != nil {
		return models.ServiceRequest{}, err
	}
	if req.Status != models.StatusActive {
		return models.ServiceRequest{}, models.ErrInvalidStatus
	}
	if !containsID(req.TaskIDs, taskID) {
		return models.ServiceRequest{}, models.ErrTaskNotFound
	}

	if err := s.Tasks.UpdateStatus(ctx, taskID, models.TaskCompleted); err != nil {
		return models.ServiceRequest{}, err
	}

	tasks, err := s.Tasks.GetByIDs(ctx, req.TaskIDs)
	if err != nil {
		return models.ServiceRequest{}, err
	}
	req.Tasks = tasks

	if allTasksCompleted(tasks) {
		if err := s.Requests.UpdateStatus(ctx, requestID, models.StatusCompleted); err != nil {
			return models.ServiceRequest{}, err
		}
		req.Status = models.StatusCompleted
		s.unindexRequest(ctx, req)
		if s.Notifier != nil {
			_, err := s.Notifier.Notify(ctx, models.Notification{
				SenderUserID:   artisanID,
				ReceiverUserID: req.UserID,
				Title:          "Job completed",
				MessageContent: req.Title,
				JSONData:       fmt.Sprintf(`{"service_request_id":%d}`, req.ID),
			})
			if err != nil {
				s.logErrorf("request %d: notify completion: %v", req.ID, err)
			}
		}
	}
	return req, nil
}

// CancelRequest sets a non-terminal request to cancelled, removes it from
// the geo index and rejects any still-pending applications.
func (s *ServiceRequestService) CancelRequest(ctx context.Context, clientID, requestID int) (models.ServiceRequest, error) {
	req, err := s.Requests.GetByID(ctx, requestID)
	if err != nil {
		return models.ServiceRequest{}, err
	}
	if req.UserID != clientID {
		return models.ServiceRequest{}, models.ErrForbidden
	}
	if !models.CanTransition(req.Status, models.StatusCancelled) {
		return models.ServiceRequest{}, models.ErrInvalidStatus
	}
	if err := s.Requests.UpdateStatus(ctx, requestID, models.StatusCancelled); err != nil {
		return models.ServiceRequest{}, err
	}
	req.Status = models.StatusCancelled
	s.unindexRequest(ctx, req)

	if s.Applications != nil {
		if _, err := s.Applications.RejectPendingByRequest(ctx, requestID, 0); err != nil {
			s.logErrorf("request %d: reject pending applications: %v", requestID, err)
		}
	}
	return req, nil
}

func (s *ServiceRequestService) ensureAcceptedArtisan(ctx context.Context, requestID, artisanID int) error {
	if s.Applications == nil {
		return models.ErrForbidden
	}
	acceptedID, err := s.Applications.AcceptedArtisanID(ctx, requestID)
	if err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			return models.ErrForbidden
		}
		return err
	}
	if acceptedID != artisanID {
		return models.ErrForbidden
	}
	return nil
}

func (s *ServiceRequestService) logErrorf(format string, args ...interface{}) {
	if s.Log != nil {
		s.Log.Errorf(format, args...)
	}
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func allTasksCompleted(tasks []models.ServiceTask) bool {
	if len(tasks) == 0 {
		return true
	}
	for _, task := range tasks {
		if task.Status != models.TaskCompleted {
			return false
		}
	}
	return true
}
