package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"ustaBack/internal/models"
)

type ServiceRequestRepository struct {
	DB *sql.DB
}

const serviceRequestColumns = `id, title, description, duration, total_price, image_urls,
       latitude, longitude, text_address, address_id, task_ids, service_type, status, user_id,
       created_at, updated_at`

func (r *ServiceRequestRepository) Create(ctx context.Context, req models.ServiceRequest) (models.ServiceRequest, error) {
	imageURLs, err := json.Marshal(req.ImageURLs)
	if err != nil {
		return models.ServiceRequest{}, err
	}
	taskIDs, err := json.Marshal(req.TaskIDs)
	if err != nil {
		return models.ServiceRequest{}, err
	}

	query := `
               INSERT INTO service_requests
                       (title, description, duration, total_price, image_urls, latitude, longitude,
                        text_address, address_id, task_ids, service_type, status, user_id, created_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
       `
	now := time.Now()
	result, err := r.DB.ExecContext(ctx, query,
		req.Title, req.Description, req.Duration, req.TotalPrice, string(imageURLs),
		req.Latitude, req.Longitude, req.TextAddress, req.AddressID, string(taskIDs),
		req.ServiceType, req.Status, req.UserID, now)
	if err != nil {
		return models.ServiceRequest{}, err
	}
	insertedID, err := result.LastInsertId()
	if err != nil {
		return models.ServiceRequest{}, err
	}
	req.ID = int(insertedID)
	req.CreatedAt = now
	return req, nil
}

func (r *ServiceRequestRepository) GetByID(ctx context.Context, id int) (models.ServiceRequest, error) {
	query := `SELECT ` + serviceRequestColumns + ` FROM service_requests WHERE id = ?`
	req, err := scanServiceRequest(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ServiceRequest{}, models.ErrRequestNotFound
		}
		return models.ServiceRequest{}, err
	}
	return req, nil
}

func (r *ServiceRequestRepository) ListByUserID(ctx context.Context, userID int) ([]models.ServiceRequest, error) {
	query := `SELECT ` + serviceRequestColumns + ` FROM service_requests
               WHERE user_id = ? ORDER BY created_at DESC`
	return r.queryRequests(ctx, query, userID)
}

func (r *ServiceRequestRepository) ListByUserAndStatus(ctx context.Context, userID int, status string) ([]models.ServiceRequest, error) {
	query := `SELECT ` + serviceRequestColumns + ` FROM service_requests
               WHERE user_id = ? AND status = ? ORDER BY created_at DESC`
	return r.queryRequests(ctx, query, userID, status)
}

// SearchInBox returns requests of the given type and status whose coordinates
// fall inside the bounding box. Callers post-filter by exact distance.
func (r *ServiceRequestRepository) SearchInBox(ctx context.Context, serviceType, status string, box Box) ([]models.ServiceRequest, error) {
	query := `SELECT ` + serviceRequestColumns + ` FROM service_requests
               WHERE status = ? AND service_type = ?
                 AND latitude >= ? AND latitude <= ?
                 AND longitude >= ? AND longitude <= ?
               ORDER BY created_at DESC`
	return r.queryRequests(ctx, query, status, serviceType, box.MinLat, box.MaxLat, box.MinLon, box.MaxLon)
}

func (r *ServiceRequestRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE service_requests SET status = ?, updated_at = ? WHERE id = ?`, status, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrRequestNotFound
	}
	return nil
}

func (r *ServiceRequestRepository) UpdateDuration(ctx context.Context, id int, duration string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE service_requests SET duration = ?, updated_at = ? WHERE id = ?`, duration, time.Now(), id)
	return err
}

func (r *ServiceRequestRepository) queryRequests(ctx context.Context, query string, args ...interface{}) ([]models.ServiceRequest, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.ServiceRequest
	for rows.Next() {
		req, err := scanServiceRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanServiceRequest(row rowScanner) (models.ServiceRequest, error) {
	var req models.ServiceRequest
	var imageURLs, taskIDs string
	err := row.Scan(
		&req.ID,
		&req.Title,
		&req.Description,
		&req.Duration,
		&req.TotalPrice,
		&imageURLs,
		&req.Latitude,
		&req.Longitude,
		&req.TextAddress,
		&req.AddressID,
		&taskIDs,
		&req.ServiceType,
		&req.Status,
		&req.UserID,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return models.ServiceRequest{}, err
	}
	if err := json.Unmarshal([]byte(imageURLs), &req.ImageURLs); err != nil {
		return models.ServiceRequest{}, err
	}
	if err := json.Unmarshal([]byte(taskIDs), &req.TaskIDs); err != nil {
		return models.ServiceRequest{}, err
	}
	if req.ImageURLs == nil {
		req.ImageURLs = []string{}
	}
	if req.TaskIDs == nil {
		req.TaskIDs = []int{}
	}
	return req, nil
}
