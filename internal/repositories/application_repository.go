package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ustaBack/internal/models"
)

type ApplicationRepository struct {
	DB *sql.DB
}

func (r *ApplicationRepository) Create(ctx context.Context, app models.ServiceApplication) (models.ServiceApplication, error) {
	var count int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM service_applications WHERE artisan_id = ? AND service_request_id = ?`,
		app.ArtisanID, app.ServiceRequestID).Scan(&count); err != nil {
		return models.ServiceApplication{}, err
	}
	if count > 0 {
		return models.ServiceApplication{}, models.ErrAlreadyApplied
	}

	query := `
               INSERT INTO service_applications
                       (artisan_id, client_id, service_request_id, status, message, start_date, new_duration, created_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)
       `
	if app.Status == "" {
		app.Status = models.ApplicationPending
	}
	now := time.Now()
	result, err := r.DB.ExecContext(ctx, query,
		app.ArtisanID, app.ClientID, app.ServiceRequestID, app.Status,
		app.Message, app.StartDate, app.NewDuration, now)
	if err != nil {
		return models.ServiceApplication{}, err
	}
	insertedID, err := result.LastInsertId()
	if err != nil {
		return models.ServiceApplication{}, err
	}
	app.ID = int(insertedID)
	app.CreatedAt = now
	return app, nil
}

func (r *ApplicationRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM service_applications WHERE id = ?`, id)
	return err
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id int) (models.ServiceApplication, error) {
	var app models.ServiceApplication
	query := `SELECT id, artisan_id, client_id, service_request_id, status, message, start_date, new_duration, created_at
               FROM service_applications WHERE id = ?`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&app.ID,
		&app.ArtisanID,
		&app.ClientID,
		&app.ServiceRequestID,
		&app.Status,
		&app.Message,
		&app.StartDate,
		&app.NewDuration,
		&app.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ServiceApplication{}, models.ErrApplicationNotFound
		}
		return models.ServiceApplication{}, err
	}
	return app, nil
}

func (r *ApplicationRepository) ListByRequestID(ctx context.Context, requestID int) ([]models.ServiceApplication, error) {
	query := `SELECT id, artisan_id, client_id, service_request_id, status, message, start_date, new_duration, created_at
               FROM service_applications WHERE service_request_id = ? ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []models.ServiceApplication
	for rows.Next() {
		var app models.ServiceApplication
		if err := rows.Scan(&app.ID, &app.ArtisanID, &app.ClientID, &app.ServiceRequestID,
			&app.Status, &app.Message, &app.StartDate, &app.NewDuration, &app.CreatedAt); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range apps {
		proposals, err := r.ListProposalsByApplication(ctx, apps[i].ID)
		if err != nil {
			return nil, err
		}
		apps[i].Proposals = proposals
	}
	return apps, nil
}

func (r *ApplicationRepository) HasUserApplied(ctx context.Context, requestID, artisanID int) (bool, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM service_applications WHERE service_request_id = ? AND artisan_id = ?`,
		requestID, artisanID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AcceptedArtisanID returns the artisan of the accepted application on the
// request, or ErrNoRecord when none was accepted yet.
func (r *ApplicationRepository) AcceptedArtisanID(ctx context.Context, requestID int) (int, error) {
	var artisanID int
	err := r.DB.QueryRowContext(ctx,
		`SELECT artisan_id FROM service_applications WHERE service_request_id = ? AND status = ?`,
		requestID, models.ApplicationAccepted).Scan(&artisanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, models.ErrNoRecord
		}
		return 0, err
	}
	return artisanID, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE service_applications SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrApplicationNotFound
	}
	return nil
}

// RejectPendingByRequest rejects every pending application on the request
// except the given one. Used when the client accepts a competitor.
func (r *ApplicationRepository) RejectPendingByRequest(ctx context.Context, requestID, exceptID int) (int64, error) {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE service_applications SET status = ? WHERE service_request_id = ? AND status = ? AND id <> ?`,
		models.ApplicationRejected, requestID, models.ApplicationPending, exceptID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *ApplicationRepository) CreateProposal(ctx context.Context, p models.ServiceTaskProposal) (models.ServiceTaskProposal, error) {
	query := `
               INSERT INTO service_task_proposals (application_id, task_id, new_price, created_at)
               VALUES (?, ?, ?, ?)
       `
	now := time.Now()
	result, err := r.DB.ExecContext(ctx, query, p.ApplicationID, p.TaskID, p.NewPrice, now)
	if err != nil {
		return models.ServiceTaskProposal{}, err
	}
	insertedID, err := result.LastInsertId()
	if err != nil {
		return models.ServiceTaskProposal{}, err
	}
	p.ID = int(insertedID)
	p.CreatedAt = now
	return p, nil
}

func (r *ApplicationRepository) DeleteProposal(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM service_task_proposals WHERE id = ?`, id)
	return err
}

func (r *ApplicationRepository) ListProposalsByApplication(ctx context.Context, applicationID int) ([]models.ServiceTaskProposal, error) {
	query := `SELECT id, application_id, task_id, new_price, created_at
               FROM service_task_proposals WHERE application_id = ? ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var proposals []models.ServiceTaskProposal
	for rows.Next() {
		var p models.ServiceTaskProposal
		if err := rows.Scan(&p.ID, &p.ApplicationID, &p.TaskID, &p.NewPrice, &p.CreatedAt); err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
	}
	return proposals, rows.Err()
}
