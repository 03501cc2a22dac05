package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ustaBack/internal/models"
)

type ServiceTaskRepository struct {
	DB *sql.DB
}

func (r *ServiceTaskRepository) Create(ctx context.Context, task models.ServiceTask) (models.ServiceTask, error) {
	query := `
               INSERT INTO service_tasks (title, description, price, status, created_at)
               VALUES (?, ?, ?, ?, ?)
       `
	if task.Status == "" {
		task.Status = models.TaskPending
	}
	now := time.Now()
	result, err := r.DB.ExecContext(ctx, query, task.Title, task.Description, task.Price, task.Status, now)
	if err != nil {
		return models.ServiceTask{}, err
	}
	insertedID, err := result.LastInsertId()
	if err != nil {
		return models.ServiceTask{}, err
	}
	task.ID = int(insertedID)
	task.CreatedAt = now
	return task, nil
}

func (r *ServiceTaskRepository) GetByID(ctx context.Context, id int) (models.ServiceTask, error) {
	var task models.ServiceTask
	query := `SELECT id, title, description, price, status, created_at FROM service_tasks WHERE id = ?`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Price,
		&task.Status,
		&task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ServiceTask{}, models.ErrTaskNotFound
		}
		return models.ServiceTask{}, err
	}
	return task, nil
}

func (r *ServiceTaskRepository) GetByIDs(ctx context.Context, ids []int) ([]models.ServiceTask, error) {
	if len(ids) == 0 {
		return []models.ServiceTask{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT id, title, description, price, status, created_at
               FROM service_tasks WHERE id IN (%s) ORDER BY id`, strings.Join(placeholders, ","))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.ServiceTask
	for rows.Next() {
		var task models.ServiceTask
		if err := rows.Scan(&task.ID, &task.Title, &task.Description, &task.Price, &task.Status, &task.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *ServiceTaskRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE service_tasks SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrTaskNotFound
	}
	return nil
}

func (r *ServiceTaskRepository) UpdatePrice(ctx context.Context, id int, price float64) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE service_tasks SET price = ? WHERE id = ?`, price, id)
	return err
}

func (r *ServiceTaskRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM service_tasks WHERE id = ?`, id)
	return err
}

// DeleteOrphanedBefore removes tasks older than the cutoff that no service
// request references. Tasks are created before their parent request, so a
// parent write that failed after task creation leaves orphans behind; the
// nightly sweep is their cleanup path.
func (r *ServiceTaskRepository) DeleteOrphanedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
               DELETE FROM service_tasks
               WHERE created_at < ?
                 AND NOT EXISTS (
                       SELECT 1 FROM service_requests
                       WHERE JSON_CONTAINS(service_requests.task_ids, CAST(service_tasks.id AS JSON))
                 )
       `
	result, err := r.DB.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
