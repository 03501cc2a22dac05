package repositories

import (
	"context"
	"database/sql"
	"time"

	"ustaBack/internal/models"
)

type NotificationRepository struct {
	DB *sql.DB
}

func (r *NotificationRepository) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	query := `
               INSERT INTO notifications
                       (sender_user_id, receiver_user_id, title, message_content, json_data, is_seen, created_at)
               VALUES (?, ?, ?, ?, ?, ?, ?)
       `
	now := time.Now()
	result, err := r.DB.ExecContext(ctx, query,
		n.SenderUserID, n.ReceiverUserID, n.Title, n.MessageContent, n.JSONData, false, now)
	if err != nil {
		return models.Notification{}, err
	}
	insertedID, err := result.LastInsertId()
	if err != nil {
		return models.Notification{}, err
	}
	n.ID = int(insertedID)
	n.IsSeen = false
	n.CreatedAt = now
	return n, nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM notifications WHERE id = ?`, id)
	return err
}

func (r *NotificationRepository) ListByReceiver(ctx context.Context, receiverUserID int) ([]models.Notification, error) {
	query := `SELECT id, sender_user_id, receiver_user_id, title, message_content, json_data, is_seen, created_at
               FROM notifications WHERE receiver_user_id = ? ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, receiverUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.SenderUserID, &n.ReceiverUserID, &n.Title,
			&n.MessageContent, &n.JSONData, &n.IsSeen, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) MarkSeen(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE notifications SET is_seen = TRUE WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNoRecord
	}
	return nil
}

func (r *NotificationRepository) UnseenCount(ctx context.Context, receiverUserID int) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE receiver_user_id = ? AND is_seen = FALSE`,
		receiverUserID).Scan(&count)
	return count, err
}

type NotifyTokenRepository struct {
	DB *sql.DB
}

func (r *NotifyTokenRepository) Insert(ctx context.Context, userID int, token string) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO notify_tokens (user_id, token) VALUES (?, ?)`, userID, token)
	return err
}

func (r *NotifyTokenRepository) Delete(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM notify_tokens WHERE token = ?`, token)
	return err
}

func (r *NotifyTokenRepository) TokensByUserID(ctx context.Context, userID int) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT token FROM notify_tokens WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}
