package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"ustaBack/internal/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r *UserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	query := `
               INSERT INTO users (name, phone, email, password_hash, role, created_at)
               VALUES (?, ?, ?, ?, ?, ?)
       `
	now := time.Now()
	result, err := r.DB.ExecContext(ctx, query,
		user.Name, user.Phone, user.Email, user.PasswordHash, user.Role, now)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			if strings.Contains(mysqlErr.Message, "phone") {
				return models.User{}, models.ErrDuplicatePhone
			}
			return models.User{}, models.ErrDuplicateEmail
		}
		return models.User{}, err
	}
	insertedID, err := result.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	user.ID = int(insertedID)
	user.CreatedAt = now
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (models.User, error) {
	return r.getOne(ctx, `SELECT id, name, phone, email, password_hash, role, created_at FROM users WHERE id = ?`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.getOne(ctx, `SELECT id, name, phone, email, password_hash, role, created_at FROM users WHERE email = ?`, email)
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (models.User, error) {
	return r.getOne(ctx, `SELECT id, name, phone, email, password_hash, role, created_at FROM users WHERE phone = ?`, phone)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg interface{}) (models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Phone,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, models.ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) CreateSession(ctx context.Context, session models.Session) error {
	query := `
               INSERT INTO sessions (user_id, role, refresh_token, expires_at)
               VALUES (?, ?, ?, ?)
               ON DUPLICATE KEY UPDATE refresh_token = VALUES(refresh_token), expires_at = VALUES(expires_at)
       `
	_, err := r.DB.ExecContext(ctx, query, session.UserID, session.Role, session.RefreshToken, session.ExpiresAt)
	return err
}

func (r *UserRepository) GetSessionByToken(ctx context.Context, refreshToken string) (models.Session, error) {
	var session models.Session
	query := `SELECT user_id, role, refresh_token, expires_at FROM sessions WHERE refresh_token = ?`
	err := r.DB.QueryRowContext(ctx, query, refreshToken).Scan(
		&session.UserID,
		&session.Role,
		&session.RefreshToken,
		&session.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, nil
		}
		return models.Session{}, err
	}
	return session, nil
}
