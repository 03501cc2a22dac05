package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ustaBack/internal/models"
)

type AddressRepository struct {
	DB *sql.DB
}

func (r *AddressRepository) Create(ctx context.Context, addr models.Address) (models.Address, error) {
	query := `
               INSERT INTO addresses (latitude, longitude, text_address, created_at)
               VALUES (?, ?, ?, ?)
       `
	now := time.Now()
	result, err := r.DB.ExecContext(ctx, query, addr.Latitude, addr.Longitude, addr.TextAddress, now)
	if err != nil {
		return models.Address{}, err
	}
	insertedID, err := result.LastInsertId()
	if err != nil {
		return models.Address{}, err
	}
	addr.ID = int(insertedID)
	addr.CreatedAt = now
	return addr, nil
}

func (r *AddressRepository) GetByID(ctx context.Context, id int) (models.Address, error) {
	var addr models.Address
	query := `SELECT id, latitude, longitude, text_address, created_at FROM addresses WHERE id = ?`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&addr.ID,
		&addr.Latitude,
		&addr.Longitude,
		&addr.TextAddress,
		&addr.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Address{}, models.ErrNoRecord
		}
		return models.Address{}, err
	}
	return addr, nil
}

func (r *AddressRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM addresses WHERE id = ?`, id)
	return err
}
