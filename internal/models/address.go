package models

import (
	"time"
)

type Address struct {
	ID          int       `json:"id"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	TextAddress string    `json:"text_address"`
	CreatedAt   time.Time `json:"created_at"`
}
