package models

import (
	"time"
)

type ServiceRequest struct {
	ID          int           `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Duration    string        `json:"duration"`
	TotalPrice  float64       `json:"total_price"`
	ImageURLs   []string      `json:"image_urls"`
	Latitude    float64       `json:"latitude"`
	Longitude   float64       `json:"longitude"`
	TextAddress string        `json:"text_address"`
	AddressID   int           `json:"address_id"`
	TaskIDs     []int         `json:"task_ids"`
	Tasks       []ServiceTask `json:"tasks,omitempty"`
	ServiceType string        `json:"service_type"`
	Status      string        `json:"status"`
	UserID      int           `json:"user_id"`
	DistanceKm  *float64      `json:"distance_km,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   *time.Time    `json:"updated_at,omitempty"`

	// Presentation fields, filled by the HTTP layer, never stored.
	StatusColor string `json:"status_color,omitempty"`
	StatusIcon  string `json:"status_icon,omitempty"`
}

type ServiceTask struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ServiceTaskSpec describes one billable unit of work supplied at request
// creation time, before the task row exists.
type ServiceTaskSpec struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// ImageUpload is a raw file received from the client, destined for object
// storage. A failed upload drops the image but does not fail the request.
type ImageUpload struct {
	Name        string
	ContentType string
	Data        []byte
}

type CreateServiceRequestInput struct {
	Title       string
	Description string
	Duration    string
	TotalPrice  float64
	Latitude    float64
	Longitude   float64
	TextAddress string
	ServiceType string
	UserID      int
	Tasks       []ServiceTaskSpec
	Images      []ImageUpload
}

type RequestsByStatusFilter struct {
	UserID int    `json:"user_id"`
	Status string `json:"status"`
}
