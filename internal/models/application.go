package models

import (
	"time"
)

type ServiceApplication struct {
	ID               int                   `json:"id"`
	ArtisanID        int                   `json:"artisan_id"`
	ClientID         int                   `json:"client_id"`
	ServiceRequestID int                   `json:"service_request_id"`
	Status           string                `json:"status"`
	Message          string                `json:"message"`
	StartDate        string                `json:"start_date"`
	NewDuration      string                `json:"new_duration,omitempty"`
	Proposals        []ServiceTaskProposal `json:"proposals,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
}

// ServiceTaskProposal is the artisan's counter-priced offer on one task
// within an application.
type ServiceTaskProposal struct {
	ID            int       `json:"id"`
	ApplicationID int       `json:"application_id"`
	TaskID        int       `json:"task_id"`
	NewPrice      float64   `json:"new_price"`
	CreatedAt     time.Time `json:"created_at"`
}

type TaskProposalInput struct {
	TaskID   int     `json:"task_id"`
	NewPrice float64 `json:"new_price"`
}

type SubmitApplicationInput struct {
	ArtisanID        int                 `json:"artisan_id"`
	ServiceRequestID int                 `json:"service_request_id"`
	StartDate        string              `json:"start_date"`
	NewDuration      string              `json:"new_duration"`
	Message          string              `json:"message"`
	Proposals        []TaskProposalInput `json:"proposals"`
}
