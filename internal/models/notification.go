package models

import (
	"time"
)

type Notification struct {
	ID             int       `json:"id"`
	SenderUserID   int       `json:"sender_user_id"`
	ReceiverUserID int       `json:"receiver_user_id"`
	Title          string    `json:"title"`
	MessageContent string    `json:"message_content"`
	JSONData       string    `json:"json_data,omitempty"`
	IsSeen         bool      `json:"is_seen"`
	CreatedAt      time.Time `json:"created_at"`

	// Presentation fields, filled by the HTTP layer, never stored.
	CreatedAtText string `json:"created_at_text,omitempty"`
	Preview       string `json:"preview,omitempty"`
}
