package models

import "github.com/google/uuid"

const (
	ChannelEmail    = "email"
	ChannelSMS      = "sms"
	ChannelTelegram = "telegram"

	NotificationSent    = "sent"
	NotificationFailed  = "failed"
	NotificationSkipped = "skipped"
)

// Notification records one outbound dispatch attempt.
type Notification struct {
	BaseModel
	Channel      string     `gorm:"index;not null" json:"channel"`
	Recipient    string     `json:"recipient"`
	Subject      string     `json:"subject"`
	SubmissionID *uuid.UUID `gorm:"type:uuid;index" json:"submission_id"`
	Status       string     `gorm:"index;not null" json:"status"`
	Attempts     int        `json:"attempts"`
	Error        string     `gorm:"type:text" json:"error,omitempty"`
}
