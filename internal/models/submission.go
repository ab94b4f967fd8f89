package models

import (
	"gorm.io/datatypes"
)

const (
	SubmissionStatusNew      = "new"
	SubmissionStatusReviewed = "reviewed"
	SubmissionStatusArchived = "archived"
)

// ValidSubmissionStatus reports whether status is one an admin may set.
func ValidSubmissionStatus(status string) bool {
	switch status {
	case SubmissionStatusNew, SubmissionStatusReviewed, SubmissionStatusArchived:
		return true
	}
	return false
}

// FormSubmission is an accepted website form. RawPayload keeps every field the
// client sent, including ones without a dedicated column.
type FormSubmission struct {
	BaseModel
	Type        string         `gorm:"index;not null" json:"type"`
	Name        string         `json:"name"`
	Email       string         `gorm:"index;not null" json:"email"`
	Phone       *string        `json:"phone"`
	Company     string         `json:"company"`
	Subject     string         `json:"subject"`
	Message     string         `gorm:"type:text" json:"message"`
	Department  string         `json:"department"`
	Product     string         `json:"product"`
	CVPath      string         `json:"cv_path"`
	RawPayload  datatypes.JSON `json:"raw_payload"`
	OTPVerified bool           `gorm:"not null;default:false" json:"otp_verified"`
	Status      string         `gorm:"index;not null;default:new" json:"status"`
	Notified    bool           `gorm:"not null;default:false" json:"notified"`
}
