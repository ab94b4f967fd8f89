package models

import "time"

// OTPVerification is one issued one-time passcode. Rows are append-only except
// for the single verified flip.
type OTPVerification struct {
	BaseModel
	Phone      string     `gorm:"index:idx_otp_phone_code,priority:1;not null" json:"phone"`
	Code       string     `gorm:"index:idx_otp_phone_code,priority:2;not null" json:"-"`
	Verified   bool       `gorm:"not null;default:false" json:"verified"`
	ExpiresAt  time.Time  `gorm:"index;not null" json:"expires_at"`
	VerifiedAt *time.Time `json:"verified_at"`
}
