package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"gorm.io/gorm"

	"github.com/example/zylm/internal/apperr"
	"github.com/example/zylm/internal/models"
	"github.com/example/zylm/internal/utils"
)

var otpCodePattern = regexp.MustCompile(`^\d{6}$`)

// IssuedOTP is a freshly minted code, returned so the caller can dispatch it.
type IssuedOTP struct {
	Phone     string
	Code      string
	ExpiresAt time.Time
}

// OTPLedger stores issued one-time codes and runs their verification.
// A row moves from issued to verified exactly once; expiry is implicit.
type OTPLedger struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewOTPLedger constructs an OTPLedger issuing codes valid for ttl.
func NewOTPLedger(db *gorm.DB, ttl time.Duration) *OTPLedger {
	return &OTPLedger{db: db, ttl: ttl, now: func() time.Time { return time.Now().UTC() }}
}

// SetClock replaces the ledger's time source.
func (l *OTPLedger) SetClock(now func() time.Time) {
	l.now = func() time.Time { return now().UTC() }
}

// TTL returns how long issued codes stay valid.
func (l *OTPLedger) TTL() time.Duration {
	return l.ttl
}

// Issue mints and stores a new code for phone. Earlier codes are left as they are.
func (l *OTPLedger) Issue(ctx context.Context, phone string) (*IssuedOTP, error) {
	normalized := utils.NormalizePhone(phone)
	if !utils.ValidMobile(normalized) {
		return nil, apperr.Validation("Invalid phone number")
	}

	code, err := generateOTPCode()
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}

	record := models.OTPVerification{
		Phone:     normalized,
		Code:      code,
		ExpiresAt: l.now().Add(l.ttl),
	}
	if err := l.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, apperr.Storage("store otp", err)
	}

	return &IssuedOTP{Phone: normalized, Code: code, ExpiresAt: record.ExpiresAt}, nil
}

// Verify marks the newest unexpired, unverified code matching phone and code
// as verified. A code can be verified only once.
func (l *OTPLedger) Verify(ctx context.Context, phone, code string) error {
	if !otpCodePattern.MatchString(code) {
		return apperr.Validation("OTP must be 6 digits")
	}
	normalized := utils.NormalizePhone(phone)
	if !utils.ValidMobile(normalized) {
		return apperr.Validation("Invalid phone number")
	}

	now := l.now()
	db := l.db.WithContext(ctx)

	var record models.OTPVerification
	err := db.Where("phone = ? AND code = ? AND verified = ? AND expires_at > ?", normalized, code, false, now).
		Order("created_at desc").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.ErrOTPNotFoundOrExpired, "Invalid or expired OTP")
		}
		return apperr.Storage("lookup otp", err)
	}

	// The verified = false guard makes concurrent verifies of one row race
	// on a single conditional write.
	res := db.Model(&models.OTPVerification{}).
		Where("id = ? AND verified = ? AND expires_at > ?", record.ID, false, now).
		Updates(map[string]interface{}{"verified": true, "verified_at": now})
	if res.Error != nil {
		return apperr.Storage("verify otp", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.ErrOTPNotFoundOrExpired, "Invalid or expired OTP")
	}
	return nil
}

// IsPhoneVerified reports whether any code for phone has been verified.
// Verification does not lapse with the code's expiry.
func (l *OTPLedger) IsPhoneVerified(ctx context.Context, phone string) (bool, error) {
	normalized := utils.NormalizePhone(phone)
	if !utils.ValidMobile(normalized) {
		return false, nil
	}

	var count int64
	if err := l.db.WithContext(ctx).Model(&models.OTPVerification{}).
		Where("phone = ? AND verified = ?", normalized, true).
		Count(&count).Error; err != nil {
		return false, apperr.Storage("check phone verification", err)
	}
	return count > 0, nil
}

// PurgeExpired deletes unverified codes that expired more than keep ago.
func (l *OTPLedger) PurgeExpired(ctx context.Context, keep time.Duration) (int64, error) {
	cutoff := l.now().Add(-keep)
	res := l.db.WithContext(ctx).
		Where("verified = ? AND expires_at < ?", false, cutoff).
		Delete(&models.OTPVerification{})
	if res.Error != nil {
		return 0, apperr.Storage("purge otp", res.Error)
	}
	return res.RowsAffected, nil
}

func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
