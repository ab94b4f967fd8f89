package services

import (
	"context"

	"github.com/example/zylm/internal/apperr"
	"github.com/example/zylm/internal/forms"
	"github.com/example/zylm/internal/models"
)

// PhoneVerifier answers whether a phone number passed OTP verification.
type PhoneVerifier interface {
	IsPhoneVerified(ctx context.Context, phone string) (bool, error)
}

// SubmissionNotifier dispatches notifications for a stored submission without
// blocking the caller.
type SubmissionNotifier interface {
	NotifySubmission(sub models.FormSubmission)
}

// FormIntakeService validates and stores website form submissions.
type FormIntakeService struct {
	verifier PhoneVerifier
	store    *SubmissionStore
	notifier SubmissionNotifier
}

// NewFormIntakeService constructs a FormIntakeService. notifier may be nil.
func NewFormIntakeService(verifier PhoneVerifier, store *SubmissionStore, notifier SubmissionNotifier) *FormIntakeService {
	return &FormIntakeService{verifier: verifier, store: store, notifier: notifier}
}

// Submit parses, validates and stores body. A payload carrying a phone number
// is accepted only when the client claims verification and the OTP ledger
// confirms it. Notification starts after the row is written and never affects
// the result.
func (s *FormIntakeService) Submit(ctx context.Context, body []byte) (*models.FormSubmission, error) {
	payload, err := forms.Parse(body)
	if err != nil {
		return nil, err
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	verified := false
	if payload.HasPhone() {
		if !payload.OTPVerified {
			return nil, apperr.New(apperr.ErrOTPRequired, "Phone verification required")
		}
		ok, err := s.verifier.IsPhoneVerified(ctx, payload.Phone)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperr.New(apperr.ErrOTPRequired, "Phone verification required")
		}
		verified = true
	}

	sub, err := s.store.Create(ctx, payload, verified)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifySubmission(*sub)
	}
	return sub, nil
}
