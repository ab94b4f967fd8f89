package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/zylm/internal/apperr"
	"github.com/example/zylm/internal/models"
	"github.com/example/zylm/internal/testutil"
	"github.com/example/zylm/internal/utils"
)

type recordingNotifier struct {
	mu   sync.Mutex
	subs []models.FormSubmission
}

func (n *recordingNotifier) NotifySubmission(sub models.FormSubmission) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs = append(n.subs, sub)
}

func newIntake(t *testing.T) (*FormIntakeService, *OTPLedger, *SubmissionStore, *recordingNotifier) {
	t.Helper()
	db := testutil.NewDB(t)
	ledger := NewOTPLedger(db, 5*time.Minute)
	store := NewSubmissionStore(db)
	notifier := &recordingNotifier{}
	return NewFormIntakeService(ledger, store, notifier), ledger, store, notifier
}

func TestIntake_WithoutPhone(t *testing.T) {
	intake, _, _, notifier := newIntake(t)

	sub, err := intake.Submit(context.Background(), []byte(`{"formType":"contact","name":"Asha","email":"asha@example.org","subject":"Hi","message":"Hello"}`))
	require.NoError(t, err)

	assert.False(t, sub.OTPVerified)
	assert.Nil(t, sub.Phone)
	assert.Equal(t, "contact", sub.Type)
	assert.Equal(t, "Hi", sub.Subject)
	assert.Equal(t, models.SubmissionStatusNew, sub.Status)
	require.Len(t, notifier.subs, 1)
	assert.Equal(t, sub.ID, notifier.subs[0].ID)
}

func TestIntake_PhoneClaimWithoutVerification(t *testing.T) {
	intake, ledger, _, notifier := newIntake(t)
	_, err := ledger.Issue(context.Background(), "9876543210")
	require.NoError(t, err)

	_, err = intake.Submit(context.Background(), []byte(`{"formType":"contact","email":"asha@example.org","phone":"9876543210","otpVerified":true}`))
	assert.ErrorIs(t, err, apperr.ErrOTPRequired)
	assert.Empty(t, notifier.subs)
}

func TestIntake_VerifiedPhoneWithoutClaim(t *testing.T) {
	ctx := context.Background()
	intake, ledger, _, _ := newIntake(t)
	issued, err := ledger.Issue(ctx, "9876543210")
	require.NoError(t, err)
	require.NoError(t, ledger.Verify(ctx, "9876543210", issued.Code))

	_, err = intake.Submit(ctx, []byte(`{"email":"asha@example.org","mobile":"9876543210"}`))
	assert.ErrorIs(t, err, apperr.ErrOTPRequired)
}

func TestIntake_IssueVerifySubmit(t *testing.T) {
	ctx := context.Background()
	intake, ledger, store, _ := newIntake(t)

	issued, err := ledger.Issue(ctx, "9876543210")
	require.NoError(t, err)
	require.NoError(t, ledger.Verify(ctx, "9876543210", issued.Code))

	sub, err := intake.Submit(ctx, []byte(`{"formType":"career","name":"Ravi","email":"ravi@example.org","phone":"+91 98765 43210","otpVerified":"true","department":"R&D","cvPath":"/uploads/cv/cv-1.pdf","linkedin":"ravi"}`))
	require.NoError(t, err)

	assert.True(t, sub.OTPVerified)
	require.NotNil(t, sub.Phone)
	assert.Equal(t, "9876543210", *sub.Phone)
	assert.Equal(t, "R&D", sub.Department)
	assert.Equal(t, "/uploads/cv/cv-1.pdf", sub.CVPath)

	stored, err := store.Get(ctx, sub.ID)
	require.NoError(t, err)
	assert.JSONEq(t, string(sub.RawPayload), string(stored.RawPayload))
	assert.Contains(t, string(stored.RawPayload), "linkedin")
}

func TestIntake_Validation(t *testing.T) {
	intake, _, _, _ := newIntake(t)

	for _, body := range []string{`not json`, `[]`, `{"name":"x"}`, `{"email":"   "}`, `{"email":"no-at-sign"}`} {
		_, err := intake.Submit(context.Background(), []byte(body))
		assert.ErrorIs(t, err, apperr.ErrValidation, body)
	}
}

func TestIntake_UnknownTypeIsGeneric(t *testing.T) {
	intake, _, _, _ := newIntake(t)

	sub, err := intake.Submit(context.Background(), []byte(`{"formType":"partnership","email":"p@example.org","company":"Acme"}`))
	require.NoError(t, err)
	assert.Equal(t, "generic", sub.Type)
	assert.Equal(t, "Acme", sub.Company)

	sub, err = intake.Submit(context.Background(), []byte(`{"formType":"product","email":"p@example.org","product":"AirClean Pro"}`))
	require.NoError(t, err)
	assert.Equal(t, "inquiry", sub.Type)
	assert.Equal(t, "AirClean Pro", sub.Product)
}

func TestSubmissionStore_ListAndStatus(t *testing.T) {
	ctx := context.Background()
	intake, _, store, _ := newIntake(t)

	first, err := intake.Submit(ctx, []byte(`{"formType":"contact","name":"Asha","email":"asha@example.org"}`))
	require.NoError(t, err)
	_, err = intake.Submit(ctx, []byte(`{"formType":"vendor","name":"Ravi","email":"ravi@example.org","company":"Panels Ltd"}`))
	require.NoError(t, err)

	subs, total, err := store.List(ctx, SubmissionFilter{Type: "vendor"}, utils.NewPagination(1, 20))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Panels Ltd", subs[0].Company)

	_, total, err = store.List(ctx, SubmissionFilter{Search: "ASHA"}, utils.NewPagination(1, 20))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, err = store.UpdateStatus(ctx, first.ID, "done")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	updated, err := store.UpdateStatus(ctx, first.ID, models.SubmissionStatusReviewed)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusReviewed, updated.Status)

	require.NoError(t, store.MarkNotified(ctx, first.ID))
	reloaded, err := store.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Notified)

	require.NoError(t, store.Delete(ctx, first.ID))
	_, err = store.Get(ctx, first.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, first.ID), apperr.ErrNotFound)
}
