package services

import (
	"context"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/example/zylm/internal/apperr"
	"github.com/example/zylm/internal/models"
	"github.com/example/zylm/internal/testutil"
)

func TestOTPLedger_Issue(t *testing.T) {
	ledger := NewOTPLedger(testutil.NewDB(t), 5*time.Minute)
	before := time.Now().UTC()

	issued, err := ledger.Issue(context.Background(), "+91 98765-43210")
	require.NoError(t, err)

	assert.Equal(t, "9876543210", issued.Phone)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), issued.Code)
	assert.True(t, issued.ExpiresAt.After(before))
	assert.WithinDuration(t, before.Add(5*time.Minute), issued.ExpiresAt, 5*time.Second)
}

func TestOTPLedger_IssueInvalidPhone(t *testing.T) {
	ledger := NewOTPLedger(testutil.NewDB(t), 5*time.Minute)

	for _, phone := range []string{"", "12345", "5876543210", "98765432101"} {
		_, err := ledger.Issue(context.Background(), phone)
		assert.ErrorIs(t, err, apperr.ErrValidation, phone)
	}
}

func TestOTPLedger_VerifyOnce(t *testing.T) {
	ctx := context.Background()
	ledger := NewOTPLedger(testutil.NewDB(t), 5*time.Minute)

	issued, err := ledger.Issue(ctx, "9876543210")
	require.NoError(t, err)

	ok, err := ledger.IsPhoneVerified(ctx, "9876543210")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, ledger.Verify(ctx, "919876543210", issued.Code))

	err = ledger.Verify(ctx, "9876543210", issued.Code)
	assert.ErrorIs(t, err, apperr.ErrOTPNotFoundOrExpired)

	ok, err = ledger.IsPhoneVerified(ctx, "09876543210")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOTPLedger_VerifyWrongCode(t *testing.T) {
	ctx := context.Background()
	ledger := NewOTPLedger(testutil.NewDB(t), 5*time.Minute)

	issued, err := ledger.Issue(ctx, "9876543210")
	require.NoError(t, err)

	wrong := "000000"
	if issued.Code == wrong {
		wrong = "111111"
	}
	assert.ErrorIs(t, ledger.Verify(ctx, "9876543210", wrong), apperr.ErrOTPNotFoundOrExpired)
	assert.ErrorIs(t, ledger.Verify(ctx, "9876543210", "12ab56"), apperr.ErrValidation)
	assert.ErrorIs(t, ledger.Verify(ctx, "9876543210", "12345"), apperr.ErrValidation)
	assert.ErrorIs(t, ledger.Verify(ctx, "123", issued.Code), apperr.ErrValidation)
}

func TestOTPLedger_VerifyAfterExpiry(t *testing.T) {
	ctx := context.Background()
	ledger := NewOTPLedger(testutil.NewDB(t), 5*time.Minute)

	issued, err := ledger.Issue(ctx, "9876543210")
	require.NoError(t, err)

	ledger.SetClock(func() time.Time { return time.Now().Add(6 * time.Minute) })

	assert.ErrorIs(t, ledger.Verify(ctx, "9876543210", issued.Code), apperr.ErrOTPNotFoundOrExpired)

	ok, err := ledger.IsPhoneVerified(ctx, "9876543210")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOTPLedger_ConcurrentVerify(t *testing.T) {
	ctx := context.Background()
	ledger := NewOTPLedger(testutil.NewDB(t), 5*time.Minute)

	issued, err := ledger.Issue(ctx, "9876543210")
	require.NoError(t, err)

	var successes, failures atomic.Int32
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			err := ledger.Verify(ctx, "9876543210", issued.Code)
			switch {
			case err == nil:
				successes.Add(1)
			case apperr.StatusCode(err) == 400:
				failures.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.EqualValues(t, 1, successes.Load())
	assert.EqualValues(t, 7, failures.Load())
}

func TestOTPLedger_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	ledger := NewOTPLedger(db, 5*time.Minute)

	old := time.Now().Add(-48 * time.Hour)
	ledger.SetClock(func() time.Time { return old })
	_, err := ledger.Issue(ctx, "9876543210")
	require.NoError(t, err)
	verified, err := ledger.Issue(ctx, "9876543211")
	require.NoError(t, err)
	require.NoError(t, ledger.Verify(ctx, "9876543211", verified.Code))

	ledger.SetClock(time.Now)
	_, err = ledger.Issue(ctx, "9876543212")
	require.NoError(t, err)

	purged, err := ledger.PurgeExpired(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	var remaining int64
	require.NoError(t, db.Model(&models.OTPVerification{}).Count(&remaining).Error)
	assert.EqualValues(t, 2, remaining)
}
