package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cause := errors.New("disk I/O error")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("email is required"), http.StatusBadRequest},
		{"otp required", New(ErrOTPRequired, "Phone verification required"), http.StatusBadRequest},
		{"otp expired", New(ErrOTPNotFoundOrExpired, "Invalid or expired OTP"), http.StatusBadRequest},
		{"credentials", ErrInvalidCredentials, http.StatusUnauthorized},
		{"unauthorized", New(ErrUnauthorized, "invalid token"), http.StatusUnauthorized},
		{"forbidden", Forbidden("admin role required"), http.StatusForbidden},
		{"not found", NotFound("product not found"), http.StatusNotFound},
		{"conflict", New(ErrConflict, "email already exists"), http.StatusConflict},
		{"storage", Storage("create submission", cause), http.StatusInternalServerError},
		{"plain", cause, http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("handler: %w", Validation("bad")), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestStorage_UnwrapsKindAndCause(t *testing.T) {
	cause := errors.New("database is locked")
	err := Storage("update otp", cause)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "update otp: database is locked", err.Error())
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "email is required", PublicMessage(Validation("email is required")))
	assert.Equal(t, "internal server error", PublicMessage(Storage("insert", errors.New("secret detail"))))
	assert.Equal(t, "invalid credentials", PublicMessage(ErrInvalidCredentials))
}
