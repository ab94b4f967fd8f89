package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/zylm/internal/apperr"
	"github.com/example/zylm/internal/services"
	"github.com/example/zylm/internal/testutil"
)

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusNotFound, "product not found") })
	app.Get("/validation", func(c *fiber.Ctx) error { return apperr.Validation("email is required") })
	app.Get("/storage", func(c *fiber.Ctx) error {
		return apperr.Storage("save submission", errors.New("database is locked"))
	})
	app.Get("/plain", func(c *fiber.Ctx) error { return errors.New("boom") })

	tests := []struct {
		path    string
		status  int
		message string
	}{
		{"/fiber", http.StatusNotFound, "product not found"},
		{"/validation", http.StatusBadRequest, "email is required"},
		{"/storage", http.StatusInternalServerError, "internal server error"},
		{"/plain", http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			body := decode(t, resp)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["message"])
		})
	}
}

type stubSMS struct {
	ok      bool
	phone   string
	message string
}

func (s *stubSMS) SendSMS(_ context.Context, phone, message string) bool {
	s.phone, s.message = phone, message
	return s.ok
}

func newOTPApp(t *testing.T, sms SMSSender, devMode bool) *fiber.App {
	t.Helper()
	ledger := services.NewOTPLedger(testutil.NewDB(t), 5*time.Minute)
	h := NewOTPHandler(ledger, sms, devMode)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	app.Post("/send-otp", h.SendOTP)
	app.Post("/verify-otp", h.VerifyOTP)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode, decode(t, resp)
}

func TestSendOTP_ProductionHidesCode(t *testing.T) {
	sms := &stubSMS{ok: false}
	app := newOTPApp(t, sms, false)

	status, body := postJSON(t, app, "/send-otp", `{"phone":"+91 98765 43210"}`)
	require.Equal(t, http.StatusOK, status)

	assert.NotContains(t, body, "otp")
	assert.Equal(t, false, body["smsSent"])
	assert.Equal(t, "9876543210", sms.phone)
	assert.Regexp(t, `^Your OTP for Zylm Energy is \d{6}\. Valid for 5 minutes\.`, sms.message)
}

func TestSendOTP_DevModeAndVerify(t *testing.T) {
	app := newOTPApp(t, &stubSMS{ok: true}, true)

	status, body := postJSON(t, app, "/send-otp", `{"phoneNumber":"9876543210"}`)
	require.Equal(t, http.StatusOK, status)
	code := body["otp"].(string)

	status, body = postJSON(t, app, "/verify-otp", `{"phoneNumber":"9876543210","otp":"`+code+`"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OTP verified successfully", body["message"])
}

func TestOTPHandler_BadRequests(t *testing.T) {
	app := newOTPApp(t, &stubSMS{ok: true}, false)

	status, body := postJSON(t, app, "/send-otp", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid phone number", body["message"])

	status, body = postJSON(t, app, "/verify-otp", `{"phone":"9876543210"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Phone number and OTP are required", body["message"])

	status, body = postJSON(t, app, "/verify-otp", `{"phone":"9876543210","otp":"123456"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid or expired OTP", body["message"])
}
