package handlers

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/example/zylm/internal/services"
)

// SMSSender delivers a text message and reports whether it went out.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) bool
}

// OTPHandler serves the phone verification endpoints.
type OTPHandler struct {
	ledger  *services.OTPLedger
	sms     SMSSender
	devMode bool
}

// NewOTPHandler constructs an OTPHandler. In dev mode the issued code is
// echoed in the send-otp response.
func NewOTPHandler(ledger *services.OTPLedger, sms SMSSender, devMode bool) *OTPHandler {
	return &OTPHandler{ledger: ledger, sms: sms, devMode: devMode}
}

type otpRequest struct {
	Phone       string `json:"phone"`
	PhoneNumber string `json:"phoneNumber"`
	OTP         string `json:"otp"`
}

func (r otpRequest) phone() string {
	if r.Phone != "" {
		return r.Phone
	}
	return r.PhoneNumber
}

// SendOTP issues a code for the phone and sends it by SMS.
func (h *OTPHandler) SendOTP(c *fiber.Ctx) error {
	var req otpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.phone() == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid phone number")
	}

	issued, err := h.ledger.Issue(c.UserContext(), req.phone())
	if err != nil {
		return err
	}

	minutes := int(h.ledger.TTL().Minutes())
	message := fmt.Sprintf("Your OTP for Zylm Energy is %s. Valid for %d minutes. Do not share this OTP with anyone.", issued.Code, minutes)
	sent := h.sms.SendSMS(c.UserContext(), issued.Phone, message)

	resp := fiber.Map{
		"success":   true,
		"message":   "OTP sent successfully",
		"expiresIn": int(h.ledger.TTL().Seconds()),
		"smsSent":   sent,
	}
	if h.devMode {
		resp["otp"] = issued.Code
	}
	return c.JSON(resp)
}

// VerifyOTP checks a submitted code.
func (h *OTPHandler) VerifyOTP(c *fiber.Ctx) error {
	var req otpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.phone() == "" || req.OTP == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Phone number and OTP are required")
	}

	if err := h.ledger.Verify(c.UserContext(), req.phone(), req.OTP); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "OTP verified successfully"})
}
