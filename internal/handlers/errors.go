package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/zylm/internal/apperr"
)

// ErrorHandler renders handler errors as {success:false, message}. Server
// errors are logged and their cause is never sent to the client.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			code    int
			message string
			fe      *fiber.Error
		)
		if errors.As(err, &fe) {
			code, message = fe.Code, fe.Message
		} else {
			code, message = apperr.StatusCode(err), apperr.PublicMessage(err)
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			if fe == nil {
				message = "internal server error"
			}
		}

		return c.Status(code).JSON(fiber.Map{"success": false, "message": message})
	}
}
