package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/zylm/internal/apperr"
	"github.com/example/zylm/internal/models"
	"github.com/example/zylm/internal/services"
	"github.com/example/zylm/internal/utils"
)

const (
	userContextKey   = "currentUser"
	claimsContextKey = "currentClaims"
)

// AuthMiddleware validates bearer tokens and loads the authenticated user into
// context. The account must still exist and be active.
func AuthMiddleware(secret string, users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperr.New(apperr.ErrUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return apperr.New(apperr.ErrUnauthorized, "invalid authorization header")
		}

		claims, err := utils.ParseToken(secret, strings.TrimSpace(parts[1]))
		if err != nil {
			return apperr.New(apperr.ErrUnauthorized, "invalid token")
		}

		user, err := users.Get(c.UserContext(), claims.UserUUID())
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return apperr.New(apperr.ErrUnauthorized, "invalid token")
			}
			return err
		}
		if !user.IsActive() {
			return apperr.New(apperr.ErrUnauthorized, "account disabled")
		}

		c.Locals(claimsContextKey, claims)
		c.Locals(userContextKey, user)
		return c.Next()
	}
}

// RequireRole rejects users whose role is not one of roles. It must run
// after AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := GetCurrentUser(c)
		if !ok {
			return apperr.New(apperr.ErrUnauthorized, "authentication required")
		}
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return apperr.Forbidden("insufficient permissions")
	}
}

// GetCurrentUser returns the authenticated user from context.
func GetCurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(userContextKey).(*models.User)
	return user, ok && user != nil
}

// GetCurrentUserID extracts the authenticated user ID from context.
func GetCurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	user, ok := GetCurrentUser(c)
	if !ok {
		return uuid.Nil, false
	}
	return user.ID, true
}
