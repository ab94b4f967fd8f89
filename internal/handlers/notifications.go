package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/example/zylm/internal/models"
	"github.com/example/zylm/internal/utils"
)

// NotificationHistory lists recorded notification dispatches.
type NotificationHistory interface {
	History(ctx context.Context, channel, status string, pg utils.Pagination) ([]models.Notification, int64, error)
}

// NotificationHandler exposes the dispatch log to the admin panel.
type NotificationHandler struct {
	history NotificationHistory
}

// NewNotificationHandler constructs NotificationHandler.
func NewNotificationHandler(history NotificationHistory) *NotificationHandler {
	return &NotificationHandler{history: history}
}

// ListNotifications returns dispatches filtered by channel and status.
func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	items, total, err := h.history.History(c.UserContext(), c.Query("channel"), c.Query("status"), pg)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       items,
		"pagination": pg.Meta(total),
	})
}
