package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/zylm/internal/apperr"
	"github.com/example/zylm/internal/models"
)

// AdminHandler serves the admin panel dashboard.
type AdminHandler struct {
	db *gorm.DB
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

type groupCount struct {
	Grp   string
	Total int64
}

func (h *AdminHandler) countBy(c *fiber.Ctx, model any, column string) (map[string]int64, error) {
	var rows []groupCount
	if err := h.db.WithContext(c.UserContext()).Model(model).
		Select(column + " AS grp, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Grp] = r.Total
	}
	return out, nil
}

// DashboardStats returns aggregate statistics for the admin dashboard.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	db := h.db.WithContext(c.UserContext())

	var totalSubmissions int64
	if err := db.Model(&models.FormSubmission{}).Count(&totalSubmissions).Error; err != nil {
		return apperr.Storage("count submissions", err)
	}

	// Submissions in the last 24 hours
	var recentSubmissions int64
	if err := db.Model(&models.FormSubmission{}).
		Where("created_at >= ?", time.Now().UTC().Add(-24*time.Hour)).
		Count(&recentSubmissions).Error; err != nil {
		return apperr.Storage("count recent submissions", err)
	}

	byType, err := h.countBy(c, &models.FormSubmission{}, "type")
	if err != nil {
		return apperr.Storage("group submissions by type", err)
	}
	byStatus, err := h.countBy(c, &models.FormSubmission{}, "status")
	if err != nil {
		return apperr.Storage("group submissions by status", err)
	}
	notifications, err := h.countBy(c, &models.Notification{}, "status")
	if err != nil {
		return apperr.Storage("group notifications by status", err)
	}

	var totalUsers, totalProducts int64
	if err := db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return apperr.Storage("count users", err)
	}
	if err := db.Model(&models.Product{}).Count(&totalProducts).Error; err != nil {
		return apperr.Storage("count products", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_submissions":      totalSubmissions,
			"submissions_last_24h":   recentSubmissions,
			"submissions_by_type":    byType,
			"submissions_by_status":  byStatus,
			"notifications_by_state": notifications,
			"total_users":            totalUsers,
			"total_products":         totalProducts,
		},
	})
}

// RecentSubmissions returns the five newest submissions for the dashboard.
func (h *AdminHandler) RecentSubmissions(c *fiber.Ctx) error {
	var subs []models.FormSubmission
	if err := h.db.WithContext(c.UserContext()).
		Order("created_at desc").
		Limit(5).
		Find(&subs).Error; err != nil {
		return apperr.Storage("list recent submissions", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    subs,
	})
}
