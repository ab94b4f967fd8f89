package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/zylm/internal/services"
	"github.com/example/zylm/internal/utils"
)

// FormHandler accepts public submissions and serves them to the admin panel.
type FormHandler struct {
	intake *services.FormIntakeService
	store  *services.SubmissionStore
}

// NewFormHandler constructs FormHandler.
func NewFormHandler(intake *services.FormIntakeService, store *services.SubmissionStore) *FormHandler {
	return &FormHandler{intake: intake, store: store}
}

// Submit stores a website form submission.
func (h *FormHandler) Submit(c *fiber.Ctx) error {
	sub, err := h.intake.Submit(c.UserContext(), c.Body())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"message":      "Form submitted successfully",
		"submissionId": sub.ID,
	})
}

// ListSubmissions returns paginated submissions with optional filters.
func (h *FormHandler) ListSubmissions(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	filter := services.SubmissionFilter{
		Type:   c.Query("type"),
		Status: c.Query("status"),
		Search: c.Query("search"),
	}

	subs, total, err := h.store.List(c.UserContext(), filter, pg)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       subs,
		"pagination": pg.Meta(total),
	})
}

// GetSubmission returns one submission.
func (h *FormHandler) GetSubmission(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	sub, err := h.store.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": sub})
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateSubmissionStatus moves a submission through its review states.
func (h *FormHandler) UpdateSubmissionStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	sub, err := h.store.UpdateStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": sub})
}

// DeleteSubmission removes a submission.
func (h *FormHandler) DeleteSubmission(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.store.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
