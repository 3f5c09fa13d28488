package handlers

import (
	"github.com/flowdeskhq/flowdesk-backend/internal/httpx"
	"github.com/flowdeskhq/flowdesk-backend/internal/models"
	"github.com/flowdeskhq/flowdesk-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type ActivityHandler struct {
	activityService *service.ActivityService
}

func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

func (h *ActivityHandler) List(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	entries, err := h.activityService.List(userID)
	if err != nil {
		return httpx.Internal(c, "fetch_activity_failed")
	}

	responses := make([]models.ActivityLogResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, entries[i].ToResponse())
	}
	return c.JSON(responses)
}
