package handlers

import (
	"github.com/flowdeskhq/flowdesk-backend/internal/httpx"
	"github.com/flowdeskhq/flowdesk-backend/internal/service"
	"github.com/flowdeskhq/flowdesk-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type IntegrationHandler struct {
	integrationService *service.IntegrationService
}

func NewIntegrationHandler(integrationService *service.IntegrationService) *IntegrationHandler {
	return &IntegrationHandler{integrationService: integrationService}
}

func (h *IntegrationHandler) GetSettings(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	settings, err := h.integrationService.GetSettings(userID)
	if err != nil {
		return httpx.Internal(c, "fetch_settings_failed")
	}
	if settings == nil {
		return c.JSON(nil)
	}
	return c.JSON(settings.ToResponse())
}

func (h *IntegrationHandler) SaveSettings(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input service.SaveSettingsInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if input.WebhookURL != nil && *input.WebhookURL != "" {
		if !validation.ValidateWebhookURL(*input.WebhookURL) {
			return httpx.BadRequest(c, "invalid_webhook_url", "Webhook URL must be an absolute http(s) URL")
		}
	}

	id, err := h.integrationService.SaveSettings(userID, input)
	if err != nil {
		return mapServiceError(c, err, "save_settings_failed")
	}
	return c.JSON(fiber.Map{"id": id})
}

func (h *IntegrationHandler) Connect(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	if err := h.integrationService.Connect(userID); err != nil {
		return mapServiceError(c, err, "connect_integration_failed")
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *IntegrationHandler) Disconnect(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	if err := h.integrationService.Disconnect(userID); err != nil {
		return mapServiceError(c, err, "disconnect_integration_failed")
	}
	return c.JSON(fiber.Map{"success": true})
}
