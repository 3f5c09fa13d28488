package handlers

import (
	"strings"

	"github.com/flowdeskhq/flowdesk-backend/internal/httpx"
	"github.com/flowdeskhq/flowdesk-backend/internal/models"
	"github.com/flowdeskhq/flowdesk-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type TeamHandler struct {
	teamService *service.TeamService
}

func NewTeamHandler(teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

func (h *TeamHandler) List(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	members, err := h.teamService.List(userID)
	if err != nil {
		return httpx.Internal(c, "fetch_team_failed")
	}

	responses := make([]models.TeamMemberResponse, 0, len(members))
	for i := range members {
		responses = append(responses, members[i].ToResponse())
	}
	return c.JSON(responses)
}

func (h *TeamHandler) GetMyProfile(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	member, err := h.teamService.GetMyProfile(userID)
	if err != nil {
		return httpx.Internal(c, "fetch_profile_failed")
	}
	if member == nil {
		// No profile yet is a normal state, not an error.
		return c.JSON(nil)
	}
	return c.JSON(member.ToResponse())
}

func (h *TeamHandler) Create(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input service.CreateMemberInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	input.Name = strings.TrimSpace(input.Name)
	input.Role = strings.TrimSpace(input.Role)
	if input.Name == "" {
		return httpx.BadRequest(c, "invalid_name", "Name is required")
	}
	if input.Role == "" {
		return httpx.BadRequest(c, "invalid_role", "Role is required")
	}

	member, err := h.teamService.Create(userID, input)
	if err != nil {
		return mapServiceError(c, err, "create_member_failed")
	}
	return c.Status(fiber.StatusCreated).JSON(member.ToResponse())
}

func (h *TeamHandler) UpdateStatus(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var body struct {
		Status models.MemberStatus `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if !models.ValidMemberStatus(body.Status) {
		return httpx.BadRequest(c, "invalid_status", "Status must be online, away or offline")
	}

	if err := h.teamService.UpdateStatus(userID, body.Status); err != nil {
		return mapServiceError(c, err, "update_status_failed")
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *TeamHandler) ConnectWhatsApp(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	if err := h.teamService.ConnectWhatsApp(userID); err != nil {
		return mapServiceError(c, err, "connect_whatsapp_failed")
	}
	return c.JSON(fiber.Map{"success": true})
}
