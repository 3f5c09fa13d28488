package handlers

import (
	"errors"
	"strconv"

	"github.com/flowdeskhq/flowdesk-backend/internal/cache"
	"github.com/flowdeskhq/flowdesk-backend/internal/httpx"
	"github.com/flowdeskhq/flowdesk-backend/internal/models"
	"github.com/flowdeskhq/flowdesk-backend/internal/service"
	"github.com/flowdeskhq/flowdesk-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type ConversationHandler struct {
	conversationService *service.ConversationService
	conversationCache   *cache.ConversationCache
}

func NewConversationHandler(conversationService *service.ConversationService, conversationCache *cache.ConversationCache) *ConversationHandler {
	return &ConversationHandler{
		conversationService: conversationService,
		conversationCache:   conversationCache,
	}
}

func (h *ConversationHandler) List(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	if cached, ok := h.conversationCache.GetList(userID); ok {
		return c.JSON(toConversationResponses(cached))
	}

	conversations, err := h.conversationService.List(userID)
	if err != nil {
		return httpx.Internal(c, "fetch_conversations_failed")
	}
	if len(conversations) > 0 {
		_ = h.conversationCache.SetList(userID, conversations)
	}

	return c.JSON(toConversationResponses(conversations))
}

func (h *ConversationHandler) Get(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	id, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid conversation id")
	}

	conversation, err := h.conversationService.Get(userID, id)
	if err != nil {
		return httpx.Internal(c, "fetch_conversation_failed")
	}
	if conversation == nil {
		return httpx.NotFound(c, "not_found", "Conversation not found")
	}
	return c.JSON(conversation.ToResponse())
}

func (h *ConversationHandler) Create(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input service.CreateConversationInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	input.ContactName = validation.TrimAndLimit(input.ContactName, 120)
	if input.ContactName == "" {
		return httpx.BadRequest(c, "missing_contact_name", "Contact name is required")
	}
	if !validation.ValidateContactPhone(input.ContactPhone) {
		return httpx.BadRequest(c, "invalid_contact_phone", "Invalid contact phone")
	}

	conversation, err := h.conversationService.Create(userID, input)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
		}
		return httpx.Internal(c, "create_conversation_failed")
	}

	_ = h.conversationCache.InvalidateList(userID)

	return c.Status(fiber.StatusCreated).JSON(conversation.ToResponse())
}

func (h *ConversationHandler) MarkAsRead(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	id, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid conversation id")
	}

	if err := h.conversationService.MarkAsRead(userID, id); err != nil {
		return mapServiceError(c, err, "mark_as_read_failed")
	}

	_ = h.conversationCache.InvalidateList(userID)

	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *ConversationHandler) Remove(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	id, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid conversation id")
	}

	if err := h.conversationService.Remove(userID, id); err != nil {
		return mapServiceError(c, err, "remove_conversation_failed")
	}

	_ = h.conversationCache.InvalidateList(userID)
	_ = h.conversationCache.InvalidateMessages(userID, id)

	return c.JSON(fiber.Map{"status": "ok"})
}

func toConversationResponses(conversations []models.Conversation) []models.ConversationResponse {
	responses := make([]models.ConversationResponse, len(conversations))
	for i := range conversations {
		responses[i] = conversations[i].ToResponse()
	}
	return responses
}

func paramUint(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || v == 0 {
		return 0, errors.New("invalid param")
	}
	return uint(v), nil
}

// mapServiceError translates service sentinels into the HTTP error
// envelope. Anything unexpected is an internal error.
func mapServiceError(c *fiber.Ctx, err error, internalCode string) error {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	case errors.Is(err, service.ErrNotFound):
		return httpx.NotFound(c, "not_found", "Not found")
	default:
		return httpx.Internal(c, internalCode)
	}
}
