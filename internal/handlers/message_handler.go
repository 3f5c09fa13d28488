package handlers

import (
	"github.com/flowdeskhq/flowdesk-backend/internal/cache"
	"github.com/flowdeskhq/flowdesk-backend/internal/httpx"
	"github.com/flowdeskhq/flowdesk-backend/internal/models"
	"github.com/flowdeskhq/flowdesk-backend/internal/service"
	"github.com/flowdeskhq/flowdesk-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type MessageHandler struct {
	messageService    *service.MessageService
	conversationCache *cache.ConversationCache
}

func NewMessageHandler(messageService *service.MessageService, conversationCache *cache.ConversationCache) *MessageHandler {
	return &MessageHandler{
		messageService:    messageService,
		conversationCache: conversationCache,
	}
}

func (h *MessageHandler) List(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	conversationID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid conversation id")
	}

	if cached, ok := h.conversationCache.GetMessages(userID, conversationID); ok {
		return c.JSON(toMessageResponses(cached))
	}

	messages, err := h.messageService.List(userID, conversationID)
	if err != nil {
		return httpx.Internal(c, "fetch_messages_failed")
	}
	// Only cache non-empty results: an empty list here can also mean a
	// scope miss and must not be served to a later caller.
	if len(messages) > 0 {
		_ = h.conversationCache.SetMessages(userID, conversationID, messages)
	}

	return c.JSON(toMessageResponses(messages))
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	conversationID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid conversation id")
	}

	var input service.SendMessageInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	input.Content = validation.TrimAndLimit(input.Content, validation.MaxMessageLength())
	if input.Content == "" {
		return httpx.BadRequest(c, "missing_content", "Content is required")
	}
	if input.MessageType != "" && !models.ValidMessageType(input.MessageType) {
		return httpx.BadRequest(c, "invalid_message_type", "Invalid message type")
	}

	message, err := h.messageService.Send(userID, conversationID, input)
	if err != nil {
		return mapServiceError(c, err, "send_message_failed")
	}

	_ = h.conversationCache.InvalidateMessages(userID, conversationID)
	_ = h.conversationCache.InvalidateList(userID)

	return c.Status(fiber.StatusCreated).JSON(message.ToResponse())
}

// SimulateReceive injects an inbound contact message. Demo path: there is
// no real webhook receiver.
func (h *MessageHandler) SimulateReceive(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	conversationID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid conversation id")
	}

	var input struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	input.Content = validation.TrimAndLimit(input.Content, validation.MaxMessageLength())
	if input.Content == "" {
		return httpx.BadRequest(c, "missing_content", "Content is required")
	}

	if err := h.messageService.SimulateReceive(userID, conversationID, input.Content); err != nil {
		return mapServiceError(c, err, "simulate_receive_failed")
	}

	_ = h.conversationCache.InvalidateMessages(userID, conversationID)
	_ = h.conversationCache.InvalidateList(userID)

	return c.JSON(fiber.Map{"status": "ok"})
}

func toMessageResponses(messages []models.Message) []models.MessageResponse {
	responses := make([]models.MessageResponse, len(messages))
	for i := range messages {
		responses[i] = messages[i].ToResponse()
	}
	return responses
}
