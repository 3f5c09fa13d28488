package service

import (
	"errors"
	"time"

	"github.com/flowdeskhq/flowdesk-backend/internal/models"
	"github.com/flowdeskhq/flowdesk-backend/internal/repository"
	"gorm.io/gorm"
)

type MessageService struct {
	messageRepo      repository.MessageRepositoryInterface
	conversationRepo repository.ConversationRepositoryInterface
	notifier         ChangeNotifier
}

func NewMessageService(messageRepo repository.MessageRepositoryInterface, conversationRepo repository.ConversationRepositoryInterface, notifier ChangeNotifier) *MessageService {
	return &MessageService{
		messageRepo:      messageRepo,
		conversationRepo: conversationRepo,
		notifier:         notifier,
	}
}

type SendMessageInput struct {
	Content     string             `json:"content"`
	MessageType models.MessageType `json:"message_type"`
}

// List returns the conversation's messages, oldest first. Scope misses
// (missing conversation, wrong owner, unresolved identity) return an empty
// list.
func (s *MessageService) List(userID, conversationID uint) ([]models.Message, error) {
	if userID == 0 {
		return []models.Message{}, nil
	}
	conversation, err := s.conversationRepo.FindByID(conversationID)
	if err != nil || conversation.UserID != userID {
		return []models.Message{}, nil
	}
	return s.messageRepo.ListByConversation(conversationID)
}

// Send inserts an outbound message and patches the parent conversation's
// last-message preview, logging the action, all atomically.
func (s *MessageService) Send(userID, conversationID uint, input SendMessageInput) (*models.Message, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	conversation, err := s.loadOwned(userID, conversationID)
	if err != nil {
		return nil, err
	}

	messageType := input.MessageType
	if messageType == "" {
		messageType = models.TextMessage
	}

	now := time.Now()
	message := &models.Message{
		ConversationID: conversation.ID,
		UserID:         userID,
		Content:        input.Content,
		Sender:         models.SenderUser,
		Status:         models.StatusSent,
		MessageType:    messageType,
		CreatedAt:      now,
	}
	entry := &models.ActivityLog{
		UserID:  userID,
		Action:  models.ActionMessageSent,
		Details: "Sent message to " + conversation.ContactName,
	}
	patch := repository.ConversationPatch{
		LastMessage:   input.Content,
		LastMessageAt: now,
	}

	if err := s.messageRepo.CreateWithConversationUpdate(message, patch, entry); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyChange(userID, Change{Event: EventMessageCreated, ID: message.ID})
		s.notifier.NotifyChange(userID, Change{Event: EventConversationUpdated, ID: conversation.ID})
		s.notifier.NotifyChange(userID, Change{Event: EventActivityCreated, ID: entry.ID})
	}
	return message, nil
}

// SimulateReceive inserts an inbound contact message and bumps the parent's
// unread counter by one. The increment is a read-modify-write on the value
// loaded for the ownership check; two racing receives on one conversation
// can lose an increment, which is acceptable for the single-caller usage.
func (s *MessageService) SimulateReceive(userID, conversationID uint, content string) error {
	if userID == 0 {
		return ErrUnauthenticated
	}
	conversation, err := s.loadOwned(userID, conversationID)
	if err != nil {
		return err
	}

	now := time.Now()
	message := &models.Message{
		ConversationID: conversation.ID,
		UserID:         userID,
		Content:        content,
		Sender:         models.SenderContact,
		Status:         models.StatusDelivered,
		MessageType:    models.TextMessage,
		CreatedAt:      now,
	}
	unread := conversation.UnreadCount + 1
	patch := repository.ConversationPatch{
		LastMessage:   content,
		LastMessageAt: now,
		UnreadCount:   &unread,
	}

	if err := s.messageRepo.CreateWithConversationUpdate(message, patch, nil); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifyChange(userID, Change{Event: EventMessageCreated, ID: message.ID})
		s.notifier.NotifyChange(userID, Change{Event: EventConversationUpdated, ID: conversation.ID})
	}
	return nil
}

func (s *MessageService) loadOwned(userID, conversationID uint) (*models.Conversation, error) {
	conversation, err := s.conversationRepo.FindByID(conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if conversation.UserID != userID {
		return nil, ErrNotFound
	}
	return conversation, nil
}
