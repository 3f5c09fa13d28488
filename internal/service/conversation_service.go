package service

import (
	"errors"
	"time"

	"github.com/flowdeskhq/flowdesk-backend/internal/models"
	"github.com/flowdeskhq/flowdesk-backend/internal/repository"
	"gorm.io/gorm"
)

type ConversationService struct {
	conversationRepo repository.ConversationRepositoryInterface
	messageRepo      repository.MessageRepositoryInterface
	notifier         ChangeNotifier
}

func NewConversationService(conversationRepo repository.ConversationRepositoryInterface, messageRepo repository.MessageRepositoryInterface, notifier ChangeNotifier) *ConversationService {
	return &ConversationService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		notifier:         notifier,
	}
}

type CreateConversationInput struct {
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
	IsGroup      bool   `json:"is_group"`
}

// List returns the caller's conversations, newest-created first. An
// unresolved identity yields an empty list, not an error.
func (s *ConversationService) List(userID uint) ([]models.Conversation, error) {
	if userID == 0 {
		return []models.Conversation{}, nil
	}
	return s.conversationRepo.ListByUser(userID)
}

// Get returns the conversation, or nil when it does not exist or belongs to
// another user.
func (s *ConversationService) Get(userID, id uint) (*models.Conversation, error) {
	if userID == 0 {
		return nil, nil
	}
	conversation, err := s.conversationRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if conversation.UserID != userID {
		return nil, nil
	}
	return conversation, nil
}

// Create inserts a new conversation. Duplicate contact phones are allowed.
func (s *ConversationService) Create(userID uint, input CreateConversationInput) (*models.Conversation, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	conversation := &models.Conversation{
		UserID:        userID,
		ContactName:   input.ContactName,
		ContactPhone:  input.ContactPhone,
		IsGroup:       input.IsGroup,
		LastMessage:   "",
		LastMessageAt: time.Now(),
		UnreadCount:   0,
	}
	if err := s.conversationRepo.Create(conversation); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyChange(userID, Change{Event: EventConversationCreated, ID: conversation.ID})
	}
	return conversation, nil
}

// MarkAsRead zeroes the unread counter. Idempotent.
func (s *ConversationService) MarkAsRead(userID, id uint) error {
	if userID == 0 {
		return ErrUnauthenticated
	}
	conversation, err := s.loadOwned(userID, id)
	if err != nil {
		return err
	}

	if err := s.conversationRepo.ResetUnread(conversation.ID); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifyChange(userID, Change{Event: EventConversationUpdated, ID: conversation.ID})
	}
	return nil
}

// Remove deletes the conversation's messages, then the conversation. The
// two deletes run separately: a crash in between leaves orphan messages and
// no reconciliation job cleans them up.
func (s *ConversationService) Remove(userID, id uint) error {
	if userID == 0 {
		return ErrUnauthenticated
	}
	conversation, err := s.loadOwned(userID, id)
	if err != nil {
		return err
	}

	if err := s.messageRepo.DeleteByConversation(conversation.ID); err != nil {
		return err
	}
	if err := s.conversationRepo.Delete(conversation.ID); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifyChange(userID, Change{Event: EventConversationRemoved, ID: conversation.ID})
	}
	return nil
}

// loadOwned fetches the conversation for a write. Nonexistent and
// not-owned collapse into the same ErrNotFound.
func (s *ConversationService) loadOwned(userID, id uint) (*models.Conversation, error) {
	conversation, err := s.conversationRepo.FindByID(id)
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
