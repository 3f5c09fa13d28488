package repository

import (
	"github.com/flowdeskhq/flowdesk-backend/internal/models"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// CreateWithConversationUpdate runs the message insert, the parent
// conversation patch and the optional activity log append as one
// transaction. The conversation's denormalized last-message fields must
// always mirror the newest message, so they change in the same unit of work
// that creates it.
func (r *MessageRepository) CreateWithConversationUpdate(message *models.Message, patch ConversationPatch, entry *models.ActivityLog) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"last_message":    patch.LastMessage,
			"last_message_at": patch.LastMessageAt,
		}
		if patch.UnreadCount != nil {
			updates["unread_count"] = *patch.UnreadCount
		}
		if err := tx.Model(&models.Conversation{}).
			Where("id = ?", message.ConversationID).
			Updates(updates).Error; err != nil {
			return err
		}

		if entry != nil {
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *MessageRepository) ListByConversation(conversationID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepository) DeleteByConversation(conversationID uint) error {
	return r.db.Where("conversation_id = ?", conversationID).
		Delete(&models.Message{}).Error
}

func (r *MessageRepository) CountByConversation(conversationID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	return count, err
}
