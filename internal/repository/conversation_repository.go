package repository

import (
	"github.com/flowdeskhq/flowdesk-backend/internal/models"
	"gorm.io/gorm"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) Create(conversation *models.Conversation) error {
	return r.db.Create(conversation).Error
}

func (r *ConversationRepository) FindByID(id uint) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.First(&conversation, id).Error
	return &conversation, err
}

func (r *ConversationRepository) ListByUser(userID uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&conversations).Error
	return conversations, err
}

// ResetUnread zeroes the unread counter. Unconditional, so repeated calls
// are harmless.
func (r *ConversationRepository) ResetUnread(id uint) error {
	return r.db.Model(&models.Conversation{}).Where("id = ?", id).
		Update("unread_count", 0).Error
}

func (r *ConversationRepository) Delete(id uint) error {
	return r.db.Delete(&models.Conversation{}, id).Error
}
