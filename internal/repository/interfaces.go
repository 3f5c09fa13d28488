package repository

import (
	"time"

	"github.com/flowdeskhq/flowdesk-backend/internal/models"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	FindByEmail(email string) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	FindByID(id uint) (*models.User, error)
}

// RefreshTokenRepositoryInterface defines the contract for refresh token repository operations
type RefreshTokenRepositoryInterface interface {
	Create(token *models.RefreshToken) error
	FindValidByHash(tokenHash string) (*models.RefreshToken, error)
	RevokeByHash(tokenHash string) error
}

// TeamMemberRepositoryInterface defines the contract for team member repository operations
type TeamMemberRepositoryInterface interface {
	Create(member *models.TeamMember) error
	FindByUserID(userID uint) (*models.TeamMember, error)
	// List returns every team member across all users, newest first.
	// Deliberately unscoped: the roster is visible team-wide.
	List() ([]models.TeamMember, error)
	UpdateStatus(id uint, status models.MemberStatus) error
	SetWhatsappConnected(id uint, connected bool) error
	Update(member *models.TeamMember) error
}

// ConversationRepositoryInterface defines the contract for conversation repository operations
type ConversationRepositoryInterface interface {
	Create(conversation *models.Conversation) error
	FindByID(id uint) (*models.Conversation, error)
	ListByUser(userID uint) ([]models.Conversation, error)
	ResetUnread(id uint) error
	Delete(id uint) error
}

// ConversationPatch describes the denormalized fields touched when a message
// lands in a conversation. A nil UnreadCount leaves the counter alone.
type ConversationPatch struct {
	LastMessage   string
	LastMessageAt time.Time
	UnreadCount   *int
}

// MessageRepositoryInterface defines the contract for message repository operations
type MessageRepositoryInterface interface {
	// CreateWithConversationUpdate inserts the message, applies the
	// denormalization patch to its parent conversation, and (when entry is
	// non-nil) appends an activity log row, all inside one transaction.
	CreateWithConversationUpdate(message *models.Message, patch ConversationPatch, entry *models.ActivityLog) error
	ListByConversation(conversationID uint) ([]models.Message, error)
	DeleteByConversation(conversationID uint) error
	CountByConversation(conversationID uint) (int64, error)
}

// IntegrationRepositoryInterface defines the contract for integration settings repository operations
type IntegrationRepositoryInterface interface {
	Create(settings *models.IntegrationSettings) error
	FindByUserID(userID uint) (*models.IntegrationSettings, error)
	// PatchFields applies a partial column update; columns absent from the
	// map are left untouched.
	PatchFields(id uint, fields map[string]interface{}) error
}

// ActivityRepositoryInterface defines the contract for activity log repository operations
type ActivityRepositoryInterface interface {
	Create(entry *models.ActivityLog) error
	ListRecent(userID uint, limit int) ([]models.ActivityLog, error)
}
