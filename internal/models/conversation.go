package models

import "time"

// Conversation is one thread with an external contact. lastMessage and
// lastMessageAt are denormalized from the newest message so the inbox list
// never has to fan out into the messages table.
type Conversation struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uint `gorm:"index;not null" json:"user_id"`

	ContactName  string `gorm:"not null" json:"contact_name"`
	ContactPhone string `gorm:"not null" json:"contact_phone"`
	IsGroup      bool   `gorm:"default:false" json:"is_group"`

	LastMessage   string    `json:"last_message"`
	LastMessageAt time.Time `gorm:"index" json:"last_message_at"`
	UnreadCount   int       `gorm:"default:0" json:"unread_count"`

	Messages []Message `gorm:"foreignKey:ConversationID" json:"-"`
}

type ConversationResponse struct {
	ID            uint      `json:"id"`
	ContactName   string    `json:"contact_name"`
	ContactPhone  string    `json:"contact_phone"`
	IsGroup       bool      `json:"is_group"`
	LastMessage   string    `json:"last_message"`
	LastMessageAt time.Time `json:"last_message_at"`
	UnreadCount   int       `json:"unread_count"`
	CreatedAt     time.Time `json:"created_at"`
}

func (c *Conversation) ToResponse() ConversationResponse {
	return ConversationResponse{
		ID:            c.ID,
		ContactName:   c.ContactName,
		ContactPhone:  c.ContactPhone,
		IsGroup:       c.IsGroup,
		LastMessage:   c.LastMessage,
		LastMessageAt: c.LastMessageAt,
		UnreadCount:   c.UnreadCount,
		CreatedAt:     c.CreatedAt,
	}
}
