package models

import "time"

type MessageType string

const (
	TextMessage     MessageType = "text"
	ImageMessage    MessageType = "image"
	DocumentMessage MessageType = "document"
	VoiceMessage    MessageType = "voice"
)

type MessageStatus string

const (
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusRead      MessageStatus = "read"
)

type MessageSender string

const (
	SenderUser    MessageSender = "user"
	SenderContact MessageSender = "contact"
)

// Message rows are immutable once written. They only ever disappear through
// the conversation delete cascade.
type Message struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ConversationID uint `gorm:"index;not null" json:"conversation_id"`
	UserID         uint `gorm:"index;not null" json:"user_id"`

	Content     string        `gorm:"type:text;not null" json:"content"`
	Sender      MessageSender `gorm:"type:varchar(20);not null" json:"sender"`
	Status      MessageStatus `gorm:"type:varchar(20);default:'sent'" json:"status"`
	MessageType MessageType   `gorm:"type:varchar(20);default:'text'" json:"message_type"`
}

type MessageResponse struct {
	ID             uint          `json:"id"`
	ConversationID uint          `json:"conversation_id"`
	Content        string        `json:"content"`
	Sender         MessageSender `json:"sender"`
	Status         MessageStatus `json:"status"`
	MessageType    MessageType   `json:"message_type"`
	CreatedAt      time.Time     `json:"created_at"`
}

func (m *Message) ToResponse() MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Content:        m.Content,
		Sender:         m.Sender,
		Status:         m.Status,
		MessageType:    m.MessageType,
		CreatedAt:      m.CreatedAt,
	}
}

// ValidMessageType reports whether t is one of the accepted wire values.
func ValidMessageType(t MessageType) bool {
	switch t {
	case TextMessage, ImageMessage, DocumentMessage, VoiceMessage:
		return true
	}
	return false
}
