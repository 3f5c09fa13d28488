package models

import "time"

// Activity log action names.
const (
	ActionMessageSent       = "message_sent"
	ActionWhatsappConnected = "whatsapp_connected"
)

// ActivityLog is an append-only audit trail entry. There is no update or
// delete path.
type ActivityLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID  uint   `gorm:"index;not null" json:"user_id"`
	Action  string `gorm:"not null" json:"action"`
	Details string `json:"details"`
}

type ActivityLogResponse struct {
	ID        uint      `json:"id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *ActivityLog) ToResponse() ActivityLogResponse {
	return ActivityLogResponse{
		ID:        l.ID,
		Action:    l.Action,
		Details:   l.Details,
		CreatedAt: l.CreatedAt,
	}
}
