package models

import "time"

type MemberStatus string

const (
	StatusOnline  MemberStatus = "online"
	StatusAway    MemberStatus = "away"
	StatusOffline MemberStatus = "offline"
)

// ValidMemberStatus reports whether s is one of the accepted presence values.
func ValidMemberStatus(s MemberStatus) bool {
	switch s {
	case StatusOnline, StatusAway, StatusOffline:
		return true
	}
	return false
}

// TeamMember is a user's workspace profile. There is at most one per user;
// it is created lazily the first time the dashboard loads.
type TeamMember struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	Name              string       `gorm:"not null" json:"name"`
	Role              string       `gorm:"not null" json:"role"`
	Phone             *string      `json:"phone,omitempty"`
	Status            MemberStatus `gorm:"type:varchar(20);default:'online'" json:"status"`
	WhatsappConnected bool         `gorm:"default:false" json:"whatsapp_connected"`

	Avatar            string     `json:"avatar"`
	AvatarKey         string     `json:"-"`
	AvatarContentType string     `json:"-"`
	AvatarSizeBytes   int64      `json:"-"`
	AvatarETag        string     `json:"-"`
	AvatarUpdatedAt   *time.Time `json:"-"`
}

type TeamMemberResponse struct {
	ID                uint         `json:"id"`
	UserID            uint         `json:"user_id"`
	Name              string       `json:"name"`
	Role              string       `json:"role"`
	Phone             *string      `json:"phone,omitempty"`
	Status            MemberStatus `json:"status"`
	WhatsappConnected bool         `json:"whatsapp_connected"`
	Avatar            string       `json:"avatar"`
	CreatedAt         time.Time    `json:"created_at"`
}

func (m *TeamMember) ToResponse() TeamMemberResponse {
	return TeamMemberResponse{
		ID:                m.ID,
		UserID:            m.UserID,
		Name:              m.Name,
		Role:              m.Role,
		Phone:             m.Phone,
		Status:            m.Status,
		WhatsappConnected: m.WhatsappConnected,
		Avatar:            m.Avatar,
		CreatedAt:         m.CreatedAt,
	}
}
