package models

import "time"

// IntegrationSettings is the per-user WhatsApp Business API configuration.
// Credentials are stored opaquely; Connect only flips the flag and never
// validates them against the upstream API.
type IntegrationSettings struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	BusinessID *string `json:"business_id,omitempty"`
	WebhookURL *string `json:"webhook_url,omitempty"`
	APIKey     *string `json:"-"`

	IsConnected bool       `gorm:"default:false" json:"is_connected"`
	ConnectedAt *time.Time `json:"connected_at,omitempty"`
}

type IntegrationSettingsResponse struct {
	ID          uint       `json:"id"`
	BusinessID  *string    `json:"business_id,omitempty"`
	WebhookURL  *string    `json:"webhook_url,omitempty"`
	HasAPIKey   bool       `json:"has_api_key"`
	IsConnected bool       `json:"is_connected"`
	ConnectedAt *time.Time `json:"connected_at,omitempty"`
}

func (s *IntegrationSettings) ToResponse() IntegrationSettingsResponse {
	return IntegrationSettingsResponse{
		ID:          s.ID,
		BusinessID:  s.BusinessID,
		WebhookURL:  s.WebhookURL,
		HasAPIKey:   s.APIKey != nil && *s.APIKey != "",
		IsConnected: s.IsConnected,
		ConnectedAt: s.ConnectedAt,
	}
}
