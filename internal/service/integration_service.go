package service

import (
	"errors"
	"time"

	"github.com/flowdeskhq/flowdesk-backend/internal/models"
	"github.com/flowdeskhq/flowdesk-backend/internal/repository"
	"gorm.io/gorm"
)

type IntegrationService struct {
	integrationRepo repository.IntegrationRepositoryInterface
	activityRepo    repository.ActivityRepositoryInterface
	notifier        ChangeNotifier
}

func NewIntegrationService(integrationRepo repository.IntegrationRepositoryInterface, activityRepo repository.ActivityRepositoryInterface, notifier ChangeNotifier) *IntegrationService {
	return &IntegrationService{
		integrationRepo: integrationRepo,
		activityRepo:    activityRepo,
		notifier:        notifier,
	}
}

type SaveSettingsInput struct {
	BusinessID *string `json:"business_id,omitempty"`
	WebhookURL *string `json:"webhook_url,omitempty"`
	APIKey     *string `json:"api_key,omitempty"`
}

// GetSettings returns the caller's settings row, or nil when none exists.
func (s *IntegrationService) GetSettings(userID uint) (*models.IntegrationSettings, error) {
	if userID == 0 {
		return nil, nil
	}
	settings, err := s.integrationRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return settings, nil
}

// SaveSettings is a partial-field upsert: fields present in the input patch
// the existing row, absent fields are left untouched. The first save
// creates the row disconnected.
func (s *IntegrationService) SaveSettings(userID uint, input SaveSettingsInput) (uint, error) {
	if userID == 0 {
		return 0, ErrUnauthenticated
	}

	existing, err := s.integrationRepo.FindByUserID(userID)
	if err == nil {
		fields := map[string]interface{}{}
		if input.BusinessID != nil {
			fields["business_id"] = *input.BusinessID
		}
		if input.WebhookURL != nil {
			fields["webhook_url"] = *input.WebhookURL
		}
		if input.APIKey != nil {
			fields["api_key"] = *input.APIKey
		}
		if err := s.integrationRepo.PatchFields(existing.ID, fields); err != nil {
			return 0, err
		}
		if s.notifier != nil {
			s.notifier.NotifyChange(userID, Change{Event: EventIntegrationUpdated, ID: existing.ID})
		}
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	settings := &models.IntegrationSettings{
		UserID:      userID,
		BusinessID:  input.BusinessID,
		WebhookURL:  input.WebhookURL,
		APIKey:      input.APIKey,
		IsConnected: false,
	}
	if err := s.integrationRepo.Create(settings); err != nil {
		return 0, err
	}
	if s.notifier != nil {
		s.notifier.NotifyChange(userID, Change{Event: EventIntegrationUpdated, ID: settings.ID})
	}
	return settings.ID, nil
}

// Connect flips the connection flag and stamps connectedAt. It does not
// reach out to the WhatsApp Business API, and a caller without settings is
// a no-op.
func (s *IntegrationService) Connect(userID uint) error {
	if userID == 0 {
		return ErrUnauthenticated
	}
	settings, err := s.integrationRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	now := time.Now()
	if err := s.integrationRepo.PatchFields(settings.ID, map[string]interface{}{
		"is_connected": true,
		"connected_at": &now,
	}); err != nil {
		return err
	}

	entry := &models.ActivityLog{
		UserID:  userID,
		Action:  models.ActionWhatsappConnected,
		Details: "WhatsApp Business API connected successfully",
	}
	if err := s.activityRepo.Create(entry); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifyChange(userID, Change{Event: EventIntegrationUpdated, ID: settings.ID})
		s.notifier.NotifyChange(userID, Change{Event: EventActivityCreated, ID: entry.ID})
	}
	return nil
}

// Disconnect clears the flag and timestamp. No-op without settings.
func (s *IntegrationService) Disconnect(userID uint) error {
	if userID == 0 {
		return ErrUnauthenticated
	}
	settings, err := s.integrationRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if err := s.integrationRepo.PatchFields(settings.ID, map[string]interface{}{
		"is_connected": false,
		"connected_at": nil,
	}); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifyChange(userID, Change{Event: EventIntegrationUpdated, ID: settings.ID})
	}
	return nil
}
