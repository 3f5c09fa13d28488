package repository

import (
	"github.com/flowdeskhq/flowdesk-backend/internal/models"
	"gorm.io/gorm"
)

type IntegrationRepository struct {
	db *gorm.DB
}

func NewIntegrationRepository(db *gorm.DB) *IntegrationRepository {
	return &IntegrationRepository{db: db}
}

func (r *IntegrationRepository) Create(settings *models.IntegrationSettings) error {
	return r.db.Create(settings).Error
}

func (r *IntegrationRepository) FindByUserID(userID uint) (*models.IntegrationSettings, error) {
	var settings models.IntegrationSettings
	err := r.db.Where("user_id = ?", userID).First(&settings).Error
	return &settings, err
}

func (r *IntegrationRepository) PatchFields(id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.Model(&models.IntegrationSettings{}).Where("id = ?", id).
		Updates(fields).Error
}
