package repository

import (
	"github.com/flowdeskhq/flowdesk-backend/internal/models"
	"gorm.io/gorm"
)

type TeamMemberRepository struct {
	db *gorm.DB
}

func NewTeamMemberRepository(db *gorm.DB) *TeamMemberRepository {
	return &TeamMemberRepository{db: db}
}

func (r *TeamMemberRepository) Create(member *models.TeamMember) error {
	return r.db.Create(member).Error
}

func (r *TeamMemberRepository) FindByUserID(userID uint) (*models.TeamMember, error) {
	var member models.TeamMember
	err := r.db.Where("user_id = ?", userID).First(&member).Error
	return &member, err
}

func (r *TeamMemberRepository) List() ([]models.TeamMember, error) {
	var members []models.TeamMember
	err := r.db.Order("created_at DESC").Find(&members).Error
	return members, err
}

func (r *TeamMemberRepository) UpdateStatus(id uint, status models.MemberStatus) error {
	return r.db.Model(&models.TeamMember{}).Where("id = ?", id).
		Update("status", status).Error
}

func (r *TeamMemberRepository) SetWhatsappConnected(id uint, connected bool) error {
	return r.db.Model(&models.TeamMember{}).Where("id = ?", id).
		Update("whatsapp_connected", connected).Error
}

func (r *TeamMemberRepository) Update(member *models.TeamMember) error {
	return r.db.Save(member).Error
}
