package service

import (
	"errors"

	"github.com/flowdeskhq/flowdesk-backend/internal/models"
	"github.com/flowdeskhq/flowdesk-backend/internal/repository"
	"gorm.io/gorm"
)

type TeamService struct {
	teamRepo repository.TeamMemberRepositoryInterface
	notifier ChangeNotifier
}

func NewTeamService(teamRepo repository.TeamMemberRepositoryInterface, notifier ChangeNotifier) *TeamService {
	return &TeamService{teamRepo: teamRepo, notifier: notifier}
}

type CreateMemberInput struct {
	Name  string  `json:"name"`
	Role  string  `json:"role"`
	Phone *string `json:"phone,omitempty"`
}

// List returns the whole roster, newest first. Unlike every other entity
// this read is not scoped to the caller: the roster is team-wide.
func (s *TeamService) List(userID uint) ([]models.TeamMember, error) {
	if userID == 0 {
		return []models.TeamMember{}, nil
	}
	return s.teamRepo.List()
}

// GetMyProfile returns the caller's member row, or nil when none exists.
func (s *TeamService) GetMyProfile(userID uint) (*models.TeamMember, error) {
	if userID == 0 {
		return nil, nil
	}
	member, err := s.teamRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return member, nil
}

// Create is an upsert-by-existence: an existing profile is returned as-is,
// otherwise one is created with the default presence.
func (s *TeamService) Create(userID uint, input CreateMemberInput) (*models.TeamMember, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	existing, err := s.teamRepo.FindByUserID(userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	member := &models.TeamMember{
		UserID:            userID,
		Name:              input.Name,
		Role:              input.Role,
		Phone:             input.Phone,
		Status:            models.StatusOnline,
		WhatsappConnected: false,
	}
	if err := s.teamRepo.Create(member); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.BroadcastChange(Change{Event: EventTeamMemberUpdated, ID: member.ID})
	}
	return member, nil
}

// UpdateStatus patches the caller's presence. A caller without a profile is
// a no-op, not an error.
func (s *TeamService) UpdateStatus(userID uint, status models.MemberStatus) error {
	if userID == 0 {
		return ErrUnauthenticated
	}
	member, err := s.teamRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if err := s.teamRepo.UpdateStatus(member.ID, status); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.BroadcastChange(Change{Event: EventTeamMemberUpdated, ID: member.ID})
	}
	return nil
}

// ConnectWhatsApp flips the member's integration flag. No-op without a
// profile.
func (s *TeamService) ConnectWhatsApp(userID uint) error {
	if userID == 0 {
		return ErrUnauthenticated
	}
	member, err := s.teamRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if err := s.teamRepo.SetWhatsappConnected(member.ID, true); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.BroadcastChange(Change{Event: EventTeamMemberUpdated, ID: member.ID})
	}
	return nil
}
