package service

import (
	"github.com/flowdeskhq/flowdesk-backend/internal/models"
	"github.com/flowdeskhq/flowdesk-backend/internal/repository"
)

// activityListLimit caps the audit trail read. The log is append-only and
// unbounded, so reads always take the newest slice.
const activityListLimit = 50

type ActivityService struct {
	activityRepo repository.ActivityRepositoryInterface
}

func NewActivityService(activityRepo repository.ActivityRepositoryInterface) *ActivityService {
	return &ActivityService{activityRepo: activityRepo}
}

// List returns the caller's newest 50 entries, newest first.
func (s *ActivityService) List(userID uint) ([]models.ActivityLog, error) {
	if userID == 0 {
		return []models.ActivityLog{}, nil
	}
	return s.activityRepo.ListRecent(userID, activityListLimit)
}
