package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/flowdeskhq/flowdesk-backend/internal/models"
	"github.com/flowdeskhq/flowdesk-backend/internal/repository"
	"github.com/flowdeskhq/flowdesk-backend/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrStorageNotConfigured = errors.New("storage not configured")

type AvatarService struct {
	teamRepo repository.TeamMemberRepositoryInterface
	s3       *storage.S3Storage
	notifier ChangeNotifier
}

func NewAvatarService(teamRepo repository.TeamMemberRepositoryInterface, s3 *storage.S3Storage, notifier ChangeNotifier) *AvatarService {
	return &AvatarService{teamRepo: teamRepo, s3: s3, notifier: notifier}
}

// UploadAvatar processes an uploaded image and stores it as a JPEG avatar
// on the caller's team member profile. Returns the updated member.
func (s *AvatarService) UploadAvatar(ctx context.Context, userID uint, fileReader io.Reader, publicAPIBaseURL string) (*models.TeamMember, error) {
	if s.s3 == nil {
		return nil, ErrStorageNotConfigured
	}
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	publicAPIBaseURL = strings.TrimRight(strings.TrimSpace(publicAPIBaseURL), "/")
	if publicAPIBaseURL == "" {
		return nil, errors.New("missing public api base url")
	}

	member, err := s.teamRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	opts := storage.DefaultAvatarOptions()
	jpegBytes, contentType, outSize, err := storage.ProcessAvatarImage(fileReader, opts)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("avatars/%d/%s.jpg", userID, uuid.NewString())
	st, err := s.s3.PutObject(ctx, key, bytes.NewReader(jpegBytes), outSize, contentType)
	if err != nil {
		return nil, err
	}

	avatarURL := publicAPIBaseURL + "/media/avatars/" + key

	// Keep old key; delete only after DB update succeeds.
	oldKey := strings.TrimSpace(member.AvatarKey)

	now := time.Now().UTC()
	member.Avatar = avatarURL
	member.AvatarKey = key
	member.AvatarContentType = contentType
	member.AvatarSizeBytes = outSize
	member.AvatarUpdatedAt = &now
	member.AvatarETag = st.ETag

	if err := s.teamRepo.Update(member); err != nil {
		// Try to delete newly created object to avoid orphan.
		_ = s.s3.DeleteObject(ctx, key)
		return nil, err
	}

	// Best-effort delete previous object if present.
	if oldKey != "" && oldKey != key {
		_ = s.s3.DeleteObject(ctx, oldKey)
	}

	if s.notifier != nil {
		s.notifier.BroadcastChange(Change{Event: EventTeamMemberUpdated, ID: member.ID})
	}
	return member, nil
}

// DeleteAvatar removes the member's avatar reference and deletes the stored
// object (best-effort). Returns the updated member.
func (s *AvatarService) DeleteAvatar(ctx context.Context, userID uint) (*models.TeamMember, error) {
	if s.s3 == nil {
		return nil, ErrStorageNotConfigured
	}
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	member, err := s.teamRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	oldKey := strings.TrimSpace(member.AvatarKey)

	member.Avatar = ""
	member.AvatarKey = ""
	member.AvatarContentType = ""
	member.AvatarSizeBytes = 0
	member.AvatarUpdatedAt = nil
	member.AvatarETag = ""

	if err := s.teamRepo.Update(member); err != nil {
		return nil, err
	}

	if oldKey != "" {
		_ = s.s3.DeleteObject(ctx, oldKey)
	}

	if s.notifier != nil {
		s.notifier.BroadcastChange(Change{Event: EventTeamMemberUpdated, ID: member.ID})
	}
	return member, nil
}
