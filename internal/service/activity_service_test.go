package service

import (
	"fmt"
	"testing"

	"github.com/flowdeskhq/flowdesk-backend/internal/models"
)

func TestActivityListCapsAtFifty(t *testing.T) {
	activityRepo := NewMockActivityRepository()
	svc := NewActivityService(activityRepo)

	for i := 0; i < 60; i++ {
		if err := activityRepo.Create(&models.ActivityLog{
			UserID:  1,
			Action:  models.ActionMessageSent,
			Details: fmt.Sprintf("entry %d", i),
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	entries, err := svc.List(1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 50 {
		t.Fatalf("List returned %d entries, want 50", len(entries))
	}
	// Newest first: the most recent insert leads.
	if entries[0].Details != "entry 59" {
		t.Errorf("List[0].Details = %q, want %q", entries[0].Details, "entry 59")
	}
}

func TestActivityListScoped(t *testing.T) {
	activityRepo := NewMockActivityRepository()
	svc := NewActivityService(activityRepo)

	if err := activityRepo.Create(&models.ActivityLog{UserID: 1, Action: models.ActionMessageSent}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := activityRepo.Create(&models.ActivityLog{UserID: 2, Action: models.ActionWhatsappConnected}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	entries, err := svc.List(1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != models.ActionMessageSent {
		t.Errorf("List(1) = %v, want only user 1's entry", entries)
	}

	anon, err := svc.List(0)
	if err != nil {
		t.Fatalf("List(0) failed: %v", err)
	}
	if len(anon) != 0 {
		t.Errorf("List(0) returned %d entries, want 0", len(anon))
	}
}
