package service

import (
	"errors"
	"testing"
)

func newConversationFixture() (*ConversationService, *MockConversationRepository, *MockMessageRepository, *RecordingNotifier) {
	conversationRepo := NewMockConversationRepository()
	messageRepo := NewMockMessageRepository(conversationRepo)
	notifier := NewRecordingNotifier()
	svc := NewConversationService(conversationRepo, messageRepo, notifier)
	return svc, conversationRepo, messageRepo, notifier
}

func TestConversationCreateDefaults(t *testing.T) {
	svc, _, _, notifier := newConversationFixture()

	conversation, err := svc.Create(1, CreateConversationInput{
		ContactName:  "Alice Smith",
		ContactPhone: "+15551234567",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if conversation.UnreadCount != 0 {
		t.Errorf("UnreadCount = %d, want 0", conversation.UnreadCount)
	}
	if conversation.LastMessage != "" {
		t.Errorf("LastMessage = %q, want empty", conversation.LastMessage)
	}
	if conversation.LastMessageAt.IsZero() {
		t.Error("LastMessageAt should be stamped at creation")
	}
	if conversation.IsGroup {
		t.Error("IsGroup = true, want false by default")
	}

	events := notifier.EventsFor(1)
	if len(events) != 1 || events[0] != EventConversationCreated {
		t.Errorf("events = %v, want [%s]", events, EventConversationCreated)
	}
}

func TestConversationCreateUnauthenticated(t *testing.T) {
	svc, _, _, _ := newConversationFixture()

	if _, err := svc.Create(0, CreateConversationInput{ContactName: "X", ContactPhone: "+1"}); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Create(0) error = %v, want ErrUnauthenticated", err)
	}
}

func TestConversationListScopedToOwner(t *testing.T) {
	svc, _, _, _ := newConversationFixture()

	if _, err := svc.Create(1, CreateConversationInput{ContactName: "A", ContactPhone: "+1"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create(1, CreateConversationInput{ContactName: "B", ContactPhone: "+2"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create(2, CreateConversationInput{ContactName: "C", ContactPhone: "+3"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	mine, err := svc.List(1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("List(1) returned %d conversations, want 2", len(mine))
	}
	for _, c := range mine {
		if c.UserID != 1 {
			t.Errorf("List(1) leaked conversation owned by user %d", c.UserID)
		}
	}
	// Newest created first.
	if mine[0].ContactName != "B" {
		t.Errorf("List(1)[0].ContactName = %q, want %q", mine[0].ContactName, "B")
	}
}

func TestConversationListUnauthenticatedIsEmpty(t *testing.T) {
	svc, _, _, _ := newConversationFixture()

	if _, err := svc.Create(1, CreateConversationInput{ContactName: "A", ContactPhone: "+1"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	list, err := svc.List(0)
	if err != nil {
		t.Fatalf("List(0) failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("List(0) returned %d conversations, want 0", len(list))
	}
}

func TestConversationGetHidesForeign(t *testing.T) {
	svc, _, _, _ := newConversationFixture()

	created, err := svc.Create(1, CreateConversationInput{ContactName: "A", ContactPhone: "+1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := svc.Get(2, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Error("Get by non-owner returned the conversation, want nil")
	}

	missing, err := svc.Get(1, 9999)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if missing != nil {
		t.Error("Get of missing id returned a conversation, want nil")
	}
}

func TestConversationMarkAsReadIdempotent(t *testing.T) {
	svc, conversationRepo, _, _ := newConversationFixture()

	created, err := svc.Create(1, CreateConversationInput{ContactName: "A", ContactPhone: "+1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	conversationRepo.conversations[created.ID].UnreadCount = 5

	if err := svc.MarkAsRead(1, created.ID); err != nil {
		t.Fatalf("MarkAsRead failed: %v", err)
	}
	if got := conversationRepo.conversations[created.ID].UnreadCount; got != 0 {
		t.Errorf("UnreadCount = %d after MarkAsRead, want 0", got)
	}

	// Second call on an already-read conversation succeeds.
	if err := svc.MarkAsRead(1, created.ID); err != nil {
		t.Fatalf("second MarkAsRead failed: %v", err)
	}
}

func TestConversationMarkAsReadForeignIsNotFound(t *testing.T) {
	svc, _, _, _ := newConversationFixture()

	created, err := svc.Create(1, CreateConversationInput{ContactName: "A", ContactPhone: "+1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.MarkAsRead(2, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkAsRead by non-owner error = %v, want ErrNotFound", err)
	}
	if err := svc.MarkAsRead(1, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkAsRead of missing id error = %v, want ErrNotFound", err)
	}
}

func TestConversationRemoveCascadesMessages(t *testing.T) {
	conversationRepo := NewMockConversationRepository()
	messageRepo := NewMockMessageRepository(conversationRepo)
	notifier := NewRecordingNotifier()
	conversationSvc := NewConversationService(conversationRepo, messageRepo, notifier)
	messageSvc := NewMessageService(messageRepo, conversationRepo, notifier)

	created, err := conversationSvc.Create(1, CreateConversationInput{ContactName: "A", ContactPhone: "+1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := messageSvc.Send(1, created.ID, SendMessageInput{Content: "hello"}); err != nil {
			t.Fatalf("Send failed: %v", err)
		}
	}

	if err := conversationSvc.Remove(1, created.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if _, err := conversationRepo.FindByID(created.ID); err == nil {
		t.Error("conversation still present after Remove")
	}
	count, err := messageRepo.CountByConversation(created.ID)
	if err != nil {
		t.Fatalf("CountByConversation failed: %v", err)
	}
	if count != 0 {
		t.Errorf("%d messages left after Remove, want 0", count)
	}
}

func TestConversationRemoveForeignLeavesData(t *testing.T) {
	svc, conversationRepo, _, _ := newConversationFixture()

	created, err := svc.Create(1, CreateConversationInput{ContactName: "A", ContactPhone: "+1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Remove(2, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove by non-owner error = %v, want ErrNotFound", err)
	}
	if _, err := conversationRepo.FindByID(created.ID); err != nil {
		t.Error("conversation removed by a non-owner")
	}
}

func TestConversationDuplicatePhonesAllowed(t *testing.T) {
	svc, _, _, _ := newConversationFixture()

	first, err := svc.Create(1, CreateConversationInput{ContactName: "A", ContactPhone: "+15551234567"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := svc.Create(1, CreateConversationInput{ContactName: "A again", ContactPhone: "+15551234567"})
	if err != nil {
		t.Fatalf("duplicate-phone Create failed: %v", err)
	}
	if first.ID == second.ID {
		t.Error("duplicate-phone Create reused the same conversation")
	}
}
