package service

import (
	"errors"
	"testing"

	"github.com/flowdeskhq/flowdesk-backend/internal/models"
)

func newMessageFixture() (*MessageService, *ConversationService, *MockConversationRepository, *MockMessageRepository, *MockActivityRepository, *RecordingNotifier) {
	conversationRepo := NewMockConversationRepository()
	messageRepo := NewMockMessageRepository(conversationRepo)
	activityRepo := NewMockActivityRepository()
	messageRepo.activitySink = activityRepo
	notifier := NewRecordingNotifier()
	messageSvc := NewMessageService(messageRepo, conversationRepo, notifier)
	conversationSvc := NewConversationService(conversationRepo, messageRepo, notifier)
	return messageSvc, conversationSvc, conversationRepo, messageRepo, activityRepo, notifier
}

func TestSendUpdatesConversationPreview(t *testing.T) {
	messageSvc, conversationSvc, conversationRepo, _, _, _ := newMessageFixture()

	conversation, err := conversationSvc.Create(1, CreateConversationInput{ContactName: "Alice", ContactPhone: "+1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	message, err := messageSvc.Send(1, conversation.ID, SendMessageInput{Content: "first"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if message.Sender != models.SenderUser {
		t.Errorf("Sender = %q, want %q", message.Sender, models.SenderUser)
	}
	if message.Status != models.StatusSent {
		t.Errorf("Status = %q, want %q", message.Status, models.StatusSent)
	}
	if message.MessageType != models.TextMessage {
		t.Errorf("MessageType = %q, want %q (default)", message.MessageType, models.TextMessage)
	}

	if _, err := messageSvc.Send(1, conversation.ID, SendMessageInput{Content: "second"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	updated := conversationRepo.conversations[conversation.ID]
	if updated.LastMessage != "second" {
		t.Errorf("LastMessage = %q, want %q", updated.LastMessage, "second")
	}
	if updated.UnreadCount != 0 {
		t.Errorf("UnreadCount = %d after outbound sends, want 0", updated.UnreadCount)
	}
}

func TestSendLogsExactlyOneActivityEntry(t *testing.T) {
	messageSvc, conversationSvc, _, _, activityRepo, _ := newMessageFixture()

	conversation, err := conversationSvc.Create(1, CreateConversationInput{ContactName: "Alice", ContactPhone: "+1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := messageSvc.Send(1, conversation.ID, SendMessageInput{Content: "hello"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if len(activityRepo.entries) != 1 {
		t.Fatalf("activity entries = %d, want 1", len(activityRepo.entries))
	}
	entry := activityRepo.entries[0]
	if entry.Action != models.ActionMessageSent {
		t.Errorf("Action = %q, want %q", entry.Action, models.ActionMessageSent)
	}
	if entry.Details != "Sent message to Alice" {
		t.Errorf("Details = %q, want %q", entry.Details, "Sent message to Alice")
	}
}

func TestSendNotifiesChangeFeed(t *testing.T) {
	messageSvc, conversationSvc, _, _, _, notifier := newMessageFixture()

	conversation, err := conversationSvc.Create(1, CreateConversationInput{ContactName: "Alice", ContactPhone: "+1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := messageSvc.Send(1, conversation.ID, SendMessageInput{Content: "hello"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	events := notifier.EventsFor(1)
	want := map[string]bool{
		EventMessageCreated:      false,
		EventConversationUpdated: false,
		EventActivityCreated:     false,
	}
	for _, event := range events {
		if _, ok := want[event]; ok {
			want[event] = true
		}
	}
	for event, seen := range want {
		if !seen {
			t.Errorf("change feed missing %s after Send", event)
		}
	}
}

func TestSendScopeMissIsNotFound(t *testing.T) {
	messageSvc, conversationSvc, _, _, _, _ := newMessageFixture()

	conversation, err := conversationSvc.Create(1, CreateConversationInput{ContactName: "Alice", ContactPhone: "+1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := messageSvc.Send(2, conversation.ID, SendMessageInput{Content: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Send by non-owner error = %v, want ErrNotFound", err)
	}
	if _, err := messageSvc.Send(1, 9999, SendMessageInput{Content: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Send to missing conversation error = %v, want ErrNotFound", err)
	}
	if _, err := messageSvc.Send(0, conversation.ID, SendMessageInput{Content: "x"}); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Send without identity error = %v, want ErrUnauthenticated", err)
	}
}

func TestSimulateReceiveBumpsUnread(t *testing.T) {
	messageSvc, conversationSvc, conversationRepo, messageRepo, _, _ := newMessageFixture()

	conversation, err := conversationSvc.Create(1, CreateConversationInput{ContactName: "Alice", ContactPhone: "+1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	conversationRepo.conversations[conversation.ID].UnreadCount = 4

	if err := messageSvc.SimulateReceive(1, conversation.ID, "inbound hi"); err != nil {
		t.Fatalf("SimulateReceive failed: %v", err)
	}

	updated := conversationRepo.conversations[conversation.ID]
	if updated.UnreadCount != 5 {
		t.Errorf("UnreadCount = %d, want 5", updated.UnreadCount)
	}
	if updated.LastMessage != "inbound hi" {
		t.Errorf("LastMessage = %q, want %q", updated.LastMessage, "inbound hi")
	}

	messages, err := messageRepo.ListByConversation(conversation.ID)
	if err != nil {
		t.Fatalf("ListByConversation failed: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(messages))
	}
	if messages[0].Sender != models.SenderContact {
		t.Errorf("Sender = %q, want %q", messages[0].Sender, models.SenderContact)
	}
	if messages[0].Status != models.StatusDelivered {
		t.Errorf("Status = %q, want %q", messages[0].Status, models.StatusDelivered)
	}
}

func TestSimulateReceiveLogsNoActivity(t *testing.T) {
	messageSvc, conversationSvc, _, _, activityRepo, _ := newMessageFixture()

	conversation, err := conversationSvc.Create(1, CreateConversationInput{ContactName: "Alice", ContactPhone: "+1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := messageSvc.SimulateReceive(1, conversation.ID, "inbound"); err != nil {
		t.Fatalf("SimulateReceive failed: %v", err)
	}

	if len(activityRepo.entries) != 0 {
		t.Errorf("activity entries = %d after inbound message, want 0", len(activityRepo.entries))
	}
}

func TestMessageListScopeMissIsEmpty(t *testing.T) {
	messageSvc, conversationSvc, _, _, _, _ := newMessageFixture()

	conversation, err := conversationSvc.Create(1, CreateConversationInput{ContactName: "Alice", ContactPhone: "+1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := messageSvc.Send(1, conversation.ID, SendMessageInput{Content: "hello"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	for name, call := range map[string]func() ([]models.Message, error){
		"non-owner":            func() ([]models.Message, error) { return messageSvc.List(2, conversation.ID) },
		"missing conversation": func() ([]models.Message, error) { return messageSvc.List(1, 9999) },
		"no identity":          func() ([]models.Message, error) { return messageSvc.List(0, conversation.ID) },
	} {
		messages, err := call()
		if err != nil {
			t.Errorf("%s: List failed: %v", name, err)
			continue
		}
		if len(messages) != 0 {
			t.Errorf("%s: List returned %d messages, want 0", name, len(messages))
		}
	}
}

func TestMessageListOldestFirst(t *testing.T) {
	messageSvc, conversationSvc, _, _, _, _ := newMessageFixture()

	conversation, err := conversationSvc.Create(1, CreateConversationInput{ContactName: "Alice", ContactPhone: "+1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	for _, content := range []string{"one", "two", "three"} {
		if _, err := messageSvc.Send(1, conversation.ID, SendMessageInput{Content: content}); err != nil {
			t.Fatalf("Send failed: %v", err)
		}
	}

	messages, err := messageSvc.List(1, conversation.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("List returned %d messages, want 3", len(messages))
	}
	if messages[0].Content != "one" || messages[2].Content != "three" {
		t.Errorf("messages out of order: %q ... %q", messages[0].Content, messages[2].Content)
	}
}
