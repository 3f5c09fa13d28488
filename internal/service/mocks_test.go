package service

import (
	"sort"
	"sync"
	"time"

	"github.com/flowdeskhq/flowdesk-backend/internal/models"
	"github.com/flowdeskhq/flowdesk-backend/internal/repository"
	"gorm.io/gorm"
)

// In-memory repository doubles shared by the service tests. They mirror
// the real repositories' ordering and not-found semantics.

type MockUserRepository struct {
	users  map[uint]*models.User
	nextID uint
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[uint]*models.User), nextID: 1}
}

func (m *MockUserRepository) Create(user *models.User) error {
	if user.ID == 0 {
		user.ID = m.nextID
		m.nextID++
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockUserRepository) FindByUsername(username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockUserRepository) FindByID(id uint) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type MockRefreshTokenRepository struct {
	tokens map[string]*models.RefreshToken
	nextID uint
}

func NewMockRefreshTokenRepository() *MockRefreshTokenRepository {
	return &MockRefreshTokenRepository{tokens: make(map[string]*models.RefreshToken), nextID: 1}
}

func (m *MockRefreshTokenRepository) Create(token *models.RefreshToken) error {
	if token.ID == 0 {
		token.ID = m.nextID
		m.nextID++
	}
	m.tokens[token.TokenHash] = token
	return nil
}

func (m *MockRefreshTokenRepository) FindValidByHash(tokenHash string) (*models.RefreshToken, error) {
	t, ok := m.tokens[tokenHash]
	if !ok || t.IsRevoked() || time.Now().After(t.ExpiresAt) {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (m *MockRefreshTokenRepository) RevokeByHash(tokenHash string) error {
	if t, ok := m.tokens[tokenHash]; ok {
		now := time.Now()
		t.RevokedAt = &now
	}
	return nil
}

type MockTeamMemberRepository struct {
	members map[uint]*models.TeamMember
	nextID  uint
}

func NewMockTeamMemberRepository() *MockTeamMemberRepository {
	return &MockTeamMemberRepository{members: make(map[uint]*models.TeamMember), nextID: 1}
}

func (m *MockTeamMemberRepository) Create(member *models.TeamMember) error {
	if member.ID == 0 {
		member.ID = m.nextID
		m.nextID++
	}
	if member.CreatedAt.IsZero() {
		member.CreatedAt = time.Now()
	}
	m.members[member.ID] = member
	return nil
}

func (m *MockTeamMemberRepository) FindByUserID(userID uint) (*models.TeamMember, error) {
	for _, member := range m.members {
		if member.UserID == userID {
			return member, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockTeamMemberRepository) List() ([]models.TeamMember, error) {
	result := make([]models.TeamMember, 0, len(m.members))
	for _, member := range m.members {
		result = append(result, *member)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockTeamMemberRepository) UpdateStatus(id uint, status models.MemberStatus) error {
	member, ok := m.members[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	member.Status = status
	return nil
}

func (m *MockTeamMemberRepository) SetWhatsappConnected(id uint, connected bool) error {
	member, ok := m.members[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	member.WhatsappConnected = connected
	return nil
}

func (m *MockTeamMemberRepository) Update(member *models.TeamMember) error {
	if _, ok := m.members[member.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.members[member.ID] = member
	return nil
}

type MockConversationRepository struct {
	conversations map[uint]*models.Conversation
	nextID        uint
}

func NewMockConversationRepository() *MockConversationRepository {
	return &MockConversationRepository{conversations: make(map[uint]*models.Conversation), nextID: 1}
}

func (m *MockConversationRepository) Create(conversation *models.Conversation) error {
	if conversation.ID == 0 {
		conversation.ID = m.nextID
		m.nextID++
	}
	if conversation.CreatedAt.IsZero() {
		conversation.CreatedAt = time.Now()
	}
	m.conversations[conversation.ID] = conversation
	return nil
}

func (m *MockConversationRepository) FindByID(id uint) (*models.Conversation, error) {
	if c, ok := m.conversations[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockConversationRepository) ListByUser(userID uint) ([]models.Conversation, error) {
	var result []models.Conversation
	for _, c := range m.conversations {
		if c.UserID == userID {
			result = append(result, *c)
		}
	}
	// Newest created first, like the real repository.
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (m *MockConversationRepository) ResetUnread(id uint) error {
	c, ok := m.conversations[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.UnreadCount = 0
	return nil
}

func (m *MockConversationRepository) Delete(id uint) error {
	delete(m.conversations, id)
	return nil
}

type MockMessageRepository struct {
	messages      map[uint]*models.Message
	conversations *MockConversationRepository
	activitySink  *MockActivityRepository
	nextID        uint
}

// NewMockMessageRepository couples the message store to a conversation
// store so the composite create can apply the denormalization patch.
func NewMockMessageRepository(conversations *MockConversationRepository) *MockMessageRepository {
	return &MockMessageRepository{
		messages:      make(map[uint]*models.Message),
		conversations: conversations,
		nextID:        1,
	}
}

func (m *MockMessageRepository) CreateWithConversationUpdate(message *models.Message, patch repository.ConversationPatch, entry *models.ActivityLog) error {
	if message.ID == 0 {
		message.ID = m.nextID
		m.nextID++
	}
	m.messages[message.ID] = message

	if c, ok := m.conversations.conversations[message.ConversationID]; ok {
		c.LastMessage = patch.LastMessage
		c.LastMessageAt = patch.LastMessageAt
		if patch.UnreadCount != nil {
			c.UnreadCount = *patch.UnreadCount
		}
	}
	if entry != nil && m.activitySink != nil {
		if err := m.activitySink.Create(entry); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockMessageRepository) ListByConversation(conversationID uint) ([]models.Message, error) {
	var result []models.Message
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			result = append(result, *msg)
		}
	}
	// Oldest first.
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *MockMessageRepository) DeleteByConversation(conversationID uint) error {
	for id, msg := range m.messages {
		if msg.ConversationID == conversationID {
			delete(m.messages, id)
		}
	}
	return nil
}

func (m *MockMessageRepository) CountByConversation(conversationID uint) (int64, error) {
	var count int64
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			count++
		}
	}
	return count, nil
}

type MockIntegrationRepository struct {
	settings map[uint]*models.IntegrationSettings
	nextID   uint
}

func NewMockIntegrationRepository() *MockIntegrationRepository {
	return &MockIntegrationRepository{settings: make(map[uint]*models.IntegrationSettings), nextID: 1}
}

func (m *MockIntegrationRepository) Create(settings *models.IntegrationSettings) error {
	if settings.ID == 0 {
		settings.ID = m.nextID
		m.nextID++
	}
	m.settings[settings.ID] = settings
	return nil
}

func (m *MockIntegrationRepository) FindByUserID(userID uint) (*models.IntegrationSettings, error) {
	for _, s := range m.settings {
		if s.UserID == userID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockIntegrationRepository) PatchFields(id uint, fields map[string]interface{}) error {
	s, ok := m.settings[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for column, value := range fields {
		switch column {
		case "business_id":
			v := value.(string)
			s.BusinessID = &v
		case "webhook_url":
			v := value.(string)
			s.WebhookURL = &v
		case "api_key":
			v := value.(string)
			s.APIKey = &v
		case "is_connected":
			s.IsConnected = value.(bool)
		case "connected_at":
			if value == nil {
				s.ConnectedAt = nil
			} else {
				s.ConnectedAt = value.(*time.Time)
			}
		}
	}
	return nil
}

type MockActivityRepository struct {
	entries []*models.ActivityLog
	nextID  uint
}

func NewMockActivityRepository() *MockActivityRepository {
	return &MockActivityRepository{nextID: 1}
}

func (m *MockActivityRepository) Create(entry *models.ActivityLog) error {
	if entry.ID == 0 {
		entry.ID = m.nextID
		m.nextID++
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockActivityRepository) ListRecent(userID uint, limit int) ([]models.ActivityLog, error) {
	var result []models.ActivityLog
	for i := len(m.entries) - 1; i >= 0 && len(result) < limit; i-- {
		if m.entries[i].UserID == userID {
			result = append(result, *m.entries[i])
		}
	}
	return result, nil
}

// RecordingNotifier captures published change events for assertions.
type RecordingNotifier struct {
	mu        sync.Mutex
	Targeted  map[uint][]Change
	Broadcast []Change
}

func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{Targeted: make(map[uint][]Change)}
}

func (n *RecordingNotifier) NotifyChange(userID uint, change Change) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Targeted[userID] = append(n.Targeted[userID], change)
}

func (n *RecordingNotifier) BroadcastChange(change Change) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Broadcast = append(n.Broadcast, change)
}

func (n *RecordingNotifier) EventsFor(userID uint) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var events []string
	for _, c := range n.Targeted[userID] {
		events = append(events, c.Event)
	}
	return events
}
