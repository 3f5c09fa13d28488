package cache

import (
	"fmt"
	"time"

	"github.com/flowdeskhq/flowdesk-backend/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

// TTL constants for different cache types
const (
	ConversationListTTL = 2 * time.Minute
	MessageListTTL      = 5 * time.Minute
)

// ConversationCache holds per-user inbox lists and per-conversation message
// lists. Every write that touches a conversation drops the affected keys;
// the cache is never patched in place.
type ConversationCache struct {
	redis *RedisCache
}

func NewConversationCache(redis *RedisCache) *ConversationCache {
	return &ConversationCache{redis: redis}
}

func listKey(userID uint) string {
	return fmt.Sprintf("convlist:%d", userID)
}

func messagesKey(userID, conversationID uint) string {
	// Scoped by owner as well: cache hits must never cross users.
	return fmt.Sprintf("convmsgs:%d:%d", userID, conversationID)
}

// GetList retrieves a cached conversation list for a user
func (cc *ConversationCache) GetList(userID uint) ([]models.Conversation, bool) {
	if cc == nil || cc.redis == nil {
		return nil, false
	}
	data, err := cc.redis.Get(listKey(userID))
	if err != nil || data == nil {
		return nil, false
	}

	var conversations []models.Conversation
	if err := msgpack.Unmarshal(data, &conversations); err != nil {
		return nil, false
	}
	return conversations, true
}

// SetList caches a user's conversation list
func (cc *ConversationCache) SetList(userID uint, conversations []models.Conversation) error {
	if cc == nil || cc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(conversations)
	if err != nil {
		return err
	}
	return cc.redis.Set(listKey(userID), data, ConversationListTTL)
}

// InvalidateList drops a user's cached conversation list
func (cc *ConversationCache) InvalidateList(userID uint) error {
	if cc == nil || cc.redis == nil {
		return nil
	}
	return cc.redis.Delete(listKey(userID))
}

// GetMessages retrieves cached messages for a conversation
func (cc *ConversationCache) GetMessages(userID, conversationID uint) ([]models.Message, bool) {
	if cc == nil || cc.redis == nil {
		return nil, false
	}
	data, err := cc.redis.Get(messagesKey(userID, conversationID))
	if err != nil || data == nil {
		return nil, false
	}

	var messages []models.Message
	if err := msgpack.Unmarshal(data, &messages); err != nil {
		return nil, false
	}
	return messages, true
}

// SetMessages caches a conversation's messages
func (cc *ConversationCache) SetMessages(userID, conversationID uint, messages []models.Message) error {
	if cc == nil || cc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(messages)
	if err != nil {
		return err
	}
	return cc.redis.Set(messagesKey(userID, conversationID), data, MessageListTTL)
}

// InvalidateMessages drops a conversation's cached messages
func (cc *ConversationCache) InvalidateMessages(userID, conversationID uint) error {
	if cc == nil || cc.redis == nil {
		return nil
	}
	return cc.redis.Delete(messagesKey(userID, conversationID))
}
