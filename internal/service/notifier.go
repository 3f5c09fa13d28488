package service

// Change event names pushed over the change feed. Clients holding a live
// query re-fetch when an event touching their predicate arrives.
const (
	EventConversationCreated = "conversation.created"
	EventConversationUpdated = "conversation.updated"
	EventConversationRemoved = "conversation.removed"
	EventMessageCreated      = "message.created"
	EventTeamMemberUpdated   = "team_member.updated"
	EventIntegrationUpdated  = "integration.updated"
	EventActivityCreated     = "activity.created"
)

// Change describes a single committed write.
type Change struct {
	Event string `json:"event"`
	ID    uint   `json:"id,omitempty"`
}

// ChangeNotifier delivers change events to live subscribers. Services treat
// a nil notifier as "nobody listening".
type ChangeNotifier interface {
	// NotifyChange delivers a change to one user's subscribers.
	NotifyChange(userID uint, change Change)
	// BroadcastChange delivers a change to every subscriber. Used for the
	// team roster, which is visible across users.
	BroadcastChange(change Change)
}
